package tui

import (
	"context"
	"fmt"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwansa/kwacha/internal/app"
	"github.com/mwansa/kwacha/internal/domain"
	"github.com/mwansa/kwacha/internal/service"
)

// DashboardModel represents the dashboard home screen
type DashboardModel struct {
	app *app.App

	// Data
	stats   service.Stats
	recent  []domain.InvoiceRecord
	owed    float64
	overdue float64

	loading bool
	err     error
}

type dashboardDataMsg struct {
	stats   service.Stats
	recent  []domain.InvoiceRecord
	owed    float64
	overdue float64
	err     error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(a *app.App) tea.Model {
	return &DashboardModel{
		app:     a,
		loading: true,
	}
}

func (m *DashboardModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *DashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		msg := dashboardDataMsg{}

		stats, err := m.app.Tracking.Stats(ctx)
		if err != nil {
			msg.err = fmt.Errorf("stats: %w", err)
			return msg
		}
		msg.stats = stats

		records, err := m.app.Tracking.List(ctx, service.Filter{})
		if err != nil {
			msg.err = fmt.Errorf("invoices: %w", err)
			return msg
		}

		now := time.Now()
		for _, r := range records {
			if r.Status == domain.StatusPaid {
				continue
			}
			msg.owed += r.Total()
			if r.IsOverdue(now) {
				msg.overdue += r.Total()
			}
		}

		// Most recently created first
		sort.Slice(records, func(i, j int) bool {
			return records[i].CreatedAt > records[j].CreatedAt
		})
		msg.recent = records

		return msg
	}
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.stats = msg.stats
		m.recent = msg.recent
		m.owed = msg.owed
		m.overdue = msg.overdue
		return m, nil

	case RefreshDataMsg:
		m.loading = true
		return m, m.loadData()
	}

	return m, nil
}

func (m *DashboardModel) View() string {
	if m.loading {
		return "Loading dashboard..."
	}

	if m.err != nil {
		return lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("Error: %v", m.err))
	}

	currency := m.app.Config.Invoice.Currency

	var s string
	s += fmt.Sprintf(
		"  Invoices:  %-6d  Paid:     %s\n  Pending:   %-6d  Overdue:  %s\n",
		m.stats.Total,
		paidStyle.Render(fmt.Sprintf("%d", m.stats.Paid)),
		m.stats.Pending,
		overdueStyle.Render(fmt.Sprintf("%d", m.stats.Overdue)),
	)
	s += fmt.Sprintf(
		"\n  Outstanding:  %s    Of which overdue:  %s\n",
		formatMoney(currency, m.owed),
		formatMoney(currency, m.overdue),
	)

	s += "\n" + m.renderRecent()
	return s
}

func (m *DashboardModel) renderRecent() string {
	header := titleStyle.Render("  Recent Invoices") + "\n"
	if len(m.recent) == 0 {
		return header + subtitleStyle.Render("  No invoices yet - press 'i' to get started") + "\n"
	}

	now := time.Now()
	currency := m.app.Config.Invoice.Currency

	s := header
	limit := 8
	if len(m.recent) < limit {
		limit = len(m.recent)
	}

	for i := 0; i < limit; i++ {
		r := m.recent[i]
		s += fmt.Sprintf("  %-16s %-24s %12s  %s\n",
			r.InvoiceNumber,
			truncateStr(r.ClientName, 24),
			formatMoney(currency, r.Subtotal()),
			renderStatus(&r, now),
		)
	}

	return s
}

// renderStatus colors the display status: green paid, red overdue, orange otherwise
func renderStatus(r *domain.InvoiceRecord, now time.Time) string {
	label := r.DisplayStatus(now)
	switch {
	case r.Status == domain.StatusPaid:
		return paidStyle.Render(label)
	case r.IsOverdue(now):
		return overdueStyle.Render(label)
	default:
		return pendingStyle.Render(label)
	}
}
