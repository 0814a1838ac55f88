package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwansa/kwacha/internal/app"
	"github.com/mwansa/kwacha/internal/domain"
	"github.com/mwansa/kwacha/internal/service"
)

// InvoicesModel lists tracked invoices with filtering and status actions
type InvoicesModel struct {
	app *app.App

	records []domain.InvoiceRecord
	cursor  int

	// Client-name filter
	filter    textinput.Model
	filtering bool

	loading bool
	err     error
}

type invoicesDataMsg struct {
	records []domain.InvoiceRecord
	err     error
}

type exportDoneMsg struct {
	path  string
	count int
	err   error
}

// NewInvoicesModel creates a new invoices screen model
func NewInvoicesModel(a *app.App) tea.Model {
	filter := textinput.New()
	filter.Placeholder = "client name..."
	filter.CharLimit = 64
	filter.Width = 32

	return &InvoicesModel{
		app:     a,
		filter:  filter,
		loading: true,
	}
}

func (m *InvoicesModel) Init() tea.Cmd {
	return m.loadData()
}

// IsCapturingInput implements InputCapturer
func (m *InvoicesModel) IsCapturingInput() bool {
	return m.filtering
}

func (m *InvoicesModel) loadData() tea.Cmd {
	client := m.filter.Value()
	return func() tea.Msg {
		records, err := m.app.Tracking.List(context.Background(), service.Filter{Client: client})
		return invoicesDataMsg{records: records, err: err}
	}
}

func (m *InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case invoicesDataMsg:
		m.loading = false
		m.err = msg.err
		m.records = msg.records
		if m.cursor >= len(m.records) {
			m.cursor = len(m.records) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		text := fmt.Sprintf("Exported %d invoice(s) to %s", msg.count, msg.path)
		return m, func() tea.Msg { return StatusLineMsg{Text: text} }

	case RefreshDataMsg:
		m.loading = true
		return m, m.loadData()

	case tea.KeyMsg:
		if m.filtering {
			switch msg.Type {
			case tea.KeyEnter, tea.KeyEsc:
				m.filtering = false
				m.filter.Blur()
				return m, m.loadData()
			default:
				var cmd tea.Cmd
				m.filter, cmd = m.filter.Update(msg)
				return m, tea.Batch(cmd, m.loadData())
			}
		}

		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(m.records)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.Filter):
			m.filtering = true
			m.filter.Focus()
			return m, textinput.Blink
		case key.Matches(msg, DefaultKeyMap.Back):
			if m.filter.Value() != "" {
				m.filter.SetValue("")
				return m, m.loadData()
			}
		case key.Matches(msg, DefaultKeyMap.Paid):
			if r := m.selected(); r != nil {
				return m, m.setStatus(r.InvoiceNumber, domain.StatusPaid)
			}
		case key.Matches(msg, DefaultKeyMap.Status):
			if r := m.selected(); r != nil {
				return m, m.setStatus(r.InvoiceNumber, nextStatus(r.Status))
			}
		case key.Matches(msg, DefaultKeyMap.Delete):
			if r := m.selected(); r != nil {
				return m, m.deleteRecord(r.InvoiceNumber)
			}
		case key.Matches(msg, DefaultKeyMap.Export):
			return m, m.exportCSV()
		}
	}

	return m, nil
}

func (m *InvoicesModel) selected() *domain.InvoiceRecord {
	if m.cursor < 0 || m.cursor >= len(m.records) {
		return nil
	}
	return &m.records[m.cursor]
}

// nextStatus cycles draft -> sent -> paid -> draft
func nextStatus(s domain.InvoiceStatus) domain.InvoiceStatus {
	switch s {
	case domain.StatusDraft:
		return domain.StatusSent
	case domain.StatusSent:
		return domain.StatusPaid
	default:
		return domain.StatusDraft
	}
}

func (m *InvoicesModel) setStatus(number string, status domain.InvoiceStatus) tea.Cmd {
	return func() tea.Msg {
		if err := m.app.Tracking.SetStatus(context.Background(), number, status); err != nil {
			return invoicesDataMsg{err: err}
		}
		records, err := m.app.Tracking.List(context.Background(), service.Filter{Client: m.filter.Value()})
		return invoicesDataMsg{records: records, err: err}
	}
}

func (m *InvoicesModel) deleteRecord(number string) tea.Cmd {
	return func() tea.Msg {
		if err := m.app.Tracking.Remove(context.Background(), number); err != nil {
			return invoicesDataMsg{err: err}
		}
		records, err := m.app.Tracking.List(context.Background(), service.Filter{Client: m.filter.Value()})
		return invoicesDataMsg{records: records, err: err}
	}
}

func (m *InvoicesModel) exportCSV() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		records, err := m.app.Tracking.List(ctx, service.Filter{})
		if err != nil {
			return exportDoneMsg{err: err}
		}

		csv, err := m.app.Export.EncodeCSV(records)
		if err != nil {
			if errors.Is(err, service.ErrNoRecords) {
				return StatusLineMsg{Text: "No invoices to export"}
			}
			return exportDoneMsg{err: err}
		}

		path := filepath.Join(m.app.Config.Invoice.OutputDir, m.app.Export.Filename())
		if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path, count: len(records)}
	}
}

func (m *InvoicesModel) View() string {
	if m.loading {
		return "Loading invoices..."
	}

	if m.err != nil {
		return lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("Error: %v", m.err))
	}

	var s string

	if m.filtering || m.filter.Value() != "" {
		s += "  Filter: " + m.filter.View() + "\n\n"
	}

	if len(m.records) == 0 {
		s += subtitleStyle.Render("  No invoices found") + "\n"
		s += "\n" + subtitleStyle.Render("  [p] paid  [s] status  [d] delete  [/] filter  [x] export")
		return s
	}

	now := time.Now()
	currency := m.app.Config.Invoice.Currency

	s += fmt.Sprintf("  %-16s %-22s %-11s %-11s %14s  %s\n",
		"Number", "Client", "Date", "Due", "Amount", "Status")
	s += subtitleStyle.Render("  "+strings.Repeat("─", 86)) + "\n"

	for i, r := range m.records {
		line := fmt.Sprintf("%-16s %-22s %-11s %-11s %14s  ",
			r.InvoiceNumber,
			truncateStr(r.ClientName, 22),
			r.InvoiceDate,
			r.DueDate,
			formatMoney(currency, r.Subtotal()),
		)

		if i == m.cursor {
			s += "  " + selectedStyle.Render(line) + renderStatus(&r, now) + "\n"
		} else {
			s += "  " + line + renderStatus(&r, now) + "\n"
		}
	}

	s += fmt.Sprintf("\n  %d invoice(s)\n", len(m.records))
	s += "\n" + subtitleStyle.Render("  [p] paid  [s] status  [d] delete  [/] filter  [x] export")
	return s
}
