package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mwansa/kwacha/internal/domain"
	"github.com/mwansa/kwacha/internal/storage"
)

// DateWindow is a relative lower bound on the invoice date, resolved against
// the current date at query time.
type DateWindow string

const (
	WindowAll   DateWindow = "all"
	WindowToday DateWindow = "today"
	WindowWeek  DateWindow = "week"
	WindowMonth DateWindow = "month"
	WindowYear  DateWindow = "year"
)

// lowerBound resolves the window to its inclusive lower bound. The second
// return is false when the window imposes no bound.
func (w DateWindow) lowerBound(now time.Time) (time.Time, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch w {
	case WindowToday:
		return today, true
	case WindowWeek:
		return today.AddDate(0, 0, -7), true
	case WindowMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), true
	case WindowYear:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// Filter selects a view of the record log. All three predicates apply
// conjunctively; zero values match everything.
type Filter struct {
	Status string     // "" or "all" matches any status, otherwise exact
	Client string     // case-insensitive substring of the client name
	Window DateWindow // "" behaves like WindowAll
}

// Stats holds the tracking counters. Pending and Overdue intentionally
// overlap: a sent record past its due date counts in both.
type Stats struct {
	Total   int
	Paid    int
	Pending int
	Overdue int
}

// TrackingService manages the invoice record lifecycle
type TrackingService interface {
	// Upsert inserts or updates a record by invoice number and returns the
	// full updated sequence. A new record gets a fresh id, createdAt and
	// draft status; an update never touches those fields.
	Upsert(ctx context.Context, patch domain.RecordPatch) ([]domain.InvoiceRecord, error)

	// Get returns the record with the given invoice number, or nil.
	Get(ctx context.Context, invoiceNumber string) (*domain.InvoiceRecord, error)

	// SetStatus assigns the status. Marking paid stamps paidDate. An
	// unknown invoice number is a silent no-op.
	SetStatus(ctx context.Context, invoiceNumber string, status domain.InvoiceStatus) error

	// Remove deletes the record by invoice number; no-op on a missing key.
	Remove(ctx context.Context, invoiceNumber string) error

	// Clear wipes the whole tracking log.
	Clear(ctx context.Context) error

	// List returns the filtered view of the log, preserving stored order.
	List(ctx context.Context, filter Filter) ([]domain.InvoiceRecord, error)

	// Stats computes the summary counters over the full log.
	Stats(ctx context.Context) (Stats, error)
}

type trackingService struct {
	store storage.RecordStore
	now   func() time.Time
}

// NewTrackingService creates a new tracking service
func NewTrackingService(store storage.RecordStore) TrackingService {
	return &trackingService{store: store, now: time.Now}
}

func (s *trackingService) Upsert(ctx context.Context, patch domain.RecordPatch) ([]domain.InvoiceRecord, error) {
	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	idx := findByNumber(records, patch.InvoiceNumber)
	if idx >= 0 {
		merged := records[idx]
		patch.Apply(&merged)
		if err := merged.Validate(); err != nil {
			return nil, fmt.Errorf("invalid invoice: %w", err)
		}
		records[idx] = merged
	} else {
		now := s.now()
		record := domain.InvoiceRecord{
			ID:        now.UnixMilli(),
			Status:    domain.StatusDraft,
			CreatedAt: now.Format(domain.TimestampLayout),
		}
		patch.Apply(&record)
		if err := record.Validate(); err != nil {
			return nil, fmt.Errorf("invalid invoice: %w", err)
		}
		records = append(records, record)
	}

	if err := s.store.SaveAll(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *trackingService) Get(ctx context.Context, invoiceNumber string) (*domain.InvoiceRecord, error) {
	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if idx := findByNumber(records, invoiceNumber); idx >= 0 {
		record := records[idx]
		return &record, nil
	}
	return nil, nil
}

func (s *trackingService) SetStatus(ctx context.Context, invoiceNumber string, status domain.InvoiceStatus) error {
	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return err
	}

	idx := findByNumber(records, invoiceNumber)
	if idx < 0 {
		// Unknown number is not an error; nothing to update.
		return nil
	}

	records[idx].Status = status
	if status == domain.StatusPaid {
		records[idx].PaidDate = s.now().Format(domain.TimestampLayout)
	}

	return s.store.SaveAll(ctx, records)
}

func (s *trackingService) Remove(ctx context.Context, invoiceNumber string) error {
	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return err
	}

	kept := make([]domain.InvoiceRecord, 0, len(records))
	for _, r := range records {
		if r.InvoiceNumber != invoiceNumber {
			kept = append(kept, r)
		}
	}

	return s.store.SaveAll(ctx, kept)
}

func (s *trackingService) Clear(ctx context.Context) error {
	return s.store.ClearAll(ctx)
}

func (s *trackingService) List(ctx context.Context, filter Filter) ([]domain.InvoiceRecord, error) {
	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	lower, bounded := filter.Window.lowerBound(now)
	client := strings.ToLower(strings.TrimSpace(filter.Client))

	out := make([]domain.InvoiceRecord, 0, len(records))
	for _, r := range records {
		if filter.Status != "" && filter.Status != "all" && string(r.Status) != filter.Status {
			continue
		}
		if client != "" && !strings.Contains(strings.ToLower(r.ClientName), client) {
			continue
		}
		if bounded {
			invDate, err := time.Parse(domain.DateLayout, r.InvoiceDate)
			if err != nil || invDate.Before(lower) {
				continue
			}
		}
		out = append(out, r)
	}

	return out, nil
}

func (s *trackingService) Stats(ctx context.Context) (Stats, error) {
	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return Stats{}, err
	}

	now := s.now()
	stats := Stats{Total: len(records)}
	for _, r := range records {
		switch r.Status {
		case domain.StatusPaid:
			stats.Paid++
		case domain.StatusSent, domain.StatusDraft:
			stats.Pending++
		}
		if r.IsOverdue(now) {
			stats.Overdue++
		}
	}

	return stats, nil
}

func findByNumber(records []domain.InvoiceRecord, invoiceNumber string) int {
	for i, r := range records {
		if r.InvoiceNumber == invoiceNumber {
			return i
		}
	}
	return -1
}
