package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mwansa/kwacha/internal/domain"
)

func exportRecord(number string) domain.InvoiceRecord {
	return domain.InvoiceRecord{
		InvoiceNumber: number,
		ClientName:    "ACME Mining",
		InvoiceDate:   "2026-01-10",
		DueDate:       "2026-02-09",
		PaymentMethod: domain.PaymentMTN,
		Status:        domain.StatusSent,
		Items: []domain.LineItem{
			{Description: "Consulting", Quantity: 2, Price: 10.5},
		},
	}
}

func TestEncodeCSV_Empty(t *testing.T) {
	svc := &exportService{now: time.Now}
	if _, err := svc.EncodeCSV(nil); !errors.Is(err, ErrNoRecords) {
		t.Fatalf("expected ErrNoRecords, got %v", err)
	}
}

func TestEncodeCSV_HeaderAndRow(t *testing.T) {
	svc := &exportService{now: time.Now}

	out, err := svc.EncodeCSV([]domain.InvoiceRecord{exportRecord("INV-202601-001")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != `"Invoice Number","Client","Date","Due Date","Amount","Status","Payment Method"` {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if lines[1] != `"INV-202601-001","ACME Mining","2026-01-10","2026-02-09","21.00","Sent","MTN Mobile Money"` {
		t.Errorf("unexpected row: %s", lines[1])
	}
}

func TestEncodeCSV_AmountRecomputedFromItems(t *testing.T) {
	svc := &exportService{now: time.Now}

	rec := exportRecord("INV-202601-002")
	// A stale stored total must not leak into the export.
	rec.Items[0].Total = 999
	out, err := svc.EncodeCSV([]domain.InvoiceRecord{rec})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"21.00"`) {
		t.Errorf("expected recomputed amount 21.00 in output:\n%s", out)
	}
}

func TestEncodeCSV_RowsPreserveInputOrder(t *testing.T) {
	svc := &exportService{now: time.Now}

	out, err := svc.EncodeCSV([]domain.InvoiceRecord{
		exportRecord("INV-202601-003"),
		exportRecord("INV-202601-001"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := strings.Index(out, "INV-202601-003")
	second := strings.Index(out, "INV-202601-001")
	if first < 0 || second < 0 || first > second {
		t.Errorf("rows not in input order:\n%s", out)
	}
}

func TestFilename(t *testing.T) {
	fixed := time.Date(2026, 3, 5, 15, 4, 5, 0, time.UTC)
	svc := &exportService{now: func() time.Time { return fixed }}

	if got := svc.Filename(); got != "invoice-tracking-2026-03-05.csv" {
		t.Errorf("unexpected filename: %s", got)
	}
}
