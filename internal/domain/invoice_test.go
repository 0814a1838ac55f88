package domain

import (
	"testing"
	"time"
)

func TestDisplayStatus(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  InvoiceStatus
		dueDate string
		want    string
	}{
		{"paid", StatusPaid, "2026-01-01", "Paid"},
		{"sent ignores due date", StatusSent, "2026-01-01", "Sent"},
		{"draft ignores due date", StatusDraft, "2026-01-01", "Draft"},
		{"unknown past due", "archived", "2026-06-14", "Overdue"},
		{"unknown due today", "archived", "2026-06-15", "Pending"},
		{"unknown future due", "archived", "2026-07-01", "Pending"},
		{"unknown bad date", "archived", "not-a-date", "Pending"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &InvoiceRecord{Status: tt.status, DueDate: tt.dueDate}
			if got := r.DisplayStatus(now); got != tt.want {
				t.Errorf("DisplayStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusClass_UnknownFallsBackToOverdue(t *testing.T) {
	r := &InvoiceRecord{Status: "archived"}
	if got := r.StatusClass(); got != "overdue" {
		t.Errorf("StatusClass() = %q, want overdue", got)
	}
}

func TestReceiptNumber(t *testing.T) {
	if got := ReceiptNumber("INV-202601-042"); got != "RCP-202601-042" {
		t.Errorf("ReceiptNumber() = %q", got)
	}
	if got := ReceiptNumber("Q-17"); got != "RCP-Q-17" {
		t.Errorf("ReceiptNumber() = %q", got)
	}
}

func TestValidate_RequiresBillableItem(t *testing.T) {
	r := &InvoiceRecord{
		InvoiceNumber:  "INV-202601-050",
		CompanyName:    "Lusaka Supplies Ltd",
		CompanyAddress: "Plot 12, Cairo Road, Lusaka",
		CompanyEmail:   "billing@lusakasupplies.co.zm",
		ClientName:     "ACME Mining",
		ClientAddress:  "14 Independence Ave, Kitwe",
		Items:          []LineItem{{Description: "Thing", Quantity: 1, Price: 0}},
	}
	if err := r.Validate(); err == nil {
		t.Error("expected error for zero-price items")
	}

	r.Items[0].Price = 25
	if err := r.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
