package domain

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"
)

type InvoiceStatus string

const (
	StatusDraft InvoiceStatus = "draft"
	StatusSent  InvoiceStatus = "sent"
	StatusPaid  InvoiceStatus = "paid"
)

// DateLayout is the ISO calendar-date format used for invoice and due dates.
const DateLayout = "2006-01-02"

// TimestampLayout is the RFC3339 format used for createdAt and paidDate.
const TimestampLayout = time.RFC3339

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
}

// Amount returns quantity times price. The stored Total field is kept for
// payload compatibility but is never treated as authoritative.
func (li LineItem) Amount() float64 {
	return li.Quantity * li.Price
}

// Billable reports whether the item counts toward the invoice: it needs a
// description and a positive price.
func (li LineItem) Billable() bool {
	return strings.TrimSpace(li.Description) != "" && li.Price > 0
}

// InvoiceRecord is the persisted unit of the tracking log. JSON field names
// are part of the stored format; renaming one orphans existing slots.
type InvoiceRecord struct {
	ID             int64         `json:"id"`
	InvoiceNumber  string        `json:"invoiceNumber"`
	CompanyName    string        `json:"companyName"`
	CompanyAddress string        `json:"companyAddress"`
	CompanyEmail   string        `json:"companyEmail"`
	CompanyPhone   string        `json:"companyPhone,omitempty"`
	CompanyLogo    string        `json:"companyLogo,omitempty"`
	ClientName     string        `json:"clientName"`
	ClientAddress  string        `json:"clientAddress"`
	ClientEmail    string        `json:"clientEmail,omitempty"`
	InvoiceDate    string        `json:"invoiceDate"`
	DueDate        string        `json:"dueDate"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	Notes          string        `json:"notes,omitempty"`
	Signature      string        `json:"signature,omitempty"`
	Items          []LineItem    `json:"items"`
	Status         InvoiceStatus `json:"status"`
	CreatedAt      string        `json:"createdAt"`
	PaidDate       string        `json:"paidDate,omitempty"`
}

// Subtotal sums the recomputed line item amounts.
func (r *InvoiceRecord) Subtotal() float64 {
	var sum float64
	for _, item := range r.Items {
		sum += item.Amount()
	}
	return sum
}

// Tax is always zero; the rate is fixed in this product.
func (r *InvoiceRecord) Tax() float64 {
	return 0
}

// Total returns subtotal plus tax.
func (r *InvoiceRecord) Total() float64 {
	return r.Subtotal() + r.Tax()
}

// DueBefore reports whether the record's due date falls strictly before the
// calendar date of ref. An unparseable or empty due date is never "before".
func (r *InvoiceRecord) DueBefore(ref time.Time) bool {
	due, err := time.Parse(DateLayout, r.DueDate)
	if err != nil {
		return false
	}
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	return due.Before(day)
}

// IsOverdue reports whether the record is unpaid with a due date before
// today's calendar date. A record due today is not overdue.
func (r *InvoiceRecord) IsOverdue(now time.Time) bool {
	return r.Status != StatusPaid && r.DueBefore(now)
}

// DisplayStatus maps the stored status to its presentation label. The three
// known statuses map directly; anything else falls through to the due-date
// check so unrecognized values still render sensibly.
func (r *InvoiceRecord) DisplayStatus(now time.Time) string {
	switch r.Status {
	case StatusPaid:
		return "Paid"
	case StatusSent:
		return "Sent"
	case StatusDraft:
		return "Draft"
	}
	if r.DueBefore(now) {
		return "Overdue"
	}
	return "Pending"
}

// StatusClass returns the style class for the status badge. Unknown statuses
// share the overdue styling.
func (r *InvoiceRecord) StatusClass() string {
	switch r.Status {
	case StatusPaid, StatusSent, StatusDraft:
		return string(r.Status)
	}
	return "overdue"
}

// Validate returns an error if the record is not persistable.
func (r *InvoiceRecord) Validate() error {
	if strings.TrimSpace(r.InvoiceNumber) == "" {
		return errors.New("invoice number is required")
	}
	if strings.TrimSpace(r.CompanyName) == "" {
		return errors.New("company name is required")
	}
	if strings.TrimSpace(r.CompanyAddress) == "" {
		return errors.New("company address is required")
	}
	if strings.TrimSpace(r.CompanyEmail) == "" {
		return errors.New("company email is required")
	}
	if strings.TrimSpace(r.ClientName) == "" {
		return errors.New("client name is required")
	}
	if strings.TrimSpace(r.ClientAddress) == "" {
		return errors.New("client address is required")
	}
	if !emailPattern.MatchString(r.CompanyEmail) {
		return fmt.Errorf("invalid company email: %s", r.CompanyEmail)
	}
	if r.ClientEmail != "" && !emailPattern.MatchString(r.ClientEmail) {
		return fmt.Errorf("invalid client email: %s", r.ClientEmail)
	}
	if !r.PaymentMethod.Valid() {
		return fmt.Errorf("unknown payment method: %s", r.PaymentMethod)
	}
	billable := false
	for _, item := range r.Items {
		if item.Billable() {
			billable = true
			break
		}
	}
	if !billable {
		return errors.New("at least one item with a description and price is required")
	}
	return nil
}

// NewInvoiceNumber generates a number in the form PREFIX-YYYYMM-RRR with a
// random three digit suffix.
func NewInvoiceNumber(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%d%02d-%03d", prefix, now.Year(), int(now.Month()), rand.Intn(1000))
}

// ReceiptNumber derives the receipt number from an invoice number by
// removing the INV- prefix.
func ReceiptNumber(invoiceNumber string) string {
	return "RCP-" + strings.Replace(invoiceNumber, "INV-", "", 1)
}
