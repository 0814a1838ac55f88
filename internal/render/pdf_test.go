package render

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/mwansa/kwacha/internal/domain"
)

// Smallest valid PNG (1x1 transparent pixel).
var tinyPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

func testRecord() *domain.InvoiceRecord {
	return &domain.InvoiceRecord{
		ID:             1700000000000,
		InvoiceNumber:  "INV-202601-042",
		CompanyName:    "Lusaka Supplies Ltd",
		CompanyAddress: "Plot 14, Cairo Road, Lusaka",
		CompanyEmail:   "billing@lusakasupplies.co.zm",
		ClientName:     "ACME Mining",
		ClientAddress:  "Kitwe Industrial Area",
		ClientEmail:    "accounts@acmemining.co.zm",
		InvoiceDate:    "2026-01-10",
		DueDate:        "2026-02-09",
		Items: []domain.LineItem{
			{Description: "Safety boots", Quantity: 2, Price: 350},
		},
		Status:        domain.StatusSent,
		PaymentMethod: domain.PaymentMTN,
	}
}

func TestInvoicePDFProducesDocument(t *testing.T) {
	r := NewRenderer("ZMW")
	out, err := r.InvoicePDF(testRecord())
	if err != nil {
		t.Fatalf("InvoicePDF: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not look like a PDF: %q", out[:8])
	}
}

func TestReceiptPDFProducesDocument(t *testing.T) {
	r := NewRenderer("ZMW")
	rec := testRecord()
	rec.Status = domain.StatusPaid
	rec.PaidDate = "2026-01-20T09:00:00Z"

	out, err := r.ReceiptPDF(rec, time.Date(2026, 1, 21, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ReceiptPDF: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not look like a PDF: %q", out[:8])
	}
}

func TestInvoicePDFWithImages(t *testing.T) {
	r := NewRenderer("ZMW")
	rec := testRecord()
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(tinyPNG)
	rec.CompanyLogo = uri
	rec.Signature = uri

	if _, err := r.InvoicePDF(rec); err != nil {
		t.Fatalf("InvoicePDF with images: %v", err)
	}
}

func TestDecodeDataURI(t *testing.T) {
	valid := "data:image/png;base64," + base64.StdEncoding.EncodeToString(tinyPNG)

	raw, kind, ok := decodeDataURI(valid)
	if !ok || kind != "PNG" {
		t.Fatalf("decodeDataURI(valid) = ok=%v kind=%q", ok, kind)
	}
	if !bytes.Equal(raw, tinyPNG) {
		t.Error("decoded bytes do not match input")
	}

	for _, bad := range []string{
		"",
		"not a data uri",
		"data:image/png;base64,!!!not-base64!!!",
		"data:image/tiff;base64,AAAA",
		"data:text/plain;base64,AAAA",
	} {
		if _, _, ok := decodeDataURI(bad); ok {
			t.Errorf("decodeDataURI(%q) unexpectedly succeeded", bad)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := formatDate("2026-01-10"); got != "January 10, 2026" {
		t.Errorf("formatDate = %q", got)
	}
	if got := formatDate("garbage"); got != "garbage" {
		t.Errorf("formatDate passthrough = %q", got)
	}
	if !strings.Contains(formatDate("2026-12-01"), "December") {
		t.Error("month name missing")
	}
}
