package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/mwansa/kwacha/internal/domain"
)

// Renderer produces invoice and receipt PDFs from tracked records.
type Renderer struct {
	currency string
}

// NewRenderer creates a Renderer with the given currency label (e.g. "ZMW").
func NewRenderer(currency string) *Renderer {
	return &Renderer{currency: currency}
}

func (r *Renderer) money(v float64) string {
	return fmt.Sprintf("%s %.2f", r.currency, v)
}

// InvoicePDF renders the invoice document.
func (r *Renderer) InvoicePDF(rec *domain.InvoiceRecord) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Title and meta
	pdf.SetFont("Arial", "B", 24)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 5, fmt.Sprintf("Invoice Number: %s", rec.InvoiceNumber))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("Date: %s", formatDate(rec.InvoiceDate)))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("Due Date: %s", formatDate(rec.DueDate)))
	pdf.Ln(10)

	r.companyBlock(pdf, rec)

	// Bill-to block
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Bill To:")
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 5, rec.ClientName)
	pdf.Ln(5)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 5, rec.ClientAddress)
	pdf.Ln(5)
	if rec.ClientEmail != "" {
		pdf.Cell(0, 5, rec.ClientEmail)
		pdf.Ln(5)
	}
	pdf.Ln(8)

	r.itemsTable(pdf, rec)
	r.summaryBlock(pdf, rec, "Total:")

	if rec.Notes != "" {
		pdf.Ln(8)
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 6, "Notes")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, rec.Notes, "", "L", false)
	}

	r.signatureBlock(pdf, rec)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// ReceiptPDF renders the payment receipt for the record. The receipt date is
// the date of rendering, not the paid date.
func (r *Renderer) ReceiptPDF(rec *domain.InvoiceRecord, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	receiptDate := now.Format(domain.DateLayout)

	pdf.SetFont("Arial", "B", 24)
	pdf.Cell(0, 10, "PAYMENT RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 5, fmt.Sprintf("Receipt Number: %s", domain.ReceiptNumber(rec.InvoiceNumber)))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("Receipt Date: %s", formatDate(receiptDate)))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("Invoice Number: %s", rec.InvoiceNumber))
	pdf.Ln(10)

	r.companyBlock(pdf, rec)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(95, 8, "Received From:")
	pdf.Cell(0, 8, "Payment Details:")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(95, 5, rec.ClientName)
	pdf.Cell(0, 5, fmt.Sprintf("Payment Method: %s", rec.PaymentMethod.ReceiptDisplay()))
	pdf.Ln(5)
	pdf.Cell(95, 5, rec.ClientAddress)
	pdf.Cell(0, 5, fmt.Sprintf("Payment Date: %s", formatDate(receiptDate)))
	pdf.Ln(5)
	pdf.Cell(95, 5, rec.ClientEmail)
	pdf.Cell(0, 5, "Status: PAID")
	pdf.Ln(10)

	r.itemsTable(pdf, rec)
	r.summaryBlock(pdf, rec, "Total Paid:")

	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, "Payment Confirmation")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, fmt.Sprintf(
		"This receipt confirms that the above payment has been received in full via %s.",
		rec.PaymentMethod.ReceiptDisplay()), "", "L", false)
	pdf.Cell(0, 5, "Thank you for your business!")
	pdf.Ln(5)

	r.signatureBlock(pdf, rec)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) companyBlock(pdf *gofpdf.Fpdf, rec *domain.InvoiceRecord) {
	if img, kind, ok := decodeDataURI(rec.CompanyLogo); ok {
		name := "company-logo"
		pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: kind}, bytes.NewReader(img))
		pdf.ImageOptions(name, pdf.GetX(), pdf.GetY(), 30, 0, true, gofpdf.ImageOptions{ImageType: kind}, 0, "")
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, rec.CompanyName)
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 5, rec.CompanyAddress)
	pdf.Ln(4)
	pdf.Cell(0, 5, rec.CompanyEmail)
	pdf.Ln(4)
	if rec.CompanyPhone != "" {
		pdf.Cell(0, 5, rec.CompanyPhone)
		pdf.Ln(4)
	}
	pdf.Ln(8)
}

func (r *Renderer) itemsTable(pdf *gofpdf.Fpdf, rec *domain.InvoiceRecord) {
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(90, 8, "Description", "", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Quantity", "", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "", 0, "R", true, 0, "")
	pdf.CellFormat(40, 8, "Total", "", 1, "R", true, 0, "")

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	for _, item := range rec.Items {
		pdf.CellFormat(90, 6, item.Description, "", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%g", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, r.money(item.Price), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, r.money(item.Amount()), "", 1, "R", false, 0, "")
	}

	pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(4)
}

func (r *Renderer) summaryBlock(pdf *gofpdf.Fpdf, rec *domain.InvoiceRecord, totalLabel string) {
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(150, 6, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, r.money(rec.Subtotal()), "", 1, "R", false, 0, "")
	pdf.CellFormat(150, 6, "Tax:", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, r.money(rec.Tax()), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(150, 7, totalLabel, "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, r.money(rec.Total()), "", 1, "R", false, 0, "")
}

func (r *Renderer) signatureBlock(pdf *gofpdf.Fpdf, rec *domain.InvoiceRecord) {
	img, kind, ok := decodeDataURI(rec.Signature)
	if !ok {
		return
	}
	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, "Authorized Signature")
	pdf.Ln(6)
	name := "signature"
	pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: kind}, bytes.NewReader(img))
	pdf.ImageOptions(name, pdf.GetX(), pdf.GetY(), 50, 0, true, gofpdf.ImageOptions{ImageType: kind}, 0, "")
}

// decodeDataURI decodes a base64 image data URI into raw bytes and a gofpdf
// image type. Unsupported or malformed values are skipped rather than failing
// the whole render.
func decodeDataURI(uri string) ([]byte, string, bool) {
	if !strings.HasPrefix(uri, "data:image/") {
		return nil, "", false
	}
	head, payload, found := strings.Cut(uri, ",")
	if !found || !strings.HasSuffix(head, ";base64") {
		return nil, "", false
	}

	var kind string
	switch {
	case strings.HasPrefix(uri, "data:image/png"):
		kind = "PNG"
	case strings.HasPrefix(uri, "data:image/jpeg"), strings.HasPrefix(uri, "data:image/jpg"):
		kind = "JPG"
	case strings.HasPrefix(uri, "data:image/gif"):
		kind = "GIF"
	default:
		return nil, "", false
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", false
	}
	return raw, kind, true
}

// formatDate renders an ISO date as "January 2, 2006" for documents; an
// unparseable value is shown as-is.
func formatDate(iso string) string {
	t, err := time.Parse(domain.DateLayout, iso)
	if err != nil {
		return iso
	}
	return t.Format("January 2, 2006")
}
