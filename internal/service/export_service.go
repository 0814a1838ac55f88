package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mwansa/kwacha/internal/domain"
)

// ErrNoRecords is returned when an export is requested with no data.
var ErrNoRecords = errors.New("no tracking data to export")

var csvHeader = []string{
	"Invoice Number", "Client", "Date", "Due Date", "Amount", "Status", "Payment Method",
}

// ExportService encodes record sets into the downloadable CSV form.
type ExportService interface {
	// EncodeCSV renders the records as CSV: a header row plus one row per
	// record in input order. Amounts are recomputed from quantity and price.
	EncodeCSV(records []domain.InvoiceRecord) (string, error)

	// Filename returns the download name for an export taken today.
	Filename() string
}

type exportService struct {
	now func() time.Time
}

// NewExportService creates a new export service
func NewExportService() ExportService {
	return &exportService{now: time.Now}
}

func (s *exportService) EncodeCSV(records []domain.InvoiceRecord) (string, error) {
	if len(records) == 0 {
		return "", ErrNoRecords
	}

	now := s.now()

	var b strings.Builder
	writeRow(&b, csvHeader)
	for _, r := range records {
		b.WriteByte('\n')
		writeRow(&b, []string{
			r.InvoiceNumber,
			r.ClientName,
			r.InvoiceDate,
			r.DueDate,
			fmt.Sprintf("%.2f", r.Subtotal()),
			r.DisplayStatus(now),
			r.PaymentMethod.Display(),
		})
	}
	return b.String(), nil
}

func (s *exportService) Filename() string {
	return fmt.Sprintf("invoice-tracking-%s.csv", s.now().Format(domain.DateLayout))
}

// writeRow wraps each field in double quotes. Embedded quotes are not
// escaped; consumers of this format expect the quoting exactly as is.
func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(f)
		b.WriteByte('"')
	}
}
