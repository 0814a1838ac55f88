package storage

import (
	"context"

	"github.com/mwansa/kwacha/internal/domain"
)

// TrackingSlot is the named slot holding the serialized invoice record log.
const TrackingSlot = "invoice_tracking"

// RecordStore persists the invoice record log as one serialized sequence in
// a single named slot. Callers treat LoadAll -> mutate -> SaveAll as one
// logical transaction; execution is single threaded so no locking is needed,
// but the pattern must be kept if this is ever made concurrent.
type RecordStore interface {
	// LoadAll returns the full record sequence. An absent or unparseable
	// slot degrades to an empty sequence; only real I/O failures error.
	LoadAll(ctx context.Context) ([]domain.InvoiceRecord, error)

	// SaveAll serializes the full sequence and overwrites the slot in a
	// single write.
	SaveAll(ctx context.Context, records []domain.InvoiceRecord) error

	// ClearAll removes the slot entirely.
	ClearAll(ctx context.Context) error
}
