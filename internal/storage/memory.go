package storage

import (
	"context"
	"encoding/json"

	"github.com/mwansa/kwacha/internal/domain"
)

// MemoryStore is an in-memory RecordStore. It keeps the slot as serialized
// text so load/save behave exactly like the persistent store, including
// silent recovery from corrupt content. Useful for tests.
type MemoryStore struct {
	value  string
	hasVal bool
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LoadAll(ctx context.Context) ([]domain.InvoiceRecord, error) {
	if !s.hasVal {
		return []domain.InvoiceRecord{}, nil
	}
	var records []domain.InvoiceRecord
	if err := json.Unmarshal([]byte(s.value), &records); err != nil {
		return []domain.InvoiceRecord{}, nil
	}
	if records == nil {
		records = []domain.InvoiceRecord{}
	}
	return records, nil
}

func (s *MemoryStore) SaveAll(ctx context.Context, records []domain.InvoiceRecord) error {
	if records == nil {
		records = []domain.InvoiceRecord{}
	}
	value, err := json.Marshal(records)
	if err != nil {
		return err
	}
	s.value = string(value)
	s.hasVal = true
	return nil
}

func (s *MemoryStore) ClearAll(ctx context.Context) error {
	s.value = ""
	s.hasVal = false
	return nil
}

// Raw returns the serialized slot text and whether the slot exists.
// Intended for tests that assert on the persisted form.
func (s *MemoryStore) Raw() (string, bool) {
	return s.value, s.hasVal
}

// SetRaw overwrites the slot text directly, bypassing serialization.
// Intended for tests that simulate a corrupt or hand-written slot.
func (s *MemoryStore) SetRaw(value string) {
	s.value = value
	s.hasVal = true
}
