package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mwansa/kwacha/internal/db"
	"github.com/mwansa/kwacha/internal/domain"
)

// KVStore is a RecordStore backed by one row of the kv_store table in the
// encrypted SQLite file.
type KVStore struct {
	db   *db.DB
	slot string
}

// NewKVStore creates a KVStore bound to the tracking slot.
func NewKVStore(database *db.DB) *KVStore {
	return &KVStore{db: database, slot: TrackingSlot}
}

func (s *KVStore) LoadAll(ctx context.Context) ([]domain.InvoiceRecord, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM kv_store WHERE slot = ?", s.slot,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []domain.InvoiceRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read slot %q: %w", s.slot, err)
	}

	var records []domain.InvoiceRecord
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		// Corrupt slot text degrades to an empty log rather than erroring.
		return []domain.InvoiceRecord{}, nil
	}
	if records == nil {
		records = []domain.InvoiceRecord{}
	}
	return records, nil
}

func (s *KVStore) SaveAll(ctx context.Context, records []domain.InvoiceRecord) error {
	if records == nil {
		records = []domain.InvoiceRecord{}
	}
	value, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to serialize records: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv_store (slot, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, s.slot, string(value), time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to write slot %q: %w", s.slot, err)
	}
	return nil
}

func (s *KVStore) ClearAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv_store WHERE slot = ?", s.slot); err != nil {
		return fmt.Errorf("failed to clear slot %q: %w", s.slot, err)
	}
	return nil
}
