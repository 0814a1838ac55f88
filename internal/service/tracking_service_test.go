package service

import (
	"context"
	"testing"
	"time"

	"github.com/mwansa/kwacha/internal/domain"
	"github.com/mwansa/kwacha/internal/storage"
)

func strPtr(s string) *string { return &s }

func testPatch(number string) domain.RecordPatch {
	return domain.RecordPatch{
		InvoiceNumber:  number,
		CompanyName:    strPtr("Lusaka Supplies Ltd"),
		CompanyAddress: strPtr("Plot 12, Cairo Road, Lusaka"),
		CompanyEmail:   strPtr("billing@lusakasupplies.co.zm"),
		ClientName:     strPtr("ACME Mining"),
		ClientAddress:  strPtr("14 Independence Ave, Kitwe"),
		InvoiceDate:    strPtr(time.Now().Format(domain.DateLayout)),
		DueDate:        strPtr(time.Now().AddDate(0, 0, 30).Format(domain.DateLayout)),
		Items: []domain.LineItem{
			{Description: "Consulting", Quantity: 2, Price: 10.5},
		},
	}
}

func newTestService() (*trackingService, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	return &trackingService{store: store, now: time.Now}, store
}

func TestUpsert_NewNumberCreatesDraft(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	records, err := svc.Upsert(ctx, testPatch("INV-202601-001"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.Status != domain.StatusDraft {
		t.Errorf("expected draft status, got %q", rec.Status)
	}
	if rec.ID == 0 {
		t.Error("expected a fresh id")
	}
	if rec.CreatedAt == "" {
		t.Error("expected createdAt to be set")
	}
}

func TestUpsert_IdempotentOnInvoiceNumber(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	first, err := svc.Upsert(ctx, testPatch("INV-202601-002"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := svc.Upsert(ctx, testPatch("INV-202601-002"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second) != 1 {
		t.Fatalf("expected 1 record after repeat upsert, got %d", len(second))
	}
	if second[0].ID != first[0].ID {
		t.Errorf("id changed on repeat upsert: %d -> %d", first[0].ID, second[0].ID)
	}
	if second[0].CreatedAt != first[0].CreatedAt {
		t.Errorf("createdAt changed on repeat upsert: %q -> %q", first[0].CreatedAt, second[0].CreatedAt)
	}
}

func TestUpsert_UpdateKeepsIdentityAndStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	first, err := svc.Upsert(ctx, testPatch("INV-202601-003"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.SetStatus(ctx, "INV-202601-003", domain.StatusSent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	patch := testPatch("INV-202601-003")
	patch.ClientName = strPtr("Copperbelt Energy")
	updated, err := svc.Upsert(ctx, patch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated) != 1 {
		t.Fatalf("expected 1 record, got %d", len(updated))
	}

	rec := updated[0]
	if rec.ClientName != "Copperbelt Energy" {
		t.Errorf("expected updated client name, got %q", rec.ClientName)
	}
	if rec.Status != domain.StatusSent {
		t.Errorf("upsert must not change status, got %q", rec.Status)
	}
	if rec.ID != first[0].ID || rec.CreatedAt != first[0].CreatedAt {
		t.Error("upsert must not change id or createdAt")
	}
}

func TestUpsert_OmittedFieldsRetained(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	patch := testPatch("INV-202601-004")
	patch.Notes = strPtr("net 30")
	if _, err := svc.Upsert(ctx, patch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Second submission without notes keeps the stored value.
	updated, err := svc.Upsert(ctx, testPatch("INV-202601-004"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated[0].Notes != "net 30" {
		t.Errorf("expected notes retained, got %q", updated[0].Notes)
	}
}

func TestUpsert_ValidationAbortsPersist(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	patch := testPatch("INV-202601-005")
	patch.ClientName = strPtr("")
	if _, err := svc.Upsert(ctx, patch); err == nil {
		t.Fatal("expected validation error")
	}

	records, err := svc.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("no record should be persisted after validation failure, got %d", len(records))
	}
}

func TestUpsert_OnlyBillableItemsPersisted(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	patch := testPatch("INV-202601-006")
	patch.Items = []domain.LineItem{
		{Description: "Consulting", Quantity: 1, Price: 100},
		{Description: "", Quantity: 3, Price: 50},
		{Description: "Free sample", Quantity: 1, Price: 0},
	}

	records, err := svc.Upsert(ctx, patch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records[0].Items) != 1 {
		t.Fatalf("expected 1 billable item persisted, got %d", len(records[0].Items))
	}
}

func TestSetStatus_PaidStampsPaidDate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	if _, err := svc.Upsert(ctx, testPatch("INV-202601-007")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.SetStatus(ctx, "INV-202601-007", domain.StatusPaid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, err := svc.Get(ctx, "INV-202601-007")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil || rec.PaidDate == "" {
		t.Fatal("expected paidDate stamped on paid transition")
	}
	paidDate := rec.PaidDate

	// Moving off paid leaves the stamp alone.
	if err := svc.SetStatus(ctx, "INV-202601-007", domain.StatusSent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, _ = svc.Get(ctx, "INV-202601-007")
	if rec.PaidDate != paidDate {
		t.Errorf("paidDate re-derived on non-paid transition: %q -> %q", paidDate, rec.PaidDate)
	}
}

func TestSetStatus_RepeatedPaidRefreshesStamp(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	clock := time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	if _, err := svc.Upsert(ctx, testPatch("INV-202601-009")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.SetStatus(ctx, "INV-202601-009", domain.StatusPaid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, _ := svc.Get(ctx, "INV-202601-009")
	first := rec.PaidDate

	// Marking paid again writes the stamp unconditionally.
	clock = clock.AddDate(0, 0, 3)
	if err := svc.SetStatus(ctx, "INV-202601-009", domain.StatusPaid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, _ = svc.Get(ctx, "INV-202601-009")
	if rec.PaidDate == first {
		t.Error("expected paidDate refreshed on repeated paid status")
	}
	if rec.PaidDate != clock.Format(domain.TimestampLayout) {
		t.Errorf("unexpected paidDate %q", rec.PaidDate)
	}
}

func TestSetStatus_UnknownNumberIsNoop(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	if _, err := svc.Upsert(ctx, testPatch("INV-202601-008")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.SetStatus(ctx, "INV-999999-999", domain.StatusPaid); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}

	rec, _ := svc.Get(ctx, "INV-202601-008")
	if rec.Status != domain.StatusDraft {
		t.Errorf("existing record must be untouched, got status %q", rec.Status)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	for _, n := range []string{"INV-202601-010", "INV-202601-011"} {
		if _, err := svc.Upsert(ctx, testPatch(n)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if err := svc.Remove(ctx, "INV-202601-010"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, _ := svc.List(ctx, Filter{})
	if len(records) != 1 {
		t.Fatalf("expected 1 record after remove, got %d", len(records))
	}
	if records[0].InvoiceNumber != "INV-202601-011" {
		t.Errorf("wrong record removed, remaining %q", records[0].InvoiceNumber)
	}

	// Missing key leaves the log unchanged.
	if err := svc.Remove(ctx, "INV-999999-999"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, _ = svc.List(ctx, Filter{})
	if len(records) != 1 {
		t.Fatalf("remove of missing key changed size: %d", len(records))
	}
}

func TestStats_Empty(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats != (Stats{}) {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestStats_PendingOverdueOverlap(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	yesterday := time.Now().AddDate(0, 0, -1).Format(domain.DateLayout)
	tomorrow := time.Now().AddDate(0, 0, 1).Format(domain.DateLayout)

	late := testPatch("INV-202601-020")
	late.DueDate = strPtr(yesterday)
	if _, err := svc.Upsert(ctx, late); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.SetStatus(ctx, "INV-202601-020", domain.StatusSent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fresh := testPatch("INV-202601-021")
	fresh.DueDate = strPtr(tomorrow)
	if _, err := svc.Upsert(ctx, fresh); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The sent-and-late record counts as both pending and overdue; the
	// counters are views, not a partition.
	if stats.Total != 2 || stats.Pending != 2 || stats.Overdue != 1 || stats.Paid != 0 {
		t.Errorf("expected total=2 pending=2 overdue=1 paid=0, got %+v", stats)
	}
}

func TestStats_DueTodayNotOverdue(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	patch := testPatch("INV-202601-022")
	patch.DueDate = strPtr(time.Now().Format(domain.DateLayout))
	if _, err := svc.Upsert(ctx, patch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats, _ := svc.Stats(ctx)
	if stats.Overdue != 0 {
		t.Errorf("a record due today must not be overdue, got %+v", stats)
	}
}

func TestList_StatusFilterPreservesOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	for _, n := range []string{"INV-202601-030", "INV-202601-031", "INV-202601-032"} {
		if _, err := svc.Upsert(ctx, testPatch(n)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := svc.SetStatus(ctx, "INV-202601-030", domain.StatusPaid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.SetStatus(ctx, "INV-202601-032", domain.StatusPaid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := svc.List(ctx, Filter{Status: "paid", Window: WindowAll})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 paid records, got %d", len(records))
	}
	if records[0].InvoiceNumber != "INV-202601-030" || records[1].InvoiceNumber != "INV-202601-032" {
		t.Errorf("stored order not preserved: %q, %q", records[0].InvoiceNumber, records[1].InvoiceNumber)
	}
}

func TestList_ClientSubstringCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	a := testPatch("INV-202601-033")
	a.ClientName = strPtr("ACME Mining")
	b := testPatch("INV-202601-034")
	b.ClientName = strPtr("Zambezi Farms")
	for _, p := range []domain.RecordPatch{a, b} {
		if _, err := svc.Upsert(ctx, p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	records, err := svc.List(ctx, Filter{Client: "acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].ClientName != "ACME Mining" {
		t.Fatalf("expected only the ACME record, got %d", len(records))
	}
}

func TestList_WeekWindow(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	recent := testPatch("INV-202601-035")
	old := testPatch("INV-202601-036")
	old.InvoiceDate = strPtr(time.Now().AddDate(0, 0, -10).Format(domain.DateLayout))
	for _, p := range []domain.RecordPatch{recent, old} {
		if _, err := svc.Upsert(ctx, p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	records, err := svc.List(ctx, Filter{Window: WindowWeek})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].InvoiceNumber != "INV-202601-035" {
		t.Fatalf("expected only the recent record, got %d", len(records))
	}
}

func TestStore_RoundTripStable(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	for _, n := range []string{"INV-202601-040", "INV-202601-041"} {
		if _, err := svc.Upsert(ctx, testPatch(n)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	before, ok := store.Raw()
	if !ok {
		t.Fatal("expected slot to exist")
	}

	records, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.SaveAll(ctx, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after, _ := store.Raw()
	if before != after {
		t.Error("saveAll(loadAll()) changed the persisted slot content")
	}
}

func TestStore_CorruptSlotDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	store.SetRaw(`{"this is": "not a record array"`)

	records, err := svc.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("corrupt slot must not error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("corrupt slot must read as empty, got %d records", len(records))
	}
}
