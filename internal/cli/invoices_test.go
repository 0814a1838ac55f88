package cli

import (
	"fmt"
	"testing"
)

func TestFormatAmount(t *testing.T) {
	if got := formatAmount("ZMW", 21); got != "ZMW 21.00" {
		t.Errorf("formatAmount = %q", got)
	}
	if got := formatAmount("ZMW", 1234.5); got != "ZMW 1234.50" {
		t.Errorf("formatAmount = %q", got)
	}
}

func TestListColumnsAlign(t *testing.T) {
	// Header and rows share one layout; the status cell must start at the
	// same offset in both.
	header := fmt.Sprintf("%-16s %-24s %-12s %-12s %-14s %-10s",
		"Number", "Client", "Date", "Due", "Amount", "Status")
	row := fmt.Sprintf("%-16s %-24s %-12s %-12s %-14s %-10s",
		"INV-202601-001", "ACME Mining", "2026-01-10", "2026-02-09",
		formatAmount("ZMW", 21), "Sent")

	if len(header) != len(row) {
		t.Errorf("header and row widths differ: %d vs %d", len(header), len(row))
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 24); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("a very long client name indeed", 10); got != "a very ..." {
		t.Errorf("truncate = %q", got)
	}
}
