package cmd

import (
	"testing"
	"time"
)

func TestResolveFromDay(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

	got, err := resolveFromDay("", now)
	if err != nil {
		t.Fatalf("resolve default: %v", err)
	}
	if got != "2026-08-24" {
		t.Fatalf("expected one week before now, got %s", got)
	}

	got, err = resolveFromDay("2026-08-01", now)
	if err != nil {
		t.Fatalf("resolve explicit: %v", err)
	}
	if got != "2026-08-01" {
		t.Fatalf("unexpected explicit day: %s", got)
	}

	if _, err := resolveFromDay("01.08.2026", now); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
}
