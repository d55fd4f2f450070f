// Tests for the wall clock that times title fetches for the latency
// histogram and the per-fetch duration logs.
package system

import (
	"testing"
	"time"
)

// TestClockNowUTC ensures the clock returns UTC timestamps.
func TestClockNowUTC(t *testing.T) {
	t.Parallel()

	clk := New()
	requireNotNil(t, clk)

	before := time.Now().UTC().Add(-time.Second)
	got := clk.Now()
	after := time.Now().UTC().Add(time.Second)

	if got.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", got.Location())
	}
	if got.Before(before) || got.After(after) {
		t.Fatalf("expected %v to be between %v and %v", got, before, after)
	}
}

// TestClockElapsedNonNegative checks successive timestamps never go
// backwards, so a measured fetch duration is never negative.
func TestClockElapsedNonNegative(t *testing.T) {
	t.Parallel()

	clk := New()
	start := clk.Now()
	if elapsed := clk.Now().Sub(start); elapsed < 0 {
		t.Fatalf("expected non-negative elapsed time, got %v", elapsed)
	}
}

func requireNotNil(t *testing.T, v any) {
	t.Helper()
	if v == nil {
		t.Fatal("expected value to be non-nil")
	}
}
