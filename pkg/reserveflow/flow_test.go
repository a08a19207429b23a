package reserveflow

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeAPI scripts snapshot and reservation responses.
type fakeAPI struct {
	snapshots []ConcertSnapshot
	snapIdx   int

	reserveSeats []string
	reserveErr   error
	reserveCalls int
}

func (f *fakeAPI) GetConcert(_ context.Context, _ string) (*ConcertSnapshot, error) {
	snap := f.snapshots[f.snapIdx]
	if f.snapIdx < len(f.snapshots)-1 {
		f.snapIdx++
	}
	return &snap, nil
}

func (f *fakeAPI) ReserveSeats(_ context.Context, _ string, _ []string) ([]string, error) {
	f.reserveCalls++
	if f.reserveErr != nil {
		return nil, f.reserveErr
	}
	return f.reserveSeats, nil
}

func snapshot(reserved ...string) ConcertSnapshot {
	return ConcertSnapshot{
		ConcertID:     "c1",
		TheaterRows:   3,
		TheaterCols:   3,
		TheaterSize:   9,
		ReservedSeats: reserved,
	}
}

func TestFlowConfirmsSuccessfulSubmission(t *testing.T) {
	api := &fakeAPI{
		snapshots:    []ConcertSnapshot{snapshot()},
		reserveSeats: []string{"1A", "1B"},
	}
	flow := NewFlow(api, "c1")

	if _, err := flow.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if err := flow.Select([]string{"1A", "1B"}); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if err := flow.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if flow.State() != StateConfirmed {
		t.Errorf("expected confirmed, got %s", flow.State())
	}
	if got := flow.Confirmed(); len(got) != 2 {
		t.Errorf("expected 2 confirmed seats, got %v", got)
	}
}

func TestFlowConflictHighlightsAndReturnsToIdle(t *testing.T) {
	// Baseline snapshot is empty; the refresh after the conflict shows
	// 1A and 2B taken by someone else.
	api := &fakeAPI{
		snapshots:  []ConcertSnapshot{snapshot(), snapshot("1A", "2B")},
		reserveErr: ErrConflict,
	}
	flow := NewFlow(api, "c1", WithHighlightTTL(30*time.Millisecond))

	if _, err := flow.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if err := flow.Select([]string{"1A"}); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	err := flow.Submit(context.Background())
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	if flow.State() != StateConflictDetected {
		t.Fatalf("expected conflict_detected, got %s", flow.State())
	}
	if got := flow.Selection(); len(got) != 0 {
		t.Errorf("selection should be cleared after conflict, got %v", got)
	}

	highlights := flow.Highlights()
	if len(highlights) != 2 {
		t.Fatalf("expected highlights [1A 2B], got %v", highlights)
	}

	// The highlight window expires and the flow returns to idle by itself.
	deadline := time.Now().Add(time.Second)
	for flow.State() != StateIdle {
		if time.Now().After(deadline) {
			t.Fatalf("flow never returned to idle, state %s", flow.State())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := flow.Highlights(); len(got) != 0 {
		t.Errorf("highlights should be cleared after expiry, got %v", got)
	}

	// A new attempt works after recovery.
	api.reserveErr = nil
	api.reserveSeats = []string{"3C"}
	if err := flow.Select([]string{"3C"}); err != nil {
		t.Fatalf("select after recovery failed: %v", err)
	}
	if err := flow.Submit(context.Background()); err != nil {
		t.Fatalf("submit after recovery failed: %v", err)
	}
	if flow.State() != StateConfirmed {
		t.Errorf("expected confirmed, got %s", flow.State())
	}
}

func TestFlowConflictDiffIgnoresPreexistingSeats(t *testing.T) {
	// 1A was already reserved before the attempt; only 2B is new.
	api := &fakeAPI{
		snapshots:  []ConcertSnapshot{snapshot("1A"), snapshot("1A", "2B")},
		reserveErr: ErrConflict,
	}
	flow := NewFlow(api, "c1", WithHighlightTTL(time.Minute))

	if _, err := flow.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if err := flow.Select([]string{"2B"}); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if err := flow.Submit(context.Background()); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	highlights := flow.Highlights()
	if len(highlights) != 1 || highlights[0] != "2B" {
		t.Errorf("expected highlights [2B], got %v", highlights)
	}
}

func TestFlowRejectsSubmitOutsideIdle(t *testing.T) {
	api := &fakeAPI{
		snapshots:    []ConcertSnapshot{snapshot()},
		reserveSeats: []string{"1A"},
	}
	flow := NewFlow(api, "c1")

	// No selection yet.
	if err := flow.Submit(context.Background()); err == nil {
		t.Fatal("expected error submitting without selection")
	}

	if err := flow.Select([]string{"1A"}); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if err := flow.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	// Confirmed is terminal; further submissions and selections fail.
	if err := flow.Submit(context.Background()); err == nil {
		t.Fatal("expected error submitting from confirmed state")
	}
	if err := flow.Select([]string{"2A"}); err == nil {
		t.Fatal("expected error selecting from confirmed state")
	}
	if api.reserveCalls != 1 {
		t.Errorf("expected exactly 1 reserve call, got %d", api.reserveCalls)
	}

	// Reset makes the flow reusable.
	flow.Reset()
	if flow.State() != StateIdle {
		t.Errorf("expected idle after reset, got %s", flow.State())
	}
}

func TestFlowReturnsToIdleOnOtherErrors(t *testing.T) {
	api := &fakeAPI{
		snapshots:  []ConcertSnapshot{snapshot()},
		reserveErr: ErrNotEnoughSeats,
	}
	flow := NewFlow(api, "c1")

	if err := flow.Select([]string{"1A"}); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	err := flow.Submit(context.Background())
	if !errors.Is(err, ErrNotEnoughSeats) {
		t.Fatalf("expected ErrNotEnoughSeats, got %v", err)
	}

	// A non-conflict failure returns the flow to idle right away so the
	// user can retry; the error stays readable until the next attempt.
	if flow.State() != StateIdle {
		t.Errorf("expected idle, got %s", flow.State())
	}
	if !errors.Is(flow.Err(), ErrNotEnoughSeats) {
		t.Errorf("unexpected flow error %v", flow.Err())
	}
	if got := flow.Selection(); len(got) != 1 || got[0] != "1A" {
		t.Errorf("selection should survive the failure, got %v", got)
	}

	// Retry succeeds without an intervening Reset.
	api.reserveErr = nil
	api.reserveSeats = []string{"1A"}
	if err := flow.Submit(context.Background()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if flow.State() != StateConfirmed {
		t.Errorf("expected confirmed, got %s", flow.State())
	}
}
