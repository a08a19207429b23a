package reserveflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// State is the flow's position in the reservation attempt lifecycle.
type State string

const (
	StateIdle             State = "idle"
	StateSubmitting       State = "submitting"
	StateConfirmed        State = "confirmed"
	StateConflictDetected State = "conflict_detected"
)

// DefaultHighlightTTL is how long newly occupied seats stay highlighted
// after a conflict before the flow returns to idle.
const DefaultHighlightTTL = 5 * time.Second

// ReservationAPI is the slice of the client the flow needs.
type ReservationAPI interface {
	GetConcert(ctx context.Context, concertID string) (*ConcertSnapshot, error)
	ReserveSeats(ctx context.Context, concertID string, seats []string) ([]string, error)
}

// Flow drives a single reservation attempt and its conflict recovery.
// At most one submission is in flight at a time. On conflict the flow
// refreshes the snapshot, exposes the seats that became occupied since the
// attempt started, clears the selection, and after the highlight window
// returns to idle on its own.
type Flow struct {
	mu sync.Mutex

	api          ReservationAPI
	concertID    string
	highlightTTL time.Duration

	state      State
	snapshot   *ConcertSnapshot
	selection  []string
	highlights []string
	confirmed  []string
	lastErr    error

	highlightTimer *time.Timer
}

// Option configures a Flow.
type Option func(*Flow)

// WithHighlightTTL overrides the conflict highlight window.
func WithHighlightTTL(ttl time.Duration) Option {
	return func(f *Flow) { f.highlightTTL = ttl }
}

func NewFlow(api ReservationAPI, concertID string, opts ...Option) *Flow {
	f := &Flow{
		api:          api,
		concertID:    concertID,
		highlightTTL: DefaultHighlightTTL,
		state:        StateIdle,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Refresh fetches a fresh concert snapshot. Allowed in any state; the
// snapshot taken here is the baseline for conflict diffing.
func (f *Flow) Refresh(ctx context.Context) (*ConcertSnapshot, error) {
	snapshot, err := f.api.GetConcert(ctx, f.concertID)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.snapshot = snapshot
	f.mu.Unlock()
	return snapshot, nil
}

// Select replaces the current seat selection. Only valid while idle.
func (f *Flow) Select(seats []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateIdle {
		return fmt.Errorf("cannot change selection in state %s", f.state)
	}
	f.selection = append([]string(nil), seats...)
	return nil
}

// Submit sends the current selection. It blocks until the attempt resolves
// and returns the error the attempt ended with, if any.
func (f *Flow) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateIdle {
		state := f.state
		f.mu.Unlock()
		return fmt.Errorf("submission not allowed in state %s", state)
	}
	if len(f.selection) == 0 {
		f.mu.Unlock()
		return errors.New("no seats selected")
	}
	f.state = StateSubmitting
	seats := append([]string(nil), f.selection...)
	before := f.snapshot
	f.mu.Unlock()

	confirmed, err := f.api.ReserveSeats(ctx, f.concertID, seats)
	if err == nil {
		f.mu.Lock()
		f.state = StateConfirmed
		f.confirmed = confirmed
		f.lastErr = nil
		f.mu.Unlock()
		return nil
	}

	if errors.Is(err, ErrConflict) {
		f.handleConflict(ctx, before)
		return err
	}

	// Non-conflict failures surface the error and return the flow to
	// idle with the selection intact, so the user can retry immediately.
	f.mu.Lock()
	f.state = StateIdle
	f.lastErr = err
	f.mu.Unlock()
	return err
}

// handleConflict refreshes the snapshot, diffs it against the pre-submission
// baseline and schedules the return to idle.
func (f *Flow) handleConflict(ctx context.Context, before *ConcertSnapshot) {
	after, refreshErr := f.api.GetConcert(ctx, f.concertID)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.state = StateConflictDetected
	f.lastErr = ErrConflict
	f.selection = nil

	if refreshErr == nil {
		f.snapshot = after
		f.highlights = newlyReserved(before, after)
	} else {
		// Snapshot refresh failed; recover without highlights.
		f.highlights = nil
	}

	if f.highlightTimer != nil {
		f.highlightTimer.Stop()
	}
	f.highlightTimer = time.AfterFunc(f.highlightTTL, f.expireHighlights)
}

func (f *Flow) expireHighlights() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateConflictDetected {
		return
	}
	f.highlights = nil
	f.state = StateIdle
}

// newlyReserved returns seats reserved in after but not in before.
func newlyReserved(before, after *ConcertSnapshot) []string {
	if after == nil {
		return nil
	}

	old := map[string]struct{}{}
	if before != nil {
		for _, seat := range before.ReservedSeats {
			old[seat] = struct{}{}
		}
	}

	var fresh []string
	for _, seat := range after.ReservedSeats {
		if _, ok := old[seat]; !ok {
			fresh = append(fresh, seat)
		}
	}
	return fresh
}

// Reset returns the flow to idle from any state, cancelling a pending
// highlight expiry. The selection and highlights are cleared.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.highlightTimer != nil {
		f.highlightTimer.Stop()
		f.highlightTimer = nil
	}
	f.state = StateIdle
	f.selection = nil
	f.highlights = nil
	f.confirmed = nil
	f.lastErr = nil
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Selection() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.selection...)
}

// Highlights returns the seats that became occupied during the last
// conflicting attempt. Empty outside the highlight window.
func (f *Flow) Highlights() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.highlights...)
}

// Confirmed returns the seats granted by a successful submission.
func (f *Flow) Confirmed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.confirmed...)
}

func (f *Flow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}
