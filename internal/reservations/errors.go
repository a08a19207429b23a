package reservations

import (
	"errors"
	"fmt"
)

var (
	// ErrSeatConflict means at least one requested seat was taken by a
	// concurrent reservation. The claim had no effect.
	ErrSeatConflict = errors.New("seats already reserved")

	ErrNotEnoughSeats      = errors.New("not enough available seats")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrReservationExists   = errors.New("user already has a reservation for this concert")
)

// InvalidSeatError reports the first malformed seat code in a request.
type InvalidSeatError struct {
	Seat string
}

func (e *InvalidSeatError) Error() string {
	return fmt.Sprintf("Invalid seat format: %s", e.Seat)
}

// OutOfBoundsError reports a well formed seat code that falls outside the
// theater's dimensions.
type OutOfBoundsError struct {
	Seat string
	Rows int
	Cols int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("Seat %s is out of bounds for theater size %dx%d", e.Seat, e.Rows, e.Cols)
}
