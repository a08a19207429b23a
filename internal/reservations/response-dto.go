package reservations

// ReserveResponse is the payload of a successful claim.
type ReserveResponse struct {
	ConcertID string   `json:"concert_id"`
	Seats     []string `json:"seats"`
}

// Machine-readable error codes carried in the response envelope so that
// clients recover from failures without matching message strings.
const (
	CodeSeatConflict        = "SEAT_CONFLICT"
	CodeNotEnoughSeats      = "NOT_ENOUGH_SEATS"
	CodeReservationExists   = "RESERVATION_EXISTS"
	CodeReservationNotFound = "RESERVATION_NOT_FOUND"
	CodeInvalidSeat         = "INVALID_SEAT"
	CodeSeatOutOfBounds     = "SEAT_OUT_OF_BOUNDS"
	CodeConcertNotFound     = "CONCERT_NOT_FOUND"
)

type errorCode struct {
	Code string `json:"code"`
}
