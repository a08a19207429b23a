package reservations

// ReserveByCountRequest asks the server to pick seats automatically.
// The howMany field name matches the public API contract.
type ReserveByCountRequest struct {
	ConcertID string `json:"concert_id" validate:"required,uuid"`
	HowMany   int    `json:"howMany" validate:"required,min=1"`
}

// ReserveSeatsRequest claims an explicit set of seats.
type ReserveSeatsRequest struct {
	ConcertID string   `json:"concert_id" validate:"required,uuid"`
	Seats     []string `json:"seats" validate:"required,min=1,dive,required"`
}
