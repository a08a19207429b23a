package notifications

import (
	"encoding/json"
	"time"
)

type EventType string

const (
	EventTypeReserved  EventType = "reservation.reserved"
	EventTypeCancelled EventType = "reservation.cancelled"
)

// ReservationEvent is the message published for every successful seat
// mutation. Downstream consumers (mailers, analytics) key off Type.
type ReservationEvent struct {
	Type      EventType `json:"type"`
	UserID    string    `json:"user_id"`
	ConcertID string    `json:"concert_id"`
	Seats     []string  `json:"seats,omitempty"`
	Released  int       `json:"released,omitempty"`
	At        time.Time `json:"at"`
}

func (e *ReservationEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PartitionKey routes all events for one concert to the same partition so
// consumers see a concert's history in order.
func (e *ReservationEvent) PartitionKey() string {
	return e.ConcertID
}
