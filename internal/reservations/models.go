package reservations

import (
	"time"

	"github.com/google/uuid"
)

// ReservedSeat is one claimed seat. The (concert_id, seat_code) pair carries
// a database uniqueness constraint; a reservation is the set of rows sharing
// a (user_id, concert_id) pair.
type ReservedSeat struct {
	ID        uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null"`
	ConcertID uuid.UUID `json:"concert_id" gorm:"type:uuid;not null;uniqueIndex:unique_seat_per_concert"`
	SeatCode  string    `json:"seat_code" gorm:"not null;size:4;uniqueIndex:unique_seat_per_concert"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (ReservedSeat) TableName() string {
	return "reserved_seats"
}

// Reservation is the read model for a user's seats at one concert,
// decorated with concert metadata for display.
type Reservation struct {
	UserID      string    `json:"user_id"`
	ConcertID   string    `json:"concert_id"`
	ConcertName string    `json:"concert_name"`
	ConcertDate time.Time `json:"concert_date"`
	TheaterName string    `json:"theater_name"`
	TheaterRows int       `json:"theater_rows"`
	TheaterCols int       `json:"theater_cols"`
	Seats       []string  `json:"reserved_seats"`
}
