package concerts

import (
	"time"

	"github.com/google/uuid"
)

type Concert struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Date        time.Time `json:"date" gorm:"not null"`
	TheaterName string    `json:"theater_name" gorm:"not null;size:255"`
	TheaterRows int       `json:"theater_rows" gorm:"not null;check:theater_rows > 0"`
	TheaterCols int       `json:"theater_cols" gorm:"not null;check:theater_cols > 0 AND theater_cols <= 26"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TheaterSize returns the total seat count of the concert's theater.
func (c *Concert) TheaterSize() int {
	return c.TheaterRows * c.TheaterCols
}

// ConcertResponse is the wire representation of a concert. ReservedSeats is
// always a snapshot taken at response time; clients refresh it after a
// reservation conflict.
type ConcertResponse struct {
	ConcertID     string    `json:"concert_id"`
	ConcertName   string    `json:"concert_name"`
	ConcertDate   time.Time `json:"concert_date"`
	TheaterName   string    `json:"theater_name"`
	TheaterRows   int       `json:"theater_rows"`
	TheaterCols   int       `json:"theater_cols"`
	TheaterSize   int       `json:"theater_size"`
	ReservedSeats []string  `json:"reserved_seats"`
}
