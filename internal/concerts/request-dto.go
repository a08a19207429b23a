package concerts

import "time"

type CreateConcertRequest struct {
	Name        string    `json:"name" validate:"required,min=1,max=255"`
	Date        time.Time `json:"date" validate:"required"`
	TheaterName string    `json:"theater_name" validate:"required,min=1,max=255"`
	// Row cap keeps seat codes within the reserved_seats column width.
	TheaterRows int       `json:"theater_rows" validate:"required,min=1,max=999"`
	TheaterCols int       `json:"theater_cols" validate:"required,min=1,max=26"`
}
