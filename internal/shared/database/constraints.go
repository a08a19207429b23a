package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the database constraints the reservation engine
// depends on for correctness under concurrent load.
func MigrateConstraints(db *gorm.DB) error {
	// A seat can belong to at most one reservation per concert. This
	// constraint is the single source of truth for double-booking
	// prevention; application-level checks are advisory only.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_seat_per_concert
		ON reserved_seats (concert_id, seat_code);
	`).Error
	if err != nil {
		return err
	}

	// Index for reservation lookups by user within a concert
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reserved_seats_user_concert
		ON reserved_seats (user_id, concert_id);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
