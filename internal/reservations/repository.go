package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// ClaimSeats inserts all seats in one transaction. If any seat is
	// already taken the whole claim fails with ErrSeatConflict and no
	// rows are written.
	ClaimSeats(ctx context.Context, userID, concertID uuid.UUID, seats []string) error

	// ReleaseSeats deletes the user's seats for a concert and returns how
	// many rows were removed. Releasing nothing is not an error here.
	ReleaseSeats(ctx context.Context, userID, concertID uuid.UUID) (int64, error)

	GetReservedSeats(ctx context.Context, concertID uuid.UUID) ([]string, error)
	GetUserSeats(ctx context.Context, userID, concertID uuid.UUID) ([]string, error)
	HasReservation(ctx context.Context, userID, concertID uuid.UUID) (bool, error)
	GetUserReservations(ctx context.Context, userID uuid.UUID) ([]Reservation, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ClaimSeats(ctx context.Context, userID, concertID uuid.UUID, seats []string) error {
	rows := make([]ReservedSeat, 0, len(seats))
	for _, seat := range seats {
		rows = append(rows, ReservedSeat{
			UserID:    userID,
			ConcertID: concertID,
			SeatCode:  seat,
		})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
	if err != nil {
		// The unique index on (concert_id, seat_code) rejected the insert.
		// gorm translates the driver error, so no string matching is needed.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSeatConflict
		}
		return fmt.Errorf("failed to claim seats: %w", err)
	}

	return nil
}

func (r *repository) ReleaseSeats(ctx context.Context, userID, concertID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND concert_id = ?", userID, concertID).
		Delete(&ReservedSeat{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to release seats: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *repository) GetReservedSeats(ctx context.Context, concertID uuid.UUID) ([]string, error) {
	seats := []string{}
	err := r.db.WithContext(ctx).
		Model(&ReservedSeat{}).
		Where("concert_id = ?", concertID).
		Order("seat_code ASC").
		Pluck("seat_code", &seats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reserved seats: %w", err)
	}
	return seats, nil
}

func (r *repository) GetUserSeats(ctx context.Context, userID, concertID uuid.UUID) ([]string, error) {
	seats := []string{}
	err := r.db.WithContext(ctx).
		Model(&ReservedSeat{}).
		Where("user_id = ? AND concert_id = ?", userID, concertID).
		Order("seat_code ASC").
		Pluck("seat_code", &seats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user seats: %w", err)
	}
	return seats, nil
}

func (r *repository) HasReservation(ctx context.Context, userID, concertID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ReservedSeat{}).
		Where("user_id = ? AND concert_id = ?", userID, concertID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check reservation: %w", err)
	}
	return count > 0, nil
}

func (r *repository) GetUserReservations(ctx context.Context, userID uuid.UUID) ([]Reservation, error) {
	var rows []struct {
		ConcertID   uuid.UUID
		SeatCode    string
		Name        string
		Date        time.Time
		TheaterName string
		TheaterRows int
		TheaterCols int
	}

	err := r.db.WithContext(ctx).
		Table("reserved_seats").
		Select("reserved_seats.concert_id, reserved_seats.seat_code, concerts.name, concerts.date, concerts.theater_name, concerts.theater_rows, concerts.theater_cols").
		Joins("JOIN concerts ON concerts.id = reserved_seats.concert_id").
		Where("reserved_seats.user_id = ?", userID).
		Order("concerts.date ASC, reserved_seats.seat_code ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reservations: %w", err)
	}

	// Group seats by concert, keeping the date order from the query.
	reservations := []Reservation{}
	index := map[uuid.UUID]int{}
	for _, row := range rows {
		i, ok := index[row.ConcertID]
		if !ok {
			reservations = append(reservations, Reservation{
				UserID:      userID.String(),
				ConcertID:   row.ConcertID.String(),
				ConcertName: row.Name,
				ConcertDate: row.Date,
				TheaterName: row.TheaterName,
				TheaterRows: row.TheaterRows,
				TheaterCols: row.TheaterCols,
			})
			i = len(reservations) - 1
			index[row.ConcertID] = i
		}
		reservations[i].Seats = append(reservations[i].Seats, row.SeatCode)
	}

	return reservations, nil
}
