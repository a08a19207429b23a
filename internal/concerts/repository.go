package concerts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetAll(ctx context.Context) ([]Concert, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Concert, error)
	GetReservedSeats(ctx context.Context, concertID uuid.UUID) ([]string, error)
	Create(ctx context.Context, concert *Concert) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetAll(ctx context.Context) ([]Concert, error) {
	var concerts []Concert
	err := r.db.WithContext(ctx).Order("date ASC").Find(&concerts).Error
	if err != nil {
		return nil, err
	}
	return concerts, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Concert, error) {
	var concert Concert
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&concert).Error
	if err != nil {
		return nil, err
	}
	return &concert, nil
}

// GetReservedSeats reads the seat snapshot straight from the reservations
// table. The snapshot is only advisory; the uniqueness constraint on
// reserved_seats is what actually prevents double booking.
func (r *repository) GetReservedSeats(ctx context.Context, concertID uuid.UUID) ([]string, error) {
	seats := []string{}
	err := r.db.WithContext(ctx).
		Table("reserved_seats").
		Where("concert_id = ?", concertID).
		Order("seat_code ASC").
		Pluck("seat_code", &seats).Error
	if err != nil {
		return nil, err
	}
	return seats, nil
}

func (r *repository) Create(ctx context.Context, concert *Concert) error {
	return r.db.WithContext(ctx).Create(concert).Error
}
