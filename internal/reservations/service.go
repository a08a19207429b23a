package reservations

import (
	"context"
	"fmt"

	"concerto/internal/concerts"
	"concerto/internal/seatmap"
	"concerto/pkg/logger"

	"github.com/google/uuid"
)

// ConcertService is the slice of the concerts service the engine needs.
type ConcertService interface {
	GetConcert(ctx context.Context, id uuid.UUID) (*concerts.Concert, error)
	InvalidateConcert(ctx context.Context, id uuid.UUID)
}

// Publisher emits reservation lifecycle events. Implementations must not
// block the request path; a nil publisher disables emission.
type Publisher interface {
	PublishReserved(ctx context.Context, userID, concertID string, seats []string)
	PublishCancelled(ctx context.Context, userID, concertID string, released int)
}

type Service interface {
	SetPublisher(publisher Publisher)

	// ReserveSeats claims an explicit set of seats. All or nothing.
	ReserveSeats(ctx context.Context, userID, concertID uuid.UUID, seats []string) ([]string, error)

	// ReserveByCount picks howMany random available seats and claims them.
	ReserveByCount(ctx context.Context, userID, concertID uuid.UUID, howMany int) ([]string, error)

	CancelReservation(ctx context.Context, userID, concertID uuid.UUID) error
	GetReservation(ctx context.Context, userID, concertID uuid.UUID) (*Reservation, error)
	GetUserReservations(ctx context.Context, userID uuid.UUID) ([]Reservation, error)
}

type service struct {
	repo           Repository
	concertService ConcertService
	publisher      Publisher
	log            *logger.Logger
}

func NewService(repo Repository, concertService ConcertService) Service {
	return &service{
		repo:           repo,
		concertService: concertService,
		log:            logger.GetDefault(),
	}
}

func (s *service) SetPublisher(publisher Publisher) {
	s.publisher = publisher
}

func (s *service) ReserveSeats(ctx context.Context, userID, concertID uuid.UUID, seats []string) ([]string, error) {
	concert, err := s.concertService.GetConcert(ctx, concertID)
	if err != nil {
		return nil, err
	}

	// Validation order matters for error reporting: format first, then
	// bounds, each naming the first offending seat.
	for _, seat := range seats {
		if _, _, err := seatmap.ParseSeatCode(seat); err != nil {
			return nil, &InvalidSeatError{Seat: seat}
		}
	}
	for _, seat := range seats {
		if !seatmap.IsValidSeat(seat, concert.TheaterRows, concert.TheaterCols) {
			return nil, &OutOfBoundsError{Seat: seat, Rows: concert.TheaterRows, Cols: concert.TheaterCols}
		}
	}

	exists, err := s.repo.HasReservation(ctx, userID, concertID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrReservationExists
	}

	// Advisory pre-check against a fresh snapshot. It catches most
	// conflicts cheaply, but the uniqueness constraint inside ClaimSeats
	// is what guarantees correctness under concurrent claims.
	reserved, err := s.repo.GetReservedSeats(ctx, concertID)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(reserved))
	for _, seat := range reserved {
		taken[seat] = struct{}{}
	}
	for _, seat := range seats {
		if _, ok := taken[seat]; ok {
			s.log.LogSeatConflict(ctx, concertID.String(), userID.String(), seats)
			return nil, ErrSeatConflict
		}
	}

	if err := s.claim(ctx, userID, concertID, seats); err != nil {
		return nil, err
	}

	return seats, nil
}

func (s *service) ReserveByCount(ctx context.Context, userID, concertID uuid.UUID, howMany int) ([]string, error) {
	if howMany < 1 {
		return nil, fmt.Errorf("seat count must be at least 1")
	}

	concert, err := s.concertService.GetConcert(ctx, concertID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.HasReservation(ctx, userID, concertID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrReservationExists
	}

	reserved, err := s.repo.GetReservedSeats(ctx, concertID)
	if err != nil {
		return nil, err
	}

	all := seatmap.EnumerateSeats(concert.TheaterRows, concert.TheaterCols)
	available := seatmap.AvailableSeats(all, reserved)
	if howMany > len(available) {
		return nil, ErrNotEnoughSeats
	}

	seats := seatmap.PickRandom(available, howMany)

	// A concurrent claim between the snapshot and this insert surfaces as
	// ErrSeatConflict. No automatic retry; the caller decides.
	if err := s.claim(ctx, userID, concertID, seats); err != nil {
		return nil, err
	}

	return seats, nil
}

func (s *service) claim(ctx context.Context, userID, concertID uuid.UUID, seats []string) error {
	if err := s.repo.ClaimSeats(ctx, userID, concertID, seats); err != nil {
		if err == ErrSeatConflict {
			s.log.LogSeatConflict(ctx, concertID.String(), userID.String(), seats)
		}
		return err
	}

	s.log.LogReservationCreated(ctx, concertID.String(), userID.String(), seats)
	s.concertService.InvalidateConcert(ctx, concertID)
	if s.publisher != nil {
		s.publisher.PublishReserved(ctx, userID.String(), concertID.String(), seats)
	}
	return nil
}

func (s *service) CancelReservation(ctx context.Context, userID, concertID uuid.UUID) error {
	released, err := s.repo.ReleaseSeats(ctx, userID, concertID)
	if err != nil {
		return err
	}
	if released == 0 {
		return ErrReservationNotFound
	}

	s.log.LogReservationCancelled(ctx, concertID.String(), userID.String(), int(released))
	s.concertService.InvalidateConcert(ctx, concertID)
	if s.publisher != nil {
		s.publisher.PublishCancelled(ctx, userID.String(), concertID.String(), int(released))
	}
	return nil
}

func (s *service) GetReservation(ctx context.Context, userID, concertID uuid.UUID) (*Reservation, error) {
	seats, err := s.repo.GetUserSeats(ctx, userID, concertID)
	if err != nil {
		return nil, err
	}
	if len(seats) == 0 {
		return nil, ErrReservationNotFound
	}

	concert, err := s.concertService.GetConcert(ctx, concertID)
	if err != nil {
		return nil, err
	}

	return &Reservation{
		UserID:      userID.String(),
		ConcertID:   concertID.String(),
		ConcertName: concert.Name,
		ConcertDate: concert.Date,
		TheaterName: concert.TheaterName,
		TheaterRows: concert.TheaterRows,
		TheaterCols: concert.TheaterCols,
		Seats:       seats,
	}, nil
}

func (s *service) GetUserReservations(ctx context.Context, userID uuid.UUID) ([]Reservation, error) {
	return s.repo.GetUserReservations(ctx, userID)
}
