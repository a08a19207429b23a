package concerts

import (
	"context"
	"errors"
	"fmt"

	"concerto/internal/seatmap"
	"concerto/internal/shared/config"
	"concerto/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrConcertNotFound = errors.New("concert not found")

type Service interface {
	SetCacheService(cacheService cache.Service)

	GetAllConcerts(ctx context.Context) ([]ConcertResponse, error)
	GetConcertByID(ctx context.Context, id uuid.UUID) (*ConcertResponse, error)
	CreateConcert(ctx context.Context, req CreateConcertRequest) (*ConcertResponse, error)

	// GetConcert returns the raw concert row for geometry lookups.
	GetConcert(ctx context.Context, id uuid.UUID) (*Concert, error)

	// InvalidateConcert drops cached snapshots after a seat mutation.
	InvalidateConcert(ctx context.Context, id uuid.UUID)
}

type service struct {
	repo         Repository
	cfg          *config.Config
	cacheService cache.Service
}

func NewService(repo Repository, cfg *config.Config) Service {
	return &service{repo: repo, cfg: cfg}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) GetAllConcerts(ctx context.Context) ([]ConcertResponse, error) {
	if s.cacheService != nil {
		var cached []ConcertResponse
		err := s.cacheService.GetOrSet(ctx, cache.ConcertCatalogKey(), s.cfg.Redis.CatalogTTL,
			func() (interface{}, error) {
				return s.buildCatalog(ctx)
			}, &cached)
		if err == nil {
			return cached, nil
		}
		// Cache path failed, fall through to the database
	}

	return s.buildCatalog(ctx)
}

func (s *service) buildCatalog(ctx context.Context) ([]ConcertResponse, error) {
	concerts, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch concerts: %w", err)
	}

	responses := make([]ConcertResponse, 0, len(concerts))
	for i := range concerts {
		resp, err := s.toResponse(ctx, &concerts[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

// GetConcertByID always reads the reserved seat snapshot fresh. Clients use
// it to recover after a conflict, so a stale snapshot here would defeat the
// recovery flow.
func (s *service) GetConcertByID(ctx context.Context, id uuid.UUID) (*ConcertResponse, error) {
	concert, err := s.GetConcert(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, concert)
}

func (s *service) GetConcert(ctx context.Context, id uuid.UUID) (*Concert, error) {
	concert, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConcertNotFound
		}
		return nil, fmt.Errorf("failed to fetch concert: %w", err)
	}
	return concert, nil
}

func (s *service) CreateConcert(ctx context.Context, req CreateConcertRequest) (*ConcertResponse, error) {
	if req.TheaterCols > seatmap.MaxColumns {
		return nil, fmt.Errorf("theater cannot have more than %d columns", seatmap.MaxColumns)
	}

	concert := &Concert{
		Name:        req.Name,
		Date:        req.Date,
		TheaterName: req.TheaterName,
		TheaterRows: req.TheaterRows,
		TheaterCols: req.TheaterCols,
	}

	if err := s.repo.Create(ctx, concert); err != nil {
		return nil, fmt.Errorf("failed to create concert: %w", err)
	}

	s.InvalidateConcert(ctx, concert.ID)

	return s.toResponse(ctx, concert)
}

func (s *service) InvalidateConcert(ctx context.Context, id uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	// Best effort. A failed invalidation only extends staleness to the TTL.
	_ = s.cacheService.Delete(ctx, cache.ConcertKey(id.String()))
	_ = s.cacheService.Delete(ctx, cache.ConcertCatalogKey())
}

func (s *service) toResponse(ctx context.Context, concert *Concert) (*ConcertResponse, error) {
	reserved, err := s.repo.GetReservedSeats(ctx, concert.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reserved seats: %w", err)
	}

	return &ConcertResponse{
		ConcertID:     concert.ID.String(),
		ConcertName:   concert.Name,
		ConcertDate:   concert.Date,
		TheaterName:   concert.TheaterName,
		TheaterRows:   concert.TheaterRows,
		TheaterCols:   concert.TheaterCols,
		TheaterSize:   concert.TheaterSize(),
		ReservedSeats: reserved,
	}, nil
}
