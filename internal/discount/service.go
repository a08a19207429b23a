package discount

import (
	"fmt"
	"math"
	"math/rand"

	"concerto/internal/seatmap"
)

// InvalidSeatError reports a seat code the discount calculation cannot parse.
type InvalidSeatError struct {
	Seat string
}

func (e *InvalidSeatError) Error() string {
	return fmt.Sprintf("Invalid seat format: %s", e.Seat)
}

type Service interface {
	// CalculateDiscount returns a percentage in [5, 50]. Loyal customers
	// get the full row sum as the base; everyone else a third of it.
	CalculateDiscount(seats []string, loyal bool) (int, error)
}

type service struct {
	// rng returns a value in [0, 1). Injectable so tests are deterministic.
	rng func() float64
}

func NewService() Service {
	return &service{rng: rand.Float64}
}

// NewServiceWithRand builds a service with a fixed randomness source.
func NewServiceWithRand(rng func() float64) Service {
	return &service{rng: rng}
}

const (
	minDiscount = 5
	maxDiscount = 50
)

func (s *service) CalculateDiscount(seats []string, loyal bool) (int, error) {
	rowSum := 0
	for _, seat := range seats {
		row, _, err := seatmap.ParseSeatCode(seat)
		if err != nil {
			return 0, &InvalidSeatError{Seat: seat}
		}
		rowSum += row
	}

	base := float64(rowSum)
	if !loyal {
		base = base / 3
	}

	// Random bump between 5 and 20 percent.
	jitter := s.rng()*15 + 5

	discount := int(math.Round(base + jitter))
	if discount < minDiscount {
		discount = minDiscount
	}
	if discount > maxDiscount {
		discount = maxDiscount
	}
	return discount, nil
}
