package discount

import (
	"errors"
	"testing"
)

// fixedRand pins the jitter so results are exact.
func fixedRand(v float64) func() float64 {
	return func() float64 { return v }
}

func TestCalculateDiscountLoyalVsStandard(t *testing.T) {
	// Jitter of 0 keeps base arithmetic visible: rng 0 -> bump of 5.
	svc := NewServiceWithRand(fixedRand(0))

	seats := []string{"3A", "6B"} // row sum 9

	loyal, err := svc.CalculateDiscount(seats, true)
	if err != nil {
		t.Fatalf("loyal discount failed: %v", err)
	}
	if loyal != 14 { // 9 + 5
		t.Errorf("expected loyal discount 14, got %d", loyal)
	}

	standard, err := svc.CalculateDiscount(seats, false)
	if err != nil {
		t.Fatalf("standard discount failed: %v", err)
	}
	if standard != 8 { // 9/3 + 5
		t.Errorf("expected standard discount 8, got %d", standard)
	}

	if standard >= loyal {
		t.Errorf("standard discount %d should be below loyal %d", standard, loyal)
	}
}

func TestCalculateDiscountClampsToUpperBound(t *testing.T) {
	svc := NewServiceWithRand(fixedRand(0.999))

	// Deep rows push the raw value far past 50.
	discount, err := svc.CalculateDiscount([]string{"40A", "41B", "42C"}, true)
	if err != nil {
		t.Fatalf("discount failed: %v", err)
	}
	if discount != 50 {
		t.Errorf("expected clamp to 50, got %d", discount)
	}
}

func TestCalculateDiscountClampsToLowerBound(t *testing.T) {
	svc := NewServiceWithRand(fixedRand(0))

	// Standard customer, front row: 1/3 + 5 rounds to 5.
	discount, err := svc.CalculateDiscount([]string{"1A"}, false)
	if err != nil {
		t.Fatalf("discount failed: %v", err)
	}
	if discount < 5 || discount > 50 {
		t.Errorf("discount %d outside [5, 50]", discount)
	}
	if discount != 5 {
		t.Errorf("expected minimum discount 5, got %d", discount)
	}
}

func TestCalculateDiscountRange(t *testing.T) {
	svc := NewService()

	for i := 0; i < 100; i++ {
		discount, err := svc.CalculateDiscount([]string{"2A", "7C"}, i%2 == 0)
		if err != nil {
			t.Fatalf("discount failed: %v", err)
		}
		if discount < 5 || discount > 50 {
			t.Fatalf("discount %d outside [5, 50]", discount)
		}
	}
}

func TestCalculateDiscountInvalidSeat(t *testing.T) {
	svc := NewServiceWithRand(fixedRand(0))

	_, err := svc.CalculateDiscount([]string{"1A", "A1"}, true)
	var invalidSeat *InvalidSeatError
	if !errors.As(err, &invalidSeat) {
		t.Fatalf("expected InvalidSeatError, got %v", err)
	}
	if invalidSeat.Seat != "A1" {
		t.Errorf("expected offending seat A1, got %s", invalidSeat.Seat)
	}
}
