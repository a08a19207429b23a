package seatmap

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
)

// Seat codes are a 1-based row number followed by a single column letter
// (column 1 -> 'A'). Theaters wider than 26 columns are not representable.
var seatCodePattern = regexp.MustCompile(`^[1-9][0-9]*[A-Z]$`)

// MaxColumns is the widest representable theater.
const MaxColumns = 26

// SeatCode builds the code for a row/column pair.
func SeatCode(row, col int) string {
	return strconv.Itoa(row) + string(rune('A'+col-1))
}

// ParseSeatCode splits a seat code into its row and column numbers.
// It only accepts codes matching the canonical format.
func ParseSeatCode(code string) (row, col int, err error) {
	if !seatCodePattern.MatchString(code) {
		return 0, 0, fmt.Errorf("invalid seat format: %s", code)
	}

	row, err = strconv.Atoi(code[:len(code)-1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid seat format: %s", code)
	}

	col = int(code[len(code)-1]-'A') + 1
	return row, col, nil
}

// IsValidSeat reports whether code is well formed and within the given
// theater dimensions.
func IsValidSeat(code string, rows, cols int) bool {
	row, col, err := ParseSeatCode(code)
	if err != nil {
		return false
	}
	return row >= 1 && row <= rows && col >= 1 && col <= cols
}

// EnumerateSeats returns every seat code for a rows x cols theater in
// row-major order. The output is deterministic.
func EnumerateSeats(rows, cols int) []string {
	if rows <= 0 || cols <= 0 || cols > MaxColumns {
		return nil
	}

	seats := make([]string, 0, rows*cols)
	for row := 1; row <= rows; row++ {
		for col := 1; col <= cols; col++ {
			seats = append(seats, SeatCode(row, col))
		}
	}
	return seats
}

// AvailableSeats returns all seats from all that do not appear in reserved,
// preserving the order of all.
func AvailableSeats(all, reserved []string) []string {
	taken := make(map[string]struct{}, len(reserved))
	for _, seat := range reserved {
		taken[seat] = struct{}{}
	}

	available := make([]string, 0, len(all))
	for _, seat := range all {
		if _, ok := taken[seat]; !ok {
			available = append(available, seat)
		}
	}
	return available
}

// PickRandom selects n distinct seats uniformly at random from available
// using a partial Fisher-Yates shuffle, touching only n positions. The
// input slice is not modified. Returns nil when n exceeds the available
// count.
func PickRandom(available []string, n int) []string {
	if n < 0 || n > len(available) {
		return nil
	}

	pool := make([]string, len(available))
	copy(pool, available)

	for i := 0; i < n; i++ {
		j := i + rand.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
