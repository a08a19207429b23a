// Package reserveflow implements the client side of the reservation API:
// a typed REST client and a small state machine that recovers from seat
// conflicts by refreshing the seat snapshot and surfacing what changed.
package reserveflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrConflict means another reservation took at least one requested
	// seat first. Nothing was reserved.
	ErrConflict = errors.New("seats already reserved")

	ErrNotEnoughSeats      = errors.New("not enough available seats")
	ErrConcertNotFound     = errors.New("concert not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrReservationExists   = errors.New("reservation already exists")
	ErrInvalidSeat         = errors.New("invalid seat")
	ErrUnauthorized        = errors.New("unauthorized")
)

// ConcertSnapshot is the server's view of a concert at one point in time.
type ConcertSnapshot struct {
	ConcertID     string    `json:"concert_id"`
	ConcertName   string    `json:"concert_name"`
	ConcertDate   time.Time `json:"concert_date"`
	TheaterName   string    `json:"theater_name"`
	TheaterRows   int       `json:"theater_rows"`
	TheaterCols   int       `json:"theater_cols"`
	TheaterSize   int       `json:"theater_size"`
	ReservedSeats []string  `json:"reserved_seats"`
}

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     json.RawMessage `json:"errors"`
}

type errorCode struct {
	Code string `json:"code"`
}

type reserveData struct {
	ConcertID string   `json:"concert_id"`
	Seats     []string `json:"seats"`
}

// Client talks to the reservation API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithHTTP allows injecting a custom http.Client.
func NewClientWithHTTP(baseURL, token string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, token: token, http: httpClient}
}

func (c *Client) GetConcert(ctx context.Context, concertID string) (*ConcertSnapshot, error) {
	var snapshot ConcertSnapshot
	err := c.do(ctx, http.MethodGet, "/concert/"+concertID, nil, &snapshot)
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// ReserveSeats claims an explicit set of seats.
func (c *Client) ReserveSeats(ctx context.Context, concertID string, seats []string) ([]string, error) {
	body := map[string]interface{}{"concert_id": concertID, "seats": seats}
	var data reserveData
	if err := c.do(ctx, http.MethodPut, "/reserve", body, &data); err != nil {
		return nil, err
	}
	return data.Seats, nil
}

// ReserveByCount lets the server pick the seats.
func (c *Client) ReserveByCount(ctx context.Context, concertID string, howMany int) ([]string, error) {
	body := map[string]interface{}{"concert_id": concertID, "howMany": howMany}
	var data reserveData
	if err := c.do(ctx, http.MethodPost, "/reserve", body, &data); err != nil {
		return nil, err
	}
	return data.Seats, nil
}

func (c *Client) CancelReservation(ctx context.Context, concertID string) error {
	return c.do(ctx, http.MethodDelete, "/reservation/"+concertID, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return c.translateError(resp.StatusCode, &env)
	}

	if dest != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, dest); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

// translateError maps the envelope's error code onto the typed errors,
// falling back to the HTTP status when no code is present.
func (c *Client) translateError(status int, env *envelope) error {
	if env.Errors != nil {
		var code errorCode
		if err := json.Unmarshal(env.Errors, &code); err == nil {
			switch code.Code {
			case "SEAT_CONFLICT":
				return ErrConflict
			case "NOT_ENOUGH_SEATS":
				return ErrNotEnoughSeats
			case "RESERVATION_EXISTS":
				return ErrReservationExists
			case "RESERVATION_NOT_FOUND":
				return ErrReservationNotFound
			case "CONCERT_NOT_FOUND":
				return ErrConcertNotFound
			case "INVALID_SEAT", "SEAT_OUT_OF_BOUNDS":
				return fmt.Errorf("%w: %s", ErrInvalidSeat, env.Message)
			}
		}
	}

	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrConcertNotFound
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrInvalidSeat, env.Message)
	default:
		return fmt.Errorf("server error (%d): %s", status, env.Message)
	}
}
