package concerts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"concerto/pkg/cache"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// fakeService serves a fixed catalog without touching the database.
type fakeService struct {
	concerts map[uuid.UUID]*Concert
}

func (f *fakeService) SetCacheService(_ cache.Service) {}

func (f *fakeService) GetAllConcerts(ctx context.Context) ([]ConcertResponse, error) {
	out := []ConcertResponse{}
	for _, c := range f.concerts {
		resp, err := f.GetConcertByID(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

func (f *fakeService) GetConcertByID(ctx context.Context, id uuid.UUID) (*ConcertResponse, error) {
	c, err := f.GetConcert(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ConcertResponse{
		ConcertID:     c.ID.String(),
		ConcertName:   c.Name,
		ConcertDate:   c.Date,
		TheaterName:   c.TheaterName,
		TheaterRows:   c.TheaterRows,
		TheaterCols:   c.TheaterCols,
		TheaterSize:   c.TheaterSize(),
		ReservedSeats: []string{},
	}, nil
}

func (f *fakeService) GetConcert(_ context.Context, id uuid.UUID) (*Concert, error) {
	c, ok := f.concerts[id]
	if !ok {
		return nil, ErrConcertNotFound
	}
	return c, nil
}

func (f *fakeService) CreateConcert(_ context.Context, _ CreateConcertRequest) (*ConcertResponse, error) {
	return nil, nil
}

func (f *fakeService) InvalidateConcert(_ context.Context, _ uuid.UUID) {}

func newTestRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	ctrl := NewController(svc)
	router.GET("/concerts", ctrl.GetAllConcerts)
	router.GET("/concert/:id", ctrl.GetConcert)
	return router
}

func TestGetConcertEndpoint(t *testing.T) {
	concertID := uuid.New()
	svc := &fakeService{concerts: map[uuid.UUID]*Concert{
		concertID: {
			ID:          concertID,
			Name:        "Symphonic Nights",
			Date:        time.Now().Add(24 * time.Hour),
			TheaterName: "Grand Hall",
			TheaterRows: 9,
			TheaterCols: 14,
		},
	}}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/concert/"+concertID.String(), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var envelope struct {
		Data ConcertResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TheaterSize != 126 {
		t.Errorf("expected theater size 126, got %d", envelope.Data.TheaterSize)
	}
}

func TestGetConcertNotFound(t *testing.T) {
	svc := &fakeService{concerts: map[uuid.UUID]*Concert{}}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/concert/"+uuid.NewString(), nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Message != "Concert not found" {
		t.Errorf("unexpected message %q", envelope.Message)
	}
}

func TestCreateConcertRejectsOversizedTheater(t *testing.T) {
	svc := &fakeService{concerts: map[uuid.UUID]*Concert{}}
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/concerts", NewController(svc).CreateConcert)

	// 1000 rows would produce seat codes wider than the seat column.
	body := `{"name":"Big","date":"2026-12-01T20:00:00Z","theater_name":"Arena","theater_rows":1000,"theater_cols":20}`
	req := httptest.NewRequest(http.MethodPost, "/concerts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetConcertInvalidID(t *testing.T) {
	svc := &fakeService{concerts: map[uuid.UUID]*Concert{}}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/concert/not-a-uuid", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
