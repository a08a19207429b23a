package reservations

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"concerto/internal/concerts"
	"concerto/internal/shared/utils/response"
)

type Controller interface {
	ReserveByCount(c *gin.Context)
	ReserveSeats(c *gin.Context)
	CancelReservation(c *gin.Context)
	GetReservation(c *gin.Context)
	GetUserReservations(c *gin.Context)
}

type controller struct {
	service  Service
	validate *validator.Validate
}

func NewController(service Service) Controller {
	return &controller{
		service:  service,
		validate: validator.New(),
	}
}

// ReserveByCount handles POST /reserve. The server picks the seats.
func (ctrl *controller) ReserveByCount(c *gin.Context) {
	var req ReserveByCountRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validate.Struct(req); err != nil {
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, "Validation failed", nil, err.Error())
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	concertID, _ := uuid.Parse(req.ConcertID)

	seats, err := ctrl.service.ReserveByCount(c.Request.Context(), userID, concertID, req.HowMany)
	if err != nil {
		ctrl.respondReserveError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Reservation successful",
		ReserveResponse{ConcertID: req.ConcertID, Seats: seats}, nil)
}

// ReserveSeats handles PUT /reserve. The client picked the seats.
func (ctrl *controller) ReserveSeats(c *gin.Context) {
	var req ReserveSeatsRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validate.Struct(req); err != nil {
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, "Validation failed", nil, err.Error())
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	concertID, _ := uuid.Parse(req.ConcertID)

	seats, err := ctrl.service.ReserveSeats(c.Request.Context(), userID, concertID, req.Seats)
	if err != nil {
		ctrl.respondReserveError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Reservation successful",
		ReserveResponse{ConcertID: req.ConcertID, Seats: seats}, nil)
}

func (ctrl *controller) CancelReservation(c *gin.Context) {
	concertID, err := uuid.Parse(c.Param("concertId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid concert ID", nil, err.Error())
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	err = ctrl.service.CancelReservation(c.Request.Context(), userID, concertID)
	if err != nil {
		if errors.Is(err, ErrReservationNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Reservation not found", nil,
				errorCode{Code: CodeReservationNotFound})
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to cancel reservation", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Reservation deleted successfully", nil, nil)
}

func (ctrl *controller) GetReservation(c *gin.Context) {
	concertID, err := uuid.Parse(c.Param("concertId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid concert ID", nil, err.Error())
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	reservation, err := ctrl.service.GetReservation(c.Request.Context(), userID, concertID)
	if err != nil {
		if errors.Is(err, ErrReservationNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Reservation not found", nil,
				errorCode{Code: CodeReservationNotFound})
			return
		}
		if errors.Is(err, concerts.ErrConcertNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Concert not found", nil,
				errorCode{Code: CodeConcertNotFound})
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch reservation", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Reservation fetched successfully", reservation, nil)
}

func (ctrl *controller) GetUserReservations(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	reservations, err := ctrl.service.GetUserReservations(c.Request.Context(), userID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch reservations", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Reservations fetched successfully", reservations, nil)
}

// respondReserveError maps engine errors onto the reservation API contract.
func (ctrl *controller) respondReserveError(c *gin.Context, err error) {
	var invalidSeat *InvalidSeatError
	var outOfBounds *OutOfBoundsError

	switch {
	case errors.As(err, &invalidSeat):
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, err.Error(), nil,
			errorCode{Code: CodeInvalidSeat})
	case errors.As(err, &outOfBounds):
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil,
			errorCode{Code: CodeSeatOutOfBounds})
	case errors.Is(err, ErrSeatConflict):
		response.RespondJSON(c, "error", http.StatusBadRequest, "Seats already reserved", nil,
			errorCode{Code: CodeSeatConflict})
	case errors.Is(err, ErrNotEnoughSeats):
		response.RespondJSON(c, "error", http.StatusBadRequest, "Not enough available seats", nil,
			errorCode{Code: CodeNotEnoughSeats})
	case errors.Is(err, ErrReservationExists):
		response.RespondJSON(c, "error", http.StatusBadRequest, "User already has a reservation for this concert", nil,
			errorCode{Code: CodeReservationExists})
	case errors.Is(err, concerts.ErrConcertNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Concert not found", nil,
			errorCode{Code: CodeConcertNotFound})
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to reserve seats", nil, err.Error())
	}
}

func userIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return uuid.Nil, false
	}

	idStr, ok := raw.(string)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(idStr)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return uuid.Nil, false
	}

	return userID, true
}
