package concerts

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"concerto/internal/shared/utils/response"
)

type Controller interface {
	GetAllConcerts(c *gin.Context)
	GetConcert(c *gin.Context)
	CreateConcert(c *gin.Context)
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

func (ctrl *controller) GetAllConcerts(c *gin.Context) {
	concerts, err := ctrl.service.GetAllConcerts(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch concerts", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Concerts fetched successfully", concerts, nil)
}

func (ctrl *controller) GetConcert(c *gin.Context) {
	concertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid concert ID", nil, err.Error())
		return
	}

	concert, err := ctrl.service.GetConcertByID(c.Request.Context(), concertID)
	if err != nil {
		if errors.Is(err, ErrConcertNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Concert not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch concert", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Concert fetched successfully", concert, nil)
}

func (ctrl *controller) CreateConcert(c *gin.Context) {
	var req CreateConcertRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validate.Struct(req); err != nil {
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, "Validation failed", nil, err.Error())
		return
	}

	concert, err := ctrl.service.CreateConcert(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Concert created successfully", concert, nil)
}
