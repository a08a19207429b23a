package discount

import (
	"errors"
	"net/http"

	"concerto/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// DiscountRequest asks for a discount over a set of picked seats.
type DiscountRequest struct {
	Seats []string `json:"seats" validate:"required,min=1,dive,required"`
}

// DiscountResponse carries the granted percentage.
type DiscountResponse struct {
	Discount int `json:"discount"`
}

type Controller struct {
	service  Service
	validate *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:  service,
		validate: validator.New(),
	}
}

func (ctrl *Controller) GetDiscount(c *gin.Context) {
	var req DiscountRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validate.Struct(req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "No seats provided", nil, err.Error())
		return
	}

	loyal := false
	if raw, exists := c.Get("loyal"); exists {
		if flag, ok := raw.(bool); ok {
			loyal = flag
		}
	}

	discount, err := ctrl.service.CalculateDiscount(req.Seats, loyal)
	if err != nil {
		var invalidSeat *InvalidSeatError
		if errors.As(err, &invalidSeat) {
			response.RespondJSON(c, "error", http.StatusUnprocessableEntity, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to calculate discount", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Discount calculated successfully",
		DiscountResponse{Discount: discount}, nil)
}
