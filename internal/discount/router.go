package discount

import (
	"concerto/internal/shared/config"

	"github.com/gin-gonic/gin"
)

func SetupDiscountRoutes(router *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	protected := router.Group("")
	protected.Use(TokenAuth(cfg))
	{
		protected.POST("/discount", controller.GetDiscount)
	}
}
