package reservations

import (
	"concerto/internal/shared/config"
	"concerto/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupReservationRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	authed := router.Group("")
	authed.Use(middleware.JWTAuthWithConfig(cfg))
	{
		authed.POST("/reserve", controller.ReserveByCount)
		authed.PUT("/reserve", controller.ReserveSeats)
		authed.GET("/reservations", controller.GetUserReservations)
		authed.GET("/reservation/:concertId", controller.GetReservation)
		authed.DELETE("/reservation/:concertId", controller.CancelReservation)
	}
}
