package concerts

import (
	"concerto/internal/shared/config"
	"concerto/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupConcertRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	// Public routes - anyone can browse the catalog and seat snapshots
	router.GET("/concerts", controller.GetAllConcerts)
	router.GET("/concert/:id", controller.GetConcert)

	// Authenticated routes
	authed := router.Group("/concerts")
	authed.Use(middleware.JWTAuthWithConfig(cfg))
	{
		authed.POST("", controller.CreateConcert)
	}
}
