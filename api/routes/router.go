// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"concerto/internal/auth"
	"concerto/internal/concerts"
	"concerto/internal/reservations"
	"concerto/internal/shared/config"
	"concerto/internal/shared/database"
	"concerto/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher reservations.Publisher

	// concertService is shared with the reservation engine for geometry
	// lookups and cache invalidation.
	concertService concerts.Service
}

// NewRouter creates a new router instance. The publisher may be nil when
// Kafka is disabled.
func NewRouter(cfg *config.Config, db *database.DB, publisher reservations.Publisher) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
	}
}

// SetupRoutes configures all application routes. The reservation endpoints
// live at the root, matching the public API contract.
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group("")
	{
		r.setupAuthRoutes(api)

		// Concert routes first: the reservation engine depends on the
		// concert service built here.
		r.setupConcertRoutes(api)
		r.setupReservationRoutes(api)
	}
}

func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "concerto-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "concerto-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController, r.config)

	authRouter.SetupRoutes(rg)
}

func (r *Router) setupConcertRoutes(rg *gin.RouterGroup) {
	concertRepo := concerts.NewRepository(r.db.GetPostgreSQL())
	concertService := concerts.NewService(concertRepo, r.config)

	if r.db.Redis != nil {
		concertService.SetCacheService(cache.NewService(r.db.GetRedisClient()))
	}

	r.concertService = concertService

	concertController := concerts.NewController(concertService)
	concerts.SetupConcertRoutes(rg, concertController, r.config)
}

func (r *Router) setupReservationRoutes(rg *gin.RouterGroup) {
	reservationRepo := reservations.NewRepository(r.db.GetPostgreSQL())
	reservationService := reservations.NewService(reservationRepo, r.concertService)

	if r.publisher != nil {
		reservationService.SetPublisher(r.publisher)
	}

	reservationController := reservations.NewController(reservationService)
	reservations.SetupReservationRoutes(rg, reservationController, r.config)
}
