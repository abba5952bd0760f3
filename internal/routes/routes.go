// Package routes wires the domain services and registers the HTTP surface.
package routes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tripflow/tripflow/internal/app/domain/attractions"
	"github.com/tripflow/tripflow/internal/app/domain/auth"
	"github.com/tripflow/tripflow/internal/app/domain/geo"
	"github.com/tripflow/tripflow/internal/app/domain/planner"
	"github.com/tripflow/tripflow/internal/app/domain/trip"
	"github.com/tripflow/tripflow/internal/app/domain/trips"
	"github.com/tripflow/tripflow/internal/app/middleware"
	"github.com/tripflow/tripflow/internal/pkg/ai"
	"github.com/tripflow/tripflow/internal/pkg/cache"
	"github.com/tripflow/tripflow/internal/pkg/config"
)

// Resolved stock-photo URLs rarely change; keep them for a day.
const imageCacheTTL = 24 * time.Hour

type AppHandlers struct {
	Planner     *planner.Handler
	Attractions *attractions.Handler
	Auth        *auth.Handler
	Trips       *trips.Handler

	AuthService auth.Service
}

// Setup builds all dependencies and registers the routes on the engine.
func Setup(r *gin.Engine, cfg *config.Config, dbPool *pgxpool.Pool, logger *zap.Logger) error {
	handlers, err := setupDependencies(cfg, dbPool, logger)
	if err != nil {
		return fmt.Errorf("setting up dependencies: %w", err)
	}
	setupRouter(r, handlers, logger)
	return nil
}

func setupDependencies(cfg *config.Config, dbPool *pgxpool.Pool, logger *zap.Logger) (*AppHandlers, error) {
	generator, err := ai.NewGeminiClient(context.Background(), cfg.Providers.GeminiAPIKey, cfg.Providers.GeminiModel, logger)
	if err != nil {
		return nil, fmt.Errorf("creating model client: %w", err)
	}

	geoService := geo.NewService(cfg.Providers, logger)
	attractionsService := attractions.NewService(cfg.Providers, cache.NewImageCache(imageCacheTTL), logger)
	extractor := trip.NewExtractor(generator, logger)
	synthesizer := trip.NewSynthesizer(generator, logger)
	plannerService := planner.NewService(extractor, geoService, attractionsService, synthesizer, logger)

	authRepo := auth.NewPostgresRepository(dbPool, logger)
	authService := auth.NewService(authRepo, cfg.Auth, logger)
	tripsRepo := trips.NewPostgresRepository(dbPool, logger)

	return &AppHandlers{
		Planner:     planner.NewHandler(plannerService, logger),
		Attractions: attractions.NewHandler(geoService, attractionsService, logger),
		Auth:        auth.NewHandler(authService, logger),
		Trips:       trips.NewHandler(tripsRepo, logger),
		AuthService: authService,
	}, nil
}

func setupRouter(r *gin.Engine, handlers *AppHandlers, logger *zap.Logger) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "tripflow"})
	})

	api := r.Group("/api")
	{
		api.POST("/chat", handlers.Planner.Chat)
		api.POST("/chat/itinerary", handlers.Planner.Itinerary)
		api.GET("/attractions", handlers.Attractions.List)

		api.POST("/auth/register", handlers.Auth.Register)
		api.POST("/auth/login", handlers.Auth.Login)

		protected := api.Group("/itinerary", middleware.Auth(handlers.AuthService, logger))
		{
			protected.POST("/save", handlers.Trips.Save)
			protected.GET("/mine", handlers.Trips.Mine)
		}
	}
}
