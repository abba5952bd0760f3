package server

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/tripflow/tripflow/internal/app/middleware"
	"github.com/tripflow/tripflow/internal/app/observability/metrics"
	"github.com/tripflow/tripflow/internal/pkg/config"
	"github.com/tripflow/tripflow/internal/routes"
)

// SetupRouter configures the gin engine with middleware and all routes.
func SetupRouter(cfg *config.Config, dbPool *pgxpool.Pool, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(middleware.Logger(logger))
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("tripflow"))
	r.Use(middleware.Metrics(metrics.Get()))
	r.Use(middleware.CORS())

	if err := routes.Setup(r, cfg, dbPool, logger); err != nil {
		return nil, err
	}
	return r, nil
}
