// Package server owns process lifecycle: database setup, router assembly,
// side servers and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	database "github.com/tripflow/tripflow/internal/db"
	"github.com/tripflow/tripflow/internal/pkg/config"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	dbPool *pgxpool.Pool
	router http.Handler
}

// New creates a Server with its database connected and migrated.
func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{cfg: cfg, logger: logger}

	dbPool, err := s.setupDatabase(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}
	s.dbPool = dbPool
	return s, nil
}

func (s *Server) setupDatabase(ctx context.Context) (*pgxpool.Pool, error) {
	s.logger.Info("Setting up database connection and migrations")

	connURL := database.ConnectionURL(s.cfg.Repositories.Postgres)
	pool, err := database.Init(connURL, s.cfg.Repositories.Postgres, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}

	if !database.WaitForDB(ctx, pool, s.logger) {
		pool.Close()
		return nil, fmt.Errorf("database is not reachable")
	}
	s.logger.Info("Connected to Postgres",
		zap.String("host", s.cfg.Repositories.Postgres.Host),
		zap.String("database", s.cfg.Repositories.Postgres.DB))

	if err := database.RunMigrations(connURL, s.logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return pool, nil
}

// GetDBPool returns the connection pool.
func (s *Server) GetDBPool() *pgxpool.Pool {
	return s.dbPool
}

// SetRouter sets the HTTP handler used by HTTPServer.
func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

// HTTPServer builds the main HTTP server.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              ":" + s.cfg.ServerPort,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Close releases the server's resources.
func (s *Server) Close() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
}
