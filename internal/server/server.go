// Package server exposes projections and salary analytics over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/comp-forecast/internal/analytics"
	"github.com/spigell/comp-forecast/internal/enrichment"
	"github.com/spigell/comp-forecast/internal/metrics"
	"github.com/spigell/comp-forecast/internal/projection"
	"github.com/spigell/comp-forecast/internal/store"
)

const (
	defaultAddress  = ":8080"
	shutdownTimeout = 10 * time.Second
	readTimeout     = 15 * time.Second
)

// Config controls the HTTP server.
type Config struct {
	Address           string
	EnrichmentTimeout time.Duration
	Benchmarks        analytics.Benchmarks
}

// Projector runs an enriched projection.
type Projector interface {
	Project(ctx context.Context, req *enrichment.Request) *projection.Result
}

// Server wires the handlers to their collaborators.
type Server struct {
	cfg       Config
	projector Projector
	source    store.Source
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// New creates a server. metrics may be nil.
func New(cfg Config, projector Projector, source store.Source, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Address == "" {
		cfg.Address = defaultAddress
	}
	if len(cfg.Benchmarks) == 0 {
		cfg.Benchmarks = analytics.DefaultBenchmarks
	}
	return &Server{cfg: cfg, projector: projector, source: source, metrics: m, logger: logger}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.observe())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := router.Group("/api/v1")
	v1.POST("/projections", s.handleProjection)
	v1.GET("/analytics", s.handleAnalytics)

	return router
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Router(),
		ReadHeaderTimeout: readTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("address", s.cfg.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(started)
		s.metrics.ObserveRequest(route, c.Writer.Status(), elapsed)
		s.logger.Debug("handled request",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", elapsed),
		)
	}
}
