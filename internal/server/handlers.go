package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/comp-forecast/internal/analytics"
	"github.com/spigell/comp-forecast/internal/enrichment"
	"github.com/spigell/comp-forecast/internal/projection"
	"github.com/spigell/comp-forecast/internal/records"
	"github.com/spigell/comp-forecast/internal/store"
)

// UserIDHeader carries the caller identity for analytics.
const UserIDHeader = "X-User-ID"

const (
	errInvalidProjection = "Invalid projection request"
	errMissingUserID     = "Missing user id"
	errAnalyticsFailed   = "Failed to load salary analytics"
)

type projectionRequest struct {
	Jobs   any `json:"jobs"`
	Inputs any `json:"inputs"`
}

// handleProjection handles POST /api/v1/projections.
func (s *Server) handleProjection(c *gin.Context) {
	var body projectionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.logger.Debug("rejecting projection request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidProjection})
		return
	}

	jobs, err := records.DecodeAny(body.Jobs)
	if err != nil {
		s.logger.Debug("rejecting projection jobs", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidProjection})
		return
	}

	ctx := c.Request.Context()
	if s.cfg.EnrichmentTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.EnrichmentTimeout)
		defer cancel()
	}

	result := s.projector.Project(ctx, &enrichment.Request{Jobs: jobs, Inputs: projection.DecodeInputs(body.Inputs)})
	c.JSON(http.StatusOK, result)
}

// handleAnalytics handles GET /api/v1/analytics.
func (s *Server) handleAnalytics(c *gin.Context) {
	userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
	if userID == "" {
		userID = strings.TrimSpace(c.Query("userId"))
	}
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMissingUserID})
		return
	}

	jobs, err := s.source.Jobs(c.Request.Context(), userID)
	if errors.Is(err, store.ErrMissingUserID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMissingUserID})
		return
	}
	if err != nil {
		s.logger.Error("failed to load jobs for analytics", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": errAnalyticsFailed})
		return
	}

	c.JSON(http.StatusOK, analytics.Build(jobs, s.cfg.Benchmarks))
}
