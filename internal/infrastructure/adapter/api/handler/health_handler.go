package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/database"
)

// DatabaseHealth is the part of the database manager the health check needs
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Stats() database.ConnectionPoolMetrics
}

// HealthHandler serves the unauthenticated liveness probe
type HealthHandler struct {
	db     DatabaseHealth
	logger coreport.Logger
}

// NewHealthHandler creates a new health handler instance
func NewHealthHandler(db DatabaseHealth, logger coreport.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// Check handles GET /healthz
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		h.logger.Error("Health check failed", errs.LogFields(err))
		c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{
			Status:   "unavailable",
			Database: "down",
			Error: &dto.ErrorResponse{
				Code:    errs.ErrorCode(err),
				Message: errs.PublicMessage(err),
			},
		})
		return
	}

	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:   "ok",
		Database: "up",
		Pool:     h.db.Stats(),
	})
}
