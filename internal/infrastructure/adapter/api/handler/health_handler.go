package handler

import (
	"context"
	"net/http"
	"time"

	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether the database answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports the state of the console dependencies
type HealthHandler struct {
	db           Pinger
	tunnel       usecase.TunnelUseCase
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewHealthHandler creates a new health handler instance
func NewHealthHandler(
	db Pinger,
	tunnel usecase.TunnelUseCase,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *HealthHandler {
	return &HealthHandler{
		db:           db,
		tunnel:       tunnel,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Health handles GET /healthz. A closed tunnel is reported but does not make the console unhealthy.
func (h *HealthHandler) Health(c *gin.Context) {
	response := dto.HealthResponse{
		Status:   "ok",
		Database: "up",
		Tunnel:   h.tunnel.Connected(),
		Time:     h.timeProvider.Now().Format(time.RFC3339),
	}

	ctx, cancel := h.timeProvider.WithTimeout(c.Request.Context(), 2*coreport.Second)
	defer cancel()

	status := http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("Health check failed", map[string]any{
			"error": err.Error(),
		})
		response.Status = "degraded"
		response.Database = "down"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, response)
}
