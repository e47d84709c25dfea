package handler

import (
	"context"
	"net/http"

	"github.com/amirhossein-jamali/atm-console/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// TunnelHandler handles the tunnel toggle
type TunnelHandler struct {
	tunnel usecase.TunnelUseCase
}

// NewTunnelHandler creates a new tunnel handler instance
func NewTunnelHandler(tunnel usecase.TunnelUseCase) *TunnelHandler {
	return &TunnelHandler{tunnel: tunnel}
}

// Get handles GET /api/tunnel
func (h *TunnelHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.state())
}

// Connect handles POST /api/tunnel/connect
func (h *TunnelHandler) Connect(c *gin.Context) {
	h.run(c, h.tunnel.Connect)
}

// Disconnect handles POST /api/tunnel/disconnect
func (h *TunnelHandler) Disconnect(c *gin.Context) {
	h.run(c, h.tunnel.Disconnect)
}

// Toggle handles POST /api/tunnel/toggle
func (h *TunnelHandler) Toggle(c *gin.Context) {
	h.run(c, h.tunnel.Toggle)
}

func (h *TunnelHandler) run(c *gin.Context, op func(context.Context) error) {
	if err := op(c.Request.Context()); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, h.state())
}

func (h *TunnelHandler) state() dto.TunnelResponse {
	return dto.TunnelResponse{
		Connected: h.tunnel.Connected(),
		Busy:      h.tunnel.Busy(),
	}
}
