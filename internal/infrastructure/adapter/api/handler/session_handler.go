package handler

import (
	"net/http"

	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
	"github.com/amirhossein-jamali/atm-console/internal/domain/usecase/session"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// SnapshotEvent names the server-sent event carrying a session snapshot
const SnapshotEvent = "snapshot"

// SessionHandler exposes the shared console state
type SessionHandler struct {
	store  *session.Store
	logger coreport.Logger
}

// NewSessionHandler creates a new session handler instance
func NewSessionHandler(store *session.Store, logger coreport.Logger) *SessionHandler {
	return &SessionHandler{
		store:  store,
		logger: logger,
	}
}

// Get handles GET /api/session
func (h *SessionHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Snapshot())
}

// SetPage handles POST /api/session/page
func (h *SessionHandler) SetPage(c *gin.Context) {
	var req dto.PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(badRequest(err))
		return
	}
	h.store.SetPage(req.Page)
	c.JSON(http.StatusOK, h.store.Snapshot())
}

// DismissResult handles POST /api/session/result/dismiss
func (h *SessionHandler) DismissResult(c *gin.Context) {
	h.store.DismissResult()
	c.JSON(http.StatusOK, h.store.Snapshot())
}

// Events handles GET /api/session/events. The current snapshot is sent first, then every change.
func (h *SessionHandler) Events(c *gin.Context) {
	updates, unsubscribe := h.store.Subscribe()
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	c.SSEvent(SnapshotEvent, h.store.Snapshot())
	c.Writer.Flush()

	ctx := c.Request.Context()
	h.logger.Debug("Session stream opened", map[string]any{
		"request_id": coreport.RequestID(ctx),
	})

	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("Session stream closed", map[string]any{
				"request_id": coreport.RequestID(ctx),
			})
			return
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			c.SSEvent(SnapshotEvent, snapshot)
			c.Writer.Flush()
		}
	}
}
