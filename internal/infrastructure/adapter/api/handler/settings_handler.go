package handler

import (
	"net/http"

	"github.com/amirhossein-jamali/atm-console/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// SettingsHandler handles the configuration editor
type SettingsHandler struct {
	settings usecase.SettingsUseCase
}

// NewSettingsHandler creates a new settings handler instance
func NewSettingsHandler(settings usecase.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get handles GET /api/settings. The editor is reloaded from storage.
func (h *SettingsHandler) Get(c *gin.Context) {
	entries, err := h.settings.Load(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.SettingsResponse{Entries: entries})
}

// Update handles PUT /api/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(badRequest(err))
		return
	}

	for _, entry := range req.Entries {
		if err := h.settings.Set(entry.Key, entry.Value); err != nil {
			_ = c.Error(err)
			return
		}
	}
	if err := h.settings.Submit(c.Request.Context()); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SettingsResponse{Entries: h.settings.Entries()})
}

// PickFile handles POST /api/settings/pick-file
func (h *SettingsHandler) PickFile(c *gin.Context) {
	path, ok, err := h.settings.PickFile(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.PickFileResponse{Path: path, Picked: ok})
}
