package handler

import (
	"net/http"

	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// ComposerHandler handles the message composer
type ComposerHandler struct {
	composer usecase.ComposerUseCase
	logger   coreport.Logger
}

// NewComposerHandler creates a new composer handler instance
func NewComposerHandler(composer usecase.ComposerUseCase, logger coreport.Logger) *ComposerHandler {
	return &ComposerHandler{
		composer: composer,
		logger:   logger,
	}
}

// GetDraft handles GET /api/composer
func (h *ComposerHandler) GetDraft(c *gin.Context) {
	draft, formKey := h.composer.Draft()
	c.JSON(http.StatusOK, dto.DraftResponse{Draft: draft, FormKey: formKey})
}

// Compose handles POST /api/composer/compose. The input becomes the draft even when it is rejected.
func (h *ComposerHandler) Compose(c *gin.Context) {
	var input usecase.MessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(badRequest(err))
		return
	}

	msg, err := h.composer.Compose(input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.ComposeResponse{Message: msg})
}

// Submit handles POST /api/composer/submit
func (h *ComposerHandler) Submit(c *gin.Context) {
	var input usecase.MessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(badRequest(err))
		return
	}

	response, err := h.composer.ComposeAndSubmit(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.logger.Info("Message submitted", map[string]any{
		"switch":        input.Switch,
		"transaction":   input.Transaction,
		"response_code": response.ResponseCode,
		"request_id":    coreport.RequestID(c.Request.Context()),
	})
	c.JSON(http.StatusOK, dto.NewSubmitResponse(response))
}

// Reset handles POST /api/composer/reset
func (h *ComposerHandler) Reset(c *gin.Context) {
	h.composer.Reset()
	h.GetDraft(c)
}
