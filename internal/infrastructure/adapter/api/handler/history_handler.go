package handler

import (
	"net/http"
	"strconv"

	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/atm-console/internal/domain/usecase/console"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// HistoryHandler handles the ledger of sent messages and reversals
type HistoryHandler struct {
	ledger   usecase.LedgerUseCase
	reversal usecase.ReversalUseCase
	logger   coreport.Logger
}

// NewHistoryHandler creates a new history handler instance
func NewHistoryHandler(
	ledger usecase.LedgerUseCase,
	reversal usecase.ReversalUseCase,
	logger coreport.Logger,
) *HistoryHandler {
	return &HistoryHandler{
		ledger:   ledger,
		reversal: reversal,
		logger:   logger,
	}
}

// List handles GET /api/history?page=N. Without a page the last viewed page is refreshed.
func (h *HistoryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		page usecase.HistoryPage
		err  error
	)
	if raw := c.Query("page"); raw != "" {
		number, convErr := strconv.Atoi(raw)
		if convErr != nil {
			_ = c.Error(badRequest(convErr))
			return
		}
		page, err = h.ledger.List(ctx, number)
	} else {
		page, err = h.ledger.Refresh(ctx)
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, h.response(page))
}

// Load handles POST /api/history/:id/load
func (h *HistoryHandler) Load(c *gin.Context) {
	id, err := messageID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	msg, err := h.ledger.Load(id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.ComposeResponse{Message: msg})
}

// Reverse handles POST /api/history/:id/reverse
func (h *HistoryHandler) Reverse(c *gin.Context) {
	id, err := messageID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response, err := h.reversal.Reverse(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.logger.Info("Reversal submitted", map[string]any{
		"message_id":    id,
		"response_code": response.ResponseCode,
		"request_id":    coreport.RequestID(c.Request.Context()),
	})
	c.JSON(http.StatusOK, dto.NewSubmitResponse(response))
}

// response renders the page this request fetched
func (h *HistoryHandler) response(page usecase.HistoryPage) dto.HistoryResponse {
	out := dto.HistoryResponse{
		Page:     page.Number,
		PageSize: console.PageSize,
		Rows:     make([]dto.HistoryRow, 0, len(page.Rows)),
	}
	for _, row := range page.Rows {
		out.Rows = append(out.Rows, dto.HistoryRow{Message: row, CanReverse: h.ledger.CanReverse(row)})
	}
	return out
}
