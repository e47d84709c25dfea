package console

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/backend"
	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/atm-console/internal/domain/usecase/session"
)

// ReversalCoordinator reverses ledger rows
type ReversalCoordinator struct {
	backend backend.Backend
	ledger  usecase.LedgerUseCase
	store   *session.Store
	logger  coreport.Logger
}

// NewReversalCoordinator creates a coordinator over ledger
func NewReversalCoordinator(
	backend backend.Backend,
	ledger usecase.LedgerUseCase,
	store *session.Store,
	logger coreport.Logger,
) usecase.ReversalUseCase {
	return &ReversalCoordinator{
		backend: backend,
		ledger:  ledger,
		store:   store,
		logger:  logger,
	}
}

// Reverse checks the row as the ledger shows it now and, if it is not itself a
// reversal, asks the backend to reverse it. On success the ledger is re-fetched
// and the response opened; on failure the ledger is left as it was.
// Canceling ctx does not abort a reversal already handed to the backend.
func (r *ReversalCoordinator) Reverse(ctx context.Context, id uint64) (entity.AtmResponse, error) {
	if id == 0 {
		return entity.AtmResponse{}, errs.ErrInvalidMessageID
	}

	row, ok := r.ledger.Find(id)
	if !ok {
		err := fmt.Errorf("%w: id %d", errs.ErrMessageNotFound, id)
		r.store.Notify(session.NoticeError, err.Error())
		return entity.AtmResponse{}, err
	}
	if !r.ledger.CanReverse(row) {
		err := errs.NewReversalError(row.ID, row.Transaction.String())
		r.logger.Warn("Reversal of a reversal rejected", map[string]any{
			"message_id": id,
			"kind":       row.Transaction.String(),
		})
		r.store.Notify(session.NoticeError, err.Error())
		return entity.AtmResponse{}, err
	}

	release, err := r.store.TryBusy("reverse")
	if err != nil {
		return entity.AtmResponse{}, err
	}
	defer release()

	ctx = context.WithoutCancel(ctx)

	r.logger.Info("Submitting reversal", map[string]any{
		"message_id":   id,
		"trace_number": row.TraceNumber,
		"switch":       row.Switch.String(),
	})

	response, err := r.backend.SubmitReversal(ctx, id)
	if err != nil {
		err = errs.NewBackendError("submit reversal", err)
		r.logger.Error("Failed to submit reversal", map[string]any{
			"message_id": id,
			"error":      err.Error(),
		})
		r.store.Notify(session.NoticeError, err.Error())
		return entity.AtmResponse{}, err
	}

	// List already posts a notice when the refresh fails
	if _, err := r.ledger.Refresh(ctx); err != nil {
		r.logger.Warn("Ledger refresh after reversal failed", map[string]any{
			"message_id": id,
			"error":      err.Error(),
		})
	}
	if response.Error != "" {
		r.store.Notify(session.NoticeError, response.Error)
	}
	r.store.ShowResult(response)

	return response, nil
}
