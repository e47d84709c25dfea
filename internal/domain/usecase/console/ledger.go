package console

import (
	"context"
	"fmt"
	"sync"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/backend"
	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/atm-console/internal/domain/usecase/session"
)

// PageSize is the number of ledger rows per history page
const PageSize = 50

// Ledger is the history view over sent messages. It keeps the last fetched page.
type Ledger struct {
	backend  backend.Backend
	composer usecase.ComposerUseCase
	store    *session.Store
	logger   coreport.Logger

	mu   sync.RWMutex
	rows []entity.Message
	page int
}

// NewLedger creates a ledger view that loads rows into composer
func NewLedger(
	backend backend.Backend,
	composer usecase.ComposerUseCase,
	store *session.Store,
	logger coreport.Logger,
) usecase.LedgerUseCase {
	return &Ledger{
		backend:  backend,
		composer: composer,
		store:    store,
		logger:   logger,
		page:     1,
	}
}

// List fetches a history page. Pages below 1 are treated as the first page.
func (l *Ledger) List(ctx context.Context, page int) (usecase.HistoryPage, error) {
	if page < 1 {
		page = 1
	}

	rows, err := l.backend.ListMessages(ctx, page)
	if err != nil {
		err = errs.NewBackendError("list messages", err)
		l.logger.Error("Failed to list messages", map[string]any{
			"page":  page,
			"error": err.Error(),
		})
		l.store.Notify(session.NoticeError, err.Error())
		return usecase.HistoryPage{}, err
	}

	l.mu.Lock()
	l.rows = rows
	l.page = page
	l.mu.Unlock()

	l.logger.Debug("History page fetched", map[string]any{
		"page": page,
		"rows": len(rows),
	})

	return usecase.HistoryPage{Number: page, Rows: append([]entity.Message(nil), rows...)}, nil
}

// Refresh re-fetches the current page
func (l *Ledger) Refresh(ctx context.Context) (usecase.HistoryPage, error) {
	l.mu.RLock()
	page := l.page
	l.mu.RUnlock()
	return l.List(ctx, page)
}

// Rows returns the last fetched page and its number
func (l *Ledger) Rows() ([]entity.Message, int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]entity.Message(nil), l.rows...), l.page
}

// Find returns the row with id from the last fetched page
func (l *Ledger) Find(id uint64) (entity.Message, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, row := range l.rows {
		if row.ID == id {
			return row, true
		}
	}
	return entity.Message{}, false
}

// CanReverse is evaluated against the kind the row has now
func (l *Ledger) CanReverse(row entity.Message) bool {
	return row.CanReverse()
}

// Load copies a row into the composer and switches to it. No backend call is made.
func (l *Ledger) Load(id uint64) (entity.Message, error) {
	row, ok := l.Find(id)
	if !ok {
		return entity.Message{}, fmt.Errorf("%w: id %d", errs.ErrMessageNotFound, id)
	}
	if row.IsReversal() {
		return entity.Message{}, fmt.Errorf("%w: %s cannot be resubmitted", errs.ErrNotLoadable, row.Transaction)
	}

	l.composer.Load(row)
	l.logger.Info("Message loaded into composer", map[string]any{
		"message_id": id,
	})
	return row, nil
}
