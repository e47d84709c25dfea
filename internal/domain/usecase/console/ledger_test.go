package console

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
	"github.com/amirhossein-jamali/atm-console/internal/domain/usecase/message"
	"github.com/amirhossein-jamali/atm-console/internal/domain/usecase/session"
	mockbackend "github.com/amirhossein-jamali/atm-console/mocks/port/backend"
	mockcore "github.com/amirhossein-jamali/atm-console/mocks/port/core"
)

func TestLedger_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Fetched page is kept", func(t *testing.T) {
		backend := mockbackend.NewMockBackend(t)
		store := newTestStore(t)
		ledger := NewLedger(backend, nil, store, mockcore.NewQuietLogger(t))

		rows := []entity.Message{ledgerRow(2, entity.KindWithdraw), ledgerRow(1, entity.KindFT)}
		backend.On("ListMessages", ctx, 2).Return(rows, nil).Once()

		got, err := ledger.List(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, rows, got.Rows)
		assert.Equal(t, 2, got.Number)

		kept, page := ledger.Rows()
		assert.Equal(t, rows, kept)
		assert.Equal(t, 2, page)
	})

	t.Run("Pages below one fetch the first page", func(t *testing.T) {
		backend := mockbackend.NewMockBackend(t)
		ledger := NewLedger(backend, nil, newTestStore(t), mockcore.NewQuietLogger(t))

		backend.On("ListMessages", ctx, 1).Return([]entity.Message{}, nil).Once()

		got, err := ledger.List(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Number)
	})

	t.Run("Failure keeps the previous rows", func(t *testing.T) {
		backend := mockbackend.NewMockBackend(t)
		store := newTestStore(t)
		ledger := NewLedger(backend, nil, store, mockcore.NewQuietLogger(t))

		rows := []entity.Message{ledgerRow(5, entity.KindWithdraw)}
		backend.On("ListMessages", ctx, 1).Return(rows, nil).Once()
		backend.On("ListMessages", ctx, 1).Return(nil, errors.New("database is locked")).Once()

		_, err := ledger.List(ctx, 1)
		require.NoError(t, err)

		_, err = ledger.Refresh(ctx)
		assert.True(t, errs.IsBackendError(err))

		kept, _ := ledger.Rows()
		assert.Equal(t, rows, kept)
		assert.Equal(t, []string{"list messages failed: database is locked"}, noticeTexts(store))
	})
}

func TestLedger_CanReverse(t *testing.T) {
	ledger := NewLedger(mockbackend.NewMockBackend(t), nil, newTestStore(t), mockcore.NewQuietLogger(t))

	assert.True(t, ledger.CanReverse(ledgerRow(1, entity.KindWithdraw)))
	assert.False(t, ledger.CanReverse(ledgerRow(1, entity.KindWithdraw.AsReversal())))
	assert.False(t, ledger.CanReverse(ledgerRow(1, "FINANCIAL_REVERSAL")))
}

func TestLedger_Load(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*session.Store, *mockbackend.MockBackend, func(uint64) (entity.Message, error)) {
		store := newTestStore(t)
		backend := mockbackend.NewMockBackend(t)
		logger := mockcore.NewQuietLogger(t)
		composer := NewComposer(backend, message.NewValidator(), store, defaultInput(), logger)
		ledger := NewLedger(backend, composer, store, logger)

		backend.On("ListMessages", ctx, 1).Return([]entity.Message{
			ledgerRow(9, entity.KindIBFTD),
			ledgerRow(8, entity.KindWithdraw.AsReversal()),
		}, nil).Once()
		_, err := ledger.List(ctx, 1)
		require.NoError(t, err)

		store.SetPage(session.PageHistory)
		return store, backend, ledger.Load
	}

	t.Run("Row is copied into the composer without a backend call", func(t *testing.T) {
		store, backend, load := setup(t)

		row, err := load(9)
		require.NoError(t, err)
		assert.Equal(t, uint64(9), row.ID)

		assert.Equal(t, session.PageComposer, store.Page())
		draft := store.ActiveMessage()
		assert.Equal(t, "IBFTD", draft.Transaction)
		assert.Equal(t, "61740007", draft.TerminalID)
		assert.Equal(t, 1, store.FormKey())
		backend.AssertNumberOfCalls(t, "ListMessages", 1)
	})

	t.Run("Reversal rows cannot be loaded", func(t *testing.T) {
		store, _, load := setup(t)

		_, err := load(8)
		assert.ErrorIs(t, err, errs.ErrNotLoadable)
		assert.Equal(t, session.PageHistory, store.Page())
	})

	t.Run("Unknown rows", func(t *testing.T) {
		_, _, load := setup(t)

		_, err := load(404)
		assert.ErrorIs(t, err, errs.ErrMessageNotFound)
	})
}
