package console

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/atm-console/internal/domain/usecase/session"
	mockbackend "github.com/amirhossein-jamali/atm-console/mocks/port/backend"
	mockcore "github.com/amirhossein-jamali/atm-console/mocks/port/core"
)

type reversalFixture struct {
	store       *session.Store
	backend     *mockbackend.MockBackend
	ledger      usecase.LedgerUseCase
	coordinator usecase.ReversalUseCase
}

func newReversalFixture(t *testing.T, rows ...entity.Message) reversalFixture {
	ctx := context.Background()
	store := newTestStore(t)
	backend := mockbackend.NewMockBackend(t)
	logger := mockcore.NewQuietLogger(t)
	ledger := NewLedger(backend, nil, store, logger)

	backend.On("ListMessages", ctx, 1).Return(rows, nil).Once()
	_, err := ledger.List(ctx, 1)
	require.NoError(t, err)

	return reversalFixture{
		store:       store,
		backend:     backend,
		ledger:      ledger,
		coordinator: NewReversalCoordinator(backend, ledger, store, logger),
	}
}

func TestReversalCoordinator_Reverse(t *testing.T) {
	ctx := context.Background()

	t.Run("Success refreshes the ledger and opens the result", func(t *testing.T) {
		original := ledgerRow(3, entity.KindWithdraw)
		f := newReversalFixture(t, original)

		response := entity.AtmResponse{TraceNumber: original.TraceNumber, ResponseCode: "000"}
		f.backend.On("SubmitReversal", mock.Anything, uint64(3)).Return(response, nil).Once()

		reversed := original
		reversed.ID = 4
		reversed.Transaction = original.Transaction.AsReversal()
		f.backend.On("ListMessages", mock.Anything, 1).Return([]entity.Message{reversed, original}, nil).Once()

		got, err := f.coordinator.Reverse(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, response, got)

		rows, _ := f.ledger.Rows()
		require.Len(t, rows, 2)
		assert.True(t, rows[0].IsReversal())

		result, ok := f.store.Result()
		require.True(t, ok)
		assert.Equal(t, response, result)
		assert.False(t, f.store.Busy())
	})

	t.Run("A reversal row is rejected without a backend call", func(t *testing.T) {
		f := newReversalFixture(t, ledgerRow(6, entity.KindFT.AsReversal()))

		_, err := f.coordinator.Reverse(ctx, 6)
		assert.ErrorIs(t, err, errs.ErrAlreadyReversed)
		f.backend.AssertNotCalled(t, "SubmitReversal", mock.Anything, mock.Anything)
		assert.Len(t, f.store.Notices(), 1)
	})

	t.Run("Any kind containing the marker is rejected", func(t *testing.T) {
		f := newReversalFixture(t, ledgerRow(6, "FINANCIAL_REVERSAL"))

		_, err := f.coordinator.Reverse(ctx, 6)
		assert.ErrorIs(t, err, errs.ErrAlreadyReversed)
		f.backend.AssertNotCalled(t, "SubmitReversal", mock.Anything, mock.Anything)
	})

	t.Run("Unknown row is rejected without a backend call", func(t *testing.T) {
		f := newReversalFixture(t, ledgerRow(1, entity.KindWithdraw))

		_, err := f.coordinator.Reverse(ctx, 77)
		assert.ErrorIs(t, err, errs.ErrMessageNotFound)
		f.backend.AssertNotCalled(t, "SubmitReversal", mock.Anything, mock.Anything)
	})

	t.Run("Zero ID", func(t *testing.T) {
		f := newReversalFixture(t)

		_, err := f.coordinator.Reverse(ctx, 0)
		assert.ErrorIs(t, err, errs.ErrInvalidMessageID)
	})

	t.Run("Backend failure leaves the ledger untouched", func(t *testing.T) {
		original := ledgerRow(3, entity.KindWithdraw)
		f := newReversalFixture(t, original)

		f.backend.On("SubmitReversal", mock.Anything, uint64(3)).Return(entity.AtmResponse{}, errors.New("i/o timeout")).Once()

		_, err := f.coordinator.Reverse(ctx, 3)
		assert.True(t, errs.IsBackendError(err))
		assert.Equal(t, []string{"submit reversal failed: i/o timeout"}, noticeTexts(f.store))

		rows, _ := f.ledger.Rows()
		assert.Equal(t, []entity.Message{original}, rows)
		f.backend.AssertNumberOfCalls(t, "ListMessages", 1)
		_, ok := f.store.Result()
		assert.False(t, ok)
	})

	t.Run("Backend precondition errors pass through", func(t *testing.T) {
		f := newReversalFixture(t, ledgerRow(3, entity.KindWithdraw))

		f.backend.On("SubmitReversal", mock.Anything, uint64(3)).Return(entity.AtmResponse{}, errs.NewReversalError(3, "REVERSAL WITHDRAW")).Once()

		_, err := f.coordinator.Reverse(ctx, 3)
		assert.ErrorIs(t, err, errs.ErrAlreadyReversed)
		assert.False(t, errs.IsBackendError(err))
	})

	t.Run("Busy composer blocks the reversal", func(t *testing.T) {
		f := newReversalFixture(t, ledgerRow(3, entity.KindWithdraw))

		release, err := f.store.TryBusy("submit")
		require.NoError(t, err)
		defer release()

		_, err = f.coordinator.Reverse(ctx, 3)
		assert.ErrorIs(t, err, errs.ErrBusy)
		f.backend.AssertNotCalled(t, "SubmitReversal", mock.Anything, mock.Anything)
	})
}
