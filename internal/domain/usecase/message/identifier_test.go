package message

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
	mockcore "github.com/amirhossein-jamali/atm-console/mocks/port/core"
	mockpersistence "github.com/amirhossein-jamali/atm-console/mocks/port/persistence"
)

func TestIdentifierGenerator_Format(t *testing.T) {
	testCases := []struct {
		name string
		draw int64
		stan string
		rrn  string
	}{
		{"Zero is fully padded", 0, "000000", "000000000000"},
		{"Small values are padded", 42, "000042", "000000000042"},
		{"Largest STAN", 999_999, "999999", "000000999999"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			random := mockcore.NewMockRandomSource(t)
			random.On("Int63n", int64(1_000_000)).Return(tc.draw).Once()
			random.On("Int63n", int64(1_000_000_000_000)).Return(tc.draw).Once()

			g := NewIdentifierGenerator(random, 0)
			assert.Equal(t, tc.stan, g.TraceNumber())
			assert.Equal(t, tc.rrn, g.Rrn())
		})
	}

	t.Run("Largest RRN", func(t *testing.T) {
		random := mockcore.NewMockRandomSource(t)
		random.On("Int63n", int64(1_000_000_000_000)).Return(int64(999_999_999_999))

		g := NewIdentifierGenerator(random, 0)
		assert.Equal(t, "999999999999", g.Rrn())
		assert.Len(t, g.Rrn(), RrnDigits)
	})
}

func TestIdentifierGenerator_NilRandomPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewIdentifierGenerator(nil, 3)
	})
}

func TestIdentifierGenerator_Unique(t *testing.T) {
	ctx := context.Background()

	t.Run("Nil checker accepts the first draw", func(t *testing.T) {
		random := mockcore.NewMockRandomSource(t)
		random.On("Int63n", int64(1_000_000)).Return(int64(7))

		stan, err := NewIdentifierGenerator(random, 3).UniqueTraceNumber(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, "000007", stan)
	})

	t.Run("Recorded candidates are redrawn", func(t *testing.T) {
		random := mockcore.NewMockRandomSource(t)
		random.On("Int63n", int64(1_000_000)).Return(int64(1)).Once()
		random.On("Int63n", int64(1_000_000)).Return(int64(2)).Once()

		checker := mockpersistence.NewMockMessageRepository(t)
		checker.On("TraceNumberExists", ctx, "000001").Return(true, nil)
		checker.On("TraceNumberExists", ctx, "000002").Return(false, nil)

		stan, err := NewIdentifierGenerator(random, 3).UniqueTraceNumber(ctx, checker)
		require.NoError(t, err)
		assert.Equal(t, "000002", stan)
	})

	t.Run("Exhausted attempts", func(t *testing.T) {
		random := mockcore.NewMockRandomSource(t)
		random.On("Int63n", int64(1_000_000_000_000)).Return(int64(5)).Times(3)

		checker := mockpersistence.NewMockMessageRepository(t)
		checker.On("RrnExists", ctx, "000000000005").Return(true, nil).Times(3)

		_, err := NewIdentifierGenerator(random, 3).UniqueRrn(ctx, checker)
		assert.ErrorIs(t, err, errs.ErrIdentifierExhausted)
	})

	t.Run("Checker failure is returned", func(t *testing.T) {
		random := mockcore.NewMockRandomSource(t)
		random.On("Int63n", int64(1_000_000_000_000)).Return(int64(5))

		dbErr := errors.New("connection reset")
		checker := mockpersistence.NewMockMessageRepository(t)
		checker.On("RrnExists", ctx, "000000000005").Return(false, dbErr)

		_, err := NewIdentifierGenerator(random, 3).UniqueRrn(ctx, checker)
		assert.ErrorIs(t, err, dbErr)
	})
}
