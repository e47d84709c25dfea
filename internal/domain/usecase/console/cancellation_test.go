package console

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/switching"
	"github.com/amirhossein-jamali/atm-console/internal/domain/usecase/gateway"
	"github.com/amirhossein-jamali/atm-console/internal/domain/usecase/message"
	mockcore "github.com/amirhossein-jamali/atm-console/mocks/port/core"
	mockpersistence "github.com/amirhossein-jamali/atm-console/mocks/port/persistence"
	mockswitching "github.com/amirhossein-jamali/atm-console/mocks/port/switching"
)

func TestComposer_SubmitOutlivesCaller(t *testing.T) {
	random := mockcore.NewMockRandomSource(t)
	random.On("Int63n", mock.Anything).Return(int64(4211)).Maybe()

	timeProvider := mockcore.NewMockTimeProvider(t)
	timeProvider.On("Now").Return(fixedTime).Maybe()

	codec := mockswitching.NewMockCodec(t)
	transport := mockswitching.NewMockTransport(t)
	uow := mockpersistence.NewMockUnitOfWork(t)
	repo := mockpersistence.NewMockMessageRepository(t)
	uow.On("GetMessageRepository", mock.Anything).Return(repo)

	be := gateway.NewGateway(gateway.Dependencies{
		Builder:    message.NewBuilder(message.NewIdentifierGenerator(random, 3), timeProvider),
		Codecs:     map[entity.Switch]switching.Codec{entity.SwitchCortex: codec},
		Transport:  transport,
		UnitOfWork: uow,
		Logger:     mockcore.NewQuietLogger(t),
	})

	store := newTestStore(t)
	composer := NewComposer(be, message.NewValidator(), store, defaultInput(), mockcore.NewQuietLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frame := []byte{0x00, 0x01, 0xFF}
	response := entity.AtmResponse{TraceNumber: "004211", ResponseCode: "000"}

	repo.On("TraceNumberExists", mock.Anything, mock.Anything).Return(false, nil)
	repo.On("RrnExists", mock.Anything, mock.Anything).Return(false, nil)
	codec.On("Pack", mock.Anything).Return(frame, nil).Once()
	transport.On("Exchange", mock.Anything, frame, mock.Anything).
		Run(func(args mock.Arguments) {
			// the client goes away once the frame is on the wire
			cancel()
			assert.NoError(t, args.Get(0).(context.Context).Err())
		}).
		Return(response, nil).Once()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Message")).
		Return(func(ctx context.Context, _ *entity.Message) error {
			return ctx.Err()
		}).Once()

	got, err := composer.ComposeAndSubmit(ctx, defaultInput())
	require.NoError(t, err)
	assert.Equal(t, response, got)
	assert.Error(t, ctx.Err())
	assert.Empty(t, noticeTexts(store))
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestReversalCoordinator_ReverseOutlivesCaller(t *testing.T) {
	f := newReversalFixture(t, ledgerRow(3, entity.KindWithdraw))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	response := entity.AtmResponse{TraceNumber: "123456", ResponseCode: "000"}
	f.backend.On("SubmitReversal", mock.Anything, uint64(3)).
		Return(func(ctx context.Context, _ uint64) (entity.AtmResponse, error) {
			cancel()
			return response, ctx.Err()
		}).Once()
	f.backend.On("ListMessages", mock.Anything, 1).
		Return(func(ctx context.Context, _ int) ([]entity.Message, error) {
			return []entity.Message{ledgerRow(3, entity.KindWithdraw)}, ctx.Err()
		}).Once()

	got, err := f.coordinator.Reverse(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, response, got)
	assert.Empty(t, noticeTexts(f.store))
}

func TestTunnelMonitor_ConnectOutlivesCaller(t *testing.T) {
	monitor, be, _ := startedMonitor(t, assert.AnError)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	be.On("ConnectTunnel", mock.Anything).Return(func(ctx context.Context) error {
		cancel()
		return ctx.Err()
	}).Once()

	require.NoError(t, monitor.Connect(ctx))
	assert.Eventually(t, monitor.Connected, time.Second, 10*time.Millisecond)
	assert.False(t, monitor.Busy())
}
