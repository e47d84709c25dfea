package switching

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/logger"
	timeprovider "github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/time"
)

// fakeSwitch accepts one connection, reads one frame, and answers with reply
func fakeSwitch(t *testing.T, reply []byte) (addr string, received <-chan []byte) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	frames := make(chan []byte, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		payload, err := readFrame(conn)
		if err != nil {
			return
		}
		frames <- payload
		if reply != nil {
			_, _ = conn.Write(reply)
		}
		// hold the connection open until the client is done
		buf := make([]byte, 1)
		_, _ = conn.Read(buf)
	}()

	return listener.Addr().String(), frames
}

func newTestTransport(addr string, config TransportConfig) *TCPTransport {
	return NewTCPTransport(
		func() string { return addr },
		config,
		timeprovider.NewRealTimeProvider(time.UTC),
		logger.NewNoopLogger(),
	)
}

func TestTCPTransport_Exchange(t *testing.T) {
	codec := NewCortexCodec(logger.NewNoopLogger())
	reply, err := codec.encode("1210", map[int]string{11: "004211", 37: "000000123456", 39: "000"})
	require.NoError(t, err)

	addr, received := fakeSwitch(t, reply)
	transport := newTestTransport(addr, DefaultTransportConfig())

	frame, err := codec.Pack(builtWithdrawal(entity.SwitchCortex, "1200"))
	require.NoError(t, err)

	response, err := transport.Exchange(context.Background(), frame, codec.Unpack)
	require.NoError(t, err)
	assert.Equal(t, "000", response.ResponseCode)
	assert.Equal(t, "004211", response.TraceNumber)

	select {
	case payload := <-received:
		assert.Equal(t, frame[2:], payload)
	case <-time.After(time.Second):
		t.Fatal("switch did not receive the frame")
	}
}

func TestTCPTransport_ReadTimeout(t *testing.T) {
	addr, _ := fakeSwitch(t, nil)
	config := DefaultTransportConfig()
	config.ReadTimeout = 50 * time.Millisecond
	transport := newTestTransport(addr, config)

	frame, err := writeFrame([]byte("ping"))
	require.NoError(t, err)

	_, err = transport.Exchange(context.Background(), frame, NewCortexCodec(logger.NewNoopLogger()).Unpack)
	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func TestTCPTransport_ContextCanceled(t *testing.T) {
	addr, _ := fakeSwitch(t, nil)
	transport := newTestTransport(addr, DefaultTransportConfig())

	frame, err := writeFrame([]byte("ping"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = transport.Exchange(ctx, frame, NewNaradaCodec(logger.NewNoopLogger()).Unpack)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTCPTransport_DialFailure(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	transport := newTestTransport(addr, DefaultTransportConfig())
	_, err = transport.Exchange(context.Background(), []byte{0x00, 0x00}, NewCortexCodec(logger.NewNoopLogger()).Unpack)
	assert.ErrorContains(t, err, "failed to connect to switch at "+addr)
}
