package switching

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
)

// TransportConfig holds the timeouts of one switch exchange
type TransportConfig struct {
	DialTimeout  time.Duration
	WriteTimeout time.Duration
	ReadTimeout  time.Duration
}

// DefaultTransportConfig returns the timeouts the switches are known to tolerate
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		DialTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		ReadTimeout:  30 * time.Second,
	}
}

// TCPTransport opens one connection per exchange to the switch address
type TCPTransport struct {
	address      func() string
	config       TransportConfig
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewTCPTransport creates a transport. address is resolved on every exchange
// so configuration changes apply without a restart.
func NewTCPTransport(address func() string, config TransportConfig, timeProvider coreport.TimeProvider, logger coreport.Logger) *TCPTransport {
	return &TCPTransport{
		address:      address,
		config:       config,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Exchange writes frame and decodes exactly one answer. Canceling ctx aborts the exchange.
func (t *TCPTransport) Exchange(
	ctx context.Context,
	frame []byte,
	decode func(io.Reader) (entity.AtmResponse, error),
) (entity.AtmResponse, error) {
	addr := t.address()
	dialer := net.Dialer{Timeout: t.config.DialTimeout}

	start := t.timeProvider.Now()
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return entity.AtmResponse{}, fmt.Errorf("failed to connect to switch at %s: %w", addr, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := conn.SetWriteDeadline(t.timeProvider.Now().Add(t.config.WriteTimeout)); err != nil {
		return entity.AtmResponse{}, fmt.Errorf("failed to set write deadline: %w", err)
	}
	if _, err := conn.Write(frame); err != nil {
		return entity.AtmResponse{}, t.failure(ctx, "write to", addr, err)
	}

	if err := conn.SetReadDeadline(t.timeProvider.Now().Add(t.config.ReadTimeout)); err != nil {
		return entity.AtmResponse{}, fmt.Errorf("failed to set read deadline: %w", err)
	}
	response, err := decode(conn)
	if err != nil {
		return entity.AtmResponse{}, t.failure(ctx, "read from", addr, err)
	}

	t.logger.Debug("Switch exchange completed", map[string]any{
		"address":     addr,
		"frame_bytes": len(frame),
		"duration_ms": t.timeProvider.Since(start).Std().Milliseconds(),
	})
	return response, nil
}

// failure prefers the context error when the exchange was aborted
func (t *TCPTransport) failure(ctx context.Context, op, addr string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("failed to %s switch at %s: %w", op, addr, ctxErr)
	}
	return fmt.Errorf("failed to %s switch at %s: %w", op, addr, err)
}
