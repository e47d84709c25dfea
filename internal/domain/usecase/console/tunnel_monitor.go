package console

import (
	"context"
	"sync"
	"sync/atomic"

	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/backend"
	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/atm-console/internal/domain/usecase/session"
)

// Tunnel notices
const (
	TunnelEnabledNotice  = "Tunnel has been enabled."
	TunnelDisabledNotice = "Tunnel has been disabled."
)

// tunnelUpdate is one state write queued for the update loop
type tunnelUpdate struct {
	event   backend.TunnelEvent
	source  string
	applied chan struct{}
}

// TunnelMonitor owns the shared tunnel flag. Every write, whether the result of
// an explicit request or a pushed notification, is applied by a single update
// loop in arrival order, so the last event wins.
type TunnelMonitor struct {
	backend backend.Backend
	store   *session.Store
	logger  coreport.Logger

	updates chan tunnelUpdate
	done    chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	started   atomic.Bool
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewTunnelMonitor creates a monitor. Call Start before issuing requests.
func NewTunnelMonitor(backend backend.Backend, store *session.Store, logger coreport.Logger) *TunnelMonitor {
	return &TunnelMonitor{
		backend: backend,
		store:   store,
		logger:  logger,
		updates: make(chan tunnelUpdate),
		done:    make(chan struct{}),
	}
}

var _ usecase.TunnelUseCase = (*TunnelMonitor)(nil)

// Start launches the update loop and records the result of one tunnel check
func (m *TunnelMonitor) Start(ctx context.Context) {
	m.startOnce.Do(func() {
		loopCtx, cancel := context.WithCancel(ctx)
		m.cancel = cancel

		m.wg.Add(1)
		m.started.Store(true)
		go m.run(loopCtx)

		err := m.backend.CheckTunnel(ctx)
		if err != nil {
			m.logger.Info("Tunnel check failed", map[string]any{
				"error": err.Error(),
			})
		}
		m.post(ctx, backend.TunnelEvent{Connected: err == nil}, "check")
	})
}

// run is the only writer of the tunnel flag
func (m *TunnelMonitor) run(ctx context.Context) {
	defer m.wg.Done()
	defer close(m.done)

	m.logger.Info("Tunnel monitor started", nil)

	events := m.backend.TunnelEvents()
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Tunnel monitor stopped", nil)
			return

		case update := <-m.updates:
			m.apply(update.event, update.source)
			close(update.applied)

		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			m.apply(event, "notification")
		}
	}
}

func (m *TunnelMonitor) apply(event backend.TunnelEvent, source string) {
	m.store.SetTunnel(event.Connected)
	m.logger.Debug("Tunnel state updated", map[string]any{
		"connected": event.Connected,
		"source":    source,
	})
	if !event.Announce {
		return
	}
	if event.Connected {
		m.store.Notify(session.NoticeInfo, TunnelEnabledNotice)
	} else {
		m.store.Notify(session.NoticeInfo, TunnelDisabledNotice)
	}
}

// post hands an update to the loop and waits until it has been applied.
// Before Start there is no loop and the update is applied directly.
func (m *TunnelMonitor) post(ctx context.Context, event backend.TunnelEvent, source string) {
	if !m.started.Load() {
		m.apply(event, source)
		return
	}

	update := tunnelUpdate{event: event, source: source, applied: make(chan struct{})}

	select {
	case m.updates <- update:
	case <-ctx.Done():
		return
	case <-m.done:
		return
	}

	select {
	case <-update.applied:
	case <-ctx.Done():
	case <-m.done:
	}
}

// Connect opens the tunnel. A second request while one is in flight fails with ErrBusy.
func (m *TunnelMonitor) Connect(ctx context.Context) error {
	return m.request(ctx, "connect tunnel", true, m.backend.ConnectTunnel)
}

// Disconnect closes the tunnel. A second request while one is in flight fails with ErrBusy.
func (m *TunnelMonitor) Disconnect(ctx context.Context) error {
	return m.request(ctx, "disconnect tunnel", false, m.backend.DisconnectTunnel)
}

// Toggle disconnects an open tunnel and connects a closed one
func (m *TunnelMonitor) Toggle(ctx context.Context) error {
	if m.store.Tunnel() {
		return m.Disconnect(ctx)
	}
	return m.Connect(ctx)
}

func (m *TunnelMonitor) request(ctx context.Context, op string, connected bool, call func(context.Context) error) error {
	release, err := m.store.TryTunnelBusy()
	if err != nil {
		return err
	}
	defer release()

	// The outcome must reach the shared flag even if the caller went away
	ctx = context.WithoutCancel(ctx)

	m.logger.Info("Tunnel request", map[string]any{
		"operation": op,
	})

	if err := call(ctx); err != nil {
		err = errs.NewBackendError(op, err)
		m.logger.Error("Tunnel request failed", map[string]any{
			"operation": op,
			"error":     err.Error(),
		})
		m.store.Notify(session.NoticeError, err.Error())
		return err
	}

	m.post(ctx, backend.TunnelEvent{Connected: connected, Announce: true}, op)
	return nil
}

// Connected returns the last applied tunnel state
func (m *TunnelMonitor) Connected() bool {
	return m.store.Tunnel()
}

// Busy reports whether a connect or disconnect is in flight
func (m *TunnelMonitor) Busy() bool {
	return m.store.TunnelBusy()
}

// Shutdown stops the update loop and waits for it to exit
func (m *TunnelMonitor) Shutdown() {
	m.stopOnce.Do(func() {
		if m.cancel != nil {
			m.cancel()
			m.wg.Wait()
		}
	})
}
