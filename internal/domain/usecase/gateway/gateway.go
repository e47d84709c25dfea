package gateway

import (
	"context"
	"fmt"
	"net"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/backend"
	configport "github.com/amirhossein-jamali/atm-console/internal/domain/port/config"
	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/picker"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/switching"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/tunnel"
	"github.com/amirhossein-jamali/atm-console/internal/domain/usecase/message"
)

// PageSize is the number of messages per ledger page
const PageSize = 50

// Gateway is the in-process backend: it builds messages, exchanges them with
// the switch, and keeps the ledger and configuration
type Gateway struct {
	builder   *message.Builder
	codecs    map[entity.Switch]switching.Codec
	transport switching.Transport
	uow       persistence.UnitOfWork
	settings  configport.RuntimeSettings
	tunnel    tunnel.Tunnel
	picker    picker.FilePicker
	logger    coreport.Logger
}

// Dependencies groups what a Gateway needs
type Dependencies struct {
	Builder    *message.Builder
	Codecs     map[entity.Switch]switching.Codec
	Transport  switching.Transport
	UnitOfWork persistence.UnitOfWork
	Settings   configport.RuntimeSettings
	Tunnel     tunnel.Tunnel
	Picker     picker.FilePicker
	Logger     coreport.Logger
}

// NewGateway creates the backend
func NewGateway(deps Dependencies) backend.Backend {
	return &Gateway{
		builder:   deps.Builder,
		codecs:    deps.Codecs,
		transport: deps.Transport,
		uow:       deps.UnitOfWork,
		settings:  deps.Settings,
		tunnel:    deps.Tunnel,
		picker:    deps.Picker,
		logger:    deps.Logger,
	}
}

func (g *Gateway) codecFor(sw entity.Switch) (switching.Codec, error) {
	codec, ok := g.codecs[sw]
	if !ok || !message.Supports(sw) {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedSwitch, sw)
	}
	return codec, nil
}

// SubmitMessage builds msg with fresh identifiers, sends it, and records it
func (g *Gateway) SubmitMessage(ctx context.Context, msg entity.Message) (entity.AtmResponse, error) {
	codec, err := g.codecFor(msg.Switch)
	if err != nil {
		return entity.AtmResponse{}, err
	}

	repo := g.uow.GetMessageRepository(ctx)
	built, err := g.builder.BuildNew(ctx, msg, repo)
	if err != nil {
		return entity.AtmResponse{}, err
	}

	return g.exchange(ctx, codec, repo, built)
}

// SubmitReversal reverses the recorded message with id. The persisted kind is
// checked again so a stale view cannot reverse a reversal.
func (g *Gateway) SubmitReversal(ctx context.Context, id uint64) (entity.AtmResponse, error) {
	if id == 0 {
		return entity.AtmResponse{}, errs.ErrInvalidMessageID
	}

	repo := g.uow.GetMessageRepository(ctx)
	original, err := repo.GetByID(ctx, id)
	if err != nil {
		return entity.AtmResponse{}, err
	}

	codec, err := g.codecFor(original.Switch)
	if err != nil {
		return entity.AtmResponse{}, err
	}

	reversal, err := g.builder.BuildReversal(*original)
	if err != nil {
		g.logger.Warn("Reversal rejected", map[string]any{
			"message_id": id,
			"error":      err.Error(),
		})
		return entity.AtmResponse{}, err
	}

	return g.exchange(ctx, codec, repo, reversal)
}

// exchange sends a built message and records it once the switch answered.
// A failed ledger write is reported in the response, not as an error, because
// the switch has already acted on the message.
func (g *Gateway) exchange(
	ctx context.Context,
	codec switching.Codec,
	repo persistence.MessageRepository,
	msg entity.Message,
) (entity.AtmResponse, error) {
	log := g.logger.With(map[string]any{
		"switch":       msg.Switch.String(),
		"mti":          msg.Mti,
		"trace_number": msg.TraceNumber,
		"rrn":          msg.Rrn,
	})

	frame, err := codec.Pack(msg)
	if err != nil {
		log.Error("Failed to pack message", map[string]any{
			"error": err.Error(),
		})
		return entity.AtmResponse{}, fmt.Errorf("failed to pack message: %w", err)
	}

	log.Info("Sending message to switch", map[string]any{
		"transaction":  msg.Transaction.String(),
		"process_code": msg.ProcessCode,
		"frame_bytes":  len(frame),
	})

	response, err := g.transport.Exchange(ctx, frame, codec.Unpack)
	if err != nil {
		log.Error("Switch exchange failed", map[string]any{
			"error": err.Error(),
		})
		return entity.AtmResponse{}, err
	}

	log.Info("Switch answered", map[string]any{
		"response_code": response.ResponseCode,
	})

	if err := repo.Create(ctx, &msg); err != nil {
		log.Error("Failed to record sent message", map[string]any{
			"error": err.Error(),
		})
		response.Error = fmt.Sprintf("message was sent but could not be recorded: %v", err)
	}

	return response, nil
}

// ListMessages returns one page of the ledger, newest first. Pages start at 1.
func (g *Gateway) ListMessages(ctx context.Context, page int) ([]entity.Message, error) {
	if page < 1 {
		page = 1
	}
	return g.uow.GetMessageRepository(ctx).List(ctx, (page-1)*PageSize, PageSize)
}

// GetConfig returns every managed configuration entry
func (g *Gateway) GetConfig(ctx context.Context) ([]entity.ConfigEntry, error) {
	return g.uow.GetConfigRepository(ctx).List(ctx)
}

// SetConfig stores every entry in one transaction and, once committed, makes
// the values visible to the running console
func (g *Gateway) SetConfig(ctx context.Context, entries []entity.ConfigEntry) (err error) {
	for _, entry := range entries {
		if !entity.IsConfigKey(entry.Key) {
			return fmt.Errorf("%w: %s", errs.ErrUnknownConfigKey, entry.Key)
		}
	}

	txCtx, err := g.uow.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := g.uow.Rollback(txCtx); rbErr != nil {
				g.logger.Error("Failed to rollback configuration update", map[string]any{
					"error": rbErr.Error(),
				})
			}
		}
	}()

	repo := g.uow.GetConfigRepository(txCtx)
	for _, entry := range entries {
		if err = repo.Update(txCtx, entry); err != nil {
			return err
		}
	}

	if err = g.uow.Commit(txCtx); err != nil {
		return fmt.Errorf("failed to commit configuration: %w", err)
	}

	g.settings.Apply(entries)
	g.logger.Info("Configuration updated", map[string]any{
		"keys": len(entries),
	})
	return nil
}

// ConnectTunnel opens the tunnel with the current configuration
func (g *Gateway) ConnectTunnel(ctx context.Context) error {
	settings, err := TunnelSettings(g.settings)
	if err != nil {
		return err
	}

	g.logger.Info("Opening tunnel", map[string]any{
		"bastion": settings.BastionAddr,
		"local":   settings.LocalAddr,
		"target":  settings.TargetAddr,
	})
	return g.tunnel.Open(ctx, settings)
}

// DisconnectTunnel closes the tunnel
func (g *Gateway) DisconnectTunnel(_ context.Context) error {
	return g.tunnel.Close()
}

// CheckTunnel returns nil when the tunnel answers a keepalive
func (g *Gateway) CheckTunnel(ctx context.Context) error {
	return g.tunnel.Ping(ctx)
}

// PickFile asks the file picker for a key file
func (g *Gateway) PickFile(ctx context.Context) (string, bool, error) {
	return g.picker.PickFile(ctx)
}

// TunnelEvents forwards the state changes the tunnel detects on its own
func (g *Gateway) TunnelEvents() <-chan backend.TunnelEvent {
	return g.tunnel.Events()
}

// TunnelSettings assembles the tunnel parameters from the managed configuration
func TunnelSettings(settings configport.RuntimeSettings) (tunnel.Settings, error) {
	keyPath := settings.Value(entity.ConfigSSHKey)
	if keyPath == "" {
		return tunnel.Settings{}, errs.ErrMissingSSHKey
	}

	return tunnel.Settings{
		Username:    settings.Value(entity.ConfigSSHUsername),
		KeyPath:     keyPath,
		Passphrase:  settings.Value(entity.ConfigSSHPassphrase),
		BastionAddr: net.JoinHostPort(settings.Value(entity.ConfigBastionHost), settings.Value(entity.ConfigBastionPort)),
		LocalAddr:   SwitchAddress(settings),
		TargetAddr:  net.JoinHostPort(settings.Value(entity.ConfigTargetHost), settings.Value(entity.ConfigSSHRemotePort)),
	}, nil
}

// SwitchAddress is where switch traffic is sent: the local end of the tunnel
func SwitchAddress(settings configport.RuntimeSettings) string {
	return net.JoinHostPort("localhost", settings.Value(entity.ConfigSSHLocalPort))
}
