package backend

import (
	"context"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
)

// TunnelEvent is a pushed tunnel state notification
type TunnelEvent struct {
	Connected bool
	// Announce asks consumers to tell the operator about the change
	Announce bool
}

// Backend is everything the console core needs from the outside world.
// Implementations must be safe for concurrent use.
type Backend interface {
	// SubmitMessage builds, sends, and records a new message
	SubmitMessage(ctx context.Context, message entity.Message) (entity.AtmResponse, error)

	// SubmitReversal sends a reversal of the recorded message with the given ID
	//
	// Possible errors:
	// - ErrMessageNotFound: If no message has the given ID
	// - ErrAlreadyReversed: If the recorded message is itself a reversal
	SubmitReversal(ctx context.Context, id uint64) (entity.AtmResponse, error)

	// ListMessages returns one page of the ledger, newest first. Pages start at 1.
	ListMessages(ctx context.Context, page int) ([]entity.Message, error)

	// GetConfig returns every managed configuration entry
	GetConfig(ctx context.Context) ([]entity.ConfigEntry, error)

	// SetConfig stores the full set of entries atomically
	SetConfig(ctx context.Context, entries []entity.ConfigEntry) error

	// ConnectTunnel opens the tunnel using the stored configuration
	ConnectTunnel(ctx context.Context) error

	// DisconnectTunnel closes the tunnel
	DisconnectTunnel(ctx context.Context) error

	// CheckTunnel returns nil when the tunnel is open and answering
	CheckTunnel(ctx context.Context) error

	// PickFile resolves a key file path. ok is false when nothing was picked.
	PickFile(ctx context.Context) (path string, ok bool, err error)

	// TunnelEvents delivers pushed tunnel state changes
	TunnelEvents() <-chan TunnelEvent
}
