package tunnel

import (
	"context"

	"github.com/amirhossein-jamali/atm-console/internal/domain/port/backend"
)

// Settings are the connection parameters of the tunnel
type Settings struct {
	Username    string
	KeyPath     string
	Passphrase  string
	BastionAddr string
	LocalAddr   string
	TargetAddr  string
}

// Tunnel forwards a local listener to the switch through a bastion host
type Tunnel interface {
	// Open dials the bastion and starts forwarding. Opening an open tunnel replaces it.
	Open(ctx context.Context, settings Settings) error
	// Close stops forwarding. Closing a closed tunnel is not an error.
	Close() error
	// Ping sends a keepalive over the bastion connection
	Ping(ctx context.Context) error
	// LocalAddr returns the address switch traffic must be sent to
	LocalAddr() string
	// Events delivers state changes the tunnel detects on its own
	Events() <-chan backend.TunnelEvent
}
