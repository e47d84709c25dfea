package tunnel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/backend"
	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
	tunnelport "github.com/amirhossein-jamali/atm-console/internal/domain/port/tunnel"
)

// keepaliveRequest is the global request OpenSSH servers answer without side effects
const keepaliveRequest = "keepalive@openssh.com"

// eventBuffer bounds the notifications waiting for the consumer
const eventBuffer = 16

// Config holds the SSH client settings that do not come from the console configuration
type Config struct {
	DialTimeout time.Duration
	// KeepaliveInterval is how often the bastion connection is checked. Zero disables the check.
	KeepaliveInterval time.Duration
	// KnownHostsFile verifies the bastion host key. Empty accepts any key.
	KnownHostsFile string
}

// SSHTunnel forwards a local listener to the switch through a bastion host
type SSHTunnel struct {
	config Config
	logger coreport.Logger
	events chan backend.TunnelEvent

	mu      sync.Mutex
	current *forwarding
}

var _ tunnelport.Tunnel = (*SSHTunnel)(nil)

// NewSSHTunnel creates a closed tunnel
func NewSSHTunnel(config Config, logger coreport.Logger) *SSHTunnel {
	return &SSHTunnel{
		config: config,
		logger: logger.With(map[string]any{"component": "tunnel"}),
		events: make(chan backend.TunnelEvent, eventBuffer),
	}
}

// forwarding is one open tunnel: a bastion connection and the local listener feeding it
type forwarding struct {
	client   *ssh.Client
	listener net.Listener
	target   string

	closing   atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// shutdown closes the forwarding and reports whether this call closed it
func (f *forwarding) shutdown() bool {
	closed := false
	f.closeOnce.Do(func() {
		closed = true
		f.closing.Store(true)
		close(f.done)
		_ = f.listener.Close()
		_ = f.client.Close()
	})
	return closed
}

// Open dials the bastion and starts forwarding. An open tunnel is replaced once
// the new one is listening; when the new one fails the open tunnel keeps running.
func (t *SSHTunnel) Open(ctx context.Context, settings tunnelport.Settings) error {
	auth, err := publicKeyAuth(settings.KeyPath, settings.Passphrase)
	if err != nil {
		return err
	}

	hostKeyCallback, err := t.hostKeyCallback()
	if err != nil {
		return err
	}

	clientConfig := &ssh.ClientConfig{
		User:            settings.Username,
		Auth:            []ssh.AuthMethod{auth},
		HostKeyCallback: hostKeyCallback,
		Timeout:         t.config.DialTimeout,
	}

	client, err := dialContext(ctx, settings.BastionAddr, clientConfig, t.config.DialTimeout)
	if err != nil {
		return fmt.Errorf("failed to dial bastion host: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	listener, err := t.listen(settings.LocalAddr)
	if err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to listen on %s: %w", settings.LocalAddr, err)
	}

	if t.current != nil {
		t.logger.Info("Replacing open tunnel", nil)
		t.current.shutdown()
		t.current = nil
	}

	f := &forwarding{
		client:   client,
		listener: listener,
		target:   settings.TargetAddr,
		done:     make(chan struct{}),
	}
	t.current = f

	go t.accept(f)
	if t.config.KeepaliveInterval > 0 {
		go t.keepalive(f)
	}

	t.logger.Info("SSH tunnel established", map[string]any{
		"local":   listener.Addr().String(),
		"bastion": settings.BastionAddr,
		"target":  settings.TargetAddr,
	})
	return nil
}

// listen opens the local end of a new forwarding while the open one keeps
// running. Only when the open tunnel itself holds the port is it shut down
// first; if the port still cannot be taken, that loss is reported. Callers hold t.mu.
func (t *SSHTunnel) listen(addr string) (net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err == nil || t.current == nil || !samePort(t.current.listener.Addr().String(), addr) {
		return listener, err
	}

	t.logger.Info("Replacing open tunnel on the same local port", map[string]any{
		"local": addr,
	})
	t.current.shutdown()
	t.current = nil

	listener, err = net.Listen("tcp", addr)
	if err != nil {
		t.logger.Warn("SSH tunnel lost while reopening", map[string]any{
			"local": addr,
			"error": err.Error(),
		})
		t.emit(backend.TunnelEvent{Connected: false, Announce: true})
	}
	return listener, err
}

func samePort(a, b string) bool {
	_, portA, errA := net.SplitHostPort(a)
	_, portB, errB := net.SplitHostPort(b)
	return errA == nil && errB == nil && portA == portB
}

// dialContext performs the SSH handshake over a connection that honors ctx
func dialContext(ctx context.Context, addr string, config *ssh.ClientConfig, timeout time.Duration) (*ssh.Client, error) {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		_ = conn.Close()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return ssh.NewClient(sshConn, chans, reqs), nil
}

// Close stops forwarding. Closing a closed tunnel is not an error.
func (t *SSHTunnel) Close() error {
	t.mu.Lock()
	f := t.current
	t.current = nil
	t.mu.Unlock()

	if f != nil && f.shutdown() {
		t.logger.Info("SSH tunnel closed", nil)
	}
	return nil
}

// Ping sends a keepalive over the bastion connection
func (t *SSHTunnel) Ping(ctx context.Context) error {
	t.mu.Lock()
	f := t.current
	t.mu.Unlock()

	if f == nil {
		return errs.ErrTunnelNotConnected
	}

	result := make(chan error, 1)
	go func() {
		_, _, err := f.client.SendRequest(keepaliveRequest, true, nil)
		result <- err
	}()

	select {
	case err := <-result:
		if err != nil {
			return fmt.Errorf("%w: %v", errs.ErrTunnelNotConnected, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LocalAddr returns the address switch traffic must be sent to, or "" when closed
func (t *SSHTunnel) LocalAddr() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return ""
	}
	return t.current.listener.Addr().String()
}

// Events delivers the losses of the tunnel that were not requested
func (t *SSHTunnel) Events() <-chan backend.TunnelEvent {
	return t.events
}

func (t *SSHTunnel) accept(f *forwarding) {
	for {
		local, err := f.listener.Accept()
		if err != nil {
			if !f.closing.Load() {
				t.lost(f, fmt.Errorf("accept failed: %w", err))
			}
			return
		}
		go t.forward(f, local)
	}
}

func (t *SSHTunnel) keepalive(f *forwarding) {
	ticker := time.NewTicker(t.config.KeepaliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-f.done:
			return
		case <-ticker.C:
			if _, _, err := f.client.SendRequest(keepaliveRequest, true, nil); err != nil {
				t.lost(f, fmt.Errorf("keepalive failed: %w", err))
				return
			}
		}
	}
}

// lost tears down a forwarding that died on its own and notifies the consumer once
func (t *SSHTunnel) lost(f *forwarding, cause error) {
	t.mu.Lock()
	if t.current == f {
		t.current = nil
	}
	t.mu.Unlock()

	if !f.shutdown() {
		return
	}

	t.logger.Warn("SSH tunnel lost", map[string]any{
		"error": cause.Error(),
	})
	t.emit(backend.TunnelEvent{Connected: false, Announce: true})
}

func (t *SSHTunnel) emit(event backend.TunnelEvent) {
	select {
	case t.events <- event:
	default:
		t.logger.Warn("Tunnel event dropped, consumer is not keeping up", map[string]any{
			"connected": event.Connected,
		})
	}
}

// forward pipes one local connection to the target through the bastion
func (t *SSHTunnel) forward(f *forwarding, local net.Conn) {
	remote, err := f.client.Dial("tcp", f.target)
	if err != nil {
		t.logger.Error("Failed to connect to target host", map[string]any{
			"target": f.target,
			"error":  err.Error(),
		})
		_ = local.Close()
		return
	}

	var once sync.Once
	closeBoth := func() {
		once.Do(func() {
			_ = local.Close()
			_ = remote.Close()
		})
	}

	go func() {
		_, _ = io.Copy(remote, local)
		closeBoth()
	}()
	_, _ = io.Copy(local, remote)
	closeBoth()
}

func (t *SSHTunnel) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if t.config.KnownHostsFile == "" {
		t.logger.Warn("Bastion host key is not verified, set a known hosts file to verify it", nil)
		return ssh.InsecureIgnoreHostKey(), nil
	}

	callback, err := knownhosts.New(ExpandHome(t.config.KnownHostsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load known hosts: %w", err)
	}
	return callback, nil
}

// publicKeyAuth reads a private key file, decrypting it when a passphrase is given
func publicKeyAuth(keyPath, passphrase string) (ssh.AuthMethod, error) {
	if keyPath == "" {
		return nil, errs.ErrMissingSSHKey
	}

	key, err := os.ReadFile(ExpandHome(keyPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}

	var signer ssh.Signer
	if passphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(passphrase))
	} else {
		signer, err = ssh.ParsePrivateKey(key)
	}
	if err != nil {
		var missing *ssh.PassphraseMissingError
		if errors.As(err, &missing) {
			return nil, errors.New("private key is encrypted, please configure SSH_PASSPHRASE")
		}
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return ssh.PublicKeys(signer), nil
}

// ExpandHome replaces a leading ~ with the home directory of the current user
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
