package tunnel

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/backend"
	tunnelport "github.com/amirhossein-jamali/atm-console/internal/domain/port/tunnel"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/logger"
)

// bastion is an in-process SSH server that allows direct-tcpip forwarding
type bastion struct {
	addr    string
	hostKey ssh.Signer

	mu    sync.Mutex
	conns []*ssh.ServerConn
}

func startBastion(t *testing.T, authorized ssh.PublicKey) *bastion {
	t.Helper()

	_, hostPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	hostKey, err := ssh.NewSignerFromKey(hostPriv)
	require.NoError(t, err)

	config := &ssh.ServerConfig{
		PublicKeyCallback: func(_ ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
			if bytes.Equal(key.Marshal(), authorized.Marshal()) {
				return nil, nil
			}
			return nil, errors.New("unauthorized key")
		},
	}
	config.AddHostKey(hostKey)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	b := &bastion{addr: listener.Addr().String(), hostKey: hostKey}
	t.Cleanup(func() {
		_ = listener.Close()
		b.dropAll()
	})

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go b.serve(conn, config)
		}
	}()

	return b
}

func (b *bastion) serve(conn net.Conn, config *ssh.ServerConfig) {
	serverConn, chans, reqs, err := ssh.NewServerConn(conn, config)
	if err != nil {
		_ = conn.Close()
		return
	}

	b.mu.Lock()
	b.conns = append(b.conns, serverConn)
	b.mu.Unlock()

	go func() {
		for req := range reqs {
			if req.WantReply {
				_ = req.Reply(req.Type == keepaliveRequest, nil)
			}
		}
	}()

	for newChannel := range chans {
		if newChannel.ChannelType() != "direct-tcpip" {
			_ = newChannel.Reject(ssh.UnknownChannelType, "unsupported channel type")
			continue
		}

		var target struct {
			Host       string
			Port       uint32
			OriginHost string
			OriginPort uint32
		}
		if err := ssh.Unmarshal(newChannel.ExtraData(), &target); err != nil {
			_ = newChannel.Reject(ssh.ConnectionFailed, err.Error())
			continue
		}

		remote, err := net.Dial("tcp", net.JoinHostPort(target.Host, strconv.Itoa(int(target.Port))))
		if err != nil {
			_ = newChannel.Reject(ssh.ConnectionFailed, err.Error())
			continue
		}

		channel, channelReqs, err := newChannel.Accept()
		if err != nil {
			_ = remote.Close()
			continue
		}
		go ssh.DiscardRequests(channelReqs)
		go func() {
			_, _ = io.Copy(channel, remote)
			_ = channel.Close()
		}()
		go func() {
			_, _ = io.Copy(remote, channel)
			_ = remote.Close()
		}()
	}
}

// dropAll kills every client connection, as a restarting bastion would
func (b *bastion) dropAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, conn := range b.conns {
		_ = conn.Close()
	}
	b.conns = nil
}

// startEchoTarget stands in for the switch
func startEchoTarget(t *testing.T) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				_, _ = io.Copy(conn, conn)
			}()
		}
	}()

	return listener.Addr().String()
}

// writeClientKey stores a fresh OpenSSH private key and returns its path and public half
func writeClientKey(t *testing.T, passphrase string) (string, ssh.PublicKey) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	var block *pem.Block
	if passphrase == "" {
		block, err = ssh.MarshalPrivateKey(priv, "operator")
	} else {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(priv, "operator", []byte(passphrase))
	}
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id_ed25519")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0o600))

	sshPub, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)
	return path, sshPub
}

func freeLocalAddr(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	return addr
}

func roundTrip(t *testing.T, addr string, payload string) string {
	t.Helper()

	conn, err := net.DialTimeout("tcp", addr, time.Second)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(2*time.Second)))

	_, err = conn.Write([]byte(payload))
	require.NoError(t, err)

	buf := make([]byte, len(payload))
	_, err = io.ReadFull(conn, buf)
	require.NoError(t, err)
	return string(buf)
}

func TestSSHTunnel_ForwardsToTarget(t *testing.T) {
	keyPath, pub := writeClientKey(t, "")
	b := startBastion(t, pub)
	target := startEchoTarget(t)

	tun := NewSSHTunnel(Config{DialTimeout: time.Second}, logger.NewNoopLogger())
	settings := tunnelport.Settings{
		Username:    "operator",
		KeyPath:     keyPath,
		BastionAddr: b.addr,
		LocalAddr:   freeLocalAddr(t),
		TargetAddr:  target,
	}

	require.NoError(t, tun.Open(context.Background(), settings))
	t.Cleanup(func() { _ = tun.Close() })

	assert.Equal(t, settings.LocalAddr, tun.LocalAddr())
	assert.Equal(t, "0200 withdrawal", roundTrip(t, settings.LocalAddr, "0200 withdrawal"))
	assert.NoError(t, tun.Ping(context.Background()))

	require.NoError(t, tun.Close())
	assert.ErrorIs(t, tun.Ping(context.Background()), errs.ErrTunnelNotConnected)
	assert.Empty(t, tun.LocalAddr())
	assert.NoError(t, tun.Close())

	_, err := net.DialTimeout("tcp", settings.LocalAddr, 200*time.Millisecond)
	assert.Error(t, err)

	select {
	case event := <-tun.Events():
		t.Fatalf("requested close must not be reported as a loss, got %+v", event)
	default:
	}
}

func TestSSHTunnel_ReopenReplacesForwarding(t *testing.T) {
	keyPath, pub := writeClientKey(t, "")
	b := startBastion(t, pub)
	target := startEchoTarget(t)

	tun := NewSSHTunnel(Config{DialTimeout: time.Second}, logger.NewNoopLogger())
	settings := tunnelport.Settings{
		Username:    "operator",
		KeyPath:     keyPath,
		BastionAddr: b.addr,
		LocalAddr:   freeLocalAddr(t),
		TargetAddr:  target,
	}

	require.NoError(t, tun.Open(context.Background(), settings))
	require.NoError(t, tun.Open(context.Background(), settings))
	t.Cleanup(func() { _ = tun.Close() })

	assert.Equal(t, "ping", roundTrip(t, settings.LocalAddr, "ping"))
}

func TestSSHTunnel_FailedReopenKeepsForwarding(t *testing.T) {
	keyPath, pub := writeClientKey(t, "")
	b := startBastion(t, pub)

	tun := NewSSHTunnel(Config{DialTimeout: time.Second}, logger.NewNoopLogger())
	settings := tunnelport.Settings{
		Username:    "operator",
		KeyPath:     keyPath,
		BastionAddr: b.addr,
		LocalAddr:   freeLocalAddr(t),
		TargetAddr:  startEchoTarget(t),
	}
	require.NoError(t, tun.Open(context.Background(), settings))
	t.Cleanup(func() { _ = tun.Close() })

	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = taken.Close() })

	moved := settings
	moved.LocalAddr = taken.Addr().String()
	err = tun.Open(context.Background(), moved)
	assert.ErrorContains(t, err, "failed to listen on "+moved.LocalAddr)

	assert.Equal(t, settings.LocalAddr, tun.LocalAddr())
	assert.Equal(t, "still up", roundTrip(t, settings.LocalAddr, "still up"))
	assert.NoError(t, tun.Ping(context.Background()))

	select {
	case event := <-tun.Events():
		t.Fatalf("open tunnel was kept, no loss expected, got %+v", event)
	default:
	}
}

func TestSamePort(t *testing.T) {
	assert.True(t, samePort("127.0.0.1:9010", "localhost:9010"))
	assert.False(t, samePort("127.0.0.1:9010", "127.0.0.1:9011"))
	assert.False(t, samePort("127.0.0.1", "127.0.0.1:9010"))
}

func TestSSHTunnel_PassphraseProtectedKey(t *testing.T) {
	keyPath, pub := writeClientKey(t, "hunter2")
	b := startBastion(t, pub)

	tun := NewSSHTunnel(Config{DialTimeout: time.Second}, logger.NewNoopLogger())
	settings := tunnelport.Settings{
		Username:    "operator",
		KeyPath:     keyPath,
		BastionAddr: b.addr,
		LocalAddr:   freeLocalAddr(t),
		TargetAddr:  startEchoTarget(t),
	}

	err := tun.Open(context.Background(), settings)
	assert.ErrorContains(t, err, "SSH_PASSPHRASE")

	settings.Passphrase = "hunter2"
	require.NoError(t, tun.Open(context.Background(), settings))
	assert.NoError(t, tun.Close())
}

func TestSSHTunnel_OpenErrors(t *testing.T) {
	keyPath, _ := writeClientKey(t, "")
	_, otherPub := writeClientKey(t, "")
	b := startBastion(t, otherPub)

	tun := NewSSHTunnel(Config{DialTimeout: time.Second}, logger.NewNoopLogger())

	t.Run("Missing key", func(t *testing.T) {
		err := tun.Open(context.Background(), tunnelport.Settings{BastionAddr: b.addr})
		assert.ErrorIs(t, err, errs.ErrMissingSSHKey)
	})

	t.Run("Unreadable key", func(t *testing.T) {
		err := tun.Open(context.Background(), tunnelport.Settings{KeyPath: filepath.Join(t.TempDir(), "absent")})
		assert.ErrorContains(t, err, "failed to read private key")
	})

	t.Run("Unauthorized key", func(t *testing.T) {
		err := tun.Open(context.Background(), tunnelport.Settings{
			Username:    "operator",
			KeyPath:     keyPath,
			BastionAddr: b.addr,
			LocalAddr:   freeLocalAddr(t),
		})
		assert.ErrorContains(t, err, "failed to dial bastion host")
		assert.Empty(t, tun.LocalAddr())
	})
}

func TestSSHTunnel_KnownHosts(t *testing.T) {
	keyPath, pub := writeClientKey(t, "")
	b := startBastion(t, pub)

	settings := tunnelport.Settings{
		Username:    "operator",
		KeyPath:     keyPath,
		BastionAddr: b.addr,
		LocalAddr:   freeLocalAddr(t),
		TargetAddr:  startEchoTarget(t),
	}

	t.Run("Unknown host key is rejected", func(t *testing.T) {
		_, strangerPub := writeClientKey(t, "")
		knownHosts := filepath.Join(t.TempDir(), "known_hosts")
		line := knownhosts.Line([]string{b.addr}, strangerPub) + "\n"
		require.NoError(t, os.WriteFile(knownHosts, []byte(line), 0o600))

		tun := NewSSHTunnel(Config{DialTimeout: time.Second, KnownHostsFile: knownHosts}, logger.NewNoopLogger())
		assert.Error(t, tun.Open(context.Background(), settings))
	})

	t.Run("Known host key is accepted", func(t *testing.T) {
		knownHosts := filepath.Join(t.TempDir(), "known_hosts")
		line := knownhosts.Line([]string{b.addr}, b.hostKey.PublicKey()) + "\n"
		require.NoError(t, os.WriteFile(knownHosts, []byte(line), 0o600))

		tun := NewSSHTunnel(Config{DialTimeout: time.Second, KnownHostsFile: knownHosts}, logger.NewNoopLogger())
		require.NoError(t, tun.Open(context.Background(), settings))
		assert.NoError(t, tun.Close())
	})

	t.Run("Missing known hosts file", func(t *testing.T) {
		tun := NewSSHTunnel(Config{KnownHostsFile: filepath.Join(t.TempDir(), "absent")}, logger.NewNoopLogger())
		assert.ErrorContains(t, tun.Open(context.Background(), settings), "failed to load known hosts")
	})
}

func TestSSHTunnel_ReportsLostBastion(t *testing.T) {
	keyPath, pub := writeClientKey(t, "")
	b := startBastion(t, pub)

	tun := NewSSHTunnel(Config{DialTimeout: time.Second, KeepaliveInterval: 20 * time.Millisecond}, logger.NewNoopLogger())
	settings := tunnelport.Settings{
		Username:    "operator",
		KeyPath:     keyPath,
		BastionAddr: b.addr,
		LocalAddr:   freeLocalAddr(t),
		TargetAddr:  startEchoTarget(t),
	}
	require.NoError(t, tun.Open(context.Background(), settings))
	// a served keepalive means the bastion has registered the connection
	require.NoError(t, tun.Ping(context.Background()))

	b.dropAll()

	select {
	case event := <-tun.Events():
		assert.Equal(t, backend.TunnelEvent{Connected: false, Announce: true}, event)
	case <-time.After(2 * time.Second):
		t.Fatal("lost tunnel was not reported")
	}

	assert.ErrorIs(t, tun.Ping(context.Background()), errs.ErrTunnelNotConnected)
	assert.NoError(t, tun.Close())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".ssh", "id_rsa"), ExpandHome("~/.ssh/id_rsa"))
	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, "/etc/ssh/key", ExpandHome("/etc/ssh/key"))
	assert.Equal(t, "~other/key", ExpandHome("~other/key"))
}
