package libvirt

import (
	"context"
	"fmt"
	"time"

	"github.com/digitalocean/go-libvirt"
	"github.com/digitalocean/go-libvirt/socket/dialers"
	"go.uber.org/zap"

	"github.com/jbweber/crucible/internal/logger"
)

const (
	// DefaultSocket is the qemu:///system daemon socket.
	DefaultSocket = "/var/run/libvirt/libvirt-sock"

	// DefaultTimeout bounds the initial socket dial.
	DefaultTimeout = 5 * time.Second
)

// Client wraps a go-libvirt connection.
type Client struct {
	libvirt *libvirt.Libvirt
	log     *zap.Logger
}

// Connect establishes a connection to the local libvirt daemon.
// It returns a Client that must be closed via Close() when done.
//
// If socketPath is empty, DefaultSocket is used. If timeout is zero,
// DefaultTimeout is used. A nil logger discards output.
func Connect(socketPath string, timeout time.Duration, log *zap.Logger) (*Client, error) {
	log = logger.OrNop(log)

	if socketPath == "" {
		socketPath = DefaultSocket
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	dialer := dialers.NewLocal(
		dialers.WithSocket(socketPath),
		dialers.WithLocalTimeout(timeout),
	)

	l := libvirt.NewWithDialer(dialer)
	if err := l.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to libvirt at %s: %w", socketPath, err)
	}

	log.Debug("connected to libvirt", zap.String("socket", socketPath))

	return &Client{libvirt: l, log: log}, nil
}

// ConnectWithContext establishes a connection with context support for cancellation.
func ConnectWithContext(ctx context.Context, socketPath string, timeout time.Duration, log *zap.Logger) (*Client, error) {
	type result struct {
		client *Client
		err    error
	}
	resultCh := make(chan result, 1)

	go func() {
		c, err := Connect(socketPath, timeout, log)
		resultCh <- result{client: c, err: err}
	}()

	select {
	case <-ctx.Done():
		// Don't leak a connection that completes after cancellation
		go func() {
			if res := <-resultCh; res.client != nil {
				_ = res.client.Close()
			}
		}()
		return nil, fmt.Errorf("connection cancelled: %w", ctx.Err())
	case res := <-resultCh:
		return res.client, res.err
	}
}

// Close closes the libvirt connection and releases resources.
// It is safe to call Close multiple times.
func (c *Client) Close() error {
	if c.libvirt == nil {
		return nil
	}

	l := c.libvirt
	c.libvirt = nil
	if err := l.Disconnect(); err != nil {
		return fmt.Errorf("failed to disconnect from libvirt: %w", err)
	}

	c.log.Debug("disconnected from libvirt")
	return nil
}

// Libvirt returns the underlying go-libvirt client for direct API access.
// It satisfies storage.LibvirtClient and the vm package's domain client.
func (c *Client) Libvirt() *libvirt.Libvirt {
	return c.libvirt
}

// Ping verifies the connection is still alive by calling a simple libvirt API.
func (c *Client) Ping() error {
	_, err := c.Version()
	return err
}

// Version returns the libvirt library version of the daemon, e.g. "10.6.0".
func (c *Client) Version() (string, error) {
	if c.libvirt == nil {
		return "", fmt.Errorf("client not connected")
	}

	v, err := c.libvirt.ConnectGetLibVersion()
	if err != nil {
		return "", fmt.Errorf("libvirt connection is dead: %w", err)
	}

	return FormatVersion(v), nil
}

// FormatVersion converts libvirt's packed version number
// (major*1000000 + minor*1000 + release) into dotted form.
func FormatVersion(v uint64) string {
	return fmt.Sprintf("%d.%d.%d", v/1000000, (v/1000)%1000, v%1000)
}
