// Package tcp implements ports.Transport over TCP to an ETHM-1 module.
package tcp

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/bft-labs/satelink/internal/ports"
)

// DefaultPort is the ETHM-1 integration port.
const DefaultPort = 7094

// Config holds the TCP endpoint.
type Config struct {
	Host string
	// Port defaults to DefaultPort when zero.
	Port int
	// DialTimeout bounds a single connection attempt. Zero means no bound
	// beyond the context.
	DialTimeout time.Duration
}

// Transport dials a new TCP connection on every Connect.
type Transport struct {
	addr   string
	dialer net.Dialer
	logger ports.Logger
}

// New validates cfg and returns a transport.
func New(cfg Config, logger ports.Logger) (*Transport, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("tcp: host is required")
	}
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}
	if port < 0 || port > 65535 {
		return nil, fmt.Errorf("tcp: invalid port %d", port)
	}
	return &Transport{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		dialer: net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: 30 * time.Second,
		},
		logger: logger,
	}, nil
}

// Connect dials the module.
func (t *Transport) Connect(ctx context.Context) (ports.Conn, error) {
	conn, err := t.dialer.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return nil, fmt.Errorf("tcp: dial %s: %w", t.addr, err)
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}
	if t.logger != nil {
		t.logger.Debug("tcp connected",
			ports.String("remote", conn.RemoteAddr().String()),
			ports.String("local", conn.LocalAddr().String()),
		)
	}
	return conn, nil
}

// Addr returns host:port.
func (t *Transport) Addr() string {
	return t.addr
}

func (t *Transport) String() string {
	return "tcp://" + t.addr
}
