package satel

import (
	"time"

	"github.com/bft-labs/satelink/internal/adapters/serial"
	"github.com/bft-labs/satelink/internal/adapters/tcp"
)

// DefaultTCPPort is the ETHM-1 integration port.
const DefaultTCPPort = tcp.DefaultPort

// SerialConfig holds INT-RS serial line settings.
type SerialConfig = serial.Config

// NewTCPTransport returns a transport dialing an ETHM-1 module at host:port.
// A zero port means DefaultTCPPort. dialTimeout bounds each connection
// attempt; zero leaves it to the engine's context.
func NewTCPTransport(host string, port int, dialTimeout time.Duration, logger Logger) (Transport, error) {
	t, err := tcp.New(tcp.Config{Host: host, Port: port, DialTimeout: dialTimeout}, logger)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// NewSerialTransport returns a transport opening an INT-RS module on a
// serial device.
func NewSerialTransport(cfg SerialConfig, logger Logger) (Transport, error) {
	t, err := serial.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	return t, nil
}
