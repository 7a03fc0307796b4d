// Package serial implements ports.Transport over an INT-RS serial module
// using go.bug.st/serial.
package serial

import (
	"context"
	"fmt"
	"strings"

	"go.bug.st/serial"

	"github.com/bft-labs/satelink/internal/ports"
)

// INT-RS defaults.
const (
	DefaultBaudRate = 19200
	DefaultDataBits = 8
)

// Config holds serial line settings.
type Config struct {
	// Port is the device path, e.g. "/dev/ttyUSB0" or "COM3".
	Port     string
	BaudRate int
	DataBits int
	// Parity is none, odd, even, mark or space. Empty means none.
	Parity string
	// StopBits is 1 or 2. Zero means 1.
	StopBits int
}

type openFunc func(name string, mode *serial.Mode) (serial.Port, error)

// Transport opens the serial device on every Connect.
type Transport struct {
	port   string
	mode   *serial.Mode
	open   openFunc
	logger ports.Logger
}

// New validates cfg and returns a transport.
func New(cfg Config, logger ports.Logger) (*Transport, error) {
	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}
	if cfg.Port == "" {
		return nil, fmt.Errorf("serial: port is required")
	}
	return &Transport{port: cfg.Port, mode: mode, open: serial.Open, logger: logger}, nil
}

// Mode converts the settings to a serial.Mode, applying INT-RS defaults.
func (c Config) Mode() (*serial.Mode, error) {
	mode := &serial.Mode{
		BaudRate: c.BaudRate,
		DataBits: c.DataBits,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	if mode.BaudRate == 0 {
		mode.BaudRate = DefaultBaudRate
	}
	if mode.DataBits == 0 {
		mode.DataBits = DefaultDataBits
	}
	if mode.BaudRate < 0 {
		return nil, fmt.Errorf("serial: invalid baud rate %d", c.BaudRate)
	}
	if mode.DataBits < 5 || mode.DataBits > 8 {
		return nil, fmt.Errorf("serial: invalid data bits %d", c.DataBits)
	}

	switch strings.ToLower(c.Parity) {
	case "", "none", "n":
	case "odd", "o":
		mode.Parity = serial.OddParity
	case "even", "e":
		mode.Parity = serial.EvenParity
	case "mark", "m":
		mode.Parity = serial.MarkParity
	case "space", "s":
		mode.Parity = serial.SpaceParity
	default:
		return nil, fmt.Errorf("serial: invalid parity %q", c.Parity)
	}

	switch c.StopBits {
	case 0, 1:
	case 2:
		mode.StopBits = serial.TwoStopBits
	default:
		return nil, fmt.Errorf("serial: invalid stop bits %d", c.StopBits)
	}
	return mode, nil
}

// Connect opens the device. Reads block until data arrives or the port is
// closed.
func (t *Transport) Connect(ctx context.Context) (ports.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := t.open(t.port, t.mode)
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", t.port, err)
	}
	if t.logger != nil {
		t.logger.Debug("serial port opened",
			ports.String("port", t.port),
			ports.Int("baud", t.mode.BaudRate),
		)
	}
	return p, nil
}

func (t *Transport) String() string {
	return fmt.Sprintf("serial://%s?baud=%d", t.port, t.mode.BaudRate)
}
