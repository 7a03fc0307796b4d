package ports

import (
	"context"
	"io"
)

// Conn is a live byte stream to the panel. Closing it is the disconnect
// operation and must unblock pending reads and writes.
type Conn = io.ReadWriteCloser

// Transport opens byte-stream connections to the panel.
// Implementations are the ETHM-1 TCP module and the INT-RS serial module.
type Transport interface {
	// Connect opens a new connection. Connect must return promptly when ctx
	// is done.
	Connect(ctx context.Context) (Conn, error)

	// String describes the endpoint for logs, e.g. "tcp://10.0.0.5:7094".
	String() string
}
