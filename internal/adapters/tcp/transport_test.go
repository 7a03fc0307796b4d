package tcp

import (
	"bytes"
	"context"
	"io"
	"net"
	"strconv"
	"testing"
	"time"
)

func listen(t *testing.T) (net.Listener, string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	t.Cleanup(func() { ln.Close() })
	host, portStr, _ := net.SplitHostPort(ln.Addr().String())
	port, _ := strconv.Atoi(portStr)
	return ln, host, port
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		want    string
	}{
		{"default port", Config{Host: "10.0.0.5"}, false, "tcp://10.0.0.5:7094"},
		{"explicit port", Config{Host: "panel.local", Port: 1234}, false, "tcp://panel.local:1234"},
		{"ipv6", Config{Host: "::1", Port: 7094}, false, "tcp://[::1]:7094"},
		{"missing host", Config{Port: 7094}, true, ""},
		{"port out of range", Config{Host: "h", Port: 70000}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := New(tt.cfg, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && tr.String() != tt.want {
				t.Errorf("String() = %q, want %q", tr.String(), tt.want)
			}
		})
	}
}

func TestConnect_ExchangesBytes(t *testing.T) {
	ln, host, port := listen(t)

	received := make(chan []byte, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		buf := make([]byte, 5)
		if _, err := io.ReadFull(c, buf); err != nil {
			return
		}
		received <- buf
		_, _ = c.Write([]byte{0xFE, 0xFE, 0x7E, 0xFE, 0x0D})
	}()

	tr, err := New(Config{Host: host, Port: port, DialTimeout: time.Second}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	conn, err := tr.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer conn.Close()

	frame := []byte{0xFE, 0xFE, 0x7E, 0xFE, 0x0D}
	if _, err := conn.Write(frame); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	select {
	case got := <-received:
		if !bytes.Equal(got, frame) {
			t.Errorf("server received % X, want % X", got, frame)
		}
	case <-time.After(time.Second):
		t.Fatal("server did not receive the frame")
	}

	reply := make([]byte, 5)
	if _, err := io.ReadFull(conn, reply); err != nil {
		t.Fatalf("ReadFull() error = %v", err)
	}
}

func TestConnect_CloseUnblocksRead(t *testing.T) {
	ln, host, port := listen(t)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			time.Sleep(time.Second)
			c.Close()
		}
	}()

	tr, _ := New(Config{Host: host, Port: port}, nil)
	conn, err := tr.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := conn.Read(make([]byte, 1))
		done <- err
	}()
	time.Sleep(20 * time.Millisecond)
	conn.Close()

	select {
	case err := <-done:
		if err == nil {
			t.Error("Read() after Close returned nil error")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Read() not unblocked by Close")
	}
}

func TestConnect_Refused(t *testing.T) {
	ln, host, port := listen(t)
	ln.Close()

	tr, _ := New(Config{Host: host, Port: port, DialTimeout: time.Second}, nil)
	if _, err := tr.Connect(context.Background()); err == nil {
		t.Error("Connect() to closed listener returned nil error")
	}
}

func TestConnect_CancelledContext(t *testing.T) {
	tr, _ := New(Config{Host: "127.0.0.1", Port: 1}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := tr.Connect(ctx); err == nil {
		t.Error("Connect() with cancelled context returned nil error")
	}
}
