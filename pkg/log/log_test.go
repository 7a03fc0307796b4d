package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologAdapterWithLogger(zerolog.New(&buf))

	logger.Info("frame written",
		String("transport", "tcp://10.0.0.1:7094"),
		Int("size", 7),
		Bool("checksum", true),
		Byte("command", 0x7E),
		Hex("frame", []byte{0xFE, 0xFE, 0x7E, 0xD8, 0x60, 0xFE, 0x0D}),
		Err(errors.New("boom")),
	)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	got := lines[0]

	tests := []struct {
		key  string
		want interface{}
	}{
		{"level", "info"},
		{"message", "frame written"},
		{"transport", "tcp://10.0.0.1:7094"},
		{"size", float64(7)},
		{"checksum", true},
		{"command", "7e"},
		{"frame", "fefe7ed860fe0d"},
		{"error", "boom"},
	}
	for _, tt := range tests {
		if got[tt.key] != tt.want {
			t.Errorf("%s = %v, want %v", tt.key, got[tt.key], tt.want)
		}
	}
}

func TestZerologAdapter_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologAdapterWithLogger(zerolog.New(&buf).Level(zerolog.WarnLevel))

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error", Duration("elapsed", time.Second))

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0]["message"] != "warn" || lines[1]["message"] != "error" {
		t.Errorf("messages = %v, %v, want warn, error", lines[0]["message"], lines[1]["message"])
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	base := NewZerologAdapterWithLogger(zerolog.New(&buf))

	engine := With(base, String("component", "engine"))
	scoped := With(engine, String("transport", "fake"))
	scoped.Info("connected", Int("attempt", 1))

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	for key, want := range map[string]interface{}{
		"component": "engine",
		"transport": "fake",
		"attempt":   float64(1),
	} {
		if lines[0][key] != want {
			t.Errorf("%s = %v, want %v", key, lines[0][key], want)
		}
	}

	if With(base) != Logger(base) {
		t.Error("With() without fields should return the logger itself")
	}
	if _, ok := With(nil, String("k", "v")).(NoopLogger); !ok {
		t.Error("With(nil) should return NoopLogger")
	}
}

func TestNoopLogger(t *testing.T) {
	var l Logger = NewNoopLogger()
	l.Debug("d")
	l.Info("i", String("k", "v"))
	l.Warn("w")
	l.Error("e", Err(errors.New("x")))
}
