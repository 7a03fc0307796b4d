package log

import (
	"encoding/hex"
	"time"
)

// Logger provides structured logging capabilities.
// Implementations can wrap zerolog, zap, logrus, or any other logging library.
type Logger interface {
	// Debug logs a debug-level message with fields.
	Debug(msg string, fields ...Field)

	// Info logs an info-level message with fields.
	Info(msg string, fields ...Field)

	// Warn logs a warning-level message with fields.
	Warn(msg string, fields ...Field)

	// Error logs an error-level message with fields.
	Error(msg string, fields ...Field)
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 creates an int64 field.
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Uint64 creates a uint64 field.
func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Duration creates a duration field.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// Byte creates a field rendering a single protocol byte as two hex digits.
func Byte(key string, value byte) Field {
	return Field{Key: key, Value: hex.EncodeToString([]byte{value})}
}

// Hex creates a field rendering raw bytes as a hex string.
func Hex(key string, value []byte) Field {
	return Field{Key: key, Value: hex.EncodeToString(value)}
}

// Err creates an error field with key "error".
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// Any creates a field with any value.
func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// With returns a Logger that prepends fields to every message logged
// through l. A nil l yields a no-op logger.
func With(l Logger, fields ...Field) Logger {
	if l == nil {
		return NoopLogger{}
	}
	if len(fields) == 0 {
		return l
	}
	if w, ok := l.(*scoped); ok {
		merged := make([]Field, 0, len(w.fields)+len(fields))
		merged = append(merged, w.fields...)
		merged = append(merged, fields...)
		return &scoped{next: w.next, fields: merged}
	}
	return &scoped{next: l, fields: append([]Field(nil), fields...)}
}

type scoped struct {
	next   Logger
	fields []Field
}

func (s *scoped) join(fields []Field) []Field {
	out := make([]Field, 0, len(s.fields)+len(fields))
	out = append(out, s.fields...)
	return append(out, fields...)
}

func (s *scoped) Debug(msg string, fields ...Field) { s.next.Debug(msg, s.join(fields)...) }
func (s *scoped) Info(msg string, fields ...Field)  { s.next.Info(msg, s.join(fields)...) }
func (s *scoped) Warn(msg string, fields ...Field)  { s.next.Warn(msg, s.join(fields)...) }
func (s *scoped) Error(msg string, fields ...Field) { s.next.Error(msg, s.join(fields)...) }
