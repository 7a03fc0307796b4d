package ports

import "github.com/bft-labs/satelink/pkg/log"

// Logger is the structured logger used by internal packages.
type Logger = log.Logger

// Field is a structured log field.
type Field = log.Field

// Field constructors re-exported so internal packages import only ports.
var (
	String   = log.String
	Int      = log.Int
	Int64    = log.Int64
	Bool     = log.Bool
	Duration = log.Duration
	Byte     = log.Byte
	Hex      = log.Hex
	Err      = log.Err
	Any      = log.Any
)

// WithFields scopes a logger, see log.With.
func WithFields(l Logger, fields ...Field) Logger {
	return log.With(l, fields...)
}
