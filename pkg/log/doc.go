// Package log provides the logging abstraction used across satelink.
//
// Components never talk to a logging library directly. They receive a
// Logger and attach typed fields to each message. Default implementations
// are provided for zerolog and a no-op logger for tests and embedders that
// do not want output.
//
// # Usage
//
// Use the provided zerolog adapter:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//
// Scope a logger to a component so every line carries it:
//
//	engineLog := log.With(logger, log.String("component", "engine"))
//
// Wire bytes are logged with Hex:
//
//	logger.Debug("frame written", log.Hex("frame", raw))
//
// # Custom Loggers
//
// Implement the Logger interface to integrate with existing logging
// infrastructure:
//
//	type MyLogger struct { ... }
//
//	func (l *MyLogger) Debug(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Info(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Warn(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Error(msg string, fields ...log.Field) { ... }
package log
