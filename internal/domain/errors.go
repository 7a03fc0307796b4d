package domain

import "errors"

// Domain errors represent error conditions in the satelink domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrAlreadyOpen is returned when Open() is called on an open module.
	ErrAlreadyOpen = errors.New("satelink: module already open")

	// ErrNotOpen is returned when Close() is called on a closed module.
	ErrNotOpen = errors.New("satelink: module not open")

	// ErrNotInitialized is returned when a command needs the panel type but the
	// panel has not identified itself yet.
	ErrNotInitialized = errors.New("satelink: module not initialized")

	// ErrInvalidTransition is returned when the engine state machine rejects a
	// transition.
	ErrInvalidTransition = errors.New("satelink: invalid state transition")

	// ErrShutdownTimeout is returned when the communication loop does not stop
	// within the shutdown timeout.
	ErrShutdownTimeout = errors.New("satelink: shutdown timeout exceeded")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("satelink: invalid configuration")

	// ErrUnsupportedCommand is returned for a command code with no handler.
	ErrUnsupportedCommand = errors.New("satelink: unsupported command")

	// ErrMalformedResponse is returned when a response payload cannot be decoded.
	ErrMalformedResponse = errors.New("satelink: malformed response")

	// ErrInvalidUserCode is returned when a user code is not 4 to 16 decimal digits.
	ErrInvalidUserCode = errors.New("satelink: invalid user code")

	// ErrUnknownStateType is returned when a state name does not parse.
	ErrUnknownStateType = errors.New("satelink: unknown state type")

	// ErrObjectRange is returned when a control targets no objects or objects
	// beyond the panel's capacity.
	ErrObjectRange = errors.New("satelink: object number out of range")

	// ErrUnknownControlType is returned when a control name does not parse.
	ErrUnknownControlType = errors.New("satelink: unknown control type")
)
