package satel

import (
	"github.com/bft-labs/satelink/internal/app"
	"github.com/bft-labs/satelink/internal/command"
	"github.com/bft-labs/satelink/internal/domain"
	"github.com/bft-labs/satelink/internal/event"
	"github.com/bft-labs/satelink/internal/ports"
	"github.com/bft-labs/satelink/pkg/log"
)

// Re-export types from internal packages for convenient access.
type (
	// Message is a command code plus payload.
	Message = domain.Message

	// Bits is a little-endian bit set; bit n addresses object n+1.
	Bits = domain.Bits

	// IntegraType identifies the panel variant.
	IntegraType = domain.IntegraType

	// StateType is a state refresh command.
	StateType = domain.StateType

	// ControlType is a control command.
	ControlType = domain.ControlType

	// ObjectType groups states and controls by panel object.
	ObjectType = domain.ObjectType

	// Event is a decoded panel response.
	Event = domain.Event

	// IntegraVersionEvent is published when the panel identifies itself.
	IntegraVersionEvent = domain.IntegraVersionEvent

	// NewStatesEvent flags state kinds with fresh data.
	NewStatesEvent = domain.NewStatesEvent

	// IntegraStateEvent is a snapshot of one state kind.
	IntegraStateEvent = domain.IntegraStateEvent

	// ControlResultEvent is the panel's answer to a control command.
	ControlResultEvent = domain.ControlResultEvent

	// Listener receives events.
	Listener = event.Listener

	// Transport opens connections to the panel.
	Transport = ports.Transport

	// Conn is one open connection.
	Conn = ports.Conn

	// Publisher delivers events to the module's listeners.
	Publisher = ports.EventPublisher

	// Registry maps request codes to response handlers.
	Registry = command.Registry

	// Handler decodes one response kind.
	Handler = command.Handler

	// HandlerFunc adapts a function to Handler.
	HandlerFunc = command.HandlerFunc

	// Logger is the structured logger interface.
	Logger = log.Logger

	// State is the connection state of the module.
	State = app.State
)

// Connection states.
const (
	StateDisconnected     = app.StateDisconnected
	StateConnecting       = app.StateConnecting
	StateConnectedIdle    = app.StateConnectedIdle
	StateAwaitingResponse = app.StateAwaitingResponse
	StateFaulted          = app.StateFaulted
)

// Panel variants.
const (
	IntegraUnknown    = domain.IntegraUnknown
	IntegraI24        = domain.IntegraI24
	IntegraI32        = domain.IntegraI32
	IntegraI64        = domain.IntegraI64
	IntegraI128       = domain.IntegraI128
	IntegraI128SIM300 = domain.IntegraI128SIM300
	IntegraI128LEON   = domain.IntegraI128LEON
	IntegraI64Plus    = domain.IntegraI64Plus
	IntegraI128Plus   = domain.IntegraI128Plus
	IntegraI256Plus   = domain.IntegraI256Plus
)

// Errors returned by the module. Check with errors.Is.
var (
	ErrAlreadyOpen        = domain.ErrAlreadyOpen
	ErrNotOpen            = domain.ErrNotOpen
	ErrNotInitialized     = domain.ErrNotInitialized
	ErrInvalidConfig      = domain.ErrInvalidConfig
	ErrInvalidUserCode    = domain.ErrInvalidUserCode
	ErrObjectRange        = domain.ErrObjectRange
	ErrUnknownStateType   = domain.ErrUnknownStateType
	ErrUnknownControlType = domain.ErrUnknownControlType
	ErrShutdownTimeout    = domain.ErrShutdownTimeout
)

// NewMessage builds a message; the payload is copied.
func NewMessage(cmd byte, payload []byte) Message {
	return domain.NewMessage(cmd, payload)
}

// ListenerFunc adapts fn into a Listener that can be unsubscribed.
func ListenerFunc(fn func(Event)) Listener {
	return event.Func(fn)
}

// ObjectBits returns a set with the given 1-based object numbers set.
func ObjectBits(objects ...int) Bits {
	idx := make([]int, 0, len(objects))
	for _, n := range objects {
		if n > 0 {
			idx = append(idx, n-1)
		}
	}
	return domain.BitsOf(0, idx...)
}

// ParseStateType parses "object:state", e.g. "zone:violation".
func ParseStateType(s string) (StateType, error) {
	return domain.ParseStateType(s)
}

// ParseStateTypes parses a list of state names, dropping duplicates.
func ParseStateTypes(list []string) ([]StateType, error) {
	return domain.ParseStateTypes(list)
}

// ParseControlType parses "object:control", e.g. "output:on".
func ParseControlType(s string) (ControlType, error) {
	return domain.ParseControlType(s)
}

// IntegraVersionRequest asks the panel to identify itself.
func IntegraVersionRequest() Message { return command.IntegraVersionRequest() }

// NewStatesRequest asks which state kinds changed.
func NewStatesRequest() Message { return command.NewStatesRequest() }

// StateRequest asks for a snapshot of st.
func StateRequest(st StateType) Message { return command.StateRequest(st) }

// ControlRequest builds a control command, see Module.Control.
func ControlRequest(ct ControlType, userCode string, objects Bits, it IntegraType) (Message, error) {
	return command.ControlRequest(ct, userCode, objects, it)
}

// Control commands.
var (
	PartitionArmMode0   = domain.PartitionArmMode0
	PartitionArmMode1   = domain.PartitionArmMode1
	PartitionArmMode2   = domain.PartitionArmMode2
	PartitionArmMode3   = domain.PartitionArmMode3
	PartitionDisarm     = domain.PartitionDisarm
	PartitionClearAlarm = domain.PartitionClearAlarm
	OutputOn            = domain.OutputOn
	OutputOff           = domain.OutputOff
	OutputToggle        = domain.OutputToggle
)

// StateTypes returns every known state refresh command ordered by code.
func StateTypes() []StateType { return domain.StateTypes() }

// ControlTypes returns every known control command.
func ControlTypes() []ControlType { return domain.ControlTypes() }

// State refresh commands.
var (
	ZoneViolation            = domain.ZoneViolation
	ZoneTamper               = domain.ZoneTamper
	ZoneAlarm                = domain.ZoneAlarm
	ZoneTamperAlarm          = domain.ZoneTamperAlarm
	ZoneAlarmMemory          = domain.ZoneAlarmMemory
	ZoneTamperAlarmMemory    = domain.ZoneTamperAlarmMemory
	ZoneBypass               = domain.ZoneBypass
	ZoneNoViolationTrouble   = domain.ZoneNoViolationTrouble
	ZoneLongViolationTrouble = domain.ZoneLongViolationTrouble
	ZoneIsolate              = domain.ZoneIsolate
	ZoneMasked               = domain.ZoneMasked
	ZoneMaskedMemory         = domain.ZoneMaskedMemory

	PartitionArmedSuppressed  = domain.PartitionArmedSuppressed
	PartitionArmed            = domain.PartitionArmed
	PartitionArmedMode2       = domain.PartitionArmedMode2
	PartitionArmedMode3       = domain.PartitionArmedMode3
	PartitionFirstCodeEntered = domain.PartitionFirstCodeEntered
	PartitionEntryTime        = domain.PartitionEntryTime
	PartitionExitTimeLong     = domain.PartitionExitTimeLong
	PartitionExitTimeShort    = domain.PartitionExitTimeShort
	PartitionTemporaryBlocked = domain.PartitionTemporaryBlocked
	PartitionBlockedForGuard  = domain.PartitionBlockedForGuard
	PartitionAlarm            = domain.PartitionAlarm
	PartitionFireAlarm        = domain.PartitionFireAlarm
	PartitionAlarmMemory      = domain.PartitionAlarmMemory
	PartitionFireAlarmMemory  = domain.PartitionFireAlarmMemory

	OutputState = domain.OutputState

	DoorsOpened     = domain.DoorsOpened
	DoorsOpenedLong = domain.DoorsOpenedLong
)
