package domain

import "fmt"

// Event is a value published by a command handler after decoding a response.
// Events are never built anywhere else.
type Event interface {
	// Kind names the event variant for logs and filtering.
	Kind() string
	fmt.Stringer
}

// IntegraVersionEvent carries the decoded identification response.
type IntegraVersionEvent struct {
	Type            byte
	Version         string
	Language        byte
	SettingsInFlash bool
}

func (IntegraVersionEvent) Kind() string { return "integra-version" }

// IntegraType maps the raw type byte.
func (e IntegraVersionEvent) IntegraType() IntegraType {
	return IntegraTypeFromCode(e.Type)
}

func (e IntegraVersionEvent) String() string {
	return fmt.Sprintf("IntegraVersionEvent: type = %d, version = %s, language = %d, settingsInFlash = %t",
		e.Type, e.Version, e.Language, e.SettingsInFlash)
}

// NewStatesEvent flags which state commands have fresh data on the panel.
// Bit n corresponds to command code n.
type NewStatesEvent struct {
	states Bits
}

// NewNewStatesEvent copies states into a new event.
func NewNewStatesEvent(states Bits) NewStatesEvent {
	return NewStatesEvent{states: states.Clone()}
}

func (NewStatesEvent) Kind() string { return "new-states" }

// IsNew reports whether the state with the given command code changed.
func (e NewStatesEvent) IsNew(code byte) bool {
	return e.states.IsSet(int(code))
}

// States returns a copy of the mask.
func (e NewStatesEvent) States() Bits {
	return e.states.Clone()
}

func (e NewStatesEvent) String() string {
	return fmt.Sprintf("NewStatesEvent: changed = %s", e.states)
}

// IntegraStateEvent is a snapshot of one state kind across all objects.
// Bit n is object n+1.
type IntegraStateEvent struct {
	stateType StateType
	bits      Bits
}

// NewIntegraStateEvent copies bits into a new event.
func NewIntegraStateEvent(st StateType, bits Bits) IntegraStateEvent {
	return IntegraStateEvent{stateType: st, bits: bits.Clone()}
}

func (IntegraStateEvent) Kind() string { return "integra-state" }

// StateType returns the state kind of the snapshot.
func (e IntegraStateEvent) StateType() StateType {
	return e.stateType
}

// IsSet reports whether object bit n (zero based) is set.
func (e IntegraStateEvent) IsSet(n int) bool {
	return e.bits.IsSet(n)
}

// StatesSet returns how many objects are in the state.
func (e IntegraStateEvent) StatesSet() int {
	return e.bits.Count()
}

// Bits returns a copy of the snapshot.
func (e IntegraStateEvent) Bits() Bits {
	return e.bits.Clone()
}

func (e IntegraStateEvent) String() string {
	return fmt.Sprintf("IntegraStateEvent: state = %s, set = %s", e.stateType, e.bits)
}

// ControlResultEvent reports the panel's answer to a control command.
type ControlResultEvent struct {
	Control ControlType
	Result  byte
}

func (ControlResultEvent) Kind() string { return "control-result" }

// OK reports whether the panel accepted the command.
func (e ControlResultEvent) OK() bool {
	return e.Result == ResultOK || e.Result == ResultAccepted
}

func (e ControlResultEvent) String() string {
	return fmt.Sprintf("ControlResultEvent: control = %s, result = %02X (%s)", e.Control, e.Result, ResultText(e.Result))
}

// Result codes carried by the 0xEF response.
const (
	ResultOK       byte = 0x00
	ResultAccepted byte = 0xFF
)

var resultTexts = map[byte]string{
	0x00: "ok",
	0x01: "user code not found",
	0x02: "no access",
	0x03: "selected user does not exist",
	0x04: "selected user already exists",
	0x05: "wrong code or code already exists",
	0x06: "telephone code already exists",
	0x07: "changed code is the same",
	0x08: "other error",
	0x11: "cannot arm, but can use force arm",
	0x12: "cannot arm",
	0xFF: "command accepted",
}

// ResultText describes a result code.
func ResultText(code byte) string {
	if s, ok := resultTexts[code]; ok {
		return s
	}
	if code >= 0x80 && code <= 0x8F {
		return "other error"
	}
	return "unknown result"
}
