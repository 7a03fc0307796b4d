package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ObjectType groups state and control commands by the panel object they
// address.
type ObjectType int

const (
	ObjectZone ObjectType = iota
	ObjectPartition
	ObjectOutput
	ObjectDoors
)

// String returns the lower-case object name used in state strings.
func (o ObjectType) String() string {
	switch o {
	case ObjectZone:
		return "zone"
	case ObjectPartition:
		return "partition"
	case ObjectOutput:
		return "output"
	case ObjectDoors:
		return "doors"
	default:
		return fmt.Sprintf("object(%d)", int(o))
	}
}

// ParseObjectType is the inverse of ObjectType.String.
func ParseObjectType(s string) (ObjectType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zone", "input":
		return ObjectZone, true
	case "partition":
		return ObjectPartition, true
	case "output":
		return ObjectOutput, true
	case "doors":
		return ObjectDoors, true
	}
	return 0, false
}

// StateType is one state-refresh command. Its command code is both the
// request code and the bit index in the new-states mask.
type StateType struct {
	Code   byte
	Object ObjectType
	Name   string
}

// String renders "object:name", e.g. "zone:violation".
func (s StateType) String() string {
	return s.Object.String() + ":" + s.Name
}

// State refresh commands.
var (
	ZoneViolation            = StateType{0x00, ObjectZone, "violation"}
	ZoneTamper               = StateType{0x01, ObjectZone, "tamper"}
	ZoneAlarm                = StateType{0x02, ObjectZone, "alarm"}
	ZoneTamperAlarm          = StateType{0x03, ObjectZone, "tamper_alarm"}
	ZoneAlarmMemory          = StateType{0x04, ObjectZone, "alarm_memory"}
	ZoneTamperAlarmMemory    = StateType{0x05, ObjectZone, "tamper_alarm_memory"}
	ZoneBypass               = StateType{0x06, ObjectZone, "bypass"}
	ZoneNoViolationTrouble   = StateType{0x07, ObjectZone, "no_violation_trouble"}
	ZoneLongViolationTrouble = StateType{0x08, ObjectZone, "long_violation_trouble"}
	ZoneIsolate              = StateType{0x26, ObjectZone, "isolate"}
	ZoneMasked               = StateType{0x28, ObjectZone, "masked"}
	ZoneMaskedMemory         = StateType{0x29, ObjectZone, "masked_memory"}

	PartitionArmedSuppressed  = StateType{0x09, ObjectPartition, "armed_suppressed"}
	PartitionArmed            = StateType{0x0A, ObjectPartition, "armed"}
	PartitionArmedMode2       = StateType{0x0B, ObjectPartition, "armed_mode2"}
	PartitionArmedMode3       = StateType{0x0C, ObjectPartition, "armed_mode3"}
	PartitionFirstCodeEntered = StateType{0x0D, ObjectPartition, "first_code_entered"}
	PartitionEntryTime        = StateType{0x0E, ObjectPartition, "entry_time"}
	PartitionExitTimeLong     = StateType{0x0F, ObjectPartition, "exit_time_long"}
	PartitionExitTimeShort    = StateType{0x10, ObjectPartition, "exit_time_short"}
	PartitionTemporaryBlocked = StateType{0x11, ObjectPartition, "temporary_blocked"}
	PartitionBlockedForGuard  = StateType{0x12, ObjectPartition, "blocked_for_guard"}
	PartitionAlarm            = StateType{0x13, ObjectPartition, "alarm"}
	PartitionFireAlarm        = StateType{0x14, ObjectPartition, "fire_alarm"}
	PartitionAlarmMemory      = StateType{0x15, ObjectPartition, "alarm_memory"}
	PartitionFireAlarmMemory  = StateType{0x16, ObjectPartition, "fire_alarm_memory"}

	OutputState = StateType{0x17, ObjectOutput, "state"}

	DoorsOpened     = StateType{0x18, ObjectDoors, "opened"}
	DoorsOpenedLong = StateType{0x19, ObjectDoors, "opened_long"}
)

// StateTypes returns every known state refresh command ordered by code.
func StateTypes() []StateType {
	all := []StateType{
		ZoneViolation, ZoneTamper, ZoneAlarm, ZoneTamperAlarm, ZoneAlarmMemory,
		ZoneTamperAlarmMemory, ZoneBypass, ZoneNoViolationTrouble,
		ZoneLongViolationTrouble, ZoneIsolate, ZoneMasked, ZoneMaskedMemory,
		PartitionArmedSuppressed, PartitionArmed, PartitionArmedMode2,
		PartitionArmedMode3, PartitionFirstCodeEntered, PartitionEntryTime,
		PartitionExitTimeLong, PartitionExitTimeShort, PartitionTemporaryBlocked,
		PartitionBlockedForGuard, PartitionAlarm, PartitionFireAlarm,
		PartitionAlarmMemory, PartitionFireAlarmMemory,
		OutputState,
		DoorsOpened, DoorsOpenedLong,
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return all
}

// ParseStateType parses "object:name". An output without a name means
// "output:state".
func ParseStateType(s string) (StateType, error) {
	objName, stateName, _ := strings.Cut(strings.TrimSpace(s), ":")
	obj, ok := ParseObjectType(objName)
	if !ok {
		return StateType{}, fmt.Errorf("%w: %q", ErrUnknownStateType, s)
	}
	stateName = strings.ToLower(strings.TrimSpace(stateName))
	if obj == ObjectOutput && stateName == "" {
		return OutputState, nil
	}
	for _, st := range StateTypes() {
		if st.Object == obj && st.Name == stateName {
			return st, nil
		}
	}
	return StateType{}, fmt.Errorf("%w: %q", ErrUnknownStateType, s)
}

// ParseStateTypes parses a list of state strings, dropping duplicates while
// keeping first-seen order.
func ParseStateTypes(list []string) ([]StateType, error) {
	out := make([]StateType, 0, len(list))
	seen := make(map[byte]bool, len(list))
	for _, s := range list {
		if strings.TrimSpace(s) == "" {
			continue
		}
		st, err := ParseStateType(s)
		if err != nil {
			return nil, err
		}
		if seen[st.Code] {
			continue
		}
		seen[st.Code] = true
		out = append(out, st)
	}
	return out, nil
}
