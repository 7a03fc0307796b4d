package domain

import (
	"fmt"
	"strings"
)

// ControlType is one control command. After a successful control the panel
// state named by Refresh is stale and gets re-requested.
type ControlType struct {
	Code    byte
	Object  ObjectType
	Name    string
	Refresh StateType
}

// String renders "object:name", e.g. "output:on".
func (c ControlType) String() string {
	return c.Object.String() + ":" + c.Name
}

// Control commands.
var (
	PartitionArmMode0   = ControlType{0x80, ObjectPartition, "arm_mode0", PartitionArmed}
	PartitionArmMode1   = ControlType{0x81, ObjectPartition, "arm_mode1", PartitionArmed}
	PartitionArmMode2   = ControlType{0x82, ObjectPartition, "arm_mode2", PartitionArmedMode2}
	PartitionArmMode3   = ControlType{0x83, ObjectPartition, "arm_mode3", PartitionArmedMode3}
	PartitionDisarm     = ControlType{0x84, ObjectPartition, "disarm", PartitionArmed}
	PartitionClearAlarm = ControlType{0x85, ObjectPartition, "clear_alarm", PartitionAlarm}

	OutputOn     = ControlType{0x88, ObjectOutput, "on", OutputState}
	OutputOff    = ControlType{0x89, ObjectOutput, "off", OutputState}
	OutputToggle = ControlType{0x91, ObjectOutput, "toggle", OutputState}
)

// ControlTypes returns every known control command.
func ControlTypes() []ControlType {
	return []ControlType{
		PartitionArmMode0, PartitionArmMode1, PartitionArmMode2, PartitionArmMode3,
		PartitionDisarm, PartitionClearAlarm,
		OutputOn, OutputOff, OutputToggle,
	}
}

// ParseControlType parses "object:name", e.g. "output:toggle".
func ParseControlType(s string) (ControlType, error) {
	objName, name, _ := strings.Cut(strings.TrimSpace(s), ":")
	obj, ok := ParseObjectType(objName)
	if ok {
		name = strings.ToLower(strings.TrimSpace(name))
		for _, ct := range ControlTypes() {
			if ct.Object == obj && ct.Name == name {
				return ct, nil
			}
		}
	}
	return ControlType{}, fmt.Errorf("%w: %q", ErrUnknownControlType, s)
}
