package domain

import "fmt"

// IntegraType identifies the panel hardware variant. It is Unknown until the
// panel answers an identification request.
type IntegraType int

const (
	IntegraUnknown IntegraType = iota
	IntegraI24
	IntegraI32
	IntegraI64
	IntegraI128
	IntegraI128SIM300
	IntegraI128LEON
	IntegraI64Plus
	IntegraI128Plus
	IntegraI256Plus
)

var integraTypes = map[IntegraType]struct {
	code byte
	name string
}{
	IntegraI24:        {0, "INTEGRA 24"},
	IntegraI32:        {1, "INTEGRA 32"},
	IntegraI64:        {2, "INTEGRA 64"},
	IntegraI128:       {3, "INTEGRA 128"},
	IntegraI128SIM300: {4, "INTEGRA 128-WRL SIM300"},
	IntegraI128LEON:   {132, "INTEGRA 128-WRL LEON"},
	IntegraI64Plus:    {66, "INTEGRA 64 PLUS"},
	IntegraI128Plus:   {67, "INTEGRA 128 PLUS"},
	IntegraI256Plus:   {72, "INTEGRA 256 PLUS"},
}

// IntegraTypeFromCode maps the type byte of an identification response.
// Unrecognized codes map to IntegraUnknown.
func IntegraTypeFromCode(code byte) IntegraType {
	for t, info := range integraTypes {
		if info.code == code {
			return t
		}
	}
	return IntegraUnknown
}

// Code returns the panel type byte. Unknown has no code and returns 0xFF.
func (t IntegraType) Code() byte {
	if info, ok := integraTypes[t]; ok {
		return info.code
	}
	return 0xFF
}

// String returns the marketing name of the variant.
func (t IntegraType) String() string {
	if info, ok := integraTypes[t]; ok {
		return info.name
	}
	if t == IntegraUnknown {
		return "Unknown"
	}
	return fmt.Sprintf("IntegraType(%d)", int(t))
}

// Known reports whether t is a recognized variant.
func (t IntegraType) Known() bool {
	_, ok := integraTypes[t]
	return ok
}

// ObjectCapacity returns how many zones and outputs the variant addresses.
func (t IntegraType) ObjectCapacity() int {
	if t == IntegraI256Plus {
		return 256
	}
	return 128
}
