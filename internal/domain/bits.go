package domain

import (
	"fmt"
	"strings"
)

// Bits is a little-endian bit set over bytes: bit n lives in byte n/8 at
// position n%8. Panels report object states and the new-states mask this way.
type Bits []byte

// NewBits returns an all-clear set able to hold n bits.
func NewBits(n int) Bits {
	if n <= 0 {
		return Bits{}
	}
	return make(Bits, (n+7)/8)
}

// BitsOf returns a set with the given bit numbers set, sized to hold size bits
// (or the highest index, whichever is larger).
func BitsOf(size int, set ...int) Bits {
	max := size
	for _, n := range set {
		if n+1 > max {
			max = n + 1
		}
	}
	b := NewBits(max)
	for _, n := range set {
		b.Set(n)
	}
	return b
}

// IsSet reports whether bit n is set. Out-of-range bits are clear.
func (b Bits) IsSet(n int) bool {
	if n < 0 || n/8 >= len(b) {
		return false
	}
	return b[n/8]&(1<<(uint(n)%8)) != 0
}

// Set sets bit n. It panics if n is outside the set.
func (b Bits) Set(n int) {
	b[n/8] |= 1 << (uint(n) % 8)
}

// Count returns the number of set bits.
func (b Bits) Count() int {
	c := 0
	for _, v := range b {
		for ; v != 0; v &= v - 1 {
			c++
		}
	}
	return c
}

// Indices returns the set bit numbers in ascending order.
func (b Bits) Indices() []int {
	var out []int
	for i := 0; i < len(b)*8; i++ {
		if b.IsSet(i) {
			out = append(out, i)
		}
	}
	return out
}

// Padded returns a copy of b extended with zero bytes to at least n bytes.
func (b Bits) Padded(n int) Bits {
	size := len(b)
	if n > size {
		size = n
	}
	out := make(Bits, size)
	copy(out, b)
	return out
}

// Clone returns an independent copy.
func (b Bits) Clone() Bits {
	return append(Bits(nil), b...)
}

// String lists set bits as 1-based object numbers, the way panels number them.
func (b Bits) String() string {
	idx := b.Indices()
	parts := make([]string, len(idx))
	for i, n := range idx {
		parts[i] = fmt.Sprintf("%d", n+1)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
