// Package bitset provides a fixed-width 128-bit set used as the sole state
// primitive in the branch-and-bound hot loop: two 64-bit limbs, no
// allocation, every operation total and deterministic.
package bitset

import (
	"fmt"
	"math/bits"
)

// BitSet128 is a 128-bit vector of bits indexed 0..127, stored as two
// 64-bit limbs (Lo holds bits 0-63, Hi holds bits 64-127). The zero value
// is the empty set.
type BitSet128 struct {
	Lo uint64
	Hi uint64
}

// Set returns a copy of b with bit p set. p must be in [0,127].
func (b BitSet128) Set(p int) BitSet128 {
	if p < 64 {
		b.Lo |= uint64(1) << uint(p)
	} else {
		b.Hi |= uint64(1) << uint(p-64)
	}
	return b
}

// Test reports whether bit p is set. p must be in [0,127].
func (b BitSet128) Test(p int) bool {
	if p < 64 {
		return b.Lo&(uint64(1)<<uint(p)) != 0
	}
	return b.Hi&(uint64(1)<<uint(p-64)) != 0
}

// Shl returns b shifted left by k bits. Bits shifted past 127 are lost.
// Shl by 0 is identity; Shl by 128 or more yields the empty set.
func (b BitSet128) Shl(k int) BitSet128 {
	switch {
	case k <= 0:
		return b
	case k >= 128:
		return BitSet128{}
	case k >= 64:
		return BitSet128{Lo: 0, Hi: b.Lo << uint(k-64)}
	default:
		return BitSet128{
			Lo: b.Lo << uint(k),
			Hi: (b.Hi << uint(k)) | (b.Lo >> uint(64-k)),
		}
	}
}

// And returns the bitwise AND of b and o.
func (b BitSet128) And(o BitSet128) BitSet128 {
	return BitSet128{Lo: b.Lo & o.Lo, Hi: b.Hi & o.Hi}
}

// Or returns the bitwise OR of b and o.
func (b BitSet128) Or(o BitSet128) BitSet128 {
	return BitSet128{Lo: b.Lo | o.Lo, Hi: b.Hi | o.Hi}
}

// Xor returns the bitwise XOR of b and o.
func (b BitSet128) Xor(o BitSet128) BitSet128 {
	return BitSet128{Lo: b.Lo ^ o.Lo, Hi: b.Hi ^ o.Hi}
}

// Any reports whether any bit is set.
func (b BitSet128) Any() bool {
	return b.Lo != 0 || b.Hi != 0
}

// PopCount returns the number of set bits.
func (b BitSet128) PopCount() int {
	return bits.OnesCount64(b.Lo) + bits.OnesCount64(b.Hi)
}

// String renders the set as its two hex limbs, high limb first.
func (b BitSet128) String() string {
	return fmt.Sprintf("%016x%016x", b.Hi, b.Lo)
}

// MarshalBinary encodes b as two 64-bit little-endian words, low limb
// first.
func (b BitSet128) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 16)
	putUint64LE(buf[0:8], b.Lo)
	putUint64LE(buf[8:16], b.Hi)
	return buf, nil
}

// UnmarshalBinary decodes b from the format written by MarshalBinary.
func (b *BitSet128) UnmarshalBinary(data []byte) error {
	if len(data) != 16 {
		return fmt.Errorf("bitset: UnmarshalBinary: need 16 bytes, got %d", len(data))
	}
	b.Lo = getUint64LE(data[0:8])
	b.Hi = getUint64LE(data[8:16])
	return nil
}

func putUint64LE(dst []byte, v uint64) {
	for i := 0; i < 8; i++ {
		dst[i] = byte(v >> uint(8*i))
	}
}

func getUint64LE(src []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(src[i]) << uint(8*i)
	}
	return v
}
