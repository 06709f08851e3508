package cpu

import (
	"math/bits"

	"zilo/mask"
)

// Flags is the Z80 status word, kept unpacked as individual bits so
// instruction bodies can
// read/write a single named flag without re-deriving it from a byte on
// every access. ToByte/FlagsFromByte are the only places the packed
// representation is materialized.
//
// Bit order, high to low: S Z Y H X P N C. Y and X are the undocumented
// bits 5 and 3, copied from instruction results rather than computed from
// any condition.
type Flags struct {
	S bool // sign
	Z bool // zero
	Y bool // undocumented, bit 5
	H bool // half carry
	X bool // undocumented, bit 3
	P bool // parity / overflow
	N bool // add/subtract
	C bool // carry
}

// ToByte packs the eight flags into the F register's byte representation.
func (f Flags) ToByte() byte {
	var b byte
	if f.S {
		b |= 0x80
	}
	if f.Z {
		b |= 0x40
	}
	if f.Y {
		b |= 0x20
	}
	if f.H {
		b |= 0x10
	}
	if f.X {
		b |= 0x08
	}
	if f.P {
		b |= 0x04
	}
	if f.N {
		b |= 0x02
	}
	if f.C {
		b |= 0x01
	}
	return b
}

// FlagsFromByte unpacks val into a Flags value.
func FlagsFromByte(val byte) Flags {
	return Flags{
		S: mask.IsSet(val, mask.I1),
		Z: mask.IsSet(val, mask.I2),
		Y: mask.IsSet(val, mask.I3),
		H: mask.IsSet(val, mask.I4),
		X: mask.IsSet(val, mask.I5),
		P: mask.IsSet(val, mask.I6),
		N: mask.IsSet(val, mask.I7),
		C: mask.IsSet(val, mask.I8),
	}
}

// setXY copies bits 5 and 3 of result into Y and X, the pattern nearly
// every flag-affecting instruction in this emulator follows.
func (f *Flags) setXY(result byte) {
	f.Y = mask.IsSet(result, mask.I3)
	f.X = mask.IsSet(result, mask.I5)
}

// reset clears every flag bit.
func (f *Flags) reset() {
	*f = Flags{}
}

// parity reports even parity of b (true when the number of set bits is
// even), used for the P/V flag of AND/OR/XOR, rotates/shifts and BIT.
func parity(b byte) bool {
	return parityTable[b]
}

// parityTable precomputes parity for all 256 byte values, the same
// lookup-table idiom the optimizer's flag tables in the example pack use,
// built here with math/bits rather than a manual popcount loop.
var parityTable [256]bool

func init() {
	for i := range 256 {
		parityTable[i] = bits.OnesCount8(byte(i))%2 == 0
	}
}
