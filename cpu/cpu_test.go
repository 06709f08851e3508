package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReset(t *testing.T) {
	c := New()
	c.A = 0x12
	c.PC = 0x1234
	c.IFF1, c.IFF2 = true, true
	c.Bus.Write(0, 0xAB)

	c.Reset()

	assert.Equal(t, byte(0xFF), c.A)
	assert.Equal(t, byte(0xFF), c.B)
	assert.Equal(t, uint16(0xFFFF), c.SP)
	assert.Equal(t, uint16(0x0000), c.PC)
	assert.Equal(t, uint16(0xFFFF), c.AltAF)
	assert.Equal(t, byte(0xFF), c.Flags.ToByte())
	assert.False(t, c.IFF1)
	assert.False(t, c.IFF2)
	assert.Equal(t, IM0, c.IM)
	assert.Equal(t, byte(0), c.Bus.Read(0))

	// reset; reset() is idempotent
	c.Reset()
	assert.Equal(t, byte(0xFF), c.A)
	assert.Equal(t, uint16(0x0000), c.PC)
}

func TestPairAccessorsRoundTrip(t *testing.T) {
	c := New()
	for _, v := range []uint16{0x0000, 0xFFFF, 0x00FF, 0xFF00, 0x1234, 0xABCD, 0x8001, 0x7E7E} {
		c.SetAF(v)
		assert.Equal(t, v&0xFFFF, c.GetAF(), "AF round trip %#04x", v)
		c.SetBC(v)
		assert.Equal(t, v, c.GetBC(), "BC round trip %#04x", v)
		c.SetDE(v)
		assert.Equal(t, v, c.GetDE(), "DE round trip %#04x", v)
		c.SetHL(v)
		assert.Equal(t, v, c.GetHL(), "HL round trip %#04x", v)
		c.SetIX(v)
		assert.Equal(t, v, c.GetIX(), "IX round trip %#04x", v)
		c.SetIY(v)
		assert.Equal(t, v, c.GetIY(), "IY round trip %#04x", v)
	}
}

func TestFlagByteRoundTrip(t *testing.T) {
	for v := 0; v < 256; v++ {
		f := FlagsFromByte(byte(v))
		assert.Equal(t, byte(v), f.ToByte(), "flag byte round trip %#02x", v)
	}
}

// Block move via LDIR.
func TestScenarioBlockMove(t *testing.T) {
	c := New()
	c.LoadProgram([]byte{0x21, 0x64, 0x00, 0x11, 0xF0, 0x00, 0x01, 0x20, 0x00, 0xED, 0xB0}, 0)
	for i := 0; i < 0x20; i++ {
		c.Bus.Write(0x0064+uint16(i), byte(i))
	}

	for c.PC != 0x000B {
		c.Step()
	}

	for i := 0; i < 0x20; i++ {
		assert.Equal(t, c.Bus.Read(0x0064+uint16(i)), c.Bus.Read(0x00F0+uint16(i)))
	}
	assert.Equal(t, uint16(0x0084), c.GetHL())
	assert.Equal(t, uint16(0x0110), c.GetDE())
	assert.Equal(t, uint16(0x0000), c.GetBC())
}

// LDIR with BC==0 initially wraps and performs exactly one transfer.
func TestLDIRZeroBC(t *testing.T) {
	c := New()
	c.SetHL(0x2000)
	c.SetDE(0x3000)
	c.SetBC(0x0000)
	c.Bus.Write(0x2000, 0x55)
	c.LoadProgram([]byte{0xED, 0xB0}, 0)

	cycles := c.Step()

	assert.Equal(t, byte(0x55), c.Bus.Read(0x3000))
	assert.Equal(t, uint16(0xFFFF), c.GetBC())
	assert.Equal(t, uint16(2), c.PC) // did not loop back
	assert.Equal(t, uint16(16), cycles)
}

// ADD A,B with signed overflow.
func TestScenarioAddWithOverflow(t *testing.T) {
	c := New()
	c.A = 0x7F
	c.B = 0x01
	c.Flags.C = false
	c.LoadProgram([]byte{0x80}, 0)

	c.Step()

	assert.Equal(t, byte(0x80), c.A)
	assert.True(t, c.Flags.S)
	assert.False(t, c.Flags.Z)
	assert.True(t, c.Flags.H)
	assert.True(t, c.Flags.P)
	assert.False(t, c.Flags.N)
	assert.False(t, c.Flags.C)
}

// ADD then DAA on BCD operands.
func TestScenarioDAA(t *testing.T) {
	c := New()
	c.A = 0x15
	c.B = 0x27
	c.LoadProgram([]byte{0x80, 0x27}, 0) // ADD A,B ; DAA

	c.Step()
	assert.Equal(t, byte(0x3C), c.A)

	c.Step()
	assert.Equal(t, byte(0x42), c.A)
	assert.False(t, c.Flags.N)
	assert.False(t, c.Flags.C)
}

// 16x16 unsigned multiply by repeated add. DE is
// added into HL once per unit of the original L, using B (loaded from L)
// as a DJNZ counter; C is held at 0 as the unused high word since these
// operands never carry out of HL. Runs until PC reaches the HALT sentinel
// right after the loop.
func TestScenarioMultiply(t *testing.T) {
	c := New()
	c.SetHL(0x0003)
	c.SetDE(0x0004)
	c.SetBC(0x0000)

	program := []byte{
		0x45,             // 00: LD B,L
		0x21, 0x00, 0x00, // 01: LD HL,0x0000
		0x0E, 0x00, // 04: LD C,0x00
		0x19,       // 06: ADD HL,DE
		0x10, 0xFD, // 07: DJNZ 0x0006
		0x76, // 09: HALT (sentinel)
	}
	c.LoadProgram(program, 0)
	c.PC = 0

	for c.PC != 0x0009 {
		c.Step()
	}

	assert.Equal(t, uint16(0x000C), c.GetHL())
	assert.Equal(t, uint16(0x0000), c.GetBC())
	product := uint32(c.GetBC())<<16 | uint32(c.GetHL())
	assert.Equal(t, uint32(0x0000000C), product)
}

// ED 56 (IM 1).
func TestScenarioIM1(t *testing.T) {
	c := New()
	c.LoadProgram([]byte{0xED, 0x56}, 0)
	a, b, pc := c.A, c.B, c.PC

	cycles := c.Step()

	assert.Equal(t, IM1, c.IM)
	assert.Equal(t, a, c.A)
	assert.Equal(t, b, c.B)
	assert.Equal(t, pc+2, c.PC)
	assert.Equal(t, uint16(8), cycles)
}

// HALT re-entry.
func TestScenarioHalt(t *testing.T) {
	c := New()
	c.LoadProgram([]byte{0x76}, 0)

	c.Step()
	assert.Equal(t, uint16(0x0000), c.PC)
	assert.True(t, c.Halted)

	c.Step()
	assert.Equal(t, uint16(0x0000), c.PC)
	assert.True(t, c.Halted)
}

func TestDJNZNoBranchWhenBReachesZero(t *testing.T) {
	c := New()
	c.B = 1
	c.LoadProgram([]byte{0x10, 0xFE}, 0) // DJNZ -2 (self)

	c.Step()

	assert.Equal(t, byte(0), c.B)
	assert.Equal(t, uint16(2), c.PC) // did not branch back
}

func TestPCWrapsModulo64K(t *testing.T) {
	c := New()
	c.PC = 0xFFFF
	c.Bus.Write(0xFFFF, 0x00) // NOP

	c.Step()

	assert.Equal(t, uint16(0x0000), c.PC)
}

func TestParityMatchesEvenParity(t *testing.T) {
	for v := 0; v < 256; v++ {
		c := New()
		c.A = 0
		c.LoadProgram([]byte{0xA6}, 0) // AND (HL) -- exercises aluAnd's parity path
		c.SetHL(0x4000)
		c.Bus.Write(0x4000, byte(v))
		c.A = 0xFF
		c.Step()

		ones := 0
		for b := byte(v); b != 0; b &= b - 1 {
			ones++
		}
		assert.Equal(t, ones%2 == 0, c.Flags.P, "parity of %#02x", v)
	}
}

func TestIndexedRegisterRewiring(t *testing.T) {
	t.Run("LD IXH,n leaves L and H alone", func(t *testing.T) {
		c := New()
		c.H, c.L = 0x11, 0x22
		c.LoadProgram([]byte{0xDD, 0x26, 0x99}, 0) // LD IXH,0x99
		c.Step()
		assert.Equal(t, byte(0x99), c.IXH)
		assert.Equal(t, byte(0x11), c.H)
	})

	t.Run("LD (IX+d),n writes the effective address", func(t *testing.T) {
		c := New()
		c.SetIX(0x4000)
		c.LoadProgram([]byte{0xDD, 0x36, 0x05, 0x42}, 0) // LD (IX+5),0x42
		c.Step()
		assert.Equal(t, byte(0x42), c.Bus.Read(0x4005))
	})

	t.Run("EX DE,HL is exempt from DD rewiring", func(t *testing.T) {
		c := New()
		c.SetDE(0x1111)
		c.SetHL(0x2222)
		c.SetIX(0x3333)
		c.Prefix = 0xDD
		c.execBase(0xEB) // EX DE,HL
		assert.Equal(t, uint16(0x2222), c.GetDE())
		assert.Equal(t, uint16(0x1111), c.GetHL())
		assert.Equal(t, uint16(0x3333), c.GetIX())
	})

	t.Run("INC (IX+d) reads and writes the same effective address once", func(t *testing.T) {
		c := New()
		c.SetIX(0x5000)
		c.Bus.Write(0x5007, 0x0F)
		c.LoadProgram([]byte{0xDD, 0x34, 0x07}, 0) // INC (IX+7)
		c.Step()
		assert.Equal(t, byte(0x10), c.Bus.Read(0x5007))
		assert.Equal(t, uint16(3), c.PC) // displacement consumed exactly once
	})

	t.Run("DEC (IY+d) reads and writes the same effective address once", func(t *testing.T) {
		c := New()
		c.SetIY(0x6000)
		c.Bus.Write(0x6003, 0x01)
		c.LoadProgram([]byte{0xFD, 0x35, 0x03}, 0) // DEC (IY+3)
		c.Step()
		assert.Equal(t, byte(0x00), c.Bus.Read(0x6003))
		assert.Equal(t, uint16(3), c.PC)
	})

	t.Run("INC (HL) is unaffected by the indexed fix", func(t *testing.T) {
		c := New()
		c.SetHL(0x7000)
		c.Bus.Write(0x7000, 0x7F)
		c.LoadProgram([]byte{0x34}, 0) // INC (HL)
		c.Step()
		assert.Equal(t, byte(0x80), c.Bus.Read(0x7000))
	})
}

func TestUndocumentedSLL(t *testing.T) {
	c := New()
	c.B = 0x80
	c.LoadProgram([]byte{0xCB, 0x30}, 0) // SLL B

	c.Step()

	assert.Equal(t, byte(0x01), c.B)
	assert.True(t, c.Flags.C)
}

func TestIndexedBitWriteback(t *testing.T) {
	c := New()
	c.SetIX(0x5000)
	c.Bus.Write(0x5003, 0x00)
	c.LoadProgram([]byte{0xDD, 0xCB, 0x03, 0x06}, 0) // RLC (IX+3)

	c.Step()

	// RLC on 0x00 leaves 0x00: writeback target is the memory byte. With a
	// nonzero starting value the register field additionally receives the
	// computed result.
	c.SetIX(0x5000)
	c.Bus.Write(0x5003, 0x81)
	c.PC = 0
	c.LoadProgram([]byte{0xDD, 0xCB, 0x03, 0x00}, 0) // RLC (IX+3),B
	c.Step()

	assert.Equal(t, byte(0x03), c.Bus.Read(0x5003))
	assert.Equal(t, byte(0x03), c.B)
}

func TestNMIAndINT(t *testing.T) {
	t.Run("NMI clears IFF1 only and jumps to 0x0066", func(t *testing.T) {
		c := New()
		c.IFF1, c.IFF2 = true, true
		c.PC = 0x1234
		c.SP = 0xFFF0

		cycles := c.NMI()

		assert.False(t, c.IFF1)
		assert.True(t, c.IFF2)
		assert.Equal(t, uint16(0x0066), c.PC)
		assert.Equal(t, uint16(11), cycles)
	})

	t.Run("INT ignored when IFF1 clear", func(t *testing.T) {
		c := New()
		c.IFF1 = false
		accepted, _ := c.INT(0xFF)
		assert.False(t, accepted)
	})

	t.Run("IM1 INT pushes PC and jumps to 0x0038", func(t *testing.T) {
		c := New()
		c.IFF1, c.IFF2 = true, true
		c.IM = IM1
		c.PC = 0x2000
		c.SP = 0xFFF0

		accepted, cycles := c.INT(0)

		assert.True(t, accepted)
		assert.False(t, c.IFF1)
		assert.False(t, c.IFF2)
		assert.Equal(t, uint16(0x0038), c.PC)
		assert.Equal(t, uint16(13), cycles)
		assert.Equal(t, uint16(0x2000), c.pop16())
	})

	t.Run("RETN restores IFF1 from IFF2", func(t *testing.T) {
		c := New()
		c.IFF1, c.IFF2 = true, true
		c.PC = 0x2000
		c.SP = 0xFFF0
		c.NMI() // clears IFF1, pushes 0x2000
		c.LoadProgram([]byte{0xED, 0x45}, c.PC) // RETN
		c.Step()
		assert.True(t, c.IFF1)
		assert.Equal(t, uint16(0x2000), c.PC)
	})
}

func TestEDLoadAIPreservesIFF2(t *testing.T) {
	c := New()
	c.I = 0x80
	c.IFF2 = true
	c.LoadProgram([]byte{0xED, 0x57}, 0) // LD A,I

	c.Step()

	assert.Equal(t, byte(0x80), c.A)
	assert.True(t, c.Flags.P)
	assert.True(t, c.Flags.S)
	assert.False(t, c.Flags.H)
	assert.False(t, c.Flags.N)
}

func TestCBBitTestOnIndexedUsesAddressHighByte(t *testing.T) {
	c := New()
	c.SetIX(0x1234)
	c.Bus.Write(0x1236, 0xFF)
	c.LoadProgram([]byte{0xDD, 0xCB, 0x02, 0x46}, 0) // BIT 0,(IX+2)

	c.Step()

	assert.False(t, c.Flags.Z)
	assert.False(t, c.Flags.X) // bit 3 of 0x12 is clear (the memory byte 0xFF has it set)
	assert.False(t, c.Flags.Y)
}
