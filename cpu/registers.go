package cpu

import "zilo/mask"

// InterruptMode selects how the CPU composes the address of the interrupt
// service routine for a maskable interrupt.
type InterruptMode byte

const (
	IM0 InterruptMode = iota
	IM1
	IM2
)

// Registers holds every piece of programmer-visible CPU state except the
// Bus. The main 8-bit registers, the alternate set, the index registers and
// their halves, I/R, SP/PC, the two interrupt flip-flops, the interrupt
// mode, and the active-prefix marker all live here, mirroring what a real
// Z80 exposes to a debugger.
type Registers struct {
	A, B, C, D, E, H, L byte
	IXH, IXL            byte
	IYH, IYL             byte
	I, R                 byte
	SP, PC               uint16

	// Alternate register set. Stored packed, the same way AF is: high byte
	// first. AltAF's low byte is the alternate flag byte.
	AltAF, AltBC, AltDE, AltHL uint16

	Flags Flags

	IFF1, IFF2 bool
	IM         InterruptMode

	// Prefix is the opcode byte of the DD/FD prefix currently in effect
	// for the instruction being decoded (0 when none). It is reset at the
	// start of every Step and keeps its value after Step returns, until the
	// next Step resets it.
	Prefix byte

	// Halted reports whether the CPU executed HALT and has not yet been
	// released by an interrupt.
	Halted bool
}

// GetAF composes A (high) and the packed flag byte (low).
func (r *Registers) GetAF() uint16 { return mask.Word(r.A, r.Flags.ToByte()) }

// SetAF splits v into A and the flag byte.
func (r *Registers) SetAF(v uint16) {
	r.A = mask.Hi(v)
	r.Flags = FlagsFromByte(mask.Lo(v))
}

func (r *Registers) GetBC() uint16    { return mask.Word(r.B, r.C) }
func (r *Registers) SetBC(v uint16)   { r.B, r.C = mask.Hi(v), mask.Lo(v) }
func (r *Registers) GetDE() uint16    { return mask.Word(r.D, r.E) }
func (r *Registers) SetDE(v uint16)   { r.D, r.E = mask.Hi(v), mask.Lo(v) }
func (r *Registers) GetHL() uint16    { return mask.Word(r.H, r.L) }
func (r *Registers) SetHL(v uint16)   { r.H, r.L = mask.Hi(v), mask.Lo(v) }
func (r *Registers) GetIX() uint16    { return mask.Word(r.IXH, r.IXL) }
func (r *Registers) SetIX(v uint16)   { r.IXH, r.IXL = mask.Hi(v), mask.Lo(v) }
func (r *Registers) GetIY() uint16    { return mask.Word(r.IYH, r.IYL) }
func (r *Registers) SetIY(v uint16)   { r.IYH, r.IYL = mask.Hi(v), mask.Lo(v) }
func (r *Registers) GetIR() uint16    { return mask.Word(r.I, r.R) }

// IncPC / DecPC wrap modulo 2^16, as every PC-relative computation in this
// emulator must (spec invariant).
func (r *Registers) IncPC() { r.PC++ }
func (r *Registers) DecPC() { r.PC-- }

// BumpR increments the low 7 bits of R, preserving bit 7 (the refresh
// counter wraps within a single page so the memory-refresh signal stays on
// the same DRAM row bank on real hardware).
func (r *Registers) BumpR() {
	r.R = (r.R & 0x80) | ((r.R + 1) & 0x7F)
}

// reset restores every register to the documented post-construction state:
// all 8-bit registers 0xFF, SP=0xFFFF, PC=0, alternates=0xFFFF, flags all
// set, IFF1=IFF2=false, IM=IM0, no active prefix, not halted. This is the
// documented initial-state contract: a zeroed flag byte after reset would
// leave boot code that inspects flags before the first instruction wrong.
func (r *Registers) reset() {
	r.A, r.B, r.C, r.D, r.E, r.H, r.L = 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF
	r.IXH, r.IXL, r.IYH, r.IYL = 0xFF, 0xFF, 0xFF, 0xFF
	r.I, r.R = 0xFF, 0xFF
	r.SP = 0xFFFF
	r.PC = 0x0000
	r.AltAF, r.AltBC, r.AltDE, r.AltHL = 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	r.Flags = FlagsFromByte(0xFF)
	r.IFF1, r.IFF2 = false, false
	r.IM = IM0
	r.Prefix = 0
	r.Halted = false
}
