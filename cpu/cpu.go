// Package cpu implements the Zilog Z80 microprocessor: register file, flag
// word, T-state tables and the decoder/executor for the base page and the
// CB, ED, DD/FD and DD-CB/FD-CB prefix pages.
package cpu

import (
	"zilo/mask"
	"zilo/mem"
)

// A Cpu has no memory of its own beyond its register file; it interfaces
// with a Bus for every memory and I/O access and never reads or writes
// outside of it.
type Cpu struct {
	Bus *mem.Bus
	Registers
}

// New returns a Cpu wired to a fresh 64 KiB Bus, in the documented
// post-construction state.
func New() *Cpu {
	c := &Cpu{Bus: &mem.Bus{}}
	c.Registers.reset()
	return c
}

// Reset restores the documented initial register state and clears memory.
func (c *Cpu) Reset() {
	c.Registers.reset()
	c.Bus.Reset()
}

// LoadProgram writes program into memory starting at addr, one byte per
// bus write, the host-facing load path the decoder/executor itself never
// calls.
func (c *Cpu) LoadProgram(program []byte, addr uint16) {
	for i, b := range program {
		c.Bus.Write(addr+uint16(i), b)
	}
}

// fetch8 reads the byte at PC and advances PC.
func (c *Cpu) fetch8() byte {
	b := c.Bus.Read(c.PC)
	c.PC++
	return b
}

// fetch16 reads a little-endian word at PC and advances PC by two.
func (c *Cpu) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return mask.Word(hi, lo)
}

// push16 decrements SP by two and stores v, high byte first, matching the
// order CALL/PUSH/RST push a return address so POP/RET can read it back low
// byte first.
func (c *Cpu) push16(v uint16) {
	c.SP--
	c.Bus.Write(c.SP, mask.Hi(v))
	c.SP--
	c.Bus.Write(c.SP, mask.Lo(v))
}

// pop16 reads a word off the stack and advances SP by two.
func (c *Cpu) pop16() uint16 {
	lo := c.Bus.Read(c.SP)
	c.SP++
	hi := c.Bus.Read(c.SP)
	c.SP++
	return mask.Word(hi, lo)
}

// Step decodes and executes exactly one instruction, including any
// CB/ED/DD/FD/DD-CB/FD-CB prefix chain, and returns the number of T-states
// it consumed.
//
// Prefix is reset at the top of every Step and set only when this call
// decodes a DD/FD prefix, so the register-rewiring helpers (getReg8,
// effectiveAddr, ...) never see a stale marker from the previous
// instruction. After Step returns, Prefix still holds the prefix of the
// instruction just executed (0 when none).
func (c *Cpu) Step() uint16 {
	c.Prefix = 0
	c.BumpR()

	op := c.fetch8()

	switch op {
	case 0xCB:
		inner := c.fetch8()
		cycles := uint16(cbCycles[inner])
		cycles += c.execCB(inner, 0)
		return cycles

	case 0xED:
		inner := c.fetch8()
		cycles := uint16(edCycles[inner])
		cycles += c.execED(inner)
		return cycles

	case 0xDD, 0xFD:
		c.Prefix = op
		inner := c.fetch8()
		if inner == 0xCB {
			d := int8(c.fetch8())
			inner2 := c.fetch8()
			cycles := uint16(ddfdcbCycles[inner2])
			cycles += c.execIndexedCB(inner2, d)
			return cycles
		}
		cycles := uint16(baseCycles[inner]) + uint16(ddfdCycles[inner])
		cycles += c.execBase(inner)
		return cycles

	default:
		cycles := uint16(baseCycles[op])
		cycles += c.execBase(op)
		return cycles
	}
}
