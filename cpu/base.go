package cpu

import "zilo/mask"

// execBase decodes and executes a single base-page opcode (or one reached
// via a DD/FD prefix, with register rewiring already handled by the
// operand helpers) and returns any T-states beyond the table's base cost —
// nonzero only for the conditional branch/call/return forms that take a
// variable number of T-states, and for DJNZ.
//
// The decode follows the standard Z80 opcode field split: x = bits 7-6,
// y = bits 5-3, z = bits 2-0, p = y>>1, q = y&1. This collapses the
// otherwise enormous literal opcode table into the regular structure the
// encoding actually has.
func (c *Cpu) execBase(op byte) uint16 {
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7
	p := y >> 1
	q := y & 1

	switch x {
	case 0:
		return c.execBaseX0(op, y, z, p, q)
	case 1:
		return c.execBaseX1(y, z)
	case 2:
		return c.execBaseX2(y, z)
	default:
		return c.execBaseX3(op, y, z, p, q)
	}
}

func (c *Cpu) execBaseX0(op, y, z, p, q byte) uint16 {
	switch z {
	case 0:
		switch {
		case y == 0:
			// NOP
		case y == 1:
			af, af2 := c.GetAF(), c.AltAF
			c.SetAF(af2)
			c.AltAF = af
		case y == 2: // DJNZ e
			d := int8(c.fetch8())
			c.B--
			if c.B != 0 {
				c.PC = uint16(int32(c.PC) + int32(d))
				return 5
			}
		case y == 3: // JR e
			d := int8(c.fetch8())
			c.PC = uint16(int32(c.PC) + int32(d))
		default: // JR cc,e ; cc = y-4
			d := int8(c.fetch8())
			if c.condition(y - 4) {
				c.PC = uint16(int32(c.PC) + int32(d))
				return 5
			}
		}
	case 1:
		if q == 0 {
			c.setRP16(p, c.fetch16())
		} else {
			hl := c.getHLlike()
			rr := c.getRP16(p)
			c.setHLlike(c.addHLrr(hl, rr))
		}
	case 2:
		if q == 0 {
			switch p {
			case 0:
				c.Bus.Write(c.GetBC(), c.A)
			case 1:
				c.Bus.Write(c.GetDE(), c.A)
			case 2:
				nn := c.fetch16()
				hl := c.getHLlike()
				c.Bus.Write(nn, mask.Lo(hl))
				c.Bus.Write(nn+1, mask.Hi(hl))
			case 3:
				c.Bus.Write(c.fetch16(), c.A)
			}
		} else {
			switch p {
			case 0:
				c.A = c.Bus.Read(c.GetBC())
			case 1:
				c.A = c.Bus.Read(c.GetDE())
			case 2:
				nn := c.fetch16()
				lo := c.Bus.Read(nn)
				hi := c.Bus.Read(nn + 1)
				c.setHLlike(uint16(hi)<<8 | uint16(lo))
			case 3:
				c.A = c.Bus.Read(c.fetch16())
			}
		}
	case 3:
		if q == 0 {
			c.setRP16(p, c.getRP16(p)+1)
		} else {
			c.setRP16(p, c.getRP16(p)-1)
		}
	case 4:
		if y == 6 {
			// getReg8(6)/setReg8(6, ...) would each resolve the effective
			// address independently, consuming a fresh displacement byte
			// per call under a DD/FD prefix. Resolve it once and reuse it
			// for both the read and the write-back.
			addr := c.effectiveAddr()
			c.Bus.Write(addr, c.incR8(c.Bus.Read(addr)))
		} else {
			c.setReg8(y, c.incR8(c.getReg8(y)))
		}
	case 5:
		if y == 6 {
			addr := c.effectiveAddr()
			c.Bus.Write(addr, c.decR8(c.Bus.Read(addr)))
		} else {
			c.setReg8(y, c.decR8(c.getReg8(y)))
		}
	case 6:
		if y == 6 {
			// The displacement byte (if any) must be consumed before the
			// immediate operand: setReg8(6, c.fetch8()) would evaluate the
			// fetch8() argument first, misreading the displacement as the
			// immediate and vice versa.
			addr := c.effectiveAddr()
			c.Bus.Write(addr, c.fetch8())
		} else {
			c.setReg8(y, c.fetch8())
		}
	case 7:
		switch y {
		case 0:
			c.rlca()
		case 1:
			c.rrca()
		case 2:
			c.rla()
		case 3:
			c.rra()
		case 4:
			c.daa()
		case 5:
			c.cpl()
		case 6:
			c.scf()
		case 7:
			c.ccf()
		}
	}
	return 0
}

func (c *Cpu) execBaseX1(y, z byte) uint16 {
	if y == 6 && z == 6 {
		// LD (HL),(HL) is reused as HALT: re-fetch the same opcode
		// forever until the host drives an interrupt.
		c.DecPC()
		c.Halted = true
		return 0
	}
	c.setReg8(y, c.getReg8(z))
	return 0
}

func (c *Cpu) execBaseX2(y, z byte) uint16 {
	c.aluOp(y, c.getReg8(z))
	return 0
}

// aluOp dispatches the 8-bit ALU family selected by y onto operand n.
func (c *Cpu) aluOp(y byte, n byte) {
	switch y {
	case 0:
		c.aluAdd(n, false)
	case 1:
		c.aluAdd(n, true)
	case 2:
		c.aluSub(n, false, true)
	case 3:
		c.aluSub(n, true, true)
	case 4:
		c.aluAnd(n)
	case 5:
		c.aluXor(n)
	case 6:
		c.aluOr(n)
	case 7:
		c.aluSub(n, false, false)
	}
}

func (c *Cpu) execBaseX3(op, y, z, p, q byte) uint16 {
	switch z {
	case 0: // RET cc
		if c.condition(y) {
			c.PC = c.pop16()
			return 6
		}
	case 1:
		if q == 0 {
			c.setRPStack(p, c.pop16())
		} else {
			switch p {
			case 0:
				c.PC = c.pop16()
			case 1:
				bc, de, hl := c.GetBC(), c.GetDE(), c.GetHL()
				c.SetBC(c.AltBC)
				c.SetDE(c.AltDE)
				c.SetHL(c.AltHL)
				c.AltBC, c.AltDE, c.AltHL = bc, de, hl
			case 2:
				c.PC = c.getHLlike()
			case 3:
				c.SP = c.getHLlike()
			}
		}
	case 2: // JP cc,nn
		nn := c.fetch16()
		if c.condition(y) {
			c.PC = nn
		}
	case 3:
		switch y {
		case 0: // JP nn
			c.PC = c.fetch16()
		case 1:
			// 0xCB is intercepted in Step before execBase is ever
			// reached with this opcode.
		case 2: // OUT (n),A
			n := c.fetch8()
			c.Bus.Out(uint16(c.A)<<8|uint16(n), c.A)
		case 3: // IN A,(n)
			n := c.fetch8()
			c.A = c.Bus.In(uint16(c.A)<<8 | uint16(n))
		case 4: // EX (SP),HL
			hl := c.getHLlike()
			lo := c.Bus.Read(c.SP)
			hi := c.Bus.Read(c.SP + 1)
			c.Bus.Write(c.SP, byte(hl))
			c.Bus.Write(c.SP+1, byte(hl>>8))
			c.setHLlike(uint16(hi)<<8 | uint16(lo))
		case 5: // EX DE,HL -- never rewritten under a prefix
			de, hl := c.GetDE(), c.GetHL()
			c.SetDE(hl)
			c.SetHL(de)
		case 6: // DI
			c.IFF1, c.IFF2 = false, false
		case 7: // EI
			c.IFF1, c.IFF2 = true, true
		}
	case 4: // CALL cc,nn
		nn := c.fetch16()
		if c.condition(y) {
			c.push16(c.PC)
			c.PC = nn
			return 7
		}
	case 5:
		if q == 0 {
			c.push16(c.getRPStack(p))
		} else if p == 0 { // CALL nn
			nn := c.fetch16()
			c.push16(c.PC)
			c.PC = nn
		}
		// p==1 (0xDD), p==2 (0xED), p==3 (0xFD) are intercepted in Step.
	case 6: // ALU A,n
		c.aluOp(y, c.fetch8())
	case 7: // RST y*8
		c.push16(c.PC)
		c.PC = uint16(y) * 8
	}
	return 0
}
