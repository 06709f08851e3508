package cpu

import "zilo/mask"

// CB-page execution: RLC/RRC/RL/RR/SLA/SRA/SLL/SRL and
// BIT/RES/SET over the 8 "r" operand slots (B,C,D,E,H,L,(HL),A), decoded
// with the same x/y/z field split the base page uses: x selects the
// operation family, y is either the shift/rotate sub-op or the bit number,
// z is the register.

// execCB executes a plain (non-indexed) CB-prefixed opcode. d is unused
// here; it exists so the signature matches execIndexedCB's displacement
// form and callers don't need a separate entry point name per case.
func (c *Cpu) execCB(op byte, d int8) uint16 {
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7

	v := c.getReg8(z)
	switch x {
	case 0:
		c.setReg8(z, c.cbShift(y, v))
	case 1:
		xy := v
		if z == 6 {
			xy = mask.Hi(c.GetHL())
		}
		c.bitTest(y, v, xy)
	case 2:
		c.setReg8(z, resetBit(y, v))
	default: // 3
		c.setReg8(z, setBit(y, v))
	}
	return 0
}

// execIndexedCB executes the four-byte DD-CB / FD-CB form: the effective
// address is always IX/IY+d regardless of the z field; the
// register z additionally names where the undocumented write-back goes,
// except for BIT, which writes nothing back, and for z==6, which has
// nowhere else to write since the memory operand already is the target.
func (c *Cpu) execIndexedCB(op byte, d int8) uint16 {
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7

	base := c.GetIX()
	if c.Prefix == 0xFD {
		base = c.GetIY()
	}
	addr := base + uint16(int16(d))
	v := c.Bus.Read(addr)

	switch x {
	case 0:
		result := c.cbShift(y, v)
		c.Bus.Write(addr, result)
		if z != 6 {
			c.setPlainReg8(z, result)
		}
	case 1:
		c.bitTest(y, v, mask.Hi(addr))
	case 2:
		result := resetBit(y, v)
		c.Bus.Write(addr, result)
		if z != 6 {
			c.setPlainReg8(z, result)
		}
	default: // 3
		result := setBit(y, v)
		c.Bus.Write(addr, result)
		if z != 6 {
			c.setPlainReg8(z, result)
		}
	}
	return 0
}

// cbShift dispatches the 8 rotate/shift operations selected by the CB
// page's y field when x==0.
func (c *Cpu) cbShift(y byte, v byte) byte {
	switch y {
	case 0:
		return c.rlc(v)
	case 1:
		return c.rrc(v)
	case 2:
		return c.rl(v)
	case 3:
		return c.rr(v)
	case 4:
		return c.sla(v)
	case 5:
		return c.sra(v)
	case 6:
		return c.sll(v)
	default: // 7
		return c.srl(v)
	}
}

// setPlainReg8 writes one of B,C,D,E,H,L,A directly, bypassing the DD/FD
// register rewiring getReg8/setReg8 apply. The undocumented indexed-CB
// write-back always targets the unprefixed register: H and L
// here are never IXH/IXL.
func (c *Cpu) setPlainReg8(idx byte, v byte) {
	switch idx {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 7:
		c.A = v
	}
}
