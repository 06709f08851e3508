package cpu

// Register-operand helpers implementing the "register rewiring
// under DD/FD" table: wherever an instruction names H, L or (HL), an active
// DD/FD prefix retargets it at IXH/IXL/(IX+d) or IYH/IYL/(IY+d). Every
// other 3-bit register-field encoding (B,C,D,E,A) is unaffected.

// effectiveAddr resolves the address (HL) refers to, consuming a
// displacement byte from the instruction stream when a prefix is active.
func (c *Cpu) effectiveAddr() uint16 {
	switch c.Prefix {
	case 0xDD:
		d := int8(c.fetch8())
		return c.GetIX() + uint16(int16(d))
	case 0xFD:
		d := int8(c.fetch8())
		return c.GetIY() + uint16(int16(d))
	default:
		return c.GetHL()
	}
}

// getReg8 reads the 3-bit register field encoding: 0=B 1=C 2=D 3=E 4=H
// 5=L 6=(HL) 7=A.
func (c *Cpu) getReg8(idx byte) byte {
	switch idx {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		switch c.Prefix {
		case 0xDD:
			return c.IXH
		case 0xFD:
			return c.IYH
		default:
			return c.H
		}
	case 5:
		switch c.Prefix {
		case 0xDD:
			return c.IXL
		case 0xFD:
			return c.IYL
		default:
			return c.L
		}
	case 6:
		return c.Bus.Read(c.effectiveAddr())
	default: // 7
		return c.A
	}
}

func (c *Cpu) setReg8(idx byte, v byte) {
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
		switch c.Prefix {
		case 0xDD:
			c.IXH = v
		case 0xFD:
			c.IYH = v
		default:
			c.H = v
		}
	case 5:
		switch c.Prefix {
		case 0xDD:
			c.IXL = v
		case 0xFD:
			c.IYL = v
		default:
			c.L = v
		}
	case 6:
		c.Bus.Write(c.effectiveAddr(), v)
	default: // 7
		c.A = v
	}
}

// getHLlike / setHLlike resolve the "HL" 16-bit pair itself (ADD HL,rr's
// accumulator side, EX (SP),HL, JP (HL), LD SP,HL): rewritten to IX/IY
// under a prefix, unlike EX DE,HL which is explicitly exempt.
func (c *Cpu) getHLlike() uint16 {
	switch c.Prefix {
	case 0xDD:
		return c.GetIX()
	case 0xFD:
		return c.GetIY()
	default:
		return c.GetHL()
	}
}

func (c *Cpu) setHLlike(v uint16) {
	switch c.Prefix {
	case 0xDD:
		c.SetIX(v)
	case 0xFD:
		c.SetIY(v)
	default:
		c.SetHL(v)
	}
}

// getRP16 resolves the 2-bit register-pair field used by LD rr,nn / INC rr
// / DEC rr / ADD HL,rr: 0=BC 1=DE 2=HL(-like) 3=SP.
func (c *Cpu) getRP16(idx byte) uint16 {
	switch idx {
	case 0:
		return c.GetBC()
	case 1:
		return c.GetDE()
	case 2:
		return c.getHLlike()
	default:
		return c.SP
	}
}

func (c *Cpu) setRP16(idx byte, v uint16) {
	switch idx {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.setHLlike(v)
	default:
		c.SP = v
	}
}

// getRPStack / setRPStack resolve the register-pair field used by PUSH/POP,
// which names AF instead of SP in slot 3.
func (c *Cpu) getRPStack(idx byte) uint16 {
	switch idx {
	case 0:
		return c.GetBC()
	case 1:
		return c.GetDE()
	case 2:
		return c.getHLlike()
	default:
		return c.GetAF()
	}
}

func (c *Cpu) setRPStack(idx byte, v uint16) {
	switch idx {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.setHLlike(v)
	default:
		c.SetAF(v)
	}
}

// condition evaluates one of the 8 JP/JR/CALL/RET condition codes encoded
// in bits 5-3 of the opcode: NZ,Z,NC,C,PO,PE,P,M.
func (c *Cpu) condition(idx byte) bool {
	switch idx {
	case 0:
		return !c.Flags.Z
	case 1:
		return c.Flags.Z
	case 2:
		return !c.Flags.C
	case 3:
		return c.Flags.C
	case 4:
		return !c.Flags.P
	case 5:
		return c.Flags.P
	case 6:
		return !c.Flags.S
	default:
		return c.Flags.S
	}
}
