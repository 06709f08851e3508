package cpu

import "zilo/mask"

// ED-page execution: IN/OUT via (C), 16-bit ADC/SBC, the
// (nn)<->rr loads, NEG, IM select, I/R loads, RLD/RRD, RETN/RETI, and the
// sixteen block transfer/compare/I-O instructions and their repeat forms.
// Decoded with the same x/y/z/p/q field split as the base page; undefined
// ED opcodes (x==0, x==3, or x==2 outside the y>=4,z<=3 block quadrant)
// are documented NOPs.

func (c *Cpu) execED(op byte) uint16 {
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7
	p := y >> 1
	q := y & 1

	switch x {
	case 1:
		return c.execED1(y, z, p, q)
	case 2:
		if y >= 4 && z <= 3 {
			return c.execED2(y, z)
		}
	}
	return 0
}

func (c *Cpu) execED1(y, z, p, q byte) uint16 {
	switch z {
	case 0: // IN r,(C) / IN (C) (y==6, flags only)
		v := c.Bus.In(c.GetBC())
		c.inOutFlags(v)
		if y != 6 {
			c.setReg8(y, v)
		}
	case 1: // OUT (C),r / OUT (C),0 (y==6)
		var v byte
		if y != 6 {
			v = c.getReg8(y)
		}
		c.Bus.Out(c.GetBC(), v)
	case 2: // SBC HL,rr (q==0) / ADC HL,rr (q==1)
		rr := c.getRP16(p)
		if q == 0 {
			c.SetHL(c.sbcHLrr(c.GetHL(), rr))
		} else {
			c.SetHL(c.adcHLrr(c.GetHL(), rr))
		}
	case 3: // LD (nn),rr (q==0) / LD rr,(nn) (q==1)
		nn := c.fetch16()
		if q == 0 {
			rr := c.getRP16(p)
			c.Bus.Write(nn, mask.Lo(rr))
			c.Bus.Write(nn+1, mask.Hi(rr))
		} else {
			lo := c.Bus.Read(nn)
			hi := c.Bus.Read(nn + 1)
			c.setRP16(p, mask.Word(hi, lo))
		}
	case 4: // NEG, all 8 encodings
		c.neg()
	case 5: // RETN / RETI (0x4D is the documented RETI, the rest alias RETN)
		c.PC = c.pop16()
		c.IFF1 = c.IFF2
	case 6: // IM 0/1/2, with documented aliases
		switch y {
		case 2, 6:
			c.IM = IM1
		case 3, 7:
			c.IM = IM2
		default:
			c.IM = IM0
		}
	case 7:
		switch y {
		case 0: // LD I,A
			c.I = c.A
		case 1: // LD R,A
			c.R = c.A
		case 2: // LD A,I
			c.A = c.I
			c.ldAIRFlags()
		case 3: // LD A,R
			c.A = c.R
			c.ldAIRFlags()
		case 4: // RRD
			c.rrd()
		case 5: // RLD
			c.rld()
		}
	}
	return 0
}

// ldAIRFlags implements the shared LD A,I / LD A,R flag contract: S,Z from
// the loaded value, H=0, N=0, P/V := IFF2.
func (c *Cpu) ldAIRFlags() {
	c.Flags.S = c.A&0x80 != 0
	c.Flags.Z = c.A == 0
	c.Flags.H = false
	c.Flags.N = false
	c.Flags.P = c.IFF2
	c.Flags.setXY(c.A)
}

// inOutFlags implements the S/Z/P(parity)/H=0/N=0 contract IN r,(C) sets;
// C is left untouched.
func (c *Cpu) inOutFlags(v byte) {
	c.Flags.S = v&0x80 != 0
	c.Flags.Z = v == 0
	c.Flags.H = false
	c.Flags.P = parity(v)
	c.Flags.N = false
	c.Flags.setXY(v)
}

// rld rotates a nibble from (HL) into A's low nibble, and A's old low
// nibble into (HL)'s low nibble, shifting (HL)'s old low nibble up into its
// high nibble.
func (c *Cpu) rld() {
	addr := c.GetHL()
	v := c.Bus.Read(addr)
	newMem := (v << 4) | (c.A & 0x0F)
	newA := (c.A & 0xF0) | (v >> 4)
	c.Bus.Write(addr, newMem)
	c.A = newA
	c.rldrrdFlags()
}

// rrd is RLD's mirror: (HL)'s low nibble moves into A, A's old low nibble
// moves into (HL)'s high nibble, and (HL)'s old high nibble moves down into
// its low nibble.
func (c *Cpu) rrd() {
	addr := c.GetHL()
	v := c.Bus.Read(addr)
	newMem := (c.A&0x0F)<<4 | (v >> 4)
	newA := (c.A & 0xF0) | (v & 0x0F)
	c.Bus.Write(addr, newMem)
	c.A = newA
	c.rldrrdFlags()
}

func (c *Cpu) rldrrdFlags() {
	c.Flags.S = c.A&0x80 != 0
	c.Flags.Z = c.A == 0
	c.Flags.H = false
	c.Flags.P = parity(c.A)
	c.Flags.N = false
	c.Flags.setXY(c.A)
}

// execED2 dispatches the 16 block instructions (LDI/LDD/CPI/CPD/INI/IND/
// OUTI/OUTD and their *IR/*DR repeat forms). y selects direction (4,6 =
// increment; 5,7 = decrement) and repeat (6,7 = loop until exhausted).
func (c *Cpu) execED2(y, z byte) uint16 {
	switch z {
	case 0:
		return c.blockLD(y)
	case 1:
		return c.blockCP(y)
	case 2:
		return c.blockIN(y)
	default: // 3
		return c.blockOUT(y)
	}
}

func blockDir(y byte) (inc bool, repeat bool) {
	return y == 4 || y == 6, y == 6 || y == 7
}

// blockLD implements LDI/LDD/LDIR/LDDR: copies (HL) to (DE),
// steps HL/DE, decrements BC, and re-executes itself (PC-2, +5 T-states)
// for the repeat forms while BC is still nonzero.
func (c *Cpu) blockLD(y byte) uint16 {
	inc, repeat := blockDir(y)

	startedAtZero := c.GetBC() == 0
	v := c.Bus.Read(c.GetHL())
	c.Bus.Write(c.GetDE(), v)
	if inc {
		c.SetHL(c.GetHL() + 1)
		c.SetDE(c.GetDE() + 1)
	} else {
		c.SetHL(c.GetHL() - 1)
		c.SetDE(c.GetDE() - 1)
	}
	bc := c.GetBC() - 1
	c.SetBC(bc)

	c.Flags.H = false
	c.Flags.N = false
	c.Flags.P = bc != 0
	n := v + c.A
	c.Flags.X = n&0x08 != 0
	c.Flags.Y = n&0x02 != 0

	// BC==0 on entry is documented to perform exactly one transfer and
	// exit, not wrap into a 65536-iteration loop.
	if repeat && bc != 0 && !startedAtZero {
		c.DecPC()
		c.DecPC()
		return 5
	}
	return 0
}

// blockCP implements CPI/CPD/CPIR/CPDR: A-(HL) compared as SUB (without
// storing), BC decremented, repeat forms loop until BC==0 or a match.
func (c *Cpu) blockCP(y byte) uint16 {
	inc, repeat := blockDir(y)

	v := c.Bus.Read(c.GetHL())
	a := c.A
	result := a - v
	c.Flags.S = result&0x80 != 0
	c.Flags.Z = result == 0
	halfBorrow := a&0x0F < v&0x0F
	c.Flags.H = halfBorrow

	if inc {
		c.SetHL(c.GetHL() + 1)
	} else {
		c.SetHL(c.GetHL() - 1)
	}
	bc := c.GetBC() - 1
	c.SetBC(bc)
	c.Flags.P = bc != 0
	c.Flags.N = true

	n := result
	if halfBorrow {
		n--
	}
	c.Flags.X = n&0x08 != 0
	c.Flags.Y = n&0x02 != 0

	if repeat && bc != 0 && !c.Flags.Z {
		c.DecPC()
		c.DecPC()
		return 5
	}
	return 0
}

// blockIOFlags implements the documented block-I/O flag quirk: N from the
// transferred byte's sign bit, C/H from a carry out of
// summing the byte with the adjusted port/address low byte, P/V from the
// parity of that sum's low 3 bits XORed with the post-decrement B.
func (c *Cpu) blockIOFlags(v byte, adjustedLow byte) {
	sum := uint16(v) + uint16(adjustedLow)
	c.Flags.N = v&0x80 != 0
	c.Flags.H = sum > 0xFF
	c.Flags.C = sum > 0xFF
	c.Flags.P = parity(byte(sum&7) ^ c.B)
	c.Flags.S = c.B&0x80 != 0
	c.Flags.Z = c.B == 0
	c.Flags.setXY(c.B)
}

// blockIN implements INI/IND/INIR/INDR: reads a byte from port BC into
// (HL), decrements B, repeat forms loop while B!=0.
func (c *Cpu) blockIN(y byte) uint16 {
	inc, repeat := blockDir(y)

	v := c.Bus.In(c.GetBC())
	c.B--
	c.Bus.Write(c.GetHL(), v)

	var adjusted byte
	if inc {
		c.SetHL(c.GetHL() + 1)
		adjusted = c.C + 1
	} else {
		c.SetHL(c.GetHL() - 1)
		adjusted = c.C - 1
	}
	c.blockIOFlags(v, adjusted)

	if repeat && c.B != 0 {
		c.DecPC()
		c.DecPC()
		return 5
	}
	return 0
}

// blockOUT implements OUTI/OUTD/OTIR/OTDR: writes (HL) to port BC,
// decrements B, repeat forms loop while B!=0.
func (c *Cpu) blockOUT(y byte) uint16 {
	inc, repeat := blockDir(y)

	v := c.Bus.Read(c.GetHL())
	c.B--
	c.Bus.Out(c.GetBC(), v)

	if inc {
		c.SetHL(c.GetHL() + 1)
	} else {
		c.SetHL(c.GetHL() - 1)
	}
	c.blockIOFlags(v, c.L)

	if repeat && c.B != 0 {
		c.DecPC()
		c.DecPC()
		return 5
	}
	return 0
}
