package cpu

import "zilo/mask"

// Interrupt acceptance. Step never calls these itself —
// "HALT is not a sleep primitive; the host decides when to issue an
// interrupt" — so a host drives NMI/INT the same way it drives
// Step, once per asserted line, between instructions.

// NMI services a non-maskable interrupt: IFF1 is cleared (IFF2 is
// retained so RETN can later restore it), PC is pushed, and execution
// jumps to the fixed vector 0x0066. Returns the T-states consumed.
func (c *Cpu) NMI() uint16 {
	c.Halted = false
	c.IFF1 = false
	c.push16(c.PC)
	c.PC = 0x0066
	return 11
}

// INT services a maskable interrupt if IFF1 is set. data is the byte an
// interrupting device would place on the bus during the acknowledge cycle;
// it is only consulted in IM0 (direct instruction execution) and IM2
// (vector table index). Reports whether the interrupt was accepted and
// the T-states it consumed.
func (c *Cpu) INT(data byte) (accepted bool, cycles uint16) {
	if !c.IFF1 {
		return false, 0
	}
	c.Halted = false
	c.IFF1, c.IFF2 = false, false

	switch c.IM {
	case IM0:
		return true, 2 + uint16(baseCycles[data]) + c.execBase(data)
	case IM1:
		c.push16(c.PC)
		c.PC = 0x0038
		return true, 13
	default: // IM2
		vector := mask.Word(c.I, data)
		lo := c.Bus.Read(vector)
		hi := c.Bus.Read(vector + 1)
		c.push16(c.PC)
		c.PC = mask.Word(hi, lo)
		return true, 19
	}
}
