package cpu

// This file composes the stack-heavy instruction sequences: PHA/PHP,
// PLA/PLP, JSR, RTS, BRK/RTI, and the shared hardware interrupt-service
// sequence used for both NMI and IRQ.

// pushSeq: PHA/PHP. One dummy read at PC, then the push itself.
func pushSeq(r Register) []microOp {
	return []microOp{
		Read(setAddrPC, nil),
		pushStack(r),
	}
}

// pullSeq: PLA/PLP. Dummy read at PC, dummy read at the current stack slot
// (SP not yet incremented), then the actual pull; load runs against the
// pulled byte in Regs.Wire.
func pullSeq(load microOp) []microOp {
	return []microOp{
		Read(setAddrPC, nil),
		Read(setAddrStack, nil),
		pullStack(load),
	}
}

// jsrSeq: JSR abs. Fetch the low address byte, an internal cycle (the
// famous "dummy" that real hardware spends peeking at the stack before the
// high return-address byte is pushed), push PCH then PCL, then fetch the
// high address byte and jump.
func jsrSeq() []microOp {
	return []microOp{
		Read(setAddrPC, fetchAbsoluteLow),
		Read(setAddrStack, nil),
		pushStack(RegPCH),
		pushStack(RegPCL),
		Read(setAddrPC, func(c *Chip) {
			c.Regs.Second = c.Regs.Wire
			c.Regs.PC = uint16(c.Regs.Second)<<8 | uint16(c.Regs.First)
		}),
	}
}

// rtsSeq: RTS. Dummy read at PC, dummy read at the current stack slot,
// pull PCL then PCH, then a final dummy read at the restored PC that
// increments it past JSR's last operand byte.
func rtsSeq() []microOp {
	return []microOp{
		Read(setAddrPC, nil),
		Read(setAddrStack, nil),
		pullStack(func(c *Chip) { c.Regs.SetPCL(c.Regs.Wire) }),
		pullStack(func(c *Chip) { c.Regs.SetPCH(c.Regs.Wire) }),
		Read(setAddrPC, incPC),
	}
}

// rtiSeq: RTI. Dummy read at PC, dummy read at the current stack slot,
// pull flags, pull PCL, pull PCH. Unlike RTS there is no trailing PC bump.
func rtiSeq() []microOp {
	return []microOp{
		Read(setAddrPC, nil),
		Read(setAddrStack, nil),
		pullStack(func(c *Chip) { c.Regs.Flags.FromByte(c.Regs.Wire) }),
		pullStack(func(c *Chip) { c.Regs.SetPCL(c.Regs.Wire) }),
		pullStack(func(c *Chip) { c.Regs.SetPCH(c.Regs.Wire) }),
	}
}

// brkSeq: BRK. Reads and discards a signature byte at PC (incrementing
// past it — the reason RTI, not RTS, is the right return for a BRK-caused
// handler), pushes PC then flags with B set, then loads PC from $FFFE/FFFF.
func brkSeq() []microOp {
	return []microOp{
		Read(setAddrPC, incPC),
		pushStack(RegPCH),
		pushStack(RegPCL),
		pushStack(RegFlagsPushed),
		Read(func(c *Chip) { c.Regs.SetAddr(0xFFFE) }, func(c *Chip) {
			c.Regs.First = c.Regs.Wire
			c.Regs.Flags.Interrupt = true
		}),
		Read(func(c *Chip) { c.Regs.SetAddr(0xFFFF) }, func(c *Chip) {
			c.Regs.Second = c.Regs.Wire
			c.Regs.PC = uint16(c.Regs.Second)<<8 | uint16(c.Regs.First)
		}),
	}
}

// interruptSeq is the hardware NMI/IRQ service routine: two dummy reads at
// PC (no opcode was actually fetched; these stand in for the two cycles
// real silicon spends recognizing the pending line), push PC then flags
// with B clear, then load PC from vectorAddr/vectorAddr+1.
func interruptSeq(vectorAddr uint16) []microOp {
	return []microOp{
		Read(setAddrPC, nil),
		Read(setAddrPC, nil),
		pushStack(RegPCH),
		pushStack(RegPCL),
		pushStack(RegFlagsNoB),
		Read(func(c *Chip) { c.Regs.SetAddr(vectorAddr) }, func(c *Chip) {
			c.Regs.First = c.Regs.Wire
			c.Regs.Flags.Interrupt = true
		}),
		Read(func(c *Chip) { c.Regs.SetAddr(vectorAddr + 1) }, func(c *Chip) {
			c.Regs.Second = c.Regs.Wire
			c.Regs.PC = uint16(c.Regs.Second)<<8 | uint16(c.Regs.First)
		}),
	}
}
