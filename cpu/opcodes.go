package cpu

// opcodeEntry names one of the 256 possible opcode bytes and carries the
// pre-built micro-op sequence the scheduler dispatches for it. Mnemonic and
// Mode exist for disassembly/tracing, not for execution.
type opcodeEntry struct {
	Mnemonic string
	Mode     string
	Ops      []microOp
}

// buildOpcodeTable constructs the 256-entry dispatch table once, at Chip
// construction time, by composing addressing-mode sequences with ALU
// bodies. Opcodes left unset (unofficial/illegal) carry a nil Ops slice;
// dispatching one yields UnimplementedOpcode.
func buildOpcodeTable() [256]opcodeEntry {
	var t [256]opcodeEntry
	set := func(op uint8, mnemonic, mode string, ops []microOp) {
		t[op] = opcodeEntry{Mnemonic: mnemonic, Mode: mode, Ops: ops}
	}

	// Loads.
	set(0xA9, "LDA", "imm", immediateSeq(ldf(RegA)))
	set(0xA5, "LDA", "zp", zeroPageSeq(readBody(ldf(RegA))))
	set(0xB5, "LDA", "zpx", zeroPageIndexedSeq(RegX, readBody(ldf(RegA))))
	set(0xAD, "LDA", "abs", absoluteSeq(readBody(ldf(RegA))))
	set(0xBD, "LDA", "absx", absoluteIndexedSeq(RegX, readBody(ldf(RegA)), false))
	set(0xB9, "LDA", "absy", absoluteIndexedSeq(RegY, readBody(ldf(RegA)), false))
	set(0xA1, "LDA", "indx", indexedIndirectSeq(readBody(ldf(RegA))))
	set(0xB1, "LDA", "indy", indirectIndexedSeq(readBody(ldf(RegA)), false))

	set(0xA2, "LDX", "imm", immediateSeq(ldf(RegX)))
	set(0xA6, "LDX", "zp", zeroPageSeq(readBody(ldf(RegX))))
	set(0xB6, "LDX", "zpy", zeroPageIndexedSeq(RegY, readBody(ldf(RegX))))
	set(0xAE, "LDX", "abs", absoluteSeq(readBody(ldf(RegX))))
	set(0xBE, "LDX", "absy", absoluteIndexedSeq(RegY, readBody(ldf(RegX)), false))

	set(0xA0, "LDY", "imm", immediateSeq(ldf(RegY)))
	set(0xA4, "LDY", "zp", zeroPageSeq(readBody(ldf(RegY))))
	set(0xB4, "LDY", "zpx", zeroPageIndexedSeq(RegX, readBody(ldf(RegY))))
	set(0xAC, "LDY", "abs", absoluteSeq(readBody(ldf(RegY))))
	set(0xBC, "LDY", "absx", absoluteIndexedSeq(RegX, readBody(ldf(RegY)), false))

	// Stores. Indexed/indirect-indexed stores always pay the fixup cycle.
	set(0x85, "STA", "zp", zeroPageSeq(writeBody(store(RegA))))
	set(0x95, "STA", "zpx", zeroPageIndexedSeq(RegX, writeBody(store(RegA))))
	set(0x8D, "STA", "abs", absoluteSeq(writeBody(store(RegA))))
	set(0x9D, "STA", "absx", absoluteIndexedSeq(RegX, writeBody(store(RegA)), true))
	set(0x99, "STA", "absy", absoluteIndexedSeq(RegY, writeBody(store(RegA)), true))
	set(0x81, "STA", "indx", indexedIndirectSeq(writeBody(store(RegA))))
	set(0x91, "STA", "indy", indirectIndexedSeq(writeBody(store(RegA)), true))

	set(0x86, "STX", "zp", zeroPageSeq(writeBody(store(RegX))))
	set(0x96, "STX", "zpy", zeroPageIndexedSeq(RegY, writeBody(store(RegX))))
	set(0x8E, "STX", "abs", absoluteSeq(writeBody(store(RegX))))

	set(0x84, "STY", "zp", zeroPageSeq(writeBody(store(RegY))))
	set(0x94, "STY", "zpx", zeroPageIndexedSeq(RegX, writeBody(store(RegY))))
	set(0x8C, "STY", "abs", absoluteSeq(writeBody(store(RegY))))

	// Register transfers (implied, 2 cycles).
	set(0xAA, "TAX", "impl", impliedSeq(transferZN(RegA, RegX)))
	set(0xA8, "TAY", "impl", impliedSeq(transferZN(RegA, RegY)))
	set(0x8A, "TXA", "impl", impliedSeq(transferZN(RegX, RegA)))
	set(0x98, "TYA", "impl", impliedSeq(transferZN(RegY, RegA)))
	set(0xBA, "TSX", "impl", impliedSeq(transferZN(RegSP, RegX)))
	set(0x9A, "TXS", "impl", impliedSeq(mv(RegX, RegSP))) // TXS does not touch Z/N

	// Stack ops.
	set(0x48, "PHA", "impl", pushSeq(RegA))
	set(0x08, "PHP", "impl", pushSeq(RegFlagsPushed))
	set(0x68, "PLA", "impl", pullSeq(ldf(RegA)))
	set(0x28, "PLP", "impl", pullSeq(func(c *Chip) { c.Regs.Flags.FromByte(c.Regs.Wire) }))

	// Shifts: accumulator forms are implied; memory forms are RMW.
	set(0x0A, "ASL", "acc", impliedSeq(aluShiftAcc("ASL")))
	set(0x06, "ASL", "zp", zeroPageSeq(rmwBody(aluShiftMem("ASL"))))
	set(0x16, "ASL", "zpx", zeroPageIndexedSeq(RegX, rmwBody(aluShiftMem("ASL"))))
	set(0x0E, "ASL", "abs", absoluteSeq(rmwBody(aluShiftMem("ASL"))))
	set(0x1E, "ASL", "absx", absoluteIndexedSeq(RegX, rmwBody(aluShiftMem("ASL")), true))

	set(0x4A, "LSR", "acc", impliedSeq(aluShiftAcc("LSR")))
	set(0x46, "LSR", "zp", zeroPageSeq(rmwBody(aluShiftMem("LSR"))))
	set(0x56, "LSR", "zpx", zeroPageIndexedSeq(RegX, rmwBody(aluShiftMem("LSR"))))
	set(0x4E, "LSR", "abs", absoluteSeq(rmwBody(aluShiftMem("LSR"))))
	set(0x5E, "LSR", "absx", absoluteIndexedSeq(RegX, rmwBody(aluShiftMem("LSR")), true))

	set(0x2A, "ROL", "acc", impliedSeq(aluShiftAcc("ROL")))
	set(0x26, "ROL", "zp", zeroPageSeq(rmwBody(aluShiftMem("ROL"))))
	set(0x36, "ROL", "zpx", zeroPageIndexedSeq(RegX, rmwBody(aluShiftMem("ROL"))))
	set(0x2E, "ROL", "abs", absoluteSeq(rmwBody(aluShiftMem("ROL"))))
	set(0x3E, "ROL", "absx", absoluteIndexedSeq(RegX, rmwBody(aluShiftMem("ROL")), true))

	set(0x6A, "ROR", "acc", impliedSeq(aluShiftAcc("ROR")))
	set(0x66, "ROR", "zp", zeroPageSeq(rmwBody(aluShiftMem("ROR"))))
	set(0x76, "ROR", "zpx", zeroPageIndexedSeq(RegX, rmwBody(aluShiftMem("ROR"))))
	set(0x6E, "ROR", "abs", absoluteSeq(rmwBody(aluShiftMem("ROR"))))
	set(0x7E, "ROR", "absx", absoluteIndexedSeq(RegX, rmwBody(aluShiftMem("ROR")), true))

	// Increment/decrement.
	set(0xE6, "INC", "zp", zeroPageSeq(rmwBody(aluIncDecMem(1))))
	set(0xF6, "INC", "zpx", zeroPageIndexedSeq(RegX, rmwBody(aluIncDecMem(1))))
	set(0xEE, "INC", "abs", absoluteSeq(rmwBody(aluIncDecMem(1))))
	set(0xFE, "INC", "absx", absoluteIndexedSeq(RegX, rmwBody(aluIncDecMem(1)), true))

	set(0xC6, "DEC", "zp", zeroPageSeq(rmwBody(aluIncDecMem(0xFF))))
	set(0xD6, "DEC", "zpx", zeroPageIndexedSeq(RegX, rmwBody(aluIncDecMem(0xFF))))
	set(0xCE, "DEC", "abs", absoluteSeq(rmwBody(aluIncDecMem(0xFF))))
	set(0xDE, "DEC", "absx", absoluteIndexedSeq(RegX, rmwBody(aluIncDecMem(0xFF)), true))

	set(0xE8, "INX", "impl", impliedSeq(aluIncDecReg(RegX, 1)))
	set(0xC8, "INY", "impl", impliedSeq(aluIncDecReg(RegY, 1)))
	set(0xCA, "DEX", "impl", impliedSeq(aluIncDecReg(RegX, 0xFF)))
	set(0x88, "DEY", "impl", impliedSeq(aluIncDecReg(RegY, 0xFF)))

	// Arithmetic.
	set(0x69, "ADC", "imm", immediateSeq(aluADC))
	set(0x65, "ADC", "zp", zeroPageSeq(readBody(aluADC)))
	set(0x75, "ADC", "zpx", zeroPageIndexedSeq(RegX, readBody(aluADC)))
	set(0x6D, "ADC", "abs", absoluteSeq(readBody(aluADC)))
	set(0x7D, "ADC", "absx", absoluteIndexedSeq(RegX, readBody(aluADC), false))
	set(0x79, "ADC", "absy", absoluteIndexedSeq(RegY, readBody(aluADC), false))
	set(0x61, "ADC", "indx", indexedIndirectSeq(readBody(aluADC)))
	set(0x71, "ADC", "indy", indirectIndexedSeq(readBody(aluADC), false))

	set(0xE9, "SBC", "imm", immediateSeq(aluSBC))
	set(0xE5, "SBC", "zp", zeroPageSeq(readBody(aluSBC)))
	set(0xF5, "SBC", "zpx", zeroPageIndexedSeq(RegX, readBody(aluSBC)))
	set(0xED, "SBC", "abs", absoluteSeq(readBody(aluSBC)))
	set(0xFD, "SBC", "absx", absoluteIndexedSeq(RegX, readBody(aluSBC), false))
	set(0xF9, "SBC", "absy", absoluteIndexedSeq(RegY, readBody(aluSBC), false))
	set(0xE1, "SBC", "indx", indexedIndirectSeq(readBody(aluSBC)))
	set(0xF1, "SBC", "indy", indirectIndexedSeq(readBody(aluSBC), false))

	// Logic.
	set(0x29, "AND", "imm", immediateSeq(aluAND))
	set(0x25, "AND", "zp", zeroPageSeq(readBody(aluAND)))
	set(0x35, "AND", "zpx", zeroPageIndexedSeq(RegX, readBody(aluAND)))
	set(0x2D, "AND", "abs", absoluteSeq(readBody(aluAND)))
	set(0x3D, "AND", "absx", absoluteIndexedSeq(RegX, readBody(aluAND), false))
	set(0x39, "AND", "absy", absoluteIndexedSeq(RegY, readBody(aluAND), false))
	set(0x21, "AND", "indx", indexedIndirectSeq(readBody(aluAND)))
	set(0x31, "AND", "indy", indirectIndexedSeq(readBody(aluAND), false))

	set(0x09, "ORA", "imm", immediateSeq(aluORA))
	set(0x05, "ORA", "zp", zeroPageSeq(readBody(aluORA)))
	set(0x15, "ORA", "zpx", zeroPageIndexedSeq(RegX, readBody(aluORA)))
	set(0x0D, "ORA", "abs", absoluteSeq(readBody(aluORA)))
	set(0x1D, "ORA", "absx", absoluteIndexedSeq(RegX, readBody(aluORA), false))
	set(0x19, "ORA", "absy", absoluteIndexedSeq(RegY, readBody(aluORA), false))
	set(0x01, "ORA", "indx", indexedIndirectSeq(readBody(aluORA)))
	set(0x11, "ORA", "indy", indirectIndexedSeq(readBody(aluORA), false))

	set(0x49, "EOR", "imm", immediateSeq(aluEOR))
	set(0x45, "EOR", "zp", zeroPageSeq(readBody(aluEOR)))
	set(0x55, "EOR", "zpx", zeroPageIndexedSeq(RegX, readBody(aluEOR)))
	set(0x4D, "EOR", "abs", absoluteSeq(readBody(aluEOR)))
	set(0x5D, "EOR", "absx", absoluteIndexedSeq(RegX, readBody(aluEOR), false))
	set(0x59, "EOR", "absy", absoluteIndexedSeq(RegY, readBody(aluEOR), false))
	set(0x41, "EOR", "indx", indexedIndirectSeq(readBody(aluEOR)))
	set(0x51, "EOR", "indy", indirectIndexedSeq(readBody(aluEOR), false))

	set(0x24, "BIT", "zp", zeroPageSeq(readBody(aluBIT)))
	set(0x2C, "BIT", "abs", absoluteSeq(readBody(aluBIT)))

	// Compares.
	set(0xC9, "CMP", "imm", immediateSeq(aluCMP(RegA)))
	set(0xC5, "CMP", "zp", zeroPageSeq(readBody(aluCMP(RegA))))
	set(0xD5, "CMP", "zpx", zeroPageIndexedSeq(RegX, readBody(aluCMP(RegA))))
	set(0xCD, "CMP", "abs", absoluteSeq(readBody(aluCMP(RegA))))
	set(0xDD, "CMP", "absx", absoluteIndexedSeq(RegX, readBody(aluCMP(RegA)), false))
	set(0xD9, "CMP", "absy", absoluteIndexedSeq(RegY, readBody(aluCMP(RegA)), false))
	set(0xC1, "CMP", "indx", indexedIndirectSeq(readBody(aluCMP(RegA))))
	set(0xD1, "CMP", "indy", indirectIndexedSeq(readBody(aluCMP(RegA)), false))

	set(0xE0, "CPX", "imm", immediateSeq(aluCMP(RegX)))
	set(0xE4, "CPX", "zp", zeroPageSeq(readBody(aluCMP(RegX))))
	set(0xEC, "CPX", "abs", absoluteSeq(readBody(aluCMP(RegX))))

	set(0xC0, "CPY", "imm", immediateSeq(aluCMP(RegY)))
	set(0xC4, "CPY", "zp", zeroPageSeq(readBody(aluCMP(RegY))))
	set(0xCC, "CPY", "abs", absoluteSeq(readBody(aluCMP(RegY))))

	// Branches.
	set(0x90, "BCC", "rel", relativeSeq(func(c *Chip) bool { return !c.Regs.Flags.Carry }))
	set(0xB0, "BCS", "rel", relativeSeq(func(c *Chip) bool { return c.Regs.Flags.Carry }))
	set(0xF0, "BEQ", "rel", relativeSeq(func(c *Chip) bool { return c.Regs.Flags.Zero }))
	set(0xD0, "BNE", "rel", relativeSeq(func(c *Chip) bool { return !c.Regs.Flags.Zero }))
	set(0x30, "BMI", "rel", relativeSeq(func(c *Chip) bool { return c.Regs.Flags.Negative }))
	set(0x10, "BPL", "rel", relativeSeq(func(c *Chip) bool { return !c.Regs.Flags.Negative }))
	set(0x50, "BVC", "rel", relativeSeq(func(c *Chip) bool { return !c.Regs.Flags.Overflow }))
	set(0x70, "BVS", "rel", relativeSeq(func(c *Chip) bool { return c.Regs.Flags.Overflow }))

	// Jumps/subroutines/interrupts.
	set(0x4C, "JMP", "abs", []microOp{
		Read(setAddrPC, fetchAbsoluteLow),
		Read(setAddrPC, func(c *Chip) {
			c.Regs.Second = c.Regs.Wire
			incPC(c)
			c.Regs.PC = uint16(c.Regs.Second)<<8 | uint16(c.Regs.First)
		}),
	})
	set(0x6C, "JMP", "ind", absoluteIndirectSeq())
	set(0x20, "JSR", "abs", jsrSeq())
	set(0x60, "RTS", "impl", rtsSeq())
	set(0x40, "RTI", "impl", rtiSeq())
	set(0x00, "BRK", "impl", brkSeq())

	// Flags.
	set(0x18, "CLC", "impl", impliedSeq(setCarryFlag(false)))
	set(0x38, "SEC", "impl", impliedSeq(setCarryFlag(true)))
	set(0xD8, "CLD", "impl", impliedSeq(setDecimalFlag(false)))
	set(0xF8, "SED", "impl", impliedSeq(setDecimalFlag(true)))
	set(0x58, "CLI", "impl", impliedSeq(setInterruptFlag(false)))
	set(0x78, "SEI", "impl", impliedSeq(setInterruptFlag(true)))
	set(0xB8, "CLV", "impl", impliedSeq(clearOverflowFlag))

	set(0xEA, "NOP", "impl", impliedSeq(nop))

	return t
}
