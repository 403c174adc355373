package cpu

// relativeSeq builds a conditional branch's micro-op sequence. taken reports
// whether the branch should be taken given the current flags.
//
// Not taken: 2 cycles total (opcode fetch + branchLow), branchLow ending
// the instruction early by clearing opActive.
// Taken, same page: 3 cycles — the mandatory extra dummy-read cycle every
// taken branch pays regardless of crossing.
// Taken, crossing a page: 4 cycles — the scheduler's generic pendingFixup
// mechanism (shared with absolute/indirect indexed addressing) inserts one
// more cycle to correct PCH before the final dummy read runs.
func relativeSeq(taken func(*Chip) bool) []microOp {
	branchLow := Read(setAddrPC, func(c *Chip) {
		incPC(c)
		offset := int8(c.Regs.Wire)
		if !taken(c) {
			// Not taken: the instruction is done after this one cycle even
			// though the dispatched sequence has a second entry queued.
			c.opState &^= opActive
			return
		}
		oldPC := c.Regs.PC
		newPC := uint16(int32(oldPC) + int32(offset))
		c.Regs.SetPCL(uint8(newPC))
		desiredPCH := uint8(newPC >> 8)
		if desiredPCH != c.Regs.PCH() {
			c.Regs.Latch = desiredPCH
			c.opState |= opPageCross
			c.pendingFixup = func(c *Chip) { c.Regs.SetPCH(c.Regs.Latch) }
		}
	})

	// The mandatory "taken" cycle: a dummy read, address irrelevant beyond
	// being a real bus cycle. By the time this runs, any page-crossing
	// fixup has already corrected PCH.
	extra := Read(setAddrPC, nil)

	return []microOp{branchLow, extra}
}
