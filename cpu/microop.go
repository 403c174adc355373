package cpu

// microOp is a single per-cycle action: at most one memory transaction and
// one in-register compute. A dispatched instruction is nothing more than an
// ordered slice of these, built once at table-construction time by the
// addressing composers in addressing.go.
type microOp func(c *Chip)

// Register names every CPU-internal location a micro-op can read or write,
// per the "polymorphic register" design note: a register is a named
// accessor capability over CPU state, switch-dispatched rather than
// represented via a Go interface per-register (that would cost an
// allocation per access on the hot path).
type Register int

const (
	RegA Register = iota
	RegX
	RegY
	RegSP
	RegPCL
	RegPCH
	RegLatch
	RegFirst
	RegSecond
	RegWire
	RegAddrLow
	RegAddrHigh
	// RegFlagsPushed is FlagsRegister.ToByte(true) — B forced set, as pushed
	// by PHP/BRK.
	RegFlagsPushed
	// RegFlagsNoB is FlagsRegister.ToByte(false) — B forced clear, as pushed
	// by the hardware IRQ/NMI service sequence. It is read-only: get packs
	// it for the push, and set does not accept it.
	RegFlagsNoB
)

// get reads the named register.
func (c *Chip) get(r Register) uint8 {
	switch r {
	case RegA:
		return c.Regs.A
	case RegX:
		return c.Regs.X
	case RegY:
		return c.Regs.Y
	case RegSP:
		return c.Regs.SP
	case RegPCL:
		return c.Regs.PCL()
	case RegPCH:
		return c.Regs.PCH()
	case RegLatch:
		return c.Regs.Latch
	case RegFirst:
		return c.Regs.First
	case RegSecond:
		return c.Regs.Second
	case RegWire:
		return c.Regs.Wire
	case RegAddrLow:
		return c.Regs.AddrLow
	case RegAddrHigh:
		return c.Regs.AddrHigh
	case RegFlagsPushed:
		return c.Regs.Flags.ToByte(true)
	case RegFlagsNoB:
		return c.Regs.Flags.ToByte(false)
	}
	panic("cpu: get of unknown register")
}

// set writes the named register. Writing RegFlagsPushed unpacks a status
// byte through Flags.FromByte, masking off B per the invariant that B is
// never cycle-live state.
func (c *Chip) set(r Register, v uint8) {
	switch r {
	case RegA:
		c.Regs.A = v
	case RegX:
		c.Regs.X = v
	case RegY:
		c.Regs.Y = v
	case RegSP:
		c.Regs.SP = v
	case RegPCL:
		c.Regs.SetPCL(v)
	case RegPCH:
		c.Regs.SetPCH(v)
	case RegLatch:
		c.Regs.Latch = v
	case RegFirst:
		c.Regs.First = v
	case RegSecond:
		c.Regs.Second = v
	case RegWire:
		c.Regs.Wire = v
	case RegAddrLow:
		c.Regs.AddrLow = v
	case RegAddrHigh:
		c.Regs.AddrHigh = v
	case RegFlagsPushed:
		c.Regs.Flags.FromByte(v)
	default:
		panic("cpu: set of unknown register")
	}
}

// opState is the small bitmask of sticky communication channels a micro-op
// uses to tell the scheduler to do extra work after this cycle.
type opState uint8

const (
	opActive opState = 1 << iota
	// opPageCross is set only by micro-ops that add an index register (or a
	// branch's signed relative offset) to an address low byte and observe
	// unsigned overflow; the scheduler consumes it by inserting a high-byte
	// fixup cycle via pendingFixup and then clears it. relativeSeq reuses
	// this same mechanism for a taken branch's page-crossing penalty cycle
	// rather than a separate "branching" bit: a taken branch's mandatory
	// extra cycle is simply the second entry in its dispatched sequence.
	opPageCross
)

// Read runs before, performs exactly one bus read into Regs.Wire using the
// address currently programmed on the bus, then runs after.
func Read(before, after microOp) microOp {
	return func(c *Chip) {
		if before != nil {
			before(c)
		}
		c.Regs.Wire = c.busRead(c.Regs.Addr())
		if after != nil {
			after(c)
		}
	}
}

// Write runs before (which must leave the value to write in Regs.Wire),
// performs exactly one bus write of Regs.Wire to the programmed address,
// then runs after.
func Write(before, after microOp) microOp {
	return func(c *Chip) {
		if before != nil {
			before(c)
		}
		c.busWrite(c.Regs.Addr(), c.Regs.Wire)
		if after != nil {
			after(c)
		}
	}
}

func nop(*Chip) {}

// mv copies src to dst.
func mv(src, dst Register) microOp {
	return func(c *Chip) { c.set(dst, c.get(src)) }
}

// store is MV<R,Wire> — stages a register's value onto the bus wire so a
// following Write actually writes it.
func store(r Register) microOp {
	return mv(r, RegWire)
}

// fetch is MV<Wire,R> — copies the byte most recently read off the bus wire
// into a register.
func fetch(r Register) microOp {
	return mv(RegWire, r)
}

// ldf is fetch<R> followed by the standard load flag update (Z, N).
func ldf(r Register) microOp {
	return func(c *Chip) {
		c.set(r, c.Regs.Wire)
		c.setZN(c.get(r))
	}
}

func (c *Chip) setZN(v uint8) {
	c.Regs.Flags.Zero = v == 0
	c.Regs.Flags.Negative = v&0x80 != 0
}

func incPC(c *Chip) { c.Regs.PC++ }

func setAddrPC(c *Chip) { c.Regs.SetAddr(c.Regs.PC) }

func setAddrStack(c *Chip) {
	c.Regs.AddrLow = c.Regs.SP
	c.Regs.AddrHigh = 0x01
}

func setAddrZero(r Register) microOp {
	return func(c *Chip) {
		c.Regs.AddrLow = c.get(r)
		c.Regs.AddrHigh = 0x00
	}
}

// pushStack stages r onto the wire, writes it to $0100+SP, then
// decrements SP (wrapping, per the stack-overflow invariant).
func pushStack(r Register) microOp {
	return Write(
		func(c *Chip) {
			setAddrStack(c)
			store(r)(c)
		},
		func(c *Chip) { c.Regs.SP-- },
	)
}

// pullStack increments SP then reads $0100+SP into the wire, leaving the
// pulled byte ready for a following fetch/ldf into its destination.
func pullStack(after microOp) microOp {
	return Read(
		func(c *Chip) {
			c.Regs.SP++
			setAddrStack(c)
		},
		after,
	)
}

// addIndex adds register r to AddrLow. If checkPage is set and the
// addition overflows a byte, opPageCross is set along with a pendingFixup
// closure that corrects AddrHigh — consumed by the scheduler to insert a
// high-byte fixup cycle before the next dispatched micro-op runs.
func addIndex(r Register, checkPage bool) microOp {
	return func(c *Chip) {
		sum := uint16(c.Regs.AddrLow) + uint16(c.get(r))
		c.Regs.AddrLow = uint8(sum)
		if checkPage && sum > 0xFF {
			c.opState |= opPageCross
			c.pendingFixup = func(c *Chip) { c.Regs.AddrHigh++ }
		}
	}
}

// seq concatenates micro-op sequences; a tiny convenience so addressing
// composers and opcode bodies read as straight-line append calls.
func seq(parts ...[]microOp) []microOp {
	var out []microOp
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func one(op microOp) []microOp { return []microOp{op} }
