package cpu

// Flags holds the seven status bits plus the reserved bit. B is never
// stored here — it exists only in the byte pushed to the stack by BRK/PHP
// and is reconstructed at push time, per the 6502's actual behavior.
//
// 7654 3210
// NV1xDIZC   (the '1' is the always-set reserved/Unused bit)
type Flags struct {
	Negative bool
	Overflow bool
	Decimal  bool // tracked for SED/CLD fidelity; ADC/SBC ignore it (NES disables BCD)
	Interrupt bool
	Zero     bool
	Carry    bool
}

const (
	flagCarry     = uint8(0x01)
	flagZero      = uint8(0x02)
	flagInterrupt = uint8(0x04)
	flagDecimal   = uint8(0x08)
	flagB         = uint8(0x10)
	flagUnused    = uint8(0x20)
	flagOverflow  = uint8(0x40)
	flagNegative  = uint8(0x80)
)

// ToByte packs the flags into the status register layout. b selects the
// value of the B bit in the packed byte (true for PHP/BRK, false for the
// hardware IRQ/NMI service sequence).
func (f Flags) ToByte(b bool) uint8 {
	v := flagUnused
	if f.Negative {
		v |= flagNegative
	}
	if f.Overflow {
		v |= flagOverflow
	}
	if b {
		v |= flagB
	}
	if f.Decimal {
		v |= flagDecimal
	}
	if f.Interrupt {
		v |= flagInterrupt
	}
	if f.Zero {
		v |= flagZero
	}
	if f.Carry {
		v |= flagCarry
	}
	return v
}

// FromByte unpacks a pulled status byte into Flags. The B bit is always
// discarded — per the invariant that B never exists as cycle-live state.
func (f *Flags) FromByte(v uint8) {
	f.Negative = v&flagNegative != 0
	f.Overflow = v&flagOverflow != 0
	f.Decimal = v&flagDecimal != 0
	f.Interrupt = v&flagInterrupt != 0
	f.Zero = v&flagZero != 0
	f.Carry = v&flagCarry != 0
}

// Registers is the 6502 register file: the three general-purpose
// registers, the stack pointer, the program counter (exposed as two
// independently addressable halves), the status flags, and the scratch
// state micro-ops use to stage multi-cycle addressing.
type Registers struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	Flags   Flags

	// Latch holds a staged pointer byte for indirect addressing modes.
	Latch uint8
	// First and Second are the per-instruction operand scratch registers;
	// cleared on every opcode fetch.
	First, Second uint8

	// Bus triple. Every memory transaction goes through exactly these.
	AddrLow, AddrHigh uint8
	Wire              uint8
}

// Addr returns the 16-bit address currently programmed on the bus.
func (r *Registers) Addr() uint16 {
	return uint16(r.AddrHigh)<<8 | uint16(r.AddrLow)
}

// SetAddr programs the bus address, splitting it into its two halves.
func (r *Registers) SetAddr(addr uint16) {
	r.AddrLow = uint8(addr)
	r.AddrHigh = uint8(addr >> 8)
}

// PCL and PCH expose the program counter's halves as first-class values so
// micro-ops can manipulate them independently (branches, the indirect-JMP
// page bug) without reconstructing the full 16-bit PC inline.
func (r *Registers) PCL() uint8 { return uint8(r.PC) }
func (r *Registers) PCH() uint8 { return uint8(r.PC >> 8) }

func (r *Registers) SetPCL(v uint8) {
	r.PC = r.PC&0xFF00 | uint16(v)
}

func (r *Registers) SetPCH(v uint8) {
	r.PC = r.PC&0x00FF | uint16(v)<<8
}
