// Package bus composes the NES's single 16-bit CPU address space out of
// the individual memory.Bank implementations for console RAM, the PPU/APU
// register windows and the cartridge, the same way atari2600.controller
// tied its chips together for the VCS.
package bus

import (
	"github.com/jmchacon/nes6502/memory"
)

const (
	ramSize       = 0x0800 // 2KB internal RAM
	ramMirrorMask = 0x07FF

	ppuRegStart = 0x2000
	ppuRegEnd   = 0x3FFF
	ppuRegMask  = 0x0007 // 8 registers, mirrored every 8 bytes through $3FFF

	apuIOStart = 0x4000
	apuIOEnd   = 0x4017

	testRegStart = 0x4018
	testRegEnd   = 0x401F

	cartStart = 0x4020
)

// stubRegs stands in for the PPU, APU/IO, and test-mode register windows
// this spec does not implement. All three are open-bus: reads return the
// last value seen on the bus (whatever a prior CPU read or write left
// there) and writes are simply recorded for that purpose, exactly the
// semantics real unmapped/unimplemented NES address space presents to
// software that pokes at it.
type stubRegs struct {
	parent     memory.Bank
	databusVal uint8
}

func newStubRegs(parent memory.Bank) *stubRegs {
	return &stubRegs{parent: parent}
}

func (s *stubRegs) Read(addr uint16) uint8 {
	return memory.LatestDatabusVal(s)
}

func (s *stubRegs) Write(addr uint16, val uint8) {
	s.databusVal = val
}

func (s *stubRegs) PowerOn() {
	s.databusVal = 0
}

func (s *stubRegs) Parent() memory.Bank { return s.parent }

func (s *stubRegs) DatabusVal() uint8 { return s.databusVal }

// Bus implements memory.Bank by routing CPU addresses to RAM, the PPU/APU/
// test-mode register stubs, or the cartridge, mirroring exactly the way
// atari2600.controller routes TIA/PIA/ROM addresses for the VCS.
type Bus struct {
	ram  memory.Bank
	ppu  *stubRegs
	apu  *stubRegs
	test *stubRegs
	cart memory.Bank

	databusVal uint8
}

// New composes a Bus with RAM and the PPU/APU/test-mode register stubs
// wired up. The cartridge bank is set separately via SetCart, since it
// typically needs the Bus itself as its Parent for open-bus chaining and
// so can't be built before the Bus exists.
func New() (*Bus, error) {
	ram, err := memory.New8BitRAMBank(ramSize, nil)
	if err != nil {
		return nil, err
	}
	b := &Bus{ram: ram}
	b.ppu = newStubRegs(b)
	b.apu = newStubRegs(b)
	b.test = newStubRegs(b)
	return b, nil
}

// SetCart installs the cartridge mapper's CPU-facing memory.Bank, which
// alone decides how $4020-$FFFF maps.
func (b *Bus) SetCart(cart memory.Bank) {
	b.cart = cart
}

// Read implements memory.Bank.
func (b *Bus) Read(addr uint16) uint8 {
	var v uint8
	switch {
	case addr < ppuRegStart:
		v = b.ram.Read(addr & ramMirrorMask)
	case addr <= ppuRegEnd:
		v = b.ppu.Read((addr - ppuRegStart) & ppuRegMask)
	case addr <= apuIOEnd:
		v = b.apu.Read(addr - apuIOStart)
	case addr <= testRegEnd:
		v = b.test.Read(addr - testRegStart)
	default:
		v = b.cart.Read(addr)
	}
	b.databusVal = v
	return v
}

// Write implements memory.Bank.
func (b *Bus) Write(addr uint16, val uint8) {
	b.databusVal = val
	switch {
	case addr < ppuRegStart:
		b.ram.Write(addr&ramMirrorMask, val)
	case addr <= ppuRegEnd:
		b.ppu.Write((addr-ppuRegStart)&ppuRegMask, val)
	case addr <= apuIOEnd:
		b.apu.Write(addr-apuIOStart, val)
	case addr <= testRegEnd:
		b.test.Write(addr-testRegStart, val)
	default:
		b.cart.Write(addr, val)
	}
}

// PowerOn implements memory.Bank.
func (b *Bus) PowerOn() {
	b.ram.PowerOn()
	b.ppu.PowerOn()
	b.apu.PowerOn()
	b.test.PowerOn()
	b.cart.PowerOn()
}

// Parent implements memory.Bank; Bus is always the top of the chain.
func (b *Bus) Parent() memory.Bank { return nil }

// DatabusVal implements memory.Bank.
func (b *Bus) DatabusVal() uint8 { return b.databusVal }
