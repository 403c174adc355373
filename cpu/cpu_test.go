package cpu

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"

	"github.com/jmchacon/nes6502/memory"
)

// flatMemory is a full 64K flat address space memory.Bank, used so tests
// can place code/vectors anywhere without routing through package bus.
type flatMemory struct {
	addr       [65536]uint8
	fillValue  uint8
	databusVal uint8
}

func (r *flatMemory) Read(addr uint16) uint8 {
	v := r.addr[addr]
	r.databusVal = v
	return v
}

func (r *flatMemory) Write(addr uint16, val uint8) {
	r.databusVal = val
	r.addr[addr] = val
}

// PowerOn fills everything below $FFFA with fillValue. The vectors at
// $FFFA-$FFFF stand in for cartridge ROM and keep what setVector put there.
func (r *flatMemory) PowerOn() {
	for i := range r.addr[:NMIVector] {
		r.addr[i] = r.fillValue
	}
}

func (r *flatMemory) Parent() memory.Bank { return nil }

func (r *flatMemory) DatabusVal() uint8 { return r.databusVal }

func setVector(r *flatMemory, vector, addr uint16) {
	r.addr[vector] = uint8(addr)
	r.addr[vector+1] = uint8(addr >> 8)
}

func setup(t *testing.T, resetAddr uint16) (*Chip, *flatMemory) {
	t.Helper()
	r := &flatMemory{fillValue: 0xEA} // NOP filler
	setVector(r, ResetVector, resetAddr)
	setVector(r, IRQVector, 0xD000)
	setVector(r, NMIVector, 0xD100)
	r.PowerOn()
	c, err := Init(&Config{Ram: r})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	return c, r
}

// step runs Tick/TickDone until the in-flight instruction retires,
// returning the number of cycles it took.
func step(t *testing.T, c *Chip) int {
	t.Helper()
	cycles := 0
	for {
		if err := c.Tick(); err != nil {
			t.Fatalf("Tick: %v\nstate: %s", err, spew.Sdump(c))
		}
		cycles++
		c.TickDone()
		if c.InstructionDone() {
			return cycles
		}
	}
}

func TestLoadImmediate(t *testing.T) {
	c, r := setup(t, 0x0200)
	r.addr[0x0200] = 0xA9 // LDA #$42
	r.addr[0x0201] = 0x42

	startCycles := c.CycleCount
	startInstrs := c.InstructionCount
	cycles := step(t, c)
	if cycles != 2 {
		t.Errorf("LDA #imm took %d cycles, want 2", cycles)
	}
	if c.Regs.A != 0x42 {
		t.Errorf("A = %#x, want 0x42", c.Regs.A)
	}
	if c.Regs.Flags.Zero || c.Regs.Flags.Negative {
		t.Errorf("unexpected flags after LDA #$42: %+v", c.Regs.Flags)
	}
	if got := c.CycleCount - startCycles; got != 2 {
		t.Errorf("CycleCount advanced by %d, want 2", got)
	}
	if got := c.InstructionCount - startInstrs; got != 1 {
		t.Errorf("InstructionCount advanced by %d, want 1", got)
	}
}

func TestPowerOnCycleCountIsSeven(t *testing.T) {
	c, _ := setup(t, 0x0200)
	if c.CycleCount != 7 {
		t.Errorf("CycleCount after PowerOn = %d, want 7", c.CycleCount)
	}
}

func TestLoadImmediateZeroFlag(t *testing.T) {
	c, r := setup(t, 0x0200)
	r.addr[0x0200] = 0xA9 // LDA #$00
	r.addr[0x0201] = 0x00
	step(t, c)
	if !c.Regs.Flags.Zero {
		t.Errorf("Zero flag not set after LDA #$00")
	}
}

func TestADCOverflow(t *testing.T) {
	c, r := setup(t, 0x0200)
	// LDA #$7F; CLC; ADC #$01 -> overflow set, result $80, negative set.
	r.addr[0x0200] = 0xA9
	r.addr[0x0201] = 0x7F
	r.addr[0x0202] = 0x18
	r.addr[0x0203] = 0x69
	r.addr[0x0204] = 0x01
	step(t, c)
	step(t, c)
	step(t, c)
	if c.Regs.A != 0x80 {
		t.Fatalf("A = %#x, want 0x80", c.Regs.A)
	}
	if !c.Regs.Flags.Overflow {
		t.Errorf("Overflow flag not set for $7F+$01")
	}
	if !c.Regs.Flags.Negative {
		t.Errorf("Negative flag not set for result 0x80")
	}
	if c.Regs.Flags.Carry {
		t.Errorf("Carry flag unexpectedly set")
	}
}

func TestSBCBorrow(t *testing.T) {
	c, r := setup(t, 0x0200)
	// SEC; LDA #$00; SBC #$01 -> result $FF, carry clear (borrow), negative set.
	r.addr[0x0200] = 0x38
	r.addr[0x0201] = 0xA9
	r.addr[0x0202] = 0x00
	r.addr[0x0203] = 0xE9
	r.addr[0x0204] = 0x01
	step(t, c)
	step(t, c)
	step(t, c)
	if c.Regs.A != 0xFF {
		t.Fatalf("A = %#x, want 0xFF", c.Regs.A)
	}
	if c.Regs.Flags.Carry {
		t.Errorf("Carry flag set, want clear (borrow occurred)")
	}
}

func TestStoreAbsoluteXAlwaysPaysFixupCycle(t *testing.T) {
	c, r := setup(t, 0x0200)
	// LDX #$01; STA $0010,X -> effective addr $0011, no actual carry, but
	// STA always pays the extra cycle: 5 total.
	r.addr[0x0200] = 0xA2
	r.addr[0x0201] = 0x01
	r.addr[0x0202] = 0x9D
	r.addr[0x0203] = 0x10
	r.addr[0x0204] = 0x00
	step(t, c)
	cycles := step(t, c)
	if cycles != 5 {
		t.Errorf("STA abs,X took %d cycles, want 5", cycles)
	}
}

func TestLoadAbsoluteXPageCross(t *testing.T) {
	c, r := setup(t, 0x0200)
	// LDX #$01; LDA $00FF,X -> crosses from page 0 to page 1: 5 cycles.
	r.addr[0x0200] = 0xA2
	r.addr[0x0201] = 0x01
	r.addr[0x0202] = 0xBD
	r.addr[0x0203] = 0xFF
	r.addr[0x0204] = 0x00
	r.addr[0x0100] = 0x99
	step(t, c)
	cycles := step(t, c)
	if cycles != 5 {
		t.Errorf("LDA abs,X (crossing) took %d cycles, want 5", cycles)
	}
	if c.Regs.A != 0x99 {
		t.Errorf("A = %#x, want 0x99", c.Regs.A)
	}
}

func TestLoadAbsoluteXNoPageCross(t *testing.T) {
	c, r := setup(t, 0x0200)
	// LDX #$01; LDA $0010,X -> no crossing: 4 cycles.
	r.addr[0x0200] = 0xA2
	r.addr[0x0201] = 0x01
	r.addr[0x0202] = 0xBD
	r.addr[0x0203] = 0x10
	r.addr[0x0204] = 0x00
	r.addr[0x0011] = 0x55
	step(t, c)
	cycles := step(t, c)
	if cycles != 4 {
		t.Errorf("LDA abs,X (no cross) took %d cycles, want 4", cycles)
	}
	if c.Regs.A != 0x55 {
		t.Errorf("A = %#x, want 0x55", c.Regs.A)
	}
}

func TestBranchTiming(t *testing.T) {
	// BNE not taken: 2 cycles.
	c, r := setup(t, 0x0200)
	r.addr[0x0200] = 0xA9 // LDA #$00 so Z is set
	r.addr[0x0201] = 0x00
	r.addr[0x0202] = 0xD0 // BNE +$05 (not taken, Z set)
	r.addr[0x0203] = 0x05
	step(t, c)
	cycles := step(t, c)
	if cycles != 2 {
		t.Errorf("BNE not-taken took %d cycles, want 2", cycles)
	}

	// BEQ taken, same page: 3 cycles.
	c, r = setup(t, 0x0200)
	r.addr[0x0200] = 0xA9
	r.addr[0x0201] = 0x00
	r.addr[0x0202] = 0xF0 // BEQ +$05 (taken)
	r.addr[0x0203] = 0x05
	step(t, c)
	cycles = step(t, c)
	if cycles != 3 {
		t.Errorf("BEQ taken (same page) took %d cycles, want 3", cycles)
	}
	wantPC := uint16(0x0204 + 0x05)
	if c.Regs.PC != wantPC {
		t.Errorf("PC = %#x, want %#x", c.Regs.PC, wantPC)
	}

	// BEQ taken, crossing a page: 4 cycles.
	c, r = setup(t, 0x02F0)
	r.addr[0x02F0] = 0xA9
	r.addr[0x02F1] = 0x00
	r.addr[0x02F2] = 0xF0 // BEQ +$20, lands past $0300
	r.addr[0x02F3] = 0x20
	step(t, c)
	cycles = step(t, c)
	if cycles != 4 {
		t.Errorf("BEQ taken (crossing) took %d cycles, want 4", cycles)
	}
}

func TestIndirectJMPPageBoundaryBug(t *testing.T) {
	c, r := setup(t, 0x0200)
	// JMP ($05FF): the real 6502 bug reads the destination's high byte
	// from $0500, not $0600.
	r.addr[0x0200] = 0x6C
	r.addr[0x0201] = 0xFF
	r.addr[0x0202] = 0x05
	r.addr[0x05FF] = 0x34 // destination low byte
	r.addr[0x0600] = 0xFF // if the bug weren't modeled, this would be read
	r.addr[0x0500] = 0x12 // destination high byte, read from $0500 due to the bug
	step(t, c)
	if c.Regs.PC != 0x1234 {
		t.Errorf("PC = %#x, want 0x1234 (bugged indirect JMP)", c.Regs.PC)
	}
}

func TestJSRRTSRoundTrip(t *testing.T) {
	c, r := setup(t, 0x0200)
	r.addr[0x0200] = 0x20 // JSR $0300
	r.addr[0x0201] = 0x00
	r.addr[0x0202] = 0x03
	r.addr[0x0300] = 0x60 // RTS
	startSP := c.Regs.SP

	cycles := step(t, c)
	if cycles != 6 {
		t.Errorf("JSR took %d cycles, want 6", cycles)
	}
	if c.Regs.PC != 0x0300 {
		t.Errorf("PC after JSR = %#x, want 0x0300", c.Regs.PC)
	}
	if c.Regs.SP != startSP-2 {
		t.Errorf("SP after JSR = %#x, want %#x", c.Regs.SP, startSP-2)
	}

	cycles = step(t, c)
	if cycles != 6 {
		t.Errorf("RTS took %d cycles, want 6", cycles)
	}
	if c.Regs.PC != 0x0203 {
		t.Errorf("PC after RTS = %#x, want 0x0203 (return address + 1)", c.Regs.PC)
	}
	if c.Regs.SP != startSP {
		t.Errorf("SP after RTS = %#x, want restored %#x", c.Regs.SP, startSP)
	}
}

func TestBRKRTIRoundTrip(t *testing.T) {
	c, r := setup(t, 0x0200)
	setVector(r, IRQVector, 0x0400)
	r.addr[0x0200] = 0x00 // BRK
	r.addr[0x0201] = 0x00 // signature byte, skipped
	r.addr[0x0400] = 0xA9 // LDA #$01 inside the handler
	r.addr[0x0401] = 0x01
	r.addr[0x0402] = 0x40 // RTI

	savedFlags := c.Regs.Flags
	cycles := step(t, c)
	if cycles != 7 {
		t.Errorf("BRK took %d cycles, want 7", cycles)
	}
	if c.Regs.PC != 0x0400 {
		t.Errorf("PC after BRK = %#x, want 0x0400", c.Regs.PC)
	}
	if !c.Regs.Flags.Interrupt {
		t.Errorf("Interrupt flag not set after BRK")
	}

	step(t, c) // LDA #$01 in handler
	if c.Regs.A != 0x01 {
		t.Fatalf("A in handler = %#x, want 0x01", c.Regs.A)
	}

	cycles = step(t, c) // RTI
	if cycles != 6 {
		t.Errorf("RTI took %d cycles, want 6", cycles)
	}
	if c.Regs.PC != 0x0202 {
		t.Errorf("PC after RTI = %#x, want 0x0202", c.Regs.PC)
	}
	if diff := deep.Equal(c.Regs.Flags, savedFlags); diff != nil {
		t.Errorf("flags not restored by RTI: %v\nstate: %s", diff, spew.Sdump(c))
	}
}

func TestStackOverflowWraps(t *testing.T) {
	c, _ := setup(t, 0x0200)
	c.Regs.SP = 0x00
	pushStack(RegA)(c)
	if c.Regs.SP != 0xFF {
		t.Errorf("SP after push from 0x00 = %#x, want 0xFF (wrapped)", c.Regs.SP)
	}
}

func TestUnimplementedOpcodeHalts(t *testing.T) {
	c, r := setup(t, 0x0200)
	r.addr[0x0200] = 0x02 // no official meaning assigned in this table
	err := c.Tick()
	if err != nil {
		t.Fatalf("unexpected error on fetch tick: %v", err)
	}
	c.TickDone()
	err = c.Tick()
	if _, ok := err.(UnimplementedOpcode); !ok {
		t.Fatalf("got err %v (%T), want UnimplementedOpcode", err, err)
	}
}
