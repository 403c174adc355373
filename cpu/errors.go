package cpu

import "fmt"

// InvalidCPUState indicates an internal precondition was violated — a bug
// in the host's use of the API (calling Tick again without a TickDone in
// between) or Reset's cycle counter running out of range, rather than
// anything a ROM did. Grounded on the teacher's identically-named
// error type.
type InvalidCPUState struct {
	Reason string
}

func (e InvalidCPUState) Error() string {
	return fmt.Sprintf("invalid CPU state: %s", e.Reason)
}

// UnimplementedOpcode is returned when the scheduler dispatches an opcode
// whose micro-op sequence is empty — an unofficial/illegal 6502 opcode.
// This spec does not execute those; encountering one halts the core.
type UnimplementedOpcode struct {
	Opcode uint8
}

func (e UnimplementedOpcode) Error() string {
	return fmt.Sprintf("unimplemented opcode 0x%.2X executed", e.Opcode)
}
