// Command nes6502 loads an iNES ROM and runs its CPU core for a fixed
// number of cycles (or until it halts), optionally dumping register state
// each instruction boundary. There is no PPU/APU/video output here; this
// is the CPU core in isolation, the same way vcs_main.go in the teacher
// repo is the CPU wired to a specific machine's chips and peripherals.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"

	"github.com/davecgh/go-spew/spew"

	"github.com/jmchacon/nes6502/bus"
	"github.com/jmchacon/nes6502/cpu"
	"github.com/jmchacon/nes6502/ines"
)

var (
	debug  = flag.Bool("debug", false, "If true, dump CPU register state after every retired instruction")
	cycles = flag.Int64("cycles", 1_000_000, "Number of CPU clock cycles to run before stopping")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("usage: nes6502 [flags] <rom.nes>")
	}
	romPath := flag.Arg(0)

	data, err := ioutil.ReadFile(romPath)
	if err != nil {
		log.Fatalf("reading %s: %v", romPath, err)
	}
	rom, err := ines.Load(data)
	if err != nil {
		log.Fatalf("parsing %s: %v", romPath, err)
	}

	b, err := bus.New()
	if err != nil {
		log.Fatalf("constructing bus: %v", err)
	}
	cart, err := ines.NewCartridge(rom, b)
	if err != nil {
		log.Fatalf("constructing cartridge: %v", err)
	}
	b.SetCart(cart)

	chip, err := cpu.Init(&cpu.Config{Ram: b})
	if err != nil {
		log.Fatalf("initializing CPU: %v", err)
	}

	var n int64
	for ; n < *cycles; n++ {
		if err := chip.Tick(); err != nil {
			fmt.Printf("halted after %d cycles: %v\n", n, err)
			break
		}
		if *debug && chip.InstructionDone() {
			spew.Dump(chip.Regs)
		}
		chip.TickDone()
	}
	fmt.Printf("ran %d cycles\n", n)
}
