// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	goio "io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/vcpu/cpu"
	"github.com/ezrec/vcpu/internal"
	"github.com/ezrec/vcpu/io"
)

const (
	ENTRY_ADDRESS = 0 // IP after a reset.
)

var _emulator_defines = map[string]string{
	"ENTRY_ADDRESS": fmt.Sprintf("%v", ENTRY_ADDRESS),
}

// Emulator state. CPU + program listing + trace tape.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Tape  io.Tape // Trace output of the run loop.
	Limit int     // If non-zero, the maximum number of ticks to run.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	emu.Cpu.Trace = &emu.Tape

	return
}

// Defines returns an iterator over all of the defines, sorted by name.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.MergeDefines(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Assemble parses a program with the emulator defines, and makes it
// the current program.
func (emu *Emulator) Assemble(input goio.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	asm.PredefineAll(emu.Defines())

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// Reset the emulator state, and loads the program into memory.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Reset()
	emu.Tape.Rewind()

	if emu.Program == nil {
		emu.Program = &cpu.Program{}
	}

	err = emu.Program.Load(emu.Cpu)
	if err != nil {
		return
	}

	emu.Cpu.Ip = ENTRY_ADDRESS

	if emu.Verbose {
		log.Printf("emulator: loaded %v instructions", len(emu.Program.Listings))
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int {
	return emu.Cpu.Ip
}

// Code returns the instruction the program listing has at the IP.
func (emu *Emulator) Code() (ins cpu.Instruction, ok bool) {
	if emu.Program == nil {
		return
	}

	dbg := emu.Program.Debug(emu.Cpu.Ip)
	if dbg.Listing == nil || dbg.Index != 0 {
		return
	}

	return dbg.Instruction, true
}

// LineNo returns the current line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(emu.Cpu.Ip)
	if dbg.Listing == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	if emu.Limit > 0 && emu.Cpu.Ticks >= emu.Limit {
		err = ErrTickLimit
		return
	}

	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrIpHalted) {
		err = nil
		done = true
		return
	}

	return
}

// Run ticks the emulator until the program halts.
func (emu *Emulator) Run() (err error) {
	var done bool
	for !done {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}
