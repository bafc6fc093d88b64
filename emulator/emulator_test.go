package emulator

import (
	"bytes"
	"errors"
	"maps"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/vcpu/cpu"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Program)
	assert.Equal(&emu.Tape, emu.Cpu.Trace)
}

func TestEmulatorDefines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	defines := maps.Collect(emu.Defines())
	assert.Equal("0", defines["ENTRY_ADDRESS"])
	assert.Equal("64", defines["MEMORY_SIZE"])

	var keys []string
	for key := range emu.Defines() {
		keys = append(keys, key)
	}
	assert.Equal("ENTRY_ADDRESS", keys[0])
}

func doRunSingle(emu *Emulator, program []string, t *testing.T) (output string) {
	assert := assert.New(t)

	err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	err = emu.Reset()
	assert.NoError(err)

	tape_output := &bytes.Buffer{}
	emu.Tape.Output = tape_output

	for _, ls := range emu.Program.Listings {
		here := program[ls.LineNo-1]
		assert.Equal(ls.LineNo, emu.LineNo(), here)
		assert.Equal(ls.Address, emu.Ip(), here)

		code, ok := emu.Code()
		assert.True(ok, here)
		assert.Equal(ls.Instruction, code, here)

		done, err := emu.Tick()
		if err != nil {
			t.Log(emu.Cpu.String())
			t.Fatalf("%v", err)
		}
		assert.False(done, here)
	}

	output = tape_output.String()
	return
}

func TestEmulatorDemo(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"add r0 r1",
		"sub r0 r1",
	}

	emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	emu.Reset()
	emu.SetRegister(0, 5)
	emu.SetRegister(1, 10)

	output := &bytes.Buffer{}
	emu.Tape.Output = output

	done, err := emu.Tick()
	assert.NoError(err)
	assert.False(done)
	assert.Equal(uint8(15), emu.Cpu.Register[0])

	done, err = emu.Tick()
	assert.NoError(err)
	assert.False(done)
	assert.Equal(uint8(5), emu.Cpu.Register[0])

	// Strict decode: the zeroed memory after the program is not an opcode.
	done, err = emu.Tick()
	assert.False(done)
	assert.ErrorIs(err, cpu.ErrOpcode{})

	var rt *ErrRuntime
	assert.True(errors.As(err, &rt))
	assert.Equal(0, rt.LineNo)

	assert.Equal("Command Result: 15\nCommand Result: 5\n", output.String())
	assert.Equal(2, emu.Tape.Lines())
	assert.Equal(2, emu.Ticks())
}

func TestEmulatorZeroHalts(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.ZeroHalts = true

	program := []string{
		"add r0 r1",
		"add r0 r0",
	}

	emu.Cpu.Register = [cpu.REGISTER_COUNT]uint8{}
	output := doRunSingle(emu, program, t)

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)

	assert.Equal("Command Result: 0\nCommand Result: 0\n", output)
}

func TestEmulatorLabel(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"jump main",
		".org $(MEMORY_SIZE - 3)",
		"last: add r0 r1",
		".org 0x10",
		"main: add r0 r1",
		"nop",
		"jump last",
	}

	err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	assert.NoError(emu.Reset())
	emu.Cpu.Register = [cpu.REGISTER_COUNT]uint8{200, 100}

	output := &bytes.Buffer{}
	emu.Tape.Output = output

	var lines []int
	var done bool
	for !done {
		lines = append(lines, emu.LineNo())
		done, err = emu.Tick()
		assert.NoError(err)
		if err != nil {
			t.Fatal(err)
		}
	}

	assert.Equal([]int{1, 5, 6, 7, 3, 0}, lines)
	assert.Equal(cpu.MEMORY_SIZE, emu.Ip())
	assert.Equal(uint8(144), emu.Cpu.Register[0])
	assert.Equal("Command Result: 0\nCommand Result: 44\nCommand Result: 0\nCommand Result: 0\nCommand Result: 144\n", output.String())
}

func TestEmulatorLimit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Limit = 10

	err := emu.Assemble(strings.NewReader("loop: nop\njump loop"))
	assert.NoError(err)
	assert.NoError(emu.Reset())
	emu.Tape.Output = &bytes.Buffer{}

	err = emu.Run()
	assert.ErrorIs(err, ErrTickLimit)
	assert.Equal(10, emu.Ticks())

	var rt *ErrRuntime
	if assert.True(errors.As(err, &rt)) {
		assert.Contains([]int{1, 2}, rt.LineNo)
	}
}

func TestEmulatorRun(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	err := emu.Assemble(strings.NewReader(".org $(MEMORY_SIZE - 1)\nnop"))
	assert.NoError(err)
	assert.NoError(emu.Reset())

	// Jump over the zeroed memory to the final nop.
	assert.NoError(emu.LoadCommand(0, cpu.MakeJump(cpu.MEMORY_SIZE-1)))

	output := &bytes.Buffer{}
	emu.Tape.Output = output

	assert.NoError(emu.Run())
	assert.Equal("Command Result: 0\nCommand Result: 0\n", output.String())
	assert.Equal(cpu.MEMORY_SIZE, emu.Ip())
}

func TestEmulatorAssembleError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	prog := emu.Program

	err := emu.Assemble(strings.NewReader("nop\nhalt"))
	assert.ErrorIs(err, cpu.ErrInstructionInvalid)
	assert.Equal(prog, emu.Program)
}

func TestEmulatorReset(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	assert.NoError(emu.Assemble(strings.NewReader("nop\nnop")))
	assert.NoError(emu.Reset())
	emu.Tape.Output = &bytes.Buffer{}

	_, err := emu.Tick()
	assert.NoError(err)
	assert.Equal(1, emu.Ip())

	emu.Cpu.Register[0] = 9
	assert.NoError(emu.Reset())
	assert.Equal(0, emu.Ip())
	assert.Equal(0, emu.Ticks())
	assert.Equal(0, emu.Tape.Lines())
	assert.Equal(uint8(0), emu.Cpu.Register[0])
	assert.Equal(byte(cpu.OP_NOP), emu.Cpu.Memory[1])
}

func TestEmulatorNoProgram(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Program = nil

	assert.Equal(0, emu.LineNo())
	_, ok := emu.Code()
	assert.False(ok)

	assert.NoError(emu.Reset())
	assert.NotNil(emu.Program)
	assert.Equal(0, len(emu.Program.Listings))
	assert.Equal([cpu.MEMORY_SIZE]byte{}, emu.Cpu.Memory)
}
