package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/vcpu/io"
)

// Machine geometry.
const (
	MEMORY_SIZE    = 64 // Bytes of memory.
	REGISTER_COUNT = 2  // General purpose 8-bit registers.
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":    fmt.Sprintf("%d", MEMORY_SIZE),
	"REGISTER_COUNT": fmt.Sprintf("%d", REGISTER_COUNT),
	"OP_ADD":         fmt.Sprintf("0x%02x", uint8(OP_ADD)),
	"OP_SUB":         fmt.Sprintf("0x%02x", uint8(OP_SUB)),
	"OP_NOP":         fmt.Sprintf("0x%02x", uint8(OP_NOP)),
	"OP_JUMP":        fmt.Sprintf("0x%02x", uint8(OP_JUMP)),
}

// Tracer used when the Cpu has none set.
var defaultTracer io.Tracer = &io.Log{}

// Cpu is the simulation context for the virtual CPU.
type Cpu struct {
	Verbose   bool      // Set to enable verbose logging.
	ZeroHalts bool      // Set to halt, rather than fail, on a 0x00 opcode byte.
	Trace     io.Tracer // Sink for run loop results. Uses the logger if nil.

	Ip       int                   // Current instruction pointer.
	Register [REGISTER_COUNT]uint8 // Register bank.
	Memory   [MEMORY_SIZE]byte     // Program memory.

	Ticks int // Executed instruction counter.
}

// NewCpu creates a new CPU with zeroed memory and registers.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears memory and registers.
// - Sets the IP to 0.
// - Zeros the tick counter.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory[:])
	clear(cpu.Register[:])
	cpu.Ip = 0
	cpu.Ticks = 0
}

// Halted returns true if the IP has run off the end of memory.
func (cpu *Cpu) Halted() bool {
	return cpu.Ip >= MEMORY_SIZE
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{"ip", "r0", "r1", "ticks", "next"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "ip":
			strval = fmt.Sprintf("0x%02x", cpu.Ip)
		case "r0", "r1":
			val := cpu.Register[byte(reg[1]-'0')]
			strval = fmt.Sprintf("0x%02x (%d)", val, val)
		case "ticks":
			strval = fmt.Sprintf("%d", cpu.Ticks)
		case "next":
			if cpu.Halted() {
				strval = "--"
				break
			}
			ins, err := cpu.FetchCommandAt(cpu.Ip)
			if err != nil {
				strval = err.Error()
			} else {
				strval = ins.String()
			}
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// SetRegister sets a register in the register bank.
func (cpu *Cpu) SetRegister(index int, value uint8) (err error) {
	if index < 0 || index >= len(cpu.Register) {
		err = ErrRegister(index)
		return
	}

	cpu.Register[index] = value
	return
}

// GetRegister gets a register from the register bank.
func (cpu *Cpu) GetRegister(index int) (value uint8, err error) {
	if index < 0 || index >= len(cpu.Register) {
		err = ErrRegister(index)
		return
	}

	value = cpu.Register[index]
	return
}

// LoadCommand encodes an instruction into memory at an address,
// overwriting whatever was stored there. Nothing is written if the
// encoding does not fit in memory. Register operands are not checked.
func (cpu *Cpu) LoadCommand(address int, ins Instruction) (err error) {
	data := ins.Bytes()

	if address < 0 {
		err = ErrAddress(address)
		return
	}
	if address+len(data) > len(cpu.Memory) {
		err = ErrAddress(address + len(data) - 1)
		return
	}

	copy(cpu.Memory[address:], data)

	if cpu.Verbose {
		log.Printf("cpu: load %02x: % x (%v)", address, data, ins)
	}

	return
}

// fetchByte reads a single byte of memory.
func (cpu *Cpu) fetchByte(address int) (value byte, err error) {
	if address < 0 || address >= len(cpu.Memory) {
		err = ErrAddress(address)
		return
	}

	value = cpu.Memory[address]
	return
}

// FetchCommandAt decodes the instruction stored at an address.
// Operand bytes immediately follow the opcode byte.
func (cpu *Cpu) FetchCommandAt(address int) (ins Instruction, err error) {
	opcode, err := cpu.fetchByte(address)
	if err != nil {
		return
	}

	op := Opcode(opcode)
	if !op.Valid() {
		err = ErrOpcode{Address: address, Byte: opcode}
		return
	}

	var operand [2]byte
	for n := range op.Width() - 1 {
		operand[n], err = cpu.fetchByte(address + 1 + n)
		if err != nil {
			return
		}
	}

	switch op {
	case OP_ADD:
		ins = MakeAdd(operand[0], operand[1])
	case OP_SUB:
		ins = MakeSub(operand[0], operand[1])
	case OP_NOP:
		ins = MakeNop()
	case OP_JUMP:
		ins = MakeJump(operand[0])
	}

	return
}

// ExecuteCommandAt decodes and executes the instruction at an address.
// The IP is only modified by a jump.
func (cpu *Cpu) ExecuteCommandAt(address int) (result uint8, err error) {
	ins, err := cpu.FetchCommandAt(address)
	if err != nil {
		return
	}

	return cpu.Execute(ins)
}

// Execute executes a single decoded instruction, returning its result.
//   - add and sub write their result to r0, wrapping modulo 256.
//   - nop has no effect, and returns 0.
//   - jump sets the IP to the target, and returns 0.
func (cpu *Cpu) Execute(ins Instruction) (result uint8, err error) {
	switch ins.Op {
	case OP_ADD, OP_SUB:
		var x, y uint8
		x, err = cpu.GetRegister(int(ins.X))
		if err != nil {
			return
		}
		y, err = cpu.GetRegister(int(ins.Y))
		if err != nil {
			return
		}
		if ins.Op == OP_ADD {
			result = x + y
		} else {
			result = x - y
		}
		cpu.Register[0] = result
	case OP_NOP:
		// pass
	case OP_JUMP:
		cpu.Ip = int(ins.Target)
	default:
		err = ErrOpcode{Address: cpu.Ip, Byte: uint8(ins.Op)}
	}

	return
}

// Tick executes a single run loop step.
//
// The instruction at the IP is decoded once, executed, and the IP is
// advanced by its width unless it was a jump. The result is then sent
// to the tracer. Returns ErrIpHalted, without executing anything, once
// the IP has reached the end of memory.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted() {
		err = ErrIpHalted
		return
	}

	ip := cpu.Ip
	if cpu.ZeroHalts && ip >= 0 && cpu.Memory[ip] == 0 {
		if cpu.Verbose {
			log.Printf("cpu: %02x: zero opcode, halting", ip)
		}
		err = ErrIpHalted
		return
	}

	ins, err := cpu.FetchCommandAt(ip)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: %02x: %v", ip, ins)
	}

	result, err := cpu.Execute(ins)
	if err != nil {
		return
	}

	if ins.Op != OP_JUMP {
		cpu.Ip = ip + ins.Width()
	}
	cpu.Ticks++

	tracer := cpu.Trace
	if tracer == nil {
		tracer = defaultTracer
	}

	err = tracer.Trace(ip, ins, result)
	return
}

// ExecuteCommand runs the CPU from the current IP until it halts.
// Returns nil on a halt, or the first decode or execution error.
func (cpu *Cpu) ExecuteCommand() (err error) {
	for {
		err = cpu.Tick()
		if err == ErrIpHalted {
			err = nil
			break
		}
		if err != nil {
			break
		}
	}

	return
}
