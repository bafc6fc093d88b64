package cpu

import (
	"fmt"
)

// Opcode is the leading byte of an encoded instruction.
type Opcode uint8

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_ADD  = Opcode(0x01) // add
	OP_SUB  = Opcode(0x02) // sub
	OP_NOP  = Opcode(0x03) // nop
	OP_JUMP = Opcode(0x04) // jump
)

// Width returns the encoded size in bytes of an instruction with this
// opcode, or 0 if the opcode is unknown.
func (op Opcode) Width() int {
	switch op {
	case OP_ADD, OP_SUB:
		return 3
	case OP_NOP:
		return 1
	case OP_JUMP:
		return 2
	}

	return 0
}

// Valid returns true if the opcode is one the CPU can decode.
func (op Opcode) Valid() bool {
	return op.Width() != 0
}

// Instruction is a single decoded instruction.
//
// X and Y are register indices for add and sub, and Target is the
// absolute memory address for jump. Fields that the opcode does not
// use are always zero.
type Instruction struct {
	Op     Opcode
	X, Y   uint8
	Target uint8
}

// MakeAdd creates an add instruction: r0 = rX + rY.
func MakeAdd(x, y uint8) Instruction {
	return Instruction{Op: OP_ADD, X: x, Y: y}
}

// MakeSub creates a subtract instruction: r0 = rX - rY.
func MakeSub(x, y uint8) Instruction {
	return Instruction{Op: OP_SUB, X: x, Y: y}
}

// MakeNop creates a no-op instruction.
func MakeNop() Instruction {
	return Instruction{Op: OP_NOP}
}

// MakeJump creates a jump to an absolute address.
func MakeJump(target uint8) Instruction {
	return Instruction{Op: OP_JUMP, Target: target}
}

// Width returns the encoded size of the instruction in bytes.
func (ins Instruction) Width() int {
	return ins.Op.Width()
}

// Bytes returns the memory encoding of the instruction.
// An unknown opcode encodes as its opcode byte alone.
func (ins Instruction) Bytes() (data []byte) {
	switch ins.Op {
	case OP_ADD, OP_SUB:
		data = []byte{byte(ins.Op), ins.X, ins.Y}
	case OP_NOP:
		data = []byte{byte(ins.Op)}
	case OP_JUMP:
		data = []byte{byte(ins.Op), ins.Target}
	default:
		data = []byte{byte(ins.Op)}
	}

	return
}

// String returns the assembly language representation of this instruction.
func (ins Instruction) String() (out string) {
	switch ins.Op {
	case OP_ADD, OP_SUB:
		out = fmt.Sprintf("%v r%d r%d", ins.Op, ins.X, ins.Y)
	case OP_NOP:
		out = ins.Op.String()
	case OP_JUMP:
		out = fmt.Sprintf("%v 0x%02x", ins.Op, ins.Target)
	default:
		out = fmt.Sprintf(".byte 0x%02x", uint8(ins.Op))
	}

	return
}
