// Package cpu implements the virtual CPU and its assembler.
//
// The CPU consists of 64 bytes of memory, two 8-bit general-purpose
// registers (r0-r1), and an instruction pointer (IP). Instructions are
// encoded as a leading opcode byte followed by zero, one, or two operand
// bytes:
//
//	0x01 x y   add   r0 = rX + rY (mod 256)
//	0x02 x y   sub   r0 = rX - rY (mod 256)
//	0x03       nop
//	0x04 a     jump  IP = a
//
// The run loop fetches the instruction at the IP, executes it, and
// advances the IP by its width (a jump instead sets the IP directly)
// until the IP reaches the end of memory.
//
// The assembler translates a small assembly language with labels, equates,
// and compile-time expression evaluation into a Program listing.
package cpu
