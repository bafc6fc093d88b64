package cpu

import (
	"iter"
)

// Listing is a line of assembled code with its source location and
// generated instruction.
type Listing struct {
	LineNo      int
	Address     int
	Words       []string
	Instruction Instruction
	LinkLabel   string
}

// Program is an assembled program listing.
type Program struct {
	Listings []Listing
}

type Debug struct {
	*Listing
	Index int // Byte offset of the address into the instruction.
}

// Debug finds the listing entry whose instruction covers an address.
func (prog *Program) Debug(address int) (dbg Debug) {
	for n, ls := range prog.Listings {
		if address >= ls.Address && address < ls.Address+ls.Instruction.Width() {
			dbg = Debug{
				Listing: &prog.Listings[n],
				Index:   address - ls.Address,
			}
			break
		}
	}

	return
}

// Binary returns the memory image of the program.
func (prog *Program) Binary() (image [MEMORY_SIZE]byte) {
	for address, ins := range prog.Instructions() {
		if address < 0 || address >= len(image) {
			continue
		}
		copy(image[address:], ins.Bytes())
	}

	return
}

// Instructions iterates over the program instructions in listing order.
func (prog *Program) Instructions() iter.Seq2[int, Instruction] {
	return func(yield func(address int, ins Instruction) bool) {
		for _, ls := range prog.Listings {
			if !yield(ls.Address, ls.Instruction) {
				return
			}
		}
	}
}

// Load encodes the program into the CPU memory.
func (prog *Program) Load(cpu *Cpu) (err error) {
	for address, ins := range prog.Instructions() {
		err = cpu.LoadCommand(address, ins)
		if err != nil {
			return
		}
	}

	return
}
