package io

import (
	"fmt"
	"io"
)

// Tape writes one text line per trace event to an io.Writer.
// When Listing is set, the line also carries the address and
// the instruction text.
type Tape struct {
	Output  io.Writer
	Listing bool

	lines int
}

var _ Tracer = (*Tape)(nil)

// Lines returns the number of lines written since the last Rewind.
func (tc *Tape) Lines() int {
	return tc.lines
}

// Rewind resets the line counter.
func (tc *Tape) Rewind() {
	tc.lines = 0
}

// Trace writes the event to the output stream.
func (tc *Tape) Trace(address int, instruction fmt.Stringer, result uint8) (err error) {
	if tc.Output == nil {
		err = ErrTapeMissing
		return
	}

	if tc.Listing {
		_, err = to(tc.Output, "%02x: %-12v Command Result: %v\n", address, instruction.String(), result)
	} else {
		_, err = to(tc.Output, "Command Result: %v\n", result)
	}
	if err != nil {
		return
	}

	tc.lines++
	return
}
