// Package io provides trace sinks for the virtual CPU.
//
// Every instruction executed by the run loop produces exactly one trace
// event carrying the address it was fetched from, the decoded instruction,
// and its result byte. Sinks decide where that event ends up: a byte
// stream (Tape), the standard logger (Log), or an in-memory list (Record).
package io

import (
	"fmt"
	"log"
)

// Tracer defines the interface for all trace sinks.
type Tracer interface {
	// Trace records the result of a single executed instruction.
	Trace(address int, instruction fmt.Stringer, result uint8) error
}

// Event is a single recorded trace event.
type Event struct {
	Address     int    // Address the instruction was fetched from.
	Instruction string // Assembly text of the instruction.
	Result      uint8  // Result byte of the instruction.
}

// String returns the event as a listing line.
func (ev Event) String() string {
	return f("%02x: %v => %v", ev.Address, ev.Instruction, ev.Result)
}

// Log sends trace events to the standard logger.
type Log struct {
	Prefix string // Prefix for each line, if any.
}

var _ Tracer = (*Log)(nil)

func (lt *Log) Trace(address int, instruction fmt.Stringer, result uint8) (err error) {
	log.Print(lt.Prefix + f("Command Result: %v", result))
	return
}

// Record keeps trace events in memory, up to Capacity events if set.
type Record struct {
	Capacity int
	Events   []Event
}

var _ Tracer = (*Record)(nil)

func (rt *Record) Trace(address int, instruction fmt.Stringer, result uint8) (err error) {
	if rt.Capacity > 0 && len(rt.Events) >= rt.Capacity {
		err = ErrTraceFull
		return
	}

	rt.Events = append(rt.Events, Event{
		Address:     address,
		Instruction: instruction.String(),
		Result:      result,
	})
	return
}

// Results returns the result bytes of all recorded events.
func (rt *Record) Results() (results []uint8) {
	for _, ev := range rt.Events {
		results = append(results, ev.Result)
	}
	return
}

// Reset drops all recorded events.
func (rt *Record) Reset() {
	if len(rt.Events) > 0 {
		rt.Events = rt.Events[:0]
	}
}
