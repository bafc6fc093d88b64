// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezrec/vcpu/cpu"
	"github.com/ezrec/vcpu/emulator"
)

// demoProgram adds r1 to r0, then subtracts it again.
func demoProgram() *cpu.Program {
	return &cpu.Program{
		Listings: []cpu.Listing{
			{LineNo: 1, Address: 0, Words: []string{"add", "r0", "r1"}, Instruction: cpu.MakeAdd(0, 1)},
			{LineNo: 2, Address: 3, Words: []string{"sub", "r0", "r1"}, Instruction: cpu.MakeSub(0, 1)},
		},
	}
}

func newRootCmd() *cobra.Command {
	var compile string
	var zeroHalts bool
	var limit int
	var listing bool
	var verbose bool
	var defines bool
	registers := registerFlag{}

	rootCmd := &cobra.Command{
		Use:          "vcpu",
		Short:        "Run a program on the 64 byte virtual CPU",
		Long:         "Run a program on the 64 byte virtual CPU, printing the result of every instruction.\nWithout -c, runs the built-in demo: r0=5 r1=10, add r0 r1, sub r0 r1.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			out := cmd.OutOrStdout()

			emu := emulator.NewEmulator()
			emu.Verbose = verbose
			emu.Limit = limit
			emu.ZeroHalts = zeroHalts
			emu.Tape.Output = out
			emu.Tape.Listing = listing

			if defines {
				for key, value := range emu.Defines() {
					fmt.Fprintf(out, "%v %v\n", key, value)
				}
				return
			}

			preset := registerFlag{}
			if len(compile) != 0 {
				var inf *os.File
				inf, err = os.Open(compile)
				if err != nil {
					return
				}
				defer inf.Close()

				err = emu.Assemble(inf)
				if err != nil {
					return fmt.Errorf("%v: %w", compile, err)
				}
			} else {
				emu.Program = demoProgram()
				preset[0] = 5
				preset[1] = 10
				if !cmd.Flags().Changed("zero-halts") {
					emu.ZeroHalts = true
				}
			}

			err = emu.Reset()
			if err != nil {
				return
			}

			for _, regs := range []registerFlag{preset, registers} {
				err = regs.apply(emu.Cpu)
				if err != nil {
					return
				}
			}

			err = emu.Run()
			if verbose {
				log.Printf("vcpu: final state\n%v", emu.Cpu.String())
			}
			return
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&compile, "compile", "c", "", ".vc file to assemble and run")
	flags.VarP(&registers, "register", "r", "Preset a register, as N=VALUE (repeatable)")
	flags.BoolVarP(&zeroHalts, "zero-halts", "z", false, "Halt on a 0x00 opcode byte instead of failing (default on for the demo)")
	flags.IntVarP(&limit, "max-ticks", "m", 0, "Maximum instructions to execute (0 = unlimited)")
	flags.BoolVarP(&listing, "listing", "l", false, "Include address and instruction in the trace")
	flags.BoolVar(&defines, "defines", false, "Print the assembler predefines and exit")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
