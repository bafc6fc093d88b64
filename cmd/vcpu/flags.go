package main

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ezrec/vcpu/cpu"
	"github.com/ezrec/vcpu/translate"
)

var f = translate.From

// registerFlag collects N=VALUE register presets.
type registerFlag map[int]uint8

var _ pflag.Value = (*registerFlag)(nil)

func (rf *registerFlag) String() string {
	var parts []string
	for _, index := range slices.Sorted(maps.Keys(*rf)) {
		parts = append(parts, fmt.Sprintf("r%d=%d", index, (*rf)[index]))
	}
	return strings.Join(parts, ",")
}

func (rf *registerFlag) Set(text string) (err error) {
	name, value, ok := strings.Cut(text, "=")
	if !ok {
		err = errors.New(f("'%v' is not N=VALUE", text))
		return
	}

	index, err := strconv.Atoi(strings.TrimPrefix(name, "r"))
	if err != nil {
		err = errors.New(f("'%v' is not a register", name))
		return
	}
	if index < 0 || index >= cpu.REGISTER_COUNT {
		err = cpu.ErrRegister(index)
		return
	}

	v64, err := strconv.ParseUint(value, 0, 8)
	if err != nil {
		err = errors.New(f("'%v' is not a byte value", value))
		return
	}

	if *rf == nil {
		*rf = registerFlag{}
	}
	(*rf)[index] = uint8(v64)
	return
}

func (rf *registerFlag) Type() string {
	return "N=VALUE"
}

// apply sets the preset registers on a CPU.
func (rf registerFlag) apply(cp *cpu.Cpu) (err error) {
	for index, value := range rf {
		err = cp.SetRegister(index, value)
		if err != nil {
			return
		}
	}
	return
}
