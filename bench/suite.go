// Package bench drives the per-instruction stress programs through an
// execution engine and measures how long the engine takes per unit of gas.
package bench

import (
	"strconv"
	"strings"

	"github.com/Aurorachain/go-opbench/core/vm"
	"github.com/Aurorachain/go-opbench/opgen"
	"github.com/pkg/errors"
)

var ErrUnknownOpcode = errors.New("unknown opcode")

// Entry selects one program of the suite.
type Entry struct {
	Op   vm.OpCode
	Mode opgen.Mode
}

func (e Entry) String() string {
	return e.Op.String() + "/" + e.Mode.String()
}

// ParseEntry resolves an opcode given by name (ADD, push32) or by value
// (0x01) together with a mode name.
func ParseEntry(op, mode string) (Entry, error) {
	code, err := ParseOpcode(op)
	if err != nil {
		return Entry{}, err
	}
	m, err := opgen.ParseMode(mode)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Op: code, Mode: m}, nil
}

// ParseOpcode resolves an opcode name or numeric value.
func ParseOpcode(s string) (vm.OpCode, error) {
	s = strings.TrimSpace(s)
	if op, ok := vm.StringToOp(strings.ToUpper(s)); ok {
		return op, nil
	}
	if n, err := strconv.ParseUint(s, 0, 8); err == nil {
		return vm.OpCode(n), nil
	}
	return 0, errors.Wrapf(ErrUnknownOpcode, "%q", s)
}

// Suite is an ordered list of programs to benchmark.
type Suite []Entry

func (s *Suite) add(mode opgen.Mode, ops ...vm.OpCode) {
	for _, op := range ops {
		*s = append(*s, Entry{Op: op, Mode: mode})
	}
}

func (s *Suite) addBoth(ops ...vm.OpCode) {
	for _, op := range ops {
		s.add(opgen.MinStack, op)
		s.add(opgen.FullStack, op)
	}
}

func opRange(from, to vm.OpCode) []vm.OpCode {
	ops := make([]vm.OpCode, 0, int(to-from)+1)
	for op := from; op <= to; op++ {
		ops = append(ops, op)
	}
	return ops
}

// DefaultSuite returns the standard benchmark: every cheap instruction whose
// cost is dominated by interpreter dispatch and stack traffic.
func DefaultSuite() Suite {
	var s Suite
	s.add(opgen.MinStack, vm.JUMPDEST, vm.ISZERO, vm.NOT)
	s.addBoth(
		vm.ADD, vm.MUL, vm.SUB, vm.SIGNEXTEND,
		vm.LT, vm.GT, vm.SLT, vm.SGT, vm.EQ,
		vm.AND, vm.OR, vm.XOR, vm.BYTE, vm.SHL, vm.SHR, vm.SAR,
	)
	s.addBoth(
		vm.ADDRESS, vm.CALLER, vm.CALLVALUE, vm.CALLDATASIZE, vm.CODESIZE,
		vm.RETURNDATASIZE, vm.PC, vm.MSIZE, vm.GAS,
	)
	s.addBoth(opRange(vm.PUSH1, vm.PUSH32)...)
	s.add(opgen.MinStack, opRange(vm.SWAP1, vm.SWAP16)...)
	s.addBoth(opRange(vm.DUP1, vm.DUP16)...)
	return s
}

// Filter returns the entries matching op and mode. Empty selectors match
// everything.
func (s Suite) Filter(op, mode string) (Suite, error) {
	var (
		wantOp   *vm.OpCode
		wantMode *opgen.Mode
	)
	if op != "" {
		code, err := ParseOpcode(op)
		if err != nil {
			return nil, err
		}
		wantOp = &code
	}
	if mode != "" {
		m, err := opgen.ParseMode(mode)
		if err != nil {
			return nil, err
		}
		wantMode = &m
	}
	var out Suite
	for _, e := range s {
		if wantOp != nil && e.Op != *wantOp {
			continue
		}
		if wantMode != nil && e.Mode != *wantMode {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
