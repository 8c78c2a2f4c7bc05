package opgen

import (
	"strings"

	"github.com/Aurorachain/go-opbench/core/vm"
	"github.com/Aurorachain/go-opbench/params"
	"github.com/pkg/errors"
)

// StackLimit is the highest stack height a body may reach, one slot below the
// machine limit.
const StackLimit = int(params.StackLimit) - 1

// bodyWriter accumulates a body as hex.
type bodyWriter struct {
	strings.Builder
}

func (w *bodyWriter) emit(code string, times int) {
	for i := 0; i < times; i++ {
		w.WriteString(code)
	}
}

func (w *bodyWriter) op(op vm.OpCode, times int) {
	w.emit(ByteHex(op), times)
}

func (w *bodyWriter) code() Bytecode {
	return Bytecode(w.String())
}

// GenerateBody emits straight-line code that executes op close to StackLimit
// times. Started with the loop counter on the stack the body never underflows
// and never lifts the stack above the machine limit; it leaves the height
// where it found it.
func GenerateBody(op vm.OpCode, mode Mode) (Bytecode, error) {
	category, err := vm.Classify(op)
	if err != nil {
		return "", err
	}
	var w bodyWriter
	switch mode {
	case MinStack:
		err = minStackBody(&w, op, category)
	case FullStack:
		err = fullStackBody(&w, op, category)
	default:
		return "", errors.Wrapf(ErrUnknownMode, "%d", int(mode))
	}
	if err != nil {
		return "", err
	}
	return w.code(), nil
}

// minStackBody keeps at most a handful of operands live so only the marginal
// cost of op is measured.
func minStackBody(w *bodyWriter, op vm.OpCode, category vm.InstructionCategory) error {
	const L = StackLimit

	switch category {
	case vm.CategoryNop:
		w.op(op, 2*L)

	case vm.CategoryNullop:
		w.emit(ByteHex(op)+ByteHex(vm.POP), L)

	case vm.CategoryUnop:
		w.op(vm.DUP1, 1)
		w.op(op, 2*L)
		w.op(vm.POP, 1)

	case vm.CategoryBinop:
		w.op(vm.DUP1, 1)
		w.emit(ByteHex(vm.DUP1)+ByteHex(op), L-1)
		w.op(vm.POP, 1)

	case vm.CategoryPush:
		push, err := PushZeroed(op)
		if err != nil {
			return err
		}
		w.emit(string(push)+ByteHex(vm.POP), L)

	case vm.CategoryDup:
		n := int(op-vm.DUP1) + 1
		w.op(vm.DUP1, n-1)
		w.emit(ByteHex(op)+ByteHex(vm.POP), L-(n-1))
		w.op(vm.POP, n-1)

	case vm.CategorySwap:
		// Pairs of swaps cancel out, so the operand order survives the body.
		n := int(op-vm.SWAP1) + 1
		w.op(vm.DUP1, n)
		w.op(op, 2*L)
		w.op(vm.POP, n)

	case vm.CategoryOther:
		return errors.Wrapf(ErrUnsupportedCategory, "%v (%v) in %v mode", op, category, MinStack)
	}
	return nil
}

// fullStackBody drives the stack up to the limit so op runs under stack
// pressure. Instructions that keep the height fixed have no such variant.
func fullStackBody(w *bodyWriter, op vm.OpCode, category vm.InstructionCategory) error {
	const L = StackLimit

	switch category {
	case vm.CategoryNullop:
		w.op(op, L)
		w.op(vm.POP, L)

	case vm.CategoryBinop:
		w.op(vm.DUP1, L)
		w.op(op, L-1)
		w.op(vm.POP, 1)

	case vm.CategoryPush:
		push, err := PushZeroed(op)
		if err != nil {
			return err
		}
		w.emit(string(push), L)
		w.op(vm.POP, L)

	case vm.CategoryDup:
		n := int(op-vm.DUP1) + 1
		w.op(vm.DUP1, n-1)
		w.op(op, L-(n-1))
		w.op(vm.POP, L)

	case vm.CategoryNop, vm.CategoryUnop, vm.CategorySwap, vm.CategoryOther:
		return errors.Wrapf(ErrUnsupportedCategory, "%v (%v) in %v mode", op, category, FullStack)
	}
	return nil
}
