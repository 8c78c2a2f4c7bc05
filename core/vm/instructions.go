package vm

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// ScopeContext contains the things that are per-call, such as stack and memory.
type ScopeContext struct {
	Memory *Memory
	Stack  *Stack
	Code   []byte

	jumpdests bitvec
}

func opStop(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	return nil, nil
}

func opAdd(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Add(&x, y)
	return nil, nil
}

func opPop(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.pop()
	return nil, nil
}

func opJump(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	pos := scope.Stack.pop()
	if !validJumpdest(scope.Code, scope.jumpdests, &pos) {
		return nil, errors.Wrapf(ErrInvalidJump, "jump to %s at pc %d", pos.Hex(), *pc)
	}
	*pc = pos.Uint64()
	return nil, nil
}

func opJumpi(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	pos, cond := scope.Stack.pop(), scope.Stack.pop()
	if cond.IsZero() {
		*pc++
		return nil, nil
	}
	if !validJumpdest(scope.Code, scope.jumpdests, &pos) {
		return nil, errors.Wrapf(ErrInvalidJump, "jumpi to %s at pc %d", pos.Hex(), *pc)
	}
	*pc = pos.Uint64()
	return nil, nil
}

func opJumpdest(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	return nil, nil
}

func opPc(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetUint64(*pc))
	return nil, nil
}

func opMsize(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetUint64(uint64(scope.Memory.Len())))
	return nil, nil
}

func opCodeSize(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(new(uint256.Int).SetUint64(uint64(len(scope.Code))))
	return nil, nil
}

func opCodeCopy(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	var (
		memOffset  = scope.Stack.pop()
		codeOffset = scope.Stack.pop()
		length     = scope.Stack.pop()
	)
	end, err := expansion(&memOffset, &length)
	if err != nil {
		return nil, err
	}
	if end == 0 {
		return nil, nil
	}
	scope.Memory.Resize(end)
	size := length.Uint64()
	scope.Memory.Set(memOffset.Uint64(), size, getData(scope.Code, &codeOffset, size))
	return nil, nil
}

func opReturn(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	offset, size := scope.Stack.pop(), scope.Stack.pop()
	end, err := expansion(&offset, &size)
	if err != nil {
		return nil, err
	}
	if end == 0 {
		return nil, nil
	}
	scope.Memory.Resize(end)
	return scope.Memory.GetCopy(offset.Uint64(), size.Uint64()), nil
}

func opRevert(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	return opReturn(pc, interpreter, scope)
}

func opInvalid(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	return nil, errors.Wrapf(ErrInvalidOpcode, "INVALID at pc %d", *pc)
}

// getData returns a slice from the data based on the start and size and pads
// up to size with zero's.
func getData(data []byte, start *uint256.Int, size uint64) []byte {
	out := make([]byte, size)
	s, overflow := start.Uint64WithOverflow()
	if overflow || s >= uint64(len(data)) {
		return out
	}
	copy(out, data[s:])
	return out
}

// makePush pushes the size-byte immediate following the opcode. Bytes beyond
// the end of the code read as zero.
func makePush(size uint64) executionFunc {
	return func(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
		start := *pc + 1
		imm := make([]byte, size)
		if start < uint64(len(scope.Code)) {
			copy(imm, scope.Code[start:])
		}
		scope.Stack.push(new(uint256.Int).SetBytes(imm))
		*pc += size
		return nil, nil
	}
}

func makeDup(size int) executionFunc {
	return func(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
		scope.Stack.dup(size)
		return nil, nil
	}
}

func makeSwap(size int) executionFunc {
	// switch n + 1 otherwise n would be swapped with n
	size++
	return func(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
		scope.Stack.swap(size)
		return nil, nil
	}
}

// makeOpaque models an instruction only by its stack shape: operands are
// discarded and the results are zero words.
func makeOpaque(t Trait) executionFunc {
	return func(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
		for i := 0; i < t.StackIn; i++ {
			scope.Stack.pop()
		}
		for i := 0; i < t.Pushes(); i++ {
			scope.Stack.push(new(uint256.Int))
		}
		return nil, nil
	}
}
