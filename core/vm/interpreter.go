package vm

import (
	"github.com/Aurorachain/go-opbench/params"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Tracer is notified before every instruction the interpreter executes.
type Tracer interface {
	CaptureState(pc uint64, op OpCode, height int)
}

// Config are the configuration options for the Interpreter
type Config struct {
	// StepLimit bounds the number of executed instructions. Zero means
	// params.DefaultStepLimit.
	StepLimit uint64

	Tracer Tracer

	JumpTable JumpTable
}

// Result summarises a finished run.
type Result struct {
	Steps     uint64
	MaxHeight int
	Stack     []uint256.Int // stack left behind when execution halted
}

// Interpreter executes bytecode with a stack-accurate model of the machine.
// It is used to check generated programs before they are sent to an engine.
type Interpreter struct {
	cfg Config

	steps     uint64
	maxHeight int
	stack     *Stack
}

func NewInterpreter(cfg Config) *Interpreter {
	if !cfg.JumpTable[STOP].valid {
		cfg.JumpTable = NewVerifierInstructionSet()
	}
	if cfg.StepLimit == 0 {
		cfg.StepLimit = params.DefaultStepLimit
	}
	return &Interpreter{cfg: cfg}
}

// Run loops and evaluates the code starting from an empty stack and empty
// memory. It returns the bytes handed back by RETURN or REVERT.
func (in *Interpreter) Run(code []byte) (ret []byte, err error) {
	in.steps, in.maxHeight = 0, 0
	in.stack = newstack()

	if len(code) == 0 {
		return nil, nil
	}

	var (
		op    OpCode
		mem   = NewMemory()
		stack = in.stack
		scope = &ScopeContext{
			Memory:    mem,
			Stack:     stack,
			Code:      code,
			jumpdests: codeBitmap(code),
		}
		pc = uint64(0)
	)
	for {
		if in.steps >= in.cfg.StepLimit {
			return nil, errors.Wrapf(ErrStepLimitReached, "after %d steps", in.steps)
		}
		in.steps++

		op = getOp(code, pc)
		operation := &in.cfg.JumpTable[op]
		if !operation.valid {
			return nil, errors.Wrapf(ErrInvalidOpcode, "opcode %#02x at pc %d", byte(op), pc)
		}
		if sLen := stack.len(); sLen < operation.minStack {
			return nil, errors.Wrapf(ErrStackUnderflow, "%v at pc %d: have %d, want %d", op, pc, sLen, operation.minStack)
		} else if sLen > operation.maxStack {
			return nil, errors.Wrapf(ErrStackOverflow, "%v at pc %d: have %d, limit %d", op, pc, sLen, operation.maxStack)
		}
		if in.cfg.Tracer != nil {
			in.cfg.Tracer.CaptureState(pc, op, stack.len())
		}

		res, err := operation.execute(&pc, in, scope)
		if h := stack.len(); h > in.maxHeight {
			in.maxHeight = h
		}

		switch {
		case err != nil:
			return nil, err
		case operation.reverts:
			return res, ErrExecutionReverted
		case operation.halts:
			return res, nil
		case !operation.jumps:
			pc++
		}
	}
}

// Result reports statistics of the last Run.
func (in *Interpreter) Result() *Result {
	r := &Result{Steps: in.steps, MaxHeight: in.maxHeight}
	if in.stack != nil {
		r.Stack = append([]uint256.Int(nil), in.stack.Data()...)
	}
	return r
}

// getOp returns the opcode at pc; running off the end of the code reads STOP.
func getOp(code []byte, pc uint64) OpCode {
	if pc < uint64(len(code)) {
		return OpCode(code[pc])
	}
	return STOP
}
