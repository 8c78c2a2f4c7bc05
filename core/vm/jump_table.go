package vm

import (
	"github.com/Aurorachain/go-opbench/params"
)

type executionFunc func(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error)

type operation struct {
	// execute is the operation function
	execute executionFunc
	// minStack tells how many stack items are required
	minStack int
	// maxStack specifies the max length the stack can have for this operation
	// to not overflow the stack.
	maxStack int

	halts   bool // indicates whether the operation should halt further execution
	jumps   bool // indicates whether the program counter should not increment
	reverts bool // determines whether the operation reverts state (implicitly halts)
	valid   bool // indication whether the retrieved operation is valid and known
}

// JumpTable contains the operations supported by the verifier.
type JumpTable [256]operation

func maxStack(pop, push int) int {
	return int(params.StackLimit) + pop - push
}

// NewVerifierInstructionSet returns a jump table covering every opcode that has
// a trait. Control flow, stack manipulation and the instructions needed by
// creation code run with real semantics; everything else consumes its operands
// and pushes zero words.
func NewVerifierInstructionSet() JumpTable {
	var jt JumpTable
	for op, t := range traits {
		jt[op] = operation{
			execute:  makeOpaque(t),
			minStack: t.StackIn,
			maxStack: maxStack(t.StackIn, t.Pushes()),
			valid:    true,
		}
	}
	exact := map[OpCode]executionFunc{
		ADD:      opAdd,
		POP:      opPop,
		JUMPDEST: opJumpdest,
		PC:       opPc,
		MSIZE:    opMsize,
		CODESIZE: opCodeSize,
		CODECOPY: opCodeCopy,
	}
	for op, fn := range exact {
		jt[op].execute = fn
	}
	for i := 0; i < 32; i++ {
		jt[PUSH1+OpCode(i)].execute = makePush(uint64(i + 1))
	}
	for i := 0; i < 16; i++ {
		jt[DUP1+OpCode(i)].execute = makeDup(i + 1)
		jt[SWAP1+OpCode(i)].execute = makeSwap(i + 1)
	}

	jt[STOP].execute, jt[STOP].halts = opStop, true
	jt[RETURN].execute, jt[RETURN].halts = opReturn, true
	jt[REVERT].execute, jt[REVERT].reverts = opRevert, true
	jt[INVALID].execute = opInvalid
	jt[JUMP].execute, jt[JUMP].jumps = opJump, true
	jt[JUMPI].execute, jt[JUMPI].jumps = opJumpi, true
	return jt
}
