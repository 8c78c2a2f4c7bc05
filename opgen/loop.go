package opgen

import "github.com/Aurorachain/go-opbench/core/vm"

const (
	// LoopCounter is the initial loop counter. Incrementing it by one per
	// iteration wraps it to zero after LoopIterations iterations.
	LoopCounter = "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffb001"

	// LoopIterations is the number of times WrapLoop runs its body.
	LoopIterations = 0x4fff

	// loopHeadLen is the size of the counter push, which is also the offset
	// of the loop's JUMPDEST.
	loopHeadLen = 1 + len(LoopCounter)/2
)

var loopHead = mustPushHex(LoopCounter)

func mustPushHex(payload string) Bytecode {
	code, err := PushHex(payload)
	if err != nil {
		panic(err)
	}
	return code
}

// WrapLoop runs body LoopIterations times. The counter is the only stack item
// the loop keeps; it is left on the stack, zero, once the loop falls through.
//
//	PUSH32 counter
//	JUMPDEST
//	body
//	PUSH1 1, ADD, DUP1, PUSH1 33, JUMPI
func WrapLoop(body Bytecode) Bytecode {
	tail := string(PushInt(1)) + ByteHex(vm.ADD) + ByteHex(vm.DUP1) + string(PushInt(uint64(loopHeadLen))) + ByteHex(vm.JUMPI)
	return loopHead + Bytecode(ByteHex(vm.JUMPDEST)) + body + Bytecode(tail)
}

// LoopOverhead is the number of bytes WrapLoop adds around a body.
const LoopOverhead = loopHeadLen + 1 + 2 + 1 + 1 + 2 + 1
