package opgen

import (
	"fmt"

	"github.com/Aurorachain/go-opbench/core/vm"
)

const (
	// deployCodeOffset is where the runtime code starts inside the creation
	// code: the header plus one padding byte.
	deployCodeOffset = 0x1b

	// deployPadding fills the single byte between header and runtime code.
	// It is never executed.
	deployPadding = 0xd5
)

// WrapDeploy returns creation code that copies runtime into memory and
// returns it, so the deployed contract's code is exactly runtime.
//
//	PUSH8 len, PUSH1 0x1b, PUSH1 0x00, CODECOPY
//	PUSH8 len, PUSH1 0x00, RETURN
//	0xd5
//	runtime
func WrapDeploy(runtime Bytecode) Bytecode {
	length := string(mustPushHex(fmt.Sprintf("%016x", uint64(runtime.Len()))))
	header := length +
		string(PushInt(deployCodeOffset)) +
		string(PushInt(0)) +
		ByteHex(vm.CODECOPY) +
		length +
		string(PushInt(0)) +
		ByteHex(vm.RETURN)
	return Bytecode(header+ByteHex(deployPadding)) + runtime
}

// DeployOverhead is the number of bytes WrapDeploy adds in front of the
// runtime code.
const DeployOverhead = deployCodeOffset
