package runtime

import (
	"github.com/Aurorachain/go-opbench/core/vm"
	"github.com/pkg/errors"
)

// Fuzz is the basic entry point for the go-fuzz tool
//
// This returns 1 for valid parsable/runable code, 0
// for invalid opcode.
func Fuzz(input []byte) int {
	_, _, err := Execute(input, &Config{
		StepLimit: 100000,
	})
	switch errors.Cause(err) {
	case vm.ErrInvalidOpcode, vm.ErrInvalidJump:
		return 0
	}
	return 1
}
