package opgen

import (
	"strconv"
	"strings"

	"github.com/Aurorachain/go-opbench/common"
	"github.com/Aurorachain/go-opbench/core/vm"
	"github.com/pkg/errors"
)

// Bytecode is machine code rendered as lowercase hex without a 0x prefix.
type Bytecode string

// Hex returns the code with a 0x prefix.
func (b Bytecode) Hex() string {
	return "0x" + string(b)
}

// Bytes decodes the code.
func (b Bytecode) Bytes() []byte {
	return common.Hex2Bytes(string(b))
}

// Len returns the length of the code in bytes.
func (b Bytecode) Len() int {
	return len(b) / 2
}

// ByteHex renders a single opcode as two lowercase hex digits.
func ByteHex(op vm.OpCode) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[op>>4], digits[op&0x0f]})
}

// PushZeroed emits op followed by a zero immediate of exactly the width op
// declares.
func PushZeroed(op vm.OpCode) (Bytecode, error) {
	if !op.IsPush() {
		return "", errors.Wrapf(ErrNotPush, "%v", op)
	}
	width := int(op-vm.PUSH1) + 1
	return Bytecode(ByteHex(op) + strings.Repeat("00", width)), nil
}

// PushHex emits the PUSH instruction whose immediate width matches payload,
// followed by the payload.
func PushHex(payload string) (Bytecode, error) {
	if len(payload)%2 != 0 || !common.IsHex(payload) {
		return "", errors.Wrapf(ErrInvalidHex, "%q", payload)
	}
	width := len(payload) / 2
	if width < 1 || width > 32 {
		return "", errors.Wrapf(ErrInvalidPayloadWidth, "%d bytes", width)
	}
	return Bytecode(ByteHex(vm.PUSH1+vm.OpCode(width-1)) + strings.ToLower(payload)), nil
}

// PushInt pushes n using the shortest immediate that holds it.
func PushInt(n uint64) Bytecode {
	payload := strconv.FormatUint(n, 16)
	if len(payload)%2 == 1 {
		payload = "0" + payload
	}
	code, err := PushHex(payload)
	if err != nil {
		panic(err) // at most eight bytes of valid hex
	}
	return code
}
