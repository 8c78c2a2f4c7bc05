package opgen

import "errors"

var (
	ErrUnsupportedCategory = errors.New("unsupported opcode for stress generation")
	ErrInvalidPayloadWidth = errors.New("invalid push payload width")
	ErrInvalidHex          = errors.New("invalid hex payload")
	ErrNotPush             = errors.New("opcode is not PUSH1..PUSH32")
	ErrUnknownMode         = errors.New("unknown occupancy mode")
)
