package vm

import (
	"strings"
	"testing"

	"github.com/Aurorachain/go-opbench/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, code string, cfg Config) ([]byte, *Result, error) {
	t.Helper()
	in := NewInterpreter(cfg)
	ret, err := in.Run(common.Hex2Bytes(code))
	return ret, in.Result(), err
}

func stackUint64s(st []uint256.Int) []uint64 {
	out := make([]uint64, len(st))
	for i := range st {
		out[i] = st[i].Uint64()
	}
	return out
}

func TestInterpreterArithmetic(t *testing.T) {
	_, res, err := run(t, "6001600201", Config{})
	require.NoError(t, err)
	assert.Equal(t, []uint64{3}, stackUint64s(res.Stack))
	assert.Equal(t, uint64(4), res.Steps) // three instructions plus the implicit STOP
	assert.Equal(t, 2, res.MaxHeight)
}

func TestInterpreterAddWraps(t *testing.T) {
	_, res, err := run(t, "7f"+strings.Repeat("ff", 32)+"600101", Config{})
	require.NoError(t, err)
	require.Len(t, res.Stack, 1)
	assert.True(t, res.Stack[0].IsZero())
}

func TestInterpreterEnvironment(t *testing.T) {
	_, res, err := run(t, "583859", Config{})
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 3, 0}, stackUint64s(res.Stack))
}

func TestInterpreterStackOps(t *testing.T) {
	// PUSH1 1, PUSH1 2, DUP2, SWAP1
	_, res, err := run(t, "600160028190", Config{})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 1, 2}, stackUint64s(res.Stack))
}

func TestInterpreterOpaque(t *testing.T) {
	// PUSH1 5, ISZERO, ADDRESS, MSTORE
	_, res, err := run(t, "6005153052", Config{})
	require.NoError(t, err)
	assert.Empty(t, res.Stack)
}

func TestInterpreterReturnCode(t *testing.T) {
	// Copy the two bytes following the program into memory and return them.
	ret, _, err := run(t, "6002600c60003960026000f3"+"abcd", Config{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xab, 0xcd}, ret)
}

func TestInterpreterJumps(t *testing.T) {
	tests := []struct {
		code string
		err  error
	}{
		{"6003565b", nil},
		{"600356", ErrInvalidJump},
		{"60045660" + "5b", ErrInvalidJump},
		{"6000600a5700", nil},
		{"6001600657fe5b00", nil},
		{"6001600557fe", ErrInvalidJump},
	}
	for i, test := range tests {
		_, _, err := run(t, test.code, Config{})
		assert.Equal(t, test.err, errors.Cause(err), "test %d: %s", i, test.code)
	}
}

func TestInterpreterCountdown(t *testing.T) {
	// counter = 10; loop: counter += -1 until zero.
	code := "600a" + "5b" + "7f" + strings.Repeat("ff", 32) + "01" + "80" + "6002" + "57"
	_, res, err := run(t, code, Config{})
	require.NoError(t, err)
	assert.Equal(t, []uint64{0}, stackUint64s(res.Stack))
	assert.Equal(t, uint64(1+10*6+1), res.Steps)
}

func TestInterpreterFailures(t *testing.T) {
	tests := []struct {
		code string
		cfg  Config
		err  error
	}{
		{"01", Config{}, ErrStackUnderflow},
		{"6001" + "90", Config{}, ErrStackUnderflow},
		{strings.Repeat("5f", 1025), Config{}, ErrStackOverflow},
		{"0c", Config{}, ErrInvalidOpcode},
		{"fe", Config{}, ErrInvalidOpcode},
		{"60006000fd", Config{}, ErrExecutionReverted},
		{"5b600056", Config{StepLimit: 100}, ErrStepLimitReached},
		{"6001" + "6f" + strings.Repeat("ff", 16) + "6000f3", Config{}, ErrMemoryLimitExceeded},
	}
	for i, test := range tests {
		_, _, err := run(t, test.code, test.cfg)
		assert.Equal(t, test.err, errors.Cause(err), "test %d", i)
	}
}

type countingTracer struct {
	ops     []OpCode
	heights []int
}

func (c *countingTracer) CaptureState(pc uint64, op OpCode, height int) {
	c.ops = append(c.ops, op)
	c.heights = append(c.heights, height)
}

func TestInterpreterTracer(t *testing.T) {
	tracer := new(countingTracer)
	_, _, err := run(t, "600160025000", Config{Tracer: tracer})
	require.NoError(t, err)
	assert.Equal(t, []OpCode{PUSH1, PUSH1, POP, STOP}, tracer.ops)
	assert.Equal(t, []int{0, 1, 2, 1}, tracer.heights)
}

func TestInterpreterEmptyCode(t *testing.T) {
	ret, res, err := run(t, "", Config{})
	assert.NoError(t, err)
	assert.Nil(t, ret)
	assert.Zero(t, res.Steps)
}
