package opgen

import (
	"testing"

	"github.com/Aurorachain/go-opbench/core/vm"
	"github.com/Aurorachain/go-opbench/core/vm/runtime"
	"github.com/Aurorachain/go-opbench/params"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProgram(t *testing.T) {
	p, err := GenerateProgram(vm.ADD, MinStack)
	require.NoError(t, err)

	assert.Equal(t, "ADD/min_stack", p.Name())
	assert.Equal(t, WrapLoop(p.Body), p.Runtime)
	assert.Equal(t, WrapDeploy(p.Runtime), p.Init)
	assert.Equal(t, p.Body.Len()+LoopOverhead+DeployOverhead, p.Init.Len())

	_, err = GenerateProgram(vm.SWAP1, FullStack)
	assert.Equal(t, ErrUnsupportedCategory, errors.Cause(err))
}

// The runtime code of a program, walked straight through, starts on an empty
// stack with the counter push.
func TestGenerateProgramRuntimeHeights(t *testing.T) {
	cfg := vm.HeightConfig{Limit: 1024, CheckOperands: true}
	for _, op := range []vm.OpCode{vm.ADD, vm.PUSH32, vm.DUP16, vm.SWAP16, vm.CALLER} {
		for _, mode := range Modes {
			p, err := GenerateProgram(op, mode)
			if errors.Cause(err) == ErrUnsupportedCategory {
				continue
			}
			require.NoError(t, err)
			report, err := vm.CheckHeights(p.Runtime.Bytes(), cfg)
			require.NoError(t, err, p.Name())
			assert.Equal(t, 1, report.Final, p.Name())
		}
	}
}

// PUSH32 bodies are the largest the generator emits.
func TestGenerateProgramInitSize(t *testing.T) {
	for _, mode := range Modes {
		p, err := GenerateProgram(vm.PUSH32, mode)
		require.NoError(t, err)
		assert.True(t, p.Init.Len() <= params.MaxInitCodeSize, p.Name())

		_, err = runtime.Create(p.Init.Bytes(), nil)
		assert.NoError(t, err, p.Name())
	}
}

// Runs complete stress loops. Each one executes tens of millions of
// instructions.
func TestGenerateProgramExecute(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full loop execution in short mode")
	}
	for _, test := range []struct {
		op   vm.OpCode
		mode Mode
	}{
		{vm.ADD, FullStack},
		{vm.DUP16, MinStack},
		{vm.SWAP16, MinStack},
	} {
		p, err := GenerateProgram(test.op, test.mode)
		require.NoError(t, err)

		deployed, err := runtime.Create(p.Init.Bytes(), nil)
		require.NoError(t, err, p.Name())

		_, res, err := runtime.Execute(deployed, nil)
		require.NoError(t, err, p.Name())
		require.Len(t, res.Stack, 1, p.Name())
		assert.True(t, res.Stack[0].IsZero(), p.Name())
		assert.True(t, res.MaxHeight <= 1024, p.Name())
	}
}
