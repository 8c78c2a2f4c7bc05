package vm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Aurorachain/go-opbench/common"
	"github.com/Aurorachain/go-opbench/params"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckHeights(t *testing.T) {
	tests := []struct {
		code string
		cfg  HeightConfig
		want HeightReport
		err  error
	}{
		{"", DeltaOnly, HeightReport{}, nil},
		{"6001600201", DeltaOnly, HeightReport{Instructions: 3, Min: 0, Max: 2, Final: 1}, nil},
		{"7f" + strings.Repeat("01", 32) + "50", DeltaOnly, HeightReport{Instructions: 2, Max: 1}, nil},
		{"80", DeltaOnly, HeightReport{Instructions: 1, Max: 1, Final: 1}, nil},
		{"80", UnderLoopCounter, HeightReport{Instructions: 1, Min: 1, Max: 2, Final: 2}, nil},
		{"50", DeltaOnly, HeightReport{}, ErrStackUnderflow},
		{"50", UnderLoopCounter, HeightReport{Instructions: 1, Min: 0, Max: 1}, nil},
		{"01", UnderLoopCounter, HeightReport{}, ErrStackUnderflow},
		{"0c", DeltaOnly, HeightReport{}, ErrUnknownOpcode},
	}
	for i, test := range tests {
		report, err := CheckHeights(common.Hex2Bytes(test.code), test.cfg)
		if test.err != nil {
			assert.Equal(t, test.err, errors.Cause(err), "test %d", i)
			continue
		}
		require.NoError(t, err, "test %d", i)
		assert.Equal(t, test.want, report, "test %d", i)
	}
}

func TestCheckHeightsOverflow(t *testing.T) {
	limit := int(params.StackLimit) - 1
	code := bytes.Repeat([]byte{byte(PUSH0)}, limit+1)

	_, err := CheckHeights(code[:limit], DeltaOnly)
	require.NoError(t, err)
	_, err = CheckHeights(code, DeltaOnly)
	assert.Equal(t, ErrStackOverflow, errors.Cause(err))

	report, err := CheckHeights(code[:limit], UnderLoopCounter)
	require.NoError(t, err)
	assert.Equal(t, 1024, report.Max)
	_, err = CheckHeights(code, UnderLoopCounter)
	assert.Equal(t, ErrStackOverflow, errors.Cause(err))
}
