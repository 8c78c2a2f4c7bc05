package bench

import (
	"context"
	"testing"

	"github.com/Aurorachain/go-opbench"
	"github.com/Aurorachain/go-opbench/benchdb"
	"github.com/Aurorachain/go-opbench/core/vm"
	"github.com/Aurorachain/go-opbench/internal/enginetest"
	"github.com/Aurorachain/go-opbench/opgen"
	"github.com/Aurorachain/go-opbench/progclient"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSuite = Suite{
	{vm.ADD, opgen.MinStack},
	{vm.PUSH1, opgen.FullStack},
	{vm.SWAP3, opgen.MinStack},
}

func newTestRunner(t *testing.T, config Config, store *benchdb.ResultStore) (*Runner, *enginetest.Engine) {
	engine := enginetest.NewEngine()
	client, err := progclient.Dial(engine.URL)
	require.NoError(t, err)
	runner, err := NewRunner(client, config, store)
	require.NoError(t, err)
	runner.Endpoint = engine.URL
	return runner, engine
}

func TestRunnerMeasuresSuite(t *testing.T) {
	runner, engine := newTestRunner(t, DefaultConfig, nil)
	defer engine.Close()

	report, err := runner.Run(context.Background(), testSuite)
	require.NoError(t, err)
	require.Len(t, report.Results, len(testSuite))
	assert.Empty(t, report.RunID)
	assert.True(t, report.Wall > 0)

	for i, res := range report.Results {
		p, err := runner.Program(testSuite[i])
		require.NoError(t, err)
		assert.Equal(t, p.Name(), res.Name())
		// Deploy and call each take a block.
		assert.Equal(t, uint64(2*(i+1)), res.Block)
		// The fake engine charges the runtime size per call.
		assert.Equal(t, uint64(p.Runtime.Len()), res.GasUsed)
		assert.Equal(t, p.Runtime.Len(), res.RuntimeSize)
		assert.Equal(t, p.Runtime.Bytes(), engine.Code(res.Contract))
	}
	s := report.Summary()
	assert.Equal(t, len(testSuite), s.Count)
}

func TestRunnerRequestSequence(t *testing.T) {
	runner, engine := newTestRunner(t, DefaultConfig, nil)
	defer engine.Close()

	_, err := runner.Run(context.Background(), testSuite[:1])
	require.NoError(t, err)

	var methods []string
	for _, req := range engine.Requests() {
		methods = append(methods, req.Method)
	}
	assert.Equal(t, []string{
		"brc20_version",
		"brc20_deploy", "brc20_finaliseBlock",
		"eth_getCode",
		"brc20_call", "brc20_finaliseBlock",
		"eth_blockNumber", "eth_getBlockByNumber",
	}, methods)

	reqs := engine.Requests()
	deploy, call := reqs[1].Params, reqs[4].Params
	assert.Equal(t, DefaultPkScript, deploy["from_pkscript"])
	assert.Equal(t, float64(DefaultConfig.DeployByteLen), deploy["inscription_byte_len"])
	assert.Equal(t, float64(DefaultConfig.Timestamp), deploy["timestamp"])
	assert.Equal(t, "0x", call["data"])
	assert.Equal(t, float64(DefaultConfig.CallByteLen), call["inscription_byte_len"])
}

func TestRunnerWithoutVerify(t *testing.T) {
	config := DefaultConfig
	config.Verify = false
	runner, engine := newTestRunner(t, config, nil)
	defer engine.Close()

	_, err := runner.Run(context.Background(), testSuite[:1])
	require.NoError(t, err)
	for _, req := range engine.Requests() {
		assert.NotEqual(t, "eth_getCode", req.Method)
	}
}

func TestRunnerRounds(t *testing.T) {
	config := DefaultConfig
	config.Rounds = 3
	runner, engine := newTestRunner(t, config, nil)
	defer engine.Close()

	report, err := runner.Run(context.Background(), testSuite[:2])
	require.NoError(t, err)
	require.Len(t, report.Results, 6)
	for i, res := range report.Results {
		assert.Equal(t, i/2, res.Round)
		assert.Equal(t, testSuite[i%2].String(), res.Name())
	}
}

func TestRunnerAbortsOnFailedCall(t *testing.T) {
	runner, engine := newTestRunner(t, DefaultConfig, nil)
	defer engine.Close()
	engine.FailCalls = true

	report, err := runner.Run(context.Background(), testSuite)
	assert.Equal(t, ErrCallFailed, errors.Cause(err))
	require.NotNil(t, report)
	assert.Empty(t, report.Results)

	requests := engine.Requests()
	var calls int
	for _, req := range requests {
		if req.Method == "brc20_call" {
			calls++
		}
	}
	assert.Equal(t, 1, calls)
	require.NotEmpty(t, requests)
	assert.Equal(t, "brc20_finaliseBlock", requests[len(requests)-1].Method)

	// A new client starting from a clean engine must be able to close an
	// empty block.
	client, err := progclient.Dial(engine.URL)
	require.NoError(t, err)
	defer client.Close()
	block := opbench.BlockRef{Hash: DefaultConfig.BlockHash, Timestamp: DefaultConfig.Timestamp}
	assert.NoError(t, client.FinaliseBlock(context.Background(), block))
}

func TestRunnerAbortsOnFailedDeploy(t *testing.T) {
	runner, engine := newTestRunner(t, DefaultConfig, nil)
	defer engine.Close()
	engine.FailDeploys = true

	_, err := runner.Run(context.Background(), testSuite)
	assert.Equal(t, ErrDeployFailed, errors.Cause(err))

	requests := engine.Requests()
	require.NotEmpty(t, requests)
	assert.Equal(t, "brc20_finaliseBlock", requests[len(requests)-1].Method)
	for _, req := range requests {
		assert.NotEqual(t, "brc20_call", req.Method)
	}
}

func TestRunnerCancelled(t *testing.T) {
	runner, engine := newTestRunner(t, DefaultConfig, nil)
	defer engine.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := runner.Run(ctx, testSuite)
	assert.Error(t, err)
}

func TestRunnerEmptySuite(t *testing.T) {
	runner, engine := newTestRunner(t, DefaultConfig, nil)
	defer engine.Close()

	_, err := runner.Run(context.Background(), nil)
	assert.Equal(t, ErrEmptySuite, err)
}

func TestRunnerStoresResults(t *testing.T) {
	store, err := benchdb.NewResultStore("", 0, 0)
	require.NoError(t, err)
	defer store.Close()

	runner, engine := newTestRunner(t, DefaultConfig, store)
	defer engine.Close()

	report, err := runner.Run(context.Background(), testSuite)
	require.NoError(t, err)
	require.NotEmpty(t, report.RunID)

	run, err := store.Run(report.RunID)
	require.NoError(t, err)
	assert.Equal(t, enginetest.Version, run.Engine)
	assert.Equal(t, engine.URL, run.Endpoint)
	assert.Equal(t, report.Wall, run.Wall)
	assert.Equal(t, len(testSuite), run.Programs)

	recs, err := store.Results(report.RunID)
	require.NoError(t, err)
	assert.Equal(t, report.Results, FromRecords(recs))

	p, err := runner.Program(testSuite[1])
	require.NoError(t, err)
	code, err := store.Program(report.RunID, 1)
	require.NoError(t, err)
	assert.Equal(t, p.Init.Bytes(), code)
}

func TestProgramCache(t *testing.T) {
	config := DefaultConfig
	config.CacheSize = 1
	runner, err := NewRunner(nil, config, nil)
	require.NoError(t, err)

	a, err := runner.Program(testSuite[0])
	require.NoError(t, err)
	again, err := runner.Program(testSuite[0])
	require.NoError(t, err)
	assert.True(t, a == again, "expected cached program")

	_, err = runner.Program(testSuite[1])
	require.NoError(t, err)
	evicted, err := runner.Program(testSuite[0])
	require.NoError(t, err)
	assert.False(t, a == evicted, "expected evicted program to be regenerated")
	assert.Equal(t, a, evicted)

	_, err = runner.Program(Entry{vm.SWAP1, opgen.FullStack})
	assert.Equal(t, opgen.ErrUnsupportedCategory, errors.Cause(err))
}

func TestVerify(t *testing.T) {
	for _, e := range testSuite {
		p, err := opgen.GenerateProgram(e.Op, e.Mode)
		require.NoError(t, err)
		assert.NoError(t, Verify(p), "%v", e)
	}
	p, err := opgen.GenerateProgram(vm.ADD, opgen.MinStack)
	require.NoError(t, err)
	p.Init = opgen.WrapDeploy(p.Runtime + "00")
	assert.Equal(t, ErrCodeMismatch, errors.Cause(Verify(p)))
}
