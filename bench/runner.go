package bench

import (
	"bytes"
	"context"
	"math/big"
	"time"

	"github.com/Aurorachain/go-opbench"
	"github.com/Aurorachain/go-opbench/benchdb"
	"github.com/Aurorachain/go-opbench/common"
	"github.com/Aurorachain/go-opbench/common/mclock"
	"github.com/Aurorachain/go-opbench/core/vm/runtime"
	"github.com/Aurorachain/go-opbench/log"
	"github.com/Aurorachain/go-opbench/metrics"
	"github.com/Aurorachain/go-opbench/opgen"
	"github.com/Aurorachain/go-opbench/params"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

var (
	ErrDeployFailed = errors.New("deployment failed")
	ErrCallFailed   = errors.New("call failed")
	ErrNoContract   = errors.New("deployment returned no contract address")
	ErrCodeMismatch = errors.New("deployed code mismatch")
	ErrEmptySuite   = errors.New("empty suite")
	ErrNoBlock      = errors.New("measured block not found")
)

var (
	rpcTimer     = metrics.NewTimer("bench/rpc")
	gasHistogram = metrics.NewHistogram("bench/gas", 1024)
	failMeter    = metrics.NewMeter("bench/failed")
)

// versioner is implemented by engine clients that can report the engine
// build.
type versioner interface {
	Version(ctx context.Context) (string, error)
}

// Report is the outcome of a benchmark run.
type Report struct {
	RunID   string // empty when no store is attached
	Results []*Result
	Wall    time.Duration
}

// Summary totals the report.
func (r *Report) Summary() Summary {
	return Summarise(r.Results, r.Wall)
}

// Runner deploys and calls the stress programs one block at a time.
type Runner struct {
	engine   opbench.Engine
	config   Config
	store    *benchdb.ResultStore
	programs *lru.Cache
	block    opbench.BlockRef

	// Endpoint is recorded with stored runs.
	Endpoint string
}

// NewRunner creates a runner driving engine. Results are persisted when a
// store is given.
func NewRunner(engine opbench.Engine, config Config, store *benchdb.ResultStore) (*Runner, error) {
	config.sanitize()
	cache, err := lru.New(config.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Runner{
		engine:   engine,
		config:   config,
		store:    store,
		programs: cache,
		block:    opbench.BlockRef{Hash: config.BlockHash, Timestamp: config.Timestamp},
	}, nil
}

// Program returns the generated program for an entry.
func (r *Runner) Program(e Entry) (*opgen.Program, error) {
	if p, ok := r.programs.Get(e); ok {
		return p.(*opgen.Program), nil
	}
	p, err := opgen.GenerateProgram(e.Op, e.Mode)
	if err != nil {
		return nil, errors.Wrapf(err, "%v", e)
	}
	r.programs.Add(e, p)
	return p, nil
}

// Verify checks a program in the local interpreter: the creation code must
// return exactly the runtime code.
func Verify(p *opgen.Program) error {
	code, err := runtime.Create(p.Init.Bytes(), nil)
	if err != nil {
		return errors.Wrap(err, p.Name())
	}
	if !bytes.Equal(code, p.Runtime.Bytes()) {
		return errors.Wrapf(ErrCodeMismatch, "%s: local creation returned %d bytes, want %d", p.Name(), len(code), p.Runtime.Len())
	}
	return nil
}

// Run measures every entry of the suite for the configured number of
// rounds. A failed deployment or call aborts the run once its block is
// finalised; the results gathered so far are returned together with the error.
func (r *Runner) Run(ctx context.Context, suite Suite) (*Report, error) {
	if len(suite) == 0 {
		return nil, ErrEmptySuite
	}
	run := &benchdb.Run{
		Started:  time.Now(),
		Endpoint: r.Endpoint,
		Rounds:   r.config.Rounds,
		Programs: len(suite) * r.config.Rounds,
	}
	if v, ok := r.engine.(versioner); ok {
		version, err := v.Version(ctx)
		if err != nil {
			return nil, err
		}
		run.Engine = version
	}
	report := new(Report)
	if r.store != nil {
		if err := r.store.PutRun(run); err != nil {
			return nil, err
		}
		report.RunID = run.ID
	}
	log.Info("Starting benchmark", "programs", len(suite), "rounds", r.config.Rounds, "run", report.RunID)

	start := mclock.Now()
	err := r.runRounds(ctx, suite, report)
	report.Wall = time.Duration(mclock.Now() - start)

	if r.store != nil {
		run.Wall = report.Wall
		if serr := r.store.PutRun(run); serr != nil && err == nil {
			err = serr
		}
	}
	return report, err
}

func (r *Runner) runRounds(ctx context.Context, suite Suite, report *Report) error {
	for round := 0; round < r.config.Rounds; round++ {
		for _, e := range suite {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := r.Program(e)
			if err != nil {
				return err
			}
			res, err := r.measure(ctx, p, round)
			if err != nil {
				return err
			}
			if r.store != nil {
				if err := r.store.PutResult(report.RunID, res.record(len(report.Results)), p.Init.Bytes()); err != nil {
					return err
				}
			}
			report.Results = append(report.Results, res)
		}
	}
	return nil
}

// measure deploys p in one block and calls it in the next, then reads the
// gas and mining time of the call block.
func (r *Runner) measure(ctx context.Context, p *opgen.Program, round int) (*Result, error) {
	logger := log.New("program", p.Name(), "round", round)
	start := mclock.Now()
	defer rpcTimer.UpdateSince(time.Now())

	if r.config.Verify {
		if err := Verify(p); err != nil {
			return nil, err
		}
	}
	if p.Runtime.Len() > params.MaxCodeSize {
		logger.Warn("Runtime code exceeds the contract size limit", "size", p.Runtime.Len(), "limit", params.MaxCodeSize)
	}
	deployLen := r.config.DeployByteLen
	rcpt, err := r.engine.Deploy(ctx, r.block, opbench.DeployMsg{
		FromPkScript:       r.config.PkScript,
		Data:               p.Init.Bytes(),
		InscriptionByteLen: &deployLen,
	})
	if err != nil {
		return nil, err
	}
	// Finalise before judging the receipt so a failure leaves no open block.
	if err := r.engine.FinaliseBlock(ctx, r.block); err != nil {
		return nil, err
	}
	if !rcpt.Succeeded() {
		failMeter.Mark(1)
		return nil, errors.Wrapf(ErrDeployFailed, "%s: %s %s", p.Name(), rcpt.TxResult, rcpt.Reason)
	}
	if rcpt.ContractAddress == nil {
		return nil, errors.Wrap(ErrNoContract, p.Name())
	}
	contract := *rcpt.ContractAddress
	logger.Debug("Deployed program", "contract", contract, "gas", uint64(rcpt.GasUsed))

	if r.config.Verify {
		code, err := r.engine.CodeAt(ctx, contract)
		if err != nil {
			return nil, err
		}
		if !bytes.Equal(code, p.Runtime.Bytes()) {
			return nil, errors.Wrapf(ErrCodeMismatch, "%s at %s", p.Name(), contract.Hex())
		}
	}

	callLen := r.config.CallByteLen
	rcpt, err = r.engine.Call(ctx, r.block, opbench.CallMsg{
		FromPkScript:       r.config.PkScript,
		To:                 &contract,
		InscriptionByteLen: &callLen,
	})
	if err != nil {
		return nil, err
	}
	if err := r.engine.FinaliseBlock(ctx, r.block); err != nil {
		return nil, err
	}
	if !rcpt.Succeeded() {
		logger.Error("Transaction failed", "result", rcpt.TxResult, "reason", rcpt.Reason)
		failMeter.Mark(1)
		return nil, errors.Wrapf(ErrCallFailed, "%s: %s %s", p.Name(), rcpt.TxResult, rcpt.Reason)
	}

	number, err := r.engine.BlockNumber(ctx)
	if err != nil {
		return nil, err
	}
	block, err := r.engine.BlockByNumber(ctx, new(big.Int).SetUint64(number))
	if err == opbench.NotFound {
		return nil, errors.Wrapf(ErrNoBlock, "block %d", number)
	}
	if err != nil {
		return nil, err
	}
	res := &Result{
		Op:          p.Op.String(),
		Mode:        p.Mode.String(),
		Round:       round,
		Contract:    contract,
		Block:       number,
		GasUsed:     uint64(block.GasUsed),
		MineTime:    uint64(block.MineTimestamp),
		RuntimeSize: p.Runtime.Len(),
	}
	gasHistogram.Update(int64(res.GasUsed))
	metrics.NewTimer("bench/mine/" + p.Name()).Update(time.Duration(res.MineTime))

	logger.Info("Measured program", "gas", res.GasUsed, "mine", common.PrettyDuration(res.MineTime), "ratio", res.Ratio(), "elapsed", common.PrettyDuration(mclock.Since(start)))
	return res, nil
}
