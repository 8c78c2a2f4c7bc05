package bench

import (
	"github.com/Aurorachain/go-opbench/core/vm"
	"github.com/Aurorachain/go-opbench/core/vm/runtime"
	"github.com/Aurorachain/go-opbench/opgen"
	"github.com/pkg/errors"
)

var ErrLoopResult = errors.New("loop left unexpected stack")

// CheckReport is the outcome of checking a program locally.
type CheckReport struct {
	Body vm.HeightReport // body walked from an empty stack
	Loop vm.HeightReport // body walked on top of the loop counter

	Executed  bool
	Steps     uint64
	MaxHeight int
}

// Check verifies a program without an engine: the body's stack heights,
// the creation round trip and, if execute is set, a full run of the loop,
// which must end with only the wrapped-around counter on the stack.
func Check(p *opgen.Program, execute bool) (*CheckReport, error) {
	var (
		report = new(CheckReport)
		err    error
	)
	body := p.Body.Bytes()
	if report.Body, err = vm.CheckHeights(body, vm.DeltaOnly); err != nil {
		return report, errors.Wrapf(err, "%s body", p.Name())
	}
	if report.Loop, err = vm.CheckHeights(body, vm.UnderLoopCounter); err != nil {
		return report, errors.Wrapf(err, "%s loop body", p.Name())
	}
	if err := Verify(p); err != nil {
		return report, err
	}
	if !execute {
		return report, nil
	}
	_, res, err := runtime.Execute(p.Runtime.Bytes(), nil)
	if err != nil {
		return report, errors.Wrapf(err, "%s execution", p.Name())
	}
	report.Executed = true
	report.Steps, report.MaxHeight = res.Steps, res.MaxHeight
	if len(res.Stack) != 1 || !res.Stack[0].IsZero() {
		return report, errors.Wrapf(ErrLoopResult, "%s: %d items", p.Name(), len(res.Stack))
	}
	return report, nil
}
