package vm

import (
	"github.com/Aurorachain/go-opbench/params"
	"github.com/pkg/errors"
)

// HeightConfig selects the stack model used by CheckHeights.
type HeightConfig struct {
	Base          int  // stack height before the first instruction
	Limit         int  // highest permitted height
	CheckOperands bool // require StackIn operands before each instruction
}

var (
	// DeltaOnly tracks only net height changes from an empty stack, bounded by
	// the generator's limit of one slot below the machine cap.
	DeltaOnly = HeightConfig{Base: 0, Limit: int(params.StackLimit) - 1}

	// UnderLoopCounter models a loop body as the machine runs it: the loop
	// counter sits below the body and operands are checked.
	UnderLoopCounter = HeightConfig{Base: 1, Limit: int(params.StackLimit), CheckOperands: true}
)

// HeightReport summarises a CheckHeights walk.
type HeightReport struct {
	Instructions int
	Min          int
	Max          int
	Final        int
}

// CheckHeights walks straight-line code and applies each instruction's trait
// to a running stack height. It fails as soon as the height would leave
// [0, cfg.Limit]. PUSH immediates are skipped; jumps are not followed.
func CheckHeights(code []byte, cfg HeightConfig) (HeightReport, error) {
	var (
		height = cfg.Base
		report = HeightReport{Min: height, Max: height, Final: height}
	)
	for pc := uint64(0); pc < uint64(len(code)); pc++ {
		op := OpCode(code[pc])
		t, err := LookupTrait(op)
		if err != nil {
			return report, errors.Wrapf(err, "pc %d", pc)
		}
		if cfg.CheckOperands && height < t.StackIn {
			return report, errors.Wrapf(ErrStackUnderflow, "%v at pc %d: have %d, want %d", op, pc, height, t.StackIn)
		}
		height += t.StackDelta
		switch {
		case height < 0:
			return report, errors.Wrapf(ErrStackUnderflow, "%v at pc %d: height %d", op, pc, height)
		case height > cfg.Limit:
			return report, errors.Wrapf(ErrStackOverflow, "%v at pc %d: height %d, limit %d", op, pc, height, cfg.Limit)
		}
		if height < report.Min {
			report.Min = height
		}
		if height > report.Max {
			report.Max = height
		}
		report.Instructions++
		if op.IsPush() {
			pc += uint64(op - PUSH1 + 1)
		}
	}
	report.Final = height
	return report, nil
}
