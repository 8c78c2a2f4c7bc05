package bench

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/Aurorachain/go-opbench/benchdb"
	"github.com/Aurorachain/go-opbench/common"
)

// Result is the measurement of one program call.
type Result struct {
	Op          string
	Mode        string
	Round       int
	Contract    common.Address
	Block       uint64
	GasUsed     uint64
	MineTime    uint64 // nanoseconds the engine spent on the block
	RuntimeSize int
}

// Name identifies the measured program, e.g. "ADD/min_stack".
func (r *Result) Name() string {
	return r.Op + "/" + r.Mode
}

// Ratio returns the mining time per unit of gas in nanoseconds.
func (r *Result) Ratio() float64 {
	if r.GasUsed == 0 {
		return 0
	}
	return float64(r.MineTime) / float64(r.GasUsed)
}

func (r *Result) record(index int) *benchdb.Record {
	return &benchdb.Record{
		Index:       uint32(index),
		Op:          r.Op,
		Mode:        r.Mode,
		Round:       r.Round,
		Contract:    r.Contract,
		Block:       r.Block,
		GasUsed:     r.GasUsed,
		MineTime:    r.MineTime,
		RuntimeSize: r.RuntimeSize,
	}
}

// FromRecords converts stored measurements back into results.
func FromRecords(recs []*benchdb.Record) []*Result {
	results := make([]*Result, len(recs))
	for i, rec := range recs {
		results[i] = &Result{
			Op:          rec.Op,
			Mode:        rec.Mode,
			Round:       rec.Round,
			Contract:    rec.Contract,
			Block:       rec.Block,
			GasUsed:     rec.GasUsed,
			MineTime:    rec.MineTime,
			RuntimeSize: rec.RuntimeSize,
		}
	}
	return results
}

// Rank returns the results ordered by ratio, most expensive first. The
// input is left untouched.
func Rank(results []*Result) []*Result {
	ranked := append([]*Result(nil), results...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Ratio() > ranked[j].Ratio()
	})
	return ranked
}

// Summary aggregates a benchmark run.
type Summary struct {
	Count        int
	TotalGas     uint64
	TotalMine    time.Duration
	Wall         time.Duration
	AvgGas       float64
	AvgMine      time.Duration
	MinePerGas   float64 // nanoseconds
	GasPerMinute float64
	RPCOverhead  float64 // percent of wall time not spent mining
}

// Summarise totals the results of a run that took wall time end to end.
func Summarise(results []*Result, wall time.Duration) Summary {
	s := Summary{Count: len(results), Wall: wall}
	var mine uint64
	for _, r := range results {
		s.TotalGas += r.GasUsed
		mine += r.MineTime
	}
	s.TotalMine = time.Duration(mine)
	if s.Count > 0 {
		s.AvgGas = float64(s.TotalGas) / float64(s.Count)
		s.AvgMine = s.TotalMine / time.Duration(s.Count)
	}
	if s.TotalGas > 0 {
		s.MinePerGas = float64(mine) / float64(s.TotalGas)
	}
	if s.MinePerGas > 0 {
		s.GasPerMinute = 60 / (s.MinePerGas / 1e9)
	}
	if wall > 0 {
		s.RPCOverhead = 100 - float64(mine)/float64(wall)*100
	}
	return s
}

// Write prints the summary in human readable form.
func (s Summary) Write(w io.Writer) {
	fmt.Fprintln(w, "total gas:", s.TotalGas)
	fmt.Fprintln(w, "total time:", s.Wall.Seconds(), "seconds")
	fmt.Fprintln(w, "indexing time:", s.TotalMine.Seconds(), "seconds")
	fmt.Fprintln(w, "instruction count:", s.Count)
	fmt.Fprintln(w, "average gas per instruction:", s.AvgGas)
	fmt.Fprintln(w, "average indexing time per instruction:", s.AvgMine.Seconds(), "seconds")
	fmt.Fprintln(w, "average indexing time per gas:", s.MinePerGas/1e9, "seconds")
	fmt.Fprintln(w, "in a minute, we can process", s.GasPerMinute, "gas")
	fmt.Fprintln(w, "RPC overhead in %:", s.RPCOverhead)
}
