package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Aurorachain/go-opbench/bench"
	"github.com/Aurorachain/go-opbench/benchdb"
	"github.com/Aurorachain/go-opbench/cmd/utils"
	"github.com/Aurorachain/go-opbench/common"
	"github.com/Aurorachain/go-opbench/log"
	"github.com/Aurorachain/go-opbench/metrics"
	"github.com/Aurorachain/go-opbench/progclient"
	"github.com/Aurorachain/go-opbench/rpc"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"
)

var (
	runCommand = cli.Command{
		Action:    utils.MigrateFlags(runBenchmark),
		Name:      "run",
		Usage:     "Benchmark the engine",
		ArgsUsage: "",
		Flags: append(append([]cli.Flag{
			utils.ConfigFileFlag,
			utils.OpcodeFlag,
			utils.ModeFlag,
		}, engineFlags...), benchFlags...),
		Category: "BENCHMARK COMMANDS",
		Description: `
The run command deploys every selected program to the engine, calls it in a
block of its own and reads the gas used and mining time of that block. Results
are ranked by mining time per gas and stored in the result database.`,
	}
	reportCommand = cli.Command{
		Action:    utils.MigrateFlags(report),
		Name:      "report",
		Usage:     "Print stored benchmark results",
		ArgsUsage: "",
		Flags: []cli.Flag{
			utils.ConfigFileFlag,
			utils.DBFlag,
			utils.RunIDFlag,
		},
		Category:    "BENCHMARK COMMANDS",
		Description: `The report command prints a stored run ranked by mining time per gas.`,
	}
)

var (
	headerColor = color.New(color.Bold)
	slowColor   = color.New(color.FgRed)
	fastColor   = color.New(color.FgGreen)
)

const resultStoreHandles = 16

func dialEngine(cfg engineConfig) (*progclient.Client, error) {
	c, err := rpc.Dial(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.User != "" || cfg.Password != "" {
		c.SetBasicAuth(cfg.User, cfg.Password)
	}
	return progclient.NewClient(c), nil
}

func runBenchmark(ctx *cli.Context) error {
	cfg := makeConfig(ctx)
	suite, err := selectSuite(ctx)
	if err != nil {
		return err
	}
	client, err := dialEngine(cfg.Engine)
	if err != nil {
		return err
	}
	defer client.Close()

	store, err := benchdb.NewResultStore(cfg.Bench.DB, 0, resultStoreHandles)
	if err != nil {
		return errors.Wrap(err, "failed to open result database")
	}
	defer store.Close()

	runner, err := bench.NewRunner(client, cfg.runnerConfig(), store)
	if err != nil {
		return err
	}
	runner.Endpoint = cfg.Engine.URL

	runCtx, cancel := utils.InterruptContext(context.Background())
	defer cancel()

	result, err := runner.Run(runCtx, suite)
	if result != nil && len(result.Results) > 0 {
		printResults(os.Stdout, result.Results)
		fmt.Println()
		result.Summary().Write(os.Stdout)
		metrics.WriteOnce(os.Stdout, "bench/")
	}
	if err != nil {
		return err
	}
	if ctx.GlobalBool(utils.CommitFlag.Name) {
		if err := client.CommitToDatabase(context.Background()); err != nil {
			return err
		}
		log.Info("Engine state committed")
	}
	if result.RunID != "" {
		log.Info("Stored benchmark results", "run", result.RunID, "db", cfg.Bench.DB)
	}
	return nil
}

func report(ctx *cli.Context) error {
	cfg := makeConfig(ctx)
	if cfg.Bench.DB == "" {
		return errors.New("no result database configured")
	}
	store, err := benchdb.NewResultStore(cfg.Bench.DB, 0, resultStoreHandles)
	if err != nil {
		return errors.Wrap(err, "failed to open result database")
	}
	defer store.Close()

	var run *benchdb.Run
	if id := ctx.String(utils.RunIDFlag.Name); id != "" {
		if run, err = store.Run(id); err != nil {
			return err
		}
	} else {
		runs, err := store.Runs()
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			return errors.New("no stored runs")
		}
		run = runs[0]
	}
	recs, err := store.Results(run.ID)
	if err != nil {
		return err
	}
	fmt.Printf("run %s  started %s  engine %s %s\n\n", run.ID, run.Started.Format("2006-01-02 15:04:05"), run.Engine, run.Endpoint)
	results := bench.FromRecords(recs)
	printResults(os.Stdout, results)
	fmt.Println()
	bench.Summarise(results, run.Wall).Write(os.Stdout)
	return nil
}

// printResults prints the results ranked by ratio. The slowest quarter is
// highlighted in red and the fastest quarter in green.
func printResults(w io.Writer, results []*bench.Result) {
	ranked := bench.Rank(results)
	headerColor.Fprintf(w, "%-4s %-16s %5s %12s %12s %10s\n", "#", "PROGRAM", "ROUND", "GAS", "MINE", "NS/GAS")
	for i, r := range ranked {
		c := color.New(color.Reset)
		switch {
		case len(ranked) >= 4 && i < len(ranked)/4:
			c = slowColor
		case len(ranked) >= 4 && i >= len(ranked)-len(ranked)/4:
			c = fastColor
		}
		c.Fprintf(w, "%-4d %-16s %5d %12d %12s %10.4f\n", i+1, r.Name(), r.Round, r.GasUsed, common.PrettyDuration(r.MineTime), r.Ratio())
	}
}
