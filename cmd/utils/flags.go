// Package utils contains internal helper functions for the opbench command.
package utils

import (
	"os"
	"path/filepath"

	"github.com/Aurorachain/go-opbench/bench"
	"github.com/Aurorachain/go-opbench/metrics"
	"github.com/Aurorachain/go-opbench/params"
	"gopkg.in/urfave/cli.v1"
)

// NewApp creates an app with sane defaults.
func NewApp(gitCommit, usage string) *cli.App {
	app := cli.NewApp()
	app.Name = filepath.Base(os.Args[0])
	app.Author = ""
	app.Email = ""
	app.Version = params.VersionWithCommit(gitCommit)
	app.Usage = usage
	return app
}

var (
	// General settings
	ConfigFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	LogLevelFlag = cli.StringFlag{
		Name:  "loglevel",
		Usage: "Logging level: debug, info, warn, error",
		Value: "info",
	}
	MetricsEnabledFlag = cli.BoolFlag{
		Name:  metrics.MetricsEnabledFlag,
		Usage: "Enable metrics collection and reporting",
	}

	// Engine settings
	EngineURLFlag = cli.StringFlag{
		Name:  "engine.url",
		Usage: "JSON-RPC endpoint of the execution engine",
		Value: DefaultEngineURL,
	}
	EngineUserFlag = cli.StringFlag{
		Name:  "engine.user",
		Usage: "HTTP basic auth user of the engine endpoint",
	}
	EnginePasswordFlag = cli.StringFlag{
		Name:  "engine.password",
		Usage: "HTTP basic auth password of the engine endpoint",
	}
	PkScriptFlag = cli.StringFlag{
		Name:  "pkscript",
		Usage: "Hex pkscript the inscriptions are sent from",
		Value: bench.DefaultConfig.PkScript,
	}
	BlockHashFlag = cli.StringFlag{
		Name:  "blockhash",
		Usage: "Hash used for every benchmark block",
	}
	TimestampFlag = cli.Uint64Flag{
		Name:  "timestamp",
		Usage: "Timestamp used for every benchmark block",
		Value: bench.DefaultConfig.Timestamp,
	}
	DeployByteLenFlag = cli.Uint64Flag{
		Name:  "deploy.bytelen",
		Usage: "Inscription byte length declared for deployments",
		Value: bench.DefaultConfig.DeployByteLen,
	}
	CallByteLenFlag = cli.Uint64Flag{
		Name:  "call.bytelen",
		Usage: "Inscription byte length declared for calls (gas allowance basis)",
		Value: bench.DefaultConfig.CallByteLen,
	}

	// Benchmark settings
	RoundsFlag = cli.IntFlag{
		Name:  "rounds",
		Usage: "Number of times the suite is measured",
		Value: bench.DefaultConfig.Rounds,
	}
	NoVerifyFlag = cli.BoolFlag{
		Name:  "noverify",
		Usage: "Skip local verification and deployed code checks",
	}
	CacheFlag = cli.IntFlag{
		Name:  "cache",
		Usage: "Number of generated programs kept in memory",
		Value: bench.DefaultConfig.CacheSize,
	}
	DBFlag = cli.StringFlag{
		Name:  "db",
		Usage: "Result database directory (empty keeps results in memory)",
		Value: DefaultDBPath(),
	}
	CommitFlag = cli.BoolFlag{
		Name:  "commit",
		Usage: "Ask the engine to commit its state after the run",
	}

	// Program selection
	OpcodeFlag = cli.StringFlag{
		Name:  "opcode",
		Usage: "Instruction name or value, e.g. ADD or 0x01",
	}
	ModeFlag = cli.StringFlag{
		Name:  "mode",
		Usage: "Stack mode: min_stack or full_stack",
	}
	RuntimeFlag = cli.BoolFlag{
		Name:  "runtime",
		Usage: "Print the looped runtime code instead of the creation code",
	}
	BodyFlag = cli.BoolFlag{
		Name:  "body",
		Usage: "Print only the straight-line body",
	}
	ExecuteFlag = cli.BoolFlag{
		Name:  "execute",
		Usage: "Run the full loop in the local interpreter (slow)",
	}
	RunIDFlag = cli.StringFlag{
		Name:  "run",
		Usage: "Stored run to report (defaults to the latest)",
	}
)

// DefaultEngineURL is the default JSON-RPC address of the engine.
const DefaultEngineURL = "http://localhost:18545"

// DefaultDBPath is the default result database directory.
func DefaultDBPath() string {
	home := homeDir()
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".opbench", "results")
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if home := os.Getenv("USERPROFILE"); home != "" {
		return home
	}
	return ""
}

// MigrateFlags sets the global flag from a local flag when it's set.
//
// e.g. opbench run --rounds 3
//
// is equivalent after calling this method with:
//
// opbench --rounds 3 run
//
// i.e. the flags can be given either before or after the command.
func MigrateFlags(action func(ctx *cli.Context) error) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		for _, name := range ctx.FlagNames() {
			if ctx.IsSet(name) {
				ctx.GlobalSet(name, ctx.String(name))
			}
		}
		return action(ctx)
	}
}
