// opbench generates per-instruction stress programs and measures how fast an
// execution engine runs them.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/Aurorachain/go-opbench/cmd/utils"
	"github.com/Aurorachain/go-opbench/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/urfave/cli.v1"
)

var (
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""

	app = utils.NewApp(gitCommit, "per-instruction stress benchmark for programmable BRC20 engines")

	engineFlags = []cli.Flag{
		utils.EngineURLFlag,
		utils.EngineUserFlag,
		utils.EnginePasswordFlag,
		utils.PkScriptFlag,
		utils.BlockHashFlag,
		utils.TimestampFlag,
		utils.DeployByteLenFlag,
		utils.CallByteLenFlag,
	}

	benchFlags = []cli.Flag{
		utils.RoundsFlag,
		utils.NoVerifyFlag,
		utils.CacheFlag,
		utils.DBFlag,
		utils.CommitFlag,
	}
)

func init() {
	app.Action = cli.ShowAppHelp
	app.Commands = []cli.Command{
		generateCommand,
		suiteCommand,
		verifyCommand,
		runCommand,
		reportCommand,
		dumpConfigCommand,
	}
	sort.Sort(cli.CommandsByName(app.Commands))

	app.Flags = append(app.Flags, utils.ConfigFileFlag, utils.LogLevelFlag, utils.MetricsEnabledFlag)
	app.Flags = append(app.Flags, engineFlags...)
	app.Flags = append(app.Flags, benchFlags...)

	app.Before = func(ctx *cli.Context) error {
		// Logs go to stderr so generated code can be piped from stdout.
		log.SetOutput(colorable.NewColorableStderr(), isatty.IsTerminal(os.Stderr.Fd()))
		log.SetLevel(ctx.GlobalString(utils.LogLevelFlag.Name))
		return nil
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
