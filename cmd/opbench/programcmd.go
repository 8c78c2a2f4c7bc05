package main

import (
	"fmt"

	"github.com/Aurorachain/go-opbench/bench"
	"github.com/Aurorachain/go-opbench/cmd/utils"
	"github.com/Aurorachain/go-opbench/core/vm"
	"github.com/Aurorachain/go-opbench/log"
	"github.com/Aurorachain/go-opbench/opgen"
	"github.com/Aurorachain/go-opbench/params"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"
)

var (
	generateCommand = cli.Command{
		Action:    utils.MigrateFlags(generate),
		Name:      "generate",
		Usage:     "Print the stress program of one instruction",
		ArgsUsage: "",
		Flags: []cli.Flag{
			utils.OpcodeFlag,
			utils.ModeFlag,
			utils.RuntimeFlag,
			utils.BodyFlag,
		},
		Category: "PROGRAM COMMANDS",
		Description: `
The generate command prints the creation code (hex) that deploys the looped
stress program of --opcode in --mode (default min_stack). Use --runtime for
the looped runtime code or --body for the straight-line body alone.`,
	}
	suiteCommand = cli.Command{
		Action:    utils.MigrateFlags(listSuite),
		Name:      "suite",
		Usage:     "List the default benchmark suite",
		ArgsUsage: "",
		Flags: []cli.Flag{
			utils.OpcodeFlag,
			utils.ModeFlag,
		},
		Category:    "PROGRAM COMMANDS",
		Description: `The suite command lists the programs of the default suite with their sizes.`,
	}
	verifyCommand = cli.Command{
		Action:    utils.MigrateFlags(verify),
		Name:      "verify",
		Usage:     "Check generated programs in the local interpreter",
		ArgsUsage: "",
		Flags: []cli.Flag{
			utils.OpcodeFlag,
			utils.ModeFlag,
			utils.ExecuteFlag,
		},
		Category: "PROGRAM COMMANDS",
		Description: `
The verify command checks the stack heights of every selected program body,
that its creation code returns the runtime code and, with --execute, runs the
complete loop.`,
	}
)

func selectProgram(ctx *cli.Context) (*opgen.Program, error) {
	op := ctx.String(utils.OpcodeFlag.Name)
	if op == "" {
		return nil, errors.New("missing --opcode")
	}
	mode := ctx.String(utils.ModeFlag.Name)
	if mode == "" {
		mode = opgen.MinStack.String()
	}
	entry, err := bench.ParseEntry(op, mode)
	if err != nil {
		return nil, err
	}
	return opgen.GenerateProgram(entry.Op, entry.Mode)
}

func selectSuite(ctx *cli.Context) (bench.Suite, error) {
	suite, err := bench.DefaultSuite().Filter(ctx.String(utils.OpcodeFlag.Name), ctx.String(utils.ModeFlag.Name))
	if err != nil {
		return nil, err
	}
	if len(suite) == 0 {
		return nil, bench.ErrEmptySuite
	}
	return suite, nil
}

func warnCodeSize(p *opgen.Program) {
	if size := p.Runtime.Len(); size > params.MaxCodeSize {
		log.Warn("Runtime code exceeds the contract size limit", "program", p.Name(), "size", size, "limit", params.MaxCodeSize)
	}
}

func generate(ctx *cli.Context) error {
	if ctx.Bool(utils.RuntimeFlag.Name) && ctx.Bool(utils.BodyFlag.Name) {
		return errors.New("--runtime and --body are mutually exclusive")
	}
	p, err := selectProgram(ctx)
	if err != nil {
		return err
	}
	warnCodeSize(p)

	switch {
	case ctx.Bool(utils.BodyFlag.Name):
		fmt.Println(p.Body.Hex())
	case ctx.Bool(utils.RuntimeFlag.Name):
		fmt.Println(p.Runtime.Hex())
	default:
		fmt.Println(p.Init.Hex())
	}
	return nil
}

func listSuite(ctx *cli.Context) error {
	suite, err := selectSuite(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%-16s %-10s %-7s %7s %7s %7s\n", "PROGRAM", "CATEGORY", "OP", "BODY", "RUNTIME", "INIT")
	for _, e := range suite {
		p, err := opgen.GenerateProgram(e.Op, e.Mode)
		if err != nil {
			return err
		}
		category, _ := vm.Classify(e.Op)
		fmt.Printf("%-16s %-10s %-7s %7d %7d %7d\n", p.Name(), category, opgen.ByteHex(e.Op), p.Body.Len(), p.Runtime.Len(), p.Init.Len())
	}
	return nil
}

func verify(ctx *cli.Context) error {
	suite, err := selectSuite(ctx)
	if err != nil {
		return err
	}
	execute := ctx.Bool(utils.ExecuteFlag.Name)

	var failed int
	for _, e := range suite {
		p, err := opgen.GenerateProgram(e.Op, e.Mode)
		if err != nil {
			return err
		}
		warnCodeSize(p)
		report, err := bench.Check(p, execute)
		if err != nil {
			failed++
			fmt.Printf("FAIL %s: %v\n", p.Name(), err)
			continue
		}
		if report.Executed {
			fmt.Printf("ok   %s max=%d steps=%d height=%d\n", p.Name(), report.Loop.Max, report.Steps, report.MaxHeight)
		} else {
			fmt.Printf("ok   %s max=%d\n", p.Name(), report.Loop.Max)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d programs failed verification", failed, len(suite))
	}
	return nil
}
