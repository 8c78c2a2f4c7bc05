package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/Aurorachain/go-opbench/bench"
	"github.com/Aurorachain/go-opbench/cmd/utils"
	"github.com/Aurorachain/go-opbench/common"
	"github.com/Aurorachain/go-opbench/log"
	"github.com/naoina/toml"
	"gopkg.in/urfave/cli.v1"
)

var (
	dumpConfigCommand = cli.Command{
		Action:      utils.MigrateFlags(dumpConfig),
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "",
		Flags:       append(append([]cli.Flag{utils.ConfigFileFlag, utils.LogLevelFlag}, engineFlags...), benchFlags...),
		Category:    "MISCELLANEOUS COMMANDS",
		Description: `The dumpconfig command shows configuration values.`,
	}
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		link := ""
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

type engineConfig struct {
	URL           string
	User          string `toml:",omitempty"`
	Password      string `toml:",omitempty"`
	PkScript      string
	BlockHash     common.Hash
	Timestamp     uint64
	DeployByteLen uint64
	CallByteLen   uint64
}

type benchConfig struct {
	Rounds    int
	Verify    bool
	CacheSize int
	DB        string
}

type logConfig struct {
	Level string
}

type opbenchConfig struct {
	Engine engineConfig
	Bench  benchConfig
	Log    logConfig
}

func defaultConfig() opbenchConfig {
	def := bench.DefaultConfig
	return opbenchConfig{
		Engine: engineConfig{
			URL:           utils.DefaultEngineURL,
			PkScript:      def.PkScript,
			BlockHash:     def.BlockHash,
			Timestamp:     def.Timestamp,
			DeployByteLen: def.DeployByteLen,
			CallByteLen:   def.CallByteLen,
		},
		Bench: benchConfig{
			Rounds:    def.Rounds,
			Verify:    def.Verify,
			CacheSize: def.CacheSize,
			DB:        utils.DefaultDBPath(),
		},
		Log: logConfig{Level: utils.LogLevelFlag.Value},
	}
}

func loadConfig(file string, cfg *opbenchConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// makeConfig assembles the configuration from defaults, the config file
// and command line flags, in increasing order of precedence.
func makeConfig(ctx *cli.Context) opbenchConfig {
	cfg := defaultConfig()
	if file := ctx.GlobalString(utils.ConfigFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			utils.Fatalf("%v", err)
		}
	}
	setEngineConfig(ctx, &cfg.Engine)
	setBenchConfig(ctx, &cfg.Bench)
	if ctx.GlobalIsSet(utils.LogLevelFlag.Name) {
		cfg.Log.Level = ctx.GlobalString(utils.LogLevelFlag.Name)
	}
	log.SetLevel(cfg.Log.Level)
	return cfg
}

func setEngineConfig(ctx *cli.Context, cfg *engineConfig) {
	if ctx.GlobalIsSet(utils.EngineURLFlag.Name) {
		cfg.URL = ctx.GlobalString(utils.EngineURLFlag.Name)
	}
	if ctx.GlobalIsSet(utils.EngineUserFlag.Name) {
		cfg.User = ctx.GlobalString(utils.EngineUserFlag.Name)
	}
	if ctx.GlobalIsSet(utils.EnginePasswordFlag.Name) {
		cfg.Password = ctx.GlobalString(utils.EnginePasswordFlag.Name)
	}
	if ctx.GlobalIsSet(utils.PkScriptFlag.Name) {
		cfg.PkScript = ctx.GlobalString(utils.PkScriptFlag.Name)
	}
	if ctx.GlobalIsSet(utils.BlockHashFlag.Name) {
		hex := ctx.GlobalString(utils.BlockHashFlag.Name)
		if err := cfg.BlockHash.UnmarshalText([]byte(hex)); err != nil {
			utils.Fatalf("Invalid block hash %q: %v", hex, err)
		}
	}
	if ctx.GlobalIsSet(utils.TimestampFlag.Name) {
		cfg.Timestamp = ctx.GlobalUint64(utils.TimestampFlag.Name)
	}
	if ctx.GlobalIsSet(utils.DeployByteLenFlag.Name) {
		cfg.DeployByteLen = ctx.GlobalUint64(utils.DeployByteLenFlag.Name)
	}
	if ctx.GlobalIsSet(utils.CallByteLenFlag.Name) {
		cfg.CallByteLen = ctx.GlobalUint64(utils.CallByteLenFlag.Name)
	}
}

func setBenchConfig(ctx *cli.Context, cfg *benchConfig) {
	if ctx.GlobalIsSet(utils.RoundsFlag.Name) {
		cfg.Rounds = ctx.GlobalInt(utils.RoundsFlag.Name)
	}
	if ctx.GlobalBool(utils.NoVerifyFlag.Name) {
		cfg.Verify = false
	}
	if ctx.GlobalIsSet(utils.CacheFlag.Name) {
		cfg.CacheSize = ctx.GlobalInt(utils.CacheFlag.Name)
	}
	if ctx.GlobalIsSet(utils.DBFlag.Name) {
		cfg.DB = ctx.GlobalString(utils.DBFlag.Name)
	}
}

// runnerConfig converts the file/flag configuration into runner settings.
func (cfg *opbenchConfig) runnerConfig() bench.Config {
	return bench.Config{
		PkScript:      cfg.Engine.PkScript,
		BlockHash:     cfg.Engine.BlockHash,
		Timestamp:     cfg.Engine.Timestamp,
		DeployByteLen: cfg.Engine.DeployByteLen,
		CallByteLen:   cfg.Engine.CallByteLen,
		Rounds:        cfg.Bench.Rounds,
		Verify:        cfg.Bench.Verify,
		CacheSize:     cfg.Bench.CacheSize,
	}
}

func dumpConfig(ctx *cli.Context) error {
	cfg := makeConfig(ctx)
	comment := ""
	if cfg.Engine.Password != "" {
		cfg.Engine.Password = ""
		comment += "# Note: this config doesn't contain the engine password.\n\n"
	}
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}
	os.Stdout.WriteString(comment)
	os.Stdout.Write(out)
	return nil
}
