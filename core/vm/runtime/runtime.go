package runtime

import (
	"github.com/Aurorachain/go-opbench/core/vm"
	"github.com/Aurorachain/go-opbench/params"
	"github.com/pkg/errors"
)

var (
	// ErrEmptyRuntime is returned by Create when the creation code returns no code.
	ErrEmptyRuntime = errors.New("creation returned empty code")
	// ErrInitCodeTooLarge is returned by Create for creation code over the
	// configured limit.
	ErrInitCodeTooLarge = errors.New("init code size exceeds limit")
)

// Config is a basic type specifying certain configuration flags for running
// the verifier.
type Config struct {
	StepLimit       uint64
	MaxCodeSize     int // zero disables the size check
	MaxInitCodeSize int // defaults to params.MaxInitCodeSize
	Tracer          vm.Tracer
}

// setDefaults sets defaults on the config
func setDefaults(cfg *Config) {
	if cfg.StepLimit == 0 {
		cfg.StepLimit = params.DefaultStepLimit
	}
	if cfg.MaxInitCodeSize == 0 {
		cfg.MaxInitCodeSize = params.MaxInitCodeSize
	}
}

func newInterpreter(cfg *Config) *vm.Interpreter {
	return vm.NewInterpreter(vm.Config{
		StepLimit: cfg.StepLimit,
		Tracer:    cfg.Tracer,
	})
}

// Execute executes the code using the input as call data during the execution.
// It returns the bytes handed back by the code and the run's statistics.
//
// Execute starts from an empty stack and empty memory; instructions that read
// chain state see zero words.
func Execute(code []byte, cfg *Config) ([]byte, *vm.Result, error) {
	if cfg == nil {
		cfg = new(Config)
	}
	setDefaults(cfg)

	in := newInterpreter(cfg)
	ret, err := in.Run(code)
	return ret, in.Result(), err
}

// Create executes the creation code and returns the runtime code it deploys.
func Create(input []byte, cfg *Config) ([]byte, error) {
	if cfg == nil {
		cfg = new(Config)
	}
	setDefaults(cfg)

	if len(input) > cfg.MaxInitCodeSize {
		return nil, errors.Wrapf(ErrInitCodeTooLarge, "size %d, limit %d", len(input), cfg.MaxInitCodeSize)
	}
	code, err := newInterpreter(cfg).Run(input)
	if err != nil {
		return nil, errors.Wrap(err, "creation failed")
	}
	if len(code) == 0 {
		return nil, ErrEmptyRuntime
	}
	if cfg.MaxCodeSize > 0 && len(code) > cfg.MaxCodeSize {
		return code, errors.Errorf("runtime code size %d exceeds limit %d", len(code), cfg.MaxCodeSize)
	}
	return code, nil
}
