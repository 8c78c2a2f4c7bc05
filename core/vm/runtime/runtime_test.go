package runtime

import (
	"strings"
	"testing"

	"github.com/Aurorachain/go-opbench/common"
	"github.com/Aurorachain/go-opbench/core/vm"
	"github.com/Aurorachain/go-opbench/params"
	"github.com/pkg/errors"
)

func TestDefaults(t *testing.T) {
	cfg := new(Config)
	setDefaults(cfg)

	if cfg.StepLimit == 0 {
		t.Error("expected step limit to be non 0")
	}
	if cfg.MaxInitCodeSize != params.MaxInitCodeSize {
		t.Errorf("init code limit mismatch: have %d, want %d", cfg.MaxInitCodeSize, params.MaxInitCodeSize)
	}
}

func TestCreate(t *testing.T) {
	tests := []struct {
		init string
		want string
		err  error
	}{
		// 8-byte length, CODECOPY from offset 27, RETURN, separator, code
		{"670000000000000001601b6000396700000000000000016000f3d500", "00", nil},
		{"670000000000000003601b6000396700000000000000036000f3d5600100", "600100", nil},
		{"60006000f3", "", ErrEmptyRuntime},
		{"60006000fd", "", vm.ErrExecutionReverted},
		{"fe", "", vm.ErrInvalidOpcode},
	}
	for i, test := range tests {
		code, err := Create(common.Hex2Bytes(test.init), nil)
		if errors.Cause(err) != test.err {
			t.Errorf("test %d: error mismatch: got %v, want %v", i, err, test.err)
			continue
		}
		if got := common.Bytes2Hex(code); test.err == nil && got != test.want {
			t.Errorf("test %d: got %s, want %s", i, got, test.want)
		}
	}
}

func TestCreateMaxCodeSize(t *testing.T) {
	init := common.Hex2Bytes("670000000000000003601b6000396700000000000000036000f3d5600100")
	if _, err := Create(init, &Config{MaxCodeSize: 2}); err == nil {
		t.Fatal("expected size error")
	}
	if _, err := Create(init, &Config{MaxCodeSize: 3}); err != nil {
		t.Fatal(err)
	}
}

func TestCreateMaxInitCodeSize(t *testing.T) {
	init := common.Hex2Bytes("670000000000000003601b6000396700000000000000036000f3d5600100")
	if _, err := Create(init, &Config{MaxInitCodeSize: len(init) - 1}); errors.Cause(err) != ErrInitCodeTooLarge {
		t.Fatalf("got %v, want %v", err, ErrInitCodeTooLarge)
	}
	if _, err := Create(init, &Config{MaxInitCodeSize: len(init)}); err != nil {
		t.Fatal(err)
	}
	oversized := make([]byte, params.MaxInitCodeSize+1)
	if _, err := Create(oversized, nil); errors.Cause(err) != ErrInitCodeTooLarge {
		t.Fatalf("got %v, want %v", err, ErrInitCodeTooLarge)
	}
}

func TestExecuteStepLimit(t *testing.T) {
	_, res, err := Execute(common.Hex2Bytes("5b600056"), &Config{StepLimit: 30})
	if errors.Cause(err) != vm.ErrStepLimitReached {
		t.Fatalf("got %v, want %v", err, vm.ErrStepLimitReached)
	}
	if res.Steps != 30 {
		t.Errorf("got %d steps, want 30", res.Steps)
	}
}

func TestFuzz(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"6001600201", 1},
		{"fe", 0},
		{"600356", 0},
		{"01", 1},
		{"5b600056", 1},
		{strings.Repeat("5f", 4), 1},
	}
	for _, test := range tests {
		if got := Fuzz(common.Hex2Bytes(test.input)); got != test.want {
			t.Errorf("Fuzz(%s) = %d, want %d", test.input, got, test.want)
		}
	}
}
