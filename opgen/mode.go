package opgen

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Mode selects how full the operand stack is kept while the stressed
// instruction executes.
type Mode int

const (
	// MinStack keeps the stack as low as possible between executions.
	MinStack Mode = iota
	// FullStack keeps the stack close to its limit.
	FullStack
)

// Modes lists every occupancy mode.
var Modes = []Mode{MinStack, FullStack}

func (m Mode) String() string {
	switch m {
	case MinStack:
		return "min_stack"
	case FullStack:
		return "full_stack"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses "min_stack" or "full_stack". The short forms "min" and
// "full" are accepted too.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "min_stack", "min":
		return MinStack, nil
	case "full_stack", "full":
		return FullStack, nil
	}
	return 0, errors.Wrapf(ErrUnknownMode, "%q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	switch m {
	case MinStack, FullStack:
		return []byte(m.String()), nil
	}
	return nil, errors.Wrapf(ErrUnknownMode, "%d", int(m))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(input []byte) error {
	mode, err := ParseMode(string(input))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
