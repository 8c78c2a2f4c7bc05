package vm

import "fmt"

// InstructionCategory is the coarse behavioural class of an instruction, used
// to pick a stress pattern for it.
type InstructionCategory int

const (
	CategoryNop    InstructionCategory = iota // no stack input, no stack output
	CategoryNullop                            // produces a result without any stack input
	CategoryUnop                              // consumes one, produces one
	CategoryBinop                             // consumes two, produces one
	CategoryPush                              // PUSH1..PUSH32
	CategoryDup                               // DUP1..DUP16
	CategorySwap                              // SWAP1..SWAP16
	CategoryOther                             // none of the above
)

var categoryNames = [...]string{
	CategoryNop:    "nop",
	CategoryNullop: "nullop",
	CategoryUnop:   "unop",
	CategoryBinop:  "binop",
	CategoryPush:   "push",
	CategoryDup:    "dup",
	CategorySwap:   "swap",
	CategoryOther:  "other",
}

func (c InstructionCategory) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("InstructionCategory(%d)", int(c))
	}
	return categoryNames[c]
}

// Classify derives the category of op. PUSH, SWAP and DUP are recognised by
// their opcode ranges; everything else by its trait.
func Classify(op OpCode) (InstructionCategory, error) {
	t, err := LookupTrait(op)
	if err != nil {
		return CategoryOther, err
	}
	switch {
	case op.IsPush():
		return CategoryPush, nil
	case op.IsSwap():
		return CategorySwap, nil
	case op.IsDup():
		return CategoryDup, nil
	}
	switch t {
	case Trait{0, 0}:
		return CategoryNop, nil
	case Trait{0, 1}:
		return CategoryNullop, nil
	case Trait{1, 0}:
		return CategoryUnop, nil
	case Trait{2, -1}:
		return CategoryBinop, nil
	}
	return CategoryOther, nil
}
