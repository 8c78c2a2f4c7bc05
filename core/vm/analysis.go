package vm

import "github.com/holiman/uint256"

// bitvec is a bit vector which maps bytes in a program.
// An unset bit means the byte is an opcode, a set bit means
// it's data (i.e. argument of PUSHxx).
type bitvec []byte

func (bits bitvec) set(pos uint64) {
	bits[pos/8] |= 0x80 >> (pos % 8)
}

func (bits bitvec) set8(pos uint64) {
	bits[pos/8] |= 0xFF >> (pos % 8)
	bits[pos/8+1] |= ^(0xFF >> (pos % 8))
}

// codeSegment checks if the position is in a code segment.
func (bits bitvec) codeSegment(pos uint64) bool {
	return (bits[pos/8] & (0x80 >> (pos % 8))) == 0
}

// codeBitmap collects data locations in code.
func codeBitmap(code []byte) bitvec {
	// The bitmap is 4 bytes longer than necessary, in case the code
	// ends with a PUSH32, the algorithm will set bits on the
	// bitvector outside the bounds of the actual code.
	bits := make(bitvec, len(code)/8+1+4)
	for pc := uint64(0); pc < uint64(len(code)); {
		op := OpCode(code[pc])
		pc++
		if !op.IsPush() {
			continue
		}
		numbits := op - PUSH1 + 1
		for ; numbits >= 8; numbits -= 8 {
			bits.set8(pc)
			pc += 8
		}
		for ; numbits > 0; numbits-- {
			bits.set(pc)
			pc++
		}
	}
	return bits
}

// validJumpdest reports whether dest points at a JUMPDEST that is not part of
// a PUSH immediate.
func validJumpdest(code []byte, analysis bitvec, dest *uint256.Int) bool {
	udest, overflow := dest.Uint64WithOverflow()
	if overflow || udest >= uint64(len(code)) {
		return false
	}
	if OpCode(code[udest]) != JUMPDEST {
		return false
	}
	return analysis.codeSegment(udest)
}
