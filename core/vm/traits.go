package vm

import (
	"sort"

	"github.com/pkg/errors"
)

// Trait describes the stack shape of an instruction: StackIn is the number of
// top-of-stack operands the instruction requires, StackDelta the net change in
// stack height after it executes.
type Trait struct {
	StackIn    int
	StackDelta int
}

// Pushes returns the number of words the instruction leaves on the stack in
// place of its StackIn operands.
func (t Trait) Pushes() int {
	return t.StackIn + t.StackDelta
}

var traits = map[OpCode]Trait{
	STOP:       {0, 0},
	ADD:        {2, -1},
	MUL:        {2, -1},
	SUB:        {2, -1},
	DIV:        {2, -1},
	SDIV:       {2, -1},
	MOD:        {2, -1},
	SMOD:       {2, -1},
	ADDMOD:     {3, -2},
	MULMOD:     {3, -2},
	EXP:        {2, -1},
	SIGNEXTEND: {2, -1},

	LT:     {2, -1},
	GT:     {2, -1},
	SLT:    {2, -1},
	SGT:    {2, -1},
	EQ:     {2, -1},
	ISZERO: {1, 0},
	AND:    {2, -1},
	OR:     {2, -1},
	XOR:    {2, -1},
	NOT:    {1, 0},
	BYTE:   {2, -1},
	SHL:    {2, -1},
	SHR:    {2, -1},
	SAR:    {2, -1},

	KECCAK256: {2, -1},

	ADDRESS:        {0, 1},
	BALANCE:        {1, 0},
	ORIGIN:         {0, 1},
	CALLER:         {0, 1},
	CALLVALUE:      {0, 1},
	CALLDATALOAD:   {1, 0},
	CALLDATASIZE:   {0, 1},
	CALLDATACOPY:   {3, -3},
	CODESIZE:       {0, 1},
	CODECOPY:       {3, -3},
	GASPRICE:       {0, 1},
	EXTCODESIZE:    {1, 0},
	EXTCODECOPY:    {4, -4},
	RETURNDATASIZE: {0, 1},
	RETURNDATACOPY: {3, -3},
	EXTCODEHASH:    {1, 0},

	BLOCKHASH:   {1, 0},
	COINBASE:    {0, 1},
	TIMESTAMP:   {0, 1},
	NUMBER:      {0, 1},
	PREVRANDAO:  {0, 1},
	GASLIMIT:    {0, 1},
	CHAINID:     {0, 1},
	SELFBALANCE: {0, 1},
	BASEFEE:     {0, 1},
	BLOBHASH:    {1, 0},
	BLOBBASEFEE: {0, 1},

	POP:      {1, -1},
	MLOAD:    {1, 0},
	MSTORE:   {2, -2},
	MSTORE8:  {2, -2},
	SLOAD:    {1, 0},
	SSTORE:   {2, -2},
	JUMP:     {1, -1},
	JUMPI:    {2, -2},
	PC:       {0, 1},
	MSIZE:    {0, 1},
	GAS:      {0, 1},
	JUMPDEST: {0, 0},
	TLOAD:    {1, 0},
	TSTORE:   {2, -2},
	MCOPY:    {3, -3},
	PUSH0:    {0, 1},

	LOG0: {2, -2},
	LOG1: {3, -3},
	LOG2: {4, -4},
	LOG3: {5, -5},
	LOG4: {6, -6},

	DATALOAD:  {1, 0},
	DATALOADN: {0, 1},
	DATASIZE:  {0, 1},
	DATACOPY:  {3, -3},

	RJUMP:  {0, 0},
	RJUMPI: {1, -1},
	RJUMPV: {1, -1},
	CALLF:  {0, 0},
	RETF:   {0, 0},
	JUMPF:  {0, 0},
	DUPN:   {0, 1},
	SWAPN:  {0, 0},

	CREATE:         {3, -2},
	CALL:           {7, -6},
	CALLCODE:       {7, -6},
	RETURN:         {2, -2},
	DELEGATECALL:   {6, -5},
	CREATE2:        {4, -3},
	RETURNDATALOAD: {1, 0},
	STATICCALL:     {6, -5},
	REVERT:         {2, -2},
	INVALID:        {0, 0},
	SELFDESTRUCT:   {1, -1},
}

func init() {
	for i := 0; i < 32; i++ {
		traits[PUSH1+OpCode(i)] = Trait{0, 1}
	}
	// DUPn reads n operands and adds one, SWAPn touches n+1 and keeps the height.
	for i := 0; i < 16; i++ {
		traits[DUP1+OpCode(i)] = Trait{i + 1, 1}
		traits[SWAP1+OpCode(i)] = Trait{i + 2, 0}
	}
}

// LookupTrait returns the stack trait of op. Opcodes outside the supported
// instruction set yield ErrUnknownOpcode.
func LookupTrait(op OpCode) (Trait, error) {
	t, ok := traits[op]
	if !ok {
		return Trait{}, errors.Wrapf(ErrUnknownOpcode, "opcode %#02x", byte(op))
	}
	return t, nil
}

// SupportedOpcodes returns every opcode that has a trait, in ascending order.
func SupportedOpcodes() []OpCode {
	ops := make([]OpCode, 0, len(traits))
	for op := range traits {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}
