/*
Package vm models the instruction set of the Aurora Virtual Machine for
benchmark generation.

It carries the stack trait of every supported opcode, classifies opcodes into
the categories the stress generator understands, and provides two checkers for
generated code: CheckHeights, a straight-line stack height walk, and
Interpreter, a small 256-bit interpreter that runs creation and runtime code
with exact control flow and stack semantics while treating instructions that
touch chain state as opaque.
*/
package vm
