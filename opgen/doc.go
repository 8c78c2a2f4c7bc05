// Package opgen generates stress programs that execute a single instruction
// thousands of times per loop iteration at a chosen operand stack occupancy.
//
// A program is built in three layers: GenerateBody emits the straight-line
// stress body, WrapLoop repeats it LoopIterations times with a self
// terminating counter, and WrapDeploy turns the loop into creation code that
// returns it as the deployed contract's runtime code.
package opgen
