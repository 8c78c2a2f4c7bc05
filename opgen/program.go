package opgen

import "github.com/Aurorachain/go-opbench/core/vm"

// Program is a complete stress program for one instruction and mode.
type Program struct {
	Op      vm.OpCode
	Mode    Mode
	Body    Bytecode // straight-line stress body
	Runtime Bytecode // body wrapped in the counting loop
	Init    Bytecode // creation code deploying Runtime
}

// GenerateProgram builds the body for op in the given mode, loops it and
// wraps the loop for deployment.
func GenerateProgram(op vm.OpCode, mode Mode) (*Program, error) {
	body, err := GenerateBody(op, mode)
	if err != nil {
		return nil, err
	}
	runtime := WrapLoop(body)
	return &Program{
		Op:      op,
		Mode:    mode,
		Body:    body,
		Runtime: runtime,
		Init:    WrapDeploy(runtime),
	}, nil
}

// Name identifies the program, e.g. "ADD/min_stack".
func (p *Program) Name() string {
	return p.Op.String() + "/" + p.Mode.String()
}
