// Copyright 2018 The go-aurora Authors
// This file is part of the go-aurora library.
//
// The go-aurora library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-aurora library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-aurora library. If not, see <http://www.gnu.org/licenses/>.

package vm

import "errors"

var (
	ErrUnknownOpcode       = errors.New("unknown opcode")
	ErrStackUnderflow      = errors.New("stack underflow")
	ErrStackOverflow       = errors.New("stack limit reached")
	ErrInvalidJump         = errors.New("invalid jump destination")
	ErrExecutionReverted   = errors.New("execution reverted")
	ErrInvalidOpcode       = errors.New("invalid opcode")
	ErrStepLimitReached    = errors.New("step limit reached")
	ErrMemoryLimitExceeded = errors.New("memory limit exceeded")
)
