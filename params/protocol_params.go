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

package params

const (
	StackLimit       uint64 = 1024      // Maximum size of VM stack allowed.
	MaxCodeSize             = 24576     // Maximum bytecode to permit for a contract
	MaxInitCodeSize         = 49152     // Maximum initcode to permit in a creation transaction
	WordSize                = 32        // Width in bytes of a VM stack word.
	DefaultStepLimit uint64 = 100000000 // Instructions the local verifier executes before giving up.
)
