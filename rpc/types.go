package rpc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Aurorachain/go-opbench/common/math"
)

// BlockNumber selects a block in requests: a height, or one of the tags
// latest, pending and earliest.
type BlockNumber int64

const (
	PendingBlockNumber  = BlockNumber(-2)
	LatestBlockNumber   = BlockNumber(-1)
	EarliestBlockNumber = BlockNumber(0)
)

// UnmarshalJSON parses the given JSON fragment into a BlockNumber. It supports:
// - "latest", "earliest" or "pending" as string arguments
// - the block number, in hex or decimal
// Returned errors:
// - an invalid block number error when the given argument isn't a known strings
// - an out of range error when the given block number is either too little or too large
func (bn *BlockNumber) UnmarshalJSON(data []byte) error {
	input := strings.TrimSpace(string(data))
	if len(input) >= 2 && input[0] == '"' && input[len(input)-1] == '"' {
		input = input[1 : len(input)-1]
	}

	switch input {
	case "earliest":
		*bn = EarliestBlockNumber
		return nil
	case "latest":
		*bn = LatestBlockNumber
		return nil
	case "pending":
		*bn = PendingBlockNumber
		return nil
	}

	blckNum, ok := math.ParseUint64(input)
	if !ok || input == "" {
		return fmt.Errorf("invalid block number %q", input)
	}
	if blckNum > math.MaxInt64 {
		return fmt.Errorf("Blocknumber too high")
	}

	*bn = BlockNumber(blckNum)
	return nil
}

// String renders the block number the way the engine expects it in
// requests: a tag, or the height in decimal.
func (bn BlockNumber) String() string {
	switch bn {
	case PendingBlockNumber:
		return "pending"
	case LatestBlockNumber:
		return "latest"
	}
	return strconv.FormatInt(int64(bn), 10)
}

// MarshalText implements encoding.TextMarshaler.
func (bn BlockNumber) MarshalText() ([]byte, error) {
	return []byte(bn.String()), nil
}

func (bn BlockNumber) Int64() int64 {
	return (int64)(bn)
}
