// Package opbench defines interfaces for interacting with the execution
// engine under benchmark.
package opbench

import (
	"context"
	"errors"
	"math/big"

	"github.com/Aurorachain/go-opbench/common"
	"github.com/Aurorachain/go-opbench/common/math"
)

// NotFound is returned by API methods if the requested item does not exist.
var NotFound = errors.New("not found")

// DeployMsg contains parameters for a contract deployment inscription.
type DeployMsg struct {
	FromPkScript       string  // pkscript of the inscribing wallet
	Data               []byte  // creation code
	InscriptionID      *string // optional
	InscriptionByteLen *uint64 // gas allowance basis; nil lets the engine use len(Data)
}

// CallMsg contains parameters for a contract call inscription.
type CallMsg struct {
	FromPkScript          string
	To                    *common.Address // contract address
	ContractInscriptionID *string         // alternative to To
	Data                  []byte          // call data
	InscriptionID         *string
	InscriptionByteLen    *uint64
}

// Receipt is the engine's record of an executed inscription.
type Receipt struct {
	Status          math.HexOrDecimal64 `json:"status"`
	TxResult        string              `json:"txResult"`
	Reason          string              `json:"reason"`
	GasUsed         math.HexOrDecimal64 `json:"gasUsed"`
	ContractAddress *common.Address     `json:"contractAddress"`
	BlockNumber     math.HexOrDecimal64 `json:"blockNumber"`
	TxHash          common.Hash         `json:"transactionHash"`
	TxIndex         math.HexOrDecimal64 `json:"transactionIndex"`
}

// Succeeded reports whether the inscription executed without reverting.
func (r *Receipt) Succeeded() bool {
	return r.Status == 1
}

// Block is the subset of an engine block the benchmark reads.
type Block struct {
	Number        math.HexOrDecimal64 `json:"number"`
	Hash          common.Hash         `json:"hash"`
	Timestamp     math.HexOrDecimal64 `json:"timestamp"`
	GasLimit      math.HexOrDecimal64 `json:"gasLimit"`
	GasUsed       math.HexOrDecimal64 `json:"gasUsed"`
	MineTimestamp math.HexOrDecimal64 `json:"mineTimestamp"` // nanoseconds spent executing the block
}

// BlockReader provides access to finalised blocks.
type BlockReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
	// BlockByNumber returns the block at the given height; nil selects the
	// latest block.
	BlockByNumber(ctx context.Context, number *big.Int) (*Block, error)
}

// StateReader reads contract state.
type StateReader interface {
	CodeAt(ctx context.Context, contract common.Address) ([]byte, error)
}

// InscriptionSender executes inscriptions in the currently open block.
type InscriptionSender interface {
	Deploy(ctx context.Context, block BlockRef, msg DeployMsg) (*Receipt, error)
	Call(ctx context.Context, block BlockRef, msg CallMsg) (*Receipt, error)
}

// BlockFinaliser closes the open block.
type BlockFinaliser interface {
	FinaliseBlock(ctx context.Context, block BlockRef) error
}

// BlockRef identifies the block inscriptions are executed in.
type BlockRef struct {
	Hash      common.Hash
	Timestamp uint64
}

// Engine is the full interface the benchmark runner drives.
type Engine interface {
	BlockReader
	StateReader
	InscriptionSender
	BlockFinaliser
}
