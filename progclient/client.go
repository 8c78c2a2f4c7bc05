// Package progclient provides a client for the programmable BRC20 engine's
// JSON-RPC API.
package progclient

import (
	"context"
	"math/big"
	"sync"

	"github.com/Aurorachain/go-opbench"
	"github.com/Aurorachain/go-opbench/common"
	"github.com/Aurorachain/go-opbench/common/math"
	"github.com/Aurorachain/go-opbench/log"
	"github.com/Aurorachain/go-opbench/rpc"
	"github.com/pkg/errors"
)

var (
	ErrBlockHashMismatch      = errors.New("block hash mismatch")
	ErrBlockTimestampMismatch = errors.New("block timestamp mismatch")
)

// Client defines typed wrappers for the engine's RPC API.
//
// The engine executes inscriptions in an open block identified by hash and
// timestamp. The client tracks that block: the first inscription opens it,
// every inscription takes the next transaction index, and FinaliseBlock
// closes it. Inscriptions addressed to another block before it is closed are
// rejected.
type Client struct {
	c *rpc.Client

	mu    sync.Mutex
	open  bool
	block opbench.BlockRef
	txIdx uint64
}

// Dial connects a client to the given URL.
func Dial(rawurl string) (*Client, error) {
	c, err := rpc.Dial(rawurl)
	if err != nil {
		return nil, err
	}
	return NewClient(c), nil
}

// NewClient creates a client that uses the given RPC client.
func NewClient(c *rpc.Client) *Client {
	return &Client{c: c}
}

func (ec *Client) Close() {
	ec.c.Close()
}

// Version returns the engine's version string.
func (ec *Client) Version(ctx context.Context) (string, error) {
	var version string
	err := ec.c.CallNamedContext(ctx, &version, "brc20_version", nil)
	return version, err
}

// Blockchain Access

// BlockNumber returns the height of the most recent finalised block.
func (ec *Client) BlockNumber(ctx context.Context) (uint64, error) {
	var result math.HexOrDecimal64
	err := ec.c.CallNamedContext(ctx, &result, "eth_blockNumber", nil)
	return uint64(result), err
}

type blockByNumberArgs struct {
	Block  string `json:"block"`
	IsFull bool   `json:"is_full"`
}

// BlockByNumber returns a block from the engine.
// If number is nil, the latest known block is returned.
func (ec *Client) BlockByNumber(ctx context.Context, number *big.Int) (*opbench.Block, error) {
	var block *opbench.Block
	err := ec.c.CallNamedContext(ctx, &block, "eth_getBlockByNumber", blockByNumberArgs{toBlockNumArg(number), true})
	if err == nil && block == nil {
		err = opbench.NotFound
	}
	return block, err
}

func toBlockNumArg(number *big.Int) string {
	if number == nil {
		return rpc.LatestBlockNumber.String()
	}
	return number.String()
}

// CodeAt returns the runtime code of the given contract.
func (ec *Client) CodeAt(ctx context.Context, contract common.Address) ([]byte, error) {
	var result string
	if err := ec.c.CallNamedContext(ctx, &result, "eth_getCode", map[string]interface{}{"contract": contract}); err != nil {
		return nil, err
	}
	return common.DecodeHex(result)
}

// Inscriptions

type deployArgs struct {
	FromPkScript       string      `json:"from_pkscript"`
	Data               string      `json:"data"`
	Timestamp          uint64      `json:"timestamp"`
	Hash               common.Hash `json:"hash"`
	TxIdx              uint64      `json:"tx_idx"`
	InscriptionID      *string     `json:"inscription_id"`
	InscriptionByteLen *uint64     `json:"inscription_byte_len,omitempty"`
}

type callArgs struct {
	FromPkScript          string          `json:"from_pkscript"`
	ContractAddress       *common.Address `json:"contract_address"`
	ContractInscriptionID *string         `json:"contract_inscription_id"`
	Data                  string          `json:"data"`
	Timestamp             uint64          `json:"timestamp"`
	Hash                  common.Hash     `json:"hash"`
	TxIdx                 uint64          `json:"tx_idx"`
	InscriptionID         *string         `json:"inscription_id"`
	InscriptionByteLen    *uint64         `json:"inscription_byte_len,omitempty"`
}

type finaliseArgs struct {
	Hash         common.Hash `json:"hash"`
	Timestamp    uint64      `json:"timestamp"`
	BlockTxCount uint64      `json:"block_tx_count"`
}

// verifyBlock opens block if no block is open and otherwise checks that block
// is the open one. The caller must hold ec.mu.
func (ec *Client) verifyBlock(block opbench.BlockRef) error {
	switch {
	case !ec.open:
		ec.open, ec.block, ec.txIdx = true, block, 0
	case ec.block.Hash != block.Hash:
		return errors.Wrapf(ErrBlockHashMismatch, "open %x, got %x", ec.block.Hash, block.Hash)
	case ec.block.Timestamp != block.Timestamp:
		return errors.Wrapf(ErrBlockTimestampMismatch, "open %d, got %d", ec.block.Timestamp, block.Timestamp)
	}
	return nil
}

// Deploy executes a deployment inscription in block. A receipt with a failed
// status is returned without error.
func (ec *Client) Deploy(ctx context.Context, block opbench.BlockRef, msg opbench.DeployMsg) (*opbench.Receipt, error) {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	if err := ec.verifyBlock(block); err != nil {
		return nil, err
	}
	args := deployArgs{
		FromPkScript:       msg.FromPkScript,
		Data:               common.ToHex(msg.Data),
		Timestamp:          block.Timestamp,
		Hash:               block.Hash,
		TxIdx:              ec.txIdx,
		InscriptionID:      msg.InscriptionID,
		InscriptionByteLen: msg.InscriptionByteLen,
	}
	var receipt *opbench.Receipt
	if err := ec.c.CallNamedContext(ctx, &receipt, "brc20_deploy", args); err != nil {
		return nil, err
	}
	ec.txIdx++
	if receipt == nil {
		return nil, opbench.NotFound
	}
	if !receipt.Succeeded() {
		log.Warn("Deployment failed", "tx", receipt.TxHash, "result", receipt.TxResult, "reason", receipt.Reason)
	}
	return receipt, nil
}

// Call executes a call inscription in block. A receipt with a failed status
// is returned without error.
func (ec *Client) Call(ctx context.Context, block opbench.BlockRef, msg opbench.CallMsg) (*opbench.Receipt, error) {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	if err := ec.verifyBlock(block); err != nil {
		return nil, err
	}
	args := callArgs{
		FromPkScript:          msg.FromPkScript,
		ContractAddress:       msg.To,
		ContractInscriptionID: msg.ContractInscriptionID,
		Data:                  common.ToHex(msg.Data),
		Timestamp:             block.Timestamp,
		Hash:                  block.Hash,
		TxIdx:                 ec.txIdx,
		InscriptionID:         msg.InscriptionID,
		InscriptionByteLen:    msg.InscriptionByteLen,
	}
	var receipt *opbench.Receipt
	if err := ec.c.CallNamedContext(ctx, &receipt, "brc20_call", args); err != nil {
		return nil, err
	}
	ec.txIdx++
	if receipt == nil {
		return nil, opbench.NotFound
	}
	if !receipt.Succeeded() {
		log.Warn("Call failed", "tx", receipt.TxHash, "result", receipt.TxResult, "reason", receipt.Reason)
	}
	return receipt, nil
}

// FinaliseBlock closes block with the number of inscriptions executed in it.
func (ec *Client) FinaliseBlock(ctx context.Context, block opbench.BlockRef) error {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	if err := ec.verifyBlock(block); err != nil {
		return err
	}
	args := finaliseArgs{Hash: block.Hash, Timestamp: block.Timestamp, BlockTxCount: ec.txIdx}
	if err := ec.c.CallNamedContext(ctx, nil, "brc20_finaliseBlock", args); err != nil && err != rpc.ErrNoResult {
		return err
	}
	ec.open, ec.block, ec.txIdx = false, opbench.BlockRef{}, 0
	return nil
}

// CommitToDatabase asks the engine to persist its state.
func (ec *Client) CommitToDatabase(ctx context.Context) error {
	err := ec.c.CallNamedContext(ctx, nil, "brc20_commitToDatabase", nil)
	if err == rpc.ErrNoResult {
		return nil
	}
	return err
}

// PendingTxCount returns the number of inscriptions executed in the open
// block.
func (ec *Client) PendingTxCount() uint64 {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.txIdx
}
