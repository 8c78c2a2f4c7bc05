// Package enginetest implements an in-memory programmable BRC20 engine that
// speaks the engine's JSON-RPC dialect. Deployed creation code runs through
// the local verifier; calls optionally execute the deployed code.
package enginetest

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/Aurorachain/go-opbench/common"
	"github.com/Aurorachain/go-opbench/common/math"
	"github.com/Aurorachain/go-opbench/common/mclock"
	"github.com/Aurorachain/go-opbench/core/vm/runtime"
	"github.com/julienschmidt/httprouter"
)

// Version is reported by brc20_version.
const Version = "0.0.0-enginetest"

type request struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type response struct {
	Version string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type receipt struct {
	Status          string          `json:"status"`
	TxResult        string          `json:"txResult"`
	Reason          string          `json:"reason"`
	GasUsed         string          `json:"gasUsed"`
	ContractAddress *common.Address `json:"contractAddress"`
	BlockNumber     string          `json:"blockNumber"`
	TxHash          common.Hash     `json:"transactionHash"`
	TxIndex         string          `json:"transactionIndex"`
}

type block struct {
	Number        string      `json:"number"`
	Hash          common.Hash `json:"hash"`
	Timestamp     string      `json:"timestamp"`
	GasLimit      string      `json:"gasLimit"`
	GasUsed       string      `json:"gasUsed"`
	MineTimestamp string      `json:"mineTimestamp"`
}

// Request is a decoded inscription or block request as the engine saw it.
type Request struct {
	Method string
	Params map[string]interface{}
}

// Engine is a fake engine served over HTTP.
type Engine struct {
	*httptest.Server

	// Execute runs called contracts in the verifier and charges one gas per
	// executed instruction. Otherwise a call costs the size of the code.
	Execute bool
	// StepLimit bounds executed instructions per call when Execute is set.
	StepLimit uint64
	// FailCalls makes every call return a failed receipt.
	FailCalls bool
	// FailDeploys makes every deployment return a failed receipt.
	FailDeploys bool

	mu        sync.Mutex
	contracts map[common.Address][]byte
	blocks    []block
	pending   []receipt
	started   mclock.AbsTime
	requests  []Request
}

// NewEngine starts a fake engine holding only a genesis block.
func NewEngine() *Engine {
	e := &Engine{
		contracts: make(map[common.Address][]byte),
		blocks:    []block{{Number: "0x0", GasLimit: "0x0", GasUsed: "0x0", MineTimestamp: "0", Timestamp: "0x0"}},
	}
	router := httprouter.New()
	router.POST("/", e.serve)
	e.Server = httptest.NewServer(router)
	return e
}

// Requests returns every request received so far.
func (e *Engine) Requests() []Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Request(nil), e.requests...)
}

// Code returns the runtime code deployed at addr.
func (e *Engine) Code(addr common.Address) []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.contracts[addr]
}

func (e *Engine) serve(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := e.handle(req.Method, req.Params)
	resp := response{Version: "2.0", ID: req.ID, Result: result}
	if err != nil {
		resp.Result, resp.Error = nil, &rpcError{Code: -32000, Message: err.Error()}
	} else if result == nil {
		resp.Result = json.RawMessage("null")
	}
	w.Header().Set("content-type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (e *Engine) handle(method string, raw json.RawMessage) (interface{}, error) {
	params := make(map[string]interface{})
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &params); err != nil {
			return nil, fmt.Errorf("params must be an object: %v", err)
		}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.requests = append(e.requests, Request{Method: method, Params: params})

	switch method {
	case "brc20_version":
		return Version, nil
	case "brc20_deploy":
		return e.deploy(params)
	case "brc20_call":
		return e.call(params)
	case "brc20_finaliseBlock":
		return nil, e.finalise(params)
	case "brc20_commitToDatabase":
		return nil, nil
	case "eth_blockNumber":
		return fmt.Sprintf("%#x", len(e.blocks)-1), nil
	case "eth_getBlockByNumber":
		return e.blockByNumber(params)
	case "eth_getCode":
		addr, err := addressParam(params, "contract")
		if err != nil {
			return nil, err
		}
		return common.ToHex(e.contracts[addr]), nil
	}
	return nil, fmt.Errorf("method %s not found", method)
}

// checkTx validates the block fields of an inscription. The caller must hold e.mu.
func (e *Engine) checkTx(params map[string]interface{}) error {
	if _, err := hashParam(params, "hash"); err != nil {
		return err
	}
	idx, ok := params["tx_idx"].(float64)
	if !ok || int(idx) != len(e.pending) {
		return fmt.Errorf("unexpected tx_idx %v, want %d", params["tx_idx"], len(e.pending))
	}
	if len(e.pending) == 0 {
		e.started = mclock.Now()
	}
	return nil
}

func (e *Engine) deploy(params map[string]interface{}) (interface{}, error) {
	if err := e.checkTx(params); err != nil {
		return nil, err
	}
	data, _ := params["data"].(string)
	initCode, err := common.DecodeHex(data)
	if err != nil {
		return nil, fmt.Errorf("invalid data: %v", err)
	}
	rcpt := e.newReceipt(uint64(len(initCode)))
	code, err := runtime.Create(initCode, nil)
	if err == nil && e.FailDeploys {
		err = fmt.Errorf("forced failure")
	}
	if err != nil {
		rcpt.Status, rcpt.TxResult, rcpt.Reason = "0x0", "Revert", err.Error()
	} else {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(len(e.contracts)+1))
		addr := common.BytesToAddress(append([]byte{0xc0}, buf[:]...))
		e.contracts[addr] = code
		rcpt.ContractAddress = &addr
	}
	e.pending = append(e.pending, rcpt)
	return rcpt, nil
}

func (e *Engine) call(params map[string]interface{}) (interface{}, error) {
	if err := e.checkTx(params); err != nil {
		return nil, err
	}
	addr, err := addressParam(params, "contract_address")
	if err != nil {
		return nil, err
	}
	code, ok := e.contracts[addr]
	if !ok {
		return nil, fmt.Errorf("no contract at %s", addr.Hex())
	}
	gas := uint64(len(code))
	rcpt := e.newReceipt(gas)
	switch {
	case e.FailCalls:
		rcpt.Status, rcpt.TxResult, rcpt.Reason = "0x0", "Revert", "forced failure"
	case e.Execute:
		_, res, err := runtime.Execute(code, &runtime.Config{StepLimit: e.StepLimit})
		rcpt.GasUsed = fmt.Sprintf("%#x", res.Steps)
		if err != nil {
			rcpt.Status, rcpt.TxResult, rcpt.Reason = "0x0", "Halt", err.Error()
		}
	}
	rcpt.ContractAddress = nil
	e.pending = append(e.pending, rcpt)
	return rcpt, nil
}

func (e *Engine) newReceipt(gas uint64) receipt {
	number := len(e.blocks)
	return receipt{
		Status:      "0x1",
		TxResult:    "Success",
		GasUsed:     fmt.Sprintf("%#x", gas),
		BlockNumber: fmt.Sprintf("%#x", number),
		TxHash:      common.BytesToHash([]byte{byte(number), byte(len(e.pending))}),
		TxIndex:     fmt.Sprintf("%#x", len(e.pending)),
	}
}

func (e *Engine) finalise(params map[string]interface{}) error {
	hash, err := hashParam(params, "hash")
	if err != nil {
		return err
	}
	count, _ := params["block_tx_count"].(float64)
	if int(count) != len(e.pending) {
		return fmt.Errorf("block_tx_count %v, executed %d", params["block_tx_count"], len(e.pending))
	}
	ts, _ := params["timestamp"].(float64)

	var gas uint64
	for _, r := range e.pending {
		gas += math.MustParseUint64(r.GasUsed)
	}
	var mined int64
	if len(e.pending) > 0 {
		mined = int64(mclock.Since(e.started))
	}
	e.blocks = append(e.blocks, block{
		Number:        fmt.Sprintf("%#x", len(e.blocks)),
		Hash:          hash,
		Timestamp:     fmt.Sprintf("%#x", uint64(ts)),
		GasLimit:      "0xffffffffffff",
		GasUsed:       fmt.Sprintf("%#x", gas),
		MineTimestamp: fmt.Sprintf("%d", mined),
	})
	e.pending = nil
	return nil
}

func (e *Engine) blockByNumber(params map[string]interface{}) (interface{}, error) {
	tag, _ := params["block"].(string)
	if tag == "latest" {
		return e.blocks[len(e.blocks)-1], nil
	}
	n, ok := math.ParseUint64(tag)
	if !ok || tag == "" {
		return nil, fmt.Errorf("invalid block %q", tag)
	}
	if n >= uint64(len(e.blocks)) {
		return nil, nil
	}
	return e.blocks[n], nil
}

func hashParam(params map[string]interface{}, key string) (common.Hash, error) {
	var h common.Hash
	s, _ := params[key].(string)
	if err := h.UnmarshalText([]byte(s)); err != nil {
		return h, fmt.Errorf("invalid %s: %v", key, err)
	}
	return h, nil
}

func addressParam(params map[string]interface{}, key string) (common.Address, error) {
	var a common.Address
	s, _ := params[key].(string)
	if err := a.UnmarshalText([]byte(s)); err != nil {
		return a, fmt.Errorf("invalid %s: %v", key, err)
	}
	return a, nil
}
