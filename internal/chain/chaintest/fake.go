// Package chaintest serves a fake "eth" JSON-RPC namespace in process.
package chaintest

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"dexSolver/internal/chain"
)

// CallHandler answers eth_call requests sent to one contract.
type CallHandler func(input []byte) ([]byte, error)

// FakeEth implements the subset of the eth namespace the solver uses.
type FakeEth struct {
	mu       sync.Mutex
	chainID  uint64
	code     map[common.Address][]byte
	handlers map[common.Address]CallHandler
	calls    map[string]int
	err      error
}

// NewFakeEth returns a fake chain with the given chain id.
func NewFakeEth(chainID uint64) *FakeEth {
	return &FakeEth{
		chainID:  chainID,
		code:     make(map[common.Address][]byte),
		handlers: make(map[common.Address]CallHandler),
		calls:    make(map[string]int),
	}
}

// SetCode installs contract code at address.
func (f *FakeEth) SetCode(address common.Address, code []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.code[address] = code
}

// Handle routes eth_call requests for address to handler.
func (f *FakeEth) Handle(address common.Address, handler CallHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[address] = handler
}

// FailWith makes every request fail with err.
func (f *FakeEth) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Calls returns how many times method was served.
func (f *FakeEth) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *FakeEth) record(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	return f.err
}

func (f *FakeEth) ChainId(ctx context.Context) (*hexutil.Big, error) {
	if err := f.record("eth_chainId"); err != nil {
		return nil, err
	}
	return (*hexutil.Big)(new(big.Int).SetUint64(f.chainID)), nil
}

func (f *FakeEth) GetCode(ctx context.Context, address common.Address, _ rpc.BlockNumberOrHash) (hexutil.Bytes, error) {
	if err := f.record("eth_getCode"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return hexutil.Bytes(f.code[address]), nil
}

func (f *FakeEth) Call(ctx context.Context, args map[string]interface{}, _ rpc.BlockNumberOrHash) (hexutil.Bytes, error) {
	if err := f.record("eth_call"); err != nil {
		return nil, err
	}

	to, ok := args["to"].(string)
	if !ok || !common.IsHexAddress(to) {
		return nil, errors.New("missing call target")
	}
	input, ok := args["input"].(string)
	if !ok {
		input, ok = args["data"].(string)
	}
	if !ok {
		return nil, errors.New("missing call input")
	}
	data, err := hexutil.Decode(input)
	if err != nil {
		return nil, fmt.Errorf("decode call input: %w", err)
	}

	f.mu.Lock()
	handler, ok := f.handlers[common.HexToAddress(to)]
	f.mu.Unlock()
	if !ok {
		return hexutil.Bytes{}, nil
	}
	return handler(data)
}

// NewClient serves fake over an in-process RPC connection.
func NewClient(fake *FakeEth) (*chain.Client, error) {
	srv := rpc.NewServer()
	if err := srv.RegisterName("eth", fake); err != nil {
		return nil, fmt.Errorf("register rpc service: %w", err)
	}
	return chain.NewClientFromRPC(rpc.DialInProc(srv)), nil
}
