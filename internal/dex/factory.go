// Package dex reads Uniswap V2 factory and pair contracts over RPC.
package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"dexSolver/internal/uniswapv2"
)

// Caller executes read-only contract calls.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// PairCheck compares a derived pair address against the factory's answer.
type PairCheck struct {
	Pair     uniswapv2.TokenPair
	Derived  common.Address
	OnChain  common.Address
	Verified bool
}

// Exists reports whether the factory has created the pair.
func (c PairCheck) Exists() bool {
	return c.OnChain != (common.Address{})
}

// GetPair asks the factory for the pair of tokenA and tokenB.
func GetPair(ctx context.Context, caller Caller, factory, tokenA, tokenB common.Address) (common.Address, error) {
	parsed, err := FactoryABI()
	if err != nil {
		return common.Address{}, fmt.Errorf("parse factory abi: %w", err)
	}
	values, err := callMethod(ctx, caller, factory, parsed, "getPair", tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	return asAddress(values[0])
}

// AllPairsLength returns the number of pairs the factory has created.
func AllPairsLength(ctx context.Context, caller Caller, factory common.Address) (*big.Int, error) {
	parsed, err := FactoryABI()
	if err != nil {
		return nil, fmt.Errorf("parse factory abi: %w", err)
	}
	values, err := callMethod(ctx, caller, factory, parsed, "allPairsLength")
	if err != nil {
		return nil, err
	}
	count, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("allPairsLength unexpected type %T", values[0])
	}
	return count, nil
}

// PairTokens reads token0 and token1 from a deployed pair.
func PairTokens(ctx context.Context, caller Caller, pair common.Address) (common.Address, common.Address, error) {
	parsed, err := PairABI()
	if err != nil {
		return common.Address{}, common.Address{}, fmt.Errorf("parse pair abi: %w", err)
	}

	values, err := callMethod(ctx, caller, pair, parsed, "token0")
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	token0, err := asAddress(values[0])
	if err != nil {
		return common.Address{}, common.Address{}, fmt.Errorf("token0: %w", err)
	}

	values, err = callMethod(ctx, caller, pair, parsed, "token1")
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	token1, err := asAddress(values[0])
	if err != nil {
		return common.Address{}, common.Address{}, fmt.Errorf("token1: %w", err)
	}
	return token0, token1, nil
}

// VerifyPair derives the pair address and checks it against the factory.
func VerifyPair(ctx context.Context, caller Caller, provider uniswapv2.PairProvider, pair uniswapv2.TokenPair, logger *zap.Logger) (PairCheck, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	token0, token1 := pair.Get()
	check := PairCheck{Pair: pair, Derived: provider.PairAddress(pair)}

	onChain, err := GetPair(ctx, caller, provider.Factory, token0, token1)
	if err != nil {
		return check, err
	}
	check.OnChain = onChain
	check.Verified = onChain == check.Derived

	if !check.Verified {
		logger.Warn("pair address mismatch",
			zap.String("pair", pair.String()),
			zap.String("derived", check.Derived.Hex()),
			zap.String("on_chain", onChain.Hex()),
		)
	}
	return check, nil
}

func callMethod(ctx context.Context, caller Caller, contract common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	if caller == nil {
		return nil, fmt.Errorf("chain client is nil")
	}
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &contract, Data: data}
	resp, err := caller.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	return values, nil
}

func asAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}
