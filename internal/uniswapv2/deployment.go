package uniswapv2

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Protocol names a Uniswap V2 compatible deployment family.
type Protocol string

const (
	UniswapV2 Protocol = "uniswapv2"
	SushiSwap Protocol = "sushiswap"
)

var (
	// UniswapV2InitCodeDigest is the keccak256 of the Uniswap V2 pair creation code.
	UniswapV2InitCodeDigest = common.HexToHash("0x96e8ac4277198ff8b6f785478aa9a39f403cb768dd02cbee326c3e7da348845f")
	// SushiSwapInitCodeDigest is the keccak256 of the SushiSwap pair creation code.
	SushiSwapInitCodeDigest = common.HexToHash("0xe18a34eb0e04b04f7a0ac29a6e80748dca96319b42c54d679cb821dca90c6303")
)

var (
	ErrUnknownProtocol = errors.New("unknown protocol")
	ErrNotDeployed     = errors.New("factory not deployed")
)

type deployment struct {
	initCodeDigest common.Hash
	factories      map[uint64]common.Address
}

var deployments = map[Protocol]deployment{
	UniswapV2: {
		initCodeDigest: UniswapV2InitCodeDigest,
		factories: map[uint64]common.Address{
			1: common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f"),
			3: common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f"),
			4: common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f"),
			5: common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f"),
		},
	},
	SushiSwap: {
		initCodeDigest: SushiSwapInitCodeDigest,
		factories: map[uint64]common.Address{
			1: common.HexToAddress("0xC0AEe478e3658e2610c5F7A4A2E1777cE9e4f2Ac"),
		},
	},
}

// ParseProtocol normalizes a protocol name.
func ParseProtocol(name string) (Protocol, error) {
	protocol := Protocol(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := deployments[protocol]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProtocol, name)
	}
	return protocol, nil
}

// InitCodeDigest returns the pair creation code digest of a protocol.
func InitCodeDigest(protocol Protocol) (common.Hash, error) {
	d, ok := deployments[protocol]
	if !ok {
		return common.Hash{}, fmt.Errorf("%w: %s", ErrUnknownProtocol, protocol)
	}
	return d.initCodeDigest, nil
}

// FactoryAddress returns the registered factory of a protocol on a chain.
func FactoryAddress(protocol Protocol, chainID uint64) (common.Address, error) {
	d, ok := deployments[protocol]
	if !ok {
		return common.Address{}, fmt.Errorf("%w: %s", ErrUnknownProtocol, protocol)
	}
	factory, ok := d.factories[chainID]
	if !ok {
		return common.Address{}, fmt.Errorf("%w: %s on chain %d", ErrNotDeployed, protocol, chainID)
	}
	return factory, nil
}

// PairProviderForFactory pairs a factory with the Uniswap V2 init code digest.
func PairProviderForFactory(factory common.Address) PairProvider {
	return PairProvider{Factory: factory, InitCodeDigest: UniswapV2InitCodeDigest}
}

// Backend is the chain state needed to locate a deployed factory.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
}

// GetPairProvider looks up the protocol factory deployed on the backend's
// chain. It is meant to run once at startup; errors are not retried.
func GetPairProvider(ctx context.Context, backend Backend, protocol Protocol) (PairProvider, error) {
	d, ok := deployments[protocol]
	if !ok {
		return PairProvider{}, fmt.Errorf("%w: %s", ErrUnknownProtocol, protocol)
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return PairProvider{}, fmt.Errorf("get chain id: %w", err)
	}
	if !chainID.IsUint64() {
		return PairProvider{}, fmt.Errorf("chain id does not fit in uint64: %s", chainID)
	}

	factory, err := FactoryAddress(protocol, chainID.Uint64())
	if err != nil {
		return PairProvider{}, err
	}

	code, err := backend.CodeAt(ctx, factory, nil)
	if err != nil {
		return PairProvider{}, fmt.Errorf("get factory code: %w", err)
	}
	if len(code) == 0 {
		return PairProvider{}, fmt.Errorf("%w: no code at %s", ErrNotDeployed, factory.Hex())
	}

	return PairProvider{Factory: factory, InitCodeDigest: d.initCodeDigest}, nil
}
