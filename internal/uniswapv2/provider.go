package uniswapv2

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const create2Prefix = 0xff

// PairProvider computes pair addresses for one factory deployment.
type PairProvider struct {
	Factory        common.Address
	InitCodeDigest common.Hash
}

// PairAddress returns the CREATE2 address of the pair contract.
func (p PairProvider) PairAddress(pair TokenPair) common.Address {
	token0, token1 := pair.Get()
	salt := crypto.Keccak256(token0.Bytes(), token1.Bytes())

	hash := crypto.Keccak256(
		[]byte{create2Prefix},
		p.Factory.Bytes(),
		salt,
		p.InitCodeDigest.Bytes(),
	)
	return common.BytesToAddress(hash[12:])
}

// PoolAddress orders tokenA and tokenB and returns their pair address.
func (p PairProvider) PoolAddress(tokenA, tokenB common.Address) (common.Address, error) {
	pair, err := NewTokenPair(tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	return p.PairAddress(pair), nil
}
