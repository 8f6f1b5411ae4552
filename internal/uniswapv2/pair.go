// Package uniswapv2 derives Uniswap V2 style pair addresses without touching
// the chain.
package uniswapv2

import (
	"bytes"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// ErrIdenticalTokens is returned when both sides of a pair are the same token.
var ErrIdenticalTokens = errors.New("pair tokens must differ")

// TokenPair is an unordered pair of distinct tokens, stored in canonical
// (ascending) order.
type TokenPair struct {
	token0 common.Address
	token1 common.Address
}

// NewTokenPair orders a and b canonically.
func NewTokenPair(a, b common.Address) (TokenPair, error) {
	switch cmp := bytes.Compare(a.Bytes(), b.Bytes()); {
	case cmp < 0:
		return TokenPair{token0: a, token1: b}, nil
	case cmp > 0:
		return TokenPair{token0: b, token1: a}, nil
	default:
		return TokenPair{}, ErrIdenticalTokens
	}
}

// Get returns the tokens in ascending order.
func (p TokenPair) Get() (common.Address, common.Address) {
	return p.token0, p.token1
}

// Contains reports whether token is one side of the pair.
func (p TokenPair) Contains(token common.Address) bool {
	return p.token0 == token || p.token1 == token
}

// Other returns the opposite token of the pair.
func (p TokenPair) Other(token common.Address) (common.Address, bool) {
	switch token {
	case p.token0:
		return p.token1, true
	case p.token1:
		return p.token0, true
	default:
		return common.Address{}, false
	}
}

func (p TokenPair) String() string {
	return p.token0.Hex() + "-" + p.token1.Hex()
}
