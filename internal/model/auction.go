package model

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Price is an auction reference price: the value in wei of 1e18 base units of a token.
type Price struct {
	Wei *uint256.Int
}

// MarshalText encodes the price as a base-10 string.
func (p Price) MarshalText() ([]byte, error) {
	if p.Wei == nil {
		return []byte("0"), nil
	}
	return []byte(p.Wei.ToBig().String()), nil
}

// UnmarshalText accepts base-10 or 0x-prefixed hex strings.
func (p *Price) UnmarshalText(text []byte) error {
	wei, err := ParseAmount(string(text))
	if err != nil {
		return err
	}
	p.Wei = wei
	return nil
}

// Token is the per-token metadata an auction publishes.
type Token struct {
	Decimals       uint8  `json:"decimals,omitempty"`
	Symbol         string `json:"symbol,omitempty"`
	ReferencePrice *Price `json:"referencePrice,omitempty"`
}

// Auction is the subset of a batch auction the solver needs to bound trades.
type Auction struct {
	ID     int64                     `json:"id"`
	Tokens map[common.Address]Token `json:"tokens"`
}
