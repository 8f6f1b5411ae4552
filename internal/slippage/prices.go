package slippage

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"dexSolver/internal/conv"
	"dexSolver/internal/model"
)

// PriceEntry pairs a token with its reference price.
type PriceEntry struct {
	Token common.Address
	Price model.Price
}

// Prices holds ether-denominated token reference prices for one auction.
type Prices struct {
	prices map[common.Address]decimal.Decimal
}

// NewPrices builds a price table. Later entries for the same token replace
// earlier ones.
func NewPrices(entries []PriceEntry) Prices {
	prices := make(map[common.Address]decimal.Decimal, len(entries))
	for _, entry := range entries {
		prices[entry.Token] = conv.EtherToDecimal(entry.Price.Wei)
	}
	return Prices{prices: prices}
}

// PricesForAuction collects the reference prices published with an auction.
// Tokens without a reference price are left out.
func PricesForAuction(auction model.Auction) Prices {
	entries := make([]PriceEntry, 0, len(auction.Tokens))
	for address, token := range auction.Tokens {
		if token.ReferencePrice == nil {
			continue
		}
		entries = append(entries, PriceEntry{Token: address, Price: *token.ReferencePrice})
	}
	return NewPrices(entries)
}

// Get returns the reference price for token.
func (p Prices) Get(token common.Address) (decimal.Decimal, bool) {
	price, ok := p.prices[token]
	return price, ok
}

// Len returns the number of priced tokens.
func (p Prices) Len() int {
	return len(p.prices)
}
