package slippage

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dexSolver/internal/model"
)

func TestPricesForAuction(t *testing.T) {
	unpriced := common.HexToAddress("0x3333333333333333333333333333333333333333")
	auction := model.Auction{
		ID: 7,
		Tokens: map[common.Address]model.Token{
			weth:     {Decimals: 18, Symbol: "WETH", ReferencePrice: &model.Price{Wei: ether(t, "1.0")}},
			usdc:     {Decimals: 6, Symbol: "USDC", ReferencePrice: &model.Price{Wei: ether(t, "589783000.0")}},
			unpriced: {Decimals: 18, Symbol: "NOPE"},
		},
	}

	prices := PricesForAuction(auction)
	assert.Equal(t, 2, prices.Len())

	price, ok := prices.Get(usdc)
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.RequireFromString("589783000")), price.String())

	_, ok = prices.Get(unpriced)
	assert.False(t, ok)
}

func TestNewPricesLastWriteWins(t *testing.T) {
	prices := NewPrices([]PriceEntry{
		{Token: weth, Price: model.Price{Wei: ether(t, "1.0")}},
		{Token: weth, Price: model.Price{Wei: ether(t, "2.5")}},
	})
	assert.Equal(t, 1, prices.Len())

	price, ok := prices.Get(weth)
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.RequireFromString("2.5")))
}

func TestEmptyPrices(t *testing.T) {
	var prices Prices
	_, ok := prices.Get(weth)
	assert.False(t, ok)
	assert.Equal(t, 0, prices.Len())
}
