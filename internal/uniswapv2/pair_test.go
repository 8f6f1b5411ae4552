package uniswapv2

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenPairOrdersTokens(t *testing.T) {
	low := common.HexToAddress("0x0000000000000000000000000000000000000001")
	high := common.HexToAddress("0xff00000000000000000000000000000000000000")

	pair, err := NewTokenPair(high, low)
	require.NoError(t, err)

	token0, token1 := pair.Get()
	assert.Equal(t, low, token0)
	assert.Equal(t, high, token1)

	same, err := NewTokenPair(low, high)
	require.NoError(t, err)
	assert.Equal(t, pair, same)

	assert.True(t, pair.Contains(low))
	other, ok := pair.Other(low)
	require.True(t, ok)
	assert.Equal(t, high, other)

	_, ok = pair.Other(common.HexToAddress("0x0000000000000000000000000000000000000002"))
	assert.False(t, ok)
}

func TestNewTokenPairRejectsIdentical(t *testing.T) {
	token := common.HexToAddress("0x0000000000000000000000000000000000000001")
	_, err := NewTokenPair(token, token)
	assert.ErrorIs(t, err, ErrIdenticalTokens)
}
