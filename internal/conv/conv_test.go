package conv

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEtherDecimalConversions(t *testing.T) {
	wei, err := ParseEther("0.02")
	require.NoError(t, err)
	assert.Equal(t, uint64(20_000_000_000_000_000), wei.Uint64())

	back := EtherToDecimal(wei)
	assert.True(t, back.Equal(decimal.RequireFromString("0.02")), back.String())

	wei, err = ParseEther("589783000.0")
	require.NoError(t, err)
	assert.Equal(t, "589783000000000000000000000", wei.ToBig().String())
}

func TestDecimalToEtherRejects(t *testing.T) {
	_, err := DecimalToEther(decimal.RequireFromString("-1"))
	assert.ErrorIs(t, err, ErrNegative)

	_, err = DecimalToEther(decimal.RequireFromString("0.0000000000000000001"))
	assert.ErrorIs(t, err, ErrFractional)

	huge := decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), 256), 0)
	_, err = DecimalToEther(huge)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = ParseEther("abc")
	assert.Error(t, err)
}

func TestBigToU256(t *testing.T) {
	_, ok := BigToU256(big.NewInt(-1))
	assert.False(t, ok)

	_, ok = BigToU256(new(big.Int).Lsh(big.NewInt(1), 256))
	assert.False(t, ok)

	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	out, ok := BigToU256(max)
	require.True(t, ok)
	assert.True(t, out.Eq(MaxU256()))

	assert.Equal(t, 0, U256ToBig(nil).Sign())
	assert.Equal(t, int64(7), U256ToBig(uint256.NewInt(7)).Int64())
}
