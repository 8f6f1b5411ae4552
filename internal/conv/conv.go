// Package conv converts between on-chain integer amounts and decimals.
package conv

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// EtherDecimals is the number of decimals between wei and ether.
const EtherDecimals = 18

var (
	ErrNegative   = errors.New("negative amount")
	ErrFractional = errors.New("amount has a fractional wei part")
	ErrOverflow   = errors.New("amount overflows uint256")
)

// EtherToDecimal converts a wei amount into an ether-denominated decimal.
func EtherToDecimal(wei *uint256.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei.ToBig(), -EtherDecimals)
}

// DecimalToEther converts an ether-denominated decimal into wei.
func DecimalToEther(value decimal.Decimal) (*uint256.Int, error) {
	if value.IsNegative() {
		return nil, ErrNegative
	}
	wei := value.Shift(EtherDecimals)
	if !wei.IsInteger() {
		return nil, ErrFractional
	}
	out, ok := BigToU256(wei.BigInt())
	if !ok {
		return nil, ErrOverflow
	}
	return out, nil
}

// ParseEther parses a decimal ether string such as "0.02" into wei.
func ParseEther(input string) (*uint256.Int, error) {
	value, err := decimal.NewFromString(input)
	if err != nil {
		return nil, fmt.Errorf("parse ether %q: %w", input, err)
	}
	wei, err := DecimalToEther(value)
	if err != nil {
		return nil, fmt.Errorf("parse ether %q: %w", input, err)
	}
	return wei, nil
}

// U256ToBig returns a fresh big.Int holding value.
func U256ToBig(value *uint256.Int) *big.Int {
	if value == nil {
		return new(big.Int)
	}
	return value.ToBig()
}

// BigToU256 converts value to a uint256. It reports false when value is
// negative or does not fit in 256 bits.
func BigToU256(value *big.Int) (*uint256.Int, bool) {
	if value == nil {
		return new(uint256.Int), true
	}
	if value.Sign() < 0 {
		return nil, false
	}
	out, overflow := uint256.FromBig(value)
	if overflow {
		return nil, false
	}
	return out, true
}

// MaxU256 returns 2^256 - 1.
func MaxU256() *uint256.Int {
	return new(uint256.Int).SetAllOne()
}
