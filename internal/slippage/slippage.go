package slippage

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"dexSolver/internal/conv"
)

// Slippage is a relative slippage tolerance.
//
// Adding or subtracting slippage saturates: if adding slippage to an amount
// would overflow a uint256 the maximum value is returned instead, and
// subtraction never goes below zero.
type Slippage struct {
	fraction decimal.Decimal
}

// NewSlippage wraps an already resolved tolerance. It reports false when
// fraction is outside [0, 1].
func NewSlippage(fraction decimal.Decimal) (Slippage, bool) {
	if !inUnitInterval(fraction) {
		return Slippage{}, false
	}
	return Slippage{fraction: fraction}, true
}

// Fraction returns the tolerance as a fraction of the amount.
func (s Slippage) Fraction() decimal.Decimal {
	return s.fraction
}

func (s Slippage) String() string {
	return s.fraction.String()
}

// Add adds slippage to amount, e.g. for the most a buy order may pay.
func (s Slippage) Add(amount *uint256.Int) *uint256.Int {
	amount = orZero(amount)
	sum, overflow := new(uint256.Int).AddOverflow(amount, s.Abs(amount))
	if overflow {
		return conv.MaxU256()
	}
	return sum
}

// Sub subtracts slippage from amount, e.g. for the least a sell order may receive.
func (s Slippage) Sub(amount *uint256.Int) *uint256.Int {
	amount = orZero(amount)
	diff, underflow := new(uint256.Int).SubOverflow(amount, s.Abs(amount))
	if underflow {
		return new(uint256.Int)
	}
	return diff
}

// Abs returns the absolute slippage for amount, rounded up.
func (s Slippage) Abs(amount *uint256.Int) *uint256.Int {
	numer := conv.U256ToBig(amount)
	numer.Mul(numer, s.fraction.Coefficient())

	exp := s.fraction.Exponent()
	if exp >= 0 {
		numer.Mul(numer, pow10(exp))
		return saturate(numer)
	}

	quo, rem := new(big.Int).QuoRem(numer, pow10(-exp), new(big.Int))
	if rem.Sign() != 0 {
		quo.Add(quo, big.NewInt(1))
	}
	return saturate(quo)
}

func pow10(exp int32) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
}

func saturate(value *big.Int) *uint256.Int {
	out, ok := conv.BigToU256(value)
	if !ok {
		return conv.MaxU256()
	}
	return out
}

func orZero(amount *uint256.Int) *uint256.Int {
	if amount == nil {
		return new(uint256.Int)
	}
	return amount
}
