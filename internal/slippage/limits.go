// Package slippage bounds how far a computed swap amount may deviate before a
// settlement is rejected.
//
// The actual tolerance used for a swap is bounded by a relative limit and an
// optional absolute limit expressed in ether. The absolute limit only applies
// when a reference price for the traded token is known.
package slippage

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"dexSolver/internal/conv"
	"dexSolver/internal/model"
)

// divisionPrecision is the number of decimal places kept when dividing the
// absolute limit by the trade value.
const divisionPrecision = 100

// ErrInvalidRelative is returned for relative limits outside [0, 1].
var ErrInvalidRelative = errors.New("relative slippage must be within [0, 1]")

// Limits holds the relative and absolute slippage limits.
type Limits struct {
	relative decimal.Decimal
	absolute *uint256.Int
}

// NewLimits creates slippage limits. It reports false when relative is
// outside the closed interval [0, 1]. A nil absolute disables the cap.
func NewLimits(relative decimal.Decimal, absolute *uint256.Int) (Limits, bool) {
	if !inUnitInterval(relative) {
		return Limits{}, false
	}
	if absolute != nil {
		absolute = absolute.Clone()
	}
	return Limits{relative: relative, absolute: absolute}, true
}

// ParseLimits builds limits from configuration strings. relative is a
// fraction such as "0.01"; absolute is an ether amount such as "0.02" and may
// be empty.
func ParseLimits(relative, absolute string) (Limits, error) {
	rel, err := decimal.NewFromString(relative)
	if err != nil {
		return Limits{}, fmt.Errorf("parse relative slippage %q: %w", relative, err)
	}

	var abs *uint256.Int
	if absolute != "" {
		abs, err = conv.ParseEther(absolute)
		if err != nil {
			return Limits{}, fmt.Errorf("parse absolute slippage: %w", err)
		}
	}

	limits, ok := NewLimits(rel, abs)
	if !ok {
		return Limits{}, fmt.Errorf("%w: %s", ErrInvalidRelative, relative)
	}
	return limits, nil
}

// RelativeLimit returns the configured relative limit.
func (l Limits) RelativeLimit() decimal.Decimal {
	return l.relative
}

// AbsoluteLimit returns the configured absolute limit in wei, if any.
func (l Limits) AbsoluteLimit() (*uint256.Int, bool) {
	if l.absolute == nil {
		return nil, false
	}
	return l.absolute.Clone(), true
}

// Relative computes the slippage tolerance to use for asset given the
// auction reference prices. The result never exceeds the relative limit.
func (l Limits) Relative(asset model.Asset, prices Prices) Slippage {
	if l.absolute == nil {
		return Slippage{fraction: l.relative}
	}
	price, ok := prices.Get(asset.Token)
	if !ok {
		return Slippage{fraction: l.relative}
	}

	absolute := conv.EtherToDecimal(l.absolute)
	value := conv.EtherToDecimal(asset.Amount).Mul(price)
	if !value.IsPositive() {
		return Slippage{fraction: l.relative}
	}

	maxRelative := absolute.DivRound(value, divisionPrecision)
	return Slippage{fraction: decimal.Min(maxRelative, l.relative)}
}

func inUnitInterval(value decimal.Decimal) bool {
	return !value.IsNegative() && value.Cmp(decimal.NewFromInt(1)) <= 0
}
