// Package settlement turns computed swaps into the limit amounts a
// settlement may execute at.
package settlement

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"dexSolver/internal/model"
	"dexSolver/internal/slippage"
)

// Side says which amount of an order is fixed.
type Side string

const (
	// Sell orders fix the input amount; the output is the protected side.
	Sell Side = "sell"
	// Buy orders fix the output amount; the input is the protected side.
	Buy Side = "buy"
)

// ParseSide accepts "sell" or "buy" in any case.
func ParseSide(value string) (Side, error) {
	switch side := Side(strings.ToLower(strings.TrimSpace(value))); side {
	case Sell, Buy:
		return side, nil
	default:
		return "", fmt.Errorf("unknown order side %q", value)
	}
}

// Order is the part of a user order needed to bound its execution.
type Order struct {
	SellToken common.Address
	BuyToken  common.Address
	Amount    *uint256.Int
	Side      Side
}

// Swap is a computed exchange of Input for Output.
type Swap struct {
	Input  model.Asset
	Output model.Asset
}

// NewSwap pairs the order's fixed amount with the quoted counter amount.
func (o Order) NewSwap(quoted *uint256.Int) Swap {
	if o.Side == Buy {
		return Swap{
			Input:  model.NewAsset(o.SellToken, quoted),
			Output: model.NewAsset(o.BuyToken, o.Amount),
		}
	}
	return Swap{
		Input:  model.NewAsset(o.SellToken, o.Amount),
		Output: model.NewAsset(o.BuyToken, quoted),
	}
}

// Limit is the executable range of a swap.
type Limit struct {
	MaxInput  *uint256.Int
	MinOutput *uint256.Int
	Tolerance slippage.Slippage
}

// Bounds applies the tolerance to the side the order does not fix. Sell
// orders get a reduced minimum output, buy orders an increased maximum input.
func Bounds(swap Swap, side Side, limits slippage.Limits, prices slippage.Prices, logger *zap.Logger) (Limit, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var limit Limit
	switch side {
	case Sell:
		limit.Tolerance = limits.Relative(swap.Output, prices)
		limit.MaxInput = orZero(swap.Input.Amount)
		limit.MinOutput = limit.Tolerance.Sub(swap.Output.Amount)
	case Buy:
		limit.Tolerance = limits.Relative(swap.Input, prices)
		limit.MaxInput = limit.Tolerance.Add(swap.Input.Amount)
		limit.MinOutput = orZero(swap.Output.Amount)
	default:
		return Limit{}, fmt.Errorf("unknown order side %q", side)
	}

	logger.Debug("swap bounds",
		zap.String("side", string(side)),
		zap.String("input", swap.Input.String()),
		zap.String("output", swap.Output.String()),
		zap.String("tolerance", limit.Tolerance.String()),
		zap.String("max_input", limit.MaxInput.Dec()),
		zap.String("min_output", limit.MinOutput.Dec()),
	)
	return limit, nil
}

func orZero(amount *uint256.Int) *uint256.Int {
	if amount == nil {
		return new(uint256.Int)
	}
	return amount.Clone()
}
