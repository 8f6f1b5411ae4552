package model

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Asset is an amount of a specific token, in the token's base units.
type Asset struct {
	Token  common.Address
	Amount *uint256.Int
}

// NewAsset builds an Asset from a token address and an amount.
func NewAsset(token common.Address, amount *uint256.Int) Asset {
	if amount == nil {
		amount = new(uint256.Int)
	}
	return Asset{Token: token, Amount: amount}
}

// ParseAmount parses a base-10 or 0x-prefixed token amount.
func ParseAmount(input string) (*uint256.Int, error) {
	if len(input) > 1 && (input[:2] == "0x" || input[:2] == "0X") {
		amount, err := uint256.FromHex(input)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", input, err)
		}
		return amount, nil
	}
	amount, err := uint256.FromDecimal(input)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", input, err)
	}
	return amount, nil
}

func (a Asset) String() string {
	amount := "0"
	if a.Amount != nil {
		amount = a.Amount.ToBig().String()
	}
	return fmt.Sprintf("%s %s", amount, a.Token.Hex())
}
