package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dexSolver/internal/config"
	"dexSolver/internal/model"
	"dexSolver/internal/settlement"
	"dexSolver/internal/slippage"
)

type slippageOutput struct {
	Token     string `json:"token"`
	Amount    string `json:"amount"`
	Tolerance string `json:"tolerance"`
	Abs       string `json:"abs"`
	Min       string `json:"min"`
	Max       string `json:"max"`
	Side      string `json:"side,omitempty"`
	MaxInput  string `json:"max_input,omitempty"`
	MinOutput string `json:"min_output,omitempty"`
}

func newSlippageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slippage",
		Short: "Compute the slippage tolerance for an asset amount",
		RunE:  runSlippage,
	}

	cmd.Flags().String("relative-slippage", "0.01", "relative tolerance as a fraction in [0, 1]")
	cmd.Flags().String("absolute-slippage", "", "absolute tolerance cap in ether, optional")
	cmd.Flags().String("auction", "", "auction JSON file supplying reference prices")
	cmd.Flags().String("token", "", "token address of the asset")
	cmd.Flags().String("amount", "", "asset amount in base units (decimal or 0x hex)")
	cmd.Flags().String("side", "", "order side (sell, buy) to compute swap bounds")
	cmd.Flags().String("sell-token", "", "order sell token, required with --side")
	cmd.Flags().String("quote", "", "swap input amount paid in --sell-token, required with --side")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	return cmd
}

func runSlippage(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	limits, err := cfg.Limits()
	if err != nil {
		return err
	}

	tokenFlag, _ := cmd.Flags().GetString("token")
	token, err := config.ParseAddress(tokenFlag)
	if err != nil {
		return fmt.Errorf("token: %w", err)
	}
	amountFlag, _ := cmd.Flags().GetString("amount")
	amount, err := model.ParseAmount(amountFlag)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}

	auctionPath, _ := cmd.Flags().GetString("auction")
	prices, err := loadPrices(auctionPath)
	if err != nil {
		return err
	}

	asset := model.NewAsset(token, amount)
	tolerance := limits.Relative(asset, prices)
	out := slippageOutput{
		Token:     token.Hex(),
		Amount:    amount.Dec(),
		Tolerance: tolerance.String(),
		Abs:       tolerance.Abs(amount).Dec(),
		Min:       tolerance.Sub(amount).Dec(),
		Max:       tolerance.Add(amount).Dec(),
	}

	sideFlag, _ := cmd.Flags().GetString("side")
	if sideFlag != "" {
		limit, err := swapBounds(cmd, sideFlag, asset, limits, prices, logger)
		if err != nil {
			return err
		}
		out.Side = sideFlag
		out.MaxInput = limit.MaxInput.Dec()
		out.MinOutput = limit.MinOutput.Dec()
	}

	logger.Debug("slippage computed",
		zap.String("asset", asset.String()),
		zap.Int("priced_tokens", prices.Len()),
		zap.String("tolerance", out.Tolerance),
	)

	return json.NewEncoder(cmd.OutOrStdout()).Encode(out)
}

// swapBounds treats the asset as the swap output and the quote as the swap
// input paid in the sell token.
func swapBounds(cmd *cobra.Command, sideFlag string, asset model.Asset, limits slippage.Limits, prices slippage.Prices, logger *zap.Logger) (settlement.Limit, error) {
	side, err := settlement.ParseSide(sideFlag)
	if err != nil {
		return settlement.Limit{}, err
	}
	sellFlag, _ := cmd.Flags().GetString("sell-token")
	sellToken, err := config.ParseAddress(sellFlag)
	if err != nil {
		return settlement.Limit{}, fmt.Errorf("sell token: %w", err)
	}
	quoteFlag, _ := cmd.Flags().GetString("quote")
	quote, err := model.ParseAmount(quoteFlag)
	if err != nil {
		return settlement.Limit{}, fmt.Errorf("quote: %w", err)
	}

	swap := settlement.Swap{
		Input:  model.NewAsset(sellToken, quote),
		Output: asset,
	}
	return settlement.Bounds(swap, side, limits, prices, logger)
}

func loadPrices(path string) (slippage.Prices, error) {
	if path == "" {
		return slippage.NewPrices(nil), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return slippage.Prices{}, fmt.Errorf("read auction: %w", err)
	}
	var auction model.Auction
	if err := json.Unmarshal(data, &auction); err != nil {
		return slippage.Prices{}, fmt.Errorf("decode auction: %w", err)
	}
	return slippage.PricesForAuction(auction), nil
}
