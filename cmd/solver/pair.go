package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dexSolver/internal/chain"
	"dexSolver/internal/config"
	"dexSolver/internal/dex"
	"dexSolver/internal/uniswapv2"
)

type pairOutput struct {
	Token0   string `json:"token0"`
	Token1   string `json:"token1"`
	Pair     string `json:"pair"`
	OnChain  string `json:"on_chain,omitempty"`
	Verified *bool  `json:"verified,omitempty"`
}

func newPairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pair",
		Short: "Derive Uniswap V2 style pair addresses for every token combination",
		RunE:  runPair,
	}

	cmd.Flags().StringSlice("tokens", nil, "token addresses (comma-separated, at least two)")
	cmd.Flags().String("rpc", "", "Ethereum RPC URL, used to look up the factory and for --verify")
	cmd.Flags().String("protocol", "uniswapv2", "protocol deployment (uniswapv2, sushiswap)")
	cmd.Flags().String("factory", "", "factory address, skips the on-chain deployment lookup")
	cmd.Flags().String("init-code-digest", "", "pair init code digest, defaults to the protocol's")
	cmd.Flags().Bool("verify", false, "check each derived address against factory getPair")
	cmd.Flags().Int("max-retries", 3, "maximum retry attempts per getPair call")
	cmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	return cmd
}

func runPair(cmd *cobra.Command, _ []string) error {
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

	tokens, err := config.ParseAddresses(cfg.Tokens)
	if err != nil {
		return err
	}
	if len(tokens) < 2 {
		return fmt.Errorf("at least two tokens are required")
	}
	verify, _ := cmd.Flags().GetBool("verify")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var chainClient *chain.Client
	if cfg.RPCURL != "" {
		chainClient, err = chain.NewClient(ctx, cfg.RPCURL)
		if err != nil {
			return fmt.Errorf("connect rpc: %w", err)
		}
		defer chainClient.Close()
	}
	if verify && chainClient == nil {
		return fmt.Errorf("rpc url is required for --verify")
	}

	var backend uniswapv2.Backend
	if chainClient != nil {
		backend = chainClient
	}
	provider, err := resolvePairProvider(ctx, cfg, backend)
	if err != nil {
		return err
	}

	logger.Info("pair provider",
		zap.String("protocol", cfg.Protocol),
		zap.String("factory", provider.Factory.Hex()),
		zap.String("init_code_digest", provider.InitCodeDigest.Hex()),
		zap.Int("tokens", len(tokens)),
		zap.Bool("verify", verify),
	)

	encoder := json.NewEncoder(cmd.OutOrStdout())
	for i, tokenA := range tokens {
		for _, tokenB := range tokens[i+1:] {
			pair, err := uniswapv2.NewTokenPair(tokenA, tokenB)
			if err != nil {
				return fmt.Errorf("pair %s/%s: %w", tokenA.Hex(), tokenB.Hex(), err)
			}
			token0, token1 := pair.Get()
			out := pairOutput{
				Token0: token0.Hex(),
				Token1: token1.Hex(),
				Pair:   provider.PairAddress(pair).Hex(),
			}
			if verify {
				var check dex.PairCheck
				err := dex.WithRetry(ctx, cfg.MaxRetries, cfg.RetryBackoff, func(ctx context.Context) error {
					var err error
					check, err = dex.VerifyPair(ctx, chainClient, provider, pair, logger)
					return err
				})
				if err != nil {
					return fmt.Errorf("verify %s: %w", pair, err)
				}
				out.OnChain = check.OnChain.Hex()
				out.Verified = &check.Verified
			}
			if err := encoder.Encode(out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
	}
	return nil
}

// resolvePairProvider prefers an explicit factory and falls back to the
// protocol's registered deployment on the connected chain.
func resolvePairProvider(ctx context.Context, cfg config.Config, backend uniswapv2.Backend) (uniswapv2.PairProvider, error) {
	protocol, err := uniswapv2.ParseProtocol(cfg.Protocol)
	if err != nil {
		return uniswapv2.PairProvider{}, err
	}

	digest, err := uniswapv2.InitCodeDigest(protocol)
	if err != nil {
		return uniswapv2.PairProvider{}, err
	}
	if cfg.InitCodeDigest != "" {
		digest, err = config.ParseHash(cfg.InitCodeDigest)
		if err != nil {
			return uniswapv2.PairProvider{}, fmt.Errorf("init code digest: %w", err)
		}
	}

	if cfg.Factory != "" {
		factory, err := config.ParseAddress(cfg.Factory)
		if err != nil {
			return uniswapv2.PairProvider{}, fmt.Errorf("factory: %w", err)
		}
		return uniswapv2.PairProvider{Factory: factory, InitCodeDigest: digest}, nil
	}

	if backend == nil {
		return uniswapv2.PairProvider{}, fmt.Errorf("either --factory or --rpc is required")
	}
	provider, err := uniswapv2.GetPairProvider(ctx, backend, protocol)
	if err != nil {
		return uniswapv2.PairProvider{}, err
	}
	provider.InitCodeDigest = digest
	return provider, nil
}
