package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dexSolver/internal/config"
	"dexSolver/internal/model"
	"dexSolver/internal/storage"
	"dexSolver/internal/storage/postgres"
)

func newCompetitionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "competition",
		Short: "Store and inspect solver competition records",
	}

	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Save the competition JSON of an auction",
		RunE:  runCompetitionSave,
	}
	saveCmd.Flags().Int64("id", -1, "auction id")
	saveCmd.Flags().String("in", "-", "competition JSON file, - for stdin")
	saveCmd.Flags().String("tx-hash", "", "settlement transaction hash, optional")
	addStorageFlags(saveCmd)

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print a stored competition by auction id or tx hash",
		RunE:  runCompetitionShow,
	}
	showCmd.Flags().Int64("id", -1, "auction id")
	showCmd.Flags().String("tx-hash", "", "settlement transaction hash")
	addStorageFlags(showCmd)

	cmd.AddCommand(saveCmd, showCmd)
	return cmd
}

func addStorageFlags(cmd *cobra.Command) {
	cmd.Flags().String("pg-dsn", "", "Postgres DSN, JSONL output is used when empty")
	cmd.Flags().String("out", "./data/competitions.jsonl", "competition JSONL path")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func runCompetitionSave(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadCommand(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	id, _ := cmd.Flags().GetInt64("id")
	if id < 0 {
		return fmt.Errorf("auction id is required")
	}

	competition := model.SolverCompetition{AuctionID: id}
	txHashFlag, _ := cmd.Flags().GetString("tx-hash")
	if txHashFlag != "" {
		hash, err := config.ParseHash(txHashFlag)
		if err != nil {
			return fmt.Errorf("tx hash: %w", err)
		}
		competition.TxHash = &hash
	}

	in, _ := cmd.Flags().GetString("in")
	payload, err := readInput(cmd, in)
	if err != nil {
		return err
	}
	competition.JSON = payload

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.SaveCompetition(ctx, competition); err != nil {
		return fmt.Errorf("save competition %d: %w", id, err)
	}
	logger.Info("competition saved",
		zap.Int64("auction_id", id),
		zap.Bool("settled", competition.TxHash != nil),
		zap.Int("bytes", len(payload)),
	)
	return nil
}

func runCompetitionShow(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadCommand(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	id, _ := cmd.Flags().GetInt64("id")
	txHashFlag, _ := cmd.Flags().GetString("tx-hash")
	if (id < 0) == (txHashFlag == "") {
		return fmt.Errorf("exactly one of --id or --tx-hash is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var (
		competition model.SolverCompetition
		found       bool
	)
	if txHashFlag != "" {
		hash, err := config.ParseHash(txHashFlag)
		if err != nil {
			return fmt.Errorf("tx hash: %w", err)
		}
		competition, found, err = store.LoadCompetitionByTxHash(ctx, hash)
		if err != nil {
			return fmt.Errorf("load competition: %w", err)
		}
	} else {
		competition, found, err = store.LoadCompetition(ctx, id)
		if err != nil {
			return fmt.Errorf("load competition: %w", err)
		}
	}
	if !found {
		return fmt.Errorf("competition not found")
	}

	return json.NewEncoder(cmd.OutOrStdout()).Encode(competition)
}

func loadCommand(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func openStorage(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.Storage, func(), error) {
	if cfg.PGDSN == "" {
		if cfg.Out == "" {
			return nil, nil, fmt.Errorf("output path is required")
		}
		logger.Debug("competition storage", zap.String("jsonl", cfg.Out))
		return storage.NewJsonlStorage(cfg.Out), func() {}, nil
	}

	store, err := postgres.NewStore(ctx, cfg.PGDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	logger.Debug("competition storage", zap.String("pg_dsn", redactDSN(cfg.PGDSN)))
	return store, store.Close, nil
}

func readInput(cmd *cobra.Command, path string) (json.RawMessage, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read competition: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("competition input is not valid json")
	}
	return json.RawMessage(data), nil
}

func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
