package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dexSolver/internal/model"
)

// Store provides Postgres persistence for solver competitions.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// SaveCompetition inserts a competition or replaces the stored one.
func (s *Store) SaveCompetition(ctx context.Context, competition model.SolverCompetition) error {
	if !json.Valid(competition.JSON) {
		return fmt.Errorf("competition %d: invalid json payload", competition.AuctionID)
	}
	var txHash []byte
	if competition.TxHash != nil {
		txHash = competition.TxHash.Bytes()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO solver_competitions (id, json, tx_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET json = EXCLUDED.json, tx_hash = EXCLUDED.tx_hash
	`, competition.AuctionID, string(competition.JSON), txHash)
	return err
}

// LoadCompetition returns the competition of an auction.
func (s *Store) LoadCompetition(ctx context.Context, auctionID int64) (model.SolverCompetition, bool, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, json, tx_hash FROM solver_competitions WHERE id=$1`, auctionID)
	return scanCompetition(row)
}

// LoadCompetitionByTxHash returns the competition settled by txHash.
func (s *Store) LoadCompetitionByTxHash(ctx context.Context, txHash common.Hash) (model.SolverCompetition, bool, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, json, tx_hash FROM solver_competitions WHERE tx_hash=$1`, txHash.Bytes())
	return scanCompetition(row)
}

func scanCompetition(row pgx.Row) (model.SolverCompetition, bool, error) {
	var (
		competition model.SolverCompetition
		payload     []byte
		txHash      []byte
	)
	if err := row.Scan(&competition.AuctionID, &payload, &txHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SolverCompetition{}, false, nil
		}
		return model.SolverCompetition{}, false, err
	}
	competition.JSON = json.RawMessage(payload)
	if txHash != nil {
		if len(txHash) != common.HashLength {
			return model.SolverCompetition{}, false, fmt.Errorf("competition %d: tx hash has %d bytes", competition.AuctionID, len(txHash))
		}
		hash := common.BytesToHash(txHash)
		competition.TxHash = &hash
	}
	return competition, true, nil
}
