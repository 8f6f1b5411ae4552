package storage

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"dexSolver/internal/model"
)

// Storage persists solver competition records.
type Storage interface {
	SaveCompetition(ctx context.Context, competition model.SolverCompetition) error
	LoadCompetition(ctx context.Context, auctionID int64) (model.SolverCompetition, bool, error)
	LoadCompetitionByTxHash(ctx context.Context, txHash common.Hash) (model.SolverCompetition, bool, error)
}
