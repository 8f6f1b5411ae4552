package model

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

// SolverCompetition is the audit record of a solved auction.
type SolverCompetition struct {
	AuctionID int64           `json:"auction_id"`
	JSON      json.RawMessage `json:"json"`
	TxHash    *common.Hash    `json:"tx_hash,omitempty"`
}
