package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dexSolver/internal/model"
)

func TestJsonlStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "competitions.jsonl")
	store := NewJsonlStorage(path)

	var _ Storage = store

	_, ok, err := store.LoadCompetition(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	hash := common.HexToHash("0x01")
	require.NoError(t, store.SaveCompetition(ctx, model.SolverCompetition{AuctionID: 1, JSON: json.RawMessage(`{"a":1}`)}))
	require.NoError(t, store.SaveCompetition(ctx, model.SolverCompetition{AuctionID: 2, JSON: json.RawMessage(`{"b":2}`)}))
	require.NoError(t, store.SaveCompetition(ctx, model.SolverCompetition{AuctionID: 1, JSON: json.RawMessage(`{"a":3}`), TxHash: &hash}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "\n"))

	got, ok, err := store.LoadCompetition(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"a":3}`, string(got.JSON))
	require.NotNil(t, got.TxHash)
	assert.Equal(t, hash, *got.TxHash)

	byHash, ok, err := store.LoadCompetitionByTxHash(ctx, hash)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1), byHash.AuctionID)

	_, ok, err = store.LoadCompetitionByTxHash(ctx, common.HexToHash("0x02"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJsonlStorageReplacedTxHash(t *testing.T) {
	ctx := context.Background()
	store := NewJsonlStorage(filepath.Join(t.TempDir(), "competitions.jsonl"))

	first := common.HexToHash("0x0a")
	second := common.HexToHash("0x0b")
	require.NoError(t, store.SaveCompetition(ctx, model.SolverCompetition{AuctionID: 7, JSON: json.RawMessage(`{}`), TxHash: &first}))
	require.NoError(t, store.SaveCompetition(ctx, model.SolverCompetition{AuctionID: 7, JSON: json.RawMessage(`{}`), TxHash: &second}))

	_, ok, err := store.LoadCompetitionByTxHash(ctx, first)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.LoadCompetitionByTxHash(ctx, second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestJsonlStorageRejectsInvalidPayload(t *testing.T) {
	store := NewJsonlStorage(filepath.Join(t.TempDir(), "competitions.jsonl"))
	err := store.SaveCompetition(context.Background(), model.SolverCompetition{AuctionID: 1, JSON: json.RawMessage(`{`)})
	assert.Error(t, err)
}
