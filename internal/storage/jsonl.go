package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"dexSolver/internal/model"
)

const maxLineSize = 16 << 20

// JsonlStorage appends competition records to a JSONL file. Later lines for
// the same auction replace earlier ones on load.
type JsonlStorage struct {
	path string
	mu   sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

// SaveCompetition appends competition as one JSON line.
func (s *JsonlStorage) SaveCompetition(_ context.Context, competition model.SolverCompetition) error {
	if !json.Valid(competition.JSON) {
		return fmt.Errorf("competition %d: invalid json payload", competition.AuctionID)
	}

	line, err := json.Marshal(competition)
	if err != nil {
		return fmt.Errorf("marshal competition: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.Write(line); err != nil {
		return fmt.Errorf("write competition: %w", err)
	}
	if err := writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

// LoadCompetition returns the latest record for auctionID.
func (s *JsonlStorage) LoadCompetition(_ context.Context, auctionID int64) (model.SolverCompetition, bool, error) {
	return s.find(func(c model.SolverCompetition) bool {
		return c.AuctionID == auctionID
	})
}

// LoadCompetitionByTxHash returns the latest record settled by txHash.
func (s *JsonlStorage) LoadCompetitionByTxHash(_ context.Context, txHash common.Hash) (model.SolverCompetition, bool, error) {
	latest := make(map[int64]model.SolverCompetition)
	var order []int64
	err := s.scan(func(c model.SolverCompetition) {
		if _, seen := latest[c.AuctionID]; !seen {
			order = append(order, c.AuctionID)
		}
		latest[c.AuctionID] = c
	})
	if err != nil {
		return model.SolverCompetition{}, false, err
	}
	for _, id := range order {
		c := latest[id]
		if c.TxHash != nil && *c.TxHash == txHash {
			return c, true, nil
		}
	}
	return model.SolverCompetition{}, false, nil
}

func (s *JsonlStorage) find(match func(model.SolverCompetition) bool) (model.SolverCompetition, bool, error) {
	var (
		found model.SolverCompetition
		ok    bool
	)
	err := s.scan(func(c model.SolverCompetition) {
		if match(c) {
			found, ok = c, true
		}
	})
	if err != nil {
		return model.SolverCompetition{}, false, err
	}
	return found, ok, nil
}

func (s *JsonlStorage) scan(visit func(model.SolverCompetition)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var c model.SolverCompetition
		if err := json.Unmarshal(scanner.Bytes(), &c); err != nil {
			return fmt.Errorf("decode line %d: %w", line, err)
		}
		visit(c)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read output file: %w", err)
	}
	return nil
}
