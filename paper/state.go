package paper

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// accountState is the durable record backing a paper account. It is
// written in full after every mutation and read in full at construction.
type accountState struct {
	Cash        float64                  `json:"cash"`
	Positions   map[string]positionState `json:"positions"`
	NextOrderID int                      `json:"next_order_id"`
}

type positionState struct {
	Quantity     int     `json:"quantity"`
	AveragePrice float64 `json:"average_price"`
}

func newAccountState() accountState {
	return accountState{
		Cash:        0,
		Positions:   make(map[string]positionState),
		NextOrderID: 1,
	}
}

// load reads the state file at path. A missing file initializes a fresh
// account and immediately persists it.
func load(path string) (accountState, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		st := newAccountState()
		if err := save(path, st); err != nil {
			return accountState{}, err
		}
		return st, nil
	}
	if err != nil {
		return accountState{}, fmt.Errorf("read paper state: %w", err)
	}

	st := newAccountState()
	if err := json.Unmarshal(data, &st); err != nil {
		return accountState{}, fmt.Errorf("parse paper state %s: %w", path, err)
	}
	if st.Positions == nil {
		st.Positions = make(map[string]positionState)
	}
	return st, nil
}

// save writes the full account state to path. Persistence is synchronous;
// callers must not return success until save has.
func save(path string, st accountState) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal paper state: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write paper state: %w", err)
	}
	return nil
}
