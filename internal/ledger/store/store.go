// Package store persists a user's full record set as a single JSON blob,
// one key per user.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"pocketledger/internal/kv"
	"pocketledger/internal/ledger"
)

const expensesKeyPrefix = "expense-tracker-expenses:"

type Store struct {
	kv kv.Store
}

func New(store kv.Store) *Store {
	return &Store{kv: store}
}

func expensesKey(username string) string {
	return expensesKeyPrefix + username
}

func (s *Store) Records(ctx context.Context, username string) ([]ledger.Transaction, error) {
	blob, err := s.kv.Get(ctx, expensesKey(username))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading records: %w", err)
	}

	var records []ledger.Transaction
	if err := json.Unmarshal(blob, &records); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}

	return records, nil
}

func (s *Store) SaveRecords(ctx context.Context, username string, records []ledger.Transaction) error {
	if records == nil {
		records = []ledger.Transaction{}
	}

	blob, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}

	if err := s.kv.Set(ctx, expensesKey(username), blob); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}

	return nil
}
