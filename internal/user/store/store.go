// Package store keeps the credential directory and the current session in
// the kv substrate, under the original storage keys.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"pocketledger/internal/kv"
	"pocketledger/internal/user"
)

const (
	usersKey       = "expense-tracker-users"
	currentUserKey = "expense-tracker-user"
)

type Store struct {
	kv kv.Store
}

func New(store kv.Store) *Store {
	return &Store{kv: store}
}

func (s *Store) Users(ctx context.Context) (map[string]user.Credentials, error) {
	blob, err := s.kv.Get(ctx, usersKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return map[string]user.Credentials{}, nil
		}

		return nil, fmt.Errorf("reading users: %w", err)
	}

	var users map[string]user.Credentials
	if err := json.Unmarshal(blob, &users); err != nil {
		return nil, fmt.Errorf("decoding users: %w", err)
	}

	return users, nil
}

func (s *Store) SaveUsers(ctx context.Context, users map[string]user.Credentials) error {
	blob, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encoding users: %w", err)
	}

	if err := s.kv.Set(ctx, usersKey, blob); err != nil {
		return fmt.Errorf("writing users: %w", err)
	}

	return nil
}

func (s *Store) CurrentUser(ctx context.Context) (*user.User, error) {
	blob, err := s.kv.Get(ctx, currentUserKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, user.ErrNoCurrentUser
		}

		return nil, fmt.Errorf("reading session: %w", err)
	}

	var u user.User
	if err := json.Unmarshal(blob, &u); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}

	return &u, nil
}

func (s *Store) SaveCurrentUser(ctx context.Context, u user.User) error {
	blob, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := s.kv.Set(ctx, currentUserKey, blob); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}

	return nil
}

func (s *Store) ClearCurrentUser(ctx context.Context) error {
	if err := s.kv.Delete(ctx, currentUserKey); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}

	return nil
}
