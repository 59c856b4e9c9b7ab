// Package kv defines the synchronous key-value blob store the tracker
// persists into. Implementations live in subpackages.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get for keys that have never been set.
var ErrNotFound = errors.New("key not found")

// Store is a synchronous string-keyed blob store. Every operation either
// succeeds fully or returns an error; there are no partial-failure modes.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
