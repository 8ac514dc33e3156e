// Package metadata is a small key/value store on top of the local SQLite
// database. The session snapshot lives here.
package metadata

import (
	"context"
)

// Repository stores opaque values by key. Get returns (nil, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// Clear removes every key.
	Clear(ctx context.Context) error

	// Update runs fn against a repository whose writes are applied
	// together or not at all.
	Update(ctx context.Context, fn func(ctx context.Context, r Repository) error) error
}
