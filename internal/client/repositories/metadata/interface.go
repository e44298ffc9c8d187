// Package metadata is the client's local key/value store. Across runs the CLI
// keeps the session credential under TokenKey and the name of the last user
// who logged in under LastUserKey.
package metadata

import (
	"context"
)

type Repository interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is a no-op for absent keys.
	Delete(ctx context.Context, key string) error
}
