// Package metadata is a small key/value store kept in the local SQLite
// database. The session token lives here.
package metadata

import (
	"context"
)

// Repository stores string values under string keys.
//
// Get returns ("", nil) for a missing key. Delete of a missing key is not
// an error.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
