// Package kv defines the durable key-value store port the ledger
// persists through, plus an in-process implementation. Values are
// opaque string blobs; there are no transactional guarantees across
// keys.
package kv

import "context"

// Store is the outbound port for durable storage.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key entirely. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
