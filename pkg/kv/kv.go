package kv

import "context"

// Store is the minimal key-value capability the caching layer is built on.
// Values are opaque strings; TTL, encoding and eviction policy live in the
// layers above, so any backend that can hold strings qualifies.
type Store interface {
	// Get retrieves the value stored under key.
	// Returns found=false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all keys currently present in the store.
	Keys(ctx context.Context) ([]string, error)
}
