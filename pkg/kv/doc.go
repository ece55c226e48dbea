// Package kv abstracts the local key-value storage that the caching and
// quota layers persist into.
//
// The Store interface is deliberately tiny: get, set, delete, and key
// enumeration over opaque string values. Expiry timestamps, value encoding
// and eviction all live in higher layers, which keeps every backend
// interchangeable.
//
// Three backends are provided:
//
//   - MemoryStore: process-local map, for tests and ephemeral runs.
//   - SQLiteStore: a single-file embedded database, the default for
//     on-device persistence across restarts.
//   - RedisStore: a prefix-namespaced view of a Redis database, for
//     deployments that already run Redis.
//
// Basic usage:
//
//	store, err := kv.NewSQLiteStore("/var/lib/myapp")
//	if err != nil {
//		// handle error
//	}
//	defer store.Close()
//
//	err = store.Set(ctx, "greeting", "hello")
//	value, found, err := store.Get(ctx, "greeting")
package kv
