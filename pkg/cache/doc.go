// Package cache provides an expiring key-value cache over any kv.Store,
// with obfuscated persistence and bounded local growth.
//
// Every entry carries an expiry timestamp set at write time from a
// caller-supplied TTL. Expired entries are logically absent the moment their
// TTL elapses: Get reports a miss and deletes them lazily, so no background
// process is required for correctness. A periodic sweep (StartSweeper) and a
// high-water-mark reclaim pass exist purely to bound storage use; the
// fallback eviction by read recency only ever costs a re-fetch from the
// source of truth.
//
// Values are JSON-serialized and run through the codec package before
// hitting the store, so on-disk payloads are not casually readable.
// Undecodable or mistyped entries degrade to cache misses.
//
// # Usage
//
//	store, _ := kv.NewSQLiteStore(dataDir)
//	c := cache.New(store, cache.WithCodec(codec.New(codec.WithPassphrase(key))))
//	c.StartSweeper(time.Minute)
//	defer c.Close()
//
//	_ = c.Set(ctx, "profile:self", profile, 15*time.Minute)
//
//	var cached Profile
//	found, err := c.Get(ctx, "profile:self", &cached)
package cache
