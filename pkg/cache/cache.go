package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/madaldho/gatekit/pkg/codec"
	"github.com/madaldho/gatekit/pkg/kv"
)

// accessSuffix marks the companion key that tracks when an entry was last
// read. Kept separate from the entry so a read never rewrites the payload.
const accessSuffix = "#at"

// sizeCheckEvery bounds how often Set re-measures total store size, since
// measuring requires a full key scan.
const sizeCheckEvery = 16

// entry is the persisted envelope around a cached value.
type entry struct {
	Data      string `json:"data"`
	ExpiresAt int64  `json:"expires_at"` // unix seconds
}

// Stats describes the current store occupancy.
type Stats struct {
	Entries     int
	ApproxBytes int64
}

// Cache is an expiring key-value cache layered over a kv.Store.
//
// Entries past their TTL are logically absent: Get treats them as misses and
// deletes them lazily, so correctness never depends on the periodic sweep.
// The sweep exists to reclaim space, with an access-recency eviction pass as
// fallback when expiry alone doesn't bring usage under the high-water mark.
type Cache struct {
	store  kv.Store
	codec  *codec.Codec
	now    func() time.Time
	logger *slog.Logger

	highWaterMark int64
	staleAge      time.Duration
	sweepInterval time.Duration

	writes    int
	writesMu  sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

// Option configures a Cache.
type Option func(*Cache)

// WithCodec replaces the default obfuscation codec.
func WithCodec(c *codec.Codec) Option {
	return func(cache *Cache) {
		if c != nil {
			cache.codec = c
		}
	}
}

// WithClock injects the time source, used by tests to simulate expiry.
func WithClock(now func() time.Time) Option {
	return func(cache *Cache) {
		if now != nil {
			cache.now = now
		}
	}
}

// WithLogger sets the logger for storage and decode faults.
func WithLogger(logger *slog.Logger) Option {
	return func(cache *Cache) {
		if logger != nil {
			cache.logger = logger
		}
	}
}

// WithConfig applies sizing and sweep settings.
func WithConfig(cfg Config) Option {
	return func(cache *Cache) {
		if cfg.HighWaterMarkBytes > 0 {
			cache.highWaterMark = cfg.HighWaterMarkBytes
		}
		if cfg.StaleAge > 0 {
			cache.staleAge = cfg.StaleAge
		}
		if cfg.SweepInterval > 0 {
			cache.sweepInterval = cfg.SweepInterval
		}
	}
}

// New creates a Cache over the given store.
func New(store kv.Store, opts ...Option) *Cache {
	c := &Cache{
		store:         store,
		codec:         codec.New(),
		now:           time.Now,
		logger:        slog.Default(),
		highWaterMark: defaultHighWaterMark,
		staleAge:      defaultStaleAge,
		sweepInterval: defaultSweepInterval,
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set serializes value and stores it under key with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Join(ErrNotSerializable, err)
	}

	now := c.now()
	encoded, err := codec.EncodeValue(c.codec, entry{
		Data:      string(data),
		ExpiresAt: now.Add(ttl).Unix(),
	})
	if err != nil {
		return errors.Join(ErrNotSerializable, err)
	}

	if err := c.store.Set(ctx, key, encoded); err != nil {
		return err
	}
	c.touch(ctx, key, now)

	c.maybeReclaim(ctx)
	return nil
}

// Get loads the value stored under key into dest (a pointer).
// Returns false for missing, expired or undecodable entries; expired and
// undecodable entries are deleted opportunistically.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	ent, ok := codec.DecodeValue[entry](c.codec, raw)
	if !ok {
		// Treat corrupted payloads as misses rather than failing the caller.
		c.logger.Warn("cache: dropping undecodable entry", "key", key)
		c.remove(ctx, key)
		return false, nil
	}

	now := c.now()
	if now.Unix() > ent.ExpiresAt {
		c.remove(ctx, key)
		return false, nil
	}

	if err := json.Unmarshal([]byte(ent.Data), dest); err != nil {
		c.logger.Warn("cache: entry does not match requested type", "key", key, "error", err)
		c.remove(ctx, key)
		return false, nil
	}

	c.touch(ctx, key, now)
	return true, nil
}

// Delete removes an entry and its access-tracking companion.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.store.Delete(ctx, key); err != nil {
		return err
	}
	return c.store.Delete(ctx, key+accessSuffix)
}

// SweepExpired removes every entry whose TTL has elapsed and returns the
// number of entries removed.
func (c *Cache) SweepExpired(ctx context.Context) (int, error) {
	keys, err := c.entryKeys(ctx)
	if err != nil {
		return 0, err
	}

	now := c.now().Unix()
	removed := 0
	for _, key := range keys {
		raw, found, err := c.store.Get(ctx, key)
		if err != nil || !found {
			continue
		}
		ent, ok := codec.DecodeValue[entry](c.codec, raw)
		if !ok || now > ent.ExpiresAt {
			c.remove(ctx, key)
			removed++
		}
	}
	return removed, nil
}

// EvictStale removes entries not read for longer than maxAge, regardless of
// TTL. Evicted entries only force a re-fetch from the source of truth.
func (c *Cache) EvictStale(ctx context.Context, maxAge time.Duration) (int, error) {
	keys, err := c.entryKeys(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := c.now().Add(-maxAge).Unix()
	removed := 0
	for _, key := range keys {
		raw, found, err := c.store.Get(ctx, key+accessSuffix)
		if err != nil {
			continue
		}
		if found {
			lastAccess, parseErr := strconv.ParseInt(raw, 10, 64)
			if parseErr == nil && lastAccess >= cutoff {
				continue
			}
		}
		// Entries without a readable access record count as stale.
		c.remove(ctx, key)
		removed++
	}
	return removed, nil
}

// Stats reports entry count and an approximate occupancy in bytes. The byte
// figure doubles serialized lengths as a conservative encoding-overhead
// proxy; it only needs to be monotonic enough to trigger sweeps.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	keys, err := c.store.Keys(ctx)
	if err != nil {
		return Stats{}, err
	}

	var s Stats
	for _, key := range keys {
		raw, found, err := c.store.Get(ctx, key)
		if err != nil || !found {
			continue
		}
		s.ApproxBytes += int64(len(key)+len(raw)) * 2
		if !strings.HasSuffix(key, accessSuffix) {
			s.Entries++
		}
	}
	return s, nil
}

// StartSweeper launches a background goroutine that runs SweepExpired on the
// given interval until Close is called. A non-positive interval falls back
// to the configured default.
func (c *Cache) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		interval = c.sweepInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := c.SweepExpired(context.Background()); err != nil {
					c.logger.Warn("cache: periodic sweep failed", "error", err)
				}
			case <-c.done:
				return
			}
		}
	}()
}

// Close stops the background sweeper, if one is running.
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// maybeReclaim sweeps when occupancy exceeds the high-water mark. Expired
// entries go first; access-recency eviction runs only if that wasn't enough.
func (c *Cache) maybeReclaim(ctx context.Context) {
	c.writesMu.Lock()
	c.writes++
	check := c.writes%sizeCheckEvery == 0
	c.writesMu.Unlock()
	if !check {
		return
	}

	stats, err := c.Stats(ctx)
	if err != nil || stats.ApproxBytes <= c.highWaterMark {
		return
	}

	if _, err := c.SweepExpired(ctx); err != nil {
		c.logger.Warn("cache: high-water sweep failed", "error", err)
		return
	}

	stats, err = c.Stats(ctx)
	if err != nil || stats.ApproxBytes <= c.highWaterMark {
		return
	}

	if _, err := c.EvictStale(ctx, c.staleAge); err != nil {
		c.logger.Warn("cache: stale eviction failed", "error", err)
	}
}

// touch records the last read time under the entry's companion key.
// Failures are logged only: access tracking feeds eviction, not correctness.
func (c *Cache) touch(ctx context.Context, key string, now time.Time) {
	if err := c.store.Set(ctx, key+accessSuffix, strconv.FormatInt(now.Unix(), 10)); err != nil {
		c.logger.Debug("cache: failed to record access time", "key", key, "error", err)
	}
}

// remove deletes an entry and its access record, logging failures only.
func (c *Cache) remove(ctx context.Context, key string) {
	if err := c.Delete(ctx, key); err != nil {
		c.logger.Debug("cache: failed to delete entry", "key", key, "error", err)
	}
}

// entryKeys lists stored keys excluding access-tracking companions.
func (c *Cache) entryKeys(ctx context.Context) ([]string, error) {
	keys, err := c.store.Keys(ctx)
	if err != nil {
		return nil, err
	}

	entries := keys[:0]
	for _, key := range keys {
		if !strings.HasSuffix(key, accessSuffix) {
			entries = append(entries, key)
		}
	}
	return entries, nil
}
