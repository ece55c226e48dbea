package cache

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultHighWaterMark = 4 << 20 // 4 MiB
	defaultStaleAge      = 48 * time.Hour
	defaultSweepInterval = time.Minute
)

// Config holds cache sizing and sweep settings.
type Config struct {
	// SweepInterval is how often the background sweep runs.
	SweepInterval time.Duration `env:"CACHE_SWEEP_INTERVAL" envDefault:"60s"`
	// HighWaterMarkBytes is the occupancy that triggers reclaim sweeps.
	HighWaterMarkBytes int64 `env:"CACHE_HIGH_WATER_MARK" envDefault:"4194304"`
	// StaleAge is the read-recency cutoff for fallback eviction.
	StaleAge time.Duration `env:"CACHE_STALE_AGE" envDefault:"48h"`
}

// FetchKey builds the conventional cache key for a cached read-only query.
// The shape is internal convention, not an external contract.
func FetchKey(table, columns, filter, order string, limit int) string {
	sanitize := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	}
	return fmt.Sprintf("fetch_%s_%s_%s_%s_%d",
		sanitize(table), sanitize(columns), sanitize(filter), sanitize(order), limit)
}
