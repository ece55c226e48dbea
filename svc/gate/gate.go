package gate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/madaldho/gatekit/pkg/cache"
	"github.com/madaldho/gatekit/svc/subscription"
)

// defaultCounterTTL keeps a daily counter alive past its calendar day so
// moderate clock skew can't resurrect quota early. Within the 25-48h band.
const defaultCounterTTL = 36 * time.Hour

// Result is the outcome of a gate check.
type Result struct {
	Granted   bool
	Remaining int
}

// Gate enforces a per-feature daily usage quota for users without pro
// access. It is a soft UX limiter, not a security boundary: the counter
// read-modify-write is not atomic across concurrent callers, which is
// acceptable for a single-device, UI-driven consumer.
//
// Any storage fault fails open. A broken local cache must never lock a
// paying or trial user out of a feature, so faults grant access and are
// logged instead of returned.
type Gate struct {
	cache      *cache.Cache
	logger     *slog.Logger
	counterTTL time.Duration
	quotas     Quotas
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets the logger for storage faults.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithCounterTTL overrides how long daily counters persist. Values under
// 25 hours are ignored: the counter must outlive its calendar day.
func WithCounterTTL(ttl time.Duration) Option {
	return func(g *Gate) {
		if ttl >= 25*time.Hour {
			g.counterTTL = ttl
		}
	}
}

// WithQuotas registers per-feature daily limits used by Allow.
func WithQuotas(quotas Quotas) Option {
	return func(g *Gate) {
		g.quotas = quotas
	}
}

// New creates a Gate backed by the given cache.
// Panics if c is nil: a gate without counter storage cannot meter anything.
func New(c *cache.Cache, opts ...Option) *Gate {
	if c == nil {
		panic("gate: cache is required")
	}
	g := &Gate{
		cache:      c,
		logger:     slog.Default(),
		counterTTL: defaultCounterTTL,
		quotas:     make(Quotas),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CheckAndConsume decides whether one more use of feature is allowed today
// and, for metered users, consumes a counter slot.
//
// A nil profile (not loaded yet) grants optimistically without consuming:
// the surrounding UI re-evaluates once the profile arrives, and a
// loading-state flash-denial is worse than a free extra use. Users with pro
// access are never metered.
func (g *Gate) CheckAndConsume(ctx context.Context, feature, scopeID string, profile *subscription.Profile, maxDaily int, now time.Time) Result {
	if profile == nil {
		return Result{Granted: true, Remaining: maxDaily}
	}

	if subscription.HasProAccess(profile, now) {
		return Result{Granted: true, Remaining: maxDaily}
	}

	key := counterKey(feature, scopeID, now)

	count, ok := g.readCount(ctx, key)
	if !ok {
		return Result{Granted: true, Remaining: maxDaily}
	}

	if count >= maxDaily {
		return Result{Granted: false, Remaining: 0}
	}

	if err := g.cache.Set(ctx, key, count+1, g.counterTTL); err != nil {
		g.logger.Warn("gate: failed to persist usage counter, granting access", "key", key, "error", err)
	}
	return Result{Granted: true, Remaining: maxDaily - count - 1}
}

// Allow is CheckAndConsume using the quota registered for feature.
// Features without a registered quota are not metered and always grant.
func (g *Gate) Allow(ctx context.Context, feature, scopeID string, profile *subscription.Profile, now time.Time) Result {
	maxDaily, metered := g.quotas[feature]
	if !metered {
		return Result{Granted: true, Remaining: 0}
	}
	return g.CheckAndConsume(ctx, feature, scopeID, profile, maxDaily, now)
}

// Status reports the current quota standing without consuming a slot.
func (g *Gate) Status(ctx context.Context, feature, scopeID string, profile *subscription.Profile, maxDaily int, now time.Time) Result {
	if profile == nil || subscription.HasProAccess(profile, now) {
		return Result{Granted: true, Remaining: maxDaily}
	}

	count, ok := g.readCount(ctx, counterKey(feature, scopeID, now))
	if !ok {
		return Result{Granted: true, Remaining: maxDaily}
	}

	remaining := maxDaily - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{Granted: remaining > 0, Remaining: remaining}
}

// Reset clears today's counter for the feature and scope.
func (g *Gate) Reset(ctx context.Context, feature, scopeID string, now time.Time) error {
	return g.cache.Delete(ctx, counterKey(feature, scopeID, now))
}

// readCount loads today's usage count. ok=false signals a storage fault,
// which callers translate into a fail-open grant. A missing or expired
// counter reads as zero.
func (g *Gate) readCount(ctx context.Context, key string) (count int, ok bool) {
	found, err := g.cache.Get(ctx, key, &count)
	if err != nil {
		g.logger.Warn("gate: failed to read usage counter, granting access", "key", key, "error", err)
		return 0, false
	}
	if !found {
		return 0, true
	}
	if count < 0 {
		count = 0
	}
	return count, true
}

// counterKey embeds the local calendar date, so counters reset implicitly
// at midnight and old-dated keys age out through the cache TTL.
func counterKey(feature, scopeID string, now time.Time) string {
	date := now.Format("2006-01-02")
	if scopeID == "" {
		return fmt.Sprintf("%s:%s", feature, date)
	}
	return fmt.Sprintf("%s:%s:%s", feature, scopeID, date)
}
