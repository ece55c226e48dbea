package subscription_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madaldho/gatekit/svc/subscription"
)

var testNow = time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func TestManager_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("starts uninitialized with a free placeholder", func(t *testing.T) {
		t.Parallel()
		mgr := subscription.NewManager(
			subscription.NewMemorySource(nil),
			subscription.WithClock(fixedClock),
		)

		assert.Equal(t, subscription.StateUninitialized, mgr.State())

		v := mgr.Snapshot()
		assert.Equal(t, subscription.StatusFree, v.Status)

		_, loaded := mgr.Profile()
		assert.False(t, loaded)
	})

	t.Run("refresh resolves the fetched profile", func(t *testing.T) {
		t.Parallel()
		source := subscription.NewMemorySource(&subscription.Profile{Type: subscription.TypePro6M})
		mgr := subscription.NewManager(source, subscription.WithClock(fixedClock))

		require.NoError(t, mgr.Refresh(ctx))

		assert.Equal(t, subscription.StateResolved, mgr.State())
		assert.Equal(t, subscription.StatusPro, mgr.Snapshot().Status)

		profile, loaded := mgr.Profile()
		assert.True(t, loaded)
		require.NotNil(t, profile)
		assert.Equal(t, subscription.TypePro6M, profile.Type)
	})

	t.Run("fetch failure resolves as free without surfacing the error", func(t *testing.T) {
		t.Parallel()
		source := subscription.NewMemorySource(&subscription.Profile{Type: subscription.TypePro6M})
		source.SetError(errors.New("network down"))
		mgr := subscription.NewManager(source, subscription.WithClock(fixedClock))

		require.NoError(t, mgr.Refresh(ctx))

		assert.Equal(t, subscription.StateResolved, mgr.State())
		assert.Equal(t, subscription.StatusFree, mgr.Snapshot().Status)

		profile, loaded := mgr.Profile()
		assert.True(t, loaded)
		assert.Nil(t, profile)
	})

	t.Run("second refresh supersedes the first", func(t *testing.T) {
		t.Parallel()
		source := subscription.NewMemorySource(&subscription.Profile{Type: subscription.TypeFree})
		mgr := subscription.NewManager(source, subscription.WithClock(fixedClock))

		require.NoError(t, mgr.Refresh(ctx))
		assert.Equal(t, subscription.StatusFree, mgr.Snapshot().Status)

		source.SetProfile(&subscription.Profile{Type: subscription.TypePro12M})
		require.NoError(t, mgr.Refresh(ctx))
		assert.Equal(t, subscription.StatusPro, mgr.Snapshot().Status)
	})
}

// blockingSource lets a test hold a fetch open to observe in-flight behavior.
type blockingSource struct {
	release chan struct{}
	profile *subscription.Profile
}

func (s *blockingSource) FetchProfile(ctx context.Context) (*subscription.Profile, error) {
	<-s.release
	return s.profile, nil
}

func TestManager_SingleOutstandingRefresh(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := &blockingSource{
		release: make(chan struct{}),
		profile: &subscription.Profile{Type: subscription.TypePro6M},
	}
	mgr := subscription.NewManager(source, subscription.WithClock(fixedClock))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, mgr.Refresh(ctx))
	}()

	// Wait for the first refresh to claim the loading state.
	require.Eventually(t, func() bool {
		return mgr.State() == subscription.StateLoading
	}, time.Second, time.Millisecond)

	assert.ErrorIs(t, mgr.Refresh(ctx), subscription.ErrRefreshInFlight)

	close(source.release)
	wg.Wait()

	assert.Equal(t, subscription.StateResolved, mgr.State())
	assert.Equal(t, subscription.StatusPro, mgr.Snapshot().Status)
}

func TestManager_OptimisticUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("upgrades the snapshot before the refresh lands", func(t *testing.T) {
		t.Parallel()
		source := subscription.NewMemorySource(&subscription.Profile{Type: subscription.TypeFree})
		mgr := subscription.NewManager(source, subscription.WithClock(fixedClock))
		require.NoError(t, mgr.Refresh(ctx))

		pro := subscription.TypePro6M
		mgr.ApplyOptimisticUpdate(subscription.ProfilePatch{Type: &pro})

		assert.Equal(t, subscription.StatusPro, mgr.Snapshot().Status)
	})

	t.Run("next refresh supersedes the optimistic verdict", func(t *testing.T) {
		t.Parallel()
		source := subscription.NewMemorySource(&subscription.Profile{Type: subscription.TypeFree})
		mgr := subscription.NewManager(source, subscription.WithClock(fixedClock))
		require.NoError(t, mgr.Refresh(ctx))

		pro := subscription.TypePro6M
		mgr.ApplyOptimisticUpdate(subscription.ProfilePatch{Type: &pro})

		// Authoritative source still says free.
		require.NoError(t, mgr.Refresh(ctx))
		assert.Equal(t, subscription.StatusFree, mgr.Snapshot().Status)
	})

	t.Run("in-flight refresh lands after an optimistic update", func(t *testing.T) {
		t.Parallel()
		source := &blockingSource{
			release: make(chan struct{}),
			profile: &subscription.Profile{Type: subscription.TypePro12M},
		}
		mgr := subscription.NewManager(source, subscription.WithClock(fixedClock))

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, mgr.Refresh(ctx))
		}()
		require.Eventually(t, func() bool {
			return mgr.State() == subscription.StateLoading
		}, time.Second, time.Millisecond)

		admin := true
		mgr.ApplyOptimisticUpdate(subscription.ProfilePatch{IsAdmin: &admin})
		assert.Equal(t, subscription.StatusAdmin, mgr.Snapshot().Status)

		close(source.release)
		wg.Wait()

		// The authoritative result replaces the optimistic one, and the
		// installed profile matches the verdict it produced.
		assert.Equal(t, subscription.StatusPro, mgr.Snapshot().Status)
		profile, loaded := mgr.Profile()
		require.True(t, loaded)
		require.NotNil(t, profile)
		assert.Equal(t, subscription.TypePro12M, profile.Type)
	})

	t.Run("works before any refresh", func(t *testing.T) {
		t.Parallel()
		mgr := subscription.NewManager(
			subscription.NewMemorySource(nil),
			subscription.WithClock(fixedClock),
		)

		admin := true
		mgr.ApplyOptimisticUpdate(subscription.ProfilePatch{IsAdmin: &admin})

		assert.Equal(t, subscription.StateResolved, mgr.State())
		assert.Equal(t, subscription.StatusAdmin, mgr.Snapshot().Status)
	})
}

func TestManager_Subscribers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("notified on every resolution", func(t *testing.T) {
		t.Parallel()
		source := subscription.NewMemorySource(&subscription.Profile{Type: subscription.TypePro6M})
		mgr := subscription.NewManager(source, subscription.WithClock(fixedClock))

		var mu sync.Mutex
		var seen []subscription.Status
		mgr.Subscribe(func(v subscription.Verdict) {
			mu.Lock()
			seen = append(seen, v.Status)
			mu.Unlock()
		})

		require.NoError(t, mgr.Refresh(ctx))
		free := subscription.TypeFree
		mgr.ApplyOptimisticUpdate(subscription.ProfilePatch{Type: &free})

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []subscription.Status{subscription.StatusPro, subscription.StatusFree}, seen)
	})

	t.Run("unsubscribed callback is not invoked", func(t *testing.T) {
		t.Parallel()
		source := subscription.NewMemorySource(nil)
		mgr := subscription.NewManager(source, subscription.WithClock(fixedClock))

		calls := 0
		id := mgr.Subscribe(func(subscription.Verdict) { calls++ })
		mgr.Unsubscribe(id)

		require.NoError(t, mgr.Refresh(ctx))
		assert.Zero(t, calls)
	})
}

func TestNewManager_RequiresSource(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		subscription.NewManager(nil)
	})
}
