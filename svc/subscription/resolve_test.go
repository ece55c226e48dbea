package subscription_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madaldho/gatekit/svc/subscription"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestResolve_Precedence(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC)

	t.Run("nil profile resolves to free", func(t *testing.T) {
		t.Parallel()
		v := subscription.Resolve(nil, now)

		assert.Equal(t, subscription.StatusFree, v.Status)
		assert.False(t, v.IsPro)
		assert.False(t, v.IsActive)
		assert.Nil(t, v.DaysRemaining)
		assert.Equal(t, now, v.ResolvedAt)
	})

	t.Run("admin wins regardless of other fields", func(t *testing.T) {
		t.Parallel()
		expired := now.AddDate(0, 0, -30)
		profiles := []*subscription.Profile{
			{IsAdmin: true},
			{IsAdmin: true, Type: subscription.TypePro12M},
			{IsAdmin: true, Type: subscription.TypeTrial, TrialEnd: &expired},
			{IsAdmin: true, Type: subscription.TypeFree},
		}
		for _, p := range profiles {
			v := subscription.Resolve(p, now)
			assert.Equal(t, subscription.StatusAdmin, v.Status)
			assert.True(t, v.HasProAccess())
		}
	})

	t.Run("paid tiers are pro with no day limit", func(t *testing.T) {
		t.Parallel()
		for _, typ := range []subscription.Type{subscription.TypePro6M, subscription.TypePro12M} {
			v := subscription.Resolve(&subscription.Profile{Type: typ}, now)

			assert.Equal(t, subscription.StatusPro, v.Status)
			assert.True(t, v.IsPro)
			assert.True(t, v.IsActive)
			assert.Nil(t, v.DaysRemaining)
			assert.True(t, v.HasProAccess())
		}
	})

	t.Run("active explicit trial", func(t *testing.T) {
		t.Parallel()
		v := subscription.Resolve(&subscription.Profile{
			Type:     subscription.TypeTrial,
			TrialEnd: datePtr(now.AddDate(0, 0, 5)),
		}, now)

		assert.Equal(t, subscription.StatusTrial, v.Status)
		assert.True(t, v.IsActive)
		assert.False(t, v.IsPro)
		require.NotNil(t, v.DaysRemaining)
		assert.Equal(t, 5, *v.DaysRemaining)
	})

	t.Run("expired explicit trial is free", func(t *testing.T) {
		t.Parallel()
		v := subscription.Resolve(&subscription.Profile{
			Type:     subscription.TypeTrial,
			TrialEnd: datePtr(now.AddDate(0, 0, -1)),
		}, now)

		assert.Equal(t, subscription.StatusFree, v.Status)
		assert.False(t, v.IsActive)
		assert.False(t, v.HasProAccess())
	})

	t.Run("explicit trial without end date is no trial", func(t *testing.T) {
		t.Parallel()
		v := subscription.Resolve(&subscription.Profile{Type: subscription.TypeTrial}, now)

		assert.Equal(t, subscription.StatusFree, v.Status)
	})

	t.Run("legacy profile with future trial_end only", func(t *testing.T) {
		t.Parallel()
		tomorrow := datePtr(now.AddDate(0, 0, 1))
		for _, typ := range []subscription.Type{"", subscription.TypeFree} {
			v := subscription.Resolve(&subscription.Profile{Type: typ, TrialEnd: tomorrow}, now)

			assert.Equal(t, subscription.StatusTrial, v.Status)
			assert.True(t, v.IsActive)
			require.NotNil(t, v.DaysRemaining)
			assert.Equal(t, 1, *v.DaysRemaining)
		}
	})

	t.Run("legacy profile with past trial_end is free", func(t *testing.T) {
		t.Parallel()
		v := subscription.Resolve(&subscription.Profile{
			TrialEnd: datePtr(now.AddDate(0, 0, -2)),
		}, now)

		assert.Equal(t, subscription.StatusFree, v.Status)
	})

	t.Run("plain free profile", func(t *testing.T) {
		t.Parallel()
		v := subscription.Resolve(&subscription.Profile{Type: subscription.TypeFree}, now)

		assert.Equal(t, subscription.StatusFree, v.Status)
		assert.False(t, v.IsActive)
	})
}

func TestResolve_TrialScenario(t *testing.T) {
	t.Parallel()

	// Trial 2025-01-01 → 2025-01-10, checked at 23:00 local the night before
	// it ends: still one day remaining, still active.
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	now := time.Date(2025, 1, 9, 23, 0, 0, 0, loc)
	v := subscription.Resolve(&subscription.Profile{
		Type:       subscription.TypeTrial,
		TrialStart: datePtr(time.Date(2025, 1, 1, 0, 0, 0, 0, loc)),
		TrialEnd:   datePtr(time.Date(2025, 1, 10, 0, 0, 0, 0, loc)),
	}, now)

	assert.Equal(t, subscription.StatusTrial, v.Status)
	assert.True(t, v.IsActive)
	require.NotNil(t, v.DaysRemaining)
	assert.Equal(t, 1, *v.DaysRemaining)
}

func TestDaysUntil(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC)

	t.Run("same day is zero", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0, subscription.DaysUntil(base.Add(5*time.Hour), base))
	})

	t.Run("five days out", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 5, subscription.DaysUntil(base.AddDate(0, 0, 5), base))
	})

	t.Run("past dates floor at zero", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0, subscription.DaysUntil(base.AddDate(0, 0, -3), base))
	})

	t.Run("just before local midnight still counts a full day", func(t *testing.T) {
		t.Parallel()
		now := time.Date(2025, 1, 9, 23, 59, 0, 0, time.UTC)
		end := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, 1, subscription.DaysUntil(end, now))
	})

	t.Run("uses local calendar day, not UTC day", func(t *testing.T) {
		t.Parallel()
		loc := time.FixedZone("UTC+13", 13*60*60)
		// 23:30 local on Jan 9 is already Jan 9 10:30 UTC; the local
		// calendar still has one full day before an end date of Jan 10.
		now := time.Date(2025, 1, 9, 23, 30, 0, 0, loc)
		end := time.Date(2025, 1, 10, 0, 0, 0, 0, loc)
		assert.Equal(t, 1, subscription.DaysUntil(end, now))
	})

	t.Run("fall-back transition does not add a day", func(t *testing.T) {
		t.Parallel()
		loc, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)

		// Nov 2 2025 is 25 hours long in New York; the span still covers
		// exactly five calendar days.
		now := time.Date(2025, 11, 1, 12, 0, 0, 0, loc)
		end := time.Date(2025, 11, 6, 0, 0, 0, 0, loc)
		assert.Equal(t, 5, subscription.DaysUntil(end, now))
	})

	t.Run("adjacent days across the long day", func(t *testing.T) {
		t.Parallel()
		loc, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)

		now := time.Date(2025, 11, 2, 9, 0, 0, 0, loc)
		end := time.Date(2025, 11, 3, 0, 0, 0, 0, loc)
		assert.Equal(t, 1, subscription.DaysUntil(end, now))
	})

	t.Run("spring-forward short day still counts", func(t *testing.T) {
		t.Parallel()
		loc, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)

		// Mar 9 2025 is 23 hours long; the span is still two calendar days.
		now := time.Date(2025, 3, 8, 12, 0, 0, 0, loc)
		end := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)
		assert.Equal(t, 2, subscription.DaysUntil(end, now))
	})
}

func TestHasProAccess(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC)

	assert.True(t, subscription.HasProAccess(&subscription.Profile{IsAdmin: true}, now))
	assert.True(t, subscription.HasProAccess(&subscription.Profile{Type: subscription.TypePro6M}, now))
	assert.True(t, subscription.HasProAccess(&subscription.Profile{
		Type:     subscription.TypeTrial,
		TrialEnd: datePtr(now.AddDate(0, 0, 3)),
	}, now))
	assert.False(t, subscription.HasProAccess(&subscription.Profile{Type: subscription.TypeFree}, now))
	assert.False(t, subscription.HasProAccess(nil, now))
}
