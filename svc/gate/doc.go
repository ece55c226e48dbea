// Package gate meters daily feature usage for users without pro access.
//
// The gate layers on top of the subscription resolver: admins, paid users
// and active trials pass through unmetered, while free users consume from a
// per-feature, per-day counter persisted in the local cache. Counter keys
// embed the local calendar date, so quotas reset implicitly at midnight and
// stale counters age out via the cache's TTL.
//
// Every failure path fails open. A missing profile grants optimistically
// (the UI re-checks once the profile loads), and any storage fault grants
// with a logged warning — the quota is a soft product limiter, never worth
// locking out a legitimate user over a local fault.
//
//	g := gate.New(c, gate.WithQuotas(gate.Quotas{"analysis": 3}))
//
//	res := g.Allow(ctx, "analysis", "", profile, time.Now())
//	if !res.Granted {
//		// show the quota-reached notice
//	}
package gate
