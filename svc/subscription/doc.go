// Package subscription resolves a user's subscription standing and caches
// the resolved verdict for the lifetime of the process.
//
// The core is Resolve, a pure function mapping a profile snapshot plus the
// current time to a Verdict (admin, pro, trial or free, with the derived
// access booleans and trial days remaining). All premium gating flows
// through Verdict.HasProAccess; nothing else re-derives the precedence
// rules.
//
// Profiles come from a ProfileSource. Two implementations ship: an
// in-memory source for tests, and a read-only Postgres source for the
// externally-owned profiles table. A missing profile resolves to free, and
// fetch failures are treated as a missing profile rather than surfaced —
// failing open at the gating layer is a deliberate product decision.
//
// Manager is the process-wide session cache: Snapshot returns the last
// verdict synchronously, Refresh re-fetches and re-resolves, and
// ApplyOptimisticUpdate bridges the gap between an upgrade action and the
// authoritative refresh that follows it.
//
//	mgr := subscription.NewManager(source)
//	_ = mgr.Refresh(ctx)
//	if mgr.Snapshot().HasProAccess() {
//		// unlock premium features
//	}
package subscription
