package subscription

import (
	"math"
	"time"
)

// Status is the resolved subscription standing at a point in time.
type Status string

const (
	StatusAdmin Status = "admin"
	StatusPro   Status = "pro"
	StatusTrial Status = "trial"
	StatusFree  Status = "free"
)

// Verdict is the outcome of resolving a profile at a point in time.
// Verdicts are ephemeral: recomputed on every resolution, never mutated.
type Verdict struct {
	Status        Status    `json:"status"`
	IsPro         bool      `json:"is_pro"`
	IsActive      bool      `json:"is_active"`
	DaysRemaining *int      `json:"days_remaining,omitempty"` // trial days left; nil for non-trial statuses
	ResolvedAt    time.Time `json:"resolved_at"`
}

// HasProAccess is the single predicate all premium gating must use.
// Admin, paid and trial statuses all carry pro-equivalent access.
func (v Verdict) HasProAccess() bool {
	return v.Status == StatusAdmin || v.Status == StatusPro || v.Status == StatusTrial
}

// Resolve maps a profile snapshot and the current time to a Verdict.
// A nil profile resolves to free: callers that must distinguish "no profile
// loaded yet" from "confirmed free" check for nil before resolving (the
// daily gate does exactly that).
//
// Precedence, first match wins: admin, paid pro, active explicit trial,
// expired explicit trial (free), legacy trial_end-only trial, free.
// The explicit trial check runs before the legacy fallback so the newer
// schema always wins when both could apply.
//
// Resolve is pure: no I/O, no mutation, deterministic for given inputs.
func Resolve(p *Profile, now time.Time) Verdict {
	v := Verdict{
		Status:     StatusFree,
		ResolvedAt: now,
	}
	if p == nil {
		return v
	}

	if p.IsAdmin {
		v.Status = StatusAdmin
		v.IsActive = true
		return v
	}

	if p.Type.IsPaid() {
		v.Status = StatusPro
		v.IsPro = true
		v.IsActive = true
		// Paid tiers are not day-limited by this engine.
		return v
	}

	if p.Type == TypeTrial {
		// A trial row without an end date is treated as no trial at all.
		if p.TrialEnd != nil {
			if days := DaysUntil(*p.TrialEnd, now); days > 0 {
				v.Status = StatusTrial
				v.IsActive = true
				v.DaysRemaining = &days
			}
		}
		// Expired or malformed explicit trials never fall through to the
		// legacy path: a stale trial_end cannot resurrect them.
		return v
	}

	// Legacy schema: no explicit trial type, but a future trial_end still
	// grants trial access for backward compatibility.
	if p.TrialEnd != nil {
		if days := DaysUntil(*p.TrialEnd, now); days > 0 {
			v.Status = StatusTrial
			v.IsActive = true
			v.DaysRemaining = &days
		}
	}

	return v
}

// HasProAccess resolves the profile and reports premium access in one call.
func HasProAccess(p *Profile, now time.Time) bool {
	return Resolve(p, now).HasProAccess()
}

// DaysUntil returns the calendar-day distance from now to end, floored at
// zero. Both timestamps are taken in their own location's local calendar
// day, which avoids off-by-one verdicts near midnight: a trial ending
// tomorrow reports one day remaining at 23:00 tonight.
func DaysUntil(end, now time.Time) int {
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// A midnight-to-midnight span is a whole number of days plus at most an
	// hour of DST skew, so round to the nearest day rather than ceiling the
	// duration: a 25-hour local day must still count as one day.
	days := int(math.Round(endDay.Sub(nowDay).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}
