package subscription

import "time"

// Type enumerates the subscription types a profile can carry.
// The zero value represents an unset type, which older profiles use.
type Type string

const (
	TypeFree   Type = "free"
	TypeTrial  Type = "trial"
	TypePro6M  Type = "pro_6m"
	TypePro12M Type = "pro_12m"
)

// IsPaid reports whether the type is one of the paid pro tiers.
func (t Type) IsPaid() bool {
	return t == TypePro6M || t == TypePro12M
}

// Profile is a read-only snapshot of a user's subscription fields as held by
// the external profile store. This package never mutates profiles.
//
// Two schema generations coexist: newer rows carry an explicit TypeTrial,
// older rows mark a trial solely through a TrialEnd date. Resolve honors
// both, with the explicit type taking precedence.
type Profile struct {
	Type       Type       `json:"subscription_type"`
	TrialStart *time.Time `json:"trial_start,omitempty"`
	TrialEnd   *time.Time `json:"trial_end,omitempty"`
	IsAdmin    bool       `json:"is_admin"`
}

// Clone returns a deep copy so callers can hold a snapshot safely.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	clone := *p
	if p.TrialStart != nil {
		ts := *p.TrialStart
		clone.TrialStart = &ts
	}
	if p.TrialEnd != nil {
		te := *p.TrialEnd
		clone.TrialEnd = &te
	}
	return &clone
}
