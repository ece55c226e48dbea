package subscription

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State describes the session cache lifecycle.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateResolved      State = "resolved"
)

// Subscriber receives the new verdict after every resolution.
type Subscriber func(Verdict)

// Manager caches the last-resolved subscription verdict for the lifetime of
// the process, refreshing it on demand from a ProfileSource.
//
// The state machine is uninitialized → loading → resolved, returning to
// loading on every Refresh. Only one refresh may be outstanding at a time;
// a second concurrent call fails with ErrRefreshInFlight rather than racing
// (last-resolved-wins needs no request fencing beyond that).
type Manager struct {
	mu     sync.Mutex
	source ProfileSource
	now    func() time.Time
	logger *slog.Logger

	state       State
	refreshing  bool
	profile     *Profile
	verdict     Verdict
	subscribers map[uuid.UUID]Subscriber
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithClock injects the time source used for resolution.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the logger for fetch failures.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a session cache over the given profile source.
// Panics if source is nil: a manager without a source can never resolve.
func NewManager(source ProfileSource, opts ...ManagerOption) *Manager {
	if source == nil {
		panic("subscription: profile source is required")
	}
	m := &Manager{
		source:      source,
		now:         time.Now,
		logger:      slog.Default(),
		state:       StateUninitialized,
		subscribers: make(map[uuid.UUID]Subscriber),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Snapshot returns the last-resolved verdict, or a free-status placeholder
// while no resolution has completed. Callers that must distinguish the
// placeholder from a confirmed free verdict check State or Profile.
func (m *Manager) Snapshot() Verdict {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateResolved {
		return m.verdict
	}
	return Resolve(nil, m.now())
}

// Profile returns the last-fetched profile and whether a resolution has
// completed. The profile may be nil even when loaded=true: that means the
// source confirmed no profile exists.
func (m *Manager) Profile() (profile *Profile, loaded bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile.Clone(), m.state == StateResolved
}

// Refresh fetches the profile, re-resolves the verdict and notifies
// subscribers. A fetch failure is logged and resolved as a missing profile
// so the caller always ends in a usable resolved state; the only error
// Refresh returns is ErrRefreshInFlight.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	if m.refreshing {
		m.mu.Unlock()
		return ErrRefreshInFlight
	}
	m.refreshing = true
	m.state = StateLoading
	m.mu.Unlock()

	profile, err := m.source.FetchProfile(ctx)
	if err != nil {
		m.logger.Warn("subscription: profile fetch failed, resolving without profile", "error", err)
		profile = nil
	}

	m.resolveAndNotify(profile, true)
	return nil
}

// ApplyOptimisticUpdate merges a partial profile over the current snapshot
// and re-resolves immediately. Used right after an upgrade action so the UI
// reflects the new tier before the authoritative refresh lands; the next
// Refresh supersedes whatever this produced.
func (m *Manager) ApplyOptimisticUpdate(patch ProfilePatch) {
	m.mu.Lock()
	merged := m.profile.Clone()
	if merged == nil {
		merged = &Profile{}
	}
	patch.applyTo(merged)
	// Merge and install under one lock acquisition so a refresh landing in
	// between cannot be overwritten by a patch of its predecessor. An
	// in-flight Refresh keeps its claim on the refreshing flag.
	verdict, subs := m.installLocked(merged, false)
	m.mu.Unlock()

	m.notify(verdict, subs)
}

// Subscribe registers a callback invoked after every resolution.
// The returned id cancels the registration via Unsubscribe.
func (m *Manager) Subscribe(fn Subscriber) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New()
	m.subscribers[id] = fn
	return id
}

// Unsubscribe removes a previously registered subscriber.
func (m *Manager) Unsubscribe(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscribers, id)
}

func (m *Manager) resolveAndNotify(profile *Profile, endRefresh bool) {
	m.mu.Lock()
	verdict, subs := m.installLocked(profile, endRefresh)
	m.mu.Unlock()

	m.notify(verdict, subs)
}

// installLocked resolves and installs the profile; the caller holds m.mu.
func (m *Manager) installLocked(profile *Profile, endRefresh bool) (Verdict, []Subscriber) {
	m.profile = profile
	m.verdict = Resolve(profile, m.now())
	m.state = StateResolved
	if endRefresh {
		m.refreshing = false
	}

	subs := make([]Subscriber, 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subs = append(subs, fn)
	}
	return m.verdict, subs
}

// notify runs callbacks outside the lock so a subscriber may call back into
// the manager.
func (m *Manager) notify(verdict Verdict, subs []Subscriber) {
	for _, fn := range subs {
		fn(verdict)
	}
}

// ProfilePatch is a partial profile for optimistic updates.
// Nil fields leave the current value unchanged.
type ProfilePatch struct {
	Type       *Type
	TrialStart *time.Time
	TrialEnd   *time.Time
	IsAdmin    *bool
}

func (p ProfilePatch) applyTo(profile *Profile) {
	if p.Type != nil {
		profile.Type = *p.Type
	}
	if p.TrialStart != nil {
		ts := *p.TrialStart
		profile.TrialStart = &ts
	}
	if p.TrialEnd != nil {
		te := *p.TrialEnd
		profile.TrialEnd = &te
	}
	if p.IsAdmin != nil {
		profile.IsAdmin = *p.IsAdmin
	}
}
