package subscription

import (
	"context"
	"sync"
)

// MemorySource is an in-memory ProfileSource for tests and local tooling.
// The held profile can be swapped or replaced with an error at any time.
type MemorySource struct {
	mu      sync.RWMutex
	profile *Profile
	err     error
}

// NewMemorySource creates a source holding the given profile (may be nil).
func NewMemorySource(profile *Profile) *MemorySource {
	return &MemorySource{profile: profile.Clone()}
}

// SetProfile replaces the held profile and clears any configured error.
func (s *MemorySource) SetProfile(profile *Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile.Clone()
	s.err = nil
}

// SetError makes subsequent fetches fail with err.
func (s *MemorySource) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *MemorySource) FetchProfile(ctx context.Context) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}
	return s.profile.Clone(), nil
}
