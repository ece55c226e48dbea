package subscription

import "context"

// ProfileSource fetches the current user's subscription profile from the
// external profile store. Implementations may return (nil, nil) when no
// profile exists; callers treat fetch errors the same as a missing profile.
type ProfileSource interface {
	FetchProfile(ctx context.Context) (*Profile, error)
}
