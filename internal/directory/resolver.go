// Package directory resolves conversation-partner identities.
//
// The backend has no reliable lookup-by-id endpoint, so a partner is
// found by scanning the two directory collaborators: the confirmed
// friends list, then the suggestion list. First match wins.
package directory

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/SarahGBoland/FriendSnap/internal/api"
)

// Source is the directory surface of the REST client.
type Source interface {
	Friends(ctx context.Context) ([]api.User, error)
	Suggestions(ctx context.Context) ([]api.FriendSuggestion, error)
}

// Resolver resolves user identities against the friends and suggestions
// directories. Results are cached for the lifetime of the resolver only;
// a conversation view owns one resolver and discards it on close, since
// directory contents can change between sessions.
type Resolver struct {
	source Source

	group singleflight.Group

	mu     sync.RWMutex
	cached map[string]*api.User
}

// NewResolver creates a resolver over the given directory source.
func NewResolver(source Source) *Resolver {
	return &Resolver{
		source: source,
		cached: make(map[string]*api.User),
	}
}

// Resolve returns the user for partnerID, or (nil, nil) when the id is
// absent from both directories — an unresolved partner is a value, not
// an error, and callers degrade to a placeholder display. Concurrent
// resolves for the same id share a single pair of directory fetches.
func (r *Resolver) Resolve(ctx context.Context, partnerID string) (*api.User, error) {
	r.mu.RLock()
	u, ok := r.cached[partnerID]
	r.mu.RUnlock()
	if ok {
		return u, nil
	}

	v, err, _ := r.group.Do(partnerID, func() (any, error) {
		return r.lookup(ctx, partnerID)
	})
	if err != nil {
		return nil, err
	}

	u = v.(*api.User)
	if u != nil {
		r.mu.Lock()
		r.cached[partnerID] = u
		r.mu.Unlock()
	}
	return u, nil
}

// Resolved reports whether partnerID already has a cached identity.
func (r *Resolver) Resolved(partnerID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.cached[partnerID]
	return ok
}

func (r *Resolver) lookup(ctx context.Context, partnerID string) (*api.User, error) {
	friends, err := r.source.Friends(ctx)
	if err != nil {
		return nil, err
	}
	for i := range friends {
		if friends[i].ID == partnerID {
			return &friends[i], nil
		}
	}

	suggestions, err := r.source.Suggestions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range suggestions {
		if suggestions[i].User.ID == partnerID {
			return &suggestions[i].User, nil
		}
	}

	return nil, nil
}
