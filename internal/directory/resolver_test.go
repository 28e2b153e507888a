package directory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SarahGBoland/FriendSnap/internal/api"
)

type fakeSource struct {
	friendCalls     atomic.Int32
	suggestionCalls atomic.Int32
	block           chan struct{} // if non-nil, Friends blocks until closed

	mu          sync.Mutex
	friends     []api.User
	suggestions []api.FriendSuggestion
	err         error
}

func (f *fakeSource) Friends(_ context.Context) ([]api.User, error) {
	f.friendCalls.Add(1)
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.friends, f.err
}

func (f *fakeSource) Suggestions(_ context.Context) ([]api.FriendSuggestion, error) {
	f.suggestionCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.suggestions, f.err
}

func (f *fakeSource) set(friends []api.User, err error) {
	f.mu.Lock()
	f.friends = friends
	f.err = err
	f.mu.Unlock()
}

func TestResolveFromFriends(t *testing.T) {
	src := &fakeSource{
		friends: []api.User{{ID: "u1", Nickname: "alex"}},
	}
	r := NewResolver(src)

	u, err := r.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "alex", u.Nickname)
	// Friends matched first; the suggestion list was not consulted.
	assert.Equal(t, int32(0), src.suggestionCalls.Load())
}

func TestResolveFromSuggestions(t *testing.T) {
	src := &fakeSource{
		friends: []api.User{{ID: "u1"}},
		suggestions: []api.FriendSuggestion{
			{User: api.User{ID: "u2", Nickname: "sam"}},
		},
	}
	r := NewResolver(src)

	u, err := r.Resolve(context.Background(), "u2")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "sam", u.Nickname)
}

func TestUnresolvedIsNotAnError(t *testing.T) {
	src := &fakeSource{}
	r := NewResolver(src)

	u, err := r.Resolve(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.False(t, r.Resolved("nobody"))
}

func TestResolveCachesForViewLifetime(t *testing.T) {
	src := &fakeSource{friends: []api.User{{ID: "u1"}}}
	r := NewResolver(src)

	_, err := r.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	_, err = r.Resolve(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, int32(1), src.friendCalls.Load())
	assert.True(t, r.Resolved("u1"))
}

func TestConcurrentResolvesCoalesced(t *testing.T) {
	src := &fakeSource{
		friends: []api.User{{ID: "u1"}},
		block:   make(chan struct{}),
	}
	r := NewResolver(src)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := r.Resolve(context.Background(), "u1")
			assert.NoError(t, err)
			assert.NotNil(t, u)
		}()
	}
	close(src.block)
	wg.Wait()

	assert.Equal(t, int32(1), src.friendCalls.Load())
}

func TestDirectoryErrorPropagates(t *testing.T) {
	src := &fakeSource{err: errors.New("boom")}
	r := NewResolver(src)

	_, err := r.Resolve(context.Background(), "u1")
	require.Error(t, err)

	// Errors are not cached; a later attempt re-fetches.
	src.set([]api.User{{ID: "u1"}}, nil)
	u, err := r.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, u)
}
