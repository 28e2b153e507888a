// Package convo builds the conversation list view.
package convo

import (
	"context"

	"go.uber.org/zap"

	"github.com/SarahGBoland/FriendSnap/internal/api"
)

// Lister is the conversation surface of the REST client.
type Lister interface {
	Conversations(ctx context.Context) ([]api.Conversation, error)
}

// Cache mirrors conversation snapshots for offline startup.
type Cache interface {
	ReplaceConversations(convos []api.Conversation) error
	Conversations() ([]api.Conversation, error)
}

// Aggregator fetches conversation summaries in a single round trip. It is
// a pass-through projection: ordering and unread counts are server-owned
// and preserved as returned. Snapshots are mirrored write-through into
// the cache; List never reads from it.
type Aggregator struct {
	lister Lister
	cache  Cache
	logger *zap.Logger
}

// NewAggregator creates an aggregator. cache may be nil.
func NewAggregator(lister Lister, cache Cache, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{lister: lister, cache: cache, logger: logger}
}

// List returns the conversation summaries in server order.
func (a *Aggregator) List(ctx context.Context) ([]api.Conversation, error) {
	convos, err := a.lister.Conversations(ctx)
	if err != nil {
		return nil, err
	}
	if a.cache != nil {
		if err := a.cache.ReplaceConversations(convos); err != nil {
			a.logger.Warn("conversation cache write failed", zap.Error(err))
		}
	}
	return convos, nil
}

// Cached returns the last mirrored snapshot, for display while the
// backend is unreachable. Empty when no cache is configured.
func (a *Aggregator) Cached() ([]api.Conversation, error) {
	if a.cache == nil {
		return nil, nil
	}
	return a.cache.Conversations()
}

// UnreadTotal sums the server-computed unread counts for the badge in the
// status bar. The per-conversation values stay opaque.
func UnreadTotal(convos []api.Conversation) int {
	total := 0
	for _, c := range convos {
		total += c.UnreadCount
	}
	return total
}
