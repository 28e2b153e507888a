// Package syncer keeps one conversation's message thread consistent with
// the remote store under a fixed-interval polling discipline.
package syncer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/SarahGBoland/FriendSnap/internal/api"
	"github.com/SarahGBoland/FriendSnap/internal/bus"
	"github.com/SarahGBoland/FriendSnap/internal/directory"
	"github.com/SarahGBoland/FriendSnap/internal/status"
	"github.com/SarahGBoland/FriendSnap/internal/thread"
)

// DefaultInterval is the poll interval used when none is configured.
const DefaultInterval = 5 * time.Second

// degradedAfter is the number of consecutive poll failures before the
// session is marked degraded.
const degradedAfter = 3

// ThreadSource fetches the authoritative thread for a conversation.
type ThreadSource interface {
	Thread(ctx context.Context, partnerID string) ([]api.Message, error)
}

// ThreadCache mirrors successful poll results for offline viewing.
type ThreadCache interface {
	ReplaceThread(partnerID string, msgs []api.Message) error
}

// Loop polls the remote store for one conversation and applies results to
// the thread store. At most one load is in flight at a time: a tick that
// fires while a load is outstanding is skipped, bounding outstanding
// requests to one. Poll failures are logged and swallowed; the view only
// ever observes "thread unchanged since last success". A 404 means the
// partner is gone and stops polling for good.
type Loop struct {
	source   ThreadSource
	store    *thread.Store
	resolver *directory.Resolver
	cache    ThreadCache
	machine  *status.Machine
	bus      *bus.Bus
	logger   *zap.Logger

	partnerID string
	interval  time.Duration

	busy     atomic.Bool
	failures atomic.Int32

	// mu guards stopped and makes Stop atomic with applying a load
	// result: once Stop returns, no later Replace can land on the store.
	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
}

// NewLoop creates a sync loop for the conversation with partnerID.
// resolver, cache, machine and b may be nil; interval <= 0 selects the
// default.
func NewLoop(source ThreadSource, store *thread.Store, resolver *directory.Resolver, cache ThreadCache, machine *status.Machine, b *bus.Bus, logger *zap.Logger, partnerID string, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		source:    source,
		store:     store,
		resolver:  resolver,
		cache:     cache,
		machine:   machine,
		bus:       b,
		logger:    logger,
		partnerID: partnerID,
		interval:  interval,
	}
}

// Start begins polling. An immediate load fires before the first timer
// tick so the thread is populated without waiting a full interval.
func (l *Loop) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	l.mu.Lock()
	l.cancel = cancel
	l.mu.Unlock()
	go l.run(ctx)
}

// Stop cancels the timer. An in-flight load is allowed to complete but
// its result is discarded. Safe to call more than once.
func (l *Loop) Stop() {
	l.mu.Lock()
	l.stopped = true
	if l.cancel != nil {
		l.cancel()
	}
	l.mu.Unlock()
	l.publish("sync.stopped", l.partnerID)
}

func (l *Loop) run(ctx context.Context) {
	l.tick(ctx)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// tick starts one load unless a previous one is still in flight.
func (l *Loop) tick(ctx context.Context) {
	if !l.busy.CompareAndSwap(false, true) {
		l.logger.Debug("poll still in flight, tick skipped",
			zap.String("partner_id", l.partnerID))
		return
	}

	go func() {
		defer l.busy.Store(false)
		l.load(ctx)
	}()
}

func (l *Loop) load(ctx context.Context) {
	msgs, err := l.source.Thread(ctx, l.partnerID)
	if err != nil {
		if api.IsNotFound(err) {
			l.logger.Warn("partner no longer exists, polling stopped",
				zap.String("partner_id", l.partnerID))
			l.Stop()
			return
		}
		l.logger.Warn("poll failed, thread left unchanged",
			zap.String("partner_id", l.partnerID),
			zap.Error(err))
		if l.failures.Add(1) >= degradedAfter && l.machine != nil {
			_ = l.machine.Transition(status.Degraded)
		}
		return
	}

	l.mu.Lock()
	if l.stopped || ctx.Err() != nil {
		// View torn down while the request was in flight; the store's
		// owner is gone, so the result must not be applied.
		l.mu.Unlock()
		return
	}
	newlyFailed := l.store.Replace(msgs)
	l.mu.Unlock()

	l.failures.Store(0)
	if l.machine != nil && l.machine.Current() == status.Degraded {
		_ = l.machine.Transition(status.Ready)
	}

	if l.cache != nil {
		if err := l.cache.ReplaceThread(l.partnerID, msgs); err != nil {
			l.logger.Warn("thread cache write failed",
				zap.String("partner_id", l.partnerID),
				zap.Error(err))
		}
	}

	for _, localID := range newlyFailed {
		l.publish("thread.send_failed", bus.SendFailure{
			ClientMsgID: localID,
			Reason:      "not acknowledged within one poll interval",
		})
	}
	l.publish("thread.updated", l.partnerID)

	if l.resolver != nil && !l.resolver.Resolved(l.partnerID) {
		if _, err := l.resolver.Resolve(ctx, l.partnerID); err != nil {
			l.logger.Warn("partner resolution failed",
				zap.String("partner_id", l.partnerID),
				zap.Error(err))
		} else if l.resolver.Resolved(l.partnerID) {
			l.publish("thread.partner_resolved", l.partnerID)
		}
	}
}

func (l *Loop) publish(kind string, payload any) {
	if l.bus == nil {
		return
	}
	l.bus.Publish(bus.Event{Kind: kind, Timestamp: time.Now(), Payload: payload})
}
