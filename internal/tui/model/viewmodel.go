package model

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/SarahGBoland/FriendSnap/internal/api"
	"github.com/SarahGBoland/FriendSnap/internal/bus"
	"github.com/SarahGBoland/FriendSnap/internal/convo"
	"github.com/SarahGBoland/FriendSnap/internal/directory"
	"github.com/SarahGBoland/FriendSnap/internal/moderation"
	"github.com/SarahGBoland/FriendSnap/internal/session"
	"github.com/SarahGBoland/FriendSnap/internal/status"
	"github.com/SarahGBoland/FriendSnap/internal/store"
	"github.com/SarahGBoland/FriendSnap/internal/syncer"
	"github.com/SarahGBoland/FriendSnap/internal/thread"
)

// ViewModel holds UI-facing state and mediates between the views and the
// sync engine. All mutating methods are safe for concurrent use.
type ViewModel struct {
	Flash Flash

	client       *api.Client
	db           *store.DB
	bus          *bus.Bus
	machine      *status.Machine
	aggregator   *convo.Aggregator
	logger       *zap.Logger
	sessionName  string
	pollInterval time.Duration

	mu          sync.RWMutex
	self        *api.User
	convos      []api.Conversation
	suggestions []api.FriendSuggestion

	activeThread *thread.Store
	activeLoop   *syncer.Loop
	resolver     *directory.Resolver
	actions      *moderation.Actions
	syncStopped  bool
}

// NewViewModel creates the view model.
func NewViewModel(client *api.Client, db *store.DB, b *bus.Bus, machine *status.Machine, aggregator *convo.Aggregator, logger *zap.Logger, sessionName string, pollInterval time.Duration) *ViewModel {
	if pollInterval <= 0 {
		pollInterval = syncer.DefaultInterval
	}
	return &ViewModel{
		client:       client,
		db:           db,
		bus:          b,
		machine:      machine,
		aggregator:   aggregator,
		logger:       logger,
		sessionName:  sessionName,
		pollInterval: pollInterval,
	}
}

// RestoreSession tries to resume from a stored token. Returns false when
// no token exists or the token is no longer accepted.
func (vm *ViewModel) RestoreSession(ctx context.Context) bool {
	token, err := session.LoadToken(vm.sessionName)
	if err != nil {
		return false
	}
	_ = vm.machine.Transition(status.Authenticating)
	vm.client.SetToken(token)
	me, err := vm.client.Me(ctx)
	if err != nil {
		vm.client.SetToken("")
		if api.IsUnauthorized(err) {
			// The stored token is stale; drop it so the next run goes
			// straight to the login form.
			_ = session.ClearToken(vm.sessionName)
		}
		_ = vm.machine.Transition(status.SignedOut)
		return false
	}
	vm.setSelf(me)
	return true
}

// Login authenticates and persists the token for the session.
func (vm *ViewModel) Login(ctx context.Context, nickname, password string) error {
	_ = vm.machine.Transition(status.Authenticating)
	resp, err := vm.client.Login(ctx, nickname, password)
	if err != nil {
		_ = vm.machine.Transition(status.SignedOut)
		return err
	}
	vm.finishAuth(resp)
	return nil
}

// Register creates an account and signs in.
func (vm *ViewModel) Register(ctx context.Context, nickname, avatarURL, password string) error {
	_ = vm.machine.Transition(status.Authenticating)
	resp, err := vm.client.Register(ctx, nickname, avatarURL, password)
	if err != nil {
		_ = vm.machine.Transition(status.SignedOut)
		return err
	}
	vm.finishAuth(resp)
	return nil
}

func (vm *ViewModel) finishAuth(resp *api.AuthResponse) {
	if err := session.SaveToken(vm.sessionName, resp.Token); err != nil {
		vm.logger.Warn("failed to persist token", zap.Error(err))
	}
	user := resp.User
	vm.setSelf(&user)
}

func (vm *ViewModel) setSelf(u *api.User) {
	vm.mu.Lock()
	vm.self = u
	vm.mu.Unlock()
	_ = vm.machine.Transition(status.Ready)
}

// Self returns the signed-in user, or nil before login.
func (vm *ViewModel) Self() *api.User {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.self
}

// RefreshConversations fetches the conversation list from the backend.
func (vm *ViewModel) RefreshConversations(ctx context.Context) error {
	convos, err := vm.aggregator.List(ctx)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.convos = convos
	vm.mu.Unlock()
	return nil
}

// Conversations returns the last fetched conversation list, in the order
// the backend returned it.
func (vm *ViewModel) Conversations() []api.Conversation {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.convos
}

// LoadCachedConversations populates the list from the offline cache,
// used before the first network fetch completes.
func (vm *ViewModel) LoadCachedConversations() {
	convos, err := vm.aggregator.Cached()
	if err != nil || len(convos) == 0 {
		return
	}
	vm.mu.Lock()
	if len(vm.convos) == 0 {
		vm.convos = convos
	}
	vm.mu.Unlock()
}

// RefreshSuggestions fetches friend suggestions.
func (vm *ViewModel) RefreshSuggestions(ctx context.Context) error {
	suggestions, err := vm.client.Suggestions(ctx)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.suggestions = suggestions
	vm.mu.Unlock()
	return nil
}

// Suggestions returns the last fetched friend suggestions.
func (vm *ViewModel) Suggestions() []api.FriendSuggestion {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.suggestions
}

// SendFriendRequest sends a friend request to the given user.
func (vm *ViewModel) SendFriendRequest(ctx context.Context, userID string) error {
	return vm.client.SendFriendRequest(ctx, userID)
}

// OpenConversation tears down any previous conversation view and starts
// a sync loop for the new partner. The thread store, resolver and loop
// are all scoped to this one view.
func (vm *ViewModel) OpenConversation(ctx context.Context, partnerID string) {
	vm.CloseConversation()

	vm.mu.Lock()
	defer vm.mu.Unlock()

	selfID := ""
	if vm.self != nil {
		selfID = vm.self.ID
	}

	vm.activeThread = thread.New(selfID, partnerID, vm.pollInterval)
	// Show the last mirrored snapshot until the first poll lands; the
	// poll replaces it wholesale either way.
	if cached, err := vm.db.Thread(partnerID); err == nil && len(cached) > 0 {
		vm.activeThread.Replace(cached)
	}
	vm.resolver = directory.NewResolver(vm.client)
	vm.activeLoop = syncer.NewLoop(vm.client, vm.activeThread, vm.resolver, vm.db, vm.machine, vm.bus, vm.logger, partnerID, vm.pollInterval)
	vm.actions = moderation.NewActions(vm.client, vm.activeLoop, vm.logger)
	vm.syncStopped = false
	vm.activeLoop.Start(ctx)
}

// CloseConversation stops the active sync loop and discards the view
// state. Safe to call when no conversation is open.
func (vm *ViewModel) CloseConversation() {
	vm.mu.Lock()
	loop := vm.activeLoop
	vm.activeThread = nil
	vm.activeLoop = nil
	vm.resolver = nil
	vm.actions = nil
	vm.mu.Unlock()

	if loop != nil {
		loop.Stop()
	}
}

// ActivePartnerID returns the open conversation's partner id, or empty.
func (vm *ViewModel) ActivePartnerID() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	if vm.activeThread == nil {
		return ""
	}
	return vm.activeThread.PartnerID()
}

// ThreadEntries returns the visible rows of the open thread.
func (vm *ViewModel) ThreadEntries() []thread.Entry {
	vm.mu.RLock()
	t := vm.activeThread
	vm.mu.RUnlock()
	if t == nil {
		return nil
	}
	return t.Entries()
}

// PartnerDisplayName returns the partner's nickname when the resolver has
// found one, falling back to the raw id.
func (vm *ViewModel) PartnerDisplayName(ctx context.Context) string {
	vm.mu.RLock()
	r := vm.resolver
	t := vm.activeThread
	vm.mu.RUnlock()
	if t == nil {
		return ""
	}
	partnerID := t.PartnerID()
	if r == nil {
		return partnerID
	}
	u, err := r.Resolve(ctx, partnerID)
	if err != nil || u == nil {
		return partnerID
	}
	return u.Nickname
}

// SendText queues a message for the open conversation. The message shows
// up immediately as pending; the outbox sender delivers it and the next
// poll promotes it to a confirmed entry.
func (vm *ViewModel) SendText(content string) error {
	vm.mu.RLock()
	t := vm.activeThread
	vm.mu.RUnlock()
	if t == nil {
		return nil
	}
	p := t.AppendPending(content, api.MessageTypeText)
	if err := vm.db.QueueOutbox(p.LocalID, t.PartnerID(), content, api.MessageTypeText); err != nil {
		t.MarkFailed(p.LocalID)
		return err
	}
	return nil
}

// HandleSendAck records a server-acknowledged send on the open thread.
func (vm *ViewModel) HandleSendAck(clientMsgID, serverMsgID string) {
	vm.mu.RLock()
	t := vm.activeThread
	vm.mu.RUnlock()
	if t != nil {
		t.Acknowledge(clientMsgID, &api.Message{ID: serverMsgID})
	}
}

// HandleSendFailure flags a failed send on the open thread.
func (vm *ViewModel) HandleSendFailure(clientMsgID string) {
	vm.mu.RLock()
	t := vm.activeThread
	vm.mu.RUnlock()
	if t != nil {
		t.MarkFailed(clientMsgID)
	}
}

// ReportPartner reports the open conversation's partner. The sync loop
// keeps running whether or not the report succeeds.
func (vm *ViewModel) ReportPartner(ctx context.Context, reason string) error {
	vm.mu.RLock()
	a := vm.actions
	t := vm.activeThread
	vm.mu.RUnlock()
	if a == nil || t == nil {
		return nil
	}
	return a.ReportUser(ctx, t.PartnerID(), reason)
}

// BlockPartner blocks the open conversation's partner. On success the
// sync loop is stopped; the thread view goes static.
func (vm *ViewModel) BlockPartner(ctx context.Context) error {
	vm.mu.RLock()
	a := vm.actions
	t := vm.activeThread
	vm.mu.RUnlock()
	if a == nil || t == nil {
		return nil
	}
	err := a.BlockUser(ctx, t.PartnerID())
	if err == nil {
		vm.mu.Lock()
		vm.syncStopped = true
		vm.mu.Unlock()
	}
	return err
}

// SyncStopped reports whether the open thread's polling was halted by a
// block action.
func (vm *ViewModel) SyncStopped() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.syncStopped
}
