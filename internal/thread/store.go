// Package thread holds the in-memory message store for one conversation.
//
// The remote store is the single source of truth: every successful poll
// replaces the confirmed thread wholesale, and locally-authored pending
// sends are reconciled against it by content matching. The reconcile rule
// is authoritative over both update paths (send response and poll), so a
// message is never counted twice regardless of which response lands first.
package thread

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SarahGBoland/FriendSnap/internal/api"
)

// Pending send states.
const (
	StatePending = "pending" // queued locally, no server verdict yet
	StateSent    = "sent"    // send acknowledged, not yet seen in a poll
	StateFailed  = "failed"  // send errored or aged out unmatched
)

// DefaultMaxPendingAge matches one poll interval: a pending send that is
// still unmatched after this long is surfaced as failed.
const DefaultMaxPendingAge = 5 * time.Second

// Pending is the handle returned for an optimistically appended message.
type Pending struct {
	LocalID  string
	QueuedAt time.Time
}

// Entry is one visible row of the thread: either a server-confirmed
// message or a pending send rendered at the tail.
type Entry struct {
	api.Message

	Pending bool
	LocalID string
	State   string
}

type pendingSend struct {
	localID     string
	content     string
	messageType string
	queuedAt    time.Time
	state       string
	serverID    string
}

// Store is the message store for a single (self, partner) conversation.
// It is exclusively owned by one sync loop for the lifetime of one
// conversation view.
type Store struct {
	mu sync.Mutex

	selfID        string
	partnerID     string
	maxPendingAge time.Duration
	now           func() time.Time

	confirmed []api.Message
	pending   []*pendingSend
	seen      map[string]struct{}
}

// New creates an empty store. maxPendingAge <= 0 selects the default.
func New(selfID, partnerID string, maxPendingAge time.Duration) *Store {
	if maxPendingAge <= 0 {
		maxPendingAge = DefaultMaxPendingAge
	}
	return &Store{
		selfID:        selfID,
		partnerID:     partnerID,
		maxPendingAge: maxPendingAge,
		now:           time.Now,
		seen:          make(map[string]struct{}),
	}
}

// PartnerID returns the conversation partner's identifier.
func (s *Store) PartnerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.partnerID
}

// AppendPending adds a locally-authored message to the tail of the thread
// before the network round trip completes.
func (s *Store) AppendPending(content, messageType string) *Pending {
	if messageType == "" {
		messageType = api.MessageTypeText
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &pendingSend{
		localID:     uuid.New().String(),
		content:     content,
		messageType: messageType,
		queuedAt:    s.now(),
		state:       StatePending,
	}
	s.pending = append(s.pending, p)
	return &Pending{LocalID: p.localID, QueuedAt: p.queuedAt}
}

// Acknowledge records the server id from a successful send response. The
// entry stays pending until a poll returns the authoritative copy; it is
// never appended a second time.
func (s *Store) Acknowledge(localID string, m *api.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pending {
		if p.localID == localID {
			p.state = StateSent
			if m != nil {
				p.serverID = m.ID
			}
			return
		}
	}
}

// MarkFailed flags a pending send whose send request errored. The entry
// stays visible so the user can retry.
func (s *Store) MarkFailed(localID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pending {
		if p.localID == localID {
			p.state = StateFailed
			return
		}
	}
}

// Replace installs a freshly fetched server thread wholesale and
// reconciles pending sends against it. Each pending send claims at most
// one server row: by server id when acknowledged, otherwise by (sender,
// content, type) against rows not seen in any earlier poll. Matched
// pendings are dropped (superseded by the authoritative copy). Unmatched
// pendings older than one poll interval are flagged failed; their local
// ids are returned so the caller can surface them.
func (s *Store) Replace(serverThread []api.Message) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.confirmed = append(s.confirmed[:0:0], serverThread...)

	claimed := make(map[int]bool)
	var newlyFailed []string
	remaining := s.pending[:0]

	for _, p := range s.pending {
		if s.claim(p, serverThread, claimed) {
			continue
		}
		if p.state == StatePending && s.now().Sub(p.queuedAt) > s.maxPendingAge {
			p.state = StateFailed
			newlyFailed = append(newlyFailed, p.localID)
		}
		remaining = append(remaining, p)
	}
	s.pending = remaining

	for _, m := range serverThread {
		s.seen[m.ID] = struct{}{}
	}
	return newlyFailed
}

// claim finds the server row superseding p, marking it claimed so two
// identical pendings consume two server copies, never one.
func (s *Store) claim(p *pendingSend, serverThread []api.Message, claimed map[int]bool) bool {
	if p.serverID != "" {
		for i, m := range serverThread {
			if !claimed[i] && m.ID == p.serverID {
				claimed[i] = true
				return true
			}
		}
	}
	for i, m := range serverThread {
		if claimed[i] {
			continue
		}
		if _, old := s.seen[m.ID]; old {
			continue
		}
		if m.SenderID == s.selfID && m.Content == p.content && m.MessageType == p.messageType {
			claimed[i] = true
			return true
		}
	}
	return false
}

// Entries returns the visible thread: the confirmed sequence in server
// order, then pending sends at the tail in queue order.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]Entry, 0, len(s.confirmed)+len(s.pending))
	for _, m := range s.confirmed {
		entries = append(entries, Entry{Message: m})
	}
	for _, p := range s.pending {
		entries = append(entries, Entry{
			Message: api.Message{
				ID:          p.serverID,
				SenderID:    s.selfID,
				ReceiverID:  s.partnerID,
				Content:     p.content,
				MessageType: p.messageType,
			},
			Pending: true,
			LocalID: p.localID,
			State:   p.state,
		})
	}
	return entries
}

// Len returns the number of visible thread entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.confirmed) + len(s.pending)
}
