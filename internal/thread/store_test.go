package thread

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SarahGBoland/FriendSnap/internal/api"
)

const (
	self    = "self-1"
	partner = "partner-1"
)

func serverMsg(id, sender, content string) api.Message {
	return api.Message{
		ID: id, SenderID: sender, ReceiverID: partner,
		Content: content, MessageType: api.MessageTypeText,
	}
}

func TestReplaceIsIdempotent(t *testing.T) {
	s := New(self, partner, 0)
	serverThread := []api.Message{
		serverMsg("m1", partner, "hello"),
		serverMsg("m2", self, "hi"),
	}

	s.Replace(serverThread)
	first := s.Entries()
	s.Replace(serverThread)
	second := s.Entries()

	assert.Equal(t, first, second)
	require.Len(t, second, 2)
	assert.Equal(t, "m1", second[0].ID)
	assert.Equal(t, "m2", second[1].ID)
}

func TestAppendPendingShowsAtTail(t *testing.T) {
	s := New(self, partner, 0)
	s.Replace([]api.Message{serverMsg("m1", partner, "hello")})

	p := s.AppendPending("Hi!", "")
	require.NotEmpty(t, p.LocalID)

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.True(t, entries[1].Pending)
	assert.Equal(t, StatePending, entries[1].State)
	assert.Equal(t, self, entries[1].SenderID)
	assert.Equal(t, api.MessageTypeText, entries[1].MessageType)
}

// End-to-end scenario: optimistic append, then the poll returns the
// authoritative copy and the pending is promoted without duplication.
func TestReconcilePromotesPending(t *testing.T) {
	s := New(self, partner, 0)

	s.AppendPending("Hi!", api.MessageTypeText)
	require.Equal(t, 1, s.Len())

	failed := s.Replace([]api.Message{serverMsg("m1", self, "Hi!")})
	assert.Empty(t, failed)

	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "m1", entries[0].ID)
	assert.False(t, entries[0].Pending)
}

func TestReconcileClaimsOneCopyPerPending(t *testing.T) {
	s := New(self, partner, 0)

	// Two identical pendings need two server copies.
	s.AppendPending("Hi!", api.MessageTypeText)
	s.AppendPending("Hi!", api.MessageTypeText)

	s.Replace([]api.Message{serverMsg("m1", self, "Hi!")})
	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.False(t, entries[0].Pending)
	assert.True(t, entries[1].Pending)

	s.Replace([]api.Message{
		serverMsg("m1", self, "Hi!"),
		serverMsg("m2", self, "Hi!"),
	})
	entries = s.Entries()
	require.Len(t, entries, 2)
	assert.False(t, entries[1].Pending)
}

func TestReconcileIgnoresOldServerMessages(t *testing.T) {
	s := New(self, partner, 0)

	// "Hi!" already confirmed in an earlier poll must not satisfy a new
	// pending with the same content.
	s.Replace([]api.Message{serverMsg("m1", self, "Hi!")})
	s.AppendPending("Hi!", api.MessageTypeText)

	s.Replace([]api.Message{serverMsg("m1", self, "Hi!")})
	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.True(t, entries[1].Pending)
}

func TestAcknowledgeMatchesByServerID(t *testing.T) {
	s := New(self, partner, 0)

	p := s.AppendPending("Hi!", api.MessageTypeText)
	s.Acknowledge(p.LocalID, &api.Message{ID: "m7", SenderID: self, Content: "Hi!"})

	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, StateSent, entries[0].State)

	s.Replace([]api.Message{serverMsg("m7", self, "Hi!")})
	entries = s.Entries()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Pending)
	assert.Equal(t, "m7", entries[0].ID)
}

func TestUnmatchedPendingAgesToFailed(t *testing.T) {
	s := New(self, partner, 20*time.Millisecond)

	p := s.AppendPending("lost", api.MessageTypeText)
	time.Sleep(40 * time.Millisecond)

	failed := s.Replace(nil)
	require.Equal(t, []string{p.LocalID}, failed)

	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Pending)
	assert.Equal(t, StateFailed, entries[0].State)

	// Already-failed entries are not reported again.
	assert.Empty(t, s.Replace(nil))
}

func TestMarkFailedKeepsEntryVisible(t *testing.T) {
	s := New(self, partner, 0)

	p := s.AppendPending("oops", api.MessageTypeEmoji)
	s.MarkFailed(p.LocalID)

	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, StateFailed, entries[0].State)
}

func TestAcknowledgedNotYetPolledIsNotFailed(t *testing.T) {
	s := New(self, partner, 20*time.Millisecond)

	p := s.AppendPending("Hi!", api.MessageTypeText)
	s.Acknowledge(p.LocalID, &api.Message{ID: "m3"})
	time.Sleep(40 * time.Millisecond)

	// The send succeeded; a slow poll must not flag it failed.
	failed := s.Replace(nil)
	assert.Empty(t, failed)
	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, StateSent, entries[0].State)
}
