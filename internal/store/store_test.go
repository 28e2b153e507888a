package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SarahGBoland/FriendSnap/internal/api"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Migrate()
	require.NoError(t, err)
	return db
}

func TestMigrateIdempotent(t *testing.T) {
	db := testDB(t)
	res, err := db.Migrate()
	require.NoError(t, err)
	assert.False(t, res.Changed)
}

func TestReplaceConversationsKeepsServerOrder(t *testing.T) {
	db := testDB(t)

	convos := []api.Conversation{
		{Partner: api.User{ID: "u2", Nickname: "bea"}, LastMessage: api.LastMessage{Content: "see you", IsMine: true}, UnreadCount: 0},
		{Partner: api.User{ID: "u3", Nickname: "carl"}, LastMessage: api.LastMessage{Content: "nice pic"}, UnreadCount: 4},
	}
	require.NoError(t, db.ReplaceConversations(convos))

	got, err := db.Conversations()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "u2", got[0].Partner.ID)
	assert.Equal(t, "u3", got[1].Partner.ID)
	assert.Equal(t, 4, got[1].UnreadCount)
	assert.True(t, got[0].LastMessage.IsMine)
}

func TestReplaceConversationsIsWholesale(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.ReplaceConversations([]api.Conversation{
		{Partner: api.User{ID: "u2"}},
		{Partner: api.User{ID: "u3"}},
	}))
	require.NoError(t, db.ReplaceConversations([]api.Conversation{
		{Partner: api.User{ID: "u3"}},
	}))

	count, err := db.ConversationCount()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestThreadRoundTrip(t *testing.T) {
	db := testDB(t)

	msgs := []api.Message{
		{ID: "m1", SenderID: "u1", ReceiverID: "u2", Content: "hey", MessageType: api.MessageTypeText, CreatedAt: "2026-08-29T10:00:00Z"},
		{ID: "m2", SenderID: "u2", ReceiverID: "u1", Content: "hi!", MessageType: api.MessageTypeText, CreatedAt: "2026-08-29T10:00:05Z", IsRead: true},
	}
	require.NoError(t, db.ReplaceThread("u2", msgs))

	got, err := db.Thread("u2")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, msgs, got)
}

func TestReplaceThreadScopedToPartner(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.ReplaceThread("u2", []api.Message{{ID: "m1", SenderID: "u1", ReceiverID: "u2", Content: "a"}}))
	require.NoError(t, db.ReplaceThread("u3", []api.Message{{ID: "m2", SenderID: "u1", ReceiverID: "u3", Content: "b"}}))

	require.NoError(t, db.ReplaceThread("u2", nil))

	other, err := db.Thread("u3")
	require.NoError(t, err)
	assert.Len(t, other, 1)

	cleared, err := db.Thread("u2")
	require.NoError(t, err)
	assert.Empty(t, cleared)
}

func TestOutboxLifecycle(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.QueueOutbox("c1", "u2", "hello", "text"))
	require.NoError(t, db.QueueOutbox("c2", "u2", "world", "text"))

	pending, err := db.PendingOutbox()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "c1", pending[0].ClientMsgID)
	assert.Equal(t, OutboxStatusQueued, pending[0].Status)

	require.NoError(t, db.MarkOutboxSending("c1"))
	require.NoError(t, db.MarkOutboxSent("c1", "srv-9"))
	require.NoError(t, db.MarkOutboxFailed("c2", "receiver not found"))

	pending, err = db.PendingOutbox()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestQueueOutboxDuplicateClientID(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.QueueOutbox("c1", "u2", "hello", "text"))
	assert.Error(t, db.QueueOutbox("c1", "u2", "hello", "text"))
}
