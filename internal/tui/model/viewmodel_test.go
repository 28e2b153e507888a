package model

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SarahGBoland/FriendSnap/internal/api"
	"github.com/SarahGBoland/FriendSnap/internal/bus"
	"github.com/SarahGBoland/FriendSnap/internal/convo"
	"github.com/SarahGBoland/FriendSnap/internal/session"
	"github.com/SarahGBoland/FriendSnap/internal/status"
	"github.com/SarahGBoland/FriendSnap/internal/store"
)

func testVM(t *testing.T, baseURL string) (*ViewModel, *store.DB) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Migrate()
	require.NoError(t, err)

	client := api.New(baseURL)
	b := bus.New()
	machine := status.NewMachine(b)
	aggregator := convo.NewAggregator(client, db, nil)
	vm := NewViewModel(client, db, b, machine, aggregator, zap.NewNop(), "main", 10*time.Millisecond)
	return vm, db
}

// An unreachable backend still shows the last mirrored thread snapshot.
func TestOpenConversationShowsCachedThreadOffline(t *testing.T) {
	vm, db := testVM(t, "http://127.0.0.1:1")

	cached := []api.Message{
		{ID: "m1", SenderID: "u2", ReceiverID: "u1", Content: "hey", MessageType: api.MessageTypeText},
		{ID: "m2", SenderID: "u1", ReceiverID: "u2", Content: "hi!", MessageType: api.MessageTypeText},
	}
	require.NoError(t, db.ReplaceThread("u2", cached))

	vm.OpenConversation(context.Background(), "u2")
	defer vm.CloseConversation()

	entries := vm.ThreadEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "m1", entries[0].ID)
	assert.Equal(t, "m2", entries[1].ID)
}

func TestRestoreSessionClearsRejectedToken(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Invalid token"}`))
	}))
	defer srv.Close()

	require.NoError(t, session.SaveToken("main", "stale-token"))

	vm, _ := testVM(t, srv.URL)
	assert.False(t, vm.RestoreSession(context.Background()))

	// The stale token is gone; the next run starts at the login form.
	_, err := session.LoadToken("main")
	assert.True(t, errors.Is(err, session.ErrNoToken))
	assert.Equal(t, status.SignedOut, vm.machine.Current())
}

func TestRestoreSessionKeepsTokenOnNetworkFailure(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, session.SaveToken("main", "good-token"))

	vm, _ := testVM(t, "http://127.0.0.1:1")
	assert.False(t, vm.RestoreSession(context.Background()))

	// A transport failure is not a verdict on the token.
	token, err := session.LoadToken("main")
	require.NoError(t, err)
	assert.Equal(t, "good-token", token)
}
