package outbox

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/SarahGBoland/FriendSnap/internal/api"
	"github.com/SarahGBoland/FriendSnap/internal/bus"
	"github.com/SarahGBoland/FriendSnap/internal/store"
)

// mockSender records calls and returns configurable results.
type mockSender struct {
	calls []sendCall
	err   error
}

type sendCall struct {
	ReceiverID string
	Content    string
}

func (m *mockSender) SendMessage(_ context.Context, receiverID, content, messageType string) (*api.Message, error) {
	m.calls = append(m.calls, sendCall{ReceiverID: receiverID, Content: content})
	if m.err != nil {
		return nil, m.err
	}
	return &api.Message{ID: "server-" + receiverID, ReceiverID: receiverID, Content: content, MessageType: messageType}, nil
}

func testDB(t *testing.T) *store.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSenderProcessesQueuedMessages(t *testing.T) {
	db := testDB(t)
	b := bus.New()
	mock := &mockSender{}
	logger, _ := zap.NewDevelopment()
	s := NewSender(db, mock, b, logger)

	// Subscribe to ack events.
	ch, unsub := b.Subscribe("message.send_ack", 10)
	defer unsub()

	if err := db.QueueOutbox("c1", "u2", "hello", "text"); err != nil {
		t.Fatal(err)
	}

	s.Start(context.Background())
	defer s.Stop()

	time.Sleep(time.Second)

	if len(mock.calls) != 1 {
		t.Fatalf("got %d send calls, want 1", len(mock.calls))
	}
	if mock.calls[0].ReceiverID != "u2" || mock.calls[0].Content != "hello" {
		t.Errorf("call = %+v, want {u2, hello}", mock.calls[0])
	}

	// Verify outbox is drained.
	pending, err := db.PendingOutbox()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Errorf("got %d pending, want 0 after send", len(pending))
	}

	// Verify ack event carries the server-assigned id.
	select {
	case evt := <-ch:
		ack, ok := evt.Payload.(bus.SendAck)
		if !ok {
			t.Fatalf("payload = %T, want bus.SendAck", evt.Payload)
		}
		if ack.ClientMsgID != "c1" {
			t.Errorf("client_msg_id = %q, want c1", ack.ClientMsgID)
		}
		if ack.ServerMsgID != "server-u2" {
			t.Errorf("server_msg_id = %q, want server-u2", ack.ServerMsgID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for send_ack event")
	}
}

func TestSenderHandlesFailure(t *testing.T) {
	db := testDB(t)
	b := bus.New()
	mock := &mockSender{err: fmt.Errorf("network error")}
	logger, _ := zap.NewDevelopment()
	s := NewSender(db, mock, b, logger)

	ch, unsub := b.Subscribe("message.send_failed", 10)
	defer unsub()

	if err := db.QueueOutbox("c1", "u2", "hello", "text"); err != nil {
		t.Fatal(err)
	}

	s.Start(context.Background())
	defer s.Stop()

	time.Sleep(time.Second)

	select {
	case evt := <-ch:
		failure, ok := evt.Payload.(bus.SendFailure)
		if !ok {
			t.Fatalf("payload = %T, want bus.SendFailure", evt.Payload)
		}
		if failure.Reason != "network error" {
			t.Errorf("reason = %q, want 'network error'", failure.Reason)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for send_failed event")
	}

	// Entry is marked failed, not retried.
	pending, err := db.PendingOutbox()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Errorf("got %d pending, want 0 (should be marked failed)", len(pending))
	}
}

func TestSenderPreservesQueueOrder(t *testing.T) {
	db := testDB(t)
	b := bus.New()
	mock := &mockSender{}
	logger, _ := zap.NewDevelopment()
	s := NewSender(db, mock, b, logger)

	if err := db.QueueOutbox("c1", "u2", "first", "text"); err != nil {
		t.Fatal(err)
	}
	if err := db.QueueOutbox("c2", "u2", "second", "text"); err != nil {
		t.Fatal(err)
	}

	s.Start(context.Background())
	defer s.Stop()

	time.Sleep(time.Second)

	if len(mock.calls) != 2 {
		t.Fatalf("got %d send calls, want 2", len(mock.calls))
	}
	if mock.calls[0].Content != "first" || mock.calls[1].Content != "second" {
		t.Errorf("calls out of order: %+v", mock.calls)
	}
}
