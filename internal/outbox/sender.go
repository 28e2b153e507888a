// Package outbox drains the persistent send queue. Messages survive a
// crash between composing and the server acknowledging the send.
package outbox

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/SarahGBoland/FriendSnap/internal/api"
	"github.com/SarahGBoland/FriendSnap/internal/bus"
	"github.com/SarahGBoland/FriendSnap/internal/store"
)

// MessageSender is the interface for delivering a queued message to the
// backend.
type MessageSender interface {
	SendMessage(ctx context.Context, receiverID, content, messageType string) (*api.Message, error)
}

// Sender drains the outbox and delivers messages via the API client.
type Sender struct {
	db     *store.DB
	sender MessageSender
	bus    *bus.Bus
	logger *zap.Logger
	cancel context.CancelFunc
}

// NewSender creates a new outbox sender.
func NewSender(db *store.DB, sender MessageSender, b *bus.Bus, logger *zap.Logger) *Sender {
	return &Sender{
		db:     db,
		sender: sender,
		bus:    b,
		logger: logger,
	}
}

// Start begins polling the outbox for queued messages.
func (s *Sender) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.loop(ctx)
}

// Stop stops the sender loop.
func (s *Sender) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Sender) loop(ctx context.Context) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.processPending(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Sender) processPending(ctx context.Context) {
	pending, err := s.db.PendingOutbox()
	if err != nil {
		s.logger.Error("failed to read outbox", zap.Error(err))
		return
	}

	for _, entry := range pending {
		if err := s.db.MarkOutboxSending(entry.ClientMsgID); err != nil {
			s.logger.Error("failed to mark sending", zap.Error(err), zap.String("client_msg_id", entry.ClientMsgID))
			continue
		}

		msg, err := s.sender.SendMessage(ctx, entry.ReceiverID, entry.Content, entry.MessageType)
		if err != nil {
			s.logger.Error("failed to send message", zap.Error(err), zap.String("client_msg_id", entry.ClientMsgID))
			_ = s.db.MarkOutboxFailed(entry.ClientMsgID, err.Error())
			s.bus.Publish(bus.Event{
				Kind:      "message.send_failed",
				Timestamp: time.Now(),
				Payload: bus.SendFailure{
					ClientMsgID: entry.ClientMsgID,
					Reason:      err.Error(),
				},
			})
			continue
		}

		if err := s.db.MarkOutboxSent(entry.ClientMsgID, msg.ID); err != nil {
			s.logger.Error("failed to mark sent", zap.Error(err), zap.String("client_msg_id", entry.ClientMsgID))
		}

		s.logger.Info("message sent", zap.String("client_msg_id", entry.ClientMsgID), zap.String("server_msg_id", msg.ID))
		s.bus.Publish(bus.Event{
			Kind:      "message.send_ack",
			Timestamp: time.Now(),
			Payload: bus.SendAck{
				ClientMsgID: entry.ClientMsgID,
				ServerMsgID: msg.ID,
			},
		})
	}
}
