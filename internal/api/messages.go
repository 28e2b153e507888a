package api

import (
	"context"
	"net/http"
)

type sendMessageRequest struct {
	ReceiverID  string `json:"receiver_id"`
	Content     string `json:"content"`
	MessageType string `json:"message_type"`
}

// SendMessage posts a message and returns the server-acknowledged copy
// carrying the durable message id.
func (c *Client) SendMessage(ctx context.Context, receiverID, content, messageType string) (*Message, error) {
	if messageType == "" {
		messageType = MessageTypeText
	}
	var m Message
	err := c.do(ctx, http.MethodPost, "/messages", sendMessageRequest{
		ReceiverID:  receiverID,
		Content:     content,
		MessageType: messageType,
	}, &m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Thread fetches the full message thread with one partner, ordered by
// arrival sequence as stored by the backend. Fetching also marks the
// partner's messages read server-side.
func (c *Client) Thread(ctx context.Context, partnerID string) ([]Message, error) {
	var msgs []Message
	if err := c.do(ctx, http.MethodGet, "/messages/"+partnerID, nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Conversations fetches the conversation summaries for the list view,
// ordered by recency as returned by the backend.
func (c *Client) Conversations(ctx context.Context) ([]Conversation, error) {
	var convos []Conversation
	if err := c.do(ctx, http.MethodGet, "/conversations", nil, &convos); err != nil {
		return nil, err
	}
	return convos, nil
}
