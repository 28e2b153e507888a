package store

// Outbox entry lifecycle states.
const (
	OutboxStatusQueued  = "queued"
	OutboxStatusSending = "sending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

// OutboxEntry represents a pending outgoing message.
type OutboxEntry struct {
	ID           int64
	ClientMsgID  string
	ReceiverID   string
	Content      string
	MessageType  string
	Status       string
	ErrorMessage string
	ServerMsgID  string
}
