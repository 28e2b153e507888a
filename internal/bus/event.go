package bus

import "time"

// Event represents a client event published on the bus.
//
// Kinds are dot-namespaced: "session." for auth/status changes,
// "thread." for sync-loop updates to the active conversation,
// "message." for outbox send outcomes, "sync." for loop lifecycle.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// SendAck is the payload of "message.send_ack" events.
type SendAck struct {
	ClientMsgID string
	ServerMsgID string
}

// SendFailure is the payload of "message.send_failed" events.
type SendFailure struct {
	ClientMsgID string
	Reason      string
}
