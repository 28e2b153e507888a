package status

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/SarahGBoland/FriendSnap/internal/bus"
)

// State represents a client session runtime state.
type State string

const (
	SignedOut      State = "SIGNED_OUT"
	Authenticating State = "AUTHENTICATING"
	Ready          State = "READY"
	Degraded       State = "DEGRADED"
	Error          State = "ERROR"
)

// validTransitions defines allowed state transitions. Degraded means the
// backend stopped answering polls; the session recovers to Ready on the
// next successful round trip.
var validTransitions = map[State][]State{
	SignedOut:      {Authenticating, Error},
	Authenticating: {Ready, SignedOut, Error},
	Ready:          {Degraded, SignedOut, Error},
	Degraded:       {Ready, SignedOut, Error},
	Error:          {SignedOut},
}

// Machine tracks and enforces client session state transitions.
type Machine struct {
	mu      sync.RWMutex
	current State
	bus     *bus.Bus
}

// NewMachine creates a new state machine starting in SignedOut state.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{
		current: SignedOut,
		bus:     b,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition attempts to move to a new state. Returns an error if the
// transition is invalid. Transitioning to the current state is a no-op.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if to == m.current {
		return nil
	}
	allowed := validTransitions[m.current]
	if !slices.Contains(allowed, to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	if m.bus != nil {
		m.bus.Publish(bus.Event{
			Kind:      "session.status_changed",
			Timestamp: time.Now(),
			Payload: StatusChange{
				From: from,
				To:   to,
			},
		})
	}
	return nil
}

// StatusChange is the payload for status change events.
type StatusChange struct {
	From State
	To   State
}
