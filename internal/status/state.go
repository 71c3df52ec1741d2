package status

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/wanderstay/wander-chat/internal/bus"
)

// State represents the client's connectivity state.
type State string

const (
	Starting     State = "STARTING"
	AuthRequired State = "AUTH_REQUIRED"
	Online       State = "ONLINE"
	Offline      State = "OFFLINE"
)

// validTransitions defines allowed state transitions. AuthRequired is
// reachable from anywhere because any request can come back 401.
var validTransitions = map[State][]State{
	Starting:     {AuthRequired, Online, Offline},
	AuthRequired: {Online, Offline},
	Online:       {Offline, AuthRequired},
	Offline:      {Online, AuthRequired},
}

// Machine tracks and enforces connectivity state transitions.
type Machine struct {
	mu      sync.RWMutex
	current State
	bus     *bus.Bus
}

// NewMachine creates a state machine starting in Starting state.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{
		current: Starting,
		bus:     b,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition attempts to move to a new state. Moving to the current state
// is a no-op; an invalid transition returns an error.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if to == m.current {
		return nil
	}
	if !slices.Contains(validTransitions[m.current], to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	if m.bus != nil {
		m.bus.Publish(bus.Event{
			Kind:      "session.status_changed",
			Timestamp: time.Now(),
			Payload:   StatusChange{From: from, To: to},
		})
	}
	return nil
}

// StatusChange is the payload for status change events.
type StatusChange struct {
	From State
	To   State
}
