package bus

import "time"

// Event represents a domain event published on the bus. Kind is a
// dot-separated name; subscribers filter by namespace prefix.
//
// Kinds in use:
//
//	chat.state_changed     store state changed (no payload; subscribers
//	                       re-read the store)
//	chat.unread            unread counter bumped (payload: conversation id)
//	session.status_changed connectivity state transition (payload:
//	                       status.StatusChange)
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
