package chat

import (
	"strings"
	"time"
)

// AuthorSide tags which fixed side of a Contact authored a stored message.
// The backend writes "me" for messages authored by the owner side (the
// participant who created the contact) and "other" for the invited side.
// The tag says nothing about the current viewer; Normalize produces the
// viewer-relative Role from it.
type AuthorSide string

const (
	SideOwner   AuthorSide = "me"
	SideContact AuthorSide = "other"
)

// Role is the viewer-relative authorship tag produced by Normalize.
// RoleMine means the current viewer authored the message.
type Role string

const (
	RoleMine   Role = "me"
	RoleTheirs Role = "other"
)

// Participant is one side of a Contact.
type Participant struct {
	ID        string
	FirstName string
	LastName  string
	Avatar    string
}

// DisplayName returns the participant's full name, falling back to the id.
func (p Participant) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.ID
	}
	return name
}

// StoredMessage is a message exactly as the backend stores it, tagged with
// the authoring side of the contact pair.
type StoredMessage struct {
	ID        string
	Side      AuthorSide
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message is a viewer-relative message.
type Message struct {
	ID        string
	Role      Role
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Contact is the backend's bidirectional conversation record. User is the
// side that created the contact, ContactUser the invited side; the pairing
// is fixed at creation and never swaps. Messages are in chronological
// order, append-only from the backend's perspective.
type Contact struct {
	ID          string
	User        Participant
	ContactUser Participant
	Messages    []StoredMessage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Conversation is the derived, viewer-relative projection of a Contact
// consumed by the UI. It is never persisted back to the backend.
// UnreadCount is a local-only counter, not backend state.
type Conversation struct {
	ID          string
	ContactID   string
	OtherUser   Participant
	LastMessage *Message
	UnreadCount int
	CreatedAt   time.Time
}
