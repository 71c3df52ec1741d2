package state

import (
	"context"
	"sync"
	"time"

	"github.com/wanderstay/wander-chat/internal/bus"
	"github.com/wanderstay/wander-chat/internal/chat"
	"go.uber.org/zap"
)

// Backend is the subset of the REST client the store drives.
type Backend interface {
	ListContacts(ctx context.Context, viewerID string) ([]chat.Contact, error)
	CreateContact(ctx context.Context, otherUserID string) (chat.Contact, error)
	GetContact(ctx context.Context, contactID string) (chat.Contact, error)
	SendMessage(ctx context.Context, contactID, body string) (chat.Contact, error)
	EditMessage(ctx context.Context, contactID, messageID, body string) (chat.Contact, error)
	DeleteMessage(ctx context.Context, contactID, messageID string) (chat.Contact, error)
}

// Identity resolves the current viewer id. It is consulted per operation
// so a login or logout mid-session takes effect on the next command.
type Identity interface {
	UserID() string
}

// Store owns the chat UI state. Every mutation flows through the reducer;
// readers get value snapshots. Completion handlers of overlapping
// operations apply their merge rules independently, so across concurrent
// requests the last response to arrive determines the visible state, even
// when responses land out of request order.
type Store struct {
	mu     sync.RWMutex
	state  State
	client Backend
	ident  Identity
	bus    *bus.Bus
	logger *zap.Logger
}

// New creates an empty store.
func New(client Backend, ident Identity, b *bus.Bus, logger *zap.Logger) *Store {
	return &Store{
		state:  State{UnreadCounts: make(map[string]int)},
		client: client,
		ident:  ident,
		bus:    b,
		logger: logger,
	}
}

// State returns a snapshot. The contained slices and map are never
// mutated in place by the reducer, so holding a snapshot across later
// dispatches is safe.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// ViewerID returns the identity all projections are oriented for.
func (s *Store) ViewerID() string {
	return s.ident.UserID()
}

func (s *Store) dispatch(a action) {
	s.mu.Lock()
	s.state = reduce(s.state, a)
	s.mu.Unlock()
	if s.bus != nil {
		s.bus.Publish(bus.Event{Kind: "chat.state_changed", Timestamp: time.Now()})
	}
}

// LoadConversations refreshes the conversation list for the current
// viewer. On failure the previous list is kept and only Error changes.
func (s *Store) LoadConversations(ctx context.Context) error {
	s.dispatch(action{kind: actionPending})
	viewer := s.ident.UserID()

	contacts, err := s.client.ListContacts(ctx, viewer)
	if err != nil {
		s.dispatch(action{kind: actionRejected, errMsg: err.Error()})
		return err
	}

	convs := make([]chat.Conversation, len(contacts))
	for i, c := range contacts {
		convs[i] = chat.Project(c, viewer)
	}
	s.dispatch(action{kind: actionListLoaded, conversations: convs})
	if s.logger != nil {
		s.logger.Debug("conversations loaded", zap.Int("count", len(convs)))
	}
	return nil
}

// StartConversation opens (or reopens) a conversation with another user,
// moves it to the front of the list and makes it current.
func (s *Store) StartConversation(ctx context.Context, otherUserID string) error {
	s.dispatch(action{kind: actionPending})

	contact, err := s.client.CreateContact(ctx, otherUserID)
	if err != nil {
		s.dispatch(action{kind: actionRejected, errMsg: err.Error()})
		return err
	}

	conv, msgs := s.project(contact)
	s.dispatch(action{kind: actionCreated, conversation: conv, messages: msgs})
	return nil
}

// FetchConversation reloads one contact record and merges it under the
// fetch-one rule: messages are replaced; the current conversation is
// merged in place when ids match, replaced otherwise.
func (s *Store) FetchConversation(ctx context.Context, contactID string) error {
	s.dispatch(action{kind: actionPending})

	contact, err := s.client.GetContact(ctx, contactID)
	if err != nil {
		s.dispatch(action{kind: actionRejected, errMsg: err.Error()})
		return err
	}

	conv, msgs := s.project(contact)
	s.dispatch(action{kind: actionContactRefreshed, conversation: conv, messages: msgs})
	return nil
}

// SendMessage appends a message on the backend and merges the returned
// contact exactly like FetchConversation. On failure any optimistic state
// is left untouched; reverting it is the caller's decision.
func (s *Store) SendMessage(ctx context.Context, contactID, body string) error {
	return s.mutate(func() (chat.Contact, error) {
		return s.client.SendMessage(ctx, contactID, body)
	})
}

// EditMessage replaces a message body on the backend.
func (s *Store) EditMessage(ctx context.Context, contactID, messageID, body string) error {
	return s.mutate(func() (chat.Contact, error) {
		return s.client.EditMessage(ctx, contactID, messageID, body)
	})
}

// DeleteMessage removes a message on the backend.
func (s *Store) DeleteMessage(ctx context.Context, contactID, messageID string) error {
	return s.mutate(func() (chat.Contact, error) {
		return s.client.DeleteMessage(ctx, contactID, messageID)
	})
}

func (s *Store) mutate(op func() (chat.Contact, error)) error {
	s.dispatch(action{kind: actionPending})

	contact, err := op()
	if err != nil {
		s.dispatch(action{kind: actionRejected, errMsg: err.Error()})
		return err
	}

	conv, msgs := s.project(contact)
	s.dispatch(action{kind: actionContactRefreshed, conversation: conv, messages: msgs})
	return nil
}

// AppendLocal shows a not-yet-confirmed message in the open thread. It
// touches only Messages, never Conversations or UnreadCounts.
func (s *Store) AppendLocal(m chat.Message) {
	s.dispatch(action{kind: actionAppendLocal, message: m})
}

// EditLocal rewrites a message body in the open thread only.
func (s *Store) EditLocal(messageID, body string) {
	s.dispatch(action{kind: actionEditLocal, messageID: messageID, body: body})
}

// RemoveLocal drops a message from the open thread only.
func (s *Store) RemoveLocal(messageID string) {
	s.dispatch(action{kind: actionRemoveLocal, messageID: messageID})
}

// Select makes a conversation current. Switching to a different id clears
// the visible thread until its fetch lands, and opening a conversation
// zeroes its unread counter.
func (s *Store) Select(conv chat.Conversation) {
	s.dispatch(action{kind: actionSelect, conversation: conv})
}

// IncrementUnread bumps one conversation's unread counter. Driven by the
// background refresh when activity lands on a non-current conversation.
func (s *Store) IncrementUnread(convID string) {
	s.dispatch(action{kind: actionIncrementUnread, convID: convID})
	if s.bus != nil {
		s.bus.Publish(bus.Event{Kind: "chat.unread", Timestamp: time.Now(), Payload: convID})
	}
}

// Hydrate seeds the conversation list from the offline cache. It is a
// no-op once any live data has arrived.
func (s *Store) Hydrate(convs []chat.Conversation) {
	s.dispatch(action{kind: actionHydrated, conversations: convs})
}

func (s *Store) project(c chat.Contact) (chat.Conversation, []chat.Message) {
	viewer := s.ident.UserID()
	_, msgs := chat.Normalize(c, viewer)
	return chat.Project(c, viewer), msgs
}
