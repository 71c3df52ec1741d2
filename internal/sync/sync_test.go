package sync

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/wanderstay/wander-chat/internal/bus"
	"github.com/wanderstay/wander-chat/internal/cache"
	"github.com/wanderstay/wander-chat/internal/chat"
	"github.com/wanderstay/wander-chat/internal/state"
	"github.com/wanderstay/wander-chat/internal/status"
)

type fakeIdentity string

func (f fakeIdentity) UserID() string { return string(f) }

// fakeBackend serves a single mutable contact.
type fakeBackend struct {
	contact chat.Contact
	listErr error
}

func (f *fakeBackend) ListContacts(context.Context, string) ([]chat.Contact, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []chat.Contact{f.contact}, nil
}

func (f *fakeBackend) CreateContact(context.Context, string) (chat.Contact, error) {
	return f.contact, nil
}

func (f *fakeBackend) GetContact(context.Context, string) (chat.Contact, error) {
	return f.contact, nil
}

func (f *fakeBackend) SendMessage(context.Context, string, string) (chat.Contact, error) {
	return f.contact, nil
}

func (f *fakeBackend) EditMessage(context.Context, string, string, string) (chat.Contact, error) {
	return f.contact, nil
}

func (f *fakeBackend) DeleteMessage(context.Context, string, string) (chat.Contact, error) {
	return f.contact, nil
}

func (f *fakeBackend) appendIncoming(body string, at time.Time) {
	f.contact.Messages = append(f.contact.Messages, chat.StoredMessage{
		ID:        fmt.Sprintf("m%d", len(f.contact.Messages)+1),
		Side:      chat.SideContact,
		Body:      body,
		CreatedAt: at,
	})
}

func seededBackend() *fakeBackend {
	f := &fakeBackend{contact: chat.Contact{
		ID:          "c1",
		User:        chat.Participant{ID: "u1"},
		ContactUser: chat.Participant{ID: "u2", FirstName: "Bruno"},
	}}
	f.appendIncoming("first", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	return f
}

type fixedSource struct {
	st state.State
}

func (f *fixedSource) State() state.State { return f.st }

func testCache(t *testing.T) *cache.DB {
	t.Helper()
	db, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestWriterPersistsOnStoreEvents(t *testing.T) {
	db := testCache(t)
	b := bus.New()

	last := chat.Message{ID: "m1", Role: chat.RoleTheirs, Body: "hi", CreatedAt: time.Now()}
	cur := chat.Conversation{ID: "c1", ContactID: "c1", OtherUser: chat.Participant{ID: "u2"}, LastMessage: &last}
	source := &fixedSource{st: state.State{
		Conversations: []chat.Conversation{cur},
		Current:       &cur,
		Messages:      []chat.Message{last},
	}}

	w := NewWriter(db, source, b, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	b.Publish(bus.Event{Kind: "chat.state_changed", Timestamp: time.Now()})

	deadline := time.After(2 * time.Second)
	for {
		count, err := db.ConversationCount()
		if err != nil {
			t.Fatal(err)
		}
		if count == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("conversation never reached the cache")
		case <-time.After(10 * time.Millisecond):
		}
	}

	msgs, err := db.ListMessages("c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 || msgs[0].Body != "hi" {
		t.Errorf("cached thread = %+v", msgs)
	}
}

func TestWriterSkipsEmptyThreadSnapshots(t *testing.T) {
	db := testCache(t)

	cur := chat.Conversation{ID: "c1"}
	w := NewWriter(db, &fixedSource{st: state.State{Current: &cur}}, bus.New(), nil)

	if err := db.ReplaceMessages("c1", []chat.Message{{ID: "m1", Role: chat.RoleMine, Body: "keep me"}}); err != nil {
		t.Fatal(err)
	}
	w.persist()

	msgs, err := db.ListMessages("c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 {
		t.Error("empty in-flight snapshot wiped the cached thread")
	}
}

func TestPollerIncrementsUnreadForBackgroundActivity(t *testing.T) {
	backend := seededBackend()
	store := state.New(backend, fakeIdentity("u1"), bus.New(), nil)
	machine := status.NewMachine(nil)
	p := NewPoller(store, machine, nil)

	ctx := context.Background()
	p.tick(ctx)
	if machine.Current() != status.Online {
		t.Errorf("state = %s, want Online", machine.Current())
	}
	if got := store.State().UnreadCounts["c1"]; got != 0 {
		t.Fatalf("first sighting incremented unread: %d", got)
	}

	backend.appendIncoming("anyone there?", time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC))
	p.tick(ctx)

	if got := store.State().UnreadCounts["c1"]; got != 1 {
		t.Errorf("UnreadCounts[c1] = %d, want 1", got)
	}
}

func TestPollerSkipsCurrentConversation(t *testing.T) {
	backend := seededBackend()
	store := state.New(backend, fakeIdentity("u1"), bus.New(), nil)
	p := NewPoller(store, status.NewMachine(nil), nil)

	ctx := context.Background()
	p.tick(ctx)
	store.Select(store.State().Conversations[0])

	backend.appendIncoming("still open", time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC))
	p.tick(ctx)

	if got := store.State().UnreadCounts["c1"]; got != 0 {
		t.Errorf("UnreadCounts[c1] = %d, want 0 for the open conversation", got)
	}
}

func TestPollerGoesOfflineOnFailure(t *testing.T) {
	backend := seededBackend()
	store := state.New(backend, fakeIdentity("u1"), bus.New(), nil)
	machine := status.NewMachine(nil)
	p := NewPoller(store, machine, nil)

	backend.listErr = errors.New("connection refused")
	p.tick(context.Background())

	if machine.Current() != status.Offline {
		t.Errorf("state = %s, want Offline", machine.Current())
	}
}
