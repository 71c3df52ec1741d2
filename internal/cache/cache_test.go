package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/wanderstay/wander-chat/internal/chat"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := testDB(t)

	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed {
		t.Error("second Migrate() should report Changed=false")
	}
	if result.Version != 1 {
		t.Errorf("version = %d, want 1", result.Version)
	}
}

func TestConversationRoundTrip(t *testing.T) {
	db := testDB(t)
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	last := chat.Message{ID: "m2", Role: chat.RoleTheirs, Body: "see you soon", CreatedAt: at}
	convs := []chat.Conversation{
		{
			ID:          "c1",
			ContactID:   "c1",
			OtherUser:   chat.Participant{ID: "u2", FirstName: "Bruno", LastName: "Lima"},
			LastMessage: &last,
			CreatedAt:   at.Add(-time.Hour),
		},
		{
			ID:        "c2",
			ContactID: "c2",
			OtherUser: chat.Participant{ID: "u3"},
			CreatedAt: at.Add(-2 * time.Hour),
		},
	}
	if err := db.UpsertConversations(convs); err != nil {
		t.Fatal(err)
	}

	got, err := db.ListConversations()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d conversations, want 2", len(got))
	}
	// c1 has the more recent activity.
	if got[0].ID != "c1" {
		t.Errorf("first = %q, want c1", got[0].ID)
	}
	if got[0].OtherUser.DisplayName() != "Bruno Lima" {
		t.Errorf("other user = %q", got[0].OtherUser.DisplayName())
	}
	if got[0].LastMessage == nil || got[0].LastMessage.Body != "see you soon" {
		t.Errorf("last message = %+v", got[0].LastMessage)
	}
	if got[1].LastMessage != nil {
		t.Error("conversation without messages gained a LastMessage")
	}
	// Unread counts are session-local and never come back from the cache.
	if got[0].UnreadCount != 0 {
		t.Errorf("UnreadCount = %d, want 0", got[0].UnreadCount)
	}
}

func TestUpsertConversationsOverwrites(t *testing.T) {
	db := testDB(t)

	conv := chat.Conversation{ID: "c1", OtherUser: chat.Participant{ID: "u2", FirstName: "Old"}}
	if err := db.UpsertConversations([]chat.Conversation{conv}); err != nil {
		t.Fatal(err)
	}
	conv.OtherUser.FirstName = "New"
	if err := db.UpsertConversations([]chat.Conversation{conv}); err != nil {
		t.Fatal(err)
	}

	got, err := db.ListConversations()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].OtherUser.FirstName != "New" {
		t.Errorf("got %+v, want one conversation with updated name", got)
	}
}

func TestReplaceMessages(t *testing.T) {
	db := testDB(t)
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first := []chat.Message{
		{ID: "m1", Role: chat.RoleMine, Body: "one", CreatedAt: at},
		{ID: "m2", Role: chat.RoleTheirs, Body: "two", CreatedAt: at.Add(time.Minute)},
	}
	if err := db.ReplaceMessages("c1", first); err != nil {
		t.Fatal(err)
	}

	// A refresh that dropped m1 (deleted remotely) must not leave it behind.
	second := []chat.Message{
		{ID: "m2", Role: chat.RoleTheirs, Body: "two", CreatedAt: at.Add(time.Minute)},
		{ID: "m3", Role: chat.RoleMine, Body: "three", CreatedAt: at.Add(2 * time.Minute)},
	}
	if err := db.ReplaceMessages("c1", second); err != nil {
		t.Fatal(err)
	}

	got, err := db.ListMessages("c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d messages, want 2", len(got))
	}
	if got[0].ID != "m2" || got[1].ID != "m3" {
		t.Errorf("messages = %+v", got)
	}
	if got[1].Role != chat.RoleMine {
		t.Errorf("role = %q, want mine", got[1].Role)
	}
	if got[0].UpdatedAt != (time.Time{}) {
		t.Errorf("UpdatedAt = %v, want zero", got[0].UpdatedAt)
	}
}
