package chat

import (
	"reflect"
	"testing"
	"time"
)

func testContact() Contact {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return Contact{
		ID:          "c1",
		User:        Participant{ID: "u1", FirstName: "Ana", LastName: "Souza"},
		ContactUser: Participant{ID: "u2", FirstName: "Bruno", LastName: "Lima"},
		Messages: []StoredMessage{
			{ID: "m1", Side: SideOwner, Body: "hello", CreatedAt: base},
			{ID: "m2", Side: SideContact, Body: "hi there", CreatedAt: base.Add(time.Minute)},
			{ID: "m3", Side: SideOwner, Body: "is the room free?", CreatedAt: base.Add(2 * time.Minute)},
		},
		CreatedAt: base,
	}
}

func TestNormalizeOwnerViewPassesRolesThrough(t *testing.T) {
	c := testContact()
	other, msgs := Normalize(c, "u1")

	if other.ID != "u2" {
		t.Errorf("other = %q, want u2", other.ID)
	}
	if len(msgs) != len(c.Messages) {
		t.Fatalf("got %d messages, want %d", len(msgs), len(c.Messages))
	}
	for i, m := range msgs {
		want := RoleTheirs
		if c.Messages[i].Side == SideOwner {
			want = RoleMine
		}
		if m.Role != want {
			t.Errorf("msg %d role = %q, want %q", i, m.Role, want)
		}
	}
}

func TestNormalizeContactViewFlipsRoles(t *testing.T) {
	c := testContact()
	other, msgs := Normalize(c, "u2")

	if other.ID != "u1" {
		t.Errorf("other = %q, want u1", other.ID)
	}
	for i, m := range msgs {
		want := RoleMine
		if c.Messages[i].Side == SideOwner {
			want = RoleTheirs
		}
		if m.Role != want {
			t.Errorf("msg %d role = %q, want %q", i, m.Role, want)
		}
	}
}

// A viewer matching neither side gets the non-owner orientation instead of
// a panic. Stale tokens and not-yet-resolved identity both land here.
func TestNormalizeUnknownViewerUsesContactBranch(t *testing.T) {
	c := testContact()

	for _, viewer := range []string{"", "u999"} {
		other, msgs := Normalize(c, viewer)
		if other.ID != "u1" {
			t.Errorf("viewer %q: other = %q, want u1 (owner shown as other)", viewer, other.ID)
		}
		if msgs[0].Role != RoleTheirs {
			t.Errorf("viewer %q: owner-side message role = %q, want theirs", viewer, msgs[0].Role)
		}
	}
}

func TestNormalizeDoesNotMutateContact(t *testing.T) {
	c := testContact()
	before := make([]StoredMessage, len(c.Messages))
	copy(before, c.Messages)

	_, first := Normalize(c, "u2")
	_, second := Normalize(c, "u2")

	if !reflect.DeepEqual(c.Messages, before) {
		t.Error("Normalize mutated the source contact messages")
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated Normalize calls are not idempotent")
	}
}

func TestNormalizeEmptyContact(t *testing.T) {
	c := testContact()
	c.Messages = nil

	_, msgs := Normalize(c, "u1")
	if len(msgs) != 0 {
		t.Errorf("got %d messages, want 0", len(msgs))
	}
}

// Stored role "other" on a contact viewed by the invited side must read as
// "me": the invited user authored it.
func TestNormalizeInvitedSideSeesOwnMessageAsMine(t *testing.T) {
	c := Contact{
		ID:          "c1",
		User:        Participant{ID: "u1"},
		ContactUser: Participant{ID: "u2"},
		Messages:    []StoredMessage{{ID: "m1", Side: SideContact, Body: "hi"}},
	}

	_, msgs := Normalize(c, "u2")
	if msgs[0].Role != RoleMine {
		t.Errorf("role = %q, want %q", msgs[0].Role, RoleMine)
	}
}

func TestParticipantDisplayName(t *testing.T) {
	tests := []struct {
		p    Participant
		want string
	}{
		{Participant{ID: "u1", FirstName: "Ana", LastName: "Souza"}, "Ana Souza"},
		{Participant{ID: "u1", FirstName: "Ana"}, "Ana"},
		{Participant{ID: "u1"}, "u1"},
	}
	for _, tt := range tests {
		if got := tt.p.DisplayName(); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}
