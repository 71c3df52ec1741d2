package chat

import (
	"reflect"
	"testing"
)

func TestProjectLastMessageMatchesNormalize(t *testing.T) {
	c := testContact()
	conv := Project(c, "u2")

	_, msgs := Normalize(c, "u2")
	if conv.LastMessage == nil {
		t.Fatal("LastMessage is nil for non-empty contact")
	}
	if !reflect.DeepEqual(*conv.LastMessage, msgs[len(msgs)-1]) {
		t.Errorf("LastMessage = %+v, want %+v", *conv.LastMessage, msgs[len(msgs)-1])
	}
}

func TestProjectEmptyContactHasNoLastMessage(t *testing.T) {
	c := testContact()
	c.Messages = nil

	conv := Project(c, "u1")
	if conv.LastMessage != nil {
		t.Errorf("LastMessage = %+v, want nil", conv.LastMessage)
	}
}

func TestProjectInitializesUnreadToZero(t *testing.T) {
	conv := Project(testContact(), "u1")
	if conv.UnreadCount != 0 {
		t.Errorf("UnreadCount = %d, want 0", conv.UnreadCount)
	}
}

func TestProjectDeterministic(t *testing.T) {
	c := testContact()
	a := Project(c, "u2")
	b := Project(c, "u2")
	if !reflect.DeepEqual(a, b) {
		t.Error("Project is not deterministic for identical inputs")
	}
}

func TestProjectIdentityFields(t *testing.T) {
	c := testContact()
	conv := Project(c, "u1")

	if conv.ID != c.ID || conv.ContactID != c.ID {
		t.Errorf("ids = (%q, %q), want both %q", conv.ID, conv.ContactID, c.ID)
	}
	if conv.OtherUser.ID != "u2" {
		t.Errorf("OtherUser = %q, want u2", conv.OtherUser.ID)
	}
	if !conv.CreatedAt.Equal(c.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", conv.CreatedAt, c.CreatedAt)
	}
}
