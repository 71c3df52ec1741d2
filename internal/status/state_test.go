package status

import (
	"testing"
	"time"

	"github.com/wanderstay/wander-chat/internal/bus"
)

func TestValidTransitionPublishesEvent(t *testing.T) {
	b := bus.New()
	m := NewMachine(b)
	ch, unsub := b.Subscribe("session.", 10)
	defer unsub()

	if err := m.Transition(Online); err != nil {
		t.Fatal(err)
	}
	if m.Current() != Online {
		t.Errorf("Current = %s, want Online", m.Current())
	}

	select {
	case evt := <-ch:
		change, ok := evt.Payload.(StatusChange)
		if !ok || change.From != Starting || change.To != Online {
			t.Errorf("payload = %+v", evt.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("no status event published")
	}
}

func TestInvalidTransitionRejected(t *testing.T) {
	m := NewMachine(nil)
	_ = m.Transition(Online)

	// Online cannot go back to Starting.
	if err := m.Transition(Starting); err == nil {
		t.Error("expected error for Online -> Starting")
	}
	if m.Current() != Online {
		t.Errorf("state changed on rejected transition: %s", m.Current())
	}
}

func TestSelfTransitionIsNoOp(t *testing.T) {
	b := bus.New()
	m := NewMachine(b)
	ch, unsub := b.Subscribe("session.", 10)
	defer unsub()

	if err := m.Transition(Starting); err != nil {
		t.Errorf("self transition = %v, want nil", err)
	}
	select {
	case evt := <-ch:
		t.Errorf("unexpected event for self transition: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestAuthRequiredReachableFromAnywhere(t *testing.T) {
	m := NewMachine(nil)
	_ = m.Transition(Online)
	if err := m.Transition(AuthRequired); err != nil {
		t.Errorf("Online -> AuthRequired: %v", err)
	}
	if err := m.Transition(Offline); err != nil {
		t.Errorf("AuthRequired -> Offline: %v", err)
	}
	if err := m.Transition(AuthRequired); err != nil {
		t.Errorf("Offline -> AuthRequired: %v", err)
	}
}
