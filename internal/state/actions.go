package state

import "github.com/wanderstay/wander-chat/internal/chat"

type actionKind int

const (
	// Network operation lifecycle. Every backend command dispatches
	// pending first, then exactly one of the loaded kinds or rejected.
	actionPending actionKind = iota
	actionRejected
	actionListLoaded
	actionCreated
	actionContactRefreshed

	// Local-only transitions.
	actionHydrated
	actionAppendLocal
	actionEditLocal
	actionRemoveLocal
	actionSelect
	actionIncrementUnread
)

// action is a single store transition consumed by reduce.
type action struct {
	kind actionKind

	errMsg        string
	conversations []chat.Conversation
	conversation  chat.Conversation
	messages      []chat.Message
	message       chat.Message
	messageID     string
	body          string
	convID        string
}
