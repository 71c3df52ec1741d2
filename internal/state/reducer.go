package state

import "github.com/wanderstay/wander-chat/internal/chat"

// State is the chat UI state. Conversations is ordered most recently
// active first and unique by id. Messages belongs to Current only; it is
// not retained per conversation. UnreadCounts is maintained independently
// of the counters embedded in Conversations entries so a full list
// refresh cannot wipe it.
type State struct {
	Conversations []chat.Conversation
	Current       *chat.Conversation
	Messages      []chat.Message
	UnreadCounts  map[string]int
	Loading       bool
	Error         string
}

// reduce applies one action. It never mutates slices or the counts map in
// place; changed collections are rebuilt so snapshots already handed out
// stay stable.
func reduce(s State, a action) State {
	switch a.kind {
	case actionPending:
		s.Loading = true
		s.Error = ""

	case actionRejected:
		s.Loading = false
		s.Error = a.errMsg

	case actionListLoaded:
		// Full refresh: the list is replaced wholesale, including any
		// unread counters projected into prior entries.
		s.Loading = false
		s.Conversations = a.conversations

	case actionCreated:
		s.Loading = false
		conv := a.conversation
		s.Conversations = prependUnique(s.Conversations, conv)
		s.Current = &conv
		s.Messages = a.messages

	case actionContactRefreshed:
		s.Loading = false
		s.Messages = a.messages
		conv := a.conversation
		if s.Current != nil && s.Current.ID == conv.ID {
			// Same conversation: refresh only what the backend owns and
			// keep local-only fields such as UnreadCount.
			cur := *s.Current
			cur.LastMessage = conv.LastMessage
			cur.OtherUser = conv.OtherUser
			s.Current = &cur
		} else {
			s.Current = &conv
		}

	case actionHydrated:
		// Cache hydration never clobbers data from a live refresh.
		if len(s.Conversations) == 0 {
			s.Conversations = a.conversations
		}

	case actionAppendLocal:
		msgs := make([]chat.Message, len(s.Messages), len(s.Messages)+1)
		copy(msgs, s.Messages)
		s.Messages = append(msgs, a.message)

	case actionEditLocal:
		msgs := make([]chat.Message, len(s.Messages))
		copy(msgs, s.Messages)
		for i := range msgs {
			if msgs[i].ID == a.messageID {
				msgs[i].Body = a.body
			}
		}
		s.Messages = msgs

	case actionRemoveLocal:
		msgs := make([]chat.Message, 0, len(s.Messages))
		for _, m := range s.Messages {
			if m.ID != a.messageID {
				msgs = append(msgs, m)
			}
		}
		s.Messages = msgs

	case actionSelect:
		conv := a.conversation
		if s.Current == nil || s.Current.ID != conv.ID {
			// Do not show the previous thread while the fetch for the
			// newly selected conversation is in flight.
			s.Messages = nil
		}
		conv.UnreadCount = 0
		s.Current = &conv
		s.UnreadCounts = withCount(s.UnreadCounts, conv.ID, 0)

	case actionIncrementUnread:
		counts := cloneCounts(s.UnreadCounts)
		counts[a.convID]++
		s.UnreadCounts = counts
	}
	return s
}

// prependUnique removes any entry with the same id and puts conv first.
func prependUnique(convs []chat.Conversation, conv chat.Conversation) []chat.Conversation {
	out := make([]chat.Conversation, 0, len(convs)+1)
	out = append(out, conv)
	for _, c := range convs {
		if c.ID != conv.ID {
			out = append(out, c)
		}
	}
	return out
}

func cloneCounts(counts map[string]int) map[string]int {
	out := make(map[string]int, len(counts)+1)
	for k, v := range counts {
		out[k] = v
	}
	return out
}

func withCount(counts map[string]int, id string, n int) map[string]int {
	out := cloneCounts(counts)
	out[id] = n
	return out
}
