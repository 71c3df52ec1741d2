package chat

// Project derives the conversation summary a viewer sees for a Contact.
// It is a pure function of (contact, viewerID): LastMessage is the final
// normalized message or nil when the contact has none, and UnreadCount
// always starts at zero because unread tracking is local bookkeeping, not
// something inferred from message content.
func Project(c Contact, viewerID string) Conversation {
	other, msgs := Normalize(c, viewerID)

	conv := Conversation{
		ID:        c.ID,
		ContactID: c.ID,
		OtherUser: other,
		CreatedAt: c.CreatedAt,
	}
	if len(msgs) > 0 {
		last := msgs[len(msgs)-1]
		conv.LastMessage = &last
	}
	return conv
}
