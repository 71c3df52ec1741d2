package chat

// Normalize orients a Contact for one viewer: it returns the participant
// who is not the viewer and a fresh message slice whose roles are
// viewer-relative. The input contact is never mutated, so repeated calls
// cannot double-flip roles.
//
// When viewerID matches neither side (stale token, or identity not yet
// resolved) the non-owner branch applies. That keeps the transform total;
// it is not an authorization check, the backend enforces access on every
// request.
func Normalize(c Contact, viewerID string) (Participant, []Message) {
	ownerView := viewerID != "" && viewerID == c.User.ID

	other := c.User
	if ownerView {
		other = c.ContactUser
	}

	msgs := make([]Message, len(c.Messages))
	for i, m := range c.Messages {
		msgs[i] = Message{
			ID:        m.ID,
			Role:      roleFor(m.Side, ownerView),
			Body:      m.Body,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		}
	}
	return other, msgs
}

// roleFor maps a stored author side to the viewer-relative role. On the
// owner's view owner-side messages are "mine"; on the contact's view the
// mapping flips.
func roleFor(side AuthorSide, ownerView bool) Role {
	if ownerView == (side == SideOwner) {
		return RoleMine
	}
	return RoleTheirs
}
