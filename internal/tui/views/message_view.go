package views

import (
	"fmt"

	"github.com/rivo/tview"
	"github.com/wanderstay/wander-chat/internal/chat"
)

// MessageView displays the open conversation's thread.
type MessageView struct {
	*tview.TextView
	otherName string
}

// NewMessageView creates a new message view.
func NewMessageView() *MessageView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true).SetTitle(" Messages ")

	return &MessageView{TextView: tv}
}

// SetConversation updates the title and the name shown on incoming
// messages.
func (mv *MessageView) SetConversation(otherName string) {
	mv.otherName = otherName
	mv.SetTitle(fmt.Sprintf(" %s ", otherName))
}

// Update re-renders the thread, oldest first.
func (mv *MessageView) Update(msgs []chat.Message) {
	mv.Clear()

	for _, m := range msgs {
		sender := mv.otherName
		if m.Role == chat.RoleMine {
			sender = "You"
		}

		ts := formatTimestamp(m.CreatedAt)
		edited := ""
		if !m.UpdatedAt.IsZero() && m.UpdatedAt.After(m.CreatedAt) {
			edited = " [::d](edited)[-:-:-]"
		}
		line := fmt.Sprintf("[::b]%s[-:-:-] [::d]%s[-:-:-]%s\n%s\n\n",
			tview.Escape(sanitizeForTerminal(sender)), ts, edited, tview.Escape(sanitizeForTerminal(m.Body)))
		_, _ = fmt.Fprint(mv, line)
	}

	mv.ScrollToEnd()
}
