package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/wanderstay/wander-chat/internal/chat"
)

// ConversationList is the main conversation table.
type ConversationList struct {
	*tview.Table
	theme  *Theme
	convs  []chat.Conversation
	filter string
}

// NewConversationList creates a new conversation list table.
func NewConversationList(theme *Theme) *ConversationList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitle(" Conversations ")
	table.SetTitleColor(theme.TitleColor)

	return &ConversationList{
		Table: table,
		theme: theme,
	}
}

// Update refreshes the table with new data.
func (cl *ConversationList) Update(convs []chat.Conversation) {
	cl.convs = convs
	cl.render()
}

// SetFilter sets the active filter text and re-renders.
func (cl *ConversationList) SetFilter(filter string) {
	cl.filter = filter
	cl.render()
}

// ClearFilter clears the active filter.
func (cl *ConversationList) ClearFilter() {
	cl.filter = ""
	cl.render()
}

func (cl *ConversationList) render() {
	cl.Clear()

	headers := []struct {
		text string
		exp  int
	}{
		{" NAME", 1},
		{" LAST MESSAGE", 2},
		{" TIME", 0},
	}
	for col, h := range headers {
		cell := tview.NewTableCell(h.text).
			SetSelectable(false).
			SetTextColor(cl.theme.TableHeaderFg).
			SetBackgroundColor(cl.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(h.exp)
		cl.SetCell(0, col, cell)
	}

	row := 1
	for _, c := range cl.convs {
		name := c.OtherUser.DisplayName()
		preview := ""
		var lastAt time.Time
		if c.LastMessage != nil {
			preview = c.LastMessage.Body
			lastAt = c.LastMessage.CreatedAt
		}

		if !cl.matchesFilter(c) {
			continue
		}

		nameColor := cl.theme.FgColor
		if c.UnreadCount > 0 {
			name = fmt.Sprintf("(%d) %s", c.UnreadCount, name)
			nameColor = cl.theme.UnreadColor
		}

		cl.SetCell(row, 0, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(name))).SetExpansion(1).SetTextColor(nameColor))
		cl.SetCell(row, 1, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(preview))).SetExpansion(2).SetTextColor(cl.theme.FgColor))
		cl.SetCell(row, 2, tview.NewTableCell(formatTimestamp(lastAt)).SetExpansion(0).SetTextColor(cl.theme.FgColor).SetAlign(tview.AlignRight))
		row++
	}

	if cl.filter != "" {
		cl.SetTitle(fmt.Sprintf(" Conversations (%d/%d) filter: %s ", row-1, len(cl.convs), cl.filter))
	} else {
		cl.SetTitle(fmt.Sprintf(" Conversations (%d) ", len(cl.convs)))
	}
}

func (cl *ConversationList) matchesFilter(c chat.Conversation) bool {
	if cl.filter == "" {
		return true
	}
	preview := ""
	if c.LastMessage != nil {
		preview = c.LastMessage.Body
	}
	return containsFold(c.OtherUser.DisplayName(), cl.filter) || containsFold(preview, cl.filter)
}

// Selected returns the currently selected conversation.
func (cl *ConversationList) Selected() (chat.Conversation, bool) {
	row, _ := cl.GetSelection()
	idx := row - 1 // account for header
	if idx < 0 {
		return chat.Conversation{}, false
	}

	visible := 0
	for _, c := range cl.convs {
		if !cl.matchesFilter(c) {
			continue
		}
		if visible == idx {
			return c, true
		}
		visible++
	}
	return chat.Conversation{}, false
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("01/02")
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
