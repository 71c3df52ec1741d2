package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Prompt is a one-line input used to start a new conversation.
type Prompt struct {
	*tview.InputField
	onDone func(text string)
}

// NewPrompt creates a prompt with the given label.
func NewPrompt(theme *Theme, label string) *Prompt {
	input := tview.NewInputField().
		SetLabel(" " + label + ": ").
		SetFieldWidth(0)
	input.SetBorder(true)
	input.SetBorderColor(theme.BorderColor)

	p := &Prompt{InputField: input}

	input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && p.onDone != nil {
			text := p.GetText()
			p.SetText("")
			p.onDone(text)
		}
	})

	return p
}

// SetOnDone sets the callback invoked with the entered text.
func (p *Prompt) SetOnDone(fn func(text string)) {
	p.onDone = fn
}
