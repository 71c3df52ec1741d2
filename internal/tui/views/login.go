package views

import (
	"fmt"

	"github.com/rivo/tview"
)

// LoginView collects credentials when no valid token is present.
type LoginView struct {
	*tview.Flex
	form     *tview.Form
	message  *tview.TextView
	onSubmit func(email, password string)
}

// NewLoginView creates the login form.
func NewLoginView(theme *Theme) *LoginView {
	lv := &LoginView{}

	lv.message = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	lv.form = tview.NewForm().
		AddInputField("Email", "", 40, nil, nil).
		AddPasswordField("Password", "", 40, '*', nil).
		AddButton("Sign in", func() {
			email := lv.form.GetFormItemByLabel("Email").(*tview.InputField).GetText()
			password := lv.form.GetFormItemByLabel("Password").(*tview.InputField).GetText()
			if lv.onSubmit != nil {
				lv.onSubmit(email, password)
			}
		})
	lv.form.SetBorder(true)
	lv.form.SetBorderColor(theme.BorderColor)
	lv.form.SetTitle(" Sign in to Wander ")
	lv.form.SetTitleColor(theme.TitleColor)

	lv.Flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			AddItem(nil, 0, 1, false).
			AddItem(lv.form, 60, 0, true).
			AddItem(nil, 0, 1, false), 11, 0, true).
		AddItem(lv.message, 1, 0, false).
		AddItem(nil, 0, 1, false)

	return lv
}

// SetOnSubmit sets the callback invoked with the entered credentials.
func (lv *LoginView) SetOnSubmit(fn func(email, password string)) {
	lv.onSubmit = fn
}

// ShowMessage displays a status line under the form.
func (lv *LoginView) ShowMessage(msg string) {
	lv.message.Clear()
	_, _ = fmt.Fprintf(lv.message, "[yellow]%s[-]", tview.Escape(msg))
}

// Form exposes the form for focus handling.
func (lv *LoginView) Form() *tview.Form {
	return lv.form
}
