package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/rivo/tview"
	"github.com/wanderstay/wander-chat/internal/api"
	"github.com/wanderstay/wander-chat/internal/bus"
	"github.com/wanderstay/wander-chat/internal/chat"
	"github.com/wanderstay/wander-chat/internal/identity"
	"github.com/wanderstay/wander-chat/internal/state"
	"github.com/wanderstay/wander-chat/internal/status"
	"github.com/wanderstay/wander-chat/internal/tui/keys"
	"github.com/wanderstay/wander-chat/internal/tui/model"
	"github.com/wanderstay/wander-chat/internal/tui/views"
)

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	pages    *tview.Pages
	store    *state.Store
	client   *api.Client
	creds    *identity.Store
	machine  *status.Machine
	events   *bus.Bus
	registry *keys.Registry
	flash    *model.Flash

	statusBar *views.StatusBar
	convList  *views.ConversationList
	msgView   *views.MessageView
	composer  *views.Composer
	loginView *views.LoginView
	newPrompt *views.Prompt

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(store *state.Store, client *api.Client, creds *identity.Store, machine *status.Machine, events *bus.Bus, profileName string) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := views.DefaultTheme()

	a := &App{
		app:       tview.NewApplication(),
		pages:     tview.NewPages(),
		store:     store,
		client:    client,
		creds:     creds,
		machine:   machine,
		events:    events,
		registry:  keys.NewRegistry(),
		flash:     &model.Flash{},
		statusBar: views.NewStatusBar(),
		convList:  views.NewConversationList(theme),
		msgView:   views.NewMessageView(),
		composer:  views.NewComposer(),
		loginView: views.NewLoginView(theme),
		newPrompt: views.NewPrompt(theme, "User ID"),
		ctx:       ctx,
		cancel:    cancel,
	}

	a.statusBar.SetProfile(profileName)
	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupBindings() {
	a.registry.AddPage("conversations", "quit", &keys.Action{
		Rune: 'q', Key: tcell.KeyRune,
		Description: "q:quit", Visible: true,
		Handler: func() { a.app.Stop() },
	})
	a.registry.AddPage("conversations", "new", &keys.Action{
		Rune: 'n', Key: tcell.KeyRune,
		Description: "n:new", Visible: true,
		Handler: func() { a.showNewPrompt() },
	})
	a.registry.AddPage("conversations", "refresh", &keys.Action{
		Rune: 'r', Key: tcell.KeyRune,
		Description: "r:refresh", Visible: true,
		Handler: func() { go func() { _ = a.store.LoadConversations(a.ctx) }() },
	})
}

func (a *App) setupCallbacks() {
	a.convList.SetSelectedFunc(func(row, col int) {
		if conv, ok := a.convList.Selected(); ok {
			a.openConversation(conv)
		}
	})

	a.composer.SetOnSend(func(text string) {
		st := a.store.State()
		if st.Current == nil {
			return
		}
		contactID := st.Current.ContactID

		// Show the message immediately; the confirmed thread from the
		// send response replaces it wholesale.
		a.store.AppendLocal(chat.Message{
			ID:        uuid.New().String(),
			Role:      chat.RoleMine,
			Body:      text,
			CreatedAt: time.Now(),
		})
		go func() {
			if err := a.store.SendMessage(a.ctx, contactID, text); err != nil {
				a.flash.Set(err.Error(), 5*time.Second)
			}
		}()
	})

	a.newPrompt.SetOnDone(func(userID string) {
		if userID == "" {
			a.showConversations()
			return
		}
		go func() {
			if err := a.store.StartConversation(a.ctx, userID); err != nil {
				a.flash.Set(err.Error(), 5*time.Second)
				return
			}
			st := a.store.State()
			a.app.QueueUpdateDraw(func() {
				if st.Current != nil {
					a.msgView.SetConversation(st.Current.OtherUser.DisplayName())
				}
				a.msgView.Update(st.Messages)
				a.pages.SwitchToPage("thread")
				a.app.SetFocus(a.composer.InputField)
			})
		}()
	})

	a.loginView.SetOnSubmit(func(email, password string) {
		a.loginView.ShowMessage("Signing in...")
		go func() {
			token, err := a.client.Login(a.ctx, email, password)
			if err != nil {
				a.app.QueueUpdateDraw(func() {
					a.loginView.ShowMessage(err.Error())
				})
				return
			}
			if err := a.creds.Save(token); err != nil {
				a.app.QueueUpdateDraw(func() {
					a.loginView.ShowMessage("Could not store credentials: " + err.Error())
				})
				return
			}
			_ = a.machine.Transition(status.Online)
			_ = a.store.LoadConversations(a.ctx)
			a.app.QueueUpdateDraw(func() {
				a.showConversations()
			})
		}()
	})
}

func (a *App) setupLayout() {
	threadFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.msgView, 0, 1, false).
		AddItem(a.composer, 1, 0, false)

	a.pages.AddPage("conversations", a.convList, true, true)
	a.pages.AddPage("thread", threadFlex, true, false)
	a.pages.AddPage("new", a.newPrompt, true, false)
	a.pages.AddPage("login", a.loginView, true, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		currentPage, _ := a.pages.GetFrontPage()

		if event.Key() == tcell.KeyEscape {
			switch currentPage {
			case "thread", "new":
				a.showConversations()
				return nil
			}
		}

		// Let text input widgets handle all keys normally.
		focused := a.app.GetFocus()
		if _, ok := focused.(*tview.InputField); ok {
			return event
		}

		// 'i' focuses the composer (only when not already in an input field).
		if currentPage == "thread" && event.Key() == tcell.KeyRune && event.Rune() == 'i' {
			a.app.SetFocus(a.composer.InputField)
			return nil
		}

		if a.registry.HandleEvent(currentPage, event) {
			return nil
		}

		return event
	})
}

func (a *App) openConversation(conv chat.Conversation) {
	a.store.Select(conv)
	go func() {
		if err := a.store.FetchConversation(a.ctx, conv.ContactID); err != nil {
			a.flash.Set(err.Error(), 5*time.Second)
			return
		}
		st := a.store.State()
		a.app.QueueUpdateDraw(func() {
			a.msgView.SetConversation(conv.OtherUser.DisplayName())
			a.msgView.Update(st.Messages)
			a.pages.SwitchToPage("thread")
			a.app.SetFocus(a.msgView)
		})
	}()
}

func (a *App) showConversations() {
	a.convList.Update(displayConversations(a.store.State()))
	a.pages.SwitchToPage("conversations")
	a.app.SetFocus(a.convList)
}

// displayConversations overlays the session-local unread counters onto the
// projected list, which always carries zero counts after a refresh.
func displayConversations(st state.State) []chat.Conversation {
	out := make([]chat.Conversation, len(st.Conversations))
	copy(out, st.Conversations)
	for i := range out {
		if n, ok := st.UnreadCounts[out[i].ID]; ok {
			out[i].UnreadCount = n
		}
	}
	return out
}

func (a *App) showNewPrompt() {
	a.pages.SwitchToPage("new")
	a.app.SetFocus(a.newPrompt.InputField)
}

func (a *App) showLogin() {
	a.pages.SwitchToPage("login")
	a.app.SetFocus(a.loginView.Form())
}

// render reflects the current store and connectivity state into whatever
// page is visible. Must run on the UI goroutine.
func (a *App) render() {
	st := a.store.State()
	currentPage, _ := a.pages.GetFrontPage()

	switch currentPage {
	case "conversations":
		a.convList.Update(displayConversations(st))
	case "thread":
		if st.Current != nil {
			a.msgView.SetConversation(st.Current.OtherUser.DisplayName())
		}
		a.msgView.Update(st.Messages)
	}

	a.statusBar.SetStatus(string(a.machine.Current()))
	if st.Error != "" {
		a.statusBar.SetFlash(st.Error)
	} else {
		a.statusBar.SetFlash(a.flash.Get())
	}
}

// watchEvents repaints on store and connectivity changes.
func (a *App) watchEvents() {
	stateCh, unsubState := a.events.Subscribe("chat.", 64)
	statusCh, unsubStatus := a.events.Subscribe("session.", 16)

	go func() {
		defer unsubState()
		defer unsubStatus()
		for {
			select {
			case <-stateCh:
				a.app.QueueUpdateDraw(a.render)
			case ev := <-statusCh:
				change, ok := ev.Payload.(status.StatusChange)
				a.app.QueueUpdateDraw(func() {
					a.render()
					if ok && change.To == status.AuthRequired {
						a.showLogin()
					}
				})
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	a.watchEvents()

	go func() {
		if a.creds.Token() == "" {
			_ = a.machine.Transition(status.AuthRequired)
			a.app.QueueUpdateDraw(func() { a.showLogin() })
			return
		}
		if err := a.store.LoadConversations(a.ctx); err != nil {
			a.flash.Set(err.Error(), 5*time.Second)
		}
		a.app.QueueUpdateDraw(a.render)
	}()

	return a.app.Run()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}
