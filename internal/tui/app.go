// Package tui is the terminal client shell. It wires the view model and
// the event bus into tview pages: login, conversation list, message
// thread, friend suggestions and profile.
package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/SarahGBoland/FriendSnap/internal/api"
	"github.com/SarahGBoland/FriendSnap/internal/bus"
	"github.com/SarahGBoland/FriendSnap/internal/status"
	"github.com/SarahGBoland/FriendSnap/internal/tui/model"
	"github.com/SarahGBoland/FriendSnap/internal/tui/views"
)

// App is the main TUI application shell.
type App struct {
	app         *tview.Application
	pages       *tview.Pages
	vm          *model.ViewModel
	bus         *bus.Bus
	statusBar   *views.StatusBar
	loginView   *views.LoginView
	convoList   *views.ConversationList
	msgThread   *views.MessageThread
	composer    *views.Composer
	suggestions *views.SuggestionList
	profile     *views.ProfileView
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(vm *model.ViewModel, b *bus.Bus, sessionName string) *App {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		app:         tview.NewApplication(),
		pages:       tview.NewPages(),
		vm:          vm,
		bus:         b,
		statusBar:   views.NewStatusBar(),
		loginView:   views.NewLoginView(),
		convoList:   views.NewConversationList(),
		msgThread:   views.NewMessageThread(),
		composer:    views.NewComposer(),
		suggestions: views.NewSuggestionList(),
		profile:     views.NewProfileView(),
		ctx:         ctx,
		cancel:      cancel,
	}

	a.statusBar.SetSession(sessionName)
	a.statusBar.SetStatus(string(status.SignedOut))
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupCallbacks() {
	a.loginView.SetOnLogin(func(nickname, password string) {
		go func() {
			if err := a.vm.Login(a.ctx, nickname, password); err != nil {
				a.app.QueueUpdateDraw(func() {
					a.loginView.ShowMessage("[red]Login failed: " + err.Error())
				})
				return
			}
			a.enterApp()
		}()
	})

	a.loginView.SetOnRegister(func(nickname, avatarURL, password string) {
		go func() {
			if err := a.vm.Register(a.ctx, nickname, avatarURL, password); err != nil {
				a.app.QueueUpdateDraw(func() {
					a.loginView.ShowMessage("[red]Registration failed: " + err.Error())
				})
				return
			}
			a.enterApp()
		}()
	})

	a.convoList.SetSelectedFunc(func(row, col int) {
		partnerID := a.convoList.SelectedPartner()
		if partnerID != "" {
			a.openConversation(partnerID)
		}
	})

	a.suggestions.SetSelectedFunc(func(row, col int) {
		userID := a.suggestions.SelectedUser()
		if userID != "" {
			a.openConversation(userID)
		}
	})

	a.composer.SetOnSend(func(text string) {
		if err := a.vm.SendText(text); err != nil {
			a.vm.Flash.Set("Send failed: "+err.Error(), 5*time.Second)
		}
		a.msgThread.Update(a.vm.ThreadEntries())
		a.statusBar.SetFlash(a.vm.Flash.Get())
	})
}

func (a *App) setupLayout() {
	threadFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.msgThread, 0, 1, false).
		AddItem(a.composer, 1, 0, false)

	a.pages.AddPage("login", a.loginView, true, true)
	a.pages.AddPage("conversations", a.convoList, true, false)
	a.pages.AddPage("thread", threadFlex, true, false)
	a.pages.AddPage("suggestions", a.suggestions, true, false)
	a.pages.AddPage("profile", a.profile, true, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)
	a.app.SetInputCapture(a.handleKey)
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	currentPage, _ := a.pages.GetFrontPage()

	if event.Key() == tcell.KeyEscape {
		switch currentPage {
		case "thread":
			a.vm.CloseConversation()
			a.showConversations()
			return nil
		case "suggestions", "profile":
			a.showConversations()
			return nil
		}
	}

	// Let text input widgets handle all keys normally.
	focused := a.app.GetFocus()
	if _, ok := focused.(*tview.InputField); ok {
		return event
	}
	if currentPage == "login" {
		return event
	}

	if event.Key() == tcell.KeyRune {
		switch event.Rune() {
		case 'q':
			a.Stop()
			return nil
		case 's':
			a.showSuggestions()
			return nil
		case 'p':
			a.profile.Show(a.vm.Self())
			a.pages.SwitchToPage("profile")
			return nil
		}

		switch currentPage {
		case "thread":
			switch event.Rune() {
			case 'i':
				a.app.SetFocus(a.composer.InputField)
				return nil
			case 'r':
				a.reportPartner()
				return nil
			case 'b':
				a.blockPartner()
				return nil
			}
		case "suggestions":
			if event.Rune() == 'f' {
				a.sendFriendRequest()
				return nil
			}
		}
	}

	return event
}

// enterApp is called after a successful login or session restore.
func (a *App) enterApp() {
	a.vm.LoadCachedConversations()
	_ = a.vm.RefreshConversations(a.ctx)
	a.app.QueueUpdateDraw(func() {
		if self := a.vm.Self(); self != nil {
			a.msgThread.SetSelfID(self.ID)
		}
		a.convoList.Update(a.vm.Conversations())
		a.showConversations()
	})
}

func (a *App) showConversations() {
	a.pages.SwitchToPage("conversations")
	a.app.SetFocus(a.convoList)
}

func (a *App) showSuggestions() {
	go func() {
		if err := a.vm.RefreshSuggestions(a.ctx); err != nil {
			a.vm.Flash.Set("Suggestions failed: "+err.Error(), 5*time.Second)
			return
		}
		a.app.QueueUpdateDraw(func() {
			a.suggestions.Update(a.vm.Suggestions())
			a.pages.SwitchToPage("suggestions")
			a.app.SetFocus(a.suggestions)
		})
	}()
}

func (a *App) openConversation(partnerID string) {
	a.vm.OpenConversation(a.ctx, partnerID)
	a.msgThread.SetPartnerName(partnerID)
	a.msgThread.Update(nil)
	a.pages.SwitchToPage("thread")
	a.app.SetFocus(a.composer.InputField)

	go func() {
		name := a.vm.PartnerDisplayName(a.ctx)
		a.app.QueueUpdateDraw(func() {
			if a.vm.ActivePartnerID() == partnerID {
				a.msgThread.SetPartnerName(name)
			}
		})
	}()
}

func (a *App) reportPartner() {
	go func() {
		err := a.vm.ReportPartner(a.ctx, "inappropriate behavior")
		if err != nil {
			a.vm.Flash.Set("Report failed: "+err.Error(), 5*time.Second)
		} else {
			a.vm.Flash.Set("Report submitted", 3*time.Second)
		}
		a.app.QueueUpdateDraw(func() {
			a.statusBar.SetFlash(a.vm.Flash.Get())
		})
	}()
}

func (a *App) blockPartner() {
	go func() {
		err := a.vm.BlockPartner(a.ctx)
		if err != nil {
			a.vm.Flash.Set("Block failed: "+err.Error(), 5*time.Second)
		} else {
			a.vm.Flash.Set("User blocked", 3*time.Second)
		}
		a.app.QueueUpdateDraw(func() {
			if a.vm.SyncStopped() {
				a.msgThread.SetBlocked()
			}
			a.statusBar.SetFlash(a.vm.Flash.Get())
		})
	}()
}

func (a *App) sendFriendRequest() {
	userID := a.suggestions.SelectedUser()
	if userID == "" {
		return
	}
	go func() {
		err := a.vm.SendFriendRequest(a.ctx, userID)
		if err != nil {
			a.vm.Flash.Set("Friend request failed: "+err.Error(), 5*time.Second)
		} else {
			a.vm.Flash.Set("Friend request sent", 3*time.Second)
		}
		a.app.QueueUpdateDraw(func() {
			a.statusBar.SetFlash(a.vm.Flash.Get())
		})
	}()
}

// Run starts the TUI application.
func (a *App) Run() error {
	a.subscribeEvents()
	a.startRefreshLoop()

	go func() {
		if a.vm.RestoreSession(a.ctx) {
			a.enterApp()
		}
	}()

	return a.app.Run()
}

// subscribeEvents forwards bus events into view updates.
func (a *App) subscribeEvents() {
	threadCh, unsubThread := a.bus.Subscribe("thread.", 32)
	msgCh, unsubMsg := a.bus.Subscribe("message.", 32)
	statusCh, unsubStatus := a.bus.Subscribe("session.", 8)

	go func() {
		defer unsubThread()
		defer unsubMsg()
		defer unsubStatus()
		for {
			select {
			case evt := <-threadCh:
				a.handleThreadEvent(evt)
			case evt := <-msgCh:
				a.handleMessageEvent(evt)
			case evt := <-statusCh:
				if change, ok := evt.Payload.(status.StatusChange); ok {
					a.app.QueueUpdateDraw(func() {
						a.statusBar.SetStatus(string(change.To))
					})
				}
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

func (a *App) handleThreadEvent(evt bus.Event) {
	switch evt.Kind {
	case "thread.updated":
		a.app.QueueUpdateDraw(func() {
			if page, _ := a.pages.GetFrontPage(); page == "thread" {
				a.msgThread.Update(a.vm.ThreadEntries())
			}
		})
	case "thread.send_failed":
		a.vm.Flash.Set("Message not delivered", 5*time.Second)
		a.app.QueueUpdateDraw(func() {
			a.statusBar.SetFlash(a.vm.Flash.Get())
		})
	case "thread.partner_resolved":
		partnerID, _ := evt.Payload.(string)
		go func() {
			name := a.vm.PartnerDisplayName(a.ctx)
			a.app.QueueUpdateDraw(func() {
				if a.vm.ActivePartnerID() == partnerID {
					a.msgThread.SetPartnerName(name)
				}
			})
		}()
	}
}

func (a *App) handleMessageEvent(evt bus.Event) {
	switch p := evt.Payload.(type) {
	case bus.SendAck:
		a.vm.HandleSendAck(p.ClientMsgID, p.ServerMsgID)
	case bus.SendFailure:
		a.vm.HandleSendFailure(p.ClientMsgID)
		a.vm.Flash.Set("Send failed: "+p.Reason, 5*time.Second)
	}
	a.app.QueueUpdateDraw(func() {
		if page, _ := a.pages.GetFrontPage(); page == "thread" {
			a.msgThread.Update(a.vm.ThreadEntries())
		}
		a.statusBar.SetFlash(a.vm.Flash.Get())
	})
}

// startRefreshLoop periodically refreshes the conversation list while it
// is the visible page. The open thread has its own sync loop.
func (a *App) startRefreshLoop() {
	ticker := time.NewTicker(5 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if a.vm.Self() == nil {
					continue
				}
				if page, _ := a.pages.GetFrontPage(); page != "conversations" {
					continue
				}
				if err := a.vm.RefreshConversations(a.ctx); err != nil && api.IsNetwork(err) {
					a.vm.Flash.Set("Offline, showing cached conversations", 5*time.Second)
				}
				a.app.QueueUpdateDraw(func() {
					a.convoList.Update(a.vm.Conversations())
					a.statusBar.SetFlash(a.vm.Flash.Get())
				})
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.vm.CloseConversation()
	a.cancel()
	a.app.Stop()
}
