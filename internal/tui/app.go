// Package tui is the terminal client: a chat list, grouped message threads,
// profiles and settings over the client state layer.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/teleclone/internal/bus"
	"github.com/matheus3301/teleclone/internal/client"
	"github.com/matheus3301/teleclone/internal/model"
	"github.com/matheus3301/teleclone/internal/tui/keys"
	"github.com/matheus3301/teleclone/internal/tui/state"
	"github.com/matheus3301/teleclone/internal/tui/ui"
	"github.com/matheus3301/teleclone/internal/tui/views"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

// Page names.
const (
	pageChats   = "chats"
	pageThread  = "thread"
	pageProfile = "profile"
	pageHelp    = "help"
)

const (
	headerRows   = 6
	promptHeight = 3
	flashTick    = time.Second
)

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	client   *client.Client
	vm       *state.ViewModel
	logger   *zap.Logger
	backend  string
	theme    *ui.Theme
	registry *keys.Registry
	flash    *ui.FlashModel

	root     *tview.Flex
	header   *tview.Flex
	pages    *ui.Pages
	prompt   *ui.Prompt
	flashBar *ui.FlashBar
	crumbs   *ui.Crumbs
	menu     *ui.Menu
	logo     *ui.Logo
	info     *ui.ProfileInfo

	list       *views.ConversationList
	thread     *views.MessageThread
	profile    *views.ProfileView
	help       *views.HelpView
	components map[string]ui.Component

	promptActive bool
	ctx          context.Context
	cancel       context.CancelFunc
}

// NewApp creates the TUI over an opened client. backend is shown in the header.
func NewApp(c *client.Client, backend string, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	vm := state.NewViewModel(c.Store, c.Composer)
	vm.Load(ctx)
	theme := ui.ThemeFor(vm.Dark())

	a := &App{
		app:      tview.NewApplication(),
		client:   c,
		vm:       vm,
		logger:   logger,
		backend:  backend,
		theme:    theme,
		registry: keys.NewRegistry(),
		flash:    ui.NewFlashModel(),
		pages:    ui.NewPages(),
		prompt:   ui.NewPrompt(theme),
		flashBar: ui.NewFlashBar(theme),
		crumbs:   ui.NewCrumbs(theme),
		menu:     ui.NewMenu(theme, headerRows),
		logo:     ui.NewLogo(theme),
		info:     ui.NewProfileInfo(theme),
		list:     views.NewConversationList(theme),
		thread:   views.NewMessageThread(theme),
		profile:  views.NewProfileView(theme),
		help:     views.NewHelpView(theme),
		ctx:      ctx,
		cancel:   cancel,
	}
	a.components = map[string]ui.Component{
		pageChats:   a.list,
		pageThread:  a.thread,
		pageProfile: a.profile,
		pageHelp:    a.help,
	}

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()
	a.applyTheme(theme)
	a.refreshChats()

	return a
}

func (a *App) setupBindings() {
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: ':', Description: "Command", Visible: true,
		Handler: func() { a.showPrompt(ui.PromptCommand, "") },
	})
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: '?', Description: "Help", Visible: true,
		Handler: func() { a.pages.Push(pageHelp) },
	})
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: 't', Description: "Theme",
		Handler: a.toggleTheme,
	})
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: 'P', Description: "Profile",
		Handler: a.showOwnProfile,
	})
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: 'q', Description: "Quit", Visible: true,
		Handler: func() {
			if a.pages.Depth() <= 1 {
				a.Stop()
				return
			}
			a.back()
		},
	})

	a.registry.AddView(pageChats, &keys.Action{
		Key: tcell.KeyEnter, Description: "Open",
		Handler: func() { a.openChat(a.list.SelectedChat()) },
	})
	a.registry.AddView(pageChats, &keys.Action{
		Key: tcell.KeyRune, Rune: '/', Description: "Filter",
		Handler: func() { a.showPrompt(ui.PromptFilter, a.list.Filter()) },
	})
	a.registry.AddView(pageChats, &keys.Action{
		Key: tcell.KeyRune, Rune: 'a', Description: "Add contact", Visible: true,
		Handler: func() { a.showPrompt(ui.PromptCommand, "add ") },
	})
	a.registry.AddView(pageChats, &keys.Action{
		Key: tcell.KeyRune, Rune: 'p', Description: "Pin", Visible: true,
		Handler: func() { a.togglePinned(a.list.SelectedChat()) },
	})
	a.registry.AddView(pageChats, &keys.Action{
		Key: tcell.KeyRune, Rune: 'm', Description: "Mute", Visible: true,
		Handler: func() { a.toggleMuted(a.list.SelectedChat()) },
	})
	a.registry.AddView(pageChats, &keys.Action{
		Key: tcell.KeyRune, Rune: 'd', Description: "Details", Visible: true,
		Handler: func() { a.showContact(a.list.SelectedChat()) },
	})
	a.registry.AddView(pageChats, &keys.Action{
		Key: tcell.KeyRune, Rune: '0', Description: "Clear filter",
		Handler: a.list.ClearFilter,
	})
	for n := 1; n <= 9; n++ {
		a.registry.AddView(pageChats, &keys.Action{
			Key: tcell.KeyRune, Rune: rune('0' + n),
			Handler: func() { a.openChat(a.list.ChatByIndex(n)) },
		})
	}

	a.registry.AddView(pageThread, &keys.Action{
		Key: tcell.KeyRune, Rune: 'i', Description: "Compose",
		Handler: func() { a.app.SetFocus(a.thread.Composer()) },
	})
	a.registry.AddView(pageThread, &keys.Action{
		Key: tcell.KeyRune, Rune: 'd', Description: "Details", Visible: true,
		Handler: func() { a.showContact(a.vm.Active()) },
	})
}

func (a *App) setupCallbacks() {
	a.list.SetSelectedFunc(func(row, _ int) {
		a.openChat(a.list.ChatByIndex(row))
	})

	a.thread.SetOnSend(a.sendText)

	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		switch mode {
		case ui.PromptCommand:
			a.execute(ParseCommand(text))
		case ui.PromptFilter:
			a.list.SetFilter(text)
		}
	})
	a.prompt.SetOnCancel(a.hidePrompt)

	a.pages.SetOnChange(func(stack []string) {
		names := make([]string, len(stack))
		for i, page := range stack {
			names[i] = a.components[page].Name()
		}
		a.crumbs.Update(names)
		if len(stack) > 0 {
			a.showPage(stack[len(stack)-1])
		}
	})
}

func (a *App) setupLayout() {
	a.header = tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(a.info, 28, 0, false).
		AddItem(a.menu, 0, 1, false).
		AddItem(a.logo, 16, 0, false)

	for name, c := range a.components {
		a.pages.AddPage(name, c.(tview.Primitive), true, false)
	}

	a.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.header, headerRows, 0, false).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.flashBar, 1, 0, false)

	a.app.SetRoot(a.root, true)
	a.app.SetInputCapture(a.capture)
	a.pages.Reset(pageChats)
}

func (a *App) capture(ev *tcell.EventKey) *tcell.EventKey {
	if a.promptActive {
		return ev
	}
	if a.app.GetFocus() == a.thread.Composer() {
		if ev.Key() == tcell.KeyEscape {
			a.app.SetFocus(a.thread.Messages())
			return nil
		}
		return ev
	}
	if ev.Key() == tcell.KeyEscape {
		a.back()
		return nil
	}
	if a.registry.HandleEvent(a.pages.Current(), ev) {
		return nil
	}
	return ev
}

// showPage refreshes chrome and focus for the page now on top.
func (a *App) showPage(page string) {
	c := a.components[page]
	c.Start()
	a.menu.Update(append(c.Hints(), a.registry.Hints(page)...))
	switch page {
	case pageThread:
		a.app.SetFocus(a.thread.Messages())
	default:
		a.app.SetFocus(c.(tview.Primitive))
	}
}

func (a *App) back() {
	switch a.pages.Current() {
	case pageThread:
		a.closeChat()
	case pageChats:
		if a.list.Filter() != "" {
			a.list.ClearFilter()
		}
		return
	}
	a.pages.Pop()
}

func (a *App) showPrompt(mode ui.PromptMode, text string) {
	a.promptActive = true
	a.prompt.Activate(mode, text)
	a.root.ResizeItem(a.prompt, promptHeight, 0)
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.promptActive = false
	a.root.ResizeItem(a.prompt, 0, 0)
	a.showPage(a.pages.Current())
}

func (a *App) openChat(chatID string) {
	if chatID == "" {
		return
	}
	if active := a.vm.Active(); active != "" && active != chatID {
		a.vm.Close()
	}
	if err := a.vm.Open(a.ctx, chatID); err != nil {
		a.flash.Err(err)
		return
	}
	row, _ := a.vm.Chat(chatID)
	a.thread.SetChat(chatID, row.Title(), row.User.Status)
	a.renderThread()
	a.refreshChats()
	a.pages.Push(pageThread)
}

func (a *App) closeChat() {
	a.thread.Stop()
	a.vm.Close()
}

func (a *App) renderThread() {
	chatID := a.vm.Active()
	if chatID == "" {
		return
	}
	typing := ""
	if id, ok := a.vm.Typing(chatID); ok {
		typing = a.nameOf(id)
	}
	a.thread.SetTyping(typing)
	a.thread.Update(a.vm.Messages(), a.nameOf)
}

func (a *App) nameOf(userID string) string {
	if u, ok := a.vm.User(userID); ok && u.Name != "" {
		return u.Name
	}
	return userID
}

func (a *App) refreshChats() {
	chats := a.vm.Chats()
	a.list.Update(chats)
	me := a.vm.Me()
	a.info.Update(&ui.ProfileData{
		Profile: a.client.Profile,
		Name:    me.Name,
		Backend: a.backend,
		Chats:   len(chats),
		Unread:  a.vm.UnreadTotal(),
		Theme:   a.theme.Name(),
	})
}

// sendText runs the send off the UI goroutine: an assistant round-trip can
// take as long as the proxy timeout. The thread redraws from bus events.
func (a *App) sendText(text string) {
	go func() {
		_, err := a.vm.SendText(a.ctx, text)
		if err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn("send failed", zap.Error(err))
			a.flash.Err(err)
		}
	}()
}

func (a *App) sendVoice(seconds int) {
	go func() {
		if _, err := a.vm.SendVoice(a.ctx, seconds); err != nil {
			a.flash.Err(err)
			return
		}
		a.flash.Info(fmt.Sprintf("Voice message sent (%ds)", seconds))
	}()
}

func (a *App) togglePinned(chatID string) {
	if chatID == "" {
		return
	}
	pinned, err := a.vm.TogglePinned(a.ctx, chatID)
	if err != nil {
		a.flash.Err(err)
		return
	}
	a.refreshChats()
	if pinned {
		a.flash.Info("Chat pinned")
	} else {
		a.flash.Info("Chat unpinned")
	}
}

func (a *App) toggleMuted(chatID string) {
	if chatID == "" {
		return
	}
	muted, err := a.vm.ToggleMuted(a.ctx, chatID)
	if err != nil {
		a.flash.Err(err)
		return
	}
	a.refreshChats()
	if muted {
		a.flash.Info("Chat muted")
	} else {
		a.flash.Info("Chat unmuted")
	}
}

func (a *App) showOwnProfile() {
	a.profile.Update(a.vm.Me(), nil)
	a.pages.Push(pageProfile)
}

func (a *App) showContact(chatID string) {
	row, ok := a.vm.Chat(chatID)
	if !ok {
		return
	}
	chat := row.Chat
	a.profile.Update(row.User, &chat)
	a.pages.Push(pageProfile)
}

func (a *App) addContact(id string) {
	chat, err := a.vm.AddContact(a.ctx, id)
	if err != nil {
		a.flash.Err(err)
		return
	}
	a.refreshChats()
	a.flash.Info("Contact added")
	a.openChat(chat.ID)
}

func (a *App) setTheme(dark bool) {
	if err := a.vm.SetDark(a.ctx, dark); err != nil {
		a.flash.Err(err)
		return
	}
	a.applyTheme(ui.ThemeFor(dark))
}

func (a *App) toggleTheme() {
	a.setTheme(!a.vm.Dark())
}

func (a *App) applyTheme(t *ui.Theme) {
	a.theme = t
	tview.Styles.PrimitiveBackgroundColor = t.BgColor
	tview.Styles.PrimaryTextColor = t.FgColor
	a.root.SetBackgroundColor(t.BgColor)
	a.header.SetBackgroundColor(t.BgColor)
	a.pages.SetBackgroundColor(t.BgColor)
	for _, w := range []ui.Themed{a.prompt, a.flashBar, a.crumbs, a.menu, a.logo, a.info, a.list, a.thread, a.profile, a.help} {
		w.ApplyTheme(t)
	}
	a.refreshChats()
}

// handleEvent runs on the UI goroutine for every bus event.
func (a *App) handleEvent(evt bus.Event) {
	threadChanged := a.vm.HandleEvent(a.ctx, evt)
	switch evt.Kind {
	case bus.ThemeChanged:
		if a.vm.Dark() != a.theme.Dark {
			a.applyTheme(ui.ThemeFor(a.vm.Dark()))
		}
	case bus.MessageAppended:
		if evt.ChatID != a.vm.Active() {
			a.notify(evt)
		}
	}
	a.refreshChats()
	if threadChanged {
		a.renderThread()
	}
}

func (a *App) notify(evt bus.Event) {
	row, ok := a.vm.Chat(evt.ChatID)
	if !ok || row.Chat.IsMuted {
		return
	}
	if msg, ok := evt.Payload.(model.Message); ok && !msg.IsSelf {
		a.flash.Info(fmt.Sprintf("%s: %s", row.Title(), msg.Preview()))
	}
}

func (a *App) watchEvents() {
	events, unsubscribe := a.client.Bus.Subscribe("", 256)
	go func() {
		defer unsubscribe()
		for {
			select {
			case <-a.ctx.Done():
				return
			case evt := <-events:
				a.app.QueueUpdateDraw(func() { a.handleEvent(evt) })
			}
		}
	}()
}

func (a *App) watchFlash() {
	ticker := time.NewTicker(flashTick)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-a.ctx.Done():
				return
			case <-a.flash.Watch():
			case <-ticker.C:
			}
			a.app.QueueUpdateDraw(func() { a.flashBar.Update(a.flash.GetMessage()) })
		}
	}()
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	defer a.cancel()
	a.watchEvents()
	a.watchFlash()
	if a.client.Seeded {
		a.flash.Info("Welcome to teleclone! Press ? for help.")
	}
	return a.app.Run()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}
