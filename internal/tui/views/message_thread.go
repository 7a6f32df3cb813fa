package views

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/teleclone/internal/model"
	"github.com/matheus3301/teleclone/internal/tui/ui"
	"github.com/rivo/tview"
)

// MessageThread displays messages and a composer for a single chat.
type MessageThread struct {
	*tview.Flex
	theme    *ui.Theme
	messages *tview.TextView
	composer *tview.InputField
	chatName string
	chatID   string
	status   string
	typing   string
	onSend   func(text string)
	now      func() time.Time

	lastMsgs  []model.Message
	lastNames func(string) string
}

// NewMessageThread creates a new message thread view.
func NewMessageThread(theme *ui.Theme) *MessageThread {
	messages := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	messages.SetBorder(true)
	messages.SetTitle(" Messages ")

	composer := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)
	composer.SetBorder(true)
	composer.SetTitle(" Compose (i to focus) ")

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(messages, 0, 1, true).
		AddItem(composer, 3, 0, false)

	mt := &MessageThread{
		Flex:     flex,
		messages: messages,
		composer: composer,
		now:      time.Now,
	}
	mt.ApplyTheme(theme)

	composer.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && mt.onSend != nil {
			text := composer.GetText()
			if text != "" {
				composer.SetText("")
				mt.onSend(text)
			}
		}
	})

	return mt
}

// Name implements Component.
func (mt *MessageThread) Name() string {
	if mt.chatName != "" {
		return mt.chatName
	}
	return "Messages"
}

// Init implements Component.
func (mt *MessageThread) Init() {}

// Start implements Component.
func (mt *MessageThread) Start() {}

// Stop implements Component.
func (mt *MessageThread) Stop() {
	mt.composer.SetText("")
	mt.typing = ""
}

// Hints implements Component.
func (mt *MessageThread) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "i", Description: "Compose"},
		{Key: "Esc", Description: "Back"},
	}
}

// ApplyTheme implements ui.Themed.
func (mt *MessageThread) ApplyTheme(t *ui.Theme) {
	mt.theme = t
	mt.messages.SetBorderColor(t.BorderColor)
	mt.messages.SetBackgroundColor(t.BgColor)
	mt.messages.SetTextColor(t.FgColor)
	mt.messages.SetTitleColor(t.TitleColor)
	mt.composer.SetBorderColor(t.BorderColor)
	mt.composer.SetBackgroundColor(t.BgColor)
	mt.composer.SetFieldBackgroundColor(t.BgColor)
	mt.composer.SetFieldTextColor(t.FgColor)
	mt.composer.SetLabelColor(t.MenuKeyColor)
	mt.composer.SetTitleColor(t.TitleColor)
	if mt.lastNames != nil {
		mt.Update(mt.lastMsgs, mt.lastNames)
	}
}

// SetChat sets the open chat, its display name and the counterpart status.
func (mt *MessageThread) SetChat(id, name, status string) {
	mt.chatID = id
	mt.chatName = name
	mt.status = status
	mt.renderTitle()
}

// ChatID returns the open chat id.
func (mt *MessageThread) ChatID() string {
	return mt.chatID
}

// SetTyping shows or clears the typing indicator for name.
func (mt *MessageThread) SetTyping(name string) {
	mt.typing = name
	mt.renderTitle()
}

func (mt *MessageThread) renderTitle() {
	sub := mt.status
	if mt.typing != "" {
		sub = "typing…"
	}
	title := fmt.Sprintf(" %s ", tview.Escape(sanitizeForTerminal(mt.chatName)))
	if sub != "" {
		title = fmt.Sprintf(" %s [%s](%s)[-] ", tview.Escape(sanitizeForTerminal(mt.chatName)), ui.ColorName(mt.theme.MutedColor), tview.Escape(sub))
	}
	mt.messages.SetTitle(title)
}

// SetOnSend sets the callback when a message is sent.
func (mt *MessageThread) SetOnSend(fn func(text string)) {
	mt.onSend = fn
}

// Update re-renders the thread. names resolves sender ids.
func (mt *MessageThread) Update(msgs []model.Message, names func(string) string) {
	mt.lastMsgs, mt.lastNames = msgs, names
	mt.messages.Clear()
	if len(msgs) == 0 {
		_, _ = fmt.Fprintf(mt.messages, "\n  [%s]No messages yet. Press i and say hello.[-]", ui.ColorName(mt.theme.MutedColor))
		return
	}
	_, _ = fmt.Fprint(mt.messages, FormatThread(msgs, mt.now(), names, PaletteFor(mt.theme)))
	mt.messages.ScrollToEnd()
}

// Messages returns the messages text view (for focus management).
func (mt *MessageThread) Messages() *tview.TextView {
	return mt.messages
}

// Composer returns the composer input field (for focus management).
func (mt *MessageThread) Composer() *tview.InputField {
	return mt.composer
}
