package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/teleclone/internal/grouping"
	"github.com/matheus3301/teleclone/internal/tui/state"
	"github.com/matheus3301/teleclone/internal/tui/ui"
	"github.com/rivo/tview"
)

// ConversationList is the main chat list view.
type ConversationList struct {
	*tview.Table
	theme   *ui.Theme
	chats   []state.ChatItem
	visible []state.ChatItem
	filter  string
	now     func() time.Time
}

// NewConversationList creates a new conversation list table.
func NewConversationList(theme *ui.Theme) *ConversationList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetTitle(" Chats ")

	cl := &ConversationList{
		Table: table,
		now:   time.Now,
	}
	cl.ApplyTheme(theme)
	return cl
}

// Name implements Component.
func (cl *ConversationList) Name() string { return "Chats" }

// Init implements Component.
func (cl *ConversationList) Init() {}

// Start implements Component.
func (cl *ConversationList) Start() {}

// Stop implements Component.
func (cl *ConversationList) Stop() {}

// Hints implements Component.
func (cl *ConversationList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Open"},
		{Key: "/", Description: "Filter"},
		{Key: "0-9", Description: "Jump", Numeric: true},
	}
}

// ApplyTheme implements ui.Themed.
func (cl *ConversationList) ApplyTheme(t *ui.Theme) {
	cl.theme = t
	cl.SetBorderColor(t.BorderColor)
	cl.SetBackgroundColor(t.BgColor)
	cl.SetTitleColor(t.TitleColor)
	cl.SetSelectedStyle(tcell.StyleDefault.
		Foreground(t.TableCursorFg).
		Background(t.TableCursorBg))
	cl.render()
}

// Update refreshes the chat list, keeping the selected chat selected.
func (cl *ConversationList) Update(chats []state.ChatItem) {
	selected := cl.SelectedChat()
	cl.chats = chats
	cl.render()
	for i, c := range cl.visible {
		if c.Chat.ID == selected {
			cl.Select(i+1, 0)
			return
		}
	}
}

// SetFilter sets the active filter text and re-renders.
func (cl *ConversationList) SetFilter(filter string) {
	cl.filter = strings.TrimSpace(filter)
	cl.render()
	cl.Select(1, 0)
}

// ClearFilter clears the active filter.
func (cl *ConversationList) ClearFilter() {
	cl.SetFilter("")
}

// Filter returns the active filter.
func (cl *ConversationList) Filter() string { return cl.filter }

func (cl *ConversationList) matches(c state.ChatItem) bool {
	if cl.filter == "" {
		return true
	}
	f := strings.ToLower(cl.filter)
	return strings.Contains(strings.ToLower(c.Title()), f) ||
		strings.Contains(strings.ToLower(c.Chat.LastMessage), f)
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
		{" FLAGS", 0},
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

	now := cl.now()
	cl.visible = cl.visible[:0]
	for _, c := range cl.chats {
		if !cl.matches(c) {
			continue
		}
		cl.visible = append(cl.visible, c)
		row := len(cl.visible)

		name := c.Title()
		if c.Chat.UnreadCount > 0 {
			name = fmt.Sprintf("(%d) %s", c.Chat.UnreadCount, name)
		}
		last, lastColor := c.Chat.LastMessage, cl.theme.FgColor
		if c.Typing {
			last, lastColor = "typing…", cl.theme.SelfColor
		}
		stamp := ""
		if c.Chat.LastMessageTime > 0 {
			stamp = grouping.DateLabel(c.Chat.LastMessageTime, now)
		}

		cl.SetCell(row, 0, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(name))).SetExpansion(1).SetTextColor(cl.theme.FgColor))
		cl.SetCell(row, 1, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(last))).SetExpansion(2).SetTextColor(lastColor))
		cl.SetCell(row, 2, tview.NewTableCell(stamp).SetTextColor(cl.theme.FgColor).SetAlign(tview.AlignRight))
		cl.SetCell(row, 3, tview.NewTableCell(chatFlags(c)).SetTextColor(cl.theme.MutedColor).SetAlign(tview.AlignRight))
	}

	if cl.filter != "" {
		cl.SetTitle(fmt.Sprintf(" Chats (%d/%d) filter: %s ", len(cl.visible), len(cl.chats), tview.Escape(cl.filter)))
	} else {
		cl.SetTitle(fmt.Sprintf(" Chats (%d) ", len(cl.chats)))
	}
}

func chatFlags(c state.ChatItem) string {
	var flags []string
	if c.Chat.IsPinned {
		flags = append(flags, "pinned")
	}
	if c.Chat.IsMuted {
		flags = append(flags, "muted")
	}
	return strings.Join(flags, ",")
}

// SelectedChat returns the id of the currently selected chat.
func (cl *ConversationList) SelectedChat() string {
	row, _ := cl.GetSelection()
	return cl.ChatByIndex(row)
}

// ChatByIndex returns the id of the Nth visible chat (1-based).
func (cl *ConversationList) ChatByIndex(n int) string {
	if n < 1 || n > len(cl.visible) {
		return ""
	}
	return cl.visible[n-1].Chat.ID
}
