package views

import (
	"testing"
	"time"

	"github.com/matheus3301/teleclone/internal/model"
	"github.com/matheus3301/teleclone/internal/tui/state"
	"github.com/matheus3301/teleclone/internal/tui/ui"
)

func listItems() []state.ChatItem {
	ms := threadNow.UnixMilli()
	return []state.ChatItem{
		{Chat: model.Chat{ID: "gemini", LastMessage: "Hello!", LastMessageTime: ms, IsPinned: true}, User: model.User{Name: "Gemini AI"}},
		{Chat: model.Chat{ID: "2", LastMessage: "tonight?", LastMessageTime: ms, UnreadCount: 2}, User: model.User{Name: "Alice Smith"}, Typing: true},
		{Chat: model.Chat{ID: "3", LastMessage: "Sent you the file.", IsMuted: true}, User: model.User{Name: "Bob Jones"}},
	}
}

func newTestList() *ConversationList {
	cl := NewConversationList(ui.DarkTheme())
	cl.now = func() time.Time { return threadNow }
	cl.Update(listItems())
	return cl
}

func TestConversationListRows(t *testing.T) {
	cl := newTestList()
	if got := cl.GetRowCount(); got != 4 {
		t.Fatalf("rows = %d, want header + 3", got)
	}
	if got := cl.GetCell(2, 0).Text; got != " (2) Alice Smith" {
		t.Errorf("unread badge cell = %q", got)
	}
	if got := cl.GetCell(2, 1).Text; got != " typing…" {
		t.Errorf("typing cell = %q", got)
	}
	if got := cl.GetCell(1, 2).Text; got != "15:00" {
		t.Errorf("time cell = %q", got)
	}
	if got := cl.GetCell(3, 3).Text; got != "muted" {
		t.Errorf("flags cell = %q", got)
	}
	if cl.ChatByIndex(3) != "3" || cl.ChatByIndex(4) != "" || cl.ChatByIndex(0) != "" {
		t.Error("ChatByIndex out of range handling")
	}
}

func TestConversationListFilter(t *testing.T) {
	cl := newTestList()
	cl.SetFilter("FILE")
	if cl.ChatByIndex(1) != "3" || cl.ChatByIndex(2) != "" {
		t.Errorf("filter by last message: first = %q", cl.ChatByIndex(1))
	}
	if cl.SelectedChat() != "3" {
		t.Errorf("SelectedChat() = %q, want 3", cl.SelectedChat())
	}
	cl.ClearFilter()
	if cl.ChatByIndex(3) != "3" {
		t.Error("ClearFilter did not restore rows")
	}
}

func TestConversationListKeepsSelection(t *testing.T) {
	cl := newTestList()
	cl.Select(3, 0)
	items := listItems()
	items[0], items[2] = items[2], items[0]
	cl.Update(items)
	if got := cl.SelectedChat(); got != "3" {
		t.Errorf("SelectedChat() after reorder = %q, want 3", got)
	}
}
