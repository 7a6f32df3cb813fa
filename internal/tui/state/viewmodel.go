// Package state holds the TUI's view model: a cache of the conversation store
// that the widgets render from, refreshed on bus events.
package state

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/matheus3301/teleclone/internal/bus"
	"github.com/matheus3301/teleclone/internal/compose"
	"github.com/matheus3301/teleclone/internal/convo"
	"github.com/matheus3301/teleclone/internal/model"
)

// ErrNoActiveChat is returned by chat-scoped actions when no chat is open.
var ErrNoActiveChat = errors.New("no chat open")

// ChatItem is a chat list row: the chat joined with its counterpart.
type ChatItem struct {
	Chat   model.Chat
	User   model.User
	Typing bool
}

// Title is the display name of the chat.
func (c ChatItem) Title() string {
	if c.User.Name != "" {
		return c.User.Name
	}
	return c.Chat.ID
}

// ViewModel caches store state for rendering. Its methods may be called from
// the UI goroutine and from background sends concurrently.
type ViewModel struct {
	mu sync.RWMutex

	store    *convo.Store
	composer *compose.Composer

	chats    []ChatItem
	users    map[string]model.User
	active   string
	messages []model.Message
	typing   map[string]string // chat id -> typing user id
	dark     bool
}

// NewViewModel creates a view model over the store and composer.
func NewViewModel(store *convo.Store, composer *compose.Composer) *ViewModel {
	return &ViewModel{
		store:    store,
		composer: composer,
		users:    make(map[string]model.User),
		typing:   make(map[string]string),
		dark:     true,
	}
}

// Load reads the chat list, directory and theme preference.
func (vm *ViewModel) Load(ctx context.Context) {
	dark := vm.store.DarkTheme(ctx)
	vm.mu.Lock()
	vm.dark = dark
	vm.mu.Unlock()
	vm.LoadChats(ctx)
}

// LoadChats refreshes the chat list and the user directory.
func (vm *ViewModel) LoadChats(ctx context.Context) {
	users := make(map[string]model.User)
	for _, u := range vm.store.Users(ctx) {
		users[u.ID] = u
	}
	chats := vm.store.Chats(ctx)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.users = users
	vm.chats = make([]ChatItem, 0, len(chats))
	for _, c := range chats {
		_, typing := vm.typing[c.ID]
		vm.chats = append(vm.chats, ChatItem{Chat: c, User: users[c.UserID], Typing: typing})
	}
}

// Chats returns the cached chat list in display order.
func (vm *ViewModel) Chats() []ChatItem {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return append([]ChatItem(nil), vm.chats...)
}

// Chat returns the cached row for chatID.
func (vm *ViewModel) Chat(chatID string) (ChatItem, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	for _, c := range vm.chats {
		if c.Chat.ID == chatID {
			return c, true
		}
	}
	return ChatItem{}, false
}

// FindChat returns the first chat whose title or id contains query, ignoring case.
func (vm *ViewModel) FindChat(query string) (ChatItem, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return ChatItem{}, false
	}
	for _, c := range vm.Chats() {
		if strings.Contains(strings.ToLower(c.Title()), q) || strings.ToLower(c.Chat.ID) == q {
			return c, true
		}
	}
	return ChatItem{}, false
}

// User returns a cached user by id.
func (vm *ViewModel) User(id string) (model.User, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	u, ok := vm.users[id]
	return u, ok
}

// Me returns the local user.
func (vm *ViewModel) Me() model.User {
	if u, ok := vm.User(model.LocalUserID); ok {
		return u
	}
	return model.User{ID: model.LocalUserID, Name: "Me"}
}

// UnreadTotal sums the unread counters of unmuted chats.
func (vm *ViewModel) UnreadTotal() int {
	n := 0
	for _, c := range vm.Chats() {
		if !c.Chat.IsMuted {
			n += c.Chat.UnreadCount
		}
	}
	return n
}

// Open makes chatID the active chat, loads its messages and marks it read.
func (vm *ViewModel) Open(ctx context.Context, chatID string) error {
	if _, ok := vm.store.Chat(ctx, chatID); !ok {
		return convo.ErrUnknownChat
	}
	vm.mu.Lock()
	vm.active = chatID
	vm.mu.Unlock()
	vm.ReloadMessages(ctx)
	err := vm.store.MarkRead(ctx, chatID)
	vm.LoadChats(ctx)
	return err
}

// Close leaves the active chat and cancels its pending simulated replies.
func (vm *ViewModel) Close() {
	vm.mu.Lock()
	chatID := vm.active
	vm.active = ""
	vm.messages = nil
	delete(vm.typing, chatID)
	vm.mu.Unlock()
	if chatID != "" {
		vm.composer.CancelPending(chatID)
	}
}

// Active returns the open chat id, or "".
func (vm *ViewModel) Active() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.active
}

// ReloadMessages re-reads the active chat's messages.
func (vm *ViewModel) ReloadMessages(ctx context.Context) {
	chatID := vm.Active()
	if chatID == "" {
		return
	}
	msgs := vm.store.Read(ctx, chatID)
	vm.mu.Lock()
	if vm.active == chatID {
		vm.messages = msgs
	}
	vm.mu.Unlock()
}

// Messages returns the cached messages of the active chat.
func (vm *ViewModel) Messages() []model.Message {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return append([]model.Message(nil), vm.messages...)
}

// Typing returns the id of the user typing in chatID, if any.
func (vm *ViewModel) Typing(chatID string) (string, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	id, ok := vm.typing[chatID]
	return id, ok
}

// HandleEvent folds a bus event into the cache. It reports whether the
// active thread changed and needs a redraw.
func (vm *ViewModel) HandleEvent(ctx context.Context, evt bus.Event) bool {
	active := vm.Active()
	switch evt.Kind {
	case bus.MessageAppended:
		if evt.ChatID == active {
			vm.ReloadMessages(ctx)
			_ = vm.store.MarkRead(ctx, active)
		}
		vm.LoadChats(ctx)
		return evt.ChatID == active
	case bus.ChatTyping:
		t, _ := evt.Payload.(bus.Typing)
		vm.mu.Lock()
		if t.Active {
			vm.typing[evt.ChatID] = t.UserID
		} else {
			delete(vm.typing, evt.ChatID)
		}
		for i := range vm.chats {
			if vm.chats[i].Chat.ID == evt.ChatID {
				vm.chats[i].Typing = t.Active
			}
		}
		vm.mu.Unlock()
		return evt.ChatID == active
	case bus.ChatUpdated:
		vm.LoadChats(ctx)
	case bus.ThemeChanged:
		if dark, ok := evt.Payload.(bool); ok {
			vm.mu.Lock()
			vm.dark = dark
			vm.mu.Unlock()
		}
	}
	return false
}

// SendText sends text to the active chat.
func (vm *ViewModel) SendText(ctx context.Context, text string) (compose.Result, error) {
	chatID := vm.Active()
	if chatID == "" {
		return compose.Result{}, ErrNoActiveChat
	}
	return vm.composer.SendText(ctx, chatID, text)
}

// SendVoice sends a voice message of the given length to the active chat.
func (vm *ViewModel) SendVoice(ctx context.Context, seconds int) (compose.Result, error) {
	chatID := vm.Active()
	if chatID == "" {
		return compose.Result{}, ErrNoActiveChat
	}
	return vm.composer.SendVoice(ctx, chatID, seconds)
}

// AddContact adds a peer by id and returns its chat.
func (vm *ViewModel) AddContact(ctx context.Context, id string) (model.Chat, error) {
	chat, err := vm.store.AddContact(ctx, id)
	if err != nil {
		return model.Chat{}, err
	}
	vm.LoadChats(ctx)
	return chat, nil
}

// TogglePinned flips the pinned flag of chatID and returns the new value.
func (vm *ViewModel) TogglePinned(ctx context.Context, chatID string) (bool, error) {
	c, ok := vm.store.Chat(ctx, chatID)
	if !ok {
		return false, convo.ErrUnknownChat
	}
	if err := vm.store.SetPinned(ctx, chatID, !c.IsPinned); err != nil {
		return c.IsPinned, err
	}
	vm.LoadChats(ctx)
	return !c.IsPinned, nil
}

// ToggleMuted flips the muted flag of chatID and returns the new value.
func (vm *ViewModel) ToggleMuted(ctx context.Context, chatID string) (bool, error) {
	c, ok := vm.store.Chat(ctx, chatID)
	if !ok {
		return false, convo.ErrUnknownChat
	}
	if err := vm.store.SetMuted(ctx, chatID, !c.IsMuted); err != nil {
		return c.IsMuted, err
	}
	vm.LoadChats(ctx)
	return !c.IsMuted, nil
}

// Dark reports the cached theme preference.
func (vm *ViewModel) Dark() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.dark
}

// SetDark persists the theme preference.
func (vm *ViewModel) SetDark(ctx context.Context, dark bool) error {
	if err := vm.store.SetDarkTheme(ctx, dark); err != nil {
		return err
	}
	vm.mu.Lock()
	vm.dark = dark
	vm.mu.Unlock()
	return nil
}
