package convo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/matheus3301/teleclone/internal/bus"
	"github.com/matheus3301/teleclone/internal/model"
	"github.com/matheus3301/teleclone/internal/store"
	"go.uber.org/zap"
)

// Keys under which client state is persisted.
const (
	MessagesKey = "messages_map"
	ChatsKey    = "chats"
	UsersKey    = "users"
	ThemeKey    = "theme_dark"
)

// ErrUnknownChat is returned when a mutation names a chat that is not in the chat index.
var ErrUnknownChat = errors.New("unknown chat")

// Store is the persisted conversation store: chat id to ordered message list,
// plus the chat index and contact directory the lists belong to.
//
// Reads never fail: a missing or corrupt value reads as its default. Mutations
// are committed to the backing KV before they return.
type Store struct {
	mu     sync.Mutex
	kv     store.KV
	bus    *bus.Bus
	logger *zap.Logger
	now    func() time.Time
}

// New creates a store over kv. bus and logger may be nil.
func New(kv store.KV, b *bus.Bus, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		kv:     kv,
		bus:    b,
		logger: logger,
		now:    time.Now,
	}
}

// Append adds msg to the end of chatID's list and refreshes the chat's
// preview fields in the same commit. msg.ChatID is expected to equal chatID.
// It returns the chat's messages after the append.
func (s *Store) Append(ctx context.Context, chatID string, msg model.Message) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.loadChats(ctx)
	if err != nil {
		return nil, fmt.Errorf("append to %q: %w", chatID, err)
	}
	chat, ok := chats[chatID]
	if !ok {
		return nil, fmt.Errorf("append to %q: %w", chatID, ErrUnknownChat)
	}
	all, err := s.loadMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("append to %q: %w", chatID, err)
	}

	list := append(all[chatID], msg)
	all[chatID] = list

	chat.LastMessage = msg.Preview()
	chat.LastMessageTime = msg.Timestamp
	chat.LastActivity = msg.Timestamp
	if !msg.IsSelf {
		chat.UnreadCount++
	}
	chats[chatID] = chat

	if err := s.commit(ctx, map[string]any{MessagesKey: all, ChatsKey: chats}); err != nil {
		return nil, fmt.Errorf("append to %q: %w", chatID, err)
	}

	s.bus.Publish(bus.Event{Kind: bus.MessageAppended, ChatID: chatID, Payload: msg})
	s.bus.Publish(bus.Event{Kind: bus.ChatUpdated, ChatID: chatID, Payload: chat})
	return slices.Clone(list), nil
}

// Read returns the messages of chatID in append order. Unknown chats and
// unreadable storage yield an empty list.
func (s *Store) Read(ctx context.Context, chatID string) []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadMessages(ctx)
	if err != nil {
		s.logger.Warn("reading messages failed, using empty mapping", zap.Error(err))
		return []model.Message{}
	}
	list := all[chatID]
	if list == nil {
		return []model.Message{}
	}
	return slices.Clone(list)
}

// MarkRead clears the unread counter of chatID.
func (s *Store) MarkRead(ctx context.Context, chatID string) error {
	return s.updateChat(ctx, chatID, func(c *model.Chat) { c.UnreadCount = 0 })
}

// SetPinned pins or unpins chatID in the chat list.
func (s *Store) SetPinned(ctx context.Context, chatID string, pinned bool) error {
	return s.updateChat(ctx, chatID, func(c *model.Chat) { c.IsPinned = pinned })
}

// SetMuted mutes or unmutes chatID.
func (s *Store) SetMuted(ctx context.Context, chatID string, muted bool) error {
	return s.updateChat(ctx, chatID, func(c *model.Chat) { c.IsMuted = muted })
}

func (s *Store) updateChat(ctx context.Context, chatID string, fn func(c *model.Chat)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.loadChats(ctx)
	if err != nil {
		return fmt.Errorf("update chat %q: %w", chatID, err)
	}
	chat, ok := chats[chatID]
	if !ok {
		return fmt.Errorf("update chat %q: %w", chatID, ErrUnknownChat)
	}
	fn(&chat)
	chats[chatID] = chat
	if err := s.commit(ctx, map[string]any{ChatsKey: chats}); err != nil {
		return fmt.Errorf("update chat %q: %w", chatID, err)
	}
	s.bus.Publish(bus.Event{Kind: bus.ChatUpdated, ChatID: chatID, Payload: chat})
	return nil
}

// DarkTheme reports the persisted theme preference. Defaults to dark.
func (s *Store) DarkTheme(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	dark, err := load[*bool](ctx, s, ThemeKey)
	if err != nil {
		s.logger.Warn("reading theme failed, using default", zap.Error(err))
		return true
	}
	if dark == nil {
		return true
	}
	return *dark
}

// SetDarkTheme persists the theme preference.
func (s *Store) SetDarkTheme(ctx context.Context, dark bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit(ctx, map[string]any{ThemeKey: dark}); err != nil {
		return fmt.Errorf("set theme: %w", err)
	}
	s.bus.Publish(bus.Event{Kind: bus.ThemeChanged, Payload: dark})
	return nil
}

func (s *Store) loadMessages(ctx context.Context) (map[string][]model.Message, error) {
	all, err := load[map[string][]model.Message](ctx, s, MessagesKey)
	if err != nil {
		return nil, err
	}
	if all == nil {
		all = make(map[string][]model.Message)
	}
	return all, nil
}

func (s *Store) loadChats(ctx context.Context) (map[string]model.Chat, error) {
	chats, err := load[map[string]model.Chat](ctx, s, ChatsKey)
	if err != nil {
		return nil, err
	}
	if chats == nil {
		chats = make(map[string]model.Chat)
	}
	return chats, nil
}

func (s *Store) loadUsers(ctx context.Context) (map[string]model.User, error) {
	users, err := load[map[string]model.User](ctx, s, UsersKey)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = make(map[string]model.User)
	}
	return users, nil
}

// load decodes the value stored under key. A missing or corrupt value yields
// the zero T; corruption is logged. Only backend failures are returned.
func load[T any](ctx context.Context, s *Store, key string) (T, error) {
	var zero T
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return zero, nil
	}
	if err != nil {
		return zero, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.logger.Warn("corrupt state value, using default", zap.String("key", key), zap.Error(err))
		return zero, nil
	}
	return v, nil
}

func (s *Store) commit(ctx context.Context, values map[string]any) error {
	entries := make(map[string][]byte, len(values))
	for key, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %q: %w", key, err)
		}
		entries[key] = raw
	}
	return s.kv.SetMany(ctx, entries)
}
