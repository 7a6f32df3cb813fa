package convo

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/matheus3301/teleclone/internal/bus"
	"github.com/matheus3301/teleclone/internal/model"
	"go.uber.org/zap"
)

// ErrInvalidContact is returned by AddContact for a blank id.
var ErrInvalidContact = errors.New("contact id must not be empty")

// Chats returns the chat index, pinned chats first, then by most recent activity.
func (s *Store) Chats(ctx context.Context) []model.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.loadChats(ctx)
	if err != nil {
		s.logger.Warn("reading chats failed, using empty index", zap.Error(err))
		return []model.Chat{}
	}
	list := make([]model.Chat, 0, len(chats))
	for _, c := range chats {
		list = append(list, c)
	}
	slices.SortFunc(list, func(a, b model.Chat) int {
		if a.IsPinned != b.IsPinned {
			if a.IsPinned {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(b.LastActivity, a.LastActivity); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return list
}

// Chat returns the chat with the given id.
func (s *Store) Chat(ctx context.Context, chatID string) (model.Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.loadChats(ctx)
	if err != nil {
		s.logger.Warn("reading chats failed", zap.Error(err))
		return model.Chat{}, false
	}
	c, ok := chats[chatID]
	return c, ok
}

// User returns the contact or local user with the given id.
func (s *Store) User(ctx context.Context, userID string) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		s.logger.Warn("reading users failed", zap.Error(err))
		return model.User{}, false
	}
	u, ok := users[userID]
	return u, ok
}

// Users returns all known users ordered by name.
func (s *Store) Users(ctx context.Context) []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		s.logger.Warn("reading users failed", zap.Error(err))
		return []model.User{}
	}
	list := make([]model.User, 0, len(users))
	for _, u := range users {
		list = append(list, u)
	}
	slices.SortFunc(list, func(a, b model.User) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return list
}

// AddContact makes sure a user with id exists and has a chat, creating both
// when missing. It returns the contact's chat.
func (s *Store) AddContact(ctx context.Context, id string) (model.Chat, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Chat{}, ErrInvalidContact
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return model.Chat{}, fmt.Errorf("add contact %q: %w", id, err)
	}
	chats, err := s.loadChats(ctx)
	if err != nil {
		return model.Chat{}, fmt.Errorf("add contact %q: %w", id, err)
	}

	for _, c := range chats {
		if c.UserID == id {
			return c, nil
		}
	}

	now := s.now()
	if _, ok := users[id]; !ok {
		name := id
		if len(name) > 4 {
			name = name[:4]
		}
		users[id] = model.User{
			ID:       id,
			Name:     "User " + name,
			Status:   "offline",
			LastSeen: &now,
			About:    model.StringPtr("Added via Peer ID"),
		}
	}
	chat := model.Chat{
		ID:              "chat-" + id,
		UserID:          id,
		LastMessage:     "No messages yet",
		LastMessageTime: now.UnixMilli(),
		LastActivity:    now.UnixMilli(),
	}
	chats[chat.ID] = chat

	if err := s.commit(ctx, map[string]any{UsersKey: users, ChatsKey: chats}); err != nil {
		return model.Chat{}, fmt.Errorf("add contact %q: %w", id, err)
	}
	s.bus.Publish(bus.Event{Kind: bus.ChatUpdated, ChatID: chat.ID, Payload: chat})
	return chat, nil
}

// Bootstrap seeds the local user, the assistant and two demo contacts when the
// chat index has never been written. It is a no-op afterwards.
func (s *Store) Bootstrap(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := load[map[string]model.Chat](ctx, s, ChatsKey)
	if err != nil {
		return false, fmt.Errorf("bootstrap: %w", err)
	}
	if existing != nil {
		return false, nil
	}

	users, chats := defaultDirectory(s.now())
	if err := s.commit(ctx, map[string]any{UsersKey: users, ChatsKey: chats}); err != nil {
		return false, fmt.Errorf("bootstrap: %w", err)
	}
	s.logger.Info("client state bootstrapped", zap.Int("chats", len(chats)))
	return true, nil
}

func defaultDirectory(now time.Time) (map[string]model.User, map[string]model.Chat) {
	hourAgo := now.Add(-time.Hour)
	users := map[string]model.User{
		model.LocalUserID: {
			ID:          model.LocalUserID,
			Name:        "Me",
			Status:      "online",
			LastSeen:    &now,
			About:       model.StringPtr("Code is poetry."),
			PhoneNumber: model.StringPtr("+1 234 567 890"),
		},
		model.AssistantUserID: {
			ID:       model.AssistantUserID,
			Name:     "Gemini AI",
			Status:   "online",
			LastSeen: &now,
			About:    model.StringPtr("I am a large language model, trained by Google."),
			Avatar:   model.StringPtr("https://upload.wikimedia.org/wikipedia/commons/8/8a/Google_Gemini_logo.svg"),
		},
		"user2": {ID: "user2", Name: "Alice Smith", Status: "online", LastSeen: &now},
		"user3": {ID: "user3", Name: "Bob Jones", Status: "offline", LastSeen: &hourAgo},
	}
	ms := now.UnixMilli()
	chats := map[string]model.Chat{
		model.AssistantChatID: {
			ID: model.AssistantChatID, UserID: model.AssistantUserID,
			LastMessage: "Hello! How can I help you today?", LastMessageTime: ms, LastActivity: ms, UnreadCount: 1,
		},
		"2": {
			ID: "2", UserID: "user2",
			LastMessage: "Are we still on for tonight?", LastMessageTime: ms - 3_600_000, LastActivity: ms - 3_600_000,
		},
		"3": {
			ID: "3", UserID: "user3",
			LastMessage: "Sent you the file.", LastMessageTime: ms - 86_400_000, LastActivity: ms - 86_400_000, UnreadCount: 2,
		},
	}
	return users, chats
}
