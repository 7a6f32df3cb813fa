package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matheus3301/teleclone/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	seedChatID    = "chat-1"
	seedMessageID = "msg-1"
	seedGreeting  = "Hello! I am Gemini. How can I help you?"
	assistantLogo = "https://upload.wikimedia.org/wikipedia/commons/8/8a/Google_Gemini_logo.svg"
)

// Seed inserts the local user, the assistant and a greeting chat when the
// store has no users. A duplicate key means another process seeded first and
// is logged, not returned. It reports whether anything was inserted.
func Seed(ctx context.Context, r Repository, now time.Time, logger *zap.Logger) (bool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	n, err := r.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	logger.Info("seeding database")
	err = seed(ctx, r, now)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		logger.Info("database already seeded, duplicate key skipped", zap.Error(err))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	logger.Info("database seeded")
	return true, nil
}

func seed(ctx context.Context, r Repository, now time.Time) error {
	if _, err := r.CreateUser(ctx, model.User{
		ID:          model.LocalUserID,
		Name:        "Me",
		Status:      "online",
		LastSeen:    &now,
		About:       model.StringPtr("Using TeleClone Web"),
		PhoneNumber: model.StringPtr("+1234567890"),
	}); err != nil {
		return err
	}
	bot, err := r.CreateUser(ctx, model.User{
		ID:       model.AssistantUserID,
		Name:     "Gemini AI",
		Status:   "online",
		LastSeen: &now,
		About:    model.StringPtr("I'm a smart AI bot"),
		Avatar:   model.StringPtr(assistantLogo),
	})
	if err != nil {
		return err
	}
	ms := now.UnixMilli()
	if err := r.CreateChat(ctx, model.Chat{
		ID:              seedChatID,
		UserID:          bot.ID,
		LastMessage:     seedGreeting,
		LastMessageTime: ms,
		LastActivity:    ms,
		UnreadCount:     1,
	}); err != nil {
		return err
	}
	return r.CreateMessage(ctx, model.Message{
		ID:        seedMessageID,
		ChatID:    seedChatID,
		SenderID:  bot.ID,
		Text:      model.StringPtr(seedGreeting),
		Timestamp: ms,
		Status:    model.StatusRead,
	})
}

// EnsureUser returns the first user, creating the default local user when the
// store is empty.
func EnsureUser(ctx context.Context, r Repository) (model.User, error) {
	u, ok, err := r.FirstUser(ctx)
	if err != nil {
		return model.User{}, err
	}
	if ok {
		return u, nil
	}
	u, err = r.CreateUser(ctx, model.User{ID: model.LocalUserID, Name: "User", Status: "online"})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race with a concurrent request or the seeder.
		u, ok, err = r.FirstUser(ctx)
		if err == nil && !ok {
			err = errors.New("user vanished after duplicate insert")
		}
	}
	return u, err
}
