package repo

import (
	"time"

	"github.com/matheus3301/teleclone/internal/model"
)

// UserRow is the users table.
type UserRow struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Avatar      *string
	Status      string    `gorm:"default:offline"`
	LastSeen    time.Time `gorm:"not null"`
	About       *string
	PhoneNumber *string
	CreatedAt   time.Time `gorm:"index"`
}

func (UserRow) TableName() string { return "users" }

// ChatRow is the app_chats table.
type ChatRow struct {
	ID              string `gorm:"primaryKey"`
	UserID          string `gorm:"not null;index"`
	LastMessage     *string
	LastMessageTime *int64
	LastActivity    *int64
	UnreadCount     int
	PinnedMessageID *string
	IsPinned        bool
	IsMuted         bool
}

func (ChatRow) TableName() string { return "app_chats" }

// MessageRow is the app_messages table.
type MessageRow struct {
	ID            string `gorm:"primaryKey"`
	ChatID        string `gorm:"not null;index"`
	SenderID      string `gorm:"not null"`
	Text          *string
	Image         *string
	IsVoice       bool
	VoiceURL      *string
	MediaData     *string
	VoiceDuration *int
	Timestamp     int64  `gorm:"not null"`
	Status        string `gorm:"default:sent"`
	IsSelf        bool
	ReplyToID     *string
	IsEdited      bool
	ForwardedFrom *string
	IsSticker     bool
	IsCall        bool
}

func (MessageRow) TableName() string { return "app_messages" }

func userRow(u model.User) UserRow {
	row := UserRow{
		ID:          u.ID,
		Name:        u.Name,
		Avatar:      u.Avatar,
		Status:      u.Status,
		About:       u.About,
		PhoneNumber: u.PhoneNumber,
	}
	if u.LastSeen != nil {
		row.LastSeen = *u.LastSeen
	}
	return row
}

func (r UserRow) model() model.User {
	seen := r.LastSeen
	return model.User{
		ID:          r.ID,
		Name:        r.Name,
		Avatar:      r.Avatar,
		Status:      r.Status,
		LastSeen:    &seen,
		About:       r.About,
		PhoneNumber: r.PhoneNumber,
	}
}

func chatRow(c model.Chat) ChatRow {
	return ChatRow{
		ID:              c.ID,
		UserID:          c.UserID,
		LastMessage:     &c.LastMessage,
		LastMessageTime: &c.LastMessageTime,
		LastActivity:    &c.LastActivity,
		UnreadCount:     c.UnreadCount,
		PinnedMessageID: c.PinnedMessageID,
		IsPinned:        c.IsPinned,
		IsMuted:         c.IsMuted,
	}
}

func messageRow(m model.Message) MessageRow {
	return MessageRow{
		ID:            m.ID,
		ChatID:        m.ChatID,
		SenderID:      m.SenderID,
		Text:          m.Text,
		Image:         m.Image,
		IsVoice:       m.IsVoice,
		VoiceURL:      m.VoiceURL,
		MediaData:     m.MediaData,
		VoiceDuration: m.VoiceDuration,
		Timestamp:     m.Timestamp,
		Status:        m.Status,
		IsSelf:        m.IsSelf,
		ReplyToID:     m.ReplyToID,
		IsEdited:      m.IsEdited,
		ForwardedFrom: m.ForwardedFrom,
		IsSticker:     m.IsSticker,
		IsCall:        m.IsCall,
	}
}
