package model

import "time"

// Well-known identities shared by client and server.
const (
	LocalUserID     = "me"
	AssistantUserID = "gemini"
	AssistantChatID = "gemini"
)

// Message delivery status.
const (
	StatusSending = "sending"
	StatusSent    = "sent"
	StatusRead    = "read"
)

// User is an identity record for the local user or a contact.
type User struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Avatar      *string    `json:"avatar"`
	Status      string     `json:"status"` // online, offline or free text
	LastSeen    *time.Time `json:"lastSeen"`
	About       *string    `json:"about"`
	PhoneNumber *string    `json:"phoneNumber"`
}

// Chat is a 1:1 conversation shell. LastMessage, LastMessageTime, LastActivity
// and UnreadCount are denormalised from the chat's messages.
type Chat struct {
	ID              string  `json:"id"`
	UserID          string  `json:"userId"`
	LastMessage     string  `json:"lastMessage"`
	LastMessageTime int64   `json:"lastMessageTime"`
	LastActivity    int64   `json:"lastActivity"`
	UnreadCount     int     `json:"unreadCount"`
	PinnedMessageID *string `json:"pinnedMessageId"`
	IsPinned        bool    `json:"isPinned"`
	IsMuted         bool    `json:"isMuted"`
}

// Message is an append-only event within a chat. Timestamp is epoch milliseconds.
type Message struct {
	ID            string  `json:"id"`
	ChatID        string  `json:"chatId"`
	SenderID      string  `json:"senderId"`
	Text          *string `json:"text"`
	Timestamp     int64   `json:"timestamp"`
	Status        string  `json:"status"`
	IsSelf        bool    `json:"isSelf"`
	Image         *string `json:"image"`
	IsVoice       bool    `json:"isVoice"`
	VoiceURL      *string `json:"voiceUrl"`
	MediaData     *string `json:"mediaData"`
	VoiceDuration *int    `json:"voiceDuration"`
	ReplyToID     *string `json:"replyToId"`
	IsEdited      bool    `json:"isEdited"`
	ForwardedFrom *string `json:"forwardedFrom"`
	IsSticker     bool    `json:"isSticker"`
	IsCall        bool    `json:"isCall"`
}

// Body returns the message text, or "" for media-only messages.
func (m Message) Body() string {
	if m.Text == nil {
		return ""
	}
	return *m.Text
}

// Time returns the message timestamp as a time.Time.
func (m Message) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}

// Preview returns the text shown in the chat list for this message.
func (m Message) Preview() string {
	switch {
	case m.IsVoice:
		return "Voice message"
	case m.IsSticker:
		return "Sticker"
	case m.IsCall:
		return "Call"
	case m.Image != nil && m.Body() == "":
		return "Photo"
	}
	return m.Body()
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }
