package bus

import "time"

// Event kinds published by the client state layer.
const (
	MessageAppended = "message.appended"
	ChatUpdated     = "chat.updated"
	ChatTyping      = "chat.typing"
	ThemeChanged    = "settings.theme"
)

// Event is a domain event published on the bus. ChatID is empty for events
// that are not scoped to a chat.
type Event struct {
	Kind      string
	ChatID    string
	Timestamp time.Time
	Payload   any
}

// Typing is the payload of ChatTyping events.
type Typing struct {
	UserID string
	Active bool
}
