package model

import (
	"errors"
	"fmt"
	"strings"
)

// Role identifies the author of a history turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModel
}

// HistoryEntry is one prior conversation turn sent to the generation proxy.
type HistoryEntry struct {
	Role  Role   `json:"role"`
	Parts string `json:"parts"`
}

// ChatRequest is the body of POST /api/gemini/chat.
type ChatRequest struct {
	Prompt  *string        `json:"prompt"`
	History []HistoryEntry `json:"history,omitempty"`
}

// ChatResponse is returned on success and, with Message set, on upstream failure.
type ChatResponse struct {
	Message  string `json:"message,omitempty"`
	Response string `json:"response"`
}

// ErrorResponse is returned for rejected requests.
type ErrorResponse struct {
	Message string `json:"message"`
}

// MaxHistory bounds the number of prior turns sent with a prompt.
const MaxHistory = 10

// Validate checks the request shape. The returned error names the offending field.
func (r *ChatRequest) Validate() error {
	if r.Prompt == nil {
		return errors.New("prompt: required")
	}
	if strings.TrimSpace(*r.Prompt) == "" {
		return errors.New("prompt: must not be empty")
	}
	for i, h := range r.History {
		if !h.Role.Valid() {
			return fmt.Errorf("history[%d].role: must be %q or %q, got %q", i, RoleUser, RoleModel, h.Role)
		}
	}
	return nil
}

// NewChatRequest builds a request for prompt with the given history.
func NewChatRequest(prompt string, history []HistoryEntry) ChatRequest {
	return ChatRequest{Prompt: &prompt, History: history}
}

// HistoryFrom maps the most recent MaxHistory messages to proxy history turns.
// Messages authored locally become user turns, everything else model turns.
func HistoryFrom(msgs []Message) []HistoryEntry {
	if len(msgs) > MaxHistory {
		msgs = msgs[len(msgs)-MaxHistory:]
	}
	history := make([]HistoryEntry, 0, len(msgs))
	for _, m := range msgs {
		role := RoleModel
		if m.IsSelf {
			role = RoleUser
		}
		history = append(history, HistoryEntry{Role: role, Parts: m.Body()})
	}
	return history
}
