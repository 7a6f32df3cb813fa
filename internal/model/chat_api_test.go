package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestChatRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"prompt only", `{"prompt":"hello"}`, ""},
		{"with history", `{"prompt":"hi","history":[{"role":"user","parts":"a"},{"role":"model","parts":"b"}]}`, ""},
		{"empty history parts", `{"prompt":"hi","history":[{"role":"model","parts":""}]}`, ""},
		{"missing prompt", `{}`, "prompt: required"},
		{"blank prompt", `{"prompt":"   "}`, "prompt: must not be empty"},
		{"bad role", `{"prompt":"hi","history":[{"role":"user","parts":"a"},{"role":"system","parts":"b"}]}`, "history[1].role"},
		{"missing role", `{"prompt":"hi","history":[{"parts":"b"}]}`, "history[0].role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req ChatRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatal(err)
			}
			err := req.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestHistoryFromBounded(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 25} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			var msgs []Message
			for i := 0; i < n; i++ {
				msgs = append(msgs, Message{ID: fmt.Sprint(i), Text: StringPtr(fmt.Sprint(i)), IsSelf: i%2 == 0})
			}
			h := HistoryFrom(msgs)
			want := min(n, MaxHistory)
			if len(h) != want {
				t.Fatalf("len = %d, want %d", len(h), want)
			}
			if want == 0 {
				return
			}
			// The newest message is always kept last.
			last := h[len(h)-1]
			if last.Parts != fmt.Sprint(n-1) {
				t.Errorf("last parts = %q, want %q", last.Parts, fmt.Sprint(n-1))
			}
		})
	}
}

func TestHistoryFromRoles(t *testing.T) {
	msgs := []Message{
		{Text: StringPtr("hey"), IsSelf: true},
		{Text: StringPtr("yo"), IsSelf: false},
		{IsVoice: true, IsSelf: true},
	}
	h := HistoryFrom(msgs)
	want := []HistoryEntry{
		{Role: RoleUser, Parts: "hey"},
		{Role: RoleModel, Parts: "yo"},
		{Role: RoleUser, Parts: ""},
	}
	for i := range want {
		if h[i] != want[i] {
			t.Errorf("h[%d] = %+v, want %+v", i, h[i], want[i])
		}
	}
}

func TestMessagePreview(t *testing.T) {
	tests := []struct {
		msg  Message
		want string
	}{
		{Message{Text: StringPtr("hello")}, "hello"},
		{Message{IsVoice: true, Text: StringPtr("")}, "Voice message"},
		{Message{Image: StringPtr("x.png")}, "Photo"},
		{Message{IsSticker: true}, "Sticker"},
		{Message{}, ""},
	}
	for _, tt := range tests {
		if got := tt.msg.Preview(); got != tt.want {
			t.Errorf("Preview(%+v) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}
