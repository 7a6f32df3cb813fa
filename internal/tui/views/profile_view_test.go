package views

import (
	"strings"
	"testing"

	"github.com/matheus3301/teleclone/internal/model"
	"github.com/matheus3301/teleclone/internal/tui/ui"
)

func TestRenderQR(t *testing.T) {
	out := renderQR("user2")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) < 10 {
		t.Fatalf("QR has %d lines", len(lines))
	}
	width := len([]rune(lines[0]))
	for i, l := range lines {
		if n := len([]rune(l)); n != width {
			t.Errorf("line %d width %d, want %d", i, n, width)
		}
	}
	if !strings.ContainsAny(out, "█▀▄") {
		t.Error("QR has no modules")
	}
}

func TestProfileViewContact(t *testing.T) {
	pv := NewProfileView(ui.DarkTheme())
	pv.Update(model.User{ID: "user3", Name: "Bob Jones", Status: "offline", About: model.StringPtr("hi")},
		&model.Chat{ID: "3", UnreadCount: 2, IsMuted: true})

	text := pv.GetText(true)
	for _, want := range []string{"Bob Jones", "user3", "offline", "Unread", "2", "Muted", "yes", "Peer ID:"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
	if pv.Name() != "Contact" {
		t.Errorf("Name() = %q", pv.Name())
	}
}

func TestProfileViewSelf(t *testing.T) {
	pv := NewProfileView(ui.LightTheme())
	pv.Update(model.User{ID: model.LocalUserID, Name: "Me", Status: "online"}, nil)
	text := pv.GetText(true)
	if !strings.Contains(text, "Share your peer ID:") || strings.Contains(text, "Unread") {
		t.Errorf("self profile:\n%s", text)
	}
	if pv.Name() != "Profile" {
		t.Errorf("Name() = %q", pv.Name())
	}
}
