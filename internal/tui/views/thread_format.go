package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/matheus3301/teleclone/internal/grouping"
	"github.com/matheus3301/teleclone/internal/model"
	"github.com/matheus3301/teleclone/internal/tui/ui"
	"github.com/rivo/tview"
)

const quoteLen = 40

// Palette holds the color tags used by FormatThread.
type Palette struct {
	Self    string
	Peer    string
	Divider string
	Meta    string
}

// PaletteFor derives a thread palette from a theme.
func PaletteFor(t *ui.Theme) Palette {
	return Palette{
		Self:    ui.ColorName(t.SelfColor),
		Peer:    ui.ColorName(t.PeerColor),
		Divider: ui.ColorName(t.CounterColor),
		Meta:    ui.ColorName(t.MutedColor),
	}
}

// FormatThread renders msgs as tview markup: one divider per date bucket, a
// sender header at the start of each run and a blank line after its end.
// names resolves sender ids to display names.
func FormatThread(msgs []model.Message, now time.Time, names func(id string) string, p Palette) string {
	byID := make(map[string]model.Message, len(msgs))
	for _, m := range msgs {
		byID[m.ID] = m
	}

	var sb strings.Builder
	for _, b := range grouping.Group(msgs, now) {
		fmt.Fprintf(&sb, "[%s::b]──── %s ────[-:-:-]\n\n", p.Divider, tview.Escape(b.Label))
		for _, e := range b.Entries() {
			m := e.Message
			color := p.Peer
			if m.IsSelf {
				color = p.Self
			}
			if e.IsFirstInGroup {
				name := "You"
				if !m.IsSelf {
					name = names(m.SenderID)
				}
				fmt.Fprintf(&sb, "[%s::b]%s[-:-:-]\n", color, tview.Escape(sanitizeForTerminal(name)))
			}
			if m.ReplyToID != nil {
				if quoted, ok := byID[*m.ReplyToID]; ok {
					fmt.Fprintf(&sb, "  [%s]│ %s[-]\n", p.Meta, tview.Escape(truncate(sanitizeForTerminal(bodyText(quoted)), quoteLen)))
				}
			}
			if m.ForwardedFrom != nil {
				fmt.Fprintf(&sb, "  [%s]Forwarded from %s[-]\n", p.Meta, tview.Escape(*m.ForwardedFrom))
			}
			fmt.Fprintf(&sb, "  %s  [%s]%s[-]\n", tview.Escape(sanitizeForTerminal(bodyText(m))), p.Meta, meta(m, now))
			if e.IsLastInGroup {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

// bodyText is the visible content of a message.
func bodyText(m model.Message) string {
	switch {
	case m.IsVoice:
		secs := 0
		if m.VoiceDuration != nil {
			secs = *m.VoiceDuration
		}
		return fmt.Sprintf("🎤 Voice message %d:%02d", secs/60, secs%60)
	case m.Image != nil && m.Body() == "":
		return "🖼 Photo"
	case m.IsSticker || m.IsCall:
		return m.Preview()
	}
	return m.Body()
}

func meta(m model.Message, now time.Time) string {
	parts := []string{time.UnixMilli(m.Timestamp).In(now.Location()).Format("15:04")}
	if m.IsEdited {
		parts = append(parts, "edited")
	}
	if m.IsSelf {
		parts = append(parts, statusGlyph(m.Status))
	}
	return strings.Join(parts, " ")
}

func statusGlyph(status string) string {
	switch status {
	case model.StatusSending:
		return "…"
	case model.StatusRead:
		return "✓✓"
	default:
		return "✓"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
