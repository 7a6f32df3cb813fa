package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/matheus3301/teleclone/internal/model"
	"github.com/matheus3301/teleclone/internal/tui/ui"
	"github.com/rivo/tview"
	qrcode "github.com/skip2/go-qrcode"
)

// ProfileView shows a user's details and their peer id as a QR code. For a
// contact the chat settings are listed too.
type ProfileView struct {
	*tview.TextView
	theme *ui.Theme
	user  model.User
	chat  *model.Chat
}

// NewProfileView creates a new profile view.
func NewProfileView(theme *ui.Theme) *ProfileView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)

	pv := &ProfileView{TextView: tv}
	pv.ApplyTheme(theme)
	return pv
}

// Name implements Component.
func (pv *ProfileView) Name() string {
	if pv.chat == nil {
		return "Profile"
	}
	return "Contact"
}

// Init implements Component.
func (pv *ProfileView) Init() {}

// Start implements Component.
func (pv *ProfileView) Start() {}

// Stop implements Component.
func (pv *ProfileView) Stop() {}

// Hints implements Component.
func (pv *ProfileView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

// ApplyTheme implements ui.Themed.
func (pv *ProfileView) ApplyTheme(t *ui.Theme) {
	pv.theme = t
	pv.SetBorderColor(t.BorderColor)
	pv.SetBackgroundColor(t.BgColor)
	pv.SetTextColor(t.FgColor)
	pv.SetTitleColor(t.TitleColor)
	pv.render()
}

// Update shows u. chat is nil for the local user.
func (pv *ProfileView) Update(u model.User, chat *model.Chat) {
	pv.user = u
	pv.chat = chat
	pv.render()
}

func (pv *ProfileView) render() {
	pv.Clear()
	if pv.user.ID == "" {
		return
	}
	u := pv.user
	fg := ui.ColorName(pv.theme.FgColor)
	ct := ui.ColorName(pv.theme.CounterColor)

	var sb strings.Builder
	row := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&sb, " [%s::b]%-13s[-:-:-] [%s]%s[-]\n", fg, label+":", ct, tview.Escape(sanitizeForTerminal(value)))
	}
	sb.WriteString("\n")
	row("Name", u.Name)
	row("Peer ID", u.ID)
	row("Status", u.Status)
	if u.LastSeen != nil && u.Status != "online" {
		row("Last seen", u.LastSeen.Local().Format(time.DateTime))
	}
	row("About", deref(u.About))
	row("Phone", deref(u.PhoneNumber))
	if c := pv.chat; c != nil {
		row("Unread", fmt.Sprint(c.UnreadCount))
		row("Pinned", yesNo(c.IsPinned))
		row("Muted", yesNo(c.IsMuted))
		row("Last message", c.LastMessage)
	}

	caption := "Share your peer ID:"
	if pv.chat != nil {
		caption = "Peer ID:"
	}
	fmt.Fprintf(&sb, "\n  %s\n\n%s", caption, renderQR(u.ID))

	_, _ = fmt.Fprint(pv, sb.String())
	pv.SetTitle(fmt.Sprintf(" %s ", tview.Escape(sanitizeForTerminal(u.Name))))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// renderQR converts a string to a compact QR code using Unicode half-block
// characters, two bitmap rows per text line.
func renderQR(content string) string {
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "  (QR generation failed: " + tview.Escape(err.Error()) + ")"
	}

	bitmap := qr.Bitmap()
	rows := len(bitmap)
	cols := 0
	if rows > 0 {
		cols = len(bitmap[0])
	}

	var sb strings.Builder
	for y := 0; y < rows; y += 2 {
		sb.WriteString("  ")
		for x := 0; x < cols; x++ {
			top := bitmap[y][x]
			bot := y+1 < rows && bitmap[y+1][x]
			switch {
			case top && bot:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bot:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
