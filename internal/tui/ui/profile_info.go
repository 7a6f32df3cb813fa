package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// ProfileData holds the header summary of the running client.
type ProfileData struct {
	Profile string
	Name    string
	Backend string
	Chats   int
	Unread  int
	Theme   string
}

// ProfileInfo displays profile metadata in the header.
type ProfileInfo struct {
	*tview.TextView
	theme *Theme
	data  *ProfileData
}

// NewProfileInfo creates a new profile info panel.
func NewProfileInfo(theme *Theme) *ProfileInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBorderPadding(0, 0, 1, 1)

	pi := &ProfileInfo{TextView: tv}
	pi.ApplyTheme(theme)
	return pi
}

// ApplyTheme implements Themed.
func (pi *ProfileInfo) ApplyTheme(t *Theme) {
	pi.theme = t
	pi.SetBackgroundColor(t.BgColor)
	pi.Update(pi.data)
}

// Update renders the profile info.
func (pi *ProfileInfo) Update(data *ProfileData) {
	pi.data = data
	pi.Clear()
	if data == nil {
		return
	}

	fg := ColorName(pi.theme.FgColor)
	ct := ColorName(pi.theme.CounterColor)
	row := func(label, value string) string {
		return fmt.Sprintf("[%s::b]%-8s[-:-:-] [%s]%s[-]", fg, label+":", ct, tview.Escape(value))
	}
	_, _ = fmt.Fprintf(pi, "%s\n%s\n%s\n%s\n%s\n%s",
		row("Profile", data.Profile),
		row("User", data.Name),
		row("Backend", data.Backend),
		row("Chats", fmt.Sprint(data.Chats)),
		row("Unread", fmt.Sprint(data.Unread)),
		row("Theme", data.Theme),
	)
}
