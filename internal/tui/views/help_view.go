package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/teleclone/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays key binding reference.
type HelpView struct {
	*tview.TextView
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetTitle(" Help ")

	hv := &HelpView{TextView: tv}
	hv.ApplyTheme(theme)
	return hv
}

// Name implements Component.
func (hv *HelpView) Name() string { return "Help" }

// Init implements Component.
func (hv *HelpView) Init() {}

// Start implements Component.
func (hv *HelpView) Start() {}

// Stop implements Component.
func (hv *HelpView) Stop() {}

// Hints implements Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

type helpSection struct {
	title string
	rows  [][2]string
}

var helpSections = []helpSection{
	{"Global Keys", [][2]string{
		{":", "Command mode"},
		{"Esc", "Cancel / Go back"},
		{"?", "Help"},
		{"t", "Toggle dark / light theme"},
		{"P", "Your profile and peer ID"},
		{"q", "Quit / Back"},
		{"Ctrl-C", "Quit immediately"},
	}},
	{"Chat List", [][2]string{
		{"Enter", "Open chat"},
		{"/", "Filter chats"},
		{"0", "Clear filter"},
		{"1-9", "Jump to Nth chat"},
		{"j/k", "Move down / up"},
		{"a", "Add contact by peer ID"},
		{"p", "Pin / unpin"},
		{"m", "Mute / unmute"},
		{"d", "Contact details"},
	}},
	{"Chat", [][2]string{
		{"i", "Focus composer"},
		{"Enter", "Send message (in composer)"},
		{"Esc", "Leave composer / close chat"},
		{"d", "Contact details"},
	}},
	{"Commands", [][2]string{
		{":add <peer-id>", "Add a contact and open the chat"},
		{":chat <name>", "Open chat by name"},
		{":voice <seconds>", "Send a voice message to the open chat"},
		{":pin / :mute", "Toggle on the open or selected chat"},
		{":theme [dark|light]", "Switch theme"},
		{":profile", "Show your profile"},
		{":help / :h", "Show this help"},
		{":quit / :q", "Quit application"},
	}},
}

// ApplyTheme implements ui.Themed.
func (hv *HelpView) ApplyTheme(t *ui.Theme) {
	hv.SetBorderColor(t.BorderColor)
	hv.SetBackgroundColor(t.BgColor)
	hv.SetTextColor(t.FgColor)
	hv.SetTitleColor(t.TitleColor)

	kc := ui.ColorName(t.MenuKeyColor)
	var sb strings.Builder
	for _, s := range helpSections {
		fmt.Fprintf(&sb, "\n  [::b]%s[-:-:-]\n\n", s.title)
		for _, r := range s.rows {
			fmt.Fprintf(&sb, "  [%s]%-22s[-:-:-] %s\n", kc, tview.Escape(r[0]), r[1])
		}
	}
	hv.Clear()
	_, _ = fmt.Fprint(hv, sb.String())
}
