package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// Logo displays a compact ASCII art logo.
type Logo struct {
	*tview.TextView
}

// NewLogo creates a new logo component.
func NewLogo(theme *Theme) *Logo {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBorderPadding(1, 0, 1, 0)

	l := &Logo{TextView: tv}
	l.ApplyTheme(theme)
	return l
}

// ApplyTheme implements Themed.
func (l *Logo) ApplyTheme(t *Theme) {
	l.SetBackgroundColor(t.BgColor)
	l.Clear()
	title := ColorName(t.TitleColor)
	_, _ = fmt.Fprintf(l,
		"[%s::b]╔╦╗╔═╗╦  ╔═╗[-:-:-]\n"+
			"[%s::b] ║ ║╣ ║  ║╣ [-:-:-]\n"+
			"[%s::b] ╩ ╚═╝╩═╝╚═╝[-:-:-]\n"+
			"[%s]teleclone[-:-:-]",
		title, title, title, ColorName(t.FgColor),
	)
}
