package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

const menuColumnGap = 3

// Menu displays keyboard shortcut hints in columns of at most rows lines.
type Menu struct {
	*tview.TextView
	theme *Theme
	rows  int
	hints []MenuHint
}

// NewMenu creates a new menu hint bar with the given number of rows.
func NewMenu(theme *Theme, rows int) *Menu {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBorderPadding(0, 0, 2, 0)

	m := &Menu{TextView: tv, rows: rows}
	m.ApplyTheme(theme)
	return m
}

// ApplyTheme implements Themed.
func (m *Menu) ApplyTheme(t *Theme) {
	m.theme = t
	m.SetBackgroundColor(t.BgColor)
	m.SetTextColor(t.FgColor)
	m.Update(m.hints)
}

// Update renders hints column by column.
func (m *Menu) Update(hints []MenuHint) {
	m.hints = hints
	m.Clear()
	_, _ = fmt.Fprint(m, m.layout())
}

func (m *Menu) layout() string {
	if len(m.hints) == 0 {
		return ""
	}
	rows := m.rows
	if rows < 1 || rows > len(m.hints) {
		rows = len(m.hints)
	}
	cols := (len(m.hints) + rows - 1) / rows

	widths := make([]int, cols)
	for i, h := range m.hints {
		if w := len([]rune(plainHint(h))); w > widths[i/rows] {
			widths[i/rows] = w
		}
	}

	keyColor := ColorName(m.theme.MenuKeyColor)
	numColor := ColorName(m.theme.NumericKeyColor)
	var sb strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := c*rows + r
			if i >= len(m.hints) {
				break
			}
			h := m.hints[i]
			kc := keyColor
			if h.Numeric {
				kc = numColor
			}
			fmt.Fprintf(&sb, "[%s::b]<%s>[-:-:-] %s", kc, tview.Escape(h.Key), tview.Escape(h.Description))
			if c < cols-1 && i+rows < len(m.hints) {
				sb.WriteString(strings.Repeat(" ", widths[c]-len([]rune(plainHint(h)))+menuColumnGap))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func plainHint(h MenuHint) string {
	return "<" + h.Key + "> " + h.Description
}
