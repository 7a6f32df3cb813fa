package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Theme holds color constants for the TUI.
type Theme struct {
	Dark              bool
	BgColor           tcell.Color
	FgColor           tcell.Color
	BorderColor       tcell.Color
	BorderFocusColor  tcell.Color
	TableHeaderFg     tcell.Color
	TableHeaderBg     tcell.Color
	TableCursorFg     tcell.Color
	TableCursorBg     tcell.Color
	CrumbActiveFg     tcell.Color
	CrumbActiveBg     tcell.Color
	CrumbInactiveFg   tcell.Color
	CrumbInactiveBg   tcell.Color
	MenuKeyColor      tcell.Color
	NumericKeyColor   tcell.Color
	TitleColor        tcell.Color
	CounterColor      tcell.Color
	FlashInfoColor    tcell.Color
	FlashWarnColor    tcell.Color
	FlashErrColor     tcell.Color
	PromptBorderColor tcell.Color
	SelfColor         tcell.Color
	PeerColor         tcell.Color
	MutedColor        tcell.Color
}

// DarkTheme returns the default dark theme.
func DarkTheme() *Theme {
	return &Theme{
		Dark:              true,
		BgColor:           tcell.ColorBlack,
		FgColor:           tcell.ColorCadetBlue,
		BorderColor:       tcell.ColorDodgerBlue,
		BorderFocusColor:  tcell.ColorLightSkyBlue,
		TableHeaderFg:     tcell.ColorWhite,
		TableHeaderBg:     tcell.ColorBlack,
		TableCursorFg:     tcell.ColorBlack,
		TableCursorBg:     tcell.ColorAqua,
		CrumbActiveFg:     tcell.ColorBlack,
		CrumbActiveBg:     tcell.ColorOrange,
		CrumbInactiveFg:   tcell.ColorBlack,
		CrumbInactiveBg:   tcell.ColorAqua,
		MenuKeyColor:      tcell.ColorDodgerBlue,
		NumericKeyColor:   tcell.ColorFuchsia,
		TitleColor:        tcell.ColorFuchsia,
		CounterColor:      tcell.ColorPapayaWhip,
		FlashInfoColor:    tcell.ColorNavajoWhite,
		FlashWarnColor:    tcell.ColorOrange,
		FlashErrColor:     tcell.ColorOrangeRed,
		PromptBorderColor: tcell.ColorDodgerBlue,
		SelfColor:         tcell.ColorMediumSpringGreen,
		PeerColor:         tcell.ColorLightSkyBlue,
		MutedColor:        tcell.ColorGray,
	}
}

// LightTheme returns the light theme.
func LightTheme() *Theme {
	return &Theme{
		BgColor:           tcell.ColorWhite,
		FgColor:           tcell.ColorDarkSlateGray,
		BorderColor:       tcell.ColorSteelBlue,
		BorderFocusColor:  tcell.ColorNavy,
		TableHeaderFg:     tcell.ColorBlack,
		TableHeaderBg:     tcell.ColorWhite,
		TableCursorFg:     tcell.ColorWhite,
		TableCursorBg:     tcell.ColorSteelBlue,
		CrumbActiveFg:     tcell.ColorWhite,
		CrumbActiveBg:     tcell.ColorDarkOrange,
		CrumbInactiveFg:   tcell.ColorWhite,
		CrumbInactiveBg:   tcell.ColorSteelBlue,
		MenuKeyColor:      tcell.ColorNavy,
		NumericKeyColor:   tcell.ColorPurple,
		TitleColor:        tcell.ColorPurple,
		CounterColor:      tcell.ColorSaddleBrown,
		FlashInfoColor:    tcell.ColorDarkGreen,
		FlashWarnColor:    tcell.ColorDarkOrange,
		FlashErrColor:     tcell.ColorRed,
		PromptBorderColor: tcell.ColorSteelBlue,
		SelfColor:         tcell.ColorDarkGreen,
		PeerColor:         tcell.ColorNavy,
		MutedColor:        tcell.ColorDarkGray,
	}
}

// ThemeFor returns the dark or light theme.
func ThemeFor(dark bool) *Theme {
	if dark {
		return DarkTheme()
	}
	return LightTheme()
}

// Name returns "dark" or "light".
func (t *Theme) Name() string {
	if t.Dark {
		return "dark"
	}
	return "light"
}

// ColorName returns a tview-compatible color tag for c.
func ColorName(c tcell.Color) string {
	for name, val := range tcell.ColorNames {
		if val == c {
			return name
		}
	}
	return fmt.Sprintf("#%06x", c.Hex())
}
