package views

import "github.com/gdamore/tcell/v2"

// Theme holds color constants for the TUI.
type Theme struct {
	BgColor       tcell.Color
	FgColor       tcell.Color
	BorderColor   tcell.Color
	TableHeaderFg tcell.Color
	TableHeaderBg tcell.Color
	TableCursorFg tcell.Color
	TableCursorBg tcell.Color
	TitleColor    tcell.Color
	UnreadColor   tcell.Color
	ErrorColor    tcell.Color
}

// DefaultTheme returns the dark theme used throughout.
func DefaultTheme() *Theme {
	return &Theme{
		BgColor:       tcell.ColorBlack,
		FgColor:       tcell.ColorCadetBlue,
		BorderColor:   tcell.ColorDodgerBlue,
		TableHeaderFg: tcell.ColorWhite,
		TableHeaderBg: tcell.ColorBlack,
		TableCursorFg: tcell.ColorBlack,
		TableCursorBg: tcell.ColorAqua,
		TitleColor:    tcell.ColorFuchsia,
		UnreadColor:   tcell.ColorOrange,
		ErrorColor:    tcell.ColorOrangeRed,
	}
}
