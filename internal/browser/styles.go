package browser

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	lightForeground = lipgloss.Color("#101F38")
	lightPrimary    = lipgloss.Color("#101F38")
	lightMuted      = lipgloss.Color("#6a737d")
	darkForeground  = lipgloss.Color("#f2f2f2")
	darkPrimary     = lipgloss.Color("#8BC34A")
	darkMuted       = lipgloss.Color("#8a94a6")

	colorError   = lipgloss.Color("#e53935")
	colorSuccess = lipgloss.Color("#8BC34A")
	colorAccent  = lipgloss.Color("#2196F3")
)

// Theme is the color scheme for one background.
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Muted      lipgloss.Color
}

// DetectTheme picks a dark theme when COLORFGBG reports a dark background.
func DetectTheme() Theme {
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bg, err := strconv.Atoi(parts[1]); err == nil && ((bg >= 0 && bg <= 6) || bg == 8) {
			return Theme{Foreground: darkForeground, Primary: darkPrimary, Muted: darkMuted}
		}
	}
	return Theme{Foreground: lightForeground, Primary: lightPrimary, Muted: lightMuted}
}

// Styles holds the rendered components of both shells.
type Styles struct {
	Header  lipgloss.Style
	Body    lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Divider lipgloss.Style
	Prompt  lipgloss.Style
	Status  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles builds styles for output written to w. Color is dropped when
// w is not a terminal.
func NewStyles(w io.Writer, theme Theme) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Header:  r.NewStyle().Foreground(theme.Primary).Bold(true),
		Body:    r.NewStyle().Foreground(theme.Foreground),
		Bold:    r.NewStyle().Foreground(theme.Foreground).Bold(true),
		Muted:   r.NewStyle().Foreground(theme.Muted),
		Divider: r.NewStyle().Foreground(theme.Muted),
		Prompt:  r.NewStyle().Foreground(colorAccent).Bold(true),
		Status:  r.NewStyle().Foreground(theme.Muted).Italic(true),
		Success: r.NewStyle().Foreground(colorSuccess).Bold(true),
		Error:   r.NewStyle().Foreground(colorError).Bold(true),
	}
}
