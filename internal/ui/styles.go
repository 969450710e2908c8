// Package ui provides terminal styling for td CLI output.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Semantic colors, adaptive for light and dark terminals.
var (
	ColorDone = lipgloss.AdaptiveColor{
		Light: "#86b300",
		Dark:  "#c2d94c",
	}
	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#f2ae49",
		Dark:  "#ffb454",
	}
	ColorFail = lipgloss.AdaptiveColor{
		Light: "#f07171",
		Dark:  "#f07178",
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6",
		Dark:  "#59c2ff",
	}
)

// Styles shared across commands.
var (
	DoneStyle    = lipgloss.NewStyle().Foreground(ColorDone)
	WarnStyle    = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle    = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle  = lipgloss.NewStyle().Foreground(ColorAccent)
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	OverdueStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorFail)
)

// Priority styles indexed by wire priority (1..4, 4 most urgent).
var PriorityStyles = map[int]lipgloss.Style{
	4: FailStyle,
	3: WarnStyle,
	2: AccentStyle,
	1: MutedStyle,
}

const (
	IconDone    = "✓"
	IconOpen    = "○"
	IconOverdue = "!"
)

// DisableColor forces plain output. Called for --no-color, NO_COLOR, and
// non-TTY stdout.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// ConfigureColor applies the color policy: an explicit disable flag, the
// NO_COLOR convention, and piped output all turn styling off.
func ConfigureColor(noColorFlag bool, configColor bool) {
	if noColorFlag || !configColor || os.Getenv("NO_COLOR") != "" {
		DisableColor()
		return
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		DisableColor()
	}
}
