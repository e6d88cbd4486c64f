package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles are the lipgloss styles the carousel painter draws with.
type Styles struct {
	Header      lipgloss.Style
	Date        lipgloss.Style
	Clock       lipgloss.Style
	Box         lipgloss.Style
	DotActive   lipgloss.Style
	DotInactive lipgloss.Style
	DotFading   lipgloss.Style
	Placeholder lipgloss.Style
	HelpKey     lipgloss.Style
	HelpDesc    lipgloss.Style
}

// NewStyles builds styles from a palette.
func NewStyles(t Theme) Styles {
	return Styles{
		Header:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Header)),
		Date:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.Date)),
		Clock:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Clock)),
		Box:         lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(t.Border)),
		DotActive:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.DotActive)),
		DotInactive: lipgloss.NewStyle().Foreground(lipgloss.Color(t.DotInactive)),
		DotFading:   lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color(t.DotActive)),
		Placeholder: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color(t.Placeholder)),
		HelpKey:     lipgloss.NewStyle().Foreground(lipgloss.Color(t.HelpKey)),
		HelpDesc:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.HelpDesc)),
	}
}

// ColorDepth maps a termenv color profile to a bit depth for Adapt.
func ColorDepth(p termenv.Profile) int {
	switch p {
	case termenv.TrueColor:
		return 24
	case termenv.ANSI256:
		return 8
	case termenv.ANSI:
		return 4
	default:
		return 1
	}
}

// ForProfile returns the named theme adapted to the terminal's profile.
func ForProfile(name string, p termenv.Profile) Theme {
	return Adapt(Get(name), ColorDepth(p))
}
