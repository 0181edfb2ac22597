package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Label is used for field names such as facility names.
	Label = lipgloss.NewStyle().
		Foreground(Gray).
		Bold(true)

	// MutedText is for help text, hints, and less important info.
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	// AccentText is for highlighted values such as host names.
	AccentText = lipgloss.NewStyle().
			Foreground(Blue)

	// ErrorText is for error messages.
	ErrorText = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	// SuccessText is for success messages.
	SuccessText = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)
)

// Host reachability states rendered by StatusIndicator.
const (
	StatusReachable   = "reachable"
	StatusUnreachable = "unreachable"
	StatusSlow        = "slow"
)

// StatusStyle returns the style for a host reachability state.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusReachable:
		return lipgloss.NewStyle().Foreground(Green).Bold(true)
	case StatusSlow:
		return lipgloss.NewStyle().Foreground(Yellow).Bold(true)
	case StatusUnreachable:
		return lipgloss.NewStyle().Foreground(Red)
	default:
		return lipgloss.NewStyle().Foreground(Gray)
	}
}

// StatusIndicator returns a small dot + status text with appropriate color.
func StatusIndicator(status string) string {
	style := StatusStyle(status)
	return style.Render("●") + " " + style.Render(status)
}
