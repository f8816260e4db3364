// Package styles holds the shared terminal palette.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dracula color palette
const (
	Background  = "#282a36"
	CurrentLine = "#44475a"
	Foreground  = "#f8f8f2"
	Comment     = "#6272a4"
	Cyan        = "#8be9fd"
	Green       = "#50fa7b"
	Orange      = "#ffb86c"
	Pink        = "#ff79c6"
	Purple      = "#bd93f9"
	Red         = "#ff5555"
	Yellow      = "#f1fa8c"
)

// CategoryColors tints quest and goal categories.
var CategoryColors = map[string]string{
	"ML":      Purple,
	"CP":      Cyan,
	"Health":  Green,
	"Mind":    Pink,
	"Finance": Yellow,
}

var (
	AppStyle = lipgloss.NewStyle().Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(Purple)).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Foreground)).
			Background(lipgloss.Color(CurrentLine)).
			Padding(0, 1)

	ListItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Foreground)).
			PaddingLeft(2)

	ListItemSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Pink)).
				Bold(true).
				PaddingLeft(1).
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(lipgloss.Color(Purple))

	// Optimistic rows are shown dimmed until the backend confirms them.
	PendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Comment)).
			Italic(true)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Purple)).
			Padding(0, 1).
			MarginBottom(1)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Cyan)).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Green)).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Yellow)).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Red)).
			Bold(true)

	AlertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Background)).
			Background(lipgloss.Color(Orange)).
			Bold(true).
			Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Comment)).
			Italic(true)

	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Pink)).
				Bold(true)

	BadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Background)).
			Bold(true).
			Padding(0, 1)

	InputStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Foreground))

	InputPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))

	InputFocusedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Pink)).
				Bold(true)

	TabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Comment)).
			Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Background)).
			Background(lipgloss.Color(Purple)).
			Bold(true).
			Padding(0, 1)

	SpinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Pink))

	DividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(CurrentLine))

	ProgressBarFilled = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ProgressBarEmpty  = lipgloss.NewStyle().Foreground(lipgloss.Color(CurrentLine))

	MetaKeyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Purple)).Bold(true)
	MetaValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Cyan))
)

// Truncate truncates text to maxLen runes and adds "..." if needed
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(r[:maxLen-3]) + "..."
}

// ProgressBar renders percent (0-100) as a bar of the given width.
func ProgressBar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	percent = min(max(percent, 0), 100)
	filled := width * percent / 100
	return ProgressBarFilled.Render(strings.Repeat("█", filled)) +
		ProgressBarEmpty.Render(strings.Repeat("░", width-filled))
}

// Category renders a category badge in its color.
func Category(name string) string {
	color, ok := CategoryColors[name]
	if !ok {
		color = Comment
	}
	return BadgeStyle.Background(lipgloss.Color(color)).Render(name)
}

// KeyValue renders a key-value pair with styling
func KeyValue(key, value string) string {
	return MetaKeyStyle.Render(key+":") + " " + MetaValueStyle.Render(value)
}

// Heading renders a section title with an optional icon.
func Heading(icon, title string) string {
	if icon = strings.TrimSpace(icon); icon != "" {
		icon += " "
	}
	return TitleStyle.Render(icon + title)
}

// Muted renders secondary text.
func Muted(s string) string {
	return HelpStyle.Render(s)
}

// Divider renders a horizontal rule.
func Divider(width int) string {
	return DividerStyle.Render(strings.Repeat("─", max(width, 0)))
}
