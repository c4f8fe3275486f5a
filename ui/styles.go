package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dimColor       = lipgloss.Color("7")
	accentColor    = lipgloss.Color("12")
	successColor   = lipgloss.Color("10")
	warningColor   = lipgloss.Color("11")
	dangerColor    = lipgloss.Color("9")
	highlightColor = lipgloss.Color("13")

	UserStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	AssistantStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	TitleStyle = lipgloss.NewStyle().
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(dangerColor).
			Bold(true)

	ImageStyle = lipgloss.NewStyle().
			Foreground(highlightColor).
			Underline(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(dimColor)
)

// ApplyPalette switches between the dark and light role palettes. Dark
// terminals get the brighter variants.
func ApplyPalette(dark bool) {
	if dark {
		UserStyle = UserStyle.Foreground(lipgloss.Color("10"))
		AssistantStyle = AssistantStyle.Foreground(lipgloss.Color("14"))
		DimStyle = DimStyle.Foreground(lipgloss.Color("8"))
	} else {
		UserStyle = UserStyle.Foreground(lipgloss.Color("2"))
		AssistantStyle = AssistantStyle.Foreground(lipgloss.Color("4"))
		DimStyle = DimStyle.Foreground(lipgloss.Color("7"))
	}
	StatusStyle = StatusStyle.Foreground(DimStyle.GetForeground())
	HelpStyle = HelpStyle.Foreground(DimStyle.GetForeground())
}

// FormatFooter formats alternating key/description pairs for footer lines.
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	var result []string
	for i := 0; i+1 < len(parts); i += 2 {
		result = append(result, parts[i]+" "+descStyle.Render(parts[i+1]))
	}
	return strings.Join(result, "  ")
}
