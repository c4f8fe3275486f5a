package ui

import (
	"github.com/charmbracelet/lipgloss"
)

func (a *AppView) renderHelp() string {
	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("Glint - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	globalActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Global Actions"),
		"• ctrl+n        New conversation",
		"• ctrl+s        Conversation manager",
		"• ctrl+o        Settings",
		"• ctrl+g        Toggle this help",
		"• ctrl+c        Quit",
	)

	chatActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Chat Actions"),
		"• Enter         Send message",
		"• Alt+Enter     Insert newline",
		"• Esc           Stop the current response",
		"• ctrl+y        Copy last response",
		"• @/path msg    Attach a file to the message",
	)

	managerActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Conversation Manager"),
		"• j/k or ↑/↓    Navigate",
		"• Enter         Open conversation",
		"• n             New conversation",
		"• r             Rename",
		"• d             Delete",
		"• /             Filter by title",
	)

	body := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		globalActions,
		"",
		chatActions,
		"",
		managerActions,
		"",
		HelpStyle.Render("press any key to close"),
	)

	modal := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(1, 3).
		Render(body)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}
