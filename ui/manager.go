package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"glint/storage"
)

// visibleConversations returns the list the overlay navigates: the filtered
// view while a filter is typed, the full list otherwise.
func (a *AppView) visibleConversations() []storage.ConversationMetadata {
	if a.filterMode && a.filterInput.Value() != "" {
		return a.filteredList
	}
	return a.managerList
}

func (a *AppView) applyManagerFilter() {
	value := a.filterInput.Value()
	if value == "" {
		a.filteredList = a.managerList
	} else {
		targets := make([]string, len(a.managerList))
		for i, c := range a.managerList {
			targets[i] = c.Title
		}
		matches := fuzzy.Find(value, targets)
		a.filteredList = make([]storage.ConversationMetadata, len(matches))
		for i, match := range matches {
			a.filteredList[i] = a.managerList[match.Index]
		}
	}

	if list := a.visibleConversations(); a.selectedIdx >= len(list) && len(list) > 0 {
		a.selectedIdx = len(list) - 1
	}
}

func (a AppView) handleManagerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.confirmDelete != nil {
		switch msg.String() {
		case "y", "enter":
			id := a.confirmDelete.ID
			a.confirmDelete = nil
			return a, a.dataModel.DeleteConversation(id)
		default:
			a.confirmDelete = nil
			return a, nil
		}
	}

	if a.renameMode {
		switch msg.String() {
		case "enter":
			title := strings.TrimSpace(a.renameInput.Value())
			a.renameMode = false
			a.renameInput.Blur()
			if title == "" {
				return a, nil
			}
			list := a.visibleConversations()
			if a.selectedIdx >= len(list) {
				return a, nil
			}
			return a, a.dataModel.RenameConversation(list[a.selectedIdx].ID, title)
		case "esc":
			a.renameMode = false
			a.renameInput.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		a.renameInput, cmd = a.renameInput.Update(msg)
		return a, cmd
	}

	if a.filterMode {
		switch msg.String() {
		case "enter":
			a.filterMode = false
			a.filterInput.Blur()
			return a, nil
		case "esc":
			a.filterMode = false
			a.filterInput.Blur()
			a.filterInput.SetValue("")
			a.applyManagerFilter()
			return a, nil
		}
		var cmd tea.Cmd
		a.filterInput, cmd = a.filterInput.Update(msg)
		a.applyManagerFilter()
		return a, cmd
	}

	list := a.visibleConversations()

	switch msg.String() {
	case "esc", "ctrl+s":
		a.showManager = false
		return a, nil

	case "up", "k":
		if a.selectedIdx > 0 {
			a.selectedIdx--
		}
		return a, nil

	case "down", "j":
		if a.selectedIdx < len(list)-1 {
			a.selectedIdx++
		}
		return a, nil

	case "enter":
		if a.selectedIdx < len(list) {
			target := list[a.selectedIdx]
			if target.ID == a.dataModel.Current.ID {
				a.showManager = false
				return a, nil
			}
			return a, a.dataModel.SwitchConversation(target.ID)
		}
		return a, nil

	case "n":
		a.showManager = false
		return a, a.dataModel.NewConversation()

	case "r":
		if a.selectedIdx < len(list) {
			a.renameMode = true
			a.renameInput.SetValue(list[a.selectedIdx].Title)
			a.renameInput.Focus()
			return a, textinput.Blink
		}
		return a, nil

	case "d":
		if a.selectedIdx < len(list) {
			target := list[a.selectedIdx]
			a.confirmDelete = &target
		}
		return a, nil

	case "/":
		a.filterMode = true
		a.filterInput.SetValue("")
		a.filterInput.Focus()
		a.applyManagerFilter()
		return a, textinput.Blink
	}

	return a, nil
}

func (a *AppView) renderManager() string {
	modalWidth := a.width - 10
	if modalWidth > 100 {
		modalWidth = 100
	}
	if modalWidth < 40 {
		modalWidth = 40
	}

	if a.confirmDelete != nil {
		return a.renderDeleteConfirm(modalWidth)
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("Conversations")

	var header string
	if a.filterMode {
		header = a.filterInput.View()
	} else {
		header = fmt.Sprintf("%d conversations", len(a.managerList))
		if len(a.visibleConversations()) != len(a.managerList) {
			header = fmt.Sprintf("%d of %d conversations", len(a.visibleConversations()), len(a.managerList))
		}
	}
	headerSection := DimStyle.
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		Render(header)

	list := a.visibleConversations()
	var lines []string
	if len(list) == 0 {
		empty := "No conversations yet."
		if a.filterMode {
			empty = "No matches found"
		}
		lines = append(lines, DimStyle.Italic(true).Align(lipgloss.Center).Width(modalWidth).Render(empty))
	}
	for i, conv := range list {
		lines = append(lines, a.renderManagerLine(i, conv, modalWidth))
	}

	footer := HelpStyle.Render("enter open • n new • r rename • d delete • / filter • esc close")

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		headerSection,
		strings.Join(lines, "\n"),
		"",
		footer,
	)

	modal := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(1, 2).
		Render(body)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}

func (a *AppView) renderManagerLine(i int, conv storage.ConversationMetadata, modalWidth int) string {
	indicator := "  "
	if i == a.selectedIdx {
		indicator = "▶ "
	}

	var nameDisplay string
	if a.renameMode && i == a.selectedIdx {
		nameDisplay = a.renameInput.View()
	} else {
		maxNameWidth := modalWidth - 34
		nameDisplay = runewidth.Truncate(conv.Title, maxNameWidth, "...")
	}

	msgCount := fmt.Sprintf("%d msgs", conv.MessageCount)
	if conv.MessageCount == 1 {
		msgCount = "1 msg"
	}
	rightSide := fmt.Sprintf("%8s  %8s", msgCount, formatTimeAgo(conv.UpdatedAt))

	current := ""
	if conv.ID == a.dataModel.Current.ID {
		current = " (current)"
	}

	leftVisual := len(indicator) + runewidth.StringWidth(nameDisplay) + len(current)
	spacing := modalWidth - 4 - leftVisual - len(rightSide)
	if spacing < 2 {
		spacing = 2
	}

	name := nameDisplay
	switch {
	case i == a.selectedIdx:
		name = SelectedStyle.Render(nameDisplay)
	case conv.ID == a.dataModel.Current.ID:
		name = TitleStyle.Render(nameDisplay)
	}

	return indicator + name + DimStyle.Render(current) + strings.Repeat(" ", spacing) + DimStyle.Render(rightSide)
}

func (a *AppView) renderDeleteConfirm(modalWidth int) string {
	warning := ErrorStyle.Render("This action cannot be undone.")
	body := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render("⚠ Delete Conversation"),
		"",
		fmt.Sprintf("Are you sure you want to delete:\n\n\"%s\"", a.confirmDelete.Title),
		"",
		warning,
		"",
		HelpStyle.Render("y/enter confirm • any other key cancel"),
	)
	modal := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(dangerColor).
		Padding(1, 2).
		Width(modalWidth / 2).
		Render(body)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}

func formatTimeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}
