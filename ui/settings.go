package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"glint/config"
)

type settingsFieldKind int

const (
	fieldText settingsFieldKind = iota
	fieldSecret
	fieldFloat
	fieldInt
	fieldBool
)

type settingsField struct {
	label string
	value string
	kind  settingsFieldKind
}

// settingsForm is the in-progress edit of the runtime settings. Values stay
// as strings until save so partial numeric input never snaps back.
type settingsForm struct {
	fields      []settingsField
	selectedIdx int
	editMode    bool
	editInput   textinput.Model
	saveError   string
	dirty       bool
}

func newSettingsForm(s config.Settings) settingsForm {
	input := textinput.New()
	input.CharLimit = 200
	input.Width = 50

	return settingsForm{
		fields: []settingsField{
			{label: "Provider", value: s.Provider, kind: fieldText},
			{label: "Endpoint", value: s.Endpoint, kind: fieldText},
			{label: "API Key", value: s.APIKey, kind: fieldSecret},
			{label: "Model", value: s.Model, kind: fieldText},
			{label: "Search API Key", value: s.SearchAPIKey, kind: fieldSecret},
			{label: "Search Endpoint", value: s.SearchEndpoint, kind: fieldText},
			{label: "Image Endpoint", value: s.ImageEndpoint, kind: fieldText},
			{label: "Reasoning Endpoint", value: s.ReasoningEndpoint, kind: fieldText},
			{label: "Reasoning Model", value: s.ReasoningModel, kind: fieldText},
			{label: "Temperature", value: strconv.FormatFloat(s.Temperature, 'f', -1, 64), kind: fieldFloat},
			{label: "Max Tokens", value: strconv.Itoa(s.MaxTokens), kind: fieldInt},
			{label: "Streaming", value: strconv.FormatBool(s.Streaming), kind: fieldBool},
			{label: "Dark Mode", value: strconv.FormatBool(s.DarkMode), kind: fieldBool},
		},
		editInput: input,
	}
}

// toSettings validates the form and produces the settings to persist.
func (f *settingsForm) toSettings(base config.Settings) (config.Settings, error) {
	s := base
	for _, field := range f.fields {
		switch field.label {
		case "Provider":
			s.Provider = strings.TrimSpace(field.value)
		case "Endpoint":
			s.Endpoint = strings.TrimSpace(field.value)
		case "API Key":
			s.APIKey = strings.TrimSpace(field.value)
		case "Model":
			s.Model = strings.TrimSpace(field.value)
		case "Search API Key":
			s.SearchAPIKey = strings.TrimSpace(field.value)
		case "Search Endpoint":
			s.SearchEndpoint = strings.TrimSpace(field.value)
		case "Image Endpoint":
			s.ImageEndpoint = strings.TrimSpace(field.value)
		case "Reasoning Endpoint":
			s.ReasoningEndpoint = strings.TrimSpace(field.value)
		case "Reasoning Model":
			s.ReasoningModel = strings.TrimSpace(field.value)
		case "Temperature":
			v, err := strconv.ParseFloat(strings.TrimSpace(field.value), 64)
			if err != nil {
				return s, fmt.Errorf("temperature must be a number between 0 and 2")
			}
			s.Temperature = v
		case "Max Tokens":
			v, err := strconv.Atoi(strings.TrimSpace(field.value))
			if err != nil {
				return s, fmt.Errorf("max tokens must be a whole number")
			}
			s.MaxTokens = v
		case "Streaming":
			s.Streaming = field.value == "true"
		case "Dark Mode":
			s.DarkMode = field.value == "true"
		}
	}
	s.Clamp()
	return s, nil
}

func (a AppView) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &a.form

	if f.editMode {
		switch msg.String() {
		case "enter":
			f.fields[f.selectedIdx].value = f.editInput.Value()
			f.editMode = false
			f.editInput.Blur()
			f.dirty = true
			return a, nil
		case "esc":
			f.editMode = false
			f.editInput.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		f.editInput, cmd = f.editInput.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "esc", "ctrl+o":
		a.showSettings = false
		return a, nil

	case "up", "k":
		if f.selectedIdx > 0 {
			f.selectedIdx--
		}
		return a, nil

	case "down", "j":
		if f.selectedIdx < len(f.fields)-1 {
			f.selectedIdx++
		}
		return a, nil

	case "enter", " ":
		field := &f.fields[f.selectedIdx]
		if field.kind == fieldBool {
			if field.value == "true" {
				field.value = "false"
			} else {
				field.value = "true"
			}
			f.dirty = true
			return a, nil
		}
		f.editMode = true
		f.editInput.SetValue(field.value)
		if field.kind == fieldSecret {
			f.editInput.EchoMode = textinput.EchoPassword
		} else {
			f.editInput.EchoMode = textinput.EchoNormal
		}
		f.editInput.Focus()
		return a, textinput.Blink

	case "ctrl+s":
		settings, err := f.toSettings(a.dataModel.Config.Settings)
		if err != nil {
			f.saveError = err.Error()
			return a, nil
		}
		f.saveError = ""
		a.showSettings = false
		a.statusLine = "Settings saved"
		return a, a.dataModel.SaveSettings(settings)
	}

	return a, nil
}

func (a *AppView) renderSettings() string {
	f := &a.form

	modalWidth := a.width - 10
	if modalWidth > 80 {
		modalWidth = 80
	}
	if modalWidth < 40 {
		modalWidth = 40
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("Settings")

	var lines []string
	for i, field := range f.fields {
		indicator := "  "
		if i == f.selectedIdx {
			indicator = "▶ "
		}

		var display string
		switch {
		case f.editMode && i == f.selectedIdx:
			display = f.editInput.View()
		case field.kind == fieldSecret:
			display = maskSecret(field.value)
		case field.kind == fieldBool:
			if field.value == "true" {
				display = "[x]"
			} else {
				display = "[ ]"
			}
		default:
			display = field.value
		}

		label := fmt.Sprintf("%-20s", field.label)
		if i == f.selectedIdx {
			label = SelectedStyle.Render(label)
		}
		lines = append(lines, indicator+label+display)
	}

	footerText := "enter edit • space toggle • ctrl+s save • esc close"
	if f.dirty {
		footerText = "unsaved changes • " + footerText
	}
	footer := HelpStyle.Render(footerText)

	sections := []string{title, "", strings.Join(lines, "\n"), ""}
	if f.saveError != "" {
		sections = append(sections, ErrorStyle.Render(f.saveError), "")
	}
	sections = append(sections, footer)

	modal := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}

func maskSecret(v string) string {
	if v == "" {
		return DimStyle.Render("(not set)")
	}
	if len(v) <= 8 {
		return strings.Repeat("*", len(v))
	}
	return v[:4] + strings.Repeat("*", 8) + v[len(v)-4:]
}
