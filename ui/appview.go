package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	appmodel "glint/model"
	"glint/storage"
)

// AppView is the bubbletea model for the whole application: the chat surface
// plus the conversation manager, settings and help overlays.
type AppView struct {
	dataModel *appmodel.Model

	viewport viewport.Model
	textarea textarea.Model

	width  int
	height int
	ready  bool

	// In-flight turn presentation.
	streaming   bool
	currentResp *strings.Builder
	spinner     spinner.Model

	// Markdown render memo, keyed by raw content.
	renderCache map[string]string

	// Pending attachment send: input held while the file resolves.
	pendingInput string

	statusLine string

	showHelp bool

	// Conversation manager overlay.
	showManager   bool
	managerList   []storage.ConversationMetadata
	filteredList  []storage.ConversationMetadata
	selectedIdx   int
	filterMode    bool
	filterInput   textinput.Model
	renameMode    bool
	renameInput   textinput.Model
	confirmDelete *storage.ConversationMetadata

	// Settings overlay.
	showSettings bool
	form         settingsForm
}

func NewAppView(dataModel *appmodel.Model) AppView {
	ta := textarea.New()
	ta.Placeholder = "Type your message, or @/path/to/file to attach..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))
	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	filterInput := textinput.New()
	filterInput.Prompt = "Filter: "
	filterInput.CharLimit = 64

	renameInput := textinput.New()
	renameInput.Prompt = "Title: "
	renameInput.CharLimit = 100

	ApplyPalette(dataModel.Config.Settings.DarkMode)

	return AppView{
		dataModel:   dataModel,
		viewport:    viewport.New(0, 0),
		textarea:    ta,
		spinner:     sp,
		currentResp: &strings.Builder{},
		renderCache: make(map[string]string),
		filterInput: filterInput,
		renameInput: renameInput,
	}
}

func (a AppView) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		a.dataModel.ListConversations(),
	)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.showHelp {
		return a.renderHelp()
	}
	if a.showSettings {
		return a.renderSettings()
	}
	if a.showManager {
		return a.renderManager()
	}

	title := TitleStyle.Render(a.dataModel.Current.Title)
	separator := DimStyle.Render(strings.Repeat("─", max(a.width, 1)))

	status := a.statusBar()

	return title + "\n" +
		separator + "\n" +
		a.viewport.View() + "\n" +
		a.textarea.View() + "\n" +
		status
}

func (a AppView) statusBar() string {
	if a.statusLine != "" {
		if strings.HasPrefix(a.statusLine, "Error") || strings.Contains(a.statusLine, "failed") {
			return ErrorStyle.Render(a.statusLine)
		}
		return StatusStyle.Render(a.statusLine)
	}
	if a.dataModel.TurnActive() {
		return StatusStyle.Render(a.spinner.View() + " working... (esc to stop)")
	}
	return HelpStyle.Render(FormatFooter(
		"enter", "Send",
		"ctrl+n", "New chat",
		"ctrl+s", "Chats",
		"ctrl+o", "Settings",
		"ctrl+g", "Help",
	))
}
