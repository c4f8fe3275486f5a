package ui

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	appmodel "glint/model"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	// Keep the spinner animated while a turn is in flight. Status rows in the
	// transcript embed the spinner, so each tick refreshes the viewport too.
	if a.dataModel.TurnActive() {
		a.spinner, cmd = a.spinner.Update(msg)
		cmds = append(cmds, cmd)
		if _, ok := msg.(spinner.TickMsg); ok {
			a.updateViewportContent(a.streaming)
			return a, tea.Batch(cmds...)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Title, separator, textarea (3 lines), status bar.
		a.viewport.Width = a.width
		a.viewport.Height = a.height - 6
		a.textarea.SetWidth(a.width)
		a.ready = true
		a.renderCache = make(map[string]string)
		a.updateViewportContent(true)
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		return a.handleKey(msg, cmds)

	case turnUpdatedMsg:
		if msg.Gen != a.dataModel.TurnGen() {
			return a, tea.Batch(cmds...)
		}
		a.updateViewportContent(true)
		cmds = append(cmds, a.dataModel.ListenTurn())
		return a, tea.Batch(cmds...)

	case turnTokenMsg:
		if msg.Gen != a.dataModel.TurnGen() {
			return a, tea.Batch(cmds...)
		}
		a.streaming = true
		a.currentResp.WriteString(msg.Token)
		a.updateStreamingView()
		cmds = append(cmds, a.dataModel.ListenTurn())
		return a, tea.Batch(cmds...)

	case turnDoneMsg:
		if msg.Gen != a.dataModel.TurnGen() {
			return a, tea.Batch(cmds...)
		}
		a.streaming = false
		a.currentResp.Reset()
		a.statusLine = ""
		a.updateViewportContent(true)
		cmds = append(cmds,
			a.dataModel.ListenTurn(),
			a.dataModel.SaveCurrent(),
			a.dataModel.MaybeAutoRename(),
		)
		return a, tea.Batch(cmds...)

	case turnFailedMsg:
		if msg.Gen != a.dataModel.TurnGen() {
			return a, tea.Batch(cmds...)
		}
		a.streaming = false
		a.currentResp.Reset()
		a.updateViewportContent(true)
		cmds = append(cmds, a.dataModel.ListenTurn(), a.dataModel.SaveCurrent())
		return a, tea.Batch(cmds...)

	case turnCancelledMsg:
		// Stale cancellations from a replaced turn carry no work; re-arming
		// here would put a second receiver on the new turn's channel.
		if msg.Gen != a.dataModel.TurnGen() {
			return a, tea.Batch(cmds...)
		}
		a.streaming = false
		a.currentResp.Reset()
		a.updateViewportContent(true)
		cmds = append(cmds, a.dataModel.ListenTurn(), a.dataModel.SaveCurrent())
		return a, tea.Batch(cmds...)

	case turnClosedMsg:
		// A stale close must not tear down the turn that replaced it.
		if msg.Gen != a.dataModel.TurnGen() {
			return a, tea.Batch(cmds...)
		}
		a.dataModel.FinishTurn()
		a.updateViewportContent(true)
		return a, tea.Batch(cmds...)

	case uploadResolvedMsg:
		input := a.pendingInput
		a.pendingInput = ""
		if msg.Err != nil {
			a.statusLine = "Attachment failed: " + msg.Err.Error()
			return a, tea.Batch(cmds...)
		}
		a.statusLine = ""
		cmds = append(cmds, a.dataModel.StartTurn(input, msg.Upload), a.spinner.Tick)
		a.updateViewportContent(true)
		return a, tea.Batch(cmds...)

	case conversationsListedMsg:
		a.managerList = msg.Items
		a.applyManagerFilter()
		return a, tea.Batch(cmds...)

	case conversationLoadedMsg:
		a.dataModel.ActivateConversation(msg.Conversation)
		a.showManager = false
		a.streaming = false
		a.currentResp.Reset()
		a.statusLine = ""
		a.updateViewportContent(true)
		cmds = append(cmds, a.dataModel.ListConversations())
		return a, tea.Batch(cmds...)

	case conversationDeletedMsg:
		if msg.Active != nil {
			a.dataModel.ActivateConversation(msg.Active)
			a.updateViewportContent(true)
		}
		cmds = append(cmds, a.dataModel.ListConversations())
		return a, tea.Batch(cmds...)

	case titleUpdatedMsg:
		if msg.ID == a.dataModel.Current.ID {
			a.dataModel.Current.Title = msg.Title
		}
		cmds = append(cmds, a.dataModel.ListConversations())
		return a, tea.Batch(cmds...)

	case settingsSavedMsg:
		ApplyPalette(msg.Settings.DarkMode)
		a.renderCache = make(map[string]string)
		a.updateViewportContent(true)
		return a, tea.Batch(cmds...)

	case errMsg:
		a.statusLine = "Error: " + msg.Err.Error()
		return a, tea.Batch(cmds...)
	}

	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a AppView) handleKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if a.showHelp {
		a.showHelp = false
		return a, nil
	}
	if a.showSettings {
		return a.handleSettingsKey(msg)
	}
	if a.showManager {
		return a.handleManagerKey(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		a.dataModel.CancelTurn()
		return a, tea.Quit

	case "esc":
		if a.dataModel.TurnActive() {
			a.dataModel.CancelTurn()
			return a, nil
		}

	case "enter":
		return a.handleSend(cmds)

	case "ctrl+n":
		if a.dataModel.TurnActive() {
			a.dataModel.CancelTurn()
		}
		return a, a.dataModel.NewConversation()

	case "ctrl+s":
		a.showManager = true
		a.selectedIdx = 0
		a.filterMode = false
		a.filterInput.SetValue("")
		a.applyManagerFilter()
		return a, a.dataModel.ListConversations()

	case "ctrl+o":
		a.showSettings = true
		a.form = newSettingsForm(a.dataModel.Config.Settings)
		return a, nil

	case "ctrl+g":
		a.showHelp = true
		return a, nil

	case "ctrl+y":
		a.copyLastAnswer()
		return a, nil
	}

	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a AppView) handleSend(cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(a.textarea.Value())
	if input == "" {
		return a, nil
	}
	a.textarea.Reset()
	a.statusLine = ""

	// "@/path/to/file rest of the message" attaches the named file.
	if path, rest, ok := splitAttachment(input); ok {
		a.pendingInput = rest
		cmds = append(cmds, appmodel.ResolveUploadCmd(path))
		return a, tea.Batch(cmds...)
	}

	cmds = append(cmds, a.dataModel.StartTurn(input, nil), a.spinner.Tick)
	a.updateViewportContent(true)
	return a, tea.Batch(cmds...)
}

// splitAttachment recognizes the "@<path> <message>" form. The path ends at
// the first space; the rest is the message text.
func splitAttachment(input string) (path, rest string, ok bool) {
	if !strings.HasPrefix(input, "@") {
		return "", "", false
	}
	body := strings.TrimPrefix(input, "@")
	if body == "" {
		return "", "", false
	}
	if idx := strings.IndexByte(body, ' '); idx >= 0 {
		return body[:idx], strings.TrimSpace(body[idx+1:]), true
	}
	return body, "Please look at this file.", true
}

func (a *AppView) copyLastAnswer() {
	messages := a.dataModel.Messages()
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "assistant" {
			if err := clipboard.WriteAll(messages[i].Content); err != nil {
				a.statusLine = "Copy failed: " + err.Error()
			} else {
				a.statusLine = "Copied last answer to clipboard"
			}
			return
		}
	}
}
