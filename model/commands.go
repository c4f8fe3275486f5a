package model

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"glint/config"
	"glint/storage"
)

// StartTurn launches a turn for the given input. At most one turn runs per
// conversation: an in-flight turn is cancelled first and its status messages
// are pruned before the new turn appends anything.
//
// The returned command listens on the turn's event channel; the ui re-issues
// ListenTurn after each event until the channel closes.
func (m *Model) StartTurn(input string, upload *Upload) tea.Cmd {
	m.CancelTurn()

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan TurnEvent, 32)
	m.turnCancel = cancel
	m.turnEvents = events
	m.turnGen++

	turn := m.newTurn()
	turn.Emit = func(ev TurnEvent) { events <- ev }

	// Provisional title from the first user message. A summarization pass
	// may replace it once the first exchange completes.
	if len(m.log.History()) == 0 && !m.Current.TitleCustom {
		m.Current.Title = storage.DeriveTitle(input)
	}

	go func() {
		defer close(events)
		turn.Run(ctx, input, upload)
	}()

	return m.ListenTurn()
}

// ListenTurn converts the next turn event into a tea.Msg. The channel and
// generation are captured at creation, so a listener armed before a restart
// keeps draining the old turn and its messages identify themselves as stale.
func (m *Model) ListenTurn() tea.Cmd {
	events := m.turnEvents
	gen := m.turnGen
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return TurnClosedMsg{Gen: gen}
		}
		switch ev := ev.(type) {
		case TurnUpdated:
			return TurnUpdatedMsg{Gen: gen}
		case TurnToken:
			return TurnTokenMsg{Gen: gen, Token: ev.Token}
		case TurnDone:
			return TurnDoneMsg{Gen: gen, Message: ev.Message}
		case TurnFailed:
			return TurnFailedMsg{Gen: gen, Err: ev.Err}
		case TurnCancelled:
			return TurnCancelledMsg{Gen: gen}
		}
		return TurnUpdatedMsg{Gen: gen}
	}
}

// FinishTurn tears down turn state once the event channel drains.
func (m *Model) FinishTurn() {
	if m.turnCancel != nil {
		m.turnCancel()
		m.turnCancel = nil
	}
	m.turnEvents = nil
}

// SaveCurrent persists the live transcript into the current conversation.
func (m *Model) SaveCurrent() tea.Cmd {
	m.Current.Messages = ToStorageMessages(m.log.History())
	conv := m.Current
	store := m.Store
	return func() tea.Msg {
		if err := store.Save(conv); err != nil {
			return ErrMsg{Err: err}
		}
		return ConversationsListedMsg{Items: mustList(store)}
	}
}

// MaybeAutoRename fires the summarization title pass when the first exchange
// just completed: exactly two persisted messages and no user-chosen title.
// Failure downgrades to a log warning; the provisional title stays.
func (m *Model) MaybeAutoRename() tea.Cmd {
	var initial []Message
	for _, msg := range m.log.History() {
		if msg.IsStatus() || msg.Role == "tool" {
			continue
		}
		initial = append(initial, msg)
	}
	if len(initial) != 2 || m.Current.TitleCustom || m.Titles == nil {
		return nil
	}

	conv := m.Current
	store := m.Store
	titles := m.Titles
	settings := m.Config.Settings
	logger := m.Logger

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		title, err := titles.GenerateTitle(ctx, initial, settings)
		if err != nil || title == "" {
			logger.Warn("title generation failed", "conversation", conv.ID, "error", err)
			return nil
		}
		if err := store.Rename(conv.ID, title, false); err != nil {
			logger.Warn("title rename failed", "conversation", conv.ID, "error", err)
			return nil
		}
		return TitleUpdatedMsg{ID: conv.ID, Title: title}
	}
}

// NewConversation saves the current transcript and switches to a fresh one.
func (m *Model) NewConversation() tea.Cmd {
	m.Current.Messages = ToStorageMessages(m.log.History())
	old := m.Current
	store := m.Store
	return func() tea.Msg {
		if err := store.Save(old); err != nil {
			return ErrMsg{Err: err}
		}
		conv, err := store.Create()
		if err != nil {
			return ErrMsg{Err: err}
		}
		if err := store.SetCurrentID(conv.ID); err != nil {
			return ErrMsg{Err: err}
		}
		return ConversationLoadedMsg{Conversation: conv}
	}
}

// SwitchConversation saves the current transcript and loads another thread.
func (m *Model) SwitchConversation(id int64) tea.Cmd {
	if id == m.Current.ID {
		return nil
	}
	m.Current.Messages = ToStorageMessages(m.log.History())
	old := m.Current
	store := m.Store
	return func() tea.Msg {
		if err := store.Save(old); err != nil {
			return ErrMsg{Err: err}
		}
		conv, err := store.Load(id)
		if err != nil {
			return ErrMsg{Err: err}
		}
		if err := store.SetCurrentID(conv.ID); err != nil {
			return ErrMsg{Err: err}
		}
		return ConversationLoadedMsg{Conversation: conv}
	}
}

// ActivateConversation installs a loaded conversation as the live one.
func (m *Model) ActivateConversation(conv *storage.Conversation) {
	m.CancelTurn()
	m.FinishTurn()
	m.Current = conv
	m.log.Reset(FromStorageMessages(conv.Messages))
}

// DeleteConversation removes a thread. Deleting the last conversation leaves
// a fresh empty one; deleting the current one switches to the most recent
// survivor.
func (m *Model) DeleteConversation(id int64) tea.Cmd {
	store := m.Store
	return func() tea.Msg {
		active, err := store.Delete(id)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return ConversationDeletedMsg{DeletedID: id, Active: active}
	}
}

// RenameConversation applies a user-chosen title, which pins it against
// future automatic renames.
func (m *Model) RenameConversation(id int64, title string) tea.Cmd {
	store := m.Store
	if id == m.Current.ID {
		m.Current.Title = title
		m.Current.TitleCustom = true
	}
	return func() tea.Msg {
		if err := store.Rename(id, title, true); err != nil {
			return ErrMsg{Err: err}
		}
		return TitleUpdatedMsg{ID: id, Title: title}
	}
}

// ListConversations refreshes the sidebar listing.
func (m *Model) ListConversations() tea.Cmd {
	store := m.Store
	return func() tea.Msg {
		items, err := store.List()
		if err != nil {
			return ErrMsg{Err: err}
		}
		return ConversationsListedMsg{Items: items}
	}
}

// SaveSettings clamps and persists edited settings, then applies them live.
func (m *Model) SaveSettings(s config.Settings) tea.Cmd {
	s.Clamp()
	m.Config.Settings = s
	if m.ClientFactory != nil {
		m.Client = m.ClientFactory(s)
	}
	cfg := m.Config
	return func() tea.Msg {
		userCfg := config.UserConfigFromSettings(s, cfg.DefaultSystemPrompt)
		if err := config.SaveUserConfig(userCfg, cfg.DataDir()); err != nil {
			return ErrMsg{Err: err}
		}
		return SettingsSavedMsg{Settings: s}
	}
}

// ResolveUploadCmd reads and classifies a file attachment off the ui thread.
func ResolveUploadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		upload, err := ResolveUpload(path)
		return UploadResolvedMsg{Upload: upload, Err: err}
	}
}

func mustList(store *storage.ConversationStore) []storage.ConversationMetadata {
	items, err := store.List()
	if err != nil {
		return nil
	}
	return items
}
