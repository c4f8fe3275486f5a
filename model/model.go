package model

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"glint/config"
	"glint/storage"
)

// transcript is the live message log for the current conversation. The turn
// goroutine and the ui read it concurrently, so all access goes through the
// mutex and History/Snapshot hand out copies.
type transcript struct {
	mu       sync.Mutex
	messages []Message
}

func (t *transcript) Append(m Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, m)
}

func (t *transcript) PruneStatus(ids []string) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	kept := t.messages[:0]
	for _, m := range t.messages {
		if m.IsStatus() && drop[m.StatusID] {
			continue
		}
		kept = append(kept, m)
	}
	t.messages = kept
}

func (t *transcript) History() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *transcript) Reset(messages []Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append([]Message(nil), messages...)
}

// Model owns application state: the active conversation, the provider
// client, the tool dispatcher and the lifecycle of the in-flight turn.
type Model struct {
	Config *config.Config
	Store  *storage.ConversationStore
	Client CompletionClient
	Titles TitleClient
	Tools  ToolDispatcher
	Logger *slog.Logger

	// ClientFactory, when set, rebuilds Client after a settings save so a
	// provider switch takes effect without restarting.
	ClientFactory func(config.Settings) CompletionClient

	Current *storage.Conversation
	log     *transcript

	turnCancel context.CancelFunc
	turnEvents chan TurnEvent
	turnGen    int
}

func NewModel(cfg *config.Config, store *storage.ConversationStore, client CompletionClient, titles TitleClient, tools ToolDispatcher) (*Model, error) {
	conv, err := store.LoadCurrent()
	if err != nil {
		return nil, fmt.Errorf("failed to restore conversation: %w", err)
	}

	m := &Model{
		Config:  cfg,
		Store:   store,
		Client:  client,
		Titles:  titles,
		Tools:   tools,
		Logger:  config.Log,
		Current: conv,
		log:     &transcript{},
	}
	m.log.Reset(FromStorageMessages(conv.Messages))
	return m, nil
}

// Messages returns a copy of the live transcript for rendering.
func (m *Model) Messages() []Message {
	return m.log.History()
}

// TurnActive reports whether a turn is currently in flight.
func (m *Model) TurnActive() bool {
	return m.turnCancel != nil
}

// TurnGen returns the generation of the current turn. Turn messages carrying
// an older generation belong to a replaced turn and must be ignored.
func (m *Model) TurnGen() int {
	return m.turnGen
}

// CancelTurn stops the in-flight turn, if any. The turn goroutine notices the
// cancelled context at its next suspension point, prunes its status messages
// and emits TurnCancelledMsg through the event channel.
func (m *Model) CancelTurn() {
	if m.turnCancel != nil {
		m.turnCancel()
	}
}

func (m *Model) newTurn() *Turn {
	return &Turn{
		Client:       m.Client,
		Tools:        m.Tools,
		Log:          m.log,
		Settings:     m.Config.Settings,
		SystemPrompt: BuildSystemPrompt(m.Config.DefaultSystemPrompt, time.Now()),
		Stream:       m.Config.Settings.Streaming,
		Now:          time.Now,
		NewStatusID:  uuid.NewString,
		Logger:       m.Logger,
	}
}
