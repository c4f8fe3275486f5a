package model

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"glint/config"
	"glint/storage"
)

// stubTitler records the messages handed to the title pass and replies with a
// fixed title.
type stubTitler struct {
	title    string
	err      error
	received []Message
}

func (s *stubTitler) GenerateTitle(ctx context.Context, initial []Message, settings config.Settings) (string, error) {
	s.received = append([]Message(nil), initial...)
	return s.title, s.err
}

// haltingClient blocks until the request context is cancelled. It stands in
// for a completion that never returns while a turn is being replaced.
type haltingClient struct{}

func (c *haltingClient) Complete(ctx context.Context, messages []Message, settings config.Settings, tools []mcptypes.Tool) (*CompletionResult, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (c *haltingClient) CompleteStreaming(ctx context.Context, messages []Message, settings config.Settings, tools []mcptypes.Tool, onToken func(string)) (*CompletionResult, error) {
	return c.Complete(ctx, messages, settings, tools)
}

func newRenameModel(t *testing.T, titler TitleClient) (*Model, *storage.ConversationStore) {
	t.Helper()
	store, err := storage.NewConversationStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	conv, err := store.LoadCurrent()
	if err != nil {
		t.Fatal(err)
	}
	return &Model{
		Config:  &config.Config{},
		Store:   store,
		Titles:  titler,
		Logger:  config.Log,
		Current: conv,
		log:     &transcript{},
	}, store
}

func TestMaybeAutoRenameSummarizesFirstExchange(t *testing.T) {
	titler := &stubTitler{title: "Tokyo Weather Check"}
	m, store := newRenameModel(t, titler)

	m.log.Append(Message{Role: "user", Content: "What's the weather in Tokyo?"})
	m.log.Append(Message{Role: "system", Kind: KindStatus, StatusID: "s1", Content: "Searching..."})
	m.log.Append(Message{Role: "tool", ToolCallID: "call_1", Content: `{"answer":"18C"}`})
	m.log.Append(Message{Role: "assistant", Content: "It's 18°C and clear."})

	cmd := m.MaybeAutoRename()
	if cmd == nil {
		t.Fatal("first exchange should trigger the title pass")
	}

	msg := cmd()
	updated, ok := msg.(TitleUpdatedMsg)
	if !ok {
		t.Fatalf("expected TitleUpdatedMsg, got %T", msg)
	}
	if updated.ID != m.Current.ID || updated.Title != "Tokyo Weather Check" {
		t.Errorf("unexpected update: %+v", updated)
	}

	// Both sides of the exchange reach the summarizer; status and tool
	// entries do not.
	if len(titler.received) != 2 {
		t.Fatalf("summarizer saw %d messages, want 2", len(titler.received))
	}
	if titler.received[0].Role != "user" || titler.received[1].Role != "assistant" {
		t.Errorf("summarizer input roles = %s, %s", titler.received[0].Role, titler.received[1].Role)
	}
	if titler.received[1].Content != "It's 18°C and clear." {
		t.Errorf("assistant reply missing from summarizer input: %q", titler.received[1].Content)
	}

	conv, err := store.Load(m.Current.ID)
	if err != nil {
		t.Fatal(err)
	}
	if conv.Title != "Tokyo Weather Check" {
		t.Errorf("persisted title = %q", conv.Title)
	}
	if conv.TitleCustom {
		t.Error("automatic rename must not pin the title")
	}
}

func TestMaybeAutoRenameSkips(t *testing.T) {
	exchange := []Message{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	}

	tests := []struct {
		name     string
		messages []Message
		custom   bool
		noTitler bool
	}{
		{name: "only the user message", messages: exchange[:1]},
		{name: "past the first exchange", messages: append(append([]Message(nil), exchange...), Message{Role: "user", Content: "more"})},
		{name: "user-chosen title", messages: exchange, custom: true},
		{name: "no summarizer configured", messages: exchange, noTitler: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var titler TitleClient
			if !tt.noTitler {
				titler = &stubTitler{title: "Anything"}
			}
			m, _ := newRenameModel(t, titler)
			m.Current.TitleCustom = tt.custom
			for _, msg := range tt.messages {
				m.log.Append(msg)
			}

			if cmd := m.MaybeAutoRename(); cmd != nil {
				t.Error("title pass should not fire")
			}
		})
	}
}

func turnMsgGen(msg tea.Msg) (int, bool) {
	switch msg := msg.(type) {
	case TurnUpdatedMsg:
		return msg.Gen, true
	case TurnTokenMsg:
		return msg.Gen, true
	case TurnDoneMsg:
		return msg.Gen, true
	case TurnFailedMsg:
		return msg.Gen, true
	case TurnCancelledMsg:
		return msg.Gen, true
	case TurnClosedMsg:
		return msg.Gen, true
	}
	return 0, false
}

func TestTurnRestartKeepsListenersOnOldGeneration(t *testing.T) {
	m := &Model{
		Config:  &config.Config{},
		Client:  &haltingClient{},
		Tools:   &stubDispatcher{},
		Logger:  config.Log,
		Current: &storage.Conversation{},
		log:     &transcript{},
	}

	oldListen := m.StartTurn("first question", nil)
	oldGen := m.TurnGen()

	newListen := m.StartTurn("second question", nil)
	defer m.FinishTurn()

	if m.TurnGen() == oldGen {
		t.Fatal("restart should advance the turn generation")
	}

	// The listener armed before the restart keeps draining the replaced
	// turn; every message it yields identifies itself as stale.
	closed := false
	for i := 0; i < 10 && !closed; i++ {
		msg := oldListen()
		gen, ok := turnMsgGen(msg)
		if !ok {
			t.Fatalf("unexpected message type %T", msg)
		}
		if gen != oldGen {
			t.Errorf("stale listener yielded generation %d, want %d (%T)", gen, oldGen, msg)
		}
		if gen == m.TurnGen() {
			t.Errorf("stale %T is indistinguishable from the live turn", msg)
		}
		_, closed = msg.(TurnClosedMsg)
	}
	if !closed {
		t.Fatal("replaced turn never closed its channel")
	}

	msg := newListen()
	gen, ok := turnMsgGen(msg)
	if !ok {
		t.Fatalf("unexpected message type %T", msg)
	}
	if gen != m.TurnGen() {
		t.Errorf("live listener yielded generation %d, want %d", gen, m.TurnGen())
	}
}
