package model

import (
	"context"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"glint/config"
)

// CompletionClient abstracts the completion endpoint (OpenAI-compatible,
// Anthropic, Ollama) behind provider-agnostic types.
//
// The interface lives in the model package rather than the provider package to
// avoid import cycles: provider implementations import model, and the
// orchestrator uses the interface without importing provider.
type CompletionClient interface {
	// Complete sends the conversation plus the tool catalog and returns
	// either a plain answer or a request to invoke tools.
	Complete(ctx context.Context, messages []Message, settings config.Settings, tools []mcptypes.Tool) (*CompletionResult, error)

	// CompleteStreaming is the same contract with token deltas delivered
	// through onToken as they arrive. Tool-call argument fragments are
	// reassembled internally; onToken only ever sees answer text.
	CompleteStreaming(ctx context.Context, messages []Message, settings config.Settings, tools []mcptypes.Tool, onToken func(string)) (*CompletionResult, error)
}

// CompletionResult is the tagged outcome of one completion: an answer when
// ToolCalls is empty, a tool-call request otherwise. Argument payloads are
// always complete, parsed objects by the time the orchestrator sees them.
type CompletionResult struct {
	Content   string
	ToolCalls []ToolCall
}

// RequiresTools reports whether the model asked for tool invocations.
func (r *CompletionResult) RequiresTools() bool {
	return len(r.ToolCalls) > 0
}

// TitleClient produces short conversation titles from the initial exchange.
// It is separate from CompletionClient because the title pass is an
// independent completion that must not touch conversation history.
type TitleClient interface {
	GenerateTitle(ctx context.Context, initial []Message, settings config.Settings) (string, error)
}

// ToolDispatcher is the orchestrator's view of the tool registry.
type ToolDispatcher interface {
	// Specs returns the ordered static tool catalog.
	Specs() []mcptypes.Tool

	// Execute runs the named tool. Unknown names and executor failures
	// return an error; the orchestrator serializes it into the tool result
	// rather than aborting the turn.
	Execute(ctx context.Context, name string, args map[string]any) (string, error)

	// Describe returns the user-visible status line for an invocation.
	Describe(name string, args map[string]any) string
}
