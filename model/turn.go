package model

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"glint/config"
)

// ConversationLog is the narrow append/prune capability the orchestrator
// borrows over the active conversation for the duration of one turn.
type ConversationLog interface {
	Append(Message)
	PruneStatus(ids []string)
	History() []Message
}

// TurnEvent is one state transition emitted while a turn runs.
type TurnEvent interface{ isTurnEvent() }

// TurnUpdated signals that the conversation log changed (status entry added
// or pruned) and should be re-rendered.
type TurnUpdated struct{}

// TurnToken carries one streamed answer token.
type TurnToken struct{ Token string }

// TurnDone carries the settled assistant message.
type TurnDone struct{ Message Message }

// TurnFailed carries the unrecovered error; a system message describing it has
// already been appended to the log.
type TurnFailed struct{ Err error }

// TurnCancelled signals user-initiated cancellation. No assistant or error
// message was appended.
type TurnCancelled struct{}

func (TurnUpdated) isTurnEvent()   {}
func (TurnToken) isTurnEvent()     {}
func (TurnDone) isTurnEvent()      {}
func (TurnFailed) isTurnEvent()    {}
func (TurnCancelled) isTurnEvent() {}

// Turn drives one user message through the completion/tool protocol:
// initial completion, zero or more sequential tool invocations, and a
// follow-up completion, reconciling transient status entries into the final
// assistant message.
type Turn struct {
	Client       CompletionClient
	Tools        ToolDispatcher
	Log          ConversationLog
	Settings     config.Settings
	SystemPrompt string
	Stream       bool
	Emit         func(TurnEvent)

	// Now and NewStatusID are injectable for deterministic tests.
	Now         func() time.Time
	NewStatusID func() string

	Logger *slog.Logger
}

func (t *Turn) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t *Turn) statusID() string {
	if t.NewStatusID != nil {
		return t.NewStatusID()
	}
	return uuid.New().String()
}

func (t *Turn) emit(ev TurnEvent) {
	if t.Emit != nil {
		t.Emit(ev)
	}
}

func (t *Turn) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return config.Log
}

// Run executes the turn. It appends the user message, calls the completion
// endpoint, executes requested tools in model order, and settles the
// conversation with exactly one assistant message (or one system error
// message on unrecovered failure, or nothing further on cancellation).
func (t *Turn) Run(ctx context.Context, input string, upload *Upload) {
	t.Log.Append(Message{
		Role:      "user",
		Content:   input,
		Upload:    upload,
		Timestamp: t.now(),
	})
	t.emit(TurnUpdated{})

	outbound := t.buildOutbound()

	res, err := t.complete(ctx, outbound, t.Tools.Specs())
	if err != nil {
		t.settleError(ctx, err, nil)
		return
	}
	// A response that raced a cancellation is discarded; the turn must not
	// resume after the user stopped it.
	if ctx.Err() != nil {
		t.settleCancelled(nil)
		return
	}

	if !res.RequiresTools() {
		t.settleAnswer(res.Content, nil)
		return
	}

	// The assistant tool-call message participates in the follow-up request
	// but is not part of the visible conversation; the log shows transient
	// status entries instead.
	assistantCall := Message{
		Role:      "assistant",
		Content:   res.Content,
		ToolCalls: res.ToolCalls,
		Timestamp: t.now(),
	}

	statusIDs := make([]string, 0, len(res.ToolCalls))
	toolResults := make([]Message, 0, len(res.ToolCalls))
	var toolImageURLs []string

	// Tools run sequentially in the order the model returned them: later
	// calls and the final completion may depend on earlier results.
	for _, call := range res.ToolCalls {
		if ctx.Err() != nil {
			t.settleCancelled(statusIDs)
			return
		}

		status := Message{
			Role:      "system",
			Kind:      KindStatus,
			StatusID:  t.statusID(),
			Content:   t.Tools.Describe(call.Name, call.Arguments),
			Timestamp: t.now(),
		}
		statusIDs = append(statusIDs, status.StatusID)
		t.Log.Append(status)
		t.emit(TurnUpdated{})

		result, execErr := t.Tools.Execute(ctx, call.Name, call.Arguments)
		if ctx.Err() != nil {
			t.settleCancelled(statusIDs)
			return
		}
		if execErr != nil {
			// A failing tool never aborts the turn: the model is shown the
			// failure and still asked to respond.
			t.logger().Warn("tool execution failed", "tool", call.Name, "err", execErr)
			result = serializeToolError(call.Name, execErr)
		} else if call.Name == "generateImage" {
			toolImageURLs = append(toolImageURLs, result)
		}

		// Every tool call id gets exactly one result message, error or not;
		// the follow-up request is invalid otherwise.
		toolResults = append(toolResults, Message{
			Role:       "tool",
			Content:    result,
			ToolCallID: call.ID,
			Timestamp:  t.now(),
		})
	}

	followup := make([]Message, 0, len(outbound)+1+len(toolResults))
	followup = append(followup, outbound...)
	followup = append(followup, assistantCall)
	followup = append(followup, toolResults...)

	final, err := t.complete(ctx, followup, nil)
	if err != nil {
		t.settleError(ctx, err, statusIDs)
		return
	}
	if ctx.Err() != nil {
		t.settleCancelled(statusIDs)
		return
	}

	t.Log.PruneStatus(statusIDs)
	t.settleAnswer(final.Content, toolImageURLs)
}

// buildOutbound maps the conversation history to plain {role, content} pairs
// behind the fixed system prompt. Transient status entries and tool plumbing
// never leave the process.
func (t *Turn) buildOutbound() []Message {
	history := t.Log.History()
	outbound := make([]Message, 0, len(history)+1)
	outbound = append(outbound, Message{Role: "system", Content: t.SystemPrompt})
	for _, msg := range history {
		if msg.IsStatus() || msg.Role == "tool" {
			continue
		}
		outbound = append(outbound, Message{Role: msg.Role, Content: msg.OutboundContent()})
	}
	return outbound
}

func (t *Turn) complete(ctx context.Context, messages []Message, tools []mcptypes.Tool) (*CompletionResult, error) {
	if t.Stream {
		return t.Client.CompleteStreaming(ctx, messages, t.Settings, tools, func(token string) {
			t.emit(TurnToken{Token: token})
		})
	}
	return t.Client.Complete(ctx, messages, t.Settings, tools)
}

func (t *Turn) settleAnswer(content string, toolImageURLs []string) {
	// Bare generated-image URLs embedded in the answer text become
	// first-class attachments instead of markdown the renderer would mangle.
	content, embedded := RewriteGeneratedImages(content)
	urls := appendUnique(toolImageURLs, embedded...)

	final := Message{
		Role:      "assistant",
		Content:   content,
		ImageURLs: urls,
		Timestamp: t.now(),
	}
	t.Log.Append(final)
	t.emit(TurnUpdated{})
	t.emit(TurnDone{Message: final})
}

func (t *Turn) settleError(ctx context.Context, err error, statusIDs []string) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		t.settleCancelled(statusIDs)
		return
	}

	t.logger().Error("turn failed", "err", err)
	t.Log.PruneStatus(statusIDs)
	t.Log.Append(Message{
		Role:      "system",
		Content:   "Error: " + summarizeError(err),
		Timestamp: t.now(),
	})
	t.emit(TurnUpdated{})
	t.emit(TurnFailed{Err: err})
}

func (t *Turn) settleCancelled(statusIDs []string) {
	t.Log.PruneStatus(statusIDs)
	t.emit(TurnUpdated{})
	t.emit(TurnCancelled{})
}

// summarizeError maps the error taxonomy to a human-readable line; the full
// detail goes to the debug log only.
func summarizeError(err error) string {
	var fatal *FatalUpstreamError
	var invalid *InvalidResponseError
	switch {
	case errors.As(err, &fatal):
		return "the completion service is unavailable. Please try again later."
	case errors.As(err, &invalid):
		return "the completion service returned an unusable response."
	default:
		return "failed to get a response."
	}
}

func serializeToolError(tool string, err error) string {
	payload := map[string]string{
		"error":   "Tool execution failed",
		"tool":    tool,
		"details": err.Error(),
	}
	data, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		return `{"error":"Tool execution failed"}`
	}
	return string(data)
}

func appendUnique(urls []string, more ...string) []string {
	for _, u := range more {
		seen := false
		for _, existing := range urls {
			if existing == u {
				seen = true
				break
			}
		}
		if !seen {
			urls = append(urls, u)
		}
	}
	return urls
}
