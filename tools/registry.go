// Package tools implements the built-in tool catalog the assistant can
// invoke: web search, image generation and an extended reasoning pass. Tool
// specifications use the MCP tool schema as the provider-neutral currency;
// each provider converts them to its own wire format.
package tools

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"glint/config"
	"glint/model"
)

// Executor is one tool behind the registry.
type Executor interface {
	Spec() mcptypes.Tool
	Execute(ctx context.Context, args map[string]any) (string, error)
	Describe(args map[string]any) string
}

// Registry dispatches tool calls by name. It implements model.ToolDispatcher.
// The catalog is static for the life of the process; settings are read per
// call so edits apply without a restart.
type Registry struct {
	order  []string
	byName map[string]Executor
	logger *slog.Logger
}

func NewRegistry(settings func() config.Settings) *Registry {
	httpClient := &http.Client{Timeout: 60 * time.Second}

	executors := []Executor{
		NewWebSearch(settings, httpClient),
		NewImageGen(settings),
		NewReasoner(settings),
	}

	r := &Registry{
		byName: make(map[string]Executor, len(executors)),
		logger: config.Log,
	}
	for _, ex := range executors {
		name := ex.Spec().Name
		r.order = append(r.order, name)
		r.byName[name] = ex
	}
	return r
}

// Specs returns the tool catalog in registration order.
func (r *Registry) Specs() []mcptypes.Tool {
	specs := make([]mcptypes.Tool, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.byName[name].Spec())
	}
	return specs
}

// Execute runs the named tool. Unknown names fail like any other tool
// failure; the caller serializes the error into the tool result.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	ex, ok := r.byName[name]
	if !ok {
		return "", &model.ToolExecutionError{Tool: name, Reason: "unknown tool"}
	}

	start := time.Now()
	result, err := ex.Execute(ctx, args)
	r.logger.Debug("tool executed", "tool", name, "duration", time.Since(start), "error", err)
	return result, err
}

// Describe renders the transient status line shown while a tool runs.
func (r *Registry) Describe(name string, args map[string]any) string {
	ex, ok := r.byName[name]
	if !ok {
		return "Processing..."
	}
	return ex.Describe(args)
}

// Argument extraction helpers. Arguments arrive as decoded JSON, so numbers
// are float64 and lists are []any regardless of what the schema says.

func argString(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func argInt(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func argBool(args map[string]any, key string) bool {
	v, ok := args[key].(bool)
	return ok && v
}

func argStrings(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func pluralResults(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}
