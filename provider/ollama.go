package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"

	"glint/config"
	"glint/model"
)

// OllamaClient runs completions against a local Ollama server. Ollama does
// not assign tool-call ids, so synthetic ids are minted per response; the
// follow-up request re-serializes them as text, which Ollama accepts.
type OllamaClient struct{}

func NewOllamaClient() *OllamaClient {
	return &OllamaClient{}
}

func newOllamaBackend(settings config.Settings) (*api.Client, error) {
	endpoint := settings.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}
	return api.NewClient(parsed, http.DefaultClient), nil
}

func (c *OllamaClient) Complete(ctx context.Context, messages []model.Message, settings config.Settings, tools []mcptypes.Tool) (*model.CompletionResult, error) {
	return c.chat(ctx, messages, settings, tools, nil)
}

func (c *OllamaClient) CompleteStreaming(ctx context.Context, messages []model.Message, settings config.Settings, tools []mcptypes.Tool, onToken func(string)) (*model.CompletionResult, error) {
	return c.chat(ctx, messages, settings, tools, onToken)
}

func (c *OllamaClient) chat(ctx context.Context, messages []model.Message, settings config.Settings, tools []mcptypes.Tool, onToken func(string)) (*model.CompletionResult, error) {
	client, err := newOllamaBackend(settings)
	if err != nil {
		return nil, &model.FatalUpstreamError{Err: err}
	}

	stream := onToken != nil
	req := &api.ChatRequest{
		Model:    settings.Model,
		Messages: ConvertToOllamaMessages(messages),
		Tools:    ConvertToolSpecsToOllama(tools),
		Stream:   &stream,
		Options: map[string]any{
			"temperature": settings.Temperature,
			"num_predict": settings.MaxTokens,
		},
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			config.Log.Debug("retrying ollama chat", "attempt", attempt+1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		var content strings.Builder
		var toolCalls []model.ToolCall

		respFunc := func(resp api.ChatResponse) error {
			if resp.Message.Content != "" {
				content.WriteString(resp.Message.Content)
				if onToken != nil {
					onToken(resp.Message.Content)
				}
			}
			for _, call := range resp.Message.ToolCalls {
				toolCalls = append(toolCalls, model.ToolCall{
					ID:        fmt.Sprintf("call_%d", len(toolCalls)),
					Name:      call.Function.Name,
					Arguments: call.Function.Arguments,
				})
			}
			return nil
		}

		if err := client.Chat(ctx, req, respFunc); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = classifyOllamaError(err)
			// A stream that already reached the caller cannot be replayed.
			if isTransient(lastErr) && content.Len() == 0 {
				continue
			}
			return nil, lastErr
		}

		result := &model.CompletionResult{Content: content.String(), ToolCalls: toolCalls}
		if result.Content == "" && len(result.ToolCalls) == 0 {
			return nil, &model.InvalidResponseError{Detail: "empty chat response"}
		}
		return result, nil
	}

	return nil, exhausted(lastErr)
}

func classifyOllamaError(err error) error {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode >= 500 {
			return &model.TransientUpstreamError{StatusCode: statusErr.StatusCode, Err: err}
		}
		return &model.FatalUpstreamError{StatusCode: statusErr.StatusCode, Err: err}
	}
	return &model.TransientUpstreamError{Err: err}
}
