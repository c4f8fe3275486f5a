package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"glint/config"
	"glint/model"
)

// AnthropicClient adapts the Claude messages API to the completion contract.
type AnthropicClient struct{}

func NewAnthropicClient() *AnthropicClient {
	return &AnthropicClient{}
}

func newAnthropicBackend(settings config.Settings) anthropic.Client {
	// As with the OpenAI backend, SDK retries are off; the attempt budget
	// here is the only retry policy.
	opts := []option.RequestOption{option.WithAPIKey(settings.APIKey), option.WithMaxRetries(0)}
	if settings.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(settings.Endpoint))
	}
	return anthropic.NewClient(opts...)
}

func buildAnthropicParams(messages []model.Message, settings config.Settings, tools []mcptypes.Tool) anthropic.MessageNewParams {
	anthropicMessages, systemBlocks := convertToAnthropicMessages(messages)

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(settings.Model),
		Messages:    anthropicMessages,
		MaxTokens:   int64(settings.MaxTokens),
		Temperature: anthropic.Float(settings.Temperature),
	}
	if len(systemBlocks) > 0 {
		params.System = systemBlocks
	}
	if len(tools) > 0 {
		params.Tools = ConvertToolSpecsToAnthropic(tools)
	}
	return params
}

func (c *AnthropicClient) Complete(ctx context.Context, messages []model.Message, settings config.Settings, tools []mcptypes.Tool) (*model.CompletionResult, error) {
	client := newAnthropicBackend(settings)
	params := buildAnthropicParams(messages, settings, tools)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		msg, err := client.Messages.New(ctx, params)
		if err != nil {
			lastErr = classifyAnthropicError(err)
			if isTransient(lastErr) {
				continue
			}
			return nil, lastErr
		}
		return resultFromAnthropicMessage(msg.Content)
	}

	return nil, exhausted(lastErr)
}

func (c *AnthropicClient) CompleteStreaming(ctx context.Context, messages []model.Message, settings config.Settings, tools []mcptypes.Tool, onToken func(string)) (*model.CompletionResult, error) {
	client := newAnthropicBackend(settings)
	params := buildAnthropicParams(messages, settings, tools)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		stream := client.Messages.NewStreaming(ctx, params)
		msg := anthropic.Message{}
		delivered := false

		for stream.Next() {
			event := stream.Current()
			if err := msg.Accumulate(event); err != nil {
				return nil, &model.InvalidResponseError{Detail: err.Error()}
			}

			switch eventVariant := event.AsAny().(type) {
			case anthropic.ContentBlockDeltaEvent:
				if delta, ok := eventVariant.Delta.AsAny().(anthropic.TextDelta); ok && delta.Text != "" {
					delivered = true
					if onToken != nil {
						onToken(delta.Text)
					}
				}
			}
		}

		if err := stream.Err(); err != nil {
			lastErr = classifyAnthropicError(err)
			if isTransient(lastErr) && !delivered {
				continue
			}
			return nil, lastErr
		}

		return resultFromAnthropicMessage(msg.Content)
	}

	return nil, exhausted(lastErr)
}

func resultFromAnthropicMessage(content []anthropic.ContentBlockUnion) (*model.CompletionResult, error) {
	var text strings.Builder
	var toolCalls []model.ToolCall

	for _, block := range content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(variant.Text)
		case anthropic.ToolUseBlock:
			var args map[string]any
			if err := json.Unmarshal(variant.Input, &args); err != nil {
				args = make(map[string]any)
			}
			toolCalls = append(toolCalls, model.ToolCall{
				ID:        variant.ID,
				Name:      variant.Name,
				Arguments: args,
			})
		}
	}

	result := &model.CompletionResult{Content: text.String(), ToolCalls: toolCalls}
	if result.Content == "" && len(result.ToolCalls) == 0 {
		return nil, &model.InvalidResponseError{Detail: "message carried neither text nor tool use"}
	}
	return result, nil
}

// convertToAnthropicMessages maps the agnostic transcript onto Anthropic's
// shape: system content moves to the dedicated system parameter, and tool
// results ride as user text since the pairing is already carried in the
// serialized payload.
func convertToAnthropicMessages(messages []model.Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var systemBlocks []anthropic.TextBlockParam
	anthropicMsgs := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case "system":
			systemBlocks = append(systemBlocks, anthropic.TextBlockParam{Text: msg.Content})

		case "assistant":
			content := msg.Content
			if len(msg.ToolCalls) > 0 {
				content = describeToolCallsAsText(msg.Content, msg.ToolCalls)
			}
			anthropicMsgs = append(anthropicMsgs,
				anthropic.NewAssistantMessage(anthropic.NewTextBlock(content)),
			)

		case "tool":
			anthropicMsgs = append(anthropicMsgs,
				anthropic.NewUserMessage(anthropic.NewTextBlock(
					fmt.Sprintf("Tool result for %s:\n%s", msg.ToolCallID, msg.Content),
				)),
			)

		default:
			anthropicMsgs = append(anthropicMsgs,
				anthropic.NewUserMessage(anthropic.NewTextBlock(msg.OutboundContent())),
			)
		}
	}

	return anthropicMsgs, systemBlocks
}

func describeToolCallsAsText(content string, calls []model.ToolCall) string {
	var b strings.Builder
	if content != "" {
		b.WriteString(content)
		b.WriteString("\n")
	}
	for _, call := range calls {
		args, _ := json.Marshal(call.Arguments)
		fmt.Fprintf(&b, "[invoking %s (%s) with %s]\n", call.Name, call.ID, args)
	}
	return strings.TrimRight(b.String(), "\n")
}

func classifyAnthropicError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= 500 {
			return &model.TransientUpstreamError{StatusCode: apiErr.StatusCode, Err: err}
		}
		return &model.FatalUpstreamError{StatusCode: apiErr.StatusCode, Err: err}
	}

	return &model.TransientUpstreamError{Err: err}
}
