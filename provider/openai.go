package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"glint/config"
	"glint/model"
)

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint. The
// underlying client is rebuilt per request so settings edits (endpoint, key,
// model) take effect without a restart.
type OpenAIClient struct{}

func NewOpenAIClient() *OpenAIClient {
	return &OpenAIClient{}
}

func newOpenAIBackend(settings config.Settings) openai.Client {
	// The SDK's built-in retries are disabled; the attempt budget here is
	// the only retry policy.
	return openai.NewClient(
		option.WithBaseURL(settings.Endpoint),
		option.WithAPIKey(settings.APIKey),
		option.WithMaxRetries(0),
	)
}

func buildOpenAIParams(messages []model.Message, settings config.Settings, tools []mcptypes.Tool) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages:            ConvertToOpenAIMessages(messages),
		Model:               openai.ChatModel(settings.Model),
		Temperature:         openai.Float(settings.Temperature),
		MaxCompletionTokens: openai.Int(int64(settings.MaxTokens)),
	}
	if len(tools) > 0 {
		params.Tools = ConvertToolSpecsToOpenAI(tools)
	}
	return params
}

// Complete implements model.CompletionClient. Transient (5xx) failures are
// retried up to the attempt budget with a fixed delay between tries.
func (c *OpenAIClient) Complete(ctx context.Context, messages []model.Message, settings config.Settings, tools []mcptypes.Tool) (*model.CompletionResult, error) {
	client := newOpenAIBackend(settings)
	params := buildOpenAIParams(messages, settings, tools)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			config.Log.Debug("retrying completion", "attempt", attempt+1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		resp, err := client.Chat.Completions.New(ctx, params)
		if err != nil {
			lastErr = classifyOpenAIError(err)
			if isTransient(lastErr) {
				continue
			}
			return nil, lastErr
		}
		return resultFromOpenAIResponse(resp)
	}

	return nil, exhausted(lastErr)
}

// CompleteStreaming implements model.CompletionClient. Content deltas reach
// onToken as they arrive; tool-call fragments are reassembled by the
// accumulator and never surface as tokens. The retry budget applies only
// before the first token is delivered.
func (c *OpenAIClient) CompleteStreaming(ctx context.Context, messages []model.Message, settings config.Settings, tools []mcptypes.Tool, onToken func(string)) (*model.CompletionResult, error) {
	client := newOpenAIBackend(settings)
	params := buildOpenAIParams(messages, settings, tools)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			config.Log.Debug("retrying streaming completion", "attempt", attempt+1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		stream := client.Chat.Completions.NewStreaming(ctx, params)
		acc := openai.ChatCompletionAccumulator{}
		delivered := false

		for stream.Next() {
			chunk := stream.Current()
			acc.AddChunk(chunk)

			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				delivered = true
				if onToken != nil {
					onToken(chunk.Choices[0].Delta.Content)
				}
			}
		}

		if err := stream.Err(); err != nil {
			lastErr = classifyOpenAIError(err)
			if isTransient(lastErr) && !delivered {
				continue
			}
			return nil, lastErr
		}

		return resultFromOpenAIResponse(&acc.ChatCompletion)
	}

	return nil, exhausted(lastErr)
}

func resultFromOpenAIResponse(resp *openai.ChatCompletion) (*model.CompletionResult, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return nil, &model.InvalidResponseError{Detail: "no choices in completion"}
	}

	msg := resp.Choices[0].Message
	result := &model.CompletionResult{Content: msg.Content}

	for _, call := range msg.ToolCalls {
		result.ToolCalls = append(result.ToolCalls, model.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: ParseToolArguments(call.Function.Arguments),
		})
	}

	if result.Content == "" && len(result.ToolCalls) == 0 {
		return nil, &model.InvalidResponseError{Detail: "completion carried neither content nor tool calls"}
	}
	return result, nil
}

// classifyOpenAIError maps SDK failures onto the upstream error taxonomy:
// 5xx responses and transport failures are transient, everything else fatal.
func classifyOpenAIError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= 500 {
			return &model.TransientUpstreamError{StatusCode: apiErr.StatusCode, Err: err}
		}
		return &model.FatalUpstreamError{StatusCode: apiErr.StatusCode, Err: fmt.Errorf("completion request rejected: %w", err)}
	}

	return &model.TransientUpstreamError{Err: err}
}

func isTransient(err error) bool {
	var transient *model.TransientUpstreamError
	return errors.As(err, &transient)
}
