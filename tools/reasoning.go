package tools

import (
	"context"
	"encoding/json"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"glint/config"
	"glint/model"
)

const reasoningPreamble = "You are a reasoning assistant that thinks deeply about problems."

// Reasoner runs an extended-reasoning pass against a dedicated completion
// endpoint, separate from the conversation's provider.
type Reasoner struct {
	settings func() config.Settings
}

func NewReasoner(settings func() config.Settings) *Reasoner {
	return &Reasoner{settings: settings}
}

func (r *Reasoner) Spec() mcptypes.Tool {
	return mcptypes.Tool{
		Name:        "performReasoning",
		Description: "Performs extended reasoning using Pollinations AI reasoning model to help with complex problems.",
		InputSchema: mcptypes.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The problem or question that requires deeper reasoning before answering.",
				},
				"depth": map[string]any{
					"type":        "string",
					"description": "The depth of reasoning to perform.",
					"enum":        []string{"basic", "advanced"},
					"default":     "advanced",
				},
			},
			Required: []string{"query"},
		},
	}
}

func (r *Reasoner) Execute(ctx context.Context, args map[string]any) (string, error) {
	query := argString(args, "query")
	if query == "" {
		return "", &model.ToolExecutionError{Tool: "performReasoning", Reason: "missing query"}
	}
	settings := r.settings()

	client := openai.NewClient(
		option.WithBaseURL(settings.ReasoningEndpoint),
		option.WithAPIKey(settings.APIKey),
	)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(settings.ReasoningModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(reasoningPreamble),
			openai.UserMessage(query),
		},
	})
	if err != nil {
		return "", &model.ToolExecutionError{Tool: "performReasoning", Reason: err.Error()}
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &model.ToolExecutionError{Tool: "performReasoning", Reason: "empty response from reasoning API"}
	}

	payload, err := json.Marshal(map[string]string{
		"reasoning": resp.Choices[0].Message.Content,
		"query":     query,
	})
	if err != nil {
		return "", &model.ToolExecutionError{Tool: "performReasoning", Reason: err.Error()}
	}
	return string(payload), nil
}

func (r *Reasoner) Describe(args map[string]any) string {
	return `Reasoning about: "` + argString(args, "query") + `"`
}
