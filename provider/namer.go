package provider

import (
	"context"
	"strings"

	"github.com/openai/openai-go/v3"

	"glint/config"
	"glint/model"
)

const namerSystemPrompt = "You are a highly efficient chat summarizer. Create a concise, relevant title (5 words or fewer) that captures the conversation theme."

const titleDisplayLimit = 50

// Cap on how much of the exchange feeds the summarizer.
const namerMessageLimit = 10

// Namer generates conversation titles through an independent summarization
// completion against the configured endpoint. It never touches conversation
// state; callers decide what to do with the result.
type Namer struct{}

func NewNamer() *Namer {
	return &Namer{}
}

// GenerateTitle implements model.TitleClient. The initial exchange is joined
// into role-tagged lines so the summary reflects both sides, not just the
// opening question.
func (n *Namer) GenerateTitle(ctx context.Context, initial []model.Message, settings config.Settings) (string, error) {
	if len(initial) == 0 {
		return "", &model.InvalidResponseError{Detail: "no messages to summarize"}
	}
	client := newOpenAIBackend(settings)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(settings.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(namerSystemPrompt),
			openai.UserMessage(namerUserPrompt(initial)),
		},
		Temperature:         openai.Float(0.7),
		MaxCompletionTokens: openai.Int(30),
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &model.InvalidResponseError{Detail: "no choices in title completion"}
	}

	title := strings.TrimSpace(resp.Choices[0].Message.Content)
	title = strings.Trim(title, `"`)
	if runes := []rune(title); len(runes) > titleDisplayLimit {
		title = string(runes[:titleDisplayLimit])
	}
	return title, nil
}

func namerUserPrompt(initial []model.Message) string {
	noun := "conversation"
	if len(initial) == 1 {
		noun = "initial message"
	}

	capped := initial
	if len(capped) > namerMessageLimit {
		capped = capped[:namerMessageLimit]
	}
	lines := make([]string, 0, len(capped))
	for _, msg := range capped {
		lines = append(lines, msg.Role+": "+msg.Content)
	}

	return "Please summarize this " + noun + " in 5 or fewer words:\n" + strings.Join(lines, "\n")
}
