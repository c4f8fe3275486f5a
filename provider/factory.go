package provider

import (
	"glint/config"
	"glint/model"
)

// New returns the completion client for the configured provider. Unknown
// values fall back to the OpenAI-compatible client, which covers Azure,
// OpenRouter and the other compatible endpoints.
func New(settings config.Settings) model.CompletionClient {
	switch settings.Provider {
	case ProviderAnthropic:
		return NewAnthropicClient()
	case ProviderOllama:
		return NewOllamaClient()
	default:
		return NewOpenAIClient()
	}
}
