// Package provider implements the completion clients behind the
// model.CompletionClient interface: any OpenAI-compatible endpoint, Anthropic
// and local Ollama. Each client converts between the provider-agnostic
// message and tool types in the model package and its backend's wire format.
package provider

import (
	"errors"
	"time"

	"glint/model"
)

// Provider type identifiers used in configuration.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Retry policy for transient upstream failures. Attempts are spaced by a
// fixed delay; only 5xx-class responses are retried.
const (
	maxAttempts = 3
	retryDelay  = time.Second
)

// exhausted converts the last transient failure into the fatal form once the
// retry budget is spent. Callers above the provider only ever see
// FatalUpstreamError for upstream failures.
func exhausted(lastErr error) error {
	var transient *model.TransientUpstreamError
	if errors.As(lastErr, &transient) {
		return &model.FatalUpstreamError{StatusCode: transient.StatusCode, Err: lastErr}
	}
	return lastErr
}
