package tools

import (
	"context"
	"testing"

	"glint/config"
)

func TestImageGenURL(t *testing.T) {
	gen := NewImageGen(func() config.Settings { return testSettings() })

	tests := []struct {
		name     string
		prompt   string
		expected string
	}{
		{
			name:     "single word",
			prompt:   "sunset",
			expected: "https://pollinations.ai/prompt/sunset",
		},
		{
			name:     "spaces are percent encoded",
			prompt:   "a red fox in snow",
			expected: "https://pollinations.ai/prompt/a%20red%20fox%20in%20snow",
		},
		{
			name:     "reserved characters",
			prompt:   "50% off? yes & no",
			expected: "https://pollinations.ai/prompt/50%25%20off%3F%20yes%20&%20no",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gen.Execute(context.Background(), map[string]any{"prompt": tt.prompt})
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Execute() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestImageGenTrailingSlash(t *testing.T) {
	settings := testSettings()
	settings.ImageEndpoint = "https://pollinations.ai/"
	gen := NewImageGen(func() config.Settings { return settings })

	got, err := gen.Execute(context.Background(), map[string]any{"prompt": "dog"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if got != "https://pollinations.ai/prompt/dog" {
		t.Errorf("Execute() = %q", got)
	}
}

func TestImageGenMissingPrompt(t *testing.T) {
	gen := NewImageGen(func() config.Settings { return testSettings() })

	if _, err := gen.Execute(context.Background(), map[string]any{}); err == nil {
		t.Fatal("expected error for missing prompt")
	}
}
