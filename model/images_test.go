package model

import (
	"strings"
	"testing"
	"time"
)

func TestRewriteGeneratedImages(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantContent string
		wantURLs    []string
	}{
		{
			name:        "no image urls",
			content:     "Just a plain answer.",
			wantContent: "Just a plain answer.",
			wantURLs:    nil,
		},
		{
			name:        "bare url extracted",
			content:     "Here you go:\n\nhttps://pollinations.ai/prompt/a%20red%20fox",
			wantContent: "Here you go:",
			wantURLs:    []string{"https://pollinations.ai/prompt/a%20red%20fox"},
		},
		{
			name:        "markdown image extracted",
			content:     "Result: ![a fox](https://pollinations.ai/prompt/a%20red%20fox)",
			wantContent: "Result:",
			wantURLs:    []string{"https://pollinations.ai/prompt/a%20red%20fox"},
		},
		{
			name:        "image subdomain recognized",
			content:     "See https://image.pollinations.ai/prompt/sunset over there.",
			wantContent: "See  over there.",
			wantURLs:    []string{"https://image.pollinations.ai/prompt/sunset"},
		},
		{
			name:        "duplicate urls collapse",
			content:     "![x](https://pollinations.ai/prompt/cat)\nhttps://pollinations.ai/prompt/cat",
			wantContent: "",
			wantURLs:    []string{"https://pollinations.ai/prompt/cat"},
		},
		{
			name:        "unrelated urls untouched",
			content:     "Read https://go.dev/doc for details.",
			wantContent: "Read https://go.dev/doc for details.",
			wantURLs:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, urls := RewriteGeneratedImages(tt.content)
			if content != tt.wantContent {
				t.Errorf("content = %q, want %q", content, tt.wantContent)
			}
			if len(urls) != len(tt.wantURLs) {
				t.Fatalf("urls = %v, want %v", urls, tt.wantURLs)
			}
			for i := range urls {
				if urls[i] != tt.wantURLs[i] {
					t.Errorf("url %d = %q, want %q", i, urls[i], tt.wantURLs[i])
				}
			}
		})
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	now := time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)

	prompt := BuildSystemPrompt("", now)
	if !strings.Contains(prompt, "March 07, 2025") {
		t.Errorf("prompt missing formatted date: %q", prompt[:80])
	}
	if !strings.Contains(prompt, "search_depth") {
		t.Error("prompt missing search guidance")
	}

	custom := BuildSystemPrompt("Answer in French.", now)
	if !strings.HasPrefix(custom, "Answer in French.") {
		t.Error("user prefix should lead the prompt")
	}
	if !strings.Contains(custom, "March 07, 2025") {
		t.Error("user prefix should not displace the date")
	}
}
