package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"glint/config"
	"glint/model"
)

func titleServer(t *testing.T, reply string, captured *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("unmarshal request: %v", err)
		}
		if len(req.Messages) == 2 {
			*captured = req.Messages[1].Content
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": reply}},
			},
		})
	}))
}

func TestGenerateTitleSummarizesBothSides(t *testing.T) {
	var prompt string
	server := titleServer(t, `"Tokyo Weather Check"`, &prompt)
	defer server.Close()

	namer := NewNamer()
	title, err := namer.GenerateTitle(context.Background(), []model.Message{
		{Role: "user", Content: "What's the weather in Tokyo?"},
		{Role: "assistant", Content: "It's 18°C and clear."},
	}, config.Settings{Endpoint: server.URL, Model: "test-model"})
	if err != nil {
		t.Fatalf("GenerateTitle: %v", err)
	}

	if title != "Tokyo Weather Check" {
		t.Errorf("title = %q, want quotes stripped", title)
	}
	if !strings.Contains(prompt, "user: What's the weather in Tokyo?") {
		t.Errorf("prompt missing the user line: %q", prompt)
	}
	if !strings.Contains(prompt, "assistant: It's 18°C and clear.") {
		t.Errorf("prompt missing the assistant line: %q", prompt)
	}
	if !strings.Contains(prompt, "summarize this conversation") {
		t.Errorf("two-message exchange should be framed as a conversation: %q", prompt)
	}
}

func TestNamerUserPrompt(t *testing.T) {
	single := namerUserPrompt([]model.Message{{Role: "user", Content: "hello"}})
	if !strings.Contains(single, "summarize this initial message") {
		t.Errorf("single message should be framed as an initial message: %q", single)
	}

	long := make([]model.Message, namerMessageLimit+5)
	for i := range long {
		long[i] = model.Message{Role: "user", Content: "line"}
	}
	if got := strings.Count(namerUserPrompt(long), "user: line"); got != namerMessageLimit {
		t.Errorf("prompt carries %d lines, want %d", got, namerMessageLimit)
	}
}
