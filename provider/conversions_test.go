package provider

import (
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"glint/model"
)

func TestParseToolArguments(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string]any
	}{
		{
			name:     "valid json",
			input:    `{"query": "golang", "max_results": 5}`,
			expected: map[string]any{"query": "golang", "max_results": float64(5)},
		},
		{
			name:     "empty object",
			input:    `{}`,
			expected: map[string]any{},
		},
		{
			name:     "malformed json degrades to empty",
			input:    `{"query": `,
			expected: map[string]any{},
		},
		{
			name:     "empty string degrades to empty",
			input:    "",
			expected: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseToolArguments(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d keys, got %d", len(tt.expected), len(got))
			}
			for k, v := range tt.expected {
				if got[k] != v {
					t.Errorf("key %s: expected %v, got %v", k, v, got[k])
				}
			}
		})
	}
}

func TestConvertToOpenAIMessages(t *testing.T) {
	messages := []model.Message{
		{Role: "system", Content: "be helpful"},
		{Role: "user", Content: "what is the weather"},
		{
			Role: "assistant",
			ToolCalls: []model.ToolCall{
				{ID: "call_1", Name: "performWebSearch", Arguments: map[string]any{"query": "weather"}},
			},
		},
		{Role: "tool", Content: `{"answer":"sunny"}`, ToolCallID: "call_1"},
		{Role: "assistant", Content: "It is sunny."},
	}

	converted := ConvertToOpenAIMessages(messages)
	if len(converted) != len(messages) {
		t.Fatalf("expected %d messages, got %d", len(messages), len(converted))
	}

	if converted[0].OfSystem == nil {
		t.Error("system message not mapped to system param")
	}
	if converted[1].OfUser == nil {
		t.Error("user message not mapped to user param")
	}

	assistant := converted[2].OfAssistant
	if assistant == nil {
		t.Fatal("tool-call message not mapped to assistant param")
	}
	if len(assistant.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(assistant.ToolCalls))
	}
	fn := assistant.ToolCalls[0].OfFunction
	if fn == nil || fn.ID != "call_1" {
		t.Errorf("tool call id not preserved: %+v", assistant.ToolCalls[0])
	}
	if fn.Function.Name != "performWebSearch" {
		t.Errorf("tool call name = %q", fn.Function.Name)
	}
	if fn.Function.Arguments != `{"query":"weather"}` {
		t.Errorf("tool call arguments = %q", fn.Function.Arguments)
	}

	if converted[3].OfTool == nil {
		t.Fatal("tool result not mapped to tool param")
	}
	if converted[3].OfTool.ToolCallID != "call_1" {
		t.Errorf("tool result id = %q", converted[3].OfTool.ToolCallID)
	}

	if converted[4].OfAssistant == nil {
		t.Error("plain assistant message not mapped to assistant param")
	}
}

func TestConvertToOllamaMessages(t *testing.T) {
	messages := []model.Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
	}

	converted := ConvertToOllamaMessages(messages)
	if len(converted) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(converted))
	}
	if converted[0].Role != "user" || converted[0].Content != "hello" {
		t.Errorf("unexpected first message: %+v", converted[0])
	}
	if converted[1].Role != "assistant" || converted[1].Content != "hi" {
		t.Errorf("unexpected second message: %+v", converted[1])
	}
}

func TestConvertToolSpecsToOpenAI(t *testing.T) {
	specs := []mcptypes.Tool{
		{
			Name:        "performWebSearch",
			Description: "Searches the web.",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"query": map[string]any{"type": "string"},
				},
				Required: []string{"query"},
			},
		},
	}

	converted := ConvertToolSpecsToOpenAI(specs)
	if len(converted) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(converted))
	}
	fn := converted[0].OfFunction
	if fn == nil {
		t.Fatal("expected function tool")
	}
	if fn.Function.Name != "performWebSearch" {
		t.Errorf("name = %q", fn.Function.Name)
	}
	params := fn.Function.Parameters
	if params["type"] != "object" {
		t.Errorf("schema type = %v", params["type"])
	}
	required, ok := params["required"].([]string)
	if !ok || len(required) != 1 || required[0] != "query" {
		t.Errorf("required = %v", params["required"])
	}

	if got := ConvertToolSpecsToOpenAI(nil); got != nil {
		t.Errorf("empty catalog should convert to nil, got %v", got)
	}
}

func TestConvertToolSpecsToOllama(t *testing.T) {
	specs := []mcptypes.Tool{
		{
			Name:        "performWebSearch",
			Description: "Searches the web.",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "the search query",
					},
					"search_depth": map[string]any{
						"type": "string",
						"enum": []string{"basic", "advanced"},
					},
					"include_domains": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
				Required: []string{"query"},
			},
		},
	}

	converted := ConvertToolSpecsToOllama(specs)
	if len(converted) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(converted))
	}
	fn := converted[0].Function
	if fn.Name != "performWebSearch" {
		t.Errorf("name = %q", fn.Name)
	}
	if len(fn.Parameters.Properties) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(fn.Parameters.Properties))
	}

	query := fn.Parameters.Properties["query"]
	if len(query.Type) != 1 || query.Type[0] != "string" {
		t.Errorf("query type = %v", query.Type)
	}
	if query.Description != "the search query" {
		t.Errorf("query description = %q", query.Description)
	}

	depth := fn.Parameters.Properties["search_depth"]
	if len(depth.Enum) != 2 {
		t.Errorf("enum not preserved: %v", depth.Enum)
	}

	domains := fn.Parameters.Properties["include_domains"]
	if domains.Items == nil {
		t.Error("array items not preserved")
	}
}
