package storage

import "testing"

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "short message passes through",
			input:    "Hello there",
			expected: "Hello there",
		},
		{
			name:     "exactly thirty characters unchanged",
			input:    "abcdefghijklmnopqrstuvwxyz1234",
			expected: "abcdefghijklmnopqrstuvwxyz1234",
		},
		{
			name:     "long message truncated with ellipsis",
			input:    "Explain quicksort in detail please",
			expected: "Explain quicksort in detail pl...",
		},
		{
			name:     "whitespace collapsed before truncation",
			input:    "  What   is\nthe  answer  ",
			expected: "What is the answer",
		},
		{
			name:     "empty message falls back to default",
			input:    "",
			expected: DefaultTitle,
		},
		{
			name:     "multibyte runes counted as characters",
			input:    "日本語のテキストを三十文字を超えるまで書き続けるとどうなるか確認する",
			expected: "日本語のテキストを三十文字を超えるまで書き続けるとどうなるか...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.input); got != tt.expected {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
