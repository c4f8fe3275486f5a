package model

import "time"

// MessageKind distinguishes settled conversation entries from transient status
// placeholders shown while a turn is in flight. Status entries carry a
// correlation id and are pruned by id, never by content matching.
type MessageKind int

const (
	KindFinal MessageKind = iota
	KindStatus
)

// Upload is a resolved file attachment on a user message.
type Upload struct {
	Name    string `json:"name"`
	MIME    string `json:"mime"`
	DataURL string `json:"data_url,omitempty"` // base64 data URL for images
	Text    string `json:"text,omitempty"`     // inlined content for text files
}

// Message represents a chat message in a conversation.
type Message struct {
	Role       string      `json:"role"` // system, user, assistant, tool
	Content    string      `json:"content"`
	Kind       MessageKind `json:"kind,omitempty"`
	StatusID   string      `json:"status_id,omitempty"`
	ToolCallID string      `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall  `json:"tool_calls,omitempty"`
	ImageURLs  []string    `json:"image_urls,omitempty"`
	Upload     *Upload     `json:"upload,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// ToolCall is a model-issued request to invoke a named tool. Produced only by
// the completion client; the orchestrator never constructs one.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// IsStatus reports whether the message is a transient status entry.
func (m Message) IsStatus() bool {
	return m.Kind == KindStatus
}

// OutboundContent returns the content sent to the completion endpoint, with
// attachments degraded to inline references.
func (m Message) OutboundContent() string {
	if m.Upload == nil {
		return m.Content
	}
	if m.Upload.Text != "" {
		return m.Content + "\n\n[Attached file: " + m.Upload.Name + "]\n```\n" + m.Upload.Text + "\n```"
	}
	return m.Content + "\n\n[Attached image: " + m.Upload.Name + "]"
}
