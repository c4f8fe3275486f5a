package model

import "glint/storage"

// ToStorageMessages converts the in-memory transcript to its persisted form.
// Status messages are transient and never written to disk.
func ToStorageMessages(messages []Message) []storage.Message {
	out := make([]storage.Message, 0, len(messages))
	for _, m := range messages {
		if m.IsStatus() {
			continue
		}
		sm := storage.Message{
			Role:       m.Role,
			Content:    m.Content,
			Kind:       int(m.Kind),
			StatusID:   m.StatusID,
			ToolCallID: m.ToolCallID,
			ImageURLs:  m.ImageURLs,
			Timestamp:  m.Timestamp,
		}
		for _, tc := range m.ToolCalls {
			sm.ToolCalls = append(sm.ToolCalls, storage.ToolCall{
				ID:        tc.ID,
				Name:      tc.Name,
				Arguments: tc.Arguments,
			})
		}
		if m.Upload != nil {
			sm.Upload = &storage.Upload{
				Name:    m.Upload.Name,
				MIME:    m.Upload.MIME,
				DataURL: m.Upload.DataURL,
				Text:    m.Upload.Text,
			}
		}
		out = append(out, sm)
	}
	return out
}

// FromStorageMessages rehydrates a persisted transcript.
func FromStorageMessages(messages []storage.Message) []Message {
	out := make([]Message, 0, len(messages))
	for _, sm := range messages {
		m := Message{
			Role:       sm.Role,
			Content:    sm.Content,
			Kind:       MessageKind(sm.Kind),
			StatusID:   sm.StatusID,
			ToolCallID: sm.ToolCallID,
			ImageURLs:  sm.ImageURLs,
			Timestamp:  sm.Timestamp,
		}
		for _, tc := range sm.ToolCalls {
			m.ToolCalls = append(m.ToolCalls, ToolCall{
				ID:        tc.ID,
				Name:      tc.Name,
				Arguments: tc.Arguments,
			})
		}
		if sm.Upload != nil {
			m.Upload = &Upload{
				Name:    sm.Upload.Name,
				MIME:    sm.Upload.MIME,
				DataURL: sm.Upload.DataURL,
				Text:    sm.Upload.Text,
			}
		}
		out = append(out, m)
	}
	return out
}
