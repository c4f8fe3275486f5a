package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Message is the persisted form of a conversation entry.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	Kind       int        `json:"kind,omitempty"`
	StatusID   string     `json:"status_id,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ImageURLs  []string   `json:"image_urls,omitempty"`
	Upload     *Upload    `json:"upload,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type Upload struct {
	Name    string `json:"name"`
	MIME    string `json:"mime"`
	DataURL string `json:"data_url,omitempty"`
	Text    string `json:"text,omitempty"`
}

// Conversation is one chat thread. The ID is the creation time in epoch
// milliseconds and is unique across the store.
type Conversation struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	TitleCustom bool      `json:"title_custom"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Messages    []Message `json:"messages"`
}

// ConversationMetadata is the lightweight listing form.
type ConversationMetadata struct {
	ID           int64
	Title        string
	TitleCustom  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	MessageCount int
}

const DefaultTitle = "New Chat"

// ConversationStore persists conversations and the current-conversation
// pointer in SQLite. The store guarantees at least one conversation exists at
// all times.
type ConversationStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewConversationStore(dataDir string) (*ConversationStore, error) {
	dbPath := filepath.Join(dataDir, "chats.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &ConversationStore{db: db, now: time.Now}

	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

func (s *ConversationStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		title_custom INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		messages TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_conversations_updated ON conversations(updated_at);
	CREATE TABLE IF NOT EXISTS app_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// The store never presents an empty list: a fresh database starts with
	// one empty conversation which is also the current one.
	count, err := s.count()
	if err != nil {
		return err
	}
	if count == 0 {
		conv, err := s.Create()
		if err != nil {
			return err
		}
		return s.SetCurrentID(conv.ID)
	}
	return nil
}

func (s *ConversationStore) Close() error {
	return s.db.Close()
}

func (s *ConversationStore) count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM conversations`).Scan(&n)
	return n, err
}

// Create inserts a fresh empty conversation. The id is the creation time in
// epoch milliseconds, bumped forward on collision so ids stay unique.
func (s *ConversationStore) Create() (*Conversation, error) {
	now := s.now()
	id := now.UnixMilli()
	for {
		var exists int
		err := s.db.QueryRow(`SELECT COUNT(*) FROM conversations WHERE id = ?`, id).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to check id: %w", err)
		}
		if exists == 0 {
			break
		}
		id++
	}

	conv := &Conversation{
		ID:        id,
		Title:     DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []Message{},
	}

	if err := s.insert(conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ConversationStore) insert(conv *Conversation) error {
	data, err := json.Marshal(conv.Messages)
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO conversations (id, title, title_custom, created_at, updated_at, messages) VALUES (?, ?, ?, ?, ?, ?)`,
		conv.ID, conv.Title, boolToInt(conv.TitleCustom), conv.CreatedAt, conv.UpdatedAt, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to insert conversation: %w", err)
	}
	return nil
}

// Save writes the conversation back, refreshing UpdatedAt.
func (s *ConversationStore) Save(conv *Conversation) error {
	conv.UpdatedAt = s.now()

	data, err := json.Marshal(conv.Messages)
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}

	res, err := s.db.Exec(
		`UPDATE conversations SET title = ?, title_custom = ?, updated_at = ?, messages = ? WHERE id = ?`,
		conv.Title, boolToInt(conv.TitleCustom), conv.UpdatedAt, string(data), conv.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update conversation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return s.insert(conv)
	}
	return nil
}

func (s *ConversationStore) Load(id int64) (*Conversation, error) {
	conv := &Conversation{}
	var custom int
	var data string

	err := s.db.QueryRow(
		`SELECT id, title, title_custom, created_at, updated_at, messages FROM conversations WHERE id = ?`, id,
	).Scan(&conv.ID, &conv.Title, &custom, &conv.CreatedAt, &conv.UpdatedAt, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("conversation %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	conv.TitleCustom = custom != 0
	if err := json.Unmarshal([]byte(data), &conv.Messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}
	return conv, nil
}

// List returns metadata for all conversations, newest activity first.
func (s *ConversationStore) List() ([]ConversationMetadata, error) {
	rows, err := s.db.Query(
		`SELECT id, title, title_custom, created_at, updated_at, messages FROM conversations ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var list []ConversationMetadata
	for rows.Next() {
		var meta ConversationMetadata
		var custom int
		var data string
		if err := rows.Scan(&meta.ID, &meta.Title, &custom, &meta.CreatedAt, &meta.UpdatedAt, &data); err != nil {
			return nil, err
		}
		meta.TitleCustom = custom != 0
		var msgs []Message
		if err := json.Unmarshal([]byte(data), &msgs); err == nil {
			meta.MessageCount = len(msgs)
		}
		list = append(list, meta)
	}
	return list, rows.Err()
}

// Delete removes a conversation. If it was the last one, a fresh empty
// conversation is created so the store is never empty. If the deleted
// conversation was current, the pointer moves to the most recently updated
// remaining conversation. Returns the conversation that should be active
// afterwards, or nil when the current one was untouched.
func (s *ConversationStore) Delete(id int64) (*Conversation, error) {
	currentID, err := s.CurrentID()
	if err != nil {
		return nil, err
	}

	if _, err := s.db.Exec(`DELETE FROM conversations WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to delete conversation: %w", err)
	}

	count, err := s.count()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		fresh, err := s.Create()
		if err != nil {
			return nil, err
		}
		if err := s.SetCurrentID(fresh.ID); err != nil {
			return nil, err
		}
		return fresh, nil
	}

	if id != currentID {
		return nil, nil
	}

	list, err := s.List()
	if err != nil {
		return nil, err
	}
	next, err := s.Load(list[0].ID)
	if err != nil {
		return nil, err
	}
	if err := s.SetCurrentID(next.ID); err != nil {
		return nil, err
	}
	return next, nil
}

// Rename sets the title. User-initiated renames pass custom=true, which
// disables the automatic title passes for good.
func (s *ConversationStore) Rename(id int64, title string, custom bool) error {
	res, err := s.db.Exec(
		`UPDATE conversations SET title = ?, title_custom = ? WHERE id = ?`,
		title, boolToInt(custom), id,
	)
	if err != nil {
		return fmt.Errorf("failed to rename conversation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("conversation %d not found", id)
	}
	return nil
}

func (s *ConversationStore) SetCurrentID(id int64) error {
	_, err := s.db.Exec(
		`INSERT INTO app_state (key, value) VALUES ('current_conversation', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		fmt.Sprintf("%d", id),
	)
	if err != nil {
		return fmt.Errorf("failed to set current conversation: %w", err)
	}
	return nil
}

// CurrentID returns the active conversation id, falling back to the most
// recently updated conversation when the pointer is missing or stale.
func (s *ConversationStore) CurrentID() (int64, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM app_state WHERE key = 'current_conversation'`).Scan(&value)
	if err == nil {
		var id int64
		if _, scanErr := fmt.Sscanf(strings.TrimSpace(value), "%d", &id); scanErr == nil {
			var exists int
			if err := s.db.QueryRow(`SELECT COUNT(*) FROM conversations WHERE id = ?`, id).Scan(&exists); err == nil && exists > 0 {
				return id, nil
			}
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to read current conversation: %w", err)
	}

	list, err := s.List()
	if err != nil {
		return 0, err
	}
	if len(list) == 0 {
		return 0, errors.New("no conversations in store")
	}
	if err := s.SetCurrentID(list[0].ID); err != nil {
		return 0, err
	}
	return list[0].ID, nil
}

// LoadCurrent loads the active conversation.
func (s *ConversationStore) LoadCurrent() (*Conversation, error) {
	id, err := s.CurrentID()
	if err != nil {
		return nil, err
	}
	return s.Load(id)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
