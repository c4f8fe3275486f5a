package storage

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *ConversationStore {
	t.Helper()
	store, err := NewConversationStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreStartsWithOneConversation(t *testing.T) {
	store := newTestStore(t)

	list, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("fresh store should hold one conversation, got %d", len(list))
	}
	if list[0].Title != DefaultTitle {
		t.Errorf("fresh conversation title = %q", list[0].Title)
	}

	current, err := store.LoadCurrent()
	if err != nil {
		t.Fatalf("LoadCurrent() error: %v", err)
	}
	if current.ID != list[0].ID {
		t.Errorf("current pointer %d does not match the only conversation %d", current.ID, list[0].ID)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	conv, err := store.LoadCurrent()
	if err != nil {
		t.Fatal(err)
	}

	conv.Title = "Weather chat"
	conv.Messages = []Message{
		{Role: "user", Content: "What's the weather?", Timestamp: time.Now().UTC()},
		{
			Role:      "assistant",
			Content:   "Sunny.",
			ImageURLs: []string{"https://pollinations.ai/prompt/sun"},
			Timestamp: time.Now().UTC(),
		},
	}
	if err := store.Save(conv); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := store.Load(conv.ID)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Title != "Weather chat" {
		t.Errorf("title = %q", loaded.Title)
	}
	if len(loaded.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(loaded.Messages))
	}
	if loaded.Messages[1].ImageURLs[0] != "https://pollinations.ai/prompt/sun" {
		t.Errorf("image urls not persisted: %v", loaded.Messages[1].ImageURLs)
	}
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	store := newTestStore(t)
	// Pin the clock so consecutive creates collide on the millisecond.
	at := time.Now()
	store.now = func() time.Time { return at }

	a, err := store.Create()
	if err != nil {
		t.Fatal(err)
	}
	b, err := store.Create()
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Errorf("colliding creation times produced duplicate id %d", a.ID)
	}
}

func TestDeleteLastConversationCreatesFresh(t *testing.T) {
	store := newTestStore(t)

	current, err := store.LoadCurrent()
	if err != nil {
		t.Fatal(err)
	}

	active, err := store.Delete(current.ID)
	if err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if active == nil {
		t.Fatal("deleting the last conversation must yield a fresh active one")
	}
	if active.ID == current.ID {
		t.Error("fresh conversation reused the deleted id")
	}
	if len(active.Messages) != 0 {
		t.Errorf("fresh conversation is not empty: %d messages", len(active.Messages))
	}

	list, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("store should never be empty, got %d conversations", len(list))
	}
}

func TestDeleteNonCurrentKeepsPointer(t *testing.T) {
	store := newTestStore(t)
	store.now = func() time.Time { return time.Now() }

	current, err := store.LoadCurrent()
	if err != nil {
		t.Fatal(err)
	}
	other, err := store.Create()
	if err != nil {
		t.Fatal(err)
	}

	active, err := store.Delete(other.ID)
	if err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if active != nil {
		t.Errorf("deleting a non-current conversation should not switch, got %d", active.ID)
	}

	id, err := store.CurrentID()
	if err != nil {
		t.Fatal(err)
	}
	if id != current.ID {
		t.Errorf("current pointer moved from %d to %d", current.ID, id)
	}
}

func TestRenamePinsCustomTitle(t *testing.T) {
	store := newTestStore(t)

	conv, err := store.LoadCurrent()
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Rename(conv.ID, "My research", true); err != nil {
		t.Fatalf("Rename() error: %v", err)
	}

	loaded, err := store.Load(conv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Title != "My research" {
		t.Errorf("title = %q", loaded.Title)
	}
	if !loaded.TitleCustom {
		t.Error("user rename should set the custom flag")
	}
}

func TestRenameMissingConversation(t *testing.T) {
	store := newTestStore(t)

	if err := store.Rename(12345, "ghost", true); err == nil {
		t.Error("expected error renaming a missing conversation")
	}
}

func TestCurrentIDRecoversFromStalePointer(t *testing.T) {
	store := newTestStore(t)

	if err := store.SetCurrentID(999999); err != nil {
		t.Fatal(err)
	}

	id, err := store.CurrentID()
	if err != nil {
		t.Fatalf("CurrentID() error: %v", err)
	}
	list, _ := store.List()
	if id != list[0].ID {
		t.Errorf("stale pointer should fall back to an existing conversation, got %d", id)
	}
}
