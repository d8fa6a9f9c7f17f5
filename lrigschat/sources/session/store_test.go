package session

import (
	"errors"
	"testing"

	"lrigschat/lrigschat/types"
)

func TestCreateYieldsDistinctIDs(t *testing.T) {
	store := NewStore()
	ids := map[string]bool{store.ActiveID(): true}
	for i := 0; i < 4; i++ {
		ids[store.Create()] = true
	}
	if len(ids) != 5 {
		t.Errorf("expected 5 distinct ids, got %d", len(ids))
	}
	if store.Len() != 5 {
		t.Errorf("expected 5 conversations, got %d", store.Len())
	}
}

func TestCreateBecomesActive(t *testing.T) {
	store := NewStore()
	id := store.Create()
	if store.ActiveID() != id {
		t.Errorf("expected new conversation %s to be active, got %s", id, store.ActiveID())
	}
}

func TestDeleteReassignsActive(t *testing.T) {
	store := NewStore()
	first := store.ActiveID()
	second := store.Create()
	third := store.Create()

	// Deleting the active conversation hands active to the most
	// recently created remaining one.
	if err := store.Delete(third); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if store.ActiveID() != second {
		t.Errorf("expected active %s after delete, got %s", second, store.ActiveID())
	}
	if store.Len() != 2 {
		t.Errorf("expected 2 conversations left, got %d", store.Len())
	}

	// Deleting a non-active conversation leaves active alone.
	if err := store.Delete(first); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if store.ActiveID() != second {
		t.Errorf("expected active to stay %s, got %s", second, store.ActiveID())
	}

	// Deleting the last one empties the store.
	if err := store.Delete(second); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if store.ActiveID() != "" {
		t.Errorf("expected no active conversation, got %s", store.ActiveID())
	}
	if _, ok := store.Active(); ok {
		t.Error("expected Active to report empty store")
	}
}

func TestDeleteNotFound(t *testing.T) {
	store := NewStore()
	if err := store.Delete("no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("store mutated by failed delete: %d conversations", store.Len())
	}
}

func TestAppendNotFoundDoesNotMutate(t *testing.T) {
	store := NewStore()
	err := store.Append("no-such-id", types.Message{Role: types.RoleUser, Content: "hi"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	conv, ok := store.Active()
	if !ok {
		t.Fatal("expected an active conversation")
	}
	if len(conv.Messages) != 0 {
		t.Errorf("failed append mutated the store: %d messages", len(conv.Messages))
	}
}

func TestSelectNotFoundKeepsActive(t *testing.T) {
	store := NewStore()
	active := store.ActiveID()
	if err := store.Select("no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if store.ActiveID() != active {
		t.Errorf("failed select changed active from %s to %s", active, store.ActiveID())
	}
}

func TestSelect(t *testing.T) {
	store := NewStore()
	first := store.ActiveID()
	store.Create()
	if err := store.Select(first); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if store.ActiveID() != first {
		t.Errorf("expected active %s, got %s", first, store.ActiveID())
	}
}

func TestTitleDerivation(t *testing.T) {
	store := NewStore()
	id := store.ActiveID()

	if err := store.Append(id, types.Message{Role: types.RoleUser, Content: "Hello there, how are you?"}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	conv, _ := store.Get(id)
	if conv.Title != "Hello there, how ar" {
		t.Errorf("expected truncated title %q, got %q", "Hello there, how ar", conv.Title)
	}

	// Subsequent messages never touch an already-set title.
	store.Append(id, types.Message{Role: types.RoleAssistant, Content: "I am fine, thanks!"})
	store.Append(id, types.Message{Role: types.RoleUser, Content: "A completely different topic"})
	conv, _ = store.Get(id)
	if conv.Title != "Hello there, how ar" {
		t.Errorf("title changed after later messages: %q", conv.Title)
	}
}

func TestTitleShortMessageKeptWhole(t *testing.T) {
	store := NewStore()
	id := store.ActiveID()
	store.Append(id, types.Message{Role: types.RoleUser, Content: "Hi!"})
	conv, _ := store.Get(id)
	if conv.Title != "Hi!" {
		t.Errorf("expected title %q, got %q", "Hi!", conv.Title)
	}
}

func TestTitleNotDerivedFromAssistant(t *testing.T) {
	store := NewStore()
	id := store.ActiveID()
	store.Append(id, types.Message{Role: types.RoleAssistant, Content: "Welcome aboard"})
	conv, _ := store.Get(id)
	if conv.Title != "" {
		t.Errorf("assistant message set a title: %q", conv.Title)
	}
}

func TestRename(t *testing.T) {
	store := NewStore()
	id := store.ActiveID()
	if err := store.Rename(id, "Autumn colors"); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	conv, _ := store.Get(id)
	if conv.Title != "Autumn colors" {
		t.Errorf("expected renamed title, got %q", conv.Title)
	}

	if err := store.Rename(id, "   "); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
	if err := store.Rename("no-such-id", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// A user-set title survives later user messages.
	store.Append(id, types.Message{Role: types.RoleUser, Content: "first message"})
	conv, _ = store.Get(id)
	if conv.Title != "Autumn colors" {
		t.Errorf("user-set title overwritten: %q", conv.Title)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	store := NewStore()
	id := store.ActiveID()
	store.Append(id, types.Message{Role: types.RoleUser, Content: "original"})

	conv, _ := store.Get(id)
	conv.Messages[0].Content = "tampered"
	conv.Title = "tampered"

	fresh, _ := store.Get(id)
	if fresh.Messages[0].Content != "original" {
		t.Error("snapshot mutation leaked into the store")
	}
}

func TestListOrderAndActiveFlag(t *testing.T) {
	store := NewStore()
	first := store.ActiveID()
	second := store.Create()

	list := store.List()
	if len(list.Conversations) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(list.Conversations))
	}
	if list.Conversations[0].ID != first || list.Conversations[1].ID != second {
		t.Error("summaries not in creation order")
	}
	if list.ActiveID != second || !list.Conversations[1].Active {
		t.Error("active flag not on the newest conversation")
	}
	if list.Conversations[0].Title != "New Chat" {
		t.Errorf("expected untitled conversation to display as New Chat, got %q", list.Conversations[0].Title)
	}
}

func TestReset(t *testing.T) {
	store := NewStore()
	store.Create()
	store.Create()
	store.Reset()
	if store.Len() != 1 {
		t.Errorf("expected 1 conversation after reset, got %d", store.Len())
	}
	if _, ok := store.Active(); !ok {
		t.Error("expected an active conversation after reset")
	}
}
