package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"lrigschat/lrigschat/config"
	"lrigschat/lrigschat/services/mistral"
	"lrigschat/lrigschat/sources/session"
	"lrigschat/lrigschat/types"
	"lrigschat/lrigschat/utils/logging"
)

func setupChatTest(t *testing.T, handler http.HandlerFunc) (*ChatController, *session.Store) {
	t.Helper()
	logging.InitLogger(false) // ensures AppLogger isn't nil
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Config{DefaultModel: "mistral-small-latest", MaxImageSizeMB: 5}
	client, err := mistral.New("test-key", srv.URL, cfg.DefaultModel)
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}
	return NewChatController(client, cfg), session.NewStore()
}

func okProvider(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%q}}]}`, text)
	}
}

func TestSendAppendsBothMessagesInOrder(t *testing.T) {
	ctrl, store := setupChatTest(t, okProvider("Paris is the capital of France."))

	resp, err := ctrl.Send(context.Background(), store, types.ChatRequest{Content: "Capital of France?"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if resp.Message.Content != "Paris is the capital of France." {
		t.Errorf("unexpected assistant content %q", resp.Message.Content)
	}

	conv, _ := store.Active()
	if len(conv.Messages) != 2 {
		t.Fatalf("expected exactly 2 messages, got %d", len(conv.Messages))
	}
	if conv.Messages[0].Role != types.RoleUser || conv.Messages[0].Content != "Capital of France?" {
		t.Errorf("unexpected first message %+v", conv.Messages[0])
	}
	if conv.Messages[1].Role != types.RoleAssistant || conv.Messages[1].Content != "Paris is the capital of France." {
		t.Errorf("unexpected second message %+v", conv.Messages[1])
	}
	if conv.Title != "Capital of France?" {
		t.Errorf("title not derived from first user message: %q", conv.Title)
	}
}

func TestSendAuthErrorLeavesStoreUnchanged(t *testing.T) {
	ctrl, store := setupChatTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := ctrl.Send(context.Background(), store, types.ChatRequest{Content: "hello"})
	var authErr *mistral.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}

	conv, _ := store.Active()
	if len(conv.Messages) != 0 {
		t.Errorf("failed turn mutated the store: %d messages", len(conv.Messages))
	}
	if conv.Title != "" {
		t.Errorf("failed turn set a title: %q", conv.Title)
	}
}

func TestSendUnknownConversation(t *testing.T) {
	ctrl, store := setupChatTest(t, okProvider("hi"))
	_, err := ctrl.Send(context.Background(), store, types.ChatRequest{
		ConversationID: "no-such-id",
		Content:        "hello",
	})
	if !errors.Is(err, session.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSendEmptyContent(t *testing.T) {
	ctrl, store := setupChatTest(t, okProvider("hi"))
	_, err := ctrl.Send(context.Background(), store, types.ChatRequest{Content: "  "})
	if !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestSendRecoversFromEmptyStore(t *testing.T) {
	ctrl, store := setupChatTest(t, okProvider("welcome back"))
	// Simulate a stale UI: every conversation deleted.
	if err := store.Delete(store.ActiveID()); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	resp, err := ctrl.Send(context.Background(), store, types.ChatRequest{Content: "anyone there?"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("expected a fresh conversation, got %d", store.Len())
	}
	if store.ActiveID() != resp.ConversationID {
		t.Error("fresh conversation did not become active")
	}
}

func TestSendTargetsRequestedConversation(t *testing.T) {
	ctrl, store := setupChatTest(t, okProvider("sure"))
	first := store.ActiveID()
	store.Create() // active moves to a second conversation

	resp, err := ctrl.Send(context.Background(), store, types.ChatRequest{
		ConversationID: first,
		Content:        "back to the first thread",
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if resp.ConversationID != first {
		t.Errorf("expected turn in %s, got %s", first, resp.ConversationID)
	}
	conv, _ := store.Get(first)
	if len(conv.Messages) != 2 {
		t.Errorf("expected 2 messages in targeted conversation, got %d", len(conv.Messages))
	}
}

func TestSendStreamCommitsAfterCleanStream(t *testing.T) {
	ctrl, store := setupChatTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Paris is \"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"the capital.\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	var chunks []string
	resp, err := ctrl.SendStream(context.Background(), store, types.ChatRequest{Content: "Capital of France?"}, func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("SendStream failed: %v", err)
	}
	if len(chunks) != 2 {
		t.Errorf("expected 2 emitted chunks, got %d", len(chunks))
	}
	if resp.Message.Content != "Paris is the capital." {
		t.Errorf("unexpected assembled content %q", resp.Message.Content)
	}
	conv, _ := store.Active()
	if len(conv.Messages) != 2 {
		t.Errorf("expected committed exchange, got %d messages", len(conv.Messages))
	}
}

func TestSendStreamAuthErrorLeavesStoreUnchanged(t *testing.T) {
	ctrl, store := setupChatTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := ctrl.SendStream(context.Background(), store, types.ChatRequest{Content: "hello"}, func(string) error { return nil })
	var authErr *mistral.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	conv, _ := store.Active()
	if len(conv.Messages) != 0 {
		t.Errorf("failed stream mutated the store: %d messages", len(conv.Messages))
	}
}
