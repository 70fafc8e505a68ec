// File: internal/handlers/chat_handler_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"todochat-backend/internal/domain"
	conversationrepo "todochat-backend/internal/repository/conversation"
	messagerepo "todochat-backend/internal/repository/message"
	"todochat-backend/internal/services"
	"todochat-backend/internal/services/agent"
	chatsvc "todochat-backend/internal/services/chat"
)

type stubRunner struct {
	result *agent.Result
	err    error
}

func (s *stubRunner) Run(ctx context.Context, userID string, history []agent.ChatMessage) (*agent.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newChatRouter(t *testing.T, userID string, runner chatsvc.AgentRunner) (http.Handler, conversationrepo.ConversationRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	if err := db.AutoMigrate(&domain.Conversation{}, &domain.Message{}); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}

	conversations := conversationrepo.NewConversationRepository(db)
	messages := messagerepo.NewMessageRepository(db)
	h := NewChatHandler(chatsvc.NewService(conversations, messages, runner, &services.NoOpLogger{}))

	r := mux.NewRouter()
	r.HandleFunc("/api/{user_id}/chat", h.HandleChatMessage).Methods("POST")
	return withUser(userID, r), conversations
}

func postChat(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encoding body: %v", err)
	}
	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestChatTurnResponseShape(t *testing.T) {
	runner := &stubRunner{result: &agent.Result{
		Response: "Added 'buy milk' (task 1).",
		ToolCalls: []agent.ToolCallRecord{{
			Tool:   "add_task",
			Input:  map[string]any{"user_id": "user-1", "title": "buy milk"},
			Output: map[string]any{"task_id": float64(1), "status": "created", "title": "buy milk"},
		}},
	}}
	router, _ := newChatRouter(t, "user-1", runner)

	rec := postChat(t, router, "/api/user-1/chat", map[string]any{"message": "add buy milk"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var body struct {
		ConversationID uint             `json:"conversation_id"`
		Response       string           `json:"response"`
		ToolCalls      []map[string]any `json:"tool_calls"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.ConversationID == 0 {
		t.Fatal("expected a conversation ID")
	}
	if body.Response != "Added 'buy milk' (task 1)." {
		t.Fatalf("unexpected response %q", body.Response)
	}
	if len(body.ToolCalls) != 1 || body.ToolCalls[0]["tool"] != "add_task" {
		t.Fatalf("unexpected tool calls: %v", body.ToolCalls)
	}
}

func TestChatToolCallsNeverNull(t *testing.T) {
	runner := &stubRunner{result: &agent.Result{Response: "Hello!"}}
	router, _ := newChatRouter(t, "user-1", runner)

	rec := postChat(t, router, "/api/user-1/chat", map[string]any{"message": "hi"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"tool_calls":[]`)) {
		t.Fatalf("expected tool_calls as empty array, got %s", rec.Body.String())
	}
}

func TestChatEmptyMessage(t *testing.T) {
	router, _ := newChatRouter(t, "user-1", &stubRunner{result: &agent.Result{Response: "unused"}})

	rec := postChat(t, router, "/api/user-1/chat", map[string]any{"message": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestChatConversationErrors(t *testing.T) {
	router, conversations := newChatRouter(t, "user-1", &stubRunner{result: &agent.Result{Response: "unused"}})

	rec := postChat(t, router, "/api/user-1/chat", map[string]any{
		"message":         "hello",
		"conversation_id": 404,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown conversation, got %d", rec.Code)
	}

	foreign, err := conversations.Create(context.Background(), &domain.Conversation{UserID: "user-2"})
	if err != nil {
		t.Fatalf("Create conversation: %v", err)
	}
	rec = postChat(t, router, "/api/user-1/chat", map[string]any{
		"message":         "hello",
		"conversation_id": foreign.ID,
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign conversation, got %d", rec.Code)
	}
}

func TestChatAgentFailure(t *testing.T) {
	runner := &stubRunner{err: fmt.Errorf("model turn failed: connection refused")}
	router, _ := newChatRouter(t, "user-1", runner)

	rec := postChat(t, router, "/api/user-1/chat", map[string]any{"message": "do it"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("Failed to process message")) {
		t.Fatalf("unexpected error body: %s", rec.Body.String())
	}
}

func TestChatPathUserMismatch(t *testing.T) {
	router, _ := newChatRouter(t, "user-1", &stubRunner{result: &agent.Result{Response: "unused"}})

	rec := postChat(t, router, "/api/user-2/chat", map[string]any{"message": "hello"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
