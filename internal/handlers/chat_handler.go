// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"todochat-backend/internal/services/agent"
	chatsvc "todochat-backend/internal/services/chat"
)

type ChatHandler struct {
	ChatService *chatsvc.Service
}

func NewChatHandler(cs *chatsvc.Service) *ChatHandler {
	return &ChatHandler{ChatService: cs}
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID *uint  `json:"conversation_id"`
}

// HandleChatMessage handles POST /api/{user_id}/chat: one natural-language
// turn against the user's todo list.
func (h *ChatHandler) HandleChatMessage(w http.ResponseWriter, r *http.Request) {
	userID := authorizedUser(w, r)
	if userID == "" {
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.ChatService.SendMessage(r.Context(), userID, req.ConversationID, req.Message)
	if err != nil {
		writeChatError(w, err)
		return
	}

	// ToolCalls is always a JSON array, never null.
	if result.ToolCalls == nil {
		result.ToolCalls = []agent.ToolCallRecord{}
	}
	writeJSON(w, http.StatusOK, result)
}

func writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatsvc.ErrEmptyMessage):
		writeError(w, "Message is required", http.StatusBadRequest)
	case errors.Is(err, chatsvc.ErrConversationNotFound):
		writeError(w, "Conversation not found", http.StatusNotFound)
	case errors.Is(err, chatsvc.ErrAccessDenied):
		writeError(w, "Access denied", http.StatusForbidden)
	default:
		writeError(w, "Failed to process message: "+err.Error(), http.StatusInternalServerError)
	}
}
