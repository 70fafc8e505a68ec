// File: internal/services/chat/service.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"todochat-backend/internal/domain"
	conversationrepo "todochat-backend/internal/repository/conversation"
	messagerepo "todochat-backend/internal/repository/message"
	"todochat-backend/internal/services/agent"
)

// Logger is the logging surface the chat service needs.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// AgentRunner executes one agent turn over the given history. Satisfied by
// *agent.Orchestrator.
type AgentRunner interface {
	Run(ctx context.Context, userID string, history []agent.ChatMessage) (*agent.Result, error)
}

// TurnResult is the outcome of one SendMessage call.
type TurnResult struct {
	ConversationID uint                   `json:"conversation_id"`
	Response       string                 `json:"response"`
	ToolCalls      []agent.ToolCallRecord `json:"tool_calls"`
}

// Service owns conversation threading and message persistence around the
// agent loop.
type Service struct {
	conversations conversationrepo.ConversationRepository
	messages      messagerepo.MessageRepository
	runner        AgentRunner
	logger        Logger
}

func NewService(conversations conversationrepo.ConversationRepository, messages messagerepo.MessageRepository, runner AgentRunner, logger Logger) *Service {
	return &Service{
		conversations: conversations,
		messages:      messages,
		runner:        runner,
		logger:        logger,
	}
}

// SendMessage runs one chat turn. The user message is persisted before the
// agent runs and stays persisted if the agent fails; the assistant message is
// only written on success. conversationID nil starts a new thread.
func (s *Service) SendMessage(ctx context.Context, userID string, conversationID *uint, text string) (*TurnResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	conv, err := s.resolveConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	history, err := s.messages.FindByConversationID(ctx, conv.ID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	if _, err := s.messages.Create(ctx, &domain.Message{
		UserID:         userID,
		ConversationID: conv.ID,
		Role:           domain.RoleUser,
		Content:        text,
	}); err != nil {
		return nil, fmt.Errorf("persisting user message: %w", err)
	}

	agentHistory := make([]agent.ChatMessage, 0, len(history)+1)
	for _, m := range history {
		agentHistory = append(agentHistory, agent.ChatMessage{Role: m.Role, Content: m.Content})
	}
	agentHistory = append(agentHistory, agent.ChatMessage{Role: domain.RoleUser, Content: text})

	result, err := s.runner.Run(ctx, userID, agentHistory)
	if err != nil {
		// The user message above is intentionally not rolled back; the
		// turn can be retried against the same thread.
		s.logger.Error("agent turn failed", "user_id", userID, "conversation_id", conv.ID, "error", err)
		return nil, fmt.Errorf("agent execution: %w", err)
	}

	if _, err := s.messages.Create(ctx, &domain.Message{
		UserID:         userID,
		ConversationID: conv.ID,
		Role:           domain.RoleAssistant,
		Content:        result.Response,
	}); err != nil {
		return nil, fmt.Errorf("persisting assistant message: %w", err)
	}

	if err := s.conversations.TouchUpdatedAt(ctx, conv.ID); err != nil {
		s.logger.Warn("conversation timestamp update failed", "conversation_id", conv.ID, "error", err)
	}

	s.logger.Info("chat turn completed", "user_id", userID, "conversation_id", conv.ID, "tool_calls", len(result.ToolCalls))
	return &TurnResult{
		ConversationID: conv.ID,
		Response:       result.Response,
		ToolCalls:      result.ToolCalls,
	}, nil
}

func (s *Service) resolveConversation(ctx context.Context, userID string, conversationID *uint) (*domain.Conversation, error) {
	if conversationID == nil {
		now := time.Now().UTC()
		conv, err := s.conversations.Create(ctx, &domain.Conversation{
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return nil, fmt.Errorf("creating conversation: %w", err)
		}
		return conv, nil
	}

	conv, err := s.conversations.FindByID(ctx, *conversationID)
	if err != nil {
		if errors.Is(err, conversationrepo.ErrConversationNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("loading conversation: %w", err)
	}
	if conv.UserID != userID {
		return nil, ErrAccessDenied
	}
	return conv, nil
}
