// File: internal/repository/message/interface.go
package message

import (
	"context"

	"todochat-backend/internal/domain"
)

// MessageRepository persists conversation messages. Messages are append-only;
// FindByConversationID returns them ordered oldest first.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	FindByConversationID(ctx context.Context, conversationID uint) ([]domain.Message, error)
}
