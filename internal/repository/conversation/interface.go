// File: internal/repository/conversation/interface.go
package conversation

import (
	"context"

	"todochat-backend/internal/domain"
)

// ConversationRepository persists chat threads. Ownership checks happen at
// the service layer, which needs to distinguish "absent" from "foreign".
type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error)
	FindByID(ctx context.Context, conversationID uint) (*domain.Conversation, error)
	TouchUpdatedAt(ctx context.Context, conversationID uint) error
}
