// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"todochat-backend/internal/domain"
)

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	if msg == nil || msg.UserID == "" || msg.ConversationID == 0 {
		return nil, errors.New("message, user ID and conversation ID are required")
	}
	if msg.Role != domain.RoleUser && msg.Role != domain.RoleAssistant {
		return nil, errors.New("invalid message role")
	}

	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		log.Printf("[MessageRepository] Database error creating message in conversation %d: %v", msg.ConversationID, err)
		return nil, errors.New("database error creating message")
	}
	return msg, nil
}

func (r *gormMessageRepository) FindByConversationID(ctx context.Context, conversationID uint) ([]domain.Message, error) {
	if conversationID == 0 {
		return nil, errors.New("invalid conversation ID")
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error loading messages for conversation %d: %v", conversationID, err)
		return nil, errors.New("database error loading messages")
	}
	return messages, nil
}
