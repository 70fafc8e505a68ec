// File: internal/repository/conversation/conversation_repository.go
package conversation

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"todochat-backend/internal/domain"
)

var ErrConversationNotFound = errors.New("conversation not found")

type gormConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &gormConversationRepository{db: db}
}

func (r *gormConversationRepository) Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	if conv == nil || conv.UserID == "" {
		return nil, errors.New("conversation and user ID are required")
	}

	if err := r.db.WithContext(ctx).Create(conv).Error; err != nil {
		log.Printf("[ConversationRepository] Database error creating conversation for user %s: %v", conv.UserID, err)
		return nil, errors.New("database error creating conversation")
	}
	return conv, nil
}

func (r *gormConversationRepository) FindByID(ctx context.Context, conversationID uint) (*domain.Conversation, error) {
	if conversationID == 0 {
		return nil, ErrConversationNotFound
	}

	var conv domain.Conversation
	err := r.db.WithContext(ctx).First(&conv, conversationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		log.Printf("[ConversationRepository] Database error finding conversation %d: %v", conversationID, err)
		return nil, errors.New("database error finding conversation")
	}
	return &conv, nil
}

func (r *gormConversationRepository) TouchUpdatedAt(ctx context.Context, conversationID uint) error {
	if conversationID == 0 {
		return ErrConversationNotFound
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", conversationID).
		Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP"))
	if result.Error != nil {
		log.Printf("[ConversationRepository] Database error touching conversation %d: %v", conversationID, result.Error)
		return errors.New("database error updating conversation timestamp")
	}
	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}
