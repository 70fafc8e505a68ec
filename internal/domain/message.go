// File: internal/domain/message.go
package domain

import "time"

// Message roles within a conversation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single utterance within a conversation. Messages are immutable
// once written; history is reconstructed by ordering on CreatedAt ascending.
type Message struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	UserID         string    `json:"user_id" gorm:"index;not null"`
	ConversationID uint      `json:"conversation_id" gorm:"index;not null"`
	Role           string    `json:"role" gorm:"not null"`
	Content        string    `json:"content" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
}
