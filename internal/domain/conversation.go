// File: internal/domain/conversation.go
package domain

import "time"

// Conversation represents a single chat thread. It is created lazily on the
// first message of a thread and touched on every subsequent turn.
type Conversation struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
