// File: internal/domain/task.go
package domain

import "time"

// Priority levels a task can carry.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// ValidPriority reports whether p is one of the known priority levels.
func ValidPriority(p string) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Limits enforced on user-supplied task fields.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)

// Task is a single todo item owned by exactly one user. Tags are stored as a
// JSON array column; ordering within the array carries no meaning.
type Task struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	UserID      string    `json:"user_id" gorm:"index;not null"`
	Title       string    `json:"title" gorm:"size:200;not null"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed" gorm:"not null;default:false"`
	Priority    string    `json:"priority" gorm:"size:16;not null;default:medium"`
	Tags        []string  `json:"tags" gorm:"serializer:json"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
