// File: internal/repository/task/interface.go
package task

import (
	"context"

	"todochat-backend/internal/domain"
)

// ListFilter narrows and orders the tasks returned by FindByUserID.
// Zero values mean "no constraint".
type ListFilter struct {
	Search    string // substring match on title or description
	Status    string // "pending" or "completed"
	Priority  string // "high", "medium" or "low"
	Tag       string // exact tag membership
	SortBy    string // "created_at" (default), "priority" or "title"
	SortOrder string // "asc" or "desc" (default)
}

// TaskRepository provides authorization-scoped persistence for tasks. Every
// lookup and mutation is constrained by the owning user's ID.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, taskID uint, userID string) (*domain.Task, error)
	FindByUserID(ctx context.Context, userID string, filter ListFilter) ([]domain.Task, error)
	Update(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Delete(ctx context.Context, taskID uint, userID string) error
}
