// File: internal/services/task/service.go
package task

import (
	"context"
	"errors"
	"strings"
	"time"

	"todochat-backend/internal/domain"
	taskrepo "todochat-backend/internal/repository/task"
)

// Logger is the logging surface this service needs.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// CreateInput carries the user-supplied fields for a new task.
type CreateInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Completed   bool     `json:"completed"`
	Priority    string   `json:"priority"`
	Tags        []string `json:"tags"`
}

// UpdateInput carries a partial update; nil fields are left untouched.
type UpdateInput struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Completed   *bool     `json:"completed"`
	Priority    *string   `json:"priority"`
	Tags        *[]string `json:"tags"`
}

// Service validates and executes task operations against the repository.
type Service struct {
	repo   taskrepo.TaskRepository
	logger Logger
}

func NewService(repo taskrepo.TaskRepository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if len(title) > domain.MaxTitleLength {
		return nil, ErrTitleTooLong
	}
	if len(in.Description) > domain.MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}

	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, ErrInvalidPriority
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	created, err := s.repo.Create(ctx, &domain.Task{
		UserID:      userID,
		Title:       title,
		Description: in.Description,
		Completed:   in.Completed,
		Priority:    priority,
		Tags:        tags,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("task created", "user_id", userID, "task_id", created.ID)
	return created, nil
}

func (s *Service) List(ctx context.Context, userID string, filter taskrepo.ListFilter) ([]domain.Task, error) {
	tasks, err := s.repo.FindByUserID(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

func (s *Service) Get(ctx context.Context, userID string, taskID uint) (*domain.Task, error) {
	t, err := s.repo.FindByID(ctx, taskID, userID)
	if errors.Is(err, taskrepo.ErrTaskNotFound) {
		return nil, ErrTaskNotFound
	}
	return t, err
}

func (s *Service) Update(ctx context.Context, userID string, taskID uint, in UpdateInput) (*domain.Task, error) {
	t, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		if len(title) > domain.MaxTitleLength {
			return nil, ErrTitleTooLong
		}
		t.Title = title
	}
	if in.Description != nil {
		if len(*in.Description) > domain.MaxDescriptionLength {
			return nil, ErrDescriptionTooLong
		}
		t.Description = *in.Description
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	if in.Priority != nil {
		if !domain.ValidPriority(*in.Priority) {
			return nil, ErrInvalidPriority
		}
		t.Priority = *in.Priority
	}
	if in.Tags != nil {
		t.Tags = *in.Tags
	}
	t.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, t)
	if errors.Is(err, taskrepo.ErrTaskNotFound) {
		return nil, ErrTaskNotFound
	}
	return updated, err
}

func (s *Service) Delete(ctx context.Context, userID string, taskID uint) error {
	err := s.repo.Delete(ctx, taskID, userID)
	if errors.Is(err, taskrepo.ErrTaskNotFound) {
		return ErrTaskNotFound
	}
	if err == nil {
		s.logger.Info("task deleted", "user_id", userID, "task_id", taskID)
	}
	return err
}

// ToggleComplete flips the completion flag. The chat tool complete_task is
// not a toggle: it always sets completed=true via the worker.
func (s *Service) ToggleComplete(ctx context.Context, userID string, taskID uint) (*domain.Task, error) {
	t, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	t.Completed = !t.Completed
	t.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, t)
	if errors.Is(err, taskrepo.ErrTaskNotFound) {
		return nil, ErrTaskNotFound
	}
	return updated, err
}
