// File: internal/repository/task/task_repository.go
package task

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"todochat-backend/internal/domain"
)

var ErrTaskNotFound = errors.New("task not found")

type gormTaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &gormTaskRepository{db: db}
}

func (r *gormTaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.UserID == "" {
		return nil, errors.New("task and user ID are required")
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}

	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		log.Printf("[TaskRepository] Database error creating task for user %s: %v", task.UserID, err)
		return nil, errors.New("database error creating task")
	}
	return task, nil
}

func (r *gormTaskRepository) FindByID(ctx context.Context, taskID uint, userID string) (*domain.Task, error) {
	if taskID == 0 || userID == "" {
		return nil, ErrTaskNotFound
	}

	var task domain.Task
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", taskID, userID).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		log.Printf("[TaskRepository] Database error finding task %d for user %s: %v", taskID, userID, err)
		return nil, errors.New("database error finding task")
	}
	return &task, nil
}

func (r *gormTaskRepository) FindByUserID(ctx context.Context, userID string, filter ListFilter) ([]domain.Task, error) {
	if userID == "" {
		return nil, errors.New("invalid user ID")
	}

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filter.Search != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}
	switch filter.Status {
	case "completed":
		query = query.Where("completed = ?", true)
	case "pending":
		query = query.Where("completed = ?", false)
	}
	if domain.ValidPriority(filter.Priority) {
		query = query.Where("priority = ?", filter.Priority)
	}

	query = query.Order(orderClause(filter.SortBy, filter.SortOrder))

	var tasks []domain.Task
	if err := query.Find(&tasks).Error; err != nil {
		log.Printf("[TaskRepository] Database error listing tasks for user %s: %v", userID, err)
		return nil, errors.New("database error listing tasks")
	}

	// Tags live in a JSON column, so membership is filtered here rather
	// than in SQL.
	if filter.Tag != "" {
		filtered := make([]domain.Task, 0, len(tasks))
		for _, t := range tasks {
			for _, tag := range t.Tags {
				if tag == filter.Tag {
					filtered = append(filtered, t)
					break
				}
			}
		}
		tasks = filtered
	}

	return tasks, nil
}

func (r *gormTaskRepository) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.ID == 0 || task.UserID == "" {
		return nil, errors.New("task ID and user ID are required")
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", task.ID, task.UserID).
		Select("Title", "Description", "Completed", "Priority", "Tags", "UpdatedAt").
		Updates(task)
	if result.Error != nil {
		log.Printf("[TaskRepository] Database error updating task %d for user %s: %v", task.ID, task.UserID, result.Error)
		return nil, errors.New("database error updating task")
	}
	if result.RowsAffected == 0 {
		return nil, ErrTaskNotFound
	}
	return r.FindByID(ctx, task.ID, task.UserID)
}

func (r *gormTaskRepository) Delete(ctx context.Context, taskID uint, userID string) error {
	if taskID == 0 || userID == "" {
		return ErrTaskNotFound
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", taskID, userID).
		Delete(&domain.Task{})
	if result.Error != nil {
		log.Printf("[TaskRepository] Database error deleting task %d for user %s: %v", taskID, userID, result.Error)
		return errors.New("database error deleting task")
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func orderClause(sortBy, sortOrder string) string {
	column := "created_at"
	switch sortBy {
	case "priority":
		column = "priority"
	case "title":
		column = "title"
	}
	direction := "DESC"
	if sortOrder == "asc" {
		direction = "ASC"
	}
	return column + " " + direction
}
