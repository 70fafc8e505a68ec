// File: internal/services/task/errors.go
package task

import "errors"

var (
	ErrTitleRequired      = errors.New("title cannot be empty")
	ErrTitleTooLong       = errors.New("title must be 200 characters or less")
	ErrDescriptionTooLong = errors.New("description must be 1000 characters or less")
	ErrInvalidPriority    = errors.New("priority must be high, medium, or low")
	ErrTaskNotFound       = errors.New("task not found")
)
