// File: internal/handlers/task_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	taskrepo "todochat-backend/internal/repository/task"
	tasksvc "todochat-backend/internal/services/task"
)

type TaskHandler struct {
	TaskService *tasksvc.Service
}

func NewTaskHandler(ts *tasksvc.Service) *TaskHandler {
	return &TaskHandler{TaskService: ts}
}

// CreateTask handles POST /api/{user_id}/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID := authorizedUser(w, r)
	if userID == "" {
		return
	}

	var in tasksvc.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.TaskService.Create(r.Context(), userID, in)
	if err != nil {
		writeTaskError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListTasks handles GET /api/{user_id}/tasks with optional filter and sort
// query parameters.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID := authorizedUser(w, r)
	if userID == "" {
		return
	}

	q := r.URL.Query()
	filter := taskrepo.ListFilter{
		Search:    q.Get("search"),
		Status:    q.Get("status"),
		Priority:  q.Get("priority"),
		Tag:       q.Get("tag"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	tasks, err := h.TaskService.List(r.Context(), userID, filter)
	if err != nil {
		writeError(w, "Could not retrieve tasks", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// GetTask handles GET /api/{user_id}/tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID := authorizedUser(w, r)
	if userID == "" {
		return
	}
	taskID, ok := pathTaskID(w, r)
	if !ok {
		return
	}

	t, err := h.TaskService.Get(r.Context(), userID, taskID)
	if err != nil {
		writeTaskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// UpdateTask handles PUT /api/{user_id}/tasks/{id}. Absent fields keep their
// current values.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID := authorizedUser(w, r)
	if userID == "" {
		return
	}
	taskID, ok := pathTaskID(w, r)
	if !ok {
		return
	}

	var in tasksvc.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.TaskService.Update(r.Context(), userID, taskID, in)
	if err != nil {
		writeTaskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTask handles DELETE /api/{user_id}/tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID := authorizedUser(w, r)
	if userID == "" {
		return
	}
	taskID, ok := pathTaskID(w, r)
	if !ok {
		return
	}

	if err := h.TaskService.Delete(r.Context(), userID, taskID); err != nil {
		writeTaskError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleComplete handles PATCH /api/{user_id}/tasks/{id}/complete. Unlike the
// chat tool of the same intent, this endpoint flips the flag both ways.
func (h *TaskHandler) ToggleComplete(w http.ResponseWriter, r *http.Request) {
	userID := authorizedUser(w, r)
	if userID == "" {
		return
	}
	taskID, ok := pathTaskID(w, r)
	if !ok {
		return
	}

	updated, err := h.TaskService.ToggleComplete(r.Context(), userID, taskID)
	if err != nil {
		writeTaskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func writeTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tasksvc.ErrTaskNotFound):
		writeError(w, "Task not found", http.StatusNotFound)
	case errors.Is(err, tasksvc.ErrTitleRequired),
		errors.Is(err, tasksvc.ErrTitleTooLong),
		errors.Is(err, tasksvc.ErrDescriptionTooLong),
		errors.Is(err, tasksvc.ErrInvalidPriority):
		writeError(w, err.Error(), http.StatusBadRequest)
	default:
		writeError(w, "Internal server error", http.StatusInternalServerError)
	}
}
