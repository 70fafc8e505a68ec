// File: internal/tools/handlers.go
package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"todochat-backend/internal/domain"
	taskrepo "todochat-backend/internal/repository/task"
)

// Tool results are JSON text payloads. A missing task is reported through an
// "error" field in the payload, not as a protocol-level error, so the model
// can respond conversationally instead of aborting the turn.

func (r *Registry) handleAddTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	created, err := r.tasks.Create(ctx, &domain.Task{
		UserID:      userID,
		Title:       title,
		Description: req.GetString("description", ""),
		Priority:    domain.PriorityMedium,
		Tags:        []string{},
	})
	if err != nil {
		return nil, err
	}

	return jsonResult(map[string]any{
		"task_id": created.ID,
		"status":  "created",
		"title":   created.Title,
	})
}

func (r *Registry) handleListTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	filter := taskrepo.ListFilter{SortBy: "created_at", SortOrder: "asc"}
	switch req.GetString("status", "all") {
	case "pending":
		filter.Status = "pending"
	case "completed":
		filter.Status = "completed"
	}

	tasks, err := r.tasks.FindByUserID(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]map[string]any, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, map[string]any{
			"id":        t.ID,
			"title":     t.Title,
			"completed": t.Completed,
		})
	}
	return jsonResult(items)
}

func (r *Registry) handleCompleteTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, taskID, res, err := requireTaskRef(req)
	if res != nil || err != nil {
		return res, err
	}

	t, err := r.tasks.FindByID(ctx, taskID, userID)
	if errors.Is(err, taskrepo.ErrTaskNotFound) {
		return notFoundResult()
	}
	if err != nil {
		return nil, err
	}

	// Always sets completed, regardless of current state. The REST endpoint
	// toggles; this tool does not.
	t.Completed = true
	if _, err := r.tasks.Update(ctx, t); err != nil {
		return nil, err
	}

	return jsonResult(map[string]any{
		"task_id": t.ID,
		"status":  "completed",
		"title":   t.Title,
	})
}

func (r *Registry) handleDeleteTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, taskID, res, err := requireTaskRef(req)
	if res != nil || err != nil {
		return res, err
	}

	t, err := r.tasks.FindByID(ctx, taskID, userID)
	if errors.Is(err, taskrepo.ErrTaskNotFound) {
		return notFoundResult()
	}
	if err != nil {
		return nil, err
	}

	if err := r.tasks.Delete(ctx, taskID, userID); err != nil {
		if errors.Is(err, taskrepo.ErrTaskNotFound) {
			return notFoundResult()
		}
		return nil, err
	}

	return jsonResult(map[string]any{
		"task_id": taskID,
		"status":  "deleted",
		"title":   t.Title,
	})
}

func (r *Registry) handleUpdateTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, taskID, res, err := requireTaskRef(req)
	if res != nil || err != nil {
		return res, err
	}

	t, err := r.tasks.FindByID(ctx, taskID, userID)
	if errors.Is(err, taskrepo.ErrTaskNotFound) {
		return notFoundResult()
	}
	if err != nil {
		return nil, err
	}

	if title := req.GetString("title", ""); title != "" {
		t.Title = title
	}
	if description := req.GetString("description", ""); description != "" {
		t.Description = description
	}

	updated, err := r.tasks.Update(ctx, t)
	if err != nil {
		return nil, err
	}

	return jsonResult(map[string]any{
		"task_id": updated.ID,
		"status":  "updated",
		"title":   updated.Title,
	})
}

func requireTaskRef(req mcp.CallToolRequest) (string, uint, *mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return "", 0, mcp.NewToolResultError(err.Error()), nil
	}
	taskID, err := req.RequireInt("task_id")
	if err != nil {
		return "", 0, mcp.NewToolResultError(err.Error()), nil
	}
	return userID, uint(taskID), nil, nil
}

func notFoundResult() (*mcp.CallToolResult, error) {
	return jsonResult(map[string]any{"error": "Task not found"})
}

func jsonResult(payload any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}
