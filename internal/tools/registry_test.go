// File: internal/tools/registry_test.go
package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"todochat-backend/internal/domain"
	taskrepo "todochat-backend/internal/repository/task"
)

func newTestRegistry(t *testing.T) (*Registry, taskrepo.TaskRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	repo := taskrepo.NewTaskRepository(db)
	return NewRegistry(repo), repo
}

// call dispatches one tool by name through the registry's bindings, the same
// handlers the stdio server registers.
func call(t *testing.T, reg *Registry, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	for _, b := range reg.bindings() {
		if b.tool.Name != name {
			continue
		}
		req := mcp.CallToolRequest{}
		req.Params.Name = name
		req.Params.Arguments = args
		result, err := b.handler(context.Background(), req)
		if err != nil {
			t.Fatalf("tool %s returned error: %v", name, err)
		}
		return result
	}
	t.Fatalf("unknown tool %q", name)
	return nil
}

func payload(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(textOf(t, result)), &m); err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	return m
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return tc.Text
}

func TestNamesCoversAllBindings(t *testing.T) {
	reg, _ := newTestRegistry(t)
	bindings := reg.bindings()
	names := Names()
	if len(bindings) != len(names) {
		t.Fatalf("bindings/names mismatch: %d vs %d", len(bindings), len(names))
	}
	for i, b := range bindings {
		if b.tool.Name != names[i] {
			t.Fatalf("binding %d is %q, want %q", i, b.tool.Name, names[i])
		}
	}
}

func TestAddTask(t *testing.T) {
	reg, repo := newTestRegistry(t)

	result := call(t, reg, ToolAddTask, map[string]any{
		"user_id": "user-1",
		"title":   "buy milk",
	})
	p := payload(t, result)
	if p["status"] != "created" || p["title"] != "buy milk" {
		t.Fatalf("unexpected payload: %v", p)
	}

	id := uint(p["task_id"].(float64))
	created, err := repo.FindByID(context.Background(), id, "user-1")
	if err != nil {
		t.Fatalf("task not persisted: %v", err)
	}
	if created.Priority != domain.PriorityMedium {
		t.Fatalf("expected default priority, got %q", created.Priority)
	}
}

func TestAddTaskMissingTitle(t *testing.T) {
	reg, _ := newTestRegistry(t)

	result := call(t, reg, ToolAddTask, map[string]any{"user_id": "user-1"})
	if !result.IsError {
		t.Fatal("expected error result for missing title")
	}
}

func TestListTasksStatusFilter(t *testing.T) {
	reg, repo := newTestRegistry(t)
	ctx := context.Background()

	if _, err := repo.Create(ctx, &domain.Task{UserID: "user-1", Title: "open one"}); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Create(ctx, &domain.Task{UserID: "user-1", Title: "done one", Completed: true}); err != nil {
		t.Fatal(err)
	}

	var items []map[string]any
	if err := json.Unmarshal([]byte(textOf(t, call(t, reg, ToolListTasks, map[string]any{
		"user_id": "user-1",
		"status":  "pending",
	}))), &items); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(items) != 1 || items[0]["title"] != "open one" {
		t.Fatalf("unexpected pending list: %v", items)
	}
}

func TestListTasksEmptyIsArray(t *testing.T) {
	reg, _ := newTestRegistry(t)

	text := textOf(t, call(t, reg, ToolListTasks, map[string]any{"user_id": "user-1"}))
	if text != "[]" {
		t.Fatalf("expected empty JSON array, got %q", text)
	}
}

func TestCompleteTaskIsNotAToggle(t *testing.T) {
	reg, repo := newTestRegistry(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Task{UserID: "user-1", Title: "finish"})
	if err != nil {
		t.Fatal(err)
	}

	args := map[string]any{"user_id": "user-1", "task_id": float64(created.ID)}
	for i := 0; i < 2; i++ {
		p := payload(t, call(t, reg, ToolCompleteTask, args))
		if p["status"] != "completed" {
			t.Fatalf("call %d: unexpected payload %v", i, p)
		}
	}

	after, err := repo.FindByID(ctx, created.ID, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if !after.Completed {
		t.Fatal("expected task to stay completed after repeated calls")
	}
}

func TestCompleteTaskNotFound(t *testing.T) {
	reg, _ := newTestRegistry(t)

	p := payload(t, call(t, reg, ToolCompleteTask, map[string]any{
		"user_id": "user-1",
		"task_id": float64(404),
	}))
	if p["error"] != "Task not found" {
		t.Fatalf("expected not-found payload, got %v", p)
	}
}

func TestDeleteTaskReportsTitle(t *testing.T) {
	reg, repo := newTestRegistry(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Task{UserID: "user-1", Title: "ephemeral"})
	if err != nil {
		t.Fatal(err)
	}

	p := payload(t, call(t, reg, ToolDeleteTask, map[string]any{
		"user_id": "user-1",
		"task_id": float64(created.ID),
	}))
	if p["status"] != "deleted" || p["title"] != "ephemeral" {
		t.Fatalf("unexpected payload: %v", p)
	}

	if _, err := repo.FindByID(ctx, created.ID, "user-1"); err == nil {
		t.Fatal("expected task to be gone")
	}
}

func TestDeleteTaskForeignUserNotFound(t *testing.T) {
	reg, repo := newTestRegistry(t)

	created, err := repo.Create(context.Background(), &domain.Task{UserID: "user-1", Title: "mine"})
	if err != nil {
		t.Fatal(err)
	}

	p := payload(t, call(t, reg, ToolDeleteTask, map[string]any{
		"user_id": "user-2",
		"task_id": float64(created.ID),
	}))
	if p["error"] != "Task not found" {
		t.Fatalf("expected not-found payload for foreign user, got %v", p)
	}
}

func TestUpdateTaskKeepsEmptyFields(t *testing.T) {
	reg, repo := newTestRegistry(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Task{UserID: "user-1", Title: "old", Description: "original"})
	if err != nil {
		t.Fatal(err)
	}

	p := payload(t, call(t, reg, ToolUpdateTask, map[string]any{
		"user_id": "user-1",
		"task_id": float64(created.ID),
		"title":   "new title",
	}))
	if p["status"] != "updated" || p["title"] != "new title" {
		t.Fatalf("unexpected payload: %v", p)
	}

	after, err := repo.FindByID(ctx, created.ID, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if after.Description != "original" {
		t.Fatalf("expected description untouched, got %q", after.Description)
	}
}
