// File: internal/tools/registry.go
package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	taskrepo "todochat-backend/internal/repository/task"
)

// The five operations advertised to the reasoning component. This set is the
// wire contract: renaming a tool or a required parameter changes model
// behavior.
const (
	ToolAddTask      = "add_task"
	ToolListTasks    = "list_tasks"
	ToolCompleteTask = "complete_task"
	ToolDeleteTask   = "delete_task"
	ToolUpdateTask   = "update_task"
)

// Names returns the closed set of tool names the registry serves.
func Names() []string {
	return []string{ToolAddTask, ToolListTasks, ToolCompleteTask, ToolDeleteTask, ToolUpdateTask}
}

// Registry binds each tool definition to a typed handler executing against
// the task repository. It runs inside the worker process, not the API server.
type Registry struct {
	tasks taskrepo.TaskRepository
}

func NewRegistry(tasks taskrepo.TaskRepository) *Registry {
	return &Registry{tasks: tasks}
}

type binding struct {
	tool    mcp.Tool
	handler server.ToolHandlerFunc
}

func (r *Registry) bindings() []binding {
	return []binding{
		{
			tool: mcp.NewTool(ToolAddTask,
				mcp.WithDescription("Create a new task for the user."),
				mcp.WithString("user_id", mcp.Required(), mcp.Description("The authenticated user's ID")),
				mcp.WithString("title", mcp.Required(), mcp.Description("The task title (required)")),
				mcp.WithString("description", mcp.Description("Optional task description")),
			),
			handler: r.handleAddTask,
		},
		{
			tool: mcp.NewTool(ToolListTasks,
				mcp.WithDescription("Retrieve tasks for the user, optionally filtered by status."),
				mcp.WithString("user_id", mcp.Required(), mcp.Description("The authenticated user's ID")),
				mcp.WithString("status",
					mcp.Description(`Filter by status - "all", "pending", or "completed" (default: "all")`),
					mcp.Enum("all", "pending", "completed"),
				),
			),
			handler: r.handleListTasks,
		},
		{
			tool: mcp.NewTool(ToolCompleteTask,
				mcp.WithDescription("Mark a task as complete."),
				mcp.WithString("user_id", mcp.Required(), mcp.Description("The authenticated user's ID")),
				mcp.WithNumber("task_id", mcp.Required(), mcp.Description("The ID of the task to complete")),
			),
			handler: r.handleCompleteTask,
		},
		{
			tool: mcp.NewTool(ToolDeleteTask,
				mcp.WithDescription("Delete a task from the list."),
				mcp.WithString("user_id", mcp.Required(), mcp.Description("The authenticated user's ID")),
				mcp.WithNumber("task_id", mcp.Required(), mcp.Description("The ID of the task to delete")),
			),
			handler: r.handleDeleteTask,
		},
		{
			tool: mcp.NewTool(ToolUpdateTask,
				mcp.WithDescription("Update a task's title or description."),
				mcp.WithString("user_id", mcp.Required(), mcp.Description("The authenticated user's ID")),
				mcp.WithNumber("task_id", mcp.Required(), mcp.Description("The ID of the task to update")),
				mcp.WithString("title", mcp.Description("New title for the task (leave empty to keep current)")),
				mcp.WithString("description", mcp.Description("New description for the task (leave empty to keep current)")),
			),
			handler: r.handleUpdateTask,
		},
	}
}

// Server assembles the MCP server served by cmd/toolworker over stdio.
func (r *Registry) Server() *server.MCPServer {
	s := server.NewMCPServer("todo-tools", "1.0.0", server.WithToolCapabilities(false))
	for _, b := range r.bindings() {
		s.AddTool(b.tool, b.handler)
	}
	return s
}
