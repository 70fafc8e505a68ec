// File: internal/services/agent/channel.go
package agent

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

// ToolChannel is the process boundary between the orchestrator and tool
// execution. One call in, at most one response out; no automatic retries.
type ToolChannel interface {
	// Start launches the worker and fails if it is not reachable within
	// the startup window.
	Start(ctx context.Context) error
	// Tools returns the manifest advertised by the worker.
	Tools() []mcp.Tool
	// Invoke sends one tool call and waits for its response. Transport
	// failures surface as *ToolFault.
	Invoke(ctx context.Context, name string, args map[string]any) (string, error)
	// Stop tears the worker down. Safe to call more than once.
	Stop() error
}

// ChannelFactory builds a fresh channel per chat turn; the worker's lifetime
// is scoped to a single orchestrator run.
type ChannelFactory func() ToolChannel

// StdioChannel runs the tool worker as a subprocess and speaks MCP over its
// stdin/stdout. The worker has no network exposure.
type StdioChannel struct {
	command        string
	args           []string
	dir            string
	toolTimeout    time.Duration
	startupTimeout time.Duration

	mu      sync.Mutex
	client  *client.Client
	proc    *exec.Cmd
	tools   []mcp.Tool
	stopped bool
}

func NewStdioChannel(command string, args []string, dir string, toolTimeout, startupTimeout time.Duration) *StdioChannel {
	return &StdioChannel{
		command:        command,
		args:           args,
		dir:            dir,
		toolTimeout:    toolTimeout,
		startupTimeout: startupTimeout,
	}
}

func (c *StdioChannel) Start(ctx context.Context) error {
	var captured *exec.Cmd
	cmdFunc := func(ctx context.Context, command string, env []string, args []string) (*exec.Cmd, error) {
		cmd := exec.CommandContext(ctx, command, args...)
		cmd.Env = env
		cmd.Dir = c.dir
		captured = cmd
		return cmd, nil
	}

	mcpClient, err := client.NewStdioMCPClientWithOptions(
		c.command,
		os.Environ(),
		c.args,
		transport.WithCommandFunc(cmdFunc),
	)
	if err != nil {
		return &StartupError{Cause: err}
	}

	startCtx, cancel := context.WithTimeout(ctx, c.startupTimeout)
	defer cancel()

	initReq := mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "todochat-backend",
				Version: "1.0.0",
			},
		},
	}
	if _, err := mcpClient.Initialize(startCtx, initReq); err != nil {
		mcpClient.Close()
		return &StartupError{Cause: err}
	}

	toolsResult, err := mcpClient.ListTools(startCtx, mcp.ListToolsRequest{})
	if err != nil {
		mcpClient.Close()
		return &StartupError{Cause: err}
	}

	c.mu.Lock()
	c.client = mcpClient
	c.proc = captured
	c.tools = toolsResult.Tools
	c.mu.Unlock()
	return nil
}

func (c *StdioChannel) Tools() []mcp.Tool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tools
}

func (c *StdioChannel) Invoke(ctx context.Context, name string, args map[string]any) (string, error) {
	c.mu.Lock()
	mcpClient := c.client
	c.mu.Unlock()
	if mcpClient == nil {
		return "", &ToolFault{Tool: name, Message: "channel not started"}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.toolTimeout)
	defer cancel()

	result, err := mcpClient.CallTool(callCtx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	})
	if err != nil {
		return "", &ToolFault{Tool: name, Message: "call failed", Cause: err}
	}

	text := textContent(result)
	if text == "" {
		return "", &ToolFault{Tool: name, Message: "worker returned no text content"}
	}
	return text, nil
}

// Stop closes the MCP client and kills the subprocess if the close hangs.
// Idempotent: the orchestrator defers it on every exit path.
func (c *StdioChannel) Stop() error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return nil
	}
	c.stopped = true
	mcpClient := c.client
	proc := c.proc
	c.client = nil
	c.mu.Unlock()

	if mcpClient == nil {
		return nil
	}

	closeDone := make(chan error, 1)
	go func() {
		closeDone <- mcpClient.Close()
	}()

	var closeErr error
	select {
	case closeErr = <-closeDone:
	case <-time.After(2 * time.Second):
		if proc != nil && proc.Process != nil {
			_ = proc.Process.Kill()
		}
	}
	return closeErr
}

func textContent(result *mcp.CallToolResult) string {
	var b strings.Builder
	for _, content := range result.Content {
		if tc, ok := content.(mcp.TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}
