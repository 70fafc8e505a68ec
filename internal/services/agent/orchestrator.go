// File: internal/services/agent/orchestrator.go
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mark3labs/mcp-go/mcp"
)

// Logger is the logging surface the orchestrator needs.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// ChatMessage is one entry of the conversation history handed to Run.
type ChatMessage struct {
	Role    string
	Content string
}

// ToolCallRecord traces one tool invocation within a turn. Input and Output
// hold parsed JSON when the payload parses, and the raw text verbatim when it
// does not; a parse failure is a representation choice, never a turn failure.
type ToolCallRecord struct {
	Tool   string `json:"tool"`
	Input  any    `json:"input"`
	Output any    `json:"output"`
}

// Result is the outcome of one orchestrator run. Response is the final
// natural-language reply ("" when the model produced no text); ToolCalls
// preserves the order in which the model issued its requests.
type Result struct {
	Response  string           `json:"response"`
	ToolCalls []ToolCallRecord `json:"tool_calls"`
}

// CompletionClient is the slice of the OpenAI client the orchestrator uses;
// *openai.Client satisfies it.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Orchestrator drives the reasoning component through a bounded
// tool-call/tool-result loop over an isolated tool worker.
type Orchestrator struct {
	config  *Config
	client  CompletionClient
	channel ChannelFactory
	logger  Logger
}

func NewOrchestrator(config *Config, client CompletionClient, channel ChannelFactory, logger Logger) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("completion client is required")
	}
	if channel == nil {
		return nil, fmt.Errorf("channel factory is required")
	}
	return &Orchestrator{config: config, client: client, channel: channel, logger: logger}, nil
}

// Run executes one chat turn: instructions + history in, final text plus an
// ordered tool-call trace out. Any channel fault or model failure aborts the
// whole turn; the worker is torn down on every exit path.
func (o *Orchestrator) Run(ctx context.Context, userID string, history []ChatMessage) (*Result, error) {
	if o.config.APIKey == "" {
		return nil, &ConfigurationError{Reason: "OPENAI_API_KEY is not set"}
	}

	ch := o.channel()
	if err := ch.Start(ctx); err != nil {
		return nil, err
	}
	defer func() {
		if err := ch.Stop(); err != nil {
			o.logger.Warn("tool worker shutdown", "error", err)
		}
	}()

	manifest := ch.Tools()
	known := make(map[string]bool, len(manifest))
	for _, t := range manifest {
		known[t.Name] = true
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: buildInstructions(userID),
	})
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	records := []ToolCallRecord{}
	for round := 0; round < o.config.MaxToolRounds; round++ {
		resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    o.config.Model,
			Messages: messages,
			Tools:    manifestToOpenAITools(manifest),
		})
		if err != nil {
			return nil, fmt.Errorf("model turn failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("model returned no choices")
		}

		choice := resp.Choices[0].Message
		if len(choice.ToolCalls) == 0 {
			return &Result{Response: choice.Content, ToolCalls: records}, nil
		}

		messages = append(messages, choice)

		for _, tc := range choice.ToolCalls {
			name := tc.Function.Name
			if !known[name] {
				return nil, &ToolFault{Tool: name, Message: "unknown tool requested by model"}
			}

			args := parseArguments(tc.Function.Arguments)
			output, err := ch.Invoke(ctx, name, args)
			if err != nil {
				return nil, err
			}

			o.logger.Debug("tool call executed", "tool", name, "round", round)
			records = append(records, ToolCallRecord{
				Tool:   name,
				Input:  parseRecordValue(tc.Function.Arguments),
				Output: parseRecordValue(output),
			})

			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    output,
				ToolCallID: tc.ID,
			})
		}
	}

	// Round limit hit without a final answer. The trace is still returned;
	// the response defaults to empty rather than being omitted.
	o.logger.Warn("tool round limit reached", "user_id", userID, "rounds", o.config.MaxToolRounds)
	return &Result{Response: "", ToolCalls: records}, nil
}

func manifestToOpenAITools(manifest []mcp.Tool) []openai.Tool {
	tools := make([]openai.Tool, 0, len(manifest))
	for _, t := range manifest {
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.InputSchema,
			},
		})
	}
	return tools
}

// parseArguments decodes the model-supplied argument blob for transport to
// the worker. Malformed JSON degrades to no arguments.
func parseArguments(raw string) map[string]any {
	args := map[string]any{}
	if raw == "" {
		return args
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return map[string]any{}
	}
	return args
}

// parseRecordValue keeps structured data structured and everything else raw.
func parseRecordValue(raw string) any {
	if raw == "" {
		return map[string]any{}
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}
