// File: internal/services/agent/errors.go
package agent

import "fmt"

// ConfigurationError reports a missing or invalid credential detected before
// any model or tool work begins. Fatal for the turn, never retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("agent configuration error: %s", e.Reason)
}

// StartupError reports a tool worker that could not be launched or did not
// become reachable within the startup window.
type StartupError struct {
	Cause error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("tool worker startup failed: %v", e.Cause)
}

func (e *StartupError) Unwrap() error { return e.Cause }

// ToolFault is a channel-level failure: unreachable worker, timeout, unknown
// tool name, or a malformed response. Distinct from a tool-reported data
// error such as {"error":"Task not found"}, which flows back to the model.
type ToolFault struct {
	Tool    string
	Message string
	Cause   error
}

func (e *ToolFault) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tool fault (%s): %s: %v", e.Tool, e.Message, e.Cause)
	}
	return fmt.Sprintf("tool fault (%s): %s", e.Tool, e.Message)
}

func (e *ToolFault) Unwrap() error { return e.Cause }
