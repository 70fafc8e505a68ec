// File: internal/services/agent/config.go
package agent

import (
	"fmt"
	"time"
)

type Config struct {
	// Reasoning component credentials. APIKey is checked at Run time, not
	// here: a missing key must fail the chat turn, not process startup.
	APIKey  string
	BaseURL string
	Model   string

	// Upper bound on model-turn/tool-phase iterations per chat turn. The
	// protocol itself has no cap; this bounds cost and latency.
	MaxToolRounds int

	// Per-invoke deadline on the tool channel.
	ToolTimeout time.Duration

	// Startup window for the worker subprocess to become reachable.
	StartupTimeout time.Duration

	// Worker launch contract: command, arguments and working directory of
	// the stdio tool worker.
	WorkerCommand string
	WorkerArgs    []string
	WorkerDir     string
}

func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("agent model is required")
	}
	if c.MaxToolRounds < 1 {
		return fmt.Errorf("max tool rounds must be at least 1")
	}
	if c.ToolTimeout <= 0 {
		return fmt.Errorf("tool timeout must be positive")
	}
	if c.StartupTimeout <= 0 {
		return fmt.Errorf("startup timeout must be positive")
	}
	if c.WorkerCommand == "" {
		return fmt.Errorf("worker command is required")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Model:          "gpt-4o-mini",
		MaxToolRounds:  10,
		ToolTimeout:    30 * time.Second,
		StartupTimeout: 15 * time.Second,
	}
}
