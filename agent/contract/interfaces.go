package contract

import "context"

// ToolExecutor runs one named tool. Tool-level failures are reported in
// ToolResult; the error return is for wiring faults only.
type ToolExecutor func(ctx context.Context, tool string, args map[string]any) (ToolResult, error)

// Persona answers a user turn, calling tools through the request executor.
type Persona interface {
	Respond(ctx context.Context, req TurnRequest) (TurnResponse, error)
}

type Registry interface {
	Persona(agentType AgentType) (Persona, error)
}
