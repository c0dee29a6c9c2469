package contract

import (
	"fmt"
	"strings"

	statex "github.com/tanpawarit/Chative-Voice-Commerce/agent/state"
)

type AgentType string

const (
	AgentTypeShop      AgentType = "shop"
	AgentTypeWellness  AgentType = "wellness"
	AgentTypeAdventure AgentType = "adventure"
)

var AgentTypes = []AgentType{AgentTypeShop, AgentTypeWellness, AgentTypeAdventure}

func ParseAgentType(raw string) (AgentType, error) {
	agentType := AgentType(strings.ToLower(strings.TrimSpace(raw)))
	switch agentType {
	case AgentTypeShop, AgentTypeWellness, AgentTypeAdventure:
		return agentType, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAgent, raw)
	}
}

// TurnRequest is one user turn handed to a persona.
type TurnRequest struct {
	UserMessage string            `json:"user_message"`
	History     []statex.Turn     `json:"history,omitempty"`
	PromptVars  map[string]string `json:"prompt_vars,omitempty"`
	Execute     ToolExecutor      `json:"-"`
}

type TurnResponse struct {
	Message     string       `json:"message"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
}

type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}
