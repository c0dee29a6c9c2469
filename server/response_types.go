package server

import (
	contractx "github.com/tanpawarit/Chative-Voice-Commerce/agent/contract"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type OpenSessionRequest struct {
	AgentType string `json:"agent_type" binding:"required"`
}

type OpenSessionResponse struct {
	SessionID string              `json:"session_id"`
	AgentType contractx.AgentType `json:"agent_type"`
	Greeting  string              `json:"greeting"`
}

type MessageRequest struct {
	Text string `json:"text" binding:"required"`
}

type ToolRequest struct {
	Args map[string]any `json:"args"`
}
