package conversationnode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Voice-Commerce/agent/contract"
	statex "github.com/tanpawarit/Chative-Voice-Commerce/agent/state"
)

var (
	ErrInvalidMessage  = errors.New("message is empty")
	ErrInvalidSession  = statex.ErrInvalidSession
	ErrSessionNotFound = errors.New("session not found")
)

type GraphInput struct {
	SessionID string
	Text      string
}

type GraphOutput struct {
	Reply       string
	ToolResults []contractx.ToolResult
}

type GraphState struct {
	SessionID string
	Text      string
	Now       time.Time

	Session    *statex.SessionState
	AgentType  contractx.AgentType
	PromptVars map[string]string

	Response contractx.TurnResponse
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      text,
		Now:       nowFn().UTC(),
	}, nil
}
