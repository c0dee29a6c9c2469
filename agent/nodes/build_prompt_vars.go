package conversationnode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Voice-Commerce/agent/contract"
)

// PromptVarsFunc returns the values substituted into an agent's system prompt.
type PromptVarsFunc func(ctx context.Context, agentType contractx.AgentType) (map[string]string, error)

func BuildPromptVars(ctx context.Context, in *GraphState, varsFn PromptVarsFunc) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}
	if varsFn == nil {
		return in, nil
	}

	vars, err := varsFn(ctx, in.AgentType)
	if err != nil {
		return nil, err
	}
	in.PromptVars = vars
	return in, nil
}
