package conversationnode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Voice-Commerce/agent/contract"
	statex "github.com/tanpawarit/Chative-Voice-Commerce/agent/state"
)

// ToolBinder returns an executor whose tools read and write the given session.
type ToolBinder func(agentType contractx.AgentType, session *statex.SessionState) contractx.ToolExecutor

func RunPersona(
	ctx context.Context,
	in *GraphState,
	personas contractx.Registry,
	bind ToolBinder,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	persona, err := personas.Persona(in.AgentType)
	if err != nil {
		return nil, err
	}

	resp, err := persona.Respond(ctx, contractx.TurnRequest{
		UserMessage: in.Text,
		History:     append([]statex.Turn(nil), in.Session.History...),
		PromptVars:  in.PromptVars,
		Execute:     bind(in.AgentType, in.Session),
	})
	if err != nil {
		return nil, err
	}
	in.Response = resp
	return in, nil
}

// AppendTurns records the exchange once the persona produced a reply.
func AppendTurns(in *GraphState, historyLimit int) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	in.Session.AppendTurn(statex.RoleUser, in.Text, historyLimit)
	in.Session.AppendTurn(statex.RoleAssistant, in.Response.Message, historyLimit)
	return in, nil
}
