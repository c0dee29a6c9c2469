package conversationnode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Voice-Commerce/agent/contract"
	statex "github.com/tanpawarit/Chative-Voice-Commerce/agent/state"
)

// LoadSession fetches the session opened earlier. Messages never create a
// session on their own; the caller has to open one first.
func LoadSession(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	st, agentType, err := LoadSessionState(ctx, store, in.SessionID)
	if err != nil {
		return nil, err
	}
	in.Session = st
	in.AgentType = agentType
	return in, nil
}

func LoadSessionState(ctx context.Context, store statex.Store, sessionID string) (*statex.SessionState, contractx.AgentType, error) {
	st, err := store.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, statex.ErrStateNotFound) {
			return nil, "", fmt.Errorf("%w: id=%s", ErrSessionNotFound, sessionID)
		}
		return nil, "", err
	}

	agentType, err := contractx.ParseAgentType(st.AgentType)
	if err != nil {
		return nil, "", fmt.Errorf("%w: session id=%s: %v", statex.ErrInvalidState, sessionID, err)
	}
	return st, agentType, nil
}
