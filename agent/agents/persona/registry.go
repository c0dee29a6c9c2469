package persona

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	contractx "github.com/tanpawarit/Chative-Voice-Commerce/agent/contract"
	llmx "github.com/tanpawarit/Chative-Voice-Commerce/agent/llm"
	promptx "github.com/tanpawarit/Chative-Voice-Commerce/agent/prompt"
)

// ModelFactory builds the chat model that serves one agent type.
type ModelFactory func(ctx context.Context, agentType contractx.AgentType) (einomodel.ToolCallingChatModel, error)

type registryImpl struct {
	personas map[contractx.AgentType]contractx.Persona
}

func (r *registryImpl) Persona(agentType contractx.AgentType) (contractx.Persona, error) {
	p, ok := r.personas[agentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", contractx.ErrUnknownAgent, agentType)
	}
	return p, nil
}

// NewRegistry builds one OpenRouter-backed persona per agent type.
func NewRegistry(ctx context.Context, cfg llmx.Config) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	factory := func(ctx context.Context, agentType contractx.AgentType) (einomodel.ToolCallingChatModel, error) {
		modelCfg := cfg.OpenRouterFor(agentType)
		return modelCfg.New(ctx)
	}
	return BuildRegistry(ctx, factory, promptx.LoadPromptSet(), cfg.MaxToolRounds, contractx.AgentTypes...)
}

// BuildRegistry wires personas for the given agent types from a model
// factory and prompt set.
func BuildRegistry(
	ctx context.Context,
	factory ModelFactory,
	prompts promptx.PromptSet,
	maxRounds int,
	agentTypes ...contractx.AgentType,
) (contractx.Registry, error) {
	personas := make(map[contractx.AgentType]contractx.Persona, len(agentTypes))
	for _, agentType := range agentTypes {
		chatModel, err := factory(ctx, agentType)
		if err != nil {
			return nil, fmt.Errorf("%w: create %s model: %v", contractx.ErrModelInvoke, agentType, err)
		}
		p, err := newPersona(ctx, agentType, chatModel, prompts.For(agentType), maxRounds)
		if err != nil {
			return nil, err
		}
		personas[agentType] = p
	}
	return &registryImpl{personas: personas}, nil
}
