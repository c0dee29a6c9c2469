package persona

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Voice-Commerce/agent/contract"
	statex "github.com/tanpawarit/Chative-Voice-Commerce/agent/state"
	toolx "github.com/tanpawarit/Chative-Voice-Commerce/agent/tool"
)

const DefaultMaxToolRounds = 5

type personaImpl struct {
	agentType    contractx.AgentType
	systemPrompt string
	maxRounds    int
	modelRunner  compose.Runnable[[]*schema.Message, *schema.Message]
}

func newPersona(
	ctx context.Context,
	agentType contractx.AgentType,
	chatModel einomodel.ToolCallingChatModel,
	systemPrompt string,
	maxRounds int,
) (*personaImpl, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: agent=%s", contractx.ErrPromptMissing, agentType)
	}
	if maxRounds <= 0 {
		maxRounds = DefaultMaxToolRounds
	}

	toolModel, err := chatModel.WithTools(toolx.InfosForAgent(agentType))
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools for agent=%s: %v", contractx.ErrModelInvoke, agentType, err)
	}
	runner, err := compileModelGraph(ctx, toolModel, "persona."+string(agentType)+".model_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile persona graph: %v", contractx.ErrModelInvoke, err)
	}

	return &personaImpl{
		agentType:    agentType,
		systemPrompt: systemPrompt,
		maxRounds:    maxRounds,
		modelRunner:  runner,
	}, nil
}

// Respond runs the tool-calling loop: the model either answers in text or
// asks for tools, whose results are fed back until it answers.
func (p *personaImpl) Respond(ctx context.Context, req contractx.TurnRequest) (contractx.TurnResponse, error) {
	userMessage := strings.TrimSpace(req.UserMessage)
	if userMessage == "" {
		return contractx.TurnResponse{}, fmt.Errorf("%w: user message is empty", contractx.ErrValidation)
	}
	if req.Execute == nil {
		return contractx.TurnResponse{}, fmt.Errorf("%w: tool executor is required", contractx.ErrValidation)
	}

	messages := make([]*schema.Message, 0, len(req.History)+2)
	messages = append(messages, schema.SystemMessage(RenderPrompt(p.systemPrompt, req.PromptVars)))
	for _, turn := range req.History {
		switch turn.Role {
		case statex.RoleUser:
			messages = append(messages, schema.UserMessage(turn.Content))
		case statex.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(turn.Content, nil))
		}
	}
	messages = append(messages, schema.UserMessage(userMessage))

	var results []contractx.ToolResult
	for round := 0; round <= p.maxRounds; round++ {
		msg, err := p.modelRunner.Invoke(ctx, messages)
		if err != nil {
			return contractx.TurnResponse{}, fmt.Errorf("%w: agent=%s: %v", contractx.ErrModelInvoke, p.agentType, err)
		}
		if msg == nil {
			return contractx.TurnResponse{}, fmt.Errorf("%w: empty model response", contractx.ErrSchemaViolation)
		}

		if len(msg.ToolCalls) == 0 {
			content := strings.TrimSpace(msg.Content)
			if content == "" {
				return contractx.TurnResponse{}, fmt.Errorf("%w: model reply is empty", contractx.ErrSchemaViolation)
			}
			return contractx.TurnResponse{Message: content, ToolResults: results}, nil
		}

		if round == p.maxRounds {
			break
		}

		messages = append(messages, schema.AssistantMessage(msg.Content, msg.ToolCalls))
		for _, call := range msg.ToolCalls {
			res := p.execute(ctx, req.Execute, call)
			results = append(results, res)
			messages = append(messages, schema.ToolMessage(toolx.Text(res), call.ID))
		}
	}

	return contractx.TurnResponse{}, fmt.Errorf("%w: agent=%s after %d rounds", contractx.ErrToolRounds, p.agentType, p.maxRounds)
}

// execute never fails the turn; problems go back to the model as text.
func (p *personaImpl) execute(ctx context.Context, execute contractx.ToolExecutor, call schema.ToolCall) contractx.ToolResult {
	name := strings.TrimSpace(call.Function.Name)

	args, err := parseArgs(call.Function.Arguments)
	if err != nil {
		log.Warn().Err(err).Str("tool", name).Str("agent", string(p.agentType)).Msg("invalid tool arguments")
		return contractx.ToolResult{Tool: name, Error: fmt.Sprintf("invalid arguments for %s: %v", name, err)}
	}

	res, err := execute(ctx, name, args)
	if err != nil {
		log.Warn().Err(err).Str("tool", name).Str("agent", string(p.agentType)).Msg("tool call rejected")
		if res.Error == "" {
			res.Error = err.Error()
		}
	}
	if res.Tool == "" {
		res.Tool = name
	}
	return res
}

func parseArgs(raw string) (map[string]any, error) {
	args := map[string]any{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	return args, nil
}

// RenderPrompt substitutes {key} placeholders. Unknown placeholders are
// left as they are.
func RenderPrompt(template string, vars map[string]string) string {
	if len(vars) == 0 {
		return template
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
