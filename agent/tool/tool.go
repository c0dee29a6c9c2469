package tool

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Voice-Commerce/agent/contract"
	statex "github.com/tanpawarit/Chative-Voice-Commerce/agent/state"
	"github.com/tanpawarit/Chative-Voice-Commerce/domain/adventure"
	"github.com/tanpawarit/Chative-Voice-Commerce/domain/catalog"
	"github.com/tanpawarit/Chative-Voice-Commerce/domain/ledger"
	"github.com/tanpawarit/Chative-Voice-Commerce/domain/wellness"
)

type Executor = contractx.ToolExecutor

// Deps are the long-lived stores the tools operate on. Only the stores of
// the agent being served need to be set.
type Deps struct {
	Catalog  *catalog.Catalog
	Ledger   *ledger.Ledger
	Checkins *wellness.Log
	World    adventure.World
	Saves    *adventure.Saves
	Now      func() time.Time
	IntN     func(n int) int
}

func (d Deps) withDefaults() Deps {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.IntN == nil {
		d.IntN = rand.IntN
	}
	return d
}

// Tool pairs the descriptor shown to the model with its handler. Run
// returns the text to speak; a returned error is logged and replaced by
// Apology.
type Tool struct {
	Info    *schema.ToolInfo
	Apology string
	Run     func(ctx context.Context, args map[string]any) (string, error)
}

func (t Tool) Name() string {
	return t.Info.Name
}

// BuildForAgent returns the tool descriptors and an executor bound to one
// conversation's session state.
func BuildForAgent(agentType contractx.AgentType, deps Deps, session *statex.SessionState) ([]*schema.ToolInfo, Executor) {
	tools := toolsForAgent(agentType, deps, session)
	return infos(tools), newExecutor(agentType, tools)
}

// InfosForAgent lists the descriptors without binding any state.
func InfosForAgent(agentType contractx.AgentType) []*schema.ToolInfo {
	return infos(toolsForAgent(agentType, Deps{}, nil))
}

func NewExecutor(agentType contractx.AgentType, deps Deps, session *statex.SessionState) Executor {
	return newExecutor(agentType, toolsForAgent(agentType, deps, session))
}

func toolsForAgent(agentType contractx.AgentType, deps Deps, session *statex.SessionState) []Tool {
	deps = deps.withDefaults()
	if session == nil {
		session = statex.NewSessionState("detached", string(agentType), deps.Now())
	}

	switch agentType {
	case contractx.AgentTypeShop:
		return newShopTools(deps, session)
	case contractx.AgentTypeWellness:
		return newWellnessTools(deps)
	case contractx.AgentTypeAdventure:
		return newAdventureTools(deps, session)
	default:
		return nil
	}
}

func infos(tools []Tool) []*schema.ToolInfo {
	out := make([]*schema.ToolInfo, 0, len(tools))
	for _, t := range tools {
		out = append(out, t.Info)
	}
	return out
}

func newExecutor(agentType contractx.AgentType, tools []Tool) Executor {
	byName := make(map[string]Tool, len(tools))
	for _, t := range tools {
		byName[t.Name()] = t
	}
	fallback := DefaultExecutor(agentType)

	return func(ctx context.Context, name string, args map[string]any) (contractx.ToolResult, error) {
		t, ok := byName[name]
		if !ok {
			return fallback(ctx, name, args)
		}
		return t.invoke(ctx, args), nil
	}
}

// DefaultExecutor answers every call as a tool the agent does not have.
func DefaultExecutor(agentType contractx.AgentType) Executor {
	return func(_ context.Context, tool string, _ map[string]any) (contractx.ToolResult, error) {
		return contractx.ToolResult{
			Tool:  tool,
			Error: fmt.Sprintf("tool=%s is unavailable for agent=%s", tool, agentType),
		}, fmt.Errorf("%w: tool=%s agent=%s", contractx.ErrUnknownTool, tool, agentType)
	}
}

func (t Tool) invoke(ctx context.Context, args map[string]any) (result contractx.ToolResult) {
	name := t.Name()
	result.Tool = name

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("tool", name).Interface("panic", r).Msg("tool panicked")
			result.Result = t.Apology
			result.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	start := time.Now()
	text, err := t.Run(ctx, args)
	if err != nil {
		log.Error().Err(err).Str("tool", name).Msg("tool failed")
		result.Result = t.Apology
		result.Error = err.Error()
		return result
	}

	log.Debug().Str("tool", name).Dur("elapsed", time.Since(start)).Msg("tool completed")
	result.Result = text
	return result
}

// Text extracts the spoken text of a result.
func Text(res contractx.ToolResult) string {
	switch v := res.Result.(type) {
	case string:
		return v
	case nil:
		return res.Error
	default:
		return fmt.Sprint(v)
	}
}
