package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Voice-Commerce/agent/contract"
	nodex "github.com/tanpawarit/Chative-Voice-Commerce/agent/nodes"
	statex "github.com/tanpawarit/Chative-Voice-Commerce/agent/state"
	toolx "github.com/tanpawarit/Chative-Voice-Commerce/agent/tool"
)

const DefaultHistoryLimit = 40

var (
	ErrInvalidMessage  = nodex.ErrInvalidMessage
	ErrInvalidSession  = nodex.ErrInvalidSession
	ErrSessionNotFound = nodex.ErrSessionNotFound

	// ErrAgentUnavailable means the data an agent needs was not loaded at
	// startup. Only sessions of that agent are refused.
	ErrAgentUnavailable = errors.New("agent is unavailable")
)

type Config struct {
	// HistoryLimit caps the turns replayed to the model. 0 uses the default.
	HistoryLimit int
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// Reply is what the user hears after one turn, plus the tool calls made
// while producing it.
type Reply struct {
	Message     string                 `json:"message"`
	ToolResults []contractx.ToolResult `json:"tool_results,omitempty"`
}

// Service runs conversations for every persona. Turns of one session are
// serialized; different sessions run independently.
type Service struct {
	store    statex.Store
	personas contractx.Registry
	deps     toolx.Deps

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	historyLimit int
	locks        sync.Map

	now   func() time.Time
	newID func() string
}

func New(
	store statex.Store,
	personas contractx.Registry,
	deps toolx.Deps,
	cfg Config,
	opts ...Option,
) (*Service, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if personas == nil {
		return nil, errors.New("persona registry is required")
	}

	historyLimit := cfg.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}

	s := &Service{
		store:        store,
		personas:     personas,
		historyLimit: historyLimit,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	if deps.Now == nil {
		deps.Now = s.now
	}
	s.deps = deps

	graphRunner, err := s.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	s.graphRunner = graphRunner

	return s, nil
}

// Open starts a session for one persona and returns its id and greeting.
func (s *Service) Open(ctx context.Context, agentType contractx.AgentType) (string, string, error) {
	if err := s.checkAvailable(agentType); err != nil {
		return "", "", err
	}

	now := s.now().UTC()
	st := statex.NewSessionState(s.newID(), string(agentType), now)

	pastRef := ""
	switch agentType {
	case contractx.AgentTypeShop:
		st.EnsureShop()
	case contractx.AgentTypeAdventure:
		st.EnsureGame(now)
	case contractx.AgentTypeWellness:
		pastRef = s.deps.Checkins.PastReference(ctx)
	}

	hello := greeting(agentType, pastRef)
	st.AppendTurn(statex.RoleAssistant, hello, s.historyLimit)
	if err := s.store.Save(ctx, st); err != nil {
		return "", "", fmt.Errorf("save session: %w", err)
	}

	log.Info().Str("session_id", st.SessionID).Str("agent", string(agentType)).Msg("session opened")
	return st.SessionID, hello, nil
}

func (s *Service) checkAvailable(agentType contractx.AgentType) error {
	switch agentType {
	case contractx.AgentTypeShop:
		if s.deps.Catalog == nil || s.deps.Ledger == nil {
			return fmt.Errorf("%w: %s needs a catalog and an order ledger", ErrAgentUnavailable, agentType)
		}
	case contractx.AgentTypeWellness:
		if s.deps.Checkins == nil {
			return fmt.Errorf("%w: %s needs a check-in log", ErrAgentUnavailable, agentType)
		}
	case contractx.AgentTypeAdventure:
		if len(s.deps.World.Locations) == 0 {
			return fmt.Errorf("%w: %s needs a game world", ErrAgentUnavailable, agentType)
		}
	default:
		return fmt.Errorf("%w: %s", contractx.ErrUnknownAgent, agentType)
	}
	if _, err := s.personas.Persona(agentType); err != nil {
		return err
	}
	return nil
}

// HandleMessage runs one user turn through the session's persona.
func (s *Service) HandleMessage(ctx context.Context, sessionID string, text string) (_ Reply, err error) {
	release := s.lock(sessionID)
	defer func() { release(isGone(err)) }()

	out, err := s.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Text:      text,
	})
	if err != nil {
		return Reply{}, err
	}
	return Reply{Message: out.Reply, ToolResults: out.ToolResults}, nil
}

// InvokeTool calls one tool directly, outside the model loop, against the
// session's state.
func (s *Service) InvokeTool(ctx context.Context, sessionID string, tool string, args map[string]any) (_ contractx.ToolResult, err error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return contractx.ToolResult{}, ErrInvalidSession
	}
	release := s.lock(sessionID)
	defer func() { release(isGone(err)) }()

	st, agentType, err := nodex.LoadSessionState(ctx, s.store, sessionID)
	if err != nil {
		return contractx.ToolResult{}, err
	}
	if args == nil {
		args = map[string]any{}
	}

	res, err := s.bindTools(agentType, st)(ctx, strings.TrimSpace(tool), args)
	if err != nil {
		return res, err
	}

	st.Touch(s.now())
	if err := s.store.Save(ctx, st); err != nil {
		return res, fmt.Errorf("save session: %w", err)
	}
	return res, nil
}

// Session returns a snapshot of a session.
func (s *Service) Session(ctx context.Context, sessionID string) (*statex.SessionState, error) {
	st, _, err := nodex.LoadSessionState(ctx, s.store, strings.TrimSpace(sessionID))
	return st, err
}

// Close ends a session and discards its state.
func (s *Service) Close(ctx context.Context, sessionID string) (err error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ErrInvalidSession
	}
	release := s.lock(sessionID)
	defer func() { release(err == nil || isGone(err)) }()

	if _, _, err := nodex.LoadSessionState(ctx, s.store, sessionID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	log.Info().Str("session_id", sessionID).Msg("session closed")
	return nil
}

func (s *Service) bindTools(agentType contractx.AgentType, session *statex.SessionState) contractx.ToolExecutor {
	return toolx.NewExecutor(agentType, s.deps, session)
}

// lock serializes work on one session. The returned release unlocks and,
// when forget is set, drops the entry so ids of missing sessions do not
// accumulate.
func (s *Service) lock(sessionID string) (release func(forget bool)) {
	key := strings.TrimSpace(sessionID)
	v, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return func(forget bool) {
		if forget {
			s.locks.CompareAndDelete(key, mu)
		}
		mu.Unlock()
	}
}

func isGone(err error) bool {
	return errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrInvalidSession)
}
