package state

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tanpawarit/Chative-Voice-Commerce/domain/adventure"
	"github.com/tanpawarit/Chative-Voice-Commerce/domain/ledger"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	MaxRecentSearches = 5
)

var ErrInvalidState = errors.New("invalid session state")

// SessionState is the ephemeral per-conversation state. It is discarded
// when the conversation closes.
type SessionState struct {
	SessionID string `json:"session_id"`
	AgentType string `json:"agent_type"`

	History []Turn               `json:"history,omitempty"`
	Shop    *ShopState           `json:"shop,omitempty"`
	Game    *adventure.GameState `json:"game,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ShopState tracks what the shopper has seen and done in this conversation.
type ShopState struct {
	CurrentProductIDs   []string      `json:"current_product_ids,omitempty"`
	LastOrder           *ledger.Order `json:"last_order,omitempty"`
	RecentSearches      []string      `json:"recent_searches,omitempty"` // newest last
	PreferredCategories []string      `json:"preferred_categories,omitempty"`
}

func NewSessionState(sessionID, agentType string, now time.Time) *SessionState {
	return &SessionState{
		SessionID: sessionID,
		AgentType: agentType,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

func (s *SessionState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// AppendTurn records a text turn, keeping at most limit turns (0 = no limit).
func (s *SessionState) AppendTurn(role, content string, limit int) {
	s.History = append(s.History, Turn{Role: role, Content: content})
	if limit > 0 && len(s.History) > limit {
		s.History = slices.Clone(s.History[len(s.History)-limit:])
	}
}

// EnsureShop returns the shop state, creating it on first use.
func (s *SessionState) EnsureShop() *ShopState {
	if s.Shop == nil {
		s.Shop = &ShopState{}
	}
	return s.Shop
}

// EnsureGame returns the adventure state, starting a new game on first use.
func (s *SessionState) EnsureGame(now time.Time) *adventure.GameState {
	if s.Game == nil {
		s.Game = adventure.NewGame(now)
	}
	return s.Game
}

// RecordSearch remembers a query, dropping the oldest beyond MaxRecentSearches.
func (s *ShopState) RecordSearch(query string) {
	s.RecentSearches = append(s.RecentSearches, query)
	if over := len(s.RecentSearches) - MaxRecentSearches; over > 0 {
		s.RecentSearches = slices.Clone(s.RecentSearches[over:])
	}
}

func (s *ShopState) PreferCategory(category string) {
	s.PreferredCategories = append(s.PreferredCategories, category)
}

func (s *ShopState) SetCurrentProducts(ids []string) {
	s.CurrentProductIDs = slices.Clone(ids)
}

func (s *SessionState) Validate() error {
	if strings.TrimSpace(s.SessionID) == "" {
		return fmt.Errorf("%w: session id is empty", ErrInvalidState)
	}
	if strings.TrimSpace(s.AgentType) == "" {
		return fmt.Errorf("%w: agent type is empty", ErrInvalidState)
	}
	for i, turn := range s.History {
		if turn.Role != RoleUser && turn.Role != RoleAssistant {
			return fmt.Errorf("%w: history[%d] has role %q", ErrInvalidState, i, turn.Role)
		}
	}
	if s.Shop != nil && len(s.Shop.RecentSearches) > MaxRecentSearches {
		return fmt.Errorf("%w: %d recent searches exceeds %d", ErrInvalidState, len(s.Shop.RecentSearches), MaxRecentSearches)
	}
	return nil
}
