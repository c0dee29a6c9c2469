package prompt

import (
	_ "embed"
	"strings"

	contractx "github.com/tanpawarit/Chative-Voice-Commerce/agent/contract"
)

var (
	//go:embed template/shop.txt
	shopRaw string

	//go:embed template/wellness.txt
	wellnessRaw string

	//go:embed template/adventure.txt
	adventureRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Shop      string
	Wellness  string
	Adventure string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Shop:      strings.TrimSpace(shopRaw),
		Wellness:  strings.TrimSpace(wellnessRaw),
		Adventure: strings.TrimSpace(adventureRaw),
	}
}

// For returns the system prompt of an agent, or "" when none is loaded.
func (p PromptSet) For(agentType contractx.AgentType) string {
	switch agentType {
	case contractx.AgentTypeShop:
		return p.Shop
	case contractx.AgentTypeWellness:
		return p.Wellness
	case contractx.AgentTypeAdventure:
		return p.Adventure
	default:
		return ""
	}
}
