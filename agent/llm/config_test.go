package llm

import (
	"errors"
	"testing"

	contractx "github.com/tanpawarit/Chative-Voice-Commerce/agent/contract"
)

func TestOpenRouterForOverrides(t *testing.T) {
	t.Parallel()

	cfg := Config{
		APIKey:               " key ",
		Model:                "openai/gpt-4o-mini",
		MaxCompletionToken:   800,
		Temperature:          0.5,
		AdventureModel:       "anthropic/claude-3.5-haiku",
		ShopTemperature:      -1,
		WellnessTemperature:  0.2,
		AdventureTemperature: 0.9,
	}

	shop := cfg.OpenRouterFor(contractx.AgentTypeShop)
	if shop.Model != "openai/gpt-4o-mini" || shop.Temperature != 0.5 || shop.APIKey != "key" {
		t.Fatalf("shop config = %+v", shop)
	}
	if shop.MaxCompletionToken == nil || *shop.MaxCompletionToken != 800 {
		t.Fatalf("shop max tokens = %v", shop.MaxCompletionToken)
	}

	wellness := cfg.OpenRouterFor(contractx.AgentTypeWellness)
	if wellness.Model != "openai/gpt-4o-mini" || wellness.Temperature != 0.2 {
		t.Fatalf("wellness config = %+v", wellness)
	}

	adventure := cfg.OpenRouterFor(contractx.AgentTypeAdventure)
	if adventure.Model != "anthropic/claude-3.5-haiku" || adventure.Temperature != 0.9 {
		t.Fatalf("adventure config = %+v", adventure)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := (Config{APIKey: "k", Model: "m"}).Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	for _, cfg := range []Config{{Model: "m"}, {APIKey: "k"}, {APIKey: "k", Model: "m", MaxToolRounds: -1}} {
		if err := cfg.Validate(); !errors.Is(err, contractx.ErrValidation) {
			t.Fatalf("Validate(%+v) error = %v, want ErrValidation", cfg, err)
		}
	}
}
