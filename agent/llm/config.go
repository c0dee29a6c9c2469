package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Voice-Commerce/agent/contract"
	openrouterx "github.com/tanpawarit/Chative-Voice-Commerce/pkg/openrouter"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"1000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`
	MaxToolRounds      int           `envconfig:"MAX_TOOL_ROUNDS" split_words:"true" default:"5"`

	ShopModel            string  `envconfig:"SHOP_MODEL" split_words:"true"`
	WellnessModel        string  `envconfig:"WELLNESS_MODEL" split_words:"true"`
	AdventureModel       string  `envconfig:"ADVENTURE_MODEL" split_words:"true"`
	ShopTemperature      float32 `envconfig:"SHOP_TEMPERATURE" split_words:"true" default:"-1"`
	WellnessTemperature  float32 `envconfig:"WELLNESS_TEMPERATURE" split_words:"true" default:"-1"`
	AdventureTemperature float32 `envconfig:"ADVENTURE_TEMPERATURE" split_words:"true" default:"0.8"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	if c.MaxToolRounds < 0 {
		return fmt.Errorf("%w: max tool rounds must not be negative", contractx.ErrValidation)
	}
	return nil
}

// OpenRouterFor resolves the model settings for one agent. A negative
// per-agent temperature means "use the default".
func (c Config) OpenRouterFor(agentType contractx.AgentType) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	override := func(model string, temperature float32) {
		if v := strings.TrimSpace(model); v != "" {
			modelName = v
		}
		if temperature >= 0 {
			temp = temperature
		}
	}

	switch agentType {
	case contractx.AgentTypeShop:
		override(c.ShopModel, c.ShopTemperature)
	case contractx.AgentTypeWellness:
		override(c.WellnessModel, c.WellnessTemperature)
	case contractx.AgentTypeAdventure:
		override(c.AdventureModel, c.AdventureTemperature)
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
