package tool

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/schema"
	"github.com/tanpawarit/Chative-Voice-Commerce/domain/wellness"
)

const ToolSaveCheckin = "save_checkin"

func newWellnessTools(deps Deps) []Tool {
	return []Tool{
		{
			Info: &schema.ToolInfo{
				Name: ToolSaveCheckin,
				Desc: "Save today's check-in. Call only at the end, after the user has confirmed the recap.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"mood":       {Type: schema.String, Desc: "Short summary of mood and energy, e.g. 6/10, a bit tired", Required: true},
					"objectives": {Type: schema.String, Desc: "Comma-separated list of 1-3 goals", Required: true},
					"summary":    {Type: schema.String, Desc: "One short neutral sentence summarizing the check-in", Required: true},
				}),
			},
			Apology: "I couldn't save today's check-in just now, but thank you for sharing. Let's try again next time.",
			Run: func(ctx context.Context, args map[string]any) (string, error) {
				if deps.Checkins == nil {
					return "", errors.New("check-in log is not configured")
				}
				_, err := deps.Checkins.Record(ctx,
					stringArg(args, "mood"), stringArg(args, "objectives"), stringArg(args, "summary"))
				if errors.Is(err, wellness.ErrEmptyMood) {
					return "I didn't catch how you're feeling yet. How would you describe your mood today?", nil
				}
				if err != nil {
					return "", err
				}
				return "Check-in saved. Thanks for sharing, have a great day!", nil
			},
		},
	}
}
