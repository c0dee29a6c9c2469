package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	statex "github.com/tanpawarit/Chative-Voice-Commerce/agent/state"
	"github.com/tanpawarit/Chative-Voice-Commerce/domain/adventure"
)

const (
	ToolMoveToLocation = "move_to_location"
	ToolCheckStatus    = "check_status"
	ToolHelpVillagers  = "help_villagers"
	ToolSolveRiddle    = "solve_riddle"
	ToolSaveGame       = "save_game"
	ToolEndAdventure   = "end_adventure"

	adventureApology = "The jungle mists grow thick for a moment. Let us try that again, brave explorer."
)

type adventureTools struct {
	deps    Deps
	session *statex.SessionState
}

func newAdventureTools(deps Deps, session *statex.SessionState) []Tool {
	a := adventureTools{deps: deps, session: session}
	return []Tool{
		{
			Info: &schema.ToolInfo{
				Name: ToolMoveToLocation,
				Desc: "Move the player to a location and describe it.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"location_name": {Type: schema.String, Desc: "Place to go: village, square, temple or jungle", Required: true},
				}),
			},
			Apology: adventureApology,
			Run:     a.moveToLocation,
		},
		{
			Info:    &schema.ToolInfo{Name: ToolCheckStatus, Desc: "Check the player's health, karma, blessings and inventory."},
			Apology: adventureApology,
			Run:     a.checkStatus,
		},
		{
			Info:    &schema.ToolInfo{Name: ToolHelpVillagers, Desc: "Perform a good deed for the villagers to gain karma."},
			Apology: adventureApology,
			Run:     a.helpVillagers,
		},
		{
			Info: &schema.ToolInfo{
				Name: ToolSolveRiddle,
				Desc: "Answer the riddle of the greatest wealth for a blessing.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"answer": {Type: schema.String, Desc: "The player's answer", Required: true},
				}),
			},
			Apology: adventureApology,
			Run:     a.solveRiddle,
		},
		{
			Info:    &schema.ToolInfo{Name: ToolSaveGame, Desc: "Save the current game progress."},
			Apology: "The jungle spirits are restless tonight. Your journey continues unsaved for now. Try again when the cosmic energies align.",
			Run:     a.saveGame,
		},
		{
			Info:    &schema.ToolInfo{Name: ToolEndAdventure, Desc: "End the adventure with a summary of the journey."},
			Apology: adventureApology,
			Run:     a.endAdventure,
		},
	}
}

func (a adventureTools) game() *adventure.GameState {
	return a.session.EnsureGame(a.deps.Now())
}

func (a adventureTools) moveToLocation(_ context.Context, args map[string]any) (string, error) {
	g := a.game()
	arrival, err := g.MoveTo(a.deps.World, stringArg(args, "location_name"))
	if errors.Is(err, adventure.ErrUnknownLocation) {
		return "That path is hidden from view. You can go to: village, temple, or jungle. Where shall we explore?", nil
	}
	if err != nil {
		return "", err
	}

	var b strings.Builder
	loc := arrival.Location
	fmt.Fprintf(&b, "You arrive at %s. %s %s", loc.Name, loc.Description, loc.Ambience)
	if npc := arrival.Met; npc != nil {
		if arrival.Blessed {
			fmt.Fprintf(&b, "\n\n%s blesses you: '%s' You receive a blessing! Karma +%d.", npc.Name, npc.Dialogue, arrival.Karma)
		} else {
			fmt.Fprintf(&b, "\n\n%s approaches you: '%s' Your karma increases by %d!", npc.Name, npc.Dialogue, arrival.Karma)
		}
	}
	b.WriteString("\n\nWhat calls to your spirit in this place?")
	return b.String(), nil
}

func (a adventureTools) checkStatus(_ context.Context, _ map[string]any) (string, error) {
	g := a.game()
	p := g.Player

	var b strings.Builder
	b.WriteString("Your Spiritual Journey:\n\n")
	fmt.Fprintf(&b, "Health: %d/100\n", p.Health)
	fmt.Fprintf(&b, "Karma: %d (%s)\n", p.Karma, g.KarmaLevel())
	fmt.Fprintf(&b, "Blessings: %d\n", p.Blessings)
	fmt.Fprintf(&b, "Rupees: %d\n", p.Rupees)
	fmt.Fprintf(&b, "Inventory: %s\n\n", strings.Join(p.Inventory, ", "))
	b.WriteString("What calls to your heart next, brave explorer?")
	return b.String(), nil
}

func (a adventureTools) helpVillagers(_ context.Context, _ map[string]any) (string, error) {
	g := a.game()
	deed, gained := g.HelpVillagers(a.deps.IntN)
	return fmt.Sprintf("%s Your karma increases by %d! (Total: %d) How else may you serve the people of this village?",
		deed, gained, g.Player.Karma), nil
}

func (a adventureTools) solveRiddle(_ context.Context, args map[string]any) (string, error) {
	if a.game().SolveRiddle(stringArg(args, "answer")) {
		return "Wisdom blooms within you like a thousand lotuses! Yes, contentment is the greatest wealth. The Jungle Raja blesses your enlightenment with divine light. Your spiritual journey reaches new heights!", nil
	}
	return "The answer lies deeper within your soul. What treasure cannot be bought with gold but brings eternal joy to the heart? Look beyond material things to the essence of being.", nil
}

func (a adventureTools) saveGame(_ context.Context, _ map[string]any) (string, error) {
	if a.deps.Saves == nil {
		return "", errors.New("game saves are not configured")
	}
	g := a.game()
	g.ConversationSummary = g.Progress(a.deps.World)
	if _, err := a.deps.Saves.Write(g); err != nil {
		return "", err
	}
	return "Your spiritual journey is preserved in ancient scrolls! The jungle remembers every step of your path. Your dharma will continue when you return to this sacred land.", nil
}

func (a adventureTools) endAdventure(_ context.Context, _ map[string]any) (string, error) {
	g := a.game()

	var b strings.Builder
	b.WriteString("Your Adventure Summary:\n\n")
	fmt.Fprintf(&b, "Final Karma: %d\n", g.Player.Karma)
	fmt.Fprintf(&b, "Blessings Earned: %d\n", g.Player.Blessings)
	fmt.Fprintf(&b, "Villagers Helped: %d\n\n", g.Events.VillagersHelped)
	fmt.Fprintf(&b, "%s\n\n", g.Ending())
	b.WriteString("Thank you for exploring the mystical lands of India with me. May your real-life journey be filled with the same wonder and wisdom!")
	summary := b.String()

	g.ConversationSummary = summary
	if a.deps.Saves != nil {
		if _, err := a.deps.Saves.Write(g); err != nil {
			log.Warn().Err(err).Msg("final game save failed")
		}
	}
	return summary, nil
}
