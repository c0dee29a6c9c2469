package adventure

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	maxKarma = 100
	minKarma = 0

	storytellerKarma = 5
	blessingKarma    = 10
	riddleKarma      = 20
	wrongRiddleKarma = 5
	minDeedKarma     = 5
	maxDeedKarma     = 15
)

var ErrUnknownLocation = errors.New("unknown location")

var riddleAnswers = []string{"contentment", "santosh", "peace", "happiness", "nothing"}

var goodDeeds = []string{
	"You help elders carry water from the well. Their grateful smiles warm your soul like morning sunlight.",
	"You teach village children to write their names in the dust. Their joyful laughter becomes music to your heart.",
	"You share your roti with a hungry traveler. Compassion blooms within you like a lotus flower.",
	"You help rebuild a damaged hut after the storm. The community's strength now flows through your hands.",
}

type Player struct {
	Name      string   `json:"name"`
	Health    int      `json:"health"`
	Karma     int      `json:"karma"`
	Inventory []string `json:"inventory"`
	Location  string   `json:"location"`
	Rupees    int      `json:"rupees"`
	Blessings int      `json:"blessings"`
}

type Events struct {
	MetStoryteller   bool `json:"met_storyteller"`
	ReceivedBlessing bool `json:"received_blessing"`
	RajaEncounter    bool `json:"raja_encounter"`
	VillagersHelped  int  `json:"villagers_helped"`
}

type GameState struct {
	Player              Player    `json:"player"`
	Events              Events    `json:"events"`
	ConversationSummary string    `json:"conversation_summary"`
	Timestamp           time.Time `json:"timestamp"`
}

func NewGame(now time.Time) *GameState {
	return &GameState{
		Player: Player{
			Name:      "Brave Explorer",
			Health:    100,
			Karma:     50,
			Inventory: []string{"Torch", "Lota (Water Vessel)", "Roti"},
			Location:  StartLocation,
			Rupees:    100,
			Blessings: 0,
		},
		Timestamp: now,
	}
}

func (g *GameState) addKarma(delta int) {
	g.Player.Karma = min(maxKarma, max(minKarma, g.Player.Karma+delta))
}

// KarmaLevel buckets karma as High (>70), Medium (>40) or Low.
func (g *GameState) KarmaLevel() string {
	switch {
	case g.Player.Karma > 70:
		return "High"
	case g.Player.Karma > 40:
		return "Medium"
	default:
		return "Low"
	}
}

// Arrival describes what happened when the player entered a location.
type Arrival struct {
	Location Location
	Met      *NPC
	Blessed  bool
	Karma    int
}

// MoveTo walks the player to a location. The first visit to the square
// meets the storyteller and the first visit to the temple grants a blessing.
func (g *GameState) MoveTo(w World, name string) (Arrival, error) {
	key := ResolveLocation(name)
	loc, ok := w.Locations[key]
	if !ok {
		return Arrival{}, fmt.Errorf("%w: %s", ErrUnknownLocation, name)
	}

	g.Player.Location = key
	arrival := Arrival{Location: loc}

	switch {
	case key == "village_square" && !g.Events.MetStoryteller:
		g.Events.MetStoryteller = true
		g.addKarma(storytellerKarma)
		arrival.Karma = storytellerKarma
		if npc, ok := w.NPCs["storyteller"]; ok {
			arrival.Met = &npc
		}
	case key == "temple" && !g.Events.ReceivedBlessing:
		g.Events.ReceivedBlessing = true
		g.addKarma(blessingKarma)
		g.Player.Blessings++
		arrival.Karma = blessingKarma
		arrival.Blessed = true
		if npc, ok := w.NPCs["sadhu"]; ok {
			arrival.Met = &npc
		}
	}
	return arrival, nil
}

// HelpVillagers performs a random good deed. intN must return [0, n).
func (g *GameState) HelpVillagers(intN func(n int) int) (deed string, gained int) {
	gained = minDeedKarma + intN(maxDeedKarma-minDeedKarma+1)
	g.addKarma(gained)
	g.Events.VillagersHelped++
	return goodDeeds[intN(len(goodDeeds))], gained
}

// SolveRiddle checks an answer to the riddle of the greatest wealth.
func (g *GameState) SolveRiddle(answer string) bool {
	lower := strings.ToLower(answer)
	solved := slices.ContainsFunc(riddleAnswers, func(want string) bool {
		return strings.Contains(lower, want)
	})
	if solved {
		g.addKarma(riddleKarma)
		g.Player.Blessings++
		g.Events.RajaEncounter = true
		return true
	}
	g.addKarma(-wrongRiddleKarma)
	return false
}

// Progress is the short line stored with a save.
func (g *GameState) Progress(w World) string {
	place := g.Player.Location
	if loc, ok := w.Locations[place]; ok {
		place = loc.Name
	}
	return fmt.Sprintf("Exploring %s. Karma: %d. Blessings: %d. Villagers helped: %d.",
		place, g.Player.Karma, g.Player.Blessings, g.Events.VillagersHelped)
}

// Ending picks the closing line by final karma.
func (g *GameState) Ending() string {
	switch {
	case g.Player.Karma >= 80:
		return "With karma shining brightly, you have achieved spiritual enlightenment. The Jungle Raja bestows upon you his highest blessings!"
	case g.Player.Karma >= 50:
		return "Your journey has been one of growth and learning. The jungle acknowledges your balanced path and pure intentions."
	default:
		return "Your journey continues, with lessons learned and wisdom gained. The jungle teaches that every path has its purpose."
	}
}

func (g *GameState) Clone() *GameState {
	if g == nil {
		return nil
	}
	out := *g
	out.Player.Inventory = slices.Clone(g.Player.Inventory)
	return &out
}
