package adventure

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/Chative-Voice-Commerce/pkg/recordstore"
)

const StartLocation = "village_entrance"

// ErrWorldUnavailable means the world file could not be created or read.
// The adventure cannot start without it.
var ErrWorldUnavailable = errors.New("game world unavailable")

type Location struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Connections []string `json:"connections"`
	Ambience    string   `json:"ambience"`
}

type NPC struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Dialogue    string `json:"dialogue"`
	Personality string `json:"personality"`
}

type Quest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type World struct {
	Game        string              `json:"game"`
	Description string              `json:"description"`
	Locations   map[string]Location `json:"locations"`
	NPCs        map[string]NPC      `json:"npcs"`
	Quests      map[string]Quest    `json:"quests"`
}

func (w World) validate() error {
	if len(w.Locations) == 0 {
		return errors.New("world has no locations")
	}
	if _, ok := w.Locations[StartLocation]; !ok {
		return fmt.Errorf("world is missing start location %q", StartLocation)
	}
	return nil
}

// LocationKeys returns location ids in a stable order.
func (w World) LocationKeys() []string {
	return sortedKeys(w.Locations)
}

func (w World) NPCKeys() []string {
	return sortedKeys(w.NPCs)
}

func (w World) QuestKeys() []string {
	return sortedKeys(w.Quests)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

var locationAliases = map[string]string{
	"village": "village_entrance",
	"square":  "village_square",
	"temple":  "temple",
	"jungle":  "jungle_edge",
	"chowk":   "village_square",
	"forest":  "jungle_edge",
}

// ResolveLocation maps a spoken place name to a location id.
func ResolveLocation(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := locationAliases[key]; ok {
		return alias
	}
	return key
}

// LoadWorld reads the world file at path, writing the default world first
// when the file does not exist.
func LoadWorld(path string) (World, error) {
	var world World
	err := recordstore.ReadDocument(path, &world)
	if errors.Is(err, recordstore.ErrNotFound) {
		world = DefaultWorld()
		if err := recordstore.WriteDocument(path, world); err != nil {
			return World{}, fmt.Errorf("%w: %v", ErrWorldUnavailable, err)
		}
		log.Info().Str("path", path).Msg("created world file")
		return world, nil
	}
	if err != nil {
		return World{}, fmt.Errorf("%w: %v", ErrWorldUnavailable, err)
	}
	if err := world.validate(); err != nil {
		return World{}, fmt.Errorf("%w: %v", ErrWorldUnavailable, err)
	}
	log.Info().Str("path", path).Int("locations", len(world.Locations)).Msg("loaded world file")
	return world, nil
}

func DefaultWorld() World {
	return World{
		Game:        "Jungle Raja Adventure",
		Description: "An immersive Indian jungle adventure where you explore mystical villages, ancient temples, and solve spiritual riddles guided by Rajkumar Veer, the Jungle Raja.",
		Locations: map[string]Location{
			"village_entrance": {
				Name:        "Shanti Gram Village Entrance",
				Description: "A peaceful Indian village with colorful huts, the scent of spices in the air, and children playing near a banyan tree.",
				Connections: []string{"village_square", "temple", "jungle_edge"},
				Ambience:    "You hear temple bells and the distant sound of a sitar",
			},
			"village_square": {
				Name:        "Village Chowk",
				Description: "The bustling heart of the village with market stalls selling spices, fabrics, and street food.",
				Connections: []string{"village_entrance", "spice_market", "elder_hut"},
				Ambience:    "The air is filled with the aroma of masala chai and sizzling pakoras",
			},
			"temple": {
				Name:        "Ancient Shiva Temple",
				Description: "A magnificent stone temple with intricate carvings of gods and goddesses.",
				Connections: []string{"village_entrance", "sacred_pool"},
				Ambience:    "You hear the chanting of mantras and the gentle ringing of prayer bells",
			},
			"jungle_edge": {
				Name:        "Dense Jungle Border",
				Description: "Where civilization meets the wild. The jungle ahead is thick with bamboo and teak trees.",
				Connections: []string{"village_entrance", "bamboo_forest", "river_ghat"},
				Ambience:    "Monkeys chatter in the distance and peacocks call from the treetops",
			},
		},
		NPCs: map[string]NPC{
			"storyteller": {
				Name:        "Baba Gyan",
				Location:    "village_square",
				Dialogue:    "Ah, a seeker! The Jungle Raja awaits those with pure intentions and courage.",
				Personality: "Wise and mystical storyteller",
			},
			"sadhu": {
				Name:        "Swami Ananda",
				Location:    "river_ghat",
				Dialogue:    "The jungle tests not your strength, but your heart. Help others, show compassion.",
				Personality: "Enlightened spiritual guide",
			},
		},
		Quests: map[string]Quest{
			"find_jungle_raja": {
				Name:        "Meet the Jungle Raja",
				Description: "Find the legendary Jungle Raja and receive his blessing",
				Status:      "active",
			},
		},
	}
}
