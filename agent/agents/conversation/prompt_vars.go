package conversation

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Voice-Commerce/agent/contract"
	"github.com/tanpawarit/Chative-Voice-Commerce/domain/adventure"
)

func (s *Service) promptVars(ctx context.Context, agentType contractx.AgentType) (map[string]string, error) {
	switch agentType {
	case contractx.AgentTypeWellness:
		if s.deps.Checkins == nil {
			return nil, fmt.Errorf("%w: %s", ErrAgentUnavailable, agentType)
		}
		return map[string]string{"past_ref": s.deps.Checkins.PastReference(ctx)}, nil
	case contractx.AgentTypeAdventure:
		return worldPromptVars(s.deps.World), nil
	default:
		return nil, nil
	}
}

func worldPromptVars(w adventure.World) map[string]string {
	locations := make([]string, 0, len(w.Locations))
	for _, key := range w.LocationKeys() {
		loc := w.Locations[key]
		locations = append(locations, fmt.Sprintf("- %s: %s (Ambience: %s)", loc.Name, loc.Description, loc.Ambience))
	}

	npcs := make([]string, 0, len(w.NPCs))
	for _, key := range w.NPCKeys() {
		npc := w.NPCs[key]
		npcs = append(npcs, fmt.Sprintf("- %s (%s): %s", npc.Name, npc.Location, npc.Dialogue))
	}

	quests := make([]string, 0, len(w.Quests))
	for _, key := range w.QuestKeys() {
		quest := w.Quests[key]
		quests = append(quests, fmt.Sprintf("- %s: %s", quest.Name, quest.Description))
	}

	return map[string]string{
		"world_description": w.Description,
		"locations_data":    strings.Join(locations, "\n"),
		"npcs_data":         strings.Join(npcs, "\n"),
		"quests_data":       strings.Join(quests, "\n"),
	}
}
