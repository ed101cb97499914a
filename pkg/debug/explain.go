package debug

import (
	"fmt"

	"github.com/dnviti/mtg-online-web-sub002/pkg/engine"
)

func explain(actionType ActionType, description string) string {
	return fmt.Sprintf("%s: %s", actionType, description)
}

// detailedExplanation produces a step-by-step breakdown of an action's
// abilities, costs, targets, and zone effects, parsing oracle text
// best-effort via engine.Parse/ClassifyEffect exactly the way bot
// heuristics do. This text only ever feeds the operator-facing
// explanation string; it never steers rule enforcement (§9).
func detailedExplanation(gs *engine.GameState, actionType ActionType, description string, affected []engine.CardDescriptor) []string {
	lines := []string{
		fmt.Sprintf("action: %s", actionType),
		fmt.Sprintf("summary: %s", description),
	}
	for _, ref := range affected {
		card, ok := gs.Cards[ref.InstanceID]
		if !ok {
			continue
		}
		for _, hint := range engine.Parse(card.OracleText) {
			if hint.Keyword != "" {
				lines = append(lines, fmt.Sprintf("%s has keyword %s", card.Name, hint.Keyword))
				continue
			}
			lines = append(lines, fmt.Sprintf("%s's ability classifies as %s", card.Name, hint.EffectTag))
		}
	}
	lines = append(lines, fmt.Sprintf("stack depth after this step: %d", len(gs.Stack)))
	return lines
}
