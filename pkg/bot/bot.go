// Package bot implements BotLogic: the automated-player loop that takes
// actions on a GameState whenever a bot seat holds priority.
package bot

import (
	"github.com/dnviti/mtg-online-web-sub002/pkg/engine"
)

// maxIterations bounds one call to RunLoop, matching the Bot liveness
// testable property: within at most this many iterations either a human
// holds priority or the turn counter has strictly increased.
const maxIterations = 50

// RunLoop drives botID's priority-holding actions one at a time until a
// non-bot holds priority, the turn counter advances, or the safety
// ceiling is reached (§4.7's bounded top-level loop).
func RunLoop(eng *engine.Engine, gs *engine.GameState, botID string) {
	startTurn := gs.TurnCount
	for i := 0; i < maxIterations; i++ {
		if gs.PriorityPlayerID != botID || gs.TurnCount != startTurn {
			return
		}
		player, ok := gs.Players[botID]
		if !ok || !player.IsBot {
			return
		}
		if !takeOneAction(eng, gs, botID) {
			return
		}
	}
}

// takeOneAction performs exactly one of §4.7's eight numbered rules,
// returning whether an action was selected this iteration.
func takeOneAction(eng *engine.Engine, gs *engine.GameState, botID string) bool {
	player, ok := gs.Players[botID]
	if !ok {
		return false
	}

	// 1. Mulligan window: always keep.
	if gs.Step == engine.StepMulligan && !player.HandKept {
		eng.ResolveMulligan(gs, botID, true, nil)
		return true
	}

	// 2. Draw step on the bot's own turn: the draw already happened as a
	// turn-based action, so just pass.
	if gs.Step == engine.StepDraw && gs.ActivePlayerID == botID {
		eng.PassPriority(gs, botID)
		return true
	}

	// 3. Main phase, no land played yet: play the best available land.
	if (gs.Phase == engine.PhaseMain1 || gs.Phase == engine.PhaseMain2) &&
		gs.ActivePlayerID == botID && gs.LandsPlayedThisTurn == 0 {
		if cardID, ok := chooseBestLand(gs, botID); ok {
			if err := eng.PlayLand(gs, botID, cardID); err == nil {
				return true
			}
		}
	}

	// 4. Own turn, empty stack: sorcery-speed plays.
	if gs.ActivePlayerID == botID && len(gs.Stack) == 0 {
		if castBestSpell(eng, gs, botID, true) {
			return true
		}
	}

	// 5. Off-turn or non-empty stack: instant-speed plays, gated by
	// shouldRespond.
	if shouldRespond(gs, botID) {
		if castBestSpell(eng, gs, botID, false) {
			return true
		}
	}

	// 6. Declare attackers on the bot's own turn.
	if gs.Step == engine.StepDeclareAttackers && gs.ActivePlayerID == botID && !gs.AttackersDeclared {
		declareAttackers(eng, gs, botID)
		return true
	}

	// 7. Declare blockers off-turn.
	if gs.Step == engine.StepDeclareBlockers && gs.ActivePlayerID != botID && !gs.BlockersDeclared {
		declareBlockers(eng, gs, botID)
		return true
	}

	// 8. Otherwise, pass.
	eng.PassPriority(gs, botID)
	return true
}

// shouldRespond reports whether an off-turn or stacked bot should
// consider instant-speed plays: an opponent's spell sits on the stack, or
// combat is underway.
func shouldRespond(gs *engine.GameState, botID string) bool {
	if len(gs.Stack) > 0 {
		top := gs.Stack[len(gs.Stack)-1]
		if top.ControllerID != botID {
			return true
		}
	}
	return gs.Phase == engine.PhaseCombat
}

func opponentOf(gs *engine.GameState, pid string) string {
	for _, id := range gs.TurnOrder {
		if id != pid {
			return id
		}
	}
	return pid
}

func creatureCount(gs *engine.GameState, controllerID string) int {
	n := 0
	for _, c := range gs.Cards {
		if c.Zone == engine.ZoneBattlefield && c.ControllerID == controllerID && c.HasType("Creature") {
			n++
		}
	}
	return n
}

func opponentLowestLife(gs *engine.GameState, botID string) int {
	lowest := 0
	first := true
	for _, id := range gs.TurnOrder {
		if id == botID {
			continue
		}
		life := gs.Players[id].Life
		if first || life < lowest {
			lowest = life
			first = false
		}
	}
	return lowest
}

func hasOpponentThreat(gs *engine.GameState, botID string) bool {
	for _, c := range gs.Cards {
		if c.Zone == engine.ZoneBattlefield && c.ControllerID != botID && c.HasType("Creature") && c.CurrentPower >= 4 {
			return true
		}
	}
	return false
}

func chooseBestLand(gs *engine.GameState, botID string) (string, bool) {
	needs := colorNeedsInHand(gs, botID)
	var best *engine.Card
	bestScore := -1
	for _, c := range gs.Cards {
		if c.Zone != engine.ZoneHand || c.OwnerID != botID || !c.HasType("Land") {
			continue
		}
		score := 0
		for _, color := range engine.AvailableManaColors(c) {
			score += needs[color]
		}
		if best == nil || score > bestScore || (score == bestScore && c.InstanceID < best.InstanceID) {
			bestScore = score
			best = c
		}
	}
	if best == nil {
		return "", false
	}
	return best.InstanceID, true
}

func colorNeedsInHand(gs *engine.GameState, botID string) map[engine.Color]int {
	needs := make(map[engine.Color]int)
	for _, c := range gs.Cards {
		if c.Zone != engine.ZoneHand || c.OwnerID != botID {
			continue
		}
		cost, err := engine.ParseManaCost(c.ManaCost)
		if err != nil {
			continue
		}
		for color, n := range cost.Colors {
			needs[color] += n
		}
	}
	return needs
}
