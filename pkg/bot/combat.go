package bot

import "github.com/dnviti/mtg-online-web-sub002/pkg/engine"

// declareAttackers picks every untapped, non-summoning-sick creature that
// attacks favorably — evasive, lethal, or unlikely to trade down — and
// sends them all in; with none worth attacking it just passes.
func declareAttackers(eng *engine.Engine, gs *engine.GameState, botID string) {
	opp := opponentOf(gs, botID)
	var decls []engine.AttackDeclaration
	for _, c := range gs.Cards {
		if c.Zone != engine.ZoneBattlefield || c.ControllerID != botID || !c.HasType("Creature") {
			continue
		}
		if c.Tapped || c.IsSummoningSick(gs.TurnCount) {
			continue
		}
		if shouldAttackWith(gs, botID, c) {
			decls = append(decls, engine.AttackDeclaration{AttackerID: c.InstanceID, TargetID: opp})
		}
	}
	if len(decls) > 0 {
		eng.DeclareAttackers(gs, botID, decls)
		return
	}
	eng.PassPriority(gs, botID)
}

func shouldAttackWith(gs *engine.GameState, botID string, attacker *engine.Card) bool {
	if attacker.HasKeyword("Flying") || attacker.HasKeyword("Menace") || attacker.HasKeyword("Unblockable") {
		return true
	}
	if opponentLowestLife(gs, botID) <= attacker.CurrentPower {
		return true
	}
	return !defenderHasBetterBlocker(gs, botID, attacker)
}

// defenderHasBetterBlocker reports whether the opponent holds an
// untapped creature that would kill attacker without dying itself.
func defenderHasBetterBlocker(gs *engine.GameState, botID string, attacker *engine.Card) bool {
	for _, c := range gs.Cards {
		if c.Zone != engine.ZoneBattlefield || c.ControllerID == botID || c.Tapped || !c.HasType("Creature") {
			continue
		}
		if c.CurrentToughness > attacker.CurrentPower && c.CurrentPower >= attacker.CurrentToughness {
			return true
		}
	}
	return false
}

// attacksBotID reports whether target is botID itself or a planeswalker
// botID controls, the two legal attack-declaration targets (§4.4).
func attacksBotID(gs *engine.GameState, botID, target string) bool {
	if target == botID {
		return true
	}
	if c, ok := gs.Cards[target]; ok {
		return c.ControllerID == botID && c.HasType("Planeswalker")
	}
	return false
}

// declareBlockers assigns a blocker to each attacker that can be blocked
// favorably or survivably, or must be blocked to avoid lethal damage.
func declareBlockers(eng *engine.Engine, gs *engine.GameState, botID string) {
	lethalTotal := 0
	for _, c := range gs.Cards {
		if c.Zone == engine.ZoneBattlefield && c.Attacking == botID {
			lethalTotal += c.CurrentPower
		}
	}
	mustBlockLethal := lethalTotal >= gs.Players[botID].Life

	used := make(map[string]bool)
	var decls []engine.BlockDeclaration
	for _, attacker := range gs.Cards {
		if attacker.Zone != engine.ZoneBattlefield || attacker.Attacking == "" || !attacksBotID(gs, botID, attacker.Attacking) {
			continue
		}
		if blockerID, ok := chooseBlockerFor(gs, botID, attacker, used, mustBlockLethal); ok {
			used[blockerID] = true
			decls = append(decls, engine.BlockDeclaration{BlockerID: blockerID, AttackerID: attacker.InstanceID})
		}
	}
	eng.DeclareBlockers(gs, botID, decls)
}

func chooseBlockerFor(gs *engine.GameState, botID string, attacker *engine.Card, used map[string]bool, mustBlock bool) (string, bool) {
	var best *engine.Card
	for _, c := range gs.Cards {
		if c.Zone != engine.ZoneBattlefield || c.ControllerID != botID || c.Tapped || !c.HasType("Creature") {
			continue
		}
		if used[c.InstanceID] {
			continue
		}
		if attacker.HasKeyword("Flying") && !(c.HasKeyword("Flying") || c.HasKeyword("Reach")) {
			continue
		}
		favorableTrade := c.CurrentToughness > attacker.CurrentPower && c.CurrentPower < attacker.CurrentToughness
		survives := c.CurrentToughness > attacker.CurrentPower
		if !mustBlock && !favorableTrade && !survives {
			continue
		}
		if best == nil || c.CurrentPower > best.CurrentPower {
			best = c
		}
	}
	if best == nil {
		return "", false
	}
	return best.InstanceID, true
}
