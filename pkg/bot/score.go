package bot

import (
	"sort"
	"strings"

	"github.com/dnviti/mtg-online-web-sub002/pkg/engine"
)

// ScoreCard implements §4.7's card-scoring rubric: creatures score on
// stats and keywords, spells score on their classified effect, and a
// card's relative desirability drives which sorcery/instant-speed play a
// bot commits to each iteration.
func ScoreCard(gs *engine.GameState, botID string, c *engine.Card) float64 {
	if c.HasType("Creature") {
		return scoreCreature(c)
	}

	effect := engine.ClassifyEffect(c.OracleText)
	switch effect {
	case engine.EffectDestroy, engine.EffectCounterSpell:
		score := 8.0
		if hasOpponentThreat(gs, botID) {
			score += 3
		}
		return score
	case engine.EffectDamage:
		score := 5.0
		if opponentLowestLife(gs, botID) <= 10 {
			score += 3
		}
		return score
	case engine.EffectDraw:
		return 4
	}

	if isBoardWipe(c) {
		if creatureCount(gs, opponentOf(gs, botID)) > creatureCount(gs, botID) {
			return 10
		}
		return -5
	}

	return 0
}

// scoreCreature weighs raw stats, keyword bonuses, an ETB-effect bonus,
// and a mana-efficiency penalty.
func scoreCreature(c *engine.Card) float64 {
	score := 2*float64(c.CurrentPower) + float64(c.CurrentToughness)
	keywordBonus := map[string]float64{"Flying": 3, "Trample": 2, "Lifelink": 2, "Deathtouch": 3, "Haste": 2}
	fromText := make(map[string]bool)
	for _, h := range engine.Parse(c.OracleText) {
		fromText[h.Keyword] = true
	}
	for kw, bonus := range keywordBonus {
		if c.HasKeyword(kw) || fromText[kw] {
			score += bonus
		}
	}
	if c.HasKeyword("Unblockable") {
		score += 4
	}
	if engine.ClassifyEffect(c.OracleText) != engine.EffectUnknown {
		score += 3
	}

	cmc := 0
	if cost, err := engine.ParseManaCost(c.ManaCost); err == nil {
		cmc = cost.Generic
		for _, n := range cost.Colors {
			cmc += n
		}
	}
	score -= 0.5 * float64(cmc)
	return score
}

func isSorcerySpeedCard(c *engine.Card) bool {
	return c.HasType("Sorcery") || c.HasType("Creature") || c.HasType("Artifact") ||
		c.HasType("Enchantment") || c.HasType("Planeswalker")
}

func isBoardWipe(c *engine.Card) bool {
	lower := strings.ToLower(c.OracleText)
	return strings.Contains(lower, "destroy all creatures") || strings.Contains(lower, "each creature")
}

// castBestSpell picks the highest-scoring hand card playable at the
// requested speed that still has a legal target, casts it, and reports
// whether a spell was cast.
func castBestSpell(eng *engine.Engine, gs *engine.GameState, botID string, sorcerySpeed bool) bool {
	type candidate struct {
		card  *engine.Card
		score float64
	}
	var candidates []candidate
	for _, c := range gs.Cards {
		if c.Zone != engine.ZoneHand || c.OwnerID != botID {
			continue
		}
		if isSorcerySpeedCard(c) != sorcerySpeed {
			continue
		}
		candidates = append(candidates, candidate{card: c, score: ScoreCard(gs, botID, c)})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].card.InstanceID < candidates[j].card.InstanceID
	})

	for _, cand := range candidates {
		if cand.score <= 0 {
			break
		}
		targets, ok := chooseTargets(gs, botID, cand.card)
		if !ok {
			continue
		}
		if err := eng.CastSpell(gs, botID, cand.card.InstanceID, targets, nil, nil); err == nil {
			return true
		}
	}
	return false
}

// chooseTargets picks a legal target set for damage/destroy effects and
// reports false when no legal target exists (the spell is skipped).
func chooseTargets(gs *engine.GameState, botID string, c *engine.Card) ([]string, bool) {
	switch engine.ClassifyEffect(c.OracleText) {
	case engine.EffectDamage:
		return []string{opponentOf(gs, botID)}, true
	case engine.EffectDestroy:
		if targetID, ok := bestOpposingCreature(gs, botID); ok {
			return []string{targetID}, true
		}
		return nil, false
	default:
		return nil, true
	}
}

func bestOpposingCreature(gs *engine.GameState, botID string) (string, bool) {
	var best *engine.Card
	for _, c := range gs.Cards {
		if c.Zone != engine.ZoneBattlefield || c.ControllerID == botID || !c.HasType("Creature") {
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
