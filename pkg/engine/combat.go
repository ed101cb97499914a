package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// AttackDeclaration pairs one attacking creature with the player or
// planeswalker it is attacking.
type AttackDeclaration struct {
	AttackerID string
	TargetID   string
}

// BlockDeclaration pairs one blocking creature with the attacker it blocks.
type BlockDeclaration struct {
	BlockerID  string
	AttackerID string
}

// DeclareAttackers implements §4.4's declareAttackers: validates every
// attacker is an untapped, non-summoning-sick creature the active player
// controls and every target is legal, then taps attackers lacking
// Vigilance and marks them attacking.
func DeclareAttackers(gs *GameState, pid string, decls []AttackDeclaration) error {
	if pid != gs.ActivePlayerID {
		return errNotYourTurn(pid)
	}
	if gs.Step != StepDeclareAttackers {
		return errWrongStep(StepDeclareAttackers, gs.Step)
	}
	if gs.AttackersDeclared {
		return newRuleError(ErrWrongStep, "attackers have already been declared this combat")
	}

	for _, d := range decls {
		attacker, ok := gs.Cards[d.AttackerID]
		if !ok {
			return errCardNotFound(d.AttackerID)
		}
		if attacker.Zone != ZoneBattlefield || attacker.ControllerID != pid || !attacker.HasType("Creature") {
			return errInvalidTarget(d.AttackerID)
		}
		if attacker.Tapped || attacker.IsSummoningSick(gs.TurnCount) {
			return errInvalidTarget(d.AttackerID)
		}
		if !isLegalAttackTarget(gs, pid, d.TargetID) {
			return errInvalidTarget(d.TargetID)
		}
	}

	for _, d := range decls {
		attacker := gs.Cards[d.AttackerID]
		if !attacker.HasKeyword("Vigilance") {
			attacker.Tapped = true
		}
		attacker.Attacking = d.TargetID
		raiseTrigger(gs, attacker.InstanceID, attacker.ControllerID, "attacks")
	}
	gs.AttackersDeclared = true
	return nil
}

func isLegalAttackTarget(gs *GameState, attackerControllerID, targetID string) bool {
	if p, ok := gs.Players[targetID]; ok {
		return p.ID != attackerControllerID
	}
	if c, ok := gs.Cards[targetID]; ok {
		return c.Zone == ZoneBattlefield && c.HasType("Planeswalker") && c.ControllerID != attackerControllerID
	}
	return false
}

// DeclareBlockers implements §4.4's declareBlockers: validates every
// blocker is an untapped creature the non-active player controls, enforces
// Menace (≥2 distinct blockers) and Flying/Reach restrictions, then records
// each blocker's assignment.
func DeclareBlockers(gs *GameState, pid string, decls []BlockDeclaration) error {
	if pid == gs.ActivePlayerID {
		return newRuleError(ErrNotYourTurn, "the active player cannot declare blockers")
	}
	if gs.Step != StepDeclareBlockers {
		return errWrongStep(StepDeclareBlockers, gs.Step)
	}

	attackerBlockerCount := make(map[string]int, len(decls))
	for _, d := range decls {
		attackerBlockerCount[d.AttackerID]++
	}

	for _, d := range decls {
		blocker, ok := gs.Cards[d.BlockerID]
		if !ok {
			return errCardNotFound(d.BlockerID)
		}
		if blocker.Zone != ZoneBattlefield || blocker.ControllerID != pid || blocker.Tapped || !blocker.HasType("Creature") {
			return errInvalidTarget(d.BlockerID)
		}
		attacker, ok := gs.Cards[d.AttackerID]
		if !ok || attacker.Attacking == "" {
			return errInvalidTarget(d.AttackerID)
		}
		if attacker.HasKeyword("Menace") && attackerBlockerCount[d.AttackerID] < 2 {
			return errInvalidTarget(d.AttackerID)
		}
		if attacker.HasKeyword("Flying") && !(blocker.HasKeyword("Flying") || blocker.HasKeyword("Reach")) {
			return errInvalidTarget(d.BlockerID)
		}
	}

	for _, d := range decls {
		blocker := gs.Cards[d.BlockerID]
		blocker.Blocking = append(blocker.Blocking, d.AttackerID)
	}
	gs.BlockersDeclared = true
	return nil
}

// ResolveCombatDamage implements §4.4's resolveCombatDamage: a first-strike
// sub-step followed by a regular sub-step (double strike participates in
// both), each followed by a state-based-actions sweep that moves lethally
// damaged creatures to the graveyard.
func ResolveCombatDamage(gs *GameState) {
	applyCombatDamageSubStep(gs, true)
	applyCombatDamageSubStep(gs, false)
}

func applyCombatDamageSubStep(gs *GameState, firstStrikeSubStep bool) {
	for _, attacker := range attackingCreatures(gs) {
		hasFirstStrike := attacker.HasKeyword("First Strike") || attacker.HasKeyword("Double Strike")
		hasDoubleStrike := attacker.HasKeyword("Double Strike")
		participates := hasFirstStrike
		if !firstStrikeSubStep {
			participates = !hasFirstStrike || hasDoubleStrike
		}
		if !participates {
			continue
		}
		dealAttackerDamage(gs, attacker, firstStrikeSubStep)
	}
	performCombatStateBasedActions(gs)
}

func attackingCreatures(gs *GameState) []*Card {
	var out []*Card
	for _, c := range gs.Cards {
		if c.Zone == ZoneBattlefield && c.Attacking != "" {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return cardSeq(out[i].InstanceID) < cardSeq(out[j].InstanceID) })
	return out
}

// blockersFor returns the creatures blocking attackerID, ordered by
// creation sequence as a stable stand-in for declaration order (Card
// carries no separate per-combat ordering field).
func blockersFor(gs *GameState, attackerID string) []*Card {
	var out []*Card
	for _, c := range gs.Cards {
		for _, b := range c.Blocking {
			if b == attackerID {
				out = append(out, c)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return cardSeq(out[i].InstanceID) < cardSeq(out[j].InstanceID) })
	return out
}

func cardSeq(instanceID string) int {
	parts := strings.Split(instanceID, "-")
	if len(parts) < 2 {
		return 0
	}
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0
	}
	return n
}

func dealAttackerDamage(gs *GameState, attacker *Card, firstStrikeSubStep bool) {
	power := attacker.CurrentPower
	if power <= 0 {
		return
	}

	blockers := blockersFor(gs, attacker.InstanceID)
	if len(blockers) == 0 {
		if attacker.Attacking != "" {
			assignDamageToTarget(gs, attacker.Attacking, power, attacker)
		}
		return
	}

	deathtouch := attacker.HasKeyword("Deathtouch")
	trample := attacker.HasKeyword("Trample")
	remaining := power
	for _, blocker := range blockers {
		if remaining <= 0 {
			break
		}
		lethal := blocker.CurrentToughness - blocker.DamageMarked
		if deathtouch && lethal > 1 {
			lethal = 1
		}
		if lethal < 0 {
			lethal = 0
		}
		assign := remaining
		if trample && assign > lethal {
			assign = lethal
		}
		blocker.DamageMarked += assign
		remaining -= assign
	}
	if trample && remaining > 0 && attacker.Attacking != "" {
		assignDamageToTarget(gs, attacker.Attacking, remaining, attacker)
	}

	for _, blocker := range blockers {
		if blocker.CurrentPower > 0 && blockerDealsDamageInSubStep(blocker, firstStrikeSubStep) {
			attacker.DamageMarked += blocker.CurrentPower
		}
	}
}

// blockerDealsDamageInSubStep mirrors applyCombatDamageSubStep's attacker
// gating for the reciprocal side of combat damage: a blocker without First
// or Double Strike deals no damage during the first-strike sub-step.
func blockerDealsDamageInSubStep(blocker *Card, firstStrikeSubStep bool) bool {
	hasFirstStrike := blocker.HasKeyword("First Strike") || blocker.HasKeyword("Double Strike")
	hasDoubleStrike := blocker.HasKeyword("Double Strike")
	if firstStrikeSubStep {
		return hasFirstStrike
	}
	return !hasFirstStrike || hasDoubleStrike
}

func assignDamageToTarget(gs *GameState, targetID string, amount int, source *Card) {
	if p, ok := gs.Players[targetID]; ok {
		p.Life -= amount
		gs.appendLog(LogCombat, LogCategoryStateBased, source.InstanceID,
			fmt.Sprintf("%s deals %d damage to %s", source.Name, amount, p.Name), source.Descriptor())
		return
	}
	if c, ok := gs.Cards[targetID]; ok && c.HasType("Planeswalker") {
		c.CurrentLoyalty -= amount
	}
}

// performCombatStateBasedActions moves creatures with lethal damage marked
// to the graveyard (§4.4's post-damage state-based-action sweep).
func performCombatStateBasedActions(gs *GameState) {
	for _, c := range gs.Cards {
		if c.Zone != ZoneBattlefield || !c.HasType("Creature") {
			continue
		}
		if c.DamageMarked >= c.CurrentToughness && c.CurrentToughness > 0 {
			moveCardToZone(gs, c, ZoneGraveyard)
			gs.appendLog(LogCombat, LogCategoryStateBased, c.InstanceID, c.Name+" dies", c.Descriptor())
		}
	}
}

// raiseTrigger records in the game log that a tag-named trigger fired for
// sourceCardID; it places nothing on the stack.
func raiseTrigger(gs *GameState, sourceCardID, controllerID, tag string) {
	gs.appendLog(LogCombat, LogCategoryTrigger, sourceCardID, tag+" trigger fired")
}
