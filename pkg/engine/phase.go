package engine

import "github.com/dnviti/mtg-online-web-sub002/pkg/statemachine"

// phaseSteps is the fixed step table per phase (§3): the ordered steps a
// phase walks through before advancing to the next phase.
var phaseSteps = map[Phase][]Step{
	PhaseSetup:     {StepMulligan},
	PhaseBeginning: {StepUntap, StepUpkeep, StepDraw},
	PhaseMain1:     {StepMain},
	PhaseCombat:    {StepBeginningCombat, StepDeclareAttackers, StepDeclareBlockers, StepCombatDamage, StepEndCombat},
	PhaseMain2:     {StepMain},
	PhaseEnding:    {StepEnd, StepCleanup},
}

var phaseOrder = []Phase{PhaseSetup, PhaseBeginning, PhaseMain1, PhaseCombat, PhaseMain2, PhaseEnding}

// maxAutoSteps bounds the auto-advance chain (untap -> upkeep -> draw, a
// fully-kept mulligan -> beginning, cleanup -> next turn's untap) so a data
// bug in the step table can never spin the dispatcher forever.
const maxAutoSteps = 64

// AdvanceStep drives the PhaseManager forward from the current step,
// stepping through every step that performs its turn-based actions without
// granting priority (untap, an upkeep with an empty stack, a fully-kept
// mulligan, cleanup) until it
// reaches one that does, the same Dispatch-in-a-loop pattern this stack
// uses to drive a table seat through its own turn states.
func AdvanceStep(gs *GameState) {
	sm := statemachine.NewStateMachine(gs, phaseStepState)
	for i := 0; i < maxAutoSteps && !sm.Done(); i++ {
		sm.Dispatch(nil)
	}
}

func phaseStepState(gs *GameState, callback func(string, statemachine.StateEvent)) statemachine.StateFn[GameState] {
	callback(string(gs.Step), statemachine.StateEntered)
	if performTurnBasedActions(gs) {
		transitionToNextStep(gs)
		return phaseStepState
	}
	callback(string(gs.Step), statemachine.StateExited)
	return nil
}

// performTurnBasedActions runs the current step's mandatory actions and
// reports whether the step auto-advances without granting priority.
func performTurnBasedActions(gs *GameState) (autoAdvance bool) {
	switch gs.Step {
	case StepMulligan:
		allKept := true
		for _, pid := range gs.TurnOrder {
			p := gs.Players[pid]
			if p.HandKept {
				continue
			}
			if handSizeForPlayer(gs, pid) == 0 {
				gs.ShuffleLibrary(pid)
				drawCards(gs, pid, 7)
			}
			allKept = false
		}
		return allKept
	case StepUntap:
		for _, c := range gs.Cards {
			if c.Zone == ZoneBattlefield && c.ControllerID == gs.ActivePlayerID {
				c.Tapped = false
			}
		}
		return true
	case StepUpkeep:
		return len(gs.Stack) == 0
	case StepDraw:
		if !(gs.TurnCount == 1 && len(gs.TurnOrder) == 2) {
			drawCards(gs, gs.ActivePlayerID, 1)
		}
		return false
	case StepDeclareBlockers:
		resetPassFlags(gs)
		gs.PriorityPlayerID = defendingPlayerID(gs)
		return false
	case StepCombatDamage:
		ResolveCombatDamage(gs)
		gs.PriorityPlayerID = gs.ActivePlayerID
		return false
	case StepCleanup:
		cleanupStep(gs)
		return true
	default:
		return false
	}
}

// transitionToNextStep moves gs to the next step per the fixed table,
// resetting per-step state, applying the declare_blockers skip rules, and
// rolling into AdvanceTurn when ending/cleanup ends.
func transitionToNextStep(gs *GameState) {
	resetForStepChange(gs)

	if gs.Phase == PhaseEnding && gs.Step == StepCleanup {
		AdvanceTurn(gs)
		runDelayedTriggers(gs)
		return
	}

	if next, ok := nextStepInPhase(gs.Phase, gs.Step); ok {
		gs.Step = next
	} else if np, ok := nextPhase(gs.Phase); ok {
		gs.Phase = np
		gs.Step = phaseSteps[np][0]
	} else {
		AdvanceTurn(gs)
		runDelayedTriggers(gs)
		return
	}

	applyStepSkipRules(gs)
	gs.PriorityPlayerID = gs.ActivePlayerID
	runDelayedTriggers(gs)
}

func resetForStepChange(gs *GameState) {
	for _, p := range gs.Players {
		p.ManaPool = make(map[Color]int)
	}
	resetPassFlags(gs)
}

func resetPassFlags(gs *GameState) {
	for _, p := range gs.Players {
		p.HasPassed = false
		p.StopRequested = false
	}
	gs.PassedPriorityCount = 0
}

func nextStepInPhase(phase Phase, step Step) (Step, bool) {
	steps := phaseSteps[phase]
	for i, s := range steps {
		if s == step {
			if i+1 < len(steps) {
				return steps[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

func nextPhase(phase Phase) (Phase, bool) {
	for i, p := range phaseOrder {
		if p == phase {
			if i+1 < len(phaseOrder) {
				return phaseOrder[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

// applyStepSkipRules implements the declare_blockers skip rules: no
// attackers jumps straight to end_combat, and an attackers-but-no-blockers
// board (the defender has no untapped creature) jumps to combat_damage.
func applyStepSkipRules(gs *GameState) {
	if gs.Step != StepDeclareBlockers {
		return
	}
	if !gs.AttackersDeclared {
		gs.Phase = PhaseCombat
		gs.Step = StepEndCombat
		return
	}
	if !defenderHasUntappedCreatures(gs) {
		gs.Step = StepCombatDamage
	}
}

func defenderHasUntappedCreatures(gs *GameState) bool {
	for _, pid := range gs.TurnOrder {
		if pid == gs.ActivePlayerID {
			continue
		}
		for _, c := range gs.Cards {
			if c.Zone == ZoneBattlefield && c.ControllerID == pid && !c.Tapped && c.HasType("Creature") {
				return true
			}
		}
	}
	return false
}

func defendingPlayerID(gs *GameState) string {
	for _, pid := range gs.TurnOrder {
		if pid != gs.ActivePlayerID {
			return pid
		}
	}
	return gs.ActivePlayerID
}

// AdvanceTurn increments the turn counter, rotates the active seat, and
// resets the new turn's beginning state.
func AdvanceTurn(gs *GameState) {
	gs.TurnCount++
	gs.ActivePlayerID = nextPlayerID(gs, gs.ActivePlayerID)
	for _, p := range gs.Players {
		p.IsActive = p.ID == gs.ActivePlayerID
	}
	gs.Phase = PhaseBeginning
	gs.Step = StepUntap
	gs.LandsPlayedThisTurn = 0
	gs.PriorityPlayerID = gs.ActivePlayerID
	gs.Reseed(gs.TurnCount)
}

func nextPlayerID(gs *GameState, current string) string {
	for i, pid := range gs.TurnOrder {
		if pid == current {
			return gs.TurnOrder[(i+1)%len(gs.TurnOrder)]
		}
	}
	if len(gs.TurnOrder) > 0 {
		return gs.TurnOrder[0]
	}
	return current
}

// PassPriority implements §4.2's passPriority(pid): validates the caller
// holds priority, then either advances priority to the next seat, resolves
// the top of the stack, or advances the step table, exactly as the count of
// consecutive passes dictates.
func PassPriority(gs *GameState, playerID string) error {
	if gs.PriorityPlayerID != playerID {
		return errNotYourPriority(playerID)
	}
	player, ok := gs.Players[playerID]
	if !ok {
		return errNotYourPriority(playerID)
	}
	player.HasPassed = true
	gs.PassedPriorityCount++

	if gs.PassedPriorityCount < len(gs.TurnOrder) {
		gs.PriorityPlayerID = nextPlayerID(gs, playerID)
		return nil
	}

	if len(gs.Stack) > 0 {
		if resolveTopStackItem(gs) {
			resetPassFlags(gs)
			gs.PriorityPlayerID = gs.ActivePlayerID
		}
		return nil
	}

	transitionToNextStep(gs)
	AdvanceStep(gs)
	return nil
}

// runDelayedTriggers places every delayed trigger whose phase/step
// condition matches the freshly entered step onto the stack as a triggered
// ability, dropping one-shot triggers once fired (§4.2).
func runDelayedTriggers(gs *GameState) {
	var remaining []DelayedTrigger
	for _, t := range gs.DelayedTriggers {
		matches := (t.Phase == nil || *t.Phase == gs.Phase) && (t.Step == nil || *t.Step == gs.Step)
		if !matches {
			remaining = append(remaining, t)
			continue
		}
		gs.Stack = append(gs.Stack, &StackItem{
			ID:           gs.nextStackItemID(),
			SourceCardID: t.SourceCardID,
			ControllerID: t.ControllerID,
			Kind:         StackItemTrigger,
			Name:         t.EffectTag,
			Text:         t.EffectTag,
		})
		gs.appendLog(LogInfo, LogCategoryTrigger, t.SourceCardID, "a delayed trigger fired: "+t.EffectTag)
		if !t.OneShot {
			remaining = append(remaining, t)
		}
	}
	gs.DelayedTriggers = remaining
}

func cleanupStep(gs *GameState) {
	for _, c := range gs.Cards {
		if c.Zone == ZoneBattlefield {
			c.DamageMarked = 0
			c.Attacking = ""
			c.Blocking = nil
		}
		if len(c.Modifiers) == 0 {
			continue
		}
		var remaining []Modifier
		for _, m := range c.Modifiers {
			if !m.UntilEndOfTurn {
				remaining = append(remaining, m)
			}
		}
		c.Modifiers = remaining
	}
	gs.AttackersDeclared = false
	gs.BlockersDeclared = false
}

func handSizeForPlayer(gs *GameState, playerID string) int {
	count := 0
	for _, c := range gs.Cards {
		if c.Zone == ZoneHand && c.OwnerID == playerID {
			count++
		}
	}
	return count
}

// drawOne moves the top card of playerID's library into their hand,
// reporting false if the library is empty.
func drawOne(gs *GameState, playerID string) (*Card, bool) {
	id, ok := gs.drawTopLibraryCard(playerID)
	if !ok {
		return nil, false
	}
	card := gs.Cards[id]
	card.Zone = ZoneHand
	return card, true
}

func drawCards(gs *GameState, playerID string, n int) {
	for i := 0; i < n; i++ {
		if _, ok := drawOne(gs, playerID); !ok {
			break
		}
	}
}
