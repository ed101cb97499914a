package engine

import "github.com/decred/slog"

// Engine is the stateless RulesEngine facade (§4.1): a thin dispatch
// surface exposing one method per exogenous action. Every method takes
// the GameState it operates on explicitly; the Engine value itself holds
// nothing but a logger, so a rewrite of any sub-component never needs to
// worry about engine-local state drifting out of sync with the room it
// serves (§9's "do not reintroduce engine-local state").
type Engine struct {
	log slog.Logger
}

// NewEngine builds a facade that logs to the given subsystem logger.
func NewEngine(log slog.Logger) *Engine {
	return &Engine{log: log}
}

// StartGame deals opening hands by running the mulligan step's
// turn-based action and whatever auto-advances follow it.
func (e *Engine) StartGame(gs *GameState) {
	AdvanceStep(gs)
}

func (e *Engine) PassPriority(gs *GameState, pid string) error {
	return PassPriority(gs, pid)
}

func (e *Engine) PlayLand(gs *GameState, pid, cardID string) error {
	return PlayLand(gs, pid, cardID)
}

func (e *Engine) CastSpell(gs *GameState, pid, cardID string, targets []string, position, faceIndex *int) error {
	return CastSpell(gs, pid, cardID, targets, position, faceIndex)
}

func (e *Engine) ActivateAbility(gs *GameState, pid, sourceID string, abilityIndex int, targets []string) error {
	return ActivateAbility(gs, pid, sourceID, abilityIndex, targets)
}

func (e *Engine) TapCard(gs *GameState, cardID string) error {
	return TapCard(gs, cardID)
}

func (e *Engine) DeclareAttackers(gs *GameState, pid string, decls []AttackDeclaration) error {
	return DeclareAttackers(gs, pid, decls)
}

func (e *Engine) DeclareBlockers(gs *GameState, pid string, decls []BlockDeclaration) error {
	return DeclareBlockers(gs, pid, decls)
}

func (e *Engine) ResolveMulligan(gs *GameState, pid string, keep bool, cardsToBottom []string) error {
	return ResolveMulligan(gs, pid, keep, cardsToBottom)
}

func (e *Engine) CreateToken(gs *GameState, ownerID, name string, types, subtypes []string, power, toughness int) *Card {
	return CreateToken(gs, ownerID, name, types, subtypes, power, toughness)
}

func (e *Engine) AddCounter(gs *GameState, cardID, counterType string, count int) error {
	return AddCounter(gs, cardID, counterType, count)
}

func (e *Engine) AddMana(gs *GameState, pid string, color Color, amount int) error {
	return AddMana(gs, pid, color, amount)
}

func (e *Engine) MoveCardToZone(gs *GameState, cardID string, toZone Zone, faceDown bool, position *Position, faceIndex *int) error {
	return MoveCardToZone(gs, cardID, toZone, faceDown, position, faceIndex)
}

func (e *Engine) DrawCard(gs *GameState, pid string) error {
	return DrawCard(gs, pid)
}

func (e *Engine) ChangeLife(gs *GameState, pid string, delta int) error {
	return ChangeLife(gs, pid, delta)
}

// ResolveTopStack exposes §4.3's resolveTopStack as a facade method; it is
// a no-op on an empty stack rather than an error (resolveTopStackItem
// returns early when the stack is empty).
func (e *Engine) ResolveTopStack(gs *GameState) {
	resolveTopStackItem(gs)
}

// RestartGame implements the RESTART_GAME action and the Restart
// testable property: every non-token card returns to its owner's library,
// every player resets to life 20 with an empty mana pool and handKept
// false, tokens vanish, and turnCount resets to 1.
func (e *Engine) RestartGame(gs *GameState) {
	for id, c := range gs.Cards {
		if c.IsToken {
			delete(gs.Cards, id)
			continue
		}
		c.Zone = ZoneLibrary
		c.Tapped = false
		c.FaceDown = false
		c.Attacking = ""
		c.Blocking = nil
		c.AttachedTo = ""
		c.DamageMarked = 0
		c.Counters = nil
		c.Modifiers = nil
		c.CurrentPower = c.BasePower
		c.CurrentToughness = c.BaseToughness
		c.CurrentLoyalty = c.BaseLoyalty
		c.CurrentDefense = c.BaseDefense
		c.ControlledSinceTurn = 0
		c.ControllerID = c.OwnerID
	}

	gs.LibraryOrder = make(map[string][]string, len(gs.Players))
	for _, pid := range gs.TurnOrder {
		var order []string
		for id, c := range gs.Cards {
			if c.OwnerID == pid {
				order = append(order, id)
			}
		}
		gs.LibraryOrder[pid] = order
		gs.ShuffleLibrary(pid)
	}

	for _, p := range gs.Players {
		p.Life = 20
		p.Poison = 0
		p.Energy = 0
		p.HasPassed = false
		p.HandKept = false
		p.MulliganCount = 0
		p.ManaPool = make(map[Color]int)
	}

	gs.Stack = nil
	gs.TurnCount = 1
	gs.Phase = PhaseSetup
	gs.Step = StepMulligan
	gs.PassedPriorityCount = 0
	gs.LandsPlayedThisTurn = 0
	gs.AttackersDeclared = false
	gs.BlockersDeclared = false
	gs.PendingChoice = nil
	gs.DelayedTriggers = nil
	gs.LoyaltyActivated = nil
	if len(gs.TurnOrder) > 0 {
		gs.ActivePlayerID = gs.TurnOrder[0]
		gs.PriorityPlayerID = gs.TurnOrder[0]
		for _, p := range gs.Players {
			p.IsActive = p.ID == gs.ActivePlayerID
		}
	}
	gs.appendLog(LogInfo, LogCategorySystem, "", "the game is restarted")
}
