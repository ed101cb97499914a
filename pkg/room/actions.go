package room

import (
	"fmt"

	"github.com/dnviti/mtg-online-web-sub002/pkg/debug"
	"github.com/dnviti/mtg-online-web-sub002/pkg/engine"
)

// applyAction runs the one rules-engine operation action.Type names
// against gs, translating StrictAction fields into the matching Engine
// method call.
func applyAction(eng *engine.Engine, gs *engine.GameState, action StrictAction) error {
	switch action.Type {
	case debug.ActionPassPriority:
		return eng.PassPriority(gs, action.PlayerID)
	case debug.ActionPlayLand:
		return eng.PlayLand(gs, action.PlayerID, action.CardID)
	case debug.ActionCastSpell:
		return eng.CastSpell(gs, action.PlayerID, action.CardID, action.Targets, action.Position, action.FaceIndex)
	case debug.ActionActivateAbility:
		return eng.ActivateAbility(gs, action.PlayerID, action.SourceID, action.AbilityIndex, action.Targets)
	case debug.ActionAddMana:
		return eng.AddMana(gs, action.PlayerID, action.Color, action.Amount)
	case debug.ActionDeclareAttackers:
		return eng.DeclareAttackers(gs, action.PlayerID, action.Attackers)
	case debug.ActionDeclareBlockers:
		return eng.DeclareBlockers(gs, action.PlayerID, action.Blockers)
	case debug.ActionMulliganDecision:
		return eng.ResolveMulligan(gs, action.PlayerID, action.Keep, action.CardsToBottom)
	case debug.ActionRespondToChoice:
		if action.ChoiceResult == nil {
			return fmt.Errorf("room: RESPOND_TO_CHOICE requires a choiceResult")
		}
		return engine.RespondToChoice(gs, action.PlayerID, *action.ChoiceResult)
	case debug.ActionTapCard:
		return eng.TapCard(gs, action.CardID)
	case debug.ActionDrawCard:
		return eng.DrawCard(gs, action.PlayerID)
	case debug.ActionCreateToken:
		eng.CreateToken(gs, action.PlayerID, action.TokenName, action.TokenTypes, action.TokenSubtypes, action.TokenPower, action.TokenToughness)
		return nil
	case debug.ActionAddCounter:
		return eng.AddCounter(gs, action.CardID, action.CounterType, action.Count)
	case debug.ActionChangeLife:
		return eng.ChangeLife(gs, action.PlayerID, action.Delta)
	case debug.ActionResolveTopStack:
		eng.ResolveTopStack(gs)
		return nil
	case debug.ActionRestartGame:
		eng.RestartGame(gs)
		return nil
	default:
		return fmt.Errorf("room: unsupported strict action type %q", action.Type)
	}
}

// describeAction builds the human-readable description and affected-card
// list DebugManager attaches to a pause snapshot (§4.8), computed before
// the action runs so it still makes sense if the action is later
// cancelled.
func describeAction(gs *engine.GameState, action StrictAction) (string, []engine.CardDescriptor) {
	var affected []engine.CardDescriptor
	addCard := func(id string) {
		if c, ok := gs.Cards[id]; ok {
			affected = append(affected, c.Descriptor())
		}
	}

	switch action.Type {
	case debug.ActionPlayLand:
		addCard(action.CardID)
		return fmt.Sprintf("%s plays a land", action.PlayerID), affected
	case debug.ActionCastSpell:
		addCard(action.CardID)
		return fmt.Sprintf("%s casts a spell", action.PlayerID), affected
	case debug.ActionActivateAbility:
		addCard(action.SourceID)
		return fmt.Sprintf("%s activates an ability", action.PlayerID), affected
	case debug.ActionDeclareAttackers:
		for _, a := range action.Attackers {
			addCard(a.AttackerID)
		}
		return fmt.Sprintf("%s declares attackers", action.PlayerID), affected
	case debug.ActionDeclareBlockers:
		for _, b := range action.Blockers {
			addCard(b.BlockerID)
		}
		return fmt.Sprintf("%s declares blockers", action.PlayerID), affected
	case debug.ActionTapCard, debug.ActionAddCounter:
		addCard(action.CardID)
		return fmt.Sprintf("%s affects a card", action.PlayerID), affected
	case debug.ActionCreateToken:
		return fmt.Sprintf("%s creates a token", action.PlayerID), affected
	default:
		return fmt.Sprintf("%s: %s", action.PlayerID, action.Type), affected
	}
}
