package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// applyResolvedEffect implements the effect half of §4.3's resolveTopStack:
// where the permanent/instant zone move only relocates the source card,
// this walks the hints Parse extracts from the stack item's oracle text
// and actually mutates state — dealing damage, drawing cards, destroying a
// target, gaining life, or countering a targeted spell. Parse itself stays
// pure per §9; only this dispatch mutates the GameState.
func applyResolvedEffect(gs *GameState, item *StackItem) {
	for _, hint := range Parse(item.Text) {
		switch hint.EffectTag {
		case EffectDamage:
			dealDirectDamage(gs, item, hint.Amount)
		case EffectDraw:
			n := hint.Amount
			if n <= 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				DrawCard(gs, item.ControllerID)
			}
		case EffectGainLife:
			ChangeLife(gs, item.ControllerID, hint.Amount)
		case EffectDestroy:
			for _, targetID := range item.Targets {
				if c, ok := gs.Cards[targetID]; ok && c.Zone == ZoneBattlefield {
					moveCardToZone(gs, c, ZoneGraveyard)
				}
			}
		case EffectCounterSpell:
			counterTargetSpell(gs, item)
		}
	}
}

// dealDirectDamage applies hint.Amount of damage to every target recorded
// on the stack item, reusing the combat damage log shape (assignDamageToTarget)
// since a burn spell and a blocking creature assign damage the same way.
func dealDirectDamage(gs *GameState, item *StackItem, amount int) {
	if amount <= 0 {
		return
	}
	source, ok := gs.Cards[item.SourceCardID]
	if !ok {
		return
	}
	for _, targetID := range item.Targets {
		if c, ok := gs.Cards[targetID]; ok && c.Zone == ZoneBattlefield && c.HasType("Creature") {
			c.DamageMarked += amount
			continue
		}
		assignDamageToTarget(gs, targetID, amount, source)
	}
	performCombatStateBasedActions(gs)
}

// counterTargetSpell removes the stack item named by item.Targets[0] (a
// spell's own stack item id, not a card or player id) and sends its source
// to the graveyard without resolving it.
func counterTargetSpell(gs *GameState, item *StackItem) {
	if len(item.Targets) == 0 {
		return
	}
	targetID := item.Targets[0]
	for i, si := range gs.Stack {
		if si.ID != targetID {
			continue
		}
		gs.Stack = append(gs.Stack[:i], gs.Stack[i+1:]...)
		if source, ok := gs.Cards[si.SourceCardID]; ok {
			moveCardToZone(gs, source, ZoneGraveyard)
		}
		gs.appendLog(LogAction, LogCategoryAction, item.SourceCardID, si.Name+" is countered")
		return
	}
}

var modalChooseOneRe = regexp.MustCompile(`(?i)choose one\s*[—\-]\s*(.+)`)

// parseModes splits a "Choose one — mode; or mode; or mode." sentence into
// its individual effect texts, or returns nil when text isn't modal.
func parseModes(text string) []string {
	m := modalChooseOneRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	raw := strings.TrimSuffix(strings.TrimSpace(m[1]), ".")
	var modes []string
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, "or ")
		part = strings.TrimSpace(part)
		if part != "" {
			modes = append(modes, part)
		}
	}
	return modes
}

// suspendForChoice implements §4.6's choice-driven resolution: a modal
// "choose one" stack item creates a mode_selection PendingChoice the first
// time it's examined, and — once a mode requiring a target is chosen
// without one pre-bound at cast time — a second target_selection choice.
// It reports whether resolution must pause; when it returns false, item.Text
// has been narrowed to the chosen mode so applyResolvedEffect parses the
// right sentence.
func suspendForChoice(gs *GameState, item *StackItem) bool {
	modes := parseModes(item.Text)
	if modes == nil {
		return false
	}

	rs := item.ResolutionState
	if rs == nil || len(rs.ChoicesMade) == 0 {
		options := make([]ChoiceOption, len(modes))
		ids := make([]string, len(modes))
		for i, m := range modes {
			id := fmt.Sprintf("mode_%d", i)
			options[i] = ChoiceOption{ID: id, Label: m}
			ids[i] = id
		}
		CreateChoice(gs, &PendingChoice{
			Kind:                ChoiceModeSelection,
			StackItemID:         item.ID,
			SourceName:          item.Name,
			SourceText:          item.Text,
			ChoosingPlayerID:    item.ControllerID,
			ControllingPlayerID: item.ControllerID,
			Prompt:              "choose one",
			Options:             options,
			SelectableIDs:       ids,
			ExactCount:          1,
		})
		resetPassFlags(gs)
		return true
	}

	modeIdx := modeIndexFromChoice(rs.ChoicesMade[0], len(modes))
	effectText := modes[modeIdx]
	tag := ClassifyEffect(effectText)
	needsTarget := tag == EffectDamage || tag == EffectDestroy

	if needsTarget && len(item.Targets) == 0 {
		if len(rs.ChoicesMade) < 2 {
			CreateChoice(gs, &PendingChoice{
				Kind:                ChoiceTargetSelection,
				StackItemID:         item.ID,
				SourceName:          item.Name,
				SourceText:          effectText,
				ChoosingPlayerID:    item.ControllerID,
				ControllingPlayerID: item.ControllerID,
				Prompt:              "choose a target",
				MinCount:            1,
				MaxCount:            1,
				ExactCount:          1,
			})
			resetPassFlags(gs)
			return true
		}
		item.Targets = targetsFromChoice(rs.ChoicesMade[1])
	}

	item.Text = effectText
	return false
}

func modeIndexFromChoice(result ChoiceResult, numModes int) int {
	id := ""
	switch {
	case len(result.SelectedOptionIDs) > 0:
		id = result.SelectedOptionIDs[0]
	case len(result.SelectedCardIDs) > 0:
		id = result.SelectedCardIDs[0]
	}
	if n, err := strconv.Atoi(strings.TrimPrefix(id, "mode_")); err == nil && n >= 0 && n < numModes {
		return n
	}
	return 0
}

func targetsFromChoice(result ChoiceResult) []string {
	if len(result.SelectedCardIDs) > 0 {
		return append([]string(nil), result.SelectedCardIDs...)
	}
	return append([]string(nil), result.SelectedOptionIDs...)
}
