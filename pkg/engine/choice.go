package engine

import "sort"

// CreateChoice implements §4.6's createChoice: allocates a PendingChoice,
// stores it on the GameState, and hands priority to the chooser while the
// triggering stack item stays suspended on top of the stack.
func CreateChoice(gs *GameState, choice *PendingChoice) *PendingChoice {
	choice.ID = gs.nextChoiceID()
	gs.PendingChoice = choice
	gs.PriorityPlayerID = choice.ChoosingPlayerID
	return choice
}

// RespondToChoice implements §4.6's respondToChoice: validates the answer
// against the pending choice's kind and cardinality, records it on the
// originating stack item's resolution state, and clears the suspension so
// resolution can re-enter the stack item.
func RespondToChoice(gs *GameState, pid string, result ChoiceResult) error {
	pending := gs.PendingChoice
	if pending == nil {
		return errChoiceMismatch()
	}
	if pid != pending.ChoosingPlayerID {
		return errChoiceMismatch()
	}
	if result.ChoiceID != pending.ID {
		return errChoiceMismatch()
	}
	if err := validateChoiceResult(pending, result); err != nil {
		return err
	}

	for i := len(gs.Stack) - 1; i >= 0; i-- {
		if gs.Stack[i].ID == pending.StackItemID {
			item := gs.Stack[i]
			if item.ResolutionState == nil {
				item.ResolutionState = &ResolutionState{}
			}
			item.ResolutionState.ChoicesMade = append(item.ResolutionState.ChoicesMade, result)
			break
		}
	}

	gs.PendingChoice = nil
	resetPassFlags(gs)
	gs.PriorityPlayerID = gs.ActivePlayerID
	gs.appendLog(LogInfo, LogCategoryAction, pending.ChoosingPlayerID, "a pending choice is answered")
	return nil
}

func validateChoiceResult(pending *PendingChoice, result ChoiceResult) error {
	switch pending.Kind {
	case ChoiceYesNo:
		if result.Confirmed == nil {
			return errChoiceInvalid("a yes/no choice requires a confirmed value")
		}
		return nil
	case ChoiceNumberSelection:
		if result.NumberValue == nil {
			return errChoiceInvalid("a number choice requires a numberValue")
		}
		v := *result.NumberValue
		if pending.MinValue != nil && v < *pending.MinValue {
			return errChoiceInvalid("value below the allowed minimum")
		}
		if pending.MaxValue != nil && v > *pending.MaxValue {
			return errChoiceInvalid("value above the allowed maximum")
		}
		return nil
	case ChoiceOrderSelection:
		if !isPermutationOf(result.SelectedCardIDs, pending.SelectableIDs) {
			return errChoiceInvalid("ordering must be a permutation of the selectable ids")
		}
		return nil
	default:
		selected := result.SelectedOptionIDs
		if len(result.SelectedCardIDs) > 0 {
			selected = result.SelectedCardIDs
		}
		if err := validateCardinality(pending, len(selected)); err != nil {
			return err
		}
		if len(pending.SelectableIDs) > 0 {
			for _, id := range selected {
				if !containsString(pending.SelectableIDs, id) {
					return errChoiceInvalid("selected id is not among the selectable ids")
				}
			}
		}
		return nil
	}
}

func validateCardinality(pending *PendingChoice, count int) error {
	if pending.ExactCount > 0 && count != pending.ExactCount {
		return errChoiceInvalid("selection count does not match the required exact count")
	}
	if count < pending.MinCount {
		return errChoiceInvalid("selection count is below the required minimum")
	}
	if pending.MaxCount > 0 && count > pending.MaxCount {
		return errChoiceInvalid("selection count is above the allowed maximum")
	}
	return nil
}

func containsString(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

func isPermutationOf(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sa := append([]string(nil), a...)
	sb := append([]string(nil), b...)
	sort.Strings(sa)
	sort.Strings(sb)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}
