package engine

// Clone returns a full structural deep copy of the GameState: no slice,
// map, or pointer is shared between gs and the result. Debug snapshots
// (§4.8) and the Room Dispatcher's pre-action/post-action bookkeeping rely
// on this to guarantee a stored snapshot can never be mutated by a later
// live-state change, the same guarantee this stack's GetStateSnapshot
// gives its callers — expressed here as an explicit clone walker rather
// than reflection, per §9's design note.
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	out := *gs

	out.Players = make(map[string]*Player, len(gs.Players))
	for id, p := range gs.Players {
		pc := *p
		pc.ManaPool = make(map[Color]int, len(p.ManaPool))
		for k, v := range p.ManaPool {
			pc.ManaPool[k] = v
		}
		out.Players[id] = &pc
	}

	out.Cards = make(map[string]*Card, len(gs.Cards))
	for id, c := range gs.Cards {
		out.Cards[id] = c.clone()
	}

	out.Stack = cloneStack(gs.Stack)

	out.TurnOrder = append([]string(nil), gs.TurnOrder...)

	out.LibraryOrder = make(map[string][]string, len(gs.LibraryOrder))
	for owner, order := range gs.LibraryOrder {
		out.LibraryOrder[owner] = append([]string(nil), order...)
	}

	out.Logs = append([]LogEntry(nil), gs.Logs...)
	out.PendingLogs = append([]LogEntry(nil), gs.PendingLogs...)

	if gs.PendingChoice != nil {
		pc := *gs.PendingChoice
		pc.Options = append([]ChoiceOption(nil), gs.PendingChoice.Options...)
		pc.SelectableIDs = append([]string(nil), gs.PendingChoice.SelectableIDs...)
		pc.RevealedCardIDs = append([]string(nil), gs.PendingChoice.RevealedCardIDs...)
		out.PendingChoice = &pc
	}

	if gs.DebugSession != nil {
		ds := *gs.DebugSession
		ds.ActionHistory = append([]PersistedDebugAction(nil), gs.DebugSession.ActionHistory...)
		out.DebugSession = &ds
	}

	out.DelayedTriggers = append([]DelayedTrigger(nil), gs.DelayedTriggers...)
	out.LoyaltyActivated = append([]string(nil), gs.LoyaltyActivated...)

	return &out
}

func (c *Card) clone() *Card {
	cc := *c
	cc.Blocking = append([]string(nil), c.Blocking...)
	cc.Colors = append([]Color(nil), c.Colors...)
	cc.Types = append([]string(nil), c.Types...)
	cc.Subtypes = append([]string(nil), c.Subtypes...)
	cc.Supertypes = append([]string(nil), c.Supertypes...)
	cc.ProducedMana = append([]Color(nil), c.ProducedMana...)
	cc.Counters = append([]Counter(nil), c.Counters...)
	cc.Keywords = append([]string(nil), c.Keywords...)
	cc.Modifiers = append([]Modifier(nil), c.Modifiers...)
	if c.Position != nil {
		p := *c.Position
		cc.Position = &p
	}
	if c.DamageAssignments != nil {
		cc.DamageAssignments = make(map[string]int, len(c.DamageAssignments))
		for k, v := range c.DamageAssignments {
			cc.DamageAssignments[k] = v
		}
	}
	return &cc
}

func cloneStack(stack []*StackItem) []*StackItem {
	out := make([]*StackItem, len(stack))
	for i, item := range stack {
		ic := *item
		ic.Targets = append([]string(nil), item.Targets...)
		ic.ModeIndices = append([]int(nil), item.ModeIndices...)
		if item.Position != nil {
			v := *item.Position
			ic.Position = &v
		}
		if item.FaceIndex != nil {
			v := *item.FaceIndex
			ic.FaceIndex = &v
		}
		if item.ResolutionState != nil {
			rs := *item.ResolutionState
			rs.ChoicesMade = append([]ChoiceResult(nil), item.ResolutionState.ChoicesMade...)
			ic.ResolutionState = &rs
		}
		out[i] = &ic
	}
	return out
}
