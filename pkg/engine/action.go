package engine

import "fmt"

// grantPriorityAfterAction implements the ActionHandler's priority-reset
// rule: after any stack push or battlefield change, the active player
// receives priority and every hasPassed flag clears.
func grantPriorityAfterAction(gs *GameState) {
	resetPassFlags(gs)
	gs.PriorityPlayerID = gs.ActivePlayerID
}

// PlayLand implements §4.3's playLand.
func PlayLand(gs *GameState, pid, cardID string) error {
	if gs.PriorityPlayerID != pid {
		return errNotYourPriority(pid)
	}
	if gs.Phase != PhaseMain1 && gs.Phase != PhaseMain2 {
		return errWrongStep(StepMain, gs.Step)
	}
	if len(gs.Stack) > 0 {
		return errStackNotEmpty()
	}
	if gs.LandsPlayedThisTurn > 0 {
		return newRuleError(ErrWrongStep, "a land has already been played this turn")
	}
	card, ok := gs.Cards[cardID]
	if !ok {
		return errCardNotFound(cardID)
	}
	if card.Zone != ZoneHand || card.OwnerID != pid {
		return errCardNotInZone(cardID, ZoneHand)
	}
	if !card.HasType("Land") {
		return errInvalidTarget(cardID)
	}

	moveCardToZone(gs, card, ZoneBattlefield)
	card.ControlledSinceTurn = gs.TurnCount
	gs.LandsPlayedThisTurn++
	raiseTrigger(gs, card.InstanceID, pid, "landfall")
	grantPriorityAfterAction(gs)
	gs.appendLog(LogAction, LogCategoryAction, pid, card.Name+" is played as a land", card.Descriptor())
	return nil
}

// CastSpell implements §4.3's castSpell: sorcery-speed gating, mana
// payment, and pushing a spell StackItem.
func CastSpell(gs *GameState, pid, cardID string, targets []string, position, faceIndex *int) error {
	if gs.PriorityPlayerID != pid {
		return errNotYourPriority(pid)
	}
	card, ok := gs.Cards[cardID]
	if !ok {
		return errCardNotFound(cardID)
	}
	if card.Zone != ZoneHand || card.OwnerID != pid {
		return errCardNotInZone(cardID, ZoneHand)
	}
	if card.HasType("Sorcery") || card.HasType("Creature") || card.HasType("Artifact") ||
		card.HasType("Enchantment") || card.HasType("Planeswalker") {
		if !(pid == gs.ActivePlayerID && (gs.Phase == PhaseMain1 || gs.Phase == PhaseMain2) && len(gs.Stack) == 0) {
			return newRuleError(ErrWrongStep, "sorcery-speed spells require an empty stack during your main phase")
		}
	}

	cost, err := ParseManaCost(card.ManaCost)
	if err != nil {
		return err
	}
	if err := PayManaCost(gs, pid, cost); err != nil {
		return err
	}

	item := &StackItem{
		ID:           gs.nextStackItemID(),
		SourceCardID: card.InstanceID,
		ControllerID: pid,
		Kind:         StackItemSpell,
		Name:         card.Name,
		Text:         card.OracleText,
		Targets:      append([]string(nil), targets...),
		Position:     position,
		FaceIndex:    faceIndex,
	}
	gs.Stack = append(gs.Stack, item)
	card.Zone = ZoneStack
	grantPriorityAfterAction(gs)
	gs.appendLog(LogAction, LogCategoryAction, pid, card.Name+" is cast", card.Descriptor())
	return nil
}

// ActivateAbility implements §4.3's activateAbility. Ability index 0 on a
// mana-producing land is treated as a mana ability and resolves
// immediately without using the stack; loyalty abilities enforce the
// once-per-turn and sorcery-speed restrictions; everything else becomes an
// ability StackItem.
func ActivateAbility(gs *GameState, pid, sourceID string, abilityIndex int, targets []string) error {
	if gs.PriorityPlayerID != pid {
		return errNotYourPriority(pid)
	}
	source, ok := gs.Cards[sourceID]
	if !ok {
		return errCardNotFound(sourceID)
	}
	if source.Zone != ZoneBattlefield || source.ControllerID != pid {
		return errCardNotInZone(sourceID, ZoneBattlefield)
	}

	if source.HasType("Planeswalker") {
		for _, id := range gs.LoyaltyActivated {
			if id == sourceID {
				return newRuleError(ErrWrongStep, "loyalty ability already activated this turn")
			}
		}
		if !(pid == gs.ActivePlayerID && (gs.Phase == PhaseMain1 || gs.Phase == PhaseMain2) && len(gs.Stack) == 0) {
			return newRuleError(ErrWrongStep, "loyalty abilities are sorcery-speed only")
		}
		gs.LoyaltyActivated = append(gs.LoyaltyActivated, sourceID)
	}

	if source.HasType("Land") && abilityIndex == 0 {
		if source.Tapped {
			return errInvalidTarget(sourceID)
		}
		colors := AvailableManaColors(source)
		if len(colors) == 0 {
			return errInvalidTarget(sourceID)
		}
		source.Tapped = true
		gs.Players[pid].ManaPool[colors[0]]++
		gs.appendLog(LogAction, LogCategoryAction, pid, source.Name+" taps for mana", source.Descriptor())
		return nil
	}

	item := &StackItem{
		ID:           gs.nextStackItemID(),
		SourceCardID: sourceID,
		ControllerID: pid,
		Kind:         StackItemAbility,
		Name:         fmt.Sprintf("%s ability %d", source.Name, abilityIndex),
		ModeIndices:  []int{abilityIndex},
		Targets:      append([]string(nil), targets...),
	}
	gs.Stack = append(gs.Stack, item)
	grantPriorityAfterAction(gs)
	gs.appendLog(LogAction, LogCategoryAction, pid, source.Name+"'s ability is activated", source.Descriptor())
	return nil
}

// resolveTopStackItem implements §4.3's resolveTopStack: pops the top
// item, applies its effect, moves permanents to the battlefield and
// instants/sorceries to the graveyard, and sweeps state-based actions. A
// modal item that still needs a player choice suspends resolution instead
// of popping — it reports false so the caller knows not to hand priority
// back to the active player yet.
func resolveTopStackItem(gs *GameState) bool {
	if len(gs.Stack) == 0 {
		return false
	}
	item := gs.Stack[len(gs.Stack)-1]

	if suspendForChoice(gs, item) {
		return false
	}

	gs.Stack = gs.Stack[:len(gs.Stack)-1]
	applyResolvedEffect(gs, item)

	if source, ok := gs.Cards[item.SourceCardID]; ok && item.Kind == StackItemSpell {
		if source.HasType("Creature") || source.HasType("Artifact") ||
			source.HasType("Enchantment") || source.HasType("Planeswalker") {
			moveCardToZone(gs, source, ZoneBattlefield)
			source.ControlledSinceTurn = gs.TurnCount
			raiseTrigger(gs, source.InstanceID, item.ControllerID, "enters the battlefield")
		} else {
			moveCardToZone(gs, source, ZoneGraveyard)
		}
	}

	gs.appendLog(LogAction, LogCategoryAction, item.SourceCardID, item.Name+" resolves")
	performCombatStateBasedActions(gs)
	return true
}

// moveCardToZone is the single zone-move primitive (§4.3): it clears
// battlefield-only state when leaving the battlefield, deletes tokens that
// leave it entirely, and otherwise relocates the card and logs the move.
func moveCardToZone(gs *GameState, c *Card, toZone Zone) {
	fromZone := c.Zone
	leavingBattlefield := fromZone == ZoneBattlefield && toZone != ZoneBattlefield

	if leavingBattlefield {
		c.Tapped = false
		c.Attacking = ""
		c.Blocking = nil
		c.AttachedTo = ""
		c.DamageMarked = 0
		c.Modifiers = nil
	}

	if c.IsToken && leavingBattlefield {
		delete(gs.Cards, c.InstanceID)
		removeFromLibraryOrder(gs, c.OwnerID, c.InstanceID)
		gs.appendLog(LogZone, LogCategoryStateBased, c.InstanceID, c.Name+" ceases to exist", c.Descriptor())
		return
	}

	c.Zone = toZone
	switch toZone {
	case ZoneLibrary:
		gs.pushToLibraryBottom(c.OwnerID, c.InstanceID)
	case ZoneBattlefield:
		c.ControllerID = c.OwnerID
	}

	gs.appendLog(LogZone, LogCategoryAction, c.InstanceID,
		fmt.Sprintf("%s moves from %s to %s", c.Name, fromZone, toZone), c.Descriptor())
}

// MoveCardToZone is the exported, id-addressed form of moveCardToZone for
// callers outside the engine package (the Room Dispatcher replaying a
// debug undo, the ChoiceHandler relocating a selected card).
func MoveCardToZone(gs *GameState, cardID string, toZone Zone, faceDown bool, position *Position, faceIndex *int) error {
	c, ok := gs.Cards[cardID]
	if !ok {
		return errCardNotFound(cardID)
	}
	moveCardToZone(gs, c, toZone)
	c.FaceDown = faceDown
	if position != nil {
		c.Position = position
	}
	if faceIndex != nil {
		c.ActiveFaceIndex = *faceIndex
	}
	return nil
}

func removeFromLibraryOrder(gs *GameState, ownerID, instanceID string) {
	order := gs.LibraryOrder[ownerID]
	for i, id := range order {
		if id == instanceID {
			gs.LibraryOrder[ownerID] = append(order[:i], order[i+1:]...)
			return
		}
	}
}

// DrawCard implements §4.3's drawCard: an empty library schedules a
// loss-on-draw state-based action rather than failing outright.
func DrawCard(gs *GameState, pid string) error {
	if _, ok := gs.Players[pid]; !ok {
		return newRuleError(ErrCardNotFound, "no such player %s", pid)
	}
	if _, ok := drawOne(gs, pid); !ok {
		gs.DelayedTriggers = append(gs.DelayedTriggers, DelayedTrigger{
			ID:           gs.nextChoiceID(),
			OneShot:      true,
			ControllerID: pid,
			EffectTag:    "loss_empty_library_draw",
		})
		gs.appendLog(LogError, LogCategoryStateBased, pid, "drew from an empty library")
	}
	return nil
}

// ChangeLife implements §4.3's changeLife.
func ChangeLife(gs *GameState, pid string, delta int) error {
	player, ok := gs.Players[pid]
	if !ok {
		return newRuleError(ErrCardNotFound, "no such player %s", pid)
	}
	player.Life += delta
	severity := LogInfo
	if delta < 0 {
		severity = LogCombat
	}
	gs.appendLog(severity, LogCategoryAction, pid, fmt.Sprintf("%s's life changes by %d (now %d)", player.Name, delta, player.Life))
	return nil
}

// AddMana implements the facade's addMana primitive: a direct mutator onto
// a player's mana pool, used by effects that grant mana outside the
// tap-for-mana path.
func AddMana(gs *GameState, pid string, color Color, amount int) error {
	player, ok := gs.Players[pid]
	if !ok {
		return newRuleError(ErrCardNotFound, "no such player %s", pid)
	}
	player.ManaPool[color] += amount
	gs.appendLog(LogAction, LogCategoryAction, pid, fmt.Sprintf("%s's mana pool gains %d %s", player.Name, amount, color))
	return nil
}

// ResolveMulligan implements the MULLIGAN_DECISION action (§8 scenario 2):
// keep=true bottoms mulliganCount cards and marks the hand kept; keep=false
// shuffles the hand back and redraws 7 under the London mulligan rule.
func ResolveMulligan(gs *GameState, pid string, keep bool, cardsToBottom []string) error {
	if gs.Step != StepMulligan {
		return errMulliganNotActive()
	}
	player, ok := gs.Players[pid]
	if !ok {
		return newRuleError(ErrCardNotFound, "no such player %s", pid)
	}
	if player.HandKept {
		return errAlreadyKept(pid)
	}

	if !keep {
		player.MulliganCount++
		for _, c := range gs.Cards {
			if c.Zone == ZoneHand && c.OwnerID == pid {
				moveCardToZone(gs, c, ZoneLibrary)
			}
		}
		gs.ShuffleLibrary(pid)
		drawCards(gs, pid, 7)
		gs.appendLog(LogInfo, LogCategoryAction, pid, player.Name+" takes a mulligan")
		return nil
	}

	for i := 0; i < player.MulliganCount && i < len(cardsToBottom); i++ {
		if c, ok := gs.Cards[cardsToBottom[i]]; ok && c.Zone == ZoneHand && c.OwnerID == pid {
			moveCardToZone(gs, c, ZoneLibrary)
		}
	}
	player.HandKept = true
	gs.appendLog(LogInfo, LogCategoryAction, pid, player.Name+" keeps their hand")
	AdvanceStep(gs)
	return nil
}

// AddCounter implements §4.3's addCounter, merging into an existing
// counter pile of the same type rather than creating a duplicate entry.
func AddCounter(gs *GameState, cardID, counterType string, count int) error {
	c, ok := gs.Cards[cardID]
	if !ok {
		return errCardNotFound(cardID)
	}
	for i := range c.Counters {
		if c.Counters[i].Type == counterType {
			c.Counters[i].Count += count
			gs.appendLog(LogAction, LogCategoryAction, cardID, fmt.Sprintf("%s gets a %s counter", c.Name, counterType), c.Descriptor())
			return nil
		}
	}
	c.Counters = append(c.Counters, Counter{Type: counterType, Count: count})
	gs.appendLog(LogAction, LogCategoryAction, cardID, fmt.Sprintf("%s gets a %s counter", c.Name, counterType), c.Descriptor())
	return nil
}

// CreateToken implements §4.3's createToken.
func CreateToken(gs *GameState, ownerID, name string, types, subtypes []string, power, toughness int) *Card {
	card := &Card{
		InstanceID:          gs.nextInstanceID(),
		Name:                name,
		OwnerID:             ownerID,
		ControllerID:        ownerID,
		Zone:                ZoneBattlefield,
		Types:               append([]string(nil), types...),
		Subtypes:            append([]string(nil), subtypes...),
		BasePower:           power,
		CurrentPower:        power,
		BaseToughness:       toughness,
		CurrentToughness:    toughness,
		ControlledSinceTurn: gs.TurnCount,
		IsToken:             true,
	}
	gs.Cards[card.InstanceID] = card
	gs.appendLog(LogAction, LogCategoryAction, card.InstanceID, name+" token enters the battlefield", card.Descriptor())
	return card
}

// TapCard implements §4.3's tapCard. Tapping a basic land is an auto-mana
// action: it adds one mana of the land's produced color to its
// controller's pool instead of merely flipping the tapped flag.
func TapCard(gs *GameState, cardID string) error {
	c, ok := gs.Cards[cardID]
	if !ok {
		return errCardNotFound(cardID)
	}
	if c.Zone != ZoneBattlefield {
		return errCardNotInZone(cardID, ZoneBattlefield)
	}
	if c.Tapped {
		return nil
	}
	c.Tapped = true
	for _, sub := range c.Subtypes {
		if color, ok := landProducedColors[sub]; ok {
			gs.Players[c.ControllerID].ManaPool[color]++
			gs.appendLog(LogAction, LogCategoryAction, cardID, c.Name+" taps for mana", c.Descriptor())
			return nil
		}
	}
	gs.appendLog(LogAction, LogCategoryAction, cardID, c.Name+" taps", c.Descriptor())
	return nil
}
