package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func handLand(gs *GameState, pid, name string, subtypes ...string) *Card {
	c := &Card{InstanceID: gs.NewInstanceID(), Name: name, OwnerID: pid, ControllerID: pid,
		Zone: ZoneHand, Types: []string{"Land"}, Subtypes: subtypes}
	gs.Cards[c.InstanceID] = c
	return c
}

func handCreature(gs *GameState, pid, name, manaCost string, power, toughness int) *Card {
	c := &Card{InstanceID: gs.NewInstanceID(), Name: name, OwnerID: pid, ControllerID: pid,
		Zone: ZoneHand, Types: []string{"Creature"}, ManaCost: manaCost,
		BasePower: power, CurrentPower: power, BaseToughness: toughness, CurrentToughness: toughness}
	gs.Cards[c.InstanceID] = c
	return c
}

func mainPhaseState(pid string) *GameState {
	gs := NewGameState("room-1", 1, []string{pid, "opp"}, []string{"Alice", "Bob"})
	gs.Phase = PhaseMain1
	gs.Step = StepMain
	gs.ActivePlayerID = pid
	gs.PriorityPlayerID = pid
	return gs
}

func TestPlayLandMovesTheCardAndMarksLandsPlayed(t *testing.T) {
	gs := mainPhaseState("p1")
	land := handLand(gs, "p1", "Forest", "Forest")

	require.NoError(t, PlayLand(gs, "p1", land.InstanceID))
	require.Equal(t, ZoneBattlefield, land.Zone)
	require.Equal(t, 1, gs.LandsPlayedThisTurn)
	require.Equal(t, gs.TurnCount, land.ControlledSinceTurn)
}

func TestPlayLandRejectsASecondLandInTheSameTurn(t *testing.T) {
	gs := mainPhaseState("p1")
	first := handLand(gs, "p1", "Forest", "Forest")
	second := handLand(gs, "p1", "Island", "Island")
	require.NoError(t, PlayLand(gs, "p1", first.InstanceID))

	err := PlayLand(gs, "p1", second.InstanceID)
	require.Error(t, err)
}

func TestPlayLandRejectsACardThatIsNotALand(t *testing.T) {
	gs := mainPhaseState("p1")
	creature := handCreature(gs, "p1", "Bear", "{1}{G}", 2, 2)

	err := PlayLand(gs, "p1", creature.InstanceID)
	require.Error(t, err)
}

func TestPlayLandRejectsACallerWithoutPriority(t *testing.T) {
	gs := mainPhaseState("p1")
	land := handLand(gs, "p1", "Forest", "Forest")

	err := PlayLand(gs, "opp", land.InstanceID)
	require.Error(t, err)
}

func TestCastSpellPaysCostAndPushesTheStack(t *testing.T) {
	gs := mainPhaseState("p1")
	creature := handCreature(gs, "p1", "Bear", "{1}{G}", 2, 2)
	gs.Players["p1"].ManaPool = map[Color]int{ColorGreen: 1}
	land := handLand(gs, "p1", "Forest", "Forest")
	land.Zone = ZoneBattlefield

	require.NoError(t, CastSpell(gs, "p1", creature.InstanceID, nil, nil, nil))
	require.Len(t, gs.Stack, 1)
	require.Equal(t, ZoneStack, creature.Zone)
	require.True(t, land.Tapped, "the generic part of the cost must tap the land")
}

func TestCastSpellFailsWithoutEnoughMana(t *testing.T) {
	gs := mainPhaseState("p1")
	creature := handCreature(gs, "p1", "Bear", "{1}{G}", 2, 2)

	err := CastSpell(gs, "p1", creature.InstanceID, nil, nil, nil)
	require.Error(t, err)
	require.Empty(t, gs.Stack)
	require.Equal(t, ZoneHand, creature.Zone)
}

func TestCastSpellRejectsSorcerySpeedOutsideMainPhaseWithEmptyStack(t *testing.T) {
	gs := mainPhaseState("p1")
	gs.Phase = PhaseCombat
	gs.Step = StepDeclareAttackers
	creature := handCreature(gs, "p1", "Bear", "{1}{G}", 2, 2)
	gs.Players["p1"].ManaPool = map[Color]int{ColorGreen: 1, ColorColorless: 1}

	err := CastSpell(gs, "p1", creature.InstanceID, nil, nil, nil)
	require.Error(t, err)
}

func TestResolveTopStackItemMovesAPermanentSpellToTheBattlefield(t *testing.T) {
	gs := mainPhaseState("p1")
	creature := handCreature(gs, "p1", "Bear", "{1}{G}", 2, 2)
	gs.Players["p1"].ManaPool = map[Color]int{ColorGreen: 1, ColorColorless: 1}
	require.NoError(t, CastSpell(gs, "p1", creature.InstanceID, nil, nil, nil))

	resolveTopStackItem(gs)

	require.Equal(t, ZoneBattlefield, creature.Zone)
	require.Empty(t, gs.Stack)
}

func TestResolveTopStackItemSendsAnInstantToTheGraveyard(t *testing.T) {
	gs := mainPhaseState("p1")
	bolt := &Card{InstanceID: gs.NewInstanceID(), Name: "Shock", OwnerID: "p1", ControllerID: "p1",
		Zone: ZoneHand, Types: []string{"Instant"}, ManaCost: "{R}", OracleText: "Shock deals 2 damage to any target."}
	gs.Cards[bolt.InstanceID] = bolt
	gs.Players["p1"].ManaPool = map[Color]int{ColorRed: 1}

	require.NoError(t, CastSpell(gs, "p1", bolt.InstanceID, []string{"opp"}, nil, nil))
	resolveTopStackItem(gs)

	require.Equal(t, ZoneGraveyard, bolt.Zone)
	require.Equal(t, 18, gs.Players["opp"].Life, "resolving the instant must also apply its damage")
}

func TestActivateAbilityTapsALandForManaWithoutUsingTheStack(t *testing.T) {
	gs := mainPhaseState("p1")
	land := handLand(gs, "p1", "Forest", "Forest")
	land.Zone = ZoneBattlefield

	require.NoError(t, ActivateAbility(gs, "p1", land.InstanceID, 0, nil))
	require.True(t, land.Tapped)
	require.Equal(t, 1, gs.Players["p1"].ManaPool[ColorGreen])
	require.Empty(t, gs.Stack)
}

func TestActivateAbilityRejectsATappedLand(t *testing.T) {
	gs := mainPhaseState("p1")
	land := handLand(gs, "p1", "Forest", "Forest")
	land.Zone = ZoneBattlefield
	land.Tapped = true

	err := ActivateAbility(gs, "p1", land.InstanceID, 0, nil)
	require.Error(t, err)
}

func TestActivateAbilityEnforcesLoyaltyOncePerTurn(t *testing.T) {
	gs := mainPhaseState("p1")
	pw := &Card{InstanceID: gs.NewInstanceID(), Name: "Jace", OwnerID: "p1", ControllerID: "p1",
		Zone: ZoneBattlefield, Types: []string{"Planeswalker"}}
	gs.Cards[pw.InstanceID] = pw

	require.NoError(t, ActivateAbility(gs, "p1", pw.InstanceID, 1, nil))
	err := ActivateAbility(gs, "p1", pw.InstanceID, 1, nil)
	require.Error(t, err)
}

func TestTapCardProducesManaForABasicLand(t *testing.T) {
	gs := mainPhaseState("p1")
	land := handLand(gs, "p1", "Island", "Island")
	land.Zone = ZoneBattlefield

	require.NoError(t, TapCard(gs, land.InstanceID))
	require.True(t, land.Tapped)
	require.Equal(t, 1, gs.Players["p1"].ManaPool[ColorBlue])
}

func TestTapCardIsANoOpOnAnAlreadyTappedCard(t *testing.T) {
	gs := mainPhaseState("p1")
	land := handLand(gs, "p1", "Island", "Island")
	land.Zone = ZoneBattlefield
	land.Tapped = true

	require.NoError(t, TapCard(gs, land.InstanceID))
	require.Equal(t, 0, gs.Players["p1"].ManaPool[ColorBlue])
}

func TestResolveMulliganKeepBottomsTheRightCountOfCards(t *testing.T) {
	gs := NewGameState("room-1", 1, []string{"p1", "p2"}, []string{"Alice", "Bob"})
	var hand []string
	for i := 0; i < 7; i++ {
		c := handCreature(gs, "p1", "Bear", "{1}{G}", 2, 2)
		hand = append(hand, c.InstanceID)
	}
	gs.Players["p1"].MulliganCount = 1

	require.NoError(t, ResolveMulligan(gs, "p1", true, []string{hand[0]}))
	require.True(t, gs.Players["p1"].HandKept)
	require.Equal(t, ZoneLibrary, gs.Cards[hand[0]].Zone)
}

func TestResolveMulliganDeclineShufflesBackAndRedraws(t *testing.T) {
	gs := NewGameState("room-1", 1, []string{"p1", "p2"}, []string{"Alice", "Bob"})
	for i := 0; i < 7; i++ {
		c := handCreature(gs, "p1", "Bear", "{1}{G}", 2, 2)
		c.Zone = ZoneLibrary
		gs.pushToLibraryBottom("p1", c.InstanceID)
	}

	require.NoError(t, ResolveMulligan(gs, "p1", false, nil))
	require.Equal(t, 1, gs.Players["p1"].MulliganCount)
	require.False(t, gs.Players["p1"].HandKept)
}

func TestResolveMulliganRejectsAPlayerWhoAlreadyKept(t *testing.T) {
	gs := NewGameState("room-1", 1, []string{"p1", "p2"}, []string{"Alice", "Bob"})
	gs.Players["p1"].HandKept = true

	err := ResolveMulligan(gs, "p1", true, nil)
	require.Error(t, err)
}

func TestChangeLifeAppliesTheDeltaToTheRightPlayer(t *testing.T) {
	gs := NewGameState("room-1", 1, []string{"p1", "p2"}, []string{"Alice", "Bob"})
	start := gs.Players["p1"].Life

	require.NoError(t, ChangeLife(gs, "p1", -3))
	require.Equal(t, start-3, gs.Players["p1"].Life)
}

func TestAddCounterMergesIntoAnExistingPile(t *testing.T) {
	gs := mainPhaseState("p1")
	creature := handCreature(gs, "p1", "Bear", "{1}{G}", 2, 2)
	creature.Zone = ZoneBattlefield

	require.NoError(t, AddCounter(gs, creature.InstanceID, "+1/+1", 1))
	require.NoError(t, AddCounter(gs, creature.InstanceID, "+1/+1", 2))

	require.Len(t, creature.Counters, 1)
	require.Equal(t, 3, creature.Counters[0].Count)
}

func TestCreateTokenEntersTheBattlefieldUntapped(t *testing.T) {
	gs := mainPhaseState("p1")

	token := CreateToken(gs, "p1", "Soldier", []string{"Creature"}, []string{"Soldier"}, 1, 1)

	require.Equal(t, ZoneBattlefield, token.Zone)
	require.False(t, token.Tapped)
	require.True(t, token.IsToken)
	require.Same(t, token, gs.Cards[token.InstanceID])
}
