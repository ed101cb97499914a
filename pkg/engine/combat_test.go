package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func combatTestState() *GameState {
	gs := NewGameState("room-1", 1, []string{"p1", "p2"}, []string{"Alice", "Bob"})
	gs.Phase = PhaseCombat
	gs.Step = StepDeclareAttackers
	gs.ActivePlayerID = "p1"
	gs.PriorityPlayerID = "p1"
	gs.TurnCount = 5
	return gs
}

func battlefieldCreatureWithKeywords(gs *GameState, pid, name string, power, toughness int, keywords ...string) *Card {
	c := &Card{InstanceID: gs.NewInstanceID(), Name: name, OwnerID: pid, ControllerID: pid,
		Zone: ZoneBattlefield, Types: []string{"Creature"}, Keywords: keywords,
		BasePower: power, CurrentPower: power, BaseToughness: toughness, CurrentToughness: toughness,
		ControlledSinceTurn: 0}
	gs.Cards[c.InstanceID] = c
	return c
}

func TestDeclareAttackersTapsNonVigilantAttackers(t *testing.T) {
	gs := combatTestState()
	bear := battlefieldCreatureWithKeywords(gs, "p1", "Bear", 2, 2)

	err := DeclareAttackers(gs, "p1", []AttackDeclaration{{AttackerID: bear.InstanceID, TargetID: "p2"}})
	require.NoError(t, err)
	require.True(t, bear.Tapped)
	require.Equal(t, "p2", bear.Attacking)
	require.True(t, gs.AttackersDeclared)
}

func TestDeclareAttackersLeavesAVigilantCreatureUntapped(t *testing.T) {
	gs := combatTestState()
	angel := battlefieldCreatureWithKeywords(gs, "p1", "Angel", 3, 3, "Vigilance")

	require.NoError(t, DeclareAttackers(gs, "p1", []AttackDeclaration{{AttackerID: angel.InstanceID, TargetID: "p2"}}))
	require.False(t, angel.Tapped)
}

func TestDeclareAttackersRejectsASummoningSickCreature(t *testing.T) {
	gs := combatTestState()
	bear := battlefieldCreatureWithKeywords(gs, "p1", "Bear", 2, 2)
	bear.ControlledSinceTurn = gs.TurnCount

	err := DeclareAttackers(gs, "p1", []AttackDeclaration{{AttackerID: bear.InstanceID, TargetID: "p2"}})
	require.Error(t, err)
}

func TestDeclareAttackersRejectsACreatureThatIsNotControlledByTheCaller(t *testing.T) {
	gs := combatTestState()
	theirs := battlefieldCreatureWithKeywords(gs, "p2", "Bear", 2, 2)

	err := DeclareAttackers(gs, "p1", []AttackDeclaration{{AttackerID: theirs.InstanceID, TargetID: "p2"}})
	require.Error(t, err)
}

func TestDeclareAttackersRejectsACallerOutOfTurn(t *testing.T) {
	gs := combatTestState()
	bear := battlefieldCreatureWithKeywords(gs, "p2", "Bear", 2, 2)

	err := DeclareAttackers(gs, "p2", []AttackDeclaration{{AttackerID: bear.InstanceID, TargetID: "p1"}})
	require.Error(t, err)
}

func TestDeclareBlockersEnforcesMenaceRequiresTwoBlockers(t *testing.T) {
	gs := combatTestState()
	attacker := battlefieldCreatureWithKeywords(gs, "p1", "Thug", 3, 3, "Menace")
	attacker.Attacking = "p2"
	blocker := battlefieldCreatureWithKeywords(gs, "p2", "Guard", 2, 2)
	gs.Step = StepDeclareBlockers

	err := DeclareBlockers(gs, "p2", []BlockDeclaration{{BlockerID: blocker.InstanceID, AttackerID: attacker.InstanceID}})
	require.Error(t, err)
}

func TestDeclareBlockersAllowsMenaceWithTwoBlockers(t *testing.T) {
	gs := combatTestState()
	attacker := battlefieldCreatureWithKeywords(gs, "p1", "Thug", 3, 3, "Menace")
	attacker.Attacking = "p2"
	b1 := battlefieldCreatureWithKeywords(gs, "p2", "Guard1", 2, 2)
	b2 := battlefieldCreatureWithKeywords(gs, "p2", "Guard2", 2, 2)
	gs.Step = StepDeclareBlockers

	err := DeclareBlockers(gs, "p2", []BlockDeclaration{
		{BlockerID: b1.InstanceID, AttackerID: attacker.InstanceID},
		{BlockerID: b2.InstanceID, AttackerID: attacker.InstanceID},
	})
	require.NoError(t, err)
	require.True(t, gs.BlockersDeclared)
}

func TestDeclareBlockersRejectsAGroundCreatureBlockingAFlier(t *testing.T) {
	gs := combatTestState()
	attacker := battlefieldCreatureWithKeywords(gs, "p1", "Drake", 2, 2, "Flying")
	attacker.Attacking = "p2"
	blocker := battlefieldCreatureWithKeywords(gs, "p2", "Bear", 3, 3)
	gs.Step = StepDeclareBlockers

	err := DeclareBlockers(gs, "p2", []BlockDeclaration{{BlockerID: blocker.InstanceID, AttackerID: attacker.InstanceID}})
	require.Error(t, err)
}

func TestDeclareBlockersAllowsReachToBlockAFlier(t *testing.T) {
	gs := combatTestState()
	attacker := battlefieldCreatureWithKeywords(gs, "p1", "Drake", 2, 2, "Flying")
	attacker.Attacking = "p2"
	blocker := battlefieldCreatureWithKeywords(gs, "p2", "Spider", 2, 3, "Reach")
	gs.Step = StepDeclareBlockers

	require.NoError(t, DeclareBlockers(gs, "p2", []BlockDeclaration{{BlockerID: blocker.InstanceID, AttackerID: attacker.InstanceID}}))
}

func TestResolveCombatDamageKillsABlockerAndDealsUnblockedDamageToThePlayer(t *testing.T) {
	gs := combatTestState()
	attacker := battlefieldCreatureWithKeywords(gs, "p1", "Ogre", 4, 4)
	attacker.Attacking = "p2"
	blocker := battlefieldCreatureWithKeywords(gs, "p2", "Squirrel", 1, 1)
	blocker.Blocking = []string{attacker.InstanceID}

	unblocked := battlefieldCreatureWithKeywords(gs, "p1", "Raider", 3, 3)
	unblocked.Attacking = "p2"

	startLife := gs.Players["p2"].Life
	ResolveCombatDamage(gs)

	require.Equal(t, ZoneGraveyard, blocker.Zone)
	require.Equal(t, startLife-3, gs.Players["p2"].Life)
}

func TestResolveCombatDamageAppliesTrampleOverflowToThePlayer(t *testing.T) {
	gs := combatTestState()
	attacker := battlefieldCreatureWithKeywords(gs, "p1", "Rhino", 5, 5, "Trample")
	attacker.Attacking = "p2"
	blocker := battlefieldCreatureWithKeywords(gs, "p2", "Squirrel", 1, 1)
	blocker.Blocking = []string{attacker.InstanceID}

	startLife := gs.Players["p2"].Life
	ResolveCombatDamage(gs)

	require.Equal(t, startLife-4, gs.Players["p2"].Life, "5 power minus the blocker's 1 toughness tramples over")
}

func TestResolveCombatDamageGivesFirstStrikeThePriorSubStep(t *testing.T) {
	gs := combatTestState()
	attacker := battlefieldCreatureWithKeywords(gs, "p1", "Knight", 2, 2, "First Strike")
	attacker.Attacking = "p2"
	blocker := battlefieldCreatureWithKeywords(gs, "p2", "Ogre", 2, 2)
	blocker.Blocking = []string{attacker.InstanceID}

	ResolveCombatDamage(gs)

	require.Equal(t, ZoneGraveyard, blocker.Zone)
	require.Equal(t, ZoneBattlefield, attacker.Zone, "the first striker kills its blocker before regular damage returns fire")
}
