package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func seededLibrary(gs *GameState, pid string, n int) {
	for i := 0; i < n; i++ {
		c := &Card{InstanceID: gs.NewInstanceID(), Name: "Filler", OwnerID: pid, ControllerID: pid,
			Zone: ZoneLibrary, Types: []string{"Land"}, Subtypes: []string{"Forest"}}
		gs.Cards[c.InstanceID] = c
		gs.pushToLibraryBottom(pid, c.InstanceID)
	}
}

func TestAdvanceStepDealsOpeningHandsDuringMulligan(t *testing.T) {
	gs := NewGameState("room-1", 1, []string{"p1", "p2"}, []string{"Alice", "Bob"})
	seededLibrary(gs, "p1", 20)
	seededLibrary(gs, "p2", 20)

	AdvanceStep(gs)

	require.Equal(t, PhaseSetup, gs.Phase)
	require.Equal(t, StepMulligan, gs.Step)
	require.Len(t, gs.LibraryOrder["p1"], 13, "7 cards drawn out of a 20 card library")
}

func TestAdvanceStepRunsThroughToDrawOnceEveryHandIsKept(t *testing.T) {
	gs := NewGameState("room-1", 1, []string{"p1", "p2"}, []string{"Alice", "Bob"})
	gs.Players["p1"].HandKept = true
	gs.Players["p2"].HandKept = true

	AdvanceStep(gs)

	require.Equal(t, PhaseBeginning, gs.Phase)
	require.Equal(t, StepDraw, gs.Step)
}

func TestAdvanceStepUntapsOnlyTheActivePlayersPermanents(t *testing.T) {
	gs := NewGameState("room-1", 1, []string{"p1", "p2"}, []string{"Alice", "Bob"})
	gs.Players["p1"].HandKept = true
	gs.Players["p2"].HandKept = true
	gs.Phase = PhaseBeginning
	gs.Step = StepUntap

	mine := &Card{InstanceID: gs.NewInstanceID(), OwnerID: "p1", ControllerID: "p1", Zone: ZoneBattlefield, Tapped: true, Types: []string{"Creature"}}
	theirs := &Card{InstanceID: gs.NewInstanceID(), OwnerID: "p2", ControllerID: "p2", Zone: ZoneBattlefield, Tapped: true, Types: []string{"Creature"}}
	gs.Cards[mine.InstanceID] = mine
	gs.Cards[theirs.InstanceID] = theirs

	AdvanceStep(gs)

	require.False(t, mine.Tapped)
	require.True(t, theirs.Tapped)
}

func TestAdvanceStepSkipsTheDrawStepOnThePlayGoingFirst(t *testing.T) {
	gs := NewGameState("room-1", 1, []string{"p1", "p2"}, []string{"Alice", "Bob"})
	gs.Players["p1"].HandKept = true
	gs.Players["p2"].HandKept = true
	gs.TurnCount = 1
	seededLibrary(gs, "p1", 10)
	gs.Phase = PhaseBeginning
	gs.Step = StepUpkeep

	AdvanceStep(gs)

	require.Len(t, gs.LibraryOrder["p1"], 10, "the first player on the play skips their first draw step")
}

func TestDeclareBlockersSkipIsBypassedWhenThereAreNoAttackers(t *testing.T) {
	gs := NewGameState("room-1", 1, []string{"p1", "p2"}, []string{"Alice", "Bob"})
	gs.Phase = PhaseCombat
	gs.Step = StepDeclareAttackers
	gs.ActivePlayerID = "p1"
	gs.PriorityPlayerID = "p1"

	transitionToNextStep(gs)

	require.Equal(t, PhaseCombat, gs.Phase)
	require.Equal(t, StepEndCombat, gs.Step, "no attackers declared jumps straight past declare_blockers")
}

func TestPassPriorityRotatesToTheNextSeatBeforeEveryoneHasPassed(t *testing.T) {
	gs := mainPhaseState("p1")

	require.NoError(t, PassPriority(gs, "p1"))
	require.Equal(t, "opp", gs.PriorityPlayerID)
	require.True(t, gs.Players["p1"].HasPassed)
}

func TestPassPriorityAdvancesTheStepOnceEverySeatHasPassedWithAnEmptyStack(t *testing.T) {
	gs := mainPhaseState("p1")

	require.NoError(t, PassPriority(gs, "p1"))
	require.NoError(t, PassPriority(gs, "opp"))

	require.Equal(t, PhaseCombat, gs.Phase)
}

func TestPassPriorityResolvesTheStackInsteadOfAdvancingTheStepWhenNonEmpty(t *testing.T) {
	gs := mainPhaseState("p1")
	gs.Stack = append(gs.Stack, &StackItem{ID: "stack-99", ControllerID: "p1", Kind: StackItemAbility, Name: "test ability"})

	require.NoError(t, PassPriority(gs, "p1"))
	require.NoError(t, PassPriority(gs, "opp"))

	require.Empty(t, gs.Stack)
	require.Equal(t, PhaseMain1, gs.Phase, "resolving the stack grants priority again instead of advancing the step")
	require.Equal(t, "p1", gs.PriorityPlayerID)
}

func TestPassPriorityRejectsACallerWhoDoesNotHoldPriority(t *testing.T) {
	gs := mainPhaseState("p1")

	err := PassPriority(gs, "opp")
	require.Error(t, err)
}

func TestAdvanceTurnRotatesTheActiveSeatAndResetsLandDrops(t *testing.T) {
	gs := NewGameState("room-1", 1, []string{"p1", "p2"}, []string{"Alice", "Bob"})
	gs.LandsPlayedThisTurn = 1
	startTurn := gs.TurnCount

	AdvanceTurn(gs)

	require.Equal(t, "p2", gs.ActivePlayerID)
	require.Equal(t, startTurn+1, gs.TurnCount)
	require.Equal(t, 0, gs.LandsPlayedThisTurn)
	require.Equal(t, PhaseBeginning, gs.Phase)
	require.Equal(t, StepUntap, gs.Step)
}

func TestRunDelayedTriggersFiresAOneShotTriggerOnlyOnce(t *testing.T) {
	gs := NewGameState("room-1", 1, []string{"p1", "p2"}, []string{"Alice", "Bob"})
	phase := PhaseMain1
	gs.DelayedTriggers = []DelayedTrigger{{ID: "dt-1", OneShot: true, ControllerID: "p1", EffectTag: "test_trigger", Phase: &phase}}
	gs.Phase = PhaseMain1

	runDelayedTriggers(gs)
	require.Len(t, gs.Stack, 1)
	require.Empty(t, gs.DelayedTriggers)

	gs.Stack = nil
	runDelayedTriggers(gs)
	require.Empty(t, gs.Stack, "a one-shot trigger must not fire twice")
}
