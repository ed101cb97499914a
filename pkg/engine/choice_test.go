package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateChoiceHandsPriorityToTheChooser(t *testing.T) {
	gs := NewGameState("room-1", 1, []string{"p1", "p2"}, []string{"Alice", "Bob"})
	gs.PriorityPlayerID = "p1"

	choice := CreateChoice(gs, &PendingChoice{Kind: ChoiceYesNo, ChoosingPlayerID: "p2", Prompt: "Scry 1?"})

	require.NotEmpty(t, choice.ID)
	require.Same(t, choice, gs.PendingChoice)
	require.Equal(t, "p2", gs.PriorityPlayerID)
}

func TestRespondToChoiceRejectsAnAnswerFromSomeoneElse(t *testing.T) {
	gs := NewGameState("room-1", 1, []string{"p1", "p2"}, []string{"Alice", "Bob"})
	choice := CreateChoice(gs, &PendingChoice{Kind: ChoiceYesNo, ChoosingPlayerID: "p2"})

	confirmed := true
	err := RespondToChoice(gs, "p1", ChoiceResult{ChoiceID: choice.ID, Confirmed: &confirmed})
	require.Error(t, err)
}

func TestRespondToChoiceRequiresAConfirmedValueForYesNo(t *testing.T) {
	gs := NewGameState("room-1", 1, []string{"p1", "p2"}, []string{"Alice", "Bob"})
	choice := CreateChoice(gs, &PendingChoice{Kind: ChoiceYesNo, ChoosingPlayerID: "p1"})

	err := RespondToChoice(gs, "p1", ChoiceResult{ChoiceID: choice.ID})
	require.Error(t, err)
}

func TestRespondToChoiceClearsThePendingChoiceAndRestoresActivePlayerPriority(t *testing.T) {
	gs := NewGameState("room-1", 1, []string{"p1", "p2"}, []string{"Alice", "Bob"})
	gs.ActivePlayerID = "p1"
	choice := CreateChoice(gs, &PendingChoice{Kind: ChoiceYesNo, ChoosingPlayerID: "p2"})

	confirmed := true
	require.NoError(t, RespondToChoice(gs, "p2", ChoiceResult{ChoiceID: choice.ID, Confirmed: &confirmed}))

	require.Nil(t, gs.PendingChoice)
	require.Equal(t, "p1", gs.PriorityPlayerID)
}

func TestRespondToChoiceAppendsToTheOriginatingStackItemsResolutionState(t *testing.T) {
	gs := NewGameState("room-1", 1, []string{"p1", "p2"}, []string{"Alice", "Bob"})
	item := &StackItem{ID: "stack-1", Kind: StackItemAbility}
	gs.Stack = append(gs.Stack, item)
	choice := CreateChoice(gs, &PendingChoice{Kind: ChoiceYesNo, ChoosingPlayerID: "p2", StackItemID: "stack-1"})

	confirmed := false
	require.NoError(t, RespondToChoice(gs, "p2", ChoiceResult{ChoiceID: choice.ID, Confirmed: &confirmed}))

	require.NotNil(t, item.ResolutionState)
	require.Len(t, item.ResolutionState.ChoicesMade, 1)
}

func TestRespondToChoiceEnforcesNumberRange(t *testing.T) {
	gs := NewGameState("room-1", 1, []string{"p1", "p2"}, []string{"Alice", "Bob"})
	min, max := 1, 3
	choice := CreateChoice(gs, &PendingChoice{Kind: ChoiceNumberSelection, ChoosingPlayerID: "p1", MinValue: &min, MaxValue: &max})

	tooHigh := 5
	err := RespondToChoice(gs, "p1", ChoiceResult{ChoiceID: choice.ID, NumberValue: &tooHigh})
	require.Error(t, err)

	inRange := 2
	require.NoError(t, RespondToChoice(gs, "p1", ChoiceResult{ChoiceID: choice.ID, NumberValue: &inRange}))
}

func TestRespondToChoiceRequiresAPermutationForOrderSelection(t *testing.T) {
	gs := NewGameState("room-1", 1, []string{"p1", "p2"}, []string{"Alice", "Bob"})
	choice := CreateChoice(gs, &PendingChoice{Kind: ChoiceOrderSelection, ChoosingPlayerID: "p1",
		SelectableIDs: []string{"card-1", "card-2"}})

	err := RespondToChoice(gs, "p1", ChoiceResult{ChoiceID: choice.ID, SelectedCardIDs: []string{"card-1", "card-3"}})
	require.Error(t, err)

	require.NoError(t, RespondToChoice(gs, "p1", ChoiceResult{ChoiceID: choice.ID, SelectedCardIDs: []string{"card-2", "card-1"}}))
}

func TestRespondToChoiceEnforcesCardinalityForCardSelection(t *testing.T) {
	gs := NewGameState("room-1", 1, []string{"p1", "p2"}, []string{"Alice", "Bob"})
	choice := CreateChoice(gs, &PendingChoice{Kind: ChoiceCardSelection, ChoosingPlayerID: "p1",
		SelectableIDs: []string{"card-1", "card-2"}, ExactCount: 1})

	err := RespondToChoice(gs, "p1", ChoiceResult{ChoiceID: choice.ID, SelectedCardIDs: []string{"card-1", "card-2"}})
	require.Error(t, err)

	require.NoError(t, RespondToChoice(gs, "p1", ChoiceResult{ChoiceID: choice.ID, SelectedCardIDs: []string{"card-1"}}))
}
