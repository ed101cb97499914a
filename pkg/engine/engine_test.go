package engine

import (
	"testing"

	"github.com/decred/slog"
	"github.com/stretchr/testify/require"
)

func TestStartGameDealsOpeningHandsViaAdvanceStep(t *testing.T) {
	e := NewEngine(slog.Disabled)
	gs := NewGameState("room-1", 1, []string{"p1", "p2"}, []string{"Alice", "Bob"})
	seededLibrary(gs, "p1", 20)
	seededLibrary(gs, "p2", 20)

	e.StartGame(gs)

	require.Len(t, gs.LibraryOrder["p1"], 13)
	require.Equal(t, StepMulligan, gs.Step)
}

func TestRestartGameReturnsEveryNonTokenCardToItsLibrary(t *testing.T) {
	e := NewEngine(slog.Disabled)
	gs := NewGameState("room-1", 1, []string{"p1", "p2"}, []string{"Alice", "Bob"})
	gs.TurnCount = 9
	gs.Phase = PhaseCombat
	gs.Players["p1"].Life = 3
	gs.Players["p1"].HandKept = true

	land := handLand(gs, "p1", "Forest", "Forest")
	land.Zone = ZoneBattlefield
	land.Tapped = true
	token := CreateToken(gs, "p1", "Spirit", []string{"Creature"}, nil, 1, 1)

	e.RestartGame(gs)

	require.Equal(t, ZoneLibrary, land.Zone)
	require.False(t, land.Tapped)
	require.NotContains(t, gs.Cards, token.InstanceID, "tokens must not survive a restart")
	require.Equal(t, 20, gs.Players["p1"].Life)
	require.False(t, gs.Players["p1"].HandKept)
	require.Equal(t, 1, gs.TurnCount)
	require.Equal(t, PhaseSetup, gs.Phase)
	require.Equal(t, StepMulligan, gs.Step)
}

func TestRestartGamePopulatesLibraryOrderFromOwnedCards(t *testing.T) {
	e := NewEngine(slog.Disabled)
	gs := NewGameState("room-1", 1, []string{"p1", "p2"}, []string{"Alice", "Bob"})
	handCreature(gs, "p1", "Bear", "{1}{G}", 2, 2)
	handCreature(gs, "p1", "Wolf", "{1}{G}", 2, 2)

	e.RestartGame(gs)

	require.Len(t, gs.LibraryOrder["p1"], 2)
}
