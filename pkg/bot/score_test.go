package bot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dnviti/mtg-online-web-sub002/pkg/engine"
)

func newTestState(t *testing.T) *engine.GameState {
	t.Helper()
	return engine.NewGameState("room-1", 42, []string{"bot", "human"}, []string{"Bot", "Human"})
}

func TestScoreCreatureKeywordBonuses(t *testing.T) {
	base := &engine.Card{Types: []string{"Creature"}, BasePower: 2, CurrentPower: 2, BaseToughness: 2, CurrentToughness: 2}
	flyer := &engine.Card{Types: []string{"Creature"}, BasePower: 2, CurrentPower: 2, BaseToughness: 2, CurrentToughness: 2, Keywords: []string{"Flying"}}

	require.Greater(t, scoreCreature(flyer), scoreCreature(base))
}

func TestScoreCreatureCMCPenalty(t *testing.T) {
	cheap := &engine.Card{Types: []string{"Creature"}, ManaCost: "{1}", BasePower: 2, CurrentPower: 2, BaseToughness: 2, CurrentToughness: 2}
	expensive := &engine.Card{Types: []string{"Creature"}, ManaCost: "{6}", BasePower: 2, CurrentPower: 2, BaseToughness: 2, CurrentToughness: 2}

	require.Greater(t, scoreCreature(cheap), scoreCreature(expensive))
}

func TestScoreCardDestroySpellWeighsThreat(t *testing.T) {
	gs := newTestState(t)
	threat := &engine.Card{InstanceID: "c-threat", Name: "Big Beast", OwnerID: "human", ControllerID: "human", Zone: engine.ZoneBattlefield,
		Types: []string{"Creature"}, BasePower: 5, CurrentPower: 5, BaseToughness: 5, CurrentToughness: 5}
	gs.Cards[threat.InstanceID] = threat

	removal := &engine.Card{OracleText: "Destroy target creature."}
	require.Greater(t, ScoreCard(gs, "bot", removal), 8.0)
}

func TestIsBoardWipeDetectsDestroyAll(t *testing.T) {
	wipe := &engine.Card{OracleText: "Destroy all creatures."}
	require.True(t, isBoardWipe(wipe))

	single := &engine.Card{OracleText: "Destroy target creature."}
	require.False(t, isBoardWipe(single))
}

func TestIsSorcerySpeedCard(t *testing.T) {
	require.True(t, isSorcerySpeedCard(&engine.Card{Types: []string{"Sorcery"}}))
	require.True(t, isSorcerySpeedCard(&engine.Card{Types: []string{"Creature"}}))
	require.False(t, isSorcerySpeedCard(&engine.Card{Types: []string{"Instant"}}))
}
