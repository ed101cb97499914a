package debug

import (
	"testing"

	"github.com/dnviti/mtg-online-web-sub002/pkg/engine"
	"github.com/stretchr/testify/require"
)

func TestExplainCombinesTheActionTypeAndDescription(t *testing.T) {
	require.Equal(t, "PLAY_LAND: plays Forest", explain(ActionPlayLand, "plays Forest"))
}

func TestDetailedExplanationSurfacesKeywordsFromAffectedCards(t *testing.T) {
	gs := testGameState()
	card := &engine.Card{InstanceID: "card-1", Name: "Drake", OracleText: "Flying"}
	gs.Cards["card-1"] = card

	lines := detailedExplanation(gs, ActionDeclareAttackers, "Drake attacks", []engine.CardDescriptor{{InstanceID: "card-1", Name: "Drake"}})

	require.Contains(t, lines, "Drake has keyword Flying")
}

func TestDetailedExplanationSurfacesClassifiedEffects(t *testing.T) {
	gs := testGameState()
	card := &engine.Card{InstanceID: "card-1", Name: "Shock", OracleText: "Shock deals 2 damage to any target."}
	gs.Cards["card-1"] = card

	lines := detailedExplanation(gs, ActionCastSpell, "casts Shock", []engine.CardDescriptor{{InstanceID: "card-1", Name: "Shock"}})

	require.Contains(t, lines, "Shock's ability classifies as damage")
}

func TestDetailedExplanationIgnoresAReferenceToAMissingCard(t *testing.T) {
	gs := testGameState()

	lines := detailedExplanation(gs, ActionCastSpell, "casts a mystery", []engine.CardDescriptor{{InstanceID: "missing", Name: "???"}})

	require.Contains(t, lines, "stack depth after this step: 0")
}

func TestDetailedExplanationReportsTheCurrentStackDepth(t *testing.T) {
	gs := testGameState()
	gs.Stack = append(gs.Stack, &engine.StackItem{ID: "stack-1"})

	lines := detailedExplanation(gs, ActionCastSpell, "casts Bear", nil)

	require.Equal(t, "stack depth after this step: 1", lines[len(lines)-1])
}
