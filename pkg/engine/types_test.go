package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasTypeMatchesOneOfTheTypeLineEntries(t *testing.T) {
	c := &Card{Types: []string{"Creature", "Legendary"}}
	require.True(t, c.HasType("Creature"))
	require.False(t, c.HasType("Instant"))
}

func TestHasKeywordMatchesANativeKeyword(t *testing.T) {
	c := &Card{Keywords: []string{"Flying"}}
	require.True(t, c.HasKeyword("Flying"))
	require.False(t, c.HasKeyword("Trample"))
}

func TestHasKeywordMatchesAGrantedAbilityModifier(t *testing.T) {
	c := &Card{Modifiers: []Modifier{{Kind: ModifierAbilityGrant, Payload: "Haste"}}}
	require.True(t, c.HasKeyword("Haste"))
}

func TestHasKeywordIgnoresATypeChangeModifierWithTheSamePayload(t *testing.T) {
	c := &Card{Modifiers: []Modifier{{Kind: ModifierTypeChange, Payload: "Haste"}}}
	require.False(t, c.HasKeyword("Haste"))
}

func TestIsSummoningSickOnTheTurnItEntered(t *testing.T) {
	c := &Card{ControlledSinceTurn: 5}
	require.True(t, c.IsSummoningSick(5))
	require.False(t, c.IsSummoningSick(6))
}

func TestIsSummoningSickIsOverriddenByHaste(t *testing.T) {
	c := &Card{ControlledSinceTurn: 5, Keywords: []string{"Haste"}}
	require.False(t, c.IsSummoningSick(5))
}

func TestDescriptorCarriesTheDisplayFields(t *testing.T) {
	c := &Card{InstanceID: "card-1", Name: "Bear", ImageURL: "http://example.com/bear.png"}
	d := c.Descriptor()
	require.Equal(t, "card-1", d.InstanceID)
	require.Equal(t, "Bear", d.Name)
	require.Equal(t, "http://example.com/bear.png", d.ImageURL)
}
