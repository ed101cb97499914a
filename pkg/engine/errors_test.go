package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRuleErrorExposesItsKindForCallersToSwitchOn(t *testing.T) {
	err := errInsufficientMana(ColorRed)

	var ruleErr *RuleError
	require.True(t, errors.As(err, &ruleErr))
	require.Equal(t, ErrInsufficientMana, ruleErr.Kind)
	require.Equal(t, ColorRed, ruleErr.Color)
}

func TestRuleErrorFallsBackToItsKindWhenMessageIsEmpty(t *testing.T) {
	err := &RuleError{Kind: ErrUnknownAction}
	require.Equal(t, string(ErrUnknownAction), err.Error())
}

func TestRuleErrorUnwrapsItsCause(t *testing.T) {
	cause := errors.New("boom")
	err := &RuleError{Kind: ErrCardNotFound, Cause: cause}
	require.ErrorIs(t, err, cause)
}
