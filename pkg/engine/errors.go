package engine

import "fmt"

// ErrorKind tags a RuleError the way this stack's callers switch on a
// small closed set of failure variants instead of comparing error strings.
type ErrorKind string

const (
	ErrNotYourPriority ErrorKind = "NotYourPriority"
	ErrWrongStep       ErrorKind = "WrongStep"
	ErrStackNotEmpty   ErrorKind = "StackNotEmpty"
	ErrNotYourTurn     ErrorKind = "NotYourTurn"

	ErrCardNotFound  ErrorKind = "CardNotFound"
	ErrCardNotInZone ErrorKind = "CardNotInZone"
	ErrInvalidTarget ErrorKind = "InvalidTarget"

	ErrInsufficientMana     ErrorKind = "InsufficientMana"
	ErrInvalidManaCostString ErrorKind = "InvalidManaCostString"

	ErrMulliganNotActive ErrorKind = "MulliganNotActive"
	ErrAlreadyKept       ErrorKind = "AlreadyKept"

	ErrChoiceMismatch ErrorKind = "ChoiceMismatch"
	ErrChoiceInvalid  ErrorKind = "ChoiceInvalid"

	ErrLockUnavailable ErrorKind = "LockUnavailable"
	ErrUnknownAction   ErrorKind = "UnknownAction"
)

// RuleError is the tagged-variant error type every RulesEngine method
// returns on a failed precondition. Kind lets callers (the dispatcher, the
// bot loop, tests) branch on the failure without string matching.
type RuleError struct {
	Kind    ErrorKind
	Message string
	Color   Color  // set for ErrInsufficientMana
	Reason  string // set for ErrChoiceInvalid
	Cause   error
}

func (e *RuleError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

func (e *RuleError) Unwrap() error { return e.Cause }

func newRuleError(kind ErrorKind, format string, args ...any) *RuleError {
	return &RuleError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func errNotYourPriority(pid string) *RuleError {
	return newRuleError(ErrNotYourPriority, "player %s does not hold priority", pid)
}

func errWrongStep(want, got Step) *RuleError {
	return newRuleError(ErrWrongStep, "expected step %s, got %s", want, got)
}

func errStackNotEmpty() *RuleError {
	return newRuleError(ErrStackNotEmpty, "the stack is not empty")
}

func errNotYourTurn(pid string) *RuleError {
	return newRuleError(ErrNotYourTurn, "it is not player %s's turn", pid)
}

func errCardNotFound(id string) *RuleError {
	return newRuleError(ErrCardNotFound, "no card with instance id %s", id)
}

func errCardNotInZone(id string, zone Zone) *RuleError {
	return newRuleError(ErrCardNotInZone, "card %s is not in zone %s", id, zone)
}

func errInvalidTarget(id string) *RuleError {
	return newRuleError(ErrInvalidTarget, "%s is not a legal target", id)
}

func errInsufficientMana(color Color) *RuleError {
	e := newRuleError(ErrInsufficientMana, "insufficient mana to pay %s", color)
	e.Color = color
	return e
}

func errInvalidManaCostString(s string) *RuleError {
	return newRuleError(ErrInvalidManaCostString, "invalid mana cost string %q", s)
}

func errMulliganNotActive() *RuleError {
	return newRuleError(ErrMulliganNotActive, "mulligans are not active")
}

func errAlreadyKept(pid string) *RuleError {
	return newRuleError(ErrAlreadyKept, "player %s already kept their hand", pid)
}

func errChoiceMismatch() *RuleError {
	return newRuleError(ErrChoiceMismatch, "choice id does not match the pending choice")
}

func errChoiceInvalid(reason string) *RuleError {
	e := newRuleError(ErrChoiceInvalid, "invalid choice response: %s", reason)
	e.Reason = reason
	return e
}

func errUnknownAction(actionType string) *RuleError {
	return newRuleError(ErrUnknownAction, "unknown action type %q", actionType)
}
