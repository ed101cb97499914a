// Package debug implements the DebugManager: a per-room pause/undo/redo
// session that intercepts pausable dispatcher actions, deep-clones
// GameState before and after execution, and keeps a bounded history for
// step-through replay.
package debug

import (
	"sync"
	"time"

	"github.com/dnviti/mtg-online-web-sub002/pkg/engine"
)

const ringBufferSize = 50

// ActionType tags a dispatcher action by its wire-protocol strict-action
// name, the same identifiers game_strict_action carries over the wire.
type ActionType string

const (
	ActionPlayLand         ActionType = "PLAY_LAND"
	ActionCastSpell        ActionType = "CAST_SPELL"
	ActionActivateAbility  ActionType = "ACTIVATE_ABILITY"
	ActionDeclareAttackers ActionType = "DECLARE_ATTACKERS"
	ActionDeclareBlockers  ActionType = "DECLARE_BLOCKERS"
	ActionAssignDamage     ActionType = "ASSIGN_DAMAGE"
	ActionResolveTopStack  ActionType = "RESOLVE_TOP_STACK"
	ActionMulliganDecision ActionType = "MULLIGAN_DECISION"
	ActionRespondToChoice  ActionType = "RESPOND_TO_CHOICE"
	ActionAddMana          ActionType = "ADD_MANA"
	ActionChangeLife       ActionType = "CHANGE_LIFE"
	ActionDrawCard         ActionType = "DRAW_CARD"
	ActionShuffleLibrary   ActionType = "SHUFFLE_LIBRARY"
	ActionCreateToken      ActionType = "CREATE_TOKEN"
	ActionAddCounter       ActionType = "ADD_COUNTER"
	ActionRemoveCounter    ActionType = "REMOVE_COUNTER"
	ActionTapCard          ActionType = "TAP_CARD"
	ActionMoveCard         ActionType = "MOVE_CARD"
	ActionDeleteCard       ActionType = "DELETE_CARD"
	ActionRestartGame      ActionType = "RESTART_GAME"
	ActionToggleStop       ActionType = "TOGGLE_STOP"
	ActionPassPriority     ActionType = "PASS_PRIORITY"
)

// pauseSet is §4.8's fixed pause-set: every action type that triggers a
// pause-before-execute round trip unless explicitly skipped.
var pauseSet = map[ActionType]bool{
	ActionPlayLand: true, ActionCastSpell: true, ActionActivateAbility: true,
	ActionDeclareAttackers: true, ActionDeclareBlockers: true, ActionAssignDamage: true,
	ActionResolveTopStack: true, ActionMulliganDecision: true, ActionRespondToChoice: true,
	ActionAddMana: true, ActionChangeLife: true, ActionDrawCard: true, ActionShuffleLibrary: true,
	ActionCreateToken: true, ActionAddCounter: true, ActionRemoveCounter: true, ActionTapCard: true,
	ActionMoveCard: true, ActionDeleteCard: true, ActionRestartGame: true, ActionToggleStop: true,
	ActionPassPriority: true,
}

// Snapshot is one recorded pause, holding the full structural clone of
// GameState before and (once committed) after the paused action runs.
type Snapshot struct {
	ActionType          ActionType
	PlayerID            string
	Description         string
	Explanation         string
	DetailedExplanation []string
	AffectedCards       []engine.CardDescriptor
	StateBefore         *engine.GameState
	StateAfter          *engine.GameState
	Timestamp           time.Time
}

// Session is one room's debug session: enablement, pause flag, the
// committed ring buffer, the redo stack, and the in-flight pending
// snapshot (§4.8).
type Session struct {
	mu      sync.Mutex
	Enabled bool
	Paused  bool
	skipSet map[ActionType]bool

	committed []*Snapshot
	undone    []*Snapshot
	pending   *Snapshot
}

// NewSession builds a debug session with debugging disabled; the Room
// Dispatcher toggles Enabled per the DEV_MODE environment flag.
func NewSession() *Session {
	return &Session{skipSet: make(map[ActionType]bool)}
}

// SetEnabled toggles debugging for this session (the debug_toggle event).
func (s *Session) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Enabled = enabled
}

// SetSkip adds or removes actionType from the skip-set, which overrides
// the pause-set when an operator wants certain actions to execute without
// pausing (e.g. bot-driven PASS_PRIORITY during an automated playtest).
func (s *Session) SetSkip(actionType ActionType, skip bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if skip {
		s.skipSet[actionType] = true
	} else {
		delete(s.skipSet, actionType)
	}
}

// IsPaused reports whether this session currently has an action awaiting
// debug_continue/debug_cancel.
func (s *Session) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Paused
}

// ShouldPause reports whether actionType requires a pause-before-execute
// round trip given this session's enablement, the fixed pause-set, and
// any operator-configured skip-set entry.
func (s *Session) ShouldPause(actionType ActionType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Enabled {
		return false
	}
	if s.skipSet[actionType] {
		return false
	}
	return pauseSet[actionType]
}

// BeginPause clones gs into a pending Snapshot's stateBefore, records a
// description/explanation, and emits a PauseEvent payload to the caller
// (§4.8 steps 1-2). The dispatcher must not execute the action until
// Continue or Cancel is called.
func (s *Session) BeginPause(gs *engine.GameState, actionType ActionType, playerID, description string, affected []engine.CardDescriptor) *Snapshot {
	snap := &Snapshot{
		ActionType:          actionType,
		PlayerID:            playerID,
		Description:         description,
		Explanation:         explain(actionType, description),
		DetailedExplanation: detailedExplanation(gs, actionType, description, affected),
		AffectedCards:       affected,
		StateBefore:         gs.Clone(),
		Timestamp:           time.Now(),
	}
	s.mu.Lock()
	s.Paused = true
	s.pending = snap
	s.mu.Unlock()
	return snap
}

// Continue commits the pending snapshot once the dispatcher has actually
// executed the action against gs: it records stateAfter, pushes the
// snapshot onto the ring buffer (trimming past ringBufferSize), clears
// the redo stack, and appends a PersistedDebugAction (§4.8 steps 3, 5).
func (s *Session) Continue(gs *engine.GameState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		s.Paused = false
		return
	}
	snap := s.pending
	snap.StateAfter = gs.Clone()
	s.committed = append(s.committed, snap)
	if len(s.committed) > ringBufferSize {
		s.committed = s.committed[len(s.committed)-ringBufferSize:]
	}
	s.undone = nil
	s.pending = nil
	s.Paused = false

	if gs.DebugSession != nil {
		gs.DebugSession.RecordAction(engine.PersistedDebugAction{
			ActionType:  string(snap.ActionType),
			PlayerID:    snap.PlayerID,
			Timestamp:   snap.Timestamp,
			Description: snap.Description,
		})
	}
}

// Cancel discards the pending snapshot without ever executing the action.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	s.Paused = false
}

// ClearHistory drops the committed and undo stacks, implementing
// debug_clear_history. The pending (in-flight) snapshot, if any, survives.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed = nil
	s.undone = nil
}

// StateEvent is the debug_state outbound payload: a summary of this
// session's enablement and history depth, without the full snapshots
// themselves (those travel individually via debug_pause).
type StateEvent struct {
	Enabled        bool `json:"enabled"`
	Paused         bool `json:"paused"`
	CommittedCount int  `json:"committedCount"`
	UndoneCount    int  `json:"undoneCount"`
}

// State builds the current StateEvent snapshot.
func (s *Session) State() StateEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StateEvent{
		Enabled:        s.Enabled,
		Paused:         s.Paused,
		CommittedCount: len(s.committed),
		UndoneCount:    len(s.undone),
	}
}

// Undo pops the most recently committed snapshot, returning a fresh clone
// of its stateBefore, and moves the snapshot onto the redo stack.
func (s *Session) Undo() (*engine.GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.committed) == 0 {
		return nil, false
	}
	snap := s.committed[len(s.committed)-1]
	s.committed = s.committed[:len(s.committed)-1]
	s.undone = append(s.undone, snap)
	return snap.StateBefore.Clone(), true
}

// Redo pops from the redo stack, returning a fresh clone of its
// stateAfter, and moves the snapshot back onto the committed buffer.
func (s *Session) Redo() (*engine.GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.undone) == 0 {
		return nil, false
	}
	snap := s.undone[len(s.undone)-1]
	s.undone = s.undone[:len(s.undone)-1]
	s.committed = append(s.committed, snap)
	return snap.StateAfter.Clone(), true
}
