package room

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/decred/slog"

	"github.com/dnviti/mtg-online-web-sub002/pkg/bot"
	"github.com/dnviti/mtg-online-web-sub002/pkg/debug"
	"github.com/dnviti/mtg-online-web-sub002/pkg/engine"
	"github.com/dnviti/mtg-online-web-sub002/pkg/store"
)

// Broadcaster fans a named event out to every live subscriber of a room;
// the transport layer implements this over its websocket hub.
type Broadcaster interface {
	Broadcast(roomID, event string, payload interface{})
}

// MetricsRecorder is the subset of pkg/metrics.Metrics the dispatcher
// reports through; nil is a valid Dispatcher.metrics (no-op).
type MetricsRecorder interface {
	ObserveAction(actionType string, start time.Time, err error)
	IncBotActions()
	IncDebugPauses()
}

// StrictAction is the decoded payload of a game_strict_action frame
// (§6): a closed set of rules-engine operations, each using only the
// fields it needs.
type StrictAction struct {
	Type          debug.ActionType    `json:"type"`
	PlayerID      string              `json:"playerId"`
	CardID        string              `json:"cardId,omitempty"`
	SourceID      string              `json:"sourceId,omitempty"`
	Color         engine.Color        `json:"color,omitempty"`
	Amount        int                 `json:"amount,omitempty"`
	Delta         int                 `json:"delta,omitempty"`
	Targets       []string            `json:"targets,omitempty"`
	Position      *int                `json:"position,omitempty"`
	FaceIndex     *int                `json:"faceIndex,omitempty"`
	AbilityIndex  int                 `json:"abilityIndex,omitempty"`
	Attackers     []engine.AttackDeclaration `json:"attackers,omitempty"`
	Blockers      []engine.BlockDeclaration  `json:"blockers,omitempty"`
	Keep          bool                `json:"keep,omitempty"`
	CardsToBottom []string            `json:"cardsToBottom,omitempty"`
	ChoiceResult  *engine.ChoiceResult `json:"choiceResult,omitempty"`
	CounterType   string              `json:"counterType,omitempty"`
	Count         int                 `json:"count,omitempty"`
	ToZone        engine.Zone         `json:"toZone,omitempty"`
	FaceDown      bool                `json:"faceDown,omitempty"`
	TokenName     string              `json:"tokenName,omitempty"`
	TokenTypes    []string            `json:"tokenTypes,omitempty"`
	TokenSubtypes []string            `json:"tokenSubtypes,omitempty"`
	TokenPower    int                 `json:"tokenPower,omitempty"`
	TokenToughness int                `json:"tokenToughness,omitempty"`
}

// pendingDebugAction is what BeginPause captures so a later
// debug_continue/debug_cancel can actually run (or discard) the action.
type pendingDebugAction struct {
	snapshot *debug.Snapshot
	apply    func(*engine.GameState) error
}

// Dispatcher is the Room Dispatcher: one exclusive per-room lock cycle
// per inbound action, with the debug pause/undo/redo session layered on
// top (§4.8-§4.9).
type Dispatcher struct {
	st    store.Store
	eng   *engine.Engine
	bcast Broadcaster
	log   slog.Logger

	mu                  sync.Mutex
	sessions            map[string]*debug.Session
	pending             map[string]*pendingDebugAction
	metrics             MetricsRecorder
	defaultDebugEnabled bool
}

// SetDefaultDebugEnabled controls whether newly created room sessions
// start with debugging enabled (the DEV_MODE environment flag).
func (d *Dispatcher) SetDefaultDebugEnabled(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.defaultDebugEnabled = enabled
}

// NewDispatcher builds a Dispatcher over the given Store, Engine facade,
// and room broadcaster.
func NewDispatcher(st store.Store, eng *engine.Engine, bcast Broadcaster, log slog.Logger) *Dispatcher {
	return &Dispatcher{
		st:       st,
		eng:      eng,
		bcast:    bcast,
		log:      log,
		sessions: make(map[string]*debug.Session),
		pending:  make(map[string]*pendingDebugAction),
	}
}

// SetMetrics attaches a MetricsRecorder; may be called once at startup.
func (d *Dispatcher) SetMetrics(m MetricsRecorder) {
	d.metrics = m
}

func (d *Dispatcher) session(roomID string) *debug.Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.sessions[roomID]
	if !ok {
		s = debug.NewSession()
		s.SetEnabled(d.defaultDebugEnabled)
		d.sessions[roomID] = s
	}
	return s
}

// SetDebugEnabled implements debug_toggle.
func (d *Dispatcher) SetDebugEnabled(roomID string, enabled bool) {
	d.session(roomID).SetEnabled(enabled)
}

func newLockToken() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// withLock acquires lock:game:<roomId>, loads GameState, runs fn, and on
// a nil error saves the (possibly mutated) state back before releasing
// the lock — the load/validate/mutate/save/release/broadcast cycle of
// §4.9, with broadcast happening inside fn while the lock is still held.
func (d *Dispatcher) withLock(ctx context.Context, roomID string, fn func(gs *engine.GameState) error) error {
	token := newLockToken()
	if err := d.st.AcquireLock(ctx, roomID, token); err != nil {
		return err
	}
	defer func() {
		if err := d.st.ReleaseLock(ctx, roomID, token); err != nil {
			d.log.Warnf("release lock for room %s: %v", roomID, err)
		}
	}()

	data, err := d.st.LoadGame(ctx, roomID)
	if err != nil {
		return err
	}
	gs := &engine.GameState{}
	if err := json.Unmarshal(data, gs); err != nil {
		return fmt.Errorf("room: decode game state: %w", err)
	}

	if err := fn(gs); err != nil {
		return err
	}

	out, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("room: encode game state: %w", err)
	}
	return d.st.SaveGame(ctx, roomID, out)
}

// Dispatch is the main entry point for a decoded game_strict_action. It
// either executes the action immediately, or — when the debug session is
// enabled and this action type is pausable — snapshots state, emits
// debug_pause, and defers execution to ContinueDebugAction.
func (d *Dispatcher) Dispatch(ctx context.Context, roomID string, action StrictAction) error {
	sess := d.session(roomID)
	start := time.Now()

	err := d.withLock(ctx, roomID, func(gs *engine.GameState) error {
		description, affected := describeAction(gs, action)

		apply := func(gs *engine.GameState) error {
			return applyAction(d.eng, gs, action)
		}

		if sess.ShouldPause(action.Type) {
			snap := sess.BeginPause(gs, action.Type, action.PlayerID, description, affected)
			d.mu.Lock()
			d.pending[roomID] = &pendingDebugAction{snapshot: snap, apply: apply}
			d.mu.Unlock()
			d.bcast.Broadcast(roomID, "debug_pause", snap)
			if d.metrics != nil {
				d.metrics.IncDebugPauses()
			}
			return errPauseDeferred
		}

		if err := apply(gs); err != nil {
			d.bcast.Broadcast(roomID, "game_error", map[string]string{"message": err.Error(), "userId": action.PlayerID})
			return err
		}
		d.finishAction(roomID, gs)
		return nil
	})
	if err == errPauseDeferred {
		if d.metrics != nil {
			d.metrics.ObserveAction(string(action.Type), start, nil)
		}
		return nil
	}
	if d.metrics != nil {
		d.metrics.ObserveAction(string(action.Type), start, err)
	}
	return err
}

// errPauseDeferred signals withLock to stop without saving (the state is
// unmutated), without being treated as an action failure by callers other
// than the pause path itself.
var errPauseDeferred = fmt.Errorf("room: action deferred to debug pause")

// ContinueDebugAction implements debug_continue: it runs the previously
// captured action, commits the debug snapshot, and resumes the normal
// finish-action flow (save, broadcast, bot loop).
func (d *Dispatcher) ContinueDebugAction(ctx context.Context, roomID, snapshotID string) error {
	d.mu.Lock()
	pd, ok := d.pending[roomID]
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("room: no pending debug action for room %s", roomID)
	}

	sess := d.session(roomID)
	return d.withLock(ctx, roomID, func(gs *engine.GameState) error {
		if err := pd.apply(gs); err != nil {
			d.bcast.Broadcast(roomID, "game_error", map[string]string{"message": err.Error()})
			return err
		}
		sess.Continue(gs)
		d.mu.Lock()
		delete(d.pending, roomID)
		d.mu.Unlock()
		d.finishAction(roomID, gs)
		return nil
	})
}

// CancelDebugAction implements debug_cancel: the pending action never
// runs and GameState is left untouched.
func (d *Dispatcher) CancelDebugAction(roomID, snapshotID string) {
	d.session(roomID).Cancel()
	d.mu.Lock()
	delete(d.pending, roomID)
	d.mu.Unlock()
}

// ClearDebugHistory implements debug_clear_history.
func (d *Dispatcher) ClearDebugHistory(roomID string) {
	d.session(roomID).ClearHistory()
}

// DebugState implements debug_state.
func (d *Dispatcher) DebugState(roomID string) debug.StateEvent {
	return d.session(roomID).State()
}

// Undo implements debug_undo.
func (d *Dispatcher) Undo(ctx context.Context, roomID string) error {
	sess := d.session(roomID)
	return d.withLock(ctx, roomID, func(gs *engine.GameState) error {
		restored, ok := sess.Undo()
		if !ok {
			return fmt.Errorf("room: nothing to undo for room %s", roomID)
		}
		*gs = *restored
		d.bcast.Broadcast(roomID, "game_update", map[string]interface{}{"roomId": roomID, "game": gs})
		return nil
	})
}

// Redo implements debug_redo.
func (d *Dispatcher) Redo(ctx context.Context, roomID string) error {
	sess := d.session(roomID)
	return d.withLock(ctx, roomID, func(gs *engine.GameState) error {
		restored, ok := sess.Redo()
		if !ok {
			return fmt.Errorf("room: nothing to redo for room %s", roomID)
		}
		*gs = *restored
		d.bcast.Broadcast(roomID, "game_update", map[string]interface{}{"roomId": roomID, "game": gs})
		return nil
	})
}

// finishAction drains pending logs, broadcasts the update, and — while
// still holding the room's lock — runs the bot loop if the new priority
// holder is a bot and no debug pause is active (§4.9's last sentence).
func (d *Dispatcher) finishAction(roomID string, gs *engine.GameState) {
	if len(gs.PendingLogs) > 0 {
		d.bcast.Broadcast(roomID, "game_log", map[string]interface{}{"logs": gs.PendingLogs})
		gs.PendingLogs = nil
	}
	d.bcast.Broadcast(roomID, "game_update", map[string]interface{}{"roomId": roomID, "game": gs})

	sess := d.session(roomID)
	if player, ok := gs.Players[gs.PriorityPlayerID]; ok && player.IsBot && !sess.IsPaused() {
		bot.RunLoop(d.eng, gs, gs.PriorityPlayerID)
		if d.metrics != nil {
			d.metrics.IncBotActions()
		}
		if len(gs.PendingLogs) > 0 {
			d.bcast.Broadcast(roomID, "game_log", map[string]interface{}{"logs": gs.PendingLogs})
			gs.PendingLogs = nil
		}
		d.bcast.Broadcast(roomID, "game_update", map[string]interface{}{"roomId": roomID, "game": gs})
	}
}
