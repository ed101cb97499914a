package transport

import (
	"context"
	"sync"

	"github.com/decred/slog"

	"github.com/dnviti/mtg-online-web-sub002/pkg/engine"
	"github.com/dnviti/mtg-online-web-sub002/pkg/room"
	"github.com/dnviti/mtg-online-web-sub002/pkg/store"
)

// Router decodes inbound Envelopes and drives the lobby (Room) and game
// (room.Dispatcher) layers, the handler-per-message-type dispatch this
// stack's websocket handler uses, generalized from a switch-on-type in
// one file to the event set of §6.
type Router struct {
	hub        *Hub
	st         store.Store
	eng        *engine.Engine
	dispatcher *room.Dispatcher
	log        slog.Logger

	mu    sync.Mutex
	rooms map[string]*room.Room
}

// NewRouter builds a Router over the given store/engine/dispatcher/hub.
func NewRouter(hub *Hub, st store.Store, eng *engine.Engine, dispatcher *room.Dispatcher, log slog.Logger) *Router {
	return &Router{
		hub:        hub,
		st:         st,
		eng:        eng,
		dispatcher: dispatcher,
		log:        log,
		rooms:      make(map[string]*room.Room),
	}
}

// Dispatch routes one decoded inbound frame to its handler.
func (r *Router) Dispatch(c *Client, env Envelope) {
	ctx := context.Background()
	var err error
	switch env.Event {
	case "create_room":
		err = r.handleCreateRoom(ctx, c, env)
	case "join_room":
		err = r.handleJoinRoom(ctx, c, env, false)
	case "rejoin_room":
		err = r.handleJoinRoom(ctx, c, env, true)
	case "leave_room":
		err = r.handleLeaveRoom(ctx, c, env)
	case "send_message":
		err = r.handleSendMessage(ctx, c, env)
	case "start_game":
		err = r.handleStartGame(ctx, c, env)
	case "start_draft":
		err = r.handleStartDraft(ctx, c, env)
	case "start_solo_test":
		err = r.handleStartSoloTest(ctx, c, env)
	case "pick_card":
		err = r.handlePickCard(ctx, c, env)
	case "player_ready":
		err = r.handlePlayerReady(ctx, c, env)
	case "game_action":
		err = r.handleGameAction(ctx, c, env)
	case "game_strict_action":
		err = r.handleStrictAction(ctx, c, env)
	case "debug_toggle":
		err = r.handleDebugToggle(c, env)
	case "debug_continue":
		err = r.handleDebugContinue(ctx, c, env)
	case "debug_cancel":
		err = r.handleDebugCancel(c, env)
	case "debug_undo":
		err = r.dispatcher.Undo(ctx, c.RoomID())
	case "debug_redo":
		err = r.dispatcher.Redo(ctx, c.RoomID())
	case "debug_clear_history":
		r.dispatcher.ClearDebugHistory(c.RoomID())
	default:
		r.hub.Send(c, "game_error", map[string]string{"message": "unknown event: " + env.Event})
		return
	}
	if err != nil {
		r.hub.Send(c, "game_error", map[string]string{"message": err.Error(), "userId": c.PlayerID()})
	}
}
