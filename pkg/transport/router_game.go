package transport

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dnviti/mtg-online-web-sub002/pkg/room"
)

type startGamePayload struct {
	RoomID string               `json:"roomId"`
	Decks  map[string]room.Deck `json:"decks"`
	Seed   int64                `json:"seed,omitempty"`
}

// handleStartGame implements start_game: it builds a fresh GameState from
// the submitted decklists, persists it, flips the room into the playing
// lifecycle status, and broadcasts both updates.
func (r *Router) handleStartGame(ctx context.Context, c *Client, env Envelope) error {
	var p startGamePayload
	if err := decode(env, &p); err != nil {
		return err
	}
	rm, ok := r.getRoom(p.RoomID)
	if !ok {
		return fmt.Errorf("transport: room %s not found", p.RoomID)
	}

	gs := room.BuildGameState(r.eng, rm.ID, p.Seed, rm.Seats, p.Decks)
	data, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("transport: encode game state: %w", err)
	}
	if err := r.st.SaveGame(ctx, rm.ID, data); err != nil {
		return err
	}

	rm.Status = room.StatusPlaying
	rm.HasGame = true
	if err := r.putRoom(ctx, rm); err != nil {
		return err
	}

	r.hub.Broadcast(rm.ID, "room_update", map[string]interface{}{"room": rm})
	r.hub.Broadcast(rm.ID, "game_update", map[string]interface{}{"roomId": rm.ID, "game": gs})
	return nil
}

type startDraftPayload struct {
	RoomID string `json:"roomId"`
}

// handleStartDraft implements start_draft. A full booster-draft subsystem
// is outside this core's scope (§1's browser-UI/deck-builder non-goal
// extends to the draft picker); this transitions the room's lifecycle
// status and lets deck-building proceed against whatever pool the client
// already assembled.
func (r *Router) handleStartDraft(ctx context.Context, c *Client, env Envelope) error {
	var p startDraftPayload
	if err := decode(env, &p); err != nil {
		return err
	}
	rm, ok := r.getRoom(p.RoomID)
	if !ok {
		return fmt.Errorf("transport: room %s not found", p.RoomID)
	}
	rm.Status = room.StatusDrafting
	if err := r.putRoom(ctx, rm); err != nil {
		return err
	}
	r.hub.Broadcast(rm.ID, "room_update", map[string]interface{}{"room": rm})
	return nil
}

type pickCardPayload struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
	CardID   string `json:"cardId"`
}

// handlePickCard implements pick_card: it records the pick as a chat-style
// notification (the draft pool itself is client/oracle-side state, not
// part of the authoritative core).
func (r *Router) handlePickCard(ctx context.Context, c *Client, env Envelope) error {
	var p pickCardPayload
	if err := decode(env, &p); err != nil {
		return err
	}
	r.hub.Broadcast(p.RoomID, "game_notification", map[string]string{
		"message": p.PlayerID + " picked a card",
		"type":    "draft_pick",
	})
	return nil
}

type playerReadyPayload struct {
	RoomID string    `json:"roomId"`
	Deck   room.Deck `json:"deck"`
}

// handlePlayerReady implements player_ready: the deck-building handoff
// marks this connection's player ready to proceed to start_game with the
// submitted decklist retained for later lookup.
func (r *Router) handlePlayerReady(ctx context.Context, c *Client, env Envelope) error {
	var p playerReadyPayload
	if err := decode(env, &p); err != nil {
		return err
	}
	data, err := json.Marshal(p.Deck)
	if err != nil {
		return fmt.Errorf("transport: encode deck for %s: %w", c.PlayerID(), err)
	}
	if err := r.st.SaveDecks(ctx, c.PlayerID(), data); err != nil {
		return err
	}
	rm, ok := r.getRoom(p.RoomID)
	if ok {
		rm.Status = room.StatusDeckBuilding
		if err := r.putRoom(ctx, rm); err != nil {
			return err
		}
		r.hub.Broadcast(rm.ID, "room_update", map[string]interface{}{"room": rm})
	}
	return nil
}

type startSoloTestPayload struct {
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Deck       room.Deck `json:"deck"`
}

// handleStartSoloTest implements start_solo_test: a single-player sandbox
// room against a bot-controlled second seat, for quickly exercising the
// rules engine without a second human.
func (r *Router) handleStartSoloTest(ctx context.Context, c *Client, env Envelope) error {
	var p startSoloTestPayload
	if err := decode(env, &p); err != nil {
		return err
	}

	rm := room.NewRoom(newClientID(), p.PlayerID, p.PlayerName, "solo")
	rm.Seats = append(rm.Seats, room.Seat{PlayerID: "bot-" + rm.ID, PlayerName: "Bot", Connected: true, IsBot: true})
	rm.Status = room.StatusPlaying
	rm.HasGame = true

	decks := map[string]room.Deck{
		p.PlayerID:                p.Deck,
		rm.Seats[1].PlayerID: {Cards: p.Deck.Cards},
	}
	gs := room.BuildGameState(r.eng, rm.ID, 0, rm.Seats, decks)

	data, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("transport: encode game state: %w", err)
	}
	if err := r.st.SaveGame(ctx, rm.ID, data); err != nil {
		return err
	}
	if err := r.putRoom(ctx, rm); err != nil {
		return err
	}

	c.setPlayerID(p.PlayerID)
	r.hub.Join(c, rm.ID)
	r.hub.Send(c, "room_update", map[string]interface{}{"room": rm})
	r.hub.Send(c, "game_update", map[string]interface{}{"roomId": rm.ID, "game": gs})
	return nil
}

type gameActionPayload struct {
	RoomID string          `json:"roomId"`
	Action json.RawMessage `json:"action"`
}

// handleGameAction implements the relaxed-rules sandbox op (game_action).
// This core only implements the strict rules-engine surface (§1); a
// relaxed/free-form mutation path is a separate, non-authoritative
// feature this layer does not model, so it is surfaced as a notification
// rather than silently dropped.
func (r *Router) handleGameAction(ctx context.Context, c *Client, env Envelope) error {
	var p gameActionPayload
	if err := decode(env, &p); err != nil {
		return err
	}
	r.hub.Send(c, "game_notification", map[string]string{
		"message": "game_action (sandbox) is not implemented; use game_strict_action",
		"type":    "unsupported",
	})
	return nil
}

type strictActionPayload struct {
	RoomID string           `json:"roomId"`
	Action room.StrictAction `json:"action"`
}

// handleStrictAction implements game_strict_action, the rules-engine op
// that drives the Room Dispatcher's critical section.
func (r *Router) handleStrictAction(ctx context.Context, c *Client, env Envelope) error {
	var p strictActionPayload
	if err := decode(env, &p); err != nil {
		return err
	}
	if p.Action.PlayerID == "" {
		p.Action.PlayerID = c.PlayerID()
	}
	return r.dispatcher.Dispatch(ctx, p.RoomID, p.Action)
}
