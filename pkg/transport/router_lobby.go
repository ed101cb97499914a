package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dnviti/mtg-online-web-sub002/pkg/room"
)

func (r *Router) getRoom(roomID string) (*room.Room, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm, ok := r.rooms[roomID]
	return rm, ok
}

func (r *Router) putRoom(ctx context.Context, rm *room.Room) error {
	r.mu.Lock()
	r.rooms[rm.ID] = rm
	r.mu.Unlock()

	data, err := json.Marshal(rm)
	if err != nil {
		return fmt.Errorf("transport: encode room %s: %w", rm.ID, err)
	}
	return r.st.SaveRoom(ctx, rm.ID, data)
}

type createRoomPayload struct {
	HostID     string   `json:"hostId"`
	HostName   string   `json:"hostName"`
	Format     string   `json:"format"`
	BasicLands []string `json:"basicLands,omitempty"`
	ForceNew   bool     `json:"forceNew,omitempty"`
}

type roomAck struct {
	Success          bool        `json:"success"`
	Room             *room.Room  `json:"room,omitempty"`
	Message          string      `json:"message,omitempty"`
	HasExistingRooms bool        `json:"hasExistingRooms,omitempty"`
	ExistingRooms    []*room.Room `json:"existingRooms,omitempty"`
}

// handleCreateRoom implements create_room: it always mints a fresh room
// id, seating the host, unless the host already has a live room and did
// not pass forceNew — then the existing room is surfaced instead so the
// client can offer a resume.
func (r *Router) handleCreateRoom(ctx context.Context, c *Client, env Envelope) error {
	var p createRoomPayload
	if err := decode(env, &p); err != nil {
		return err
	}

	if !p.ForceNew {
		r.mu.Lock()
		var existing []*room.Room
		for _, rm := range r.rooms {
			if rm.Status != room.StatusFinished && rm.Seat(p.HostID) != nil {
				existing = append(existing, rm)
			}
		}
		r.mu.Unlock()
		if len(existing) > 0 {
			c.setPlayerID(p.HostID)
			r.hub.Send(c, "create_room", roomAck{Success: false, HasExistingRooms: true, ExistingRooms: existing})
			return nil
		}
	}

	rm := room.NewRoom(newClientID(), p.HostID, p.HostName, p.Format)
	rm.BasicLands = p.BasicLands
	if err := r.putRoom(ctx, rm); err != nil {
		return err
	}

	c.setPlayerID(p.HostID)
	r.hub.Join(c, rm.ID)
	r.hub.Send(c, "create_room", roomAck{Success: true, Room: rm})
	r.hub.Broadcast(rm.ID, "room_update", map[string]interface{}{"room": rm})
	return nil
}

type joinRoomPayload struct {
	RoomID     string `json:"roomId"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// handleJoinRoom implements both join_room and rejoin_room: the only
// difference is that a rejoin must already hold a seat, where a fresh
// join adds one (§5's reconnect-replays-a-full-snapshot rule applies to
// both, via the returned gameState).
func (r *Router) handleJoinRoom(ctx context.Context, c *Client, env Envelope, rejoin bool) error {
	var p joinRoomPayload
	if err := decode(env, &p); err != nil {
		return err
	}

	rm, ok := r.getRoom(p.RoomID)
	if !ok {
		r.hub.Send(c, "join_room", roomAck{Success: false, Message: "room not found"})
		return nil
	}

	seat := rm.Seat(p.PlayerID)
	if seat == nil {
		if rejoin {
			r.hub.Send(c, "join_room", roomAck{Success: false, Message: "not seated in this room"})
			return nil
		}
		rm.AddSeat(p.PlayerID, p.PlayerName)
	} else {
		seat.Connected = true
	}
	if err := r.putRoom(ctx, rm); err != nil {
		return err
	}

	c.setPlayerID(p.PlayerID)
	r.hub.Join(c, rm.ID)

	ack := roomAck{Success: true, Room: rm}
	r.hub.Send(c, "join_room", ack)
	if rm.HasGame {
		if data, err := r.st.LoadGame(ctx, rm.ID); err == nil {
			r.hub.Send(c, "game_update", map[string]interface{}{"roomId": rm.ID, "game": json.RawMessage(data)})
		}
	}
	r.hub.Broadcast(rm.ID, "room_update", map[string]interface{}{"room": rm})
	return nil
}

type leaveRoomPayload struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

func (r *Router) handleLeaveRoom(ctx context.Context, c *Client, env Envelope) error {
	var p leaveRoomPayload
	if err := decode(env, &p); err != nil {
		return err
	}
	rm, ok := r.getRoom(p.RoomID)
	if !ok {
		return nil
	}

	seat := rm.Seat(p.PlayerID)
	wasHost := seat != nil && seat.IsHost
	if !rm.HasGame {
		rm.RemoveSeat(p.PlayerID)
	} else if seat != nil {
		seat.Connected = false
	}
	if err := r.putRoom(ctx, rm); err != nil {
		return err
	}

	r.hub.Leave(c, p.RoomID)
	if wasHost && !rm.HasGame {
		r.hub.CloseRoom(p.RoomID, "room_closed", map[string]string{"message": "host left the room"})
		return nil
	}
	r.hub.Broadcast(p.RoomID, "room_update", map[string]interface{}{"room": rm})
	return nil
}

type sendMessagePayload struct {
	RoomID string `json:"roomId"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

func (r *Router) handleSendMessage(ctx context.Context, c *Client, env Envelope) error {
	var p sendMessagePayload
	if err := decode(env, &p); err != nil {
		return err
	}
	rm, ok := r.getRoom(p.RoomID)
	if !ok {
		return fmt.Errorf("transport: room %s not found", p.RoomID)
	}
	rm.Chat = append(rm.Chat, room.ChatMessage{Sender: p.Sender, Text: p.Text, Timestamp: time.Now()})
	if err := r.putRoom(ctx, rm); err != nil {
		return err
	}
	r.hub.Broadcast(p.RoomID, "room_update", map[string]interface{}{"room": rm})
	return nil
}
