// Package room implements the Room Dispatcher (§4.9): the per-room
// critical section that serializes every inbound action through an
// exclusive store lock, runs the RulesEngine, persists the result, fans
// the update out to subscribers, and then drives the bot loop — all
// before the lock releases.
package room

import "time"

// LifecycleStatus is a Room's coarse match-progress state (§3).
type LifecycleStatus string

const (
	StatusWaiting      LifecycleStatus = "waiting"
	StatusDrafting     LifecycleStatus = "drafting"
	StatusDeckBuilding LifecycleStatus = "deck_building"
	StatusPlaying      LifecycleStatus = "playing"
	StatusTournament   LifecycleStatus = "tournament"
	StatusFinished     LifecycleStatus = "finished"
)

// Seat is one occupied or reserved position at the table.
type Seat struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Connected  bool   `json:"connected"`
	IsHost     bool   `json:"isHost"`
	IsBot      bool   `json:"isBot"`
}

// ChatMessage is one line of the room's chat transcript, sent via
// send_message and persisted alongside the Room (§3: "chat transcript
// (not part of the core)").
type ChatMessage struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Room is the lobby-level object broadcast whole as room_update (§6):
// identity, seating, lifecycle status, whether a GameState exists for it
// yet, and the chat transcript.
type Room struct {
	ID          string          `json:"id"`
	Format      string          `json:"format,omitempty"`
	Seats       []Seat          `json:"seats"`
	Status      LifecycleStatus `json:"status"`
	HasGame     bool            `json:"hasGame"`
	Chat        []ChatMessage   `json:"chat,omitempty"`
	ForceNew    bool            `json:"-"`
	BasicLands  []string        `json:"basicLands,omitempty"`
	PackCount   int             `json:"packCount,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// NewRoom builds a freshly created room in the waiting lifecycle state
// with the host seated.
func NewRoom(id, hostID, hostName, format string) *Room {
	return &Room{
		ID:     id,
		Format: format,
		Status: StatusWaiting,
		Seats: []Seat{
			{PlayerID: hostID, PlayerName: hostName, Connected: true, IsHost: true},
		},
		CreatedAt: time.Now(),
	}
}

// Seat returns the seat for playerID, or nil if they are not seated.
func (r *Room) Seat(playerID string) *Seat {
	for i := range r.Seats {
		if r.Seats[i].PlayerID == playerID {
			return &r.Seats[i]
		}
	}
	return nil
}

// AddSeat seats a new player; a player who already holds a seat is left as
// is. Capacity is not checked here (it is a draft/format concern, not
// tracked on Room itself).
func (r *Room) AddSeat(playerID, playerName string) {
	if r.Seat(playerID) != nil {
		return
	}
	r.Seats = append(r.Seats, Seat{PlayerID: playerID, PlayerName: playerName, Connected: true})
}

// RemoveSeat drops playerID from the room entirely (used when a
// never-started room is left, as opposed to merely disconnecting).
func (r *Room) RemoveSeat(playerID string) {
	for i, s := range r.Seats {
		if s.PlayerID == playerID {
			r.Seats = append(r.Seats[:i], r.Seats[i+1:]...)
			return
		}
	}
}
