package transport

import (
	"testing"

	"github.com/decred/slog"
	"github.com/stretchr/testify/require"
)

func newTestClient(id string) *Client {
	return newClient(id, nil, nil, nil, slog.Disabled)
}

func TestHubJoinMovesClientBetweenRooms(t *testing.T) {
	h := NewHub(slog.Disabled)
	c := newTestClient("c1")
	h.register(c)

	h.Join(c, "room-1")
	require.Equal(t, "room-1", c.RoomID())
	require.Len(t, h.rooms["room-1"], 1)

	h.Join(c, "room-2")
	require.Equal(t, "room-2", c.RoomID())
	require.Len(t, h.rooms["room-2"], 1)
	require.Empty(t, h.rooms["room-1"], "joining a new room must leave the prior one")
}

func TestHubLeaveRemovesFromGroupWithoutClosing(t *testing.T) {
	h := NewHub(slog.Disabled)
	c := newTestClient("c1")
	h.register(c)
	h.Join(c, "room-1")

	h.Leave(c, "room-1")

	require.Empty(t, c.RoomID())
	require.Empty(t, h.rooms["room-1"])
}

func TestHubBroadcastReachesOnlyRoomMembers(t *testing.T) {
	h := NewHub(slog.Disabled)
	inRoom := newTestClient("in-room")
	elsewhere := newTestClient("elsewhere")
	h.register(inRoom)
	h.register(elsewhere)
	h.Join(inRoom, "room-1")
	h.Join(elsewhere, "room-2")

	h.Broadcast("room-1", "game_update", map[string]string{"roomId": "room-1"})

	require.Len(t, inRoom.send, 1)
	require.Len(t, elsewhere.send, 0)
}

func TestHubSendTargetsOneClient(t *testing.T) {
	h := NewHub(slog.Disabled)
	c := newTestClient("c1")
	h.register(c)

	h.Send(c, "room_update", map[string]string{"ok": "true"})

	require.Len(t, c.send, 1)
}

func TestHubCloseRoomEvictsEveryMember(t *testing.T) {
	h := NewHub(slog.Disabled)
	c1 := newTestClient("c1")
	c2 := newTestClient("c2")
	h.register(c1)
	h.register(c2)
	h.Join(c1, "room-1")
	h.Join(c2, "room-1")

	h.CloseRoom("room-1", "room_closed", map[string]string{"message": "host left"})

	require.Empty(t, c1.RoomID())
	require.Empty(t, c2.RoomID())
	require.Empty(t, h.rooms["room-1"])
	require.Len(t, c1.send, 1)
	require.Len(t, c2.send, 1)
}

func TestHubUnregisterClosesSendChannelAndLeavesRoom(t *testing.T) {
	h := NewHub(slog.Disabled)
	c := newTestClient("c1")
	h.register(c)
	h.Join(c, "room-1")

	h.unregister(c)

	require.Empty(t, h.rooms["room-1"])
	_, ok := <-c.send
	require.False(t, ok, "send channel must be closed on unregister")
}
