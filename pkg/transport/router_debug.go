package transport

import "context"

type debugTogglePayload struct {
	RoomID  string `json:"roomId"`
	Enabled bool   `json:"enabled"`
}

func (r *Router) handleDebugToggle(c *Client, env Envelope) error {
	var p debugTogglePayload
	if err := decode(env, &p); err != nil {
		return err
	}
	roomID := p.RoomID
	if roomID == "" {
		roomID = c.RoomID()
	}
	r.dispatcher.SetDebugEnabled(roomID, p.Enabled)
	r.hub.Broadcast(roomID, "debug_state", r.dispatcher.DebugState(roomID))
	return nil
}

type debugSnapshotPayload struct {
	RoomID     string `json:"roomId"`
	SnapshotID string `json:"snapshotId"`
}

func (r *Router) handleDebugContinue(ctx context.Context, c *Client, env Envelope) error {
	var p debugSnapshotPayload
	if err := decode(env, &p); err != nil {
		return err
	}
	roomID := p.RoomID
	if roomID == "" {
		roomID = c.RoomID()
	}
	return r.dispatcher.ContinueDebugAction(ctx, roomID, p.SnapshotID)
}

func (r *Router) handleDebugCancel(c *Client, env Envelope) error {
	var p debugSnapshotPayload
	if err := decode(env, &p); err != nil {
		return err
	}
	roomID := p.RoomID
	if roomID == "" {
		roomID = c.RoomID()
	}
	r.dispatcher.CancelDebugAction(roomID, p.SnapshotID)
	r.hub.Broadcast(roomID, "debug_state", r.dispatcher.DebugState(roomID))
	return nil
}
