// Package transport implements the realtime action channel (§6): a
// gorilla/websocket hub fanning JSON {event, payload} frames out to every
// subscriber of a room, and a Router translating inbound frames into
// Room Dispatcher and lobby operations.
package transport

import (
	"encoding/json"
	"fmt"

	"github.com/davecgh/go-spew/spew"
)

// Envelope is the one frame shape every inbound and outbound message uses.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// decode unmarshals env.Payload into v, wrapping a decode failure with a
// full dump of the offending payload the way this stack's input-command
// path reports a malformed payload back to the operator.
func decode(env Envelope, v interface{}) error {
	if len(env.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return fmt.Errorf("transport: decode %q payload: %w; full payload: %s", env.Event, err, spew.Sdump(env.Payload))
	}
	return nil
}

func encode(event string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("transport: encode %q payload: %w", event, err)
	}
	return json.Marshal(Envelope{Event: event, Payload: raw})
}
