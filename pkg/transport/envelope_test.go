package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	data, err := encode("room_update", map[string]string{"id": "room-1"})
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	require.Equal(t, "room_update", env.Event)

	var body map[string]string
	require.NoError(t, decode(env, &body))
	require.Equal(t, "room-1", body["id"])
}

func TestDecodeToleratesAnEmptyPayload(t *testing.T) {
	env := Envelope{Event: "leave_room"}
	var body map[string]string
	require.NoError(t, decode(env, &body))
}

func TestDecodeWrapsMalformedPayloadWithADump(t *testing.T) {
	env := Envelope{Event: "join_room", Payload: json.RawMessage(`{not valid json`)}
	var body map[string]string
	err := decode(env, &body)
	require.Error(t, err)
	require.Contains(t, err.Error(), "join_room")
}
