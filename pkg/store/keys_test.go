package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyHelpersMatchTheDocumentedLayout(t *testing.T) {
	require.Equal(t, "game:room-1", gameKey("room-1"))
	require.Equal(t, "room:room-1", roomKey("room-1"))
	require.Equal(t, "lock:game:room-1", lockKey("room-1"))
	require.Equal(t, "user:alice:decks", decksKey("alice"))
}
