package transport

import (
	"crypto/rand"
	"encoding/hex"
)

func newClientID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return "conn-" + hex.EncodeToString(b[:])
}
