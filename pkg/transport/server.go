package transport

import (
	"net/http"

	"github.com/decred/slog"

	"github.com/dnviti/mtg-online-web-sub002/pkg/engine"
	"github.com/dnviti/mtg-online-web-sub002/pkg/room"
	"github.com/dnviti/mtg-online-web-sub002/pkg/store"
)

// Server bundles the Hub and Router behind a single http.Handler for the
// realtime action channel's one upgrade endpoint.
type Server struct {
	hub    *Hub
	router *Router
	log    slog.Logger
}

// NewServer wires a Router over the given Hub, store, engine and
// dispatcher. The Hub is constructed separately (via NewHub) because it
// must exist before the Dispatcher it is passed to as a room.Broadcaster.
func NewServer(hub *Hub, st store.Store, eng *engine.Engine, dispatcher *room.Dispatcher, log slog.Logger) *Server {
	return &Server{
		hub:    hub,
		router: NewRouter(hub, st, eng, dispatcher, log),
		log:    log,
	}
}

// Hub returns the underlying Hub, which implements room.Broadcaster.
func (s *Server) Hub() *Hub { return s.hub }

// ServeHTTP upgrades every request to a websocket connection.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ServeWS(s.hub, s.router, s.log, w, r)
}
