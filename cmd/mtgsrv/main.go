// Command mtgsrv is the authoritative game server: it wires config,
// logging, the persistent Store, the RulesEngine facade, the Room
// Dispatcher, metrics, and the realtime websocket channel, then serves
// until the process receives a shutdown signal.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dnviti/mtg-online-web-sub002/internal/config"
	"github.com/dnviti/mtg-online-web-sub002/internal/logging"
	"github.com/dnviti/mtg-online-web-sub002/pkg/engine"
	"github.com/dnviti/mtg-online-web-sub002/pkg/metrics"
	"github.com/dnviti/mtg-online-web-sub002/pkg/room"
	"github.com/dnviti/mtg-online-web-sub002/pkg/store"
	"github.com/dnviti/mtg-online-web-sub002/pkg/transport"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logBackend, err := logging.NewBackend(logging.Config{DebugLevel: cfg.DebugLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging error: %v\n", err)
		os.Exit(1)
	}

	st, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "store error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	eng := engine.NewEngine(logBackend.Logger(logging.SubsystemEngine))

	hub := transport.NewHub(logBackend.Logger(logging.SubsystemTransport))
	dispatcher := room.NewDispatcher(st, eng, hub, logBackend.Logger(logging.SubsystemRoom))
	dispatcher.SetDefaultDebugEnabled(cfg.DevMode)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	dispatcher.SetMetrics(m)

	server := transport.NewServer(hub, st, eng, dispatcher, logBackend.Logger(logging.SubsystemTransport))

	mux := http.NewServeMux()
	mux.Handle("/ws", server)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	addr := fmt.Sprintf(":%d", cfg.Port)
	httpSrv := &http.Server{Addr: addr, Handler: mux}

	log := logBackend.Logger(logging.SubsystemTransport)
	log.Infof("listening on %s (dev=%v)", addr, cfg.DevMode)

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "serve error: %v\n", err)
			os.Exit(1)
		}
	case <-sigCh:
		log.Infof("shutting down")
		_ = httpSrv.Close()
	}
}

func openStore(cfg config.Config) (store.Store, error) {
	if cfg.RedisURL != "" {
		return store.NewRedisStore(cfg.RedisURL)
	}
	if !cfg.DevMode {
		return nil, fmt.Errorf("REDIS_URL is required outside dev mode")
	}
	return store.NewSQLiteStore(cfg.SQLitePath)
}
