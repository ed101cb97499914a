// Package config resolves the server's CLI flags and environment
// variables into a single Config value.
package config

import (
	"flag"
	"os"
	"strconv"
)

// Config is the resolved runtime configuration for the server binary.
type Config struct {
	// DevMode enables the debug manager and selects the sqlite-backed
	// Store when RedisURL is empty.
	DevMode bool
	// RedisURL is the primary Store's connection string. Empty means
	// "use the sqlite dev store", valid only when DevMode is set.
	RedisURL string
	// Port is the websocket listen port.
	Port int
	// SQLitePath backs the dev Store when RedisURL is empty.
	SQLitePath string
	// Seed holds the -seed / MTG_SEED value; new games take their seed from the
	// start_game payload (start_solo_test uses 0), not from this field.
	Seed int64
	// DebugLevel is passed straight through to logging.Config.
	DebugLevel string
}

// Load parses flags then overlays unset flags with environment variables,
// mirroring the flag-plus-env-fallback pattern of this stack's server
// entrypoints.
func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("mtgsrv", flag.ContinueOnError)

	var cfg Config
	var devMode bool
	var port int
	var redisURL string
	var sqlitePath string
	var seed int64
	var debugLevel string

	fs.BoolVar(&devMode, "dev", false, "enable debug manager and sqlite dev store")
	fs.IntVar(&port, "port", 0, "websocket listen port (0 = env PORT or random)")
	fs.StringVar(&redisURL, "redis", "", "Redis connection URL for the persistent store")
	fs.StringVar(&sqlitePath, "sqlite", "", "sqlite dev store path (dev mode only)")
	fs.Int64Var(&seed, "seed", 0, "RNG seed (stored in Config.Seed; new games do not read it)")
	fs.StringVar(&debugLevel, "debuglevel", "info", "trace, debug, info, warn, error, critical")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if os.Getenv("DEV_MODE") != "" {
		devMode = true
	}
	if redisURL == "" {
		redisURL = os.Getenv("REDIS_URL")
	}
	if port == 0 {
		if envPort := os.Getenv("PORT"); envPort != "" {
			if v, err := strconv.Atoi(envPort); err == nil {
				port = v
			}
		}
	}
	if sqlitePath == "" {
		sqlitePath = os.Getenv("SQLITE_PATH")
		if sqlitePath == "" {
			sqlitePath = "mtg_dev.sqlite"
		}
	}
	if seed == 0 {
		if envSeed := os.Getenv("MTG_SEED"); envSeed != "" {
			if v, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
				seed = v
			}
		}
	}

	cfg = Config{
		DevMode:    devMode,
		RedisURL:   redisURL,
		Port:       port,
		SQLitePath: sqlitePath,
		Seed:       seed,
		DebugLevel: debugLevel,
	}
	return cfg, nil
}
