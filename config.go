package main

import (
	"flag"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"

	"github.com/SergeyParamoshkin/dealnotes/internal/server"
)

const (
	storeMemory = "memory"
	storeSQLite = "sqlite"
)

// Config is read from DEALNOTES_* environment variables; command-line flags
// override it.
type Config struct {
	Addr        string `env:"ADDR" envDefault:":3333"`
	DiagAddr    string `env:"DIAG_ADDR" envDefault:":9999"`
	Store       string `env:"STORE" envDefault:"memory"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"dealnotes.db"`
	Development bool   `env:"DEV"`
	RequestLog  bool   `env:"REQUEST_LOG" envDefault:"true"`
	Routes      bool   `env:"ROUTES"`

	ListNotesLatency  time.Duration `env:"LIST_NOTES_LATENCY" envDefault:"500ms"`
	CreateNoteLatency time.Duration `env:"CREATE_NOTE_LATENCY" envDefault:"300ms"`
	DealsLatency      time.Duration `env:"DEALS_LATENCY" envDefault:"300ms"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func loadConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return cfg, errors.Wrap(err, "parse env")
	}

	fs.BoolVar(&cfg.Routes, "routes", cfg.Routes, "Generate router documentation")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "application address")
	fs.StringVar(&cfg.DiagAddr, "diag_addr", cfg.DiagAddr, "diag address")
	fs.StringVar(&cfg.Store, "store", cfg.Store, "storage backend: memory or sqlite")
	fs.StringVar(&cfg.SQLitePath, "sqlite_path", cfg.SQLitePath, "sqlite database file")
	fs.BoolVar(&cfg.Development, "dev", cfg.Development, "development logging")
	fs.BoolVar(&cfg.RequestLog, "request_log", cfg.RequestLog, "log every request")
	fs.DurationVar(&cfg.ListNotesLatency, "list_notes_latency", cfg.ListNotesLatency, "simulated latency of GET notes")
	fs.DurationVar(&cfg.CreateNoteLatency, "create_note_latency", cfg.CreateNoteLatency, "simulated latency of POST notes")
	fs.DurationVar(&cfg.DealsLatency, "deals_latency", cfg.DealsLatency, "simulated latency of deal routes")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	switch cfg.Store {
	case storeMemory, storeSQLite:
	default:
		return cfg, errors.Errorf("unknown store %q", cfg.Store)
	}

	return cfg, nil
}

func (c Config) latency() server.Latency {
	return server.Latency{
		ListNotes:  c.ListNotesLatency,
		CreateNote: c.CreateNoteLatency,
		Deals:      c.DealsLatency,
	}
}
