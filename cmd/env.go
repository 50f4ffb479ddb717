package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/todomon/internal/config"
	"github.com/abhisek/todomon/internal/evolution"
	"github.com/abhisek/todomon/internal/logging"
	"github.com/abhisek/todomon/internal/pokeapi"
	"github.com/abhisek/todomon/internal/roster"
	"github.com/abhisek/todomon/internal/session"
	"github.com/abhisek/todomon/internal/store"
)

// environment is everything a command needs, built from config and flags.
type environment struct {
	cfg    *config.Config
	logger zerolog.Logger
	users  store.UserRepo
	events store.EventRepo
	client *pokeapi.Client
	roster *roster.Roster

	closers []io.Closer
}

// loadConfig reads the environment and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	if backend, _ := cmd.Flags().GetString("store"); backend != "" {
		cfg.Store = backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup builds the environment. With logToFile, logs go to the log file so
// they cannot corrupt the TUI; otherwise they go to stderr.
func setup(cmd *cobra.Command, logToFile bool) (*environment, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	e := &environment{cfg: cfg}

	logPath := ""
	if logToFile || cfg.LogFile != "" {
		logPath = cfg.LogPath()
		if err := store.EnsureDir(logPath); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	logger, closer, err := logging.Setup(logPath, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	e.logger = logger
	e.closers = append(e.closers, closer)

	// The SQLite database always holds the event log. With the file
	// backend a broken database only costs the history.
	st, err := store.Open(cfg.DBPath())
	switch {
	case err == nil:
		e.closers = append(e.closers, st)
		e.events = st.EventRepo()
	case cfg.Store == config.StoreSQLite:
		e.Close()
		return nil, fmt.Errorf("open store: %w", err)
	default:
		logger.Warn().Err(err).Str("path", cfg.DBPath()).Msg("event log unavailable")
	}

	if cfg.Store == config.StoreSQLite {
		e.users = st.UserRepo()
	} else {
		e.users = store.NewFileRepo(cfg.UsersDir())
	}

	e.client = pokeapi.NewClient(
		pokeapi.WithBaseURL(cfg.APIBaseURL),
		pokeapi.WithTimeout(cfg.HTTPTimeout),
		pokeapi.WithLocale(cfg.Language()),
	)
	e.roster = roster.Load(cfg.RosterPath(), logger)

	logger.Debug().
		Str("data_dir", cfg.DataDir).
		Str("store", cfg.Store).
		Bool("fallback_roster", e.roster.IsFallback()).
		Msg("environment ready")
	return e, nil
}

func (e *environment) deps() session.Deps {
	return session.Deps{
		Users:     e.users,
		Events:    e.events,
		Creatures: e.client,
		Resolver:  evolution.NewResolver(e.client, e.cfg.HTTPTimeout, e.logger),
		Roster:    e.roster,
		Workers:   e.cfg.FetchWorkers,
		Logger:    e.logger,
	}
}

// open starts a session for username.
func (e *environment) open(ctx context.Context, username string, create bool) (*session.Session, error) {
	return session.Open(ctx, username, e.deps(), create)
}

// openCLI opens a session for a one-shot command and waits for the creature
// and chain lookups so the output is complete.
func (e *environment) openCLI(cmd *cobra.Command) (*session.Session, error) {
	username, _ := cmd.Flags().GetString("user")
	if username == "" {
		return nil, errors.New("--user is required")
	}
	create, _ := cmd.Flags().GetBool("create")

	sess, err := e.open(cmd.Context(), username, create)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("no trainer named %q (pass --create to start one)", username)
	}
	if err != nil {
		return nil, err
	}
	e.settle(cmd.Context(), sess)
	return sess, nil
}

// settle waits for outstanding lookups, giving up after a few timeouts'
// worth of waiting. Missing details only affect the display.
func (e *environment) settle(ctx context.Context, sess *session.Session) {
	ctx, cancel := context.WithTimeout(ctx, 3*e.cfg.HTTPTimeout)
	defer cancel()
	if err := sess.Settle(ctx); err != nil {
		e.logger.Warn().Err(err).Msg("gave up waiting for creature details")
	}
}

func (e *environment) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i].Close()
	}
}
