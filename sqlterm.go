// Package sqlterm runs an interactive SQL session in a terminal.
//
// A Session bundles the pieces a terminal needs for one connection:
//   - github.com/bawdo/sqlterm/engine (database handle)
//   - github.com/bawdo/sqlterm/terminal (display surface)
//   - github.com/bawdo/sqlterm/dispatch (line editing, statements, history)
//
// The subpackages can be used on their own for other surfaces.
package sqlterm

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"pkt.systems/pslog"

	"github.com/bawdo/sqlterm/dispatch"
	"github.com/bawdo/sqlterm/engine"
	"github.com/bawdo/sqlterm/history"
	"github.com/bawdo/sqlterm/internal/config"
	"github.com/bawdo/sqlterm/keys"
	"github.com/bawdo/sqlterm/render"
	"github.com/bawdo/sqlterm/terminal"
)

// Config holds the session settings.
type Config = config.Config

// DefaultConfig returns an in-memory SQLite configuration.
func DefaultConfig() Config {
	return config.Default()
}

// Session is one terminal attached to one database handle. The handle is
// released by Close.
type Session struct {
	ID         string
	DB         *engine.DB
	Screen     *terminal.Screen
	Dispatcher *dispatch.Dispatcher
	log        pslog.Logger
}

// Open connects to the configured database and prepares the terminal state.
// Output goes to out; screen options such as terminal.WithCRLF apply to it.
func Open(ctx context.Context, cfg Config, out io.Writer, opts ...terminal.Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	log := pslog.Ctx(ctx).With("session", id, "engine", cfg.Engine)

	db, err := engine.Open(ctx, cfg.Engine, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", engine.SanitizeDSN(cfg.DSN), err)
	}
	log.Info("connected", "dsn", engine.SanitizeDSN(cfg.DSN))

	if cfg.Seed {
		if err := db.Seed(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Debug("seeded", "table", engine.SeedTable)
	}

	ring := history.NewRing()
	var store history.Store
	if cfg.HistoryFile != "" {
		f := history.NewFile(cfg.HistoryFile)
		n, err := f.Load(ring, cfg.HistoryLimit)
		if err != nil {
			log.Warn("history not loaded", "path", f.Path(), "err", err)
		} else {
			log.Debug("history loaded", "path", f.Path(), "entries", n)
		}
		store = f
	}

	screen := terminal.NewScreen(out, opts...)
	d := dispatch.New(db, screen, render.New(out), dispatch.Options{
		Prompt:             cfg.Prompt,
		ContinuationPrompt: cfg.ContinuationPrompt,
		SkipFailedHistory:  !cfg.RecordFailed,
		ShowTiming:         cfg.Timing,
		History:            ring,
		Store:              store,
		Logger:             log,
	})
	return &Session{ID: id, DB: db, Screen: screen, Dispatcher: d, log: log}, nil
}

// Interactive decodes keys from in and runs the dispatcher until the user
// quits, in ends or ctx is cancelled. The decoder stops with the session;
// a decoder blocked reading in exits on the next byte.
func (s *Session) Interactive(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan keys.Event)
	go keys.Read(ctx, in, events)
	return s.Dispatcher.Run(ctx, events)
}

// Script runs the statements in r without line editing.
func (s *Session) Script(ctx context.Context, r io.Reader) (dispatch.ScriptResult, error) {
	return s.Dispatcher.RunScript(ctx, r)
}

// Close releases the database handle.
func (s *Session) Close() error {
	s.log.Debug("session closed")
	return s.DB.Close()
}
