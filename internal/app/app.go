package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/timekeep/internal/action"
	"github.com/five82/timekeep/internal/api"
	"github.com/five82/timekeep/internal/config"
	"github.com/five82/timekeep/internal/flux"
	"github.com/five82/timekeep/internal/prefs"
	"github.com/five82/timekeep/internal/state"
	"github.com/five82/timekeep/internal/ui"
)

// Options configure the timekeep application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/timekeep/prefs.toml
	PollEvery  int    // seconds; zero uses the configured value
}

// Runtime is the wired dispatcher, store and creators shared by the TUI and
// the one-shot CLI commands.
type Runtime struct {
	Config   config.Config
	Store    *state.EntryStore
	Creators *action.Creators

	loop   *flux.Loop
	cancel context.CancelFunc
}

// Start builds the HTTP client from cfg and wires a runtime around it.
func Start(ctx context.Context, cfg config.Config) (*Runtime, error) {
	client, err := api.NewClient(cfg.APIURL, cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("init api client: %w", err)
	}
	rt := NewRuntime(ctx, client)
	rt.Config = cfg
	return rt, nil
}

// NewRuntime wires a dispatcher, store, loop and creators around remote and
// starts the loop. Close releases it.
func NewRuntime(ctx context.Context, remote action.API) *Runtime {
	ctx, cancel := context.WithCancel(ctx)

	dispatcher := action.NewDispatcher()
	store := state.NewEntryStore(dispatcher)
	loop := flux.NewLoop(0)
	go func() {
		_ = loop.Run(ctx)
	}()

	return &Runtime{
		Store:    store,
		Creators: action.NewCreators(ctx, remote, dispatcher, loop),
		loop:     loop,
		cancel:   cancel,
	}
}

// Close stops the loop and detaches the store. In-flight calls are abandoned.
func (r *Runtime) Close() {
	r.cancel()
	<-r.loop.Done()
	r.Store.Close()
}

// Run boots the timekeep TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.PollEvery > 0 {
		cfg.PollEvery = time.Duration(opts.PollEvery) * time.Second
	}

	closeLog, err := SetupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	slog.Info("timekeep starting", "api_url", cfg.APIURL, "poll", cfg.PollEvery)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rt, err := Start(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	if cfg.PollingEnabled() {
		StartPoller(ctx, rt.Creators, cfg.PollEvery)
	}

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     rt.Store,
		Actions:   rt.Creators,
		Prefs:     prefs.Load(opts.PrefsPath),
		PrefsPath: opts.PrefsPath,
		LogFile:   cfg.LogFile,
	})
}
