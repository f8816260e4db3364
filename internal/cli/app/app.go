// Package app wires the client's dependencies for one CLI invocation.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/spf13/cobra"

	"questrpg/internal/api"
	"questrpg/internal/cache"
	"questrpg/internal/config"
	"questrpg/internal/core"
	"questrpg/internal/notify"
	"questrpg/internal/session"
	"questrpg/pkg/logger"
	"questrpg/pkg/models"
)

// SkipAnnotation marks commands that only need the configuration, not a
// backend connection.
const SkipAnnotation = "skip-app"

// ErrNotLoggedIn is returned by commands that need a session.
var ErrNotLoggedIn = errors.New("not logged in. Please run: quest auth login")

// App is everything a command needs.
type App struct {
	Config   *config.Config
	Client   *api.Client
	Sessions session.Store
	Session  *session.Manager
	Store    *cache.Store
	Service  *core.Service
	Auth     *core.Auth
	Notifier *Tracker
}

// Tracker forwards notifications and remembers whether an error was shown,
// so the caller does not print the same failure twice.
type Tracker struct {
	mu    sync.RWMutex
	next  notify.Notifier
	shown atomic.Bool
}

// NewTracker wraps next.
func NewTracker(next notify.Notifier) *Tracker {
	return &Tracker{next: next}
}

func (t *Tracker) Notify(n notify.Notification) {
	if n.Level == notify.LevelError {
		t.shown.Store(true)
	}
	t.mu.RLock()
	next := t.next
	t.mu.RUnlock()
	next.Notify(n)
}

// ErrorShown reports whether an error notification went out.
func (t *Tracker) ErrorShown() bool { return t.shown.Load() }

// Redirect replaces the downstream notifier, e.g. when the TUI takes over
// the terminal.
func (t *Tracker) Redirect(next notify.Notifier) {
	t.mu.Lock()
	t.next = next
	t.mu.Unlock()
}

// New builds the dependency graph from cfg. Output goes to out.
func New(ctx context.Context, cfg *config.Config, out io.Writer) (*App, error) {
	if err := logger.Init(cfg.Logging); err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.APIBaseURL(),
		api.WithTimeout(cfg.Server.Timeout),
		api.WithRateLimit(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst),
	)

	sessions, err := session.Open(cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	tracker := NewTracker(notify.NewConsole(out, cfg.UI.NoColor))
	mgr := session.NewManager(sessions, client, session.WithNotifier(tracker))
	client.SetUnauthorizedHandler(mgr.HandleUnauthorized)

	loggedIn, err := mgr.Restore(ctx)
	if err != nil {
		sessions.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}

	store := cache.New(cache.WithFetchTimeout(cfg.Server.Timeout))
	svc := core.NewService(client, store, core.Options{
		Timeout:           cfg.Server.Timeout,
		DecayPollInterval: cfg.Sync.DecayPollInterval,
		LeaderboardLimit:  cfg.Sync.LeaderboardLimit,
		HistoryLimit:      cfg.Sync.HistoryLimit,
		Notifier:          tracker,
	})

	logger.WithFields(map[string]interface{}{
		"base_url":  cfg.APIBaseURL(),
		"session":   cfg.Session.Backend,
		"logged_in": loggedIn,
	}).Debug("client ready")

	return &App{
		Config:   cfg,
		Client:   client,
		Sessions: sessions,
		Session:  mgr,
		Store:    store,
		Service:  svc,
		Auth:     core.NewAuth(svc, mgr),
		Notifier: tracker,
	}, nil
}

// RequireLogin fails fast when no credential is active.
func (a *App) RequireLogin() error {
	if a.Client.Token() == "" {
		return ErrNotLoggedIn
	}
	return nil
}

// User returns the cached user snapshot of the current session.
func (a *App) User(ctx context.Context) (*models.User, error) {
	return a.Session.User(ctx)
}

// Close stops background work and releases the session store.
func (a *App) Close() error {
	a.Store.Close()
	logger.Sync()
	return a.Sessions.Close()
}

type ctxKey struct{}

// WithApp stores a on ctx.
func WithApp(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// From returns the App attached to cmd by the root command.
func From(cmd *cobra.Command) *App {
	a, _ := cmd.Context().Value(ctxKey{}).(*App)
	if a == nil {
		fmt.Fprintln(os.Stderr, "internal error: command has no app")
		os.Exit(1)
	}
	return a
}

type cfgKey struct{}

// WithConfig stores the loaded configuration on ctx.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, cfgKey{}, cfg)
}

// ConfigFrom returns the configuration loaded by the root command. Commands
// that do not need a backend use it instead of From.
func ConfigFrom(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(cfgKey{}).(*config.Config); ok {
		return cfg
	}
	return config.Default()
}
