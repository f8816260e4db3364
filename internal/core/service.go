// Package core is the synchronization layer: it owns the cache, registers a
// fetcher per view and runs every mutation through the optimistic
// snapshot/apply/confirm-or-rollback protocol.
package core

import (
	"context"
	"errors"
	"time"

	"questrpg/internal/cache"
	"questrpg/internal/notify"
	"questrpg/pkg/logger"
	"questrpg/pkg/models"
	"questrpg/pkg/utils"
)

// Default tuning.
const (
	DefaultDecayPollInterval = 60 * time.Second
	DefaultLeaderboardLimit  = 10
	DefaultHistoryLimit      = 30
)

// Options tunes a Service. Zero values take the defaults.
type Options struct {
	Timeout           time.Duration
	DecayPollInterval time.Duration
	LeaderboardLimit  int
	HistoryLimit      int
	Notifier          notify.Notifier
}

// Service keeps the cached views consistent with the backend.
type Service struct {
	backend  Backend
	store    *cache.Store
	notifier notify.Notifier
	opts     Options
}

// NewService registers fetchers for every key on store.
func NewService(backend Backend, store *cache.Store, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = utils.DefaultTimeout
	}
	if opts.DecayPollInterval <= 0 {
		opts.DecayPollInterval = DefaultDecayPollInterval
	}
	if opts.LeaderboardLimit <= 0 {
		opts.LeaderboardLimit = DefaultLeaderboardLimit
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard
	}

	s := &Service{
		backend:  backend,
		store:    store,
		notifier: opts.Notifier,
		opts:     opts,
	}
	s.registerFetchers()
	return s
}

// Store exposes the cache for read-only consumers.
func (s *Service) Store() *cache.Store { return s.store }

// Backend returns the remote API.
func (s *Service) Backend() Backend { return s.backend }

func (s *Service) notify(level notify.Level, format string, args ...any) {
	s.notifier.Notify(notify.New(level, format, args...))
}

// fail reports a failed action. Unauthorized errors are handled by the
// session layer and validation errors are shown inline, so neither is
// toasted here.
func (s *Service) fail(action string, err error, fallback string) {
	logger.WithFields(map[string]interface{}{
		"action": action,
		"error":  err,
	}).Warn("action failed")

	if errors.Is(err, models.ErrUnauthorized) || errors.Is(err, models.ErrValidation) {
		return
	}
	s.notify(notify.LevelError, models.UserMessage(err, fallback))
}

// serialized runs call while holding key's writer slot, without any
// optimistic change. Reads of key issued meanwhile are superseded.
func (s *Service) serialized(ctx context.Context, key cache.Key, call func(ctx context.Context) error) error {
	m, err := s.store.BeginMutation(ctx, key)
	if err != nil {
		return asNetworkError(err)
	}
	cctx, cancel := utils.WithTimeoutOr(ctx, s.opts.Timeout)
	defer cancel()

	m.MarkReconciling()
	if err := call(cctx); err != nil {
		m.Rollback()
		return err
	}
	m.Commit()
	return nil
}

// asNetworkError maps a context or store failure into the taxonomy.
func asNetworkError(err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return models.NewNetworkError(err)
}
