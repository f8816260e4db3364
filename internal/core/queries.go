package core

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"questrpg/internal/cache"
	"questrpg/internal/notify"
	"questrpg/pkg/logger"
	"questrpg/pkg/models"
	"questrpg/pkg/utils"
)

func (s *Service) registerFetchers() {
	s.register(KeyProfile, func(ctx context.Context) (any, error) {
		p, err := s.backend.GetProfile(ctx)
		if err != nil {
			return nil, err
		}
		s.checkLevelUp(p)
		return p, nil
	})
	s.register(KeyTodayRun, func(ctx context.Context) (any, error) {
		return s.backend.GetTodayRun(ctx)
	})
	s.register(KeyRunHistory, func(ctx context.Context) (any, error) {
		return s.backend.GetRunHistory(ctx, s.opts.HistoryLimit)
	})
	s.register(KeyStreaks, func(ctx context.Context) (any, error) {
		return s.backend.GetStreaks(ctx)
	})
	s.register(KeyLeaderboard, func(ctx context.Context) (any, error) {
		return s.backend.GetLeaderboard(ctx, s.opts.LeaderboardLimit)
	})
	s.register(KeyGoals, func(ctx context.Context) (any, error) {
		goals, err := s.backend.ListGoals(ctx)
		if err != nil {
			return nil, err
		}
		for i := range goals {
			goals[i].SortMilestones()
		}
		return goals, nil
	})
	s.register(KeyDecay, func(ctx context.Context) (any, error) {
		return s.backend.GetDecayStatus(ctx)
	})
	s.register(KeyDecayHistory, func(ctx context.Context) (any, error) {
		return s.backend.GetDecayHistory(ctx, s.opts.HistoryLimit)
	})
	s.register(KeyChallenge, func(ctx context.Context) (any, error) {
		return s.backend.GetWeeklyChallenge(ctx)
	})
	s.register(KeyChallengeHistory, func(ctx context.Context) (any, error) {
		return s.backend.GetChallengeHistory(ctx, s.opts.HistoryLimit)
	})
}

// register wraps f with the request timeout.
func (s *Service) register(key cache.Key, f cache.Fetcher) {
	s.store.Register(key, func(ctx context.Context) (any, error) {
		ctx, cancel := utils.WithTimeoutOr(ctx, s.opts.Timeout)
		defer cancel()
		return f(ctx)
	})
}

// checkLevelUp compares a fresh profile with the cached one. Both levels are
// recomputed from total XP.
func (s *Service) checkLevelUp(fresh *models.Profile) {
	if fresh.LevelMismatch() {
		logger.WithFields(map[string]interface{}{
			"server_level": fresh.CurrentLevel,
			"total_xp":     fresh.TotalXP,
		}).Debug("server level hint disagrees with total xp")
	}
	prev, ok := cache.Value[*models.Profile](s.store, KeyProfile)
	if !ok || prev == nil {
		return
	}
	if lvl := fresh.Level(); lvl > prev.Level() {
		s.notify(notify.LevelSuccess, "LEVEL UP! You reached level %d!", lvl)
	}
}

// Profile returns the cached profile, fetching it when stale.
func (s *Service) Profile(ctx context.Context) (*models.Profile, error) {
	return cache.QueryAs[*models.Profile](ctx, s.store, KeyProfile)
}

// TodayRun returns today's run; the backend creates it on first access.
func (s *Service) TodayRun(ctx context.Context) (*models.DailyRun, error) {
	return cache.QueryAs[*models.DailyRun](ctx, s.store, KeyTodayRun)
}

func (s *Service) RunHistory(ctx context.Context) ([]models.DailyRun, error) {
	return cache.QueryAs[[]models.DailyRun](ctx, s.store, KeyRunHistory)
}

func (s *Service) Streaks(ctx context.Context) ([]models.Streak, error) {
	return cache.QueryAs[[]models.Streak](ctx, s.store, KeyStreaks)
}

func (s *Service) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	return cache.QueryAs[[]models.LeaderboardEntry](ctx, s.store, KeyLeaderboard)
}

// Goals returns goals with milestones sorted by order.
func (s *Service) Goals(ctx context.Context) ([]models.Goal, error) {
	return cache.QueryAs[[]models.Goal](ctx, s.store, KeyGoals)
}

// Goal finds one cached goal by id.
func (s *Service) Goal(ctx context.Context, goalID string) (*models.Goal, error) {
	goals, err := s.Goals(ctx)
	if err != nil {
		return nil, err
	}
	for i := range goals {
		if goals[i].ID == goalID {
			g := goals[i]
			return &g, nil
		}
	}
	return nil, models.NewConflictError("goal not found")
}

func (s *Service) DecayStatus(ctx context.Context) (*models.DecayStatus, error) {
	return cache.QueryAs[*models.DecayStatus](ctx, s.store, KeyDecay)
}

func (s *Service) DecayHistory(ctx context.Context) ([]models.DecayRecord, error) {
	return cache.QueryAs[[]models.DecayRecord](ctx, s.store, KeyDecayHistory)
}

func (s *Service) WeeklyChallenge(ctx context.Context) (*models.WeeklyChallengeView, error) {
	return cache.QueryAs[*models.WeeklyChallengeView](ctx, s.store, KeyChallenge)
}

func (s *Service) ChallengeHistory(ctx context.Context) ([]models.ChallengeHistoryEntry, error) {
	return cache.QueryAs[[]models.ChallengeHistoryEntry](ctx, s.store, KeyChallengeHistory)
}

// Refresh refetches keys concurrently. Reads superseded by a mutation are
// not errors.
func (s *Service) Refresh(ctx context.Context, keys ...cache.Key) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, key := range keys {
		key := key
		g.Go(func() error {
			if _, err := s.store.Fetch(ctx, key); err != nil && !errors.Is(err, cache.ErrSuperseded) {
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// Dashboard is everything the home screen shows.
type Dashboard struct {
	Profile   *models.Profile
	Run       *models.DailyRun
	Streaks   []models.Streak
	Goals     []models.Goal
	Decay     *models.DecayStatus
	Challenge *models.WeeklyChallengeView
}

// LoadDashboard queries the dashboard views concurrently.
func (s *Service) LoadDashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Profile, err = s.Profile(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.Run, err = s.TodayRun(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.Streaks, err = s.Streaks(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.Goals, err = s.Goals(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.Decay, err = s.DecayStatus(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.Challenge, err = s.WeeklyChallenge(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

// DecayPollInterval is how often PollDecay refreshes decay status.
func (s *Service) DecayPollInterval() time.Duration {
	return s.opts.DecayPollInterval
}

// PollDecay invalidates the decay status every poll interval until ctx is
// done. Decay reflects elapsed real time, so it refreshes without any user
// action.
func (s *Service) PollDecay(ctx context.Context) {
	ticker := time.NewTicker(s.opts.DecayPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.store.Invalidate(KeyDecay)
		}
	}
}

// Reset drops every cached view, e.g. after logout.
func (s *Service) Reset() {
	s.store.Forget(AllKeys...)
}
