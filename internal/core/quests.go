package core

import (
	"context"

	"questrpg/internal/notify"
	"questrpg/pkg/models"
	"questrpg/pkg/utils"
)

const (
	msgActionFailed = "Action failed. The forces of chaos prevail."
	msgCannotLock   = "You cannot lock this run yet."
)

// ToggleQuest flips one quest completion of today's run. The flag flips in
// the cache before the backend answers; XP totals are left for the refetch.
// On success every run dependent is invalidated. On failure the exact
// previous run is restored and nothing else is touched.
func (s *Service) ToggleQuest(ctx context.Context, completionID string) (*models.ToggleResult, error) {
	if _, err := s.TodayRun(ctx); err != nil {
		s.fail("toggle_quest", err, msgActionFailed)
		return nil, err
	}

	m, err := s.store.BeginMutation(ctx, KeyTodayRun)
	if err != nil {
		return nil, asNetworkError(err)
	}

	var runID string
	err = m.Apply(func(cur any) (any, error) {
		run, ok := cur.(*models.DailyRun)
		if !ok || run == nil {
			return nil, models.NewConflictError("today's run is not loaded")
		}
		next := run.Clone()
		qc, found := next.Completion(completionID)
		if !found {
			return nil, models.NewConflictError("quest is not part of today's run")
		}
		qc.Completed = !qc.Completed
		runID = next.ID
		return next, nil
	})
	if err != nil {
		m.Rollback()
		s.fail("toggle_quest", err, msgActionFailed)
		return nil, err
	}

	m.MarkReconciling()
	cctx, cancel := utils.WithTimeoutOr(ctx, s.opts.Timeout)
	defer cancel()

	res, err := s.backend.ToggleQuest(cctx, runID, completionID)
	if err != nil {
		m.Rollback()
		s.fail("toggle_quest", err, msgActionFailed)
		return nil, err
	}

	m.Commit()
	s.store.Invalidate(RunDependents...)
	if res.Completed {
		s.notify(notify.LevelSuccess, "Quest Complete! +%d XP", res.XPEarned)
	} else {
		s.notify(notify.LevelInfo, "Quest marked incomplete")
	}
	return res, nil
}

// CompleteRun locks today's run. Locking is irreversible so nothing is
// applied before the backend confirms; the key is still held so reads and
// toggles wait for the outcome.
func (s *Service) CompleteRun(ctx context.Context) (*models.CompleteRunResult, error) {
	run, err := s.TodayRun(ctx)
	if err != nil {
		s.fail("complete_run", err, msgCannotLock)
		return nil, err
	}

	var res *models.CompleteRunResult
	err = s.serialized(ctx, KeyTodayRun, func(ctx context.Context) error {
		var err error
		res, err = s.backend.CompleteRun(ctx, run.ID)
		return err
	})
	if err != nil {
		s.fail("complete_run", err, msgCannotLock)
		return nil, err
	}

	s.store.Invalidate(RunDependents...)
	s.store.Invalidate(KeyRunHistory)
	s.notify(notify.LevelSuccess, "Daily Run Locked! Leveling up...")
	if res.WeeklyChallengeUnlocked {
		title := "Weekly Challenge"
		if res.Challenge != nil && res.Challenge.Title != "" {
			title = res.Challenge.Title
		}
		s.notify(notify.LevelAlert, "WEEKLY BOSS UNLOCKED: %s!", title)
	}
	return res, nil
}
