package core

import (
	"context"

	"questrpg/internal/notify"
	"questrpg/pkg/models"
)

const msgChallengeFailed = "Failed to complete challenge"

// CompleteWeeklyChallenge claims the current challenge. It is refused
// locally unless the cached challenge is unlocked; the backend still has
// the final word.
func (s *Service) CompleteWeeklyChallenge(ctx context.Context) (*models.ChallengeResult, error) {
	view, err := s.WeeklyChallenge(ctx)
	if err != nil {
		s.fail("complete_challenge", err, msgChallengeFailed)
		return nil, err
	}
	var refused *models.AppError
	switch view.State() {
	case models.ChallengeLocked:
		refused = models.NewConflictError("The weekly challenge is not unlocked yet")
	case models.ChallengeCompleted:
		refused = models.NewConflictError("The weekly challenge is already completed")
	}
	if refused != nil {
		s.notify(notify.LevelError, refused.Message)
		return nil, refused
	}

	var res *models.ChallengeResult
	err = s.serialized(ctx, KeyChallenge, func(ctx context.Context) error {
		var err error
		res, err = s.backend.CompleteWeeklyChallenge(ctx, view.Challenge.ID)
		return err
	})
	if err != nil {
		s.fail("complete_challenge", err, msgChallengeFailed)
		return nil, err
	}

	s.store.Invalidate(KeyChallenge, KeyProfile, KeyChallengeHistory)
	s.notify(notify.LevelSuccess, "BOSS DEFEATED! +%d XP!", res.XPEarned)
	return res, nil
}
