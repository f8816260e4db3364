package core

import (
	"context"

	"questrpg/internal/api"
	"questrpg/pkg/models"
)

// Backend is the remote API the synchronization layer talks to.
type Backend interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.TokenResponse, error)
	Me(ctx context.Context) (*models.User, error)
	Onboard(ctx context.Context, req models.OnboardingRequest) (*models.User, error)

	GetProfile(ctx context.Context) (*models.Profile, error)
	GetStreaks(ctx context.Context) ([]models.Streak, error)
	GetLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)

	GetTodayRun(ctx context.Context) (*models.DailyRun, error)
	GetRunHistory(ctx context.Context, limit int) ([]models.DailyRun, error)
	ToggleQuest(ctx context.Context, runID, completionID string) (*models.ToggleResult, error)
	CompleteRun(ctx context.Context, runID string) (*models.CompleteRunResult, error)

	ListGoals(ctx context.Context) ([]models.Goal, error)
	CreateGoal(ctx context.Context, req models.GoalCreate) (*models.Goal, error)
	UpdateGoal(ctx context.Context, goalID string, req models.GoalUpdate) (*models.Goal, error)
	DeleteGoal(ctx context.Context, goalID string) error
	AddMilestone(ctx context.Context, goalID, title string) (*models.Goal, error)
	UpdateMilestone(ctx context.Context, milestoneID, title string) (*models.Milestone, error)
	DeleteMilestone(ctx context.Context, milestoneID string) error
	ToggleMilestone(ctx context.Context, milestoneID string) (*models.Goal, error)

	GetDecayStatus(ctx context.Context) (*models.DecayStatus, error)
	GetDecayHistory(ctx context.Context, limit int) ([]models.DecayRecord, error)

	GetWeeklyChallenge(ctx context.Context) (*models.WeeklyChallengeView, error)
	CompleteWeeklyChallenge(ctx context.Context, challengeID string) (*models.ChallengeResult, error)
	GetChallengeHistory(ctx context.Context, limit int) ([]models.ChallengeHistoryEntry, error)
}

var _ Backend = (*api.Client)(nil)
