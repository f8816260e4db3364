package api

import (
	"context"
	"net/http"

	"questrpg/pkg/models"
)

// Auth endpoints

// Login exchanges credentials for a bearer token. The token is not stored on
// the client; the session layer decides that.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error) {
	var out models.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns its first token.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.TokenResponse, error) {
	var out models.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Onboard stores the user's chosen goal categories.
func (c *Client) Onboard(ctx context.Context, req models.OnboardingRequest) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPost, "/auth/onboarding", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats endpoints

func (c *Client) GetProfile(ctx context.Context) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, http.MethodGet, "/stats/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetStreaks(ctx context.Context) ([]models.Streak, error) {
	var out []models.Streak
	if err := c.do(ctx, http.MethodGet, "/stats/streaks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	var out []models.LeaderboardEntry
	if err := c.do(ctx, http.MethodGet, withLimit("/stats/leaderboard", limit), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Daily run endpoints

// GetTodayRun fetches today's run; the backend creates it on first access.
func (c *Client) GetTodayRun(ctx context.Context) (*models.DailyRun, error) {
	var out models.DailyRun
	if err := c.do(ctx, http.MethodGet, "/daily-runs/today", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetRunHistory(ctx context.Context, limit int) ([]models.DailyRun, error) {
	var out []models.DailyRun
	if err := c.do(ctx, http.MethodGet, withLimit("/daily-runs/history/all", limit), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ToggleQuest flips one completion's state.
func (c *Client) ToggleQuest(ctx context.Context, runID, completionID string) (*models.ToggleResult, error) {
	var out models.ToggleResult
	path := "/daily-runs/" + escape(runID) + "/complete-quest/" + escape(completionID)
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteRun locks the run.
func (c *Client) CompleteRun(ctx context.Context, runID string) (*models.CompleteRunResult, error) {
	var out models.CompleteRunResult
	if err := c.do(ctx, http.MethodPost, "/daily-runs/"+escape(runID)+"/complete", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Goal endpoints

func (c *Client) ListGoals(ctx context.Context) ([]models.Goal, error) {
	var out []models.Goal
	if err := c.do(ctx, http.MethodGet, "/goals/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateGoal(ctx context.Context, req models.GoalCreate) (*models.Goal, error) {
	var out models.Goal
	if err := c.do(ctx, http.MethodPost, "/goals/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateGoal(ctx context.Context, goalID string, req models.GoalUpdate) (*models.Goal, error) {
	var out models.Goal
	if err := c.do(ctx, http.MethodPut, "/goals/"+escape(goalID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteGoal(ctx context.Context, goalID string) error {
	return c.do(ctx, http.MethodDelete, "/goals/"+escape(goalID), nil, nil)
}

// AddMilestone appends a milestone and returns the updated goal.
func (c *Client) AddMilestone(ctx context.Context, goalID, title string) (*models.Goal, error) {
	var out models.Goal
	body := models.MilestoneInput{Title: title}
	if err := c.do(ctx, http.MethodPost, "/goals/"+escape(goalID)+"/milestones", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateMilestone(ctx context.Context, milestoneID, title string) (*models.Milestone, error) {
	var out models.Milestone
	body := models.MilestoneInput{Title: title}
	if err := c.do(ctx, http.MethodPut, "/goals/milestones/"+escape(milestoneID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteMilestone(ctx context.Context, milestoneID string) error {
	return c.do(ctx, http.MethodDelete, "/goals/milestones/"+escape(milestoneID), nil, nil)
}

// ToggleMilestone flips a milestone and returns the updated goal.
func (c *Client) ToggleMilestone(ctx context.Context, milestoneID string) (*models.Goal, error) {
	var out models.Goal
	if err := c.do(ctx, http.MethodPost, "/goals/milestones/"+escape(milestoneID)+"/toggle", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Decay endpoints

func (c *Client) GetDecayStatus(ctx context.Context) (*models.DecayStatus, error) {
	var out models.DecayStatus
	if err := c.do(ctx, http.MethodGet, "/decay/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetDecayHistory(ctx context.Context, limit int) ([]models.DecayRecord, error) {
	var out []models.DecayRecord
	if err := c.do(ctx, http.MethodGet, withLimit("/decay/history", limit), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Weekly challenge endpoints

func (c *Client) GetWeeklyChallenge(ctx context.Context) (*models.WeeklyChallengeView, error) {
	var out models.WeeklyChallengeView
	if err := c.do(ctx, http.MethodGet, "/weekly-challenge/current", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CompleteWeeklyChallenge(ctx context.Context, challengeID string) (*models.ChallengeResult, error) {
	var out models.ChallengeResult
	if err := c.do(ctx, http.MethodPost, "/weekly-challenge/complete/"+escape(challengeID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetChallengeHistory(ctx context.Context, limit int) ([]models.ChallengeHistoryEntry, error) {
	var out []models.ChallengeHistoryEntry
	if err := c.do(ctx, http.MethodGet, withLimit("/weekly-challenge/history", limit), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
