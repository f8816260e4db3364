package models

import "questrpg/pkg/leveling"

// User is the account snapshot returned at login and cached locally next to
// the bearer credential.
type User struct {
	ID                     string    `json:"id" yaml:"id"`
	Username               string    `json:"username" yaml:"username"`
	Email                  string    `json:"email" yaml:"email"`
	TotalXP                int       `json:"total_xp" yaml:"total_xp"`
	CurrentLevel           int       `json:"current_level" yaml:"current_level"`
	GoalCategories         []string  `json:"goal_categories" yaml:"goal_categories"`
	HasCompletedOnboarding bool      `json:"has_completed_onboarding" yaml:"has_completed_onboarding"`
	CreatedAt              Timestamp `json:"created_at" yaml:"-"`
}

// Level recomputes the level from TotalXP; CurrentLevel is only a hint.
func (u *User) Level() int {
	return leveling.CalculateLevel(u.TotalXP)
}

// LoginRequest
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OnboardingRequest
type OnboardingRequest struct {
	GoalCategories []string `json:"goal_categories"`
}

// TokenResponse is returned by login and register.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
	User        User   `json:"user"`
}
