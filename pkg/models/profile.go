package models

import "questrpg/pkg/leveling"

// Profile is the /stats/profile payload.
type Profile struct {
	UserID                 string    `json:"user_id"`
	Username               string    `json:"username"`
	TotalXP                int       `json:"total_xp"`
	CurrentLevel           int       `json:"current_level"` // display hint only
	GoalCategories         []string  `json:"goal_categories"`
	HasCompletedOnboarding bool      `json:"has_completed_onboarding"`
	XPInCurrentLevel       int       `json:"xp_in_current_level"`
	XPNeededForNextLevel   int       `json:"xp_needed_for_next_level"`
	XPForCurrentLevel      int       `json:"xp_for_current_level"`
	XPForNextLevel         int       `json:"xp_for_next_level"`
	LevelProgressPercent   float64   `json:"level_progress_percentage"`
	CreatedAt              Timestamp `json:"created_at"`
}

// Level is always derived from TotalXP so it can never drift from it.
func (p *Profile) Level() int {
	return leveling.CalculateLevel(p.TotalXP)
}

// Progress derives the level breakdown shown in headers.
func (p *Profile) Progress() leveling.Progress {
	return leveling.Describe(p.TotalXP)
}

// LevelMismatch reports whether the server's level hint disagrees with the
// locally derived level.
func (p *Profile) LevelMismatch() bool {
	return p.CurrentLevel != 0 && p.CurrentLevel != p.Level()
}
