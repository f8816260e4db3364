package models

// ChallengeState is the forward-only weekly challenge lifecycle.
type ChallengeState string

const (
	ChallengeLocked    ChallengeState = "locked"
	ChallengeUnlocked  ChallengeState = "unlocked"
	ChallengeCompleted ChallengeState = "completed"
)

// WeeklyChallenge describes the current week's bonus objective.
type WeeklyChallenge struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	XPReward    int    `json:"xp_reward"`
	WeekStart   string `json:"week_start,omitempty"`
	WeekEnd     string `json:"week_end,omitempty"`
}

// ChallengeStatus is the user's standing against the challenge. Unlock is
// decided by the backend; the client only renders days_completed/days_required.
type ChallengeStatus struct {
	IsUnlocked    bool       `json:"is_unlocked"`
	IsCompleted   bool       `json:"is_completed"`
	UnlockedAt    *Timestamp `json:"unlocked_at,omitempty"`
	JustUnlocked  bool       `json:"just_unlocked,omitempty"`
	DaysCompleted int        `json:"days_completed"`
	DaysRequired  int        `json:"days_required"`
}

// WeeklyChallengeView is the /weekly-challenge/current payload.
type WeeklyChallengeView struct {
	Challenge WeeklyChallenge `json:"challenge"`
	Status    ChallengeStatus `json:"status"`
}

// State folds the status flags into the lifecycle state.
func (v *WeeklyChallengeView) State() ChallengeState {
	switch {
	case v.Status.IsCompleted:
		return ChallengeCompleted
	case v.Status.IsUnlocked:
		return ChallengeUnlocked
	default:
		return ChallengeLocked
	}
}

// ChallengeResult is returned when the challenge is completed.
type ChallengeResult struct {
	Completed    bool `json:"completed"`
	XPEarned     int  `json:"xp_earned"`
	TotalXP      int  `json:"total_xp"`
	CurrentLevel int  `json:"current_level"`
}

// ChallengeHistoryEntry is one row of /weekly-challenge/history.
type ChallengeHistoryEntry struct {
	ChallengeTitle string     `json:"challenge_title"`
	WeekStart      string     `json:"week_start"`
	XPEarned       int        `json:"xp_earned"`
	CompletedAt    *Timestamp `json:"completed_at,omitempty"`
}
