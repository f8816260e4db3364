package models

// Streak is a per-quest consecutive-day counter. Read-only on the client.
type Streak struct {
	QuestID           string `json:"quest_id"`
	QuestTitle        string `json:"quest_title"`
	QuestCategory     string `json:"quest_category"`
	CurrentStreak     int    `json:"current_streak"`
	LongestStreak     int    `json:"longest_streak"`
	LastCompletedDate string `json:"last_completed_date,omitempty"`
	IsActive          bool   `json:"is_active"`
}

// LeaderboardEntry is one row of /stats/leaderboard.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Level    int    `json:"level"`
	TotalXP  int    `json:"total_xp"`
}
