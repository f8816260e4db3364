package models

// QuestCompletion binds one quest to one daily run.
type QuestCompletion struct {
	CompletionID string     `json:"completion_id"`
	QuestID      string     `json:"quest_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Category     string     `json:"category"`
	Difficulty   string     `json:"difficulty"`
	BaseXP       int        `json:"base_xp"`
	IsCore       bool       `json:"is_core"`
	Completed    bool       `json:"completed"`
	XPEarned     int        `json:"xp_earned"`
	CompletedAt  *Timestamp `json:"completed_at,omitempty"`
}

// DailyRun is one user's run for one calendar day.
type DailyRun struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	Date        string            `json:"date"` // YYYY-MM-DD
	TotalXP     int               `json:"total_xp"`
	IsPerfect   bool              `json:"is_perfect"`
	IsLocked    bool              `json:"is_locked"`
	CompletedAt *Timestamp        `json:"completed_at,omitempty"`
	CreatedAt   Timestamp         `json:"created_at"`
	Quests      []QuestCompletion `json:"quests"`
}

// Clone returns a deep copy so cached runs can be patched without touching
// the original.
func (r *DailyRun) Clone() *DailyRun {
	if r == nil {
		return nil
	}
	cp := *r
	if r.CompletedAt != nil {
		ts := *r.CompletedAt
		cp.CompletedAt = &ts
	}
	cp.Quests = make([]QuestCompletion, len(r.Quests))
	for i, q := range r.Quests {
		if q.CompletedAt != nil {
			ts := *q.CompletedAt
			q.CompletedAt = &ts
		}
		cp.Quests[i] = q
	}
	return &cp
}

// Completion finds a quest completion by id.
func (r *DailyRun) Completion(completionID string) (*QuestCompletion, bool) {
	for i := range r.Quests {
		if r.Quests[i].CompletionID == completionID {
			return &r.Quests[i], true
		}
	}
	return nil, false
}

// CompletedCount returns how many quests are marked completed.
func (r *DailyRun) CompletedCount() int {
	n := 0
	for _, q := range r.Quests {
		if q.Completed {
			n++
		}
	}
	return n
}

// ToggleResult is returned by the toggle endpoint.
type ToggleResult struct {
	Message   string `json:"message"`
	Completed bool   `json:"completed"`
	XPEarned  int    `json:"xp_earned"`
}

// CompleteRunResult is returned when a run is locked.
type CompleteRunResult struct {
	Message                 string           `json:"message"`
	Locked                  bool             `json:"locked"`
	CompletedAt             *Timestamp       `json:"completed_at,omitempty"`
	WeeklyChallengeUnlocked bool             `json:"weekly_challenge_unlocked"`
	Challenge               *WeeklyChallenge `json:"challenge,omitempty"`
}
