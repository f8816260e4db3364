package models

import "sort"

// Milestone is one ordered step of a goal.
type Milestone struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Order       int    `json:"order"`
	IsCompleted bool   `json:"is_completed"`
}

// Goal is a long-term "epic quest".
type Goal struct {
	ID                 string      `json:"id"`
	Title              string      `json:"title"`
	Description        string      `json:"description,omitempty"`
	Category           string      `json:"category"`
	TargetDate         string      `json:"target_date,omitempty"` // YYYY-MM-DD
	IsCompleted        bool        `json:"is_completed"`
	ProgressPercentage float64     `json:"progress_percentage"`
	Milestones         []Milestone `json:"milestones"`
	CreatedAt          Timestamp   `json:"created_at"`
}

// SortMilestones orders milestones by their order field in place. Arrival
// order is never meaningful.
func (g *Goal) SortMilestones() {
	sort.SliceStable(g.Milestones, func(i, j int) bool {
		return g.Milestones[i].Order < g.Milestones[j].Order
	})
}

// SortedMilestones returns a copy of the milestones ordered by Order.
func (g *Goal) SortedMilestones() []Milestone {
	out := make([]Milestone, len(g.Milestones))
	copy(out, g.Milestones)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// Progress returns the integer percentage of completed milestones.
func (g *Goal) Progress() int {
	if len(g.Milestones) == 0 {
		return 0
	}
	done := 0
	for _, m := range g.Milestones {
		if m.IsCompleted {
			done++
		}
	}
	return done * 100 / len(g.Milestones)
}

// NextMilestone returns the first incomplete milestone in order.
func (g *Goal) NextMilestone() (Milestone, bool) {
	for _, m := range g.SortedMilestones() {
		if !m.IsCompleted {
			return m, true
		}
	}
	return Milestone{}, false
}

// GoalCreate is the body of POST /goals/.
type GoalCreate struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	TargetDate  string   `json:"target_date,omitempty"`
	Milestones  []string `json:"milestones"`
}

// GoalUpdate is the body of PUT /goals/{id}; nil fields are left unchanged.
type GoalUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	TargetDate  *string `json:"target_date,omitempty"`
}

// MilestoneInput is the body of milestone add/update.
type MilestoneInput struct {
	Title string `json:"title"`
}

// GoalCategories are the categories the backend accepts.
var GoalCategories = []string{"ML", "CP", "Health", "Mind", "Finance"}

// IsGoalCategory reports whether c is an accepted category.
func IsGoalCategory(c string) bool {
	for _, known := range GoalCategories {
		if known == c {
			return true
		}
	}
	return false
}
