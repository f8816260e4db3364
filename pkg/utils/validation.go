package utils

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"questrpg/pkg/models"
)

const (
	maxTitleLen    = 200
	minPasswordLen = 6
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,50}$`)

// ValidateUsername checks length and charset.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return models.NewValidationError("username", "username must be 3-50 letters, digits or _.-")
	}
	return nil
}

// ValidateEmail
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return models.NewValidationError("email", "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return models.NewValidationError("email", "email is not valid")
	}
	return nil
}

// ValidatePassword
func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return models.NewValidationError("password", "password must be at least 6 characters")
	}
	return nil
}

// ValidateTitle rejects blank or overlong titles. field names the input in
// the returned error.
func ValidateTitle(field, title string) error {
	t := strings.TrimSpace(title)
	if t == "" {
		return models.NewValidationError(field, field+" is required")
	}
	if len(t) > maxTitleLen {
		return models.NewValidationError(field, field+" must be at most 200 characters")
	}
	return nil
}

// ValidateDate accepts empty or YYYY-MM-DD.
func ValidateDate(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return models.NewValidationError(field, field+" must be YYYY-MM-DD")
	}
	return nil
}

// CleanMilestones trims titles and drops blank ones.
func CleanMilestones(titles []string) []string {
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ValidateGoal checks a goal before it is sent. Milestones are cleaned in
// place; at least one must remain.
func ValidateGoal(g *models.GoalCreate) error {
	if err := ValidateTitle("title", g.Title); err != nil {
		return err
	}
	g.Title = strings.TrimSpace(g.Title)
	if !models.IsGoalCategory(g.Category) {
		return models.NewValidationError("category", "category must be one of "+strings.Join(models.GoalCategories, ", "))
	}
	if err := ValidateDate("target_date", g.TargetDate); err != nil {
		return err
	}
	g.Milestones = CleanMilestones(g.Milestones)
	if len(g.Milestones) == 0 {
		return models.NewValidationError("milestones", "at least one milestone is required")
	}
	for _, m := range g.Milestones {
		if err := ValidateTitle("milestones", m); err != nil {
			return err
		}
	}
	return nil
}
