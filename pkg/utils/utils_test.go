package utils

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questrpg/pkg/models"
)

func TestValidateGoal(t *testing.T) {
	g := &models.GoalCreate{Title: "  Ship it ", Category: "ML", Milestones: []string{" a ", "", "   ", "b"}}
	require.NoError(t, ValidateGoal(g))
	assert.Equal(t, "Ship it", g.Title)
	assert.Equal(t, []string{"a", "b"}, g.Milestones)

	err := ValidateGoal(&models.GoalCreate{Title: "x", Category: "CP", Milestones: []string{" ", ""}})
	require.ErrorIs(t, err, models.ErrValidation)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "milestones", appErr.Field)

	err = ValidateGoal(&models.GoalCreate{Title: "   ", Category: "CP", Milestones: []string{"a"}})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "title", appErr.Field)

	err = ValidateGoal(&models.GoalCreate{Title: "x", Category: "Cooking", Milestones: []string{"a"}})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "category", appErr.Field)

	err = ValidateGoal(&models.GoalCreate{Title: "x", Milestones: []string{"a"}})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "category", appErr.Field)

	err = ValidateGoal(&models.GoalCreate{Title: "x", Category: "Mind", TargetDate: "next week", Milestones: []string{"a"}})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "target_date", appErr.Field)
}

func TestValidateCredentials(t *testing.T) {
	assert.NoError(t, ValidateUsername("hero_01"))
	assert.Error(t, ValidateUsername("ab"))
	assert.NoError(t, ValidateEmail("hero@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail(""))
	assert.NoError(t, ValidatePassword("secret1"))
	assert.ErrorIs(t, ValidatePassword("short"), models.ErrValidation)
}

func TestCombineErrors(t *testing.T) {
	assert.NoError(t, CombineErrors(nil, nil))
	err := CombineErrors(nil, fmt.Errorf("one"), errors.New("two"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one")
	assert.Contains(t, err.Error(), "two")

	only := errors.New("only")
	assert.Same(t, only, CombineErrors(nil, only))
}

func TestIsContextError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, IsContextError(ctx.Err()))
	assert.True(t, IsContextError(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)))
	assert.False(t, IsContextError(errors.New("other")))
}

func TestWithTimeoutOr(t *testing.T) {
	ctx, cancel := WithTimeoutOr(context.Background(), 0)
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(DefaultTimeout), deadline, time.Second)
}

func TestTimeAgo(t *testing.T) {
	assert.Equal(t, "just now", TimeAgo(time.Now()))
	assert.Equal(t, "5 minutes ago", TimeAgo(time.Now().Add(-5*time.Minute-time.Second)))
	assert.Equal(t, "yesterday", TimeAgo(time.Now().Add(-25*time.Hour)))
	assert.Equal(t, "2 weeks ago", TimeAgo(time.Now().Add(-15*24*time.Hour)))
}

func TestFormatDay(t *testing.T) {
	assert.Equal(t, "Wed Jan 8", FormatDay("2025-01-08"))
	assert.Equal(t, "soon", FormatDay("soon"))
}
