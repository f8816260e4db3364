package run

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questrpg/pkg/models"
)

func TestResolveCompletion(t *testing.T) {
	run := &models.DailyRun{Quests: []models.QuestCompletion{
		{CompletionID: "c1", QuestID: "q1", Title: "Drink water"},
		{CompletionID: "c2", QuestID: "q2", Title: "Read 10 pages"},
	}}

	tests := []struct {
		name string
		arg  string
		want string
	}{
		{"index", "2", "c2"},
		{"index with spaces", " 1 ", "c1"},
		{"completion id", "c1", "c1"},
		{"quest id", "q2", "c2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveCompletion(run, tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, arg := range []string{"0", "3", "nope"} {
		_, err := resolveCompletion(run, arg)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr, arg)
		assert.Equal(t, models.KindValidation, appErr.Kind)
	}
}
