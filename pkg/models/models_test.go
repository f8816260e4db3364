package models

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalSortedMilestones(t *testing.T) {
	g := Goal{Milestones: []Milestone{
		{ID: "c", Title: "third", Order: 2},
		{ID: "a", Title: "first", Order: 0},
		{ID: "b", Title: "second", Order: 1, IsCompleted: true},
	}}

	sorted := g.SortedMilestones()
	require.Len(t, sorted, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{sorted[0].ID, sorted[1].ID, sorted[2].ID})
	assert.Equal(t, "c", g.Milestones[0].ID, "original slice untouched")

	g.SortMilestones()
	assert.Equal(t, "a", g.Milestones[0].ID)

	next, ok := g.NextMilestone()
	require.True(t, ok)
	assert.Equal(t, "a", next.ID)
	assert.Equal(t, 33, g.Progress())
}

func TestGoalProgressEmpty(t *testing.T) {
	assert.Equal(t, 0, (&Goal{}).Progress())
	_, ok := (&Goal{}).NextMilestone()
	assert.False(t, ok)
}

func TestDailyRunCloneIsDeep(t *testing.T) {
	ts := NewTimestamp(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	run := &DailyRun{ID: "r1", Quests: []QuestCompletion{
		{CompletionID: "c1", Completed: true, CompletedAt: &ts},
		{CompletionID: "c2"},
	}}

	cp := run.Clone()
	cp.Quests[0].Completed = false
	cp.Quests[0].CompletedAt.Time = time.Time{}
	cp.Quests = append(cp.Quests, QuestCompletion{CompletionID: "c3"})

	assert.True(t, run.Quests[0].Completed)
	assert.False(t, run.Quests[0].CompletedAt.IsZero())
	assert.Len(t, run.Quests, 2)
	assert.Nil(t, (*DailyRun)(nil).Clone())
}

func TestDailyRunCompletion(t *testing.T) {
	run := &DailyRun{Quests: []QuestCompletion{{CompletionID: "c1"}, {CompletionID: "c2", Completed: true}}}
	q, ok := run.Completion("c2")
	require.True(t, ok)
	assert.True(t, q.Completed)
	_, ok = run.Completion("missing")
	assert.False(t, ok)
	assert.Equal(t, 1, run.CompletedCount())
}

func TestWeeklyChallengeState(t *testing.T) {
	v := WeeklyChallengeView{}
	assert.Equal(t, ChallengeLocked, v.State())
	v.Status.IsUnlocked = true
	assert.Equal(t, ChallengeUnlocked, v.State())
	v.Status.IsCompleted = true
	assert.Equal(t, ChallengeCompleted, v.State())
}

func TestProfileLevelIsDerived(t *testing.T) {
	p := Profile{TotalXP: 450, CurrentLevel: 7}
	assert.Equal(t, 3, p.Level())
	assert.True(t, p.LevelMismatch())
	assert.Equal(t, 10, p.Progress().Percent)

	p.CurrentLevel = 3
	assert.False(t, p.LevelMismatch())
}

func TestTimestampFormats(t *testing.T) {
	cases := []string{
		`"2025-03-04T05:06:07Z"`,
		`"2025-03-04T05:06:07.123456"`,
		`"2025-03-04 05:06:07"`,
	}
	for _, raw := range cases {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(raw), &ts), raw)
		assert.Equal(t, 2025, ts.Year())
		assert.Equal(t, 7, ts.Second())
	}

	var date Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2025-03-04"`), &date))
	assert.Equal(t, time.March, date.Month())

	var empty Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &empty))
	assert.True(t, empty.IsZero())

	var bad Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &bad))

	out, err := json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestFromHTTPStatus(t *testing.T) {
	cases := []struct {
		status int
		kind   ErrorKind
		target error
	}{
		{http.StatusUnauthorized, KindUnauthorized, ErrUnauthorized},
		{http.StatusUnprocessableEntity, KindValidation, ErrValidation},
		{http.StatusBadRequest, KindConflict, ErrConflict},
		{http.StatusForbidden, KindConflict, ErrConflict},
		{http.StatusNotFound, KindConflict, ErrConflict},
		{http.StatusConflict, KindConflict, ErrConflict},
		{http.StatusInternalServerError, KindNetwork, ErrNetwork},
		{http.StatusBadGateway, KindNetwork, ErrNetwork},
	}
	for _, tc := range cases {
		err := FromHTTPStatus(tc.status, "boom")
		assert.Equal(t, tc.kind, err.Kind, "status=%d", tc.status)
		assert.ErrorIs(t, err, tc.target, "status=%d", tc.status)
		assert.Equal(t, tc.status, err.StatusCode)
	}
	assert.True(t, FromHTTPStatus(503, "").Retryable())
	assert.False(t, FromHTTPStatus(400, "").Retryable())
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Run is already completed",
		UserMessage(FromHTTPStatus(400, "Run is already completed"), "fallback"))
	assert.Equal(t, "fallback", UserMessage(FromHTTPStatus(500, ""), "fallback"))
	assert.Equal(t, "title is required",
		UserMessage(NewValidationError("title", "title is required"), "fallback"))
	assert.Equal(t, "fallback", UserMessage(assert.AnError, "fallback"))
}

func TestErrorResponseMessage(t *testing.T) {
	var plain ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(`{"detail":"Challenge already completed"}`), &plain))
	assert.Equal(t, "Challenge already completed", plain.Message())

	var list ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(`{"detail":[{"loc":["body","title"],"msg":"field required","type":"value_error.missing"},{"loc":["body","email"],"msg":"invalid email"}]}`), &list))
	assert.Equal(t, "field required; invalid email", list.Message())

	assert.Equal(t, "", ErrorResponse{}.Message())
}

func TestNetworkErrorUnwraps(t *testing.T) {
	err := NewNetworkError(assert.AnError)
	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.NotErrorIs(t, err, ErrConflict)
}
