package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questrpg/internal/fakeapi"
	"questrpg/pkg/models"
)

func setupClient(t *testing.T, opts ...Option) (*Client, *fakeapi.Server) {
	t.Helper()
	srv := fakeapi.New(fakeapi.Options{})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return NewClient(ts.URL+fakeapi.APIPrefix+"/", opts...), srv
}

func login(t *testing.T, c *Client) *models.TokenResponse {
	t.Helper()
	tok, err := c.Login(context.Background(), models.LoginRequest{Email: fakeapi.DemoEmail, Password: fakeapi.DemoPassword})
	require.NoError(t, err)
	c.SetToken(tok.AccessToken)
	return tok
}

func TestNewClientTrimsBaseURL(t *testing.T) {
	c := NewClient("http://example.test/api/v1/")
	assert.Equal(t, "http://example.test/api/v1", c.BaseURL())
}

func TestLoginDoesNotStoreToken(t *testing.T) {
	c, _ := setupClient(t)
	tok, err := c.Login(context.Background(), models.LoginRequest{Email: fakeapi.DemoEmail, Password: fakeapi.DemoPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, tok.AccessToken)
	assert.Empty(t, c.Token())
}

func TestErrorTaxonomy(t *testing.T) {
	c, srv := setupClient(t)
	ctx := context.Background()

	_, err := c.Login(ctx, models.LoginRequest{Email: fakeapi.DemoEmail, Password: "nope"})
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.Equal(t, "Incorrect email or password", models.UserMessage(err, "fallback"))

	login(t, c)
	_, err = c.CompleteRun(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrConflict)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)
	assert.Equal(t, "Daily run not found", appErr.Detail)

	_, err = c.CreateGoal(ctx, models.GoalCreate{Title: "x", Category: "bogus", Milestones: []string{"a"}})
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Contains(t, models.UserMessage(err, ""), "category")

	srv.FailNext(fakeapi.RouteProfile, http.StatusBadGateway, "")
	_, err = c.GetProfile(ctx)
	assert.ErrorIs(t, err, models.ErrNetwork)
	require.True(t, errors.As(err, &appErr))
	assert.True(t, appErr.Retryable())
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := NewClient(url)
	_, err := c.GetProfile(context.Background())
	assert.ErrorIs(t, err, models.ErrNetwork)
}

func TestTimeoutIsNetworkError(t *testing.T) {
	c, srv := setupClient(t, WithTimeout(50*time.Millisecond))
	login(t, c)
	release := srv.Block(fakeapi.RouteProfile)
	defer release()

	_, err := c.GetProfile(context.Background())
	assert.ErrorIs(t, err, models.ErrNetwork)
}

func TestUnauthorizedHookFires(t *testing.T) {
	var calls atomic.Int32
	c, _ := setupClient(t, WithUnauthorizedHandler(func(context.Context) { calls.Add(1) }))
	c.SetToken("expired")

	_, err := c.GetTodayRun(context.Background())
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.Equal(t, int32(1), calls.Load())

	c.SetUnauthorizedHandler(nil)
	_, err = c.GetStreaks(context.Background())
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDailyRunRoundTrip(t *testing.T) {
	c, srv := setupClient(t)
	login(t, c)
	ctx := context.Background()

	run, err := c.GetTodayRun(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, run.Quests)

	q := run.Quests[0]
	res, err := c.ToggleQuest(ctx, run.ID, q.CompletionID)
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Equal(t, 1, srv.Hits(fakeapi.RouteToggleQuest))

	locked, err := c.CompleteRun(ctx, run.ID)
	require.NoError(t, err)
	assert.True(t, locked.Locked)

	history, err := c.GetRunHistory(ctx, 5)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, run.ID, history[0].ID)
}

func TestGoalEndpoints(t *testing.T) {
	c, _ := setupClient(t)
	login(t, c)
	ctx := context.Background()

	g, err := c.CreateGoal(ctx, models.GoalCreate{Title: "Ship it", Category: "ML", Milestones: []string{"a", "b"}})
	require.NoError(t, err)

	g, err = c.AddMilestone(ctx, g.ID, "c")
	require.NoError(t, err)
	require.Len(t, g.Milestones, 3)

	m, err := c.UpdateMilestone(ctx, g.Milestones[2].ID, "c2")
	require.NoError(t, err)
	assert.Equal(t, "c2", m.Title)

	g, err = c.ToggleMilestone(ctx, m.ID)
	require.NoError(t, err)
	assert.InDelta(t, 33.33, g.ProgressPercentage, 0.001)

	desc := "ship the model"
	g, err = c.UpdateGoal(ctx, g.ID, models.GoalUpdate{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, desc, g.Description)

	require.NoError(t, c.DeleteMilestone(ctx, m.ID))
	require.NoError(t, c.DeleteGoal(ctx, g.ID))

	goals, err := c.ListGoals(ctx)
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestStatsAndChallengeEndpoints(t *testing.T) {
	c, _ := setupClient(t)
	tok := login(t, c)
	ctx := context.Background()

	p, err := c.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, tok.User.ID, p.UserID)

	board, err := c.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, board)

	decay, err := c.GetDecayStatus(ctx)
	require.NoError(t, err)
	assert.True(t, decay.IsCurrentlySafe)

	records, err := c.GetDecayHistory(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, records)

	view, err := c.GetWeeklyChallenge(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeLocked, view.State())

	_, err = c.CompleteWeeklyChallenge(ctx, view.Challenge.ID)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, "Challenge is not unlocked yet", models.UserMessage(err, ""))

	hist, err := c.GetChallengeHistory(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, hist)
}

func TestRateLimitRespectsContext(t *testing.T) {
	c, _ := setupClient(t, WithRateLimit(0.001, 1))
	login(t, c)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.GetProfile(ctx)
	assert.ErrorIs(t, err, models.ErrNetwork)
}

func TestWithLimit(t *testing.T) {
	assert.Equal(t, "/x", withLimit("/x", 0))
	assert.Equal(t, "/x?limit=3", withLimit("/x", 3))
}
