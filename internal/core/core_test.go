package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questrpg/internal/api"
	"questrpg/internal/cache"
	"questrpg/internal/fakeapi"
	"questrpg/internal/notify"
	"questrpg/internal/session"
	"questrpg/pkg/models"
)

var wednesday = time.Date(2025, time.January, 8, 10, 0, 0, 0, time.UTC)

type harness struct {
	svc      *Service
	srv      *fakeapi.Server
	client   *api.Client
	store    *cache.Store
	recorder *notify.Recorder

	mu          sync.Mutex
	invalidated []cache.Key
}

func setup(t *testing.T, opts fakeapi.Options, svcOpts Options) *harness {
	t.Helper()
	if opts.Now == nil {
		opts.Now = func() time.Time { return wednesday }
	}
	srv := fakeapi.New(opts)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	client := api.NewClient(ts.URL + fakeapi.APIPrefix)
	tok, err := srv.IssueToken(srv.DemoUserID())
	require.NoError(t, err)
	client.SetToken(tok)

	store := cache.New(cache.WithFetchTimeout(5 * time.Second))
	t.Cleanup(store.Close)

	h := &harness{srv: srv, client: client, store: store, recorder: &notify.Recorder{}}
	if svcOpts.Notifier == nil {
		svcOpts.Notifier = h.recorder
	}
	h.svc = NewService(client, store, svcOpts)
	store.Subscribe(func(ev cache.Event) {
		if ev.Kind == cache.EventInvalidated {
			h.mu.Lock()
			h.invalidated = append(h.invalidated, ev.Key)
			h.mu.Unlock()
		}
	})
	return h
}

// settle waits for background refetches and clears the recorded state.
func (h *harness) settle() {
	h.store.Wait()
	h.mu.Lock()
	h.invalidated = nil
	h.mu.Unlock()
	h.recorder.Reset()
}

func (h *harness) invalidatedKeys() []cache.Key {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]cache.Key(nil), h.invalidated...)
}

func (h *harness) notifications(level notify.Level) []string {
	var out []string
	for _, n := range h.recorder.All() {
		if n.Level == level {
			out = append(out, n.Message)
		}
	}
	return out
}

func (h *harness) quest(t *testing.T, title string) models.QuestCompletion {
	t.Helper()
	run, err := h.svc.TodayRun(context.Background())
	require.NoError(t, err)
	for _, q := range run.Quests {
		if q.Title == title {
			return q
		}
	}
	t.Fatalf("quest %q not in run", title)
	return models.QuestCompletion{}
}

func cachedRun(t *testing.T, h *harness) *models.DailyRun {
	t.Helper()
	run, ok := cache.Value[*models.DailyRun](h.store, KeyTodayRun)
	require.True(t, ok)
	return run
}

func TestLoadDashboard(t *testing.T) {
	h := setup(t, fakeapi.Options{}, Options{})
	d, err := h.svc.LoadDashboard(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, d.Profile)
	assert.NotNil(t, d.Run)
	assert.NotNil(t, d.Decay)
	assert.NotNil(t, d.Challenge)
	assert.Empty(t, d.Goals)
	assert.Equal(t, 1, d.Profile.Level())
}

func TestToggleQuestAppliesOptimisticallyThenInvalidates(t *testing.T) {
	h := setup(t, fakeapi.Options{}, Options{})
	ctx := context.Background()
	_, err := h.svc.LoadDashboard(ctx)
	require.NoError(t, err)
	workout := h.quest(t, "Morning Workout")
	require.Equal(t, 50, workout.BaseXP)
	require.Equal(t, "Medium", workout.Difficulty)
	h.settle()

	release := h.srv.Block(fakeapi.RouteToggleQuest)
	type result struct {
		res *models.ToggleResult
		err error
	}
	done := make(chan result, 1)
	go func() {
		res, err := h.svc.ToggleQuest(ctx, workout.CompletionID)
		done <- result{res, err}
	}()

	require.Eventually(t, func() bool {
		return h.store.Peek(KeyTodayRun).Status == cache.StatusReconciling
	}, 2*time.Second, 5*time.Millisecond)

	pending := cachedRun(t, h)
	qc, ok := pending.Completion(workout.CompletionID)
	require.True(t, ok)
	assert.True(t, qc.Completed, "flag flips before the backend answers")
	assert.Equal(t, 0, qc.XPEarned, "xp is not recomputed locally")
	assert.Equal(t, 0, pending.TotalXP)
	assert.Empty(t, h.invalidatedKeys())

	release()
	r := <-done
	require.NoError(t, r.err)
	assert.Equal(t, 75, r.res.XPEarned)
	assert.ElementsMatch(t, RunDependents, h.invalidatedKeys())
	assert.Equal(t, []string{"Quest Complete! +75 XP"}, h.notifications(notify.LevelSuccess))

	h.store.Wait()
	confirmed := cachedRun(t, h)
	qc, _ = confirmed.Completion(workout.CompletionID)
	assert.True(t, qc.Completed)
	assert.Equal(t, 75, qc.XPEarned)
	assert.Equal(t, 75, confirmed.TotalXP)
	assert.Equal(t, cache.StatusStable, h.store.Peek(KeyTodayRun).Status)
}

func TestToggleQuestFailureRestoresSnapshot(t *testing.T) {
	h := setup(t, fakeapi.Options{}, Options{})
	ctx := context.Background()
	_, err := h.svc.LoadDashboard(ctx)
	require.NoError(t, err)
	workout := h.quest(t, "Morning Workout")
	h.settle()

	before := cachedRun(t, h)
	profileHits := h.srv.Hits(fakeapi.RouteProfile)
	h.srv.FailNext(fakeapi.RouteToggleQuest, http.StatusBadRequest, "")

	_, err = h.svc.ToggleQuest(ctx, workout.CompletionID)
	require.ErrorIs(t, err, models.ErrConflict)

	after := cachedRun(t, h)
	assert.Same(t, before, after, "exact snapshot is restored")
	qc, _ := after.Completion(workout.CompletionID)
	assert.False(t, qc.Completed)
	assert.Equal(t, cache.StatusStable, h.store.Peek(KeyTodayRun).Status)

	assert.Equal(t, []string{"Action failed. The forces of chaos prevail."}, h.notifications(notify.LevelError))
	h.store.Wait()
	assert.Empty(t, h.invalidatedKeys())
	assert.Equal(t, profileHits, h.srv.Hits(fakeapi.RouteProfile))
}

func TestToggleQuestSurfacesServerMessage(t *testing.T) {
	h := setup(t, fakeapi.Options{}, Options{})
	ctx := context.Background()
	workout := h.quest(t, "Morning Workout")
	h.settle()

	h.srv.FailNext(fakeapi.RouteToggleQuest, http.StatusForbidden, "Cannot modify a past daily run")
	_, err := h.svc.ToggleQuest(ctx, workout.CompletionID)
	require.Error(t, err)
	assert.Equal(t, []string{"Cannot modify a past daily run"}, h.notifications(notify.LevelError))
}

func TestToggleQuestTimeoutRollsBack(t *testing.T) {
	h := setup(t, fakeapi.Options{}, Options{Timeout: 50 * time.Millisecond})
	ctx := context.Background()
	workout := h.quest(t, "Morning Workout")
	h.settle()

	release := h.srv.Block(fakeapi.RouteToggleQuest)
	defer release()

	_, err := h.svc.ToggleQuest(ctx, workout.CompletionID)
	require.ErrorIs(t, err, models.ErrNetwork)
	qc, _ := cachedRun(t, h).Completion(workout.CompletionID)
	assert.False(t, qc.Completed)
	assert.Len(t, h.notifications(notify.LevelError), 1)
}

func TestToggleUnknownCompletionIsRefused(t *testing.T) {
	h := setup(t, fakeapi.Options{}, Options{})
	_, err := h.svc.ToggleQuest(context.Background(), "nope")
	require.ErrorIs(t, err, models.ErrConflict)
	assert.Zero(t, h.srv.Hits(fakeapi.RouteToggleQuest))
}

func TestMutationsOnTodayRunAreSerialized(t *testing.T) {
	h := setup(t, fakeapi.Options{}, Options{})
	ctx := context.Background()
	workout := h.quest(t, "Morning Workout")
	reading := h.quest(t, "Read 20 Pages")
	h.settle()

	release := h.srv.Block(fakeapi.RouteToggleQuest)
	errs := make(chan error, 2)
	go func() {
		_, err := h.svc.ToggleQuest(ctx, workout.CompletionID)
		errs <- err
	}()
	require.Eventually(t, func() bool {
		return h.srv.Hits(fakeapi.RouteToggleQuest) == 1
	}, 2*time.Second, 5*time.Millisecond)

	go func() {
		_, err := h.svc.ToggleQuest(ctx, reading.CompletionID)
		errs <- err
	}()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, h.srv.Hits(fakeapi.RouteToggleQuest), "second toggle waits for the first")

	release()
	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
	assert.Equal(t, 2, h.srv.Hits(fakeapi.RouteToggleQuest))

	h.store.Wait()
	run := cachedRun(t, h)
	assert.Equal(t, 2, run.CompletedCount())
}

func TestReadDuringToggleIsSuperseded(t *testing.T) {
	h := setup(t, fakeapi.Options{}, Options{})
	ctx := context.Background()
	workout := h.quest(t, "Morning Workout")
	h.settle()

	release := h.srv.Block(fakeapi.RouteToggleQuest)
	done := make(chan error, 1)
	go func() {
		_, err := h.svc.ToggleQuest(ctx, workout.CompletionID)
		done <- err
	}()
	require.Eventually(t, func() bool {
		return h.store.Peek(KeyTodayRun).Status == cache.StatusReconciling
	}, 2*time.Second, 5*time.Millisecond)

	runHits := h.srv.Hits(fakeapi.RouteTodayRun)
	require.NoError(t, h.svc.Refresh(ctx, KeyTodayRun))
	run, err := h.svc.TodayRun(ctx)
	require.NoError(t, err)
	qc, _ := run.Completion(workout.CompletionID)
	assert.True(t, qc.Completed, "read returns the optimistic value")
	assert.Equal(t, runHits, h.srv.Hits(fakeapi.RouteTodayRun), "no read raced the mutation")

	release()
	require.NoError(t, <-done)
}

func completeCoreQuests(t *testing.T, h *harness) {
	t.Helper()
	run, err := h.svc.TodayRun(context.Background())
	require.NoError(t, err)
	for _, q := range run.Quests {
		if q.IsCore {
			_, err := h.svc.ToggleQuest(context.Background(), q.CompletionID)
			require.NoError(t, err)
			h.store.Wait()
		}
	}
}

func TestCompleteRunUnlocksWeeklyChallenge(t *testing.T) {
	h := setup(t, fakeapi.Options{DaysRequired: 1}, Options{})
	ctx := context.Background()
	_, err := h.svc.LoadDashboard(ctx)
	require.NoError(t, err)
	completeCoreQuests(t, h)
	h.settle()

	res, err := h.svc.CompleteRun(ctx)
	require.NoError(t, err)
	assert.True(t, res.Locked)
	assert.True(t, res.WeeklyChallengeUnlocked)

	assert.Equal(t, []string{"WEEKLY BOSS UNLOCKED: Weekly Boss Battle: Jan 06 - Jan 12!"}, h.notifications(notify.LevelAlert))
	assert.Contains(t, h.notifications(notify.LevelSuccess), "Daily Run Locked! Leveling up...")
	for _, key := range RunDependents {
		assert.Contains(t, h.invalidatedKeys(), key)
	}

	h.store.Wait()
	assert.True(t, cachedRun(t, h).IsLocked)
	assert.Contains(t, h.notifications(notify.LevelSuccess), "LEVEL UP! You reached level 2!")

	view, err := h.svc.WeeklyChallenge(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeUnlocked, view.State())
	assert.Equal(t, 1, view.Status.DaysCompleted)
	h.settle()

	out, err := h.svc.CompleteWeeklyChallenge(ctx)
	require.NoError(t, err)
	assert.Equal(t, fakeapi.ChallengeXPReward, out.XPEarned)
	assert.Contains(t, h.notifications(notify.LevelSuccess), "BOSS DEFEATED! +1000 XP!")
	assert.ElementsMatch(t, []cache.Key{KeyChallenge, KeyProfile, KeyChallengeHistory}, h.invalidatedKeys())

	h.store.Wait()
	p, err := h.svc.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1125, p.TotalXP)
	assert.Equal(t, 4, p.Level())
	assert.Contains(t, h.notifications(notify.LevelSuccess), "LEVEL UP! You reached level 4!")
}

func TestCompleteRunWithoutUnlockRaisesOneNotification(t *testing.T) {
	h := setup(t, fakeapi.Options{}, Options{})
	ctx := context.Background()
	_, err := h.svc.TodayRun(ctx)
	require.NoError(t, err)
	h.settle()

	res, err := h.svc.CompleteRun(ctx)
	require.NoError(t, err)
	assert.False(t, res.WeeklyChallengeUnlocked)
	assert.Empty(t, h.notifications(notify.LevelAlert))
	assert.Equal(t, []string{"Daily Run Locked! Leveling up..."}, h.notifications(notify.LevelSuccess))
}

func TestCompleteRunFailureIsNotApplied(t *testing.T) {
	h := setup(t, fakeapi.Options{}, Options{})
	ctx := context.Background()
	_, err := h.svc.CompleteRun(ctx)
	require.NoError(t, err)
	h.settle()

	_, err = h.svc.CompleteRun(ctx)
	require.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, []string{"Run is already completed"}, h.notifications(notify.LevelError))
	assert.Empty(t, h.invalidatedKeys())
	h.settle()

	h.srv.FailNext(fakeapi.RouteCompleteRun, http.StatusBadRequest, "")
	_, err = h.svc.CompleteRun(ctx)
	require.Error(t, err)
	assert.Equal(t, []string{"You cannot lock this run yet."}, h.notifications(notify.LevelError))
}

func TestCompleteRunFailureLeavesRunUnlocked(t *testing.T) {
	h := setup(t, fakeapi.Options{}, Options{})
	ctx := context.Background()
	_, err := h.svc.TodayRun(ctx)
	require.NoError(t, err)
	h.settle()

	before := cachedRun(t, h)
	h.srv.FailNext(fakeapi.RouteCompleteRun, http.StatusServiceUnavailable, "")
	_, err = h.svc.CompleteRun(ctx)
	require.ErrorIs(t, err, models.ErrNetwork)
	assert.Same(t, before, cachedRun(t, h))
	assert.False(t, cachedRun(t, h).IsLocked)
}

func TestCompleteWeeklyChallengeRefusedWhenLocked(t *testing.T) {
	h := setup(t, fakeapi.Options{}, Options{})
	_, err := h.svc.CompleteWeeklyChallenge(context.Background())
	require.ErrorIs(t, err, models.ErrConflict)
	assert.Zero(t, h.srv.Hits(fakeapi.RouteCompleteChallenge))
	assert.Equal(t, []string{"The weekly challenge is not unlocked yet"}, h.notifications(notify.LevelError))
}

func TestCreateGoalValidatesBeforeRequest(t *testing.T) {
	h := setup(t, fakeapi.Options{}, Options{})
	_, err := h.svc.CreateGoal(context.Background(), models.GoalCreate{
		Title:      "Learn piano",
		Category:   "Mind",
		Milestones: []string{"  ", ""},
	})
	require.ErrorIs(t, err, models.ErrValidation)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "milestones", appErr.Field)
	assert.Zero(t, h.srv.Hits(fakeapi.RouteCreateGoal))
	assert.Empty(t, h.recorder.All(), "validation errors are shown inline")
}

func TestGoalLifecycle(t *testing.T) {
	h := setup(t, fakeapi.Options{}, Options{})
	ctx := context.Background()
	goals, err := h.svc.Goals(ctx)
	require.NoError(t, err)
	require.Empty(t, goals)
	h.settle()

	g, err := h.svc.CreateGoal(ctx, models.GoalCreate{
		Title:      "Run a marathon",
		Category:   "Health",
		Milestones: []string{"5k", "10k"},
	})
	require.NoError(t, err)
	assert.Equal(t, []cache.Key{KeyGoals}, h.invalidatedKeys())
	h.store.Wait()

	goals, err = h.svc.Goals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "Run a marathon", goals[0].Title)

	g, err = h.svc.AddMilestone(ctx, g.ID, "half")
	require.NoError(t, err)
	require.Len(t, g.Milestones, 3)

	title := "Run two marathons"
	_, err = h.svc.UpdateGoal(ctx, g.ID, models.GoalUpdate{Title: &title})
	require.NoError(t, err)

	bad := "Cooking"
	_, err = h.svc.UpdateGoal(ctx, g.ID, models.GoalUpdate{Category: &bad})
	require.ErrorIs(t, err, models.ErrValidation)

	m, err := h.svc.UpdateMilestone(ctx, g.Milestones[0].ID, "5k race")
	require.NoError(t, err)
	assert.Equal(t, "5k race", m.Title)
	h.settle()

	for _, ms := range g.Milestones {
		g, err = h.svc.ToggleMilestone(ctx, ms.ID)
		require.NoError(t, err)
	}
	assert.True(t, g.IsCompleted)
	assert.Contains(t, h.invalidatedKeys(), KeyProfile)
	assert.Contains(t, h.notifications(notify.LevelSuccess), "EPIC QUEST COMPLETE: Run two marathons!")

	require.NoError(t, h.svc.DeleteMilestone(ctx, g.Milestones[2].ID))
	require.NoError(t, h.svc.DeleteGoal(ctx, g.ID))
	assert.Contains(t, h.notifications(notify.LevelSuccess), "Goal deleted")

	h.store.Wait()
	goals, err = h.svc.Goals(ctx)
	require.NoError(t, err)
	assert.Empty(t, goals)

	err = h.svc.DeleteGoal(ctx, g.ID)
	require.ErrorIs(t, err, models.ErrConflict)
	assert.Contains(t, h.notifications(notify.LevelError), "Goal not found")
}

// shuffledGoals returns milestones out of order.
type shuffledGoals struct {
	Backend
}

func (shuffledGoals) ListGoals(context.Context) ([]models.Goal, error) {
	return []models.Goal{{
		ID:    "g1",
		Title: "Ordered",
		Milestones: []models.Milestone{
			{ID: "c", Title: "third", Order: 2},
			{ID: "a", Title: "first", Order: 0, IsCompleted: true},
			{ID: "b", Title: "second", Order: 1},
		},
	}}, nil
}

func TestGoalsAreSortedByMilestoneOrder(t *testing.T) {
	store := cache.New()
	t.Cleanup(store.Close)
	svc := NewService(shuffledGoals{}, store, Options{})

	g, err := svc.Goal(context.Background(), "g1")
	require.NoError(t, err)
	var orders []int
	for _, m := range g.Milestones {
		orders = append(orders, m.Order)
	}
	assert.Equal(t, []int{0, 1, 2}, orders)
	assert.Equal(t, 33, g.Progress())

	next, ok := g.NextMilestone()
	require.True(t, ok)
	assert.Equal(t, "second", next.Title)

	_, err = svc.Goal(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestUnauthorizedTearsDownSessionAndRollsBack(t *testing.T) {
	h := setup(t, fakeapi.Options{}, Options{})
	ctx := context.Background()

	redirected := make(chan struct{}, 1)
	mgr := session.NewManager(session.NewMemoryStore(), h.client,
		session.WithNotifier(h.recorder),
		session.WithRedirect(func() { redirected <- struct{}{} }),
	)
	h.client.SetUnauthorizedHandler(mgr.HandleUnauthorized)
	require.NoError(t, mgr.Save(ctx, &models.TokenResponse{AccessToken: h.client.Token(), User: models.User{ID: "u"}}))
	mgr.SetLocation("/dashboard")

	workout := h.quest(t, "Morning Workout")
	h.settle()
	before := cachedRun(t, h)

	h.client.SetToken("expired")
	_, err := h.svc.ToggleQuest(ctx, workout.CompletionID)
	require.ErrorIs(t, err, models.ErrUnauthorized)

	assert.Same(t, before, cachedRun(t, h))
	select {
	case <-redirected:
	default:
		t.Fatal("expected redirect to login")
	}
	assert.Equal(t, "/login", mgr.Location())
	assert.Empty(t, h.client.Token())
	tok, err := mgr.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
	assert.Equal(t, []string{"Session expired. Please log in again."}, h.recorder.Messages())
}

func TestPollDecayRefreshesStatus(t *testing.T) {
	h := setup(t, fakeapi.Options{}, Options{DecayPollInterval: 20 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	status, err := h.svc.DecayStatus(ctx)
	require.NoError(t, err)
	require.False(t, status.PotentialDecay.WillDecay)

	h.srv.SetLastActivity(h.srv.DemoUserID(), wednesday.AddDate(0, 0, -2))
	go h.svc.PollDecay(ctx)

	require.Eventually(t, func() bool {
		s, ok := cache.Value[*models.DecayStatus](h.store, KeyDecay)
		return ok && s.PotentialDecay.WillDecay
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 20*time.Millisecond, h.svc.DecayPollInterval())
}

func TestHistoryViews(t *testing.T) {
	h := setup(t, fakeapi.Options{}, Options{})
	ctx := context.Background()
	_, err := h.svc.CompleteRun(ctx)
	require.NoError(t, err)
	h.store.Wait()

	runs, err := h.svc.RunHistory(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].IsLocked)

	decay, err := h.svc.DecayHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, decay)

	challenges, err := h.svc.ChallengeHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, challenges)

	board, err := h.svc.Leaderboard(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, board)
	assert.Equal(t, fakeapi.DemoUsername, board[0].Username)

	streaks, err := h.svc.Streaks(ctx)
	require.NoError(t, err)
	assert.Empty(t, streaks)
}

type memorySession struct {
	saved  *models.TokenResponse
	logout bool
}

func (m *memorySession) Save(_ context.Context, tok *models.TokenResponse) error {
	m.saved = tok
	return nil
}

func (m *memorySession) Logout(context.Context) error {
	m.logout = true
	return nil
}

func TestAuthLoginAndLogout(t *testing.T) {
	h := setup(t, fakeapi.Options{}, Options{})
	ctx := context.Background()
	sess := &memorySession{}
	auth := NewAuth(h.svc, sess)

	_, err := auth.Login(ctx, "not-an-email", "x")
	require.ErrorIs(t, err, models.ErrValidation)

	_, err = auth.Login(ctx, fakeapi.DemoEmail, "wrong")
	require.ErrorIs(t, err, models.ErrUnauthorized)
	assert.Equal(t, []string{"Incorrect email or password"}, h.notifications(notify.LevelError))

	_, err = h.svc.Profile(ctx)
	require.NoError(t, err)

	u, err := auth.Login(ctx, fakeapi.DemoEmail, fakeapi.DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, fakeapi.DemoUsername, u.Username)
	require.NotNil(t, sess.saved)
	assert.False(t, h.store.Peek(KeyProfile).HasValue, "previous views are dropped")

	require.NoError(t, auth.Logout(ctx))
	assert.True(t, sess.logout)
}

func TestAuthRegisterAndOnboard(t *testing.T) {
	h := setup(t, fakeapi.Options{}, Options{})
	ctx := context.Background()
	sess := &memorySession{}
	auth := NewAuth(h.svc, sess)

	_, err := auth.Register(ctx, models.RegisterRequest{Username: "ab", Email: "a@b.c", Password: "secret1"})
	require.ErrorIs(t, err, models.ErrValidation)

	u, err := auth.Register(ctx, models.RegisterRequest{Username: "rookie", Email: "rookie@quest.rpg", Password: "secret1"})
	require.NoError(t, err)
	assert.False(t, u.HasCompletedOnboarding)
	h.client.SetToken(sess.saved.AccessToken)

	_, err = auth.Onboard(ctx, []string{"Cooking"})
	require.ErrorIs(t, err, models.ErrValidation)

	u, err = auth.Onboard(ctx, []string{"CP"})
	require.NoError(t, err)
	assert.True(t, u.HasCompletedOnboarding)

	me, err := auth.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rookie", me.Username)
}
