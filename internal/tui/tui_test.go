package tui

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questrpg/internal/api"
	"questrpg/internal/cache"
	"questrpg/internal/core"
	"questrpg/internal/fakeapi"
	"questrpg/internal/notify"
	"questrpg/internal/session"
	"questrpg/internal/tui/components"
	"questrpg/internal/tui/views"
	"questrpg/pkg/models"
)

var wednesday = time.Date(2025, time.January, 8, 10, 0, 0, 0, time.UTC)

type harness struct {
	model *Model
	svc   *core.Service
	mgr   *session.Manager
}

func setup(t *testing.T, loggedIn bool) *harness {
	t.Helper()
	srv := fakeapi.New(fakeapi.Options{Now: func() time.Time { return wednesday }})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	client := api.NewClient(ts.URL + fakeapi.APIPrefix)
	mgr := session.NewManager(session.NewMemoryStore(), client, session.WithNotifier(notify.Discard))
	client.SetUnauthorizedHandler(mgr.HandleUnauthorized)
	if loggedIn {
		tok, err := srv.IssueToken(srv.DemoUserID())
		require.NoError(t, err)
		client.SetToken(tok)
	}

	store := cache.New(cache.WithFetchTimeout(5 * time.Second))
	t.Cleanup(store.Close)
	svc := core.NewService(client, store, core.Options{Notifier: notify.Discard})

	m := New(context.Background(), Options{
		Service:  svc,
		Auth:     core.NewAuth(svc, mgr),
		Session:  mgr,
		LoggedIn: loggedIn,
		Username: fakeapi.DemoUsername,
	})
	t.Cleanup(m.Close)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	*m = next.(Model)
	return &harness{model: m, svc: svc, mgr: mgr}
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	*h.model = next.(Model)
	return cmd
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStartsOnLoginWhenLoggedOut(t *testing.T) {
	h := setup(t, false)
	assert.Equal(t, ViewLogin, h.model.CurrentView())
	assert.Equal(t, "/login", h.mgr.Location())

	// q is typed into the form, not treated as quit
	h.send(keyMsg("q"))
	assert.Equal(t, ViewLogin, h.model.CurrentView())

	h.send(views.LoginDoneMsg{User: &models.User{Username: fakeapi.DemoUsername}})
	assert.Equal(t, ViewToday, h.model.CurrentView())
	assert.Equal(t, "/today", h.mgr.Location())
}

func TestFailedLoginStaysOnForm(t *testing.T) {
	h := setup(t, false)
	h.send(views.LoginDoneMsg{Err: models.NewUnauthorizedError("Incorrect email or password")})
	assert.Equal(t, ViewLogin, h.model.CurrentView())
}

func TestSwitchScreens(t *testing.T) {
	h := setup(t, true)
	assert.Equal(t, ViewToday, h.model.CurrentView())

	tests := []struct {
		key      string
		view     View
		location string
	}{
		{"2", ViewGoals, "/goals"},
		{"3", ViewStats, "/stats"},
		{"4", ViewChallenge, "/weekly-boss"},
		{"1", ViewToday, "/today"},
	}
	for _, tt := range tests {
		t.Run(tt.view.String(), func(t *testing.T) {
			h.send(keyMsg(tt.key))
			assert.Equal(t, tt.view, h.model.CurrentView())
			assert.Equal(t, tt.location, h.mgr.Location())
		})
	}
}

func TestQuit(t *testing.T) {
	h := setup(t, true)
	cmd := h.send(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestToggleQuestFromToday(t *testing.T) {
	h := setup(t, true)
	ctx := context.Background()
	_, err := h.svc.LoadDashboard(ctx)
	require.NoError(t, err)

	run, err := h.svc.TodayRun(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, run.Quests)
	before := run.Quests[0].Completed

	assert.Contains(t, h.model.View(), run.Quests[0].Title)

	cmd := h.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.NotNil(t, cmd)
	msg, ok := cmd().(views.ActionDoneMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	h.svc.Store().Wait()

	after, ok := cache.Value[*models.DailyRun](h.svc.Store(), core.KeyTodayRun)
	require.True(t, ok)
	assert.Equal(t, !before, after.Quests[0].Completed)
}

func TestNotificationShowsToast(t *testing.T) {
	h := setup(t, true)
	h.model.Notifier().Notify(notify.New(notify.LevelSuccess, "Quest complete! +20 XP"))

	msg := waitForNotification(h.model.notes)()
	cmd := h.send(msg)
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"Quest complete! +20 XP"}, h.model.toasts.Messages())
	assert.Contains(t, h.model.View(), "Quest complete! +20 XP")

	h.send(components.ToastExpiredMsg{ID: 1})
	assert.Empty(t, h.model.toasts.Messages())
}

func TestSessionExpiryReturnsToLogin(t *testing.T) {
	h := setup(t, true)
	h.send(keyMsg("2"))

	h.mgr.HandleUnauthorized(context.Background())
	msg := waitForExpiry(h.model.expired)()
	h.send(msg)

	assert.Equal(t, ViewLogin, h.model.CurrentView())
	assert.Equal(t, "/login", h.mgr.Location())
}

func TestLogout(t *testing.T) {
	h := setup(t, true)
	cmd := h.send(tea.KeyMsg{Type: tea.KeyCtrlL})
	require.NotNil(t, cmd)
	h.send(cmd())
	assert.Equal(t, ViewLogin, h.model.CurrentView())

	_, err := h.mgr.User(context.Background())
	assert.Error(t, err)
}
