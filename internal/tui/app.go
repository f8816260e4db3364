// Package tui is the interactive dashboard. Every screen renders from the
// shared cache, so optimistic updates and background refetches show up
// everywhere as soon as the store changes.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"questrpg/internal/cache"
	"questrpg/internal/core"
	"questrpg/internal/notify"
	"questrpg/internal/session"
	"questrpg/internal/tui/components"
	"questrpg/internal/tui/focus"
	"questrpg/internal/tui/styles"
	"questrpg/internal/tui/views"
	"questrpg/pkg/models"
)

// View represents the screens of the dashboard
type View int

const (
	ViewLogin View = iota
	ViewToday
	ViewGoals
	ViewStats
	ViewChallenge
)

func (v View) String() string {
	switch v {
	case ViewToday:
		return "Today"
	case ViewGoals:
		return "Goals"
	case ViewStats:
		return "Stats"
	case ViewChallenge:
		return "Weekly Boss"
	}
	return "Login"
}

// location is what the session manager sees as the current page.
func (v View) location() string {
	return "/" + strings.ToLower(strings.ReplaceAll(v.String(), " ", "-"))
}

// Options are the dependencies of the dashboard.
type Options struct {
	Service  *core.Service
	Auth     *core.Auth
	Session  *session.Manager
	LoggedIn bool
	Username string
}

type cacheEventMsg cache.Event

type notificationMsg notify.Notification

type sessionExpiredMsg struct{}

type loggedOutMsg struct{ err error }

// Model is the root Bubble Tea model
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	svc     *core.Service
	auth    *core.Auth
	session *session.Manager

	events      chan cache.Event
	notes       chan notify.Notification
	expired     chan struct{}
	unsubscribe func()

	focusManager *focus.Manager
	currentView  View
	keys         KeyMap
	help         help.Model
	showHelp     bool
	toasts       components.Toasts

	width    int
	height   int
	username string

	loginModel     views.LoginModel
	todayModel     views.TodayModel
	goalsModel     views.GoalsModel
	statsModel     views.StatsModel
	challengeModel views.ChallengeModel
}

// New creates the dashboard. Close must be called when the program exits.
func New(ctx context.Context, opts Options) *Model {
	ctx, cancel := context.WithCancel(ctx)
	m := &Model{
		ctx:          ctx,
		cancel:       cancel,
		svc:          opts.Service,
		auth:         opts.Auth,
		session:      opts.Session,
		events:       make(chan cache.Event, 64),
		notes:        make(chan notify.Notification, 32),
		expired:      make(chan struct{}, 1),
		focusManager: focus.NewManager(),
		keys:         DefaultKeyMap(),
		help:         help.New(),
		toasts:       components.NewToasts(4),
		username:     opts.Username,
	}

	// a full channel already has a pending re-render, so dropping is fine
	m.unsubscribe = m.svc.Store().Subscribe(func(ev cache.Event) {
		select {
		case m.events <- ev:
		default:
		}
	})
	m.session.SetRedirect(func() {
		select {
		case m.expired <- struct{}{}:
		default:
		}
	})

	m.loginModel = views.NewLoginModel(ctx, opts.Auth)
	m.todayModel = views.NewTodayModel(ctx, opts.Service)
	m.goalsModel = views.NewGoalsModel(ctx, opts.Service)
	m.statsModel = views.NewStatsModel(ctx, opts.Service)
	m.statsModel.SetUsername(opts.Username)
	m.challengeModel = views.NewChallengeModel(ctx, opts.Service)

	if opts.LoggedIn {
		m.switchTo(ViewToday)
	} else {
		m.switchTo(ViewLogin)
	}
	return m
}

// Notifier shows notifications as toasts. It never blocks.
func (m *Model) Notifier() notify.Notifier {
	return notify.NotifierFunc(func(n notify.Notification) {
		select {
		case m.notes <- n:
		default:
		}
	})
}

// Close stops decay polling and detaches from the store and session.
func (m *Model) Close() {
	m.cancel()
	m.unsubscribe()
	m.session.SetRedirect(nil)
}

// CurrentView is the screen being shown.
func (m Model) CurrentView() View { return m.currentView }

func (m *Model) switchTo(v View) {
	m.currentView = v
	m.session.SetLocation(v.location())
	if v == ViewLogin {
		m.focusManager.SetMode(focus.ModeInput)
	} else {
		m.focusManager.SetMode(focus.ModeNavigation)
	}
}

func waitForEvent(ch <-chan cache.Event) tea.Cmd {
	return func() tea.Msg { return cacheEventMsg(<-ch) }
}

func waitForNotification(ch <-chan notify.Notification) tea.Cmd {
	return func() tea.Msg { return notificationMsg(<-ch) }
}

func waitForExpiry(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return sessionExpiredMsg{}
	}
}

// Init starts the listeners, decay polling and the first screen.
func (m Model) Init() tea.Cmd {
	go m.svc.PollDecay(m.ctx)

	cmds := []tea.Cmd{
		waitForEvent(m.events),
		waitForNotification(m.notes),
		waitForExpiry(m.expired),
	}
	if m.currentView == ViewLogin {
		cmds = append(cmds, m.loginModel.Init())
	} else {
		cmds = append(cmds, m.todayModel.Init())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case cacheEventMsg:
		return m, waitForEvent(m.events)

	case notificationMsg:
		return m, tea.Batch(m.toasts.Push(notify.Notification(msg)), waitForNotification(m.notes))

	case components.ToastExpiredMsg:
		m.toasts.Expire(msg.ID)
		return m, nil

	case sessionExpiredMsg:
		m.loginModel.Reset()
		m.switchTo(ViewLogin)
		return m, waitForExpiry(m.expired)

	case loggedOutMsg:
		m.loginModel.Reset()
		m.switchTo(ViewLogin)
		return m, nil

	case views.LoginDoneMsg:
		var cmd tea.Cmd
		m.loginModel, cmd = m.loginModel.Update(msg)
		if msg.Err != nil || msg.User == nil {
			return m, cmd
		}
		m.username = msg.User.Username
		m.statsModel.SetUsername(m.username)
		m.switchTo(ViewToday)
		return m, tea.Batch(cmd, m.todayModel.Init())

	case views.LoadedMsg:
		m.todayModel, _ = m.todayModel.Update(msg)
		m.goalsModel, _ = m.goalsModel.Update(msg)
		m.statsModel, _ = m.statsModel.Update(msg)
		m.challengeModel, _ = m.challengeModel.Update(msg)
		return m, nil

	case views.ActionDoneMsg:
		// outcome already reported through notifications
		return m, nil

	case tea.KeyMsg:
		if m.keys.ShouldHandleKey(m.focusManager.GetMode(), msg) {
			if model, cmd, handled := m.handleGlobalKey(msg); handled {
				return model, cmd
			}
		}
	}

	return m.updateCurrentView(msg)
}

func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if key.Matches(msg, m.keys.Quit) {
		m.cancel()
		return m, tea.Quit, true
	}
	if m.currentView == ViewLogin {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil, true

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh(), true

	case key.Matches(msg, m.keys.Logout):
		auth := m.auth
		ctx := m.ctx
		return m, func() tea.Msg { return loggedOutMsg{err: auth.Logout(ctx)} }, true

	case key.Matches(msg, m.keys.Today):
		m.switchTo(ViewToday)
		return m, m.todayModel.Init(), true

	case key.Matches(msg, m.keys.Goals):
		m.switchTo(ViewGoals)
		return m, m.goalsModel.Init(), true

	case key.Matches(msg, m.keys.Stats):
		m.switchTo(ViewStats)
		return m, m.statsModel.Init(), true

	case key.Matches(msg, m.keys.Challenge):
		m.switchTo(ViewChallenge)
		return m, m.challengeModel.Init(), true
	}
	return m, nil, false
}

// refresh refetches the keys of the current screen.
func (m Model) refresh() tea.Cmd {
	var keys []cache.Key
	var screen string
	switch m.currentView {
	case ViewToday:
		keys, screen = views.TodayKeys, "today"
	case ViewGoals:
		keys, screen = views.GoalsKeys, "goals"
	case ViewStats:
		keys, screen = views.StatsKeys, "stats"
	case ViewChallenge:
		keys, screen = views.ChallengeKeys, "challenge"
	default:
		return nil
	}
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		return views.LoadedMsg{Screen: screen, Err: svc.Refresh(ctx, keys...)}
	}
}

// updateCurrentView routes updates to the active screen
func (m Model) updateCurrentView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginModel, cmd = m.loginModel.Update(msg)
	case ViewToday:
		m.todayModel, cmd = m.todayModel.Update(msg)
	case ViewGoals:
		m.goalsModel, cmd = m.goalsModel.Update(msg)
	case ViewStats:
		m.statsModel, cmd = m.statsModel.Update(msg)
	case ViewChallenge:
		m.challengeModel, cmd = m.challengeModel.Update(msg)
	}

	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.currentView {
	case ViewLogin:
		content = m.loginModel.View()
	case ViewToday:
		content = m.todayModel.View()
	case ViewGoals:
		content = m.goalsModel.View()
	case ViewStats:
		content = m.statsModel.View()
	case ViewChallenge:
		content = m.challengeModel.View()
	}

	parts := []string{}
	if m.currentView != ViewLogin {
		profile, _ := cache.Value[*models.Profile](m.svc.Store(), core.KeyProfile)
		if profile != nil {
			parts = append(parts, views.ProfileHeader(profile), "")
		}
	}
	parts = append(parts, content)
	if toasts := m.toasts.View(); toasts != "" {
		parts = append(parts, "", toasts)
	}
	if m.currentView != ViewLogin {
		parts = append(parts, "", m.renderStatusBar())
		if m.showHelp {
			parts = append(parts, m.help.FullHelpView(m.keys.FullHelp()))
		}
	}
	return styles.AppStyle.Render(strings.Join(parts, "\n"))
}

// renderStatusBar renders the bottom status bar
func (m Model) renderStatusBar() string {
	left := styles.TabActiveStyle.Render("● " + m.currentView.String())

	user := m.username
	if p, ok := cache.Value[*models.Profile](m.svc.Store(), core.KeyProfile); ok && p != nil {
		user = fmt.Sprintf("%s · Lv %d", p.Username, p.Level())
	}
	right := styles.StatusBarStyle.Render(user + " | 1-4 screens | ? help | q quit")

	spacing := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-4, 0)
	return left + strings.Repeat(" ", spacing) + right
}
