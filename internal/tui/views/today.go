package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"questrpg/internal/cache"
	"questrpg/internal/core"
	"questrpg/internal/tui/components"
	"questrpg/internal/tui/styles"
	"questrpg/pkg/models"
)

// TodayModel shows today's run and toggles its quests.
type TodayModel struct {
	ctx context.Context
	svc *core.Service

	cursor int
	err    components.ErrorView
}

func NewTodayModel(ctx context.Context, svc *core.Service) TodayModel {
	return TodayModel{ctx: ctx, svc: svc}
}

// Keys the screen reads.
var TodayKeys = []cache.Key{core.KeyTodayRun, core.KeyProfile, core.KeyDecay, core.KeyStreaks}

func (m TodayModel) Init() tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		_, err := svc.LoadDashboard(ctx)
		return LoadedMsg{Screen: "today", Err: err}
	}
}

func (m TodayModel) run() (*models.DailyRun, bool) {
	snap := m.svc.Store().Peek(core.KeyTodayRun)
	run, _ := snap.Value.(*models.DailyRun)
	pending := snap.Status == cache.StatusOptimistic || snap.Status == cache.StatusReconciling
	return run, pending
}

func (m TodayModel) Update(msg tea.Msg) (TodayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Screen == "today" {
			m.err = components.NewErrorView(msg.Err, "Could not load today's run")
		}
		return m, nil

	case tea.KeyMsg:
		run, _ := m.run()
		if run == nil {
			return m, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if m.cursor < len(run.Quests)-1 {
				m.cursor++
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys(" ", "enter", "x"))):
			if m.cursor >= len(run.Quests) {
				return m, nil
			}
			ctx, svc := m.ctx, m.svc
			id := run.Quests[m.cursor].CompletionID
			return m, func() tea.Msg {
				_, err := svc.ToggleQuest(ctx, id)
				return done("toggle", err)
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("L"))):
			ctx, svc := m.ctx, m.svc
			return m, func() tea.Msg {
				_, err := svc.CompleteRun(ctx)
				return done("lock", err)
			}
		}
	}
	return m, nil
}

func (m TodayModel) View() string {
	if m.err.HasError() {
		return m.err.View()
	}
	run, pending := m.run()
	if run == nil {
		return styles.InfoStyle.Render("Loading today's run...")
	}

	var b strings.Builder
	b.WriteString(RunLines(run, m.cursor, pending))
	b.WriteString("\n\n")
	if decay, ok := cache.Value[*models.DecayStatus](m.svc.Store(), core.KeyDecay); ok {
		b.WriteString(DecayPanel(decay))
		b.WriteString("\n")
	}
	help := "space toggle · L lock run · r refresh"
	if run.IsLocked {
		help = "run locked · r refresh"
	}
	b.WriteString(styles.HelpStyle.Render(help))
	return b.String()
}
