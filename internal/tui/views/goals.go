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

// GoalsModel lists goals and opens one to tick its milestones.
type GoalsModel struct {
	ctx context.Context
	svc *core.Service

	cursor   int
	openID   string
	msCursor int
	err      components.ErrorView
}

func NewGoalsModel(ctx context.Context, svc *core.Service) GoalsModel {
	return GoalsModel{ctx: ctx, svc: svc}
}

var GoalsKeys = []cache.Key{core.KeyGoals}

func (m GoalsModel) Init() tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		_, err := svc.Goals(ctx)
		return LoadedMsg{Screen: "goals", Err: err}
	}
}

func (m GoalsModel) goals() []models.Goal {
	goals, _ := cache.Value[[]models.Goal](m.svc.Store(), core.KeyGoals)
	return goals
}

func (m GoalsModel) open() *models.Goal {
	if m.openID == "" {
		return nil
	}
	for _, g := range m.goals() {
		if g.ID == m.openID {
			return &g
		}
	}
	return nil
}

// Open reports whether a goal detail is shown, so Esc is handled here.
func (m GoalsModel) Open() bool { return m.open() != nil }

func (m GoalsModel) Update(msg tea.Msg) (GoalsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Screen == "goals" {
			m.err = components.NewErrorView(msg.Err, "Could not load goals")
		}
		return m, nil

	case tea.KeyMsg:
		if g := m.open(); g != nil {
			return m.updateDetail(msg, g)
		}
		goals := m.goals()
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if m.cursor < len(goals)-1 {
				m.cursor++
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("enter", "right", "l"))):
			if m.cursor < len(goals) {
				m.openID = goals[m.cursor].ID
				m.msCursor = 0
			}
		}
	}
	return m, nil
}

func (m GoalsModel) updateDetail(msg tea.KeyMsg, g *models.Goal) (GoalsModel, tea.Cmd) {
	milestones := g.SortedMilestones()
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("esc", "left", "h"))):
		m.openID = ""
	case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.msCursor > 0 {
			m.msCursor--
		}
	case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.msCursor < len(milestones)-1 {
			m.msCursor++
		}
	case key.Matches(msg, key.NewBinding(key.WithKeys(" ", "enter", "x"))):
		if m.msCursor >= len(milestones) {
			return m, nil
		}
		ctx, svc, id := m.ctx, m.svc, milestones[m.msCursor].ID
		return m, func() tea.Msg {
			_, err := svc.ToggleMilestone(ctx, id)
			return done("milestone", err)
		}
	}
	return m, nil
}

func (m GoalsModel) View() string {
	if m.err.HasError() {
		return m.err.View()
	}
	if g := m.open(); g != nil {
		return GoalDetail(g, m.msCursor) + "\n\n" +
			styles.HelpStyle.Render("space toggle milestone · esc back")
	}

	var b strings.Builder
	b.WriteString(styles.Heading("🏰", "Epic Quests"))
	b.WriteString("\n")
	goals := m.goals()
	if goals == nil && m.svc.Store().Peek(core.KeyGoals).Status == cache.StatusEmpty {
		b.WriteString(styles.InfoStyle.Render("Loading goals..."))
		return b.String()
	}
	if len(goals) == 0 {
		b.WriteString(styles.Muted("No goals yet. Create one with: quest goals create"))
		return b.String()
	}
	for i, g := range goals {
		b.WriteString(GoalSummary(i+1, g, i == m.cursor))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("enter open · r refresh"))
	return b.String()
}
