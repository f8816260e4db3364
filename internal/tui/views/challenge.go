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

// ChallengeModel shows the weekly boss and lets the user claim it.
type ChallengeModel struct {
	ctx context.Context
	svc *core.Service
	err components.ErrorView
}

func NewChallengeModel(ctx context.Context, svc *core.Service) ChallengeModel {
	return ChallengeModel{ctx: ctx, svc: svc}
}

var ChallengeKeys = []cache.Key{core.KeyChallenge, core.KeyChallengeHistory}

func (m ChallengeModel) Init() tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		if _, err := svc.WeeklyChallenge(ctx); err != nil {
			return LoadedMsg{Screen: "challenge", Err: err}
		}
		_, err := svc.ChallengeHistory(ctx)
		return LoadedMsg{Screen: "challenge", Err: err}
	}
}

func (m ChallengeModel) Update(msg tea.Msg) (ChallengeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Screen == "challenge" {
			m.err = components.NewErrorView(msg.Err, "Could not load the weekly challenge")
		}
	case tea.KeyMsg:
		if key.Matches(msg, key.NewBinding(key.WithKeys("b", "enter"))) {
			ctx, svc := m.ctx, m.svc
			return m, func() tea.Msg {
				_, err := svc.CompleteWeeklyChallenge(ctx)
				return done("challenge", err)
			}
		}
	}
	return m, nil
}

func (m ChallengeModel) View() string {
	if m.err.HasError() {
		return m.err.View()
	}
	store := m.svc.Store()
	v, ok := cache.Value[*models.WeeklyChallengeView](store, core.KeyChallenge)
	if !ok {
		return styles.InfoStyle.Render("Loading the weekly boss...")
	}

	var b strings.Builder
	b.WriteString(ChallengePanel(v))
	b.WriteString("\n\n")
	history, _ := cache.Value[[]models.ChallengeHistoryEntry](store, core.KeyChallengeHistory)
	b.WriteString(ChallengeHistoryTable(history))
	b.WriteString("\n\n")
	help := "r refresh"
	if v.State() == models.ChallengeUnlocked {
		help = "b defeat the boss · " + help
	}
	b.WriteString(styles.HelpStyle.Render(help))
	return b.String()
}
