package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"questrpg/internal/cache"
	"questrpg/internal/core"
	"questrpg/internal/tui/components"
	"questrpg/internal/tui/styles"
	"questrpg/pkg/models"
)

var statsTabs = []string{"Profile", "Streaks", "Leaderboard", "Decay"}

// StatsModel shows the read-only progression views in tabs.
type StatsModel struct {
	ctx      context.Context
	svc      *core.Service
	username string

	tab int
	err components.ErrorView
}

func NewStatsModel(ctx context.Context, svc *core.Service) StatsModel {
	return StatsModel{ctx: ctx, svc: svc}
}

var StatsKeys = []cache.Key{core.KeyProfile, core.KeyStreaks, core.KeyLeaderboard, core.KeyDecay, core.KeyDecayHistory}

// SetUsername highlights the user on the leaderboard.
func (m *StatsModel) SetUsername(name string) { m.username = name }

func (m StatsModel) Init() tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error { _, err := svc.Profile(ctx); return err })
		g.Go(func() error { _, err := svc.Streaks(ctx); return err })
		g.Go(func() error { _, err := svc.Leaderboard(ctx); return err })
		g.Go(func() error { _, err := svc.DecayStatus(ctx); return err })
		g.Go(func() error { _, err := svc.DecayHistory(ctx); return err })
		return LoadedMsg{Screen: "stats", Err: g.Wait()}
	}
}

func (m StatsModel) Update(msg tea.Msg) (StatsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Screen == "stats" {
			m.err = components.NewErrorView(msg.Err, "Could not load stats")
		}
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("tab", "right", "l"))):
			m.tab = (m.tab + 1) % len(statsTabs)
		case key.Matches(msg, key.NewBinding(key.WithKeys("shift+tab", "left", "h"))):
			m.tab = (m.tab + len(statsTabs) - 1) % len(statsTabs)
		}
	}
	return m, nil
}

func (m StatsModel) View() string {
	var b strings.Builder
	for i, name := range statsTabs {
		if i == m.tab {
			b.WriteString(styles.TabActiveStyle.Render(name))
		} else {
			b.WriteString(styles.TabStyle.Render(name))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n")
	b.WriteString(styles.Divider(48))
	b.WriteString("\n\n")

	if m.err.HasError() {
		b.WriteString(m.err.View())
		return b.String()
	}

	store := m.svc.Store()
	switch m.tab {
	case 0:
		if p, ok := cache.Value[*models.Profile](store, core.KeyProfile); ok {
			b.WriteString(ProfileDetail(p))
		}
	case 1:
		streaks, _ := cache.Value[[]models.Streak](store, core.KeyStreaks)
		b.WriteString(StreakTable(streaks))
	case 2:
		entries, _ := cache.Value[[]models.LeaderboardEntry](store, core.KeyLeaderboard)
		b.WriteString(LeaderboardTable(entries, m.username))
	case 3:
		status, _ := cache.Value[*models.DecayStatus](store, core.KeyDecay)
		records, _ := cache.Value[[]models.DecayRecord](store, core.KeyDecayHistory)
		b.WriteString(DecayPanel(status))
		b.WriteString("\n\n")
		b.WriteString(DecayHistoryTable(records))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("tab switch · r refresh"))
	return b.String()
}
