package views

import (
	"fmt"
	"strings"

	"questrpg/internal/tui/styles"
	"questrpg/pkg/models"
	"questrpg/pkg/utils"
)

// The renderers below are shared by the CLI and the dashboard. They are pure
// functions of the cached values.

// ProfileHeader is the one-line level summary. Level and progress are derived
// from total XP.
func ProfileHeader(p *models.Profile) string {
	if p == nil {
		return styles.Muted("profile not loaded")
	}
	prog := p.Progress()
	return fmt.Sprintf("%s  %s  %s %d%%  %s",
		styles.TitleStyle.Render(p.Username),
		styles.SuccessStyle.Render(fmt.Sprintf("Lv %d", prog.Level)),
		styles.ProgressBar(prog.Percent, 20),
		prog.Percent,
		styles.Muted(fmt.Sprintf("%d XP · %d to next", p.TotalXP, prog.XPToNext)),
	)
}

// ProfileDetail lists the full level breakdown.
func ProfileDetail(p *models.Profile) string {
	prog := p.Progress()
	lines := []string{
		styles.Heading("⚔", p.Username),
		styles.KeyValue("Level", fmt.Sprintf("%d", prog.Level)),
		styles.KeyValue("Total XP", fmt.Sprintf("%d", p.TotalXP)),
		styles.KeyValue("This level", fmt.Sprintf("%d / %d", prog.XPIntoLevel, prog.LevelWidth)),
		styles.KeyValue("Next level at", fmt.Sprintf("%d XP (%d to go)", prog.NextFloor, prog.XPToNext)),
		styles.ProgressBar(prog.Percent, 30) + fmt.Sprintf(" %d%%", prog.Percent),
	}
	if len(p.GoalCategories) > 0 {
		badges := make([]string, len(p.GoalCategories))
		for i, c := range p.GoalCategories {
			badges[i] = styles.Category(c)
		}
		lines = append(lines, styles.KeyValue("Categories", "")+strings.Join(badges, " "))
	}
	if !p.HasCompletedOnboarding {
		lines = append(lines, styles.WarningStyle.Render("Onboarding not finished. Pick your categories to get daily quests."))
	}
	return strings.Join(lines, "\n")
}

// QuestLine renders one quest of a run. index is 1-based; selected marks the
// cursor row and pending dims rows not yet confirmed by the backend.
func QuestLine(index int, q models.QuestCompletion, selected, pending bool) string {
	box := "[ ]"
	if q.Completed {
		box = "[x]"
	}
	xp := fmt.Sprintf("%d XP", q.BaseXP)
	if q.Completed && q.XPEarned > 0 {
		xp = fmt.Sprintf("+%d XP", q.XPEarned)
	}
	core := ""
	if q.IsCore {
		core = " ★"
	}
	text := fmt.Sprintf("%2d. %s %s%s  %s  %s",
		index, box, q.Title, core, styles.Muted(q.Difficulty), xp)

	switch {
	case pending:
		text = styles.PendingStyle.Render(text)
	case selected:
		return styles.ListItemSelectedStyle.Render(text) + " " + styles.Category(q.Category)
	case q.Completed:
		text = styles.SuccessStyle.Render(text)
	}
	return styles.ListItemStyle.Render(text) + " " + styles.Category(q.Category)
}

// RunSummary is the header above today's quests.
func RunSummary(run *models.DailyRun) string {
	state := "in progress"
	switch {
	case run.IsLocked && run.IsPerfect:
		state = "locked · perfect"
	case run.IsLocked:
		state = "locked"
	}
	return fmt.Sprintf("%s  %s  %s",
		styles.Heading("🗡", "Daily Run "+run.Date),
		styles.KeyValue("Quests", fmt.Sprintf("%d/%d", run.CompletedCount(), len(run.Quests))),
		styles.KeyValue("XP", fmt.Sprintf("%d", run.TotalXP))+" "+styles.Muted("("+state+")"),
	)
}

// RunLines renders today's run. cursor < 0 renders no selection.
func RunLines(run *models.DailyRun, cursor int, pending bool) string {
	if run == nil {
		return styles.Muted("No run loaded")
	}
	lines := []string{RunSummary(run)}
	if len(run.Quests) == 0 {
		lines = append(lines, styles.Muted("No quests today. Finish onboarding to pick categories."))
	}
	for i, q := range run.Quests {
		lines = append(lines, QuestLine(i+1, q, i == cursor, pending))
	}
	return strings.Join(lines, "\n")
}

// RunHistoryTable lists past runs, newest first.
func RunHistoryTable(runs []models.DailyRun) string {
	if len(runs) == 0 {
		return styles.Muted("No runs yet")
	}
	lines := []string{styles.TableHeaderStyle.Render(fmt.Sprintf("%-12s %-8s %-7s %s", "DATE", "QUESTS", "XP", "STATE"))}
	for _, r := range runs {
		state := "open"
		if r.IsLocked {
			state = "locked"
		}
		if r.IsPerfect {
			state += " ★"
		}
		lines = append(lines, fmt.Sprintf("%-12s %-8s %-7d %s",
			utils.FormatDay(r.Date), fmt.Sprintf("%d/%d", r.CompletedCount(), len(r.Quests)), r.TotalXP, state))
	}
	return strings.Join(lines, "\n")
}

// GoalSummary is one goal row: title, category and milestone progress.
func GoalSummary(index int, g models.Goal, selected bool) string {
	done := ""
	if g.IsCompleted {
		done = " ✓"
	}
	text := fmt.Sprintf("%2d. %s%s  %s %d%%",
		index, styles.Truncate(g.Title, 40), done, styles.ProgressBar(g.Progress(), 10), g.Progress())
	if g.TargetDate != "" {
		text += " " + styles.Muted("due "+g.TargetDate)
	}
	if selected {
		return styles.ListItemSelectedStyle.Render(text) + " " + styles.Category(g.Category)
	}
	return styles.ListItemStyle.Render(text) + " " + styles.Category(g.Category)
}

// GoalDetail renders a goal with its milestones in order. cursor < 0 renders
// no selection.
func GoalDetail(g *models.Goal, cursor int) string {
	lines := []string{
		styles.Heading("🏰", g.Title) + " " + styles.Category(g.Category),
	}
	if g.Description != "" {
		lines = append(lines, g.Description)
	}
	meta := fmt.Sprintf("%d%% complete", g.Progress())
	if g.TargetDate != "" {
		meta += " · target " + g.TargetDate
	}
	lines = append(lines, styles.Muted(meta+" · id "+g.ID))
	for i, m := range g.SortedMilestones() {
		box := "[ ]"
		if m.IsCompleted {
			box = "[x]"
		}
		text := fmt.Sprintf("%s %s %s", box, m.Title, styles.Muted(m.ID))
		if i == cursor {
			lines = append(lines, styles.ListItemSelectedStyle.Render(text))
			continue
		}
		lines = append(lines, styles.ListItemStyle.Render(text))
	}
	return strings.Join(lines, "\n")
}

// StreakTable lists per-quest streaks.
func StreakTable(streaks []models.Streak) string {
	if len(streaks) == 0 {
		return styles.Muted("No streaks yet. Complete a core quest to start one.")
	}
	lines := []string{styles.TableHeaderStyle.Render(fmt.Sprintf("%-24s %-8s %-8s %s", "QUEST", "CURRENT", "LONGEST", "LAST"))}
	for _, s := range streaks {
		flame := ""
		if s.IsActive && s.CurrentStreak > 0 {
			flame = " 🔥"
		}
		lines = append(lines, fmt.Sprintf("%-24s %-8d %-8d %s%s",
			styles.Truncate(s.QuestTitle, 24), s.CurrentStreak, s.LongestStreak, s.LastCompletedDate, flame))
	}
	return strings.Join(lines, "\n")
}

// LeaderboardTable highlights the row of username.
func LeaderboardTable(entries []models.LeaderboardEntry, username string) string {
	if len(entries) == 0 {
		return styles.Muted("Leaderboard is empty")
	}
	lines := []string{styles.TableHeaderStyle.Render(fmt.Sprintf("%-5s %-20s %-6s %s", "RANK", "HERO", "LEVEL", "XP"))}
	for _, e := range entries {
		row := fmt.Sprintf("%-5d %-20s %-6d %d", e.Rank, styles.Truncate(e.Username, 20), e.Level, e.TotalXP)
		if e.Username == username {
			row = styles.SuccessStyle.Render(row)
		}
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}

// DecayPanel warns about inactivity decay.
func DecayPanel(d *models.DecayStatus) string {
	if d == nil {
		return styles.Muted("Decay status not loaded")
	}
	if d.IsCurrentlySafe {
		return styles.SuccessStyle.Render("🛡 Safe from decay") + " " +
			styles.Muted(fmt.Sprintf("(last activity %s, %d day(s) until decay)", d.LastActivityDate, d.DaysUntilDecay))
	}
	f := d.PotentialDecay
	msg := fmt.Sprintf("⚠ Decay pending: %d day(s) inactive, -%d XP (%d → %d)",
		f.DaysInactive, f.XPWillLose, f.CurrentXP, f.XPAfterDecay)
	if f.WillDropLevel {
		msg += fmt.Sprintf(", level %d → %d", f.CurrentLevel, f.LevelAfterDecay)
	}
	return styles.WarningStyle.Render(msg)
}

// DecayHistoryTable lists applied decays.
func DecayHistoryTable(records []models.DecayRecord) string {
	if len(records) == 0 {
		return styles.Muted("No decay applied. Keep it up!")
	}
	lines := []string{styles.TableHeaderStyle.Render(fmt.Sprintf("%-12s %-6s %-8s %-8s %s", "DATE", "DAYS", "LOST", "AFTER", "LEVEL"))}
	for _, r := range records {
		level := fmt.Sprintf("%d", r.LevelAfter)
		if r.LevelDropped {
			level = fmt.Sprintf("%d → %d", r.LevelBefore, r.LevelAfter)
		}
		lines = append(lines, fmt.Sprintf("%-12s %-6d %-8d %-8d %s", r.DecayDate, r.DaysInactive, r.XPLost, r.XPAfter, level))
	}
	return strings.Join(lines, "\n")
}

// ChallengePanel renders the weekly boss and the user's standing.
func ChallengePanel(v *models.WeeklyChallengeView) string {
	if v == nil {
		return styles.Muted("Weekly challenge not loaded")
	}
	c, st := v.Challenge, v.Status
	lines := []string{styles.Heading("🐉", c.Title)}
	if c.Description != "" {
		lines = append(lines, c.Description)
	}
	percent := 0
	if st.DaysRequired > 0 {
		percent = min(st.DaysCompleted*100/st.DaysRequired, 100)
	}
	lines = append(lines,
		styles.KeyValue("Perfect days", fmt.Sprintf("%d/%d", st.DaysCompleted, st.DaysRequired))+" "+styles.ProgressBar(percent, 15),
		styles.KeyValue("Reward", fmt.Sprintf("%d XP", c.XPReward)),
	)
	switch v.State() {
	case models.ChallengeCompleted:
		lines = append(lines, styles.SuccessStyle.Render("BOSS DEFEATED"))
	case models.ChallengeUnlocked:
		lines = append(lines, styles.AlertStyle.Render("UNLOCKED: defeat the boss to claim your reward"))
	default:
		lines = append(lines, styles.Muted("Locked: lock perfect weekday runs to unlock"))
	}
	return strings.Join(lines, "\n")
}

// ChallengeHistoryTable lists defeated bosses.
func ChallengeHistoryTable(entries []models.ChallengeHistoryEntry) string {
	if len(entries) == 0 {
		return styles.Muted("No bosses defeated yet")
	}
	lines := []string{styles.TableHeaderStyle.Render(fmt.Sprintf("%-12s %-8s %s", "WEEK", "XP", "CHALLENGE"))}
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%-12s %-8d %s", e.WeekStart, e.XPEarned, e.ChallengeTitle))
	}
	return strings.Join(lines, "\n")
}
