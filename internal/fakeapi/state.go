package fakeapi

import (
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"questrpg/pkg/leveling"
	"questrpg/pkg/models"
	"questrpg/pkg/utils"
)

// Game rules of the backend.
const (
	DecayRate          = 0.05
	DecayGraceDays     = 0
	ChallengeXPReward  = 1000
	GoalXPReward       = 500
	DefaultRunHistory  = 30
	DefaultLeaderboard = 10
)

// Demo account seeded into every server.
const (
	DemoEmail    = "demo@quest.rpg"
	DemoPassword = "questing"
	DemoUsername = "hero"
)

// apiError is a handler failure rendered as {"detail": ...}.
type apiError struct {
	status int
	detail string
	fields []fieldDetail
}

type fieldDetail struct {
	Loc []string `json:"loc"`
	Msg string   `json:"msg"`
	Typ string   `json:"type"`
}

func fail(status int, detail string) *apiError {
	return &apiError{status: status, detail: detail}
}

// invalid mirrors the backend's 422 body: a list of field errors.
func invalid(err error) *apiError {
	field, msg := "body", err.Error()
	if appErr, ok := err.(*models.AppError); ok {
		field, msg = appErr.Field, appErr.Message
	}
	return &apiError{
		status: http.StatusUnprocessableEntity,
		fields: []fieldDetail{{Loc: []string{"body", field}, Msg: msg, Typ: "value_error"}},
	}
}

type quest struct {
	id          string
	title       string
	description string
	category    string
	difficulty  leveling.Difficulty
	baseXP      int
	isCore      bool
}

type account struct {
	user         models.User
	passwordHash []byte
	// bonusXP holds goal and challenge rewards minus decay losses.
	bonusXP      int
	lastActivity time.Time
}

type goalRecord struct {
	userID string
	goal   models.Goal
}

type challengeProgress struct {
	unlockedAt  *models.Timestamp
	completedAt *models.Timestamp
	xpEarned    int
}

type state struct {
	now          func() time.Time
	daysRequired int

	quests     []quest
	users      map[string]*account
	runs       map[string]*models.DailyRun
	goals      map[string]*goalRecord
	milestones map[string]string                    // milestone id -> goal id
	streaks    map[string]map[string]*models.Streak // user -> quest -> streak
	challenges map[string]*models.WeeklyChallenge   // week start -> challenge
	progress   map[string]*challengeProgress        // user|week start
	decay      map[string][]models.DecayRecord
}

func newState(now func() time.Time, daysRequired int) *state {
	return &state{
		now:          now,
		daysRequired: daysRequired,
		quests:       defaultQuests(),
		users:        make(map[string]*account),
		runs:         make(map[string]*models.DailyRun),
		goals:        make(map[string]*goalRecord),
		milestones:   make(map[string]string),
		streaks:      make(map[string]map[string]*models.Streak),
		challenges:   make(map[string]*models.WeeklyChallenge),
		progress:     make(map[string]*challengeProgress),
		decay:        make(map[string][]models.DecayRecord),
	}
}

func defaultQuests() []quest {
	q := func(title, desc, category string, d leveling.Difficulty, xp int, core bool) quest {
		return quest{id: uuid.NewString(), title: title, description: desc, category: category, difficulty: d, baseXP: xp, isCore: core}
	}
	return []quest{
		q("Morning Workout", "30 minutes of movement before noon", "Health", leveling.DifficultyMedium, 50, true),
		q("Read 20 Pages", "Any book that is not a screen", "Mind", leveling.DifficultyEasy, 30, true),
		q("Log Expenses", "Record every purchase made today", "Finance", leveling.DifficultyEasy, 20, true),
		q("Solve Two Problems", "Two rated problems on any judge", "CP", leveling.DifficultyHard, 60, false),
		q("Train a Model", "Ship one experiment end to end", "ML", leveling.DifficultyLegendary, 100, false),
		q("Meditate", "Ten quiet minutes", "Mind", leveling.DifficultyEasy, 20, false),
	}
}

func (st *state) seed() {
	hash, err := hashPassword(DemoPassword)
	if err != nil {
		panic(err)
	}
	st.addAccount(DemoUsername, DemoEmail, hash, []string{"Health", "Mind"})
}

func (st *state) addAccount(username, email string, hash []byte, categories []string) *account {
	acc := &account{
		user: models.User{
			ID:                     uuid.NewString(),
			Username:               username,
			Email:                  email,
			CurrentLevel:           1,
			GoalCategories:         categories,
			HasCompletedOnboarding: len(categories) > 0,
			CreatedAt:              models.NewTimestamp(st.now()),
		},
		passwordHash: hash,
		lastActivity: st.now(),
	}
	st.users[acc.user.ID] = acc
	return acc
}

func (st *state) today() string {
	return st.now().Format(utils.DateLayout)
}

func (st *state) stamp() *models.Timestamp {
	ts := models.NewTimestamp(st.now())
	return &ts
}

// Accounts

func (st *state) findByEmail(email string) *account {
	for _, acc := range st.users {
		if strings.EqualFold(acc.user.Email, email) {
			return acc
		}
	}
	return nil
}

func (st *state) register(req models.RegisterRequest, hash []byte) (*account, *apiError) {
	for _, acc := range st.users {
		if strings.EqualFold(acc.user.Email, req.Email) {
			return nil, fail(http.StatusBadRequest, "Email already registered")
		}
		if acc.user.Username == req.Username {
			return nil, fail(http.StatusBadRequest, "Username already taken")
		}
	}
	return st.addAccount(req.Username, req.Email, hash, nil), nil
}

func (st *state) onboard(userID string, categories []string) (*models.User, *apiError) {
	for _, c := range categories {
		if !models.IsGoalCategory(c) {
			return nil, invalid(models.NewValidationError("goal_categories", "unknown category "+c))
		}
	}
	acc := st.users[userID]
	acc.user.GoalCategories = append([]string(nil), categories...)
	acc.user.HasCompletedOnboarding = true
	u := st.userView(acc)
	return &u, nil
}

// totalXP is locked run XP plus bonuses, never below zero.
func (st *state) totalXP(userID string) int {
	acc := st.users[userID]
	total := acc.bonusXP
	for _, run := range st.runs {
		if run.UserID == userID && run.IsLocked {
			total += run.TotalXP
		}
	}
	return max(total, 0)
}

func (st *state) userView(acc *account) models.User {
	u := acc.user
	u.TotalXP = st.totalXP(acc.user.ID)
	u.CurrentLevel = leveling.CalculateLevel(u.TotalXP)
	u.GoalCategories = append([]string{}, acc.user.GoalCategories...)
	return u
}

// Stats

func (st *state) profile(userID string) *models.Profile {
	u := st.userView(st.users[userID])
	p := leveling.Describe(u.TotalXP)
	return &models.Profile{
		UserID:                 u.ID,
		Username:               u.Username,
		TotalXP:                u.TotalXP,
		CurrentLevel:           p.Level,
		GoalCategories:         u.GoalCategories,
		HasCompletedOnboarding: u.HasCompletedOnboarding,
		XPInCurrentLevel:       p.XPIntoLevel,
		XPNeededForNextLevel:   p.XPToNext,
		XPForCurrentLevel:      p.CurrentFloor,
		XPForNextLevel:         p.NextFloor,
		LevelProgressPercent:   round2(float64(p.XPIntoLevel) * 100 / float64(p.LevelWidth)),
		CreatedAt:              u.CreatedAt,
	}
}

func (st *state) streakList(userID string) []models.Streak {
	out := []models.Streak{}
	for _, s := range st.streaks[userID] {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestTitle < out[j].QuestTitle })
	return out
}

func (st *state) leaderboard(limit int) []models.LeaderboardEntry {
	if limit <= 0 {
		limit = DefaultLeaderboard
	}
	out := make([]models.LeaderboardEntry, 0, len(st.users))
	for _, acc := range st.users {
		xp := st.totalXP(acc.user.ID)
		out = append(out, models.LeaderboardEntry{
			Username: acc.user.Username,
			Level:    leveling.CalculateLevel(xp),
			TotalXP:  xp,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalXP != out[j].TotalXP {
			return out[i].TotalXP > out[j].TotalXP
		}
		return out[i].Username < out[j].Username
	})
	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Daily runs

func (st *state) todayRun(userID string) *models.DailyRun {
	date := st.today()
	for _, run := range st.runs {
		if run.UserID == userID && run.Date == date {
			return run
		}
	}

	cats := st.users[userID].user.GoalCategories
	run := &models.DailyRun{
		ID:        uuid.NewString(),
		UserID:    userID,
		Date:      date,
		CreatedAt: models.NewTimestamp(st.now()),
		Quests:    []models.QuestCompletion{},
	}
	for _, q := range st.quests {
		if !q.isCore && !containsFold(cats, q.category) {
			continue
		}
		run.Quests = append(run.Quests, models.QuestCompletion{
			CompletionID: uuid.NewString(),
			QuestID:      q.id,
			Title:        q.title,
			Description:  q.description,
			Category:     q.category,
			Difficulty:   string(q.difficulty),
			BaseXP:       q.baseXP,
			IsCore:       q.isCore,
		})
	}
	st.runs[run.ID] = run
	return run
}

func (st *state) runHistory(userID string, limit int) []models.DailyRun {
	if limit <= 0 {
		limit = DefaultRunHistory
	}
	out := []models.DailyRun{}
	for _, run := range st.runs {
		if run.UserID == userID {
			out = append(out, *run.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (st *state) ownRun(userID, runID string) (*models.DailyRun, *apiError) {
	run, ok := st.runs[runID]
	if !ok || run.UserID != userID {
		return nil, fail(http.StatusNotFound, "Daily run not found")
	}
	return run, nil
}

func (st *state) toggleQuest(userID, runID, completionID string) (*models.ToggleResult, *apiError) {
	run, apiErr := st.ownRun(userID, runID)
	if apiErr != nil {
		return nil, apiErr
	}
	if run.IsLocked {
		return nil, fail(http.StatusBadRequest, "Run is already completed")
	}
	if run.Date != st.today() {
		return nil, fail(http.StatusForbidden, "Cannot modify a past daily run")
	}
	qc, ok := run.Completion(completionID)
	if !ok {
		return nil, fail(http.StatusNotFound, "Quest completion not found")
	}

	qc.Completed = !qc.Completed
	if qc.Completed {
		qc.XPEarned = leveling.ScaleXP(qc.BaseXP, qc.Difficulty)
		qc.CompletedAt = st.stamp()
		if qc.IsCore {
			st.bumpStreak(userID, qc)
		}
	} else {
		qc.XPEarned = 0
		qc.CompletedAt = nil
	}
	st.recountRun(run)
	st.users[userID].lastActivity = st.now()

	return &models.ToggleResult{
		Message:   "Quest completion toggled",
		Completed: qc.Completed,
		XPEarned:  qc.XPEarned,
	}, nil
}

func (st *state) recountRun(run *models.DailyRun) {
	total := 0
	perfect := len(run.Quests) > 0
	for _, q := range run.Quests {
		total += q.XPEarned
		perfect = perfect && q.Completed
	}
	run.TotalXP = total
	run.IsPerfect = perfect
}

func (st *state) bumpStreak(userID string, qc *models.QuestCompletion) {
	byQuest := st.streaks[userID]
	if byQuest == nil {
		byQuest = make(map[string]*models.Streak)
		st.streaks[userID] = byQuest
	}
	s := byQuest[qc.QuestID]
	if s == nil {
		s = &models.Streak{QuestID: qc.QuestID, QuestTitle: qc.Title, QuestCategory: qc.Category}
		byQuest[qc.QuestID] = s
	}
	today := st.today()
	yesterday := st.now().AddDate(0, 0, -1).Format(utils.DateLayout)
	switch s.LastCompletedDate {
	case today:
		return
	case yesterday:
		s.CurrentStreak++
	default:
		s.CurrentStreak = 1
	}
	s.LastCompletedDate = today
	s.LongestStreak = max(s.LongestStreak, s.CurrentStreak)
	s.IsActive = true
}

func (st *state) completeRun(userID, runID string) (*models.CompleteRunResult, *apiError) {
	run, apiErr := st.ownRun(userID, runID)
	if apiErr != nil {
		return nil, apiErr
	}
	if run.IsLocked {
		return nil, fail(http.StatusBadRequest, "Run is already completed")
	}
	run.IsLocked = true
	run.CompletedAt = st.stamp()
	st.users[userID].lastActivity = st.now()

	res := &models.CompleteRunResult{
		Message:     "Daily run completed successfully",
		Locked:      true,
		CompletedAt: run.CompletedAt,
	}
	if ch, unlocked := st.checkUnlock(userID, run.Date); unlocked {
		res.WeeklyChallengeUnlocked = true
		res.Challenge = ch
	}
	return res, nil
}

// Weekly challenge

func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (st *state) challengeFor(start time.Time) *models.WeeklyChallenge {
	key := start.Format(utils.DateLayout)
	if ch, ok := st.challenges[key]; ok {
		return ch
	}
	end := start.AddDate(0, 0, 6)
	ch := &models.WeeklyChallenge{
		ID:          uuid.NewString(),
		Title:       "Weekly Boss Battle: " + start.Format("Jan 02") + " - " + end.Format("Jan 02"),
		Description: "Complete ALL core quests Monday-Friday to unlock this epic challenge! Massive XP awaits.",
		XPReward:    ChallengeXPReward,
		WeekStart:   key,
		WeekEnd:     end.Format(utils.DateLayout),
	}
	st.challenges[key] = ch
	return ch
}

func (st *state) progressFor(userID, week string) *challengeProgress {
	key := userID + "|" + week
	p := st.progress[key]
	if p == nil {
		p = &challengeProgress{}
		st.progress[key] = p
	}
	return p
}

// perfectWeekdays counts locked Monday-Friday runs of the week with every
// core quest done.
func (st *state) perfectWeekdays(userID string, start time.Time) int {
	days := make(map[string]bool, 5)
	for i := 0; i < 5; i++ {
		days[start.AddDate(0, 0, i).Format(utils.DateLayout)] = true
	}
	n := 0
	for _, run := range st.runs {
		if run.UserID != userID || !run.IsLocked || !days[run.Date] {
			continue
		}
		coreDone := true
		for _, q := range run.Quests {
			if q.IsCore && !q.Completed {
				coreDone = false
				break
			}
		}
		if coreDone {
			n++
		}
	}
	return n
}

func (st *state) checkUnlock(userID, date string) (*models.WeeklyChallenge, bool) {
	day, err := time.ParseInLocation(utils.DateLayout, date, st.now().Location())
	if err != nil {
		return nil, false
	}
	start := weekStart(day)
	ch := st.challengeFor(start)
	p := st.progressFor(userID, ch.WeekStart)
	if p.unlockedAt != nil || st.perfectWeekdays(userID, start) < st.daysRequired {
		return nil, false
	}
	p.unlockedAt = st.stamp()
	cp := *ch
	return &cp, true
}

func (st *state) currentChallenge(userID string) *models.WeeklyChallengeView {
	start := weekStart(st.now())
	ch := st.challengeFor(start)
	p := st.progressFor(userID, ch.WeekStart)
	return &models.WeeklyChallengeView{
		Challenge: *ch,
		Status: models.ChallengeStatus{
			IsUnlocked:    p.unlockedAt != nil,
			IsCompleted:   p.completedAt != nil,
			UnlockedAt:    p.unlockedAt,
			DaysCompleted: min(st.perfectWeekdays(userID, start), st.daysRequired),
			DaysRequired:  st.daysRequired,
		},
	}
}

func (st *state) completeChallenge(userID, challengeID string) (*models.ChallengeResult, *apiError) {
	var ch *models.WeeklyChallenge
	for _, c := range st.challenges {
		if c.ID == challengeID {
			ch = c
			break
		}
	}
	if ch == nil {
		return nil, fail(http.StatusNotFound, "Challenge not found")
	}
	p := st.progressFor(userID, ch.WeekStart)
	if p.unlockedAt == nil {
		return nil, fail(http.StatusBadRequest, "Challenge is not unlocked yet")
	}
	if p.completedAt != nil {
		return nil, fail(http.StatusBadRequest, "Challenge already completed")
	}
	p.completedAt = st.stamp()
	p.xpEarned = ch.XPReward
	st.users[userID].bonusXP += ch.XPReward

	total := st.totalXP(userID)
	return &models.ChallengeResult{
		Completed:    true,
		XPEarned:     ch.XPReward,
		TotalXP:      total,
		CurrentLevel: leveling.CalculateLevel(total),
	}, nil
}

func (st *state) challengeHistory(userID string) []models.ChallengeHistoryEntry {
	out := []models.ChallengeHistoryEntry{}
	for week, ch := range st.challenges {
		p := st.progress[userID+"|"+week]
		if p == nil || p.completedAt == nil {
			continue
		}
		out = append(out, models.ChallengeHistoryEntry{
			ChallengeTitle: ch.Title,
			WeekStart:      ch.WeekStart,
			XPEarned:       p.xpEarned,
			CompletedAt:    p.completedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart > out[j].WeekStart })
	return out
}

// Goals

func (st *state) goalView(rec *goalRecord) models.Goal {
	g := rec.goal
	g.Milestones = rec.goal.SortedMilestones()
	done := 0
	for _, m := range g.Milestones {
		if m.IsCompleted {
			done++
		}
	}
	g.ProgressPercentage = 0
	if len(g.Milestones) > 0 {
		g.ProgressPercentage = round2(float64(done) * 100 / float64(len(g.Milestones)))
	}
	return g
}

func (st *state) listGoals(userID string) []models.Goal {
	out := []models.Goal{}
	for _, rec := range st.goals {
		if rec.userID == userID {
			out = append(out, st.goalView(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt.Time) || (out[i].CreatedAt.Equal(out[j].CreatedAt.Time) && out[i].ID < out[j].ID)
	})
	return out
}

func (st *state) createGoal(userID string, req models.GoalCreate) (*models.Goal, *apiError) {
	if err := utils.ValidateGoal(&req); err != nil {
		return nil, invalid(err)
	}
	rec := &goalRecord{
		userID: userID,
		goal: models.Goal{
			ID:          uuid.NewString(),
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			TargetDate:  req.TargetDate,
			CreatedAt:   models.NewTimestamp(st.now()),
		},
	}
	for i, title := range req.Milestones {
		m := models.Milestone{ID: uuid.NewString(), Title: title, Order: i}
		rec.goal.Milestones = append(rec.goal.Milestones, m)
		st.milestones[m.ID] = rec.goal.ID
	}
	st.goals[rec.goal.ID] = rec
	g := st.goalView(rec)
	return &g, nil
}

func (st *state) ownGoal(userID, goalID string) (*goalRecord, *apiError) {
	rec, ok := st.goals[goalID]
	if !ok || rec.userID != userID {
		return nil, fail(http.StatusNotFound, "Goal not found")
	}
	return rec, nil
}

func (st *state) updateGoal(userID, goalID string, req models.GoalUpdate) (*models.Goal, *apiError) {
	rec, apiErr := st.ownGoal(userID, goalID)
	if apiErr != nil {
		return nil, apiErr
	}
	if req.Title != nil {
		if err := utils.ValidateTitle("title", *req.Title); err != nil {
			return nil, invalid(err)
		}
		rec.goal.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		rec.goal.Description = *req.Description
	}
	if req.Category != nil {
		if !models.IsGoalCategory(*req.Category) {
			return nil, invalid(models.NewValidationError("category", "unknown category"))
		}
		rec.goal.Category = *req.Category
	}
	if req.TargetDate != nil {
		if err := utils.ValidateDate("target_date", *req.TargetDate); err != nil {
			return nil, invalid(err)
		}
		rec.goal.TargetDate = *req.TargetDate
	}
	g := st.goalView(rec)
	return &g, nil
}

func (st *state) deleteGoal(userID, goalID string) *apiError {
	rec, apiErr := st.ownGoal(userID, goalID)
	if apiErr != nil {
		return apiErr
	}
	for _, m := range rec.goal.Milestones {
		delete(st.milestones, m.ID)
	}
	delete(st.goals, goalID)
	return nil
}

func (st *state) addMilestone(userID, goalID, title string) (*models.Goal, *apiError) {
	rec, apiErr := st.ownGoal(userID, goalID)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := utils.ValidateTitle("title", title); err != nil {
		return nil, invalid(err)
	}
	order := 0
	for _, m := range rec.goal.Milestones {
		order = max(order, m.Order+1)
	}
	m := models.Milestone{ID: uuid.NewString(), Title: strings.TrimSpace(title), Order: order}
	rec.goal.Milestones = append(rec.goal.Milestones, m)
	rec.goal.IsCompleted = false
	st.milestones[m.ID] = goalID
	g := st.goalView(rec)
	return &g, nil
}

func (st *state) ownMilestone(userID, milestoneID string) (*goalRecord, int, *apiError) {
	goalID, ok := st.milestones[milestoneID]
	if !ok {
		return nil, -1, fail(http.StatusNotFound, "Milestone not found")
	}
	rec, apiErr := st.ownGoal(userID, goalID)
	if apiErr != nil {
		return nil, -1, fail(http.StatusNotFound, "Milestone not found")
	}
	for i, m := range rec.goal.Milestones {
		if m.ID == milestoneID {
			return rec, i, nil
		}
	}
	return nil, -1, fail(http.StatusNotFound, "Milestone not found")
}

func (st *state) updateMilestone(userID, milestoneID, title string) (*models.Milestone, *apiError) {
	rec, i, apiErr := st.ownMilestone(userID, milestoneID)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := utils.ValidateTitle("title", title); err != nil {
		return nil, invalid(err)
	}
	rec.goal.Milestones[i].Title = strings.TrimSpace(title)
	m := rec.goal.Milestones[i]
	return &m, nil
}

func (st *state) deleteMilestone(userID, milestoneID string) *apiError {
	rec, i, apiErr := st.ownMilestone(userID, milestoneID)
	if apiErr != nil {
		return apiErr
	}
	rec.goal.Milestones = append(rec.goal.Milestones[:i], rec.goal.Milestones[i+1:]...)
	delete(st.milestones, milestoneID)
	return nil
}

// toggleMilestone flips a milestone; the first time every milestone is done
// the goal completes and pays GoalXPReward.
func (st *state) toggleMilestone(userID, milestoneID string) (*models.Goal, *apiError) {
	rec, i, apiErr := st.ownMilestone(userID, milestoneID)
	if apiErr != nil {
		return nil, apiErr
	}
	ms := rec.goal.Milestones
	ms[i].IsCompleted = !ms[i].IsCompleted

	allDone := true
	for _, m := range ms {
		allDone = allDone && m.IsCompleted
	}
	switch {
	case allDone && !rec.goal.IsCompleted:
		rec.goal.IsCompleted = true
		st.users[userID].bonusXP += GoalXPReward
	case !allDone:
		rec.goal.IsCompleted = false
	}
	st.users[userID].lastActivity = st.now()
	g := st.goalView(rec)
	return &g, nil
}

// Decay

func (st *state) daysInactive(userID string) int {
	last := st.users[userID].lastActivity
	ly, lm, ld := last.Date()
	ny, nm, nd := st.now().Date()
	a := time.Date(ly, lm, ld, 0, 0, 0, 0, time.UTC)
	b := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return max(int(b.Sub(a).Hours()/24), 0)
}

func decayLoss(xp, days int) int {
	if days <= DecayGraceDays || xp <= 0 {
		return 0
	}
	return int(float64(xp) * (1 - math.Pow(1-DecayRate, float64(days))))
}

func (st *state) decayStatus(userID string) *models.DecayStatus {
	days := st.daysInactive(userID)
	xp := st.totalXP(userID)
	status := &models.DecayStatus{
		LastActivityDate: st.users[userID].lastActivity.Format(utils.DateLayout),
		DaysUntilDecay:   max(DecayGraceDays-days+1, 0),
		IsCurrentlySafe:  days <= DecayGraceDays,
	}
	if days <= DecayGraceDays {
		status.PotentialDecay = models.DecayForecast{WillDecay: false, DaysSafe: DecayGraceDays - days + 1}
		return status
	}
	lost := decayLoss(xp, days)
	after := xp - lost
	status.PotentialDecay = models.DecayForecast{
		WillDecay:       true,
		DaysInactive:    days,
		CurrentXP:       xp,
		XPWillLose:      lost,
		XPAfterDecay:    after,
		CurrentLevel:    leveling.CalculateLevel(xp),
		LevelAfterDecay: leveling.CalculateLevel(after),
		WillDropLevel:   leveling.CalculateLevel(after) < leveling.CalculateLevel(xp),
	}
	return status
}

// applyDecay charges the current forecast and records it.
func (st *state) applyDecay(userID string) (models.DecayRecord, bool) {
	days := st.daysInactive(userID)
	xp := st.totalXP(userID)
	lost := decayLoss(xp, days)
	if lost == 0 {
		return models.DecayRecord{}, false
	}
	st.users[userID].bonusXP -= lost
	after := st.totalXP(userID)
	rec := models.DecayRecord{
		DecayDate:    st.today(),
		DaysInactive: days,
		XPBefore:     xp,
		XPLost:       lost,
		XPAfter:      after,
		LevelBefore:  leveling.CalculateLevel(xp),
		LevelAfter:   leveling.CalculateLevel(after),
	}
	rec.LevelDropped = rec.LevelAfter < rec.LevelBefore
	st.decay[userID] = append([]models.DecayRecord{rec}, st.decay[userID]...)
	return rec, true
}

func (st *state) decayHistory(userID string, limit int) []models.DecayRecord {
	out := append([]models.DecayRecord{}, st.decay[userID]...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
