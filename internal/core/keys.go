package core

import "questrpg/internal/cache"

// Cache keys for every remote view.
const (
	KeyProfile          cache.Key = "profile"
	KeyTodayRun         cache.Key = "daily-run/today"
	KeyRunHistory       cache.Key = "daily-run/history"
	KeyStreaks          cache.Key = "streaks"
	KeyLeaderboard      cache.Key = "leaderboard"
	KeyGoals            cache.Key = "goals"
	KeyDecay            cache.Key = "decay/status"
	KeyDecayHistory     cache.Key = "decay/history"
	KeyChallenge        cache.Key = "weekly-challenge/current"
	KeyChallengeHistory cache.Key = "weekly-challenge/history"
)

// RunDependents are the views a quest toggle or run lock can change.
var RunDependents = []cache.Key{KeyTodayRun, KeyProfile, KeyStreaks, KeyDecay, KeyChallenge}

// AllKeys lists every registered key.
var AllKeys = []cache.Key{
	KeyProfile, KeyTodayRun, KeyRunHistory, KeyStreaks, KeyLeaderboard,
	KeyGoals, KeyDecay, KeyDecayHistory, KeyChallenge, KeyChallengeHistory,
}
