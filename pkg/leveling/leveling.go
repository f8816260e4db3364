// Package leveling maps experience totals to levels and level progress.
//
// The curve is level = floor(sqrt(xp/100)) + 1, with the matching boundary
// xpForLevel(L) = (L-1)^2 * 100. Everything here is integer math so level
// boundaries are exact.
package leveling

import "math"

// XPPerLevelUnit is the scale constant of the level curve.
const XPPerLevelUnit = 100

// CalculateLevel returns the level held at totalXP. Negative totals clamp to 1.
func CalculateLevel(totalXP int) int {
	if totalXP < 0 {
		return 1
	}
	return isqrt(totalXP/XPPerLevelUnit) + 1
}

// XPForLevel returns the minimum XP required to hold level.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	n := level - 1
	return n * n * XPPerLevelUnit
}

// XPToNextLevel returns how much XP is missing until the next level boundary.
func XPToNextLevel(currentXP int) int {
	return XPForLevel(CalculateLevel(currentXP)+1) - currentXP
}

// LevelProgress returns how far currentXP has advanced through its level, as
// an integer percentage in [0, 100).
func LevelProgress(currentXP int) int {
	if currentXP < 0 {
		return 0
	}
	level := CalculateLevel(currentXP)
	floor := XPForLevel(level)
	width := XPForLevel(level+1) - floor
	// width is (2L-1)*100 for L >= 1, never zero.
	return (currentXP - floor) * 100 / width
}

// Progress bundles the derived numbers a profile header needs.
type Progress struct {
	Level        int `json:"level"`
	XPIntoLevel  int `json:"xp_into_level"`
	LevelWidth   int `json:"level_width"`
	XPToNext     int `json:"xp_to_next"`
	Percent      int `json:"percent"`
	CurrentFloor int `json:"current_floor"`
	NextFloor    int `json:"next_floor"`
}

// Describe derives the full progress breakdown for totalXP.
func Describe(totalXP int) Progress {
	level := CalculateLevel(totalXP)
	floor := XPForLevel(level)
	next := XPForLevel(level + 1)
	into := totalXP - floor
	if into < 0 {
		into = 0
	}
	return Progress{
		Level:        level,
		XPIntoLevel:  into,
		LevelWidth:   next - floor,
		XPToNext:     next - max(totalXP, 0),
		Percent:      LevelProgress(totalXP),
		CurrentFloor: floor,
		NextFloor:    next,
	}
}

// isqrt returns floor(sqrt(n)) for n >= 0.
func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	r := int(math.Sqrt(float64(n)))
	// float64 can be off by one for very large n
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
