package leveling

// Difficulty is the quest difficulty label sent by the backend.
type Difficulty string

const (
	DifficultyEasy      Difficulty = "Easy"
	DifficultyMedium    Difficulty = "Medium"
	DifficultyHard      Difficulty = "Hard"
	DifficultyLegendary Difficulty = "Legendary"
)

// multipliers are stored as halves so awarded XP stays integral.
var multipliers = map[Difficulty]int{
	DifficultyEasy:      2,
	DifficultyMedium:    3,
	DifficultyHard:      4,
	DifficultyLegendary: 6,
}

func (d Difficulty) IsValid() bool {
	_, ok := multipliers[d]
	return ok
}

// XPMultiplier returns the XP factor for a difficulty label. Unknown labels
// get 1.
func XPMultiplier(difficulty string) float64 {
	halves, ok := multipliers[Difficulty(difficulty)]
	if !ok {
		return 1
	}
	return float64(halves) / 2
}

// ScaleXP previews the XP a quest awards at the given difficulty, rounded
// down. The backend remains the authority on awarded XP.
func ScaleXP(baseXP int, difficulty string) int {
	if baseXP <= 0 {
		return 0
	}
	halves, ok := multipliers[Difficulty(difficulty)]
	if !ok {
		halves = 2
	}
	return baseXP * halves / 2
}
