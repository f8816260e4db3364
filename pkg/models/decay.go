package models

// DecayForecast describes what decay would do if it ran today.
type DecayForecast struct {
	WillDecay       bool `json:"will_decay"`
	DaysSafe        int  `json:"days_safe,omitempty"`
	DaysInactive    int  `json:"days_inactive,omitempty"`
	CurrentXP       int  `json:"current_xp,omitempty"`
	XPWillLose      int  `json:"xp_will_lose,omitempty"`
	XPAfterDecay    int  `json:"xp_after_decay,omitempty"`
	CurrentLevel    int  `json:"current_level,omitempty"`
	LevelAfterDecay int  `json:"level_after_decay,omitempty"`
	WillDropLevel   bool `json:"will_drop_level,omitempty"`
}

// DecayStatus is the /decay/status payload.
type DecayStatus struct {
	LastActivityDate string        `json:"last_activity_date"`
	DaysUntilDecay   int           `json:"days_until_decay"`
	IsCurrentlySafe  bool          `json:"is_currently_safe"`
	PotentialDecay   DecayForecast `json:"potential_decay"`
}

// DecayRecord is one row of /decay/history.
type DecayRecord struct {
	DecayDate    string `json:"decay_date"`
	DaysInactive int    `json:"days_inactive"`
	XPBefore     int    `json:"xp_before"`
	XPLost       int    `json:"xp_lost"`
	XPAfter      int    `json:"xp_after"`
	LevelBefore  int    `json:"level_before"`
	LevelAfter   int    `json:"level_after"`
	LevelDropped bool   `json:"level_dropped"`
}
