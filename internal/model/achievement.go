package model

import "time"

// AchievementID identifies an achievement definition
type AchievementID string

// Achievement is a static achievement definition
type Achievement struct {
	ID          AchievementID
	Title       string
	Description string
	Target      int
	Reward      int // coins
}

// AchievementProgress is one record of the persisted achievements array
type AchievementProgress struct {
	ID         AchievementID `json:"id"`
	Progress   int           `json:"progress"`
	Target     int           `json:"target"`
	Unlocked   bool          `json:"unlocked"`
	UnlockedAt *time.Time    `json:"unlockedAt,omitempty"`

	// Seen holds the distinct games counted so far, for per-game achievements
	Seen []GameID `json:"seen,omitempty"`
}
