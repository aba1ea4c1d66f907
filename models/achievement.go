package models

import "time"

// AchievementUnlock is the persisted record of a user unlocking one
// achievement. Only the unlock event is stored per user; the achievement
// definitions themselves are static and live in the process-wide registry.
type AchievementUnlock struct {
	AchievementID string    `json:"achievementId"`
	UnlockedAt    time.Time `json:"unlockedAt"`
	Points        int       `json:"points"`
}

// TableName returns the name of the database table
// associated with the AchievementUnlock model.
func (a AchievementUnlock) TableName() string {
	return "user_achievements"
}
