package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/speakai-app/speakai-server/models"
)

func completedSession(level models.Level, confidence, duration int) models.Session {
	return models.Session{
		SessionID:       "sess",
		Level:           level,
		Status:          models.StatusCompleted,
		ConfidenceScore: confidence,
		Duration:        duration,
	}
}

func TestApply_FirstSession(t *testing.T) {
	var engine ProgressionEngine
	now := time.Now()

	user := models.User{IsNewUser: true, CurrentLevel: models.ProficiencyBeginner}
	engine.Apply(&user, completedSession(models.LevelEasy, 72, 120), now)

	assert.Equal(t, 1, user.TotalSessions)
	assert.Equal(t, 72, user.ConfidenceScore)
	assert.Equal(t, 1, user.Streak)
	assert.Equal(t, 1, user.MaxStreak)
	assert.False(t, user.IsNewUser)
	assert.Equal(t, now, *user.LastSessionAt)
	assert.Equal(t, 10, user.Levels.Easy.Progress)
	assert.Equal(t, 1, user.Levels.Easy.Sessions)
	assert.Equal(t, 72, user.Levels.Easy.BestScore)
	assert.Equal(t, 120, user.Levels.Easy.TotalTime)
}

func TestApply_ConfidenceIsMonotone(t *testing.T) {
	var engine ProgressionEngine
	now := time.Now()

	user := models.User{ConfidenceScore: 80}
	engine.Apply(&user, completedSession(models.LevelEasy, 60, 60), now)

	assert.Equal(t, 80, user.ConfidenceScore, "a weaker session must not lower the best score")

	engine.Apply(&user, completedSession(models.LevelEasy, 91, 60), now)
	assert.Equal(t, 91, user.ConfidenceScore)
}

func TestApply_StreakLaws(t *testing.T) {
	var engine ProgressionEngine
	now := time.Now()

	tests := []struct {
		name       string
		last       time.Duration // how long ago the previous session was
		streak     int
		wantStreak int
	}{
		{"next day extends", 25 * time.Hour, 2, 3},
		{"same day no-op", 2 * time.Hour, 2, 2},
		{"two day gap resets", 49 * time.Hour, 5, 1},
		{"exactly 24h extends", 24 * time.Hour, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			last := now.Add(-tt.last)
			user := models.User{Streak: tt.streak, MaxStreak: tt.streak, LastSessionAt: &last}

			engine.Apply(&user, completedSession(models.LevelEasy, 50, 60), now)
			assert.Equal(t, tt.wantStreak, user.Streak)
			assert.GreaterOrEqual(t, user.MaxStreak, tt.wantStreak)
		})
	}
}

func TestApply_MaxStreakKeepsHighWaterMark(t *testing.T) {
	var engine ProgressionEngine
	now := time.Now()

	last := now.Add(-48 * time.Hour)
	user := models.User{Streak: 7, MaxStreak: 7, LastSessionAt: &last}

	engine.Apply(&user, completedSession(models.LevelEasy, 50, 60), now)
	assert.Equal(t, 1, user.Streak)
	assert.Equal(t, 7, user.MaxStreak)
}

func TestApply_ProgressIncrementsAndCap(t *testing.T) {
	var engine ProgressionEngine
	now := time.Now()

	var user models.User
	engine.Apply(&user, completedSession(models.LevelMedium, 50, 60), now)
	assert.Equal(t, 8, user.Levels.Medium.Progress)

	engine.Apply(&user, completedSession(models.LevelHard, 50, 60), now)
	assert.Equal(t, 6, user.Levels.Hard.Progress)

	user.Levels.Easy.Progress = 95
	engine.Apply(&user, completedSession(models.LevelEasy, 50, 60), now)
	assert.Equal(t, 100, user.Levels.Easy.Progress, "progress caps at 100")
}

func TestApply_PromotesProficiency(t *testing.T) {
	var engine ProgressionEngine
	now := time.Now()

	user := models.User{CurrentLevel: models.ProficiencyBeginner}
	user.Levels.Easy.Progress = 95
	engine.Apply(&user, completedSession(models.LevelEasy, 50, 60), now)
	assert.Equal(t, models.ProficiencyIntermediate, user.CurrentLevel)

	user.Levels.Medium.Progress = 95
	engine.Apply(&user, completedSession(models.LevelMedium, 50, 60), now)
	assert.Equal(t, models.ProficiencyAdvanced, user.CurrentLevel)

	// Tiers never regress.
	engine.Apply(&user, completedSession(models.LevelEasy, 10, 60), now)
	assert.Equal(t, models.ProficiencyAdvanced, user.CurrentLevel)
}
