package achievements

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/models"
)

func TestEvaluate_FirstSession(t *testing.T) {
	e := NewEvaluator(DefaultRegistry(), logger.Nop())
	now := time.Now()

	user := models.User{TotalSessions: 1, ConfidenceScore: 40}
	unlocked := e.Evaluate(user, models.Session{}, now)

	require.Len(t, unlocked, 1)
	assert.Equal(t, "first_session", unlocked[0].AchievementID)
	assert.Equal(t, 10, unlocked[0].Points)
	assert.Equal(t, now, unlocked[0].UnlockedAt)
}

func TestEvaluate_SkipsAlreadyUnlocked(t *testing.T) {
	e := NewEvaluator(DefaultRegistry(), logger.Nop())

	user := models.User{
		TotalSessions: 1,
		UnlockedAchievements: []models.AchievementUnlock{
			{AchievementID: "first_session"},
		},
	}

	unlocked := e.Evaluate(user, models.Session{}, time.Now())
	for _, u := range unlocked {
		assert.NotEqual(t, "first_session", u.AchievementID)
	}
}

func TestEvaluate_MultipleUnlocksInCatalogOrder(t *testing.T) {
	e := NewEvaluator(DefaultRegistry(), logger.Nop())

	user := models.User{
		TotalSessions:   1,
		Streak:          3,
		ConfidenceScore: 55,
	}
	user.Levels.Easy.Progress = 100

	unlocked := e.Evaluate(user, models.Session{}, time.Now())
	require.Len(t, unlocked, 4)
	assert.Equal(t, "first_session", unlocked[0].AchievementID)
	assert.Equal(t, "consistency", unlocked[1].AchievementID)
	assert.Equal(t, "confidence_boost", unlocked[2].AchievementID)
	assert.Equal(t, "level_master", unlocked[3].AchievementID)
}

func TestEvaluate_Idempotent(t *testing.T) {
	e := NewEvaluator(DefaultRegistry(), logger.Nop())
	now := time.Now()

	user := models.User{TotalSessions: 1, Streak: 3, ConfidenceScore: 55}

	first := e.Evaluate(user, models.Session{}, now)
	require.NotEmpty(t, first)

	// Apply the unlocks to the snapshot and evaluate again: nothing new.
	user.UnlockedAchievements = append(user.UnlockedAchievements, first...)
	second := e.Evaluate(user, models.Session{}, now)
	assert.Empty(t, second)
}

func TestEvaluate_ConditionThresholds(t *testing.T) {
	e := NewEvaluator(DefaultRegistry(), logger.Nop())

	below := models.User{TotalSessions: 2, Streak: 2, ConfidenceScore: 49}
	below.UnlockedAchievements = []models.AchievementUnlock{{AchievementID: "first_session"}}
	assert.Empty(t, e.Evaluate(below, models.Session{}, time.Now()))

	at := models.User{TotalSessions: 2, Streak: 3, ConfidenceScore: 50}
	at.UnlockedAchievements = []models.AchievementUnlock{{AchievementID: "first_session"}}
	unlocked := e.Evaluate(at, models.Session{}, time.Now())
	require.Len(t, unlocked, 2)
	assert.Equal(t, "consistency", unlocked[0].AchievementID)
	assert.Equal(t, "confidence_boost", unlocked[1].AchievementID)
}

func TestEvaluate_PanickingConditionIsIsolated(t *testing.T) {
	registry := NewRegistry(
		Definition{
			ID:     "broken",
			Points: 1,
			Condition: func(models.User, models.Session) bool {
				panic("boom")
			},
		},
		Definition{
			ID:     "working",
			Points: 2,
			Condition: func(models.User, models.Session) bool {
				return true
			},
		},
	)

	e := NewEvaluator(registry, logger.Nop())
	unlocked := e.Evaluate(models.User{}, models.Session{}, time.Now())

	require.Len(t, unlocked, 1)
	assert.Equal(t, "working", unlocked[0].AchievementID)
}

func TestRegistry_Find(t *testing.T) {
	r := DefaultRegistry()

	def, ok := r.Find("level_master")
	require.True(t, ok)
	assert.Equal(t, 100, def.Points)

	_, ok = r.Find("nonexistent")
	assert.False(t, ok)
}
