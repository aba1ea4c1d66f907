package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/speakai-app/speakai-server/internal/achievements"
	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/internal/mock"
	"github.com/speakai-app/speakai-server/models"
)

func newTestUserService(t *testing.T) (UserService, *mock.MockUserRepository, *mock.MockSessionRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	users := mock.NewMockUserRepository(ctrl)
	sessions := mock.NewMockSessionRepository(ctrl)

	svc := NewUserService(users, sessions, achievements.DefaultRegistry(), logger.Nop())
	return svc, users, sessions
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestUpdatePreferences_MergesOnlyProvidedFields(t *testing.T) {
	svc, users, _ := newTestUserService(t)
	ctx := context.Background()

	current := models.DefaultPreferences()
	users.EXPECT().
		FindUserByID(ctx, int64(7)).
		Return(models.User{UserID: 7, Preferences: current}, nil)

	var saved models.Preferences
	users.EXPECT().
		UpdatePreferences(ctx, int64(7), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, prefs models.Preferences) error {
			saved = prefs
			return nil
		})

	prefs, err := svc.UpdatePreferences(ctx, 7, models.UpdatePreferencesRequest{
		Theme:         strPtr("light"),
		Notifications: boolPtr(false),
	})
	require.NoError(t, err)

	assert.Equal(t, "light", prefs.Theme)
	assert.False(t, prefs.Notifications)
	assert.Equal(t, current.ReminderTime, prefs.ReminderTime, "untouched fields keep their values")
	assert.Equal(t, current.Language, prefs.Language)
	assert.Equal(t, saved, prefs)
}

func TestProgressOverview_CombinesUserAndAggregate(t *testing.T) {
	svc, users, sessions := newTestUserService(t)
	ctx := context.Background()

	users.EXPECT().
		FindUserByID(ctx, int64(7)).
		Return(models.User{UserID: 7, TotalSessions: 12, ConfidenceScore: 85, Streak: 4, Points: 95}, nil)
	sessions.EXPECT().
		ProgressAggregate(ctx, int64(7)).
		Return(models.OverallProgress{TotalSessions: 12, AvgConfidence: 71, AvgClarity: 68, TotalPracticeTime: 5400, BestConfidence: 85}, nil)

	overview, err := svc.ProgressOverview(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 12, overview.User.TotalSessions)
	assert.Equal(t, 4, overview.User.Streak)
	assert.Equal(t, 71, overview.Overall.AvgConfidence)
	assert.Equal(t, 5400, overview.Overall.TotalPracticeTime)
}

func TestAnalytics_SummarizesRecentSessions(t *testing.T) {
	svc, _, sessions := newTestUserService(t)
	ctx := context.Background()
	now := time.Now()

	recent := []models.Session{
		{SessionID: "a", Level: models.LevelEasy, ConfidenceScore: 80, ClarityScore: 75, CompletedAt: &now},
		{SessionID: "b", Level: models.LevelMedium, ConfidenceScore: 70, ClarityScore: 65, CompletedAt: &now},
	}
	sessions.EXPECT().RecentCompleted(ctx, int64(7), 10).Return(recent, nil)

	report, err := svc.Analytics(ctx, 7)
	require.NoError(t, err)
	require.Len(t, report.RecentSessions, 2)
	assert.Equal(t, 2, report.Summary.TotalSessions)
	assert.Equal(t, 75, report.Summary.AvgConfidence)
}

func TestAnalytics_EmptyHistory(t *testing.T) {
	svc, _, sessions := newTestUserService(t)
	ctx := context.Background()

	sessions.EXPECT().RecentCompleted(ctx, int64(7), 10).Return(nil, nil)

	report, err := svc.Analytics(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, report.RecentSessions)
	assert.Zero(t, report.Summary.AvgConfidence)
}

func TestAchievements_AnnotatesUnlockState(t *testing.T) {
	svc, users, _ := newTestUserService(t)
	ctx := context.Background()
	unlockedAt := time.Now()

	users.EXPECT().
		FindUserByID(ctx, int64(7)).
		Return(models.User{
			UserID: 7,
			UnlockedAchievements: []models.AchievementUnlock{
				{AchievementID: "first_session", UnlockedAt: unlockedAt, Points: 10},
			},
		}, nil)

	statuses, err := svc.Achievements(ctx, 7)
	require.NoError(t, err)
	require.Len(t, statuses, 4)

	assert.Equal(t, "first_session", statuses[0].ID)
	assert.True(t, statuses[0].Unlocked)
	require.NotNil(t, statuses[0].UnlockedAt)
	assert.Equal(t, unlockedAt, *statuses[0].UnlockedAt)

	for _, status := range statuses[1:] {
		assert.False(t, status.Unlocked)
		assert.Nil(t, status.UnlockedAt)
	}
}
