package service

import (
	"context"
	"fmt"

	"github.com/speakai-app/speakai-server/internal/achievements"
	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/internal/store"
	"github.com/speakai-app/speakai-server/models"
)

// analyticsWindow is how many recent completed sessions feed the analytics
// series.
const analyticsWindow = 10

// userService implements UserService.
type userService struct {
	userRepository    store.UserRepository
	sessionRepository store.SessionRepository
	registry          *achievements.Registry
	logger            *logger.Logger
}

// NewUserService constructs a UserService.
func NewUserService(
	userRepository store.UserRepository,
	sessionRepository store.SessionRepository,
	registry *achievements.Registry,
	logger *logger.Logger,
) UserService {
	return &userService{
		userRepository:    userRepository,
		sessionRepository: sessionRepository,
		registry:          registry,
		logger:            logger,
	}
}

// Profile loads the full user record.
func (u *userService) Profile(ctx context.Context, userID int64) (models.User, error) {
	return u.userRepository.FindUserByID(ctx, userID)
}

// UpdatePreferences merges non-nil request fields into the stored
// preference set and persists the result.
func (u *userService) UpdatePreferences(ctx context.Context, userID int64, req models.UpdatePreferencesRequest) (models.Preferences, error) {
	user, err := u.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		return models.Preferences{}, fmt.Errorf("user lookup failed: %w", err)
	}

	prefs := user.Preferences
	if req.Theme != nil {
		prefs.Theme = *req.Theme
	}
	if req.Notifications != nil {
		prefs.Notifications = *req.Notifications
	}
	if req.ReminderTime != nil {
		prefs.ReminderTime = *req.ReminderTime
	}
	if req.Language != nil {
		prefs.Language = *req.Language
	}
	if req.SoundEffects != nil {
		prefs.SoundEffects = *req.SoundEffects
	}

	if err := u.userRepository.UpdatePreferences(ctx, userID, prefs); err != nil {
		return models.Preferences{}, fmt.Errorf("preference update failed: %w", err)
	}

	return prefs, nil
}

// ProgressOverview combines the user's progression counters with the SQL
// aggregate over their completed sessions.
func (u *userService) ProgressOverview(ctx context.Context, userID int64) (models.ProgressOverview, error) {
	user, err := u.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		return models.ProgressOverview{}, fmt.Errorf("user lookup failed: %w", err)
	}

	overall, err := u.sessionRepository.ProgressAggregate(ctx, userID)
	if err != nil {
		return models.ProgressOverview{}, fmt.Errorf("progress aggregation failed: %w", err)
	}

	return models.ProgressOverview{
		User: models.UserStats{
			TotalSessions:   user.TotalSessions,
			ConfidenceScore: user.ConfidenceScore,
			Streak:          user.Streak,
			MaxStreak:       user.MaxStreak,
			Points:          user.Points,
			IsNewUser:       user.IsNewUser,
		},
		Overall: overall,
	}, nil
}

// Analytics projects the last completed sessions into the score series
// plus an average-confidence summary.
func (u *userService) Analytics(ctx context.Context, userID int64) (models.AnalyticsReport, error) {
	sessions, err := u.sessionRepository.RecentCompleted(ctx, userID, analyticsWindow)
	if err != nil {
		return models.AnalyticsReport{}, fmt.Errorf("recent sessions lookup failed: %w", err)
	}

	var report models.AnalyticsReport
	report.RecentSessions = make([]models.AnalyticsPoint, 0, len(sessions))

	var confidenceSum int
	for _, session := range sessions {
		report.RecentSessions = append(report.RecentSessions, models.AnalyticsPoint{
			SessionID:       session.SessionID,
			Level:           session.Level,
			ConfidenceScore: session.ConfidenceScore,
			ClarityScore:    session.ClarityScore,
			CompletedAt:     session.CompletedAt,
		})
		confidenceSum += session.ConfidenceScore
	}

	report.Summary.TotalSessions = len(sessions)
	if len(sessions) > 0 {
		report.Summary.AvgConfidence = confidenceSum / len(sessions)
	}

	return report, nil
}

// Achievements returns the full catalog annotated with the user's unlock
// state.
func (u *userService) Achievements(ctx context.Context, userID int64) ([]models.AchievementStatus, error) {
	user, err := u.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}

	unlockedAt := make(map[string]models.AchievementUnlock, len(user.UnlockedAchievements))
	for _, unlock := range user.UnlockedAchievements {
		unlockedAt[unlock.AchievementID] = unlock
	}

	statuses := make([]models.AchievementStatus, 0, len(u.registry.Definitions()))
	for _, def := range u.registry.Definitions() {
		status := models.AchievementStatus{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
			Icon:        def.Icon,
			Points:      def.Points,
		}
		if unlock, ok := unlockedAt[def.ID]; ok {
			status.Unlocked = true
			t := unlock.UnlockedAt
			status.UnlockedAt = &t
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}
