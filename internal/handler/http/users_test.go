package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/speakai-app/speakai-server/models"
)

func TestProfile_Success(t *testing.T) {
	h, _, _, users := newTestHandler(t)

	users.EXPECT().
		Profile(gomock.Any(), int64(7)).
		Return(models.User{UserID: 7, Name: "Alice", CurrentLevel: models.ProficiencyBeginner}, nil)

	req := authedRequest(http.MethodGet, "/api/users/profile", 7, nil)
	rec := httptest.NewRecorder()

	h.profile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, models.ProficiencyBeginner, user.CurrentLevel)
}

func TestUpdatePreferences_Success(t *testing.T) {
	h, _, _, users := newTestHandler(t)

	theme := "light"
	users.EXPECT().
		UpdatePreferences(gomock.Any(), int64(7), models.UpdatePreferencesRequest{Theme: &theme}).
		Return(models.Preferences{Theme: "light", Notifications: true}, nil)

	req := authedRequest(http.MethodPut, "/api/users/preferences", 7, strings.NewReader(`{"theme":"light"}`))
	rec := httptest.NewRecorder()

	h.updatePreferences(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var prefs models.Preferences
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prefs))
	assert.Equal(t, "light", prefs.Theme)
}

func TestUpdatePreferences_InvalidJSON(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	req := authedRequest(http.MethodPut, "/api/users/preferences", 7, strings.NewReader("{broken"))
	rec := httptest.NewRecorder()

	h.updatePreferences(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProgressOverview_Success(t *testing.T) {
	h, _, _, users := newTestHandler(t)

	users.EXPECT().
		ProgressOverview(gomock.Any(), int64(7)).
		Return(models.ProgressOverview{
			User:    models.UserStats{TotalSessions: 4, Streak: 2},
			Overall: models.OverallProgress{TotalSessions: 4, AvgConfidence: 70},
		}, nil)

	req := authedRequest(http.MethodGet, "/api/progress/overview", 7, nil)
	rec := httptest.NewRecorder()

	h.progressOverview(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var overview models.ProgressOverview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
	assert.Equal(t, 4, overview.User.TotalSessions)
	assert.Equal(t, 70, overview.Overall.AvgConfidence)
}

func TestAnalytics_Success(t *testing.T) {
	h, _, _, users := newTestHandler(t)

	var report models.AnalyticsReport
	report.RecentSessions = []models.AnalyticsPoint{{SessionID: "s-1", ConfidenceScore: 80}}
	report.Summary.TotalSessions = 1
	report.Summary.AvgConfidence = 80

	users.EXPECT().Analytics(gomock.Any(), int64(7)).Return(report, nil)

	req := authedRequest(http.MethodGet, "/api/analytics", 7, nil)
	rec := httptest.NewRecorder()

	h.analytics(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.AnalyticsReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.RecentSessions, 1)
	assert.Equal(t, 80, got.Summary.AvgConfidence)
}

func TestAchievements_Success(t *testing.T) {
	h, _, _, users := newTestHandler(t)

	users.EXPECT().
		Achievements(gomock.Any(), int64(7)).
		Return([]models.AchievementStatus{
			{ID: "first_session", Unlocked: true},
			{ID: "consistency", Unlocked: false},
		}, nil)

	req := authedRequest(http.MethodGet, "/api/achievements", 7, nil)
	rec := httptest.NewRecorder()

	h.achievements(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var statuses []models.AchievementStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &statuses))
	require.Len(t, statuses, 2)
	assert.True(t, statuses[0].Unlocked)
	assert.False(t, statuses[1].Unlocked)
}
