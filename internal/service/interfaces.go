package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

import (
	"context"

	"github.com/speakai-app/speakai-server/models"
)

// AuthService handles account registration, credential verification, and
// JWT issuance and validation.
type AuthService interface {
	// Register creates a new account and returns it with a signed token.
	Register(ctx context.Context, req models.RegisterRequest) (models.User, models.Token, error)

	// Login authenticates existing credentials and returns the account
	// with a signed token.
	Login(ctx context.Context, req models.LoginRequest) (models.User, models.Token, error)

	// ValidateToken verifies a compact JWT string and returns the parsed
	// token with the user id extracted.
	ValidateToken(tokenString string) (models.Token, error)

	// GetUser loads the account behind an authenticated user id.
	GetUser(ctx context.Context, userID int64) (models.User, error)
}

// SessionService drives the practice session lifecycle: starting a session,
// uploading its recording for analysis, and listing completed history.
type SessionService interface {
	// Start creates a session in started state. At most one non-terminal
	// session per user may exist.
	Start(ctx context.Context, userID int64, req models.StartSessionRequest) (models.SessionSummary, error)

	// Upload accepts the recording for a pre-upload session, runs the
	// analysis pipeline, and completes the session. On provider failure
	// the session still completes, with degraded synthetic metrics and a
	// warning in the result.
	Upload(ctx context.Context, userID int64, sessionID string, audio []byte, contentType string, duration int) (models.SessionResult, error)

	// Recent lists completed sessions, newest first, capped at limit.
	Recent(ctx context.Context, userID int64, limit int) ([]models.SessionSummary, error)
}

// UserService covers the account-facing read and preference operations:
// profile, preferences, progress aggregates, analytics, and the
// achievement catalog annotated with unlock state.
type UserService interface {
	Profile(ctx context.Context, userID int64) (models.User, error)
	UpdatePreferences(ctx context.Context, userID int64, req models.UpdatePreferencesRequest) (models.Preferences, error)
	ProgressOverview(ctx context.Context, userID int64) (models.ProgressOverview, error)
	Analytics(ctx context.Context, userID int64) (models.AnalyticsReport, error)
	Achievements(ctx context.Context, userID int64) ([]models.AchievementStatus, error)
}
