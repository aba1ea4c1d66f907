package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/speakai-app/speakai-server/models"
)

// UserRepository is the data-access contract for user accounts and their
// progression state.
type UserRepository interface {
	// CreateUser persists a new user and returns it with server-assigned
	// fields populated. Returns ErrEmailAlreadyExists when the email is
	// taken.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByEmail loads a user (including unlocked achievements) by the
	// lowercased email. Returns ErrNoUserWasFound when no row matches.
	FindUserByEmail(ctx context.Context, email string) (models.User, error)

	// FindUserByID loads a user (including unlocked achievements) by id.
	// Returns ErrNoUserWasFound when no row matches.
	FindUserByID(ctx context.Context, userID int64) (models.User, error)

	// UpdatePreferences overwrites the stored preference set of the user.
	UpdatePreferences(ctx context.Context, userID int64, prefs models.Preferences) error
}

// SessionRepository is the data-access contract for practice sessions,
// including the transactional finish write that updates the session, the
// owning user, and new achievement unlocks as one atomic group.
type SessionRepository interface {
	// CreateSession inserts a session in started state. Returns
	// ErrActiveSessionExists when the user already has a non-terminal
	// session (partial unique index violation).
	CreateSession(ctx context.Context, session models.Session) (models.Session, error)

	// GetUploadableSession loads a session owned by userID that is still in
	// a pre-upload state (started or recording). Returns ErrSessionNotFound
	// otherwise.
	GetUploadableSession(ctx context.Context, sessionID string, userID int64) (models.Session, error)

	// MarkAnalyzing transitions the session to analyzing and records the
	// sanitized duration and audio size.
	MarkAnalyzing(ctx context.Context, sessionID string, duration int, audioSize int64) error

	// MarkFailed transitions the session to the terminal failed state.
	MarkFailed(ctx context.Context, sessionID string, completedAt time.Time) error

	// FinishSession atomically persists the completed session, the updated
	// user snapshot, and any newly unlocked achievements. Either all writes
	// commit or none do.
	FinishSession(ctx context.Context, session models.Session, user models.User, unlocked []models.AchievementUnlock) error

	// RecentCompleted returns the user's completed sessions, most recent
	// first, at most limit entries.
	RecentCompleted(ctx context.Context, userID int64, limit int) ([]models.Session, error)

	// ProgressAggregate computes completed-session aggregates for the user.
	ProgressAggregate(ctx context.Context, userID int64) (models.OverallProgress, error)

	// ReapStale marks pre-upload sessions started before the cutoff as
	// failed and returns how many rows were affected.
	ReapStale(ctx context.Context, cutoff time.Time) (int64, error)
}
