package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/models"
)

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &userRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	return raw
}

func userRow(t *testing.T, user models.User) *sqlmock.Rows {
	t.Helper()
	return sqlmock.NewRows([]string{
		"user_id", "name", "email", "password_hash", "is_new_user",
		"total_sessions", "confidence_score", "streak", "max_streak",
		"points", "current_level", "last_session_at", "preferences",
		"levels", "created_at",
	}).AddRow(
		user.UserID, user.Name, user.Email, user.PasswordHash, user.IsNewUser,
		user.TotalSessions, user.ConfidenceScore, user.Streak, user.MaxStreak,
		user.Points, string(user.CurrentLevel), user.LastSessionAt,
		mustJSON(t, user.Preferences), mustJSON(t, user.Levels), user.CreatedAt,
	)
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{
		Name:         "Dana",
		Email:        "dana@example.com",
		PasswordHash: "hash",
		Preferences:  models.DefaultPreferences(),
	}

	stored := user
	stored.UserID = 1
	stored.IsNewUser = true
	stored.CurrentLevel = models.ProficiencyBeginner
	stored.CreatedAt = time.Now()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.Name, user.Email, user.PasswordHash, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(userRow(t, stored))

	created, err := repo.CreateUser(ctx, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.UserID != 1 {
		t.Errorf("expected UserID=1, got %d", created.UserID)
	}
	if !created.IsNewUser {
		t.Error("expected IsNewUser=true on a fresh account")
	}
	if created.CurrentLevel != models.ProficiencyBeginner {
		t.Errorf("expected beginner level, got %s", created.CurrentLevel)
	}
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{Email: "dana@example.com"}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateUser(ctx, user)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestCreateUser_UnexpectedDBError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.ConnectionFailure))

	_, err := repo.CreateUser(ctx, models.User{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatal("connection failure must not map to ErrEmailAlreadyExists")
	}
}

func TestFindUserByEmail_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()
	stored := models.User{
		UserID:        7,
		Name:          "Dana",
		Email:         "dana@example.com",
		PasswordHash:  "hash",
		TotalSessions: 12,
		Streak:        3,
		CurrentLevel:  models.ProficiencyIntermediate,
		LastSessionAt: &now,
		Preferences:   models.DefaultPreferences(),
		CreatedAt:     now,
	}

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(stored.Email).
		WillReturnRows(userRow(t, stored))

	unlockRows := sqlmock.NewRows([]string{"achievement_id", "unlocked_at", "points_awarded"}).
		AddRow("first_session", now, 10).
		AddRow("consistency", now, 25)
	mock.ExpectQuery("SELECT (.+) FROM user_achievements").
		WithArgs(stored.UserID).
		WillReturnRows(unlockRows)

	found, err := repo.FindUserByEmail(ctx, stored.Email)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.UserID != stored.UserID {
		t.Errorf("expected UserID=%d, got %d", stored.UserID, found.UserID)
	}
	if len(found.UnlockedAchievements) != 2 {
		t.Fatalf("expected 2 unlocked achievements, got %d", len(found.UnlockedAchievements))
	}
	if !found.HasAchievement("consistency") {
		t.Error("expected consistency achievement to be unlocked")
	}
	if found.LastSessionAt == nil {
		t.Error("expected LastSessionAt to be set")
	}
}

func TestFindUserByEmail_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindUserByEmail(ctx, "ghost@example.com")
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestFindUserByID_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindUserByID(ctx, 404)
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestUpdatePreferences_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	prefs := models.DefaultPreferences()
	prefs.Theme = "light"

	mock.ExpectExec("UPDATE users").
		WithArgs(int64(7), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePreferences(ctx, 7, prefs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdatePreferences_UserMissing(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("UPDATE users").
		WithArgs(int64(404), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePreferences(ctx, 404, models.DefaultPreferences())
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}
