package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"

	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/models"
)

func newTestSessionRepo(t *testing.T) (*sessionRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &sessionRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func sessionRow(t *testing.T, session models.Session) *sqlmock.Rows {
	t.Helper()
	return sqlmock.NewRows([]string{
		"session_id", "user_id", "level", "practice_type", "status",
		"started_at", "completed_at", "duration_seconds", "audio_size",
		"transcript", "confidence_score", "clarity_score", "pace_wpm",
		"volume_stability", "filler_count", "feedback", "improvements",
		"degraded",
	}).AddRow(
		session.SessionID, session.UserID, string(session.Level),
		string(session.PracticeType), string(session.Status),
		session.StartedAt, session.CompletedAt, session.Duration,
		session.AudioSize, session.Transcript, session.ConfidenceScore,
		session.ClarityScore, session.PaceWpm, session.VolumeStability,
		mustJSON(t, session.FillerCount), mustJSON(t, session.Feedback),
		mustJSON(t, session.Improvements), session.Degraded,
	)
}

func TestCreateSession_Success(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	ctx := context.Background()
	session := models.Session{
		SessionID:    "0198f3a0-1111-7aaa-8bbb-0123456789ab",
		UserID:       7,
		Level:        models.LevelMedium,
		PracticeType: models.PracticeInterview,
		Status:       models.StatusStarted,
		StartedAt:    time.Now(),
	}

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(session.SessionID, session.UserID, session.Level,
			session.PracticeType, session.Status, session.StartedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.CreateSession(ctx, session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.SessionID != session.SessionID {
		t.Errorf("expected session id %s, got %s", session.SessionID, created.SessionID)
	}
}

func TestCreateSession_ActiveSessionExists(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateSession(ctx, models.Session{UserID: 7})
	if !errors.Is(err, ErrActiveSessionExists) {
		t.Fatalf("expected ErrActiveSessionExists, got %v", err)
	}
}

func TestGetUploadableSession_Success(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	ctx := context.Background()
	stored := models.Session{
		SessionID:    "0198f3a0-1111-7aaa-8bbb-0123456789ab",
		UserID:       7,
		Level:        models.LevelEasy,
		PracticeType: models.PracticeFreestyle,
		Status:       models.StatusStarted,
		StartedAt:    time.Now(),
	}

	mock.ExpectQuery("SELECT (.+) FROM sessions").
		WithArgs(stored.SessionID, stored.UserID).
		WillReturnRows(sessionRow(t, stored))

	session, err := repo.GetUploadableSession(ctx, stored.SessionID, stored.UserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Status != models.StatusStarted {
		t.Errorf("expected status started, got %s", session.Status)
	}
	if session.CompletedAt != nil {
		t.Error("expected CompletedAt to be nil for a pre-upload session")
	}
}

func TestGetUploadableSession_NotFound(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM sessions").
		WithArgs("missing", int64(7)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUploadableSession(ctx, "missing", 7)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestMarkAnalyzing_AlreadyFinished(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("UPDATE sessions").
		WithArgs("sess", 120, int64(2048)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkAnalyzing(ctx, "sess", 120, 2048)
	if !errors.Is(err, ErrSessionAlreadyFinished) {
		t.Fatalf("expected ErrSessionAlreadyFinished, got %v", err)
	}
}

func TestFinishSession_CommitsAllWrites(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()
	session := models.Session{
		SessionID:       "0198f3a0-1111-7aaa-8bbb-0123456789ab",
		UserID:          7,
		Status:          models.StatusCompleted,
		CompletedAt:     &now,
		Transcript:      "so today I want to talk about rivers",
		ConfidenceScore: 82,
		ClarityScore:    77,
		PaceWpm:         140,
		VolumeStability: 80,
	}
	user := models.User{
		UserID:        7,
		TotalSessions: 1,
		Streak:        1,
		MaxStreak:     1,
		Points:        10,
		CurrentLevel:  models.ProficiencyBeginner,
		LastSessionAt: &now,
	}
	unlocked := []models.AchievementUnlock{
		{AchievementID: "first_session", UnlockedAt: now, Points: 10},
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE sessions").
		WithArgs(session.SessionID, session.Status, session.CompletedAt,
			session.Transcript, session.ConfidenceScore, session.ClarityScore,
			session.PaceWpm, session.VolumeStability, sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), session.Degraded).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users").
		WithArgs(user.UserID, user.IsNewUser, user.TotalSessions,
			user.ConfidenceScore, user.Streak, user.MaxStreak, user.Points,
			user.CurrentLevel, user.LastSessionAt, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_achievements").
		WithArgs(user.UserID, "first_session", now, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.FinishSession(ctx, session, user, unlocked); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFinishSession_RollsBackWhenSessionLeftAnalyzing(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()
	session := models.Session{
		SessionID:   "sess",
		UserID:      7,
		Status:      models.StatusCompleted,
		CompletedAt: &now,
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE sessions").
		WithArgs(session.SessionID, session.Status, session.CompletedAt,
			session.Transcript, session.ConfidenceScore, session.ClarityScore,
			session.PaceWpm, session.VolumeStability, sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), session.Degraded).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.FinishSession(ctx, session, models.User{UserID: 7}, nil)
	if !errors.Is(err, ErrSessionAlreadyFinished) {
		t.Fatalf("expected ErrSessionAlreadyFinished, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRecentCompleted_ReturnsOrderedSessions(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()
	earlier := now.Add(-24 * time.Hour)

	first := models.Session{
		SessionID:       "newer",
		UserID:          7,
		Level:           models.LevelMedium,
		PracticeType:    models.PracticeGuided,
		Status:          models.StatusCompleted,
		StartedAt:       now.Add(-5 * time.Minute),
		CompletedAt:     &now,
		ConfidenceScore: 80,
	}
	second := first
	second.SessionID = "older"
	second.CompletedAt = &earlier

	rows := sessionRow(t, first)
	rows.AddRow(
		second.SessionID, second.UserID, string(second.Level),
		string(second.PracticeType), string(second.Status),
		second.StartedAt, second.CompletedAt, second.Duration,
		second.AudioSize, second.Transcript, second.ConfidenceScore,
		second.ClarityScore, second.PaceWpm, second.VolumeStability,
		mustJSON(t, second.FillerCount), mustJSON(t, second.Feedback),
		mustJSON(t, second.Improvements), second.Degraded,
	)

	mock.ExpectQuery("SELECT (.+) FROM sessions").
		WithArgs(int64(7), "completed").
		WillReturnRows(rows)

	sessions, err := repo.RecentCompleted(ctx, 7, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].SessionID != "newer" {
		t.Errorf("expected newest session first, got %s", sessions[0].SessionID)
	}
}

func TestProgressAggregate_EmptyHistory(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"count", "avg_conf", "avg_clar", "total_time", "best_conf"}).
		AddRow(0, 0, 0, 0, 0)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	progress, err := repo.ProgressAggregate(ctx, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if progress.TotalSessions != 0 || progress.BestConfidence != 0 {
		t.Errorf("expected zero aggregates, got %+v", progress)
	}
}

func TestReapStale_ReturnsAffectedCount(t *testing.T) {
	repo, mock, db := newTestSessionRepo(t)
	defer db.Close()

	ctx := context.Background()
	cutoff := time.Now().Add(-24 * time.Hour)

	mock.ExpectExec("UPDATE sessions").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	reaped, err := repo.ReapStale(ctx, cutoff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reaped != 3 {
		t.Errorf("expected 3 reaped sessions, got %d", reaped)
	}
}
