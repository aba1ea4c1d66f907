package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"

	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/models"
)

// sessionRepository is the PostgreSQL-backed implementation of
// [SessionRepository]. Besides plain CRUD it owns the transactional finish
// write that persists the completed session, the updated user snapshot, and
// any newly unlocked achievements as one atomic group.
type sessionRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSessionRepository constructs a [SessionRepository] backed by the
// provided database connection and logger.
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

// CreateSession inserts a session in started state. A violation of the
// partial unique index on sessions(user_id) means the user already has a
// non-terminal session and maps to [ErrActiveSessionExists].
func (r *sessionRepository) CreateSession(ctx context.Context, session models.Session) (models.Session, error) {
	log := logger.FromContext(ctx)

	_, err := r.db.ExecContext(ctx, createSession,
		session.SessionID, session.UserID, session.Level, session.PracticeType,
		session.Status, session.StartedAt,
	)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.CreateSession").Msg("error creating session")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.Session{}, ErrActiveSessionExists
		case "":
			return models.Session{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		default:
			return models.Session{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return session, nil
}

// GetUploadableSession loads a session owned by userID that is still
// awaiting audio. A session in any other state, or owned by another user,
// yields [ErrSessionNotFound].
func (r *sessionRepository) GetUploadableSession(ctx context.Context, sessionID string, userID int64) (models.Session, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, getUploadableSession, sessionID, userID)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}
		log.Err(err).Str("func", "*sessionRepository.GetUploadableSession").Msg("error loading session")
		return models.Session{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return session, nil
}

// MarkAnalyzing transitions the session to analyzing, recording the
// sanitized duration and audio size. The guarded WHERE clause makes the
// transition a no-op when the session moved on concurrently; that case
// surfaces as [ErrSessionAlreadyFinished].
func (r *sessionRepository) MarkAnalyzing(ctx context.Context, sessionID string, duration int, audioSize int64) error {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, markSessionAnalyzing, sessionID, duration, audioSize)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.MarkAnalyzing").Msg("error marking session analyzing")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return requireAffected(res)
}

// MarkFailed transitions the session to the terminal failed state.
func (r *sessionRepository) MarkFailed(ctx context.Context, sessionID string, completedAt time.Time) error {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, markSessionFailed, sessionID, completedAt)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.MarkFailed").Msg("error marking session failed")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return requireAffected(res)
}

// FinishSession persists the analysis outcome in a single transaction: the
// completed session row, the owning user's progression snapshot, and one
// user_achievements insert per new unlock. ON CONFLICT DO NOTHING on the
// unlock insert keeps the write idempotent under retries.
func (r *sessionRepository) FinishSession(ctx context.Context, session models.Session, user models.User, unlocked []models.AchievementUnlock) error {
	log := logger.FromContext(ctx)

	fillers, feedback, improvements, err := marshalSessionJSON(session)
	if err != nil {
		return err
	}
	levels, err := json.Marshal(user.Levels)
	if err != nil {
		return fmt.Errorf("%w: levels: %w", ErrBuildingSQLQuery, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.FinishSession").Msg("error beginning transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, finishSession,
		session.SessionID, session.Status, session.CompletedAt, session.Transcript,
		session.ConfidenceScore, session.ClarityScore, session.PaceWpm,
		session.VolumeStability, fillers, feedback, improvements, session.Degraded,
	)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.FinishSession").Msg("error finishing session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, applyUserProgress,
		user.UserID, user.IsNewUser, user.TotalSessions, user.ConfidenceScore,
		user.Streak, user.MaxStreak, user.Points, user.CurrentLevel,
		user.LastSessionAt, levels,
	)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.FinishSession").Msg("error applying user progress")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	for _, unlock := range unlocked {
		_, err = tx.ExecContext(ctx, insertAchievementUnlock,
			user.UserID, unlock.AchievementID, unlock.UnlockedAt, unlock.Points,
		)
		if err != nil {
			log.Err(err).Str("func", "*sessionRepository.FinishSession").
				Str("achievement", unlock.AchievementID).Msg("error inserting achievement unlock")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "*sessionRepository.FinishSession").Msg("error committing transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

// RecentCompleted returns the user's completed sessions, most recent first,
// at most limit entries.
func (r *sessionRepository) RecentCompleted(ctx context.Context, userID int64, limit int) ([]models.Session, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildRecentCompletedQuery(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.RecentCompleted").Msg("error querying recent sessions")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	sessions := make([]models.Session, 0, limit)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// ProgressAggregate computes completed-session aggregates for the user. A
// user with no completed sessions yields all-zero aggregates, not an error.
func (r *sessionRepository) ProgressAggregate(ctx context.Context, userID int64) (models.OverallProgress, error) {
	log := logger.FromContext(ctx)

	var progress models.OverallProgress
	row := r.db.QueryRowContext(ctx, progressAggregate, userID)
	err := row.Scan(
		&progress.TotalSessions, &progress.AvgConfidence, &progress.AvgClarity,
		&progress.TotalPracticeTime, &progress.BestConfidence,
	)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.ProgressAggregate").Msg("error aggregating progress")
		return models.OverallProgress{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return progress, nil
}

// ReapStale marks pre-upload and analyzing sessions started before the
// cutoff as failed and returns the affected row count.
func (r *sessionRepository) ReapStale(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, reapStaleSessions, cutoff)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.ReapStale").Msg("error reaping stale sessions")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return res.RowsAffected()
}

// requireAffected converts a zero-row UPDATE into ErrSessionAlreadyFinished:
// the guarded WHERE clause did not match, so the session had already left
// the expected state.
func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrSessionAlreadyFinished
	}
	return nil
}

// scanSession scans one sessions row into a [models.Session], unmarshaling
// the JSON columns. Nullable analysis columns are only set after a session
// completes.
func scanSession(row rowScanner) (models.Session, error) {
	var (
		session         models.Session
		completedAt     sql.NullTime
		transcript      sql.NullString
		fillersRaw      []byte
		feedbackRaw     []byte
		improvementsRaw []byte
	)

	err := row.Scan(
		&session.SessionID, &session.UserID, &session.Level, &session.PracticeType,
		&session.Status, &session.StartedAt, &completedAt, &session.Duration,
		&session.AudioSize, &transcript, &session.ConfidenceScore,
		&session.ClarityScore, &session.PaceWpm, &session.VolumeStability,
		&fillersRaw, &feedbackRaw, &improvementsRaw, &session.Degraded,
	)
	if err != nil {
		return models.Session{}, err
	}

	if completedAt.Valid {
		t := completedAt.Time
		session.CompletedAt = &t
	}
	session.Transcript = transcript.String

	if len(fillersRaw) > 0 {
		if err := json.Unmarshal(fillersRaw, &session.FillerCount); err != nil {
			return models.Session{}, fmt.Errorf("%w: filler_count: %w", ErrScanningRow, err)
		}
	}
	if len(feedbackRaw) > 0 {
		if err := json.Unmarshal(feedbackRaw, &session.Feedback); err != nil {
			return models.Session{}, fmt.Errorf("%w: feedback: %w", ErrScanningRow, err)
		}
	}
	if len(improvementsRaw) > 0 {
		if err := json.Unmarshal(improvementsRaw, &session.Improvements); err != nil {
			return models.Session{}, fmt.Errorf("%w: improvements: %w", ErrScanningRow, err)
		}
	}

	return session, nil
}

// marshalSessionJSON serializes the JSON columns of a session row.
func marshalSessionJSON(session models.Session) (fillers, feedback, improvements []byte, err error) {
	fillers, err = json.Marshal(session.FillerCount)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: filler_count: %w", ErrBuildingSQLQuery, err)
	}
	feedback, err = json.Marshal(session.Feedback)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: feedback: %w", ErrBuildingSQLQuery, err)
	}
	improvements, err = json.Marshal(session.Improvements)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: improvements: %w", ErrBuildingSQLQuery, err)
	}
	return fillers, feedback, improvements, nil
}
