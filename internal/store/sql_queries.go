package store

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	createUser = `INSERT INTO users (name, email, password_hash, preferences, levels)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING user_id, name, email, password_hash, is_new_user, total_sessions,
        confidence_score, streak, max_streak, points, current_level,
        last_session_at, preferences, levels, created_at;`

	userColumns = `user_id, name, email, password_hash, is_new_user, total_sessions,
        confidence_score, streak, max_streak, points, current_level,
        last_session_at, preferences, levels, created_at`

	findUserByEmail = `SELECT user_id, name, email, password_hash, is_new_user, total_sessions,
        confidence_score, streak, max_streak, points, current_level,
        last_session_at, preferences, levels, created_at
    FROM users
    WHERE email = $1;`

	findUserByID = `SELECT user_id, name, email, password_hash, is_new_user, total_sessions,
        confidence_score, streak, max_streak, points, current_level,
        last_session_at, preferences, levels, created_at
    FROM users
    WHERE user_id = $1;`

	updateUserPreferences = `UPDATE users
    SET preferences = $2
    WHERE user_id = $1;`

	listUnlockedAchievements = `SELECT achievement_id, unlocked_at, points_awarded
    FROM user_achievements
    WHERE user_id = $1
    ORDER BY unlocked_at;`

	createSession = `INSERT INTO sessions (session_id, user_id, level, practice_type, status, started_at)
    VALUES ($1, $2, $3, $4, $5, $6);`

	sessionColumns = `session_id, user_id, level, practice_type, status, started_at,
        completed_at, duration_seconds, audio_size, transcript,
        confidence_score, clarity_score, pace_wpm, volume_stability,
        filler_count, feedback, improvements, degraded`

	getUploadableSession = `SELECT session_id, user_id, level, practice_type, status, started_at,
        completed_at, duration_seconds, audio_size, transcript,
        confidence_score, clarity_score, pace_wpm, volume_stability,
        filler_count, feedback, improvements, degraded
    FROM sessions
    WHERE session_id = $1 AND user_id = $2 AND status IN ('started', 'recording');`

	markSessionAnalyzing = `UPDATE sessions
    SET status = 'analyzing', duration_seconds = $2, audio_size = $3
    WHERE session_id = $1 AND status IN ('started', 'recording');`

	markSessionFailed = `UPDATE sessions
    SET status = 'failed', completed_at = $2
    WHERE session_id = $1 AND status NOT IN ('completed', 'failed');`

	finishSession = `UPDATE sessions
    SET status = $2, completed_at = $3, transcript = $4,
        confidence_score = $5, clarity_score = $6, pace_wpm = $7,
        volume_stability = $8, filler_count = $9, feedback = $10,
        improvements = $11, degraded = $12
    WHERE session_id = $1 AND status = 'analyzing';`

	applyUserProgress = `UPDATE users
    SET is_new_user = $2, total_sessions = $3, confidence_score = $4,
        streak = $5, max_streak = $6, points = $7, current_level = $8,
        last_session_at = $9, levels = $10
    WHERE user_id = $1;`

	insertAchievementUnlock = `INSERT INTO user_achievements (user_id, achievement_id, unlocked_at, points_awarded)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (user_id, achievement_id) DO NOTHING;`

	progressAggregate = `SELECT COUNT(*),
        COALESCE(ROUND(AVG(confidence_score)), 0),
        COALESCE(ROUND(AVG(clarity_score)), 0),
        COALESCE(SUM(duration_seconds), 0),
        COALESCE(MAX(confidence_score), 0)
    FROM sessions
    WHERE user_id = $1 AND status = 'completed';`

	reapStaleSessions = `UPDATE sessions
    SET status = 'failed', completed_at = NOW()
    WHERE status IN ('started', 'recording', 'analyzing') AND started_at < $1;`
)

// buildRecentCompletedQuery builds the recent-sessions SELECT with a
// caller-supplied limit.
func buildRecentCompletedQuery(userID int64, limit int) (string, []any, error) {
	return sq.Select(
		"session_id", "user_id", "level", "practice_type", "status", "started_at",
		"completed_at", "duration_seconds", "audio_size", "transcript",
		"confidence_score", "clarity_score", "pace_wpm", "volume_stability",
		"filler_count", "feedback", "improvements", "degraded",
	).
		From("sessions").
		Where(sq.Eq{"user_id": userID, "status": "completed"}).
		OrderBy("completed_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}
