package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"

	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/models"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles user account creation, lookup, and preference updates against
// the "users" and "user_achievements" tables.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new user record and returns the fully populated
// [models.User] with server-assigned fields (UserID, CreatedAt, zeroed
// progression counters).
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrEmailAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
//   - Scan failure → wrapped with [ErrScanningRow].
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	prefs, levels, err := marshalUserJSON(user)
	if err != nil {
		return models.User{}, err
	}

	row := r.db.QueryRowContext(ctx, createUser, user.Name, user.Email, user.PasswordHash, prefs, levels)

	created, err := scanUser(row)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error creating user")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrEmailAlreadyExists
		case "":
			return models.User{}, err
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return created, nil
}

// FindUserByEmail retrieves a user record by its lowercased email, including
// the unlocked achievement set.
//
// Error handling:
//   - No matching row → [ErrNoUserWasFound].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, findUserByEmail, email)
	foundUser, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.FindUserByEmail").Msg("error finding user by email")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	if err := r.loadUnlocked(ctx, &foundUser); err != nil {
		return models.User{}, err
	}

	return foundUser, nil
}

// FindUserByID retrieves a user record by id, including the unlocked
// achievement set.
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, findUserByID, userID)
	foundUser, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.FindUserByID").Msg("error finding user by id")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	if err := r.loadUnlocked(ctx, &foundUser); err != nil {
		return models.User{}, err
	}

	return foundUser, nil
}

// UpdatePreferences overwrites the stored preference set of the user.
func (r *userRepository) UpdatePreferences(ctx context.Context, userID int64, prefs models.Preferences) error {
	log := logger.FromContext(ctx)

	raw, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, updateUserPreferences, userID, raw)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdatePreferences").Msg("error updating preferences")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}

// loadUnlocked populates user.UnlockedAchievements from the
// user_achievements table.
func (r *userRepository) loadUnlocked(ctx context.Context, user *models.User) error {
	rows, err := r.db.QueryContext(ctx, listUnlockedAchievements, user.UserID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var unlock models.AchievementUnlock
		if err := rows.Scan(&unlock.AchievementID, &unlock.UnlockedAt, &unlock.Points); err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		user.UnlockedAchievements = append(user.UnlockedAchievements, unlock)
	}

	return rows.Err()
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser scans one users row into a [models.User], unmarshaling the
// preferences and levels JSON columns.
func scanUser(row rowScanner) (models.User, error) {
	var (
		user          models.User
		lastSessionAt sql.NullTime
		prefsRaw      []byte
		levelsRaw     []byte
	)

	err := row.Scan(
		&user.UserID, &user.Name, &user.Email, &user.PasswordHash,
		&user.IsNewUser, &user.TotalSessions, &user.ConfidenceScore,
		&user.Streak, &user.MaxStreak, &user.Points, &user.CurrentLevel,
		&lastSessionAt, &prefsRaw, &levelsRaw, &user.CreatedAt,
	)
	if err != nil {
		return models.User{}, err
	}

	if lastSessionAt.Valid {
		t := lastSessionAt.Time
		user.LastSessionAt = &t
	}
	if err := json.Unmarshal(prefsRaw, &user.Preferences); err != nil {
		return models.User{}, fmt.Errorf("%w: preferences: %w", ErrScanningRow, err)
	}
	if err := json.Unmarshal(levelsRaw, &user.Levels); err != nil {
		return models.User{}, fmt.Errorf("%w: levels: %w", ErrScanningRow, err)
	}

	return user, nil
}

// marshalUserJSON serializes the JSON columns of a user row.
func marshalUserJSON(user models.User) (prefs, levels []byte, err error) {
	prefs, err = json.Marshal(user.Preferences)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: preferences: %w", ErrBuildingSQLQuery, err)
	}
	levels, err = json.Marshal(user.Levels)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: levels: %w", ErrBuildingSQLQuery, err)
	}
	return prefs, levels, nil
}
