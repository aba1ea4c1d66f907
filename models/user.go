package models

import "time"

// Proficiency is the coarse skill tier shown on the user's profile.
type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "beginner"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
)

// User represents an account entity together with its durable progression
// state. All counters are mutated only by the progression engine and the
// achievement evaluator after a session reaches a terminal state, or by
// explicit preference updates.
type User struct {
	// UserID is the internal unique identifier of the user.
	UserID int64 `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the unique login identifier. Stored lowercase so that
	// uniqueness is case-insensitive.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never exposed via JSON.
	PasswordHash string `json:"-"`

	// IsNewUser is true until the user completes their first session.
	IsNewUser bool `json:"isNewUser"`

	// TotalSessions counts completed practice sessions across all levels.
	TotalSessions int `json:"totalSessions"`

	// ConfidenceScore is the best-ever confidence score (0-100). It is
	// monotonically non-decreasing across completed sessions.
	ConfidenceScore int `json:"confidenceScore"`

	// Streak is the count of consecutive qualifying practice days.
	Streak int `json:"streak"`

	// MaxStreak is the highest streak ever reached. Invariant: MaxStreak >= Streak.
	MaxStreak int `json:"maxStreak"`

	// Points accumulates the point values of unlocked achievements.
	Points int `json:"points"`

	// CurrentLevel is the coarse proficiency tier derived from level progress.
	CurrentLevel Proficiency `json:"currentLevel"`

	// LastSessionAt is the completion time of the most recent session.
	// Nil until the first session completes.
	LastSessionAt *time.Time `json:"lastSessionAt,omitempty"`

	// Preferences holds user-adjustable application settings.
	Preferences Preferences `json:"preferences"`

	// Levels holds per-difficulty progression buckets keyed by Level.
	Levels LevelMap `json:"levels"`

	// UnlockedAchievements is the set of unlock events for this user.
	// AchievementID is unique within the set.
	UnlockedAchievements []AchievementUnlock `json:"unlockedAchievements,omitempty"`

	// CreatedAt is the registration timestamp.
	CreatedAt time.Time `json:"joinDate"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// LevelProgress is the per-difficulty progression bucket.
type LevelProgress struct {
	// Progress is clamped to [0,100].
	Progress int `json:"progress"`

	// Sessions counts completed sessions at this difficulty.
	Sessions int `json:"sessions"`

	// BestScore is the best confidence score reached at this difficulty (0-100).
	BestScore int `json:"bestScore"`

	// TotalTime is the accumulated practice time in seconds.
	TotalTime int `json:"totalTime"`
}

// LevelMap holds one progression bucket per difficulty level.
type LevelMap struct {
	Easy   LevelProgress `json:"easy"`
	Medium LevelProgress `json:"medium"`
	Hard   LevelProgress `json:"hard"`
}

// Bucket returns a pointer to the progression bucket for the given level,
// or nil if the level is unknown.
func (m *LevelMap) Bucket(level Level) *LevelProgress {
	switch level {
	case LevelEasy:
		return &m.Easy
	case LevelMedium:
		return &m.Medium
	case LevelHard:
		return &m.Hard
	}
	return nil
}

// Preferences holds user-adjustable application settings.
type Preferences struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
	ReminderTime  string `json:"reminderTime"`
	Language      string `json:"language"`
	SoundEffects  bool   `json:"soundEffects"`
}

// DefaultPreferences returns the preference set assigned at registration.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:         "dark",
		Notifications: true,
		ReminderTime:  "18:00",
		Language:      "en",
		SoundEffects:  true,
	}
}

// HasAchievement reports whether the user has already unlocked the
// achievement with the given id.
func (u *User) HasAchievement(achievementID string) bool {
	for _, a := range u.UnlockedAchievements {
		if a.AchievementID == achievementID {
			return true
		}
	}
	return false
}
