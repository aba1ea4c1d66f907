package service

import (
	"time"

	"github.com/speakai-app/speakai-server/models"
)

// Per-difficulty progress increments. Harder levels advance the bar more
// slowly.
var progressIncrements = map[models.Level]int{
	models.LevelEasy:   10,
	models.LevelMedium: 8,
	models.LevelHard:   6,
}

// ProgressionEngine applies a completed session to a user snapshot: session
// counters, best-ever confidence, per-level progress, the day-based streak,
// and the coarse proficiency tier. It mutates only the in-memory snapshot;
// persistence stays with the caller.
type ProgressionEngine struct{}

// Apply folds one completed session into the user snapshot.
func (ProgressionEngine) Apply(user *models.User, session models.Session, now time.Time) {
	applyStreak(user, now)

	user.TotalSessions++
	if session.ConfidenceScore > user.ConfidenceScore {
		user.ConfidenceScore = session.ConfidenceScore
	}
	user.LastSessionAt = &now

	bucket := user.Levels.Bucket(session.Level)
	if bucket != nil {
		bucket.Sessions++
		if session.ConfidenceScore > bucket.BestScore {
			bucket.BestScore = session.ConfidenceScore
		}
		bucket.TotalTime += session.Duration

		bucket.Progress += progressIncrements[session.Level]
		if bucket.Progress > 100 {
			bucket.Progress = 100
		}
	}

	if user.IsNewUser && user.TotalSessions >= 1 {
		user.IsNewUser = false
	}

	promote(user)
}

// applyStreak updates the consecutive-day counter. The comparison runs
// against the previous session time, before LastSessionAt is overwritten.
// Day distance uses whole 24h floors: a same-day session leaves the streak
// unchanged, exactly one day extends it, a longer gap resets it to 1.
func applyStreak(user *models.User, now time.Time) {
	switch {
	case user.LastSessionAt == nil:
		user.Streak = 1
	default:
		days := int(now.Sub(*user.LastSessionAt).Hours() / 24)
		switch {
		case days == 1:
			user.Streak++
		case days > 1:
			user.Streak = 1
		case user.Streak == 0:
			// Same-day session for a user with no recorded streak.
			user.Streak = 1
		}
	}

	if user.Streak > user.MaxStreak {
		user.MaxStreak = user.Streak
	}
}

// promote advances the coarse proficiency tier once the corresponding
// level bar fills: finishing easy makes the user intermediate, finishing
// medium makes them advanced. Tiers never regress.
func promote(user *models.User) {
	if user.Levels.Medium.Progress >= 100 {
		user.CurrentLevel = models.ProficiencyAdvanced
		return
	}
	if user.Levels.Easy.Progress >= 100 && user.CurrentLevel == models.ProficiencyBeginner {
		user.CurrentLevel = models.ProficiencyIntermediate
	}
}
