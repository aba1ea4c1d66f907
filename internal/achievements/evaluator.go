package achievements

import (
	"time"

	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/models"
)

// Evaluator checks the registry against a user snapshot and reports new
// unlocks. Evaluation is idempotent: already-unlocked achievements are
// skipped here, and the storage layer additionally ignores duplicate
// inserts.
type Evaluator struct {
	registry *Registry
	logger   *logger.Logger
}

// NewEvaluator constructs an [Evaluator] over the given registry.
func NewEvaluator(registry *Registry, log *logger.Logger) *Evaluator {
	return &Evaluator{
		registry: registry,
		logger:   log,
	}
}

// Evaluate returns the achievements the user newly qualifies for, in
// catalog order. The user snapshot must already include the applied
// session progress. A panicking condition is isolated: the remaining
// definitions are still evaluated.
func (e *Evaluator) Evaluate(user models.User, session models.Session, now time.Time) []models.AchievementUnlock {
	var unlocked []models.AchievementUnlock

	for _, def := range e.registry.Definitions() {
		if user.HasAchievement(def.ID) {
			continue
		}
		if !e.qualifies(def, user, session) {
			continue
		}

		unlocked = append(unlocked, models.AchievementUnlock{
			AchievementID: def.ID,
			UnlockedAt:    now,
			Points:        def.Points,
		})
	}

	return unlocked
}

// qualifies runs one condition, recovering from panics so a broken
// definition cannot take down session completion.
func (e *Evaluator) qualifies(def Definition, user models.User, session models.Session) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().
				Str("func", "*Evaluator.qualifies").
				Str("achievement", def.ID).
				Any("panic", r).
				Msg("achievement condition panicked")
			ok = false
		}
	}()

	return def.Condition(user, session)
}
