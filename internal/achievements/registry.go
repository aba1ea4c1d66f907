// Package achievements holds the achievement catalog and the evaluator
// that decides which achievements a user unlocks after completing a
// session.
package achievements

import (
	"github.com/speakai-app/speakai-server/models"
)

// Definition describes one unlockable achievement. Condition is evaluated
// against the user snapshot after session progress has been applied.
type Definition struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Points      int
	Condition   func(user models.User, session models.Session) bool
}

// Registry is an ordered achievement catalog. Order determines evaluation
// and listing order.
type Registry struct {
	definitions []Definition
}

// NewRegistry builds a registry from the given definitions.
func NewRegistry(definitions ...Definition) *Registry {
	return &Registry{definitions: definitions}
}

// DefaultRegistry returns the built-in achievement catalog.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Definition{
			ID:          "first_session",
			Title:       "First Steps",
			Description: "Complete your first practice session",
			Icon:        "🎯",
			Points:      10,
			Condition: func(user models.User, _ models.Session) bool {
				return user.TotalSessions == 1
			},
		},
		Definition{
			ID:          "consistency",
			Title:       "Consistent Learner",
			Description: "Practice for 3 consecutive days",
			Icon:        "📅",
			Points:      25,
			Condition: func(user models.User, _ models.Session) bool {
				return user.Streak >= 3
			},
		},
		Definition{
			ID:          "confidence_boost",
			Title:       "Confidence Builder",
			Description: "Reach 50% confidence score",
			Icon:        "💪",
			Points:      50,
			Condition: func(user models.User, _ models.Session) bool {
				return user.ConfidenceScore >= 50
			},
		},
		Definition{
			ID:          "level_master",
			Title:       "Level Master",
			Description: "Complete all sessions in one level",
			Icon:        "👑",
			Points:      100,
			Condition: func(user models.User, _ models.Session) bool {
				return user.Levels.Easy.Progress >= 100 ||
					user.Levels.Medium.Progress >= 100 ||
					user.Levels.Hard.Progress >= 100
			},
		},
	)
}

// Definitions returns the catalog in evaluation order.
func (r *Registry) Definitions() []Definition {
	return r.definitions
}

// Find returns the definition with the given id.
func (r *Registry) Find(id string) (Definition, bool) {
	for _, def := range r.definitions {
		if def.ID == id {
			return def, true
		}
	}
	return Definition{}, false
}
