package service

import (
	"github.com/speakai-app/speakai-server/internal/achievements"
	"github.com/speakai-app/speakai-server/internal/analysis"
	"github.com/speakai-app/speakai-server/internal/config"
	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/internal/store"
	"github.com/speakai-app/speakai-server/internal/validators"
)

// Services aggregates the application service layer.
type Services struct {
	AuthService    AuthService
	SessionService SessionService
	UserService    UserService
}

// NewServices wires the service layer. The provider argument is the
// configured analysis implementation; a synthetic fallback is always
// constructed for degraded completion.
func NewServices(storages *store.Storages, cfg *config.StructuredConfig, provider analysis.Provider, log *logger.Logger) *Services {
	registry := achievements.DefaultRegistry()

	return &Services{
		AuthService: NewAuthService(storages.UserRepository, cfg.App, log),
		SessionService: NewSessionService(
			storages.SessionRepository,
			storages.UserRepository,
			provider,
			analysis.NewSyntheticProvider(log),
			achievements.NewEvaluator(registry, log),
			registry,
			validators.NewAudioValidator(cfg.Limits.MaxAudioBytes),
			cfg.Analysis.Timeout,
			log,
		),
		UserService: NewUserService(storages.UserRepository, storages.SessionRepository, registry, log),
	}
}
