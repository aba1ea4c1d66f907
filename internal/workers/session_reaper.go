package workers

import (
	"context"
	"time"

	"github.com/speakai-app/speakai-server/internal/config"
	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/internal/store"
)

// sessionReaper periodically fails pre-upload sessions that were abandoned
// past the configured TTL, so a forgotten session cannot block its user's
// single-active-session slot forever.
type sessionReaper struct {
	sessions store.SessionRepository

	interval   time.Duration
	sessionTTL time.Duration

	ctx    context.Context
	logger *logger.Logger
}

func newSessionReaper(ctx context.Context, sessions store.SessionRepository, cfg config.Workers, log *logger.Logger) *sessionReaper {
	return &sessionReaper{
		sessions:   sessions,
		interval:   cfg.ReapInterval,
		sessionTTL: cfg.SessionTTL,
		ctx:        ctx,
		logger:     log,
	}
}

// Run starts the reap loop in a goroutine and returns immediately. The loop
// stops when the context passed to the constructor is canceled.
func (s *sessionReaper) Run() {
	go s.loop()
}

func (s *sessionReaper) loop() {
	s.logger.Info().
		Dur("interval", s.interval).
		Dur("session_ttl", s.sessionTTL).
		Msg("session reaper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Info().Msg("session reaper stopped")
			return
		case <-ticker.C:
			s.reap()
		}
	}
}

func (s *sessionReaper) reap() {
	cutoff := time.Now().Add(-s.sessionTTL)

	reaped, err := s.sessions.ReapStale(s.ctx, cutoff)
	if err != nil {
		s.logger.Err(err).Msg("error reaping stale sessions")
		return
	}

	if reaped > 0 {
		s.logger.Info().Int64("reaped", reaped).Msg("stale sessions marked failed")
	}
}
