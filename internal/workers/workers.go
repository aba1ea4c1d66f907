package workers

import (
	"context"

	"github.com/speakai-app/speakai-server/internal/config"
	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/internal/store"
)

type Workers struct {
	workers []Worker
}

// NewWorkers wires the background workers against the shared repositories.
func NewWorkers(ctx context.Context, storages *store.Storages, cfg config.Workers, log *logger.Logger) *Workers {
	return &Workers{
		workers: []Worker{
			newSessionReaper(ctx, storages.SessionRepository, cfg, log),
		},
	}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
