package store

import (
	"context"
	"fmt"

	"github.com/speakai-app/speakai-server/internal/config"
	"github.com/speakai-app/speakai-server/internal/logger"
)

// Storages aggregates all repositories backed by one database connection.
type Storages struct {
	UserRepository    UserRepository
	SessionRepository SessionRepository

	db *DB
}

// NewStorages connects to PostgreSQL, applies pending migrations, and wires
// the repositories.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return &Storages{
		UserRepository:    NewUserRepository(db, log),
		SessionRepository: NewSessionRepository(db, log),
		db:                db,
	}, nil
}

// Close releases the underlying database connection.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
