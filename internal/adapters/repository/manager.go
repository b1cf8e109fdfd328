// Package repository opens the configured vote store and hands out its
// repositories.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
	"github.com/vncsmyrnk/queridometro/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/queridometro/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/queridometro/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/queridometro/internal/config"
	"github.com/vncsmyrnk/queridometro/internal/core/ports"
)

type Manager struct {
	Credentials ports.CredentialRepository
	Votes       ports.VoteRepository

	kind string
	db   *sql.DB
}

// Open connects to the store selected by cfg.Store. SQL stores are
// migrated when migrate is set.
func Open(ctx context.Context, cfg *config.Config, migrate bool, logger *slog.Logger) (*Manager, error) {
	m := &Manager{kind: cfg.Store}

	switch cfg.Store {
	case config.StoreMemory:
		m.Credentials = memory.NewCredentialRepository()
		m.Votes = memory.NewVoteRepository()
		return m, nil

	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}
		m.db = db
		m.Credentials = postgres.NewCredentialRepository(db)
		m.Votes = postgres.NewVoteRepository(db)

	case config.StoreSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		m.db = db
		m.Credentials = sqlite.NewCredentialRepository(db)
		m.Votes = sqlite.NewVoteRepository(db)

	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	if migrate {
		if err := m.Migrate(ctx, logger); err != nil {
			m.Close()
			return nil, err
		}
	}
	return m, nil
}

// Migrator returns the goose provider of a SQL store.
func (m *Manager) Migrator() (*goose.Provider, error) {
	switch m.kind {
	case config.StorePostgres:
		return postgres.NewMigrator(m.db)
	case config.StoreSQLite:
		return sqlite.NewMigrator(m.db)
	default:
		return nil, fmt.Errorf("store %q has no schema", m.kind)
	}
}

func (m *Manager) Migrate(ctx context.Context, logger *slog.Logger) error {
	switch m.kind {
	case config.StorePostgres:
		return postgres.Migrate(ctx, m.db, logger)
	case config.StoreSQLite:
		return sqlite.Migrate(ctx, m.db, logger)
	default:
		return nil
	}
}

func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}
