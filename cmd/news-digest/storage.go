package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kitbuilder587/news-digest/internal/config"
	"github.com/kitbuilder587/news-digest/internal/repository"
	"github.com/kitbuilder587/news-digest/internal/repository/postgres"
	"github.com/kitbuilder587/news-digest/internal/repository/rest"
	"github.com/kitbuilder587/news-digest/internal/repository/sqlite"
)

// openHistoryRepo выбирает backend истории. nil repo без ошибки - хранилище выключено.
func openHistoryRepo(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.SearchHistoryRepository, func(), error) {
	noop := func() {}

	switch cfg.Storage.Backend {
	case config.BackendNone:
		return nil, noop, nil

	case config.BackendMemory:
		return repository.NewMemoryHistoryRepository(), noop, nil

	case config.BackendPostgres:
		// недоступная база не должна мешать старту: /health покажет disconnected,
		// а схема создастся при первом успешном обращении
		db, err := postgres.Open(ctx, cfg.Database.URL)
		if err != nil {
			return nil, noop, fmt.Errorf("open postgres: %w", err)
		}
		repo := postgres.NewHistoryRepo(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Warn("postgres unavailable at startup, history writes will fail until it recovers",
				zap.Error(err),
			)
		}
		return repo, db.Close, nil

	case config.BackendSQLite:
		repo, err := sqlite.New(cfg.SQLite.Path)
		if err != nil {
			return nil, noop, fmt.Errorf("open sqlite: %w", err)
		}
		return repo, func() {
			if err := repo.Close(); err != nil {
				logger.Warn("failed to close sqlite", zap.Error(err))
			}
		}, nil

	case config.BackendREST:
		repo := rest.New(rest.Config{
			BaseURL: cfg.REST.URL,
			APIKey:  cfg.REST.APIKey,
			Table:   cfg.REST.Table,
			Timeout: cfg.REST.Timeout,
		}, logger)
		return repo, noop, nil

	default:
		return nil, noop, fmt.Errorf("%w: %q", config.ErrInvalidStorageBackend, cfg.Storage.Backend)
	}
}
