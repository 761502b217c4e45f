package repository

import (
	"context"

	"github.com/kitbuilder587/news-digest/internal/domain"
)

// SearchHistoryRepository - хранилище истории поисков.
// Реализации: postgres, sqlite, rest, memory.
type SearchHistoryRepository interface {
	Save(ctx context.Context, search *domain.StoredSearch) error
	// ListRecent возвращает записи от новых к старым.
	ListRecent(ctx context.Context, limit int) ([]domain.StoredSearch, error)
	DeleteAll(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}
