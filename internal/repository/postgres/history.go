package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kitbuilder587/news-digest/internal/domain"
)

// Schema идемпотентна, её можно применять при каждом старте.
const Schema = `
CREATE TABLE IF NOT EXISTS search_history (
    id            UUID PRIMARY KEY,
    topic         TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    article_count INTEGER NOT NULL,
    articles      JSONB NOT NULL DEFAULT '[]'::jsonb
);
CREATE INDEX IF NOT EXISTS search_history_created_at_idx ON search_history (created_at DESC);
`

type HistoryRepo struct {
	db *DB
	// schemaReady выставляется после первого успешного EnsureSchema
	schemaReady atomic.Bool
}

func NewHistoryRepo(db *DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// EnsureSchema создаёт таблицу истории, если её нет.
func (r *HistoryRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	r.schemaReady.Store(true)
	return nil
}

// ensureSchema повторяет создание схемы, пока база не станет доступна.
func (r *HistoryRepo) ensureSchema(ctx context.Context) error {
	if r.schemaReady.Load() {
		return nil
	}
	return r.EnsureSchema(ctx)
}

func (r *HistoryRepo) Save(ctx context.Context, search *domain.StoredSearch) error {
	if err := r.ensureSchema(ctx); err != nil {
		return err
	}

	articles, err := json.Marshal(search.Articles)
	if err != nil {
		return fmt.Errorf("marshal articles: %w", err)
	}

	query := `
        INSERT INTO search_history (id, topic, created_at, article_count, articles)
        VALUES ($1, $2, $3, $4, $5)
    `

	_, err = r.db.Pool.Exec(ctx, query,
		search.ID,
		search.Topic,
		search.Timestamp,
		search.Count,
		articles,
	)
	if err != nil {
		return fmt.Errorf("save search: %w", err)
	}

	return nil
}

func (r *HistoryRepo) ListRecent(ctx context.Context, limit int) ([]domain.StoredSearch, error) {
	if err := r.ensureSchema(ctx); err != nil {
		return nil, err
	}

	query := `
        SELECT id, topic, created_at, article_count, articles
        FROM search_history
        ORDER BY created_at DESC
        LIMIT $1
    `

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}
	defer rows.Close()

	return scanSearches(rows)
}

func (r *HistoryRepo) DeleteAll(ctx context.Context) (int64, error) {
	if err := r.ensureSchema(ctx); err != nil {
		return 0, err
	}

	result, err := r.db.Pool.Exec(ctx, `DELETE FROM search_history`)
	if err != nil {
		return 0, fmt.Errorf("delete searches: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *HistoryRepo) Ping(ctx context.Context) error {
	return r.db.Pool.Ping(ctx)
}

func scanSearches(rows pgx.Rows) ([]domain.StoredSearch, error) {
	searches := make([]domain.StoredSearch, 0)
	for rows.Next() {
		var (
			s         domain.StoredSearch
			createdAt time.Time
			articles  []byte
		)
		if err := rows.Scan(&s.ID, &s.Topic, &createdAt, &s.Count, &articles); err != nil {
			return nil, fmt.Errorf("scan search: %w", err)
		}

		s.Timestamp = createdAt.UTC()
		if err := json.Unmarshal(articles, &s.Articles); err != nil {
			return nil, fmt.Errorf("unmarshal articles: %w", err)
		}
		searches = append(searches, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate searches: %w", err)
	}

	return searches, nil
}
