package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/kitbuilder587/news-digest/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS search_history (
    id            TEXT PRIMARY KEY,
    topic         TEXT NOT NULL,
    created_at    INTEGER NOT NULL,
    article_count INTEGER NOT NULL,
    articles      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS search_history_created_at_idx ON search_history (created_at DESC);
`

type HistoryRepo struct {
	db *sql.DB
}

// New открывает (или создаёт) файл базы и таблицу истории.
func New(path string) (*HistoryRepo, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// один писатель, sqlite сам сериализует запись
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &HistoryRepo{db: db}, nil
}

func (r *HistoryRepo) Close() error {
	return r.db.Close()
}

func (r *HistoryRepo) Save(ctx context.Context, search *domain.StoredSearch) error {
	articles, err := json.Marshal(search.Articles)
	if err != nil {
		return fmt.Errorf("marshal articles: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO search_history (id, topic, created_at, article_count, articles) VALUES (?, ?, ?, ?, ?)`,
		search.ID.String(),
		search.Topic,
		search.Timestamp.UnixNano(),
		search.Count,
		string(articles),
	)
	if err != nil {
		return fmt.Errorf("save search: %w", err)
	}

	return nil
}

func (r *HistoryRepo) ListRecent(ctx context.Context, limit int) ([]domain.StoredSearch, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, topic, created_at, article_count, articles
        FROM search_history
        ORDER BY created_at DESC, rowid DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}
	defer rows.Close()

	searches := make([]domain.StoredSearch, 0)
	for rows.Next() {
		var (
			s         domain.StoredSearch
			createdAt int64
			articles  string
		)
		if err := rows.Scan(&s.ID, &s.Topic, &createdAt, &s.Count, &articles); err != nil {
			return nil, fmt.Errorf("scan search: %w", err)
		}

		s.Timestamp = time.Unix(0, createdAt).UTC()
		if err := json.Unmarshal([]byte(articles), &s.Articles); err != nil {
			return nil, fmt.Errorf("unmarshal articles: %w", err)
		}
		searches = append(searches, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate searches: %w", err)
	}

	return searches, nil
}

func (r *HistoryRepo) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM search_history`)
	if err != nil {
		return 0, fmt.Errorf("delete searches: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func (r *HistoryRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
