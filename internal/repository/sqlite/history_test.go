package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/kitbuilder587/news-digest/internal/domain"
	"github.com/kitbuilder587/news-digest/internal/repository"
)

var _ repository.SearchHistoryRepository = (*HistoryRepo)(nil)

func newTestRepo(t *testing.T) *HistoryRepo {
	t.Helper()

	repo, err := New(filepath.Join(t.TempDir(), "data", "history.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestHistoryRepo_SaveAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)

	items := []domain.ResultItem{
		{Title: "A", URL: "https://a", Snippet: "sa", Source: "Reuters"},
		{Title: "B", URL: "", Snippet: "No description", Source: "Unknown"},
	}

	older := domain.NewStoredSearch("older", items[:1], base)
	newer := domain.NewStoredSearch("newer", items, base.Add(time.Hour))

	for _, s := range []*domain.StoredSearch{older, newer} {
		if err := repo.Save(ctx, s); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	got, err := repo.ListRecent(ctx, 20)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	if got[0].ID != newer.ID || got[0].Topic != "newer" {
		t.Errorf("got[0] = %+v, want newer first", got[0])
	}
	if got[0].Count != 2 || len(got[0].Articles) != 2 {
		t.Errorf("count/articles = %d/%d", got[0].Count, len(got[0].Articles))
	}
	if got[0].Articles[1] != items[1] {
		t.Errorf("article roundtrip = %+v", got[0].Articles[1])
	}
	if !got[0].Timestamp.Equal(newer.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got[0].Timestamp, newer.Timestamp)
	}

	limited, _ := repo.ListRecent(ctx, 1)
	if len(limited) != 1 || limited[0].Topic != "newer" {
		t.Errorf("limit not applied: %+v", limited)
	}
}

func TestHistoryRepo_DeleteAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if err := repo.Save(ctx, domain.NewStoredSearch("t", nil, time.Now())); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	n, err := repo.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
	if n != 4 {
		t.Errorf("DeleteAll() = %d, want 4", n)
	}

	got, _ := repo.ListRecent(ctx, 20)
	if len(got) != 0 {
		t.Errorf("expected empty history, got %d", len(got))
	}
}

func TestHistoryRepo_EmptyArticles(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, domain.NewStoredSearch("nothing", nil, time.Now())); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := repo.ListRecent(ctx, 5)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if got[0].Count != 0 || len(got[0].Articles) != 0 {
		t.Errorf("expected zero articles, got %+v", got[0])
	}
}

func TestHistoryRepo_Ping(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
