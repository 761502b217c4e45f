package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/news-digest/internal/domain"
	"github.com/kitbuilder587/news-digest/internal/repository"
)

var _ repository.SearchHistoryRepository = (*HistoryRepo)(nil)

// fakeStore - минимальный PostgREST для одной таблицы.
type fakeStore struct {
	mu      sync.Mutex
	rows    []row
	headers http.Header
}

func (f *fakeStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.headers = r.Header.Clone()
	if r.URL.Path != "/rest/v1/search_history" {
		http.NotFound(w, r)
		return
	}
	if r.Header.Get("apikey") != "secret" {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid API key"}`))
		return
	}

	switch r.Method {
	case http.MethodPost:
		var in []row
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.rows = append(f.rows, in...)
		w.WriteHeader(http.StatusCreated)
	case http.MethodGet:
		out := make([]row, len(f.rows))
		copy(out, f.rows)
		if r.URL.Query().Get("order") == "created_at.desc" {
			sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
		}
		if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l < len(out) {
			out = out[:l]
		}
		json.NewEncoder(w).Encode(out)
	case http.MethodDelete:
		if r.URL.Query().Get("id") != "not.is.null" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		deleted := make([]map[string]string, 0, len(f.rows))
		for _, rw := range f.rows {
			deleted = append(deleted, map[string]string{"id": rw.ID.String()})
		}
		f.rows = nil
		json.NewEncoder(w).Encode(deleted)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestRepo(t *testing.T, apiKey string) (*HistoryRepo, *fakeStore) {
	t.Helper()

	store := &fakeStore{}
	server := httptest.NewServer(store)
	t.Cleanup(server.Close)

	repo := New(Config{BaseURL: server.URL + "/", APIKey: apiKey}, zap.NewNop())
	return repo, store
}

func TestHistoryRepo_SaveListDelete(t *testing.T) {
	repo, store := newTestRepo(t, "secret")
	ctx := context.Background()
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	first := domain.NewStoredSearch("first", []domain.ResultItem{{Title: "a", Source: "x"}}, base)
	second := domain.NewStoredSearch("second", nil, base.Add(time.Minute))

	for _, s := range []*domain.StoredSearch{first, second} {
		if err := repo.Save(ctx, s); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	if store.headers.Get("Authorization") != "Bearer secret" {
		t.Errorf("Authorization header = %q", store.headers.Get("Authorization"))
	}

	got, err := repo.ListRecent(ctx, 20)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(got) != 2 || got[0].Topic != "second" || got[1].Topic != "first" {
		t.Fatalf("ListRecent() = %+v", got)
	}
	if got[1].Count != 1 || got[1].Articles[0].Title != "a" {
		t.Errorf("article roundtrip = %+v", got[1])
	}
	if got[0].Articles == nil {
		t.Error("Articles should be empty slice, not nil")
	}

	n, err := repo.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
	if n != 2 {
		t.Errorf("DeleteAll() = %d, want 2", n)
	}
	if store.headers.Get("Prefer") != "return=representation" {
		t.Errorf("Prefer header = %q", store.headers.Get("Prefer"))
	}
}

func TestHistoryRepo_Unauthorized(t *testing.T) {
	repo, _ := newTestRepo(t, "wrong")
	ctx := context.Background()

	if err := repo.Save(ctx, domain.NewStoredSearch("t", nil, time.Now())); !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("Save() error = %v, want ErrUnexpectedStatus", err)
	}
	if _, err := repo.ListRecent(ctx, 5); !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("ListRecent() error = %v, want ErrUnexpectedStatus", err)
	}
	if err := repo.Ping(ctx); !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("Ping() error = %v, want ErrUnexpectedStatus", err)
	}
}

func TestHistoryRepo_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	repo := New(Config{BaseURL: url, APIKey: "secret", Timeout: time.Second}, zap.NewNop())

	if err := repo.Ping(context.Background()); err == nil {
		t.Error("Ping() expected error for closed server")
	}
	if _, err := repo.DeleteAll(context.Background()); err == nil {
		t.Error("DeleteAll() expected error for closed server")
	}
}
