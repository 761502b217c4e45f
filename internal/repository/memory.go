package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/kitbuilder587/news-digest/internal/domain"
)

// MemoryHistoryRepository хранит историю в памяти процесса, теряется при рестарте.
type MemoryHistoryRepository struct {
	mu       sync.RWMutex
	searches []domain.StoredSearch
}

func NewMemoryHistoryRepository() *MemoryHistoryRepository {
	return &MemoryHistoryRepository{}
}

func (m *MemoryHistoryRepository) Save(ctx context.Context, search *domain.StoredSearch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.searches = append(m.searches, cloneSearch(*search))
	return nil
}

func (m *MemoryHistoryRepository) ListRecent(ctx context.Context, limit int) ([]domain.StoredSearch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// от новых к старым, при равном времени последняя вставка первой
	result := make([]domain.StoredSearch, 0, len(m.searches))
	for i := len(m.searches) - 1; i >= 0; i-- {
		result = append(result, cloneSearch(m.searches[i]))
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MemoryHistoryRepository) DeleteAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := int64(len(m.searches))
	m.searches = nil
	return n, nil
}

func (m *MemoryHistoryRepository) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryHistoryRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.searches)
}

func cloneSearch(s domain.StoredSearch) domain.StoredSearch {
	articles := make([]domain.ResultItem, len(s.Articles))
	copy(articles, s.Articles)
	s.Articles = articles
	return s
}
