package repository

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/news-digest/internal/domain"
)

// MockHistoryRepository - memory-хранилище с управляемыми ошибками для тестов.
type MockHistoryRepository struct {
	*MemoryHistoryRepository

	mu        sync.Mutex
	SaveErr   error
	ListErr   error
	DeleteErr error
	PingErr   error
	SaveDelay time.Duration

	SaveCalls int
}

func NewMockHistoryRepository() *MockHistoryRepository {
	return &MockHistoryRepository{
		MemoryHistoryRepository: NewMemoryHistoryRepository(),
	}
}

// WithUnavailable делает все операции неуспешными.
func (m *MockHistoryRepository) WithUnavailable(err error) *MockHistoryRepository {
	m.SaveErr = err
	m.ListErr = err
	m.DeleteErr = err
	m.PingErr = err
	return m
}

func (m *MockHistoryRepository) Save(ctx context.Context, search *domain.StoredSearch) error {
	m.mu.Lock()
	m.SaveCalls++
	delay := m.SaveDelay
	err := m.SaveErr
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return err
	}
	return m.MemoryHistoryRepository.Save(ctx, search)
}

func (m *MockHistoryRepository) ListRecent(ctx context.Context, limit int) ([]domain.StoredSearch, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.MemoryHistoryRepository.ListRecent(ctx, limit)
}

func (m *MockHistoryRepository) DeleteAll(ctx context.Context) (int64, error) {
	if m.DeleteErr != nil {
		return 0, m.DeleteErr
	}
	return m.MemoryHistoryRepository.DeleteAll(ctx)
}

func (m *MockHistoryRepository) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MockHistoryRepository) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SaveCalls
}
