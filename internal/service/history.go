package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/news-digest/internal/domain"
	"github.com/kitbuilder587/news-digest/internal/repository"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 20
)

// HistoryService - приёмник истории поисков. Ошибки хранилища не пробрасываются
// наружу как сбой запроса: Store возвращает false, остальное - *domain.StorageError.
type HistoryService interface {
	Store(ctx context.Context, topic string, items []domain.ResultItem) bool
	ListRecent(ctx context.Context, limit int) ([]domain.StoredSearch, error)
	ClearAll(ctx context.Context) (int64, error)
	Healthy(ctx context.Context) bool
	Enabled() bool
}

type historyService struct {
	repo   repository.SearchHistoryRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewHistoryService: repo == nil означает что хранилище выключено.
func NewHistoryService(repo repository.SearchHistoryRepository, logger *zap.Logger) HistoryService {
	return &historyService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *historyService) Enabled() bool {
	return s.repo != nil
}

func (s *historyService) Store(ctx context.Context, topic string, items []domain.ResultItem) bool {
	if s.repo == nil {
		return false
	}

	record := domain.NewStoredSearch(topic, items, s.now())
	if err := s.repo.Save(ctx, record); err != nil {
		s.logger.Warn("failed to store search",
			zap.Error(&domain.StorageError{Op: "store", Err: err}),
			zap.String("topic", topic),
			zap.Int("count", record.Count),
		)
		return false
	}

	s.logger.Debug("search stored",
		zap.String("id", record.ID.String()),
		zap.String("topic", topic),
		zap.Int("count", record.Count),
	)
	return true
}

func (s *historyService) ListRecent(ctx context.Context, limit int) ([]domain.StoredSearch, error) {
	if s.repo == nil {
		return nil, &domain.StorageError{Op: "list", Err: domain.ErrStorageDisabled}
	}

	searches, err := s.repo.ListRecent(ctx, clampHistoryLimit(limit))
	if err != nil {
		storageErr := &domain.StorageError{Op: "list", Err: err}
		s.logger.Warn("failed to list search history", zap.Error(storageErr))
		return nil, storageErr
	}

	return searches, nil
}

func (s *historyService) ClearAll(ctx context.Context) (int64, error) {
	if s.repo == nil {
		return 0, &domain.StorageError{Op: "clear", Err: domain.ErrStorageDisabled}
	}

	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		storageErr := &domain.StorageError{Op: "clear", Err: err}
		s.logger.Warn("failed to clear search history", zap.Error(storageErr))
		return 0, storageErr
	}

	s.logger.Info("search history cleared", zap.Int64("deleted", n))
	return n, nil
}

func (s *historyService) Healthy(ctx context.Context) bool {
	if s.repo == nil {
		return false
	}
	if err := s.repo.Ping(ctx); err != nil {
		s.logger.Warn("storage ping failed", zap.Error(err))
		return false
	}
	return true
}

func clampHistoryLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}
