package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/news-digest/internal/domain"
	"github.com/kitbuilder587/news-digest/internal/metrics"
	"github.com/kitbuilder587/news-digest/internal/search"
)

// StorageMode - когда писать историю: никогда, в фоне после ответа или синхронно.
type StorageMode int

const (
	StorageOff StorageMode = iota
	StorageDeferred
	StorageSync
)

var ErrUnknownStorageMode = errors.New("unknown storage mode")

func ParseStorageMode(s string) (StorageMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "":
		return StorageOff, nil
	case "deferred":
		return StorageDeferred, nil
	case "sync":
		return StorageSync, nil
	default:
		return StorageOff, fmt.Errorf("%w: %q", ErrUnknownStorageMode, s)
	}
}

func (m StorageMode) String() string {
	switch m {
	case StorageDeferred:
		return "deferred"
	case StorageSync:
		return "sync"
	default:
		return "off"
	}
}

const (
	DefaultSearchResultLimit = 5
	StatusSuccess            = "success"
	msgNoArticles            = "No news articles found"
)

type NewsService interface {
	Summarize(ctx context.Context, q domain.SearchQuery) (*SummaryResult, error)
	Search(ctx context.Context, topic string, daysBack int) (*SearchResult, error)
	// Wait блокируется до завершения фоновых записей истории.
	Wait()
}

type SummaryResult struct {
	Status        string
	Summary       string
	ArticlesFound int
	Topic         string
	// StorageSuccess != nil только в синхронном режиме.
	StorageSuccess *bool
}

type SearchResult struct {
	Topic          string
	ArticlesFound  int
	Articles       []domain.ResultItem
	StorageSuccess *bool
}

type NewsConfig struct {
	StorageMode       StorageMode
	SearchResultLimit int
}

type NewsServiceDeps struct {
	Search  search.Client
	History HistoryService
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Config  NewsConfig
}

type newsService struct {
	search  search.Client
	history HistoryService
	logger  *zap.Logger
	metrics *metrics.Metrics
	config  NewsConfig

	pending sync.WaitGroup
}

func NewNewsService(deps NewsServiceDeps) NewsService {
	if deps.Config.SearchResultLimit <= 0 {
		deps.Config.SearchResultLimit = DefaultSearchResultLimit
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.History == nil {
		deps.History = NewHistoryService(nil, deps.Logger)
	}

	return &newsService{
		search:  deps.Search,
		history: deps.History,
		logger:  deps.Logger,
		metrics: deps.Metrics,
		config:  deps.Config,
	}
}

func (s *newsService) Summarize(ctx context.Context, q domain.SearchQuery) (*SummaryResult, error) {
	q.ApplyDefaults()
	if err := q.Validate(); err != nil {
		return nil, &domain.ValidationError{Err: err}
	}
	q.Sanitize()

	s.logger.Info("summarizing news",
		zap.String("topic", q.Topic),
		zap.Int("days_back", q.DaysBack),
		zap.Int("max_results", q.MaxResults),
		zap.String("storage_mode", s.config.StorageMode.String()),
	)

	resp, err := s.doSearch(ctx, q.Topic, q.DaysBack)
	if err != nil {
		return nil, &domain.ProcessingError{Err: err}
	}

	// отсутствие коллекции - not found, пустая коллекция - успех с нулём статей
	if !resp.HasResults {
		return nil, &domain.NotFoundError{Message: msgNoArticles}
	}

	items := normalize(resp.Results, q.MaxResults)
	summary := domain.FormatReport(q.Topic, items)

	return &SummaryResult{
		Status:         StatusSuccess,
		Summary:        summary,
		ArticlesFound:  len(items),
		Topic:          q.Topic,
		StorageSuccess: s.persist(ctx, q.Topic, items),
	}, nil
}

func (s *newsService) Search(ctx context.Context, topic string, daysBack int) (*SearchResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, &domain.ValidationError{Err: domain.ErrEmptyTopic}
	}

	resp, err := s.doSearch(ctx, topic, daysBack)
	if err != nil {
		var searchErr *domain.SearchError
		if errors.As(err, &searchErr) {
			return nil, searchErr
		}
		return nil, &domain.SearchError{Err: err}
	}

	// здесь отсутствие коллекции = ноль результатов
	items := normalize(resp.Results, s.config.SearchResultLimit)

	return &SearchResult{
		Topic:          topic,
		ArticlesFound:  len(items),
		Articles:       items,
		StorageSuccess: s.persist(ctx, topic, items),
	}, nil
}

func (s *newsService) Wait() {
	s.pending.Wait()
}

func (s *newsService) doSearch(ctx context.Context, topic string, daysBack int) (*search.Response, error) {
	start := time.Now()

	resp, err := s.search.Search(ctx, search.Request{
		Topic:    topic,
		DaysBack: search.DaysBack(daysBack),
	})

	status := "success"
	switch {
	case err != nil:
		status = "error"
	case !resp.HasResults:
		status = "missing_results"
	}
	if s.metrics != nil {
		s.metrics.RecordSearchRequest(status, time.Since(start))
	}

	if err != nil {
		s.logger.Error("search failed",
			zap.String("topic", topic),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Debug("search completed",
		zap.String("topic", topic),
		zap.Bool("has_results", resp.HasResults),
		zap.Int("raw_results", len(resp.Results)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return resp, nil
}

// persist возвращает флаг успеха только для StorageSync.
func (s *newsService) persist(ctx context.Context, topic string, items []domain.ResultItem) *bool {
	switch s.config.StorageMode {
	case StorageSync:
		ok := s.history.Store(ctx, topic, items)
		s.recordStorage(ok)
		return &ok

	case StorageDeferred:
		// отвязываемся от отмены запроса: ответ уже ушёл
		bgCtx := context.WithoutCancel(ctx)
		s.pending.Add(1)
		go func() {
			defer s.pending.Done()
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("panic in deferred storage write",
						zap.Any("panic", r),
						zap.String("topic", topic),
					)
				}
			}()
			s.recordStorage(s.history.Store(bgCtx, topic, items))
		}()
		return nil

	default:
		return nil
	}
}

func (s *newsService) recordStorage(ok bool) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if !ok {
		status = "error"
	}
	s.metrics.RecordStorageWrite(s.config.StorageMode.String(), status)
}

// normalize подставляет значения по умолчанию и обрезает до limit, сохраняя порядок.
func normalize(results []search.Result, limit int) []domain.ResultItem {
	n := len(results)
	if limit < n {
		n = limit
	}

	items := make([]domain.ResultItem, 0, n)
	for _, r := range results[:n] {
		items = append(items, domain.NewResultItem(r.Title, r.Link, r.Snippet, r.Source))
	}
	return items
}
