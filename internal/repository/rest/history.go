package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kitbuilder587/news-digest/internal/domain"
)

const (
	DefaultTable   = "search_history"
	DefaultTimeout = 10 * time.Second
)

var ErrUnexpectedStatus = errors.New("unexpected status from rest store")

type Config struct {
	BaseURL string
	APIKey  string
	Table   string
	Timeout time.Duration
}

// HistoryRepo - история поисков через PostgREST-совместимый REST фасад.
type HistoryRepo struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *HistoryRepo {
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &HistoryRepo{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/rest/v1/" + cfg.Table,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}
}

type row struct {
	ID           uuid.UUID           `json:"id"`
	Topic        string              `json:"topic"`
	CreatedAt    time.Time           `json:"created_at"`
	ArticleCount int                 `json:"article_count"`
	Articles     []domain.ResultItem `json:"articles"`
}

func (r *HistoryRepo) Save(ctx context.Context, search *domain.StoredSearch) error {
	body, err := json.Marshal([]row{{
		ID:           search.ID,
		Topic:        search.Topic,
		CreatedAt:    search.Timestamp,
		ArticleCount: search.Count,
		Articles:     search.Articles,
	}})
	if err != nil {
		return fmt.Errorf("marshal row: %w", err)
	}

	resp, err := r.do(ctx, http.MethodPost, nil, body, "return=minimal")
	if err != nil {
		return fmt.Errorf("save search: %w", err)
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

func (r *HistoryRepo) ListRecent(ctx context.Context, limit int) ([]domain.StoredSearch, error) {
	params := url.Values{}
	params.Set("select", "id,topic,created_at,article_count,articles")
	params.Set("order", "created_at.desc")
	params.Set("limit", strconv.Itoa(limit))

	resp, err := r.do(ctx, http.MethodGet, params, nil, "")
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var rows []row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode searches: %w", err)
	}

	searches := make([]domain.StoredSearch, 0, len(rows))
	for _, rw := range rows {
		articles := rw.Articles
		if articles == nil {
			articles = []domain.ResultItem{}
		}
		searches = append(searches, domain.StoredSearch{
			ID:        rw.ID,
			Topic:     rw.Topic,
			Timestamp: rw.CreatedAt.UTC(),
			Count:     rw.ArticleCount,
			Articles:  articles,
		})
	}

	return searches, nil
}

// DeleteAll: PostgREST не даёт DELETE без фильтра, поэтому id=not.is.null.
func (r *HistoryRepo) DeleteAll(ctx context.Context) (int64, error) {
	params := url.Values{}
	params.Set("id", "not.is.null")
	params.Set("select", "id")

	resp, err := r.do(ctx, http.MethodDelete, params, nil, "return=representation")
	if err != nil {
		return 0, fmt.Errorf("delete searches: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return 0, err
	}

	var deleted []struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&deleted); err != nil {
		return 0, fmt.Errorf("decode deleted rows: %w", err)
	}

	return int64(len(deleted)), nil
}

func (r *HistoryRepo) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("select", "id")
	params.Set("limit", "1")

	resp, err := r.do(ctx, http.MethodGet, params, nil, "")
	if err != nil {
		return fmt.Errorf("ping rest store: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return checkStatus(resp)
}

func (r *HistoryRepo) do(ctx context.Context, method string, params url.Values, body []byte, prefer string) (*http.Response, error) {
	endpoint := r.endpoint
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", r.apiKey)
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Debug("rest store request failed",
			zap.String("method", method),
			zap.Error(err),
		)
		return nil, err
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(msg)))
}
