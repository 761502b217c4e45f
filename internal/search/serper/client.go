package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/news-digest/internal/domain"
	"github.com/kitbuilder587/news-digest/internal/search"
)

const (
	DefaultBaseURL   = "https://google.serper.dev"
	DefaultTimeout   = 30 * time.Second
	DefaultResultCap = 10

	dateLayout = "2006-01-02"
)

type Config struct {
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	ResultCap int
}

type Client struct {
	apiKey    string
	baseURL   string
	resultCap int
	client    *http.Client
	logger    *zap.Logger
	now       func() time.Time
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.ResultCap <= 0 {
		cfg.ResultCap = DefaultResultCap
	}

	return &Client{
		apiKey:    cfg.APIKey,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		resultCap: cfg.ResultCap,
		client:    &http.Client{Timeout: cfg.Timeout},
		logger:    logger,
		now:       time.Now,
	}
}

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

// Organic - указатель, чтобы отличать отсутствующее поле от пустого массива.
type serperResponse struct {
	Organic *[]serperResult `json:"organic"`
}

type serperResult struct {
	Title   *string `json:"title"`
	Link    *string `json:"link"`
	Snippet *string `json:"snippet"`
	Source  *string `json:"source"`
}

// Search makes exactly one request to the provider. There is no retry.
func (c *Client) Search(ctx context.Context, req search.Request) (*search.Response, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, &domain.SearchError{Err: search.ErrInvalidRequest}
	}

	query := c.buildQuery(req.Topic, req.Days())

	body, err := json.Marshal(serperRequest{Q: query, Num: c.resultCap})
	if err != nil {
		return nil, &domain.SearchError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, &domain.SearchError{Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("X-API-KEY", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Warn("serper request failed", zap.Error(err))
		return nil, &domain.SearchError{Err: fmt.Errorf("do request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.SearchError{Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("serper response",
		zap.String("query", query),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, &domain.SearchError{Err: fmt.Errorf("%w: status %d", search.ErrUnauthorized, resp.StatusCode)}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &domain.SearchError{Err: fmt.Errorf("%w: status %d", search.ErrRateLimit, resp.StatusCode)}
	case resp.StatusCode == http.StatusBadRequest:
		return nil, &domain.SearchError{Err: fmt.Errorf("%w: status %d", search.ErrInvalidRequest, resp.StatusCode)}
	default:
		return nil, &domain.SearchError{Err: fmt.Errorf("%w: status %d", search.ErrSearchFailed, resp.StatusCode)}
	}

	var serperResp serperResponse
	if err := json.Unmarshal(respBody, &serperResp); err != nil {
		return nil, &domain.SearchError{Err: fmt.Errorf("unmarshal response: %w", err)}
	}

	return toSearchResponse(query, &serperResp), nil
}

// buildQuery: отрицательный daysBack даёт дату в будущем, это допустимо.
func (c *Client) buildQuery(topic string, daysBack int) string {
	since := c.now().AddDate(0, 0, -daysBack)
	return fmt.Sprintf("%s after:%s", topic, since.Format(dateLayout))
}

func toSearchResponse(query string, resp *serperResponse) *search.Response {
	out := &search.Response{Query: query}
	if resp.Organic == nil {
		return out
	}

	out.HasResults = true
	out.Results = make([]search.Result, len(*resp.Organic))
	for i, r := range *resp.Organic {
		out.Results[i] = search.Result{
			Title:   r.Title,
			Link:    r.Link,
			Snippet: r.Snippet,
			Source:  r.Source,
		}
	}

	return out
}
