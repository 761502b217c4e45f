package httpapi

import (
	"github.com/kitbuilder587/news-digest/internal/domain"
)

type SummarizeRequest struct {
	Topic       string `json:"topic" validate:"required"`
	DaysBack    *int   `json:"daysBack"`
	MaxArticles *int   `json:"maxArticles" validate:"omitempty,min=1"`
}

// toQuery: отсутствующие поля получают значения по умолчанию.
func (r SummarizeRequest) toQuery() domain.SearchQuery {
	q := domain.NewSearchQuery(r.Topic)
	if r.DaysBack != nil {
		q.DaysBack = *r.DaysBack
	}
	if r.MaxArticles != nil {
		q.MaxResults = *r.MaxArticles
	}
	return q
}

type SummarizeResponse struct {
	Status         string `json:"status"`
	Summary        string `json:"summary"`
	ArticlesFound  int    `json:"articlesFound"`
	Topic          string `json:"topic"`
	StorageSuccess *bool  `json:"storageSuccess,omitempty"`
}

type SearchResponse struct {
	Topic          string              `json:"topic"`
	ArticlesFound  int                 `json:"articlesFound"`
	Articles       []domain.ResultItem `json:"articles"`
	StorageSuccess *bool               `json:"storageSuccess,omitempty"`
}

type HistoryResponse struct {
	History []domain.StoredSearch `json:"history"`
	Error   string                `json:"error,omitempty"`
}

type ClearHistoryResponse struct {
	Status  string `json:"status"`
	Deleted int64  `json:"deleted"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Storage   string            `json:"storage"`
	Endpoints map[string]string `json:"endpoints"`
}

type RootResponse struct {
	Message string `json:"message"`
}
