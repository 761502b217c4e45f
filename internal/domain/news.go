package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultTitle   = "No title"
	DefaultURL     = ""
	DefaultSnippet = "No description"
	DefaultSource  = "Unknown"
)

type ResultItem struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}

// NewResultItem fills fields the provider omitted (nil) with defaults.
// Present but empty values are kept as is.
func NewResultItem(title, url, snippet, source *string) ResultItem {
	return ResultItem{
		Title:   valueOr(title, DefaultTitle),
		URL:     valueOr(url, DefaultURL),
		Snippet: valueOr(snippet, DefaultSnippet),
		Source:  valueOr(source, DefaultSource),
	}
}

func valueOr(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}

type StoredSearch struct {
	ID        uuid.UUID    `json:"id"`
	Topic     string       `json:"topic"`
	Timestamp time.Time    `json:"timestamp"`
	Count     int          `json:"count"`
	Articles  []ResultItem `json:"articles"`
}

func NewStoredSearch(topic string, items []ResultItem, now time.Time) *StoredSearch {
	articles := make([]ResultItem, len(items))
	copy(articles, items)

	return &StoredSearch{
		ID:        uuid.New(),
		Topic:     topic,
		Timestamp: now.UTC(),
		Count:     len(articles),
		Articles:  articles,
	}
}
