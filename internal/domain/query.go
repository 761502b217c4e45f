package domain

import (
	"strings"
)

const (
	DefaultDaysBack   = 3
	DefaultMaxResults = 5
)

type SearchQuery struct {
	Topic      string
	DaysBack   int
	MaxResults int
}

// NewSearchQuery returns a query with the outward-facing defaults.
func NewSearchQuery(topic string) SearchQuery {
	return SearchQuery{
		Topic:      topic,
		DaysBack:   DefaultDaysBack,
		MaxResults: DefaultMaxResults,
	}
}

// Validate не проверяет DaysBack: отрицательные значения допустимы.
func (q *SearchQuery) Validate() error {
	if strings.TrimSpace(q.Topic) == "" {
		return ErrEmptyTopic
	}

	if q.MaxResults < 1 {
		return ErrInvalidMaxResults
	}

	return nil
}

func (q *SearchQuery) Sanitize() {
	q.Topic = strings.TrimSpace(q.Topic)
}

// ApplyDefaults заполняет нулевой MaxResults. DaysBack не трогаем: 0 - валидное значение.
func (q *SearchQuery) ApplyDefaults() {
	if q.MaxResults == 0 {
		q.MaxResults = DefaultMaxResults
	}
}
