package search

import (
	"context"
	"errors"
)

var (
	ErrUnauthorized   = errors.New("invalid API key")
	ErrRateLimit      = errors.New("rate limit exceeded")
	ErrInvalidRequest = errors.New("invalid request parameters")
	ErrSearchFailed   = errors.New("search request failed")
)

// DefaultDaysBack используется, когда в запросе нет DaysBack.
const DefaultDaysBack = 7

type Client interface {
	Search(ctx context.Context, req Request) (*Response, error)
}

type Request struct {
	Topic    string
	DaysBack *int
}

func (r Request) Days() int {
	if r.DaysBack == nil {
		return DefaultDaysBack
	}
	return *r.DaysBack
}

func DaysBack(n int) *int {
	return &n
}

type Response struct {
	Query string
	// HasResults is false when the provider omitted the results collection.
	HasResults bool
	Results    []Result
}

// Result - сырые поля провайдера, nil означает что поля не было в ответе.
type Result struct {
	Title   *string
	Link    *string
	Snippet *string
	Source  *string
}
