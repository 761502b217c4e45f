package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/news-digest/internal/search"
)

type Client struct {
	Results []search.Result
	// Missing - провайдер не вернул коллекцию результатов.
	Missing bool
	Error   error
	Delay   time.Duration

	CallCount   int
	LastRequest search.Request
	AllRequests []search.Request

	mu sync.Mutex
}

func New() *Client {
	return &Client{}
}

func (c *Client) WithResults(results []search.Result) *Client {
	c.Results = results
	return c
}

func (c *Client) WithMissingResults() *Client {
	c.Missing = true
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) Search(ctx context.Context, req search.Request) (*search.Response, error) {
	c.mu.Lock()
	c.CallCount++
	c.LastRequest = req
	c.AllRequests = append(c.AllRequests, req)
	delay := c.Delay
	err := c.Error
	missing := c.Missing
	results := c.Results
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return nil, err
	}

	if missing {
		return &search.Response{Query: req.Topic}, nil
	}

	out := make([]search.Result, len(results))
	copy(out, results)

	return &search.Response{
		Query:      req.Topic,
		HasResults: true,
		Results:    out,
	}, nil
}

func (c *Client) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CallCount
}

func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCount = 0
	c.LastRequest = search.Request{}
	c.AllRequests = nil
}

// Item собирает результат с заполненными полями.
func Item(title, link, snippet, source string) search.Result {
	return search.Result{Title: &title, Link: &link, Snippet: &snippet, Source: &source}
}
