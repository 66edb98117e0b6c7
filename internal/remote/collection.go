package remote

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Getter is the part of the API client a collection needs.
type Getter interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
}

// List fetches an endpoint that answers with a plain JSON array. The result
// replaces whatever the caller held before; nil responses become empty.
func List[T any](ctx context.Context, c Getter, path string) ([]T, error) {
	var items []T
	if err := c.Get(ctx, path, nil, &items); err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Page is the envelope of the paginated log endpoints.
type Page[T any] struct {
	Logs        []T `json:"logs"`
	Total       int `json:"total"`
	Pages       int `json:"pages"`
	CurrentPage int `json:"current_page"`
}

func (p *Page[T]) Pager() Pager {
	return NewPager(p.CurrentPage, p.Pages, p.Total)
}

// Query selects one page; empty filter values are not sent.
type Query struct {
	Page    int
	Filters map[string]string
}

func (q Query) Values() url.Values {
	values := url.Values{}
	page := q.Page
	if page < 1 {
		page = 1
	}
	values.Set("page", strconv.Itoa(page))
	for key, value := range q.Filters {
		if value != "" {
			values.Set(key, value)
		}
	}
	return values
}

// Paged fetches one page of a paginated endpoint.
func Paged[T any](ctx context.Context, c Getter, path string, q Query) (*Page[T], error) {
	var page Page[T]
	if err := c.Get(ctx, path, q.Values(), &page); err != nil {
		return nil, fmt.Errorf("page %d of %s: %w", q.Page, path, err)
	}
	if page.Logs == nil {
		page.Logs = []T{}
	}
	if page.CurrentPage < 1 {
		page.CurrentPage = max(q.Page, 1)
	}
	return &page, nil
}
