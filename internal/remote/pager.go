package remote

import (
	"net/http"
	"strconv"
)

// Pager drives Previous/Next controls. Pages are 1-indexed.
type Pager struct {
	Current int
	Pages   int
	Total   int
}

func NewPager(current, pages, total int) Pager {
	if current < 1 {
		current = 1
	}
	if pages < 0 {
		pages = 0
	}
	if pages > 0 && current > pages {
		current = pages
	}
	return Pager{Current: current, Pages: pages, Total: total}
}

func (p Pager) PrevDisabled() bool { return p.Current <= 1 }

// NextDisabled is also true for an empty collection, where pages is 0.
func (p Pager) NextDisabled() bool { return p.Current >= p.Pages }

func (p Pager) Prev() int {
	if p.PrevDisabled() {
		return 1
	}
	return p.Current - 1
}

func (p Pager) Next() int {
	if p.NextDisabled() {
		return p.Current
	}
	return p.Current + 1
}

// PageFromRequest reads ?page, falling back to 1 for missing or bad values.
func PageFromRequest(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// PageURL links to another page of path, carrying the active filters.
func PageURL(path string, page int, filters map[string]string) string {
	values := Query{Page: page, Filters: filters}.Values()
	return path + "?" + values.Encode()
}
