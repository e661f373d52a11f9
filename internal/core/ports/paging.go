package ports

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Pagination is the 1-based page window shared by every list query.
type Pagination struct {
	Page  int
	Limit int
}

// Normalize clamps the window: page >= 1, 1 <= limit <= 100.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	return p
}

// Skip returns the number of rows before the page.
func (p Pagination) Skip() int64 {
	return int64((p.Page - 1) * p.Limit)
}

// PageResult is a page of items plus the unpaged total.
type PageResult[T any] struct {
	Items      []T
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// NewPageResult assembles a PageResult for an already-normalized window.
func NewPageResult[T any](items []T, total int64, p Pagination) PageResult[T] {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	if items == nil {
		items = []T{}
	}
	return PageResult[T]{Items: items, Total: total, Page: p.Page, Limit: p.Limit, TotalPages: pages}
}
