// Package paging slices an in-memory ordered list into fixed-size pages.
package paging

// DefaultRowsPerPage is the page size used when none is configured.
const DefaultRowsPerPage = 5

// PageCount returns ceil(itemCount / pageSize). It is 0 for an empty list.
func PageCount(itemCount, pageSize int) int {
	if itemCount <= 0 || pageSize <= 0 {
		return 0
	}
	return (itemCount + pageSize - 1) / pageSize
}

// Slice returns the items on the given 1-based page: the window
// [(page-1)*pageSize, page*pageSize) clamped to len(items). Out-of-range
// pages yield an empty slice.
func Slice[T any](items []T, page, pageSize int) []T {
	if page < 1 || pageSize < 1 {
		return []T{}
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := min(start+pageSize, len(items))
	return items[start:end]
}

// Pager tracks the current page over a list of Total items.
// Page never drops below 1.
type Pager struct {
	page        int
	rowsPerPage int
	total       int
}

// New returns a Pager on page 1. Sizes below 1 fall back to
// DefaultRowsPerPage.
func New(rowsPerPage int) Pager {
	if rowsPerPage < 1 {
		rowsPerPage = DefaultRowsPerPage
	}
	return Pager{page: 1, rowsPerPage: rowsPerPage}
}

// Page is the current 1-based page.
func (p Pager) Page() int { return max(p.page, 1) }

// RowsPerPage is the fixed page size.
func (p Pager) RowsPerPage() int { return p.rowsPerPage }

// Total is the item count the pager was last given.
func (p Pager) Total() int { return p.total }

// TotalPages is PageCount(Total, RowsPerPage).
func (p Pager) TotalPages() int { return PageCount(p.total, p.rowsPerPage) }

// SetTotal updates the item count and pulls the current page back inside
// the new range.
func (p *Pager) SetTotal(n int) {
	p.total = max(n, 0)
	p.page = max(1, min(p.Page(), p.TotalPages()))
}

// HasNext reports whether Next would move.
func (p Pager) HasNext() bool { return p.Page() < p.TotalPages() }

// HasPrevious reports whether Previous would move.
func (p Pager) HasPrevious() bool { return p.Page() > 1 }

// Next advances one page unless already on the last page.
func (p *Pager) Next() bool {
	if !p.HasNext() {
		return false
	}
	p.page = p.Page() + 1
	return true
}

// Previous goes back one page unless already on page 1.
func (p *Pager) Previous() bool {
	if !p.HasPrevious() {
		return false
	}
	p.page = p.Page() - 1
	return true
}

// Reset returns to page 1.
func (p *Pager) Reset() { p.page = 1 }

// Window returns the current page of items.
func Window[T any](p Pager, items []T) []T {
	return Slice(items, p.Page(), p.rowsPerPage)
}
