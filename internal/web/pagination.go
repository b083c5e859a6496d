package web

import (
	"net/url"
	"strconv"
)

// PageSize is the fixed number of activity-log rows per page.
const PageSize = 50

// Pagination captures the paging state of a filtered listing. Page is the
// requested page clamped to >= 1 but deliberately not clamped from above:
// a page past the end renders an empty table, not an error.
type Pagination struct {
	Page       int
	TotalCount int64
	TotalPages int
}

func NewPagination(page int, totalCount int64) Pagination {
	if page < 1 {
		page = 1
	}

	totalPages := int((totalCount + PageSize - 1) / PageSize)

	return Pagination{
		Page:       page,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}

// Offset returns the row offset of the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * PageSize
}

// Window returns the sliding page-number window page-2 .. page+2 clamped
// into [1, TotalPages]. A request past the last page windows around the
// last page instead. Empty only when there are no pages at all.
func (p Pagination) Window() []int {
	if p.TotalPages == 0 {
		return nil
	}

	page := p.Page
	if page > p.TotalPages {
		page = p.TotalPages
	}

	lo := page - 2
	if lo < 1 {
		lo = 1
	}
	hi := page + 2
	if hi > p.TotalPages {
		hi = p.TotalPages
	}

	window := make([]int, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		window = append(window, n)
	}
	return window
}

// Prev returns the page the previous-page link targets. From past the end
// it steps straight back to the last page.
func (p Pagination) Prev() int {
	prev := p.Page - 1
	if prev > p.TotalPages {
		prev = p.TotalPages
	}
	if prev < 1 {
		prev = 1
	}
	return prev
}

func (p Pagination) HasPrev() bool {
	return p.Page > 1
}

func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages
}

// PageURL builds a link to the given page of path, re-embedding every
// filter value so navigating pages never loses the filter context.
func PageURL(path string, filters url.Values, page int) string {
	q := url.Values{}
	for key, vals := range filters {
		for _, v := range vals {
			if v != "" {
				q.Add(key, v)
			}
		}
	}
	q.Set("page", strconv.Itoa(page))

	return path + "?" + q.Encode()
}
