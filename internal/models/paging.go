package models

import "time"

// PagedRequest captures the common paging, sorting and filtering inputs for
// paged query operations.
type PagedRequest struct {
	Page          int
	PageSize      int
	SortColumn    string
	SortDirection string
	Search        string
	DateFrom      *time.Time
	DateTo        *time.Time
}

// Normalize clamps page and page size to their minimums.
func (r *PagedRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = 20
	}
}

// Offset computes the window offset for the current page.
func (r PagedRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// Descending reports whether a descending sort was requested.
func (r PagedRequest) Descending() bool {
	return r.SortDirection == "desc" || r.SortDirection == "DESC"
}
