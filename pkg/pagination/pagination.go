package pagination

import "math"

type PageRequest struct {
	Page int
}

type Page[T any] struct {
	Items       []T
	Count       int
	CurrentPage int
	PerPage     int
	Total       int
	LastPage    int
	HasNextPage bool
}

// Offset returns the zero-based offset of the first item on page.
// Pages below 1 are treated as the first page; offsets too large for
// an int saturate at math.MaxInt.
func Offset(page, perPage int) int {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}
	return (page - 1) * perPage
}

// LastPage is never below 1, so an empty listing still has a first page.
func LastPage(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}
