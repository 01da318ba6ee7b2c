// Package pagination converts a requested page number and a total row
// count into the offset/limit window used by every listing query.
package pagination

import "strconv"

// PageSize is the fixed number of posts per page for listings and search.
const PageSize = 5

// Window is a bounded query window plus the page arithmetic the views need.
type Window struct {
	Page       int
	Offset     int
	Limit      int
	TotalPages int
}

// NewWindow derives a window from the raw page query parameter and the
// total number of matching rows. Non-numeric or sub-1 page values clamp
// to page 1. Pages past the end simply produce an empty result set
// downstream; that is the store's concern, not this package's.
func NewWindow(rawPage string, total int) Window {
	page, err := strconv.Atoi(rawPage)
	if err != nil || page < 1 {
		page = 1
	}

	return Window{
		Page:       page,
		Offset:     (page - 1) * PageSize,
		Limit:      PageSize,
		TotalPages: (total + PageSize - 1) / PageSize,
	}
}
