// Package pagination is the view model of the feed pager: which arrows are
// enabled, which page numbers are shown and which page sizes are offered.
package pagination

import "github.com/Houeta/pulsemarket/internal/filter"

// DefaultStripWidth is how many page numbers the strip shows at most.
const DefaultStripWidth = 5

// View is a read-only projection of the current page, page count and size.
type View struct {
	Page       int
	TotalPages int
	Limit      int
}

// New builds a view. A page outside [1, totalPages] is kept as is, the
// arrows are computed from it.
func New(page, totalPages, limit int) View {
	if totalPages < 0 {
		totalPages = 0
	}
	return View{Page: page, TotalPages: totalPages, Limit: limit}
}

// Visible reports whether any pager should be rendered.
func (v View) Visible() bool {
	return v.TotalPages > 0
}

// HasPrev reports whether "previous" is enabled.
func (v View) HasPrev() bool {
	return v.Visible() && v.Page > 1
}

// HasNext reports whether "next" is enabled.
func (v View) HasNext() bool {
	return v.Visible() && v.Page < v.TotalPages
}

// CanJump reports whether page n may be selected directly.
func (v View) CanJump(n int) bool {
	return n >= 1 && n <= v.TotalPages
}

// Prev returns the previous page, clamped to 1.
func (v View) Prev() int {
	if v.Page <= 1 {
		return 1
	}
	return v.Page - 1
}

// Next returns the next page, clamped to the last page.
func (v View) Next() int {
	if v.Page >= v.TotalPages {
		return max(v.TotalPages, 1)
	}
	return v.Page + 1
}

// Strip returns up to width page numbers centred on the current page.
func (v View) Strip(width int) []int {
	if !v.Visible() || width <= 0 {
		return nil
	}
	width = min(width, v.TotalPages)

	start := v.Page - width/2
	start = max(start, 1)
	if start+width-1 > v.TotalPages {
		start = v.TotalPages - width + 1
	}

	pages := make([]int, 0, width)
	for p := start; p < start+width; p++ {
		pages = append(pages, p)
	}

	return pages
}

// LimitChoices returns the selectable page sizes.
func (v View) LimitChoices() []int {
	return filter.Limits
}
