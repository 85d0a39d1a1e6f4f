// Package filter holds the feed filter state of a chat session and turns it
// into listing queries.
package filter

import (
	"errors"
	"slices"
	"strings"
)

const (
	// All is the selector value meaning "do not filter on this field".
	All = "ALL"
	// NoPriceLimit is the default price ceiling. A price range at or above the
	// ceiling means the feed is not filtered by price.
	NoPriceLimit = 5000
	// DefaultLimit is the page size of a fresh session.
	DefaultLimit = 12
)

// Limits are the page sizes a user may pick.
var Limits = []int{6, 12, 24, 50, 100}

var (
	ErrInvalidLimit = errors.New("page size must be one of 6, 12, 24, 50, 100")
	ErrInvalidPage  = errors.New("page must be at least 1")
	ErrInvalidPrice = errors.New("max price must not be negative")
)

// State is a snapshot of every feed filter.
type State struct {
	SearchTerm string
	PriceRange int
	Status     string
	Category   string
	StoreID    string
	Currency   string
	GhostOnly  bool
	Page       int
	Limit      int
}

// Default returns the state of a fresh session for the given price ceiling.
func Default(ceiling int) State {
	return State{
		PriceRange: ceiling,
		Status:     All,
		Category:   All,
		StoreID:    All,
		Currency:   All,
		Page:       1,
		Limit:      DefaultLimit,
	}
}

// ValidLimit reports whether n is one of Limits.
func ValidLimit(n int) bool {
	return slices.Contains(Limits, n)
}

// IsAll reports whether a selector value is unset or the literal ALL.
func IsAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, All)
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	SearchTerm *string
	PriceRange *int
	Status     *string
	Category   *string
	StoreID    *string
	Currency   *string
	GhostOnly  *bool
	Page       *int
	Limit      *int
}

func (p Patch) validate() error {
	if p.Limit != nil && !ValidLimit(*p.Limit) {
		return ErrInvalidLimit
	}
	if p.Page != nil && *p.Page < 1 {
		return ErrInvalidPage
	}
	if p.PriceRange != nil && *p.PriceRange < 0 {
		return ErrInvalidPrice
	}

	return nil
}

// apply returns s with the patch applied. Page falls back to 1 when any
// other field actually changed.
func (p Patch) apply(s State) State {
	next := s
	setIf(&next.SearchTerm, p.SearchTerm)
	setIf(&next.PriceRange, p.PriceRange)
	setIf(&next.Status, selector(p.Status))
	setIf(&next.Category, selector(p.Category))
	setIf(&next.StoreID, selector(p.StoreID))
	setIf(&next.Currency, selector(p.Currency))
	setIf(&next.GhostOnly, p.GhostOnly)
	setIf(&next.Limit, p.Limit)

	filtersChanged := next != s
	if filtersChanged {
		next.Page = 1
		return next
	}

	setIf(&next.Page, p.Page)
	return next
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// selector normalises empty selector input to All.
func selector(v *string) *string {
	if v == nil {
		return nil
	}
	out := strings.TrimSpace(*v)
	if out == "" {
		out = All
	}
	return &out
}

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T {
	return &v
}
