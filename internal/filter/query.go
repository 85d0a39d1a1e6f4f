package filter

import (
	"net/url"
	"strconv"
	"strings"
)

// Query translates a state into the listing endpoint parameters.
//
// page and limit are always present. search, maxPrice, status, category,
// storeId and currency are only sent when they narrow the result, and ghost
// is only ever sent as "true".
func Query(s State, ceiling int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(s.Page))
	q.Set("limit", strconv.Itoa(s.Limit))

	if term := strings.TrimSpace(s.SearchTerm); term != "" {
		q.Set("search", term)
	}
	if s.PriceRange < ceiling {
		q.Set("maxPrice", strconv.Itoa(s.PriceRange))
	}

	for key, v := range map[string]string{
		"status":   s.Status,
		"category": s.Category,
		"storeId":  s.StoreID,
		"currency": s.Currency,
	} {
		if !IsAll(v) {
			q.Set(key, strings.TrimSpace(v))
		}
	}

	if s.GhostOnly {
		q.Set("ghost", "true")
	}

	return q
}
