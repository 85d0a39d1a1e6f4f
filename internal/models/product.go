package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ID is a remote identifier. The API sends numbers for some records and
// strings for others, so both are accepted.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())

	return nil
}

// String returns the identifier as text.
func (id ID) String() string {
	return string(id)
}

// Product is a single listing returned by the public product feed.
type Product struct {
	ID          ID              `json:"id"`
	StoreID     ID              `json:"store_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Images      []string        `json:"images,omitempty"`
	Category    string          `json:"category,omitempty"`
	Condition   string          `json:"condition,omitempty"`
	Currency    string          `json:"currency,omitempty"`
	Status      string          `json:"status,omitempty"`
	GhostDrop   *GhostDrop      `json:"ghost_drop,omitempty"`
}

// IsGhostDrop reports whether the listing is gated by a geofence.
func (p Product) IsGhostDrop() bool {
	return p.GhostDrop != nil
}

// CurrencyLabel is the unit shown next to a price. Pulses are the default.
func (p Product) CurrencyLabel() string {
	if strings.TrimSpace(p.Currency) == "" {
		return CurrencyPulses
	}
	return p.Currency
}

// CurrencyPulses is the in-app currency code.
const CurrencyPulses = "PL"

// earthRadius in metres.
const earthRadius = 6371000.0

// GhostDrop is the geofence attached to a ghost-drop listing.
type GhostDrop struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Radius float64 `json:"radius"` // metres
	Clue   string  `json:"clue,omitempty"`
}

// Distance returns the great-circle distance in metres from the drop centre.
func (g GhostDrop) Distance(lat, lng float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat - g.Lat)
	dLng := toRad(lng - g.Lng)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(g.Lat))*math.Cos(toRad(lat))*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadius * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Contains reports whether the point lies inside the geofence.
func (g GhostDrop) Contains(lat, lng float64) bool {
	return g.Distance(lat, lng) <= g.Radius
}

// ProductPage is one page of the product feed. It is replaced wholesale on
// every fetch.
type ProductPage struct {
	Items      []Product
	TotalPages int
}
