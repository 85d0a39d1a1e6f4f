package models

import "github.com/shopspring/decimal"

// AdPackage is a purchasable promotion slot for a product.
type AdPackage struct {
	ID            ID              `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	DurationHours int             `json:"duration_hours"`
}
