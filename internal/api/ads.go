package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Houeta/pulsemarket/internal/models"
)

// PurchaseRequest buys an ad package for a product.
type PurchaseRequest struct {
	ProductID string `json:"productId" validate:"required"`
	PackageID string `json:"packageId" validate:"required"`
}

// AdPackages lists the ad packages on sale.
func (c *Client) AdPackages(ctx context.Context, token string) ([]models.AdPackage, error) {
	const opn = "api.AdPackages"

	var packages []models.AdPackage
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/ads/packages", auth: true, token: token}, &packages)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	return packages, nil
}

// PurchaseAd buys an ad package. Every call carries a fresh idempotency key.
func (c *Client) PurchaseAd(ctx context.Context, token string, purchase PurchaseRequest) error {
	const opn = "api.PurchaseAd"

	err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/api/ads/purchase",
		body:    purchase,
		auth:    true,
		token:   token,
		headers: map[string]string{"Idempotency-Key": c.newKey()},
	}, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}
