package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Houeta/pulsemarket/internal/models"
)

type productListResponse struct {
	Data []models.Product `json:"data"`
	Meta struct {
		TotalPages int `json:"totalPages"`
	} `json:"meta"`
}

// ListProducts fetches one page of the public product feed.
func (c *Client) ListProducts(ctx context.Context, query url.Values) (*models.ProductPage, error) {
	const opn = "api.ListProducts"

	var resp productListResponse
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/store/products/public", query: query}, &resp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	total := resp.Meta.TotalPages
	if total < 0 {
		total = 0
	}

	return &models.ProductPage{Items: resp.Data, TotalPages: total}, nil
}

// FeaturedAds fetches the products on the featured slide.
func (c *Client) FeaturedAds(ctx context.Context) ([]models.Product, error) {
	const opn = "api.FeaturedAds"

	var products []models.Product
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/ads/featured"}, &products); err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	return products, nil
}
