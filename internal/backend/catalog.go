package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/vrksatech/market/internal/domain"
)

// ProductQuery filters the product listing.
type ProductQuery struct {
	Search   string
	Category string
}

// ProductInput is the writable subset of a catalog entry, used by admin
// create/update calls.
type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url,omitempty"`
	IsActive    bool    `json:"is_active"`
}

// ListProducts fetches the catalog, optionally filtered.
func (c *Client) ListProducts(ctx context.Context, query ProductQuery) ([]domain.Product, error) {
	params := url.Values{}
	if query.Search != "" {
		params.Set("search", query.Search)
	}
	if query.Category != "" {
		params.Set("category", query.Category)
	}

	path := "/products"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp struct {
		Products []domain.Product `json:"products"`
	}
	if err := c.request(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// GetProduct fetches one catalog entry.
func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var resp struct {
		Product domain.Product `json:"product"`
	}
	if err := c.request(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}

// CreateProduct adds a catalog entry (admin only).
func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	var resp struct {
		Product domain.Product `json:"product"`
	}
	if err := c.request(ctx, http.MethodPost, "/products", input, &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}

// UpdateProduct replaces a catalog entry (admin only).
func (c *Client) UpdateProduct(ctx context.Context, id int64, input ProductInput) (*domain.Product, error) {
	var resp struct {
		Product domain.Product `json:"product"`
	}
	if err := c.request(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), input, &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}

// DeleteProduct removes a catalog entry (admin only).
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
}

// ListCategories fetches active category names.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var resp struct {
		Categories []string `json:"categories"`
	}
	if err := c.request(ctx, http.MethodGet, "/products/categories/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// CreateCategory adds a category (admin only).
func (c *Client) CreateCategory(ctx context.Context, name string) error {
	body := struct {
		Name string `json:"name"`
	}{name}
	return c.request(ctx, http.MethodPost, "/products/categories", body, nil)
}
