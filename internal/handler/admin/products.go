// Package admin holds the admin-role route handlers: catalog management,
// order oversight, user administration, notifications, and settings.
package admin

import (
	"context"
	"net/http"

	"github.com/vrksatech/market/internal/backend"
	"github.com/vrksatech/market/internal/domain"
	"github.com/vrksatech/market/internal/handler"
)

// CatalogManager is the writable catalog surface for admins.
type CatalogManager interface {
	CreateProduct(ctx context.Context, input backend.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, input backend.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	CreateCategory(ctx context.Context, name string) error
}

type ProductHandler struct {
	catalog CatalogManager
}

func NewProductHandler(catalog CatalogManager) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

type productRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Category    string  `json:"category" validate:"required"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
	IsActive    bool    `json:"is_active"`
}

func (req productRequest) input() backend.ProductInput {
	return backend.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	}
}

// Create handles POST /admin/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.Error(w, r, err)
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), req.input())
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, map[string]any{"product": product})
}

// Update handles PUT /admin/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handler.IDParam(r, "id")
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	var req productRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.Error(w, r, err)
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), id, req.input())
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{"product": product})
}

// Delete handles DELETE /admin/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handler.IDParam(r, "id")
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		handler.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateCategory handles POST /admin/categories.
func (h *ProductHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.Error(w, r, err)
		return
	}

	if err := h.catalog.CreateCategory(r.Context(), req.Name); err != nil {
		handler.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}
