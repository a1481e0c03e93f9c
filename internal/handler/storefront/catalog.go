package storefront

import (
	"context"
	"net/http"

	"github.com/vrksatech/market/internal/backend"
	"github.com/vrksatech/market/internal/domain"
	"github.com/vrksatech/market/internal/handler"
)

// CatalogBrowser is the read-only catalog surface this handler proxies.
type CatalogBrowser interface {
	ListProducts(ctx context.Context, query backend.ProductQuery) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type CatalogHandler struct {
	catalog CatalogBrowser
}

func NewCatalogHandler(catalog CatalogBrowser) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List handles GET /products?search=&category=.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	query := backend.ProductQuery{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
	}

	products, err := h.catalog.ListProducts(r.Context(), query)
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{"products": products})
}

// Get handles GET /products/{id}.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.IDParam(r, "id")
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{"product": product})
}

// Categories handles GET /products/categories.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{"categories": categories})
}
