package storefront

import (
	"net/http"

	"github.com/vrksatech/market/internal/handler"
	"github.com/vrksatech/market/internal/service"
	"github.com/vrksatech/market/internal/session"
)

type CartHandler struct {
	cart service.CartService
}

func NewCartHandler(cart service.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

// View handles GET /cart.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	handler.RespondJSON(w, http.StatusOK, h.cart.View(sess))
}

// Add handles POST /cart/items.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int64 `json:"product_id" validate:"required,gt=0"`
		Quantity  int   `json:"quantity" validate:"required,gt=0"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.Error(w, r, err)
		return
	}

	sess := session.FromContext(r.Context())
	view, err := h.cart.AddItem(r.Context(), sess, req.ProductID, req.Quantity)
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, view)
}

// Update handles PATCH /cart/items/{id}. Quantity zero removes the line.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handler.IDParam(r, "id")
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	var req struct {
		Quantity int `json:"quantity" validate:"gte=0"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.Error(w, r, err)
		return
	}

	sess := session.FromContext(r.Context())
	view, err := h.cart.SetQuantity(r.Context(), sess, id, req.Quantity)
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, view)
}

// Remove handles DELETE /cart/items/{id}.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := handler.IDParam(r, "id")
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	sess := session.FromContext(r.Context())
	view, err := h.cart.RemoveItem(r.Context(), sess, id)
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, view)
}

// Clear handles DELETE /cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if err := h.cart.Clear(r.Context(), sess); err != nil {
		handler.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
