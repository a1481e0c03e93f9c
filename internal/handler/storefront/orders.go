package storefront

import (
	"net/http"

	"github.com/vrksatech/market/internal/handler"
	"github.com/vrksatech/market/internal/service"
	"github.com/vrksatech/market/internal/session"
)

type OrderHandler struct {
	orders service.OrderService
}

func NewOrderHandler(orders service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List handles GET /orders. The backend scopes the result to the
// caller's credential, so customers only ever see their own orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	orders, err := h.orders.List(r.Context(), sess.ID)
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{"orders": orders})
}
