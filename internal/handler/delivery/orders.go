// Package delivery holds the delivery-role route handlers: the
// assignment list and fulfilment status updates.
package delivery

import (
	"net/http"

	"github.com/vrksatech/market/internal/domain"
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

// List handles GET /delivery/orders. The backend scopes the list to the
// delivery account's assignments.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	orders, err := h.orders.List(r.Context(), sess.ID)
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// UpdateStatus handles PATCH /delivery/orders/{id}/status. The service
// restricts which statuses delivery staff may set.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := handler.IDParam(r, "id")
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.Error(w, r, err)
		return
	}

	sess := session.FromContext(r.Context())
	if err := h.orders.UpdateStatus(r.Context(), sess.User.Role, id, domain.OrderStatus(req.Status)); err != nil {
		handler.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
