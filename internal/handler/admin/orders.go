package admin

import (
	"context"
	"net/http"

	"github.com/vrksatech/market/internal/backend"
	"github.com/vrksatech/market/internal/domain"
	"github.com/vrksatech/market/internal/handler"
	"github.com/vrksatech/market/internal/service"
	"github.com/vrksatech/market/internal/session"
)

// StatsReader is the dashboard slice of the storefront API.
type StatsReader interface {
	GetOrderStats(ctx context.Context) (*backend.OrderStats, error)
	GetUserStats(ctx context.Context) (*backend.UserStats, error)
}

type OrderHandler struct {
	orders service.OrderService
	stats  StatsReader
}

func NewOrderHandler(orders service.OrderService, stats StatsReader) *OrderHandler {
	return &OrderHandler{orders: orders, stats: stats}
}

// List handles GET /admin/orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	orders, err := h.orders.List(r.Context(), sess.ID)
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// UpdateStatus handles PATCH /admin/orders/{id}/status.
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

// Dashboard handles GET /admin/dashboard.
func (h *OrderHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	orderStats, err := h.stats.GetOrderStats(r.Context())
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	userStats, err := h.stats.GetUserStats(r.Context())
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, map[string]any{
		"orders": orderStats,
		"users":  userStats,
	})
}
