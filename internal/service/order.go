package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vrksatech/market/internal/domain"
)

// OrdersBackend is the slice of the storefront API the order service uses.
type OrdersBackend interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error
}

// OrderService reads order lists scoped by the caller's credential and
// applies role-gated status transitions. It keeps the last fetched list
// per session so a checkout completion can refresh it out of band.
type OrderService interface {
	List(ctx context.Context, sessionID string) ([]domain.Order, error)
	Cached(sessionID string) ([]domain.Order, bool)
	UpdateStatus(ctx context.Context, role domain.Role, id int64, status domain.OrderStatus) error

	// Refresh implements the checkout Refresher hook.
	Refresh(ctx context.Context, sessionID string)
}

type orderService struct {
	backend OrdersBackend
	logger  *slog.Logger

	mu     sync.RWMutex
	cached map[string][]domain.Order
}

func NewOrderService(b OrdersBackend, logger *slog.Logger) OrderService {
	return &orderService{
		backend: b,
		logger:  logger,
		cached:  make(map[string][]domain.Order),
	}
}

func (s *orderService) List(ctx context.Context, sessionID string) ([]domain.Order, error) {
	orders, err := s.backend.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cached[sessionID] = orders
	s.mu.Unlock()

	return orders, nil
}

func (s *orderService) Cached(sessionID string) ([]domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders, ok := s.cached[sessionID]
	return orders, ok
}

func (s *orderService) Refresh(ctx context.Context, sessionID string) {
	if _, err := s.List(ctx, sessionID); err != nil {
		s.logger.Warn("order refresh failed",
			slog.String("session_id", sessionID),
			slog.Any("error", err),
		)
	}
}

// UpdateStatus applies a status transition if the caller's role permits
// it. Admins may set any valid status; delivery staff only the
// fulfilment stages they own; customers never change status.
func (s *orderService) UpdateStatus(ctx context.Context, role domain.Role, id int64, status domain.OrderStatus) error {
	if !domain.ValidOrderStatus(status) {
		return &domain.Error{Code: domain.EINVALID, Message: "Unknown order status"}
	}

	switch role {
	case domain.RoleAdmin:
		// any valid status
	case domain.RoleDelivery:
		switch status {
		case domain.OrderStatusProcessing, domain.OrderStatusInTransit, domain.OrderStatusDelivered:
		default:
			return &domain.Error{Code: domain.EFORBIDDEN, Message: "Delivery staff cannot set this status"}
		}
	case domain.RoleCustomer:
		return &domain.Error{Code: domain.EFORBIDDEN, Message: "Not permitted to update order status"}
	default:
		return &domain.Error{Code: domain.EFORBIDDEN, Message: "Not permitted to update order status"}
	}

	if err := s.backend.UpdateOrderStatus(ctx, id, status); err != nil {
		return err
	}

	s.logger.Info("order status updated",
		slog.Int64("order_id", id),
		slog.String("status", string(status)),
		slog.String("role", string(role)),
	)
	return nil
}
