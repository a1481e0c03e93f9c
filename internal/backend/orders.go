package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/vrksatech/market/internal/domain"
)

type wireOrderItem struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type wireOrder struct {
	ID              int64           `json:"id"`
	OrderNumber     string          `json:"order_number"`
	Status          string          `json:"status"`
	TotalAmount     float64         `json:"total_amount"`
	PaymentMethod   string          `json:"payment_method"`
	DeliveryAddress string          `json:"delivery_address"`
	CustomerName    string          `json:"customer_name"`
	Items           []wireOrderItem `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (w wireOrder) toDomain() domain.Order {
	items := make([]domain.OrderItem, 0, len(w.Items))
	for _, it := range w.Items {
		items = append(items, domain.OrderItem{
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			Quantity:       it.Quantity,
			UnitPricePaise: domain.RupeesToPaise(it.Price),
		})
	}

	return domain.Order{
		ID:              w.ID,
		OrderNumber:     w.OrderNumber,
		Status:          domain.OrderStatus(w.Status),
		TotalPaise:      domain.RupeesToPaise(w.TotalAmount),
		PaymentMethod:   domain.PaymentMethod(w.PaymentMethod),
		DeliveryAddress: w.DeliveryAddress,
		CustomerName:    w.CustomerName,
		Items:           items,
		CreatedAt:       w.CreatedAt,
	}
}

// OrderStats is the admin dashboard summary.
type OrderStats struct {
	TotalOrders  int            `json:"total_orders"`
	TotalRevenue float64        `json:"total_revenue"`
	ByStatus     map[string]int `json:"by_status"`
}

// ListOrders fetches orders visible to the authenticated user (the
// backend scopes the result by role).
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var resp struct {
		Orders []wireOrder `json:"orders"`
	}
	if err := c.request(ctx, http.MethodGet, "/orders", nil, &resp); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(resp.Orders))
	for _, w := range resp.Orders {
		orders = append(orders, w.toDomain())
	}
	return orders, nil
}

// CreateOrder submits an order. The idempotency key is the provider
// payment reference for gateway orders, letting the backend reconcile a
// resubmission after a captured payment; it is empty for cash on delivery.
func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest, idempotencyKey string) (*domain.Order, error) {
	var extra http.Header
	if idempotencyKey != "" {
		extra = http.Header{"Idempotency-Key": []string{idempotencyKey}}
	}

	var resp struct {
		Order wireOrder `json:"order"`
	}
	if err := c.do(ctx, http.MethodPost, "/orders", req, &resp, extra); err != nil {
		return nil, err
	}

	order := resp.Order.toDomain()
	return &order, nil
}

// UpdateOrderStatus requests a status transition (admin/delivery only).
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	body := struct {
		Status domain.OrderStatus `json:"status"`
	}{status}
	return c.request(ctx, http.MethodPatch, fmt.Sprintf("/orders/%d/status", id), body, nil)
}

// GetOrderStats fetches the admin dashboard order summary.
func (c *Client) GetOrderStats(ctx context.Context) (*OrderStats, error) {
	var resp struct {
		Stats OrderStats `json:"stats"`
	}
	if err := c.request(ctx, http.MethodGet, "/orders/stats/dashboard", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}
