package domain

import "time"

// OrderStatus is the server-owned lifecycle of an order. Clients read it
// and, for admin/delivery roles, request transitions via the status
// endpoint; they never mutate it locally.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusInTransit  OrderStatus = "in-transit"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusInTransit,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// PaymentMethod selects which checkout branch executes.
type PaymentMethod string

const (
	// PaymentMethodGateway pays through the hosted payment widget.
	PaymentMethodGateway PaymentMethod = "razorpay"

	// PaymentMethodCOD is cash on delivery: the order is submitted without
	// any payment-provider involvement.
	PaymentMethodCOD PaymentMethod = "cod"
)

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PaymentMethodGateway || m == PaymentMethodCOD
}

// OrderRequestItem is one line of an order submission. Prices are not
// sent; the backend prices items authoritatively.
type OrderRequestItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderRequest is the body of POST /orders. Constructed once per checkout
// attempt and submitted at most once.
type OrderRequest struct {
	Items           []OrderRequestItem `json:"items"`
	DeliveryAddress string             `json:"delivery_address"`
	PaymentMethod   PaymentMethod      `json:"payment_method"`

	// PaymentID and ProviderOrderID reference the captured gateway payment.
	// Empty for cash on delivery.
	PaymentID       string `json:"payment_id,omitempty"`
	ProviderOrderID string `json:"razorpay_order_id,omitempty"`

	Notes string `json:"notes"`
}

// OrderItem is a line of a server-owned order record.
type OrderItem struct {
	ProductID      int64  `json:"product_id"`
	ProductName    string `json:"product_name"`
	Quantity       int    `json:"quantity"`
	UnitPricePaise int64  `json:"unit_price_paise"`
}

// Order is the server-owned order record, read-only to this client.
type Order struct {
	ID              int64         `json:"id"`
	OrderNumber     string        `json:"order_number"`
	Status          OrderStatus   `json:"status"`
	TotalPaise      int64         `json:"total_paise"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	DeliveryAddress string        `json:"delivery_address"`
	CustomerName    string        `json:"customer_name,omitempty"`
	Items           []OrderItem   `json:"items"`
	CreatedAt       time.Time     `json:"created_at"`
}

// PaymentIntent is a server-issued, amount-bound authorization for one
// payment attempt with the external gateway. It is owned transiently by a
// single checkout attempt and never reused.
type PaymentIntent struct {
	// ProviderOrderID is the gateway's order id handed to the hosted widget.
	ProviderOrderID string

	// AmountPaise is the authoritative charge amount.
	AmountPaise int64

	// Currency is the ISO 4217 code, e.g. "INR".
	Currency string
}
