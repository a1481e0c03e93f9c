package routes

import (
	"log/slog"

	"github.com/vrksatech/market/internal/handler/admin"
	"github.com/vrksatech/market/internal/handler/delivery"
	"github.com/vrksatech/market/internal/handler/storefront"
	"github.com/vrksatech/market/internal/middleware"
	"github.com/vrksatech/market/internal/session"
)

// Deps carries everything the route tree needs. Construction happens in
// main; this package only wires.
type Deps struct {
	Logger   *slog.Logger
	Sessions session.Store
	Metrics  *middleware.Metrics

	// Secure controls the session cookie's Secure flag.
	Secure bool

	Auth     *storefront.AuthHandler
	Catalog  *storefront.CatalogHandler
	Cart     *storefront.CartHandler
	Checkout *storefront.CheckoutHandler
	Orders   *storefront.OrderHandler

	AdminProducts      *admin.ProductHandler
	AdminOrders        *admin.OrderHandler
	AdminUsers         *admin.UserHandler
	AdminNotifications *admin.NotificationHandler
	AdminSettings      *admin.SettingsHandler

	DeliveryOrders *delivery.OrderHandler
}
