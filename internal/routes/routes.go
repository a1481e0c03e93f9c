// Package routes assembles the chi route tree: public storefront routes,
// authenticated customer routes, and the admin and delivery subtrees.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vrksatech/market/internal/domain"
	"github.com/vrksatech/market/internal/middleware"
)

// New builds the full router with the standard middleware chain.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.WithSession(deps.Sessions, deps.Secure))
	r.Use(middleware.WithRequestLogger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	registerStorefront(r, deps)
	registerAdmin(r, deps)
	registerDelivery(r, deps)

	return r
}

func registerStorefront(r chi.Router, deps Deps) {
	// Public: browsing and auth need no credential.
	r.Post("/auth/login", deps.Auth.Login)
	r.Post("/auth/register", deps.Auth.Register)
	r.Post("/auth/logout", deps.Auth.Logout)
	r.Get("/auth/me", deps.Auth.Me)

	r.Get("/products", deps.Catalog.List)
	r.Get("/products/categories", deps.Catalog.Categories)
	r.Get("/products/{id}", deps.Catalog.Get)

	// The cart is session-scoped, anonymous included.
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", deps.Cart.View)
		r.Delete("/", deps.Cart.Clear)
		r.Post("/items", deps.Cart.Add)
		r.Patch("/items/{id}", deps.Cart.Update)
		r.Delete("/items/{id}", deps.Cart.Remove)
	})

	// Checkout and order history require a credential.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Post("/checkout", deps.Checkout.Begin)
		r.Get("/checkout/{attemptID}", deps.Checkout.Status)
		r.Post("/checkout/callback", deps.Checkout.Complete)
		r.Post("/checkout/dismiss", deps.Checkout.Dismiss)

		r.Get("/orders", deps.Orders.List)
	})
}

func registerAdmin(r chi.Router, deps Deps) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireRole(domain.RoleAdmin))

		r.Get("/dashboard", deps.AdminOrders.Dashboard)

		r.Post("/products", deps.AdminProducts.Create)
		r.Put("/products/{id}", deps.AdminProducts.Update)
		r.Delete("/products/{id}", deps.AdminProducts.Delete)
		r.Post("/categories", deps.AdminProducts.CreateCategory)

		r.Get("/orders", deps.AdminOrders.List)
		r.Patch("/orders/{id}/status", deps.AdminOrders.UpdateStatus)

		r.Get("/users", deps.AdminUsers.List)
		r.Post("/users", deps.AdminUsers.Create)
		r.Get("/users/{id}", deps.AdminUsers.Get)
		r.Put("/users/{id}", deps.AdminUsers.Update)
		r.Patch("/users/{id}/password", deps.AdminUsers.UpdatePassword)
		r.Patch("/users/{id}/active", deps.AdminUsers.SetActive)
		r.Delete("/users/{id}", deps.AdminUsers.Delete)

		r.Get("/notifications/logs", deps.AdminNotifications.Logs)
		r.Get("/notifications/stats", deps.AdminNotifications.Stats)
		r.Post("/notifications/test", deps.AdminNotifications.SendTest)

		r.Get("/settings", deps.AdminSettings.Get)
		r.Put("/settings", deps.AdminSettings.BulkUpdate)
		r.Put("/settings/tenant", deps.AdminSettings.UpdateTenant)
	})
}

func registerDelivery(r chi.Router, deps Deps) {
	r.Route("/delivery", func(r chi.Router) {
		r.Use(middleware.RequireRole(domain.RoleDelivery, domain.RoleAdmin))

		r.Get("/orders", deps.DeliveryOrders.List)
		r.Patch("/orders/{id}/status", deps.DeliveryOrders.UpdateStatus)
	})
}
