package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vrksatech/market/internal"
	"github.com/vrksatech/market/internal/backend"
	"github.com/vrksatech/market/internal/handler/admin"
	"github.com/vrksatech/market/internal/handler/delivery"
	"github.com/vrksatech/market/internal/handler/storefront"
	"github.com/vrksatech/market/internal/middleware"
	"github.com/vrksatech/market/internal/payment"
	"github.com/vrksatech/market/internal/routes"
	"github.com/vrksatech/market/internal/service"
	"github.com/vrksatech/market/internal/session"
	"github.com/vrksatech/market/internal/telemetry"
)

func run() error {
	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Session store: Redis when configured, in-memory otherwise
	var sessions session.Store
	if cfg.RedisURL != "" {
		redisStore, err := session.NewRedisStore(cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return fmt.Errorf("redis session store failed: %w", err)
		}
		defer redisStore.Close()
		if err := redisStore.Ping(context.Background()); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
		sessions = redisStore
		logger.Info("Using Redis session store")
	} else {
		sessions = session.NewMemoryStore(cfg.SessionTTL)
		logger.Info("Using in-memory session store")
	}

	// Backend API client; credentials come from the request session
	client := backend.NewClient(cfg.APIBaseURL, nil, session.Credentials{})
	logger.Info("Backend client configured", "base_url", cfg.APIBaseURL)

	// Metrics
	telemetry.InitBusinessMetrics(cfg.MetricsNamespace)
	httpMetrics := middleware.NewMetrics(cfg.MetricsNamespace)

	// Payment widget bridge
	window := payment.NewHostedWindow()

	// Services
	cartService := service.NewCartService(client, sessions, logger)
	orderService := service.NewOrderService(client, logger)
	accountService := service.NewAccountService(client, sessions, cfg.TenantID, logger)
	checkoutService := service.NewCheckoutService(client, sessions, window, logger)
	checkoutService.SetRefresher(orderService)
	checkoutService.SetCurrency(cfg.Currency)
	checkoutService.SetPublishableKey(cfg.RazorpayKeyID)

	// Route tree
	handler := routes.New(routes.Deps{
		Logger:   logger,
		Sessions: sessions,
		Metrics:  httpMetrics,
		Secure:   cfg.Env == "prod",

		Auth:     storefront.NewAuthHandler(accountService),
		Catalog:  storefront.NewCatalogHandler(client),
		Cart:     storefront.NewCartHandler(cartService),
		Checkout: storefront.NewCheckoutHandler(checkoutService, window),
		Orders:   storefront.NewOrderHandler(orderService),

		AdminProducts:      admin.NewProductHandler(client),
		AdminOrders:        admin.NewOrderHandler(orderService, client),
		AdminUsers:         admin.NewUserHandler(client),
		AdminNotifications: admin.NewNotificationHandler(client),
		AdminSettings:      admin.NewSettingsHandler(client),

		DeliveryOrders: delivery.NewOrderHandler(orderService),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting gateway server", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		logger.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
