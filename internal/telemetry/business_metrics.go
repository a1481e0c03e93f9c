package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for business-level
// observability of the storefront funnel.
type BusinessMetrics struct {
	// Checkout funnel
	CheckoutStarted   *prometheus.CounterVec
	CheckoutCompleted *prometheus.CounterVec
	CheckoutCancelled *prometheus.CounterVec
	CheckoutFailed    *prometheus.CounterVec

	// Payments
	PaymentAttempts      *prometheus.CounterVec
	PaymentSucceeded     *prometheus.CounterVec
	PaymentFailed        *prometheus.CounterVec
	PaymentUnreconciled  prometheus.Counter
	VerificationRejected prometheus.Counter

	// Orders
	OrdersCreated *prometheus.CounterVec
	OrderValue    prometheus.Histogram

	// Cart
	CartValue prometheus.Histogram

	// Auth
	Logins      *prometheus.CounterVec
	LoginFailed prometheus.Counter
}

// NewBusinessMetrics creates and registers all business metrics.
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "market"
	}

	subsystem := "business"

	return &BusinessMetrics{
		CheckoutStarted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_started_total",
				Help:      "Total checkout attempts begun",
			},
			[]string{"payment_method"},
		),
		CheckoutCompleted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_completed_total",
				Help:      "Total checkout attempts that persisted an order",
			},
			[]string{"payment_method"},
		),
		CheckoutCancelled: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_cancelled_total",
				Help:      "Total checkout attempts abandoned at the payment widget",
			},
			[]string{"payment_method"},
		),
		CheckoutFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_failed_total",
				Help:      "Total checkout attempts ending in failure",
			},
			[]string{"payment_method", "stage"},
		),
		PaymentAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payment_attempts_total",
				Help:      "Total payment intents handed to the gateway widget",
			},
			[]string{"currency"},
		),
		PaymentSucceeded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payment_succeeded_total",
				Help:      "Total gateway payments captured and verified",
			},
			[]string{"currency"},
		),
		PaymentFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payment_failed_total",
				Help:      "Total gateway payments that failed before capture",
			},
			[]string{"currency", "reason"},
		),
		PaymentUnreconciled: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payment_unreconciled_total",
				Help:      "Captured payments whose order submission failed; requires support follow-up",
			},
		),
		VerificationRejected: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payment_verification_rejected_total",
				Help:      "Widget success callbacks whose signature failed server-side verification",
			},
		),
		OrdersCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_created_total",
				Help:      "Total orders persisted through checkout",
			},
			[]string{"payment_method"},
		),
		OrderValue: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value_paise",
				Help:      "Final order totals in paise",
				Buckets:   prometheus.ExponentialBuckets(1000, 4, 10),
			},
		),
		CartValue: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_value_paise",
				Help:      "Cart subtotals at checkout start in paise",
				Buckets:   prometheus.ExponentialBuckets(1000, 4, 10),
			},
		),
		Logins: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "logins_total",
				Help:      "Total successful logins",
			},
			[]string{"role"},
		),
		LoginFailed: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "login_failed_total",
				Help:      "Total failed login attempts",
			},
		),
	}
}

// Business is the global metrics instance, nil until InitBusinessMetrics
// runs. Callers guard with a nil check so tests need no registry.
var Business *BusinessMetrics

// InitBusinessMetrics initializes the global business metrics.
func InitBusinessMetrics(namespace string) *BusinessMetrics {
	Business = NewBusinessMetrics(namespace)
	return Business
}
