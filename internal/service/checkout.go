package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vrksatech/market/internal/backend"
	"github.com/vrksatech/market/internal/domain"
	"github.com/vrksatech/market/internal/payment"
	"github.com/vrksatech/market/internal/session"
	"github.com/vrksatech/market/internal/telemetry"
)

// Delivery pricing. Orders at or above the free-delivery threshold ship
// free; everything below carries the flat surcharge.
const (
	FreeDeliveryMinPaise   int64 = 50000 // Rs 500
	DeliverySurchargePaise int64 = 4000  // Rs 40
)

// DeliverySurcharge returns the delivery charge for a cart subtotal.
// An empty cart is rejected before pricing, so subtotal 0 never reaches
// an order; the surcharge it would carry is the flat fee.
func DeliverySurcharge(subtotalPaise int64) int64 {
	if subtotalPaise >= FreeDeliveryMinPaise {
		return 0
	}
	return DeliverySurchargePaise
}

// FinalTotal is the amount actually charged: subtotal plus delivery.
func FinalTotal(subtotalPaise int64) int64 {
	return subtotalPaise + DeliverySurcharge(subtotalPaise)
}

// AttemptState is the lifecycle position of one checkout attempt.
type AttemptState string

const (
	StateIntentCreated   AttemptState = "intent_created"
	StateAwaitingPayment AttemptState = "awaiting_payment"
	StateVerifying       AttemptState = "verifying"
	StateOrderPersisted  AttemptState = "order_persisted"
	StateFailed          AttemptState = "failed"
	StateCancelled       AttemptState = "cancelled"
)

// Terminal reports whether the attempt can no longer change state.
func (s AttemptState) Terminal() bool {
	return s == StateOrderPersisted || s == StateFailed || s == StateCancelled
}

// Stages label where a failed attempt died, for logs and metrics.
const (
	stageIntent = "intent"
	stageVerify = "verify"
	stageSubmit = "submit"
)

// CheckoutBackend is the slice of the storefront API checkout drives.
type CheckoutBackend interface {
	CreatePaymentOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*domain.PaymentIntent, error)
	VerifyPayment(ctx context.Context, params backend.VerifyPaymentParams) error
	CreateOrder(ctx context.Context, req domain.OrderRequest, idempotencyKey string) (*domain.Order, error)
}

// Refresher is notified after an order persists so cached order lists
// can be refetched. May be nil.
type Refresher interface {
	Refresh(ctx context.Context, sessionID string)
}

// attempt is one checkout run. Fields are guarded by the service mutex;
// handlers only ever see copies via AttemptView.
type attempt struct {
	id        string
	sessionID string
	state     AttemptState
	address   string
	method    domain.PaymentMethod
	cart      domain.Cart
	intent    *domain.PaymentIntent
	order     *domain.Order
	err       *domain.Error
	createdAt time.Time
}

// AttemptView is a read-only snapshot of an attempt for handlers.
type AttemptView struct {
	ID              string               `json:"id"`
	State           AttemptState         `json:"state"`
	PaymentMethod   domain.PaymentMethod `json:"payment_method"`
	AmountPaise     int64                `json:"amount_paise"`
	Currency        string               `json:"currency,omitempty"`
	ProviderOrderID string               `json:"provider_order_id,omitempty"`
	KeyID           string               `json:"key_id,omitempty"`
	Order           *domain.Order        `json:"order,omitempty"`
	ErrorCode       string               `json:"error_code,omitempty"`
	ErrorMessage    string               `json:"error_message,omitempty"`
}

// CheckoutService runs checkout attempts: it prices the cart, opens
// payment intents, parks on the hosted widget, verifies captures, and
// submits orders. Attempts for the gateway method continue in their own
// goroutine after Begin returns; clients poll Status.
type CheckoutService struct {
	backend   CheckoutBackend
	sessions  session.Store
	window    payment.Window
	refresher Refresher
	logger    *slog.Logger

	currency      string
	keyID         string
	windowTimeout time.Duration

	mu       sync.Mutex
	attempts map[string]*attempt
}

func NewCheckoutService(b CheckoutBackend, sessions session.Store, window payment.Window, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		backend:       b,
		sessions:      sessions,
		window:        window,
		logger:        logger,
		currency:      "INR",
		windowTimeout: 15 * time.Minute,
		attempts:      make(map[string]*attempt),
	}
}

// SetRefresher wires the post-order cache refresh hook.
func (s *CheckoutService) SetRefresher(r Refresher) { s.refresher = r }

// SetCurrency overrides the settlement currency used for payment intents.
func (s *CheckoutService) SetCurrency(currency string) {
	if currency != "" {
		s.currency = currency
	}
}

// SetPublishableKey sets the provider key the browser hands to the
// hosted widget. Surfaced on gateway attempt views.
func (s *CheckoutService) SetPublishableKey(key string) { s.keyID = key }

// SetWindowTimeout overrides how long an attempt waits at the widget.
func (s *CheckoutService) SetWindowTimeout(d time.Duration) { s.windowTimeout = d }

// Begin starts a checkout attempt from the session's current cart.
//
// Cash on delivery resolves synchronously: the order is submitted before
// Begin returns, and a backend failure is returned to the caller with
// the cart intact. The gateway method returns as soon as the payment
// intent exists; the attempt then waits on the hosted widget in the
// background and the caller polls Status.
func (s *CheckoutService) Begin(ctx context.Context, sess *session.Session, address string, method domain.PaymentMethod) (AttemptView, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return AttemptView{}, ErrAddressRequired
	}
	if sess.Cart.IsEmpty() {
		return AttemptView{}, ErrCartEmpty
	}

	switch method {
	case domain.PaymentMethodGateway, domain.PaymentMethodCOD:
	default:
		return AttemptView{}, ErrUnknownPaymentMethod
	}

	a := &attempt{
		id:        uuid.NewString(),
		sessionID: sess.ID,
		address:   address,
		method:    method,
		cart:      sess.Cart,
		createdAt: time.Now(),
	}

	if m := telemetry.Business; m != nil {
		m.CheckoutStarted.WithLabelValues(string(method)).Inc()
		m.CartValue.Observe(float64(a.cart.Subtotal()))
	}

	logger := s.attemptLogger(a)
	logger.Info("checkout started",
		slog.Int64("subtotal_paise", a.cart.Subtotal()),
		slog.Int64("total_paise", FinalTotal(a.cart.Subtotal())),
	)

	if method == domain.PaymentMethodCOD {
		return s.beginCOD(ctx, sess, a)
	}
	return s.beginGateway(ctx, sess, a)
}

func (s *CheckoutService) beginCOD(ctx context.Context, sess *session.Session, a *attempt) (AttemptView, error) {
	order, err := s.backend.CreateOrder(ctx, orderRequest(a), "")
	if err != nil {
		s.fail(a, stageSubmit, coerce(err))
		s.register(a)
		return s.view(a), err
	}

	s.persisted(ctx, sess, a, order)
	s.register(a)
	return s.view(a), nil
}

func (s *CheckoutService) beginGateway(ctx context.Context, sess *session.Session, a *attempt) (AttemptView, error) {
	total := FinalTotal(a.cart.Subtotal())
	receipt := "mkt_" + a.id

	intent, err := s.backend.CreatePaymentOrder(ctx, total, s.currency, receipt)
	if err != nil {
		s.fail(a, stageIntent, coerce(err))
		s.register(a)
		return s.view(a), err
	}

	a.intent = intent
	a.state = StateIntentCreated
	s.register(a)

	if m := telemetry.Business; m != nil {
		m.PaymentAttempts.WithLabelValues(intent.Currency).Inc()
	}

	s.attemptLogger(a).Info("payment intent created",
		slog.String("provider_order_id", intent.ProviderOrderID),
		slog.Int64("amount_paise", intent.AmountPaise),
	)

	// The widget outlives this request. Detach from the request's
	// cancellation but keep its values: the session credentials ride
	// the context into the verify and order calls.
	bg := context.WithoutCancel(ctx)
	s.setState(a, StateAwaitingPayment)
	go s.awaitPayment(bg, sess, a)

	return s.view(a), nil
}

// awaitPayment parks on the hosted widget and drives the attempt to a
// terminal state. Runs once per gateway attempt.
func (s *CheckoutService) awaitPayment(ctx context.Context, sess *session.Session, a *attempt) {
	logger := s.attemptLogger(a)

	// The deadline bounds only the wait at the widget. A success callback
	// that races the deadline is still honored, and its verify and submit
	// calls must not inherit the already-expired deadline.
	wctx, cancel := context.WithTimeout(ctx, s.windowTimeout)
	result, err := s.window.Collect(wctx, *a.intent)
	cancel()
	if err != nil {
		// Timeout or shutdown: the payment never happened, the cart
		// survives, the customer can start over.
		logger.Warn("payment window closed without result", slog.Any("error", err))
		s.setState(a, StateCancelled)
		if m := telemetry.Business; m != nil {
			m.CheckoutCancelled.WithLabelValues(string(a.method)).Inc()
		}
		return
	}

	switch r := result.(type) {
	case payment.Dismissed:
		logger.Info("payment widget dismissed")
		s.setState(a, StateCancelled)
		if m := telemetry.Business; m != nil {
			m.CheckoutCancelled.WithLabelValues(string(a.method)).Inc()
		}

	case payment.Completed:
		s.settle(ctx, sess, a, r)

	default:
		s.fail(a, stageVerify, &domain.Error{
			Code:    domain.EINTERNAL,
			Op:      "checkout.awaitPayment",
			Message: fmt.Sprintf("unexpected widget result %T", result),
		})
	}
}

// settle verifies a widget success callback and, only then, submits the
// order. A verification failure produces no order under any
// circumstances; an order submission failure after capture is the one
// state that needs support follow-up and gets its own error class.
func (s *CheckoutService) settle(ctx context.Context, sess *session.Session, a *attempt, r payment.Completed) {
	s.setState(a, StateVerifying)
	logger := s.attemptLogger(a)

	params := backend.VerifyPaymentParams{
		ProviderOrderID:   a.intent.ProviderOrderID,
		ProviderPaymentID: r.PaymentRef,
		Signature:         r.Signature,
	}
	if err := s.backend.VerifyPayment(ctx, params); err != nil {
		logger.Error("payment verification rejected",
			slog.String("payment_ref", r.PaymentRef),
			slog.Any("error", err),
		)
		s.fail(a, stageVerify, &domain.Error{
			Code:    domain.EPAYMENT,
			Op:      "checkout.settle",
			Message: "Payment could not be verified",
			Err:     err,
		})
		if m := telemetry.Business; m != nil {
			m.VerificationRejected.Inc()
			m.PaymentFailed.WithLabelValues(a.intent.Currency, "verification").Inc()
		}
		return
	}

	if m := telemetry.Business; m != nil {
		m.PaymentSucceeded.WithLabelValues(a.intent.Currency).Inc()
	}

	req := orderRequest(a)
	req.PaymentID = r.PaymentRef
	req.ProviderOrderID = a.intent.ProviderOrderID

	// The payment ref doubles as the idempotency key: a retried submit
	// for the same capture must not create a second order.
	order, err := s.backend.CreateOrder(ctx, req, r.PaymentRef)
	if err != nil {
		logger.Error("order submission failed after capture",
			slog.String("payment_ref", r.PaymentRef),
			slog.Any("error", err),
		)
		s.fail(a, stageSubmit, &domain.Error{
			Code:    domain.EUNRECONCILED,
			Op:      "checkout.settle",
			Message: "Payment received but order could not be recorded. Please contact support.",
			Err:     err,
		})
		if m := telemetry.Business; m != nil {
			m.PaymentUnreconciled.Inc()
		}
		return
	}

	s.persisted(ctx, sess, a, order)
}

// persisted marks the attempt complete, clears the session cart, and
// kicks the order-cache refresh. Clearing re-reads the session so a cart
// the customer rebuilt mid-payment is not resurrected by a stale copy.
func (s *CheckoutService) persisted(ctx context.Context, sess *session.Session, a *attempt, order *domain.Order) {
	s.mu.Lock()
	a.state = StateOrderPersisted
	a.order = order
	s.mu.Unlock()

	fresh, err := s.sessions.Get(ctx, sess.ID)
	if err != nil {
		fresh = sess
	}
	fresh.Cart = domain.Cart{}
	if err := s.sessions.Save(ctx, fresh); err != nil {
		s.attemptLogger(a).Error("failed to clear cart after order", slog.Any("error", err))
	}
	sess.Cart = domain.Cart{}

	if m := telemetry.Business; m != nil {
		m.CheckoutCompleted.WithLabelValues(string(a.method)).Inc()
		m.OrdersCreated.WithLabelValues(string(a.method)).Inc()
		m.OrderValue.Observe(float64(order.TotalPaise))
	}

	s.attemptLogger(a).Info("order persisted",
		slog.Int64("order_id", order.ID),
		slog.String("order_number", order.OrderNumber),
		slog.Int64("total_paise", order.TotalPaise),
	)

	if s.refresher != nil {
		s.refresher.Refresh(ctx, a.sessionID)
	}
}

// Status returns the attempt snapshot, scoped to the owning session.
func (s *CheckoutService) Status(sess *session.Session, attemptID string) (AttemptView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.attempts[attemptID]
	if !ok {
		return AttemptView{}, &domain.Error{Code: domain.ENOTFOUND, Message: "Checkout attempt not found"}
	}
	if a.sessionID != sess.ID {
		return AttemptView{}, &domain.Error{Code: domain.EFORBIDDEN, Message: "Checkout attempt not found"}
	}
	return s.viewLocked(a), nil
}

func (s *CheckoutService) register(a *attempt) {
	s.mu.Lock()
	s.attempts[a.id] = a
	s.mu.Unlock()
}

func (s *CheckoutService) setState(a *attempt, state AttemptState) {
	s.mu.Lock()
	if !a.state.Terminal() {
		a.state = state
	}
	s.mu.Unlock()
}

func (s *CheckoutService) fail(a *attempt, stage string, err *domain.Error) {
	s.mu.Lock()
	a.state = StateFailed
	a.err = err
	s.mu.Unlock()

	if m := telemetry.Business; m != nil {
		m.CheckoutFailed.WithLabelValues(string(a.method), stage).Inc()
	}
	s.attemptLogger(a).Error("checkout failed",
		slog.String("stage", stage),
		slog.String("code", err.Code),
		slog.Any("error", err),
	)
}

func (s *CheckoutService) view(a *attempt) AttemptView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked(a)
}

func (s *CheckoutService) viewLocked(a *attempt) AttemptView {
	v := AttemptView{
		ID:            a.id,
		State:         a.state,
		PaymentMethod: a.method,
		AmountPaise:   FinalTotal(a.cart.Subtotal()),
		Order:         a.order,
	}
	if a.intent != nil {
		v.Currency = a.intent.Currency
		v.ProviderOrderID = a.intent.ProviderOrderID
		v.KeyID = s.keyID
	}
	if a.err != nil {
		v.ErrorCode = a.err.Code
		v.ErrorMessage = domain.ErrorMessage(a.err)
	}
	return v
}

func (s *CheckoutService) attemptLogger(a *attempt) *slog.Logger {
	return s.logger.With(
		slog.String("attempt_id", a.id),
		slog.String("payment_method", string(a.method)),
	)
}

// orderRequest builds the submission body from the attempt's cart
// snapshot. Amounts are server-computed; only ids and quantities travel.
func orderRequest(a *attempt) domain.OrderRequest {
	items := make([]domain.OrderRequestItem, 0, len(a.cart.Items))
	for _, it := range a.cart.Items {
		items = append(items, domain.OrderRequestItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}
	return domain.OrderRequest{
		Items:           items,
		DeliveryAddress: a.address,
		PaymentMethod:   a.method,
	}
}

// coerce widens plain errors into the domain taxonomy.
func coerce(err error) *domain.Error {
	var derr *domain.Error
	if errors.As(err, &derr) {
		return derr
	}
	return &domain.Error{Code: domain.EINTERNAL, Message: "An internal error has occurred.", Err: err}
}
