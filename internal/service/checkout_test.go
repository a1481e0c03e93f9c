package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrksatech/market/internal/backend"
	"github.com/vrksatech/market/internal/domain"
	"github.com/vrksatech/market/internal/payment"
	"github.com/vrksatech/market/internal/session"
)

// fakeBackend records calls and serves scripted responses.
type fakeBackend struct {
	mu sync.Mutex

	intentErr error
	verifyErr error
	orderErr  error

	intents      []int64 // amounts requested
	currencies   []string
	verifyCalls  []backend.VerifyPaymentParams
	orderCalls   []domain.OrderRequest
	idempotency  []string
	nextOrderID  int64
	createdTotal int64
}

func (f *fakeBackend) CreatePaymentOrder(_ context.Context, amountPaise int64, currency, receipt string) (*domain.PaymentIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.intentErr != nil {
		return nil, f.intentErr
	}
	f.intents = append(f.intents, amountPaise)
	f.currencies = append(f.currencies, currency)
	return &domain.PaymentIntent{
		ProviderOrderID: "order_gw_1",
		AmountPaise:     amountPaise,
		Currency:        currency,
	}, nil
}

func (f *fakeBackend) VerifyPayment(ctx context.Context, params backend.VerifyPaymentParams) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifyCalls = append(f.verifyCalls, params)
	return f.verifyErr
}

func (f *fakeBackend) CreateOrder(ctx context.Context, req domain.OrderRequest, idempotencyKey string) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	f.orderCalls = append(f.orderCalls, req)
	f.idempotency = append(f.idempotency, idempotencyKey)
	f.nextOrderID++
	return &domain.Order{
		ID:            f.nextOrderID,
		OrderNumber:   "ORD-001",
		Status:        domain.OrderStatusPending,
		TotalPaise:    f.createdTotal,
		PaymentMethod: req.PaymentMethod,
	}, nil
}

func (f *fakeBackend) orders() []domain.OrderRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.OrderRequest(nil), f.orderCalls...)
}

// scriptedWindow returns a fixed result for every Collect.
type scriptedWindow struct {
	result payment.Result
	err    error
}

func (w scriptedWindow) Collect(ctx context.Context, _ domain.PaymentIntent) (payment.Result, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.result == nil {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return w.result, nil
}

// lateWindow delivers its result only once the wait deadline has fired,
// like a success callback claimed in the instant the window expires.
type lateWindow struct {
	result payment.Result
}

func (w lateWindow) Collect(ctx context.Context, _ domain.PaymentIntent) (payment.Result, error) {
	<-ctx.Done()
	return w.result, nil
}

func testSession(t *testing.T, store session.Store, items ...domain.LineItem) *session.Session {
	t.Helper()
	sess, err := session.New()
	require.NoError(t, err)
	sess.Cart = domain.Cart{Items: items}
	require.NoError(t, store.Save(context.Background(), sess))
	return sess
}

func newCheckout(b CheckoutBackend, store session.Store, w payment.Window) *CheckoutService {
	svc := NewCheckoutService(b, store, w, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.SetWindowTimeout(time.Second)
	return svc
}

func waitTerminal(t *testing.T, svc *CheckoutService, sess *session.Session, id string) AttemptView {
	t.Helper()
	var view AttemptView
	require.Eventually(t, func() bool {
		v, err := svc.Status(sess, id)
		if err != nil {
			return false
		}
		view = v
		return v.State.Terminal()
	}, 2*time.Second, 5*time.Millisecond)
	return view
}

func TestDeliverySurcharge(t *testing.T) {
	tests := []struct {
		subtotal int64
		want     int64
	}{
		{0, 4000},
		{49900, 4000},
		{49999, 4000},
		{50000, 0},
		{120000, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeliverySurcharge(tt.subtotal), "subtotal %d", tt.subtotal)
	}

	assert.Equal(t, int64(53900), FinalTotal(49900))
	assert.Equal(t, int64(50000), FinalTotal(50000))
}

func TestBeginRejectsEmptyCart(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sess := testSession(t, store)
	svc := newCheckout(&fakeBackend{}, store, scriptedWindow{})

	_, err := svc.Begin(context.Background(), sess, "12 MG Road", domain.PaymentMethodCOD)
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestBeginRejectsBlankAddress(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sess := testSession(t, store, domain.LineItem{ProductID: 1, UnitPricePaise: 10000, Quantity: 1})
	svc := newCheckout(&fakeBackend{}, store, scriptedWindow{})

	_, err := svc.Begin(context.Background(), sess, "   ", domain.PaymentMethodCOD)
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestBeginRejectsUnknownMethod(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sess := testSession(t, store, domain.LineItem{ProductID: 1, UnitPricePaise: 10000, Quantity: 1})
	svc := newCheckout(&fakeBackend{}, store, scriptedWindow{})

	_, err := svc.Begin(context.Background(), sess, "12 MG Road", domain.PaymentMethod("upi"))
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestCODCreatesExactlyOneOrderAndClearsCart(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sess := testSession(t, store, domain.LineItem{ProductID: 7, UnitPricePaise: 25000, Quantity: 2})
	b := &fakeBackend{createdTotal: 50000}
	svc := newCheckout(b, store, scriptedWindow{})

	view, err := svc.Begin(context.Background(), sess, "12 MG Road", domain.PaymentMethodCOD)
	require.NoError(t, err)
	assert.Equal(t, StateOrderPersisted, view.State)
	require.NotNil(t, view.Order)

	orders := b.orders()
	require.Len(t, orders, 1)
	assert.Empty(t, orders[0].PaymentID, "cash order must carry no payment reference")
	assert.Empty(t, orders[0].ProviderOrderID)
	assert.Equal(t, []domain.OrderRequestItem{{ProductID: 7, Quantity: 2}}, orders[0].Items)
	assert.Empty(t, b.intents, "cash on delivery must not touch the gateway")

	stored, err := store.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.True(t, stored.Cart.IsEmpty(), "cart must be cleared after the order persists")
}

func TestCODBackendFailureKeepsCart(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sess := testSession(t, store, domain.LineItem{ProductID: 7, UnitPricePaise: 25000, Quantity: 1})
	b := &fakeBackend{orderErr: &domain.Error{Code: domain.ECONFLICT, Message: "Insufficient stock"}}
	svc := newCheckout(b, store, scriptedWindow{})

	view, err := svc.Begin(context.Background(), sess, "12 MG Road", domain.PaymentMethodCOD)
	require.Error(t, err)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
	assert.Equal(t, StateFailed, view.State)

	stored, err := store.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.False(t, stored.Cart.IsEmpty(), "a failed submission must preserve the cart")
}

func TestGatewaySuccessVerifiesThenPersists(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sess := testSession(t, store, domain.LineItem{ProductID: 3, UnitPricePaise: 49900, Quantity: 1})
	b := &fakeBackend{createdTotal: 53900}
	w := scriptedWindow{result: payment.Completed{
		PaymentRef: "pay_123",
		OrderRef:   "order_gw_1",
		Signature:  "sig",
	}}
	svc := newCheckout(b, store, w)

	view, err := svc.Begin(context.Background(), sess, "12 MG Road", domain.PaymentMethodGateway)
	require.NoError(t, err)
	require.NotEqual(t, StateFailed, view.State)

	final := waitTerminal(t, svc, sess, view.ID)
	assert.Equal(t, StateOrderPersisted, final.State)
	require.NotNil(t, final.Order)

	// Intent sized to subtotal plus surcharge.
	require.Len(t, b.intents, 1)
	assert.Equal(t, int64(53900), b.intents[0])

	// Verification ran before submission and referenced the capture.
	require.Len(t, b.verifyCalls, 1)
	assert.Equal(t, "order_gw_1", b.verifyCalls[0].ProviderOrderID)
	assert.Equal(t, "pay_123", b.verifyCalls[0].ProviderPaymentID)

	orders := b.orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "pay_123", orders[0].PaymentID)
	assert.Equal(t, "order_gw_1", orders[0].ProviderOrderID)
	assert.Equal(t, []string{"pay_123"}, b.idempotency, "payment ref doubles as the idempotency key")

	stored, err := store.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.True(t, stored.Cart.IsEmpty())
}

func TestGatewayBeginCarriesCurrencyAndWidgetKey(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sess := testSession(t, store, domain.LineItem{ProductID: 3, UnitPricePaise: 49900, Quantity: 1})
	b := &fakeBackend{}
	svc := newCheckout(b, store, scriptedWindow{result: payment.Dismissed{}})
	svc.SetCurrency("INR")
	svc.SetPublishableKey("rzp_test_k1")

	view, err := svc.Begin(context.Background(), sess, "12 MG Road", domain.PaymentMethodGateway)
	require.NoError(t, err)
	assert.Equal(t, "INR", view.Currency)
	assert.Equal(t, "rzp_test_k1", view.KeyID, "the browser needs the widget key from the begin response")
	assert.Equal(t, []string{"INR"}, b.currencies)

	// An empty override keeps the previous currency.
	svc.SetCurrency("")
	sess2 := testSession(t, store, domain.LineItem{ProductID: 3, UnitPricePaise: 49900, Quantity: 1})
	_, err = svc.Begin(context.Background(), sess2, "12 MG Road", domain.PaymentMethodGateway)
	require.NoError(t, err)
	assert.Equal(t, []string{"INR", "INR"}, b.currencies)

	waitTerminal(t, svc, sess, view.ID)
}

func TestGatewayDismissalKeepsCartAndCreatesNoOrder(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sess := testSession(t, store, domain.LineItem{ProductID: 3, UnitPricePaise: 49900, Quantity: 1})
	b := &fakeBackend{}
	svc := newCheckout(b, store, scriptedWindow{result: payment.Dismissed{}})

	view, err := svc.Begin(context.Background(), sess, "12 MG Road", domain.PaymentMethodGateway)
	require.NoError(t, err)

	final := waitTerminal(t, svc, sess, view.ID)
	assert.Equal(t, StateCancelled, final.State)
	assert.Empty(t, b.orders())
	assert.Empty(t, b.verifyCalls)

	stored, err := store.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.False(t, stored.Cart.IsEmpty())
}

func TestGatewayVerificationFailureCreatesNoOrder(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sess := testSession(t, store, domain.LineItem{ProductID: 3, UnitPricePaise: 49900, Quantity: 1})
	b := &fakeBackend{verifyErr: &domain.Error{Code: domain.EPAYMENT, Message: "Invalid signature"}}
	w := scriptedWindow{result: payment.Completed{PaymentRef: "pay_bad", Signature: "forged"}}
	svc := newCheckout(b, store, w)

	view, err := svc.Begin(context.Background(), sess, "12 MG Road", domain.PaymentMethodGateway)
	require.NoError(t, err)

	final := waitTerminal(t, svc, sess, view.ID)
	assert.Equal(t, StateFailed, final.State)
	assert.Equal(t, domain.EPAYMENT, final.ErrorCode)
	assert.Empty(t, b.orders(), "a rejected signature must never produce an order")

	stored, err := store.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.False(t, stored.Cart.IsEmpty())
}

func TestGatewayOrderFailureAfterCaptureIsUnreconciled(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sess := testSession(t, store, domain.LineItem{ProductID: 3, UnitPricePaise: 49900, Quantity: 1})
	b := &fakeBackend{orderErr: &domain.Error{Code: domain.EINTERNAL, Message: "db down"}}
	w := scriptedWindow{result: payment.Completed{PaymentRef: "pay_123", Signature: "sig"}}
	svc := newCheckout(b, store, w)

	view, err := svc.Begin(context.Background(), sess, "12 MG Road", domain.PaymentMethodGateway)
	require.NoError(t, err)

	final := waitTerminal(t, svc, sess, view.ID)
	assert.Equal(t, StateFailed, final.State)
	assert.Equal(t, domain.EUNRECONCILED, final.ErrorCode)
	assert.Contains(t, final.ErrorMessage, "contact support")
}

func TestGatewayIntentFailureSurfacesToCaller(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sess := testSession(t, store, domain.LineItem{ProductID: 3, UnitPricePaise: 49900, Quantity: 1})
	b := &fakeBackend{intentErr: &domain.Error{Code: domain.EUNAVAILABLE, Message: "network failure"}}
	svc := newCheckout(b, store, scriptedWindow{})

	view, err := svc.Begin(context.Background(), sess, "12 MG Road", domain.PaymentMethodGateway)
	require.Error(t, err)
	assert.Equal(t, domain.EUNAVAILABLE, domain.ErrorCode(err))
	assert.Equal(t, StateFailed, view.State)
	assert.Empty(t, b.orders())
}

func TestWindowTimeoutCancelsAttempt(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sess := testSession(t, store, domain.LineItem{ProductID: 3, UnitPricePaise: 49900, Quantity: 1})
	b := &fakeBackend{}
	svc := newCheckout(b, store, scriptedWindow{}) // blocks until ctx done
	svc.SetWindowTimeout(20 * time.Millisecond)

	view, err := svc.Begin(context.Background(), sess, "12 MG Road", domain.PaymentMethodGateway)
	require.NoError(t, err)

	final := waitTerminal(t, svc, sess, view.ID)
	assert.Equal(t, StateCancelled, final.State)
	assert.Empty(t, b.orders())
}

func TestGatewayLateCallbackStillSettles(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sess := testSession(t, store, domain.LineItem{ProductID: 3, UnitPricePaise: 49900, Quantity: 1})
	b := &fakeBackend{createdTotal: 53900}
	w := lateWindow{result: payment.Completed{
		PaymentRef: "pay_late",
		OrderRef:   "order_gw_1",
		Signature:  "sig",
	}}
	svc := newCheckout(b, store, w)
	svc.SetWindowTimeout(10 * time.Millisecond)

	view, err := svc.Begin(context.Background(), sess, "12 MG Road", domain.PaymentMethodGateway)
	require.NoError(t, err)

	// The capture arrived as the window expired. It must still be
	// verified and submitted, not written off as a cancellation.
	final := waitTerminal(t, svc, sess, view.ID)
	assert.Equal(t, StateOrderPersisted, final.State)
	require.Len(t, b.verifyCalls, 1)
	assert.Equal(t, "pay_late", b.verifyCalls[0].ProviderPaymentID)
	require.Len(t, b.orders(), 1)
}

func TestStatusScopedToOwningSession(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sess := testSession(t, store, domain.LineItem{ProductID: 3, UnitPricePaise: 49900, Quantity: 1})
	b := &fakeBackend{}
	svc := newCheckout(b, store, scriptedWindow{result: payment.Dismissed{}})

	view, err := svc.Begin(context.Background(), sess, "12 MG Road", domain.PaymentMethodGateway)
	require.NoError(t, err)

	other, err := session.New()
	require.NoError(t, err)

	_, err = svc.Status(other, view.ID)
	require.Error(t, err)
	assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(err))

	_, err = svc.Status(sess, "no-such-attempt")
	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestPersistedOrderRefreshesCachedList(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sess := testSession(t, store, domain.LineItem{ProductID: 7, UnitPricePaise: 60000, Quantity: 1})
	b := &fakeBackend{createdTotal: 60000}
	svc := newCheckout(b, store, scriptedWindow{})

	var refreshed []string
	svc.SetRefresher(refresherFunc(func(_ context.Context, id string) {
		refreshed = append(refreshed, id)
	}))

	_, err := svc.Begin(context.Background(), sess, "12 MG Road", domain.PaymentMethodCOD)
	require.NoError(t, err)
	assert.Equal(t, []string{sess.ID}, refreshed)
}

type refresherFunc func(ctx context.Context, sessionID string)

func (f refresherFunc) Refresh(ctx context.Context, sessionID string) { f(ctx, sessionID) }
