package storefront

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vrksatech/market/internal/domain"
	"github.com/vrksatech/market/internal/handler"
	"github.com/vrksatech/market/internal/payment"
	"github.com/vrksatech/market/internal/service"
	"github.com/vrksatech/market/internal/session"
)

// CheckoutHandler drives checkout attempts and relays the hosted payment
// widget's browser callbacks to the parked attempt.
type CheckoutHandler struct {
	checkout *service.CheckoutService
	window   *payment.HostedWindow
}

func NewCheckoutHandler(checkout *service.CheckoutService, window *payment.HostedWindow) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, window: window}
}

// Begin handles POST /checkout.
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DeliveryAddress string `json:"delivery_address" validate:"required"`
		PaymentMethod   string `json:"payment_method" validate:"required"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.Error(w, r, err)
		return
	}

	sess := session.FromContext(r.Context())
	view, err := h.checkout.Begin(r.Context(), sess, req.DeliveryAddress, domain.PaymentMethod(req.PaymentMethod))
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusAccepted, view)
}

// Status handles GET /checkout/{attemptID}. Clients poll this while the
// widget is open.
func (h *CheckoutHandler) Status(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	view, err := h.checkout.Status(sess, chi.URLParam(r, "attemptID"))
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, view)
}

// Complete handles POST /checkout/callback: the widget's success
// callback. The signature is forwarded untrusted; verification happens
// server-side before any order exists.
func (h *CheckoutHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProviderOrderID   string `json:"razorpay_order_id" validate:"required"`
		ProviderPaymentID string `json:"razorpay_payment_id" validate:"required"`
		Signature         string `json:"razorpay_signature" validate:"required"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.Error(w, r, err)
		return
	}

	err := h.window.Resolve(req.ProviderOrderID, payment.Completed{
		PaymentRef: req.ProviderPaymentID,
		OrderRef:   req.ProviderOrderID,
		Signature:  req.Signature,
	})
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// Dismiss handles POST /checkout/dismiss: the shopper closed the widget.
func (h *CheckoutHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProviderOrderID string `json:"razorpay_order_id" validate:"required"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.Error(w, r, err)
		return
	}

	if err := h.window.Resolve(req.ProviderOrderID, payment.Dismissed{}); err != nil {
		handler.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
