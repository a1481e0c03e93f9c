package backend

import (
	"context"
	"net/http"

	"github.com/vrksatech/market/internal/domain"
)

// CreatePaymentOrder asks the backend to open a gateway order (a payment
// intent) for the given amount. The amount travels in rupees; the
// gateway's reply is denominated in paise.
func (c *Client) CreatePaymentOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*domain.PaymentIntent, error) {
	body := struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
		Receipt  string  `json:"receipt"`
	}{
		Amount:   domain.PaiseToRupees(amountPaise),
		Currency: currency,
		Receipt:  receipt,
	}

	var resp struct {
		Order struct {
			ID       string `json:"id"`
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
		} `json:"order"`
	}
	if err := c.request(ctx, http.MethodPost, "/payment/create-order", body, &resp); err != nil {
		return nil, err
	}

	return &domain.PaymentIntent{
		ProviderOrderID: resp.Order.ID,
		AmountPaise:     resp.Order.Amount,
		Currency:        resp.Order.Currency,
	}, nil
}

// VerifyPaymentParams identify one captured gateway payment.
type VerifyPaymentParams struct {
	ProviderOrderID   string `json:"razorpay_order_id"`
	ProviderPaymentID string `json:"razorpay_payment_id"`
	Signature         string `json:"razorpay_signature"`
}

// VerifyPayment has the backend check the gateway's payment signature.
// A nil return means the signature is genuine; any error means the
// payment must not be trusted and no order may reference it.
func (c *Client) VerifyPayment(ctx context.Context, params VerifyPaymentParams) error {
	return c.request(ctx, http.MethodPost, "/payment/verify-payment", params, nil)
}
