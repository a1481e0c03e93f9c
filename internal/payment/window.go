// Package payment models the hosted payment widget as a single-shot
// asynchronous operation. The orchestrator hands an intent to a Window
// and suspends; control returns with exactly one tagged result, never
// through independent global callbacks.
package payment

import (
	"context"

	"github.com/vrksatech/market/internal/domain"
)

// Result is the outcome of one widget invocation. Exactly one of the two
// variants occurs per invocation.
type Result interface {
	isResult()
}

// Completed means the shopper paid: the gateway reported a captured
// payment with a signature to be verified server-side before it is
// trusted.
type Completed struct {
	PaymentRef string
	OrderRef   string
	Signature  string
}

// Dismissed means the shopper closed the widget without paying.
type Dismissed struct{}

func (Completed) isResult() {}
func (Dismissed) isResult() {}

// Window presents a payment intent to the shopper and blocks until the
// widget settles or the context ends.
type Window interface {
	Collect(ctx context.Context, intent domain.PaymentIntent) (Result, error)
}
