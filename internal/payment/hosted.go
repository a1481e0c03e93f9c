package payment

import (
	"context"
	"sync"

	"github.com/vrksatech/market/internal/domain"
)

// HostedWindow bridges the browser-hosted widget to the orchestrator.
// Collect parks the attempt under its provider order id; the widget's
// success and dismiss callbacks arrive as HTTP requests that Resolve the
// parked attempt. An attempt settles at most once: the first resolution
// consumes it and any later callback is rejected.
type HostedWindow struct {
	mu      sync.Mutex
	pending map[string]chan Result
}

// NewHostedWindow creates an empty window registry.
func NewHostedWindow() *HostedWindow {
	return &HostedWindow{
		pending: make(map[string]chan Result),
	}
}

// Collect implements Window. It blocks until Resolve delivers a result
// for the intent's provider order id or the context ends.
func (w *HostedWindow) Collect(ctx context.Context, intent domain.PaymentIntent) (Result, error) {
	ch := make(chan Result, 1)

	w.mu.Lock()
	if _, exists := w.pending[intent.ProviderOrderID]; exists {
		w.mu.Unlock()
		return nil, domain.Errorf(domain.ECONFLICT, "payment.collect",
			"payment attempt already in progress for %s", intent.ProviderOrderID)
	}
	w.pending[intent.ProviderOrderID] = ch
	w.mu.Unlock()

	select {
	case result := <-ch:
		// Resolve removed the entry when it claimed the channel.
		return result, nil
	case <-ctx.Done():
		w.mu.Lock()
		claimed := w.pending[intent.ProviderOrderID] != ch
		if !claimed {
			delete(w.pending, intent.ProviderOrderID)
		}
		w.mu.Unlock()

		if claimed {
			// A callback won the race with the deadline. Resolve already
			// acknowledged it to the widget, so the result must be
			// honored, not dropped.
			return <-ch, nil
		}
		return nil, ctx.Err()
	}
}

// Resolve settles the pending attempt for the given provider order id.
// Returns a not-found error when no attempt is waiting, which covers
// unknown ids, expired attempts, and duplicate callbacks alike.
func (w *HostedWindow) Resolve(providerOrderID string, result Result) error {
	w.mu.Lock()
	ch, ok := w.pending[providerOrderID]
	if ok {
		delete(w.pending, providerOrderID)
	}
	w.mu.Unlock()

	if !ok {
		return domain.NotFound("payment.resolve", "payment attempt", providerOrderID)
	}

	ch <- result
	return nil
}
