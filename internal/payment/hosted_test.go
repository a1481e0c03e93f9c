package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrksatech/market/internal/domain"
)

func testIntent() domain.PaymentIntent {
	return domain.PaymentIntent{
		ProviderOrderID: "order_xyz",
		AmountPaise:     53900,
		Currency:        "INR",
	}
}

func TestHostedWindowCompleted(t *testing.T) {
	w := NewHostedWindow()

	done := make(chan Result, 1)
	go func() {
		result, err := w.Collect(context.Background(), testIntent())
		require.NoError(t, err)
		done <- result
	}()

	// Wait for the attempt to park before resolving.
	require.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return len(w.pending) == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, w.Resolve("order_xyz", Completed{
		PaymentRef: "pay_abc",
		OrderRef:   "order_xyz",
		Signature:  "sig",
	}))

	select {
	case result := <-done:
		completed, ok := result.(Completed)
		require.True(t, ok, "result = %T", result)
		assert.Equal(t, "pay_abc", completed.PaymentRef)
	case <-time.After(time.Second):
		t.Fatal("Collect did not return")
	}
}

func TestHostedWindowDismissed(t *testing.T) {
	w := NewHostedWindow()

	done := make(chan Result, 1)
	go func() {
		result, err := w.Collect(context.Background(), testIntent())
		require.NoError(t, err)
		done <- result
	}()

	require.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return len(w.pending) == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, w.Resolve("order_xyz", Dismissed{}))

	select {
	case result := <-done:
		_, ok := result.(Dismissed)
		assert.True(t, ok, "result = %T", result)
	case <-time.After(time.Second):
		t.Fatal("Collect did not return")
	}
}

func TestHostedWindowSettlesAtMostOnce(t *testing.T) {
	w := NewHostedWindow()

	go func() {
		_, _ = w.Collect(context.Background(), testIntent())
	}()

	require.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return len(w.pending) == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, w.Resolve("order_xyz", Dismissed{}))

	// The second callback finds nothing to settle.
	err := w.Resolve("order_xyz", Completed{PaymentRef: "pay_late"})
	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestHostedWindowResolveUnknownAttempt(t *testing.T) {
	w := NewHostedWindow()

	err := w.Resolve("order_missing", Dismissed{})
	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestHostedWindowContextCancelUnparksAttempt(t *testing.T) {
	w := NewHostedWindow()

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		_, err := w.Collect(ctx, testIntent())
		errs <- err
	}()

	require.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return len(w.pending) == 1
	}, time.Second, time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-errs, context.Canceled)

	require.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return len(w.pending) == 0
	}, time.Second, time.Millisecond)
}

func TestHostedWindowAcceptedCallbackNeverDropped(t *testing.T) {
	w := NewHostedWindow()

	// Race the success callback against context cancellation. Whichever
	// wins, an acknowledged Resolve must surface its result from Collect;
	// a rejected Resolve must leave Collect with the context error.
	for i := 0; i < 200; i++ {
		intent := testIntent()
		ctx, cancel := context.WithCancel(context.Background())

		type outcome struct {
			result Result
			err    error
		}
		done := make(chan outcome, 1)
		go func() {
			r, err := w.Collect(ctx, intent)
			done <- outcome{r, err}
		}()

		require.Eventually(t, func() bool {
			w.mu.Lock()
			defer w.mu.Unlock()
			return len(w.pending) == 1
		}, time.Second, time.Millisecond)

		cancel()
		rerr := w.Resolve(intent.ProviderOrderID, Completed{PaymentRef: "pay_late"})

		got := <-done
		if rerr == nil {
			require.NoError(t, got.err)
			completed, ok := got.result.(Completed)
			require.True(t, ok, "result = %T", got.result)
			assert.Equal(t, "pay_late", completed.PaymentRef)
		} else {
			assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(rerr))
			assert.ErrorIs(t, got.err, context.Canceled)
		}
	}
}

func TestHostedWindowRejectsDuplicateCollect(t *testing.T) {
	w := NewHostedWindow()

	go func() {
		_, _ = w.Collect(context.Background(), testIntent())
	}()

	require.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return len(w.pending) == 1
	}, time.Second, time.Millisecond)

	_, err := w.Collect(context.Background(), testIntent())
	require.Error(t, err)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))

	require.NoError(t, w.Resolve("order_xyz", Dismissed{}))
}
