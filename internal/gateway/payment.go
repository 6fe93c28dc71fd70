package gateway

import (
	"context"
	"math/rand"
	"time"
)

// MockPaymentChecker simulates a UPI payment-status API. A real
// deployment must replace this with an actual payment-status client;
// only the success/failure signal crosses the interface.
type MockPaymentChecker struct {
	// SuccessRate in [0,1]; zero value means the historical 90%.
	SuccessRate float64
	// Delay simulates provider latency.
	Delay time.Duration
	// Rand allows deterministic tests; nil uses the global source.
	Rand *rand.Rand
}

func (m MockPaymentChecker) Verify(ctx context.Context, transactionID string) (bool, error) {
	delay := m.Delay
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}

	rate := m.SuccessRate
	if rate == 0 {
		rate = 0.9
	}
	if m.Rand != nil {
		return m.Rand.Float64() < rate, nil
	}
	return rand.Float64() < rate, nil
}
