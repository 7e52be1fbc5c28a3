package checkout

import (
	"context"
	"time"
)

// Gateway authorizes the payment for an order about to be placed. It is
// injected so tests can substitute a synchronous stub.
type Gateway interface {
	Charge(ctx context.Context, amountMinor int64, payment StoredPayment) error
}

// SimulatedGateway approves every charge after a fixed processing delay.
// There is no real processor behind it; the delay stands in for one.
type SimulatedGateway struct {
	Delay time.Duration
}

func (g SimulatedGateway) Charge(ctx context.Context, _ int64, _ StoredPayment) error {
	timer := time.NewTimer(g.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
