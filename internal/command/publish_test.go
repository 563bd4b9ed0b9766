package command

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mperez230-ship-it/MiniBanco/shared/models"
)

// stalledPublisher never reaches its broker and gives up only when ctx ends.
type stalledPublisher struct {
	calls int
}

func (p *stalledPublisher) Publish(ctx context.Context, stream, eventType string, data any) error {
	p.calls++
	<-ctx.Done()
	return ctx.Err()
}

func TestApplyTransaction_StalledBrokerIsBounded(t *testing.T) {
	previous := publishTimeout
	publishTimeout = 20 * time.Millisecond
	t.Cleanup(func() { publishTimeout = previous })

	f := newFixture(t)
	f.register(t, "u1")
	f.openAccount(t, u1, "A1", 0)

	stalled := &stalledPublisher{}
	f.transactions.publisher = stalled

	start := time.Now()
	result, err := f.apply(u1, "A1", models.TransactionTypeDeposit, "25")
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("ApplyTransaction: %v", err)
	}
	if !result.Account.Balance.Equal(decimal.NewFromInt(25)) {
		t.Errorf("balance = %s, want 25", result.Account.Balance)
	}
	if stalled.calls != 2 {
		t.Errorf("expected 2 publish attempts, got %d", stalled.calls)
	}
	if elapsed > time.Second {
		t.Errorf("ApplyTransaction took %v with a stalled broker", elapsed)
	}
}

func TestPublish_IgnoresRequestCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &recordingPublisher{}
	publish(ctx, rec, "s", "e", nil)
	if rec.count("e") != 1 {
		t.Errorf("event dropped after the request context ended")
	}
}
