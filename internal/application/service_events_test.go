package application

import (
	"context"
	"errors"
	"testing"

	"github.com/rbxassets/platform/services/payments/internal/domain"
)

func TestOrderEventsPartitionByOrder(t *testing.T) {
	t.Parallel()

	fix := newFixture(t)
	order, err := fix.svc.CaptureOrder(context.Background(), buyerActor("buyer-1"), "PAY-123", testCaptureContext())
	if err != nil {
		t.Fatalf("capture order: %v", err)
	}

	published := fix.publisher.Events()
	if len(published) != 1 {
		t.Fatalf("published %d events, want 1", len(published))
	}
	envelope := published[0]
	if envelope.PartitionKeyPath != "data.order_id" {
		t.Fatalf("partition key path = %q, want data.order_id", envelope.PartitionKeyPath)
	}
	if envelope.PartitionKey != order.OrderID {
		t.Fatalf("partition key = %q, want order %s", envelope.PartitionKey, order.OrderID)
	}
}

func TestPayoutEventsPartitionByPayout(t *testing.T) {
	t.Parallel()

	fix := newFixture(t)
	payout := fix.seedPayout(t, domain.Payout{SellerID: "seller-1", SellerEmail: "seller@example.com", Amount: 15, Currency: "USD"})

	if _, err := fix.svc.DispatchPayoutBatch(context.Background(), adminActor(), []string{payout.PayoutID}); err != nil {
		t.Fatalf("dispatch batch: %v", err)
	}

	published := fix.publisher.Events()
	if len(published) != 1 || published[0].EventType != domain.EventPayoutDispatched {
		t.Fatalf("unexpected events: %+v", published)
	}
	envelope := published[0]
	if envelope.PartitionKeyPath != "data.payout_id" {
		t.Fatalf("partition key path = %q, want data.payout_id", envelope.PartitionKeyPath)
	}
	if envelope.PartitionKey != payout.PayoutID {
		t.Fatalf("partition key = %q, want payout %s", envelope.PartitionKey, payout.PayoutID)
	}
}

func TestPayoutFailureEventPartitionsByPayout(t *testing.T) {
	t.Parallel()

	fix := newFixture(t)
	fix.gateway.payoutErr = errors.New("RECEIVER_UNREGISTERED")
	payout := fix.seedPayout(t, domain.Payout{SellerID: "seller-1", SellerEmail: "seller@example.com", Amount: 15, Currency: "USD"})

	_, err := fix.svc.DispatchPayout(context.Background(), adminActor(), DispatchPayoutInput{
		SellerID:    "seller-1",
		SellerEmail: "seller@example.com",
		Amount:      20,
		Currency:    "USD",
	})
	var payoutErr *domain.PayoutError
	if !errors.As(err, &payoutErr) {
		t.Fatalf("expected payout error, got %v", err)
	}

	published := fix.publisher.Events()
	if len(published) != 1 || published[0].EventType != domain.EventPayoutFailed {
		t.Fatalf("unexpected events: %+v", published)
	}
	if published[0].PartitionKeyPath != "data.payout_id" || published[0].PartitionKey != payout.PayoutID {
		t.Fatalf("failure event keyed %s=%q, want data.payout_id=%q",
			published[0].PartitionKeyPath, published[0].PartitionKey, payout.PayoutID)
	}
}
