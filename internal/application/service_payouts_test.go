package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rbxassets/platform/services/payments/internal/domain"
)

func TestDispatchPayoutEnforcesMinimum(t *testing.T) {
	t.Parallel()

	fix := newFixture(t)
	_, err := fix.svc.DispatchPayout(context.Background(), adminActor(), DispatchPayoutInput{
		SellerID:    "seller-1",
		SellerEmail: "seller@example.com",
		Amount:      0.05,
		Currency:    "USD",
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("below minimum: got %v, want invalid input", err)
	}
	if fix.gateway.payoutCalls != 0 {
		t.Fatalf("gateway called for sub-minimum amount")
	}
}

func TestDispatchPayoutRequiresAdmin(t *testing.T) {
	t.Parallel()

	fix := newFixture(t)
	_, err := fix.svc.DispatchPayout(context.Background(), buyerActor("seller-1"), DispatchPayoutInput{
		SellerID:    "seller-1",
		SellerEmail: "seller@example.com",
		Amount:      10,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-admin dispatch: got %v, want forbidden", err)
	}
}

func TestDispatchPayoutStampsManifest(t *testing.T) {
	t.Parallel()

	fix := newFixture(t)
	small := fix.seedPayout(t, domain.Payout{
		SellerID:    "seller-1",
		SellerEmail: "seller@example.com",
		Amount:      15,
		Currency:    "USD",
		CreatedAt:   fix.now.Add(-time.Hour),
	})
	big := fix.seedPayout(t, domain.Payout{
		SellerID:    "seller-1",
		SellerEmail: "seller@example.com",
		Amount:      250,
		Currency:    "USD",
	})

	result, err := fix.svc.DispatchPayout(context.Background(), adminActor(), DispatchPayoutInput{
		SellerID:    "seller-1",
		SellerEmail: "seller@example.com",
		Amount:      20,
		Currency:    "USD",
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if result.Stamped != 1 {
		t.Fatalf("stamped = %d, want 1 (only payouts within the dispatched amount)", result.Stamped)
	}
	if !strings.HasPrefix(result.BatchID, "batch-") || !strings.HasSuffix(result.BatchID, "-seller-1") {
		t.Fatalf("batch id = %q", result.BatchID)
	}

	stamped, err := fix.repos.Payouts.GetByID(context.Background(), small.PayoutID)
	if err != nil {
		t.Fatalf("stamped payout: %v", err)
	}
	if stamped.Status != domain.PayoutStatusProcessing || stamped.PayPalPayoutID != result.BatchID {
		t.Fatalf("stamped payout = %+v", stamped)
	}
	untouched, err := fix.repos.Payouts.GetByID(context.Background(), big.PayoutID)
	if err != nil {
		t.Fatalf("untouched payout: %v", err)
	}
	if untouched.Status != domain.PayoutStatusPending {
		t.Fatalf("oversized payout left pending, got %s", untouched.Status)
	}

	if fix.gateway.lastPayout.RecipientEmail != "seller@example.com" {
		t.Fatalf("gateway spec = %+v", fix.gateway.lastPayout)
	}
	published := fix.publisher.Events()
	if len(published) != 1 || published[0].EventType != domain.EventPayoutDispatched {
		t.Fatalf("events = %+v", published)
	}
}

func TestDispatchPayoutGatewayFailureMarksOldestOnly(t *testing.T) {
	t.Parallel()

	fix := newFixture(t)
	fix.gateway.payoutErr = errors.New("RECEIVER_UNREGISTERED")
	oldest := fix.seedPayout(t, domain.Payout{
		SellerID:    "seller-1",
		SellerEmail: "seller@example.com",
		Amount:      15,
		Currency:    "USD",
		CreatedAt:   fix.now.Add(-time.Hour),
	})
	newer := fix.seedPayout(t, domain.Payout{
		SellerID:    "seller-1",
		SellerEmail: "seller@example.com",
		Amount:      30,
		Currency:    "USD",
	})

	_, err := fix.svc.DispatchPayout(context.Background(), adminActor(), DispatchPayoutInput{
		SellerID:    "seller-1",
		SellerEmail: "seller@example.com",
		Amount:      50,
		Currency:    "USD",
	})
	if !errors.Is(err, domain.ErrPayoutFailed) {
		t.Fatalf("got %v, want payout failed", err)
	}
	var payoutErr *domain.PayoutError
	if !errors.As(err, &payoutErr) || !strings.Contains(payoutErr.GatewayMessage, "RECEIVER_UNREGISTERED") {
		t.Fatalf("expected gateway message preserved, got %v", err)
	}

	failed, _ := fix.repos.Payouts.GetByID(context.Background(), oldest.PayoutID)
	if failed.Status != domain.PayoutStatusFailed || failed.ErrorMessage == "" {
		t.Fatalf("oldest payout = %+v, want failed with message", failed)
	}
	still, _ := fix.repos.Payouts.GetByID(context.Background(), newer.PayoutID)
	if still.Status != domain.PayoutStatusPending {
		t.Fatalf("newer payout = %s, want pending", still.Status)
	}
}

func TestDispatchPayoutBatchSettlesExactManifest(t *testing.T) {
	t.Parallel()

	fix := newFixture(t)
	first := fix.seedPayout(t, domain.Payout{SellerID: "seller-1", SellerEmail: "seller@example.com", Amount: 15, Currency: "USD"})
	second := fix.seedPayout(t, domain.Payout{SellerID: "seller-1", SellerEmail: "seller@example.com", Amount: 30, Currency: "USD"})

	result, err := fix.svc.DispatchPayoutBatch(context.Background(), adminActor(), []string{first.PayoutID, second.PayoutID})
	if err != nil {
		t.Fatalf("dispatch batch: %v", err)
	}
	if result.Stamped != 2 || result.Amount != 45 {
		t.Fatalf("result = %+v, want 2 payouts totalling 45", result)
	}
	for _, id := range []string{first.PayoutID, second.PayoutID} {
		payout, _ := fix.repos.Payouts.GetByID(context.Background(), id)
		if payout.Status != domain.PayoutStatusProcessing {
			t.Fatalf("payout %s = %s, want processing", id, payout.Status)
		}
	}
}

func TestDispatchPayoutBatchIgnoresRepeatedIDs(t *testing.T) {
	t.Parallel()

	fix := newFixture(t)
	payout := fix.seedPayout(t, domain.Payout{SellerID: "seller-1", SellerEmail: "seller@example.com", Amount: 15, Currency: "USD"})

	result, err := fix.svc.DispatchPayoutBatch(context.Background(), adminActor(), []string{payout.PayoutID, payout.PayoutID})
	if err != nil {
		t.Fatalf("dispatch batch: %v", err)
	}
	if result.Stamped != 1 || result.Amount != 15 {
		t.Fatalf("result = %+v, want the payout settled once for 15", result)
	}
	if fix.gateway.lastPayout.Amount != 15 {
		t.Fatalf("gateway asked to pay %v, want 15", fix.gateway.lastPayout.Amount)
	}
	dispatched := 0
	for _, event := range fix.publisher.Events() {
		if event.EventType == domain.EventPayoutDispatched {
			dispatched++
		}
	}
	if dispatched != 1 {
		t.Fatalf("published %d dispatch events, want 1", dispatched)
	}
}

func TestDispatchPayoutBatchValidation(t *testing.T) {
	t.Parallel()

	fix := newFixture(t)
	mine := fix.seedPayout(t, domain.Payout{SellerID: "seller-1", SellerEmail: "a@b", Amount: 15, Currency: "USD"})
	other := fix.seedPayout(t, domain.Payout{SellerID: "seller-2", SellerEmail: "c@d", Amount: 15, Currency: "USD"})
	done := fix.seedPayout(t, domain.Payout{SellerID: "seller-1", SellerEmail: "a@b", Amount: 15, Currency: "USD", Status: domain.PayoutStatusCompleted})
	tiny := fix.seedPayout(t, domain.Payout{SellerID: "seller-3", SellerEmail: "e@f", Amount: 0.05, Currency: "USD"})

	if _, err := fix.svc.DispatchPayoutBatch(context.Background(), adminActor(), nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("empty batch: got %v", err)
	}
	if _, err := fix.svc.DispatchPayoutBatch(context.Background(), adminActor(), []string{mine.PayoutID, other.PayoutID}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("mixed sellers: got %v", err)
	}
	if _, err := fix.svc.DispatchPayoutBatch(context.Background(), adminActor(), []string{done.PayoutID}); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("non-pending payout: got %v", err)
	}
	if _, err := fix.svc.DispatchPayoutBatch(context.Background(), adminActor(), []string{tiny.PayoutID}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("sub-minimum batch: got %v", err)
	}
	if fix.gateway.payoutCalls != 0 {
		t.Fatalf("gateway called %d times for invalid batches", fix.gateway.payoutCalls)
	}
}

func TestCompleteAndFailPayout(t *testing.T) {
	t.Parallel()

	fix := newFixture(t)
	processing := fix.seedPayout(t, domain.Payout{
		SellerID:    "seller-1",
		SellerEmail: "a@b",
		Amount:      15,
		Currency:    "USD",
		Status:      domain.PayoutStatusProcessing,
	})
	pending := fix.seedPayout(t, domain.Payout{SellerID: "seller-1", SellerEmail: "a@b", Amount: 20, Currency: "USD"})

	done, err := fix.svc.CompletePayout(context.Background(), adminActor(), processing.PayoutID)
	if err != nil {
		t.Fatalf("complete payout: %v", err)
	}
	if done.Status != domain.PayoutStatusCompleted || done.CompletedAt == nil {
		t.Fatalf("completed payout = %+v", done)
	}

	// Transition only applies out of processing.
	if _, err := fix.svc.CompletePayout(context.Background(), adminActor(), pending.PayoutID); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("complete pending: got %v", err)
	}
	if _, err := fix.svc.FailPayout(context.Background(), adminActor(), pending.PayoutID, "x"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("fail pending: got %v", err)
	}
	if _, err := fix.svc.FailPayout(context.Background(), adminActor(), processing.PayoutID, ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("fail without message: got %v", err)
	}
	if _, err := fix.svc.CompletePayout(context.Background(), buyerActor("seller-1"), processing.PayoutID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-admin complete: got %v", err)
	}
}

func TestListSellerPayoutsScoped(t *testing.T) {
	t.Parallel()

	fix := newFixture(t)
	fix.seedPayout(t, domain.Payout{SellerID: "seller-1", SellerEmail: "a@b", Amount: 15, Currency: "USD"})
	fix.seedPayout(t, domain.Payout{SellerID: "seller-2", SellerEmail: "c@d", Amount: 30, Currency: "USD"})

	mine, err := fix.svc.ListSellerPayouts(context.Background(), buyerActor("seller-1"), "seller-1")
	if err != nil || len(mine) != 1 {
		t.Fatalf("own payouts: %d, err=%v", len(mine), err)
	}
	if _, err := fix.svc.ListSellerPayouts(context.Background(), buyerActor("seller-1"), "seller-2"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("cross-seller list: got %v", err)
	}
}
