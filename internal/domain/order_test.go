package domain

import (
	"errors"
	"testing"
)

func TestValidateCheckoutSpec(t *testing.T) {
	t.Parallel()

	valid := CheckoutSpec{
		ProductID:    "prod-1",
		ProductName:  "Sword Pack",
		ProductPrice: 9.99,
		Currency:     "USD",
		BuyerEmail:   "buyer@example.com",
	}
	if err := ValidateCheckoutSpec(valid); err != nil {
		t.Fatalf("valid spec rejected: %v", err)
	}

	mutations := []func(*CheckoutSpec){
		func(s *CheckoutSpec) { s.ProductID = " " },
		func(s *CheckoutSpec) { s.ProductName = "" },
		func(s *CheckoutSpec) { s.ProductPrice = 0 },
		func(s *CheckoutSpec) { s.ProductPrice = -1 },
		func(s *CheckoutSpec) { s.Currency = "" },
		func(s *CheckoutSpec) { s.BuyerEmail = "" },
	}
	for i, mutate := range mutations {
		spec := valid
		mutate(&spec)
		if err := ValidateCheckoutSpec(spec); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("mutation %d: got %v, want invalid input", i, err)
		}
	}
}

func TestOrderTransitions(t *testing.T) {
	t.Parallel()

	cancellable := []OrderStatus{OrderStatusPending, OrderStatusApproved, OrderStatusFailed, OrderStatusCancelled}
	for _, status := range cancellable {
		if err := (Order{Status: status}).CanCancel(); err != nil {
			t.Fatalf("cancel from %s: %v", status, err)
		}
	}
	for _, status := range []OrderStatus{OrderStatusCompleted, OrderStatusRefunded} {
		if err := (Order{Status: status}).CanCancel(); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("cancel from %s: got %v, want invalid state", status, err)
		}
	}

	if err := (Order{Status: OrderStatusCompleted}).CanRefund(); err != nil {
		t.Fatalf("refund completed: %v", err)
	}
	for _, status := range []OrderStatus{OrderStatusPending, OrderStatusCancelled, OrderStatusRefunded, OrderStatusFailed} {
		if err := (Order{Status: status}).CanRefund(); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("refund from %s: got %v, want invalid state", status, err)
		}
	}
}
