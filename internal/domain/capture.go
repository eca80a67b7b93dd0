package domain

import "time"

// CaptureRecord is the write-ahead record for a successful gateway capture.
// It is inserted before any Order/Payout/counter write, keyed uniquely by the
// remote order id so a second concurrent capture writer is rejected instead of
// producing a duplicate ledger pair. The Order, Payout and product counter
// updates are derived from it idempotently; AppliedAt stays nil until all
// derivations have been written, which is what the reconciler scans for.
type CaptureRecord struct {
	PayPalOrderID string
	OrderID       string
	Context       CaptureContext
	Split         RevenueSplit
	PayPalStatus  string
	CapturedAt    time.Time
	AppliedAt     *time.Time
}

// CaptureContext is the buyer/seller/product context captured at checkout
// creation and replayed into the capture step.
type CaptureContext struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
	Currency     string  `json:"currency"`
	BuyerID      string  `json:"buyer_id"`
	BuyerEmail   string  `json:"buyer_email"`
	CreatorID    string  `json:"creator_id"`
	CreatorName  string  `json:"creator_name"`
	CreatorEmail string  `json:"creator_email"`
}

func ValidateCaptureContext(c CaptureContext) error {
	if c.ProductID == "" || c.ProductPrice <= 0 {
		return ErrInvalidInput
	}
	if c.BuyerID == "" || c.CreatorID == "" {
		return ErrInvalidInput
	}
	return nil
}
