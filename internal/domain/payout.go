package domain

import "time"

type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "pending"
	PayoutStatusProcessing PayoutStatus = "processing"
	PayoutStatusCompleted  PayoutStatus = "completed"
	PayoutStatusFailed     PayoutStatus = "failed"
)

// MinimumPayoutAmount is the gateway-enforced floor for a single payout item.
const MinimumPayoutAmount = 0.10

// Payout is one disbursement of seller earnings. It holds a one-way reference
// to its originating order; amount equals that order's seller share at
// creation time. A failed payout is never auto-retried — it requires a new
// manual dispatch cycle for the same seller.
type Payout struct {
	PayoutID       string       `json:"payout_id"`
	OrderID        string       `json:"order_id"`
	SellerID       string       `json:"seller_id"`
	SellerEmail    string       `json:"seller_email"`
	Amount         float64      `json:"amount"`
	Currency       string       `json:"currency"`
	PayPalPayoutID string       `json:"paypal_payout_id"`
	Status         PayoutStatus `json:"status"`
	ErrorMessage   string       `json:"error_message,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty"`
	UpdatedAt      time.Time    `json:"updated_at"`
}
