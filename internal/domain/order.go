package domain

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunded  OrderStatus = "refunded"
)

// Order is one buyer-to-seller purchase transaction. The product fields are a
// snapshot captured at order-creation time and are never re-read live.
type Order struct {
	OrderID       string      `json:"order_id"`
	PayPalOrderID string      `json:"paypal_order_id"`
	BuyerID       string      `json:"buyer_id"`
	BuyerEmail    string      `json:"buyer_email"`
	ProductID     string      `json:"product_id"`
	ProductName   string      `json:"product_name"`
	ProductPrice  float64     `json:"product_price"`
	Currency      string      `json:"currency"`
	CreatorID     string      `json:"creator_id"`
	CreatorName   string      `json:"creator_name"`
	CreatorEmail  string      `json:"creator_email"`
	TotalAmount   float64     `json:"total_amount"`
	PlatformFee   float64     `json:"platform_fee"`
	SellerAmount  float64     `json:"seller_amount"`
	Status        OrderStatus `json:"status"`
	PayPalStatus  string      `json:"paypal_status"`
	RefundReason  string      `json:"refund_reason,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	CapturedAt    *time.Time  `json:"captured_at,omitempty"`
	RefundedAt    *time.Time  `json:"refunded_at,omitempty"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// CheckoutSpec is the caller-supplied input for creating a remote order.
type CheckoutSpec struct {
	ProductID    string
	ProductName  string
	ProductPrice float64
	Currency     string
	BuyerEmail   string
}

func ValidateCheckoutSpec(spec CheckoutSpec) error {
	if strings.TrimSpace(spec.ProductID) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(spec.ProductName) == "" {
		return ErrInvalidInput
	}
	if spec.ProductPrice <= 0 {
		return ErrInvalidInput
	}
	if strings.TrimSpace(spec.Currency) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(spec.BuyerEmail) == "" {
		return ErrInvalidInput
	}
	return nil
}

// CanCancel reports whether an order may transition to cancelled. Captured
// money cannot be cancelled, only refunded; re-cancelling is an idempotent no-op.
func (o Order) CanCancel() error {
	switch o.Status {
	case OrderStatusCompleted, OrderStatusRefunded:
		return ErrInvalidState
	default:
		return nil
	}
}

// CanRefund reports whether an order may transition to refunded.
func (o Order) CanRefund() error {
	if o.Status != OrderStatusCompleted {
		return ErrInvalidState
	}
	return nil
}
