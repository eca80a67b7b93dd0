package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type orderModel struct {
	OrderID       uuid.UUID  `gorm:"column:order_id;type:uuid;primaryKey"`
	PayPalOrderID string     `gorm:"column:paypal_order_id"`
	BuyerID       string     `gorm:"column:buyer_id"`
	BuyerEmail    string     `gorm:"column:buyer_email"`
	ProductID     string     `gorm:"column:product_id"`
	ProductName   string     `gorm:"column:product_name"`
	ProductPrice  float64    `gorm:"column:product_price"`
	Currency      string     `gorm:"column:currency"`
	CreatorID     string     `gorm:"column:creator_id"`
	CreatorName   string     `gorm:"column:creator_name"`
	CreatorEmail  string     `gorm:"column:creator_email"`
	TotalAmount   float64    `gorm:"column:total_amount"`
	PlatformFee   float64    `gorm:"column:platform_fee"`
	SellerAmount  float64    `gorm:"column:seller_amount"`
	Status        string     `gorm:"column:status"`
	PayPalStatus  string     `gorm:"column:paypal_status"`
	RefundReason  string     `gorm:"column:refund_reason"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	CapturedAt    *time.Time `gorm:"column:captured_at"`
	RefundedAt    *time.Time `gorm:"column:refunded_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (orderModel) TableName() string { return "payment_orders" }

type payoutModel struct {
	PayoutID       uuid.UUID  `gorm:"column:payout_id;type:uuid;primaryKey"`
	OrderID        uuid.UUID  `gorm:"column:order_id"`
	SellerID       string     `gorm:"column:seller_id"`
	SellerEmail    string     `gorm:"column:seller_email"`
	Amount         float64    `gorm:"column:amount"`
	Currency       string     `gorm:"column:currency"`
	PayPalPayoutID string     `gorm:"column:paypal_payout_id"`
	Status         string     `gorm:"column:status"`
	ErrorMessage   string     `gorm:"column:error_message"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	CompletedAt    *time.Time `gorm:"column:completed_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (payoutModel) TableName() string { return "payouts" }

type captureRecordModel struct {
	PayPalOrderID string         `gorm:"column:paypal_order_id;primaryKey"`
	OrderID       uuid.UUID      `gorm:"column:order_id"`
	Context       datatypes.JSON `gorm:"column:context;type:jsonb"`
	TotalAmount   float64        `gorm:"column:total_amount"`
	PlatformFee   float64        `gorm:"column:platform_fee"`
	SellerAmount  float64        `gorm:"column:seller_amount"`
	PayPalStatus  string         `gorm:"column:paypal_status"`
	CapturedAt    time.Time      `gorm:"column:captured_at"`
	AppliedAt     *time.Time     `gorm:"column:applied_at"`
}

func (captureRecordModel) TableName() string { return "capture_records" }

type productCounterModel struct {
	ProductID    string    `gorm:"column:product_id;primaryKey"`
	Sales        int64     `gorm:"column:sales"`
	TotalRevenue float64   `gorm:"column:total_revenue"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (productCounterModel) TableName() string { return "product_counters" }

type productCounterEntryModel struct {
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;primaryKey"`
	ProductID string    `gorm:"column:product_id"`
	CountedAt time.Time `gorm:"column:counted_at"`
}

func (productCounterEntryModel) TableName() string { return "product_counter_entries" }

type outboxModel struct {
	RecordID   uuid.UUID      `gorm:"column:record_id;type:uuid;primaryKey"`
	EventClass string         `gorm:"column:event_class"`
	Envelope   datatypes.JSON `gorm:"column:envelope;type:jsonb"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	SentAt     *time.Time     `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string { return "payment_outbox" }
