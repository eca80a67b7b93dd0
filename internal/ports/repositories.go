package ports

import (
	"context"
	"time"

	"github.com/rbxassets/platform/services/payments/internal/contracts"
	"github.com/rbxassets/platform/services/payments/internal/domain"
)

// OrderQuery composes the equality filters the ledger store supports.
type OrderQuery struct {
	BuyerID   string
	CreatorID string
	ProductID string
	Status    domain.OrderStatus
}

type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) error
	Update(ctx context.Context, order domain.Order) error
	GetByID(ctx context.Context, orderID string) (domain.Order, error)
	GetByPayPalOrderID(ctx context.Context, paypalOrderID string) (domain.Order, error)
	// List returns matching orders newest first.
	List(ctx context.Context, query OrderQuery) ([]domain.Order, error)
}

type PayoutQuery struct {
	SellerID string
	Status   domain.PayoutStatus
}

type PayoutRepository interface {
	Create(ctx context.Context, payout domain.Payout) error
	Update(ctx context.Context, payout domain.Payout) error
	GetByID(ctx context.Context, payoutID string) (domain.Payout, error)
	GetByOrderID(ctx context.Context, orderID string) (domain.Payout, error)
	// List returns matching payouts newest first.
	List(ctx context.Context, query PayoutQuery) ([]domain.Payout, error)
	// ListPendingOldestFirst returns the seller's pending payouts in creation order.
	ListPendingOldestFirst(ctx context.Context, sellerID string) ([]domain.Payout, error)
}

// CaptureRepository stores the write-ahead capture records. Insert must be
// conditional on the remote order id being unseen; a second writer receives
// domain.ErrDuplicateCapture.
type CaptureRepository interface {
	Insert(ctx context.Context, record domain.CaptureRecord) error
	GetByPayPalOrderID(ctx context.Context, paypalOrderID string) (domain.CaptureRecord, error)
	MarkApplied(ctx context.Context, paypalOrderID string, at time.Time) error
	// ListUnapplied returns records without an applied stamp captured before the cutoff.
	ListUnapplied(ctx context.Context, before time.Time, limit int) ([]domain.CaptureRecord, error)
}

// ProductCounterRepository maintains the running sales counter and revenue
// accumulator per product. Increment is conditional on orderID not having been
// counted yet, so re-applying a capture never double-counts.
type ProductCounterRepository interface {
	Increment(ctx context.Context, productID, orderID string, revenue float64, at time.Time) error
}

type OutboxRecord struct {
	RecordID   string
	EventClass string
	Envelope   contracts.EventEnvelope
	CreatedAt  time.Time
	SentAt     *time.Time
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, record OutboxRecord) error
	ListPending(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkSent(ctx context.Context, recordID string, at time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, envelope contracts.EventEnvelope) error
}
