package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rbxassets/platform/services/payments/internal/domain"
	"github.com/rbxassets/platform/services/payments/internal/ports"
)

// Repositories is the in-memory ledger store used by tests and the local runtime.
type Repositories struct {
	Orders   *OrderRepository
	Payouts  *PayoutRepository
	Captures *CaptureRepository
	Products *ProductCounterRepository
	Outbox   *OutboxRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		Orders:   &OrderRepository{orders: make(map[string]domain.Order)},
		Payouts:  &PayoutRepository{payouts: make(map[string]domain.Payout), byOrder: make(map[string]string)},
		Captures: &CaptureRepository{records: make(map[string]domain.CaptureRecord)},
		Products: &ProductCounterRepository{counters: make(map[string]ProductCounter), counted: make(map[string]bool)},
		Outbox:   &OutboxRepository{records: make(map[string]ports.OutboxRecord)},
	}
}

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
	seq    []string

	// WriteCount tracks mutations so tests can assert no-write guarantees.
	WriteCount int
}

func (r *OrderRepository) Create(_ context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.OrderID]; ok {
		return domain.ErrConflict
	}
	for _, existing := range r.orders {
		if existing.PayPalOrderID != "" && existing.PayPalOrderID == order.PayPalOrderID {
			return domain.ErrConflict
		}
	}
	r.orders[order.OrderID] = order
	r.seq = append(r.seq, order.OrderID)
	r.WriteCount++
	return nil
}

func (r *OrderRepository) Update(_ context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.OrderID]; !ok {
		return domain.ErrNotFound
	}
	r.orders[order.OrderID] = order
	r.WriteCount++
	return nil
}

func (r *OrderRepository) GetByID(_ context.Context, orderID string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	return order, nil
}

func (r *OrderRepository) GetByPayPalOrderID(_ context.Context, paypalOrderID string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, order := range r.orders {
		if order.PayPalOrderID == paypalOrderID {
			return order, nil
		}
	}
	return domain.Order{}, domain.ErrNotFound
}

func (r *OrderRepository) List(_ context.Context, query ports.OrderQuery) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if query.BuyerID != "" && order.BuyerID != query.BuyerID {
			continue
		}
		if query.CreatorID != "" && order.CreatorID != query.CreatorID {
			continue
		}
		if query.ProductID != "" && order.ProductID != query.ProductID {
			continue
		}
		if query.Status != "" && order.Status != query.Status {
			continue
		}
		items = append(items, order)
	}
	slices.SortFunc(items, func(a, b domain.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return items, nil
}

type PayoutRepository struct {
	mu      sync.RWMutex
	payouts map[string]domain.Payout
	byOrder map[string]string
	seq     []string
}

func (r *PayoutRepository) Create(_ context.Context, payout domain.Payout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payouts[payout.PayoutID]; ok {
		return domain.ErrConflict
	}
	if _, ok := r.byOrder[payout.OrderID]; ok {
		return domain.ErrConflict
	}
	r.payouts[payout.PayoutID] = payout
	r.byOrder[payout.OrderID] = payout.PayoutID
	r.seq = append(r.seq, payout.PayoutID)
	return nil
}

func (r *PayoutRepository) Update(_ context.Context, payout domain.Payout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payouts[payout.PayoutID]; !ok {
		return domain.ErrNotFound
	}
	r.payouts[payout.PayoutID] = payout
	return nil
}

func (r *PayoutRepository) GetByID(_ context.Context, payoutID string) (domain.Payout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	payout, ok := r.payouts[payoutID]
	if !ok {
		return domain.Payout{}, domain.ErrNotFound
	}
	return payout, nil
}

func (r *PayoutRepository) GetByOrderID(_ context.Context, orderID string) (domain.Payout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	payoutID, ok := r.byOrder[orderID]
	if !ok {
		return domain.Payout{}, domain.ErrNotFound
	}
	return r.payouts[payoutID], nil
}

func (r *PayoutRepository) List(_ context.Context, query ports.PayoutQuery) ([]domain.Payout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]domain.Payout, 0, len(r.payouts))
	for _, payout := range r.payouts {
		if query.SellerID != "" && payout.SellerID != query.SellerID {
			continue
		}
		if query.Status != "" && payout.Status != query.Status {
			continue
		}
		items = append(items, payout)
	}
	slices.SortFunc(items, func(a, b domain.Payout) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return items, nil
}

func (r *PayoutRepository) ListPendingOldestFirst(_ context.Context, sellerID string) ([]domain.Payout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]domain.Payout, 0)
	for _, id := range r.seq {
		payout := r.payouts[id]
		if payout.SellerID != sellerID || payout.Status != domain.PayoutStatusPending {
			continue
		}
		items = append(items, payout)
	}
	slices.SortFunc(items, func(a, b domain.Payout) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return items, nil
}

type CaptureRepository struct {
	mu      sync.Mutex
	records map[string]domain.CaptureRecord
}

func (r *CaptureRepository) Insert(_ context.Context, record domain.CaptureRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[record.PayPalOrderID]; ok {
		return domain.ErrDuplicateCapture
	}
	r.records[record.PayPalOrderID] = record
	return nil
}

func (r *CaptureRepository) GetByPayPalOrderID(_ context.Context, paypalOrderID string) (domain.CaptureRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[paypalOrderID]
	if !ok {
		return domain.CaptureRecord{}, domain.ErrNotFound
	}
	return record, nil
}

func (r *CaptureRepository) MarkApplied(_ context.Context, paypalOrderID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[paypalOrderID]
	if !ok {
		return domain.ErrNotFound
	}
	record.AppliedAt = &at
	r.records[paypalOrderID] = record
	return nil
}

func (r *CaptureRepository) ListUnapplied(_ context.Context, before time.Time, limit int) ([]domain.CaptureRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.CaptureRecord, 0)
	for _, record := range r.records {
		if record.AppliedAt != nil || record.CapturedAt.After(before) {
			continue
		}
		out = append(out, record)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

type ProductCounter struct {
	Sales        int
	TotalRevenue float64
}

type ProductCounterRepository struct {
	mu       sync.Mutex
	counters map[string]ProductCounter
	counted  map[string]bool
}

func (r *ProductCounterRepository) Increment(_ context.Context, productID, orderID string, revenue float64, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counted[orderID] {
		return nil
	}
	counter := r.counters[productID]
	counter.Sales++
	counter.TotalRevenue += revenue
	r.counters[productID] = counter
	r.counted[orderID] = true
	return nil
}

func (r *ProductCounterRepository) Counter(productID string) ProductCounter {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[productID]
}

type OutboxRepository struct {
	mu      sync.Mutex
	records map[string]ports.OutboxRecord
	seq     []string
}

func (r *OutboxRepository) Enqueue(_ context.Context, record ports.OutboxRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.RecordID] = record
	r.seq = append(r.seq, record.RecordID)
	return nil
}

func (r *OutboxRepository) ListPending(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	out := make([]ports.OutboxRecord, 0, limit)
	for _, id := range r.seq {
		record, ok := r.records[id]
		if !ok || record.SentAt != nil {
			continue
		}
		out = append(out, record)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *OutboxRepository) MarkSent(_ context.Context, recordID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[recordID]
	if !ok {
		return domain.ErrNotFound
	}
	record.SentAt = &at
	r.records[recordID] = record
	return nil
}
