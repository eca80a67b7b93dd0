package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rbxassets/platform/services/payments/internal/contracts"
	"github.com/rbxassets/platform/services/payments/internal/domain"
	"github.com/rbxassets/platform/services/payments/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Orders   ports.OrderRepository
	Payouts  ports.PayoutRepository
	Captures ports.CaptureRepository
	Products ports.ProductCounterRepository
	Outbox   ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Orders:   &orderRepository{db: db},
		Payouts:  &payoutRepository{db: db},
		Captures: &captureRepository{db: db},
		Products: &productCounterRepository{db: db},
		Outbox:   &outboxRepository{db: db},
	}
}

type orderRepository struct {
	db *gorm.DB
}

func (r *orderRepository) Create(ctx context.Context, order domain.Order) error {
	rec, err := toOrderModel(order)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *orderRepository) Update(ctx context.Context, order domain.Order) error {
	rec, err := toOrderModel(order)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&orderModel{}).
		Where("order_id = ?", rec.OrderID).
		Updates(map[string]any{
			"status":        rec.Status,
			"paypal_status": rec.PayPalStatus,
			"refund_reason": rec.RefundReason,
			"captured_at":   rec.CapturedAt,
			"refunded_at":   rec.RefundedAt,
			"updated_at":    rec.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID string) (domain.Order, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return domain.Order{}, domain.ErrNotFound
	}
	var rec orderModel
	if err := r.db.WithContext(ctx).Where("order_id = ?", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, domain.ErrNotFound
		}
		return domain.Order{}, err
	}
	return toDomainOrder(rec), nil
}

func (r *orderRepository) GetByPayPalOrderID(ctx context.Context, paypalOrderID string) (domain.Order, error) {
	var rec orderModel
	if err := r.db.WithContext(ctx).Where("paypal_order_id = ?", paypalOrderID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, domain.ErrNotFound
		}
		return domain.Order{}, err
	}
	return toDomainOrder(rec), nil
}

func (r *orderRepository) List(ctx context.Context, query ports.OrderQuery) ([]domain.Order, error) {
	tx := r.db.WithContext(ctx).Model(&orderModel{})
	if query.BuyerID != "" {
		tx = tx.Where("buyer_id = ?", query.BuyerID)
	}
	if query.CreatorID != "" {
		tx = tx.Where("creator_id = ?", query.CreatorID)
	}
	if query.ProductID != "" {
		tx = tx.Where("product_id = ?", query.ProductID)
	}
	if query.Status != "" {
		tx = tx.Where("status = ?", string(query.Status))
	}
	var recs []orderModel
	if err := tx.Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomainOrder(rec))
	}
	return out, nil
}

type payoutRepository struct {
	db *gorm.DB
}

func (r *payoutRepository) Create(ctx context.Context, payout domain.Payout) error {
	rec, err := toPayoutModel(payout)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *payoutRepository) Update(ctx context.Context, payout domain.Payout) error {
	rec, err := toPayoutModel(payout)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&payoutModel{}).
		Where("payout_id = ?", rec.PayoutID).
		Updates(map[string]any{
			"status":           rec.Status,
			"paypal_payout_id": rec.PayPalPayoutID,
			"error_message":    rec.ErrorMessage,
			"completed_at":     rec.CompletedAt,
			"updated_at":       rec.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *payoutRepository) GetByID(ctx context.Context, payoutID string) (domain.Payout, error) {
	id, err := uuid.Parse(payoutID)
	if err != nil {
		return domain.Payout{}, domain.ErrNotFound
	}
	var rec payoutModel
	if err := r.db.WithContext(ctx).Where("payout_id = ?", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Payout{}, domain.ErrNotFound
		}
		return domain.Payout{}, err
	}
	return toDomainPayout(rec), nil
}

func (r *payoutRepository) GetByOrderID(ctx context.Context, orderID string) (domain.Payout, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return domain.Payout{}, domain.ErrNotFound
	}
	var rec payoutModel
	if err := r.db.WithContext(ctx).Where("order_id = ?", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Payout{}, domain.ErrNotFound
		}
		return domain.Payout{}, err
	}
	return toDomainPayout(rec), nil
}

func (r *payoutRepository) List(ctx context.Context, query ports.PayoutQuery) ([]domain.Payout, error) {
	tx := r.db.WithContext(ctx).Model(&payoutModel{})
	if query.SellerID != "" {
		tx = tx.Where("seller_id = ?", query.SellerID)
	}
	if query.Status != "" {
		tx = tx.Where("status = ?", string(query.Status))
	}
	var recs []payoutModel
	if err := tx.Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Payout, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomainPayout(rec))
	}
	return out, nil
}

func (r *payoutRepository) ListPendingOldestFirst(ctx context.Context, sellerID string) ([]domain.Payout, error) {
	var recs []payoutModel
	err := r.db.WithContext(ctx).
		Where("seller_id = ? AND status = ?", sellerID, string(domain.PayoutStatusPending)).
		Order("created_at ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Payout, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomainPayout(rec))
	}
	return out, nil
}

type captureRepository struct {
	db *gorm.DB
}

func (r *captureRepository) Insert(ctx context.Context, record domain.CaptureRecord) error {
	rec, err := toCaptureModel(record)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCapture
		}
		return err
	}
	return nil
}

func (r *captureRepository) GetByPayPalOrderID(ctx context.Context, paypalOrderID string) (domain.CaptureRecord, error) {
	var rec captureRecordModel
	if err := r.db.WithContext(ctx).Where("paypal_order_id = ?", paypalOrderID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CaptureRecord{}, domain.ErrNotFound
		}
		return domain.CaptureRecord{}, err
	}
	return toDomainCapture(rec)
}

func (r *captureRepository) MarkApplied(ctx context.Context, paypalOrderID string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&captureRecordModel{}).
		Where("paypal_order_id = ?", paypalOrderID).
		Update("applied_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *captureRepository) ListUnapplied(ctx context.Context, before time.Time, limit int) ([]domain.CaptureRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var recs []captureRecordModel
	err := r.db.WithContext(ctx).
		Where("applied_at IS NULL AND captured_at <= ?", before).
		Order("captured_at ASC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.CaptureRecord, 0, len(recs))
	for _, rec := range recs {
		record, convErr := toDomainCapture(rec)
		if convErr != nil {
			return nil, convErr
		}
		out = append(out, record)
	}
	return out, nil
}

type productCounterRepository struct {
	db *gorm.DB
}

// Increment records the counted order first; the unique entry key makes the
// whole operation idempotent for capture re-application.
func (r *productCounterRepository) Increment(ctx context.Context, productID, orderID string, revenue float64, at time.Time) error {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return fmt.Errorf("parse order id: %w", err)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry := productCounterEntryModel{OrderID: id, ProductID: productID, CountedAt: at}
		if err := tx.Create(&entry).Error; err != nil {
			if isUniqueViolation(err) {
				return nil
			}
			return err
		}
		result := tx.Model(&productCounterModel{}).
			Where("product_id = ?", productID).
			Updates(map[string]any{
				"sales":         gorm.Expr("sales + 1"),
				"total_revenue": gorm.Expr("total_revenue + ?", revenue),
				"updated_at":    at,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			counter := productCounterModel{ProductID: productID, Sales: 1, TotalRevenue: revenue, UpdatedAt: at}
			if err := tx.Create(&counter).Error; err != nil && !isUniqueViolation(err) {
				return err
			}
		}
		return nil
	})
}

type outboxRepository struct {
	db *gorm.DB
}

func (r *outboxRepository) Enqueue(ctx context.Context, record ports.OutboxRecord) error {
	id, err := uuid.Parse(record.RecordID)
	if err != nil {
		return fmt.Errorf("parse outbox record id: %w", err)
	}
	envelope, err := json.Marshal(record.Envelope)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	rec := outboxModel{
		RecordID:   id,
		EventClass: record.EventClass,
		Envelope:   envelope,
		CreatedAt:  record.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]ports.OutboxRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var recs []outboxModel
	err := r.db.WithContext(ctx).
		Where("sent_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]ports.OutboxRecord, 0, len(recs))
	for _, rec := range recs {
		var envelope contracts.EventEnvelope
		if err := json.Unmarshal(rec.Envelope, &envelope); err != nil {
			return nil, fmt.Errorf("unmarshal envelope %s: %w", rec.RecordID, err)
		}
		out = append(out, ports.OutboxRecord{
			RecordID:   rec.RecordID.String(),
			EventClass: rec.EventClass,
			Envelope:   envelope,
			CreatedAt:  rec.CreatedAt,
			SentAt:     rec.SentAt,
		})
	}
	return out, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, recordID string, at time.Time) error {
	id, err := uuid.Parse(recordID)
	if err != nil {
		return domain.ErrNotFound
	}
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("record_id = ?", id).
		Update("sent_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
