package application

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rbxassets/platform/services/payments/internal/contracts"
	"github.com/rbxassets/platform/services/payments/internal/domain"
	"github.com/rbxassets/platform/services/payments/internal/ports"
)

func (s *Service) enqueueOrderCaptured(ctx context.Context, order domain.Order) error {
	return s.enqueueEvent(ctx, domain.EventOrderCaptured, order.OrderID, map[string]any{
		"order_id":        order.OrderID,
		"paypal_order_id": order.PayPalOrderID,
		"buyer_id":        order.BuyerID,
		"creator_id":      order.CreatorID,
		"product_id":      order.ProductID,
		"total_amount":    order.TotalAmount,
		"platform_fee":    order.PlatformFee,
		"seller_amount":   order.SellerAmount,
		"currency":        order.Currency,
	})
}

func (s *Service) enqueueOrderCancelled(ctx context.Context, order domain.Order) error {
	return s.enqueueEvent(ctx, domain.EventOrderCancelled, order.OrderID, map[string]any{
		"order_id": order.OrderID,
		"buyer_id": order.BuyerID,
	})
}

func (s *Service) enqueueOrderRefunded(ctx context.Context, order domain.Order) error {
	return s.enqueueEvent(ctx, domain.EventOrderRefunded, order.OrderID, map[string]any{
		"order_id":      order.OrderID,
		"buyer_id":      order.BuyerID,
		"refund_reason": order.RefundReason,
		"total_amount":  order.TotalAmount,
	})
}

func (s *Service) enqueuePayoutDispatched(ctx context.Context, payout domain.Payout) error {
	return s.enqueueEvent(ctx, domain.EventPayoutDispatched, payout.PayoutID, map[string]any{
		"payout_id":        payout.PayoutID,
		"order_id":         payout.OrderID,
		"seller_id":        payout.SellerID,
		"amount":           payout.Amount,
		"currency":         payout.Currency,
		"paypal_payout_id": payout.PayPalPayoutID,
	})
}

func (s *Service) enqueuePayoutFailed(ctx context.Context, payout domain.Payout) error {
	return s.enqueueEvent(ctx, domain.EventPayoutFailed, payout.PayoutID, map[string]any{
		"payout_id":     payout.PayoutID,
		"order_id":      payout.OrderID,
		"seller_id":     payout.SellerID,
		"amount":        payout.Amount,
		"error_message": payout.ErrorMessage,
	})
}

// partitionKeyPath names the payload field consumers key ordering on. Order
// events partition by order, payout events by payout.
func partitionKeyPath(eventType string) string {
	switch eventType {
	case domain.EventPayoutDispatched, domain.EventPayoutFailed:
		return "data.payout_id"
	default:
		return "data.order_id"
	}
}

func (s *Service) enqueueEvent(ctx context.Context, eventType, partitionKey string, data map[string]any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	now := s.nowFn()
	return s.outbox.Enqueue(ctx, ports.OutboxRecord{
		RecordID:   uuid.NewString(),
		EventClass: domain.CanonicalEventClass(eventType),
		Envelope: contracts.EventEnvelope{
			EventID:          uuid.NewString(),
			EventType:        eventType,
			EventClass:       domain.CanonicalEventClass(eventType),
			OccurredAt:       now,
			PartitionKeyPath: partitionKeyPath(eventType),
			PartitionKey:     partitionKey,
			SourceService:    s.cfg.ServiceName,
			SchemaVersion:    "v1",
			Data:             payload,
		},
		CreatedAt: now,
	})
}

// FlushOutbox publishes pending outbox records and marks them sent. The worker
// runs the same flush on a ticker for records left behind by failed requests.
func (s *Service) FlushOutbox(ctx context.Context) error {
	records, err := s.outbox.ListPending(ctx, s.cfg.OutboxFlushBatchSize)
	if err != nil {
		return fmt.Errorf("list pending outbox: %w", err)
	}
	for _, record := range records {
		if err := s.publisher.Publish(ctx, record.Envelope); err != nil {
			return fmt.Errorf("publish event %s: %w", record.Envelope.EventType, err)
		}
		if err := s.outbox.MarkSent(ctx, record.RecordID, s.nowFn()); err != nil {
			return fmt.Errorf("mark outbox sent: %w", err)
		}
	}
	return nil
}
