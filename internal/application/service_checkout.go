package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rbxassets/platform/services/payments/internal/domain"
	"github.com/rbxassets/platform/services/payments/internal/ports"
)

const gatewayStatusCompleted = "COMPLETED"

// CreateOrder validates the checkout input and creates a remote order at the
// gateway. Nothing is written to the ledger store; an abandoned checkout leaves
// no local trace.
func (s *Service) CreateOrder(ctx context.Context, actor Actor, input CheckoutInput) (ports.RemoteOrder, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return ports.RemoteOrder{}, domain.ErrUnauthorized
	}
	if input.Currency == "" {
		input.Currency = s.cfg.DefaultCurrency
	}
	spec := domain.CheckoutSpec{
		ProductID:    strings.TrimSpace(input.ProductID),
		ProductName:  strings.TrimSpace(input.ProductName),
		ProductPrice: input.ProductPrice,
		Currency:     strings.TrimSpace(input.Currency),
		BuyerEmail:   strings.TrimSpace(input.BuyerEmail),
	}
	if err := domain.ValidateCheckoutSpec(spec); err != nil {
		return ports.RemoteOrder{}, err
	}
	remote, err := s.gateway.CreateRemoteOrder(ctx, ports.RemoteOrderSpec{
		ReferenceID: spec.ProductID,
		Description: spec.ProductName,
		Amount:      spec.ProductPrice,
		Currency:    spec.Currency,
		PayerEmail:  spec.BuyerEmail,
	})
	if err != nil {
		return ports.RemoteOrder{}, fmt.Errorf("create remote order: %w", err)
	}
	return remote, nil
}

// CaptureOrder captures the approved remote order and derives the local ledger
// state from a write-ahead capture record. The record insert is keyed uniquely
// by the remote order id, so a concurrent second capture writer is rejected
// with ErrDuplicateCapture instead of writing a duplicate Order/Payout pair.
func (s *Service) CaptureOrder(ctx context.Context, actor Actor, paypalOrderID string, captureCtx domain.CaptureContext) (domain.Order, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Order{}, domain.ErrUnauthorized
	}
	if !actor.isAdmin() && actor.SubjectID != captureCtx.BuyerID {
		return domain.Order{}, domain.ErrForbidden
	}
	paypalOrderID = strings.TrimSpace(paypalOrderID)
	if paypalOrderID == "" {
		return domain.Order{}, domain.ErrInvalidInput
	}
	if captureCtx.Currency == "" {
		captureCtx.Currency = s.cfg.DefaultCurrency
	}
	if err := domain.ValidateCaptureContext(captureCtx); err != nil {
		return domain.Order{}, err
	}

	result, err := s.gateway.CaptureRemoteOrder(ctx, paypalOrderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("capture remote order: %w", err)
	}
	if result.Status != gatewayStatusCompleted {
		return domain.Order{}, &domain.DeclinedError{GatewayStatus: result.Status}
	}

	record := domain.CaptureRecord{
		PayPalOrderID: paypalOrderID,
		OrderID:       uuid.NewString(),
		Context:       captureCtx,
		Split:         domain.SplitRevenue(captureCtx.ProductPrice, s.cfg.PlatformFeeRate),
		PayPalStatus:  result.Status,
		CapturedAt:    s.nowFn(),
	}
	if err := s.captures.Insert(ctx, record); err != nil {
		return domain.Order{}, err
	}
	return s.applyCapture(ctx, record)
}

// applyCapture derives Order, Payout and product counter updates from a capture
// record. Every write is safe to re-run; a partial failure leaves the record
// unapplied for the reconciler, which re-runs this step without re-capturing.
func (s *Service) applyCapture(ctx context.Context, record domain.CaptureRecord) (domain.Order, error) {
	order := orderFromCapture(record)
	if err := s.orders.Create(ctx, order); err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			return domain.Order{}, fmt.Errorf("write order: %w", err)
		}
		existing, getErr := s.orders.GetByID(ctx, record.OrderID)
		if getErr != nil {
			return domain.Order{}, fmt.Errorf("reload order: %w", getErr)
		}
		order = existing
	}

	payout := payoutFromCapture(record)
	if err := s.payouts.Create(ctx, payout); err != nil && !errors.Is(err, domain.ErrConflict) {
		return domain.Order{}, fmt.Errorf("write payout: %w", err)
	}

	if err := s.products.Increment(ctx, record.Context.ProductID, record.OrderID, record.Split.SellerAmount, record.CapturedAt); err != nil {
		return domain.Order{}, fmt.Errorf("increment product counters: %w", err)
	}

	if err := s.enqueueOrderCaptured(ctx, order); err != nil {
		return domain.Order{}, err
	}
	if err := s.captures.MarkApplied(ctx, record.PayPalOrderID, s.nowFn()); err != nil {
		return domain.Order{}, fmt.Errorf("mark capture applied: %w", err)
	}
	if err := s.FlushOutbox(ctx); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func orderFromCapture(record domain.CaptureRecord) domain.Order {
	capturedAt := record.CapturedAt
	return domain.Order{
		OrderID:       record.OrderID,
		PayPalOrderID: record.PayPalOrderID,
		BuyerID:       record.Context.BuyerID,
		BuyerEmail:    record.Context.BuyerEmail,
		ProductID:     record.Context.ProductID,
		ProductName:   record.Context.ProductName,
		ProductPrice:  record.Split.TotalAmount,
		Currency:      record.Context.Currency,
		CreatorID:     record.Context.CreatorID,
		CreatorName:   record.Context.CreatorName,
		CreatorEmail:  record.Context.CreatorEmail,
		TotalAmount:   record.Split.TotalAmount,
		PlatformFee:   record.Split.PlatformFee,
		SellerAmount:  record.Split.SellerAmount,
		Status:        domain.OrderStatusCompleted,
		PayPalStatus:  record.PayPalStatus,
		CreatedAt:     capturedAt,
		CapturedAt:    &capturedAt,
		UpdatedAt:     capturedAt,
	}
}

func payoutFromCapture(record domain.CaptureRecord) domain.Payout {
	return domain.Payout{
		PayoutID:    uuid.NewString(),
		OrderID:     record.OrderID,
		SellerID:    record.Context.CreatorID,
		SellerEmail: record.Context.CreatorEmail,
		Amount:      record.Split.SellerAmount,
		Currency:    record.Context.Currency,
		Status:      domain.PayoutStatusPending,
		CreatedAt:   record.CapturedAt,
		UpdatedAt:   record.CapturedAt,
	}
}

// RepairCaptures re-applies derivations for capture records that never
// completed their write sequence. Money already moved at the gateway for these,
// so repair never re-captures, only re-derives.
func (s *Service) RepairCaptures(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = 50
	}
	cutoff := s.nowFn().Add(-s.cfg.ReconcileGrace)
	records, err := s.captures.ListUnapplied(ctx, cutoff, limit)
	if err != nil {
		return 0, fmt.Errorf("list unapplied captures: %w", err)
	}
	repaired := 0
	for _, record := range records {
		if _, err := s.applyCapture(ctx, record); err != nil {
			s.logger.ErrorContext(ctx, "capture repair failed",
				"module", "reconciler",
				"operation", "repair_capture",
				"outcome", "failure",
				"paypal_order_id", record.PayPalOrderID,
				"error", err,
			)
			continue
		}
		repaired++
	}
	return repaired, nil
}
