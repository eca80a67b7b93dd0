package application

import (
	"context"
	"strings"

	"github.com/rbxassets/platform/services/payments/internal/domain"
	"github.com/rbxassets/platform/services/payments/internal/ports"
)

func (s *Service) GetOrder(ctx context.Context, actor Actor, orderID string) (domain.Order, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Order{}, domain.ErrUnauthorized
	}
	order, err := s.orders.GetByID(ctx, strings.TrimSpace(orderID))
	if err != nil {
		return domain.Order{}, err
	}
	if !actor.isAdmin() && actor.SubjectID != order.BuyerID && actor.SubjectID != order.CreatorID {
		return domain.Order{}, domain.ErrForbidden
	}
	return order, nil
}

// ListBuyerOrders returns the buyer's orders, newest first.
func (s *Service) ListBuyerOrders(ctx context.Context, actor Actor, buyerID string) ([]domain.Order, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return nil, domain.ErrUnauthorized
	}
	if !actor.isAdmin() && actor.SubjectID != buyerID {
		return nil, domain.ErrForbidden
	}
	return s.orders.List(ctx, ports.OrderQuery{BuyerID: buyerID})
}

// ListSellerOrders returns the seller's orders, newest first.
func (s *Service) ListSellerOrders(ctx context.Context, actor Actor, sellerID string) ([]domain.Order, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return nil, domain.ErrUnauthorized
	}
	if !actor.isAdmin() && actor.SubjectID != sellerID {
		return nil, domain.ErrForbidden
	}
	return s.orders.List(ctx, ports.OrderQuery{CreatorID: sellerID})
}

// HasPurchased reports whether the buyer holds a completed order for the product.
func (s *Service) HasPurchased(ctx context.Context, actor Actor, buyerID, productID string) (bool, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return false, domain.ErrUnauthorized
	}
	if !actor.isAdmin() && actor.SubjectID != buyerID {
		return false, domain.ErrForbidden
	}
	orders, err := s.orders.List(ctx, ports.OrderQuery{
		BuyerID:   buyerID,
		ProductID: productID,
		Status:    domain.OrderStatusCompleted,
	})
	if err != nil {
		return false, err
	}
	return len(orders) > 0, nil
}

// CancelOrder moves a not-yet-captured order to cancelled. Cancelling an
// already-cancelled order is an idempotent no-op; a completed order can only
// be refunded.
func (s *Service) CancelOrder(ctx context.Context, actor Actor, orderID string) (domain.Order, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Order{}, domain.ErrUnauthorized
	}
	order, err := s.orders.GetByID(ctx, strings.TrimSpace(orderID))
	if err != nil {
		return domain.Order{}, err
	}
	if !actor.isAdmin() && actor.SubjectID != order.BuyerID {
		return domain.Order{}, domain.ErrForbidden
	}
	if order.Status == domain.OrderStatusCancelled {
		return order, nil
	}
	if err := order.CanCancel(); err != nil {
		return domain.Order{}, err
	}
	order.Status = domain.OrderStatusCancelled
	order.UpdatedAt = s.nowFn()
	if err := s.orders.Update(ctx, order); err != nil {
		return domain.Order{}, err
	}
	if err := s.enqueueOrderCancelled(ctx, order); err != nil {
		return domain.Order{}, err
	}
	if err := s.FlushOutbox(ctx); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// RefundOrder marks a completed order refunded. Only local state changes here;
// the gateway's reverse transaction is driven by a separate operator process.
func (s *Service) RefundOrder(ctx context.Context, actor Actor, orderID, reason string) (domain.Order, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Order{}, domain.ErrUnauthorized
	}
	if !actor.isAdmin() {
		return domain.Order{}, domain.ErrForbidden
	}
	order, err := s.orders.GetByID(ctx, strings.TrimSpace(orderID))
	if err != nil {
		return domain.Order{}, err
	}
	if err := order.CanRefund(); err != nil {
		return domain.Order{}, err
	}
	now := s.nowFn()
	order.Status = domain.OrderStatusRefunded
	order.RefundReason = strings.TrimSpace(reason)
	order.RefundedAt = &now
	order.UpdatedAt = now
	if err := s.orders.Update(ctx, order); err != nil {
		return domain.Order{}, err
	}
	if err := s.enqueueOrderRefunded(ctx, order); err != nil {
		return domain.Order{}, err
	}
	if err := s.FlushOutbox(ctx); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}
