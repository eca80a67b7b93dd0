package application

import (
	"context"
	"strings"

	"github.com/rbxassets/platform/services/payments/internal/domain"
	"github.com/rbxassets/platform/services/payments/internal/ports"
)

// SellerEarnings derives the seller's rollup from orders and payouts. This is
// best-effort reporting: a store read failure degrades to a zero-valued summary
// with the error logged, never failing the caller's flow.
func (s *Service) SellerEarnings(ctx context.Context, actor Actor, sellerID string) (domain.EarningsSummary, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.EarningsSummary{}, domain.ErrUnauthorized
	}
	if !actor.isAdmin() && actor.SubjectID != sellerID {
		return domain.EarningsSummary{}, domain.ErrForbidden
	}
	summary := domain.EarningsSummary{SellerID: sellerID}

	orders, err := s.orders.List(ctx, ports.OrderQuery{CreatorID: sellerID})
	if err != nil {
		s.logEarningsDegraded(ctx, sellerID, "list_orders", err)
		return summary, nil
	}
	for _, order := range orders {
		if order.Status != domain.OrderStatusCompleted {
			continue
		}
		summary.TotalEarnings += order.SellerAmount
		summary.CompletedOrders++
	}

	payouts, err := s.payouts.List(ctx, ports.PayoutQuery{SellerID: sellerID})
	if err != nil {
		s.logEarningsDegraded(ctx, sellerID, "list_payouts", err)
		return domain.EarningsSummary{SellerID: sellerID}, nil
	}
	for _, payout := range payouts {
		switch payout.Status {
		case domain.PayoutStatusPending:
			summary.PendingPayouts++
		case domain.PayoutStatusCompleted:
			summary.CompletedPayouts++
		}
	}
	return summary, nil
}

// OrderStatistics computes the admin dashboard rollup across all orders and payouts.
func (s *Service) OrderStatistics(ctx context.Context, actor Actor) (domain.OrderStatistics, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.OrderStatistics{}, domain.ErrUnauthorized
	}
	if !actor.isAdmin() {
		return domain.OrderStatistics{}, domain.ErrForbidden
	}

	stats := domain.OrderStatistics{}
	orders, err := s.orders.List(ctx, ports.OrderQuery{})
	if err != nil {
		return domain.OrderStatistics{}, err
	}
	stats.TotalOrders = len(orders)
	for _, order := range orders {
		if order.Status != domain.OrderStatusCompleted {
			continue
		}
		stats.CompletedOrders++
		stats.TotalRevenue += order.TotalAmount
		stats.PlatformFees += order.PlatformFee
	}
	if stats.CompletedOrders > 0 {
		stats.AverageOrderValue = stats.TotalRevenue / float64(stats.CompletedOrders)
	}

	payouts, err := s.payouts.List(ctx, ports.PayoutQuery{})
	if err != nil {
		return domain.OrderStatistics{}, err
	}
	for _, payout := range payouts {
		if payout.Status == domain.PayoutStatusCompleted {
			stats.SellerPayouts += payout.Amount
		}
	}
	return stats, nil
}

func (s *Service) logEarningsDegraded(ctx context.Context, sellerID, operation string, err error) {
	s.logger.WarnContext(ctx, "earnings aggregation degraded to defaults",
		"module", "earnings",
		"operation", operation,
		"outcome", "degraded",
		"seller_id", sellerID,
		"error", err,
	)
}
