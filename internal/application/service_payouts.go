package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/rbxassets/platform/services/payments/internal/domain"
	"github.com/rbxassets/platform/services/payments/internal/ports"
)

// DispatchResult reports the outcome of a dispatched payout batch.
type DispatchResult struct {
	BatchID  string  `json:"batch_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Stamped  int     `json:"stamped"`
}

// DispatchPayout submits a single-item batch payout for a seller. The set of
// local payouts the batch settles is fixed as an explicit manifest before the
// gateway call: the seller's pending payouts, oldest first, each no larger than
// the dispatched amount.
func (s *Service) DispatchPayout(ctx context.Context, actor Actor, input DispatchPayoutInput) (DispatchResult, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return DispatchResult{}, domain.ErrUnauthorized
	}
	if !actor.isAdmin() {
		return DispatchResult{}, domain.ErrForbidden
	}
	input.SellerID = strings.TrimSpace(input.SellerID)
	input.SellerEmail = strings.TrimSpace(input.SellerEmail)
	if input.SellerID == "" || input.SellerEmail == "" {
		return DispatchResult{}, domain.ErrInvalidInput
	}
	if input.Amount < domain.MinimumPayoutAmount {
		return DispatchResult{}, domain.ErrInvalidInput
	}
	if input.Currency == "" {
		input.Currency = s.cfg.DefaultCurrency
	}

	pending, err := s.payouts.ListPendingOldestFirst(ctx, input.SellerID)
	if err != nil {
		return DispatchResult{}, fmt.Errorf("list pending payouts: %w", err)
	}
	manifest := make([]domain.Payout, 0, len(pending))
	for _, payout := range pending {
		if payout.Amount <= input.Amount {
			manifest = append(manifest, payout)
		}
	}

	now := s.nowFn()
	batchID := fmt.Sprintf("batch-%d-%s", now.UnixMilli(), input.SellerID)
	result, err := s.gateway.CreateRemotePayout(ctx, ports.RemotePayoutSpec{
		BatchID:        batchID,
		RecipientEmail: input.SellerEmail,
		Amount:         input.Amount,
		Currency:       input.Currency,
		Note:           "Seller earnings from RbxAssets",
		SenderItemID:   fmt.Sprintf("item-%s-%d", input.SellerID, now.UnixMilli()),
	})
	if err != nil {
		return DispatchResult{}, s.failOldestPending(ctx, input.SellerID, err)
	}
	return s.stampManifest(ctx, manifest, result.BatchID, input.Amount, input.Currency)
}

// DispatchPayoutBatch settles exactly the named pending payouts in one batch.
// This is the manifest-exact dispatch path: no amount heuristic, no ambiguity
// when a seller holds several pending payouts of different sizes.
func (s *Service) DispatchPayoutBatch(ctx context.Context, actor Actor, payoutIDs []string) (DispatchResult, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return DispatchResult{}, domain.ErrUnauthorized
	}
	if !actor.isAdmin() {
		return DispatchResult{}, domain.ErrForbidden
	}
	if len(payoutIDs) == 0 {
		return DispatchResult{}, domain.ErrInvalidInput
	}

	manifest := make([]domain.Payout, 0, len(payoutIDs))
	seen := make(map[string]bool, len(payoutIDs))
	var sellerID, sellerEmail, currency string
	var total float64
	for _, id := range payoutIDs {
		id = strings.TrimSpace(id)
		if seen[id] {
			continue
		}
		seen[id] = true
		payout, err := s.payouts.GetByID(ctx, id)
		if err != nil {
			return DispatchResult{}, err
		}
		if payout.Status != domain.PayoutStatusPending {
			return DispatchResult{}, domain.ErrInvalidState
		}
		if sellerID == "" {
			sellerID, sellerEmail, currency = payout.SellerID, payout.SellerEmail, payout.Currency
		} else if payout.SellerID != sellerID || payout.Currency != currency {
			return DispatchResult{}, domain.ErrInvalidInput
		}
		total += payout.Amount
		manifest = append(manifest, payout)
	}
	if total < domain.MinimumPayoutAmount {
		return DispatchResult{}, domain.ErrInvalidInput
	}

	now := s.nowFn()
	batchID := fmt.Sprintf("batch-%d-%s", now.UnixMilli(), sellerID)
	result, err := s.gateway.CreateRemotePayout(ctx, ports.RemotePayoutSpec{
		BatchID:        batchID,
		RecipientEmail: sellerEmail,
		Amount:         total,
		Currency:       currency,
		Note:           "Seller earnings from RbxAssets",
		SenderItemID:   fmt.Sprintf("item-%s-%d", sellerID, now.UnixMilli()),
	})
	if err != nil {
		return DispatchResult{}, s.failOldestPending(ctx, sellerID, err)
	}
	return s.stampManifest(ctx, manifest, result.BatchID, total, currency)
}

// CompletePayout records the remote batch settling a processing payout.
func (s *Service) CompletePayout(ctx context.Context, actor Actor, payoutID string) (domain.Payout, error) {
	return s.finishPayout(ctx, actor, payoutID, domain.PayoutStatusCompleted, "")
}

// FailPayout records a remote batch failure against a processing payout.
func (s *Service) FailPayout(ctx context.Context, actor Actor, payoutID, message string) (domain.Payout, error) {
	if strings.TrimSpace(message) == "" {
		return domain.Payout{}, domain.ErrInvalidInput
	}
	return s.finishPayout(ctx, actor, payoutID, domain.PayoutStatusFailed, message)
}

// ListSellerPayouts returns the seller's payouts, newest first.
func (s *Service) ListSellerPayouts(ctx context.Context, actor Actor, sellerID string) ([]domain.Payout, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return nil, domain.ErrUnauthorized
	}
	if !actor.isAdmin() && actor.SubjectID != sellerID {
		return nil, domain.ErrForbidden
	}
	return s.payouts.List(ctx, ports.PayoutQuery{SellerID: sellerID})
}

func (s *Service) finishPayout(ctx context.Context, actor Actor, payoutID string, status domain.PayoutStatus, message string) (domain.Payout, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Payout{}, domain.ErrUnauthorized
	}
	if !actor.isAdmin() {
		return domain.Payout{}, domain.ErrForbidden
	}
	payout, err := s.payouts.GetByID(ctx, strings.TrimSpace(payoutID))
	if err != nil {
		return domain.Payout{}, err
	}
	if payout.Status != domain.PayoutStatusProcessing {
		return domain.Payout{}, domain.ErrInvalidState
	}
	now := s.nowFn()
	payout.Status = status
	payout.UpdatedAt = now
	if status == domain.PayoutStatusCompleted {
		payout.CompletedAt = &now
	} else {
		payout.ErrorMessage = message
	}
	if err := s.payouts.Update(ctx, payout); err != nil {
		return domain.Payout{}, err
	}
	return payout, nil
}

// failOldestPending marks the seller's single oldest pending payout failed with
// the gateway's message and surfaces the rejection to the caller. All other
// pending payouts for the seller stay pending.
func (s *Service) failOldestPending(ctx context.Context, sellerID string, gatewayErr error) error {
	payoutErr := &domain.PayoutError{GatewayMessage: gatewayErr.Error()}

	pending, err := s.payouts.ListPendingOldestFirst(ctx, sellerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "pending payout lookup failed after gateway rejection",
			"module", "payouts",
			"operation", "fail_oldest_pending",
			"outcome", "failure",
			"seller_id", sellerID,
			"error", err,
		)
		return payoutErr
	}
	if len(pending) == 0 {
		return payoutErr
	}
	oldest := pending[0]
	oldest.Status = domain.PayoutStatusFailed
	oldest.ErrorMessage = gatewayErr.Error()
	oldest.UpdatedAt = s.nowFn()
	if err := s.payouts.Update(ctx, oldest); err != nil {
		return payoutErr
	}
	if err := s.enqueuePayoutFailed(ctx, oldest); err == nil {
		_ = s.FlushOutbox(ctx)
	}
	return payoutErr
}

func (s *Service) stampManifest(ctx context.Context, manifest []domain.Payout, batchID string, amount float64, currency string) (DispatchResult, error) {
	now := s.nowFn()
	stamped := 0
	for _, payout := range manifest {
		payout.Status = domain.PayoutStatusProcessing
		payout.PayPalPayoutID = batchID
		payout.UpdatedAt = now
		if err := s.payouts.Update(ctx, payout); err != nil {
			return DispatchResult{}, fmt.Errorf("stamp payout %s: %w", payout.PayoutID, err)
		}
		if err := s.enqueuePayoutDispatched(ctx, payout); err != nil {
			return DispatchResult{}, err
		}
		stamped++
	}
	if err := s.FlushOutbox(ctx); err != nil {
		return DispatchResult{}, err
	}
	return DispatchResult{
		BatchID:  batchID,
		Amount:   amount,
		Currency: currency,
		Stamped:  stamped,
	}, nil
}
