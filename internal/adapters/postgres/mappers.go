package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rbxassets/platform/services/payments/internal/domain"
)

func toOrderModel(order domain.Order) (orderModel, error) {
	id, err := uuid.Parse(order.OrderID)
	if err != nil {
		return orderModel{}, fmt.Errorf("parse order id: %w", err)
	}
	return orderModel{
		OrderID:       id,
		PayPalOrderID: order.PayPalOrderID,
		BuyerID:       order.BuyerID,
		BuyerEmail:    order.BuyerEmail,
		ProductID:     order.ProductID,
		ProductName:   order.ProductName,
		ProductPrice:  order.ProductPrice,
		Currency:      order.Currency,
		CreatorID:     order.CreatorID,
		CreatorName:   order.CreatorName,
		CreatorEmail:  order.CreatorEmail,
		TotalAmount:   order.TotalAmount,
		PlatformFee:   order.PlatformFee,
		SellerAmount:  order.SellerAmount,
		Status:        string(order.Status),
		PayPalStatus:  order.PayPalStatus,
		RefundReason:  order.RefundReason,
		CreatedAt:     order.CreatedAt,
		CapturedAt:    order.CapturedAt,
		RefundedAt:    order.RefundedAt,
		UpdatedAt:     order.UpdatedAt,
	}, nil
}

func toDomainOrder(rec orderModel) domain.Order {
	return domain.Order{
		OrderID:       rec.OrderID.String(),
		PayPalOrderID: rec.PayPalOrderID,
		BuyerID:       rec.BuyerID,
		BuyerEmail:    rec.BuyerEmail,
		ProductID:     rec.ProductID,
		ProductName:   rec.ProductName,
		ProductPrice:  rec.ProductPrice,
		Currency:      rec.Currency,
		CreatorID:     rec.CreatorID,
		CreatorName:   rec.CreatorName,
		CreatorEmail:  rec.CreatorEmail,
		TotalAmount:   rec.TotalAmount,
		PlatformFee:   rec.PlatformFee,
		SellerAmount:  rec.SellerAmount,
		Status:        domain.OrderStatus(rec.Status),
		PayPalStatus:  rec.PayPalStatus,
		RefundReason:  rec.RefundReason,
		CreatedAt:     rec.CreatedAt,
		CapturedAt:    rec.CapturedAt,
		RefundedAt:    rec.RefundedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}

func toPayoutModel(payout domain.Payout) (payoutModel, error) {
	id, err := uuid.Parse(payout.PayoutID)
	if err != nil {
		return payoutModel{}, fmt.Errorf("parse payout id: %w", err)
	}
	orderID, err := uuid.Parse(payout.OrderID)
	if err != nil {
		return payoutModel{}, fmt.Errorf("parse payout order id: %w", err)
	}
	return payoutModel{
		PayoutID:       id,
		OrderID:        orderID,
		SellerID:       payout.SellerID,
		SellerEmail:    payout.SellerEmail,
		Amount:         payout.Amount,
		Currency:       payout.Currency,
		PayPalPayoutID: payout.PayPalPayoutID,
		Status:         string(payout.Status),
		ErrorMessage:   payout.ErrorMessage,
		CreatedAt:      payout.CreatedAt,
		CompletedAt:    payout.CompletedAt,
		UpdatedAt:      payout.UpdatedAt,
	}, nil
}

func toDomainPayout(rec payoutModel) domain.Payout {
	return domain.Payout{
		PayoutID:       rec.PayoutID.String(),
		OrderID:        rec.OrderID.String(),
		SellerID:       rec.SellerID,
		SellerEmail:    rec.SellerEmail,
		Amount:         rec.Amount,
		Currency:       rec.Currency,
		PayPalPayoutID: rec.PayPalPayoutID,
		Status:         domain.PayoutStatus(rec.Status),
		ErrorMessage:   rec.ErrorMessage,
		CreatedAt:      rec.CreatedAt,
		CompletedAt:    rec.CompletedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}

func toCaptureModel(record domain.CaptureRecord) (captureRecordModel, error) {
	orderID, err := uuid.Parse(record.OrderID)
	if err != nil {
		return captureRecordModel{}, fmt.Errorf("parse capture order id: %w", err)
	}
	contextBlob, err := json.Marshal(record.Context)
	if err != nil {
		return captureRecordModel{}, fmt.Errorf("marshal capture context: %w", err)
	}
	return captureRecordModel{
		PayPalOrderID: record.PayPalOrderID,
		OrderID:       orderID,
		Context:       contextBlob,
		TotalAmount:   record.Split.TotalAmount,
		PlatformFee:   record.Split.PlatformFee,
		SellerAmount:  record.Split.SellerAmount,
		PayPalStatus:  record.PayPalStatus,
		CapturedAt:    record.CapturedAt,
		AppliedAt:     record.AppliedAt,
	}, nil
}

func toDomainCapture(rec captureRecordModel) (domain.CaptureRecord, error) {
	var captureCtx domain.CaptureContext
	if err := json.Unmarshal(rec.Context, &captureCtx); err != nil {
		return domain.CaptureRecord{}, fmt.Errorf("unmarshal capture context: %w", err)
	}
	return domain.CaptureRecord{
		PayPalOrderID: rec.PayPalOrderID,
		OrderID:       rec.OrderID.String(),
		Context:       captureCtx,
		Split: domain.RevenueSplit{
			TotalAmount:  rec.TotalAmount,
			PlatformFee:  rec.PlatformFee,
			SellerAmount: rec.SellerAmount,
		},
		PayPalStatus: rec.PayPalStatus,
		CapturedAt:   rec.CapturedAt,
		AppliedAt:    rec.AppliedAt,
	}, nil
}
