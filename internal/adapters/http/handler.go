package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rbxassets/platform/services/payments/internal/application"
	"github.com/rbxassets/platform/services/payments/internal/contracts"
	"github.com/rbxassets/platform/services/payments/internal/domain"
)

func (h *Handler) createCheckout(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	var req contracts.CreateCheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}
	remote, err := h.service.CreateOrder(r.Context(), actor, application.CheckoutInput{
		ProductID:    strings.TrimSpace(req.ProductID),
		ProductName:  strings.TrimSpace(req.ProductName),
		ProductPrice: req.ProductPrice,
		Currency:     strings.ToUpper(strings.TrimSpace(req.Currency)),
		BuyerEmail:   strings.TrimSpace(req.BuyerEmail),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "", contracts.CreateCheckoutResponse{
		PayPalOrderID: remote.ID,
		Status:        remote.Status,
	})
}

func (h *Handler) captureOrder(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	paypalOrderID := chi.URLParam(r, "paypalOrderID")
	var req contracts.CaptureOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}
	buyerID := strings.TrimSpace(req.BuyerID)
	if buyerID == "" {
		buyerID = actor.SubjectID
	}
	order, err := h.service.CaptureOrder(r.Context(), actor, paypalOrderID, domain.CaptureContext{
		ProductID:    strings.TrimSpace(req.ProductID),
		ProductName:  strings.TrimSpace(req.ProductName),
		ProductPrice: req.ProductPrice,
		Currency:     strings.ToUpper(strings.TrimSpace(req.Currency)),
		BuyerID:      buyerID,
		BuyerEmail:   strings.TrimSpace(req.BuyerEmail),
		CreatorID:    strings.TrimSpace(req.CreatorID),
		CreatorName:  strings.TrimSpace(req.CreatorName),
		CreatorEmail: strings.TrimSpace(req.CreatorEmail),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "", order)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	order, err := h.service.GetOrder(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", order)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	order, err := h.service.CancelOrder(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", order)
}

func (h *Handler) refundOrder(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	var req contracts.RefundOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}
	order, err := h.service.RefundOrder(r.Context(), actor, chi.URLParam(r, "id"), strings.TrimSpace(req.Reason))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", order)
}

func (h *Handler) listBuyerOrders(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	orders, err := h.service.ListBuyerOrders(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]interface{}{"items": orders})
}

func (h *Handler) hasPurchased(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	purchased, err := h.service.HasPurchased(r.Context(), actor, chi.URLParam(r, "id"), chi.URLParam(r, "productID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]interface{}{"purchased": purchased})
}

func (h *Handler) listSellerOrders(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	orders, err := h.service.ListSellerOrders(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]interface{}{"items": orders})
}

func (h *Handler) listSellerPayouts(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	payouts, err := h.service.ListSellerPayouts(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]interface{}{"items": payouts})
}

func (h *Handler) sellerEarnings(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	summary, err := h.service.SellerEarnings(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", summary)
}

func (h *Handler) dispatchPayout(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	var req contracts.DispatchPayoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}
	result, err := h.service.DispatchPayout(r.Context(), actor, application.DispatchPayoutInput{
		SellerID:    strings.TrimSpace(req.SellerID),
		SellerEmail: strings.TrimSpace(req.SellerEmail),
		Amount:      req.Amount,
		Currency:    strings.ToUpper(strings.TrimSpace(req.Currency)),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "payout dispatched", result)
}

func (h *Handler) dispatchPayoutBatch(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	var req contracts.DispatchPayoutBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}
	result, err := h.service.DispatchPayoutBatch(r.Context(), actor, req.PayoutIDs)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "payout batch dispatched", result)
}

func (h *Handler) completePayout(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	payout, err := h.service.CompletePayout(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", payout)
}

func (h *Handler) failPayout(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	var req struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}
	payout, err := h.service.FailPayout(r.Context(), actor, chi.URLParam(r, "id"), strings.TrimSpace(req.Message))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", payout)
}

func (h *Handler) orderStatistics(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	stats, err := h.service.OrderStatistics(r.Context(), actor)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", stats)
}
