package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rbxassets/platform/services/payments/internal/contracts"
	"github.com/rbxassets/platform/services/payments/internal/domain"
)

func writeSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(contracts.SuccessResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, status int, code, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(contracts.ErrorResponse{
		Status: "error",
		Error: contracts.ErrorPayload{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	})
}

// writeDomainError maps application errors onto HTTP statuses. Declined
// captures surface as 402 so callers can distinguish them from malformed
// requests; duplicate captures are 409 like any other write conflict.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestIDFrom(r.Context())

	var declined *domain.DeclinedError
	if errors.As(err, &declined) {
		writeError(w, http.StatusPaymentRequired, "PAYMENT_DECLINED", declined.Error(), requestID)
		return
	}
	var payoutErr *domain.PayoutError
	if errors.As(err, &payoutErr) {
		writeError(w, http.StatusBadGateway, "PAYOUT_FAILED", payoutErr.Error(), requestID)
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error(), requestID)
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error(), requestID)
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", err.Error(), requestID)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), requestID)
	case errors.Is(err, domain.ErrDuplicateCapture):
		writeError(w, http.StatusConflict, "DUPLICATE_CAPTURE", err.Error(), requestID)
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrInvalidState):
		writeError(w, http.StatusConflict, "CONFLICT", err.Error(), requestID)
	case errors.Is(err, domain.ErrPaymentDeclined):
		writeError(w, http.StatusPaymentRequired, "PAYMENT_DECLINED", err.Error(), requestID)
	case errors.Is(err, domain.ErrPayoutFailed):
		writeError(w, http.StatusBadGateway, "PAYOUT_FAILED", err.Error(), requestID)
	case errors.Is(err, domain.ErrConfiguration):
		writeError(w, http.StatusInternalServerError, "CONFIGURATION", "payment provider is not configured", requestID)
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error", requestID)
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.ErrInvalidInput
	}
	return nil
}
