package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the referenced order or payout does not exist.
	// Keeping this sentinel in domain allows adapters to map it consistently to 404/NOT_FOUND.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidInput covers malformed or missing caller input. Never retried automatically.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConfiguration signals missing gateway credentials. Operator action required;
	// surfaced before any network call is attempted.
	ErrConfiguration = errors.New("payment gateway not configured")
	// ErrInvalidState is returned when a requested transition is illegal from the
	// record's current status.
	ErrInvalidState = errors.New("invalid state transition")
	// ErrPaymentDeclined means the gateway refused to capture. The checkout must
	// restart from order creation; nothing was persisted locally.
	ErrPaymentDeclined = errors.New("payment declined")
	// ErrPayoutFailed means the gateway rejected a payout batch. The affected local
	// payout is marked failed and the error is surfaced for manual retry.
	ErrPayoutFailed = errors.New("payout failed")
	// ErrDuplicateCapture rejects a second capture writer for the same remote order id.
	ErrDuplicateCapture = errors.New("capture already recorded")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("conflict")
)

// DeclinedError carries the gateway's raw capture status for diagnostics while
// unwrapping to ErrPaymentDeclined for policy decisions.
type DeclinedError struct {
	GatewayStatus string
}

func (e *DeclinedError) Error() string {
	return fmt.Sprintf("payment declined: gateway status %q", e.GatewayStatus)
}

func (e *DeclinedError) Unwrap() error { return ErrPaymentDeclined }

// PayoutError retains the full gateway rejection message for operators.
type PayoutError struct {
	GatewayMessage string
}

func (e *PayoutError) Error() string {
	return fmt.Sprintf("payout failed: %s", e.GatewayMessage)
}

func (e *PayoutError) Unwrap() error { return ErrPayoutFailed }
