package ports

import (
	"context"
	"time"
)

// RemoteOrderSpec describes one purchase unit for the gateway's order-creation call.
type RemoteOrderSpec struct {
	ReferenceID string
	Description string
	Amount      float64
	Currency    string
	PayerEmail  string
}

type RemoteOrder struct {
	ID     string
	Status string
}

type CaptureResult struct {
	Status string
}

// RemotePayoutSpec describes a single-item batch payout request.
type RemotePayoutSpec struct {
	BatchID        string
	RecipientEmail string
	Amount         float64
	Currency       string
	Note           string
	SenderItemID   string
}

type RemotePayoutResult struct {
	BatchID string
}

// PaymentGateway wraps the payment provider's OAuth exchange and order/capture/
// payout calls. Implementations must surface domain.ErrConfiguration before any
// network call when credentials are absent.
type PaymentGateway interface {
	CreateRemoteOrder(ctx context.Context, spec RemoteOrderSpec) (RemoteOrder, error)
	CaptureRemoteOrder(ctx context.Context, remoteOrderID string) (CaptureResult, error)
	CreateRemotePayout(ctx context.Context, spec RemotePayoutSpec) (RemotePayoutResult, error)
}

// AccessTokenCache stores the gateway bearer token across invocations so each
// request does not repeat the OAuth exchange. TTL carries the provider expiry
// minus a safety margin.
type AccessTokenCache interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string, ttl time.Duration) error
}
