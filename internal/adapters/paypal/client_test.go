package paypal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbxassets/platform/services/payments/internal/adapters/memory"
	"github.com/rbxassets/platform/services/payments/internal/domain"
	"github.com/rbxassets/platform/services/payments/internal/ports"
)

type gatewayStub struct {
	mux        *http.ServeMux
	tokenHits  int
	lastOrder  createOrderPayload
	lastPayout payoutPayload
}

func newGatewayStub(t *testing.T) (*gatewayStub, *httptest.Server) {
	t.Helper()
	stub := &gatewayStub{mux: http.NewServeMux()}
	stub.mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		stub.tokenHits++
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "token-1", "expires_in": 32400})
	})
	stub.mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&stub.lastOrder)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "PAY-1", "status": "CREATED"})
	})
	stub.mux.HandleFunc("/v2/checkout/orders/PAY-1/capture", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "COMPLETED"})
	})
	stub.mux.HandleFunc("/v1/payments/payouts", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&stub.lastPayout)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"batch_header": map[string]string{"payout_batch_id": "BATCH-REMOTE-1"},
		})
	})
	server := httptest.NewServer(stub.mux)
	t.Cleanup(server.Close)
	return stub, server
}

func newTestClient(serverURL string, tokens ports.AccessTokenCache) *Client {
	client := NewClient(Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Mode:         "sandbox",
		SiteURL:      "https://rbxassets.example.com",
	}, tokens)
	client.baseURL = serverURL
	return client
}

func TestMissingCredentialsIsConfigurationError(t *testing.T) {
	t.Parallel()

	stub, server := newGatewayStub(t)
	client := NewClient(Config{Mode: "sandbox"}, memory.NewTokenCache())
	client.baseURL = server.URL

	_, err := client.CreateRemoteOrder(context.Background(), ports.RemoteOrderSpec{})
	require.True(t, errors.Is(err, domain.ErrConfiguration))
	require.Zero(t, stub.tokenHits, "credentials check must run before any network call")
}

func TestCreateRemoteOrderPayload(t *testing.T) {
	t.Parallel()

	stub, server := newGatewayStub(t)
	client := newTestClient(server.URL, memory.NewTokenCache())

	remote, err := client.CreateRemoteOrder(context.Background(), ports.RemoteOrderSpec{
		ReferenceID: "prod-1",
		Description: "Sword Pack",
		Amount:      9.99,
		Currency:    "USD",
		PayerEmail:  "buyer@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, "PAY-1", remote.ID)
	require.Equal(t, "CREATED", remote.Status)

	require.Equal(t, "CAPTURE", stub.lastOrder.Intent)
	require.Equal(t, "buyer@example.com", stub.lastOrder.Payer.EmailAddress)
	require.Len(t, stub.lastOrder.PurchaseUnits, 1)
	unit := stub.lastOrder.PurchaseUnits[0]
	require.Equal(t, "prod-1", unit.ReferenceID)
	require.Equal(t, "9.99", unit.Amount.Value)
	require.Equal(t, "USD", unit.Amount.CurrencyCode)
	require.Equal(t, "PAY_NOW", stub.lastOrder.ApplicationContext.UserAction)
	require.True(t, strings.HasSuffix(stub.lastOrder.ApplicationContext.ReturnURL, "/checkout/success"))
}

func TestCaptureRemoteOrder(t *testing.T) {
	t.Parallel()

	_, server := newGatewayStub(t)
	client := newTestClient(server.URL, memory.NewTokenCache())

	result, err := client.CaptureRemoteOrder(context.Background(), "PAY-1")
	require.NoError(t, err)
	require.Equal(t, "COMPLETED", result.Status)
}

func TestCreateRemotePayoutPayload(t *testing.T) {
	t.Parallel()

	stub, server := newGatewayStub(t)
	client := newTestClient(server.URL, memory.NewTokenCache())

	result, err := client.CreateRemotePayout(context.Background(), ports.RemotePayoutSpec{
		BatchID:        "batch-123-seller-1",
		RecipientEmail: "seller@example.com",
		Amount:         70,
		Currency:       "USD",
		Note:           "Seller earnings from RbxAssets",
		SenderItemID:   "item-seller-1-123",
	})
	require.NoError(t, err)
	require.Equal(t, "BATCH-REMOTE-1", result.BatchID)

	require.Equal(t, "batch-123-seller-1", stub.lastPayout.SenderBatchHeader.SenderBatchID)
	require.Len(t, stub.lastPayout.Items, 1)
	item := stub.lastPayout.Items[0]
	require.Equal(t, "EMAIL", item.RecipientType)
	require.Equal(t, "seller@example.com", item.Receiver)
	require.Equal(t, "70.00", item.Amount.Value)
	require.Equal(t, "USD", item.Amount.Currency)
}

func TestAccessTokenReusedAcrossCalls(t *testing.T) {
	t.Parallel()

	stub, server := newGatewayStub(t)
	client := newTestClient(server.URL, memory.NewTokenCache())

	_, err := client.CaptureRemoteOrder(context.Background(), "PAY-1")
	require.NoError(t, err)
	_, err = client.CaptureRemoteOrder(context.Background(), "PAY-1")
	require.NoError(t, err)
	require.Equal(t, 1, stub.tokenHits, "second call must reuse the cached token")
}
