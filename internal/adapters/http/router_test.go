package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rbxassets/platform/services/payments/internal/adapters/events"
	"github.com/rbxassets/platform/services/payments/internal/adapters/memory"
	"github.com/rbxassets/platform/services/payments/internal/application"
	"github.com/rbxassets/platform/services/payments/internal/ports"
)

type stubGateway struct {
	captureStatus string
}

func (stubGateway) CreateRemoteOrder(context.Context, ports.RemoteOrderSpec) (ports.RemoteOrder, error) {
	return ports.RemoteOrder{ID: "PAY-1", Status: "CREATED"}, nil
}

func (g stubGateway) CaptureRemoteOrder(context.Context, string) (ports.CaptureResult, error) {
	status := g.captureStatus
	if status == "" {
		status = "COMPLETED"
	}
	return ports.CaptureResult{Status: status}, nil
}

func (stubGateway) CreateRemotePayout(_ context.Context, spec ports.RemotePayoutSpec) (ports.RemotePayoutResult, error) {
	return ports.RemotePayoutResult{BatchID: spec.BatchID}, nil
}

func newTestServer(t *testing.T, gateway ports.PaymentGateway) *httptest.Server {
	t.Helper()
	repos := memory.NewRepositories()
	svc := application.NewService(application.Dependencies{
		Orders:    repos.Orders,
		Payouts:   repos.Payouts,
		Captures:  repos.Captures,
		Products:  repos.Products,
		Outbox:    repos.Outbox,
		Gateway:   gateway,
		Publisher: events.NewMemoryPublisher(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	server := httptest.NewServer(NewRouter(NewHandler(svc), nil))
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url, bearer, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

const captureBody = `{
	"product_id": "prod-1",
	"product_name": "Sword Pack",
	"product_price": 100,
	"currency": "USD",
	"buyer_id": "buyer-1",
	"buyer_email": "buyer@example.com",
	"creator_id": "seller-1",
	"creator_name": "Seller One",
	"creator_email": "seller@example.com"
}`

func TestCheckoutFlowOverHTTP(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, stubGateway{})

	resp, body := doJSON(t, http.MethodPost, server.URL+"/v1/checkout/orders", "user:buyer-1",
		`{"product_id":"prod-1","product_name":"Sword Pack","product_price":100,"currency":"USD","buyer_email":"buyer@example.com"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create checkout: status %d body %v", resp.StatusCode, body)
	}
	data := body["data"].(map[string]any)
	if data["paypal_order_id"] != "PAY-1" {
		t.Fatalf("create checkout data = %v", data)
	}

	resp, body = doJSON(t, http.MethodPost, server.URL+"/v1/checkout/orders/PAY-1/capture", "user:buyer-1", captureBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("capture: status %d body %v", resp.StatusCode, body)
	}
	order := body["data"].(map[string]any)
	if order["status"] != "completed" || order["platform_fee"] != float64(30) {
		t.Fatalf("captured order = %v", order)
	}

	// Duplicate capture of the same remote order is a conflict.
	resp, body = doJSON(t, http.MethodPost, server.URL+"/v1/checkout/orders/PAY-1/capture", "user:buyer-1", captureBody)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate capture: status %d body %v", resp.StatusCode, body)
	}
	errPayload := body["error"].(map[string]any)
	if errPayload["code"] != "DUPLICATE_CAPTURE" {
		t.Fatalf("duplicate capture error = %v", errPayload)
	}
	if errPayload["request_id"] == "" {
		t.Fatalf("error payload missing request id")
	}

	resp, body = doJSON(t, http.MethodGet, server.URL+"/v1/sellers/seller-1/earnings", "user:seller-1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("earnings: status %d body %v", resp.StatusCode, body)
	}
	earnings := body["data"].(map[string]any)
	if earnings["total_earnings"] != float64(70) {
		t.Fatalf("earnings = %v", earnings)
	}
}

func TestDeclinedCaptureMapsTo402(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, stubGateway{captureStatus: "DECLINED"})
	resp, body := doJSON(t, http.MethodPost, server.URL+"/v1/checkout/orders/PAY-1/capture", "user:buyer-1", captureBody)
	if resp.StatusCode != http.StatusPaymentRequired {
		t.Fatalf("declined capture: status %d body %v", resp.StatusCode, body)
	}
	errPayload := body["error"].(map[string]any)
	if errPayload["code"] != "PAYMENT_DECLINED" {
		t.Fatalf("declined error = %v", errPayload)
	}
}

func TestAuthEnforcement(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, stubGateway{})

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/v1/orders/any", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request without token: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing bearer: status %d", resp.StatusCode)
	}

	// Payout dispatch is admin-only; the dev role prefix carries the role.
	dispatchBody := `{"seller_id":"seller-1","seller_email":"seller@example.com","amount":10,"currency":"USD"}`
	userResp, _ := doJSON(t, http.MethodPost, server.URL+"/v1/payouts/dispatch", "user:seller-1", dispatchBody)
	if userResp.StatusCode != http.StatusForbidden {
		t.Fatalf("user dispatch: status %d", userResp.StatusCode)
	}
	adminResp, adminBody := doJSON(t, http.MethodPost, server.URL+"/v1/payouts/dispatch", "admin:ops-1", dispatchBody)
	if adminResp.StatusCode != http.StatusOK {
		t.Fatalf("admin dispatch: status %d body %v", adminResp.StatusCode, adminBody)
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, stubGateway{})
	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(server.URL + path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: status %d", path, resp.StatusCode)
		}
	}
}
