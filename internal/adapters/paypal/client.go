package paypal

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rbxassets/platform/services/payments/internal/domain"
	"github.com/rbxassets/platform/services/payments/internal/ports"
)

const (
	sandboxBaseURL    = "https://api.sandbox.paypal.com"
	productionBaseURL = "https://api.paypal.com"

	// tokenExpiryMargin is shaved off the provider TTL so a cached token is
	// never presented moments before it lapses.
	tokenExpiryMargin = 60 * time.Second
)

// Config carries the gateway credentials and environment selection.
type Config struct {
	ClientID     string
	ClientSecret string
	Mode         string // "sandbox" or "production"
	SiteURL      string
	BrandName    string
	HTTPTimeout  time.Duration
}

// Client implements ports.PaymentGateway against the PayPal REST API.
// The OAuth bearer token is cached between calls; credentials absence is a
// configuration error surfaced before any network call.
type Client struct {
	cfg     Config
	baseURL string
	http    *http.Client
	tokens  ports.AccessTokenCache
}

func NewClient(cfg Config, tokens ports.AccessTokenCache) *Client {
	baseURL := sandboxBaseURL
	if strings.EqualFold(cfg.Mode, "production") {
		baseURL = productionBaseURL
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if cfg.BrandName == "" {
		cfg.BrandName = "RbxAssets"
	}
	return &Client{
		cfg:     cfg,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type amountPayload struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type itemPayload struct {
	Name       string        `json:"name"`
	UnitAmount amountPayload `json:"unit_amount"`
	Quantity   string        `json:"quantity"`
}

type purchaseUnitPayload struct {
	ReferenceID string        `json:"reference_id"`
	Description string        `json:"description"`
	Amount      amountPayload `json:"amount"`
	Items       []itemPayload `json:"items"`
}

type createOrderPayload struct {
	Intent             string                `json:"intent"`
	Payer              payerPayload          `json:"payer"`
	PurchaseUnits      []purchaseUnitPayload `json:"purchase_units"`
	ApplicationContext appContextPayload     `json:"application_context"`
}

type payerPayload struct {
	EmailAddress string `json:"email_address"`
}

type appContextPayload struct {
	ReturnURL   string `json:"return_url"`
	CancelURL   string `json:"cancel_url"`
	BrandName   string `json:"brand_name"`
	Locale      string `json:"locale"`
	LandingPage string `json:"landing_page"`
	UserAction  string `json:"user_action"`
}

type orderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type captureResponse struct {
	Status string `json:"status"`
}

type payoutPayload struct {
	SenderBatchHeader senderBatchHeader `json:"sender_batch_header"`
	Items             []payoutItem      `json:"items"`
}

type senderBatchHeader struct {
	SenderBatchID string `json:"sender_batch_id"`
	EmailSubject  string `json:"email_subject"`
	EmailMessage  string `json:"email_message"`
}

type payoutItem struct {
	RecipientType string       `json:"recipient_type"`
	Amount        payoutAmount `json:"amount"`
	Receiver      string       `json:"receiver"`
	Note          string       `json:"note,omitempty"`
	SenderItemID  string       `json:"sender_item_id"`
}

type payoutAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type payoutResponse struct {
	BatchHeader struct {
		PayoutBatchID string `json:"payout_batch_id"`
	} `json:"batch_header"`
}

func (c *Client) CreateRemoteOrder(ctx context.Context, spec ports.RemoteOrderSpec) (ports.RemoteOrder, error) {
	token, err := c.authenticate(ctx)
	if err != nil {
		return ports.RemoteOrder{}, err
	}
	value := strconv.FormatFloat(spec.Amount, 'f', 2, 64)
	payload := createOrderPayload{
		Intent: "CAPTURE",
		Payer:  payerPayload{EmailAddress: spec.PayerEmail},
		PurchaseUnits: []purchaseUnitPayload{{
			ReferenceID: spec.ReferenceID,
			Description: spec.Description,
			Amount:      amountPayload{CurrencyCode: spec.Currency, Value: value},
			Items: []itemPayload{{
				Name:       spec.Description,
				UnitAmount: amountPayload{CurrencyCode: spec.Currency, Value: value},
				Quantity:   "1",
			}},
		}},
		ApplicationContext: appContextPayload{
			ReturnURL:   c.cfg.SiteURL + "/checkout/success",
			CancelURL:   c.cfg.SiteURL + "/checkout/cancel",
			BrandName:   c.cfg.BrandName,
			Locale:      "en-US",
			LandingPage: "BILLING",
			UserAction:  "PAY_NOW",
		},
	}
	var out orderResponse
	if err := c.postJSON(ctx, "/v2/checkout/orders", token, payload, &out); err != nil {
		return ports.RemoteOrder{}, fmt.Errorf("create paypal order: %w", err)
	}
	return ports.RemoteOrder{ID: out.ID, Status: out.Status}, nil
}

func (c *Client) CaptureRemoteOrder(ctx context.Context, remoteOrderID string) (ports.CaptureResult, error) {
	token, err := c.authenticate(ctx)
	if err != nil {
		return ports.CaptureResult{}, err
	}
	var out captureResponse
	path := "/v2/checkout/orders/" + remoteOrderID + "/capture"
	if err := c.postJSON(ctx, path, token, struct{}{}, &out); err != nil {
		return ports.CaptureResult{}, fmt.Errorf("capture paypal order: %w", err)
	}
	return ports.CaptureResult{Status: out.Status}, nil
}

func (c *Client) CreateRemotePayout(ctx context.Context, spec ports.RemotePayoutSpec) (ports.RemotePayoutResult, error) {
	token, err := c.authenticate(ctx)
	if err != nil {
		return ports.RemotePayoutResult{}, err
	}
	payload := payoutPayload{
		SenderBatchHeader: senderBatchHeader{
			SenderBatchID: spec.BatchID,
			EmailSubject:  c.cfg.BrandName + " - Your Seller Earnings",
			EmailMessage:  "You have received earnings from your product sales on " + c.cfg.BrandName + ".",
		},
		Items: []payoutItem{{
			RecipientType: "EMAIL",
			Amount: payoutAmount{
				Value:    strconv.FormatFloat(spec.Amount, 'f', 2, 64),
				Currency: spec.Currency,
			},
			Receiver:     spec.RecipientEmail,
			Note:         spec.Note,
			SenderItemID: spec.SenderItemID,
		}},
	}
	var out payoutResponse
	if err := c.postJSON(ctx, "/v1/payments/payouts", token, payload, &out); err != nil {
		return ports.RemotePayoutResult{}, fmt.Errorf("create paypal payout: %w", err)
	}
	return ports.RemotePayoutResult{BatchID: out.BatchHeader.PayoutBatchID}, nil
}

// authenticate returns a bearer token, reusing the cached one when present.
func (c *Client) authenticate(ctx context.Context) (string, error) {
	if c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		return "", domain.ErrConfiguration
	}
	if c.tokens != nil {
		if token, err := c.tokens.Get(ctx); err == nil && token != "" {
			return token, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token",
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.cfg.ClientID + ":" + c.cfg.ClientSecret))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+basic)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal token exchange: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("paypal token exchange: status %d: %s", resp.StatusCode, string(body))
	}
	var out tokenResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if out.AccessToken == "" {
		return "", errors.New("paypal token exchange: empty access token")
	}

	if c.tokens != nil && out.ExpiresIn > 0 {
		ttl := time.Duration(out.ExpiresIn)*time.Second - tokenExpiryMargin
		if ttl > 0 {
			_ = c.tokens.Set(ctx, out.AccessToken, ttl)
		}
	}
	return out.AccessToken, nil
}

func (c *Client) postJSON(ctx context.Context, path, token string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
