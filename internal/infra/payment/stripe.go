package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"animehub/internal/config"
	"animehub/internal/usecase"
)

// StripeClientはStripe Checkout（ホステッドページ）への薄いHTTPクライアント。
// usecase.CheckoutProviderを実装する。
type StripeClient struct {
	httpClient    *http.Client
	baseAPIURL    string
	apiKey        string
	webhookSecret string
}

func NewStripeClient(cfg config.Stripe) *StripeClient {
	return &StripeClient{
		httpClient: &http.Client{
			//プロバイダ呼び出しは無限に待たない
			Timeout: 15 * time.Second,
		},
		baseAPIURL:    strings.TrimRight(cfg.BaseAPIURL, "/"),
		apiKey:        cfg.APIKey,
		webhookSecret: cfg.WebhookSecret,
	}
}

type sessionResult struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
}

func (c *StripeClient) CreateSession(ctx context.Context, in usecase.CheckoutSessionInput) (usecase.CheckoutSession, error) {
	if c.apiKey == "" {
		return usecase.CheckoutSession{}, usecase.ErrProviderNotConfigured
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", in.SuccessURL)
	form.Set("cancel_url", in.CancelURL)
	form.Set("line_items[0][price_data][currency]", in.Currency)
	form.Set("line_items[0][price_data][product_data][name]", "Order total")
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(in.Amount, 10))
	form.Set("line_items[0][quantity]", "1")
	for k, v := range in.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseAPIURL+"/v1/checkout/sessions",
		strings.NewReader(form.Encode()))
	if err != nil {
		return usecase.CheckoutSession{}, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return usecase.CheckoutSession{}, fmt.Errorf("create checkout session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return usecase.CheckoutSession{}, fmt.Errorf("stripe error %d: %s", resp.StatusCode, string(b))
	}

	var result sessionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return usecase.CheckoutSession{}, fmt.Errorf("decode stripe response: %w", err)
	}

	return usecase.CheckoutSession{ID: result.ID, URL: result.URL}, nil
}

func (c *StripeClient) GetStatus(ctx context.Context, sessionID string) (usecase.CheckoutStatus, error) {
	if c.apiKey == "" {
		return usecase.CheckoutStatus{}, usecase.ErrProviderNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseAPIURL+"/v1/checkout/sessions/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return usecase.CheckoutStatus{}, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return usecase.CheckoutStatus{}, fmt.Errorf("get checkout session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return usecase.CheckoutStatus{}, fmt.Errorf("stripe error %d: %s", resp.StatusCode, string(b))
	}

	var result sessionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return usecase.CheckoutStatus{}, fmt.Errorf("decode stripe response: %w", err)
	}

	return usecase.CheckoutStatus{
		Status:        result.Status,
		PaymentStatus: result.PaymentStatus,
		AmountTotal:   result.AmountTotal,
		Currency:      result.Currency,
		Metadata:      result.Metadata,
	}, nil
}

type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object sessionResult `json:"object"`
	} `json:"data"`
}

// VerifyWebhookはStripe-Signatureヘッダ（t=...,v1=...）を検証してイベントを返す。
// 署名はHMAC-SHA256("<t>.<body>", webhookSecret)。
func (c *StripeClient) VerifyWebhook(body []byte, signature string) (usecase.CheckoutWebhookEvent, error) {
	ts, sig, err := parseSignatureHeader(signature)
	if err != nil {
		return usecase.CheckoutWebhookEvent{}, usecase.ErrInvalidWebhookSignature
	}

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := mac.Sum(nil)

	got, err := hex.DecodeString(sig)
	if err != nil || !hmac.Equal(expected, got) {
		return usecase.CheckoutWebhookEvent{}, usecase.ErrInvalidWebhookSignature
	}

	var ev webhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return usecase.CheckoutWebhookEvent{}, fmt.Errorf("decode webhook payload: %w", err)
	}

	obj := ev.Data.Object
	return usecase.CheckoutWebhookEvent{
		SessionID:     obj.ID,
		Status:        obj.Status,
		PaymentStatus: obj.PaymentStatus,
		Metadata:      obj.Metadata,
	}, nil
}

func parseSignatureHeader(header string) (timestamp string, signature string, err error) {
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signature = kv[1]
		}
	}
	if timestamp == "" || signature == "" {
		return "", "", fmt.Errorf("malformed signature header")
	}
	return timestamp, signature, nil
}
