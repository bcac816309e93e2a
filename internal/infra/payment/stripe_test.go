package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"animehub/internal/config"
	"animehub/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func signBody(secret string, ts string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(body)
	return "t=" + ts + ",v1=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhook_ValidSignature(t *testing.T) {
	c := NewStripeClient(config.Stripe{WebhookSecret: "whsec_test"})

	body := []byte(`{
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_123",
				"status": "complete",
				"payment_status": "paid",
				"metadata": {"order_id": "o1", "user_id": "u1"}
			}
		}
	}`)

	ev, err := c.VerifyWebhook(body, signBody("whsec_test", "1718000000", body))
	assert.NoError(t, err)
	assert.Equal(t, "cs_123", ev.SessionID)
	assert.Equal(t, "complete", ev.Status)
	assert.Equal(t, "paid", ev.PaymentStatus)
	assert.Equal(t, "o1", ev.Metadata["order_id"])
}

func TestVerifyWebhook_TamperedBody(t *testing.T) {
	c := NewStripeClient(config.Stripe{WebhookSecret: "whsec_test"})

	body := []byte(`{"data":{"object":{"id":"cs_123","payment_status":"paid"}}}`)
	header := signBody("whsec_test", "1718000000", body)

	tampered := []byte(`{"data":{"object":{"id":"cs_999","payment_status":"paid"}}}`)
	_, err := c.VerifyWebhook(tampered, header)
	assert.ErrorIs(t, err, usecase.ErrInvalidWebhookSignature)
}

func TestVerifyWebhook_WrongSecret(t *testing.T) {
	c := NewStripeClient(config.Stripe{WebhookSecret: "whsec_real"})

	body := []byte(`{"data":{"object":{"id":"cs_123"}}}`)
	_, err := c.VerifyWebhook(body, signBody("whsec_other", "1718000000", body))
	assert.ErrorIs(t, err, usecase.ErrInvalidWebhookSignature)
}

func TestVerifyWebhook_MalformedHeader(t *testing.T) {
	c := NewStripeClient(config.Stripe{WebhookSecret: "whsec_test"})

	body := []byte(`{}`)
	for _, header := range []string{"", "garbage", "t=123", "v1=deadbeef"} {
		_, err := c.VerifyWebhook(body, header)
		assert.ErrorIs(t, err, usecase.ErrInvalidWebhookSignature, "header=%q", header)
	}
}

func TestCreateSession_SendsFormAndParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "2500", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "usd", r.PostForm.Get("line_items[0][price_data][currency]"))
		assert.Equal(t, "o1", r.PostForm.Get("metadata[order_id]"))
		assert.Equal(t, "https://shop.example/order-success?session_id={CHECKOUT_SESSION_ID}", r.PostForm.Get("success_url"))

		json.NewEncoder(w).Encode(map[string]string{
			"id":  "cs_123",
			"url": "https://checkout.stripe.com/pay/cs_123",
		})
	}))
	defer srv.Close()

	c := NewStripeClient(config.Stripe{BaseAPIURL: srv.URL, APIKey: "sk_test_123"})

	sess, err := c.CreateSession(context.Background(), usecase.CheckoutSessionInput{
		Amount:     2500,
		Currency:   "usd",
		SuccessURL: "https://shop.example/order-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  "https://shop.example/cart",
		Metadata:   map[string]string{"order_id": "o1", "user_id": "u1"},
	})
	assert.NoError(t, err)
	assert.Equal(t, "cs_123", sess.ID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_123", sess.URL)
}

func TestCreateSession_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewStripeClient(config.Stripe{BaseAPIURL: srv.URL, APIKey: "sk_bad"})

	_, err := c.CreateSession(context.Background(), usecase.CheckoutSessionInput{Amount: 100, Currency: "usd"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "stripe error 401")
}

func TestCreateSession_NotConfigured(t *testing.T) {
	c := NewStripeClient(config.Stripe{})

	_, err := c.CreateSession(context.Background(), usecase.CheckoutSessionInput{Amount: 100, Currency: "usd"})
	assert.ErrorIs(t, err, usecase.ErrProviderNotConfigured)
}

func TestGetStatus_ParsesSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/checkout/sessions/cs_123", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]any{
			"id":             "cs_123",
			"status":         "complete",
			"payment_status": "paid",
			"amount_total":   2500,
			"currency":       "usd",
			"metadata":       map[string]string{"order_id": "o1"},
		})
	}))
	defer srv.Close()

	c := NewStripeClient(config.Stripe{BaseAPIURL: srv.URL, APIKey: "sk_test_123"})

	st, err := c.GetStatus(context.Background(), "cs_123")
	assert.NoError(t, err)
	assert.Equal(t, "complete", st.Status)
	assert.Equal(t, "paid", st.PaymentStatus)
	assert.Equal(t, int64(2500), st.AmountTotal)
	assert.Equal(t, "o1", st.Metadata["order_id"])
}
