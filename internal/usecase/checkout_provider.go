package usecase

import (
	"context"
	"errors"
)

// 署名ヘッダが検証できない
var ErrInvalidWebhookSignature = errors.New("invalid webhook signature")

// APIキー未設定
var ErrProviderNotConfigured = errors.New("payment provider not configured")

type CheckoutSessionInput struct {
	//セント単位
	Amount     int64
	Currency   string
	SuccessURL string
	CancelURL  string

	//セッション作成時に添付し、status/webhookでそのまま返ってくる。
	//order_id/user_idを運ぶ唯一の経路。
	Metadata map[string]string
}

type CheckoutSession struct {
	ID  string
	URL string
}

type CheckoutStatus struct {
	Status        string
	PaymentStatus string
	AmountTotal   int64
	Currency      string
	Metadata      map[string]string
}

type CheckoutWebhookEvent struct {
	SessionID     string
	Status        string
	PaymentStatus string
	Metadata      map[string]string
}

// CheckoutProviderはホステッドチェックアウトの外部プロバイダ。
type CheckoutProvider interface {
	CreateSession(ctx context.Context, in CheckoutSessionInput) (CheckoutSession, error)
	GetStatus(ctx context.Context, sessionID string) (CheckoutStatus, error)

	//署名NGはErrInvalidWebhookSignature
	VerifyWebhook(body []byte, signature string) (CheckoutWebhookEvent, error)
}
