package repository

import (
	"context"

	"animehub/internal/domain/model"
)

type PaymentTransactionRepository interface {
	Create(ctx context.Context, tx model.PaymentTransaction) error
	FindBySessionID(ctx context.Context, sessionID string) (model.PaymentTransaction, error)

	//status/payment_statusの2フィールドだけを上書きする
	UpdateStatus(ctx context.Context, sessionID string, status string, paymentStatus model.PaymentStatus) error
}
