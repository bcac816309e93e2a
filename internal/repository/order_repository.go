package repository

import (
	"context"

	"animehub/internal/domain/model"
)

type OrderRepository interface {
	Create(ctx context.Context, o model.Order) error
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	ListByUserID(ctx context.Context, userID string) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)

	//作成済み注文にプロバイダのセッションIDを付ける
	AttachSession(ctx context.Context, orderID string, sessionID string) error

	//管理者用の任意ステータス更新
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error

	//pendingのときだけcompletedへ。遷移したかどうかを返す。
	//既にcompletedならfalse, nil（冪等）。
	CompleteIfPending(ctx context.Context, orderID string) (bool, error)
}
