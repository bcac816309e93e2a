package repository

import (
	"context"

	"animehub/internal/domain/model"
)

type CartItemRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]model.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID string, productID string) (model.CartItem, error)
	Create(ctx context.Context, item model.CartItem) error

	//userIDスコープで更新（他人の行は触れない）
	UpdateQuantity(ctx context.Context, itemID string, userID string, quantity int64) error
	DeleteByID(ctx context.Context, itemID string, userID string) error

	//ユーザーの全行を削除。既に空でもエラーにしない。
	ClearByUserID(ctx context.Context, userID string) error
}
