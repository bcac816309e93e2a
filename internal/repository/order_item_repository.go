package repository

import (
	"context"

	"animehub/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error)
}
